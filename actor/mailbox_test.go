/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package actor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberline/troupe/address"
	gerrors "github.com/emberline/troupe/errors"
)

func element(sender *address.Address, value int) *MailboxElement {
	return newMailboxElement(sender, asyncMessageID(NormalPriority), NewMessage(value))
}

func TestMailbox_Basic(t *testing.T) {
	mailbox := NewMailbox()
	sender := address.New(1, "producer", "testsys")

	in1 := element(sender, 1)
	in2 := element(sender, 2)

	assert.Equal(t, enqueued, mailbox.Enqueue(in1))
	assert.Equal(t, enqueued, mailbox.Enqueue(in2))
	assert.Equal(t, 2, mailbox.Len())

	out1 := mailbox.TryPop()
	out2 := mailbox.TryPop()
	assert.Equal(t, in1, out1)
	assert.Equal(t, in2, out2)
	assert.True(t, mailbox.IsEmpty())

	// pop on empty should return nil
	assert.Nil(t, mailbox.TryPop())
}

func TestMailbox_FIFOPerProducer(t *testing.T) {
	producers := 4
	perProducer := 200
	mailbox := NewMailbox()

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		sender := address.New(uint64(p+1), "producer", "testsys")
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				mailbox.Enqueue(element(sender, i))
			}
		}()
	}

	lastSeen := make(map[uint64]int)
	received := 0
	for received < producers*perProducer {
		node := mailbox.TryPop()
		if node == nil {
			continue
		}
		received++
		id := node.Sender().ID()
		value := node.Message().At(0).(int)
		if last, ok := lastSeen[id]; ok {
			require.Greater(t, value, last)
		}
		lastSeen[id] = value
	}
	wg.Wait()
	assert.True(t, mailbox.IsEmpty())
}

func TestMailbox_SleepWake(t *testing.T) {
	mailbox := NewMailbox()
	sender := address.New(1, "producer", "testsys")

	require.True(t, mailbox.TryBlock())
	// first producer into a sleeping mailbox owns the wake-up
	assert.Equal(t, unblockedReader, mailbox.Enqueue(element(sender, 1)))
	assert.Equal(t, enqueued, mailbox.Enqueue(element(sender, 2)))

	assert.NotNil(t, mailbox.TryPop())
	assert.NotNil(t, mailbox.TryPop())

	// blocking fails while data is queued
	mailbox.Enqueue(element(sender, 3))
	assert.False(t, mailbox.TryBlock())
}

func TestMailbox_AwaitNonEmpty(t *testing.T) {
	mailbox := NewMailbox()
	sender := address.New(1, "producer", "testsys")

	err := mailbox.AwaitNonEmpty(20 * time.Millisecond)
	require.True(t, errors.Is(err, gerrors.ErrReceiveTimeout))

	go func() {
		time.Sleep(10 * time.Millisecond)
		mailbox.Enqueue(element(sender, 1))
	}()
	require.NoError(t, mailbox.AwaitNonEmpty(time.Second))
	assert.NotNil(t, mailbox.TryPop())
}

func TestMailbox_Close(t *testing.T) {
	mailbox := NewMailbox()
	sender := address.New(1, "producer", "testsys")

	mailbox.Enqueue(element(sender, 1))
	mailbox.Enqueue(element(sender, 2))
	require.NotNil(t, mailbox.TryPop())
	mailbox.Enqueue(element(sender, 3))

	drained := mailbox.Close()
	require.Len(t, drained, 2)
	assert.Equal(t, 2, drained[0].Message().At(0))
	assert.Equal(t, 3, drained[1].Message().At(0))

	assert.True(t, mailbox.IsClosed())
	assert.Equal(t, mailboxClosed, mailbox.Enqueue(element(sender, 4)))
	assert.True(t, mailbox.IsEmpty())
}
