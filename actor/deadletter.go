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
	"sync"
	"time"

	gods "github.com/Workiva/go-datastructures/queue"

	"github.com/emberline/troupe/address"
)

// TopicDeadletters is the event stream topic carrying Deadletter events.
const TopicDeadletters = "deadletters"

// Deadletter describes a message the runtime could not deliver or no handler
// wanted.
type Deadletter struct {
	// Sender is the producer of the message, or the no-sender sentinel.
	Sender *address.Address
	// To is the intended destination.
	To *address.Address
	// ID is the message correlator.
	ID MessageID
	// Message is the undelivered message.
	Message *Message
	// Reason explains why the message ended here.
	Reason error
	// At is the time the deadletter was recorded.
	At time.Time
}

// deadletterBuffer retains the most recent deadletters in a bounded ring for
// inspection. Older entries are evicted first.
type deadletterBuffer struct {
	mu   sync.Mutex
	ring *gods.RingBuffer
}

func newDeadletterBuffer(capacity int) *deadletterBuffer {
	return &deadletterBuffer{
		ring: gods.NewRingBuffer(uint64(capacity)),
	}
}

// append records a deadletter, evicting the oldest entry when full.
func (b *deadletterBuffer) append(deadletter *Deadletter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ring.Len() == b.ring.Cap() {
		_, _ = b.ring.Get()
	}
	_, _ = b.ring.Offer(deadletter)
}

// list returns a snapshot of the retained deadletters, oldest first.
func (b *deadletterBuffer) list() []*Deadletter {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := int(b.ring.Len())
	out := make([]*Deadletter, 0, count)
	for i := 0; i < count; i++ {
		item, err := b.ring.Get()
		if err != nil {
			break
		}
		deadletter := item.(*Deadletter)
		out = append(out, deadletter)
		_, _ = b.ring.Offer(deadletter)
	}
	return out
}

// dispose releases the underlying ring.
func (b *deadletterBuffer) dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ring.Dispose()
}
