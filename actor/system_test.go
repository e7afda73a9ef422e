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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/emberline/troupe/errors"
	"github.com/emberline/troupe/log"
)

func TestActorSystem_NameRequired(t *testing.T) {
	_, err := NewActorSystem("  ")
	assert.ErrorIs(t, err, gerrors.ErrNameRequired)
}

func TestActorSystem_SpawnRequiresStart(t *testing.T) {
	system, err := NewActorSystem("coldsys", WithLogger(log.DiscardLogger))
	require.NoError(t, err)

	_, err = system.SpawnFunc("early", func(*ReceiveContext) {})
	assert.ErrorIs(t, err, gerrors.ErrActorSystemNotStarted)

	err = system.Stop(context.Background())
	assert.ErrorIs(t, err, gerrors.ErrActorSystemNotStarted)
}

func TestActorSystem_Ask(t *testing.T) {
	system := testSystem(t)
	echo := spawnEcho(t, system, "echo")

	response, err := system.Ask(context.Background(), echo, time.Second, 41)
	require.NoError(t, err)
	assert.Equal(t, 42, response.At(0))
}

func TestActorSystem_AskTimeout(t *testing.T) {
	system := testSystem(t)
	mute, err := system.SpawnFunc("mute", func(*ReceiveContext) {})
	require.NoError(t, err)

	_, err = system.Ask(context.Background(), mute, 20*time.Millisecond)
	assert.ErrorIs(t, err, gerrors.ErrRequestTimeout)
}

func TestActorSystem_KillIgnoresTrapExit(t *testing.T) {
	system := testSystem(t)
	pid, err := system.SpawnFunc("victim", func(*ReceiveContext) {}, WithTrapExit())
	require.NoError(t, err)

	require.NoError(t, system.Kill(pid))
	eventually(t, pid.IsDone)

	reason, exited := pid.ExitReason()
	require.True(t, exited)
	assert.Equal(t, ReasonKill, reason)
}

func TestActorSystem_ActorsCountExcludesHidden(t *testing.T) {
	system := testSystem(t)
	require.Zero(t, system.ActorsCount())

	visible, err := system.SpawnFunc("visible", func(*ReceiveContext) {})
	require.NoError(t, err)
	_, err = system.SpawnFunc("plumbing", func(*ReceiveContext) {}, WithHidden())
	require.NoError(t, err)

	assert.Equal(t, int64(1), system.ActorsCount())

	require.NoError(t, system.Kill(visible))
	eventually(t, func() bool { return system.ActorsCount() == 0 })
}

func TestActorSystem_DeadletterOnClosedMailbox(t *testing.T) {
	system := testSystem(t)
	pid, err := system.SpawnFunc("target", func(*ReceiveContext) {})
	require.NoError(t, err)

	subscriber := system.Events().AddSubscriber()
	system.Events().Subscribe(subscriber, TopicDeadletters)

	require.NoError(t, system.Kill(pid))
	eventually(t, pid.IsDone)

	err = system.Tell(pid, "too late")
	assert.ErrorIs(t, err, gerrors.ErrMailboxClosed)

	eventually(t, func() bool { return len(system.Deadletters()) > 0 })
	deadletters := system.Deadletters()
	last := deadletters[len(deadletters)-1]
	assert.True(t, last.To.Equals(pid.Address()))
	assert.Equal(t, "too late", last.Message.At(0))

	eventually(t, func() bool {
		for message := range subscriber.Iterator() {
			if _, ok := message.Payload().(*Deadletter); ok {
				return true
			}
		}
		return false
	})
}

func TestActorSystem_LifecycleEvents(t *testing.T) {
	system := testSystem(t)

	subscriber := system.Events().AddSubscriber()
	system.Events().Subscribe(subscriber, TopicLifecycle)

	pid, err := system.SpawnFunc("ephemeral", func(ctx *ReceiveContext) {
		ctx.Quit(ReasonNormal)
	})
	require.NoError(t, err)
	require.NoError(t, system.Tell(pid, "go"))
	eventually(t, pid.IsDone)

	var started, stopped bool
	eventually(t, func() bool {
		for message := range subscriber.Iterator() {
			switch message.Payload().(type) {
			case *ActorStarted:
				started = true
			case *ActorStopped:
				stopped = true
			}
		}
		return started && stopped
	})
}

func TestActorSystem_StopTerminatesActors(t *testing.T) {
	system, err := NewActorSystem("stopsys", WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(context.Background()))

	pids := make([]*PID, 0, 5)
	for i := 0; i < 5; i++ {
		pid, err := system.SpawnFunc("worker", func(*ReceiveContext) {})
		require.NoError(t, err)
		pids = append(pids, pid)
	}

	require.NoError(t, system.Stop(context.Background()))
	for _, pid := range pids {
		assert.True(t, pid.IsDone())
		reason, _ := pid.ExitReason()
		assert.Equal(t, ReasonUserShutdown, reason)
	}
}

func TestActorSystem_ZeroDelayDelayedSendKeepsOrder(t *testing.T) {
	system := testSystem(t)
	got := make(chan int, 2)

	receiver, err := system.SpawnFunc("receiver", func(ctx *ReceiveContext) {
		got <- ctx.Payload().(int)
	})
	require.NoError(t, err)

	sender, err := system.SpawnFunc("sender", func(ctx *ReceiveContext) {
		ctx.DelayedSend(receiver, 0, 1)
		ctx.Send(receiver, 2)
	})
	require.NoError(t, err)
	require.NoError(t, system.Tell(sender, "go"))

	assert.Equal(t, 1, <-got)
	assert.Equal(t, 2, <-got)
}
