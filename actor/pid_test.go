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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberline/troupe/address"
	gerrors "github.com/emberline/troupe/errors"
	"github.com/emberline/troupe/log"
)

func TestPID_EchoSyncSend(t *testing.T) {
	system := testSystem(t)
	echo := spawnEcho(t, system, "echo")

	type exchange struct {
		requestSeq uint64
		responseID MessageID
		value      int
	}
	got := make(chan exchange, 1)

	requester, err := system.SpawnFunc("requester", func(ctx *ReceiveContext) {
		if ctx.Payload() != "go" {
			ctx.Unhandled()
			return
		}
		handle, err := ctx.SyncSend(echo, 41)
		require.NoError(t, err)
		responseID := handle.ResponseID()
		handle.Then(func(rctx *ReceiveContext) {
			got <- exchange{
				requestSeq: responseID.SequenceNumber(),
				responseID: rctx.MessageID(),
				value:      rctx.Payload().(int),
			}
		})
	})
	require.NoError(t, err)
	require.NoError(t, system.Tell(requester, "go"))

	select {
	case result := <-got:
		assert.Equal(t, 42, result.value)
		assert.Equal(t, uint64(1), result.requestSeq)
		assert.True(t, result.responseID.IsResponse())
		assert.Equal(t, result.requestSeq, result.responseID.SequenceNumber())
	case <-time.After(3 * time.Second):
		t.Fatal("no response")
	}
}

// The peer answers the second request first; the requester must hold that
// response back until the first one completed.
func TestPID_OutOfOrderResponses(t *testing.T) {
	system := testSystem(t)
	order := make(chan string, 2)

	var first *ResponsePromise
	peer, err := system.SpawnFunc("peer", func(ctx *ReceiveContext) {
		switch ctx.Payload() {
		case "r1":
			first = ctx.MakeResponsePromise()
		case "r2":
			second := ctx.MakeResponsePromise()
			require.NoError(t, second.Deliver("resp2"))
			require.NoError(t, first.Deliver("resp1"))
		}
	})
	require.NoError(t, err)

	requester, err := system.SpawnFunc("requester", func(ctx *ReceiveContext) {
		if ctx.Payload() != "start" {
			ctx.Unhandled()
			return
		}
		h1, err := ctx.SyncSend(peer, "r1")
		require.NoError(t, err)
		h2, err := ctx.SyncSend(peer, "r2")
		require.NoError(t, err)

		h1.Then(func(rctx *ReceiveContext) {
			order <- "r1:" + rctx.Payload().(string)
			h2.Then(func(rctx *ReceiveContext) {
				order <- "r2:" + rctx.Payload().(string)
			})
		})
	})
	require.NoError(t, err)
	require.NoError(t, system.Tell(requester, "start"))

	require.Equal(t, "r1:resp1", <-order)
	require.Equal(t, "r2:resp2", <-order)
}

func TestPID_LinkPropagation(t *testing.T) {
	system := testSystem(t)
	reason := ExitReason(uint32(ReasonUserDefined) + 7)

	b, err := system.SpawnFunc("b", func(ctx *ReceiveContext) {})
	require.NoError(t, err)

	downs := make(chan *Down, 1)
	watcher, err := system.SpawnFunc("watcher", func(ctx *ReceiveContext) {
		switch payload := ctx.Payload().(type) {
		case string:
			ctx.Monitor(b.Address())
			require.NoError(t, ctx.Reply("ok"))
		case *Down:
			downs <- payload
		}
	})
	require.NoError(t, err)
	_, err = system.Ask(context.Background(), watcher, time.Second, "mon")
	require.NoError(t, err)

	a, err := system.SpawnFunc("a", func(ctx *ReceiveContext) {
		switch ctx.Payload() {
		case "link":
			require.NoError(t, ctx.LinkTo(b.Address()))
			require.NoError(t, ctx.Reply("ok"))
		case "quit":
			ctx.Quit(reason)
		}
	})
	require.NoError(t, err)
	_, err = system.Ask(context.Background(), a, time.Second, "link")
	require.NoError(t, err)

	require.NoError(t, system.Tell(a, "quit"))

	eventually(t, a.IsDone)
	eventually(t, b.IsDone)

	got, exited := b.ExitReason()
	require.True(t, exited)
	assert.Equal(t, reason, got)

	select {
	case down := <-downs:
		assert.True(t, down.From.Equals(b.Address()))
		assert.Equal(t, reason, down.Reason)
	case <-time.After(3 * time.Second):
		t.Fatal("no down notification")
	}
}

func TestPID_TrapExit(t *testing.T) {
	system := testSystem(t)
	reason := ExitReason(uint32(ReasonUserDefined) + 3)

	b, err := system.SpawnFunc("b", func(ctx *ReceiveContext) {
		if ctx.Payload() == "quit" {
			ctx.Quit(reason)
		}
	})
	require.NoError(t, err)

	exits := make(chan *Exit, 1)
	a, err := system.SpawnFunc("a", func(ctx *ReceiveContext) {
		switch payload := ctx.Payload().(type) {
		case string:
			require.NoError(t, ctx.LinkTo(b.Address()))
			require.NoError(t, ctx.Reply("ok"))
		case *Exit:
			exits <- payload
		}
	}, WithTrapExit())
	require.NoError(t, err)
	_, err = system.Ask(context.Background(), a, time.Second, "link")
	require.NoError(t, err)

	require.NoError(t, system.Tell(b, "quit"))

	select {
	case exit := <-exits:
		assert.True(t, exit.From.Equals(b.Address()))
		assert.Equal(t, reason, exit.Reason)
	case <-time.After(3 * time.Second):
		t.Fatal("no exit message")
	}
	assert.False(t, a.IsDone())
}

func TestPID_LinkToExitedPeer(t *testing.T) {
	system := testSystem(t)

	b, err := system.SpawnFunc("b", func(ctx *ReceiveContext) {
		if ctx.Payload() == "quit" {
			ctx.Quit(ExitReason(uint32(ReasonUserDefined) + 9))
		}
	})
	require.NoError(t, err)
	require.NoError(t, system.Tell(b, "quit"))
	eventually(t, b.IsDone)

	exits := make(chan *Exit, 1)
	a, err := system.SpawnFunc("a", func(ctx *ReceiveContext) {
		switch ctx.Payload().(type) {
		case string:
			require.NoError(t, ctx.LinkTo(b.Address()))
		case *Exit:
			exits <- ctx.Payload().(*Exit)
		}
	}, WithTrapExit())
	require.NoError(t, err)
	require.NoError(t, system.Tell(a, "link"))

	select {
	case exit := <-exits:
		assert.True(t, exit.From.Equals(b.Address()))
		assert.Equal(t, ExitReason(uint32(ReasonUserDefined)+9), exit.Reason)
	case <-time.After(3 * time.Second):
		t.Fatal("no exit message for dead peer")
	}
}

func TestPID_SyncTimeout(t *testing.T) {
	system := testSystem(t)

	// peer that never replies
	peer, err := system.SpawnFunc("mute", func(ctx *ReceiveContext) {})
	require.NoError(t, err)

	t.Run("without handler the actor exits", func(t *testing.T) {
		requester, err := system.SpawnFunc("requester1", func(ctx *ReceiveContext) {
			handle, err := ctx.TimedSyncSend(peer, 10*time.Millisecond, "ping")
			require.NoError(t, err)
			handle.Then(func(*ReceiveContext) { t.Error("unexpected response") })
		})
		require.NoError(t, err)
		require.NoError(t, system.Tell(requester, "start"))

		eventually(t, requester.IsDone)
		reason, exited := requester.ExitReason()
		require.True(t, exited)
		assert.Equal(t, ReasonUnhandledSyncFailure, reason)
	})

	t.Run("with handler the actor survives", func(t *testing.T) {
		failed := make(chan struct{}, 1)
		requester, err := system.SpawnFunc("requester2", func(ctx *ReceiveContext) {
			ctx.OnSyncFailure(func() { failed <- struct{}{} })
			handle, err := ctx.TimedSyncSend(peer, 10*time.Millisecond, "ping")
			require.NoError(t, err)
			handle.Then(func(*ReceiveContext) { t.Error("unexpected response") })
		})
		require.NoError(t, err)
		require.NoError(t, system.Tell(requester, "start"))

		select {
		case <-failed:
		case <-time.After(3 * time.Second):
			t.Fatal("sync failure handler did not run")
		}
		assert.False(t, requester.IsDone())
	})
}

func TestPID_ErrorResponseRunsSyncFailure(t *testing.T) {
	system := testSystem(t)

	peer, err := system.SpawnFunc("failing", func(ctx *ReceiveContext) {
		require.NoError(t, ctx.ReplyErr(errors.New("boom")))
	})
	require.NoError(t, err)

	failed := make(chan struct{}, 1)
	requester, err := system.SpawnFunc("requester", func(ctx *ReceiveContext) {
		if ctx.Payload() != "start" {
			return
		}
		ctx.OnSyncFailure(func() { failed <- struct{}{} })
		handle, err := ctx.SyncSend(peer, "ping")
		require.NoError(t, err)
		handle.Then(func(*ReceiveContext) { t.Error("unexpected response") })
	})
	require.NoError(t, err)
	require.NoError(t, system.Tell(requester, "start"))

	select {
	case <-failed:
	case <-time.After(3 * time.Second):
		t.Fatal("sync failure handler did not run")
	}
}

func TestPID_ThroughputCap(t *testing.T) {
	system, err := NewActorSystem("capsys", WithLogger(log.DiscardLogger))
	require.NoError(t, err)

	pid := newPID(system, address.New(999, "cap", "capsys"), nil)
	processed := 0
	pid.behaviors.Push(func(*ReceiveContext) { processed++ })

	sender := address.New(1, "producer", "capsys")
	total, limit := 100, 10
	for i := 0; i < total; i++ {
		pid.mailbox.Enqueue(element(sender, i))
	}

	result := pid.Resume(nil, limit)
	assert.Equal(t, ResumeLater, result)
	assert.Equal(t, limit, processed)

	// drain the rest
	for !pid.mailbox.IsEmpty() {
		pid.Resume(nil, limit)
	}
	assert.Equal(t, total, processed)
}

func TestPID_ForwardPreservesSender(t *testing.T) {
	system := testSystem(t)

	type seen struct {
		sender *address.Address
		value  any
	}
	got := make(chan seen, 1)

	final, err := system.SpawnFunc("final", func(ctx *ReceiveContext) {
		got <- seen{sender: ctx.Sender(), value: ctx.Payload()}
	})
	require.NoError(t, err)

	relay, err := system.SpawnFunc("relay", func(ctx *ReceiveContext) {
		require.NoError(t, ctx.Forward(final, HighPriority))
	})
	require.NoError(t, err)

	origin, err := system.SpawnFunc("origin", func(ctx *ReceiveContext) {
		ctx.Send(relay, "hello")
	})
	require.NoError(t, err)
	require.NoError(t, system.Tell(origin, "go"))

	select {
	case result := <-got:
		assert.Equal(t, "hello", result.value)
		assert.True(t, result.sender.Equals(origin.Address()))
	case <-time.After(3 * time.Second):
		t.Fatal("forwarded message never arrived")
	}
}

func TestPID_ForwardResponseRefused(t *testing.T) {
	system := testSystem(t)
	echo := spawnEcho(t, system, "echo")
	bystander := spawnEcho(t, system, "bystander")

	errs := make(chan error, 1)
	requester, err := system.SpawnFunc("requester", func(ctx *ReceiveContext) {
		if ctx.Payload() != "start" {
			return
		}
		handle, err := ctx.SyncSend(echo, 1)
		require.NoError(t, err)
		handle.Then(func(rctx *ReceiveContext) {
			errs <- rctx.Forward(bystander, NormalPriority)
		})
	})
	require.NoError(t, err)
	require.NoError(t, system.Tell(requester, "start"))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, gerrors.ErrForwardResponse)
	case <-time.After(3 * time.Second):
		t.Fatal("no forward attempt")
	}
}

func TestPID_PanicTerminatesWithMappedReason(t *testing.T) {
	system := testSystem(t)
	custom := ExitReason(uint32(ReasonUserDefined) + 42)

	t.Run("default reason", func(t *testing.T) {
		pid, err := system.SpawnFunc("panicky", func(ctx *ReceiveContext) {
			panic("boom")
		})
		require.NoError(t, err)
		require.NoError(t, system.Tell(pid, "go"))

		eventually(t, pid.IsDone)
		reason, _ := pid.ExitReason()
		assert.Equal(t, ReasonUnhandledException, reason)
	})

	t.Run("mapped by exception handler", func(t *testing.T) {
		pid, err := system.SpawnFunc("mapped", func(ctx *ReceiveContext) {
			ctx.SetExceptionHandler(func(any) ExitReason { return custom })
			panic("boom")
		})
		require.NoError(t, err)
		require.NoError(t, system.Tell(pid, "go"))

		eventually(t, pid.IsDone)
		reason, _ := pid.ExitReason()
		assert.Equal(t, custom, reason)
	})
}

func TestPID_AttachableRunsOnExit(t *testing.T) {
	system := testSystem(t)
	reasons := make(chan ExitReason, 1)

	pid, err := system.SpawnFunc("hooked", func(ctx *ReceiveContext) {
		ctx.Quit(ReasonNormal)
	}, WithAttachable(NewExitHook(func(reason ExitReason) {
		reasons <- reason
	})))
	require.NoError(t, err)
	require.NoError(t, system.Tell(pid, "go"))

	select {
	case reason := <-reasons:
		assert.Equal(t, ReasonNormal, reason)
	case <-time.After(3 * time.Second):
		t.Fatal("attachable did not run")
	}
}

func TestPID_OnExitRebindCancelsQuit(t *testing.T) {
	system := testSystem(t)
	revived := make(chan any, 1)

	actor := NewFuncActor(func(ctx *ReceiveContext) {
		if ctx.Payload() == "quit" {
			ctx.Quit(ExitReason(uint32(ReasonUserDefined) + 1))
		}
	}).WithOnExit(func(ctx *Context) {
		ctx.Become(func(rctx *ReceiveContext) {
			revived <- rctx.Payload()
		})
	})

	pid, err := system.Spawn("phoenix", actor)
	require.NoError(t, err)
	require.NoError(t, system.Tell(pid, "quit"))
	require.NoError(t, system.Tell(pid, "hello"))

	select {
	case payload := <-revived:
		assert.Equal(t, "hello", payload)
	case <-time.After(3 * time.Second):
		t.Fatal("rebind did not keep the actor alive")
	}
	assert.False(t, pid.IsDone())
	_, exited := pid.ExitReason()
	assert.False(t, exited)
}

func TestPID_MonitorDemonitorCounts(t *testing.T) {
	registry := newLinkMonitorRegistry()
	watcher := address.New(7, "watcher", "testsys")

	registry.addMonitor(watcher)
	registry.addMonitor(watcher)
	require.Equal(t, 2, registry.monitorCount(watcher))

	registry.removeMonitor(watcher)
	require.Equal(t, 1, registry.monitorCount(watcher))
	registry.removeMonitor(watcher)
	require.Equal(t, 0, registry.monitorCount(watcher))
}

func TestPID_LinkUnlinkRoundTrip(t *testing.T) {
	registry := newLinkMonitorRegistry()
	peer := address.New(8, "peer", "testsys")

	require.False(t, registry.isLinked(peer))
	registry.addLink(peer)
	registry.addLink(peer) // idempotent
	require.True(t, registry.isLinked(peer))
	require.Len(t, registry.linkedPeers(), 1)

	registry.removeLink(peer)
	require.False(t, registry.isLinked(peer))
	require.Empty(t, registry.linkedPeers())
}

func TestPID_SkippedMessagesReplayAfterBecome(t *testing.T) {
	system := testSystem(t)
	got := make(chan any, 2)

	pid, err := system.SpawnFunc("selective", func(ctx *ReceiveContext) {
		switch ctx.Payload() {
		case "open":
			ctx.BecomeStacked(func(rctx *ReceiveContext) {
				got <- rctx.Payload()
			})
		default:
			// not ready for anything else yet
			ctx.Skip()
		}
	})
	require.NoError(t, err)

	require.NoError(t, system.Tell(pid, "deferred"))
	require.NoError(t, system.Tell(pid, "open"))

	select {
	case payload := <-got:
		assert.Equal(t, "deferred", payload)
	case <-time.After(3 * time.Second):
		t.Fatal("skipped message was not replayed")
	}
}
