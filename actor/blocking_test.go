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

	gerrors "github.com/emberline/troupe/errors"
)

func TestBlocking_ReceiveAndReply(t *testing.T) {
	system := testSystem(t)

	pid, err := system.SpawnBlocking("adder", BlockingFunc(func(ctx *BlockingContext) {
		for {
			err := ctx.Receive(func(rctx *ReceiveContext) {
				if n, ok := rctx.Payload().(int); ok {
					_ = rctx.Reply(n + 1)
					return
				}
				rctx.Unhandled()
			})
			if err != nil {
				return
			}
		}
	}))
	require.NoError(t, err)

	response, err := system.Ask(context.Background(), pid, time.Second, 41)
	require.NoError(t, err)
	assert.Equal(t, 42, response.At(0))

	require.NoError(t, system.Kill(pid))
	eventually(t, pid.IsDone)
}

func TestBlocking_ReceiveTimeout(t *testing.T) {
	system := testSystem(t)

	timedOut := make(chan struct{}, 1)
	pid, err := system.SpawnBlocking("impatient", BlockingFunc(func(ctx *BlockingContext) {
		err := ctx.ReceiveTimeout(20*time.Millisecond, func(*ReceiveContext) {})
		if errors.Is(err, gerrors.ErrReceiveTimeout) {
			timedOut <- struct{}{}
		}
		ctx.Quit(ReasonNormal)
	}))
	require.NoError(t, err)

	select {
	case <-timedOut:
	case <-time.After(3 * time.Second):
		t.Fatal("receive did not time out")
	}
	eventually(t, pid.IsDone)
}

func TestBlocking_QuitUnwindsReceiveLoop(t *testing.T) {
	system := testSystem(t)

	pid, err := system.SpawnBlocking("quitter", BlockingFunc(func(ctx *BlockingContext) {
		for {
			err := ctx.Receive(func(rctx *ReceiveContext) {
				if rctx.Payload() == "quit" {
					rctx.Quit(ReasonNormal)
				}
			})
			if err != nil {
				return
			}
		}
	}))
	require.NoError(t, err)

	require.NoError(t, system.Tell(pid, "quit"))
	eventually(t, pid.IsDone)

	reason, exited := pid.ExitReason()
	require.True(t, exited)
	assert.Equal(t, ReasonNormal, reason)
}

func TestBlocking_SelectiveReceiveKeepsCache(t *testing.T) {
	system := testSystem(t)
	got := make(chan []any, 1)

	pid, err := system.SpawnBlocking("selective", BlockingFunc(func(ctx *BlockingContext) {
		var seen []any

		// wait for the release marker first, skipping everything else
		err := ctx.Receive(func(rctx *ReceiveContext) {
			if rctx.Payload() != "release" {
				rctx.Skip()
				return
			}
			seen = append(seen, rctx.Payload())
		})
		require.NoError(t, err)

		// the skipped message is still there for the next receive
		err = ctx.Receive(func(rctx *ReceiveContext) {
			seen = append(seen, rctx.Payload())
		})
		require.NoError(t, err)

		got <- seen
		ctx.Quit(ReasonNormal)
	}))
	require.NoError(t, err)

	require.NoError(t, system.Tell(pid, "work"))
	require.NoError(t, system.Tell(pid, "release"))

	select {
	case seen := <-got:
		assert.Equal(t, []any{"release", "work"}, seen)
	case <-time.After(3 * time.Second):
		t.Fatal("blocking actor never finished")
	}
	eventually(t, pid.IsDone)
}
