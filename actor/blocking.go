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
	"time"

	"github.com/emberline/troupe/address"
	gerrors "github.com/emberline/troupe/errors"
	"github.com/emberline/troupe/log"
)

// BlockingActor runs on a dedicated goroutine and consumes its mailbox with
// blocking receives instead of a behavior stack.
type BlockingActor interface {
	Run(ctx *BlockingContext)
}

// BlockingFunc adapts a plain function to a BlockingActor.
type BlockingFunc func(ctx *BlockingContext)

var _ BlockingActor = BlockingFunc(nil)

// Run invokes the wrapped function.
func (f BlockingFunc) Run(ctx *BlockingContext) {
	f(ctx)
}

// BlockingContext is the surface of a thread-mapped actor. Receive and
// ReceiveTimeout are the only suspension points; once the actor quit, every
// receive fails with ErrActorAlreadyStopped and Run is expected to return.
type BlockingContext struct {
	pid *PID
}

// Self returns the handle of the actor.
func (bctx *BlockingContext) Self() *PID {
	return bctx.pid
}

// ActorSystem returns the actor system.
func (bctx *BlockingContext) ActorSystem() *ActorSystem {
	return bctx.pid.system
}

// Logger returns the system logger.
func (bctx *BlockingContext) Logger() log.Logger {
	return bctx.pid.logger
}

// Receive blocks until a message matched the given handler. Messages the
// handler skips stay cached for later receives.
func (bctx *BlockingContext) Receive(handler Behavior) error {
	return bctx.receive(handler, 0)
}

// ReceiveTimeout behaves like Receive and gives up after the given duration
// with ErrReceiveTimeout.
func (bctx *BlockingContext) ReceiveTimeout(timeout time.Duration, handler Behavior) error {
	return bctx.receive(handler, timeout)
}

func (bctx *BlockingContext) receive(handler Behavior, timeout time.Duration) error {
	pid := bctx.pid
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	// cached elements first: a new handler may match what earlier ones skipped
	if consumed, err := bctx.receiveFromCache(handler); consumed || err != nil {
		return err
	}

	for {
		if pid.IsDone() {
			return gerrors.ErrActorAlreadyStopped
		}

		node := pid.mailbox.TryPop()
		if node == nil {
			wait := time.Duration(0)
			if timeout > 0 {
				wait = time.Until(deadline)
				if wait <= 0 {
					return gerrors.ErrReceiveTimeout
				}
			}
			if err := pid.mailbox.AwaitNonEmpty(wait); err != nil {
				return err
			}
			continue
		}

		result := pid.invokeMessage(node, handler)
		if result == invokeSkipped {
			pid.cache = append(pid.cache, node)
			continue
		}
		consumed, err := bctx.afterDispatch(node, result)
		if consumed || err != nil {
			return err
		}
	}
}

// receiveFromCache replays cached elements against the handler.
func (bctx *BlockingContext) receiveFromCache(handler Behavior) (bool, error) {
	pid := bctx.pid
	snapshot := pid.cache
	pid.cache = nil
	pid.cacheDirty = false

	for index, node := range snapshot {
		result := pid.invokeMessage(node, handler)
		if result == invokeSkipped {
			pid.cache = append(pid.cache, node)
			continue
		}
		consumed, err := bctx.afterDispatch(node, result)
		if consumed || err != nil {
			pid.cache = append(pid.cache, snapshot[index+1:]...)
			return consumed, err
		}
	}
	return false, nil
}

// afterDispatch resolves a blocking dispatch outcome. The sentinel result of
// a quit unwinds the receive loop instead of an exception.
func (bctx *BlockingContext) afterDispatch(node *MailboxElement, result invokeResult) (bool, error) {
	pid := bctx.pid
	if result == invokeDropped {
		pid.system.recordDeadletter(node, pid.address, gerrors.ErrUnhandled)
	}
	if pid.hasPlanned {
		pid.finalize()
		if pid.IsDone() {
			return false, gerrors.ErrActorAlreadyStopped
		}
	}
	return result == invokeConsumed, nil
}

// Send delivers an asynchronous message with normal priority.
func (bctx *BlockingContext) Send(to *PID, values ...any) {
	bctx.pid.sendTo(to, NormalPriority, values...)
}

// SendWithPriority delivers an asynchronous message with the given priority.
func (bctx *BlockingContext) SendWithPriority(priority Priority, to *PID, values ...any) {
	bctx.pid.sendTo(to, priority, values...)
}

// DelayedSend schedules an ordinary send after the given delay.
func (bctx *BlockingContext) DelayedSend(to *PID, delay time.Duration, values ...any) {
	if delay <= 0 {
		bctx.pid.sendTo(to, NormalPriority, values...)
		return
	}
	bctx.pid.delayedSendTo(to, delay, NormalPriority, values...)
}

// SendExit delivers an exit message to the destination.
func (bctx *BlockingContext) SendExit(to *address.Address, reason ExitReason) {
	bctx.pid.sendExitTo(to, reason)
}

// SyncSend issues a request; await the response with a later Receive whose
// handler was installed through the returned handle.
func (bctx *BlockingContext) SyncSend(to *PID, values ...any) (*RequestHandle, error) {
	return bctx.pid.syncSendTo(to, 0, NormalPriority, values...)
}

// TimedSyncSend issues a request that expires after the given timeout.
func (bctx *BlockingContext) TimedSyncSend(to *PID, timeout time.Duration, values ...any) (*RequestHandle, error) {
	return bctx.pid.syncSendTo(to, timeout, NormalPriority, values...)
}

// OnSyncFailure installs the sync failure handler.
func (bctx *BlockingContext) OnSyncFailure(handler func()) {
	bctx.pid.syncFailureHandler = handler
}

// TrapExit toggles the trapping of exit messages.
func (bctx *BlockingContext) TrapExit(trap bool) {
	bctx.pid.trapExit = trap
}

// LinkTo establishes a symmetric link with the peer.
func (bctx *BlockingContext) LinkTo(peer *address.Address) error {
	return bctx.pid.linkTo(peer)
}

// Unlink removes the link with the peer on both sides.
func (bctx *BlockingContext) Unlink(peer *address.Address) {
	bctx.pid.unlink(peer)
}

// Monitor adds a one-way observation of the peer.
func (bctx *BlockingContext) Monitor(peer *address.Address) {
	bctx.pid.monitor(peer)
}

// Demonitor removes at most one pending monitor on the peer.
func (bctx *BlockingContext) Demonitor(peer *address.Address) {
	bctx.pid.demonitor(peer)
}

// Attach registers a finalization hook.
func (bctx *BlockingContext) Attach(attachable Attachable) {
	bctx.pid.watch.attach(attachable)
}

// Quit finishes execution of the actor; the next Receive reports
// ErrActorAlreadyStopped so Run can unwind.
func (bctx *BlockingContext) Quit(reason ExitReason) {
	bctx.pid.doQuit(reason)
	bctx.pid.finalize()
}

// blockingLoop hosts a thread-mapped actor for its whole lifetime.
func (pid *PID) blockingLoop(actor BlockingActor) {
	pid.state.Store(runningState)
	bctx := &BlockingContext{pid: pid}
	actor.Run(bctx)
	if !pid.IsDone() {
		if !pid.hasPlanned {
			pid.doQuit(ReasonNormal)
		}
		pid.finalize()
	}
}
