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

	"github.com/emberline/troupe/address"
	"github.com/emberline/troupe/log"
)

// contextPool recycles ReceiveContext instances across dispatches.
var contextPool = sync.Pool{New: func() any { return new(ReceiveContext) }}

func contextFromPool(pid *PID, node *MailboxElement) *ReceiveContext {
	ctx := contextPool.Get().(*ReceiveContext)
	ctx.pid = pid
	ctx.node = node
	ctx.skipped = false
	ctx.unhandled = false
	ctx.forwarded = false
	return ctx
}

func releaseContext(ctx *ReceiveContext) {
	ctx.pid = nil
	ctx.node = nil
	contextPool.Put(ctx)
}

// ReceiveContext is handed to a behavior for the duration of a single
// dispatch. It is only valid inside the handler; implementations must not
// retain it.
type ReceiveContext struct {
	pid  *PID
	node *MailboxElement

	skipped   bool
	unhandled bool
	forwarded bool
}

// Self returns the handle of the dispatching actor.
func (rctx *ReceiveContext) Self() *PID {
	return rctx.pid
}

// ActorSystem returns the actor system.
func (rctx *ReceiveContext) ActorSystem() *ActorSystem {
	return rctx.pid.system
}

// Logger returns the system logger.
func (rctx *ReceiveContext) Logger() log.Logger {
	return rctx.pid.logger
}

// Message returns the message under dispatch.
func (rctx *ReceiveContext) Message() *Message {
	return rctx.node.message
}

// Payload returns the first element of the message, or nil for the empty
// message. Convenience for the common single-value case.
func (rctx *ReceiveContext) Payload() any {
	if rctx.node.message.Len() == 0 {
		return nil
	}
	return rctx.node.message.At(0)
}

// MessageID returns the correlator of the message under dispatch.
func (rctx *ReceiveContext) MessageID() MessageID {
	return rctx.node.id
}

// Sender returns the address of the producer of the current message, or the
// no-sender sentinel.
func (rctx *ReceiveContext) Sender() *address.Address {
	return rctx.node.sender
}

// Skip marks the current message as not matching this behavior. The runtime
// caches it and replays it after the next behavior change.
func (rctx *ReceiveContext) Skip() {
	rctx.skipped = true
}

// Unhandled marks the current message as unwanted; it becomes a deadletter.
func (rctx *ReceiveContext) Unhandled() {
	rctx.unhandled = true
}

// Reply responds to the current message. For requests the response carries
// the request's correlator; for asynchronous messages it degrades to an
// ordinary send to the sender.
func (rctx *ReceiveContext) Reply(values ...any) error {
	return rctx.pid.reply(values...)
}

// ReplyErr responds to the current request with an error response, triggering
// the sync failure path of the requester.
func (rctx *ReceiveContext) ReplyErr(err error) error {
	return rctx.pid.reply(&ErrorResponse{Err: err})
}

// Become replaces the active behavior, discarding the previous one.
func (rctx *ReceiveContext) Become(behavior Behavior) {
	rctx.pid.doBecome(behavior, true)
}

// BecomeStacked pushes a behavior on top of the active one.
func (rctx *ReceiveContext) BecomeStacked(behavior Behavior) {
	rctx.pid.doBecome(behavior, false)
}

// UnBecome restores the previous top-of-stack behavior.
func (rctx *ReceiveContext) UnBecome() {
	rctx.pid.unbecome()
}

// Send delivers an asynchronous message with normal priority.
func (rctx *ReceiveContext) Send(to *PID, values ...any) {
	rctx.pid.sendTo(to, NormalPriority, values...)
}

// SendWithPriority delivers an asynchronous message with the given priority.
func (rctx *ReceiveContext) SendWithPriority(priority Priority, to *PID, values ...any) {
	rctx.pid.sendTo(to, priority, values...)
}

// DelayedSend schedules an ordinary send after the given delay. A zero delay
// behaves like an immediate Send with respect to per-sender ordering.
func (rctx *ReceiveContext) DelayedSend(to *PID, delay time.Duration, values ...any) {
	if delay <= 0 {
		rctx.pid.sendTo(to, NormalPriority, values...)
		return
	}
	rctx.pid.delayedSendTo(to, delay, NormalPriority, values...)
}

// SendExit delivers an exit message to the destination.
func (rctx *ReceiveContext) SendExit(to *address.Address, reason ExitReason) {
	rctx.pid.sendExitTo(to, reason)
}

// Forward re-enqueues the current message to the destination with the given
// priority, preserving the original sender. Forwarding a response is refused.
func (rctx *ReceiveContext) Forward(to *PID, priority Priority) error {
	return rctx.pid.forwardMessage(to, priority, rctx)
}

// SyncSend issues a request to the destination and returns a handle used to
// install the response handler. Sending to an invalid destination fails
// synchronously.
func (rctx *ReceiveContext) SyncSend(to *PID, values ...any) (*RequestHandle, error) {
	return rctx.pid.syncSendTo(to, 0, NormalPriority, values...)
}

// TimedSyncSend behaves like SyncSend and additionally expires the request
// after the given timeout, running the sync failure path.
func (rctx *ReceiveContext) TimedSyncSend(to *PID, timeout time.Duration, values ...any) (*RequestHandle, error) {
	return rctx.pid.syncSendTo(to, timeout, NormalPriority, values...)
}

// OnSyncFailure installs the handler invoked when a timed request expires or
// an error response arrives. Without a handler the actor exits.
func (rctx *ReceiveContext) OnSyncFailure(handler func()) {
	rctx.pid.syncFailureHandler = handler
}

// TrapExit toggles the trapping of exit messages. A trapping actor receives
// them as ordinary messages instead of terminating.
func (rctx *ReceiveContext) TrapExit(trap bool) {
	rctx.pid.trapExit = trap
}

// LinkTo establishes a symmetric link with the peer.
func (rctx *ReceiveContext) LinkTo(peer *address.Address) error {
	return rctx.pid.linkTo(peer)
}

// Unlink removes the link with the peer on both sides.
func (rctx *ReceiveContext) Unlink(peer *address.Address) {
	rctx.pid.unlink(peer)
}

// Monitor adds a one-way observation of the peer. Each call yields exactly
// one down notification when the peer exits.
func (rctx *ReceiveContext) Monitor(peer *address.Address) {
	rctx.pid.monitor(peer)
}

// Demonitor removes at most one pending monitor on the peer.
func (rctx *ReceiveContext) Demonitor(peer *address.Address) {
	rctx.pid.demonitor(peer)
}

// Attach registers a finalization hook on the dispatching actor.
func (rctx *ReceiveContext) Attach(attachable Attachable) {
	rctx.pid.watch.attach(attachable)
}

// SetExceptionHandler installs a panic-to-exit-reason mapping. The handler
// installed first wins; later ones do not override it.
func (rctx *ReceiveContext) SetExceptionHandler(handler func(recovered any) ExitReason) {
	rctx.pid.watch.attach(exceptionHandler(handler))
}

// MakeResponsePromise creates a deferred reply handle for the current
// request. The promise stays deliverable after the handler returned.
func (rctx *ReceiveContext) MakeResponsePromise() *ResponsePromise {
	return makeResponsePromise(rctx.pid)
}

// RequestTimeout schedules a timeout message after the given duration and
// returns its id. Only the most recently requested timeout is delivered.
func (rctx *ReceiveContext) RequestTimeout(duration time.Duration) uint64 {
	return rctx.pid.requestTimeout(duration)
}

// Quit finishes execution of the actor after the current handler returns,
// with the given reason.
func (rctx *ReceiveContext) Quit(reason ExitReason) {
	rctx.pid.doQuit(reason)
}
