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

// Package actor implements the local actor runtime: mailboxes, behavior
// stacks, request correlation, timeouts, links, monitors and the
// scheduler-facing resumable contract.
package actor

import (
	"time"

	"github.com/emberline/troupe/address"
	"github.com/emberline/troupe/log"
)

// Actor is an event-based actor. Init runs before the first dispatch and
// returns the initial behavior; OnExit runs when the actor is about to
// finalize and may install a new behavior to cancel termination.
type Actor interface {
	Init(ctx *Context) (Behavior, error)
	OnExit(ctx *Context)
}

// FuncActor adapts a single behavior function to the Actor interface.
type FuncActor struct {
	behavior Behavior
	onExit   func(ctx *Context)
}

// enforce compilation error
var _ Actor = (*FuncActor)(nil)

// NewFuncActor creates an actor from a behavior function.
func NewFuncActor(behavior Behavior) *FuncActor {
	return &FuncActor{behavior: behavior}
}

// WithOnExit sets the finalization hook and returns the receiver.
func (f *FuncActor) WithOnExit(onExit func(ctx *Context)) *FuncActor {
	f.onExit = onExit
	return f
}

// Init returns the wrapped behavior.
func (f *FuncActor) Init(*Context) (Behavior, error) {
	return f.behavior, nil
}

// OnExit runs the configured hook if any.
func (f *FuncActor) OnExit(ctx *Context) {
	if f.onExit != nil {
		f.onExit(ctx)
	}
}

// Context is the actor-facing surface outside message dispatch: during Init,
// inside OnExit and wherever a handle to the own runtime is needed.
type Context struct {
	pid *PID
}

// Self returns the handle of the actor.
func (ctx *Context) Self() *PID {
	return ctx.pid
}

// ActorSystem returns the actor system.
func (ctx *Context) ActorSystem() *ActorSystem {
	return ctx.pid.system
}

// Logger returns the system logger.
func (ctx *Context) Logger() log.Logger {
	return ctx.pid.logger
}

// Become installs a behavior. Inside OnExit this cancels the termination in
// progress.
func (ctx *Context) Become(behavior Behavior) {
	ctx.pid.doBecome(behavior, false)
}

// TrapExit toggles the trapping of exit messages.
func (ctx *Context) TrapExit(trap bool) {
	ctx.pid.trapExit = trap
}

// LinkTo establishes a symmetric link with the peer.
func (ctx *Context) LinkTo(peer *address.Address) error {
	return ctx.pid.linkTo(peer)
}

// Monitor adds a one-way observation of the peer.
func (ctx *Context) Monitor(peer *address.Address) {
	ctx.pid.monitor(peer)
}

// Send delivers an asynchronous message with normal priority.
func (ctx *Context) Send(to *PID, values ...any) {
	ctx.pid.sendTo(to, NormalPriority, values...)
}

// SyncSend issues a request to the destination.
func (ctx *Context) SyncSend(to *PID, values ...any) (*RequestHandle, error) {
	return ctx.pid.syncSendTo(to, 0, NormalPriority, values...)
}

// TimedSyncSend issues a request that expires after the given timeout.
func (ctx *Context) TimedSyncSend(to *PID, timeout time.Duration, values ...any) (*RequestHandle, error) {
	return ctx.pid.syncSendTo(to, timeout, NormalPriority, values...)
}

// OnSyncFailure installs the sync failure handler.
func (ctx *Context) OnSyncFailure(handler func()) {
	ctx.pid.syncFailureHandler = handler
}

// Attach registers a finalization hook.
func (ctx *Context) Attach(attachable Attachable) {
	ctx.pid.watch.attach(attachable)
}

// SetExceptionHandler installs a panic-to-exit-reason mapping.
func (ctx *Context) SetExceptionHandler(handler func(recovered any) ExitReason) {
	ctx.pid.watch.attach(exceptionHandler(handler))
}

// Quit finishes execution of the actor with the given reason.
func (ctx *Context) Quit(reason ExitReason) {
	ctx.pid.doQuit(reason)
}
