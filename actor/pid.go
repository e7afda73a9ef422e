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

	"go.uber.org/atomic"

	"github.com/emberline/troupe/address"
	gerrors "github.com/emberline/troupe/errors"
	"github.com/emberline/troupe/log"
)

// actor lifecycle states
const (
	// inactiveState means the actor is constructed with no scheduler binding
	inactiveState int32 = iota
	// runnableState means the actor is queued for an execution unit
	runnableState
	// runningState means a worker is executing Resume
	runningState
	// awaitingState means the behavior stack is non-empty but the mailbox is empty
	awaitingState
	// finalizingState means exit propagation and cleanup are in progress
	finalizingState
	// doneState is terminal
	doneState
)

// invokeResult is the outcome of offering a mailbox element to the actor.
type invokeResult int

const (
	// invokeConsumed means the element was handled (or intentionally discarded).
	invokeConsumed invokeResult = iota
	// invokeSkipped means the element does not match the current behavior or
	// awaited response; it goes to the cache.
	invokeSkipped
	// invokeDropped means no handler wants the element; it becomes a deadletter.
	invokeDropped
)

// PID is a local actor: the binding of a mailbox, a behavior stack, pending
// responses, timeouts and link/monitor state, plus the Resumable face shown
// to execution units.
//
// All fields below the mailbox are owned by the actor and touched only from
// its own dispatch, so no locking is required; other actors reach them solely
// through enqueued control messages.
type PID struct {
	address *address.Address
	actor   Actor
	system  *ActorSystem
	logger  log.Logger

	mailbox   *Mailbox
	behaviors *behaviorStack
	pending   pendingResponses
	timeouts  timeoutRegistry
	watch     *linkMonitorRegistry

	// outstanding tracks issued requests whose response has not been
	// consumed; responses to them are cached until a handler is attached
	outstanding map[MessageID]struct{}

	// cache holds skipped elements until a behavior change makes them eligible again
	cache      []*MailboxElement
	cacheDirty bool

	// current is the element under dispatch; valid only inside a handler
	current *MailboxElement

	requestSeq uint64
	trapExit   bool
	blocking   bool
	hidden     bool

	syncFailureHandler func()

	planned    ExitReason
	hasPlanned bool

	state      *atomic.Int32
	exitReason *atomic.Uint32
	done       chan struct{}
}

// enforce compilation error when the scheduler contract changes
var _ Resumable = (*PID)(nil)

func newPID(system *ActorSystem, addr *address.Address, actor Actor) *PID {
	return &PID{
		address:    addr,
		actor:      actor,
		system:     system,
		logger:     system.Logger(),
		mailbox:    NewMailbox(),
		behaviors:  newBehaviorStack(),
		watch:      newLinkMonitorRegistry(),
		state:      atomic.NewInt32(inactiveState),
		exitReason: atomic.NewUint32(0),
		done:       make(chan struct{}),
	}
}

// Address returns the actor address. The address is a weak identity and does
// not keep the actor alive.
func (pid *PID) Address() *address.Address {
	return pid.address
}

// Name returns the actor name.
func (pid *PID) Name() string {
	return pid.address.Name()
}

// Equals is true when both handles refer to the same actor instance.
func (pid *PID) Equals(other *PID) bool {
	return other != nil && pid.address.Equals(other.address)
}

// IsDone is true once finalization completed.
func (pid *PID) IsDone() bool {
	return pid.state.Load() == doneState
}

// ExitReason returns the exit reason once the actor terminated.
func (pid *PID) ExitReason() (ExitReason, bool) {
	reason := pid.exitReason.Load()
	return ExitReason(reason), reason != 0
}

// Done is closed when the actor finalized.
func (pid *PID) Done() <-chan struct{} {
	return pid.done
}

// Resume pulls up to maxThroughput messages from the mailbox and dispatches
// them through the active behavior.
func (pid *PID) Resume(_ ExecutionUnit, maxThroughput int) ResumeResult {
	if pid.IsDone() {
		return ResumeDone
	}
	pid.state.Store(runningState)

	for processed := 0; processed < maxThroughput; {
		if pid.cacheDirty {
			pid.invokeFromCache()
			if pid.IsDone() {
				return ResumeDone
			}
		}

		node := pid.mailbox.TryPop()
		if node == nil {
			if pid.mailbox.TryBlock() {
				pid.state.Store(awaitingState)
				return ResumeAwaiting
			}
			continue
		}

		pid.dispatch(node)
		processed++
		if pid.IsDone() {
			return ResumeDone
		}
	}

	if !pid.mailbox.IsEmpty() || pid.cacheDirty {
		pid.state.Store(runnableState)
		return ResumeLater
	}
	if pid.mailbox.TryBlock() {
		pid.state.Store(awaitingState)
		return ResumeAwaiting
	}
	pid.state.Store(runnableState)
	return ResumeLater
}

// post appends an element to the mailbox and reschedules the actor when the
// enqueue woke a sleeping consumer. Safe for any producer.
func (pid *PID) post(node *MailboxElement) error {
	switch pid.mailbox.Enqueue(node) {
	case mailboxClosed:
		return gerrors.ErrMailboxClosed
	case unblockedReader:
		if !pid.blocking {
			pid.state.Store(runnableState)
			pid.system.dispatcher.Execute(pid)
		}
		// thread-mapped actors woke through the mailbox waker
	}
	return nil
}

// dispatch offers a single element to the actor and resolves its aftermath:
// caching, deadlettering and finalization.
func (pid *PID) dispatch(node *MailboxElement) {
	pid.resolve(node, pid.invokeMessage(node, nil))
}

// resolve handles the outcome of an invocation.
func (pid *PID) resolve(node *MailboxElement, result invokeResult) {
	switch result {
	case invokeSkipped:
		pid.cache = append(pid.cache, node)
	case invokeDropped:
		pid.system.recordDeadletter(node, pid.address, gerrors.ErrUnhandled)
	}

	switch {
	case pid.hasPlanned:
		pid.finalize()
	case !pid.hasBehavior():
		// quiescent: nothing left to react with
		pid.doQuit(ReasonNormal)
		pid.finalize()
	}
}

// hasBehavior is true while the actor can still react to messages.
func (pid *PID) hasBehavior() bool {
	return !pid.behaviors.IsEmpty() || !pid.pending.empty()
}

// invokeMessage applies the matching rules to a single element. When override
// is non-nil it takes the place of the top-of-stack behavior (blocking
// receive).
func (pid *PID) invokeMessage(node *MailboxElement, override Behavior) invokeResult {
	if payload := controlPayload(node.message); payload != nil {
		switch ctrl := payload.(type) {
		case *linkRequest:
			pid.watch.addLink(ctrl.from)
			return invokeConsumed
		case *unlinkRequest:
			pid.watch.removeLink(ctrl.from)
			return invokeConsumed
		case *monitorRequest:
			pid.watch.addMonitor(ctrl.from)
			return invokeConsumed
		case *demonitorRequest:
			pid.watch.removeMonitor(ctrl.from)
			return invokeConsumed
		case *syncTimeout:
			if pid.awaitsArrival(ctrl.responseID) {
				pid.markArrived(ctrl.responseID)
				pid.pending.remove(ctrl.responseID)
				pid.handleSyncFailure()
			}
			return invokeConsumed
		case *Timeout:
			if !pid.timeouts.isActive(ctrl.ID) {
				// stale timeout
				return invokeConsumed
			}
			pid.timeouts.invalidate()
			return pid.offer(node, override)
		case *Exit:
			return pid.handleExit(node, ctrl, override)
		}
	}

	if node.id.IsResponse() {
		return pid.handleResponse(node)
	}

	return pid.offer(node, override)
}

// handleExit applies the exit propagation rules.
func (pid *PID) handleExit(node *MailboxElement, exit *Exit, override Behavior) invokeResult {
	pid.watch.removeLink(exit.From)
	switch {
	case exit.Reason == ReasonKill || exit.Reason == ReasonUserShutdown:
		// untrappable
		pid.doQuit(exit.Reason)
		return invokeConsumed
	case pid.trapExit:
		return pid.offer(node, override)
	case exit.Reason.IsNormal():
		return invokeConsumed
	default:
		pid.doQuit(exit.Reason)
		return invokeConsumed
	}
}

// handleResponse matches a response against the pending list. Only the front
// handler fires; responses for deeper entries, or for requests whose handler
// is not attached yet, wait in the cache until their handler reaches the
// front.
func (pid *PID) handleResponse(node *MailboxElement) invokeResult {
	front, ok := pid.pending.front()
	switch {
	case ok && front.id == node.id:
		pid.pending.remove(node.id)
		pid.markArrived(node.id)
		if payload := controlPayload(node.message); payload != nil {
			if _, failed := payload.(*ErrorResponse); failed {
				pid.handleSyncFailure()
				return invokeConsumed
			}
		}
		pid.runBehavior(node, front.behavior)
		return invokeConsumed
	case pid.pending.awaits(node.id), pid.awaitsArrival(node.id):
		return invokeSkipped
	default:
		// stale response
		pid.logger.Debugf("%s dropping stale response %s", pid.address, node.id)
		return invokeConsumed
	}
}

// awaitsArrival is true while the request owning the given response id is in
// flight.
func (pid *PID) awaitsArrival(responseID MessageID) bool {
	_, ok := pid.outstanding[responseID]
	return ok
}

// markArrived retires an in-flight request.
func (pid *PID) markArrived(responseID MessageID) {
	delete(pid.outstanding, responseID)
}

// offer runs the element through the effective behavior.
func (pid *PID) offer(node *MailboxElement, override Behavior) invokeResult {
	behavior := override
	if behavior == nil {
		behavior = pid.behaviors.Peek()
	}
	if behavior == nil {
		return invokeDropped
	}
	return pid.runBehavior(node, behavior)
}

// runBehavior invokes a handler under a dispatch guard. Panics are mapped to
// exit reasons through the attachables and terminate the actor.
func (pid *PID) runBehavior(node *MailboxElement, behavior Behavior) invokeResult {
	ctx := contextFromPool(pid, node)
	guard := newDispatchGuard(node)
	pid.current = node

	defer func() {
		pid.current = nil
		if ctx.forwarded {
			guard.release()
		} else {
			guard.drop()
		}
		releaseContext(ctx)

		if recovered := recover(); recovered != nil {
			pid.handlePanic(recovered)
		}
	}()

	behavior(ctx)
	pid.system.metrics.recordProcessed()

	switch {
	case ctx.skipped:
		return invokeSkipped
	case ctx.unhandled:
		return invokeDropped
	default:
		return invokeConsumed
	}
}

// handlePanic maps a recovered panic to an exit reason and plans termination.
func (pid *PID) handlePanic(recovered any) {
	reason := ReasonUnhandledException
	for _, attachable := range pid.watch.attachables {
		if mapped, ok := attachable.HandleException(recovered); ok {
			reason = mapped
			break
		}
	}
	pid.logger.Errorf("%s handler panicked: %v", pid.address, recovered)
	pid.doQuit(reason)
}

// invokeFromCache replays skipped elements after a behavior change.
func (pid *PID) invokeFromCache() {
	pid.cacheDirty = false
	snapshot := pid.cache
	pid.cache = nil

	for index, node := range snapshot {
		if pid.hasPlanned {
			pid.cache = append(pid.cache, snapshot[index:]...)
			break
		}
		switch pid.invokeMessage(node, nil) {
		case invokeSkipped:
			pid.cache = append(pid.cache, node)
		case invokeDropped:
			pid.system.recordDeadletter(node, pid.address, gerrors.ErrUnhandled)
		}
	}

	if pid.hasPlanned {
		pid.finalize()
	}
}

// doQuit plans termination; the stack is cleared and hooks run in finalize.
func (pid *PID) doQuit(reason ExitReason) {
	if pid.hasPlanned || pid.IsDone() {
		return
	}
	pid.planned = reason
	pid.hasPlanned = true
}

// finalize runs the termination sequence: clear the stack, give OnExit a
// chance to rebind, then propagate exits and downs, run attachables, close
// the mailbox and unregister.
func (pid *PID) finalize() {
	if pid.IsDone() || !pid.hasPlanned {
		return
	}
	reason := pid.planned

	pid.behaviors.Reset()
	pid.pending.clear()
	pid.outstanding = nil
	pid.timeouts.invalidate()

	if pid.actor != nil {
		pid.actor.OnExit(&Context{pid: pid})
		if !pid.behaviors.IsEmpty() {
			// rebind cancels termination; the planned reason does not survive
			pid.hasPlanned = false
			pid.planned = 0
			return
		}
	}

	pid.state.Store(finalizingState)
	pid.exitReason.Store(uint32(reason))
	pid.system.recordExit(pid.address, reason)

	for _, peer := range pid.watch.linkedPeers() {
		_ = pid.system.sendControl(peer, pid.address, &Exit{From: pid.address, Reason: reason})
	}
	for _, entry := range pid.watch.watchers() {
		for i := 0; i < entry.count; i++ {
			_ = pid.system.sendControl(entry.addr, pid.address, &Down{From: pid.address, Reason: reason})
		}
	}

	for index := len(pid.watch.attachables) - 1; index >= 0; index-- {
		pid.watch.attachables[index].ActorExited(reason)
	}
	pid.watch.reset()

	for _, node := range pid.mailbox.Close() {
		pid.deadletterUndelivered(node)
	}
	for _, node := range pid.cache {
		pid.deadletterUndelivered(node)
	}
	pid.cache = nil

	pid.system.unregister(pid)
	pid.state.Store(doneState)
	close(pid.done)
	pid.logger.Debugf("%s terminated: %s", pid.address, reason)
}

// deadletterUndelivered resolves an element drained during finalization.
// Relation requests are answered so the requester observes the exit instead
// of a silent drop.
func (pid *PID) deadletterUndelivered(node *MailboxElement) {
	reason := ExitReason(pid.exitReason.Load())
	if payload := controlPayload(node.message); payload != nil {
		switch ctrl := payload.(type) {
		case *linkRequest:
			_ = pid.system.sendControl(ctrl.from, pid.address, &Exit{From: pid.address, Reason: reason})
			return
		case *monitorRequest:
			_ = pid.system.sendControl(ctrl.from, pid.address, &Down{From: pid.address, Reason: reason})
			return
		case *unlinkRequest, *demonitorRequest, *syncTimeout, *Timeout, *Exit:
			return
		}
	}
	pid.system.recordDeadletter(node, pid.address, gerrors.ErrMailboxClosed)
}

/*
 * send paths
 */

// newRequestID allocates the next request id. Strictly increasing per actor.
func (pid *PID) newRequestID(priority Priority) MessageID {
	pid.requestSeq++
	return requestMessageID(pid.requestSeq, priority)
}

// sendTo delivers an asynchronous message to the destination. Failures are
// deadlettered and otherwise silent.
func (pid *PID) sendTo(dest *PID, priority Priority, values ...any) {
	if dest == nil {
		return
	}
	node := newMailboxElement(pid.address, asyncMessageID(priority), NewMessage(values...))
	if err := dest.post(node); err != nil {
		pid.system.recordDeadletter(node, dest.address, err)
	}
}

// delayedSendTo schedules an ordinary enqueue after the given delay.
func (pid *PID) delayedSendTo(dest *PID, delay time.Duration, priority Priority, values ...any) {
	if dest == nil {
		return
	}
	sender := pid.address
	err := pid.system.scheduler.scheduleOnce(delay, func() {
		node := newMailboxElement(sender, asyncMessageID(priority), NewMessage(values...))
		if err := dest.post(node); err != nil {
			pid.system.recordDeadletter(node, dest.address, err)
		}
	})
	if err != nil {
		pid.logger.Warnf("%s failed to schedule delayed send: %v", pid.address, err)
	}
}

// syncSendTo issues a request and optionally schedules its expiry. The
// returned handle installs the response handler.
func (pid *PID) syncSendTo(dest *PID, timeout time.Duration, priority Priority, values ...any) (*RequestHandle, error) {
	if dest == nil {
		return nil, gerrors.ErrInvalidDestination
	}
	requestID := pid.newRequestID(priority)
	node := newMailboxElement(pid.address, requestID, NewMessage(values...))
	if err := dest.post(node); err != nil {
		return nil, gerrors.ErrInvalidDestination
	}

	responseID := requestID.ResponseID()
	if pid.outstanding == nil {
		pid.outstanding = make(map[MessageID]struct{})
	}
	pid.outstanding[responseID] = struct{}{}
	if timeout > 0 {
		self := pid.address
		target := dest.address
		err := pid.system.scheduler.scheduleOnce(timeout, func() {
			_ = pid.system.sendControl(self, target, &syncTimeout{responseID: responseID})
		})
		if err != nil {
			return nil, err
		}
	}
	return &RequestHandle{pid: pid, responseID: responseID}, nil
}

// reply responds to the current element. Replying to an asynchronous message
// degrades to an ordinary send back to the sender.
func (pid *PID) reply(values ...any) error {
	node := pid.current
	if node == nil {
		return gerrors.ErrNotInDispatch
	}
	id := asyncMessageID(node.id.Priority())
	if node.id.IsRequest() {
		id = node.id.ResponseID()
	}
	return pid.system.respond(node.sender, pid.address, id, NewMessage(values...))
}

// forwardMessage re-enqueues the current element to dest preserving the
// original sender. Ownership moves to the destination mailbox.
func (pid *PID) forwardMessage(dest *PID, priority Priority, ctx *ReceiveContext) error {
	node := pid.current
	if node == nil {
		return gerrors.ErrNotInDispatch
	}
	if node.id.IsResponse() {
		return gerrors.ErrForwardResponse
	}
	if dest == nil {
		return gerrors.ErrInvalidDestination
	}

	ctx.forwarded = true
	node.marked = false
	node.next = nil
	node.id = node.id.withPriority(priority)
	if err := dest.post(node); err != nil {
		pid.system.recordDeadletter(node, dest.address, err)
		return err
	}
	return nil
}

// sendExitTo delivers an exit message to the destination.
func (pid *PID) sendExitTo(dest *address.Address, reason ExitReason) {
	_ = pid.system.sendControl(dest, pid.address, &Exit{From: pid.address, Reason: reason})
}

/*
 * behavior management
 */

// doBecome installs a behavior, replacing the top (discardOld) or stacking on
// it. Any behavior change invalidates previously scheduled timeouts and makes
// cached elements eligible again.
func (pid *PID) doBecome(behavior Behavior, discardOld bool) {
	if discardOld {
		pid.behaviors.Replace(behavior)
	} else {
		pid.behaviors.Push(behavior)
	}
	pid.timeouts.invalidate()
	pid.cacheDirty = true
}

// unbecome restores the previous top-of-stack behavior.
func (pid *PID) unbecome() {
	pid.behaviors.Pop()
	pid.timeouts.invalidate()
	pid.cacheDirty = true
}

// awaitResponse installs a response handler as the new front.
func (pid *PID) awaitResponse(responseID MessageID, behavior Behavior) {
	pid.pending.push(responseID, behavior)
	pid.cacheDirty = true
}

// requestTimeout schedules a timeout message carrying a fresh id and makes it
// the active one.
func (pid *PID) requestTimeout(duration time.Duration) uint64 {
	id := pid.timeouts.next()
	self := pid.address
	err := pid.system.scheduler.scheduleOnce(duration, func() {
		_ = pid.system.sendControl(self, self, &Timeout{ID: id})
	})
	if err != nil {
		pid.logger.Warnf("%s failed to schedule timeout: %v", pid.address, err)
	}
	return id
}

// handleSyncFailure runs the installed sync failure handler or terminates.
func (pid *PID) handleSyncFailure() {
	if pid.syncFailureHandler != nil {
		pid.syncFailureHandler()
		return
	}
	pid.doQuit(ReasonUnhandledSyncFailure)
}

/*
 * links and monitors
 */

// linkTo establishes a symmetric link with the peer. When the peer already
// exited the caller immediately receives an exit message instead.
func (pid *PID) linkTo(peer *address.Address) error {
	if peer == nil || peer.Equals(pid.address) {
		return gerrors.ErrSelfLink
	}
	pid.watch.addLink(peer)
	if err := pid.system.sendControl(peer, pid.address, &linkRequest{from: pid.address}); err != nil {
		pid.selfControl(&Exit{From: peer, Reason: pid.system.exitReasonOf(peer)})
	}
	return nil
}

// unlink removes the link on both sides.
func (pid *PID) unlink(peer *address.Address) {
	if peer == nil {
		return
	}
	pid.watch.removeLink(peer)
	_ = pid.system.sendControl(peer, pid.address, &unlinkRequest{from: pid.address})
}

// monitor adds one-way observation of the peer. Each call yields exactly one
// down notification on target exit.
func (pid *PID) monitor(peer *address.Address) {
	if peer == nil || peer.Equals(pid.address) {
		return
	}
	if err := pid.system.sendControl(peer, pid.address, &monitorRequest{from: pid.address}); err != nil {
		pid.selfControl(&Down{From: peer, Reason: pid.system.exitReasonOf(peer)})
	}
}

// demonitor removes at most one pending monitor on the peer.
func (pid *PID) demonitor(peer *address.Address) {
	if peer == nil {
		return
	}
	_ = pid.system.sendControl(peer, pid.address, &demonitorRequest{from: pid.address})
}

// selfControl enqueues a control payload to the own mailbox.
func (pid *PID) selfControl(payload any) {
	node := newMailboxElement(pid.address, asyncMessageID(HighPriority), NewMessage(payload))
	_ = pid.post(node)
}

// controlPayload extracts the runtime payload of single-element messages.
func controlPayload(message *Message) any {
	if message.Len() != 1 {
		return nil
	}
	switch payload := message.At(0).(type) {
	case *linkRequest, *unlinkRequest, *monitorRequest, *demonitorRequest,
		*syncTimeout, *Timeout, *Exit, *ErrorResponse:
		return payload
	default:
		return nil
	}
}
