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
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/emberline/troupe/address"
	gerrors "github.com/emberline/troupe/errors"
	"github.com/emberline/troupe/eventstream"
	"github.com/emberline/troupe/future"
	"github.com/emberline/troupe/log"
)

// ActorSystem is the runtime handle: it owns the actor registry, the id
// allocator, the cooperative worker pool, the timer scheduler, the event
// stream and the deadletter retention.
type ActorSystem struct {
	name string
	id   string

	logger log.Logger

	mu      sync.RWMutex
	pids    map[uint64]*PID
	reasons map[uint64]ExitReason

	idSeq      *atomic.Uint64
	actorCount *atomic.Int64

	dispatcher  *dispatcher
	scheduler   *scheduler
	events      eventstream.Stream
	deadletters *deadletterBuffer
	metrics     *metrics

	workers            int
	throughput         int
	deadletterCapacity int
	stopTimeout        time.Duration

	started *atomic.Bool
}

// NewActorSystem creates an actor system with the given name.
func NewActorSystem(name string, opts ...Option) (*ActorSystem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, gerrors.ErrNameRequired
	}

	system := &ActorSystem{
		name:               name,
		id:                 uuid.NewString(),
		logger:             log.DefaultLogger,
		pids:               make(map[uint64]*PID),
		reasons:            make(map[uint64]ExitReason),
		idSeq:              atomic.NewUint64(0),
		actorCount:         atomic.NewInt64(0),
		events:             eventstream.New(),
		workers:            defaultWorkers(),
		throughput:         DefaultThroughput,
		deadletterCapacity: DefaultDeadletterCapacity,
		stopTimeout:        DefaultShutdownTimeout,
		started:            atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	system.metrics = newMetrics()
	system.deadletters = newDeadletterBuffer(system.deadletterCapacity)
	system.dispatcher = newDispatcher(system.workers, system.throughput, system.logger)
	system.scheduler = newScheduler(system.logger, system.stopTimeout)
	return system, nil
}

// Name returns the system name.
func (x *ActorSystem) Name() string {
	return x.name
}

// Logger returns the system logger.
func (x *ActorSystem) Logger() log.Logger {
	return x.logger
}

// Events returns the event stream carrying deadletters and lifecycle events.
func (x *ActorSystem) Events() eventstream.Stream {
	return x.events
}

// Deadletters returns a snapshot of the retained deadletters, oldest first.
func (x *ActorSystem) Deadletters() []*Deadletter {
	return x.deadletters.list()
}

// ActorsCount returns the number of live, non-hidden actors.
func (x *ActorSystem) ActorsCount() int64 {
	return x.actorCount.Load()
}

// Start brings up the worker pool and the timer scheduler.
func (x *ActorSystem) Start(ctx context.Context) error {
	if !x.started.CompareAndSwap(false, true) {
		return nil
	}
	x.dispatcher.Start()
	x.scheduler.Start(ctx)
	x.logger.Infof("%s actor system started", x.name)
	return nil
}

// Stop terminates every actor and shuts down the runtime. Actors receive an
// untrappable shutdown exit; the call waits for finalization up to the
// configured shutdown timeout.
func (x *ActorSystem) Stop(ctx context.Context) error {
	if !x.started.CompareAndSwap(true, false) {
		return gerrors.ErrActorSystemNotStarted
	}
	x.logger.Infof("%s actor system shutting down...", x.name)

	pids := x.list()
	for _, pid := range pids {
		_ = x.sendControl(pid.address, address.NoSender(), &Exit{From: address.NoSender(), Reason: ReasonUserShutdown})
	}

	waitCtx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()

	eg, egCtx := errgroup.WithContext(waitCtx)
	for _, pid := range pids {
		eg.Go(func() error {
			select {
			case <-pid.done:
				return nil
			case <-egCtx.Done():
				return egCtx.Err()
			}
		})
	}
	err := eg.Wait()

	x.scheduler.Stop(ctx)
	x.dispatcher.Stop()
	x.events.Close()
	x.deadletters.dispose()
	multierr.AppendInto(&err, x.logger.Flush())

	x.logger.Infof("%s actor system stopped", x.name)
	return err
}

/*
 * spawning
 */

// Spawn creates an event-based actor and makes it schedulable.
func (x *ActorSystem) Spawn(name string, actor Actor, opts ...SpawnOption) (*PID, error) {
	pid, config, err := x.prepare(name, actor, opts...)
	if err != nil {
		return nil, err
	}

	behavior, err := actor.Init(&Context{pid: pid})
	if err != nil {
		x.unregister(pid)
		for _, node := range pid.mailbox.Close() {
			x.recordDeadletter(node, pid.address, gerrors.ErrMailboxClosed)
		}
		return nil, gerrors.NewSpawnError(err)
	}
	if behavior != nil {
		pid.behaviors.Push(behavior)
	}
	x.applySpawnRelations(pid, config)

	// a quit planned during Init finalizes before the first dispatch
	if pid.hasPlanned {
		pid.finalize()
		return pid, nil
	}

	x.activate(pid)
	return pid, nil
}

// SpawnFunc creates an actor from a single behavior function.
func (x *ActorSystem) SpawnFunc(name string, behavior Behavior, opts ...SpawnOption) (*PID, error) {
	return x.Spawn(name, NewFuncActor(behavior), opts...)
}

// SpawnBlocking creates a thread-mapped actor served by a dedicated
// goroutine that blocks on its mailbox.
func (x *ActorSystem) SpawnBlocking(name string, actor BlockingActor, opts ...SpawnOption) (*PID, error) {
	pid, config, err := x.prepare(name, nil, opts...)
	if err != nil {
		return nil, err
	}
	pid.blocking = true
	x.applySpawnRelations(pid, config)

	go pid.blockingLoop(actor)
	return pid, nil
}

// prepare allocates the identity, registers the actor and applies the spawn
// configuration shared by all actor kinds.
func (x *ActorSystem) prepare(name string, actor Actor, opts ...SpawnOption) (*PID, *spawnConfig, error) {
	if !x.started.Load() {
		return nil, nil, gerrors.ErrActorSystemNotStarted
	}
	if strings.TrimSpace(name) == "" {
		return nil, nil, gerrors.ErrNameRequired
	}

	config := newSpawnConfig(opts...)
	addr := address.New(x.idSeq.Inc(), name, x.name)
	pid := newPID(x, addr, actor)
	pid.trapExit = config.trapExit
	pid.hidden = config.hidden
	for _, attachable := range config.attachables {
		pid.watch.attach(attachable)
	}

	x.mu.Lock()
	x.pids[addr.ID()] = pid
	x.mu.Unlock()

	if !pid.hidden {
		x.actorCount.Inc()
	}
	x.metrics.recordSpawn()
	x.events.Publish(TopicLifecycle, &ActorStarted{Address: addr, At: time.Now()})
	x.logger.Debugf("%s spawned", addr)
	return pid, config, nil
}

// applySpawnRelations wires spawn-time links and monitors. The new actor is
// not schedulable yet, so its registry can be touched directly.
func (x *ActorSystem) applySpawnRelations(pid *PID, config *spawnConfig) {
	for _, peer := range config.linkTo {
		if peer == nil || peer.Equals(pid) {
			continue
		}
		pid.watch.addLink(peer.address)
		if err := x.sendControl(peer.address, pid.address, &linkRequest{from: pid.address}); err != nil {
			pid.selfControl(&Exit{From: peer.address, Reason: x.exitReasonOf(peer.address)})
		}
	}
	for _, watcher := range config.monitoredBy {
		if watcher == nil || watcher.Equals(pid) {
			continue
		}
		pid.watch.addMonitor(watcher.address)
	}
}

// activate parks the fresh actor or schedules it when messages already wait.
func (x *ActorSystem) activate(pid *PID) {
	if pid.mailbox.TryBlock() {
		pid.state.Store(awaitingState)
		return
	}
	pid.state.Store(runnableState)
	x.dispatcher.Execute(pid)
}

/*
 * interaction from outside the actor world
 */

// Tell delivers an asynchronous message with no sender.
func (x *ActorSystem) Tell(to *PID, values ...any) error {
	if to == nil {
		return gerrors.ErrInvalidDestination
	}
	node := newMailboxElement(address.NoSender(), asyncMessageID(NormalPriority), NewMessage(values...))
	if err := to.post(node); err != nil {
		x.recordDeadletter(node, to.address, err)
		return err
	}
	return nil
}

// askProbe is the hidden actor bridging Ask to the request/response plumbing.
type askProbe struct {
	target  *PID
	timeout time.Duration
	values  []any
	future  *future.Future
}

var _ Actor = (*askProbe)(nil)

func (p *askProbe) Init(ctx *Context) (Behavior, error) {
	handle, err := ctx.TimedSyncSend(p.target, p.timeout, p.values...)
	if err != nil {
		p.future.Complete(nil, err)
		ctx.Quit(ReasonNormal)
		return nil, nil
	}

	self := ctx.Self()
	ctx.OnSyncFailure(func() {
		p.future.Complete(nil, gerrors.ErrRequestTimeout)
		self.doQuit(ReasonNormal)
	})
	handle.Then(func(rctx *ReceiveContext) {
		p.future.Complete(rctx.Message(), nil)
		rctx.Quit(ReasonNormal)
	})
	return func(rctx *ReceiveContext) { rctx.Skip() }, nil
}

func (p *askProbe) OnExit(*Context) {}

// Ask issues a request to the destination and blocks until the response, the
// timeout or the context expire.
func (x *ActorSystem) Ask(ctx context.Context, to *PID, timeout time.Duration, values ...any) (*Message, error) {
	if to == nil {
		return nil, gerrors.ErrInvalidDestination
	}

	probe := &askProbe{
		target:  to,
		timeout: timeout,
		values:  values,
		future:  future.New(),
	}
	if _, err := x.Spawn("ask-"+uuid.NewString(), probe, WithHidden()); err != nil {
		return nil, err
	}

	result, err := probe.future.Await(ctx)
	if err != nil {
		return nil, err
	}
	return result.(*Message), nil
}

// Kill unconditionally terminates the actor; the exit cannot be trapped.
func (x *ActorSystem) Kill(to *PID) error {
	if to == nil {
		return gerrors.ErrInvalidDestination
	}
	return x.sendControl(to.address, address.NoSender(), &Exit{From: address.NoSender(), Reason: ReasonKill})
}

/*
 * registry and delivery plumbing
 */

// lookup resolves an address to the live actor behind it.
func (x *ActorSystem) lookup(addr *address.Address) (*PID, bool) {
	if addr == nil || addr.IsNoSender() {
		return nil, false
	}
	x.mu.RLock()
	pid, ok := x.pids[addr.ID()]
	x.mu.RUnlock()
	return pid, ok
}

// list snapshots the live actors.
func (x *ActorSystem) list() []*PID {
	x.mu.RLock()
	pids := make([]*PID, 0, len(x.pids))
	for _, pid := range x.pids {
		pids = append(pids, pid)
	}
	x.mu.RUnlock()
	return pids
}

// unregister removes a finalized actor from the registry.
func (x *ActorSystem) unregister(pid *PID) {
	x.mu.Lock()
	delete(x.pids, pid.address.ID())
	x.mu.Unlock()
	if !pid.hidden {
		x.actorCount.Dec()
	}
	if reason, exited := pid.ExitReason(); exited {
		x.events.Publish(TopicLifecycle, &ActorStopped{Address: pid.address, Reason: reason, At: time.Now()})
	}
}

// recordExit keeps the exit reason of terminated actors so late link and
// monitor requests observe it.
func (x *ActorSystem) recordExit(addr *address.Address, reason ExitReason) {
	x.mu.Lock()
	x.reasons[addr.ID()] = reason
	x.mu.Unlock()
}

// exitReasonOf returns the recorded exit reason of the given actor.
func (x *ActorSystem) exitReasonOf(addr *address.Address) ExitReason {
	x.mu.RLock()
	reason, ok := x.reasons[addr.ID()]
	x.mu.RUnlock()
	if !ok {
		return ReasonNoProcess
	}
	return reason
}

// sendControl enqueues a control payload at the destination.
func (x *ActorSystem) sendControl(to *address.Address, from *address.Address, payload any) error {
	pid, ok := x.lookup(to)
	if !ok {
		return gerrors.ErrDead
	}
	node := newMailboxElement(from, asyncMessageID(HighPriority), NewMessage(payload))
	return pid.post(node)
}

// respond delivers a response envelope to the requester.
func (x *ActorSystem) respond(to *address.Address, from *address.Address, id MessageID, message *Message) error {
	node := newMailboxElement(from, id, message)
	pid, ok := x.lookup(to)
	if !ok {
		x.recordDeadletter(node, to, gerrors.ErrDead)
		return gerrors.ErrInvalidDestination
	}
	if err := pid.post(node); err != nil {
		x.recordDeadletter(node, to, err)
		return err
	}
	return nil
}

// recordDeadletter publishes and retains an undeliverable message.
func (x *ActorSystem) recordDeadletter(node *MailboxElement, to *address.Address, reason error) {
	deadletter := &Deadletter{
		Sender:  node.sender,
		To:      to,
		ID:      node.id,
		Message: node.message,
		Reason:  reason,
		At:      time.Now(),
	}
	x.deadletters.append(deadletter)
	x.events.Publish(TopicDeadletters, deadletter)
	x.metrics.recordDeadletter()
	x.logger.Debugf("deadletter to %s: %v", to, reason)
}
