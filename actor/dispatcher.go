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

	"github.com/emberline/troupe/log"
)

// dispatcher multiplexes cooperative actors onto a fixed pool of workers.
// Each worker pops a runnable resumable, gives it one resume slice and either
// re-queues it (ResumeLater) or drops it (the mailbox reschedules awaiting
// actors on the next enqueue).
type dispatcher struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Resumable
	stopped bool

	workers    int
	throughput int
	logger     log.Logger
	wg         sync.WaitGroup
}

var _ ExecutionUnit = (*dispatcher)(nil)

func newDispatcher(workers, throughput int, logger log.Logger) *dispatcher {
	d := &dispatcher{
		workers:    workers,
		throughput: throughput,
		logger:     logger,
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Start spins up the worker pool.
func (d *dispatcher) Start() {
	d.wg.Add(d.workers)
	for i := 0; i < d.workers; i++ {
		go d.work()
	}
}

// Execute marks the resumable runnable.
func (d *dispatcher) Execute(resumable Resumable) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, resumable)
	d.mu.Unlock()
	d.cond.Signal()
}

// Stop drains the workers and waits for them to exit. Runnable actors still
// queued are abandoned; callers terminate them through their mailboxes first.
func (d *dispatcher) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.cond.Broadcast()
	d.wg.Wait()
}

func (d *dispatcher) work() {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.stopped {
			d.cond.Wait()
		}
		if d.stopped {
			d.mu.Unlock()
			return
		}
		resumable := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()

		if resumable.Resume(d, d.throughput) == ResumeLater {
			d.Execute(resumable)
		}
	}
}
