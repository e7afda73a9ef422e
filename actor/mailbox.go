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
	"sync/atomic"
	"time"

	gerrors "github.com/emberline/troupe/errors"
)

// enqueueStatus is the state token returned by Mailbox.Enqueue.
type enqueueStatus int

const (
	// enqueued means the element was appended and the consumer is awake.
	enqueued enqueueStatus = iota
	// unblockedReader means the element was appended to a sleeping mailbox;
	// the caller must reschedule or wake the consumer.
	unblockedReader
	// mailboxClosed means the mailbox rejected the element.
	mailboxClosed
)

// Sentinel values installed in the producer stack. Neither is ever a real
// element; they encode the "consumer sleeping" and "closed" states in the
// same word producers contend on.
var (
	sleepSentinel  = new(MailboxElement)
	closedSentinel = new(MailboxElement)
)

// Mailbox is the multi-producer single-consumer queue owned by exactly one
// actor.
//
// Producers push onto an intrusive Treiber stack with a single CAS; the
// consumer drains the stack into a private FIFO list when that list runs
// empty, so producers and the consumer contend only on the stack word.
// Ordering is FIFO per producer; no cross-producer ordering is guaranteed.
//
// The stack word doubles as the runnable-state machine: the consumer parks by
// installing sleepSentinel when the mailbox is empty, and the producer whose
// CAS replaces the sentinel learns it must wake the consumer. Close installs
// closedSentinel, after which every Enqueue fails fast.
type Mailbox struct {
	stack atomic.Pointer[MailboxElement] // producers and consumer
	head  *MailboxElement                // consumer only
	waker chan struct{}                  // signaled by the waking producer
}

// NewMailbox creates an open, empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{
		waker: make(chan struct{}, 1),
	}
}

// Enqueue appends the element. Wait-free for producers apart from CAS
// retries under contention. The returned token tells the caller whether it
// unblocked a sleeping consumer and therefore owns the wake-up.
func (m *Mailbox) Enqueue(element *MailboxElement) enqueueStatus {
	for {
		current := m.stack.Load()
		switch current {
		case closedSentinel:
			return mailboxClosed
		case sleepSentinel:
			element.next = nil
			if m.stack.CompareAndSwap(current, element) {
				select {
				case m.waker <- struct{}{}:
				default:
				}
				return unblockedReader
			}
		default:
			element.next = current
			if m.stack.CompareAndSwap(current, element) {
				return enqueued
			}
		}
	}
}

// TryPop returns the next element in FIFO-per-producer order, or nil when the
// mailbox is empty. Consumer only.
func (m *Mailbox) TryPop() *MailboxElement {
	if m.head == nil && !m.fetchNewData() {
		return nil
	}
	element := m.head
	m.head = element.next
	element.next = nil
	return element
}

// fetchNewData swaps out the producer stack and reverses it into the private
// list. Producers push newest-first, so the reversal restores FIFO order.
func (m *Mailbox) fetchNewData() bool {
	for {
		current := m.stack.Load()
		if current == nil || current == closedSentinel {
			return false
		}
		if m.stack.CompareAndSwap(current, nil) {
			var reversed *MailboxElement
			for current != nil {
				next := current.next
				current.next = reversed
				reversed = current
				current = next
			}
			m.head = reversed
			return true
		}
	}
}

// TryBlock parks the mailbox by installing the sleep sentinel. It fails when
// data arrived since the last pop, in which case the consumer must keep
// processing. Consumer only.
func (m *Mailbox) TryBlock() bool {
	if m.head != nil {
		return false
	}
	return m.stack.CompareAndSwap(nil, sleepSentinel)
}

// tryWake removes the sleep sentinel again. It fails when a producer already
// replaced the sentinel with a real element.
func (m *Mailbox) tryWake() bool {
	return m.stack.CompareAndSwap(sleepSentinel, nil)
}

// AwaitNonEmpty blocks the consumer until the mailbox holds data. A zero or
// negative timeout waits indefinitely. Used only by thread-mapped actors;
// cooperative actors park through TryBlock and are rescheduled by producers.
func (m *Mailbox) AwaitNonEmpty(timeout time.Duration) error {
	if !m.TryBlock() {
		return nil
	}
	if timeout <= 0 {
		<-m.waker
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-m.waker:
		return nil
	case <-timer.C:
		if m.tryWake() {
			return gerrors.ErrReceiveTimeout
		}
		// a producer won the race; consume its wake-up signal
		select {
		case <-m.waker:
		default:
		}
		return nil
	}
}

// Close rejects further enqueues and returns the undelivered elements in
// FIFO-per-producer order. Consumer only; called exactly once during
// finalization.
func (m *Mailbox) Close() []*MailboxElement {
	var drained []*MailboxElement
	for m.head != nil {
		element := m.head
		m.head = element.next
		element.next = nil
		drained = append(drained, element)
	}

	for {
		current := m.stack.Load()
		if current == sleepSentinel {
			// cannot happen while the consumer is running; reset defensively
			if m.stack.CompareAndSwap(current, closedSentinel) {
				return drained
			}
			continue
		}
		if m.stack.CompareAndSwap(current, closedSentinel) {
			var reversed *MailboxElement
			for current != nil && current != closedSentinel {
				next := current.next
				current.next = reversed
				reversed = current
				current = next
			}
			for reversed != nil {
				next := reversed.next
				reversed.next = nil
				drained = append(drained, reversed)
				reversed = next
			}
			return drained
		}
	}
}

// IsClosed reports whether the mailbox rejects enqueues.
func (m *Mailbox) IsClosed() bool {
	return m.stack.Load() == closedSentinel
}

// IsEmpty is a best-effort snapshot under concurrent producers.
func (m *Mailbox) IsEmpty() bool {
	if m.head != nil {
		return false
	}
	current := m.stack.Load()
	return current == nil || current == sleepSentinel || current == closedSentinel
}

// Len returns a snapshot of the number of queued elements. O(n), intended for
// diagnostics.
func (m *Mailbox) Len() int {
	count := 0
	for element := m.head; element != nil; element = element.next {
		count++
	}
	current := m.stack.Load()
	for current != nil && current != sleepSentinel && current != closedSentinel {
		count++
		current = current.next
	}
	return count
}
