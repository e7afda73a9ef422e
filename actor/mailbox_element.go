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

import "github.com/emberline/troupe/address"

// MailboxElement is the envelope around a message in flight.
//
// Ownership moves along the delivery path: the producer owns the element
// until Enqueue returns, the mailbox owns it until it is dequeued, and the
// receiving actor owns it through its current-element slot for the duration
// of the handler. Forwarding transfers ownership to the destination mailbox.
type MailboxElement struct {
	sender  *address.Address
	id      MessageID
	message *Message

	// next links the element inside the owning mailbox.
	next *MailboxElement

	// marked is true while the element is dispatched on the owning actor's
	// stack. Nested dispatch never re-enters a marked element.
	marked bool
}

func newMailboxElement(sender *address.Address, id MessageID, message *Message) *MailboxElement {
	return &MailboxElement{
		sender:  sender,
		id:      id,
		message: message,
	}
}

// Sender returns the address of the producer, or the no-sender sentinel.
func (e *MailboxElement) Sender() *address.Address {
	return e.sender
}

// ID returns the message correlator.
func (e *MailboxElement) ID() MessageID {
	return e.id
}

// Message returns the carried message.
func (e *MailboxElement) Message() *Message {
	return e.message
}

// dispatchGuard marks an element for the duration of a handler invocation.
// Releasing the guard transfers ownership (forwarding); otherwise the mark is
// cleared when the guard is dropped.
type dispatchGuard struct {
	node *MailboxElement
}

func newDispatchGuard(node *MailboxElement) *dispatchGuard {
	node.marked = true
	return &dispatchGuard{node: node}
}

// release transfers ownership of the element out of the guard.
func (g *dispatchGuard) release() {
	g.node = nil
}

// drop clears the mark unless ownership was transferred.
func (g *dispatchGuard) drop() {
	if g.node != nil {
		g.node.marked = false
		g.node = nil
	}
}
