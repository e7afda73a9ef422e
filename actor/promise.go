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
	"go.uber.org/atomic"

	"github.com/emberline/troupe/address"
	gerrors "github.com/emberline/troupe/errors"
)

// ResponsePromise defers the reply to the current request past the end of the
// handler. A promise created outside a request dispatch is invalid and
// refuses delivery.
type ResponsePromise struct {
	system     *ActorSystem
	source     *address.Address
	target     *address.Address
	responseID MessageID
	delivered  *atomic.Bool
}

func makeResponsePromise(pid *PID) *ResponsePromise {
	promise := &ResponsePromise{
		system:    pid.system,
		source:    pid.address,
		delivered: atomic.NewBool(false),
	}
	if node := pid.current; node != nil && node.id.IsRequest() {
		promise.target = node.sender
		promise.responseID = node.id.ResponseID()
	}
	return promise
}

// Valid is true when the promise can deliver a response.
func (p *ResponsePromise) Valid() bool {
	return p.responseID != 0
}

// Deliver completes the request with the given values. Exactly one delivery
// succeeds.
func (p *ResponsePromise) Deliver(values ...any) error {
	if !p.Valid() {
		return gerrors.ErrInvalidPromise
	}
	if !p.delivered.CompareAndSwap(false, true) {
		return gerrors.ErrPromiseAlreadyDelivered
	}
	return p.system.respond(p.target, p.source, p.responseID, NewMessage(values...))
}

// DeliverErr completes the request with an error response, triggering the
// sync failure path of the requester.
func (p *ResponsePromise) DeliverErr(err error) error {
	return p.Deliver(&ErrorResponse{Err: err})
}

// TypedResponsePromise is the typed variant of ResponsePromise.
type TypedResponsePromise[T any] struct {
	inner *ResponsePromise
}

// Typed wraps a promise so it delivers exactly one value of type T.
func Typed[T any](promise *ResponsePromise) TypedResponsePromise[T] {
	return TypedResponsePromise[T]{inner: promise}
}

// Valid is true when the promise can deliver a response.
func (p TypedResponsePromise[T]) Valid() bool {
	return p.inner.Valid()
}

// Deliver completes the request with the given value.
func (p TypedResponsePromise[T]) Deliver(value T) error {
	return p.inner.Deliver(value)
}

// DeliverErr completes the request with an error response.
func (p TypedResponsePromise[T]) DeliverErr(err error) error {
	return p.inner.DeliverErr(err)
}
