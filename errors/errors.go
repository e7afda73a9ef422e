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

// Package errors defines the sentinel errors shared across the runtime.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDead indicates that the target actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrInvalidDestination is returned when sending to a nil or unregistered actor handle.
	ErrInvalidDestination = errors.New("invalid destination")

	// ErrUnhandled is returned when an actor receives a message it cannot handle.
	ErrUnhandled = errors.New("unhandled message")

	// ErrMailboxClosed is returned when a message is enqueued after the target
	// actor finalized and closed its mailbox.
	ErrMailboxClosed = errors.New("mailbox is closed")

	// ErrFullMailbox is returned when the mailbox is full.
	ErrFullMailbox = errors.New("mailbox is full")

	// ErrRequestTimeout indicates that a synchronous request timed out while
	// waiting for a response.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrReceiveTimeout indicates that a blocking receive expired before a
	// message arrived.
	ErrReceiveTimeout = errors.New("receive timed out")

	// ErrUnhandledSyncFailure indicates that a response handler exists but the
	// peer returned an error response.
	ErrUnhandledSyncFailure = errors.New("unhandled sync failure")

	// ErrSelfLink is returned when an actor attempts to link to itself.
	ErrSelfLink = errors.New("cannot link to self")

	// ErrForwardResponse is returned when an actor attempts to forward a
	// response message to a third party.
	ErrForwardResponse = errors.New("cannot forward a response message")

	// ErrNotInDispatch is returned when a dispatch-only operation is used
	// outside a message handler.
	ErrNotInDispatch = errors.New("no message is being dispatched")

	// ErrInvalidPromise is returned when delivering through a promise that was
	// not created for a request.
	ErrInvalidPromise = errors.New("promise is not bound to a request")

	// ErrPromiseAlreadyDelivered is returned on the second delivery attempt of
	// a response promise.
	ErrPromiseAlreadyDelivered = errors.New("promise already delivered")

	// ErrSchedulerNotStarted is returned when the delayed-send scheduler has
	// not been started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrActorSystemNotStarted is returned when the actor system has not started.
	ErrActorSystemNotStarted = errors.New("actor system has not started")

	// ErrActorAlreadyStopped is returned by a blocking receive once the actor finalized.
	ErrActorAlreadyStopped = errors.New("actor is already stopped")

	// ErrNameRequired is returned when an actor system name is required but not provided.
	ErrNameRequired = errors.New("actor system name is required")
)

// NewSpawnError wraps the underlying error of an actor spawn failure.
func NewSpawnError(err error) error {
	return fmt.Errorf("failed to spawn actor: %w", err)
}
