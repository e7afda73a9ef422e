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

// Exit is delivered to the linked peers of an exiting actor. Actors that trap
// exits receive it as an ordinary message; others terminate with the same
// reason unless it is normal. Kill and user-shutdown exits terminate the
// receiver whether it traps exits or not.
type Exit struct {
	// From is the address of the exited actor.
	From *address.Address
	// Reason is the exit reason of the exited actor.
	Reason ExitReason
}

// Down is delivered once per Monitor call when the monitored actor exits.
type Down struct {
	// From is the address of the exited actor.
	From *address.Address
	// Reason is the exit reason of the exited actor.
	Reason ExitReason
}

// Timeout is delivered when a receive timeout requested via RequestTimeout
// elapses. Only the most recently requested timeout is ever delivered to a
// handler; stale ones are dropped by the runtime.
type Timeout struct {
	// ID identifies the timeout request that produced this message.
	ID uint64
}

// ErrorResponse is the payload of a response that reports a failure instead
// of a value. Receiving one for an awaited request triggers the sync failure
// path of the requester.
type ErrorResponse struct {
	// Err is the failure reported by the responder.
	Err error
}

// control messages exchanged between runtimes; never visible to user handlers.
type (
	linkRequest      struct{ from *address.Address }
	unlinkRequest    struct{ from *address.Address }
	monitorRequest   struct{ from *address.Address }
	demonitorRequest struct{ from *address.Address }

	// syncTimeout fires when a timed request expired before its response arrived.
	syncTimeout struct{ responseID MessageID }
)
