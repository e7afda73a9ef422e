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

import "fmt"

// Priority is the delivery priority carried by a MessageID. It occupies two
// bits of the identifier.
type Priority uint8

const (
	// NormalPriority is the default message priority.
	NormalPriority Priority = iota
	// HighPriority marks urgent messages.
	HighPriority
)

// MessageID is a 64-bit message correlator.
//
// Layout:
//
//	bits  0..57  request sequence number (monotonic per actor, 0 for async)
//	bits 58..59  priority
//	bit  60      request flag
//	bit  61      response flag
//
// A message with neither flag set is asynchronous. The response id of a
// request carries the same sequence number and priority with the request flag
// cleared and the response flag set.
type MessageID uint64

const (
	sequenceBits  = 58
	sequenceMask  = MessageID(1)<<sequenceBits - 1
	priorityShift = sequenceBits
	priorityMask  = MessageID(0x3) << priorityShift
	requestFlag   = MessageID(1) << 60
	responseFlag  = MessageID(1) << 61
)

// asyncMessageID returns the id of an asynchronous message with the given priority.
func asyncMessageID(priority Priority) MessageID {
	return MessageID(priority&0x3) << priorityShift
}

// requestMessageID returns a request id for the given sequence number and priority.
func requestMessageID(sequence uint64, priority Priority) MessageID {
	return MessageID(sequence)&sequenceMask |
		MessageID(priority&0x3)<<priorityShift |
		requestFlag
}

// SequenceNumber returns the request sequence number embedded in the id.
func (mid MessageID) SequenceNumber() uint64 {
	return uint64(mid & sequenceMask)
}

// Priority returns the priority embedded in the id.
func (mid MessageID) Priority() Priority {
	return Priority((mid & priorityMask) >> priorityShift)
}

// IsAsync is true when the id identifies an asynchronous message.
func (mid MessageID) IsAsync() bool {
	return mid&(requestFlag|responseFlag) == 0
}

// IsRequest is true when the id identifies a synchronous request.
func (mid MessageID) IsRequest() bool {
	return mid&requestFlag != 0
}

// IsResponse is true when the id identifies a response to an earlier request.
func (mid MessageID) IsResponse() bool {
	return mid&responseFlag != 0
}

// ResponseID returns the id a response to this request must carry.
// Calling it on a non-request id returns the zero id.
func (mid MessageID) ResponseID() MessageID {
	if !mid.IsRequest() {
		return MessageID(0)
	}
	return mid&^requestFlag | responseFlag
}

// withPriority returns a copy of the id with the priority bits replaced.
func (mid MessageID) withPriority(priority Priority) MessageID {
	return mid&^priorityMask | MessageID(priority&0x3)<<priorityShift
}

// String returns a human-readable rendering of the id.
func (mid MessageID) String() string {
	kind := "async"
	switch {
	case mid.IsRequest():
		kind = "request"
	case mid.IsResponse():
		kind = "response"
	}
	return fmt.Sprintf("%s(seq=%d, prio=%d)", kind, mid.SequenceNumber(), mid.Priority())
}
