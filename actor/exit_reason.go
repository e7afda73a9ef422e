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

// ExitReason describes why an actor terminated. ReasonUserDefined and the
// values above it are free for application use.
type ExitReason uint32

const (
	// ReasonNormal denotes a voluntary, successful termination.
	ReasonNormal ExitReason = iota + 1
	// ReasonKill denotes an unconditional termination that cannot be trapped.
	ReasonKill
	// ReasonUnhandledException denotes a panic escaping a message handler.
	ReasonUnhandledException
	// ReasonUnhandledSyncFailure denotes a timed request that expired or
	// received an error response with no failure handler installed.
	ReasonUnhandledSyncFailure
	// ReasonNoProcess denotes an interaction with an actor that no longer exists.
	ReasonNoProcess
	// ReasonUserShutdown denotes a termination requested during system shutdown.
	ReasonUserShutdown
	// ReasonUserDefined is the first reason value free for application use.
	ReasonUserDefined ExitReason = 1 << 8
)

// IsNormal is true for voluntary, successful terminations.
func (r ExitReason) IsNormal() bool {
	return r == ReasonNormal
}

// String returns the symbolic name of well-known reasons and the numeric
// value for application-defined ones.
func (r ExitReason) String() string {
	switch r {
	case ReasonNormal:
		return "normal"
	case ReasonKill:
		return "kill"
	case ReasonUnhandledException:
		return "unhandled exception"
	case ReasonUnhandledSyncFailure:
		return "unhandled sync failure"
	case ReasonNoProcess:
		return "no process"
	case ReasonUserShutdown:
		return "user shutdown"
	default:
		return fmt.Sprintf("reason(%d)", uint32(r))
	}
}
