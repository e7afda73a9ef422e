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

// ResumeResult tells an execution unit what to do with a resumable after a
// resume slice.
type ResumeResult int

const (
	// ResumeLater means the throughput cap was hit with more work available;
	// the execution unit re-queues the resumable.
	ResumeLater ResumeResult = iota
	// ResumeAwaiting means the mailbox ran empty with behavior remaining; the
	// resumable reschedules itself on the next enqueue.
	ResumeAwaiting
	// ResumeDone means finalization completed; the resumable never runs again.
	ResumeDone
)

// Resumable is the scheduler-facing face of an actor. The same abstract actor
// can run on a private goroutine or be multiplexed by a cooperative execution
// unit through this contract.
type Resumable interface {
	// Resume pulls up to maxThroughput messages from the mailbox and
	// dispatches them. At most one execution unit runs Resume on a given
	// resumable at any time.
	Resume(unit ExecutionUnit, maxThroughput int) ResumeResult
}

// ExecutionUnit is a scheduler worker that runs resumables.
type ExecutionUnit interface {
	// Execute marks the resumable runnable and eventually runs it.
	Execute(resumable Resumable)
}
