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

// Attachable is a per-actor hook. ActorExited runs during finalization with
// the exit reason. HandleException observes panics escaping a handler and may
// map them to an exit reason; the first attachable that returns true wins.
type Attachable interface {
	ActorExited(reason ExitReason)
	HandleException(recovered any) (ExitReason, bool)
}

// exitHook adapts a plain function to an Attachable.
type exitHook func(reason ExitReason)

var _ Attachable = exitHook(nil)

func (h exitHook) ActorExited(reason ExitReason) {
	h(reason)
}

func (h exitHook) HandleException(any) (ExitReason, bool) {
	return 0, false
}

// NewExitHook creates an Attachable that only observes finalization.
func NewExitHook(hook func(reason ExitReason)) Attachable {
	return exitHook(hook)
}

// exceptionHandler adapts a panic-mapping function to an Attachable.
type exceptionHandler func(recovered any) ExitReason

var _ Attachable = exceptionHandler(nil)

func (h exceptionHandler) ActorExited(ExitReason) {}

func (h exceptionHandler) HandleException(recovered any) (ExitReason, bool) {
	return h(recovered), true
}
