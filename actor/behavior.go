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

// Behavior defines an actor behavior. The behavior at the top of the stack is
// the active message handler. A behavior that does not match the current
// message calls Skip or Unhandled on the context.
type Behavior func(ctx *ReceiveContext)

type bnode struct {
	value    Behavior
	previous *bnode
}

// behaviorStack defines a stack of Behavior. It is owned by the running actor
// and only ever touched from its own dispatch.
type behaviorStack struct {
	top    *bnode
	length int
}

// newBehaviorStack creates an instance of behaviorStack
func newBehaviorStack() *behaviorStack {
	return &behaviorStack{}
}

// Len returns the length of the stack.
func (bs *behaviorStack) Len() int {
	return bs.length
}

// Peek helps view the top item on the stack
func (bs *behaviorStack) Peek() Behavior {
	if bs.top == nil {
		return nil
	}
	return bs.top.value
}

// Pop removes and return top element of stack
func (bs *behaviorStack) Pop() Behavior {
	if bs.top == nil {
		return nil
	}
	n := bs.top
	bs.top = n.previous
	bs.length--
	return n.value
}

// Push a new value onto the stack
func (bs *behaviorStack) Push(behavior Behavior) {
	bs.top = &bnode{behavior, bs.top}
	bs.length++
}

// Replace swaps the top of the stack for the given behavior.
func (bs *behaviorStack) Replace(behavior Behavior) {
	if bs.top == nil {
		bs.Push(behavior)
		return
	}
	bs.top.value = behavior
}

// IsEmpty checks if stack is empty
func (bs *behaviorStack) IsEmpty() bool {
	return bs.length == 0
}

// Reset empty the stack
func (bs *behaviorStack) Reset() {
	bs.top = nil
	bs.length = 0
}
