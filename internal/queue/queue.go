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

// Package queue provides a concurrent non-blocking linked queue.
package queue

import "sync/atomic"

type linkedNode[T any] struct {
	value T
	next  atomic.Pointer[linkedNode[T]]
}

// Linked is a concurrent non-blocking queue.
// reference: Michael & Scott two-lock-free queue with a dummy head node.
type Linked[T any] struct {
	head, tail atomic.Pointer[linkedNode[T]]
	length     atomic.Int64
}

// NewLinked creates an instance of Linked
func NewLinked[T any]() *Linked[T] {
	empty := new(linkedNode[T])
	lnk := new(Linked[T])
	lnk.head.Store(empty)
	lnk.tail.Store(empty)
	return lnk
}

// Enqueue places the given value at the tail of the queue (FIFO).
func (q *Linked[T]) Enqueue(value T) {
	node := &linkedNode[T]{value: value}
	for {
		currentTail := q.tail.Load()
		currentNext := currentTail.next.Load()
		if currentNext != nil {
			q.tail.CompareAndSwap(currentTail, currentNext)
			continue
		}
		if currentTail.next.CompareAndSwap(nil, node) {
			q.tail.CompareAndSwap(currentTail, node)
			q.length.Add(1)
			return
		}
	}
}

// Dequeue removes and returns the value at the head of the queue. The second
// return value is false when the queue is empty.
func (q *Linked[T]) Dequeue() (T, bool) {
	var zero T
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()
		next := currentHead.next.Load()

		if currentHead == q.head.Load() {
			if currentHead == currentTail {
				if next == nil {
					return zero, false
				}
				q.tail.CompareAndSwap(currentTail, next)
				continue
			}
			value := next.value
			if q.head.CompareAndSwap(currentHead, next) {
				q.length.Add(-1)
				return value, true
			}
		}
	}
}

// Length returns a snapshot of the number of items in the queue.
func (q *Linked[T]) Length() int64 {
	return q.length.Load()
}

// IsEmpty returns true when the queue has no item.
func (q *Linked[T]) IsEmpty() bool {
	return q.Length() == 0
}
