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
	"fmt"
	"reflect"
	"strings"
)

// Message is an immutable, shareable sequence of heterogeneously typed values.
//
// A Message is never mutated after construction, so it can be shared by
// reference between actors without copying. Element types are reflectable at
// runtime via TypeAt.
type Message struct {
	elements []any
}

// NewMessage creates a message from the given values.
func NewMessage(values ...any) *Message {
	elements := make([]any, len(values))
	copy(elements, values)
	return &Message{elements: elements}
}

// Len returns the number of elements in the message.
func (m *Message) Len() int {
	if m == nil {
		return 0
	}
	return len(m.elements)
}

// At returns the element at the given index.
func (m *Message) At(index int) any {
	return m.elements[index]
}

// TypeAt returns the runtime type of the element at the given index.
func (m *Message) TypeAt(index int) reflect.Type {
	return reflect.TypeOf(m.elements[index])
}

// Elements returns a copy of the element slice.
func (m *Message) Elements() []any {
	if m == nil {
		return nil
	}
	out := make([]any, len(m.elements))
	copy(out, m.elements)
	return out
}

// String returns a human-readable rendering of the message.
func (m *Message) String() string {
	if m == nil {
		return "message()"
	}
	parts := make([]string, 0, len(m.elements))
	for _, element := range m.elements {
		parts = append(parts, fmt.Sprintf("%v", element))
	}
	return "message(" + strings.Join(parts, ", ") + ")"
}
