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

// Package address provides the canonical representation and utilities for
// addressing actors in a troupe actor system.
//
// An address identifies a single actor and is made of the following parts:
//
//   - System: logical name of the actor system
//   - Name: local name of the actor within the system
//   - ID: unique numeric identifier of the actor instance within the runtime
//
// The canonical textual representation of an Address is:
//
//	troupe://<system>/<name>#<id>
//
// An Address is a weak identity: holding one does not keep the actor alive.
// Delivery through an address goes through the runtime registry, which is the
// only holder of strong references.
package address

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// zeroAddress means that there is no sender
var zeroAddress = &Address{}

// Address represents the address of an actor in a troupe actor system.
//
// Two addresses are equal iff their IDs and system names are equal; the ID allocator is
// runtime-wide so an ID is never reused within a running system. The zero
// value is the "no sender" sentinel returned by NoSender.
type Address struct {
	system string
	name   string
	id     uint64
}

// New creates a new Address with the given attributes.
func New(id uint64, name, system string) *Address {
	return &Address{
		system: system,
		name:   name,
		id:     id,
	}
}

// NoSender returns the sentinel address used when a message has no sender.
func NoSender() *Address {
	return zeroAddress
}

// ID returns the unique numeric identifier of the actor instance.
func (a *Address) ID() uint64 {
	return a.id
}

// Name returns the actor name within the system.
func (a *Address) Name() string {
	return a.name
}

// System returns the logical actor system name.
func (a *Address) System() string {
	return a.system
}

// Equals is true when the two addresses identify the same actor instance.
func (a *Address) Equals(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.id == other.id && a.system == other.system
}

// IsNoSender is true for the "no sender" sentinel and nil addresses.
func (a *Address) IsNoSender() bool {
	return a == nil || (a.id == 0 && a.name == "" && a.system == "")
}

// HashCode returns an unsigned 64-bit hash of the canonical representation.
func (a *Address) HashCode() uint64 {
	return xxh3.HashString(a.String())
}

// String returns the canonical textual representation of the address.
func (a *Address) String() string {
	return fmt.Sprintf("troupe://%s/%s#%d", a.system, a.name, a.id)
}
