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

// timeoutRegistry allocates receive-timeout ids. Delivery is scheduled
// externally; only the most recently requested id is honored, so stale
// timeout messages are filtered by a single equality check. Owned by the
// running actor.
type timeoutRegistry struct {
	counter uint64
	active  uint64
}

// next allocates a fresh timeout id and makes it the active one.
func (t *timeoutRegistry) next() uint64 {
	t.counter++
	t.active = t.counter
	return t.counter
}

// isActive is true when the given id is the one to honor.
func (t *timeoutRegistry) isActive(id uint64) bool {
	return t.active != 0 && t.active == id
}

// invalidate drops the active timeout. Any behavior change invalidates
// previously scheduled timeouts this way.
func (t *timeoutRegistry) invalidate() {
	t.active = 0
}
