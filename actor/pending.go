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

// pendingResponse pairs an outstanding response id with its handler.
type pendingResponse struct {
	id       MessageID
	behavior Behavior
}

// pendingResponses tracks the response ids the actor awaits. The front is the
// most recently awaited id; only the front handler fires, responses for
// deeper entries stay cached until their handler reaches the front. Owned by
// the running actor.
type pendingResponses struct {
	items []pendingResponse
}

// push installs a handler for the given response id at the front.
func (p *pendingResponses) push(id MessageID, behavior Behavior) {
	p.items = append(p.items, pendingResponse{})
	copy(p.items[1:], p.items)
	p.items[0] = pendingResponse{id: id, behavior: behavior}
}

// front returns the most recently awaited entry.
func (p *pendingResponses) front() (pendingResponse, bool) {
	if len(p.items) == 0 {
		return pendingResponse{}, false
	}
	return p.items[0], true
}

// awaits is true when a handler for the given response id exists anywhere in
// the list.
func (p *pendingResponses) awaits(id MessageID) bool {
	for _, item := range p.items {
		if item.id == id {
			return true
		}
	}
	return false
}

// remove deletes the entry for the given response id and returns its handler.
func (p *pendingResponses) remove(id MessageID) (Behavior, bool) {
	for index, item := range p.items {
		if item.id == id {
			p.items = append(p.items[:index], p.items[index+1:]...)
			return item.behavior, true
		}
	}
	return nil, false
}

// empty is true when no response is awaited.
func (p *pendingResponses) empty() bool {
	return len(p.items) == 0
}

// clear drops every pending handler.
func (p *pendingResponses) clear() {
	p.items = nil
}
