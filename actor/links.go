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
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/emberline/troupe/address"
)

// monitorEntry counts how many down notifications a monitoring actor is owed.
type monitorEntry struct {
	addr  *address.Address
	count int
}

// linkMonitorRegistry holds the links, monitors and attachables of a single
// actor. Links are symmetric and idempotent; monitors are one-way and
// counted. Peers are held as addresses, never strong handles, so link cycles
// cannot keep actors alive. Mutated only by the owning actor during its own
// dispatch; remote mutations arrive as control messages.
type linkMonitorRegistry struct {
	links       mapset.Set[uint64]
	linkAddrs   map[uint64]*address.Address
	monitors    map[uint64]*monitorEntry
	attachables []Attachable
}

func newLinkMonitorRegistry() *linkMonitorRegistry {
	return &linkMonitorRegistry{
		links:     mapset.NewThreadUnsafeSet[uint64](),
		linkAddrs: make(map[uint64]*address.Address),
		monitors:  make(map[uint64]*monitorEntry),
	}
}

// addLink records a symmetric link to the given peer. Duplicates are no-ops.
func (r *linkMonitorRegistry) addLink(peer *address.Address) {
	if r.links.Add(peer.ID()) {
		r.linkAddrs[peer.ID()] = peer
	}
}

// removeLink drops the link to the given peer if present.
func (r *linkMonitorRegistry) removeLink(peer *address.Address) {
	if r.links.Contains(peer.ID()) {
		r.links.Remove(peer.ID())
		delete(r.linkAddrs, peer.ID())
	}
}

// isLinked is true when a link to the given peer exists.
func (r *linkMonitorRegistry) isLinked(peer *address.Address) bool {
	return r.links.Contains(peer.ID())
}

// linkedPeers returns the addresses of all linked peers.
func (r *linkMonitorRegistry) linkedPeers() []*address.Address {
	peers := make([]*address.Address, 0, len(r.linkAddrs))
	for _, addr := range r.linkAddrs {
		peers = append(peers, addr)
	}
	return peers
}

// addMonitor records one more pending down notification for the given watcher.
func (r *linkMonitorRegistry) addMonitor(watcher *address.Address) {
	entry, ok := r.monitors[watcher.ID()]
	if !ok {
		entry = &monitorEntry{addr: watcher}
		r.monitors[watcher.ID()] = entry
	}
	entry.count++
}

// removeMonitor removes at most one pending down notification for the watcher.
func (r *linkMonitorRegistry) removeMonitor(watcher *address.Address) {
	entry, ok := r.monitors[watcher.ID()]
	if !ok {
		return
	}
	entry.count--
	if entry.count <= 0 {
		delete(r.monitors, watcher.ID())
	}
}

// monitorCount returns the number of pending down notifications owed to the
// given watcher.
func (r *linkMonitorRegistry) monitorCount(watcher *address.Address) int {
	entry, ok := r.monitors[watcher.ID()]
	if !ok {
		return 0
	}
	return entry.count
}

// watchers returns every monitor entry.
func (r *linkMonitorRegistry) watchers() []*monitorEntry {
	entries := make([]*monitorEntry, 0, len(r.monitors))
	for _, entry := range r.monitors {
		entries = append(entries, entry)
	}
	return entries
}

// attach registers a finalization hook.
func (r *linkMonitorRegistry) attach(attachable Attachable) {
	r.attachables = append(r.attachables, attachable)
}

// reset clears every relation. Used after notifications went out.
func (r *linkMonitorRegistry) reset() {
	r.links.Clear()
	r.linkAddrs = make(map[uint64]*address.Address)
	r.monitors = make(map[uint64]*monitorEntry)
	r.attachables = nil
}
