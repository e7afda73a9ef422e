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

// spawnConfig collects the spawn options.
type spawnConfig struct {
	trapExit    bool
	hidden      bool
	linkTo      []*PID
	monitoredBy []*PID
	attachables []Attachable
}

func newSpawnConfig(opts ...SpawnOption) *spawnConfig {
	config := new(spawnConfig)
	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// SpawnOption is the interface that applies a spawn option.
type SpawnOption interface {
	// Apply sets the Option value of a spawnConfig.
	Apply(config *spawnConfig)
}

var _ SpawnOption = spawnOption(nil)

// spawnOption implements the SpawnOption interface.
type spawnOption func(config *spawnConfig)

// Apply applies the spawnConfig's option
func (f spawnOption) Apply(config *spawnConfig) {
	f(config)
}

// WithTrapExit makes the actor receive exit messages as ordinary messages
// instead of terminating.
func WithTrapExit() SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.trapExit = true
	})
}

// WithHidden excludes the actor from the user actor count. Used for internal
// plumbing actors.
func WithHidden() SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.hidden = true
	})
}

// WithLinkTo links the new actor with the given peer at spawn time.
func WithLinkTo(peer *PID) SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.linkTo = append(config.linkTo, peer)
	})
}

// WithMonitorBy makes the given watcher monitor the new actor from birth.
func WithMonitorBy(watcher *PID) SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.monitoredBy = append(config.monitoredBy, watcher)
	})
}

// WithAttachable registers a finalization hook at spawn time.
func WithAttachable(attachable Attachable) SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.attachables = append(config.attachables, attachable)
	})
}
