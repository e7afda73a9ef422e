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
	"runtime"
	"time"

	"github.com/emberline/troupe/log"
)

const (
	// DefaultThroughput is the number of messages a cooperative actor
	// processes per resume slice.
	DefaultThroughput = 300
	// DefaultDeadletterCapacity bounds the deadletter retention ring.
	DefaultDeadletterCapacity = 1024
	// DefaultShutdownTimeout bounds graceful system shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// Option is the interface that applies an ActorSystem option.
type Option interface {
	// Apply sets the Option value of an ActorSystem.
	Apply(system *ActorSystem)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(system *ActorSystem)

// Apply applies the ActorSystem's option
func (f OptionFunc) Apply(system *ActorSystem) {
	f(system)
}

// WithLogger sets the system logger.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.logger = logger
	})
}

// WithWorkers sets the size of the cooperative worker pool.
func WithWorkers(workers int) Option {
	return OptionFunc(func(system *ActorSystem) {
		if workers > 0 {
			system.workers = workers
		}
	})
}

// WithThroughput sets the number of messages processed per resume slice.
func WithThroughput(throughput int) Option {
	return OptionFunc(func(system *ActorSystem) {
		if throughput > 0 {
			system.throughput = throughput
		}
	})
}

// WithDeadletterCapacity bounds the deadletter retention ring.
func WithDeadletterCapacity(capacity int) Option {
	return OptionFunc(func(system *ActorSystem) {
		if capacity > 0 {
			system.deadletterCapacity = capacity
		}
	})
}

// WithShutdownTimeout bounds graceful system shutdown.
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(system *ActorSystem) {
		if timeout > 0 {
			system.stopTimeout = timeout
		}
	})
}

func defaultWorkers() int {
	workers := runtime.NumCPU()
	if workers < 2 {
		workers = 2
	}
	return workers
}
