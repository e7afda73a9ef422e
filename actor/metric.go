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
	"context"

	"go.opentelemetry.io/otel"
	otelmetric "go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/emberline/troupe/actor"

// metrics records runtime counters through the global meter provider. Counter
// creation failures degrade to no-ops.
type metrics struct {
	processed   otelmetric.Int64Counter
	deadletters otelmetric.Int64Counter
	spawned     otelmetric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.Meter(instrumentationName)
	m := new(metrics)
	m.processed, _ = meter.Int64Counter("troupe.messages.processed",
		otelmetric.WithDescription("Number of messages dispatched to user handlers"))
	m.deadletters, _ = meter.Int64Counter("troupe.messages.deadletters",
		otelmetric.WithDescription("Number of undeliverable or unhandled messages"))
	m.spawned, _ = meter.Int64Counter("troupe.actors.spawned",
		otelmetric.WithDescription("Number of actors spawned"))
	return m
}

func (m *metrics) recordProcessed() {
	if m != nil && m.processed != nil {
		m.processed.Add(context.Background(), 1)
	}
}

func (m *metrics) recordDeadletter() {
	if m != nil && m.deadletters != nil {
		m.deadletters.Add(context.Background(), 1)
	}
}

func (m *metrics) recordSpawn() {
	if m != nil && m.spawned != nil {
		m.spawned.Add(context.Background(), 1)
	}
}
