// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// ActorMetric defines the actor instrumentation
type ActorMetric struct {
	processedCount  metric.Int64ObservableCounter
	failureCount    metric.Int64ObservableCounter
	restartCount    metric.Int64ObservableCounter
	stowedCount     metric.Int64ObservableCounter
	deadletterCount metric.Int64ObservableCounter
	mailboxSize     metric.Int64ObservableGauge
}

// NewActorMetric creates an instance of ActorMetric
func NewActorMetric(meter metric.Meter) (*ActorMetric, error) {
	actorMetric := new(ActorMetric)
	var err error

	if actorMetric.processedCount, err = meter.Int64ObservableCounter(
		"actor.processed.count",
		metric.WithDescription("Total number of messages processed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processedCount instrument, %w", err)
	}

	if actorMetric.failureCount, err = meter.Int64ObservableCounter(
		"actor.failure.count",
		metric.WithDescription("Total number of messages that failed to process"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failureCount instrument, %w", err)
	}

	if actorMetric.restartCount, err = meter.Int64ObservableCounter(
		"actor.restart.count",
		metric.WithDescription("Total number of restarts"),
	); err != nil {
		return nil, fmt.Errorf("failed to create restartCount instrument, %w", err)
	}

	if actorMetric.stowedCount, err = meter.Int64ObservableCounter(
		"actor.stowed.count",
		metric.WithDescription("Total number of messages stowed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create stowedCount instrument, %w", err)
	}

	if actorMetric.deadletterCount, err = meter.Int64ObservableCounter(
		"actor.deadletters.count",
		metric.WithDescription("Total number of messages routed to dead letters"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deadletterCount instrument, %w", err)
	}

	if actorMetric.mailboxSize, err = meter.Int64ObservableGauge(
		"actor.mailbox.size",
		metric.WithDescription("Number of messages waiting in the mailbox"),
	); err != nil {
		return nil, fmt.Errorf("failed to create mailboxSize instrument, %w", err)
	}

	return actorMetric, nil
}

// ProcessedCount returns the total number of messages processed
func (x *ActorMetric) ProcessedCount() metric.Int64ObservableCounter {
	return x.processedCount
}

// FailureCount returns the total number of failed messages
func (x *ActorMetric) FailureCount() metric.Int64ObservableCounter {
	return x.failureCount
}

// RestartCount returns the total number of restarts
func (x *ActorMetric) RestartCount() metric.Int64ObservableCounter {
	return x.restartCount
}

// StowedCount returns the total number of stowed messages
func (x *ActorMetric) StowedCount() metric.Int64ObservableCounter {
	return x.stowedCount
}

// DeadletterCount returns the total number of dead letters
func (x *ActorMetric) DeadletterCount() metric.Int64ObservableCounter {
	return x.deadletterCount
}

// MailboxSize returns the mailbox size gauge
func (x *ActorMetric) MailboxSize() metric.Int64ObservableGauge {
	return x.mailboxSize
}

// Instruments returns every instrument so they can be registered in a single callback
func (x *ActorMetric) Instruments() []metric.Observable {
	return []metric.Observable{
		x.processedCount,
		x.failureCount,
		x.restartCount,
		x.stowedCount,
		x.deadletterCount,
		x.mailboxSize,
	}
}
