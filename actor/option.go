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

package actor

import (
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/gostage/deadletter"
	"github.com/tochemey/gostage/log"
	"github.com/tochemey/gostage/supervisor"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(stage *Stage)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Stage)

// Apply applies the Stage's option
func (f OptionFunc) Apply(stage *Stage) {
	f(stage)
}

// WithLogger sets the stage logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(stage *Stage) {
		stage.logger = logger
	})
}

// WithDeadLetters sets the sink receiving undeliverable messages.
// A nil sink disables dead letters: dropped messages are then logged as warnings.
func WithDeadLetters(sink deadletter.Sink) Option {
	return OptionFunc(func(stage *Stage) {
		stage.deadletters = sink
		stage.customDeadletters = true
	})
}

// WithRootSupervisor sets the supervisor deciding for every failure escalated
// past the actor supervisors. It defaults to restarting on any error.
func WithRootSupervisor(sup *supervisor.Supervisor) Option {
	return OptionFunc(func(stage *Stage) {
		if sup != nil {
			stage.rootSupervisor = sup
		}
	})
}

// WithActorInitMaxRetries sets the number of times BeforeStart is attempted
func WithActorInitMaxRetries(value int) Option {
	return OptionFunc(func(stage *Stage) {
		if value > 0 {
			stage.initMaxRetries = value
		}
	})
}

// WithActorInitTimeout sets the time budget of BeforeStart, retries included
func WithActorInitTimeout(timeout time.Duration) Option {
	return OptionFunc(func(stage *Stage) {
		if timeout > 0 {
			stage.initTimeout = timeout
		}
	})
}

// WithShutdownTimeout sets the time budget of Stage.Stop
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(stage *Stage) {
		if timeout > 0 {
			stage.shutdownTimeout = timeout
		}
	})
}

// WithWorkerPool configures the pool executing delivery turns: idle workers
// are reclaimed after passivateAfter and the pool is split into shards.
func WithWorkerPool(passivateAfter time.Duration, shards int) Option {
	return OptionFunc(func(stage *Stage) {
		stage.workerIdleTimeout = passivateAfter
		stage.workerShards = shards
	})
}

// WithMeterProvider enables the actor and stage metrics on the given provider
func WithMeterProvider(provider otelmetric.MeterProvider) Option {
	return OptionFunc(func(stage *Stage) {
		stage.meterProvider = provider
	})
}
