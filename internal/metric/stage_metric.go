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

import "go.opentelemetry.io/otel/metric"

// StageMetric groups the instruments describing a stage as a whole.
//
// Instruments:
//   - stage.actors.count       (Int64ObservableGauge)
//   - stage.deadletters.count  (Int64ObservableCounter)
//   - stage.uptime             (Int64ObservableCounter, unit: seconds)
type StageMetric struct {
	actorsCount      metric.Int64ObservableGauge
	deadlettersCount metric.Int64ObservableCounter
	uptime           metric.Int64ObservableCounter
}

// NewStageMetric creates the stage-level instruments using the provided Meter.
func NewStageMetric(meter metric.Meter) (*StageMetric, error) {
	var instruments StageMetric
	var err error

	if instruments.actorsCount, err = meter.Int64ObservableGauge(
		"stage.actors.count",
		metric.WithDescription("Number of live actors in the stage"),
	); err != nil {
		return nil, err
	}

	if instruments.deadlettersCount, err = meter.Int64ObservableCounter(
		"stage.deadletters.count",
		metric.WithDescription("Total number of dead letters in the stage"),
	); err != nil {
		return nil, err
	}

	if instruments.uptime, err = meter.Int64ObservableCounter(
		"stage.uptime",
		metric.WithDescription("Uptime of the stage in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return &instruments, nil
}

func (x *StageMetric) ActorsCount() metric.Int64ObservableGauge {
	return x.actorsCount
}

func (x *StageMetric) DeadlettersCount() metric.Int64ObservableCounter {
	return x.deadlettersCount
}

func (x *StageMetric) Uptime() metric.Int64ObservableCounter {
	return x.uptime
}
