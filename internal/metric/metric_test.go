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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewActorMetric(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	actorMetric, err := NewActorMetric(meter)
	require.NoError(t, err)
	require.NotNil(t, actorMetric)
	assert.NotNil(t, actorMetric.ProcessedCount())
	assert.NotNil(t, actorMetric.FailureCount())
	assert.NotNil(t, actorMetric.RestartCount())
	assert.NotNil(t, actorMetric.StowedCount())
	assert.NotNil(t, actorMetric.DeadletterCount())
	assert.NotNil(t, actorMetric.MailboxSize())
	assert.Len(t, actorMetric.Instruments(), 6)
}

func TestNewStageMetric(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	stageMetric, err := NewStageMetric(meter)
	require.NoError(t, err)
	assert.NotNil(t, stageMetric.ActorsCount())
	assert.NotNil(t, stageMetric.DeadlettersCount())
	assert.NotNil(t, stageMetric.Uptime())
}

func TestProvider(t *testing.T) {
	provider := NewProvider(noop.NewMeterProvider())
	assert.NotNil(t, provider.Meter())

	global := NewProvider(nil)
	assert.NotNil(t, global.Meter())
}
