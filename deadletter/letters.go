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

package deadletter

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/gostage/eventstream"
	"github.com/tochemey/gostage/internal/xsync"
	"github.com/tochemey/gostage/log"
)

// Topic is the event stream topic letters are published on
const Topic = "topic.deadletters"

// DefaultCapacity is the default number of retained letters
const DefaultCapacity = 1_000

// Letters is the default Sink. It counts letters globally and per actor,
// retains the most recent ones, notifies listeners and optionally publishes
// every letter on an event stream.
type Letters struct {
	logger    log.Logger
	stream    eventstream.Stream
	listeners []Listener
	capacity  int

	total    *atomic.Int64
	perActor *xsync.Map[string, int64]

	mu       sync.Mutex
	retained []*Letter
	oldest   int
}

var _ Sink = (*Letters)(nil)

// New creates an instance of Letters
func New(opts ...Option) *Letters {
	letters := &Letters{
		logger:   log.DiscardLogger,
		capacity: DefaultCapacity,
		total:    atomic.NewInt64(0),
		perActor: xsync.NewMap[string, int64](),
	}

	for _, opt := range opts {
		opt.Apply(letters)
	}

	return letters
}

// FailedDelivery records the letter
func (x *Letters) FailedDelivery(letter *Letter) {
	if letter == nil {
		return
	}

	x.total.Inc()
	x.perActor.Compute(letter.ActorID, func(current int64, _ bool) int64 {
		return current + 1
	})

	if x.capacity > 0 {
		x.mu.Lock()
		if len(x.retained) < x.capacity {
			x.retained = append(x.retained, letter)
		} else {
			// overwrite the oldest letter
			x.retained[x.oldest] = letter
			x.oldest = (x.oldest + 1) % x.capacity
		}
		x.mu.Unlock()
	}

	x.logger.Debugf("%s", letter)

	for _, listener := range x.listeners {
		listener.Handle(letter)
	}

	if x.stream != nil {
		x.stream.Publish(Topic, letter)
	}
}

// Count returns the total number of letters recorded
func (x *Letters) Count() int64 {
	return x.total.Load()
}

// CountFor returns the number of letters recorded for the given actor
func (x *Letters) CountFor(actorID string) int64 {
	count, _ := x.perActor.Get(actorID)
	return count
}

// Letters returns a copy of the retained letters, oldest first
func (x *Letters) Letters() []*Letter {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([]*Letter, 0, len(x.retained))
	out = append(out, x.retained[x.oldest:]...)
	out = append(out, x.retained[:x.oldest]...)
	return out
}

// Reset clears the counters and retained letters
func (x *Letters) Reset() {
	x.total.Store(0)
	x.perActor.Reset()
	x.mu.Lock()
	x.retained = nil
	x.oldest = 0
	x.mu.Unlock()
}
