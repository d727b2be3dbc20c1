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
	"github.com/tochemey/gostage/eventstream"
	"github.com/tochemey/gostage/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(letters *Letters)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(letters *Letters)

// Apply applies the options to Letters
func (f OptionFunc) Apply(letters *Letters) {
	f(letters)
}

// WithLogger sets the logger used to trace every letter at debug level
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(letters *Letters) {
		letters.logger = logger
	})
}

// WithEventStream publishes every letter on the given stream under Topic
func WithEventStream(stream eventstream.Stream) Option {
	return OptionFunc(func(letters *Letters) {
		letters.stream = stream
	})
}

// WithListener registers a listener invoked for every letter
func WithListener(listener Listener) Option {
	return OptionFunc(func(letters *Letters) {
		letters.listeners = append(letters.listeners, listener)
	})
}

// WithCapacity sets the number of letters retained for inspection.
// Zero disables retention.
func WithCapacity(capacity int) Option {
	return OptionFunc(func(letters *Letters) {
		if capacity >= 0 {
			letters.capacity = capacity
		}
	})
}
