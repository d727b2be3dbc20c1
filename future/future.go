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

package future

import (
	"context"
	"fmt"
	"sync"
)

// Future represents an outcome which will be available at some point, or an
// error if the outcome could not be produced.
//
// A Future is the caller-side view of a completion Handle: the actor fulfills
// the Handle through the Registry, the caller awaits the Future.
//
// Example usage:
//
//	fut, err := actor.Ask(ctx, pid, "counter.Get", func(c Counter) error {
//	    return c.Get()
//	})
//	if err != nil {
//	    return err
//	}
//	value, err := future.AwaitAs[int](ctx, fut)
type Future struct {
	mu        sync.Mutex
	done      chan struct{}
	value     any
	err       error
	completed bool
	callbacks []func()
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Await blocks until the Future is completed or ctx is done and
// returns either the outcome or an error.
func (x *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-x.done:
		return x.value, x.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done returns a channel closed once the Future is completed.
func (x *Future) Done() <-chan struct{} {
	return x.done
}

// Result returns the outcome of a completed Future, or nil when it is still pending.
func (x *Future) Result() *Result {
	select {
	case <-x.done:
		return &Result{success: x.value, failure: x.err}
	default:
		return nil
	}
}

// OnComplete registers fn to run once the Future is completed.
// fn runs right away when the Future is already completed.
func (x *Future) OnComplete(fn func()) {
	x.mu.Lock()
	if !x.completed {
		x.callbacks = append(x.callbacks, fn)
		x.mu.Unlock()
		return
	}
	x.mu.Unlock()
	fn()
}

// complete must be called at most once; the Handle guarantees it.
func (x *Future) complete(value any, err error) {
	x.mu.Lock()
	x.value = value
	x.err = err
	x.completed = true
	callbacks := x.callbacks
	x.callbacks = nil
	close(x.done)
	x.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// AwaitAs awaits the Future and asserts its outcome to T.
func AwaitAs[T any](ctx context.Context, f *Future) (T, error) {
	var zero T
	value, err := f.Await(ctx)
	if err != nil {
		return zero, err
	}

	if value == nil {
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected outcome type %T, want %T", value, zero)
	}
	return typed, nil
}
