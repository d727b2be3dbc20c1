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
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tochemey/gostage/errors"
	"github.com/tochemey/gostage/internal/xsync"
)

const (
	pending uint32 = iota
	fulfilled
	cancelled
)

// Handle identifies a pending Future owned by the caller that sent a message.
// A message only carries a reference to it; the Registry is its owner.
type Handle struct {
	id     string
	state  *atomic.Uint32
	future *Future
}

// ID returns the handle identifier
func (h *Handle) ID() string {
	return h.id
}

// Future returns the caller side of the handle
func (h *Handle) Future() *Future {
	return h.future
}

// IsFulfilled reports whether the handle has been fulfilled.
func (h *Handle) IsFulfilled() bool {
	return h.state.Load() == fulfilled
}

// Registry keeps the pending completion handles of a stage.
//
// Fulfilling a handle removes it from the registry. A handle is fulfilled at most
// once: any further attempt returns errors.ErrAlreadyCompleted.
type Registry struct {
	pending   *xsync.ShardedMap[*Handle]
	fulfilled *atomic.Int64
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		pending:   xsync.NewShardedMap[*Handle](xsync.DefaultShardCount),
		fulfilled: atomic.NewInt64(0),
	}
}

// Register creates a new pending handle.
func (r *Registry) Register() *Handle {
	handle := &Handle{
		id:     uuid.NewString(),
		state:  atomic.NewUint32(pending),
		future: newFuture(),
	}
	r.pending.Set(handle.id, handle)
	return handle
}

// Fulfill completes the handle with the given outcome.
//
// The handle is looked up by identity: a different handle carrying the same id
// is rejected with errors.ErrUnknownHandle.
func (r *Registry) Fulfill(handle *Handle, value any, err error) error {
	if handle == nil {
		return errors.ErrUnknownHandle
	}

	stored, ok := r.pending.Get(handle.id)
	if !ok || stored != handle {
		if handle.state.Load() == fulfilled {
			return errors.NewErrAlreadyCompleted(handle.id)
		}
		return errors.NewErrUnknownHandle(handle.id)
	}

	if !handle.state.CompareAndSwap(pending, fulfilled) {
		if handle.state.Load() == fulfilled {
			return errors.NewErrAlreadyCompleted(handle.id)
		}
		return errors.NewErrUnknownHandle(handle.id)
	}

	r.pending.Delete(handle.id)
	r.fulfilled.Inc()
	handle.future.complete(value, err)
	return nil
}

// Cancel drops a pending handle, failing its Future with err.
// It returns false when the handle was no longer pending.
func (r *Registry) Cancel(handle *Handle, err error) bool {
	if handle == nil || !handle.state.CompareAndSwap(pending, cancelled) {
		return false
	}
	r.pending.Delete(handle.id)
	handle.future.complete(nil, err)
	return true
}

// Len returns the number of pending handles.
func (r *Registry) Len() int {
	return r.pending.Len()
}

// FulfilledCount returns the number of handles fulfilled so far.
func (r *Registry) FulfilledCount() int64 {
	return r.fulfilled.Load()
}
