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
	"errors"

	gerrors "github.com/tochemey/gostage/errors"
	"github.com/tochemey/gostage/future"
)

// Completes is the completion register of the message being processed.
//
// It is reset before every invocation. When the invocation returns without
// error and an outcome was set, the outcome fulfills the sender's future.
// Messages sent with Tell carry no handle: outcomes set for them are ignored.
type Completes struct {
	handle *future.Handle
	value  any
	err    error
	set    bool
	stage  *Stage
}

func newCompletes(stage *Stage) *Completes {
	return &Completes{stage: stage}
}

// With sets a successful outcome
func (c *Completes) With(value any) {
	c.value = value
	c.err = nil
	c.set = true
}

// Fail sets a failed outcome
func (c *Completes) Fail(err error) {
	c.value = nil
	c.err = err
	c.set = true
}

// HasOutcome reports whether an outcome has been set during the current invocation
func (c *Completes) HasOutcome() bool {
	return c.set
}

// Eventually detaches the completion handle of the current message so the
// outcome can be produced later, for instance by a goroutine started during
// the invocation. It returns nil when the message carries no handle.
func (c *Completes) Eventually() *Eventually {
	if c.handle == nil {
		return nil
	}
	return &Eventually{handle: c.handle, registry: c.stage.futures}
}

func (c *Completes) reset(handle *future.Handle) {
	c.handle = handle
	c.value = nil
	c.err = nil
	c.set = false
}

// Eventually fulfills a completion handle outside of the actor turn.
type Eventually struct {
	handle   *future.Handle
	registry *future.Registry
}

// With fulfills the handle with value.
// It returns errors.ErrAlreadyCompleted when the handle was already fulfilled.
func (e *Eventually) With(value any) error {
	return e.registry.Fulfill(e.handle, value, nil)
}

// Fail fulfills the handle with err.
// It returns errors.ErrAlreadyCompleted when the handle was already fulfilled.
func (e *Eventually) Fail(err error) error {
	return e.registry.Fulfill(e.handle, nil, err)
}

// routeCompletion fulfills the current handle with the outcome produced by the
// invocation. A second fulfillment is a contract violation reported at error level.
func (pid *PID) routeCompletion() {
	c := pid.completes
	if c.handle == nil || !c.set {
		return
	}

	err := pid.stage.futures.Fulfill(c.handle, c.value, c.err)
	switch {
	case err == nil:
	case errors.Is(err, gerrors.ErrAlreadyCompleted):
		pid.logger.Errorf("actor=(%s) failed to complete message: %v", pid.Name(), err)
	default:
		// the sender gave up waiting
		pid.logger.Debugf("actor=(%s) dropped outcome: %v", pid.Name(), err)
	}
}
