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
	"fmt"
	"runtime"

	gerrors "github.com/tochemey/gostage/errors"
)

// deliver runs one delivery step for msg inside the actor turn.
// stowed is true when msg is replayed from a lifecycle buffer.
func (pid *PID) deliver(msg *Message, stowed bool) {
	lc := pid.lc
	switch {
	case lc.is(resumingFlag):
		if stowed {
			pid.internalDeliver(msg)
		} else {
			// the newcomer queues behind the buffered messages
			pid.internalDeliver(lc.suspended.swapWith(msg))
		}
		if lc.suspended.isEmpty() {
			lc.toggle(resumingFlag, false)
		}
	case lc.is(dispersingFlag):
		pid.internalDeliver(msg)
		if lc.stowage.isEmpty() {
			lc.toggle(dispersingFlag, false)
		}
	default:
		pid.internalDeliver(msg)
	}
}

// internalDeliver executes msg, buffers it or redirects it to dead letters.
func (pid *PID) internalDeliver(msg *Message) {
	lc := pid.lc
	switch {
	case lc.is(stoppedFlag):
		pid.toDeadLetter(msg, gerrors.ErrDead)
	case lc.is(suspendedFlag):
		lc.suspended.stow(msg)
	case lc.is(stowingFlag) && !lc.isStowageOverride(msg.protocol):
		lc.stowage.stow(msg)
		pid.stowedCount.Inc()
	default:
		pid.execute(msg)
	}
}

// execute invokes msg against the actor. A failure is logged and handed to
// the stage for supervision; a success routes the completion outcome.
func (pid *PID) execute(msg *Message) {
	pid.completes.reset(msg.completes)

	if err := pid.invoke(msg); err != nil {
		pid.failureCount.Inc()
		pid.logger.Errorf("actor=(%s) failed to process message=(%s): %v", pid.Name(), msg.representation, err)
		pid.stage.handleFailureOf(pid, msg, err)
		return
	}

	pid.processedCount.Inc()
	pid.routeCompletion()
}

// invoke runs the deferred call and turns a panic into an error value
func (pid *PID) invoke(msg *Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	return msg.invoke(pid.actor)
}

// safeHook runs a lifecycle hook and turns a panic into an error value
func safeHook(hook func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	return hook()
}

// build invokes factory and turns a panic into an error value
func build(factory Factory) (instance Actor, err error) {
	err = safeHook(func() error {
		instance = factory()
		return nil
	})
	return instance, err
}

// recovered converts a recovered panic value into an error enriched with the
// panic location. panic(nil) keeps its *runtime.PanicNilError type so the
// supervisor can tell it apart.
func recovered(r any) error {
	pc, fn, line, _ := runtime.Caller(3)
	location := fmt.Sprintf("%s[%s:%d]", runtime.FuncForPC(pc).Name(), fn, line)

	err, ok := r.(error)
	if !ok {
		return gerrors.NewPanicError(fmt.Errorf("%#v at %s", r, location))
	}

	var pe *gerrors.PanicError
	if errors.As(err, &pe) {
		return pe
	}

	var pne *runtime.PanicNilError
	if errors.As(err, &pne) {
		return pne
	}

	return gerrors.NewPanicError(fmt.Errorf("%w at %s", err, location))
}
