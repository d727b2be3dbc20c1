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
	"context"
	"reflect"

	"github.com/tochemey/gostage/errors"
	"github.com/tochemey/gostage/future"
)

// Tell sends a fire-and-forget message to pid. consumer runs inside the actor
// turn with the actor viewed as P; representation describes the message in
// logs and dead letters.
//
// Tell returns errors.ErrProtocolMismatch when the actor does not implement P
// and errors.ErrMailboxFull when a bounded mailbox is full. A message sent to
// a stopped actor is dead-lettered, not rejected.
//
// Tell never executes consumer on the calling goroutine, including when an
// actor sends to itself.
func Tell[P any](pid *PID, representation string, consumer func(P) error) error {
	if err := checkSend[P](pid, consumer); err != nil {
		return err
	}
	return pid.enqueue(newMessage(pid, representation, consumer, nil))
}

// Ask sends a message whose outcome is set by the actor through Completes.
// The returned future is completed with that outcome, failed with
// errors.ErrDead when the message is dead-lettered, or failed with the ctx
// error once ctx is done.
func Ask[P any](ctx context.Context, pid *PID, representation string, consumer func(P) error) (*future.Future, error) {
	if err := checkSend[P](pid, consumer); err != nil {
		return nil, err
	}

	futures := pid.stage.futures
	handle := futures.Register()
	if err := pid.enqueue(newMessage(pid, representation, consumer, handle)); err != nil {
		futures.Cancel(handle, err)
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() {
		futures.Cancel(handle, ctx.Err())
	})
	handle.Future().OnComplete(func() { stop() })
	return handle.Future(), nil
}

func checkSend[P any](pid *PID, consumer func(P) error) error {
	if pid == nil {
		return errors.ErrUndefinedActor
	}

	if consumer == nil {
		return errors.ErrUndefinedConsumer
	}

	if !pid.stage.Running() {
		return errors.ErrStageNotRunning
	}

	protocol := reflect.TypeFor[P]()
	if !pid.kind.AssignableTo(protocol) {
		return errors.NewErrProtocolMismatch(pid.Name(), protocol.String())
	}
	return nil
}
