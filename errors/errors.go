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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrUndefinedActor is returned when an actor reference or factory is nil.
	ErrUndefinedActor = errors.New("actor is not defined")

	// ErrInvalidActorName is returned when an actor name is empty.
	ErrInvalidActorName = errors.New("invalid actor name")

	// ErrNameRequired is returned when a stage name is required but not provided.
	ErrNameRequired = errors.New("stage name is required")

	// ErrStageNotRunning is returned when an operation needs a started stage.
	ErrStageNotRunning = errors.New("stage is not running")

	// ErrStageAlreadyStarted is returned when Start is called twice.
	ErrStageAlreadyStarted = errors.New("stage has already started")

	// ErrInitFailure is returned when the BeforeStart hook of an actor fails.
	ErrInitFailure = errors.New("failed to initialize")

	// ErrMailboxFull is returned when a bounded mailbox cannot accept more messages.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrMailboxDisposed is returned when enqueuing into a disposed mailbox.
	ErrMailboxDisposed = errors.New("mailbox has been disposed")

	// ErrProtocolMismatch is returned when a message targets a protocol the actor
	// does not implement.
	ErrProtocolMismatch = errors.New("actor does not implement the message protocol")

	// ErrUndefinedConsumer is returned when a message is built without an invocation.
	ErrUndefinedConsumer = errors.New("message consumer is not defined")

	// ErrAlreadyCompleted is returned when a completion handle is fulfilled more than once.
	ErrAlreadyCompleted = errors.New("completion handle already fulfilled")

	// ErrUnknownHandle is returned when the future registry does not own the given handle.
	ErrUnknownHandle = errors.New("unknown completion handle")

	// ErrUnresolvedEscalation is reported when a failure is escalated past the stage root supervisor.
	ErrUnresolvedEscalation = errors.New("unresolved escalation at root supervisor")

	// ErrSchedulerNotStarted is returned when the message scheduler is not running.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrScheduledMessageNotFound is returned when cancelling an unknown scheduled message.
	ErrScheduledMessageNotFound = errors.New("scheduled message not found")

	// ErrInvalidInterval is returned when a repeating schedule has a non-positive interval.
	ErrInvalidInterval = errors.New("interval must be positive")

	// ErrWorkerPoolStopped is returned when work is submitted to a stopped pool.
	ErrWorkerPoolStopped = errors.New("worker pool is stopped")
)

// NewErrInitFailure wraps a base error with ErrInitFailure to indicate a startup failure.
func NewErrInitFailure(err error) error {
	return errors.Join(ErrInitFailure, err)
}

// NewErrProtocolMismatch formats an ErrProtocolMismatch for the given actor and protocol.
func NewErrProtocolMismatch(actor, protocol string) error {
	return fmt.Errorf("actor=(%s) protocol=(%s) %w", actor, protocol, ErrProtocolMismatch)
}

// NewErrUnresolvedEscalation wraps the escalated failure of the given actor.
func NewErrUnresolvedEscalation(actor string, reason error) error {
	return fmt.Errorf("actor=(%s) %w: %w", actor, ErrUnresolvedEscalation, reason)
}

// NewErrAlreadyCompleted formats an ErrAlreadyCompleted for the given handle id.
func NewErrAlreadyCompleted(handle string) error {
	return fmt.Errorf("handle=(%s) %w", handle, ErrAlreadyCompleted)
}

// NewErrUnknownHandle formats an ErrUnknownHandle for the given handle id.
func NewErrUnknownHandle(handle string) error {
	return fmt.Errorf("handle=(%s) %w", handle, ErrUnknownHandle)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// AnyError defines the any error type
// this is used to represent any error when handling the supervisor directive
type AnyError struct{}

// interface guard
var _ error = (*AnyError)(nil)

// Error implements error.
func (*AnyError) Error() string {
	return "*"
}
