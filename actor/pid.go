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
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/gostage/deadletter"
	"github.com/tochemey/gostage/errors"
	"github.com/tochemey/gostage/internal/metric"
	"github.com/tochemey/gostage/internal/queue"
	"github.com/tochemey/gostage/internal/xsync"
	"github.com/tochemey/gostage/log"
	"github.com/tochemey/gostage/supervisor"
)

const (
	idle int32 = iota
	busy
)

// PID is the handle of a live actor. It owns the actor's mailbox, lifecycle
// and drain loop. A PID is safe for concurrent use.
type PID struct {
	id      string
	name    string
	kind    reflect.Type
	stage   *Stage
	parent  *PID
	factory Factory

	// actor is only read and replaced inside the actor's own turn
	actor Actor

	supervisor *supervisor.Supervisor
	children   *xsync.Map[string, *PID]

	mailbox  Mailbox
	controls *queue.Queue[*Message]
	lc       *lifecycle

	processing *atomic.Int32
	completes  *Completes
	logger     log.Logger

	processedCount  *atomic.Int64
	failureCount    *atomic.Int64
	restartCount    *atomic.Int64
	stowedCount     *atomic.Int64
	deadletterCount *atomic.Int64
	startedAt       *atomic.Time

	metricRegistration otelmetric.Registration

	terminated chan struct{}
	closeOnce  sync.Once
}

func newPID(stage *Stage, parent *PID, name string, factory Factory, instance Actor, config *spawnConfig) *PID {
	id := uuid.NewString()
	pid := &PID{
		id:              id,
		name:            name,
		kind:            reflect.TypeOf(instance),
		stage:           stage,
		parent:          parent,
		factory:         factory,
		actor:           instance,
		supervisor:      config.supervisor,
		children:        xsync.NewMap[string, *PID](),
		mailbox:         config.mailbox,
		controls:        queue.New[*Message](),
		lc:              newLifecycle(),
		processing:      atomic.NewInt32(idle),
		completes:       newCompletes(stage),
		logger:          stage.logger.With("actor", name, "actor.id", id),
		processedCount:  atomic.NewInt64(0),
		failureCount:    atomic.NewInt64(0),
		restartCount:    atomic.NewInt64(0),
		stowedCount:     atomic.NewInt64(0),
		deadletterCount: atomic.NewInt64(0),
		startedAt:       atomic.NewTime(time.Time{}),
		terminated:      make(chan struct{}),
	}

	if pid.mailbox == nil {
		pid.mailbox = NewUnboundedMailbox()
	}

	pid.bind(instance)
	return pid
}

// ID returns the unique identifier of the actor
func (pid *PID) ID() string {
	return pid.id
}

// Name returns the actor name
func (pid *PID) Name() string {
	return pid.name
}

// Kind returns the concrete type of the actor
func (pid *PID) Kind() reflect.Type {
	return pid.kind
}

// Parent returns the parent PID, nil for top-level actors
func (pid *PID) Parent() *PID {
	return pid.parent
}

// Children returns the live children of the actor
func (pid *PID) Children() []*PID {
	return pid.children.Values()
}

// IsRunning reports whether the actor accepts execution
func (pid *PID) IsRunning() bool {
	return !pid.lc.is(stoppedFlag)
}

// IsSuspended reports whether the actor waits for a supervision directive
func (pid *PID) IsSuspended() bool {
	return pid.lc.is(suspendedFlag)
}

// IsResuming reports whether the suspended buffer is being replayed
func (pid *PID) IsResuming() bool {
	return pid.lc.is(resumingFlag)
}

// IsStowing reports whether the actor is stowing messages
func (pid *PID) IsStowing() bool {
	return pid.lc.is(stowingFlag)
}

// IsDispersing reports whether stowed messages are being replayed
func (pid *PID) IsDispersing() bool {
	return pid.lc.is(dispersingFlag)
}

// ProcessedCount returns the number of messages processed successfully
func (pid *PID) ProcessedCount() int64 {
	return pid.processedCount.Load()
}

// FailureCount returns the number of failed invocations
func (pid *PID) FailureCount() int64 {
	return pid.failureCount.Load()
}

// RestartCount returns the number of restarts
func (pid *PID) RestartCount() int64 {
	return pid.restartCount.Load()
}

// StowedCount returns the number of messages that were stowed
func (pid *PID) StowedCount() int64 {
	return pid.stowedCount.Load()
}

// DeadletterCount returns the number of messages dead-lettered by this actor
func (pid *PID) DeadletterCount() int64 {
	return pid.deadletterCount.Load()
}

// MailboxSize returns the number of messages waiting in the mailbox
func (pid *PID) MailboxSize() int64 {
	return pid.mailbox.Len()
}

// Uptime returns the number of seconds since the actor started, zero once stopped
func (pid *PID) Uptime() int64 {
	if !pid.IsRunning() {
		return 0
	}
	startedAt := pid.startedAt.Load()
	if startedAt.IsZero() {
		return 0
	}
	return int64(time.Since(startedAt).Seconds())
}

// Terminated returns a channel closed once the actor has stopped
func (pid *PID) Terminated() <-chan struct{} {
	return pid.terminated
}

// Equals reports whether both PIDs refer to the same actor
func (pid *PID) Equals(other *PID) bool {
	return other != nil && pid.id == other.id
}

func (pid *PID) String() string {
	return fmt.Sprintf("%s(%s)", pid.name, pid.id)
}

// Stop stops the actor and waits for its termination or ctx.
// Children are stopped first and AfterStop runs exactly once.
//
// Stop must not be called from the actor's own turn: use Base.Stop there.
func (pid *PID) Stop(ctx context.Context) error {
	if !pid.IsRunning() {
		select {
		case <-pid.terminated:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := pid.sendControl("stop", func() { pid.terminate(ctx) }); err != nil {
		return err
	}

	select {
	case <-pid.terminated:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// bind attaches instance to the PID
func (pid *PID) bind(instance Actor) {
	instance.base().pid = pid
	pid.actor = instance
}

// enqueue puts msg in the mailbox and schedules a turn
func (pid *PID) enqueue(msg *Message) error {
	if err := pid.mailbox.Enqueue(msg); err != nil {
		return err
	}
	pid.schedule()
	return nil
}

// sendControl queues fn to run inside the actor turn ahead of the mailbox
func (pid *PID) sendControl(representation string, fn func()) error {
	if !pid.controls.Push(newControlMessage(pid, representation, fn)) {
		return errors.ErrDead
	}
	pid.schedule()
	return nil
}

// schedule submits a drain turn unless one is already running
func (pid *PID) schedule() {
	if !pid.processing.CompareAndSwap(idle, busy) {
		return
	}

	if err := pid.stage.pool.SubmitWork(pid.turn); err != nil {
		pid.processing.Store(idle)
		pid.logger.Warnf("actor=(%s) could not be scheduled: %v", pid.Name(), err)
	}
}

// turn drains the actor until there is nothing left to process.
// At most one turn runs at a time for a given actor.
func (pid *PID) turn() {
	for {
		for {
			msg, stowed := pid.next()
			if msg == nil {
				break
			}
			pid.handle(msg, stowed)
		}

		pid.processing.Store(idle)

		// a producer may have enqueued after the last empty check
		if (pid.controls.IsEmpty() && pid.mailbox.IsEmpty()) || !pid.processing.CompareAndSwap(idle, busy) {
			return
		}
	}
}

// next picks the next message to handle. stowed is true for messages replayed
// from one of the lifecycle buffers.
//
// Order: control messages, then the stowage buffer while dispersing, then the
// mailbox, then the suspended buffer while resuming. Replays never run while
// the actor is suspended.
func (pid *PID) next() (*Message, bool) {
	if msg, ok := pid.controls.Pop(); ok {
		return msg, false
	}

	lc := pid.lc
	if lc.is(dispersingFlag) && !lc.is(suspendedFlag) {
		if msg := lc.stowage.head(); msg != nil {
			return msg, true
		}
		lc.toggle(dispersingFlag, false)
	}

	if msg := pid.mailbox.Dequeue(); msg != nil {
		return msg, false
	}

	if lc.is(resumingFlag) && !lc.is(suspendedFlag) {
		if msg := lc.suspended.head(); msg != nil {
			return msg, true
		}
		lc.toggle(resumingFlag, false)
	}

	return nil, false
}

func (pid *PID) handle(msg *Message, stowed bool) {
	if msg.isControl() {
		msg.control()
		return
	}

	pid.deliver(msg, stowed)

	if pid.lc.is(stopRequestedFlag) {
		pid.terminate(context.Background())
	}
}

// terminate stops the children, runs AfterStop once, dead-letters the
// buffered messages and unregisters the actor.
//
// The stopped flag is set before AfterStop: it guards the single run of the
// hook, and no message is executed once the flag is set.
func (pid *PID) terminate(ctx context.Context) {
	if !pid.lc.markStopped() {
		return
	}

	pid.stopChildren(ctx)

	if err := safeHook(func() error { return pid.actor.AfterStop(ctx) }); err != nil {
		pid.logger.Errorf("actor=(%s) AfterStop failed: %v", pid.Name(), err)
	}

	for _, msg := range pid.lc.drain() {
		pid.toDeadLetter(msg, errors.ErrDead)
	}

	if pid.metricRegistration != nil {
		if err := pid.metricRegistration.Unregister(); err != nil {
			pid.logger.Warnf("actor=(%s) failed to unregister metrics: %v", pid.Name(), err)
		}
	}

	if pid.supervisor != nil {
		pid.supervisor.Forget(pid)
	}
	pid.stage.rootSupervisor.Forget(pid)

	if pid.parent != nil {
		pid.parent.children.Delete(pid.id)
	}
	pid.stage.actors.Delete(pid.id)

	pid.stage.publish(&ActorStopped{ActorID: pid.id, ActorName: pid.name, At: time.Now()})
	pid.logger.Debugf("actor=(%s) stopped", pid.Name())

	pid.closeOnce.Do(func() { close(pid.terminated) })
}

func (pid *PID) stopChildren(ctx context.Context) {
	children := pid.children.Values()
	if len(children) == 0 {
		return
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, child := range children {
		eg.Go(func() error {
			return child.Stop(ctx)
		})
	}

	if err := eg.Wait(); err != nil {
		pid.logger.Warnf("actor=(%s) failed to stop its children: %v", pid.Name(), err)
	}
}

// toDeadLetter hands msg to the stage dead letters and cancels its handle
func (pid *PID) toDeadLetter(msg *Message, reason error) {
	pid.deadletterCount.Inc()
	pid.stage.deadlettersCount.Inc()

	if msg.completes != nil {
		pid.stage.futures.Cancel(msg.completes, reason)
	}

	sink := pid.stage.deadletters
	if sink == nil {
		pid.logger.Warnf("missing dead letters: actor=(%s) message=(%s)", pid.Name(), msg.representation)
		return
	}

	sink.FailedDelivery(&deadletter.Letter{
		ActorID:        pid.id,
		ActorName:      pid.name,
		Representation: msg.representation,
		Reason:         reason,
		Timestamp:      time.Now(),
	})
}

func (pid *PID) registerMetrics(provider *metric.Provider) error {
	if provider == nil || provider.Meter() == nil {
		return nil
	}

	meter := provider.Meter()
	metrics, err := metric.NewActorMetric(meter)
	if err != nil {
		return err
	}

	observeOptions := []otelmetric.ObserveOption{
		otelmetric.WithAttributes(
			attribute.String("stage.name", pid.stage.Name()),
			attribute.String("actor.name", pid.Name()),
			attribute.String("actor.id", pid.ID()),
		),
	}

	pid.metricRegistration, err = meter.RegisterCallback(func(_ context.Context, observer otelmetric.Observer) error {
		observer.ObserveInt64(metrics.ProcessedCount(), pid.ProcessedCount(), observeOptions...)
		observer.ObserveInt64(metrics.FailureCount(), pid.FailureCount(), observeOptions...)
		observer.ObserveInt64(metrics.RestartCount(), pid.RestartCount(), observeOptions...)
		observer.ObserveInt64(metrics.StowedCount(), pid.StowedCount(), observeOptions...)
		observer.ObserveInt64(metrics.DeadletterCount(), pid.DeadletterCount(), observeOptions...)
		observer.ObserveInt64(metrics.MailboxSize(), pid.MailboxSize(), observeOptions...)
		return nil
	}, metrics.Instruments()...)

	return err
}
