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
	"strings"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tochemey/gostage/deadletter"
	"github.com/tochemey/gostage/errors"
	"github.com/tochemey/gostage/eventstream"
	"github.com/tochemey/gostage/future"
	"github.com/tochemey/gostage/internal/metric"
	"github.com/tochemey/gostage/internal/workerpool"
	"github.com/tochemey/gostage/internal/xsync"
	"github.com/tochemey/gostage/log"
	"github.com/tochemey/gostage/supervisor"
)

const (
	DefaultInitMaxRetries  = 5
	DefaultInitTimeout     = time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Stage is the runtime every actor lives in. It owns the worker pool running
// delivery turns, the actor registry, the future registry, the dead letters,
// the event stream, the scheduler and the root supervisor.
type Stage struct {
	name   string
	logger log.Logger

	pool              *workerpool.WorkerPool
	workerIdleTimeout time.Duration
	workerShards      int

	actors  *xsync.ShardedMap[*PID]
	futures *future.Registry
	stream  *eventstream.EventsStream

	deadletters       deadletter.Sink
	customDeadletters bool
	deadlettersCount  *atomic.Int64

	rootSupervisor *supervisor.Supervisor
	scheduler      *scheduler

	initMaxRetries  int
	initTimeout     time.Duration
	shutdownTimeout time.Duration

	meterProvider      otelmetric.MeterProvider
	metricProvider     *metric.Provider
	metricRegistration otelmetric.Registration

	started   *atomic.Bool
	startedAt *atomic.Time
	mu        sync.Mutex
}

// NewStage creates a Stage. The stage must be started before actors can be spawned.
func NewStage(name string, opts ...Option) (*Stage, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.ErrNameRequired
	}

	stage := &Stage{
		name:             name,
		logger:           log.DefaultLogger,
		actors:           xsync.NewShardedMap[*PID](xsync.DefaultShardCount),
		futures:          future.NewRegistry(),
		stream:           eventstream.New(),
		deadlettersCount: atomic.NewInt64(0),
		rootSupervisor:   supervisor.NewSupervisor(supervisor.WithAnyErrorDirective(supervisor.RestartDirective)),
		initMaxRetries:   DefaultInitMaxRetries,
		initTimeout:      DefaultInitTimeout,
		shutdownTimeout:  DefaultShutdownTimeout,
		workerShards:     1,
		started:          atomic.NewBool(false),
		startedAt:        atomic.NewTime(time.Time{}),
	}

	for _, opt := range opts {
		opt.Apply(stage)
	}

	if !stage.customDeadletters {
		stage.deadletters = deadletter.New(
			deadletter.WithLogger(stage.logger),
			deadletter.WithEventStream(stage.stream),
		)
	}

	stage.pool = workerpool.New(
		workerpool.WithPassivateAfter(stage.workerIdleTimeout),
		workerpool.WithNumShards(stage.workerShards),
	)

	messagesScheduler, err := newScheduler(stage.logger, stage.shutdownTimeout)
	if err != nil {
		return nil, err
	}
	stage.scheduler = messagesScheduler

	if stage.meterProvider != nil {
		stage.metricProvider = metric.NewProvider(stage.meterProvider)
	}

	return stage, nil
}

// Name returns the stage name
func (s *Stage) Name() string {
	return s.name
}

// Logger returns the stage logger
func (s *Stage) Logger() log.Logger {
	return s.logger
}

// Running reports whether the stage has started
func (s *Stage) Running() bool {
	return s.started.Load()
}

// Uptime returns the number of seconds since the stage started
func (s *Stage) Uptime() int64 {
	if !s.Running() {
		return 0
	}
	return int64(time.Since(s.startedAt.Load()).Seconds())
}

// DeadLetters returns the sink receiving undeliverable messages, nil when disabled
func (s *Stage) DeadLetters() deadletter.Sink {
	return s.deadletters
}

// DeadlettersCount returns the number of messages dead-lettered in the stage
func (s *Stage) DeadlettersCount() int64 {
	return s.deadlettersCount.Load()
}

// Actors returns every live actor, children included
func (s *Stage) Actors() []*PID {
	return s.actors.Values()
}

// PendingCompletions returns the number of futures still waiting for an outcome
func (s *Stage) PendingCompletions() int {
	return s.futures.Len()
}

// Start starts the stage
func (s *Stage) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started.Load() {
		return errors.ErrStageAlreadyStarted
	}

	s.logger.Infof("starting stage=(%s)...", s.name)
	s.pool.Start()
	s.scheduler.Start(ctx)

	if err := s.registerMetrics(); err != nil {
		s.scheduler.Stop(ctx)
		s.pool.Stop()
		return err
	}

	s.startedAt.Store(time.Now())
	s.started.Store(true)
	s.logger.Infof("stage=(%s) started", s.name)
	return nil
}

// Stop stops every actor in parallel, then the scheduler, the worker pool and
// the event stream. Errors are aggregated.
func (s *Stage) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() {
		return errors.ErrStageNotRunning
	}

	s.logger.Infof("stopping stage=(%s)...", s.name)
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	var (
		err error
		wg  sync.WaitGroup
		emu sync.Mutex
	)

	for _, pid := range s.actors.Values() {
		if pid.parent != nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if stopErr := pid.Stop(ctx); stopErr != nil {
				emu.Lock()
				err = multierr.Append(err, stopErr)
				emu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.scheduler.Stop(ctx)
	s.started.Store(false)
	s.pool.Stop()
	s.stream.Close()

	if s.metricRegistration != nil {
		err = multierr.Append(err, s.metricRegistration.Unregister())
	}

	if err != nil {
		s.logger.Errorf("stage=(%s) stopped with errors: %v", s.name, err)
		return err
	}

	s.logger.Infof("stage=(%s) stopped", s.name)
	return nil
}

// Spawn creates a top-level actor from factory and runs its BeforeStart hook.
// The factory is invoked again whenever the actor restarts.
func (s *Stage) Spawn(ctx context.Context, name string, factory Factory, opts ...SpawnOption) (*PID, error) {
	return s.spawn(ctx, nil, name, factory, opts...)
}

func (s *Stage) spawn(ctx context.Context, parent *PID, name string, factory Factory, opts ...SpawnOption) (*PID, error) {
	if !s.started.Load() {
		return nil, errors.ErrStageNotRunning
	}

	if strings.TrimSpace(name) == "" {
		return nil, errors.ErrInvalidActorName
	}

	if factory == nil {
		return nil, errors.ErrUndefinedActor
	}

	instance, err := build(factory)
	if err != nil {
		return nil, errors.NewErrInitFailure(err)
	}

	if instance == nil {
		return nil, errors.ErrUndefinedActor
	}

	if parent != nil && !parent.IsRunning() {
		return nil, errors.ErrDead
	}

	pid := newPID(s, parent, name, factory, instance, newSpawnConfig(opts...))
	if err := s.initialize(ctx, pid); err != nil {
		return nil, err
	}

	if err := pid.registerMetrics(s.metricProvider); err != nil {
		s.logger.Warnf("actor=(%s) metrics disabled: %v", name, err)
	}

	pid.startedAt.Store(time.Now())
	s.actors.Set(pid.id, pid)
	if parent != nil {
		parent.children.Set(pid.id, pid)
	}

	s.publish(&ActorStarted{ActorID: pid.id, ActorName: pid.name, At: time.Now()})
	pid.logger.Debugf("actor=(%s) started", name)
	return pid, nil
}

// initialize runs BeforeStart with retries within the init timeout
func (s *Stage) initialize(ctx context.Context, pid *PID) error {
	ctx, cancel := context.WithTimeout(ctx, s.initTimeout)
	defer cancel()

	retrier := retry.NewRetrier(s.initMaxRetries, time.Millisecond, s.initTimeout)
	if err := retrier.RunContext(ctx, func(ctx context.Context) error {
		return safeHook(func() error { return pid.actor.BeforeStart(ctx) })
	}); err != nil {
		pid.lc.markStopped()
		return errors.NewErrInitFailure(err)
	}
	return nil
}

// Subscribe creates a subscriber receiving the lifecycle events and the dead letters
func (s *Stage) Subscribe() (eventstream.Subscriber, error) {
	if !s.started.Load() {
		return nil, errors.ErrStageNotRunning
	}

	sub := s.stream.AddSubscriber()
	s.stream.Subscribe(sub, EventsTopic)
	s.stream.Subscribe(sub, deadletter.Topic)
	return sub, nil
}

// Unsubscribe removes the subscriber
func (s *Stage) Unsubscribe(sub eventstream.Subscriber) error {
	if !s.started.Load() {
		return errors.ErrStageNotRunning
	}
	s.stream.RemoveSubscriber(sub)
	return nil
}

func (s *Stage) publish(event any) {
	s.stream.Publish(EventsTopic, event)
}

func (s *Stage) registerMetrics() error {
	if s.metricProvider == nil {
		return nil
	}

	meter := s.metricProvider.Meter()
	metrics, err := metric.NewStageMetric(meter)
	if err != nil {
		return err
	}

	observeOptions := []otelmetric.ObserveOption{
		otelmetric.WithAttributes(attribute.String("stage.name", s.name)),
	}

	s.metricRegistration, err = meter.RegisterCallback(func(_ context.Context, observer otelmetric.Observer) error {
		observer.ObserveInt64(metrics.ActorsCount(), int64(s.actors.Len()), observeOptions...)
		observer.ObserveInt64(metrics.DeadlettersCount(), s.DeadlettersCount(), observeOptions...)
		observer.ObserveInt64(metrics.Uptime(), s.Uptime(), observeOptions...)
		return nil
	}, metrics.ActorsCount(), metrics.DeadlettersCount(), metrics.Uptime())
	return err
}
