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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	"github.com/tochemey/gostage/errors"
	"github.com/tochemey/gostage/log"
)

// scheduler delivers messages to actors in the future.
type scheduler struct {
	mu              sync.Mutex
	quartzScheduler quartz.Scheduler
	started         *atomic.Bool
	logger          log.Logger
	stopTimeout     time.Duration
}

// newQuartzScheduler builds the underlying quartz scheduler
var newQuartzScheduler = func() (quartz.Scheduler, error) {
	return quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
}

func newScheduler(logger log.Logger, stopTimeout time.Duration) (*scheduler, error) {
	quartzScheduler, err := newQuartzScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create the messages scheduler: %w", err)
	}

	return &scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		logger:          logger,
		stopTimeout:     stopTimeout,
	}, nil
}

// Start starts the scheduler
func (x *scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Debug("messages scheduler started")
}

// Stop clears every scheduled message and stops the scheduler
func (x *scheduler) Stop(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return
	}

	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)
	x.logger.Debug("messages scheduler stopped")
}

func (x *scheduler) schedule(send func() error, trigger quartz.Trigger) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return "", errors.ErrSchedulerNotStarted
	}

	fn := job.NewFunctionJob[bool](func(context.Context) (bool, error) {
		if err := send(); err != nil {
			x.logger.Warnf("failed to deliver scheduled message: %v", err)
			return false, err
		}
		return true, nil
	})

	key := uuid.NewString()
	detail := quartz.NewJobDetail(fn, quartz.NewJobKey(key))
	if err := x.quartzScheduler.ScheduleJob(detail, trigger); err != nil {
		return "", err
	}
	return key, nil
}

func (x *scheduler) cancel(key string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return errors.ErrSchedulerNotStarted
	}

	if err := x.quartzScheduler.DeleteJob(quartz.NewJobKey(key)); err != nil {
		return fmt.Errorf("key=(%s) %w: %w", key, errors.ErrScheduledMessageNotFound, err)
	}
	return nil
}

// ScheduleOnce delivers the message to pid once, after delay.
// It returns the key to use with CancelSchedule.
func ScheduleOnce[P any](pid *PID, delay time.Duration, representation string, consumer func(P) error) (string, error) {
	if err := checkSend[P](pid, consumer); err != nil {
		return "", err
	}

	return pid.stage.scheduler.schedule(func() error {
		return Tell(pid, representation, consumer)
	}, quartz.NewRunOnceTrigger(delay))
}

// Schedule delivers the message to pid every interval until cancelled.
// Ticks occurring once the actor has stopped are skipped.
// It returns the key to use with CancelSchedule.
func Schedule[P any](pid *PID, interval time.Duration, representation string, consumer func(P) error) (string, error) {
	if interval <= 0 {
		return "", errors.ErrInvalidInterval
	}

	if err := checkSend[P](pid, consumer); err != nil {
		return "", err
	}

	return pid.stage.scheduler.schedule(func() error {
		if !pid.IsRunning() {
			return errors.ErrDead
		}
		return Tell(pid, representation, consumer)
	}, quartz.NewSimpleTrigger(interval))
}

// ScheduleWithCron delivers the message to pid following a cron expression
// evaluated in UTC. It returns the key to use with CancelSchedule.
func ScheduleWithCron[P any](pid *PID, expression string, representation string, consumer func(P) error) (string, error) {
	if err := checkSend[P](pid, consumer); err != nil {
		return "", err
	}

	trigger, err := quartz.NewCronTriggerWithLoc(expression, time.UTC)
	if err != nil {
		return "", err
	}

	return pid.stage.scheduler.schedule(func() error {
		return Tell(pid, representation, consumer)
	}, trigger)
}

// CancelSchedule cancels a scheduled message
func (s *Stage) CancelSchedule(key string) error {
	return s.scheduler.cancel(key)
}
