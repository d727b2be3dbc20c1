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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/gostage/deadletter"
	"github.com/tochemey/gostage/errors"
	"github.com/tochemey/gostage/log"
	"github.com/tochemey/gostage/supervisor"
)

func awaitTermination(t *testing.T, pid *PID) {
	t.Helper()
	select {
	case <-pid.Terminated():
	case <-time.After(5 * time.Second):
		t.Fatalf("actor %s did not terminate", pid.Name())
	}
}

func TestSupervision(t *testing.T) {
	t.Run("With Resume directive", func(t *testing.T) {
		stage := newTestStage(t)
		p := newProbe()
		pid := spawnWorker(t, stage, p,
			WithSupervisor(supervisor.NewSupervisor(supervisor.WithAnyErrorDirective(supervisor.ResumeDirective))))

		require.NoError(t, Tell(pid, "a", process("a")))
		require.NoError(t, Tell(pid, "fail", process("fail")))
		require.NoError(t, Tell(pid, "b", process("b")))

		assert.Equal(t, 2, state(t, pid))
		assert.Equal(t, []string{"BeforeStart", "process:a", "fail", "BeforeResume", "process:b"}, p.Events())
		assert.EqualValues(t, 1, p.instances.Load())
		assert.EqualValues(t, 1, pid.FailureCount())
		assert.Zero(t, pid.RestartCount())
		assert.True(t, pid.IsRunning())
		assert.False(t, pid.IsSuspended())
	})
	t.Run("With Restart directive", func(t *testing.T) {
		stage := newTestStage(t)
		p := newProbe()
		pid := spawnWorker(t, stage, p,
			WithSupervisor(supervisor.NewSupervisor(supervisor.WithAnyErrorDirective(supervisor.RestartDirective))))

		require.NoError(t, Tell(pid, "m1", process("m1")))
		require.NoError(t, Tell(pid, "fail", process("fail")))
		require.NoError(t, Tell(pid, "m3", process("m3")))

		// the fresh instance only saw m3
		assert.Equal(t, 1, state(t, pid))
		assert.Equal(t, []string{
			"BeforeStart",
			"process:m1",
			"fail",
			"BeforeRestart",
			"AfterRestart",
			"process:m3",
		}, p.Events())
		assert.EqualValues(t, 2, p.instances.Load())
		assert.EqualValues(t, 1, pid.RestartCount())
		assert.Zero(t, p.Count("AfterStop"))
	})
	t.Run("With Restart from the root supervisor by default", func(t *testing.T) {
		stage := newTestStage(t)
		p := newProbe()
		pid := spawnWorker(t, stage, p)

		require.NoError(t, Tell(pid, "fail", process("fail")))
		require.NoError(t, Tell(pid, "a", process("a")))

		assert.Equal(t, 1, state(t, pid))
		assert.EqualValues(t, 1, pid.RestartCount())
	})
	t.Run("With Stop directive", func(t *testing.T) {
		letters := deadletter.New()
		stage := newTestStage(t, WithDeadLetters(letters))
		p := newProbe()
		pid := spawnWorker(t, stage, p,
			WithSupervisor(supervisor.NewSupervisor(supervisor.WithAnyErrorDirective(supervisor.StopDirective))))

		require.NoError(t, Tell(pid, "fail", process("fail")))
		require.NoError(t, Tell(pid, "x", process("x")))

		awaitTermination(t, pid)
		require.Eventually(t, func() bool {
			return letters.CountFor(pid.ID()) == 1
		}, time.Second, 10*time.Millisecond)

		assert.Empty(t, p.Processed())
		assert.Equal(t, 1, p.Count("AfterStop"))
		assert.Zero(t, p.Count("BeforeRestart"))
		assert.False(t, pid.IsRunning())
		assert.Empty(t, stage.Actors())
	})
	t.Run("With panic stopped by default", func(t *testing.T) {
		stage := newTestStage(t)
		sub, err := stage.Subscribe()
		require.NoError(t, err)

		p := newProbe()
		pid := spawnWorker(t, stage, p, WithSupervisor(supervisor.NewSupervisor()))

		require.NoError(t, Tell(pid, "panic", process("panic")))
		awaitTermination(t, pid)

		var events []any
		var reason error
		require.Eventually(t, func() bool {
			for _, event := range collect(sub, &events) {
				if suspended, ok := event.(*ActorSuspended); ok {
					reason = suspended.Reason
				}
				if _, ok := event.(*ActorStopped); ok {
					return reason != nil
				}
			}
			return false
		}, time.Second, 10*time.Millisecond)

		var pe *errors.PanicError
		require.ErrorAs(t, reason, &pe)
		assert.Equal(t, 1, p.Count("AfterStop"))
	})
	t.Run("With restart intensity exceeded", func(t *testing.T) {
		stage := newTestStage(t)
		p := newProbe()
		pid := spawnWorker(t, stage, p,
			WithSupervisor(supervisor.NewSupervisor(
				supervisor.WithAnyErrorDirective(supervisor.RestartDirective),
				supervisor.WithRetry(2, time.Minute))))

		for range 3 {
			require.NoError(t, Tell(pid, "fail", process("fail")))
		}

		awaitTermination(t, pid)
		assert.EqualValues(t, 2, pid.RestartCount())
		assert.Equal(t, 1, p.Count("AfterStop"))
	})
	t.Run("With failing AfterRestart", func(t *testing.T) {
		stage := newTestStage(t)
		p := newProbe()
		pid, err := stage.Spawn(context.Background(), "worker", func() Actor {
			// only instances built by a restart fail
			failRestart := p.instances.Inc() > 1
			return &worker{probe: p, failRestart: failRestart}
		}, WithSupervisor(supervisor.NewSupervisor(supervisor.WithAnyErrorDirective(supervisor.RestartDirective))))
		require.NoError(t, err)

		require.NoError(t, Tell(pid, "fail", process("fail")))
		awaitTermination(t, pid)

		assert.Equal(t, 1, p.Count("AfterRestart"))
		assert.Equal(t, 1, p.Count("AfterStop"))
		assert.Zero(t, pid.RestartCount())
	})
	t.Run("With panicking BeforeRestart", func(t *testing.T) {
		stage := newTestStage(t)
		p := newProbe()
		pid, err := stage.Spawn(context.Background(), "worker", func() Actor {
			p.instances.Inc()
			return &worker{probe: p, panicIn: "BeforeRestart"}
		})
		require.NoError(t, err)

		require.NoError(t, Tell(pid, "fail", process("fail")))
		awaitTermination(t, pid)

		assert.Equal(t, 1, p.Count("BeforeRestart"))
		assert.Zero(t, p.Count("AfterRestart"))
		assert.Equal(t, 1, p.Count("AfterStop"))
		assert.EqualValues(t, 1, p.instances.Load())
		assert.Empty(t, stage.Actors())
		assert.True(t, stage.Running())
	})
	t.Run("With panicking AfterRestart", func(t *testing.T) {
		stage := newTestStage(t)
		p := newProbe()
		pid, err := stage.Spawn(context.Background(), "worker", func() Actor {
			w := &worker{probe: p}
			if p.instances.Inc() > 1 {
				w.panicIn = "AfterRestart"
			}
			return w
		})
		require.NoError(t, err)

		require.NoError(t, Tell(pid, "fail", process("fail")))
		awaitTermination(t, pid)

		assert.Equal(t, 1, p.Count("AfterStop"))
		assert.Zero(t, pid.RestartCount())
	})
	t.Run("With panicking factory on restart", func(t *testing.T) {
		stage := newTestStage(t)
		p := newProbe()
		pid, err := stage.Spawn(context.Background(), "worker", func() Actor {
			if p.instances.Inc() > 1 {
				panic("factory boom")
			}
			return &worker{probe: p}
		})
		require.NoError(t, err)

		require.NoError(t, Tell(pid, "fail", process("fail")))
		awaitTermination(t, pid)

		assert.Equal(t, 1, p.Count("BeforeRestart"))
		assert.Equal(t, 1, p.Count("AfterStop"))
		assert.Zero(t, pid.RestartCount())
	})
	t.Run("With panicking BeforeResume", func(t *testing.T) {
		stage := newTestStage(t)
		p := newProbe()
		pid, err := stage.Spawn(context.Background(), "worker", func() Actor {
			return &worker{probe: p, panicIn: "BeforeResume"}
		}, WithSupervisor(supervisor.NewSupervisor(supervisor.WithAnyErrorDirective(supervisor.ResumeDirective))))
		require.NoError(t, err)

		require.NoError(t, Tell(pid, "fail", process("fail")))
		awaitTermination(t, pid)

		assert.Equal(t, 1, p.Count("BeforeResume"))
		assert.Equal(t, 1, p.Count("AfterStop"))
	})
	t.Run("With panicking AfterStop", func(t *testing.T) {
		letters := deadletter.New()
		stage := newTestStage(t, WithDeadLetters(letters))
		p := newProbe()
		pid, err := stage.Spawn(context.Background(), "worker", func() Actor {
			return &worker{probe: p, panicIn: "AfterStop"}
		}, WithSupervisor(supervisor.NewSupervisor(supervisor.WithAnyErrorDirective(supervisor.StopDirective))))
		require.NoError(t, err)

		require.NoError(t, Tell(pid, "fail", process("fail")))
		require.NoError(t, Tell(pid, "x", process("x")))
		awaitTermination(t, pid)

		// the stop sequence went on past the hook
		require.Eventually(t, func() bool {
			return letters.CountFor(pid.ID()) == 1
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, 1, p.Count("AfterStop"))
		assert.Empty(t, stage.Actors())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, pid.Stop(ctx))
	})
	t.Run("With Escalate to the parent supervisor", func(t *testing.T) {
		stage := newTestStage(t)
		parent := spawnWorker(t, stage, newProbe(),
			WithSupervisor(supervisor.NewSupervisor(supervisor.WithAnyErrorDirective(supervisor.ResumeDirective))))

		cp := newProbe()
		child, err := stage.spawn(context.Background(), parent, "child", newWorkerFactory(cp),
			WithSupervisor(supervisor.NewSupervisor(supervisor.WithAnyErrorDirective(supervisor.EscalateDirective))))
		require.NoError(t, err)
		require.True(t, child.Parent().Equals(parent))

		require.NoError(t, Tell(child, "a", process("a")))
		require.NoError(t, Tell(child, "fail", process("fail")))

		assert.Equal(t, 1, state(t, child))
		assert.Equal(t, 1, cp.Count("BeforeResume"))
		assert.Zero(t, cp.Count("BeforeRestart"))
		assert.True(t, parent.IsRunning())
	})
	t.Run("With unresolved escalation", func(t *testing.T) {
		buffer := new(syncBuffer)
		stage := newTestStage(t,
			WithLogger(log.NewZap(log.ErrorLevel, buffer)),
			WithRootSupervisor(supervisor.NewSupervisor()))
		p := newProbe()
		pid := spawnWorker(t, stage, p)

		require.NoError(t, Tell(pid, "fail", process("fail")))
		awaitTermination(t, pid)

		require.Eventually(t, func() bool {
			return containsAll(buffer.String(), errors.ErrUnresolvedEscalation.Error(), errProcess.Error())
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, 1, p.Count("AfterStop"))
	})
	t.Run("With OneForAll strategy", func(t *testing.T) {
		stage := newTestStage(t)
		parent := spawnWorker(t, stage, newProbe(),
			WithSupervisor(supervisor.NewSupervisor(
				supervisor.WithStrategy(supervisor.OneForAllStrategy),
				supervisor.WithAnyErrorDirective(supervisor.RestartDirective))))

		failing, sibling := newProbe(), newProbe()
		first, err := stage.spawn(context.Background(), parent, "first", newWorkerFactory(failing))
		require.NoError(t, err)
		second, err := stage.spawn(context.Background(), parent, "second", newWorkerFactory(sibling))
		require.NoError(t, err)

		require.NoError(t, Tell(second, "s", process("s")))
		require.Equal(t, 1, state(t, second))

		require.NoError(t, Tell(first, "fail", process("fail")))

		require.Eventually(t, func() bool {
			return first.RestartCount() == 1 && second.RestartCount() == 1
		}, time.Second, 10*time.Millisecond)

		assert.Equal(t, 1, sibling.Count("BeforeRestart"))
		assert.Equal(t, 1, sibling.Count("AfterRestart"))
		assert.Zero(t, state(t, second))
		assert.True(t, parent.IsRunning())
		assert.Zero(t, parent.RestartCount())
	})
	t.Run("With OneForOne strategy siblings are untouched", func(t *testing.T) {
		stage := newTestStage(t)
		parent := spawnWorker(t, stage, newProbe(),
			WithSupervisor(supervisor.NewSupervisor(supervisor.WithAnyErrorDirective(supervisor.RestartDirective))))

		first, err := stage.spawn(context.Background(), parent, "first", newWorkerFactory(newProbe()))
		require.NoError(t, err)
		sibling := newProbe()
		second, err := stage.spawn(context.Background(), parent, "second", newWorkerFactory(sibling))
		require.NoError(t, err)

		require.NoError(t, Tell(first, "fail", process("fail")))
		require.Eventually(t, func() bool {
			return first.RestartCount() == 1
		}, time.Second, 10*time.Millisecond)

		assert.Zero(t, second.RestartCount())
		assert.Zero(t, sibling.Count("BeforeRestart"))
	})
}

func TestStopFromWithin(t *testing.T) {
	letters := deadletter.New()
	stage := newTestStage(t, WithDeadLetters(letters))
	p := newProbe()
	pid := spawnWorker(t, stage, p)

	require.NoError(t, Tell(pid, "a", process("a")))
	require.NoError(t, Tell(pid, "stop", process("stop")))
	require.NoError(t, Tell(pid, "after", process("after")))

	awaitTermination(t, pid)
	require.Eventually(t, func() bool {
		return letters.CountFor(pid.ID()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"a"}, p.Processed())
	assert.Equal(t, 1, p.Count("stop"))
	assert.Equal(t, 1, p.Count("AfterStop"))
	assert.Equal(t, "after", letters.Letters()[0].Representation)

	// stopping again is a no-op
	require.NoError(t, pid.Stop(context.Background()))
	assert.Equal(t, 1, p.Count("AfterStop"))
}
