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
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tochemey/gostage/eventstream"
	"github.com/tochemey/gostage/log"
)

var errProcess = errors.New("process failure")

// Processor is the protocol most test actors implement
type Processor interface {
	Process(value string) error
}

// Controller is a second protocol used as a stowage override
type Controller interface {
	Control(command string) error
}

// probe records what happens to an actor across restarts
type probe struct {
	mu        sync.Mutex
	events    []string
	instances *atomic.Int64
	processed *atomic.Int64
	gate      chan struct{}
}

func newProbe() *probe {
	return &probe{
		instances: atomic.NewInt64(0),
		processed: atomic.NewInt64(0),
		gate:      make(chan struct{}),
	}
}

func (p *probe) record(event string) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

func (p *probe) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	copy(out, p.events)
	return out
}

// Count returns the number of recorded events equal to event
func (p *probe) Count(event string) int {
	count := 0
	for _, e := range p.Events() {
		if e == event {
			count++
		}
	}
	return count
}

// Processed returns the values processed, in order
func (p *probe) Processed() []string {
	var out []string
	for _, e := range p.Events() {
		if value, ok := strings.CutPrefix(e, "process:"); ok {
			out = append(out, value)
		}
	}
	return out
}

// worker is the main test actor.
//
// Process values:
//   - "fail":  returns errProcess
//   - "panic": panics
//   - "block": waits for the probe gate to be closed
//   - "stop":  stops the actor from within the turn
//   - anything else is recorded
type worker struct {
	Base
	probe *probe
	state int

	failStart   int
	failRestart bool
	// panicIn names the lifecycle hook that panics
	panicIn string
}

var (
	_ Processor  = (*worker)(nil)
	_ Controller = (*worker)(nil)
)

func newWorkerFactory(p *probe) Factory {
	return func() Actor {
		p.instances.Inc()
		return &worker{probe: p}
	}
}

func (w *worker) BeforeStart(ctx context.Context) error {
	w.probe.record("BeforeStart")
	w.panicking("BeforeStart")
	if w.failStart > 0 {
		w.failStart--
		return errors.New("not ready")
	}
	return w.Base.BeforeStart(ctx)
}

func (w *worker) AfterStop(ctx context.Context) error {
	w.probe.record("AfterStop")
	w.panicking("AfterStop")
	return w.Base.AfterStop(ctx)
}

func (w *worker) BeforeRestart(ctx context.Context, reason error) error {
	w.probe.record("BeforeRestart")
	w.panicking("BeforeRestart")
	return w.Base.BeforeRestart(ctx, reason)
}

func (w *worker) AfterRestart(ctx context.Context, reason error) error {
	w.probe.record("AfterRestart")
	w.panicking("AfterRestart")
	if w.failRestart {
		return errors.New("restart failure")
	}
	return w.Base.AfterRestart(ctx, reason)
}

func (w *worker) BeforeResume(ctx context.Context, reason error) error {
	w.probe.record("BeforeResume")
	w.panicking("BeforeResume")
	return w.Base.BeforeResume(ctx, reason)
}

func (w *worker) panicking(hook string) {
	if w.panicIn == hook {
		panic(hook + " boom")
	}
}

func (w *worker) Process(value string) error {
	switch value {
	case "fail":
		w.probe.record("fail")
		return errProcess
	case "panic":
		w.probe.record("panic")
		panic("boom")
	case "block":
		<-w.probe.gate
		w.probe.record("process:block")
	case "stop":
		w.probe.record("stop")
		w.Stop()
	default:
		w.state++
		w.probe.processed.Inc()
		w.probe.record("process:" + value)
	}
	return nil
}

func (w *worker) Control(command string) error {
	switch command {
	case "stow":
		w.StowMessages(ProtocolOf[Controller]())
	case "disperse":
		w.DisperseStowedMessages()
	}
	w.probe.record("control:" + command)
	return nil
}

// stateless implements no test protocol
type stateless struct {
	Base
}

func process(value string) func(Processor) error {
	return func(p Processor) error {
		return p.Process(value)
	}
}

func control(command string) func(Controller) error {
	return func(c Controller) error {
		return c.Control(command)
	}
}

// state asks the worker for its internal state
func state(t *testing.T, pid *PID) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fut, err := Ask(ctx, pid, "state", func(w *worker) error {
		w.Completes().With(w.state)
		return nil
	})
	require.NoError(t, err)

	value, err := fut.Await(ctx)
	require.NoError(t, err)
	return value.(int)
}

func newTestStage(t *testing.T, opts ...Option) *Stage {
	t.Helper()
	opts = append([]Option{WithLogger(log.DiscardLogger)}, opts...)
	stage, err := NewStage("test", opts...)
	require.NoError(t, err)
	require.NoError(t, stage.Start(context.Background()))
	t.Cleanup(func() {
		if stage.Running() {
			_ = stage.Stop(context.Background())
		}
	})
	return stage
}

func spawnWorker(t *testing.T, stage *Stage, p *probe, opts ...SpawnOption) *PID {
	t.Helper()
	pid, err := stage.Spawn(context.Background(), "worker", newWorkerFactory(p), opts...)
	require.NoError(t, err)
	return pid
}

// syncBuffer is a bytes.Buffer safe for concurrent writers
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// containsAll reports whether s contains every one of parts
func containsAll(s string, parts ...string) bool {
	for _, part := range parts {
		if !strings.Contains(s, part) {
			return false
		}
	}
	return true
}

// drive runs the drain loop on the calling goroutine without scheduling a turn
func drive(pid *PID) {
	for {
		msg, stowed := pid.next()
		if msg == nil {
			return
		}
		pid.handle(msg, stowed)
	}
}

// collect drains the subscriber into events and returns the lifecycle events seen so far
func collect(sub eventstream.Subscriber, events *[]any) []any {
	for msg := range sub.Iterator() {
		*events = append(*events, msg.Payload())
	}
	return *events
}
