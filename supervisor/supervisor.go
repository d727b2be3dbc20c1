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

package supervisor

import (
	"reflect"
	"runtime"
	"sync"
	"time"

	"github.com/tochemey/gostage/errors"
	"github.com/tochemey/gostage/internal/xsync"
)

// Strategy represents the type of supervision strategy used by a supervisor.
type Strategy int

const (
	// OneForOneStrategy applies the directive only to the actor that failed.
	// Its siblings continue running unaffected.
	OneForOneStrategy Strategy = iota

	// OneForAllStrategy applies Restart and Stop directives to the failing actor
	// and to every sibling sharing its parent. Resume only ever concerns the
	// failing actor because its siblings have nothing to resume from.
	//
	// Use it when the siblings are tightly coupled and must be recycled together.
	OneForAllStrategy
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case OneForOneStrategy:
		return "OneForOne"
	case OneForAllStrategy:
		return "OneForAll"
	default:
		return ""
	}
}

// Directive defines the supervisor directive
//
// It is the outcome of a supervision decision for a single failure:
//
//   - StopDirective: stop the failing actor; its buffered messages are dead-lettered.
//   - ResumeDirective: keep the actor instance and replay its buffered messages.
//   - RestartDirective: replace the actor instance, then replay its buffered messages.
//   - EscalateDirective: let the next supervisor up the chain decide.
type Directive int

const (
	// StopDirective indicates that when an actor fails, the supervisor should immediately stop
	// the actor.
	StopDirective Directive = iota
	// ResumeDirective indicates that the failing actor keeps its state and carries on
	// with the next message.
	ResumeDirective
	// RestartDirective indicates that the failing actor is replaced by a fresh instance
	// built from its factory.
	RestartDirective
	// EscalateDirective indicates that the failure is forwarded, unresolved, to the
	// parent supervisor.
	EscalateDirective
)

// String returns the string representation of the directive
func (d Directive) String() string {
	switch d {
	case StopDirective:
		return "Stop"
	case ResumeDirective:
		return "Resume"
	case RestartDirective:
		return "Restart"
	case EscalateDirective:
		return "Escalate"
	default:
		return ""
	}
}

// Supervised is the view a supervisor has of a failing actor.
type Supervised interface {
	// ID returns the unique identifier of the actor
	ID() string
	// Name returns the actor name
	Name() string
}

// Decider is a custom decision function. It returns false when it has no opinion,
// in which case the directive rules apply.
type Decider func(ref Supervised, err error) (Directive, bool)

// SupervisorOption defines the various options to apply to a given Supervisor
type SupervisorOption func(*Supervisor)

// WithStrategy sets the supervisor strategy
func WithStrategy(strategy Strategy) SupervisorOption {
	return func(s *Supervisor) {
		s.strategy = strategy
	}
}

// WithDirective sets the mapping between an error and a given directive
func WithDirective(err error, directive Directive) SupervisorOption {
	return func(s *Supervisor) {
		s.directives.Set(errorType(err), directive)
	}
}

// WithAnyErrorDirective sets the directive to apply to any error.
// It overrides every error-specific directive.
func WithAnyErrorDirective(directive Directive) SupervisorOption {
	return func(s *Supervisor) {
		s.directives.Set(errorType(new(errors.AnyError)), directive)
	}
}

// WithDefaultDirective sets the directive used when no rule matches the error.
// The default is EscalateDirective.
func WithDefaultDirective(directive Directive) SupervisorOption {
	return func(s *Supervisor) {
		s.fallback = directive
	}
}

// WithDecider sets a custom decision function consulted before the directive rules.
func WithDecider(decider Decider) SupervisorOption {
	return func(s *Supervisor) {
		s.decider = decider
	}
}

// WithRetry bounds the restart intensity of a single actor: when an actor would be
// restarted more than maxRetries times within window, it is stopped instead.
// A zero maxRetries means no limit.
func WithRetry(maxRetries uint32, window time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		s.maxRetries = maxRetries
		s.window = window
	}
}

// Supervisor maps failures to directives.
//
// Defaults:
//   - Strategy: OneForOneStrategy.
//   - Directives: PanicError -> Stop, runtime.PanicNilError -> Restart.
//   - Unmatched errors: Escalate.
//   - Restart intensity: unlimited.
//
// Rules are keyed by the error's concrete type name. An "any error" directive
// becomes the sole rule and overrides any error-specific directives.
//
// Supervisor methods are safe for concurrent use.
type Supervisor struct {
	strategy   Strategy
	decider    Decider
	fallback   Directive
	maxRetries uint32
	window     time.Duration
	directives *xsync.Map[string, Directive]

	mu       sync.Mutex
	restarts map[string][]time.Time
}

// NewSupervisor creates a Supervisor with the given options.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		strategy:   OneForOneStrategy,
		fallback:   EscalateDirective,
		directives: xsync.NewMap[string, Directive](),
		restarts:   make(map[string][]time.Time),
	}

	s.directives.Set(errorType(&errors.PanicError{}), StopDirective)
	s.directives.Set(errorType(&runtime.PanicNilError{}), RestartDirective)

	for _, opt := range opts {
		opt(s)
	}

	if directive, ok := s.directives.Get(errorType(new(errors.AnyError))); ok {
		s.directives.Reset()
		s.directives.Set(errorType(new(errors.AnyError)), directive)
	}

	return s
}

// Strategy returns the configured supervision strategy.
func (s *Supervisor) Strategy() Strategy {
	return s.strategy
}

// Directive returns the directive configured for the concrete type of err.
// It does not fall back to the "any error" directive.
func (s *Supervisor) Directive(err error) (Directive, bool) {
	return s.directives.Get(errorType(err))
}

// AnyErrorDirective returns the directive for the catch-all error type, if configured.
func (s *Supervisor) AnyErrorDirective() (Directive, bool) {
	return s.directives.Get(errorType(new(errors.AnyError)))
}

// MaxRetries returns the restart budget per window.
func (s *Supervisor) MaxRetries() uint32 {
	return s.maxRetries
}

// Window returns the restart intensity window.
func (s *Supervisor) Window() time.Duration {
	return s.window
}

// Decide returns the directive for the failure of ref.
//
// The custom decider is consulted first, then the catch-all rule, then the rule
// keyed by the error type, then the default directive. A Restart that exceeds the
// restart intensity of ref is turned into a Stop.
func (s *Supervisor) Decide(ref Supervised, err error) Directive {
	directive := s.resolve(ref, err)
	if directive != RestartDirective {
		return directive
	}

	if !s.allowRestart(ref.ID(), time.Now()) {
		return StopDirective
	}
	return RestartDirective
}

// Forget drops the restart history of the given actor.
func (s *Supervisor) Forget(ref Supervised) {
	s.mu.Lock()
	delete(s.restarts, ref.ID())
	s.mu.Unlock()
}

func (s *Supervisor) resolve(ref Supervised, err error) Directive {
	if s.decider != nil {
		if directive, ok := s.decider(ref, err); ok {
			return directive
		}
	}

	if directive, ok := s.AnyErrorDirective(); ok {
		return directive
	}

	if directive, ok := s.Directive(err); ok {
		return directive
	}

	return s.fallback
}

// allowRestart records a restart at now and reports whether it fits the intensity window.
func (s *Supervisor) allowRestart(id string, now time.Time) bool {
	if s.maxRetries == 0 {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.restarts[id]
	if s.window > 0 {
		cutoff := now.Add(-s.window)
		kept := history[:0]
		for _, at := range history {
			if at.After(cutoff) {
				kept = append(kept, at)
			}
		}
		history = kept
	}

	if uint32(len(history)) >= s.maxRetries {
		delete(s.restarts, id)
		return false
	}

	s.restarts[id] = append(history, now)
	return true
}

// errorType returns the string representation of an error's type using reflection
func errorType(err error) string {
	if err == nil {
		return "nil"
	}

	rtype := reflect.TypeOf(err)
	if rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}

	return rtype.String()
}
