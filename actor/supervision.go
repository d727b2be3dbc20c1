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
	"time"

	"github.com/tochemey/gostage/errors"
	"github.com/tochemey/gostage/supervisor"
)

// handleFailureOf is the entry point of supervision. It runs inside the failing
// actor turn and suspends the actor, so every message handled until the
// directive comes back is buffered. The directive is resolved off the actor
// turn and queued to the actor as a control message.
func (s *Stage) handleFailureOf(pid *PID, msg *Message, reason error) {
	pid.lc.suspend()
	s.publish(&ActorSuspended{ActorID: pid.id, ActorName: pid.name, Reason: reason, At: time.Now()})

	supervise := func() { s.supervise(pid, msg, reason) }
	if err := s.pool.SubmitWork(supervise); err != nil {
		supervise()
	}
}

// supervise resolves the directive for the failure of pid and dispatches it
// to pid and, for a one-for-all strategy, to its siblings.
func (s *Stage) supervise(pid *PID, msg *Message, reason error) {
	directive, deciding := s.decide(pid, reason)
	if directive == supervisor.EscalateDirective {
		s.logger.Error(errors.NewErrUnresolvedEscalation(pid.Name(), reason))
		directive = supervisor.StopDirective
	}

	pid.logger.Debugf("actor=(%s) message=(%s) directive=(%s)", pid.Name(), msg.representation, directive)

	targets := []*PID{pid}
	if deciding != nil &&
		deciding.Strategy() == supervisor.OneForAllStrategy &&
		directive != supervisor.ResumeDirective &&
		pid.parent != nil {
		for _, sibling := range pid.parent.Children() {
			if !sibling.Equals(pid) && sibling.IsRunning() {
				targets = append(targets, sibling)
			}
		}
	}

	for _, target := range targets {
		if err := target.sendControl(directive.String(), func() { target.apply(directive, reason) }); err != nil {
			target.logger.Warnf("actor=(%s) could not receive directive=(%s): %v", target.Name(), directive, err)
		}
	}
}

// decide walks the supervisor chain: the actor's own supervisor, then the
// supervisor of every ancestor, then the stage root supervisor. Escalate hands
// the failure to the next supervisor. It returns the supervisor that decided,
// nil when the failure escalated past the root.
func (s *Stage) decide(pid *PID, reason error) (supervisor.Directive, *supervisor.Supervisor) {
	for _, candidate := range s.supervisorChain(pid) {
		directive := candidate.Decide(pid, reason)
		if directive != supervisor.EscalateDirective {
			return directive, candidate
		}
	}
	return supervisor.EscalateDirective, nil
}

func (s *Stage) supervisorChain(pid *PID) []*supervisor.Supervisor {
	var chain []*supervisor.Supervisor
	for current := pid; current != nil; current = current.parent {
		if current.supervisor != nil {
			chain = append(chain, current.supervisor)
		}
	}
	return append(chain, s.rootSupervisor)
}

// apply sequences the hooks of directive. It runs inside the actor turn.
func (pid *PID) apply(directive supervisor.Directive, reason error) {
	if pid.lc.is(stoppedFlag) {
		return
	}

	ctx := context.Background()
	switch directive {
	case supervisor.ResumeDirective:
		pid.resumeAfter(ctx, reason)
	case supervisor.RestartDirective:
		pid.restart(ctx, reason)
	default:
		pid.terminate(ctx)
	}
}

func (pid *PID) resumeAfter(ctx context.Context, reason error) {
	if err := safeHook(func() error { return pid.actor.BeforeResume(ctx, reason) }); err != nil {
		pid.logger.Errorf("actor=(%s) BeforeResume failed: %v", pid.Name(), err)
		pid.terminate(ctx)
		return
	}

	pid.lc.resume()
	pid.stage.publish(&ActorResumed{ActorID: pid.id, ActorName: pid.name, At: time.Now()})
}

// restart replaces the actor instance with a fresh one built by the spawn
// factory and resumes the buffered messages. Stowed messages are kept and
// dispersed to the new instance.
func (pid *PID) restart(ctx context.Context, reason error) {
	if err := safeHook(func() error { return pid.actor.BeforeRestart(ctx, reason) }); err != nil {
		pid.logger.Errorf("actor=(%s) BeforeRestart failed: %v", pid.Name(), err)
		pid.terminate(ctx)
		return
	}

	instance, err := build(pid.factory)
	if err == nil && instance == nil {
		err = errors.ErrUndefinedActor
	}
	if err != nil {
		pid.logger.Errorf("actor=(%s) restart failed: %v", pid.Name(), err)
		pid.terminate(ctx)
		return
	}
	pid.bind(instance)

	if err := safeHook(func() error { return instance.AfterRestart(ctx, reason) }); err != nil {
		pid.logger.Errorf("actor=(%s) AfterRestart failed: %v", pid.Name(), err)
		pid.terminate(ctx)
		return
	}

	pid.restartCount.Inc()
	pid.lc.disperse()
	pid.lc.resume()
	pid.stage.publish(&ActorRestarted{ActorID: pid.id, ActorName: pid.name, Reason: reason, At: time.Now()})
}
