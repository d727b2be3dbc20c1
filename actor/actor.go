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
)

// Actor represents the lifecycle contract of an actor.
//
// An actor processes one message at a time. Behavior is exposed through
// protocol types: a message sent with Tell[P] or Ask[P] invokes a function on
// the actor viewed as P, where P is typically an interface the actor implements.
//
// Every actor embeds Base, which provides the default no-op hooks and the
// runtime services (Self, Stage, Logger, Completes, Stop, stowing).
// An actor overriding a hook should chain to the embedded Base hook:
//
//	func (c *Counter) BeforeRestart(ctx context.Context, reason error) error {
//	    c.saved = c.count
//	    return c.Base.BeforeRestart(ctx, reason)
//	}
type Actor interface {
	// BeforeStart runs once before the actor accepts its first message.
	// A failure aborts the spawn with errors.ErrInitFailure.
	BeforeStart(ctx context.Context) error
	// AfterStop runs exactly once when the actor transitions to stopped.
	AfterStop(ctx context.Context) error
	// BeforeRestart runs on the failed instance before it is replaced.
	BeforeRestart(ctx context.Context, reason error) error
	// AfterRestart runs on the fresh instance before buffered messages replay.
	AfterRestart(ctx context.Context, reason error) error
	// BeforeResume runs before a suspended actor resumes with its state intact.
	BeforeResume(ctx context.Context, reason error) error

	base() *Base
}

// Factory creates a fresh actor instance.
// It is invoked once at spawn and once for every restart.
type Factory func() Actor
