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

	"github.com/tochemey/gostage/log"
)

// Base is embedded by every actor.
// The zero value is ready to use: the runtime binds it when the actor is spawned.
type Base struct {
	pid *PID
}

func (b *Base) base() *Base {
	return b
}

// BeforeStart is a no-op
func (b *Base) BeforeStart(context.Context) error {
	return nil
}

// AfterStop is a no-op
func (b *Base) AfterStop(context.Context) error {
	return nil
}

// BeforeRestart is a no-op
func (b *Base) BeforeRestart(context.Context, error) error {
	return nil
}

// AfterRestart is a no-op
func (b *Base) AfterRestart(context.Context, error) error {
	return nil
}

// BeforeResume is a no-op
func (b *Base) BeforeResume(context.Context, error) error {
	return nil
}

// Self returns the PID of the actor
func (b *Base) Self() *PID {
	return b.pid
}

// Stage returns the stage the actor lives in
func (b *Base) Stage() *Stage {
	return b.pid.stage
}

// Logger returns the actor logger
func (b *Base) Logger() log.Logger {
	return b.pid.logger
}

// Completes returns the completion register of the message being processed.
// Setting an outcome fulfills the future of the sender once the current
// invocation returns without error.
func (b *Base) Completes() *Completes {
	return b.pid.completes
}

// Stop stops the actor once the current message has been processed.
// AfterStop runs exactly once and every subsequent message is dead-lettered.
//
// Stop must only be called from within the actor's own message processing.
// Use PID.Stop from outside.
func (b *Base) Stop() {
	b.pid.lc.toggle(stopRequestedFlag, true)
}

// IsStopped reports whether the actor is stopped
func (b *Base) IsStopped() bool {
	return b.pid.lc.is(stoppedFlag)
}

// StowMessages defers every subsequent message whose protocol is not one of
// overrides. Deferred messages are kept in arrival order until
// DisperseStowedMessages is called.
func (b *Base) StowMessages(overrides ...reflect.Type) {
	b.pid.lc.stow(overrides...)
}

// DisperseStowedMessages stops stowing and replays the stowed messages in
// arrival order before any message still waiting in the mailbox.
func (b *Base) DisperseStowedMessages() {
	b.pid.lc.disperse()
}

// IsStowing reports whether the actor is stowing messages
func (b *Base) IsStowing() bool {
	return b.pid.lc.is(stowingFlag)
}

// IsDispersing reports whether stowed messages are being replayed
func (b *Base) IsDispersing() bool {
	return b.pid.lc.is(dispersingFlag)
}

// SpawnChild creates a child actor supervised by this actor.
// Children are stopped before their parent.
func (b *Base) SpawnChild(ctx context.Context, name string, factory Factory, opts ...SpawnOption) (*PID, error) {
	return b.pid.stage.spawn(ctx, b.pid, name, factory, opts...)
}

// ProtocolOf returns the protocol type of P, to be used as a stowage override.
//
//	c.StowMessages(actor.ProtocolOf[Admin]())
func ProtocolOf[P any]() reflect.Type {
	return reflect.TypeFor[P]()
}
