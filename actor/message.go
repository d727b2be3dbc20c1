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
	"fmt"
	"reflect"

	"github.com/tochemey/gostage/errors"
	"github.com/tochemey/gostage/future"
)

// Message is a unit of work addressed to an actor: a deferred invocation bound
// to a protocol type, an optional completion handle and a human-readable
// representation used for diagnostics.
//
// A Message is immutable once built and executes at most once. Buffer replay
// reuses the same *Message.
type Message struct {
	pid            *PID
	protocol       reflect.Type
	invoke         func(Actor) error
	completes      *future.Handle
	representation string

	// control messages run inside the actor turn ahead of regular delivery
	control func()
}

// newMessage erases consumer behind a closure restoring P with a checked assertion.
func newMessage[P any](pid *PID, representation string, consumer func(P) error, handle *future.Handle) *Message {
	protocol := reflect.TypeFor[P]()
	return &Message{
		pid:      pid,
		protocol: protocol,
		invoke: func(target Actor) error {
			typed, ok := target.(P)
			if !ok {
				return errors.NewErrProtocolMismatch(pid.Name(), protocol.String())
			}
			return consumer(typed)
		},
		completes:      handle,
		representation: representation,
	}
}

func newControlMessage(pid *PID, representation string, fn func()) *Message {
	return &Message{
		pid:            pid,
		representation: representation,
		control:        fn,
	}
}

// Actor returns the PID the message is addressed to
func (m *Message) Actor() *PID {
	return m.pid
}

// Protocol returns the protocol type the message invokes
func (m *Message) Protocol() reflect.Type {
	return m.protocol
}

// Completes returns the completion handle, nil for fire-and-forget messages
func (m *Message) Completes() *future.Handle {
	return m.completes
}

// Representation returns the human-readable description of the message
func (m *Message) Representation() string {
	return m.representation
}

func (m *Message) isControl() bool {
	return m.control != nil
}

func (m *Message) String() string {
	return fmt.Sprintf("Message[actor=%s, protocol=%v, representation=%s]", m.pid.Name(), m.protocol, m.representation)
}
