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

// Package deadletter records the messages that could not be delivered to an actor.
package deadletter

import (
	"fmt"
	"time"
)

// Letter describes a message that failed to be delivered.
type Letter struct {
	// ActorID is the unique identifier of the intended recipient
	ActorID string
	// ActorName is the name of the intended recipient
	ActorName string
	// Representation is the human-readable form of the message
	Representation string
	// Reason explains why the message could not be delivered
	Reason error
	// Timestamp is the time the message was dropped
	Timestamp time.Time
}

// String returns the letter in a form suitable for logs
func (l *Letter) String() string {
	return fmt.Sprintf("deadletter(actor=%s, message=%s, reason=%v)", l.ActorName, l.Representation, l.Reason)
}

// Sink receives the letters of undeliverable messages.
type Sink interface {
	// FailedDelivery records a message that could not be delivered.
	FailedDelivery(letter *Letter)
}

// Listener is notified of every letter recorded by a Letters sink.
type Listener interface {
	Handle(letter *Letter)
}

// ListenerFunc adapts a function into a Listener
type ListenerFunc func(letter *Letter)

// Handle calls f(letter)
func (f ListenerFunc) Handle(letter *Letter) {
	f(letter)
}
