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

import "time"

// EventsTopic is the event stream topic lifecycle events are published on
const EventsTopic = "topic.events"

// ActorStarted is published once an actor has run BeforeStart
type ActorStarted struct {
	ActorID   string
	ActorName string
	At        time.Time
}

// ActorSuspended is published when a failure suspends an actor
type ActorSuspended struct {
	ActorID   string
	ActorName string
	Reason    error
	At        time.Time
}

// ActorResumed is published when an actor resumes after a failure
type ActorResumed struct {
	ActorID   string
	ActorName string
	At        time.Time
}

// ActorRestarted is published when a fresh instance replaced a failed one
type ActorRestarted struct {
	ActorID   string
	ActorName string
	Reason    error
	At        time.Time
}

// ActorStopped is published once an actor has stopped
type ActorStopped struct {
	ActorID   string
	ActorName string
	At        time.Time
}
