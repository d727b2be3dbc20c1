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

// Mailbox defines the contract for an actor's message queue.
//
// Concurrency and ordering
//   - Implementations MUST be safe for multiple concurrent producers calling Enqueue.
//   - The runtime consumes from a single turn at a time (MPSC).
//   - Messages are dequeued in FIFO order.
//
// Non-blocking behavior
//   - Enqueue never blocks. Bounded implementations return errors.ErrMailboxFull
//     instead of waiting for space.
//   - Dequeue returns nil when the mailbox is empty.
//
// Resource management
//   - After Dispose, Enqueue returns errors.ErrMailboxDisposed and Dequeue returns nil.
type Mailbox interface {
	// Enqueue pushes a message into the mailbox.
	Enqueue(msg *Message) error
	// Dequeue fetches the next message, nil when the mailbox is empty.
	Dequeue() *Message
	// IsEmpty reports whether the mailbox currently has no messages.
	IsEmpty() bool
	// Len returns a snapshot of the number of messages in the mailbox.
	Len() int64
	// Dispose releases the mailbox resources.
	Dispose()
}
