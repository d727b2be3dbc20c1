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
	gods "github.com/Workiva/go-datastructures/queue"

	"github.com/tochemey/gostage/errors"
)

// BoundedMailbox is a fixed-capacity MPSC mailbox backed by a ring buffer.
//
// Enqueue does not block: once the mailbox is full it returns
// errors.ErrMailboxFull and the sender decides what to do with the message.
// The ring buffer rounds the capacity up to the next power of two.
type BoundedMailbox struct {
	underlying *gods.RingBuffer
}

var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a BoundedMailbox. Capacity must be positive.
func NewBoundedMailbox(capacity int) *BoundedMailbox {
	if capacity <= 0 {
		capacity = 1
	}
	return &BoundedMailbox{
		underlying: gods.NewRingBuffer(uint64(capacity)),
	}
}

// Enqueue inserts a message or returns errors.ErrMailboxFull
func (mailbox *BoundedMailbox) Enqueue(msg *Message) error {
	ok, err := mailbox.underlying.Offer(msg)
	if err != nil {
		return errors.ErrMailboxDisposed
	}
	if !ok {
		return errors.ErrMailboxFull
	}
	return nil
}

// Dequeue removes the next message, nil when empty
func (mailbox *BoundedMailbox) Dequeue() *Message {
	if mailbox.underlying.Len() == 0 {
		return nil
	}

	item, err := mailbox.underlying.Get()
	if err != nil {
		return nil
	}

	if msg, ok := item.(*Message); ok {
		return msg
	}
	return nil
}

// IsEmpty reports whether the mailbox has no message
func (mailbox *BoundedMailbox) IsEmpty() bool {
	return mailbox.underlying.Len() == 0
}

// Len returns the number of messages in the mailbox
func (mailbox *BoundedMailbox) Len() int64 {
	return int64(mailbox.underlying.Len())
}

// Cap returns the effective capacity of the mailbox
func (mailbox *BoundedMailbox) Cap() int64 {
	return int64(mailbox.underlying.Cap())
}

// Dispose releases the ring buffer
func (mailbox *BoundedMailbox) Dispose() {
	mailbox.underlying.Dispose()
}
