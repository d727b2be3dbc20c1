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
	"sync"
	stdatomic "sync/atomic"

	"go.uber.org/atomic"

	"github.com/tochemey/gostage/errors"
)

type mailboxNode struct {
	next stdatomic.Pointer[mailboxNode]
	msg  *Message
}

var mailboxNodePool = sync.Pool{New: func() any { return new(mailboxNode) }}

// UnboundedMailbox is the default lock-free MPSC mailbox.
//
// Producers append by swapping the tail and linking the previous node; the
// single consumer advances the head. Nodes are recycled through a sync.Pool.
// Under contention IsEmpty may briefly report empty between the tail swap and
// the link; no message is lost because every producer schedules a turn after
// Enqueue returns.
type UnboundedMailbox struct {
	head  stdatomic.Pointer[mailboxNode]
	_pad1 [64]byte
	tail  stdatomic.Pointer[mailboxNode]
	_pad2 [64]byte

	length   *atomic.Int64
	disposed *atomic.Bool
}

var _ Mailbox = (*UnboundedMailbox)(nil)

// NewUnboundedMailbox creates an UnboundedMailbox
func NewUnboundedMailbox() *UnboundedMailbox {
	stub := mailboxNodePool.Get().(*mailboxNode)
	stub.next.Store(nil)
	stub.msg = nil

	m := &UnboundedMailbox{
		length:   atomic.NewInt64(0),
		disposed: atomic.NewBool(false),
	}
	m.head.Store(stub)
	m.tail.Store(stub)
	return m
}

// Enqueue places the message in the mailbox. It never blocks.
func (m *UnboundedMailbox) Enqueue(msg *Message) error {
	if m.disposed.Load() {
		return errors.ErrMailboxDisposed
	}

	node := mailboxNodePool.Get().(*mailboxNode)
	node.msg = msg
	node.next.Store(nil)

	m.length.Inc()
	prev := m.tail.Swap(node)
	prev.next.Store(node)
	return nil
}

// Dequeue removes the message at the head of the mailbox.
// It must be called by a single consumer.
func (m *UnboundedMailbox) Dequeue() *Message {
	head := m.head.Load()
	next := head.next.Load()
	if next == nil {
		return nil
	}

	m.head.Store(next)
	msg := next.msg
	next.msg = nil
	m.length.Dec()

	head.next.Store(nil)
	mailboxNodePool.Put(head)
	return msg
}

// IsEmpty reports whether the mailbox has no linked message
func (m *UnboundedMailbox) IsEmpty() bool {
	return m.head.Load().next.Load() == nil
}

// Len returns the number of enqueued messages
func (m *UnboundedMailbox) Len() int64 {
	return m.length.Load()
}

// Dispose rejects any further Enqueue
func (m *UnboundedMailbox) Dispose() {
	m.disposed.Store(true)
}
