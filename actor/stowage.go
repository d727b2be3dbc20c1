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

// compactThreshold is the consumed prefix length that triggers compaction.
const compactThreshold = 64

// stowage is an ordered message buffer replayed through a cursor. Entries
// before the cursor have been handed out; the slice is reset once fully
// consumed and compacted when the consumed prefix dominates it.
type stowage struct {
	messages []*Message
	cursor   int
}

func newStowage() *stowage {
	return &stowage{}
}

// stow appends msg at the tail
func (s *stowage) stow(msg *Message) {
	s.messages = append(s.messages, msg)
}

// head pops the oldest message, nil when empty
func (s *stowage) head() *Message {
	if s.isEmpty() {
		return nil
	}

	msg := s.messages[s.cursor]
	s.messages[s.cursor] = nil
	s.cursor++

	switch {
	case s.cursor == len(s.messages):
		s.messages = s.messages[:0]
		s.cursor = 0
	case s.cursor >= compactThreshold && s.cursor*2 >= len(s.messages):
		n := copy(s.messages, s.messages[s.cursor:])
		clear(s.messages[n:])
		s.messages = s.messages[:n]
		s.cursor = 0
	}
	return msg
}

// swapWith appends msg and returns the oldest message. The returned message
// is msg itself only when the buffer was empty.
func (s *stowage) swapWith(msg *Message) *Message {
	s.stow(msg)
	return s.head()
}

func (s *stowage) pending() int {
	return len(s.messages) - s.cursor
}

func (s *stowage) isEmpty() bool {
	return s.pending() == 0
}

// drain removes and returns every pending message in order
func (s *stowage) drain() []*Message {
	if s.isEmpty() {
		return nil
	}
	out := make([]*Message, s.pending())
	copy(out, s.messages[s.cursor:])
	clear(s.messages)
	s.messages = s.messages[:0]
	s.cursor = 0
	return out
}
