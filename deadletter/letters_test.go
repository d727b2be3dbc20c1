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

package deadletter

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/gostage/eventstream"
	"github.com/tochemey/gostage/log"
)

func newLetter(actorID, representation string) *Letter {
	return &Letter{
		ActorID:        actorID,
		ActorName:      actorID,
		Representation: representation,
		Reason:         errors.New("actor is stopped"),
		Timestamp:      time.Now(),
	}
}

func TestLetters(t *testing.T) {
	t.Run("With counters", func(t *testing.T) {
		letters := New(WithLogger(log.DiscardLogger))
		letters.FailedDelivery(newLetter("a", "m1"))
		letters.FailedDelivery(newLetter("a", "m2"))
		letters.FailedDelivery(newLetter("b", "m3"))
		letters.FailedDelivery(nil)

		assert.EqualValues(t, 3, letters.Count())
		assert.EqualValues(t, 2, letters.CountFor("a"))
		assert.EqualValues(t, 1, letters.CountFor("b"))
		assert.Zero(t, letters.CountFor("c"))

		retained := letters.Letters()
		require.Len(t, retained, 3)
		assert.Equal(t, "m1", retained[0].Representation)

		letters.Reset()
		assert.Zero(t, letters.Count())
		assert.Empty(t, letters.Letters())
	})
	t.Run("With capacity", func(t *testing.T) {
		letters := New(WithCapacity(2))
		letters.FailedDelivery(newLetter("a", "m1"))
		letters.FailedDelivery(newLetter("a", "m2"))
		letters.FailedDelivery(newLetter("a", "m3"))

		retained := letters.Letters()
		require.Len(t, retained, 2)
		assert.Equal(t, "m2", retained[0].Representation)
		assert.Equal(t, "m3", retained[1].Representation)
		assert.EqualValues(t, 3, letters.Count())
	})
	t.Run("With capacity wrapped several times", func(t *testing.T) {
		letters := New(WithCapacity(3))
		for i := range 10 {
			letters.FailedDelivery(newLetter("a", strconv.Itoa(i)))
		}

		retained := letters.Letters()
		require.Len(t, retained, 3)
		assert.Equal(t, "7", retained[0].Representation)
		assert.Equal(t, "8", retained[1].Representation)
		assert.Equal(t, "9", retained[2].Representation)

		letters.Reset()
		letters.FailedDelivery(newLetter("a", "fresh"))
		retained = letters.Letters()
		require.Len(t, retained, 1)
		assert.Equal(t, "fresh", retained[0].Representation)
	})
	t.Run("With zero capacity", func(t *testing.T) {
		letters := New(WithCapacity(0))
		letters.FailedDelivery(newLetter("a", "m1"))
		assert.Empty(t, letters.Letters())
		assert.EqualValues(t, 1, letters.Count())
	})
	t.Run("With listener", func(t *testing.T) {
		var received []string
		letters := New(WithListener(ListenerFunc(func(letter *Letter) {
			received = append(received, letter.Representation)
		})))
		letters.FailedDelivery(newLetter("a", "m1"))
		letters.FailedDelivery(newLetter("a", "m2"))
		assert.Equal(t, []string{"m1", "m2"}, received)
	})
	t.Run("With event stream", func(t *testing.T) {
		stream := eventstream.New()
		sub := stream.AddSubscriber()
		stream.Subscribe(sub, Topic)

		letters := New(WithEventStream(stream))
		letters.FailedDelivery(newLetter("a", "m1"))

		var published []*Letter
		for msg := range sub.Iterator() {
			letter, ok := msg.Payload().(*Letter)
			require.True(t, ok)
			published = append(published, letter)
		}
		require.Len(t, published, 1)
		assert.Equal(t, "m1", published[0].Representation)
		assert.Contains(t, published[0].String(), "actor is stopped")
		stream.Close()
	})
}
