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

package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	t.Run("With FIFO order across resizes", func(t *testing.T) {
		q := New[int]()
		for i := range 100 {
			require.True(t, q.Push(i))
		}
		require.Equal(t, 100, q.Len())

		for i := range 100 {
			v, ok := q.Pop()
			require.True(t, ok)
			require.Equal(t, i, v)
		}

		_, ok := q.Pop()
		assert.False(t, ok)
		assert.True(t, q.IsEmpty())
	})
	t.Run("With wrap around", func(t *testing.T) {
		q := New[int]()
		for i := range 10 {
			q.Push(i)
		}
		for range 8 {
			_, _ = q.Pop()
		}
		for i := 10; i < 30; i++ {
			q.Push(i)
		}

		expected := 8
		for !q.IsEmpty() {
			v, ok := q.Pop()
			require.True(t, ok)
			require.Equal(t, expected, v)
			expected++
		}
		assert.Equal(t, 30, expected)
	})
	t.Run("With Close", func(t *testing.T) {
		q := New[string]()
		q.Push("a")
		q.Close()
		assert.True(t, q.IsClosed())
		assert.Zero(t, q.Len())
		assert.False(t, q.Push("b"))
	})
	t.Run("With concurrent producers", func(t *testing.T) {
		q := New[int]()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				q.Push(i)
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 50, q.Len())
	})
}
