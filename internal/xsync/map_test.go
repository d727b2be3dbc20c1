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

package xsync

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)

	val, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, val)
	assert.Equal(t, 2, m.Len())
	assert.ElementsMatch(t, []int{1, 2}, m.Values())

	next := m.Compute("a", func(current int, found bool) int {
		require.True(t, found)
		return current + 10
	})
	assert.Equal(t, 11, next)

	next = m.Compute("c", func(current int, found bool) int {
		require.False(t, found)
		return 3
	})
	assert.Equal(t, 3, next)

	prev, ok := m.LoadAndDelete("c")
	require.True(t, ok)
	assert.Equal(t, 3, prev)
	_, ok = m.LoadAndDelete("c")
	assert.False(t, ok)

	seen := 0
	m.Range(func(string, int) { seen++ })
	assert.Equal(t, 2, seen)

	m.Delete("a")
	_, ok = m.Get("a")
	assert.False(t, ok)

	m.Reset()
	assert.Zero(t, m.Len())
}

func TestShardedMap(t *testing.T) {
	t.Run("shard count rounds up to a power of two", func(t *testing.T) {
		m := NewShardedMap[int](5)
		assert.Len(t, m.shards, 8)
		assert.EqualValues(t, 7, m.mask)

		m = NewShardedMap[int](0)
		assert.Len(t, m.shards, DefaultShardCount)
	})
	t.Run("concurrent writers", func(t *testing.T) {
		m := NewShardedMap[int](8)
		var wg sync.WaitGroup
		for i := range 100 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				m.Set(strconv.Itoa(i), i)
			}(i)
		}
		wg.Wait()

		require.Equal(t, 100, m.Len())
		require.Len(t, m.Values(), 100)

		val, ok := m.Get("42")
		require.True(t, ok)
		assert.Equal(t, 42, val)

		prev, ok := m.LoadAndDelete("42")
		require.True(t, ok)
		assert.Equal(t, 42, prev)

		m.Delete("41")
		count := 0
		m.Range(func(string, int) { count++ })
		assert.Equal(t, 98, count)

		m.Reset()
		assert.Zero(t, m.Len())
	})
}
