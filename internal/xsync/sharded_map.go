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
	"github.com/zeebo/xxh3"
)

// DefaultShardCount is the number of shards used when none is given.
const DefaultShardCount = 32

// ShardedMap spreads string keys over a fixed set of Map shards using xxh3,
// so that hot registries (live actors, pending completions) do not contend
// on a single lock.
type ShardedMap[V any] struct {
	shards []*Map[string, V]
	mask   uint64
}

// NewShardedMap creates a ShardedMap. shardCount is rounded up to a power of two.
func NewShardedMap[V any](shardCount int) *ShardedMap[V] {
	if shardCount <= 0 {
		shardCount = DefaultShardCount
	}

	size := 1
	for size < shardCount {
		size <<= 1
	}

	shards := make([]*Map[string, V], size)
	for i := range shards {
		shards[i] = NewMap[string, V]()
	}

	return &ShardedMap[V]{
		shards: shards,
		mask:   uint64(size - 1),
	}
}

func (m *ShardedMap[V]) shard(key string) *Map[string, V] {
	return m.shards[xxh3.HashString(key)&m.mask]
}

// Set stores the value under key.
func (m *ShardedMap[V]) Set(key string, value V) {
	m.shard(key).Set(key, value)
}

// Get returns the value stored under key.
func (m *ShardedMap[V]) Get(key string) (V, bool) {
	return m.shard(key).Get(key)
}

// Delete removes key.
func (m *ShardedMap[V]) Delete(key string) {
	m.shard(key).Delete(key)
}

// LoadAndDelete removes key and returns its previous value.
func (m *ShardedMap[V]) LoadAndDelete(key string) (V, bool) {
	return m.shard(key).LoadAndDelete(key)
}

// Len returns the number of entries across all shards.
func (m *ShardedMap[V]) Len() int {
	total := 0
	for _, shard := range m.shards {
		total += shard.Len()
	}
	return total
}

// Values returns a snapshot of every value.
func (m *ShardedMap[V]) Values() []V {
	var values []V
	for _, shard := range m.shards {
		values = append(values, shard.Values()...)
	}
	return values
}

// Range calls f for every entry, shard by shard.
func (m *ShardedMap[V]) Range(f func(string, V)) {
	for _, shard := range m.shards {
		shard.Range(f)
	}
}

// Reset clears every shard.
func (m *ShardedMap[V]) Reset() {
	for _, shard := range m.shards {
		shard.Reset()
	}
}
