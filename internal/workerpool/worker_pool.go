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

// Package workerpool runs the delivery turns of a stage on a sharded set of
// reusable goroutines.
package workerpool

import (
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/gostage/errors"
)

const (
	// Maximum number of shards supported by the worker pool
	maxShards = 128

	workerStateIdle    int32 = 0
	workerStateWorking int32 = 1
	workerStateClosed  int32 = 2
)

// WorkerPool manages a pool of workers across multiple shards.
// Workers idle for longer than passivateAfter are reclaimed.
type WorkerPool struct {
	passivateAfter time.Duration
	numShards      int
	shards         []*poolShard
	mutex          sync.RWMutex
	started        *atomic.Bool
	stopped        *atomic.Bool
	spawnedWorkers *atomic.Int64
	workers        sync.WaitGroup
	done           chan struct{}
	cleanupDone    chan struct{}
}

// worker is a goroutine that executes submitted tasks.
type worker struct {
	workChan chan func()
	shard    *poolShard
	lastUsed *atomic.Int64
	state    *atomic.Int32
}

// poolShard is a subdivision of the pool that owns a subset of the idle workers.
type poolShard struct {
	wp          *WorkerPool
	idleWorkers []*worker
	fastIdle    *atomic.Pointer[worker]
	mu          sync.Mutex
	stopped     *atomic.Bool
}

// New creates a new worker pool with the given options.
func New(opts ...Option) *WorkerPool {
	wp := &WorkerPool{
		passivateAfter: time.Second,
		numShards:      1,
		started:        atomic.NewBool(false),
		stopped:        atomic.NewBool(false),
		spawnedWorkers: atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt.Apply(wp)
	}

	if wp.passivateAfter <= 0 {
		wp.passivateAfter = time.Second
	}

	if wp.numShards < 1 {
		wp.numShards = 1
	} else if wp.numShards > maxShards {
		wp.numShards = maxShards
	}

	return wp
}

// SpawnedWorkers returns the current count of live workers.
func (wp *WorkerPool) SpawnedWorkers() int {
	return int(wp.spawnedWorkers.Load())
}

// Start initializes the shards and the idle-worker cleanup routine.
// It's safe to call Start multiple times.
func (wp *WorkerPool) Start() {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if wp.started.Load() {
		return
	}

	wp.shards = make([]*poolShard, wp.numShards)
	for i := range wp.numShards {
		wp.shards[i] = &poolShard{
			wp:          wp,
			idleWorkers: make([]*worker, 0, 64),
			fastIdle:    atomic.NewPointer[worker](nil),
			stopped:     atomic.NewBool(false),
		}
	}

	wp.done = make(chan struct{})
	wp.cleanupDone = make(chan struct{})
	wp.started.Store(true)
	go wp.cleanup()
}

// Stop closes every idle worker, waits for busy workers to finish their
// current task and rejects further submissions.
func (wp *WorkerPool) Stop() {
	wp.mutex.Lock()
	if !wp.started.Load() || wp.stopped.Swap(true) {
		wp.mutex.Unlock()
		return
	}

	for _, shard := range wp.shards {
		shard.mu.Lock()
		shard.stopped.Store(true)
		for i, w := range shard.idleWorkers {
			w.close()
			shard.idleWorkers[i] = nil
		}
		shard.idleWorkers = shard.idleWorkers[:0]
		if w := shard.fastIdle.Swap(nil); w != nil {
			w.close()
		}
		shard.mu.Unlock()
	}

	close(wp.done)
	wp.mutex.Unlock()

	<-wp.cleanupDone
	wp.workers.Wait()
}

// SubmitWork hands the task to an available worker, spawning one when needed.
func (wp *WorkerPool) SubmitWork(task func()) error {
	wp.mutex.RLock()
	if !wp.started.Load() || wp.stopped.Load() {
		wp.mutex.RUnlock()
		return errors.ErrWorkerPoolStopped
	}

	shard := wp.shards[rand.IntN(wp.numShards)]
	wp.mutex.RUnlock()

	if !shard.acquireWorker(task) {
		return errors.ErrWorkerPoolStopped
	}
	return nil
}

// close stops an idle worker. A busy worker exits on its own once its shard is stopped.
func (w *worker) close() {
	if w.state.CompareAndSwap(workerStateIdle, workerStateClosed) {
		close(w.workChan)
	}
}

func (w *worker) run() {
	shard := w.shard
	wp := shard.wp
	defer func() {
		wp.spawnedWorkers.Dec()
		wp.workers.Done()
	}()

	for work := range w.workChan {
		work()

		if !w.state.CompareAndSwap(workerStateWorking, workerStateIdle) || !shard.setWorkerIdle(w) {
			return
		}
	}
}

// acquireWorker gets an idle worker or creates a new one and submits the task to it.
func (shard *poolShard) acquireWorker(task func()) bool {
	if w := shard.fastIdle.Swap(nil); w != nil && w.state.CompareAndSwap(workerStateIdle, workerStateWorking) {
		w.workChan <- task
		return true
	}

	shard.mu.Lock()
	if shard.stopped.Load() {
		shard.mu.Unlock()
		return false
	}

	for len(shard.idleWorkers) > 0 {
		last := len(shard.idleWorkers) - 1
		w := shard.idleWorkers[last]
		shard.idleWorkers[last] = nil
		shard.idleWorkers = shard.idleWorkers[:last]
		if w.state.CompareAndSwap(workerStateIdle, workerStateWorking) {
			shard.mu.Unlock()
			w.workChan <- task
			return true
		}
	}

	// spawn under the shard lock so Stop cannot race the WaitGroup
	w := &worker{
		workChan: make(chan func()),
		shard:    shard,
		lastUsed: atomic.NewInt64(time.Now().UnixNano()),
		state:    atomic.NewInt32(workerStateWorking),
	}
	shard.wp.workers.Add(1)
	shard.wp.spawnedWorkers.Inc()
	shard.mu.Unlock()

	go w.run()
	w.workChan <- task
	return true
}

// setWorkerIdle makes the worker available again.
// It returns false when the shard has been stopped.
func (shard *poolShard) setWorkerIdle(w *worker) bool {
	w.lastUsed.Store(time.Now().UnixNano())
	if shard.stopped.Load() {
		return false
	}

	if shard.fastIdle.CompareAndSwap(nil, w) {
		// Stop may have drained the shard in between
		if shard.stopped.Load() && shard.fastIdle.CompareAndSwap(w, nil) {
			return false
		}
		return true
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if shard.stopped.Load() {
		return false
	}
	shard.idleWorkers = append(shard.idleWorkers, w)
	return true
}

// cleanup periodically closes workers idle for longer than passivateAfter.
func (wp *WorkerPool) cleanup() {
	defer close(wp.cleanupDone)
	ticker := time.NewTicker(wp.passivateAfter)
	defer ticker.Stop()

	for {
		select {
		case <-wp.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-wp.passivateAfter).UnixNano()
			for _, shard := range wp.shards {
				shard.reclaim(cutoff)
			}
		}
	}
}

// reclaim closes idle workers last used before cutoff.
// idleWorkers is ordered by lastUsed, oldest first.
func (shard *poolShard) reclaim(cutoff int64) {
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if shard.stopped.Load() {
		return
	}

	if w := shard.fastIdle.Load(); w != nil && w.lastUsed.Load() < cutoff && shard.fastIdle.CompareAndSwap(w, nil) {
		w.close()
	}

	keep := 0
	for keep < len(shard.idleWorkers) && shard.idleWorkers[keep].lastUsed.Load() < cutoff {
		shard.idleWorkers[keep].close()
		keep++
	}

	if keep > 0 {
		remaining := copy(shard.idleWorkers, shard.idleWorkers[keep:])
		clear(shard.idleWorkers[remaining:])
		shard.idleWorkers = shard.idleWorkers[:remaining]
	}
}
