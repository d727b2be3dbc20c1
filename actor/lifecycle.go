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
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"
)

// lifecycleFlag is a bit of the lifecycle state mask. Flags combine freely;
// stopped is terminal and overrides every other flag.
//
//   - stoppedFlag:       the actor accepts no execution, only dead-lettering.
//   - suspendedFlag:     supervision is pending; messages go to the suspended buffer.
//   - stowingFlag:       the actor defers non-exempt messages to the stowage buffer.
//   - resumingFlag:      the suspended buffer is being replayed.
//   - dispersingFlag:    the stowage buffer is being replayed.
//   - stopRequestedFlag: Base.Stop was called during the current turn.
type lifecycleFlag uint32

const (
	stoppedFlag lifecycleFlag = 1 << iota
	suspendedFlag
	stowingFlag
	resumingFlag
	dispersingFlag
	stopRequestedFlag
)

// lifecycle is the per-actor environment: control flags plus the suspended and
// stowage buffers. Flags are atomic so they can be observed from outside the
// actor; buffers are only touched inside the actor's own turn.
type lifecycle struct {
	flags     *atomic.Uint32
	suspended *stowage
	stowage   *stowage
	overrides mapset.Set[reflect.Type]
}

func newLifecycle() *lifecycle {
	return &lifecycle{
		flags:     atomic.NewUint32(0),
		suspended: newStowage(),
		stowage:   newStowage(),
		overrides: mapset.NewSet[reflect.Type](),
	}
}

func (lc *lifecycle) is(flag lifecycleFlag) bool {
	return lc.flags.Load()&uint32(flag) != 0
}

// toggle sets or clears flag with a CAS loop so concurrent updates of other
// bits are never lost.
func (lc *lifecycle) toggle(flag lifecycleFlag, enabled bool) {
	for {
		state := lc.flags.Load()
		desired := state &^ uint32(flag)
		if enabled {
			desired = state | uint32(flag)
		}
		if desired == state || lc.flags.CompareAndSwap(state, desired) {
			return
		}
	}
}

// markStopped sets stoppedFlag and reports whether this call did it.
func (lc *lifecycle) markStopped() bool {
	for {
		state := lc.flags.Load()
		if state&uint32(stoppedFlag) != 0 {
			return false
		}
		desired := (state | uint32(stoppedFlag)) &^ uint32(stopRequestedFlag)
		if lc.flags.CompareAndSwap(state, desired) {
			return true
		}
	}
}

// suspend interrupts any ongoing resume; buffered messages stay in place.
func (lc *lifecycle) suspend() {
	lc.toggle(suspendedFlag, true)
	lc.toggle(resumingFlag, false)
}

// resume clears suspension and starts replaying the suspended buffer, if any.
func (lc *lifecycle) resume() {
	lc.toggle(suspendedFlag, false)
	lc.toggle(resumingFlag, !lc.suspended.isEmpty())
}

func (lc *lifecycle) stow(overrides ...reflect.Type) {
	for _, override := range overrides {
		if override != nil {
			lc.overrides.Add(override)
		}
	}
	lc.toggle(dispersingFlag, false)
	lc.toggle(stowingFlag, true)
}

func (lc *lifecycle) disperse() {
	lc.toggle(stowingFlag, false)
	lc.overrides.Clear()
	lc.toggle(dispersingFlag, !lc.stowage.isEmpty())
}

// isStowageOverride reports whether messages of protocol bypass stowing.
func (lc *lifecycle) isStowageOverride(protocol reflect.Type) bool {
	return lc.overrides.Contains(protocol)
}

// drain clears every flag but stopped and empties both buffers, suspended first.
func (lc *lifecycle) drain() []*Message {
	lc.toggle(stowingFlag|resumingFlag|dispersingFlag|suspendedFlag, false)
	lc.overrides.Clear()
	drained := lc.suspended.drain()
	return append(drained, lc.stowage.drain()...)
}
