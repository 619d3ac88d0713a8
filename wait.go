// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomq

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// WaitStrategy selects how Push and Pop wait for a slot that is not yet
// their turn. It is fixed when the queue is constructed.
type WaitStrategy uint8

const (
	// WaitSpin busy-waits with adaptive pause and yield. Lowest latency,
	// burns a core while waiting.
	WaitSpin WaitStrategy = iota

	// WaitBlock spins briefly, then parks the goroutine until a peer
	// publishes or releases a slot. Trades latency for CPU under
	// oversubscription.
	WaitBlock
)

// String returns the strategy name.
func (w WaitStrategy) String() string {
	switch w {
	case WaitSpin:
		return "spin"
	case WaitBlock:
		return "block"
	default:
		return "unknown"
	}
}

// spinLimit is the number of spin rounds WaitBlock makes before parking.
const spinLimit = 128

// waiter implements a WaitStrategy for one queue.
//
// Parking is a Dekker handshake between sleepers and publishers: a sleeper
// increments sleepers, issues a full fence, then re-checks its condition;
// a publisher changes the slot state, issues a full fence, then loads
// sleepers. Either the sleeper observes the new state or the publisher
// observes the sleeper and bumps seq under mu.
//
// ready runs outside mu, so it may itself publish and wake.
type waiter struct {
	block    bool
	sleepers atomix.Int64
	mu       sync.Mutex
	cond     sync.Cond
	seq      uint64 // guarded by mu
}

func (w *waiter) init(s WaitStrategy) {
	w.block = s == WaitBlock
	w.cond.L = &w.mu
}

// until waits until ready returns true. ready may have side effects (a CAS
// that acquires the slot); it is not called again after returning true.
func (w *waiter) until(ready func() bool) {
	sw := spin.Wait{}
	for i := 0; !w.block || i < spinLimit; i++ {
		if ready() {
			return
		}
		sw.Once()
	}

	w.sleepers.Add(1)
	defer w.sleepers.Add(-1)
	for {
		w.mu.Lock()
		seq := w.seq
		w.mu.Unlock()

		atomix.BarrierAcqRel()
		if ready() {
			return
		}

		w.mu.Lock()
		for w.seq == seq {
			w.cond.Wait()
		}
		w.mu.Unlock()
	}
}

// publish stores a slot tag and wakes parked peers.
func (w *waiter) publish(tag *atomix.Uint64, v uint64) {
	tag.StoreRelease(v)
	w.wake()
}

// wake broadcasts to parked goroutines, if any. Callers must have made
// their state change before calling wake.
func (w *waiter) wake() {
	if !w.block {
		return
	}
	atomix.BarrierAcqRel()
	if w.sleepers.LoadAcquire() == 0 {
		return
	}
	w.mu.Lock()
	w.seq++
	w.cond.Broadcast()
	w.mu.Unlock()
}
