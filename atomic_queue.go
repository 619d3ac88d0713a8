// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomq

import (
	"math/bits"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// AtomicQueue is a multi-producer multi-consumer bounded queue with
// per-slot turn tags.
//
// Producers and consumers draw tickets from the tail and head counters.
// A ticket k maps to slot k mod n on lap k/n. Each slot carries a turn
// counter that alternates between write turns (2*lap) and read turns
// (2*lap+1), so exactly one producer and one consumer own a slot per lap
// and a slot is handed back only after its element has been read.
//
// Enqueue and Dequeue claim a ticket only when the target slot is already
// on their turn, so they never wait. Push and Pop claim a ticket with a
// single Fetch-And-Add and then wait on the slot with the queue's
// WaitStrategy, which gives the highest throughput under contention.
//
// Memory: n slots (16+ bytes per slot, padded to a cache line)
type AtomicQueue[T any] struct {
	_      pad
	tail   atomix.Uint64 // Producer tickets
	_      pad
	head   atomix.Uint64 // Consumer tickets
	_      pad
	buffer []turnSlot[T]
	mask   uint64
	order  uint64 // log2(n): lap = ticket >> order
	wait   waiter
}

type turnSlot[T any] struct {
	turn atomix.Uint64 // 2*lap: writable, 2*lap+1: readable
	data T
	_    padShort // Pad to cache line
}

// NewAtomicQueue creates a new AtomicQueue that spins while waiting.
// Capacity must be a power of 2.
func NewAtomicQueue[T any](capacity int) (*AtomicQueue[T], error) {
	return newAtomicQueue[T](capacity, WaitSpin)
}

// NewBlockingAtomicQueue creates a new AtomicQueue whose Push and Pop park
// the calling goroutine after a short spin.
// Capacity must be a power of 2.
func NewBlockingAtomicQueue[T any](capacity int) (*AtomicQueue[T], error) {
	return newAtomicQueue[T](capacity, WaitBlock)
}

func newAtomicQueue[T any](capacity int, ws WaitStrategy) (*AtomicQueue[T], error) {
	n, err := checkCapacity(capacity)
	if err != nil {
		return nil, err
	}
	q := &AtomicQueue[T]{
		buffer: make([]turnSlot[T], n),
		mask:   n - 1,
		order:  uint64(bits.TrailingZeros64(n)),
	}
	q.wait.init(ws)
	return q, nil
}

// Enqueue adds an element to the queue.
// Returns ErrWouldBlock if the queue is full.
func (q *AtomicQueue[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	tail := q.tail.LoadAcquire()
	for {
		slot := &q.buffer[tail&q.mask]
		turn := (tail >> q.order) * 2
		if slot.turn.LoadAcquire() == turn {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				slot.data = *elem
				q.wait.publish(&slot.turn, turn+1)
				return nil
			}
			sw.Once()
			tail = q.tail.LoadAcquire()
			continue
		}

		// Slot still holds the previous lap. Full unless tail moved.
		prev := tail
		tail = q.tail.LoadAcquire()
		if tail == prev {
			return ErrWouldBlock
		}
	}
}

// Dequeue removes and returns an element from the queue.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *AtomicQueue[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	head := q.head.LoadAcquire()
	for {
		slot := &q.buffer[head&q.mask]
		turn := (head>>q.order)*2 + 1
		if slot.turn.LoadAcquire() == turn {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				q.wait.publish(&slot.turn, turn+1)
				return elem, nil
			}
			sw.Once()
			head = q.head.LoadAcquire()
			continue
		}

		prev := head
		head = q.head.LoadAcquire()
		if head == prev {
			var zero T
			return zero, ErrWouldBlock
		}
	}
}

// Push adds an element, waiting while its slot is still occupied.
func (q *AtomicQueue[T]) Push(elem T) {
	tail := q.tail.AddAcqRel(1) - 1
	slot := &q.buffer[tail&q.mask]
	turn := (tail >> q.order) * 2
	if slot.turn.LoadAcquire() != turn {
		q.wait.until(func() bool { return slot.turn.LoadAcquire() == turn })
	}
	slot.data = elem
	q.wait.publish(&slot.turn, turn+1)
}

// Pop removes and returns an element, waiting until one is published
// for its ticket.
func (q *AtomicQueue[T]) Pop() T {
	head := q.head.AddAcqRel(1) - 1
	slot := &q.buffer[head&q.mask]
	turn := (head>>q.order)*2 + 1
	if slot.turn.LoadAcquire() != turn {
		q.wait.until(func() bool { return slot.turn.LoadAcquire() == turn })
	}
	elem := slot.data
	var zero T
	slot.data = zero
	q.wait.publish(&slot.turn, turn+1)
	return elem
}

// Len returns a snapshot of the number of queued elements.
func (q *AtomicQueue[T]) Len() int {
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	return clampLen(tail, head, q.mask+1)
}

// Cap returns the queue capacity.
func (q *AtomicQueue[T]) Cap() int {
	return int(q.mask + 1)
}
