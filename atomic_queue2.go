// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Slot states for AtomicQueue2.
const (
	stateEmpty uint64 = iota
	stateStoring
	stateStored
	stateLoading
)

// AtomicQueue2 is a multi-producer multi-consumer bounded queue with
// per-slot ready flags.
//
// Each slot cycles empty → storing → stored → loading → empty. A producer
// acquires an empty slot with a CAS, writes, and marks it stored; a
// consumer acquires a stored slot with a CAS, reads, and marks it empty.
// The flag carries no lap number, so when a goroutine is preempted between
// claiming a ticket and acquiring its slot, two producers (or consumers)
// of different laps may take the same slot in either order. Elements are
// never lost or duplicated.
//
// Enqueue and Dequeue check capacity before claiming a ticket. Push and
// Pop claim with Fetch-And-Add and rely on the slot flag for backpressure.
//
// Memory: n slots (16+ bytes per slot, padded to a cache line)
type AtomicQueue2[T any] struct {
	_        pad
	tail     atomix.Uint64 // Producer tickets
	_        pad
	head     atomix.Uint64 // Consumer tickets
	_        pad
	buffer   []flagSlot[T]
	mask     uint64
	capacity uint64
	wait     waiter
}

type flagSlot[T any] struct {
	state atomix.Uint64
	data  T
	_     padShort // Pad to cache line
}

// NewAtomicQueue2 creates a new AtomicQueue2 that spins while waiting.
// Capacity must be a power of 2.
func NewAtomicQueue2[T any](capacity int) (*AtomicQueue2[T], error) {
	return newAtomicQueue2[T](capacity, WaitSpin)
}

// NewBlockingAtomicQueue2 creates a new AtomicQueue2 whose waits park the
// calling goroutine after a short spin.
// Capacity must be a power of 2.
func NewBlockingAtomicQueue2[T any](capacity int) (*AtomicQueue2[T], error) {
	return newAtomicQueue2[T](capacity, WaitBlock)
}

func newAtomicQueue2[T any](capacity int, ws WaitStrategy) (*AtomicQueue2[T], error) {
	n, err := checkCapacity(capacity)
	if err != nil {
		return nil, err
	}
	q := &AtomicQueue2[T]{
		buffer:   make([]flagSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}
	q.wait.init(ws)
	return q, nil
}

// Enqueue adds an element to the queue.
// Returns ErrWouldBlock if the queue is full.
func (q *AtomicQueue2[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	tail := q.tail.LoadAcquire()
	for {
		if int64(tail-q.head.LoadAcquire()) >= int64(q.capacity) {
			return ErrWouldBlock
		}
		if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
			q.store(tail, elem)
			return nil
		}
		sw.Once()
		tail = q.tail.LoadAcquire()
	}
}

// Dequeue removes and returns an element from the queue.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *AtomicQueue2[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	head := q.head.LoadAcquire()
	for {
		if int64(q.tail.LoadAcquire()-head) <= 0 {
			var zero T
			return zero, ErrWouldBlock
		}
		if q.head.CompareAndSwapAcqRel(head, head+1) {
			return q.load(head), nil
		}
		sw.Once()
		head = q.head.LoadAcquire()
	}
}

// Push adds an element, waiting while its slot is occupied.
func (q *AtomicQueue2[T]) Push(elem T) {
	q.store(q.tail.AddAcqRel(1)-1, &elem)
}

// Pop removes and returns an element, waiting while its slot is empty.
func (q *AtomicQueue2[T]) Pop() T {
	return q.load(q.head.AddAcqRel(1) - 1)
}

func (q *AtomicQueue2[T]) store(ticket uint64, elem *T) {
	slot := &q.buffer[ticket&q.mask]
	if !slot.state.CompareAndSwapAcqRel(stateEmpty, stateStoring) {
		q.wait.until(func() bool { return slot.state.CompareAndSwapAcqRel(stateEmpty, stateStoring) })
	}
	slot.data = *elem
	q.wait.publish(&slot.state, stateStored)
}

func (q *AtomicQueue2[T]) load(ticket uint64) T {
	slot := &q.buffer[ticket&q.mask]
	if !slot.state.CompareAndSwapAcqRel(stateStored, stateLoading) {
		q.wait.until(func() bool { return slot.state.CompareAndSwapAcqRel(stateStored, stateLoading) })
	}
	elem := slot.data
	var zero T
	slot.data = zero
	q.wait.publish(&slot.state, stateEmpty)
	return elem
}

// Len returns a snapshot of the number of queued elements.
func (q *AtomicQueue2[T]) Len() int {
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	return clampLen(tail, head, q.capacity)
}

// Cap returns the queue capacity.
func (q *AtomicQueue2[T]) Cap() int {
	return int(q.capacity)
}
