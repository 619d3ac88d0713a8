// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomq

import (
	"code.hybscloud.com/atomix"
)

// SPSC is a single-producer single-consumer bounded queue.
//
// Based on Lamport's ring buffer with cached index optimization.
// The producer owns tail and the consumer owns head, so neither side needs
// a read-modify-write: each loads its own cursor relaxed, loads the other
// side's cursor with acquire only when its cached copy says full or empty,
// and publishes with a release store.
//
// Push and Pop wait with the queue's WaitStrategy. With exactly one
// producer and one consumer there is no ticket to over-claim, so they are
// the waiting forms of Enqueue and Dequeue.
//
// Memory: O(capacity) with minimal per-slot overhead
type SPSC[T any] struct {
	_          pad
	head       atomix.Uint64 // Consumer reads from here
	_          pad
	cachedTail uint64 // Consumer's cached view of tail
	_          pad
	tail       atomix.Uint64 // Producer writes here
	_          pad
	cachedHead uint64 // Producer's cached view of head
	_          pad
	buffer     []T
	mask       uint64
	wait       waiter
}

// NewSPSC creates a new SPSC queue that spins while waiting.
// Capacity must be a power of 2.
func NewSPSC[T any](capacity int) (*SPSC[T], error) {
	return newSPSC[T](capacity, WaitSpin)
}

func newSPSC[T any](capacity int, ws WaitStrategy) (*SPSC[T], error) {
	n, err := checkCapacity(capacity)
	if err != nil {
		return nil, err
	}
	q := &SPSC[T]{
		buffer: make([]T, n),
		mask:   n - 1,
	}
	q.wait.init(ws)
	return q, nil
}

// Enqueue adds an element to the queue (producer only).
// Returns ErrWouldBlock if the queue is full.
func (q *SPSC[T]) Enqueue(elem *T) error {
	tail := q.tail.LoadRelaxed()
	if tail-q.cachedHead > q.mask {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead > q.mask {
			return ErrWouldBlock
		}
	}

	q.buffer[tail&q.mask] = *elem
	q.wait.publish(&q.tail, tail+1)
	return nil
}

// Dequeue removes and returns an element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPSC[T]) Dequeue() (T, error) {
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			var zero T
			return zero, ErrWouldBlock
		}
	}

	elem := q.buffer[head&q.mask]
	var zero T
	q.buffer[head&q.mask] = zero
	q.wait.publish(&q.head, head+1)
	return elem, nil
}

// Push adds an element, waiting while the queue is full (producer only).
func (q *SPSC[T]) Push(elem T) {
	if q.Enqueue(&elem) == nil {
		return
	}
	q.wait.until(func() bool { return q.Enqueue(&elem) == nil })
}

// Pop removes and returns an element, waiting while the queue is empty
// (consumer only).
func (q *SPSC[T]) Pop() T {
	elem, err := q.Dequeue()
	if err == nil {
		return elem
	}
	q.wait.until(func() bool {
		elem, err = q.Dequeue()
		return err == nil
	})
	return elem
}

// Len returns a snapshot of the number of queued elements.
func (q *SPSC[T]) Len() int {
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	return clampLen(tail, head, q.mask+1)
}

// Cap returns the queue capacity.
func (q *SPSC[T]) Cap() int {
	return int(q.mask + 1)
}
