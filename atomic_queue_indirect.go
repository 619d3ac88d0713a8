// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// AtomicQueueIndirect is a multi-producer multi-consumer bounded queue
// that stores uintptr values directly in atomic slots.
//
// One value, chosen at construction, is reserved to mark an empty slot and
// cannot be enqueued. A producer publishes with a single CAS from the
// reserved value to its element; a consumer takes the element with a CAS
// back to the reserved value. There is no separate tag word per slot.
//
// Useful for passing indices into buffer pools or handle tables.
//
// Memory: n slots (8 bytes per slot, padded to a cache line)
type AtomicQueueIndirect struct {
	_        pad
	tail     atomix.Uint64 // Producer tickets
	_        pad
	head     atomix.Uint64 // Consumer tickets
	_        pad
	buffer   []indirectSlot
	mask     uint64
	capacity uint64
	nilValue uintptr
	wait     waiter
}

type indirectSlot struct {
	v atomix.Uintptr
	_ padPtr // Pad to cache line
}

// NewAtomicQueueIndirect creates a new AtomicQueueIndirect that spins while
// waiting. nilValue is the reserved empty marker.
// Capacity must be a power of 2.
func NewAtomicQueueIndirect(capacity int, nilValue uintptr) (*AtomicQueueIndirect, error) {
	return newAtomicQueueIndirect(capacity, nilValue, WaitSpin)
}

func newAtomicQueueIndirect(capacity int, nilValue uintptr, ws WaitStrategy) (*AtomicQueueIndirect, error) {
	n, err := checkCapacity(capacity)
	if err != nil {
		return nil, err
	}
	q := &AtomicQueueIndirect{
		buffer:   make([]indirectSlot, n),
		mask:     n - 1,
		capacity: n,
		nilValue: nilValue,
	}
	if nilValue != 0 {
		for i := range q.buffer {
			q.buffer[i].v.StoreRelaxed(nilValue)
		}
	}
	q.wait.init(ws)
	return q, nil
}

// Enqueue adds a value (multiple producers safe).
// Returns ErrNilElement for the reserved value, ErrWouldBlock if full.
func (q *AtomicQueueIndirect) Enqueue(elem uintptr) error {
	if elem == q.nilValue {
		return ErrNilElement
	}
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

// Dequeue removes and returns a value (multiple consumers safe).
// Returns (nil value, ErrWouldBlock) if the queue is empty.
func (q *AtomicQueueIndirect) Dequeue() (uintptr, error) {
	sw := spin.Wait{}
	head := q.head.LoadAcquire()
	for {
		if int64(q.tail.LoadAcquire()-head) <= 0 {
			return q.nilValue, ErrWouldBlock
		}
		if q.head.CompareAndSwapAcqRel(head, head+1) {
			return q.load(head), nil
		}
		sw.Once()
		head = q.head.LoadAcquire()
	}
}

// Push adds a value, waiting while its slot is occupied.
// Panics if elem is the reserved value.
func (q *AtomicQueueIndirect) Push(elem uintptr) {
	if elem == q.nilValue {
		panic(ErrNilElement)
	}
	q.store(q.tail.AddAcqRel(1)-1, elem)
}

// Pop removes and returns a value, waiting while its slot is empty.
func (q *AtomicQueueIndirect) Pop() uintptr {
	return q.load(q.head.AddAcqRel(1) - 1)
}

func (q *AtomicQueueIndirect) store(ticket uint64, elem uintptr) {
	slot := &q.buffer[ticket&q.mask]
	if !slot.v.CompareAndSwapAcqRel(q.nilValue, elem) {
		q.wait.until(func() bool { return slot.v.CompareAndSwapAcqRel(q.nilValue, elem) })
	}
	q.wait.wake()
}

func (q *AtomicQueueIndirect) load(ticket uint64) uintptr {
	slot := &q.buffer[ticket&q.mask]
	var elem uintptr
	take := func() bool {
		elem = slot.v.LoadAcquire()
		return elem != q.nilValue && slot.v.CompareAndSwapAcqRel(elem, q.nilValue)
	}
	if !take() {
		q.wait.until(take)
	}
	q.wait.wake()
	return elem
}

// Len returns a snapshot of the number of queued values.
func (q *AtomicQueueIndirect) Len() int {
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	return clampLen(tail, head, q.capacity)
}

// Cap returns the queue capacity.
func (q *AtomicQueueIndirect) Cap() int {
	return int(q.capacity)
}

// NilValue returns the reserved empty marker.
func (q *AtomicQueueIndirect) NilValue() uintptr {
	return q.nilValue
}
