// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomq

import (
	"fmt"
	"unsafe"
)

// Queue is the combined producer-consumer interface for a bounded FIFO queue.
//
// Every queue offers two families of operations:
//
//   - Enqueue/Dequeue are strict and non-blocking. They verify that the
//     operation can complete before claiming a slot and return
//     ErrWouldBlock otherwise, leaving the queue untouched.
//   - Push/Pop are optimistic. They claim a ticket unconditionally and wait
//     on the slot until it is their turn, using the queue's WaitStrategy.
//
// Len is a best-effort snapshot. Under concurrent use it may be stale by
// the time it returns.
//
// Elements leave in ticket order for AtomicQueue and SPSC. AtomicQueue2
// can hand a slot to a later-lap ticket before an earlier one that was
// preempted, so its order is FIFO except across such a swap.
//
// Example:
//
//	q, err := atomq.NewAtomicQueue[int](1024)
//	if err != nil {
//	    return err
//	}
//
//	q.Push(42)         // waits while full
//	v := q.Pop()       // waits while empty
//
//	x := 7
//	if err := q.Enqueue(&x); atomq.IsWouldBlock(err) {
//	    // full right now
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Cap() int
	Len() int
}

// Producer is the interface for enqueueing elements.
//
// Thread safety depends on queue type:
//   - SPSC: single producer only
//   - AtomicQueue, AtomicQueue2: multiple producers safe
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking).
	// The element is copied into the queue's internal buffer.
	// Returns nil on success, ErrWouldBlock if the queue is full.
	Enqueue(elem *T) error

	// Push adds an element to the queue, waiting while it is full.
	Push(elem T)
}

// Consumer is the interface for dequeueing elements.
//
// The element is returned by value. The slot is cleared to allow garbage
// collection of referenced objects.
type Consumer[T any] interface {
	// Dequeue removes and returns an element from the queue (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)

	// Pop removes and returns an element, waiting while the queue is empty.
	Pop() T
}

// QueueIndirect is the combined interface for uintptr queues.
//
// Indirect queues pass indices or handles instead of full objects and store
// them directly in atomic slots. One value is reserved to mark empty slots:
// Enqueue returns ErrNilElement for it, and Push panics with ErrNilElement.
// As with AtomicQueue2, a later-lap ticket can take a slot before a
// preempted earlier one.
type QueueIndirect interface {
	Enqueue(elem uintptr) error
	Dequeue() (uintptr, error)
	Push(elem uintptr)
	Pop() uintptr
	Cap() int
	Len() int
}

// checkCapacity validates a requested capacity.
// Capacity must be a power of 2 and at least 1.
func checkCapacity(capacity int) (uint64, error) {
	if capacity < 1 || capacity&(capacity-1) != 0 {
		return 0, fmt.Errorf("%w: %d", ErrCapacity, capacity)
	}
	return uint64(capacity), nil
}

// clampLen converts a raw tail-head distance into a length in [0, n].
func clampLen(tail, head, n uint64) int {
	d := int64(tail - head)
	if d < 0 {
		return 0
	}
	if uint64(d) > n {
		return int(n)
	}
	return int(d)
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte

// padPtr is padding to fill cache line after pointer-sized field.
type padPtr [64 - ptrSize]byte
