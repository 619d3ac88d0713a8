// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomq

// Options configures queue creation and algorithm selection.
type Options struct {
	// Producer/Consumer constraints (determines queue type)
	singleProducer bool
	singleConsumer bool

	// Slot synchronization scheme
	readyFlags bool

	wait WaitStrategy

	// Capacity (must be a power of 2)
	capacity int
}

// Builder creates queues with fluent configuration.
//
// Builder selects the algorithm from producer/consumer constraints and
// the slot scheme, and fixes the wait strategy. Capacity is validated when
// the queue is built.
//
// Example:
//
//	// SPSC queue (optimal for single producer/consumer)
//	q, err := atomq.BuildSPSC[Event](atomq.New(1024).SingleProducer().SingleConsumer())
//
//	// MPMC queue with turn tags (default, general purpose)
//	q, err := atomq.Build[Request](atomq.New(4096))
//
//	// MPMC queue with ready flags whose Push/Pop park when idle
//	q, err := atomq.Build[Request](atomq.New(4096).ReadyFlags().Blocking())
type Builder struct {
	opts Options
}

// New creates a queue builder with the given capacity.
//
// Capacity must be a power of 2. Invalid capacities are reported by the
// Build functions as an error wrapping ErrCapacity.
func New(capacity int) *Builder {
	return &Builder{opts: Options{capacity: capacity}}
}

// SingleProducer declares that only one goroutine will enqueue.
func (b *Builder) SingleProducer() *Builder {
	b.opts.singleProducer = true
	return b
}

// SingleConsumer declares that only one goroutine will dequeue.
func (b *Builder) SingleConsumer() *Builder {
	b.opts.singleConsumer = true
	return b
}

// ReadyFlags selects per-slot ready flags (AtomicQueue2) instead of turn
// tags (AtomicQueue) for multi-producer or multi-consumer queues.
//
// SPSC ignores ReadyFlags().
func (b *Builder) ReadyFlags() *Builder {
	b.opts.readyFlags = true
	return b
}

// Blocking selects WaitBlock: Push and Pop park after a short spin.
func (b *Builder) Blocking() *Builder {
	b.opts.wait = WaitBlock
	return b
}

// Wait sets the wait strategy explicitly.
func (b *Builder) Wait(s WaitStrategy) *Builder {
	b.opts.wait = s
	return b
}

// Build creates a Queue[T] with automatic algorithm selection.
//
// Algorithm selection:
//
//	SingleProducer + SingleConsumer → SPSC (Lamport ring buffer)
//	ReadyFlags                      → AtomicQueue2 (per-slot ready flags)
//	Otherwise                       → AtomicQueue (per-slot turn tags)
//
// For type-safe returns with concrete types, use:
//   - BuildSPSC[T](b) → *SPSC[T]
//   - BuildAtomicQueue[T](b) → *AtomicQueue[T]
//   - BuildAtomicQueue2[T](b) → *AtomicQueue2[T]
func Build[T any](b *Builder) (Queue[T], error) {
	switch {
	case b.opts.singleProducer && b.opts.singleConsumer:
		q, err := newSPSC[T](b.opts.capacity, b.opts.wait)
		if err != nil {
			return nil, err
		}
		return q, nil
	case b.opts.readyFlags:
		q, err := newAtomicQueue2[T](b.opts.capacity, b.opts.wait)
		if err != nil {
			return nil, err
		}
		return q, nil
	default:
		q, err := newAtomicQueue[T](b.opts.capacity, b.opts.wait)
		if err != nil {
			return nil, err
		}
		return q, nil
	}
}

// BuildSPSC creates an SPSC queue with compile-time type safety.
// Panics if builder is not configured with SingleProducer().SingleConsumer().
func BuildSPSC[T any](b *Builder) (*SPSC[T], error) {
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("atomq: BuildSPSC requires SingleProducer().SingleConsumer()")
	}
	return newSPSC[T](b.opts.capacity, b.opts.wait)
}

// BuildAtomicQueue creates a turn-tag queue with compile-time type safety.
// Panics if builder has ReadyFlags() set.
func BuildAtomicQueue[T any](b *Builder) (*AtomicQueue[T], error) {
	if b.opts.readyFlags {
		panic("atomq: BuildAtomicQueue conflicts with ReadyFlags()")
	}
	return newAtomicQueue[T](b.opts.capacity, b.opts.wait)
}

// BuildAtomicQueue2 creates a ready-flag queue with compile-time type safety.
// Panics if builder is not configured with ReadyFlags().
func BuildAtomicQueue2[T any](b *Builder) (*AtomicQueue2[T], error) {
	if !b.opts.readyFlags {
		panic("atomq: BuildAtomicQueue2 requires ReadyFlags()")
	}
	return newAtomicQueue2[T](b.opts.capacity, b.opts.wait)
}

// BuildIndirect creates an AtomicQueueIndirect for uintptr values with
// nilValue as the reserved empty marker.
func (b *Builder) BuildIndirect(nilValue uintptr) (*AtomicQueueIndirect, error) {
	return newAtomicQueueIndirect(b.opts.capacity, nilValue, b.opts.wait)
}
