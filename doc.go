// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package atomq provides fixed-capacity lock-free FIFO queues.
//
// The queues are ring buffers of n slots (n a power of 2) driven by two
// monotonic cursors: tail hands out producer tickets and head hands out
// consumer tickets. Ticket k maps to slot k&(n-1) on lap k/n. Each slot
// carries a synchronization tag that hands it from exactly one producer to
// exactly one consumer per lap, so no locks are taken.
//
// Variants:
//
//   - AtomicQueue: MPMC, per-slot turn tags (2*lap writable, 2*lap+1 readable)
//   - AtomicQueue2: MPMC, per-slot ready flags (empty/storing/stored/loading)
//   - AtomicQueueIndirect: MPMC, uintptr values stored in atomic slots with
//     a reserved empty value
//   - SPSC: single producer, single consumer Lamport ring (no atomic RMW)
//
// # Quick Start
//
//	q, err := atomq.NewAtomicQueue[Event](1024)
//	q, err := atomq.NewSPSC[Event](1024)
//
// Builder API selects the algorithm from constraints:
//
//	q, err := atomq.Build[Event](atomq.New(1024).SingleProducer().SingleConsumer()) // → SPSC
//	q, err := atomq.Build[Event](atomq.New(1024))                                   // → AtomicQueue
//	q, err := atomq.Build[Event](atomq.New(1024).ReadyFlags())                      // → AtomicQueue2
//	q, err := atomq.Build[Event](atomq.New(1024).Blocking())                        // parks when idle
//
// A capacity that is not a power of 2 fails construction with an error
// wrapping ErrCapacity:
//
//	if _, err := atomq.NewAtomicQueue[int](1000); errors.Is(err, atomq.ErrCapacity) {
//	    // use 1024
//	}
//
// # Strict and Optimistic Operations
//
// Every queue exposes both families:
//
//	// Strict, non-blocking: fail fast on full or empty
//	if err := q.Enqueue(&ev); atomq.IsWouldBlock(err) {
//	    // full - queue unchanged
//	}
//	ev, err := q.Dequeue()
//
//	// Optimistic: one Fetch-And-Add, then wait on the slot
//	q.Push(ev)
//	ev = q.Pop()
//
// Enqueue and Dequeue claim a ticket only after checking that the
// operation can complete, so a failed attempt leaves no trace. Push and
// Pop skip that check and let the slot tag enforce backpressure; this costs
// fewer atomic operations and scales better, but a goroutine that called
// Push or Pop is committed to its ticket.
//
// Do not use Push/Pop and a bounded give-up policy together. For deadlines
// use EnqueueContext and DequeueContext, which retry the strict operations:
//
//	ctx, cancel := context.WithTimeout(ctx, time.Millisecond)
//	defer cancel()
//	if err := atomq.EnqueueContext(ctx, q, &ev); err != nil {
//	    // ctx expired, nothing was enqueued
//	}
//
// # Wait Strategies
//
// The strategy used by Push and Pop is fixed at construction:
//
//   - WaitSpin: adaptive pause/yield loop. Best latency when every
//     producer and consumer has its own core.
//   - WaitBlock: spins briefly, then parks on a condition variable until a
//     peer publishes. Publishers wake sleepers only when there are any.
//
// # Ordering
//
// For AtomicQueue and SPSC, ticket claim order is the global FIFO order.
// AtomicQueue2 and AtomicQueueIndirect carry no lap number in a slot, so a
// goroutine preempted between claiming a ticket and acquiring its slot can
// be overtaken by a claimant from a later lap on the same slot. Their order
// is then FIFO except across such a swap; elements are never lost or
// duplicated. Publication of a slot happens before the matching consumer
// reads it.
//
// Len is a best-effort snapshot and may be stale under concurrency.
//
// # Race Detection
//
// The race detector does not observe the ordering carried by atomix
// operations on slot tags, and reports the adjacent plain slot accesses as
// races. Concurrent tests of the generic queues are skipped when
// RaceEnabled is set.
package atomq
