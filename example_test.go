// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomq_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/atomq"
)

// ExampleNewAtomicQueue demonstrates the strict operations on an MPMC queue.
func ExampleNewAtomicQueue() {
	q, err := atomq.NewAtomicQueue[int](4)
	if err != nil {
		panic(err)
	}

	for i := 1; i <= 3; i++ {
		v := i * 10
		q.Enqueue(&v)
	}

	for range 3 {
		v, _ := q.Dequeue()
		fmt.Println(v)
	}

	// Output:
	// 10
	// 20
	// 30
}

// ExampleNewSPSC demonstrates the waiting operations on an SPSC queue.
func ExampleNewSPSC() {
	q, err := atomq.NewSPSC[string](8)
	if err != nil {
		panic(err)
	}

	q.Push("hello")
	q.Push("world")
	fmt.Println(q.Pop(), q.Pop())

	// Output:
	// hello world
}

// ExampleBuild demonstrates the builder API for algorithm selection.
func ExampleBuild() {
	spsc, _ := atomq.Build[int](atomq.New(64).SingleProducer().SingleConsumer())
	turns, _ := atomq.Build[int](atomq.New(64))
	flags, _ := atomq.Build[int](atomq.New(64).ReadyFlags())
	blocking, _ := atomq.Build[int](atomq.New(64).Blocking())

	fmt.Printf("%T %d\n", spsc, spsc.Cap())
	fmt.Printf("%T %d\n", turns, turns.Cap())
	fmt.Printf("%T %d\n", flags, flags.Cap())
	fmt.Printf("%T %d\n", blocking, blocking.Cap())

	// Output:
	// *atomq.SPSC[int] 64
	// *atomq.AtomicQueue[int] 64
	// *atomq.AtomicQueue2[int] 64
	// *atomq.AtomicQueue[int] 64
}

// ExampleNew_invalidCapacity demonstrates the capacity check.
func ExampleNew_invalidCapacity() {
	_, err := atomq.Build[int](atomq.New(1000))
	fmt.Println(errors.Is(err, atomq.ErrCapacity))
	fmt.Println(err)

	// Output:
	// true
	// atomq: capacity must be a positive power of 2: 1000
}

// ExampleIsWouldBlock demonstrates backpressure handling.
func ExampleIsWouldBlock() {
	q, _ := atomq.NewAtomicQueue2[int](2)

	one, two, three := 1, 2, 3
	q.Enqueue(&one)
	q.Enqueue(&two)

	if err := q.Enqueue(&three); atomq.IsWouldBlock(err) {
		fmt.Println("Queue full - applying backpressure")
	}

	q.Dequeue()
	q.Dequeue()

	if _, err := q.Dequeue(); atomq.IsWouldBlock(err) {
		fmt.Println("Queue empty - no data available")
	}

	// Output:
	// Queue full - applying backpressure
	// Queue empty - no data available
}

// ExampleEnqueueContext demonstrates a bounded wait on a full queue.
func ExampleEnqueueContext() {
	q, _ := atomq.NewAtomicQueue[int](1)
	first := 1
	q.Enqueue(&first)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	second := 2
	err := atomq.EnqueueContext(ctx, q, &second)
	fmt.Println(err)
	fmt.Println("len:", q.Len())

	// Output:
	// context deadline exceeded
	// len: 1
}

// ExampleNewAtomicQueueIndirect demonstrates passing pool indices with a
// reserved empty value.
func ExampleNewAtomicQueueIndirect() {
	pool := make([][]byte, 4)
	for i := range pool {
		pool[i] = make([]byte, 512)
	}

	// Index 0 is reserved, so pool slot i travels as i+1.
	free, _ := atomq.NewAtomicQueueIndirect(8, 0)
	for i := range len(pool) {
		free.Push(uintptr(i + 1))
	}

	for range 2 {
		idx := free.Pop() - 1
		fmt.Printf("Got buffer %d with len %d\n", idx, len(pool[idx]))
	}

	if err := free.Enqueue(0); errors.Is(err, atomq.ErrNilElement) {
		fmt.Println("0 is the empty marker")
	}

	// Output:
	// Got buffer 0 with len 512
	// Got buffer 1 with len 512
	// 0 is the empty marker
}

// Example_backpressure demonstrates strict fail-fast semantics.
func Example_backpressure() {
	q, _ := atomq.NewSPSC[int](4)

	filled := 0
	for i := 1; i <= 10; i++ {
		v := i
		err := q.Enqueue(&v)
		if err == nil {
			filled++
		} else if atomq.IsWouldBlock(err) {
			fmt.Printf("Backpressure at item %d (queue full)\n", i)
			break
		}
	}
	fmt.Printf("Filled %d items\n", filled)

	for range 2 {
		v, _ := q.Dequeue()
		fmt.Printf("Drained: %d\n", v)
	}

	v := 100
	if q.Enqueue(&v) == nil {
		fmt.Println("Enqueued 100 after draining")
	}

	// Output:
	// Backpressure at item 5 (queue full)
	// Filled 4 items
	// Drained: 1
	// Drained: 2
	// Enqueued 100 after draining
}
