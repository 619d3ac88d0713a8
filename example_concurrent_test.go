// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// This file contains examples with concurrent producer/consumer goroutines.
// These trigger false positives with Go's race detector because lock-free
// queue synchronization uses atomic sequences that the detector cannot see.
// The examples are correct; they're excluded from race testing.

package atomq_test

import (
	"fmt"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/atomq"
)

// Example_workerPool demonstrates a worker pool on a blocking MPMC queue.
// Idle workers park instead of spinning.
func Example_workerPool() {
	type Job struct {
		ID    int
		Input int
	}

	jobs, _ := atomq.NewBlockingAtomicQueue[Job](16)
	results := make([]int, 6)
	var wg sync.WaitGroup
	var completed atomix.Int32

	// Start 3 workers; a negative ID stops a worker.
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job := jobs.Pop()
				if job.ID < 0 {
					return
				}
				results[job.ID] = job.Input * job.Input
				completed.Add(1)
			}
		}()
	}

	for i := range 6 {
		jobs.Push(Job{ID: i, Input: i + 1})
	}
	for range 3 {
		jobs.Push(Job{ID: -1})
	}
	wg.Wait()

	fmt.Println("completed:", completed.Load())
	fmt.Println("results:", results)

	// Output:
	// completed: 6
	// results: [1 4 9 16 25 36]
}

// Example_pipeline demonstrates two stages linked by SPSC queues.
func Example_pipeline() {
	stage1, _ := atomq.NewSPSC[int](8)
	stage2, _ := atomq.NewSPSC[string](8)

	go func() {
		for i := 1; i <= 4; i++ {
			stage1.Push(i)
		}
		stage1.Push(0)
	}()

	go func() {
		for {
			v := stage1.Pop()
			if v == 0 {
				stage2.Push("")
				return
			}
			stage2.Push(fmt.Sprintf("item-%d", v*v))
		}
	}()

	for {
		s := stage2.Pop()
		if s == "" {
			break
		}
		fmt.Println(s)
	}

	// Output:
	// item-1
	// item-4
	// item-9
	// item-16
}

// Example_fanIn demonstrates several producers feeding one consumer.
func Example_fanIn() {
	q, _ := atomq.Build[int](atomq.New(32).ReadyFlags().Blocking())

	var wg sync.WaitGroup
	for p := range 4 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 1; i <= 10; i++ {
				q.Push(id*100 + i)
			}
		}(p)
	}

	sum := 0
	for range 40 {
		sum += q.Pop()
	}
	wg.Wait()

	fmt.Println("sum:", sum)

	// Output:
	// sum: 6220
}
