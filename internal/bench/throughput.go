// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
)

// ErrChecksum reports that consumers did not receive every message exactly
// once.
var ErrChecksum = errors.New("bench: wrong checksum")

// Clock returns monotonic timestamps.
type Clock interface {
	Now() time.Duration
}

type monotonic struct{ base time.Time }

func (m monotonic) Now() time.Duration { return time.Since(m.base) }

// MonotonicClock returns a Clock reading the runtime monotonic clock.
func MonotonicClock() Clock { return monotonic{base: time.Now()} }

// ThroughputConfig describes one throughput measurement.
type ThroughputConfig struct {
	// Messages is the total number of messages, split evenly across
	// producers.
	Messages int
	// Threads is the number of producers and of consumers.
	Threads  int
	Capacity int
	Clock    Clock
}

// Throughput runs Threads producers and Threads consumers over one queue
// and returns messages per second.
//
// Each producer pushes 1..N followed by the stop marker N+1, where
// N = Messages/Threads. Each consumer sums what it pops until it sees a
// stop marker. The clock starts when the first producer starts and stops
// when the last consumer finishes. The sum over all consumers must equal
// Threads*N*(N+1)/2, otherwise ErrChecksum is returned.
func Throughput(f Factory, cfg ThroughputConfig) (float64, error) {
	if cfg.Threads < 1 || !f.Allows(cfg.Threads) {
		return 0, fmt.Errorf("bench: %s does not support %d threads", f.Name, cfg.Threads)
	}
	n := uint64(cfg.Messages / cfg.Threads)
	if n == 0 {
		return 0, fmt.Errorf("bench: %d messages for %d threads", cfg.Messages, cfg.Threads)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = MonotonicClock()
	}
	q, err := f.New(cfg.Capacity)
	if err != nil {
		return 0, err
	}

	stop := n + 1
	sums := make([]uint64, cfg.Threads)
	// t0 holds elapsed+1 so that zero means unset.
	var t0 atomix.Uint64
	var t1 time.Duration
	var remaining atomix.Int64
	remaining.Add(int64(cfg.Threads))

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range cfg.Threads {
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			t0.CompareAndSwapAcqRel(0, uint64(clock.Now())+1)
			for v := uint64(1); v <= stop; v++ {
				q.Push(v)
			}
		}()
		go func(id int) {
			defer wg.Done()
			<-start
			var sum uint64
			for {
				v := q.Pop()
				if v == stop {
					break
				}
				sum += v
			}
			now := clock.Now()
			sums[id] = sum
			if remaining.Add(-1) == 0 {
				t1 = now
			}
		}(i)
	}
	close(start)
	wg.Wait()

	var total uint64
	for _, s := range sums {
		total += s
	}
	if want := uint64(cfg.Threads) * n * (n + 1) / 2; total != want {
		return 0, fmt.Errorf("%w: %s, %d producers: got %d, want %d", ErrChecksum, f.Name, cfg.Threads, total, want)
	}

	elapsed := t1 - time.Duration(t0.LoadAcquire()-1)
	if elapsed <= 0 {
		elapsed = 1
	}
	return float64(n*uint64(cfg.Threads)) / elapsed.Seconds(), nil
}
