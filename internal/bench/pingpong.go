// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PingPongConfig describes one latency measurement.
type PingPongConfig struct {
	// RoundTrips is the number of messages bounced per run.
	RoundTrips int
	Capacity   int
	// CPUs are the processors the sender and receiver are pinned to.
	// A negative entry leaves that side unpinned.
	CPUs  [2]int
	Clock Clock
}

// PingPong bounces RoundTrips messages between a sender and a receiver
// over two queues and returns the mean round-trip time in seconds.
//
// The sender pushes i on the first queue and waits for the reply on the
// second; the receiver echoes. Both sides time the whole exchange and the
// result is the average of the two divided by RoundTrips.
func PingPong(f Factory, cfg PingPongConfig) (float64, error) {
	if cfg.RoundTrips < 1 {
		return 0, fmt.Errorf("bench: %d round trips", cfg.RoundTrips)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = MonotonicClock()
	}
	q1, err := f.New(cfg.Capacity)
	if err != nil {
		return 0, err
	}
	q2, err := f.New(cfg.Capacity)
	if err != nil {
		return 0, err
	}

	n := uint64(cfg.RoundTrips)
	var times [2]float64
	var ready sync.WaitGroup
	ready.Add(2)
	var g errgroup.Group

	// Sender. A failed pin still runs the exchange so the peer terminates.
	g.Go(func() error {
		unpin, pinErr := pinThread(cfg.CPUs[0])
		defer unpin()
		ready.Done()
		ready.Wait()
		var bad, badGot uint64
		t0 := clock.Now()
		for i := uint64(1); i <= n; i++ {
			q1.Push(i)
			if got := q2.Pop(); got != i && bad == 0 {
				bad, badGot = i, got
			}
		}
		times[0] = (clock.Now() - t0).Seconds()
		if pinErr != nil {
			return pinErr
		}
		if bad != 0 {
			return fmt.Errorf("bench: %s: round trip %d returned %d", f.Name, bad, badGot)
		}
		return nil
	})

	// Receiver.
	g.Go(func() error {
		unpin, pinErr := pinThread(cfg.CPUs[1])
		defer unpin()
		ready.Done()
		ready.Wait()
		t0 := clock.Now()
		for range n {
			q2.Push(q1.Pop())
		}
		times[1] = (clock.Now() - t0).Seconds()
		return pinErr
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return (times[0] + times[1]) / 2 / float64(n), nil
}
