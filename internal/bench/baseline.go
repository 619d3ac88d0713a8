// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"fmt"
	"sync"

	"code.hybscloud.com/atomq"
	"code.hybscloud.com/spin"
	ring "github.com/randomizedcoder/go-lock-free-ring"
)

// mutexQueue is a lock-based ring used as the baseline for the lock-free
// flavors. Full and empty are retried with the lock released.
type mutexQueue struct {
	mu   sync.Mutex
	buf  []uint64
	mask uint64
	head uint64
	tail uint64
}

func newMutexQueue(capacity int) (*mutexQueue, error) {
	if capacity < 1 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: %d", atomq.ErrCapacity, capacity)
	}
	return &mutexQueue{buf: make([]uint64, capacity), mask: uint64(capacity - 1)}, nil
}

func (q *mutexQueue) tryPush(v uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.tail-q.head == uint64(len(q.buf)) {
		return false
	}
	q.buf[q.tail&q.mask] = v
	q.tail++
	return true
}

func (q *mutexQueue) tryPop() (uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.tail == q.head {
		return 0, false
	}
	v := q.buf[q.head&q.mask]
	q.head++
	return v, true
}

func (q *mutexQueue) Push(v uint64) {
	sw := spin.Wait{}
	for !q.tryPush(v) {
		sw.Once()
	}
}

func (q *mutexQueue) Pop() uint64 {
	sw := spin.Wait{}
	for {
		if v, ok := q.tryPop(); ok {
			return v
		}
		sw.Once()
	}
}

// chanQueue is a buffered channel; the runtime parks both sides.
type chanQueue chan uint64

func newChanQueue(capacity int) chanQueue { return make(chanQueue, capacity) }

func (c chanQueue) Push(v uint64) { c <- v }
func (c chanQueue) Pop() uint64   { return <-c }

// shardedRing wraps a single-shard go-lock-free-ring ShardedRing. The ring
// is multi-producer single-consumer; the registry limits it to one thread
// so that a single producer ID is used.
type shardedRing struct {
	r *ring.ShardedRing
}

func newShardedRing(capacity int) (*shardedRing, error) {
	r, err := ring.NewShardedRing(uint64(capacity), 1)
	if err != nil {
		return nil, err
	}
	return &shardedRing{r: r}, nil
}

func (s *shardedRing) Push(v uint64) {
	sw := spin.Wait{}
	for !s.r.Write(0, v) {
		sw.Once()
	}
}

func (s *shardedRing) Pop() uint64 {
	sw := spin.Wait{}
	for {
		if v, ok := s.r.TryRead(); ok {
			return v.(uint64)
		}
		sw.Once()
	}
}
