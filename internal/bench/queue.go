// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"errors"
	"fmt"

	"code.hybscloud.com/atomq"
	"code.hybscloud.com/spin"
)

// ErrUnknownQueue is returned by Lookup for a name not in the registry.
var ErrUnknownQueue = errors.New("bench: unknown queue")

// Queue is the view the harness drives. Push waits until the element is
// accepted and Pop waits until one is available. Zero is never pushed.
type Queue interface {
	Push(v uint64)
	Pop() uint64
}

// Factory names a queue flavor and builds instances of it.
type Factory struct {
	Name string
	// MaxThreads bounds producers (and consumers); 0 means unbounded.
	MaxThreads int
	New        func(capacity int) (Queue, error)
}

// Allows reports whether the flavor can run with the given thread count.
func (f Factory) Allows(threads int) bool {
	return f.MaxThreads == 0 || threads <= f.MaxThreads
}

// Factories returns the registry in report order: atomq flavors first,
// then baselines.
func Factories() []Factory {
	return []Factory{
		{Name: "AtomicQueue", New: func(n int) (Queue, error) {
			q, err := atomq.NewAtomicQueue[uint64](n)
			if err != nil {
				return nil, err
			}
			return strict{q}, nil
		}},
		{Name: "OptimistAtomicQueue", New: func(n int) (Queue, error) {
			return checked(atomq.NewAtomicQueue[uint64](n))
		}},
		{Name: "BlockingAtomicQueue", New: func(n int) (Queue, error) {
			return checked(atomq.NewBlockingAtomicQueue[uint64](n))
		}},
		{Name: "AtomicQueue2", New: func(n int) (Queue, error) {
			q, err := atomq.NewAtomicQueue2[uint64](n)
			if err != nil {
				return nil, err
			}
			return strict{q}, nil
		}},
		{Name: "OptimistAtomicQueue2", New: func(n int) (Queue, error) {
			return checked(atomq.NewAtomicQueue2[uint64](n))
		}},
		{Name: "AtomicQueueIndirect", New: func(n int) (Queue, error) {
			q, err := atomq.NewAtomicQueueIndirect(n, 0)
			if err != nil {
				return nil, err
			}
			return strictIndirect{q}, nil
		}},
		{Name: "OptimistAtomicQueueIndirect", New: func(n int) (Queue, error) {
			q, err := atomq.NewAtomicQueueIndirect(n, 0)
			if err != nil {
				return nil, err
			}
			return indirect{q}, nil
		}},
		{Name: "SPSC", MaxThreads: 1, New: func(n int) (Queue, error) {
			return checked(atomq.NewSPSC[uint64](n))
		}},
		{Name: "mutex", New: func(n int) (Queue, error) {
			return checked(newMutexQueue(n))
		}},
		{Name: "channel", New: func(n int) (Queue, error) {
			return newChanQueue(n), nil
		}},
		{Name: "lockfree-ring::ShardedRing", MaxThreads: 1, New: func(n int) (Queue, error) {
			return checked(newShardedRing(n))
		}},
	}
}

// checked converts a constructor result, keeping a failed build a nil Queue.
func checked[Q Queue](q Q, err error) (Queue, error) {
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Lookup returns the registered factory with the given name.
func Lookup(name string) (Factory, error) {
	for _, f := range Factories() {
		if f.Name == name {
			return f, nil
		}
	}
	return Factory{}, fmt.Errorf("%w: %q", ErrUnknownQueue, name)
}

// Select returns the named factories in the given order, or the whole
// registry when names is empty.
func Select(names []string) ([]Factory, error) {
	if len(names) == 0 {
		return Factories(), nil
	}
	out := make([]Factory, 0, len(names))
	for _, name := range names {
		f, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// strict drives a queue through its fail-fast operations in a spin loop.
type strict struct {
	q atomq.Queue[uint64]
}

func (s strict) Push(v uint64) { atomq.PushRetry[uint64](s.q, v) }
func (s strict) Pop() uint64   { return atomq.PopRetry[uint64](s.q) }

// indirect adapts AtomicQueueIndirect to uint64 values.
type indirect struct {
	q *atomq.AtomicQueueIndirect
}

func (i indirect) Push(v uint64) { i.q.Push(uintptr(v)) }
func (i indirect) Pop() uint64   { return uint64(i.q.Pop()) }

type strictIndirect struct {
	q *atomq.AtomicQueueIndirect
}

func (s strictIndirect) Push(v uint64) {
	sw := spin.Wait{}
	for s.q.Enqueue(uintptr(v)) != nil {
		sw.Once()
	}
}

func (s strictIndirect) Pop() uint64 {
	sw := spin.Wait{}
	for {
		v, err := s.q.Dequeue()
		if err == nil {
			return uint64(v)
		}
		sw.Once()
	}
}
