// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomq

import (
	"context"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// EnqueueContext retries p.Enqueue with adaptive backoff until it succeeds
// or ctx is done.
//
// Each attempt is a strict Enqueue, so nothing is claimed until the element
// is stored. When ctx ends first, the queue is unchanged and ctx.Err() is
// returned.
func EnqueueContext[T any](ctx context.Context, p Producer[T], elem *T) error {
	backoff := iox.Backoff{}
	for {
		err := p.Enqueue(elem)
		if !IsWouldBlock(err) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		backoff.Wait()
	}
}

// DequeueContext retries c.Dequeue with adaptive backoff until it yields an
// element or ctx is done.
func DequeueContext[T any](ctx context.Context, c Consumer[T]) (T, error) {
	backoff := iox.Backoff{}
	for {
		elem, err := c.Dequeue()
		if !IsWouldBlock(err) {
			return elem, err
		}
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		backoff.Wait()
	}
}

// PushRetry retries the strict p.Enqueue until it succeeds.
//
// Unlike Push, a waiting PushRetry holds no ticket: producers that give up
// leave no claimed slot behind, at the cost of extra CAS traffic.
func PushRetry[T any](p Producer[T], elem T) {
	sw := spin.Wait{}
	for p.Enqueue(&elem) != nil {
		sw.Once()
	}
}

// PopRetry retries the strict c.Dequeue until it yields an element.
func PopRetry[T any](c Consumer[T]) T {
	sw := spin.Wait{}
	for {
		elem, err := c.Dequeue()
		if err == nil {
			return elem
		}
		sw.Once()
	}
}
