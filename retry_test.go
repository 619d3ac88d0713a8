// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomq_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"code.hybscloud.com/atomq"
)

// =============================================================================
// Context and Retry Helpers
// =============================================================================

func TestEnqueueContextSuccess(t *testing.T) {
	for _, c := range queueCases() {
		t.Run(c.name, func(t *testing.T) {
			q := mustQueue(t, c, 2)
			v := 7
			if err := atomq.EnqueueContext(context.Background(), q, &v); err != nil {
				t.Fatalf("EnqueueContext: %v", err)
			}
			got, err := atomq.DequeueContext[int](context.Background(), q)
			if err != nil {
				t.Fatalf("DequeueContext: %v", err)
			}
			if got != 7 {
				t.Fatalf("DequeueContext: got %d, want 7", got)
			}
		})
	}
}

// TestEnqueueContextCanceled verifies a canceled enqueue on a full queue
// returns ctx.Err() and leaves the queue unchanged.
func TestEnqueueContextCanceled(t *testing.T) {
	for _, c := range queueCases() {
		t.Run(c.name, func(t *testing.T) {
			q := mustQueue(t, c, 2)
			for i := range 2 {
				v := i + 1
				if err := q.Enqueue(&v); err != nil {
					t.Fatalf("Enqueue(%d): %v", i, err)
				}
			}

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			v := 99
			if err := atomq.EnqueueContext(ctx, q, &v); !errors.Is(err, context.Canceled) {
				t.Fatalf("EnqueueContext on full: got %v, want context.Canceled", err)
			}
			if q.Len() != 2 {
				t.Fatalf("Len after cancel: got %d, want 2", q.Len())
			}

			for i := range 2 {
				got, err := q.Dequeue()
				if err != nil || got != i+1 {
					t.Fatalf("Dequeue(%d): got (%d, %v), want (%d, nil)", i, got, err, i+1)
				}
			}
		})
	}
}

// TestDequeueContextDeadline verifies a dequeue on an empty queue gives up
// at the deadline and a later push is still delivered in order.
func TestDequeueContextDeadline(t *testing.T) {
	for _, c := range queueCases() {
		t.Run(c.name, func(t *testing.T) {
			q := mustQueue(t, c, 4)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
			defer cancel()
			start := time.Now()
			_, err := atomq.DequeueContext[int](ctx, q)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("DequeueContext on empty: got %v, want DeadlineExceeded", err)
			}
			if time.Since(start) < 5*time.Millisecond {
				t.Fatalf("DequeueContext returned before the deadline")
			}

			// No consumer ticket was left behind.
			q.Push(1)
			q.Push(2)
			if got := q.Pop(); got != 1 {
				t.Fatalf("Pop after deadline: got %d, want 1", got)
			}
			if got := q.Pop(); got != 2 {
				t.Fatalf("Pop after deadline: got %d, want 2", got)
			}
		})
	}
}

// TestDequeueContextWaits verifies DequeueContext returns an element pushed
// while it is retrying.
func TestDequeueContextWaits(t *testing.T) {
	if atomq.RaceEnabled {
		t.Skip("skip: slot data is ordered by atomix tags")
	}

	for _, c := range queueCases() {
		t.Run(c.name, func(t *testing.T) {
			q := mustQueue(t, c, 4)

			go func() {
				time.Sleep(2 * time.Millisecond)
				q.Push(42)
			}()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			got, err := atomq.DequeueContext[int](ctx, q)
			if err != nil {
				t.Fatalf("DequeueContext: %v", err)
			}
			if got != 42 {
				t.Fatalf("DequeueContext: got %d, want 42", got)
			}
		})
	}
}

func TestPushRetryPopRetry(t *testing.T) {
	if atomq.RaceEnabled {
		t.Skip("skip: slot data is ordered by atomix tags")
	}

	for _, c := range queueCases() {
		t.Run(c.name, func(t *testing.T) {
			q := mustQueue(t, c, 2)

			done := make(chan struct{})
			go func() {
				defer close(done)
				for i := range 100 {
					atomq.PushRetry[int](q, i)
				}
			}()

			for i := range 100 {
				if got := atomq.PopRetry[int](q); got != i {
					t.Fatalf("PopRetry(%d): got %d", i, got)
				}
			}
			<-done
		})
	}
}

// TestErrorClassification checks the iox-backed predicates against the
// package errors.
func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wouldBlock bool
		nonFailure bool
	}{
		{"nil", nil, false, true},
		{"ErrWouldBlock", atomq.ErrWouldBlock, true, true},
		{"ErrCapacity", atomq.ErrCapacity, false, false},
		{"ErrNilElement", atomq.ErrNilElement, false, false},
	}

	for tt := range slices.Values(tests) {
		t.Run(tt.name, func(t *testing.T) {
			if got := atomq.IsWouldBlock(tt.err); got != tt.wouldBlock {
				t.Errorf("IsWouldBlock(%v) = %v, want %v", tt.err, got, tt.wouldBlock)
			}
			if got := atomq.IsSemantic(tt.err); got != tt.wouldBlock {
				t.Errorf("IsSemantic(%v) = %v, want %v", tt.err, got, tt.wouldBlock)
			}
			if got := atomq.IsNonFailure(tt.err); got != tt.nonFailure {
				t.Errorf("IsNonFailure(%v) = %v, want %v", tt.err, got, tt.nonFailure)
			}
		})
	}
}
