package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func drain[R any](p *Pool[R]) []R {
	var out []R
	for r := range p.Results() {
		out = append(out, r)
	}
	return out
}

func TestNewPool(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		in, want int
	}{
		{5, 5},
		{0, 1},
		{-1, 1},
	}
	for _, tt := range tests {
		if p := NewPool[int](ctx, tt.in); p.workers != tt.want {
			t.Errorf("NewPool(%d): expected %d workers, got %d", tt.in, tt.want, p.workers)
		}
	}
}

func TestPool_Execution(t *testing.T) {
	pool := NewPool[int](context.Background(), 2)
	pool.Start()

	count := 10
	go func() {
		for i := 0; i < count; i++ {
			pool.Submit(func(ctx context.Context) int { return i * i })
		}
		pool.Close()
	}()

	results := drain(pool)
	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}

	sum := 0
	for _, r := range results {
		sum += r
	}
	if sum != 285 {
		t.Errorf("expected sum of squares 285, got %d", sum)
	}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 4
	pool := NewPool[struct{}](context.Background(), workers)
	pool.Start()

	var current, peak, completed atomic.Int32
	totalTasks := 20

	go func() {
		for i := 0; i < totalTasks; i++ {
			pool.Submit(func(ctx context.Context) struct{} {
				n := current.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				current.Add(-1)
				completed.Add(1)
				return struct{}{}
			})
		}
		pool.Close()
	}()

	drain(pool)

	if completed.Load() != int32(totalTasks) {
		t.Errorf("expected %d completed tasks, got %d", totalTasks, completed.Load())
	}
	if peak.Load() > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", peak.Load(), workers)
	}
}

func TestPool_ErrorsAreResults(t *testing.T) {
	pool := NewPool[error](context.Background(), 2)
	pool.Start()

	pool.Submit(func(ctx context.Context) error { return errors.New("task error") })
	pool.Submit(func(ctx context.Context) error { return nil })
	pool.Close()

	results := drain(pool)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	failed := 0
	for _, err := range results {
		if err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 error, got %d", failed)
	}
}

func TestPool_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool[error](ctx, 1)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	<-started
	// fill the queue so the next Submit can only observe the cancellation
	pool.Submit(func(ctx context.Context) error { return nil })
	cancel()

	submitted := make(chan bool, 1)
	go func() {
		submitted <- pool.Submit(func(ctx context.Context) error { return nil })
	}()

	select {
	case ok := <-submitted:
		if ok {
			t.Error("Submit after cancel should report false")
		}
	case <-time.After(time.Second):
		t.Fatal("Submit after cancel blocked")
	}

	pool.Close()
	done := make(chan struct{})
	go func() {
		drain(pool)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Results not closed after parent cancel")
	}
}
