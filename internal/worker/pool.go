// Package worker runs batches of analyses on a bounded pool.
package worker

import (
	"context"
	"sync"
)

// Task is one unit of work. It receives the pool context and must return
// promptly once that context is done.
type Task[R any] func(ctx context.Context) R

// Pool runs tasks on a fixed number of goroutines and streams their results.
// Cancelling the parent context stops workers after their current task;
// tasks still queued at that point are dropped without a result.
type Pool[R any] struct {
	workers int
	tasks   chan Task[R]
	results chan R
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPool creates a pool bound to ctx; fewer than one worker means one
func NewPool[R any](ctx context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[R]{
		workers: workers,
		tasks:   make(chan Task[R], workers),
		results: make(chan R, workers),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool[R]) Start() {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.run()
	}
}

func (p *Pool[R]) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			result := task(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a task. It returns false if the pool was cancelled first.
func (p *Pool[R]) Submit(task Task[R]) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.tasks <- task:
		return true
	}
}

// Results streams results in completion order until the pool drains
func (p *Pool[R]) Results() <-chan R {
	return p.results
}

// Close stops accepting tasks. Results is closed once every worker has exited.
// Close must be called exactly once, after the last Submit.
func (p *Pool[R]) Close() {
	close(p.tasks)
	go func() {
		p.wg.Wait()
		close(p.results)
		p.cancel()
	}()
}
