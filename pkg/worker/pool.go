/*
Package worker provides a small worker pool for concurrent task
processing with rate limiting and context cancellation. Results are
returned in submission order regardless of completion order, so callers
that care about ordering (such as the archive content pre-reader) can
rely on it.

Basic usage:

	pool, err := worker.NewPool(worker.Config{Workers: 4, RateLimit: 100})
	if err != nil {
	    return err
	}

	if err := pool.Start(ctx); err != nil {
	    return err
	}

	pool.Submit(worker.Task{ID: 1, Execute: func(ctx context.Context) (any, error) {
	    return process(ctx)
	}})
	pool.Close()

	results, err := pool.Wait()

Submissions can also run concurrently with Wait: submit from one
goroutine that calls Close after the last Submit, and collect with Wait
from another.
*/
package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/time/rate"
)

// Task represents a unit of work to be processed by the pool.
type Task struct {
	// ID identifies the task in results and error messages.
	ID int

	// Execute is the function that performs the actual work.
	// It receives the pool's context for cancellation.
	Execute func(context.Context) (any, error)
}

// Result represents the output of a processed task.
type Result struct {
	// ID matches the task ID that produced this result.
	ID int

	// Data holds the actual result data.
	Data any

	// order is used internally to maintain submission order.
	order int
}

// Config holds the configuration for the worker pool.
type Config struct {
	// Workers is the number of concurrent workers.
	Workers int

	// RateLimit is the maximum number of task executions per second
	// (0 for unlimited).
	RateLimit int
}

// Pool defines the interface for a worker pool.
type Pool interface {
	// Start launches the workers.
	Start(context.Context) error

	// Submit queues a task for processing. It blocks when the queue
	// is full.
	Submit(Task) error

	// Close marks the end of submissions. It must be called from the
	// submitting goroutine after the last Submit, and before Wait can
	// return.
	Close()

	// Wait waits for all submitted tasks and returns their results in
	// submission order. The first task error aborts the pool and is
	// returned instead.
	Wait() ([]Result, error)

	// Stop cancels the pool without collecting results.
	Stop()
}

type pool struct {
	config  Config
	limiter *rate.Limiter

	tasks   chan orderedTask
	results chan Result

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	started  bool
	closed   bool
	next     int
	firstErr error
}

type orderedTask struct {
	Task
	order int
}

// NewPool creates a pool with the given configuration.
func NewPool(config Config) (Pool, error) {
	if config.Workers <= 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", config.Workers)
	}
	if config.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must be non-negative, got %d", config.RateLimit)
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:  config,
		limiter: limiter,
		tasks:   make(chan orderedTask, config.Workers*2),
		results: make(chan Result, config.Workers*2),
	}, nil
}

func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}
	p.started = true
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return nil
}

func (p *pool) Submit(task Task) error {
	p.mu.Lock()
	if !p.started || p.closed {
		p.mu.Unlock()
		return fmt.Errorf("pool not accepting tasks")
	}
	order := p.next
	p.next++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return fmt.Errorf("pool is shutting down: %w", p.ctx.Err())
	case p.tasks <- orderedTask{Task: task, order: order}:
		return nil
	}
}

func (p *pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.closed {
		return
	}
	p.closed = true
	close(p.tasks)
}

func (p *pool) Wait() ([]Result, error) {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil, fmt.Errorf("pool not started")
	}
	p.mu.Unlock()

	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	p.mu.Lock()
	err := p.firstErr
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].order < results[j].order
	})

	return results, nil
}

func (p *pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.cancel()
}

func (p *pool) worker() {
	defer p.wg.Done()

	for {
		var task orderedTask
		var ok bool
		select {
		case <-p.ctx.Done():
			return
		case task, ok = <-p.tasks:
			if !ok {
				return
			}
		}

		if p.limiter != nil {
			if err := p.limiter.Wait(p.ctx); err != nil {
				p.fail(fmt.Errorf("rate limiter: %w", err))
				return
			}
		}

		data, err := task.Execute(p.ctx)
		if err != nil {
			p.fail(fmt.Errorf("task %d: %w", task.ID, err))
			return
		}

		select {
		case <-p.ctx.Done():
			return
		case p.results <- Result{ID: task.ID, Data: data, order: task.order}:
		}
	}
}

// fail records the first task error and cancels the remaining work.
func (p *pool) fail(err error) {
	p.mu.Lock()
	if p.firstErr == nil {
		p.firstErr = err
	}
	p.mu.Unlock()
	p.cancel()
}
