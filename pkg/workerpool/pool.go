// Package workerpool provides a bounded goroutine pool with backpressure.
//
// orderdesk uses it to deliver audit entries off the request path. When all
// workers are busy and the queue is full, Submit returns ErrPoolFull at once
// and the caller decides whether to drop or block.
//
//	pool := workerpool.New(4, workerpool.WithQueue(256))
//	defer pool.Shutdown()
//
//	if err := pool.Submit(task); errors.Is(err, workerpool.ErrPoolFull) {
//	    // drop
//	}
package workerpool

import (
	"errors"
	"sync"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// PanicHandler receives the value recovered from a panicking task.
type PanicHandler func(recovered any)

// Option configures a Pool.
type Option func(*options)

type options struct {
	queue   int
	onPanic PanicHandler
}

// WithQueue sets the task buffer size. The default is twice the worker count.
func WithQueue(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queue = n
		}
	}
}

// WithPanicHandler is called (on the worker goroutine) for every recovered panic.
func WithPanicHandler(fn PanicHandler) Option {
	return func(o *options) { o.onPanic = fn }
}

// Pool is a bounded goroutine pool.
type Pool struct {
	mu      sync.RWMutex
	closed  bool
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	onPanic PanicHandler
}

// New creates a Pool with the given number of workers (minimum 1).
func New(size int, opts ...Option) *Pool {
	if size <= 0 {
		size = 1
	}

	o := options{queue: size * 2}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool{
		tasks:   make(chan func(), o.queue),
		onPanic: o.onPanic,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the task is queued. Returns ErrPoolClosed if the
// pool has been shut down.
func (p *Pool) SubmitWait(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	p.tasks <- task
	return nil
}

// Pending is the number of queued tasks not yet picked up by a worker.
func (p *Pool) Pending() int {
	return len(p.tasks)
}

// Shutdown stops accepting tasks, runs everything already queued and waits
// for the workers to exit. Safe to call multiple times.
func (p *Pool) Shutdown() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.safeRun(task)
	}
}

func (p *Pool) safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(r)
		}
	}()
	task()
}
