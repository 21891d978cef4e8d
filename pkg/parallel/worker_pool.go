// Package parallel runs CPU-bound work, such as filling a similarity matrix,
// on a fixed pool of goroutines.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/dd0wney/drugnet/pkg/logging"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // protects taskQueue from a close during send
	closed    bool         // protected by mu
	panics    atomic.Int64
	logger    logging.Logger
}

var (
	// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers.
	ErrTooManyWorkers = errors.New("worker count exceeds maximum")
	// ErrTaskPanicked is returned by ForEach when a task panicked.
	ErrTaskPanicked = errors.New("task panicked")
)

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// NewWorkerPool creates a pool with the given number of workers. Counts
// below one mean one worker.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}

	// the queue is sized 2x workers; keep that from overflowing
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
		logger:    logging.NewNopLogger(),
	}

	pool.start()
	return pool, nil
}

// SetLogger sets where recovered panics are reported.
func (wp *WorkerPool) SetLogger(logger logging.Logger) {
	if logger != nil {
		wp.logger = logger
	}
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.run(task)
	}
}

// run executes one task. A panic is counted and logged, and the worker
// carries on.
func (wp *WorkerPool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			wp.panics.Add(1)
			wp.logger.Error("worker panic recovered", logging.String("panic", fmt.Sprint(r)))
		}
	}()
	task()
}

// Submit queues a task. It returns false once the pool is closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.taskQueue <- task
	return true
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait is Close: it drains the queue and stops the workers.
func (wp *WorkerPool) Wait() {
	wp.Close()
}

// Panics counts the tasks that panicked so far.
func (wp *WorkerPool) Panics() int64 {
	return wp.panics.Load()
}

// ForEach calls fn(i) for every i in [0, n) on up to workers goroutines and
// waits for all of them. Indices not yet started when ctx is cancelled are
// skipped and ctx.Err() is returned.
func ForEach(ctx context.Context, n, workers int, fn func(i int)) error {
	if n <= 0 {
		return ctx.Err()
	}
	pool, err := NewWorkerPool(min(workers, n))
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		pool.Submit(func() {
			if ctx.Err() == nil {
				fn(i)
			}
		})
	}
	pool.Close()

	if err := ctx.Err(); err != nil {
		return err
	}
	if p := pool.Panics(); p > 0 {
		return fmt.Errorf("%w: %d of %d", ErrTaskPanicked, p, n)
	}
	return nil
}
