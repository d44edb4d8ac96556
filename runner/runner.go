// Package runner provides a bounded worker pool for fan-out work such as
// concurrent research lookups.
package runner

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers is used when a pool is created with a non-positive size.
const DefaultWorkers = 4

// Pool limits how many tasks run at the same time.
type Pool struct {
	size int64
	sem  *semaphore.Weighted
}

// NewPool creates a pool that runs at most size tasks concurrently.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultWorkers
	}
	return &Pool{
		size: int64(size),
		sem:  semaphore.NewWeighted(int64(size)),
	}
}

// Size reports the pool's concurrency limit.
func (p *Pool) Size() int {
	return int(p.size)
}

// Task is a unit of work executed by the pool.
type Task[T any] struct {
	ID  string
	Run func(ctx context.Context) (T, error)
}

// Result represents the outcome of a task.
type Result[T any] struct {
	TaskID string
	Output T
	Error  error
}

// Run executes every task on the pool and returns results in task order.
// A task that panics yields an error result instead of crashing the process.
// Tasks still waiting for a slot when ctx is cancelled report ctx.Err().
func Run[T any](ctx context.Context, p *Pool, tasks []Task[T]) []Result[T] {
	if p == nil {
		p = NewPool(DefaultWorkers)
	}
	results := make([]Result[T], len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		results[i].TaskID = task.ID
		if err := p.sem.Acquire(ctx, 1); err != nil {
			results[i].Error = err
			continue
		}

		wg.Add(1)
		go func(index int, t Task[T]) {
			defer wg.Done()
			defer p.sem.Release(1)
			defer func() {
				if r := recover(); r != nil {
					results[index].Error = fmt.Errorf("panic in task %s: %v", t.ID, r)
				}
			}()

			if t.Run == nil {
				results[index].Error = fmt.Errorf("task %s has no run function", t.ID)
				return
			}
			out, err := t.Run(ctx)
			results[index].Output = out
			results[index].Error = err
		}(i, task)
	}

	wg.Wait()
	return results
}
