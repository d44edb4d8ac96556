package runner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPoolDefaultSize(t *testing.T) {
	if got := NewPool(0).Size(); got != DefaultWorkers {
		t.Errorf("expected default size %d, got %d", DefaultWorkers, got)
	}
	if got := NewPool(7).Size(); got != 7 {
		t.Errorf("expected size 7, got %d", got)
	}
}

func TestRunPreservesOrder(t *testing.T) {
	tasks := make([]Task[string], 0, 5)
	for i := 0; i < 5; i++ {
		i := i
		tasks = append(tasks, Task[string]{
			ID: fmt.Sprintf("task%d", i),
			Run: func(ctx context.Context) (string, error) {
				time.Sleep(time.Duration(5-i) * time.Millisecond)
				return fmt.Sprintf("out%d", i), nil
			},
		})
	}

	results := Run(context.Background(), NewPool(5), tasks)
	if len(results) != len(tasks) {
		t.Fatalf("expected %d results, got %d", len(tasks), len(results))
	}
	for i, r := range results {
		if r.TaskID != tasks[i].ID {
			t.Errorf("result %d: expected TaskID %s, got %s", i, tasks[i].ID, r.TaskID)
		}
		if r.Output != fmt.Sprintf("out%d", i) {
			t.Errorf("result %d: unexpected output %q", i, r.Output)
		}
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var active, peak int32
	tasks := make([]Task[int], 8)
	for i := range tasks {
		tasks[i] = Task[int]{
			ID: fmt.Sprintf("t%d", i),
			Run: func(ctx context.Context) (int, error) {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return 0, nil
			},
		}
	}

	Run(context.Background(), NewPool(2), tasks)
	if peak > 2 {
		t.Fatalf("expected at most 2 concurrent tasks, saw %d", peak)
	}
}

func TestRunRecoversPanics(t *testing.T) {
	tasks := []Task[string]{
		{ID: "ok", Run: func(ctx context.Context) (string, error) { return "fine", nil }},
		{ID: "boom", Run: func(ctx context.Context) (string, error) { panic("kaboom") }},
		{ID: "nil"},
	}
	results := Run(context.Background(), NewPool(2), tasks)
	if results[0].Error != nil || results[0].Output != "fine" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Error == nil {
		t.Error("expected error from panicking task")
	}
	if results[2].Error == nil {
		t.Error("expected error from task without run function")
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, NewPool(1), []Task[int]{
		{ID: "a", Run: func(ctx context.Context) (int, error) { return 1, nil }},
	})
	if !errors.Is(results[0].Error, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", results[0].Error)
	}
}
