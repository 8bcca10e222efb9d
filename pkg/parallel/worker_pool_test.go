package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestWorkerPoolBasicOperations tests basic worker pool functionality
func TestWorkerPoolBasicOperations(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	executed := false
	if !pool.Submit(func() { executed = true }) {
		t.Error("Task submission failed")
	}

	pool.Close()

	if !executed {
		t.Error("Task was not executed")
	}
}

// TestWorkerPoolDefaultWorkers tests that a zero count selects the default
func TestWorkerPoolDefaultWorkers(t *testing.T) {
	pool, err := NewWorkerPool(0)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	defer pool.Close()

	if pool.Workers() != DefaultWorkers() {
		t.Errorf("Expected %d workers, got %d", DefaultWorkers(), pool.Workers())
	}
}

// TestWorkerPoolTooManyWorkers tests the worker limit
func TestWorkerPoolTooManyWorkers(t *testing.T) {
	if _, err := NewWorkerPool(MaxWorkers + 1); err == nil {
		t.Error("Expected error for worker count above MaxWorkers")
	}
}

// TestWorkerPoolSubmitAfterClose tests that a closed pool rejects tasks
func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool, _ := NewWorkerPool(2)
	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Expected Submit to fail after Close")
	}

	if err := pool.ForEachChunk(10, func(lo, hi int) {}); err != ErrPoolClosed {
		t.Errorf("Expected ErrPoolClosed, got %v", err)
	}
}

// TestWorkerPoolCloseRace validates that closing while submitting doesn't panic
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool, _ := NewWorkerPool(4)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pool.Submit(func() { time.Sleep(100 * time.Microsecond) })
				}
			}()
		}

		time.Sleep(200 * time.Microsecond)
		pool.Close()
		wg.Wait()
	}
}

// TestForEachChunkCoversRange tests that every index is visited exactly once
func TestForEachChunkCoversRange(t *testing.T) {
	pool, _ := NewWorkerPool(3)
	defer pool.Close()

	const n = 1000
	hits := make([]int32, n)

	err := pool.ForEachChunk(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})
	if err != nil {
		t.Fatalf("ForEachChunk failed: %v", err)
	}

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("Index %d visited %d times", i, h)
		}
	}
}

// TestForEachChunkIsBarrier tests that repeated rounds observe settled state
func TestForEachChunkIsBarrier(t *testing.T) {
	pool, _ := NewWorkerPool(4)
	defer pool.Close()

	prev := make([]int, 64)
	next := make([]int, 64)
	for round := 0; round < 10; round++ {
		err := pool.ForEachChunk(len(prev), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				next[i] = prev[(i+1)%len(prev)] + 1
			}
		})
		if err != nil {
			t.Fatalf("round %d failed: %v", round, err)
		}
		prev, next = next, prev
	}

	for i, v := range prev {
		if v != 10 {
			t.Fatalf("Index %d = %d, want 10", i, v)
		}
	}
}

// TestForEachChunkRecoversPanic tests that a panicking task surfaces as an error
func TestForEachChunkRecoversPanic(t *testing.T) {
	pool, _ := NewWorkerPool(2)
	defer pool.Close()

	err := pool.ForEachChunk(4, func(lo, hi int) {
		if lo == 0 {
			panic("boom")
		}
	})
	if err == nil {
		t.Error("Expected panic to be reported as error")
	}
}

func TestChunkSize(t *testing.T) {
	tests := []struct {
		n, workers, want int
	}{
		{10, 3, 4},
		{9, 3, 3},
		{1, 8, 1},
		{0, 4, 1},
		{5, 0, 1},
	}

	for _, tt := range tests {
		if got := ChunkSize(tt.n, tt.workers); got != tt.want {
			t.Errorf("ChunkSize(%d, %d) = %d, want %d", tt.n, tt.workers, got, tt.want)
		}
	}
}
