package parallel

import (
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed is returned when work is submitted to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// ChunkSize splits n items across workers (overflow-safe).
func ChunkSize(n, workers int) int {
	if n <= 0 || workers <= 0 {
		return 1
	}
	size := int((int64(n) + int64(workers) - 1) / int64(workers))
	if size < 1 {
		size = 1
	}
	return size
}

// ForEachChunk runs fn over [0, n) split into contiguous ranges, one task per
// worker, and returns once every range is done. It is a barrier: no call to
// fn is still running when ForEachChunk returns. A panic inside fn is
// recovered and returned as an error.
func (wp *WorkerPool) ForEachChunk(n int, fn func(lo, hi int)) error {
	if n <= 0 {
		return nil
	}

	chunkSize := ChunkSize(n, wp.workers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for lo := 0; lo < n; lo += chunkSize {
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}

		wg.Add(1)
		start, end := lo, hi
		submitted := wp.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("chunk [%d,%d) panicked: %v", start, end, r)
					}
					mu.Unlock()
				}
			}()
			fn(start, end)
		})
		if !submitted {
			wg.Done()
			wg.Wait()
			return ErrPoolClosed
		}
	}

	wg.Wait()
	return firstErr
}
