package utils

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// MultiThread fans an operation on a range of integers out across the
// available CPUs.
//
// The range includes 'start' and excludes 'end'
//  - MultiThread assumes that end ≥ start
// 'f' is the function that should be run for each value in the range, and
// must be safe to call from multiple goroutines. 'opsPerThread' is the number
// of operations a worker claims at a time; per-sample calculations that are
// individually cheap (finite differencing, grid renders) should claim larger
// chunks.
//
// MultiThread runs f synchronously: it does not return until the whole range
// has been processed.
func MultiThread(start, end int, f func(int), opsPerThread int) {
	if end <= start {
		return
	}
	if opsPerThread < 1 {
		opsPerThread = 1
	}

	next := int64(start)
	workers := runtime.NumCPU()

	var wg sync.WaitGroup

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			for {
				i := int(atomic.AddInt64(&next, int64(opsPerThread))) - opsPerThread
				if i >= end {
					break
				}

				e := i + opsPerThread
				if e > end {
					e = end
				}

				for ; i < e; i++ {
					f(i)
				}
			}

			wg.Done()
		}()
	}

	wg.Wait()
}
