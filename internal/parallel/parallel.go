// Package parallel provides order-preserving concurrent map utilities.
package parallel

import (
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// Sequential disables concurrency when passed as maxWorkers.
const Sequential = 1

// DefaultWorkers returns the worker count used when maxWorkers <= 0.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// Map calls fn for every index in [0, n) and returns the results in index
// order. Results are assigned by index, so the output never depends on
// goroutine scheduling. If maxWorkers is <= 0, defaults to NumCPU; a value
// of 1 runs fn inline on the calling goroutine.
func Map[T any](n, maxWorkers int, fn func(i int) T) []T {
	if n <= 0 {
		return nil
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultWorkers()
	}

	results := make([]T, n)
	if maxWorkers == Sequential || n == 1 {
		for i := 0; i < n; i++ {
			results[i] = fn(i)
		}
		return results
	}

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i := 0; i < n; i++ {
		p.Go(func() {
			results[i] = fn(i)
		})
	}
	p.Wait()

	return results
}
