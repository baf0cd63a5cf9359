// Package parallel provides the worker-pool fan-out used by the spill-aware
// sort in storage (its recursive halves and its chunked in-memory sort);
// minimization sorts sequentially and does not use it. It lets CPU-bound
// kernels execute across worker threads instead of a single goroutine. It
// is a thin wrapper over golang.org/x/sync/errgroup so call sites read like
// the sequential version with a Go func added.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Run executes fns concurrently, bounded to GOMAXPROCS workers, and returns
// the first error encountered (if any). All fns still run to completion;
// errgroup cancels the shared context on first error but does not abort
// already-started goroutines.
func Run(fns ...func() error) error {
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, fn := range fns {
		fn := fn
		g.Go(fn)
	}
	return g.Wait()
}

// Chunks splits [0, n) into at most maxChunks contiguous ranges and calls f
// once per range concurrently, bounded to GOMAXPROCS workers.
func Chunks(n, maxChunks int, f func(lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	if maxChunks < 1 {
		maxChunks = 1
	}
	if maxChunks > n {
		maxChunks = n
	}
	size := (n + maxChunks - 1) / maxChunks

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		lo, hi := lo, hi
		g.Go(func() error { return f(lo, hi) })
	}
	return g.Wait()
}
