package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WorkerPool bounds concurrent work to a fixed number of goroutines,
// implementing "worker pool sized to available CPU cores". It is used for
// candidate generation (GenerateCandidates) and the per-field DP
// (SolveDP); neighbor evaluation in the local searches runs sequentially.
// Built on golang.org/x/sync/errgroup, the idiomatic Go
// substitute for a hand-rolled channel/WaitGroup pool: it already gives us
// context-based cancellation and first-error propagation, both of which
// §5 requires ("every solver accepts an optional deadline ... cancellation
// is checked at least once per outer iteration").
type WorkerPool struct {
	size int
}

// NewWorkerPool creates a pool with the given size, defaulting to
// runtime.GOMAXPROCS(0) when size <= 0. A size of 1 forces sequential,
// deterministic execution, a supported mode in its own right.
func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &WorkerPool{size: size}
}

// Run executes fn(ctx, i) for i in [0, n), bounded to the pool's size
// concurrent goroutines. It returns the first non-nil error and cancels
// the shared context for the remaining tasks. Run itself does not
// interrupt fn mid-call. With size 1 it stops launching tasks after the
// first error; with size > 1 every task is still launched and receives the
// cancelled context, so cancellation takes effect only where fn checks ctx.
func (p *WorkerPool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}
	if p.size <= 1 {
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
