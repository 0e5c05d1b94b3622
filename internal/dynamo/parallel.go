package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFor runs fn for every index in [0, n) using at most limit
// goroutines (GOMAXPROCS when limit <= 0). It stops scheduling new work after
// the first error and returns that error. Each call must only touch data owned
// by its index; runs never share a System, Integrator or State.
func ParallelFor(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			return fn(ctx, idx)
		})
	}

	return g.Wait()
}
