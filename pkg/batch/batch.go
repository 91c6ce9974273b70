// Package batch runs a function across the elements of a slice on a bounded
// pool of goroutines. It exists for fanning spatial updates out over many
// simulation instances, where per-element work is uniform and results must
// come back in input order.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every element of in on up to workers goroutines and
// returns the results in input order. A workers value of zero or less uses
// GOMAXPROCS. The first error cancels the shared context and is returned;
// results computed before the failure are discarded.
func Map[T, R any](ctx context.Context, workers int, in []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	if len(in) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize(workers))

	out := make([]R, len(in))
	for idx, val := range in {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(ctx, val)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ForEach applies fn to every element of in on up to workers goroutines and
// waits for all of them. A workers value of zero or less uses GOMAXPROCS.
// The first error cancels the shared context and is returned.
func ForEach[T any](ctx context.Context, workers int, in []T, fn func(context.Context, T) error) error {
	if len(in) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize(workers))

	for _, val := range in {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, val)
		})
	}
	return g.Wait()
}

func poolSize(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}
