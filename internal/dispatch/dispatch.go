// Package dispatch runs independent work items across a bounded pool of
// workers and funnels completions through a single serialized sink.
package dispatch

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// Handler processes one work item to a result.
type Handler[I, R any] func(ctx context.Context, item I) (R, error)

// Sink receives each item's terminal outcome, in completion order, one call
// at a time. It is the safe place to touch shared aggregation state.
type Sink[I, R any] func(item I, result R, err error)

// Run executes every item exactly once across at most workers goroutines.
// A panicking or failing handler is recorded as that item's error and never
// aborts sibling items. Run returns once all items have completed, or early
// when ctx is cancelled (remaining items are not started).
func Run[I, R any](ctx context.Context, workers int, items []I, handler Handler[I, R], sink Sink[I, R]) error {
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex

	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			result, err := runOne(gctx, handler, item)

			mu.Lock()
			sink(item, result, err)
			mu.Unlock()

			return nil // per-item failures never abort the pool
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// runOne invokes the handler with panic containment.
func runOne[I, R any](ctx context.Context, handler Handler[I, R], item I) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("dispatch: handler panic: %v", r)
		}
	}()
	return handler(ctx, item)
}
