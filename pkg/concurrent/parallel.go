package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Range is the half open index interval [From, To).
type Range struct {
	From, To int
}

// Chunks splits [0, n) into at most numChunks contiguous ranges of near equal size.
func Chunks(n, numChunks int) []Range {
	if n <= 0 {
		return nil
	}
	if numChunks < 1 {
		numChunks = 1
	}
	if numChunks > n {
		numChunks = n
	}

	ranges := make([]Range, 0, numChunks)
	size, rem := n/numChunks, n%numChunks
	from := 0
	for i := 0; i < numChunks; i++ {
		to := from + size
		if i < rem {
			to++
		}
		ranges = append(ranges, Range{From: from, To: to})
		from = to
	}
	return ranges
}

// ParallelFor calls fn once per chunk of [0, n) using up to numWorkers goroutines. the first error cancels
// the context passed to the remaining chunks and is returned.
func ParallelFor(ctx context.Context, n, numWorkers int, fn func(ctx context.Context, r Range) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(numWorkers, 1))

	for _, r := range Chunks(n, max(numWorkers, 1)) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, r)
		})
	}
	return g.Wait()
}
