package gateway

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxFanOut bounds concurrent per-item Slack calls (file enrichment,
// per-channel history probes).
const maxFanOut = 8

// settle runs fn over n items with bounded concurrency and collects each
// item's error instead of failing the batch. One item's failure never
// cancels its siblings; callers decide what a per-item failure means.
func settle(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	eg := new(errgroup.Group)
	eg.SetLimit(maxFanOut)
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = eg.Wait()
	return errs
}
