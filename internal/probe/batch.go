package probe

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// URLStatusAll probes every path against domain with at most limit probes
// in flight. results[i] belongs to paths[i].
func (p *Prober) URLStatusAll(ctx context.Context, domain string, paths []string, limit int) []URLState {
	return statusAll(ctx, p, domain, paths, limit)
}

func statusAll(ctx context.Context, sp StatusProber, domain string, paths []string, limit int) []URLState {
	results := make([]URLState, len(paths))
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = sp.URLStatus(ctx, domain, path)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
