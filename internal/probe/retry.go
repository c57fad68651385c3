package probe

import (
	"context"
	"time"
)

// Retrier re-probes while the outcome looks transient (ConnectionFailed or
// TimedOut). Accessible, BadStatus and Malformed are returned at once.
type Retrier struct {
	Inner    StatusProber
	Attempts int
	Backoff  time.Duration
}

func (r *Retrier) URLStatus(ctx context.Context, domain, path string) URLState {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last URLState
	for i := 0; i < attempts; i++ {
		last = r.Inner.URLStatus(ctx, domain, path)
		if !transient(last) {
			return last
		}
		if i < attempts-1 && !sleepCtx(ctx, r.Backoff) {
			return last
		}
	}
	return last
}

// URLStatusAll is the batch form of URLStatus.
func (r *Retrier) URLStatusAll(ctx context.Context, domain string, paths []string, limit int) []URLState {
	return statusAll(ctx, r, domain, paths, limit)
}

func transient(s URLState) bool {
	return s.Kind == ConnectionFailed || s.Kind == TimedOut
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
