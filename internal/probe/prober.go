package probe

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a probe from start to result when no other
// timeout is configured.
const DefaultTimeout = 10 * time.Second

// StatusProber is anything that can classify a (domain, path) pair.
type StatusProber interface {
	URLStatus(ctx context.Context, domain, path string) URLState
}

// Prober races one GET against a fixed timeout and reports whichever
// finishes first.
type Prober struct {
	Client  Getter
	Timeout time.Duration
	Logger  *zap.Logger
}

func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{
		Client:  NewHTTPClient(),
		Timeout: timeout,
		Logger:  zap.NewNop(),
	}
}

var defaultProber = NewProber(DefaultTimeout)

// URLStatus probes path resolved against http://<domain> with the default
// client and timeout.
func URLStatus(domain, path string) URLState {
	return defaultProber.URLStatus(context.Background(), domain, path)
}

// URLStatus always returns exactly one state and never blocks longer than
// the prober's timeout. Cancelling ctx early is reported as TimedOut.
func (p *Prober) URLStatus(ctx context.Context, domain, path string) URLState {
	log := p.logger()

	u, err := Resolve(domain, path)
	if err != nil {
		log.Debug("probe_malformed",
			zap.String("domain", domain),
			zap.String("path", path),
			zap.Error(err),
		)
		return NewMalformed(path)
	}

	start := time.Now()
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Room for both offers so the loser never blocks.
	results := make(chan URLState, 2)

	go func() {
		results <- p.request(reqCtx, u)
	}()
	timer := time.AfterFunc(p.timeout(), func() {
		results <- NewTimedOut(u)
	})
	defer timer.Stop()

	var st URLState
	select {
	case st = <-results:
	case <-ctx.Done():
		st = NewTimedOut(u)
	}

	log.Debug("probe_result",
		zap.String("url", u.String()),
		zap.Stringer("state", st.Kind),
		zap.Int("status", st.Status),
		zap.Float64("latency_ms", time.Since(start).Seconds()*1000),
	)
	return st
}

func (p *Prober) request(ctx context.Context, u *url.URL) URLState {
	resp, err := p.client().Get(ctx, u)
	if err != nil {
		// Cancelled by the timer or the caller.
		if ctx.Err() != nil {
			return NewTimedOut(u)
		}
		p.logger().Debug("probe_transport_error",
			zap.String("url", u.String()),
			zap.Error(err),
		)
		return NewConnectionFailed(u)
	}
	if resp.Body != nil {
		resp.Body.Close()
	}

	if resp.StatusCode == http.StatusOK {
		return NewAccessible(u)
	}
	return NewBadStatus(u, resp.StatusCode)
}

func (p *Prober) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

func (p *Prober) client() Getter {
	if p.Client == nil {
		return defaultClient
	}
	return p.Client
}

func (p *Prober) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

var defaultClient = NewHTTPClient()
