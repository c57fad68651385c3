package probe

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

// fakeGetter answers every Get with a fixed status or error, optionally
// after a delay that respects ctx.
type fakeGetter struct {
	status int
	body   io.ReadCloser
	err    error
	delay  time.Duration
	calls  atomic.Int32
}

func (f *fakeGetter) Get(ctx context.Context, u *url.URL) (*Response, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, &TransportError{URL: u.String(), Err: ctx.Err()}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	body := f.body
	if body == nil {
		body = io.NopCloser(strings.NewReader(""))
	}
	return &Response{StatusCode: f.status, Body: body}, nil
}

// brokenBody fails after handing out part of its content.
type brokenBody struct {
	r      io.Reader
	closed bool
}

func (b *brokenBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err == io.EOF {
		return n, io.ErrUnexpectedEOF
	}
	return n, err
}

func (b *brokenBody) Close() error {
	b.closed = true
	return nil
}

func hostOf(s *httptest.Server) string {
	return strings.TrimPrefix(s.URL, "http://")
}
