package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Response is what a Getter hands back once a status line was received.
// Callers must close Body.
type Response struct {
	StatusCode int
	Body       io.ReadCloser
}

// Getter performs a single HTTP GET. Any response that reaches the status
// line is a success, whatever its code. Getters apply no timeout of their
// own beyond what ctx carries.
type Getter interface {
	Get(ctx context.Context, u *url.URL) (*Response, error)
}

// TransportError is a failure before any status was received: DNS, connect,
// TLS, protocol errors and premature closes.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("get %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type HTTPClient struct {
	Client *http.Client
}

// NewHTTPClient returns a Getter on a pooled transport. The client has no
// Timeout and no cookie jar, so nothing leaks from one probe to the next.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		Client: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
	}
}

func (h *HTTPClient) Get(ctx context.Context, u *url.URL) (*Response, error) {
	target := u.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	return &Response{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}
