package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestHTTPClient_ReturnsAnyStatus(t *testing.T) {
	for _, code := range []int{200, 204, 301, 404, 500} {
		s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("want GET, got %s", r.Method)
			}
			// 301 carries no Location, so the client cannot follow it
			w.WriteHeader(code)
			w.Write([]byte("body"))
		}))

		u, _ := url.Parse(s.URL + "/p")
		resp, err := NewHTTPClient().Get(context.Background(), u)
		if err != nil {
			s.Close()
			t.Fatalf("status %d: unexpected error %v", code, err)
		}
		if resp.StatusCode != code {
			t.Fatalf("want status %d, got %d", code, resp.StatusCode)
		}
		if _, err := io.ReadAll(resp.Body); err != nil {
			t.Fatalf("read body: %v", err)
		}
		resp.Body.Close()
		s.Close()
	}
}

func TestHTTPClient_TransportErrorOnRefusedConnection(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	u, _ := url.Parse(s.URL + "/")
	s.Close()

	_, err := NewHTTPClient().Get(context.Background(), u)
	if err == nil {
		t.Fatalf("want transport error, got nil")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("want *TransportError, got %T", err)
	}
	if te.URL != u.String() {
		t.Fatalf("want URL %q in error, got %q", u.String(), te.URL)
	}
}

func TestHTTPClient_NoCookieJar(t *testing.T) {
	c := NewHTTPClient()
	if c.Client.Jar != nil {
		t.Fatalf("client must not share cookies between probes")
	}
	if c.Client.Timeout != 0 {
		t.Fatalf("client must not carry its own timeout, got %v", c.Client.Timeout)
	}
}
