package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/net/html"
)

func TestFetcher_FetchAllURLs(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><a href="/a"><img src="b.png"></body></html>`))
	}))
	defer s.Close()

	links, err := NewFetcher().FetchAllURLs(context.Background(), mustURL(t, s.URL+"/"))
	if err != nil {
		t.Fatalf("FetchAllURLs: %v", err)
	}
	if len(links) != 2 || links[0] != "/a" || links[1] != "b.png" {
		t.Fatalf("want [/a b.png], got %q", links)
	}
}

func TestFetcher_FetchURLReturnsBodyForAnyStatus(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer s.Close()

	body, err := NewFetcher().FetchURL(context.Background(), mustURL(t, s.URL+"/"))
	if err != nil {
		t.Fatalf("FetchURL: %v", err)
	}
	if strings.TrimSpace(body) != "gone" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestFetcher_TransportErrorIsReturned(t *testing.T) {
	f := &Fetcher{Client: &fakeGetter{err: &TransportError{URL: "http://nohost.invalid/", Err: errors.New("no such host")}}}

	_, err := f.FetchURL(context.Background(), mustURL(t, "http://nohost.invalid/"))
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("want *TransportError, got %v", err)
	}

	links, err := f.FetchAllURLs(context.Background(), mustURL(t, "http://nohost.invalid/"))
	if err == nil || links != nil {
		t.Fatalf("want error and no links, got %q, %v", links, err)
	}
}

func TestFetcher_BodyReadFailureYieldsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	body := &brokenBody{r: strings.NewReader(`<a href="/half`)}
	f := &Fetcher{
		Client: &fakeGetter{status: 200, body: body},
		Logger: zap.New(core),
	}

	got, err := f.FetchURL(context.Background(), mustURL(t, "http://h/"))
	if err != nil {
		t.Fatalf("read failure must not surface, got %v", err)
	}
	if got != "" {
		t.Fatalf("want empty body, got %q", got)
	}
	if !body.closed {
		t.Fatalf("body was not closed")
	}
	if logs.FilterMessage("fetch_body_read_error").Len() != 1 {
		t.Fatalf("want one warning about the read failure")
	}
}

func TestFetcher_BodyTruncatedAtLimit(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	page := strings.Repeat("0123456789abcdef", 4)
	f := &Fetcher{
		Client:       &fakeGetter{status: 200, body: io.NopCloser(strings.NewReader(page))},
		Logger:       zap.New(core),
		MaxBodyBytes: 16,
	}

	got, err := f.FetchURL(context.Background(), mustURL(t, "http://h/"))
	if err != nil {
		t.Fatalf("FetchURL: %v", err)
	}
	if got != page[:16] {
		t.Fatalf("want first 16 bytes, got %q", got)
	}
	if logs.FilterMessage("fetch_body_truncated").Len() != 1 {
		t.Fatalf("want one truncation warning")
	}

	// A body exactly at the limit is kept whole and not reported.
	f.Client = &fakeGetter{status: 200, body: io.NopCloser(strings.NewReader(page[:16]))}
	got, err = f.FetchURL(context.Background(), mustURL(t, "http://h/"))
	if err != nil || got != page[:16] {
		t.Fatalf("got %q, %v", got, err)
	}
	if logs.FilterMessage("fetch_body_truncated").Len() != 1 {
		t.Fatalf("body at the limit was reported as truncated")
	}
}

func TestFetcher_BodyReadFailureYieldsNoLinks(t *testing.T) {
	f := &Fetcher{Client: &fakeGetter{status: 200, body: &brokenBody{r: strings.NewReader(`<a href="/x">`)}}}

	links, err := f.FetchAllURLs(context.Background(), mustURL(t, "http://h/"))
	if err != nil {
		t.Fatalf("FetchAllURLs: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("want no links, got %q", links)
	}
}

type recordingParser struct {
	src string
}

func (p *recordingParser) ParseHTML(src string) (*html.Node, error) {
	p.src = src
	return &html.Node{Type: html.DocumentNode}, nil
}

func (p *recordingParser) GetURLs(root *html.Node) []string {
	return []string{"from-parser"}
}

func TestFetcher_DelegatesToParser(t *testing.T) {
	rp := &recordingParser{}
	f := &Fetcher{
		Client: &fakeGetter{status: 200, body: io.NopCloser(strings.NewReader("<p>hi</p>"))},
		Parser: rp,
	}

	links, err := f.FetchAllURLs(context.Background(), mustURL(t, "http://h/"))
	if err != nil {
		t.Fatalf("FetchAllURLs: %v", err)
	}
	if rp.src != "<p>hi</p>" {
		t.Fatalf("parser got %q", rp.src)
	}
	if len(links) != 1 || links[0] != "from-parser" {
		t.Fatalf("unexpected links %q", links)
	}
}
