package probe

import (
	"context"
	"io"
	"net/url"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/hamed0406/linkprobe/internal/htmlparse"
)

// LinkParser is the HTML collaborator used by FetchAllURLs.
type LinkParser interface {
	ParseHTML(src string) (*html.Node, error)
	GetURLs(root *html.Node) []string
}

// DefaultMaxBodyBytes caps how much of a page FetchURL keeps.
const DefaultMaxBodyBytes int64 = 10 << 20

// Fetcher downloads pages and lists the links in them. It is meant for URLs
// the caller already knows to be reachable.
type Fetcher struct {
	Client Getter
	Parser LinkParser
	Logger *zap.Logger
	// MaxBodyBytes truncates bodies beyond this size; <= 0 means
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:       NewHTTPClient(),
		Parser:       htmlparse.Parser{},
		Logger:       zap.NewNop(),
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

var defaultFetcher = NewFetcher()

// FetchURL returns the body of u using the default client.
func FetchURL(u *url.URL) (string, error) {
	return defaultFetcher.FetchURL(context.Background(), u)
}

// FetchAllURLs returns the URL attribute values found in the page at u
// using the default client and parser.
func FetchAllURLs(u *url.URL) ([]string, error) {
	return defaultFetcher.FetchAllURLs(context.Background(), u)
}

// FetchURL GETs u and returns its body as text, whatever the status code.
// Only the first MaxBodyBytes bytes are kept. A transport failure is
// returned as *TransportError. A failure while reading the body yields ""
// and a nil error.
func (f *Fetcher) FetchURL(ctx context.Context, u *url.URL) (string, error) {
	resp, err := f.client().Get(ctx, u)
	if err != nil {
		return "", err
	}
	if resp.Body == nil {
		return "", nil
	}

	limit := f.maxBodyBytes()
	var sb strings.Builder
	n, readErr := io.Copy(&sb, io.LimitReader(resp.Body, limit+1))
	closeErr := resp.Body.Close()
	if readErr != nil {
		f.logger().Warn("fetch_body_read_error",
			zap.String("url", u.String()),
			zap.Int("status", resp.StatusCode),
			zap.Error(multierr.Append(readErr, closeErr)),
		)
		return "", nil
	}
	if n > limit {
		f.logger().Warn("fetch_body_truncated",
			zap.String("url", u.String()),
			zap.Int64("limit", limit),
		)
		return sb.String()[:limit], nil
	}
	return sb.String(), nil
}

// FetchAllURLs returns the raw attribute strings in document order; they
// are not resolved against u.
func (f *Fetcher) FetchAllURLs(ctx context.Context, u *url.URL) ([]string, error) {
	src, err := f.FetchURL(ctx, u)
	if err != nil {
		return nil, err
	}
	root, err := f.parser().ParseHTML(src)
	if err != nil {
		return nil, err
	}
	return f.parser().GetURLs(root), nil
}

func (f *Fetcher) client() Getter {
	if f.Client == nil {
		return defaultClient
	}
	return f.Client
}

func (f *Fetcher) maxBodyBytes() int64 {
	if f.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return f.MaxBodyBytes
}

func (f *Fetcher) parser() LinkParser {
	if f.Parser == nil {
		return htmlparse.Parser{}
	}
	return f.Parser
}

func (f *Fetcher) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}
