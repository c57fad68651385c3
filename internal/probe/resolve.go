package probe

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrMalformed matches any *MalformedError via errors.Is.
var ErrMalformed = errors.New("malformed url")

// MalformedError is returned by Resolve when path cannot be turned into an
// absolute URL. Path is the caller's input, untouched.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed url %q", e.Path)
	}
	return fmt.Sprintf("malformed url %q: %v", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

// DomainError reports a domain that does not form a valid http base URL.
type DomainError struct {
	Domain string
	Err    error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("invalid domain %q: %v", e.Domain, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// BaseURL returns http://<domain>, normalized.
func BaseURL(domain string) (*url.URL, error) {
	if domain == "" || strings.ContainsFunc(domain, isSpaceOrCtl) || strings.ContainsAny(domain, "/?#@") {
		return nil, &DomainError{Domain: domain, Err: errors.New("not a bare host")}
	}
	u, err := url.Parse("http://" + domain)
	if err != nil {
		return nil, &DomainError{Domain: domain, Err: err}
	}
	if u.Hostname() == "" {
		return nil, &DomainError{Domain: domain, Err: errors.New("empty host")}
	}
	return normalize(u), nil
}

// ValidateDomain checks that domain can be used as a probe base.
func ValidateDomain(domain string) error {
	_, err := BaseURL(domain)
	return err
}

// Resolve parses path relative to http://<domain>. Absolute URLs in path
// replace the base entirely. Whitespace or control characters anywhere in
// path, including between other characters, make it malformed; they are
// never percent-encoded.
func Resolve(domain, path string) (*url.URL, error) {
	base, err := BaseURL(domain)
	if err != nil {
		return nil, err
	}
	if strings.ContainsFunc(path, isSpaceOrCtl) {
		return nil, &MalformedError{Path: path, Err: errors.New("contains whitespace or control characters")}
	}
	u, err := base.Parse(path)
	if err != nil {
		return nil, &MalformedError{Path: path, Err: err}
	}
	if isWebScheme(u.Scheme) && (u.Host == "" || u.Hostname() == "") {
		return nil, &MalformedError{Path: path, Err: errors.New("missing host")}
	}
	if isWebScheme(u.Scheme) && !validPort(u.Port()) {
		return nil, &MalformedError{Path: path, Err: fmt.Errorf("invalid port %q", u.Port())}
	}
	return normalize(u), nil
}

func normalize(u *url.URL) *url.URL {
	n := *u
	n.Host = strings.ToLower(n.Host)
	switch port := n.Port(); {
	case n.Scheme == "http" && port == "80", n.Scheme == "https" && port == "443":
		n.Host = strings.TrimSuffix(n.Host, ":"+port)
	}
	if n.Opaque == "" && n.Host != "" && n.Path == "" {
		n.Path = "/"
		n.RawPath = ""
	}
	return &n
}

func isWebScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

func validPort(p string) bool {
	if p == "" {
		return true
	}
	n, err := strconv.Atoi(p)
	return err == nil && n > 0 && n <= 65535
}

func isSpaceOrCtl(r rune) bool {
	return r <= ' ' || r == 0x7f
}
