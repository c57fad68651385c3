package probe

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Kind tags which variant a URLState holds.
type Kind int

const (
	Accessible Kind = iota + 1
	BadStatus
	ConnectionFailed
	TimedOut
	Malformed
)

var kindNames = map[Kind]string{
	Accessible:       "Accessible",
	BadStatus:        "BadStatus",
	ConnectionFailed: "ConnectionFailed",
	TimedOut:         "TimedOut",
	Malformed:        "Malformed",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("probe: unknown kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for kk, n := range kindNames {
		if n == string(b) {
			*k = kk
			return nil
		}
	}
	return fmt.Errorf("probe: unknown kind %q", string(b))
}

// URLState is the outcome of a single probe. Exactly one Kind is set and
// only the payload fields belonging to it are meaningful:
//
//   - Accessible, ConnectionFailed, TimedOut: URL
//   - BadStatus: URL and Status
//   - Malformed: Path, the caller's input verbatim
type URLState struct {
	Kind   Kind
	URL    *url.URL
	Status int
	Path   string
}

func NewAccessible(u *url.URL) URLState { return URLState{Kind: Accessible, URL: u} }

func NewBadStatus(u *url.URL, status int) URLState {
	return URLState{Kind: BadStatus, URL: u, Status: status}
}

func NewConnectionFailed(u *url.URL) URLState { return URLState{Kind: ConnectionFailed, URL: u} }

func NewTimedOut(u *url.URL) URLState { return URLState{Kind: TimedOut, URL: u} }

func NewMalformed(path string) URLState { return URLState{Kind: Malformed, Path: path} }

// OK reports whether the probe found the URL reachable with status 200.
func (s URLState) OK() bool { return s.Kind == Accessible }

// String renders the stable display form, e.g. "BadStatus: http://h/x 404".
func (s URLState) String() string {
	switch s.Kind {
	case Accessible, ConnectionFailed, TimedOut:
		return s.Kind.String() + ": " + s.urlString()
	case BadStatus:
		return s.Kind.String() + ": " + s.urlString() + " " + strconv.Itoa(s.Status)
	case Malformed:
		return s.Kind.String() + ": " + s.Path
	}
	return s.Kind.String()
}

func (s URLState) urlString() string {
	if s.URL == nil {
		return ""
	}
	return s.URL.String()
}

type stateJSON struct {
	State  Kind    `json:"state"`
	URL    string  `json:"url,omitempty"`
	Status int     `json:"status,omitempty"`
	Path   *string `json:"path,omitempty"`
}

func (s URLState) MarshalJSON() ([]byte, error) {
	out := stateJSON{State: s.Kind}
	if s.Kind == Malformed {
		p := s.Path
		out.Path = &p
	} else {
		out.URL = s.urlString()
	}
	if s.Kind == BadStatus {
		out.Status = s.Status
	}
	return json.Marshal(out)
}

func (s *URLState) UnmarshalJSON(b []byte) error {
	var in stateJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*s = URLState{Kind: in.State, Status: in.Status}
	if in.Path != nil {
		s.Path = *in.Path
	}
	if in.URL != "" {
		u, err := url.Parse(in.URL)
		if err != nil {
			return fmt.Errorf("probe: decode url: %w", err)
		}
		s.URL = u
	}
	return nil
}
