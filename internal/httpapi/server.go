package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/linkprobe/internal/probe"
)

// Prober is satisfied by *probe.Prober and *probe.Retrier.
type Prober interface {
	URLStatus(ctx context.Context, domain, path string) probe.URLState
	URLStatusAll(ctx context.Context, domain string, paths []string, limit int) []probe.URLState
}

type LinkFetcher interface {
	FetchAllURLs(ctx context.Context, u *url.URL) ([]string, error)
}

type Server struct {
	Logger  *zap.Logger
	Prober  Prober
	Fetcher LinkFetcher
	// DNS explains ConnectionFailed results; nil skips the lookup.
	DNS func(ctx context.Context, host string) probe.DNSStatus

	AllowedOrigins      []string
	MaxConcurrentProbes int
	MaxBatchSize        int
}

func NewServer(l *zap.Logger, p Prober, f LinkFetcher) *Server {
	return &Server{
		Logger:              l,
		Prober:              p,
		Fetcher:             f,
		DNS:                 probe.Diagnose,
		MaxConcurrentProbes: 8,
		MaxBatchSize:        100,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	if len(s.AllowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/probe", s.handleProbe)
		r.Post("/probe/batch", s.handleBatch)
		r.Get("/links", s.handleLinks)
	})

	return r
}

type probeResponse struct {
	Result  probe.URLState `json:"result"`
	Display string         `json:"display"`
	DNS     probe.DNSClass `json:"dns,omitempty"`
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	domain := strings.TrimSpace(q.Get("domain"))
	if err := probe.ValidateDomain(domain); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st := s.Prober.URLStatus(r.Context(), domain, q.Get("path"))
	resp := s.describe(r.Context(), st)

	s.Logger.Info("probe",
		zap.String("domain", domain),
		zap.String("path", q.Get("path")),
		zap.String("result", resp.Display),
		zap.String("dns", string(resp.DNS)),
	)
	writeJSON(w, http.StatusOK, resp)
}

type batchPayload struct {
	Domain string   `json:"domain"`
	Paths  []string `json:"paths"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var p batchPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	p.Domain = strings.TrimSpace(p.Domain)
	if err := probe.ValidateDomain(p.Domain); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(p.Paths) == 0 {
		writeError(w, http.StatusBadRequest, "paths is empty")
		return
	}
	if s.MaxBatchSize > 0 && len(p.Paths) > s.MaxBatchSize {
		writeError(w, http.StatusBadRequest, "too many paths")
		return
	}

	states := s.Prober.URLStatusAll(r.Context(), p.Domain, p.Paths, s.MaxConcurrentProbes)
	dns := s.diagnoseHosts(r.Context(), states)
	out := make([]probeResponse, len(states))
	up := 0
	for i, st := range states {
		out[i] = probeResponse{Result: st, Display: st.String()}
		if st.Kind == probe.ConnectionFailed && st.URL != nil {
			out[i].DNS = dns[st.URL.Hostname()]
		}
		if st.OK() {
			up++
		}
	}

	s.Logger.Info("probe_batch",
		zap.String("domain", p.Domain),
		zap.Int("paths", len(p.Paths)),
		zap.Int("accessible", up),
	)
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("url"))
	if !isValidHTTPURL(raw) {
		writeError(w, http.StatusBadRequest, "url must be an absolute http(s) URL")
		return
	}
	u, _ := url.Parse(raw)

	links, err := s.Fetcher.FetchAllURLs(r.Context(), u)
	if err != nil {
		var te *probe.TransportError
		if errors.As(err, &te) {
			s.Logger.Warn("links_fetch_failed", zap.String("url", raw), zap.Error(err))
			writeError(w, http.StatusBadGateway, "could not fetch url")
			return
		}
		s.Logger.Error("links_parse_failed", zap.String("url", raw), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not parse page")
		return
	}
	if links == nil {
		links = []string{}
	}

	s.Logger.Info("links", zap.String("url", raw), zap.Int("count", len(links)))
	writeJSON(w, http.StatusOK, map[string]any{"url": raw, "links": links})
}

func (s *Server) describe(ctx context.Context, st probe.URLState) probeResponse {
	resp := probeResponse{Result: st, Display: st.String()}
	if st.Kind == probe.ConnectionFailed && s.DNS != nil && st.URL != nil {
		resp.DNS = s.DNS(ctx, st.URL.Hostname()).Class
	}
	return resp
}

// diagnoseHosts looks up each distinct host behind a ConnectionFailed state
// once, at most MaxConcurrentProbes at a time.
func (s *Server) diagnoseHosts(ctx context.Context, states []probe.URLState) map[string]probe.DNSClass {
	out := make(map[string]probe.DNSClass)
	if s.DNS == nil {
		return out
	}
	seen := make(map[string]struct{})
	var hosts []string
	for _, st := range states {
		if st.Kind != probe.ConnectionFailed || st.URL == nil {
			continue
		}
		h := st.URL.Hostname()
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		hosts = append(hosts, h)
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	if s.MaxConcurrentProbes > 0 {
		g.SetLimit(s.MaxConcurrentProbes)
	}
	for _, h := range hosts {
		g.Go(func() error {
			class := s.DNS(ctx, h).Class
			mu.Lock()
			out[h] = class
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func isValidHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Hostname() != ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
