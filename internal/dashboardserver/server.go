// Package dashboardserver serves the generated dashboard artifact over
// HTTP, grounded in the analytics pipeline's chi-based API server: the same
// middleware stack, the same healthz/readyz split, and a Prometheus
// /metrics endpoint.
package dashboardserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ArtifactStore is the in-memory holder for the most recently generated
// dashboard artifact bytes. Callers replace it with Set; the server only
// ever reads a snapshot.
type ArtifactStore struct {
	mu       sync.RWMutex
	body     []byte
	updated  time.Time
}

// NewArtifactStore builds an empty store; the artifact route returns 404
// until Set is called at least once.
func NewArtifactStore() *ArtifactStore { return &ArtifactStore{} }

// Set replaces the served artifact.
func (s *ArtifactStore) Set(body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = body
	s.updated = time.Now().UTC()
}

func (s *ArtifactStore) get() ([]byte, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.body, s.updated, s.body != nil
}

// Server wraps the HTTP server and router for the dashboard artifact.
type Server struct {
	router   *chi.Mux
	logger   *zap.Logger
	artifact *ArtifactStore
}

// Config controls server construction.
type Config struct {
	Logger   *zap.Logger
	Artifact *ArtifactStore
}

// NewServer builds a dashboardserver.Server with the standard middleware
// stack and registers its routes.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	s := &Server{router: r, logger: logger, artifact: cfg.Artifact}

	r.Get("/healthz", healthzHandler)
	r.Get("/readyz", s.readyzHandler)
	r.Get("/dashboard/v4data.js", s.artifactHandler)
	r.Handle("/metrics", promhttp.Handler())

	return s
}

// Router returns the underlying chi router, e.g. for tests using
// httptest.NewServer.
func (s *Server) Router() *chi.Mux { return s.router }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) readyzHandler(w http.ResponseWriter, r *http.Request) {
	_, _, hasArtifact := s.artifact.get()

	status := http.StatusOK
	if !hasArtifact {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":        readyStatus(hasArtifact),
		"has_artifact":  hasArtifact,
		"checked_at":    time.Now().UTC().Format(time.RFC3339),
	})
}

func readyStatus(hasArtifact bool) string {
	if hasArtifact {
		return "ready"
	}
	return "not_ready"
}

func (s *Server) artifactHandler(w http.ResponseWriter, r *http.Request) {
	body, updated, ok := s.artifact.get()
	if !ok {
		http.Error(w, "no dashboard artifact generated yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Last-Modified", updated.Format(http.TimeFormat))
	_, _ = w.Write(body)
}
