package dashboardserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthzAlwaysOK(t *testing.T) {
	s := NewServer(Config{Artifact: NewArtifactStore()})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyzReflectsArtifactPresence(t *testing.T) {
	store := NewArtifactStore()
	s := NewServer(Config{Artifact: store})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before an artifact is set, got %d", rec.Code)
	}

	store.Set([]byte("const v4Data = {};\nmodule.exports = v4Data;\n"))
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after an artifact is set, got %d", rec.Code)
	}
}

func TestArtifactHandlerServesBody(t *testing.T) {
	store := NewArtifactStore()
	store.Set([]byte("const v4Data = {};\n"))
	s := NewServer(Config{Artifact: store})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/v4data.js", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "const v4Data = {};\n" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestArtifactHandlerNotFoundBeforeGenerated(t *testing.T) {
	s := NewServer(Config{Artifact: NewArtifactStore()})
	req := httptest.NewRequest(http.MethodGet, "/dashboard/v4data.js", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
