package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/theopenlane/sentinel/internal/metrics"
)

func TestPingEndpoint(t *testing.T) {
	handler := newTestRouter(&MockScanner{})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for ping endpoint, got %d", w.Code)
	}

	if w.Body.String() != "." {
		t.Errorf("Expected ping response '.', got %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	m.Finding("CONFIRMED")

	handler := NewRouter(&MockScanner{}, m, RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for metrics endpoint, got %d", w.Code)
	}

	if !strings.Contains(w.Body.String(), "sentinel_findings_total") {
		t.Error("Expected findings counter in metrics output")
	}
}

func TestMetricsEndpointDisabled(t *testing.T) {
	handler := newTestRouter(&MockScanner{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 without metrics, got %d", w.Code)
	}
}
