package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theopenlane/sentinel/internal/metrics"
	"github.com/theopenlane/sentinel/internal/scanner"
)

// compressionLevel is the gzip level for compressed responses
const compressionLevel = 5

// RouterOptions bounds request handling
type RouterOptions struct {
	// MaxBodySize limits the request body in bytes; zero disables the limit
	MaxBodySize int64
	// MaxCandidates limits the candidates accepted by one scan request; zero disables the limit
	MaxCandidates int
	// Timeout bounds each request, including the scan it runs
	Timeout time.Duration
}

// NewRouter creates a new chi router with all endpoints and middleware.
// The metrics endpoint is mounted only when m is non-nil.
func NewRouter(s scanner.Interface, m *metrics.Metrics, opts RouterOptions) http.Handler {
	h := &Handler{
		scanner:       s,
		maxBodySize:   opts.MaxBodySize,
		maxCandidates: opts.MaxCandidates,
	}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(compressionLevel))
	r.Use(middleware.Heartbeat("/ping"))

	if opts.Timeout > 0 {
		r.Use(middleware.Timeout(opts.Timeout))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Post("/scan", h.handleScan)
		r.Get("/fingerprints", h.handleFingerprints)
	})

	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	return r
}
