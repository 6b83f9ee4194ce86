// Package api serves takeover scans over HTTP
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theopenlane/sentinel/internal/fingerprint"
	"github.com/theopenlane/sentinel/internal/scanner"
	"github.com/theopenlane/sentinel/internal/types"
)

const serviceName = "sentinel"

// Handler manages API endpoints
type Handler struct {
	scanner       scanner.Interface
	maxBodySize   int64
	maxCandidates int
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Service   string `json:"service" example:"sentinel"`
	Timestamp string `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ScanRequest represents a takeover scan request
type ScanRequest struct {
	// Candidates are the subdomains to assess
	Candidates []string `json:"candidates" example:"staging.example.com"`
}

// ScanResponse represents the scan response
type ScanResponse struct {
	// Success indicates whether the scan completed
	Success bool `json:"success"`
	// Data holds the scan result when successful
	Data *types.ScanResult `json:"data,omitempty"`
	// Error is the normalized error payload when the scan fails
	Error *Error `json:"error,omitempty"`
}

// handleScan runs a scan over the requested candidates
func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req ScanRequest
	if err := decodeJSONBody(r, &req); err != nil {
		status, code, message := decodeFailure(err)
		respondError(w, status, code, message)

		return
	}

	candidates := scanner.Dedupe(req.Candidates)
	if len(candidates) == 0 {
		respondError(w, http.StatusBadRequest, errCodeValidation, ErrCandidatesRequired.Error())
		return
	}

	if h.maxCandidates > 0 && len(candidates) > h.maxCandidates {
		respondError(w, http.StatusBadRequest, errCodeValidation,
			fmt.Sprintf("%s: %d > %d", ErrTooManyCandidates, len(candidates), h.maxCandidates))

		return
	}

	result, err := h.scanner.Scan(r.Context(), candidates)
	if err != nil {
		log.Error().Err(err).Int("candidates", len(candidates)).Msg("scan failed")

		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, scanner.ErrScanCanceled):
			respondError(w, http.StatusGatewayTimeout, errCodeTimeout, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		}

		return
	}

	writeJSON(w, http.StatusOK, ScanResponse{
		Success: true,
		Data:    result,
	})
}

// FingerprintsResponse lists the effective provider registry
type FingerprintsResponse struct {
	Count        int                       `json:"count"`
	Fingerprints []fingerprint.Fingerprint `json:"fingerprints"`
}

func (h *Handler) handleFingerprints(w http.ResponseWriter, _ *http.Request) {
	table := h.scanner.Fingerprints()
	if table == nil {
		writeJSON(w, http.StatusOK, FingerprintsResponse{Fingerprints: []fingerprint.Fingerprint{}})
		return
	}

	writeJSON(w, http.StatusOK, FingerprintsResponse{
		Count:        table.Len(),
		Fingerprints: table.Fingerprints(),
	})
}
