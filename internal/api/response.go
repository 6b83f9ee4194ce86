package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// error codes returned in ScanResponse.Error
const (
	errCodeInvalidRequest = "invalid_request"
	errCodeBodyTooLarge   = "body_too_large"
	errCodeValidation     = "validation_failed"
	errCodeInternal       = "internal_error"
	errCodeTimeout        = "timeout"
)

// Error is the error payload of a failed request
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeJSONBody decodes exactly one JSON object without unknown fields into dst
func decodeJSONBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}

	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return ErrMultipleJSONObjects
	}

	return nil
}

// decodeFailure picks the status and error code for a body that could not be decoded
func decodeFailure(err error) (int, string, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errCodeBodyTooLarge, ErrBodyTooLarge.Error()
	}

	return http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error()
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ScanResponse{Error: &Error{Code: code, Message: message}})
}

// writeJSON writes payload with status, logging encoding failures since the header is already sent
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Int("status", status).Msg("failed to encode JSON response")
	}
}
