package api

import "errors"

var (
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrBodyTooLarge is returned when the request body exceeds the configured size limit
	ErrBodyTooLarge = errors.New("request body too large")
	// ErrCandidatesRequired is returned when a scan request holds no usable candidates
	ErrCandidatesRequired = errors.New("at least one candidate subdomain is required")
	// ErrTooManyCandidates is returned when a scan request exceeds the configured candidate limit
	ErrTooManyCandidates = errors.New("too many candidates")
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
)
