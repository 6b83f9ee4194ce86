package fingerprint

import "errors"

var (
	// ErrMissingProvider is returned when a fingerprint has no provider name
	ErrMissingProvider = errors.New("fingerprint provider name is required")
	// ErrMissingPatterns is returned when a fingerprint has neither CNAME patterns nor header fingerprints
	ErrMissingPatterns = errors.New("fingerprint requires at least one cname pattern or header")
	// ErrInvalidRiskTier is returned when a fingerprint declares an unknown risk tier
	ErrInvalidRiskTier = errors.New("invalid fingerprint risk tier")
	// ErrInvalidStatusCode is returned when a fingerprint lists a status code outside 100-599
	ErrInvalidStatusCode = errors.New("invalid fingerprint status code")
	// ErrDuplicateProvider is returned when the same provider appears twice in one source
	ErrDuplicateProvider = errors.New("duplicate fingerprint provider")
	// ErrMalformedFingerprint is returned when a custom fingerprint entry fails validation
	ErrMalformedFingerprint = errors.New("malformed fingerprint entry")
	// ErrMalformedFile is returned when a custom fingerprint file cannot be decoded
	ErrMalformedFile = errors.New("malformed fingerprint file")
	// ErrReadFile is returned when a custom fingerprint file cannot be read
	ErrReadFile = errors.New("unable to read fingerprint file")
)
