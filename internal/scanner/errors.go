package scanner

import "errors"

var (
	// ErrInvalidConcurrency is returned when fewer than one worker is configured
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
	// ErrInvalidRateLimit is returned when the rate limit or burst is not positive
	ErrInvalidRateLimit = errors.New("rate limit and burst must be positive")
	// ErrInvalidMaxDepth is returned when the CNAME depth limit is below 1
	ErrInvalidMaxDepth = errors.New("max depth must be at least 1")
	// ErrNoResolvers is returned when no DNS resolvers are configured
	ErrNoResolvers = errors.New("at least one DNS resolver is required")
	// ErrNoCandidates is returned when a candidate source holds no names
	ErrNoCandidates = errors.New("no candidate subdomains")
	// ErrReadCandidates is returned when a candidate source cannot be read
	ErrReadCandidates = errors.New("unable to read candidates")
	// ErrScanCanceled is returned when the caller's context ends before the scan completes
	ErrScanCanceled = errors.New("scan canceled")
	// ErrUnreadableWordlist is returned when the configured wordlist cannot be read
	ErrUnreadableWordlist = errors.New("wordlist is not readable")
)
