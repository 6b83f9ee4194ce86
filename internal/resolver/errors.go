package resolver

import "errors"

var (
	// ErrNoServers is returned when a resolver is configured without any upstream servers
	ErrNoServers = errors.New("at least one resolver address is required")
	// ErrRateLimited is returned when the limiter cannot grant a token before the context ends
	ErrRateLimited = errors.New("rate limiter wait aborted")
	// ErrInvalidServer is returned when an upstream address is not host:port
	ErrInvalidServer = errors.New("invalid resolver address")
)
