package domain

import "errors"

var (
	// ErrEmptyName is returned when a candidate is empty after normalization
	ErrEmptyName = errors.New("empty hostname")
	// ErrNameTooLong is returned when a hostname exceeds the DNS length limit
	ErrNameTooLong = errors.New("hostname too long")
	// ErrInvalidLabel is returned when a hostname label contains disallowed characters or length
	ErrInvalidLabel = errors.New("invalid hostname label")
	// ErrInvalidDomainFormat is returned when the domain format is not valid
	ErrInvalidDomainFormat = errors.New("invalid domain format")
)
