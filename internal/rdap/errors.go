package rdap

import "errors"

var (
	// ErrEmptyDomain is returned when an empty domain is provided for lookup
	ErrEmptyDomain = errors.New("domain must not be empty")
	// ErrLookupFailed is returned when the RDAP query fails for a reason other than a missing object
	ErrLookupFailed = errors.New("rdap lookup failed")
	// ErrUnexpectedResponse is returned when the RDAP response is not a domain object
	ErrUnexpectedResponse = errors.New("rdap response is not a domain object")
)
