package probe

import "errors"

// ErrNoCertificate is returned when a TLS grab completes without a leaf certificate
var ErrNoCertificate = errors.New("no certificate presented")
