package probe

import (
	"context"
	"strings"
	"time"

	"github.com/projectdiscovery/tlsx/pkg/tlsx"
	"github.com/projectdiscovery/tlsx/pkg/tlsx/clients"

	"github.com/theopenlane/sentinel/internal/types"
)

const (
	// tlsRetries is the number of retry attempts the grabber makes
	tlsRetries = 1
	// defaultGrabTimeout is used when a non-positive timeout is supplied, in seconds
	defaultGrabTimeout = 10
)

// CertificateGrabber reads the certificate a host presents on 443 when a regular handshake is impossible
type CertificateGrabber interface {
	Grab(ctx context.Context, host string) (*types.Certificate, error)
}

// TLSXGrabber grabs certificates with tlsx, which speaks legacy protocol versions the stdlib refuses
type TLSXGrabber struct {
	timeout int
}

// NewTLSXGrabber returns a grabber bounded by timeout
func NewTLSXGrabber(timeout time.Duration) *TLSXGrabber {
	seconds := int(timeout.Seconds())
	if seconds <= 0 {
		seconds = defaultGrabTimeout
	}

	return &TLSXGrabber{timeout: seconds}
}

// Grab connects to host:443 and returns the leaf certificate names
func (g *TLSXGrabber) Grab(ctx context.Context, host string) (*types.Certificate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	service, err := tlsx.New(&clients.Options{
		Timeout:    g.timeout,
		Retries:    tlsRetries,
		Expired:    true,
		SelfSigned: true,
		MisMatched: true,
		MinVersion: "tls10",
		MaxVersion: "tls13",
	})
	if err != nil {
		return nil, err
	}

	response, err := service.Connect(host, "", "443")
	if err != nil {
		return nil, err
	}

	if response == nil || response.CertificateResponse == nil {
		return nil, ErrNoCertificate
	}

	return &types.Certificate{
		Subject:  commonName(response.SubjectDN),
		DNSNames: response.SubjectAN,
	}, nil
}

// commonName extracts the CN attribute from a distinguished name string
func commonName(dn string) string {
	for part := range strings.SplitSeq(dn, ",") {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, "CN="); ok {
			return value
		}
	}

	return ""
}

// CertificateMatches reports whether any certificate name covers host.
// A leading "*." covers exactly one label.
func CertificateMatches(host string, names ...string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))

	for _, name := range names {
		name = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
		if name == "" {
			continue
		}

		if name == host {
			return true
		}

		suffix, wildcard := strings.CutPrefix(name, "*.")
		if !wildcard {
			continue
		}

		label, rest, found := strings.Cut(host, ".")
		if found && label != "" && rest == suffix {
			return true
		}
	}

	return false
}

// Mismatched reports whether cert is present and names nothing covering host
func Mismatched(host string, cert *types.Certificate) bool {
	if cert == nil {
		return false
	}

	names := append([]string{cert.Subject}, cert.DNSNames...)

	return !CertificateMatches(host, names...)
}
