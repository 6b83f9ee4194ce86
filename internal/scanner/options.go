package scanner

import (
	"context"
	"time"

	"github.com/theopenlane/sentinel/internal/chain"
	"github.com/theopenlane/sentinel/internal/fingerprint"
	"github.com/theopenlane/sentinel/internal/matcher"
	"github.com/theopenlane/sentinel/internal/metrics"
	"github.com/theopenlane/sentinel/internal/probe"
	"github.com/theopenlane/sentinel/internal/rdap"
	"github.com/theopenlane/sentinel/internal/resolver"
	"github.com/theopenlane/sentinel/internal/types"
)

// RegistrationChecker reports whether a domain is still registered
type RegistrationChecker interface {
	Registration(ctx context.Context, domain string) (*rdap.Registration, error)
}

// Notifier receives every completed scan result
type Notifier interface {
	NotifyFindings(ctx context.Context, result *types.ScanResult) (bool, error)
}

// IPClassifier attributes addresses to cloud providers
type IPClassifier interface {
	ClassifyAny(ips []string) (ip string, provider string, ok bool)
}

// ScanOptions configures the scanner behavior
type ScanOptions struct {
	// Worker pool and rate limiting
	Concurrency int
	RateLimit   float64
	Burst       int

	// DNS options
	DNSTimeout     time.Duration
	DNSResolvers   []string
	NameserverPort string
	CacheSize      int
	MaxDepth       int

	// HTTP probing options
	HTTPTimeout time.Duration
	BodyLimit   int64
	DialContext probe.DialContextFunc
	Grabber     probe.CertificateGrabber
	grabberSet  bool

	// Provider attribution
	Fingerprints *fingerprint.Table
	Classifier   IPClassifier
	Detector     matcher.Detector
	detectorSet  bool

	// Optional collaborators
	Metrics      *metrics.Metrics
	Registration RegistrationChecker
	Notifier     Notifier
}

// ScanOption is a functional option for configuring scanner
type ScanOption func(*ScanOptions)

// DefaultScanOptions returns default scanner options
func DefaultScanOptions() *ScanOptions {
	return &ScanOptions{
		Concurrency:  50,
		RateLimit:    10,
		Burst:        1,
		DNSTimeout:   resolver.DefaultTimeout,
		DNSResolvers: resolver.DefaultServers,
		CacheSize:    resolver.DefaultCacheSize,
		MaxDepth:     chain.DefaultMaxDepth,
		HTTPTimeout:  probe.DefaultTimeout,
		BodyLimit:    probe.DefaultBodyLimit,
	}
}

// WithConcurrency sets the number of workers
func WithConcurrency(n int) ScanOption {
	return func(o *ScanOptions) {
		o.Concurrency = n
	}
}

// WithRateLimit sets the shared request rate in requests per second and the bucket size
func WithRateLimit(rps float64, burst int) ScanOption {
	return func(o *ScanOptions) {
		o.RateLimit = rps
		o.Burst = burst
	}
}

// WithDNSTimeout sets DNS query timeout
func WithDNSTimeout(timeout time.Duration) ScanOption {
	return func(o *ScanOptions) {
		o.DNSTimeout = timeout
	}
}

// WithDNSResolvers sets custom DNS resolvers
func WithDNSResolvers(resolvers []string) ScanOption {
	return func(o *ScanOptions) {
		o.DNSResolvers = resolvers
	}
}

// WithNameserverPort sets the port used for direct nameserver queries
func WithNameserverPort(port string) ScanOption {
	return func(o *ScanOptions) {
		o.NameserverPort = port
	}
}

// WithCacheSize sets the per-scan DNS cache size
func WithCacheSize(size int) ScanOption {
	return func(o *ScanOptions) {
		o.CacheSize = size
	}
}

// WithMaxDepth sets the maximum number of CNAME hops followed
func WithMaxDepth(depth int) ScanOption {
	return func(o *ScanOptions) {
		o.MaxDepth = depth
	}
}

// WithHTTPTimeout sets HTTP probe timeout
func WithHTTPTimeout(timeout time.Duration) ScanOption {
	return func(o *ScanOptions) {
		o.HTTPTimeout = timeout
	}
}

// WithBodyLimit sets how much of each response body is sampled
func WithBodyLimit(limit int64) ScanOption {
	return func(o *ScanOptions) {
		o.BodyLimit = limit
	}
}

// WithDialContext overrides how probes connect
func WithDialContext(dial probe.DialContextFunc) ScanOption {
	return func(o *ScanOptions) {
		o.DialContext = dial
	}
}

// WithCertificateGrabber sets the fallback certificate grabber; nil disables it
func WithCertificateGrabber(grabber probe.CertificateGrabber) ScanOption {
	return func(o *ScanOptions) {
		o.Grabber = grabber
		o.grabberSet = true
	}
}

// WithFingerprints sets the provider table
func WithFingerprints(table *fingerprint.Table) ScanOption {
	return func(o *ScanOptions) {
		o.Fingerprints = table
	}
}

// WithTechnologyDetector sets the detector used to attribute responses no fingerprint identified; nil disables it
func WithTechnologyDetector(detector matcher.Detector) ScanOption {
	return func(o *ScanOptions) {
		o.Detector = detector
		o.detectorSet = true
	}
}

// WithClassifier sets the cloud IP classifier
func WithClassifier(classifier IPClassifier) ScanOption {
	return func(o *ScanOptions) {
		o.Classifier = classifier
	}
}

// WithMetrics records scan metrics on m
func WithMetrics(m *metrics.Metrics) ScanOption {
	return func(o *ScanOptions) {
		o.Metrics = m
	}
}

// WithRegistrationChecker annotates dead nameserver domains with their registration state
func WithRegistrationChecker(checker RegistrationChecker) ScanOption {
	return func(o *ScanOptions) {
		o.Registration = checker
	}
}

// WithNotifier sends each completed scan result to n
func WithNotifier(n Notifier) ScanOption {
	return func(o *ScanOptions) {
		o.Notifier = n
	}
}

// Validate reports the first invalid option
func (o *ScanOptions) Validate() error {
	switch {
	case o.Concurrency < 1:
		return ErrInvalidConcurrency
	case o.RateLimit <= 0 || o.Burst < 1:
		return ErrInvalidRateLimit
	case o.MaxDepth < 1:
		return ErrInvalidMaxDepth
	case len(o.DNSResolvers) == 0:
		return ErrNoResolvers
	}

	return nil
}
