package scanner

import (
	"testing"
	"time"

	"github.com/theopenlane/sentinel/internal/metrics"
)

func TestDefaultScanOptions(t *testing.T) {
	opts := DefaultScanOptions()

	if opts.Concurrency != 50 {
		t.Errorf("Expected concurrency to be 50, got %d", opts.Concurrency)
	}

	if opts.RateLimit != 10 || opts.Burst != 1 {
		t.Errorf("Expected 10 rps with burst 1, got %v/%d", opts.RateLimit, opts.Burst)
	}

	if opts.MaxDepth != 10 {
		t.Errorf("Expected max depth to be 10, got %d", opts.MaxDepth)
	}

	if len(opts.DNSResolvers) != 2 {
		t.Errorf("Expected 2 default DNS resolvers, got %d", len(opts.DNSResolvers))
	}

	if opts.BodyLimit != 120*1024 {
		t.Errorf("Expected body limit of 120 KiB, got %d", opts.BodyLimit)
	}

	if err := opts.Validate(); err != nil {
		t.Errorf("Expected default options to be valid, got %v", err)
	}
}

func TestScanOptions_Setters(t *testing.T) {
	opts := DefaultScanOptions()
	m := metrics.New()

	for _, opt := range []ScanOption{
		WithConcurrency(5),
		WithRateLimit(2.5, 3),
		WithDNSTimeout(3 * time.Second),
		WithDNSResolvers([]string{"9.9.9.9"}),
		WithNameserverPort("5353"),
		WithCacheSize(16),
		WithMaxDepth(4),
		WithHTTPTimeout(7 * time.Second),
		WithBodyLimit(1024),
		WithMetrics(m),
	} {
		opt(opts)
	}

	if opts.Concurrency != 5 {
		t.Errorf("Expected concurrency 5, got %d", opts.Concurrency)
	}

	if opts.RateLimit != 2.5 || opts.Burst != 3 {
		t.Errorf("Expected 2.5 rps with burst 3, got %v/%d", opts.RateLimit, opts.Burst)
	}

	if opts.DNSTimeout != 3*time.Second {
		t.Errorf("Expected DNS timeout 3s, got %v", opts.DNSTimeout)
	}

	if len(opts.DNSResolvers) != 1 || opts.DNSResolvers[0] != "9.9.9.9" {
		t.Errorf("Expected custom resolver, got %v", opts.DNSResolvers)
	}

	if opts.NameserverPort != "5353" || opts.CacheSize != 16 || opts.MaxDepth != 4 {
		t.Errorf("Unexpected DNS options %+v", opts)
	}

	if opts.HTTPTimeout != 7*time.Second || opts.BodyLimit != 1024 {
		t.Errorf("Unexpected HTTP options %v/%d", opts.HTTPTimeout, opts.BodyLimit)
	}

	if opts.Metrics != m {
		t.Error("Expected metrics to be set")
	}
}

func TestScanOptions_CertificateGrabber(t *testing.T) {
	opts := DefaultScanOptions()

	if opts.grabberSet {
		t.Fatal("Expected grabber to be unset by default")
	}

	WithCertificateGrabber(nil)(opts)

	if !opts.grabberSet || opts.Grabber != nil {
		t.Error("Expected an explicit nil grabber to disable the fallback")
	}
}
