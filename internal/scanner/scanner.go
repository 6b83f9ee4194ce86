// Package scanner runs the takeover detection pipeline over candidate subdomains
package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/theopenlane/sentinel/internal/chain"
	"github.com/theopenlane/sentinel/internal/cloudip"
	"github.com/theopenlane/sentinel/internal/fingerprint"
	"github.com/theopenlane/sentinel/internal/matcher"
	"github.com/theopenlane/sentinel/internal/probe"
	"github.com/theopenlane/sentinel/internal/resolver"
	"github.com/theopenlane/sentinel/internal/types"
	"github.com/theopenlane/sentinel/internal/wildcard"
)

// Scanner assesses candidate subdomains for takeover. A Scanner may run several scans concurrently;
// every scan gets its own DNS cache and wildcard memo while the rate limiter is shared.
type Scanner struct {
	// options holds the configuration for scan behavior.
	options *ScanOptions
	// limiter is the token bucket shared by every DNS exchange, HTTP request and TLS grab.
	limiter *rate.Limiter
	prober  *probe.Prober
}

// New creates a new scanner with the given options.
func New(opts ...ScanOption) (*Scanner, error) {
	options := DefaultScanOptions()
	for _, opt := range opts {
		opt(options)
	}

	if err := options.Validate(); err != nil {
		return nil, err
	}

	if options.Fingerprints == nil {
		table, err := fingerprint.NewTable(fingerprint.Builtin())
		if err != nil {
			return nil, err
		}

		options.Fingerprints = table
	}

	if !options.detectorSet {
		detector, err := matcher.NewDetector()
		if err != nil {
			log.Warn().Err(err).Msg("technology detection disabled")
		} else {
			options.Detector = detector
		}
	}

	if options.Classifier == nil {
		options.Classifier = cloudip.New()
	}

	limiter := rate.NewLimiter(rate.Limit(options.RateLimit), options.Burst)

	probeOpts := []probe.Option{
		probe.WithTimeout(options.HTTPTimeout),
		probe.WithLimiter(limiter),
		probe.WithBodyLimit(options.BodyLimit),
	}

	if options.DialContext != nil {
		probeOpts = append(probeOpts, probe.WithDialContext(options.DialContext))
	}

	if options.grabberSet {
		probeOpts = append(probeOpts, probe.WithCertificateGrabber(options.Grabber))
	}

	return &Scanner{
		options: options,
		limiter: limiter,
		prober:  probe.New(probeOpts...),
	}, nil
}

// Fingerprints returns the provider table in use
func (s *Scanner) Fingerprints() *fingerprint.Table {
	return s.options.Fingerprints
}

// task is one candidate and its position in the input
type task struct {
	index int
	name  string
}

// run holds the state that lives for exactly one scan
type run struct {
	*Scanner
	resolver  *resolver.Resolver
	walker    *chain.Walker
	wildcards *wildcard.Detector
}

func (s *Scanner) newRun() (*run, error) {
	resolverOpts := []resolver.Option{
		resolver.WithServers(s.options.DNSResolvers...),
		resolver.WithTimeout(s.options.DNSTimeout),
		resolver.WithLimiter(s.limiter),
		resolver.WithCacheSize(s.options.CacheSize),
		resolver.WithObserver(func(qtype string, status resolver.Status) {
			s.options.Metrics.DNSQuery(qtype, string(status))
		}),
	}

	if s.options.NameserverPort != "" {
		resolverOpts = append(resolverOpts, resolver.WithNameserverPort(s.options.NameserverPort))
	}

	res, err := resolver.New(resolverOpts...)
	if err != nil {
		return nil, err
	}

	return &run{
		Scanner:   s,
		resolver:  res,
		walker:    chain.NewWalker(res, chain.WithMaxDepth(s.options.MaxDepth)),
		wildcards: wildcard.NewDetector(res),
	}, nil
}

// Scan analyzes every candidate and returns one finding per candidate in input order.
// Candidates are expected to be normalized and deduplicated already, see Dedupe.
func (s *Scanner) Scan(ctx context.Context, candidates []string) (*types.ScanResult, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	r, err := s.newRun()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	s.options.Metrics.ScanStarted()

	log.Info().Int("candidates", len(candidates)).Int("workers", min(s.options.Concurrency, len(candidates))).Msg("starting takeover scan")

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		findings = make([]types.Finding, len(candidates))
		tasks    = make(chan task)
	)

	for range min(s.options.Concurrency, len(candidates)) {
		wg.Go(func() {
			for t := range tasks {
				finding := r.analyze(ctx, t.name)

				mu.Lock()
				findings[t.index] = finding
				mu.Unlock()

				s.options.Metrics.Finding(string(finding.Verdict))
			}
		})
	}

	for i, name := range candidates {
		tasks <- task{index: i, name: name}
	}

	close(tasks)
	wg.Wait()

	elapsed := time.Since(start)
	s.options.Metrics.ScanFinished(elapsed, len(candidates))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanCanceled, err)
	}

	result := &types.ScanResult{
		ID:              uuid.NewString(),
		ScannedAt:       start.UTC(),
		Duration:        elapsed.Round(time.Millisecond).String(),
		TotalCandidates: len(candidates),
		Findings:        findings,
		Statistics:      Statistics(findings),
	}

	log.Info().Str("scan_id", result.ID).Dur("elapsed", elapsed).Int("live", result.Statistics.Live).Msg("takeover scan complete")

	if s.options.Notifier != nil {
		if sent, err := s.options.Notifier.NotifyFindings(ctx, result); err != nil {
			log.Warn().Err(err).Str("scan_id", result.ID).Msg("failed to send findings notification")
		} else if sent {
			log.Debug().Str("scan_id", result.ID).Msg("findings notification sent")
		}
	}

	return result, nil
}

// Close cleans up scanner resources.
func (s *Scanner) Close() error {
	return nil
}
