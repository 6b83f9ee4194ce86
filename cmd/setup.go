package cmd

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/theopenlane/sentinel/config"
	"github.com/theopenlane/sentinel/internal/fingerprint"
	"github.com/theopenlane/sentinel/internal/metrics"
	"github.com/theopenlane/sentinel/internal/rdap"
	"github.com/theopenlane/sentinel/internal/scanner"
	"github.com/theopenlane/sentinel/internal/slack"
	"github.com/theopenlane/sentinel/internal/types"
)

// setupScanner builds the scanner from config; m may be nil
func setupScanner(cfg *config.Config, m *metrics.Metrics) (*scanner.Scanner, error) {
	if err := scanner.ValidateWordlist(cfg.Scanner.Wordlist); err != nil {
		return nil, err
	}

	table, err := fingerprint.Load(cfg.Scanner.Fingerprints)
	if err != nil {
		return nil, err
	}

	opts := []scanner.ScanOption{
		scanner.WithConcurrency(cfg.Scanner.Concurrency),
		scanner.WithRateLimit(cfg.Scanner.RateLimit, cfg.Scanner.Burst),
		scanner.WithMaxDepth(cfg.Scanner.MaxDepth),
		scanner.WithDNSResolvers(cfg.Resolver.Servers),
		scanner.WithDNSTimeout(cfg.Resolver.Timeout),
		scanner.WithCacheSize(cfg.Resolver.CacheSize),
		scanner.WithHTTPTimeout(cfg.Probe.Timeout),
		scanner.WithBodyLimit(cfg.Probe.BodyLimit),
		scanner.WithFingerprints(table),
		scanner.WithMetrics(m),
	}

	if !cfg.Probe.TLSFallback {
		opts = append(opts, scanner.WithCertificateGrabber(nil))
	}

	if cfg.RDAP.Enabled {
		opts = append(opts, scanner.WithRegistrationChecker(rdap.NewClient(rdap.WithTimeout(cfg.RDAP.Timeout))))

		log.Info().Msg("rdap registration checks enabled")
	}

	if notifier := setupSlack(cfg); notifier != nil {
		opts = append(opts, scanner.WithNotifier(notifier))
	}

	log.Debug().Int("fingerprints", table.Len()).Int("concurrency", cfg.Scanner.Concurrency).
		Float64("rate_limit", cfg.Scanner.RateLimit).Msg("scanner configured")

	return scanner.New(opts...)
}

// setupSlack initializes the Slack webhook client from config, returning nil when unconfigured
func setupSlack(cfg *config.Config) *slack.Client {
	if cfg.Slack.WebhookURL == "" {
		log.Debug().Msg("slack notifications not configured, skipping")
		return nil
	}

	client, err := slack.New(
		cfg.Slack.WebhookURL,
		slack.WithHTTPClient(&http.Client{Timeout: cfg.Slack.RequestTimeout}),
		slack.WithMinVerdict(types.ParseVerdict(cfg.Slack.MinVerdict)),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize slack client")
		return nil
	}

	log.Info().Str("min_verdict", cfg.Slack.MinVerdict).Msg("slack notifications configured")

	return client
}
