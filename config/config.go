// Package config loads sentinel configuration from defaults, a YAML file and the environment
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mcuadros/go-defaults"

	"github.com/theopenlane/sentinel/internal/resolver"
	"github.com/theopenlane/sentinel/internal/types"
)

const (
	// envPrefix is the prefix of environment variables read into the config
	envPrefix = "SENTINEL_"
	// delimiter separates nested koanf keys
	delimiter = "."
	// DefaultConfigFilePath is used when no config path is given
	DefaultConfigFilePath = "./config/.config.yaml"
)

// Config holds service configuration
type Config struct {
	// Server configures the HTTP API
	Server Server `json:"server" koanf:"server"`
	// Scanner configures the worker pool and pipeline limits
	Scanner Scanner `json:"scanner" koanf:"scanner"`
	// Resolver configures DNS lookups
	Resolver Resolver `json:"resolver" koanf:"resolver"`
	// Probe configures HTTP and TLS probing
	Probe Probe `json:"probe" koanf:"probe"`
	// Slack configures finding notifications
	Slack Slack `json:"slack" koanf:"slack"`
	// RDAP configures registration checks of dead nameserver domains
	RDAP RDAP `json:"rdap" koanf:"rdap"`
	// Metrics configures Prometheus instrumentation
	Metrics Metrics `json:"metrics" koanf:"metrics"`
}

// Server settings for the HTTP API
type Server struct {
	// Debug enables debug logging
	Debug bool `json:"debug" koanf:"debug" default:"false"`
	// Pretty enables human readable logging
	Pretty bool `json:"pretty" koanf:"pretty" default:"false"`
	// Listen is the address the API binds to
	Listen string `json:"listen" koanf:"listen" default:":8080"`
	// ReadTimeout bounds reading a request
	ReadTimeout time.Duration `json:"readTimeout" koanf:"read_timeout" default:"30s"`
	// WriteTimeout bounds writing a response, which includes the scan
	WriteTimeout time.Duration `json:"writeTimeout" koanf:"write_timeout" default:"180s"`
	// ShutdownGracePeriod is how long in-flight requests get on shutdown
	ShutdownGracePeriod time.Duration `json:"shutdownGracePeriod" koanf:"shutdown_grace_period" default:"30s"`
	// MaxBodySize limits request bodies in bytes
	MaxBodySize int64 `json:"maxBodySize" koanf:"max_body_size" default:"102400"`
	// MaxCandidates limits the candidates in one scan request
	MaxCandidates int `json:"maxCandidates" koanf:"max_candidates" default:"1000"`
	// ScanTimeout bounds a scan started over the API
	ScanTimeout time.Duration `json:"scanTimeout" koanf:"scan_timeout" default:"170s"`
}

// Scanner settings for the detection pipeline
type Scanner struct {
	// Concurrency is the number of candidates analyzed at once
	Concurrency int `json:"concurrency" koanf:"concurrency" default:"50"`
	// RateLimit is the number of requests per second shared by DNS, HTTP and TLS
	RateLimit float64 `json:"rateLimit" koanf:"rate_limit" default:"10"`
	// Burst is the token bucket size
	Burst int `json:"burst" koanf:"burst" default:"1"`
	// MaxDepth is the maximum number of CNAME hops followed
	MaxDepth int `json:"maxDepth" koanf:"max_depth" default:"10"`
	// Fingerprints is an optional YAML or JSON file of custom provider fingerprints
	Fingerprints string `json:"fingerprints" koanf:"fingerprints"`
	// Wordlist is an optional wordlist path that must be readable when set
	Wordlist string `json:"wordlist" koanf:"wordlist"`
}

// Resolver settings for DNS lookups
type Resolver struct {
	// Servers are the recursive resolvers queried, as ip or ip:port; empty selects the public defaults
	Servers []string `json:"servers" koanf:"servers"`
	// Timeout bounds each DNS exchange
	Timeout time.Duration `json:"timeout" koanf:"timeout" default:"5s"`
	// CacheSize bounds the per-scan answer cache
	CacheSize int `json:"cacheSize" koanf:"cache_size" default:"4096"`
}

// Probe settings for HTTP and TLS probing
type Probe struct {
	// Timeout bounds each HTTP request and TLS handshake
	Timeout time.Duration `json:"timeout" koanf:"timeout" default:"10s"`
	// BodyLimit is the number of body bytes sampled
	BodyLimit int64 `json:"bodyLimit" koanf:"body_limit" default:"122880"`
	// TLSFallback grabs certificates with tlsx when the standard handshake fails
	TLSFallback bool `json:"tlsFallback" koanf:"tls_fallback" default:"true"`
}

// Slack settings for finding notifications
type Slack struct {
	// WebhookURL enables notifications when set
	WebhookURL string `json:"webhookURL" koanf:"webhook_url" sensitive:"true"`
	// MinVerdict is the least severe verdict reported
	MinVerdict string `json:"minVerdict" koanf:"min_verdict" default:"LIKELY"`
	// RequestTimeout bounds each webhook request
	RequestTimeout time.Duration `json:"requestTimeout" koanf:"request_timeout" default:"10s"`
}

// RDAP settings for nameserver registration checks
type RDAP struct {
	// Enabled turns on registration checks for dead nameserver domains
	Enabled bool `json:"enabled" koanf:"enabled" default:"false"`
	// Timeout bounds each RDAP query
	Timeout time.Duration `json:"timeout" koanf:"timeout" default:"15s"`
}

// Metrics settings for Prometheus instrumentation
type Metrics struct {
	// Enabled exposes /metrics in serve mode
	Enabled bool `json:"enabled" koanf:"enabled" default:"true"`
}

// Load builds the configuration from defaults, the YAML file at cfgFile when it exists, and SENTINEL_ variables
func Load(cfgFile *string) (*Config, error) {
	k := koanf.New(delimiter)

	conf := &Config{}
	defaults.SetDefaults(conf)

	path := DefaultConfigFilePath
	if cfgFile != nil && *cfgFile != "" {
		path = *cfgFile
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigFile, path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigFile, path, err)
	}

	if err := k.Load(env.Provider(envPrefix, delimiter, envKey), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}

	if err := k.UnmarshalWithConf("", conf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}

	if len(conf.Resolver.Servers) == 0 {
		conf.Resolver.Servers = slices.Clone(resolver.DefaultServers)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// envKey maps SENTINEL_SCANNER_RATE_LIMIT to scanner.rate_limit
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))

	return strings.Replace(key, "_", delimiter, 1)
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	switch {
	case c.Scanner.Concurrency < 1:
		return fmt.Errorf("%w: scanner.concurrency must be at least 1", ErrInvalidConfig)
	case c.Scanner.RateLimit <= 0:
		return fmt.Errorf("%w: scanner.rate_limit must be positive", ErrInvalidConfig)
	case c.Scanner.Burst < 1:
		return fmt.Errorf("%w: scanner.burst must be at least 1", ErrInvalidConfig)
	case c.Scanner.MaxDepth < 1:
		return fmt.Errorf("%w: scanner.max_depth must be at least 1", ErrInvalidConfig)
	case len(c.Resolver.Servers) == 0:
		return fmt.Errorf("%w: resolver.servers must not be empty", ErrInvalidConfig)
	case c.Resolver.Timeout <= 0 || c.Probe.Timeout <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	case !types.ParseVerdict(c.Slack.MinVerdict).Valid():
		return fmt.Errorf("%w: slack.min_verdict %q is not a verdict", ErrInvalidConfig, c.Slack.MinVerdict)
	}

	return nil
}
