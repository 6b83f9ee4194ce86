// Package slack posts takeover findings to a Slack incoming webhook
package slack

import (
	"net/http"
	"time"

	"github.com/theopenlane/sentinel/internal/types"
)

const (
	// defaultRequestTimeout is the default timeout for Slack webhook requests
	defaultRequestTimeout = 10 * time.Second
	// defaultMaxFindings bounds how many findings are listed in one message
	defaultMaxFindings = 20
)

// Client sends finding notifications to Slack via incoming webhooks
type Client struct {
	webhookURL  string
	httpClient  *http.Client
	minVerdict  types.Verdict
	maxFindings int
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for the Slack client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMinVerdict sets the least severe verdict that is reported; unknown verdicts are ignored
func WithMinVerdict(v types.Verdict) Option {
	return func(c *Client) {
		if v.Valid() {
			c.minVerdict = v
		}
	}
}

// WithMaxFindings caps the number of findings listed per message
func WithMaxFindings(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxFindings = n
		}
	}
}

// New creates a new Slack webhook client
func New(webhookURL string, opts ...Option) (*Client, error) {
	if webhookURL == "" {
		return nil, ErrMissingWebhookURL
	}

	client := &Client{
		webhookURL:  webhookURL,
		httpClient:  &http.Client{Timeout: defaultRequestTimeout},
		minVerdict:  types.VerdictLikely,
		maxFindings: defaultMaxFindings,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}
