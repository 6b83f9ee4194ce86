// Package rdap checks whether domains are still registered
package rdap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	rdaplib "github.com/openrdap/rdap"
)

// defaultTimeout is the default timeout for RDAP queries
const defaultTimeout = 15 * time.Second

// Registration captures the registration state of a domain
type Registration struct {
	// Domain is the domain that was queried
	Domain string `json:"domain"`
	// Registered is false when the registry reports the object does not exist
	Registered bool `json:"registered"`
	// Registrar is the name of the registrar
	Registrar string `json:"registrar,omitempty"`
	// Status lists the domain status values from RDAP
	Status []string `json:"status,omitempty"`
	// ExpirationDate is when the domain registration expires
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// Client wraps the openrdap library for registration lookups
type Client struct {
	rdapClient *rdaplib.Client
	timeout    time.Duration
	server     *url.URL
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client used for RDAP queries
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.rdapClient.HTTP = httpClient
		}
	}
}

// WithTimeout overrides the timeout for RDAP queries
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithServer pins queries to a single RDAP server instead of bootstrapping from IANA
func WithServer(server *url.URL) ClientOption {
	return func(c *Client) {
		c.server = server
	}
}

// NewClient creates an RDAP client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		rdapClient: &rdaplib.Client{},
		timeout:    defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Registration looks domain up over RDAP. A registry answer of "object does not exist" is
// reported as an unregistered domain rather than an error.
func (c *Client) Registration(ctx context.Context, domain string) (*Registration, error) {
	domain = strings.TrimSpace(strings.ToLower(domain))
	if domain == "" {
		return nil, ErrEmptyDomain
	}

	req := &rdaplib.Request{
		Type:    rdaplib.DomainRequest,
		Query:   domain,
		Timeout: c.timeout,
		Server:  c.server,
	}

	req = req.WithContext(ctx)

	resp, err := c.rdapClient.Do(req)
	if err != nil {
		var clientErr *rdaplib.ClientError
		if errors.As(err, &clientErr) && clientErr.Type == rdaplib.ObjectDoesNotExist {
			return &Registration{Domain: domain}, nil
		}

		return nil, fmt.Errorf("%w: %s: %v", ErrLookupFailed, domain, err)
	}

	domainObj, ok := resp.Object.(*rdaplib.Domain)
	if !ok || domainObj == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, domain)
	}

	return buildRegistration(domain, domainObj), nil
}

// buildRegistration extracts registration data from the RDAP domain response
func buildRegistration(domain string, d *rdaplib.Domain) *Registration {
	reg := &Registration{
		Domain:     domain,
		Registered: true,
		Status:     d.Status,
	}

	for _, event := range d.Events {
		if !strings.EqualFold(event.Action, "expiration") {
			continue
		}

		if parsed, err := time.Parse(time.RFC3339, event.Date); err == nil {
			reg.ExpirationDate = &parsed
		}
	}

	for _, entity := range d.Entities {
		for _, role := range entity.Roles {
			if !strings.EqualFold(role, "registrar") {
				continue
			}

			if entity.VCard != nil {
				reg.Registrar = entity.VCard.Name()
			} else if entity.Handle != "" {
				reg.Registrar = entity.Handle
			}

			break
		}
	}

	return reg
}
