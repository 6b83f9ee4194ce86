// Package probe fetches a host over HTTPS or HTTP and records what it serves
package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/theopenlane/sentinel/internal/types"
)

const (
	// DefaultTimeout bounds a single HTTP request
	DefaultTimeout = 10 * time.Second
	// DefaultBodyLimit caps how much of a response body is sampled
	DefaultBodyLimit = 120 * 1024

	userAgent = "Mozilla/5.0 (compatible; Sentinel/1.0)"
)

// schemes are tried in order until one yields a response
var schemes = []string{"https", "http"}

// DialContextFunc matches net.Dialer.DialContext
type DialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Result is what a host served, if anything
type Result struct {
	// Scheme is the scheme that produced the response, empty when none did
	Scheme string
	// StatusCode is zero when no HTTP response arrived
	StatusCode int
	// Body is a truncated sample of the response body
	Body string
	// Headers are the response headers
	Headers http.Header
	// Certificate is the leaf certificate presented over TLS, if one was seen
	Certificate *types.Certificate
	// Elapsed covers every attempt
	Elapsed time.Duration
	// Error describes the last failure and is informational only
	Error string
}

// Responded reports whether any HTTP response arrived
func (r *Result) Responded() bool {
	return r != nil && r.StatusCode > 0
}

// Summary converts the result for a Finding
func (r *Result) Summary() *types.ProbeSummary {
	if r == nil {
		return nil
	}

	s := &types.ProbeSummary{
		Scheme:      r.Scheme,
		StatusCode:  r.StatusCode,
		Certificate: r.Certificate,
		ElapsedMS:   r.Elapsed.Milliseconds(),
		Error:       r.Error,
	}

	if len(r.Headers) > 0 {
		s.Headers = make(map[string]string, len(r.Headers))
		for k := range r.Headers {
			s.Headers[k] = r.Headers.Get(k)
		}
	}

	return s
}

// Prober performs rate-limited HTTP probes
type Prober struct {
	client    *http.Client
	timeout   time.Duration
	bodyLimit int64
	limiter   *rate.Limiter
	dial      DialContextFunc
	grabber   CertificateGrabber
	grabSet   bool
}

// Option configures a Prober
type Option func(*Prober)

// WithTimeout sets the per-request deadline
func WithTimeout(timeout time.Duration) Option {
	return func(p *Prober) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithLimiter shares a token bucket that every request waits on
func WithLimiter(limiter *rate.Limiter) Option {
	return func(p *Prober) {
		p.limiter = limiter
	}
}

// WithBodyLimit caps the sampled body size
func WithBodyLimit(limit int64) Option {
	return func(p *Prober) {
		if limit > 0 {
			p.bodyLimit = limit
		}
	}
}

// WithDialContext replaces the dialer used for every connection
func WithDialContext(dial DialContextFunc) Option {
	return func(p *Prober) {
		p.dial = dial
	}
}

// WithCertificateGrabber sets the fallback used when the TLS handshake fails; nil disables the fallback
func WithCertificateGrabber(grabber CertificateGrabber) Option {
	return func(p *Prober) {
		p.grabber = grabber
		p.grabSet = true
	}
}

// New creates a Prober. TLS verification is disabled so mismatched certificates can still be inspected.
func New(opts ...Option) *Prober {
	p := &Prober{
		timeout:   DefaultTimeout,
		bodyLimit: DefaultBodyLimit,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.dial == nil {
		p.dial = (&net.Dialer{Timeout: p.timeout}).DialContext
	}

	if !p.grabSet {
		p.grabber = NewTLSXGrabber(p.timeout)
	}

	p.client = &http.Client{
		Timeout: p.timeout,
		Transport: &http.Transport{
			DialContext:         p.dial,
			TLSHandshakeTimeout: p.timeout,
			DisableKeepAlives:   true,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec
				MinVersion:         tls.VersionTLS10,
			},
		},
		// the response of the candidate itself is what gets fingerprinted
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return p
}

// Probe fetches host over HTTPS, then HTTP. Connection failures produce a Result with StatusCode 0, never an error.
func (p *Prober) Probe(ctx context.Context, host string) *Result {
	start := time.Now()
	res := &Result{}

	for _, scheme := range schemes {
		resp, err := p.fetch(ctx, scheme, host)
		if err == nil {
			p.record(res, scheme, resp)
			break
		}

		res.Error = err.Error()

		if scheme == "https" && handshakeFailed(err) && p.grabber != nil {
			p.grabCertificate(ctx, host, res)
		}

		if ctx.Err() != nil {
			break
		}
	}

	res.Elapsed = time.Since(start)

	log.Debug().Str("host", host).Str("scheme", res.Scheme).Int("status", res.StatusCode).Dur("elapsed", res.Elapsed).Msg("probe finished")

	return res
}

// fetch performs one GET, retrying once when the attempt timed out
func (p *Prober) fetch(ctx context.Context, scheme, host string) (*http.Response, error) {
	target := fmt.Sprintf("%s://%s/", scheme, host)

	var lastErr error

	for range 2 {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("User-Agent", userAgent)

		resp, err := p.client.Do(req)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if ctx.Err() != nil || !isTimeout(err) {
			break
		}
	}

	return nil, lastErr
}

// record reads the sampled body and the TLS state of resp into res
func (p *Prober) record(res *Result, scheme string, resp *http.Response) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.bodyLimit))
	if err != nil {
		res.Error = err.Error()
	}

	res.Scheme = scheme
	res.StatusCode = resp.StatusCode
	res.Body = string(body)
	res.Headers = resp.Header

	if resp.TLS != nil && len(resp.TLS.PeerCertificates) > 0 {
		leaf := resp.TLS.PeerCertificates[0]
		res.Certificate = &types.Certificate{
			Subject:  leaf.Subject.CommonName,
			DNSNames: leaf.DNSNames,
		}
	}

	if res.StatusCode > 0 {
		res.Error = ""
	}
}

func (p *Prober) grabCertificate(ctx context.Context, host string, res *Result) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return
		}
	}

	cert, err := p.grabber.Grab(ctx, host)
	if err != nil {
		log.Debug().Err(err).Str("host", host).Msg("certificate grab failed")
		return
	}

	res.Certificate = cert
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// handshakeFailed reports whether a TCP connection was made but the TLS handshake did not complete,
// including when the port answered in plaintext
func handshakeFailed(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return false
	}

	if errors.Is(err, http.ErrSchemeMismatch) {
		return true
	}

	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}

	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return true
	}

	return strings.Contains(err.Error(), "tls: ")
}
