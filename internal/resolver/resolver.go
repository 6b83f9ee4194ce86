// Package resolver performs rate-limited DNS lookups with a per-scan answer cache
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/miekg/dns"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single DNS exchange
	DefaultTimeout = 5 * time.Second
	// DefaultCacheSize is the number of answers kept per scan
	DefaultCacheSize = 4096
	// defaultPort is used for servers and nameservers given without a port
	defaultPort = "53"
)

// DefaultServers are the recursive resolvers used when none are configured
var DefaultServers = []string{"8.8.8.8:53", "1.1.1.1:53"}

// QueryObserver receives the outcome of every completed lookup
type QueryObserver func(qtype string, status Status)

// Resolver issues DNS queries against a fixed set of recursive servers
type Resolver struct {
	client         *dns.Client
	servers        []string
	timeout        time.Duration
	limiter        *rate.Limiter
	cacheSize      int
	cache          *lru.Cache[string, Record]
	nameserverPort string
	observer       QueryObserver
}

// Option configures a Resolver
type Option func(*Resolver)

// WithServers sets the upstream recursive resolvers
func WithServers(servers ...string) Option {
	return func(r *Resolver) {
		r.servers = servers
	}
}

// WithTimeout sets the per-exchange deadline
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithLimiter shares a token bucket that every exchange waits on
func WithLimiter(limiter *rate.Limiter) Option {
	return func(r *Resolver) {
		r.limiter = limiter
	}
}

// WithCacheSize bounds the answer cache
func WithCacheSize(size int) Option {
	return func(r *Resolver) {
		if size > 0 {
			r.cacheSize = size
		}
	}
}

// WithNameserverPort sets the port used when querying authoritative nameservers directly
func WithNameserverPort(port string) Option {
	return func(r *Resolver) {
		if port != "" {
			r.nameserverPort = port
		}
	}
}

// WithObserver registers a callback for completed lookups
func WithObserver(observer QueryObserver) Option {
	return func(r *Resolver) {
		r.observer = observer
	}
}

// New creates a resolver; each scan should use its own so the cache never outlives it
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		servers:        DefaultServers,
		timeout:        DefaultTimeout,
		cacheSize:      DefaultCacheSize,
		nameserverPort: defaultPort,
	}

	for _, opt := range opts {
		opt(r)
	}

	if len(r.servers) == 0 {
		return nil, ErrNoServers
	}

	servers := make([]string, 0, len(r.servers))

	for _, s := range r.servers {
		addr, err := normalizeServer(s)
		if err != nil {
			return nil, err
		}

		servers = append(servers, addr)
	}

	r.servers = servers

	cache, err := lru.New[string, Record](r.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating answer cache: %w", err)
	}

	r.cache = cache
	r.client = &dns.Client{Net: "udp", Timeout: r.timeout}

	return r, nil
}

func normalizeServer(server string) (string, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidServer)
	}

	if _, _, err := net.SplitHostPort(server); err == nil {
		return server, nil
	}

	if net.ParseIP(strings.Trim(server, "[]")) == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidServer, server)
	}

	return net.JoinHostPort(strings.Trim(server, "[]"), defaultPort), nil
}

// Resolve looks up name for qtype, retrying once on the next server after a TIMEOUT or SERVFAIL.
// NXDOMAIN and empty answers are ordinary statuses, never errors.
func (r *Resolver) Resolve(ctx context.Context, name string, qtype uint16) Record {
	name = canonical(name)
	key := fmt.Sprintf("%s/%d", name, qtype)

	if rec, ok := r.cache.Get(key); ok {
		return rec
	}

	var rec Record

	for attempt := range 2 {
		server := r.servers[attempt%len(r.servers)]

		resp, err := r.exchange(ctx, server, name, qtype, true)
		rec = recordFor(name, qtype, resp, err)

		if !rec.Status.Transient() {
			break
		}

		log.Debug().Str("name", name).Str("type", rec.Type).Str("status", string(rec.Status)).Int("attempt", attempt+1).Msg("transient dns failure")
	}

	if r.observer != nil {
		r.observer(rec.Type, rec.Status)
	}

	if !rec.Status.Transient() {
		r.cache.Add(key, rec)
	}

	return rec
}

// exchange sends a single query to server after waiting on the limiter
func (r *Resolver) exchange(ctx context.Context, server, name string, qtype uint16, recursive bool) (*dns.Msg, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}

	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = recursive

	resp, _, err := r.client.ExchangeContext(qctx, msg, server)

	return resp, err
}

// statusFor classifies an exchange outcome before looking at the answers
func statusFor(resp *dns.Msg, err error) Status {
	if err != nil {
		var netErr net.Error

		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), errors.Is(err, ErrRateLimited):
			return StatusTimeout
		case errors.As(err, &netErr) && netErr.Timeout():
			return StatusTimeout
		default:
			return StatusServFail
		}
	}

	switch resp.Rcode {
	case dns.RcodeSuccess:
		return StatusOK
	case dns.RcodeNameError:
		return StatusNXDomain
	default:
		return StatusServFail
	}
}

func recordFor(name string, qtype uint16, resp *dns.Msg, err error) Record {
	rec := Record{
		Name:   name,
		Type:   dns.TypeToString[qtype],
		Status: statusFor(resp, err),
	}

	if rec.Status != StatusOK {
		return rec
	}

	rec.Values = answerValues(resp.Answer, qtype)
	if len(rec.Values) == 0 {
		rec.Status = StatusNoAnswer
	}

	return rec
}

// answerValues extracts the presentation data of every answer matching qtype
func answerValues(rrs []dns.RR, qtype uint16) []string {
	var values []string

	for _, rr := range rrs {
		if rr.Header().Rrtype != qtype {
			continue
		}

		switch v := rr.(type) {
		case *dns.CNAME:
			values = append(values, canonical(v.Target))
		case *dns.A:
			values = append(values, v.A.String())
		case *dns.AAAA:
			values = append(values, v.AAAA.String())
		case *dns.NS:
			values = append(values, canonical(v.Ns))
		case *dns.SOA:
			values = append(values, canonical(v.Ns))
		case *dns.TXT:
			values = append(values, strings.Join(v.Txt, ""))
		default:
			values = append(values, strings.TrimPrefix(rr.String(), rr.Header().String()))
		}
	}

	return values
}
