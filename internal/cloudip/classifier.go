// Package cloudip tells whether an address belongs to a public cloud provider
package cloudip

import (
	"net"
	"net/netip"

	"github.com/projectdiscovery/cdncheck"
	"github.com/rs/zerolog/log"
)

// staticRanges are the large, stable allocations of the elastic-IP providers, checked in order
var staticRanges = []struct {
	provider string
	cidrs    []string
}{
	{provider: "aws", cidrs: []string{
		"52.0.0.0/11", "54.0.0.0/9", "34.192.0.0/12", "18.0.0.0/11",
		"3.0.0.0/9", "13.0.0.0/10", "35.160.0.0/13",
	}},
	{provider: "azure", cidrs: []string{
		"13.64.0.0/11", "20.0.0.0/10", "40.64.0.0/10",
		"52.224.0.0/11", "104.40.0.0/13",
	}},
	{provider: "gcp", cidrs: []string{
		"34.64.0.0/10", "35.184.0.0/13", "104.196.0.0/14",
		"130.211.0.0/16", "146.148.0.0/17",
	}},
	{provider: "digitalocean", cidrs: []string{
		"104.131.0.0/16", "128.199.0.0/16", "139.59.0.0/16",
		"159.65.0.0/16", "167.99.0.0/16", "174.138.0.0/16",
	}},
}

// cloudItemType is the cdncheck category counted as cloud hosting
const cloudItemType = "cloud"

// IPChecker matches an address against a provider dataset, as cdncheck.Client does
type IPChecker interface {
	Check(ip net.IP) (matched bool, provider string, itemType string, err error)
}

type prefix struct {
	provider string
	prefix   netip.Prefix
}

// Classifier maps addresses to cloud providers
type Classifier struct {
	prefixes []prefix
	checker  IPChecker
}

// Option configures a Classifier
type Option func(*Classifier)

// WithChecker replaces the cdncheck dataset; nil restricts classification to the static ranges
func WithChecker(checker IPChecker) Option {
	return func(c *Classifier) {
		c.checker = checker
	}
}

// New builds a classifier from the static ranges plus the cdncheck dataset
func New(opts ...Option) *Classifier {
	c := &Classifier{
		checker: cdncheck.New(),
	}

	for _, r := range staticRanges {
		for _, cidr := range r.cidrs {
			c.prefixes = append(c.prefixes, prefix{provider: r.provider, prefix: netip.MustParsePrefix(cidr)})
		}
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Classify returns the cloud provider owning ip
func (c *Classifier) Classify(ip string) (string, bool) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "", false
	}

	addr = addr.Unmap()

	for _, p := range c.prefixes {
		if p.prefix.Contains(addr) {
			return p.provider, true
		}
	}

	if c.checker == nil {
		return "", false
	}

	matched, provider, itemType, err := c.checker.Check(net.IP(addr.AsSlice()))
	if err != nil {
		log.Debug().Err(err).Str("ip", ip).Msg("cdncheck lookup failed")
		return "", false
	}

	if matched && itemType == cloudItemType && provider != "" {
		return provider, true
	}

	return "", false
}

// ClassifyAny returns the first address in ips that belongs to a cloud provider
func (c *Classifier) ClassifyAny(ips []string) (ip string, provider string, ok bool) {
	for _, candidate := range ips {
		if provider, ok := c.Classify(candidate); ok {
			return candidate, provider, true
		}
	}

	return "", "", false
}
