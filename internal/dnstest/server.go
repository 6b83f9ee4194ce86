// Package dnstest provides an in-process DNS server backed by a mutable zone for tests
package dnstest

import (
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/miekg/dns"
)

// maxChase bounds CNAME chasing for A queries so cyclic zones still answer
const maxChase = 16

// defaultTTL is the TTL stamped on every synthesized record
const defaultTTL = 300

// Zone is a dns.Handler that answers from in-memory records.
// It acts as a recursive resolver for queries with RD set and as an authoritative server otherwise.
type Zone struct {
	mu sync.RWMutex

	cname     map[string]string
	a         map[string][]string
	aaaa      map[string][]string
	ns        map[string][]string
	exists    map[string]bool
	wildcards map[string][]string
	servfail  map[string]bool
	failOnce  map[string]int
	refused   map[string]bool
	drop      map[string]bool
	queries   map[string]int
}

// NewZone returns an empty zone
func NewZone() *Zone {
	return &Zone{
		cname:     make(map[string]string),
		a:         make(map[string][]string),
		aaaa:      make(map[string][]string),
		ns:        make(map[string][]string),
		exists:    make(map[string]bool),
		wildcards: make(map[string][]string),
		servfail:  make(map[string]bool),
		failOnce:  make(map[string]int),
		refused:   make(map[string]bool),
		drop:      make(map[string]bool),
		queries:   make(map[string]int),
	}
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

// CNAME adds an alias from name to target
func (z *Zone) CNAME(name, target string) *Zone {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.cname[canonical(name)] = canonical(target)

	return z
}

// A adds IPv4 addresses for name
func (z *Zone) A(name string, ips ...string) *Zone {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.a[canonical(name)] = append(z.a[canonical(name)], ips...)

	return z
}

// AAAA adds IPv6 addresses for name
func (z *Zone) AAAA(name string, ips ...string) *Zone {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.aaaa[canonical(name)] = append(z.aaaa[canonical(name)], ips...)

	return z
}

// NS delegates name to the given nameserver hosts
func (z *Zone) NS(name string, hosts ...string) *Zone {
	z.mu.Lock()
	defer z.mu.Unlock()

	for _, h := range hosts {
		z.ns[canonical(name)] = append(z.ns[canonical(name)], canonical(h))
	}

	return z
}

// Exists marks name as present without any CNAME or A data, such as a TXT-only name
func (z *Zone) Exists(name string) *Zone {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.exists[canonical(name)] = true

	return z
}

// Wildcard makes every undefined name under zone answer A queries with ips
func (z *Zone) Wildcard(zone string, ips ...string) *Zone {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.wildcards[canonical(zone)] = ips

	return z
}

// ServFail makes recursive queries for name fail with SERVFAIL
func (z *Zone) ServFail(name string) *Zone {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.servfail[canonical(name)] = true

	return z
}

// ServFailTimes makes the next n queries for name fail with SERVFAIL
func (z *Zone) ServFailTimes(name string, n int) *Zone {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.failOnce[canonical(name)] = n

	return z
}

// Refuse makes authoritative SOA queries for name answer REFUSED
func (z *Zone) Refuse(name string) *Zone {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.refused[canonical(name)] = true

	return z
}

// Drop silently discards every query for name so clients time out
func (z *Zone) Drop(name string) *Zone {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.drop[canonical(name)] = true

	return z
}

// Queries returns how many queries of any type were received for name
func (z *Zone) Queries(name string) int {
	z.mu.RLock()
	defer z.mu.RUnlock()

	return z.queries[canonical(name)]
}

// ServeDNS implements dns.Handler
func (z *Zone) ServeDNS(w dns.ResponseWriter, r *dns.Msg) {
	msg := new(dns.Msg)
	msg.SetReply(r)

	if len(r.Question) == 0 {
		_ = w.WriteMsg(msg)
		return
	}

	q := r.Question[0]
	name := canonical(q.Name)

	z.mu.Lock()
	z.queries[name]++
	dropped := z.drop[name]
	failing := z.servfail[name] && r.RecursionDesired
	if n := z.failOnce[name]; n > 0 {
		z.failOnce[name] = n - 1
		failing = true
	}
	z.mu.Unlock()

	if dropped {
		return
	}

	if failing {
		msg.Rcode = dns.RcodeServerFailure
		_ = w.WriteMsg(msg)

		return
	}

	z.mu.RLock()
	defer z.mu.RUnlock()

	switch q.Qtype {
	case dns.TypeA:
		z.answerA(msg, name)
	case dns.TypeAAAA:
		z.answerAAAA(msg, name)
	case dns.TypeCNAME:
		if target, ok := z.cname[name]; ok {
			msg.Answer = append(msg.Answer, cnameRR(name, target))
		} else if !z.known(name) {
			msg.Rcode = dns.RcodeNameError
		}
	case dns.TypeNS:
		z.answerNS(msg, name, r.RecursionDesired)
	case dns.TypeSOA:
		switch {
		case z.refused[name]:
			msg.Rcode = dns.RcodeRefused
		case len(z.ns[name]) > 0:
			msg.Authoritative = true
			msg.Answer = append(msg.Answer, &dns.SOA{
				Hdr:    dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeSOA, Class: dns.ClassINET, Ttl: defaultTTL},
				Ns:     dns.Fqdn(z.ns[name][0]),
				Mbox:   dns.Fqdn("hostmaster." + name),
				Serial: 1,
			})
		case !z.known(name):
			msg.Rcode = dns.RcodeNameError
		}
	default:
		if !z.known(name) {
			msg.Rcode = dns.RcodeNameError
		}
	}

	_ = w.WriteMsg(msg)
}

func (z *Zone) answerA(msg *dns.Msg, name string) {
	current := name

	for range maxChase {
		target, ok := z.cname[current]
		if !ok {
			break
		}

		msg.Answer = append(msg.Answer, cnameRR(current, target))
		current = target
	}

	if _, still := z.cname[current]; still {
		msg.Rcode = dns.RcodeServerFailure
		return
	}

	ips := z.addresses(current)
	if len(ips) == 0 {
		if !z.known(current) {
			msg.Rcode = dns.RcodeNameError
		}

		return
	}

	for _, ip := range ips {
		msg.Answer = append(msg.Answer, &dns.A{
			Hdr: dns.RR_Header{Name: dns.Fqdn(current), Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: defaultTTL},
			A:   net.ParseIP(ip).To4(),
		})
	}
}

func (z *Zone) answerAAAA(msg *dns.Msg, name string) {
	if target, ok := z.cname[name]; ok {
		msg.Answer = append(msg.Answer, cnameRR(name, target))
		return
	}

	for _, ip := range z.aaaa[name] {
		msg.Answer = append(msg.Answer, &dns.AAAA{
			Hdr:  dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: defaultTTL},
			AAAA: net.ParseIP(ip).To16(),
		})
	}

	if len(msg.Answer) == 0 && !z.known(name) {
		msg.Rcode = dns.RcodeNameError
	}
}

func (z *Zone) answerNS(msg *dns.Msg, name string, recursive bool) {
	hosts, delegated := z.ns[name]

	switch {
	case delegated && recursive:
		for _, h := range hosts {
			msg.Answer = append(msg.Answer, nsRR(name, h))
		}
	case delegated:
		for _, h := range hosts {
			msg.Ns = append(msg.Ns, nsRR(name, h))
		}
	case z.cname[name] != "":
		msg.Answer = append(msg.Answer, cnameRR(name, z.cname[name]))
	case !z.known(name):
		msg.Rcode = dns.RcodeNameError
	}
}

// addresses returns explicit A data for name or the covering wildcard's
func (z *Zone) addresses(name string) []string {
	if ips, ok := z.a[name]; ok {
		return ips
	}

	if z.exists[name] || len(z.ns[name]) > 0 {
		return nil
	}

	for zone, ips := range z.wildcards {
		if strings.HasSuffix(name, "."+zone) {
			return ips
		}
	}

	return nil
}

// known reports whether name exists in the zone in any form
func (z *Zone) known(name string) bool {
	if _, ok := z.cname[name]; ok {
		return true
	}

	if _, ok := z.a[name]; ok {
		return true
	}

	if _, ok := z.aaaa[name]; ok {
		return true
	}

	if _, ok := z.ns[name]; ok {
		return true
	}

	if z.exists[name] {
		return true
	}

	for zone := range z.wildcards {
		if name == zone || strings.HasSuffix(name, "."+zone) {
			return true
		}
	}

	return false
}

func cnameRR(name, target string) dns.RR {
	return &dns.CNAME{
		Hdr:    dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeCNAME, Class: dns.ClassINET, Ttl: defaultTTL},
		Target: dns.Fqdn(target),
	}
}

func nsRR(name, host string) dns.RR {
	return &dns.NS{
		Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: defaultTTL},
		Ns:  dns.Fqdn(host),
	}
}

// Start launches a UDP DNS server on a random loopback port serving handler and returns its address
func Start(tb testing.TB, handler dns.Handler) string {
	tb.Helper()

	addr, err := StartOn(tb, "127.0.0.1:0", handler)
	if err != nil {
		tb.Fatalf("failed to listen: %v", err)
	}

	return addr
}

// StartOn launches a UDP DNS server on addr serving handler; the error is returned so callers can skip
// when the address family is unavailable
func StartOn(tb testing.TB, addr string, handler dns.Handler) (string, error) {
	tb.Helper()

	pc, err := net.ListenPacket("udp", addr)
	if err != nil {
		return "", err
	}

	server := &dns.Server{
		PacketConn: pc,
		Handler:    handler,
	}

	go func() { _ = server.ActivateAndServe() }()

	tb.Cleanup(func() { _ = server.Shutdown() })

	return pc.LocalAddr().String(), nil
}

// Port returns the port portion of a host:port address
func Port(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}

	return port
}
