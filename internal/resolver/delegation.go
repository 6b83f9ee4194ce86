package resolver

import (
	"context"
	"net"

	"github.com/miekg/dns"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/theopenlane/sentinel/internal/domain"
)

// Delegation describes the nameservers a name is delegated to and which of them no longer serve it
type Delegation struct {
	// Nameservers lists the delegated NS hosts
	Nameservers []string `json:"nameservers,omitempty"`
	// DeadNameservers lists the NS hosts that do not resolve or do not answer for the name
	DeadNameservers []string `json:"dead_nameservers,omitempty"`
	// Dead is set when at least one NS host exists and every one of them is dead
	Dead bool `json:"dead"`
}

// Delegation inspects the NS delegation of name.
// Lame delegations usually SERVFAIL through a recursive resolver, so the referral is then read from the parent zone.
func (r *Resolver) Delegation(ctx context.Context, name string) Delegation {
	name = canonical(name)

	rec := r.Resolve(ctx, name, dns.TypeNS)

	var hosts []string

	switch {
	case rec.OK():
		hosts = rec.Values
	case rec.Status == StatusServFail:
		hosts = r.referral(ctx, name)
	}

	hosts = lo.Uniq(hosts)
	if len(hosts) == 0 {
		return Delegation{}
	}

	d := Delegation{Nameservers: hosts}

	for _, host := range hosts {
		if !r.nameserverAlive(ctx, host, name) {
			d.DeadNameservers = append(d.DeadNameservers, host)
		}
	}

	d.Dead = len(d.DeadNameservers) == len(d.Nameservers)

	if d.Dead {
		log.Debug().Str("name", name).Strs("nameservers", hosts).Msg("all delegated nameservers are dead")
	}

	return d
}

// nameserverAlive reports whether host resolves and answers an SOA query for zone
func (r *Resolver) nameserverAlive(ctx context.Context, host, zone string) bool {
	addrs, known := r.hostAddresses(ctx, host)
	if !known {
		// unknown is not dead
		return true
	}

	for _, ip := range addrs {
		if r.authoritativeAnswer(ctx, ip, zone, dns.TypeSOA) != nil {
			return true
		}
	}

	return false
}

// hostAddresses resolves host to IPv4 addresses, falling back to IPv6 when the host has no A records.
// known is false when a lookup failed transiently and the host's addresses could not be determined.
func (r *Resolver) hostAddresses(ctx context.Context, host string) (addrs []string, known bool) {
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		rec := r.Resolve(ctx, host, qtype)

		switch {
		case rec.OK():
			return rec.Values, true
		case rec.Status.Transient():
			return nil, false
		case rec.Status != StatusNoAnswer:
			return nil, true
		}
	}

	return nil, true
}

// authoritativeAnswer sends a non-recursive query straight to a nameserver, retrying once on timeout.
// It returns nil unless the server answered NOERROR.
func (r *Resolver) authoritativeAnswer(ctx context.Context, ip, name string, qtype uint16) *dns.Msg {
	server := net.JoinHostPort(ip, r.nameserverPort)

	for range 2 {
		resp, err := r.exchange(ctx, server, name, qtype, false)

		status := statusFor(resp, err)
		if r.observer != nil {
			r.observer(dns.TypeToString[qtype], status)
		}

		switch status {
		case StatusOK:
			return resp
		case StatusTimeout:
			continue
		default:
			return nil
		}
	}

	return nil
}

// referral asks the authoritative servers of the nearest resolvable parent zone for the NS set of name
func (r *Resolver) referral(ctx context.Context, name string) []string {
	for _, parent := range domain.Parents(name) {
		parentNS := r.Resolve(ctx, parent, dns.TypeNS)
		if !parentNS.OK() {
			continue
		}

		for _, host := range parentNS.Values {
			addrs, _ := r.hostAddresses(ctx, host)

			for _, ip := range addrs {
				resp := r.authoritativeAnswer(ctx, ip, name, dns.TypeNS)
				if resp == nil {
					continue
				}

				hosts := append(answerValues(resp.Ns, dns.TypeNS), answerValues(resp.Answer, dns.TypeNS)...)
				if len(hosts) > 0 {
					return hosts
				}
			}
		}

		return nil
	}

	return nil
}
