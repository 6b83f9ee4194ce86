package scanner

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/theopenlane/sentinel/internal/chain"
	"github.com/theopenlane/sentinel/internal/domain"
	"github.com/theopenlane/sentinel/internal/matcher"
	"github.com/theopenlane/sentinel/internal/probe"
	"github.com/theopenlane/sentinel/internal/resolver"
	"github.com/theopenlane/sentinel/internal/score"
	"github.com/theopenlane/sentinel/internal/types"
)

// probeOutcomeNone labels probes that got no HTTP response
const probeOutcomeNone = "none"

// analyze runs the full pipeline for one candidate. It always returns a finding.
func (r *run) analyze(ctx context.Context, candidate string) types.Finding {
	name := domain.Normalize(candidate)
	if err := domain.Validate(name); err != nil {
		return invalidFinding(candidate, err)
	}

	c := r.walker.Walk(ctx, name)
	delegation := r.resolver.Delegation(ctx, name)
	wildcard := r.wildcards.Detect(ctx, domain.ParentZone(name))

	res := r.prober.Probe(ctx, name)
	r.options.Metrics.Probe(lo.Ternary(res.Responded(), res.Scheme, probeOutcomeNone))

	attribution := matcher.Match(r.options.Fingerprints, c, res, r.options.Detector)

	evidence := r.collect(ctx, name, c, delegation, attribution, res)
	assessment := score.Score(evidence, attribution.Fingerprint, wildcard)

	finding := types.Finding{
		Subdomain:   name,
		Provider:    attribution.Provider(),
		Chain:       c.Summary(),
		Addresses:   c.Addresses(),
		Nameservers: delegation.Nameservers,
		Probe:       res.Summary(),
		Wildcard:    wildcard,
		Evidence:    assessment.Evidence,
		Confidence:  assessment.Confidence,
		Verdict:     assessment.Verdict,
		RiskTier:    RiskTier(assessment.Verdict),
	}

	finding.Remediation = Remediation(finding.Verdict, delegation.Dead, attribution.Fingerprint)
	finding.VerificationSteps = VerificationSteps(finding.Verdict, name, delegation.Dead, attribution.Fingerprint, c.Last())

	log.Debug().Str("subdomain", name).Str("terminal", string(c.Terminal)).Str("provider", finding.ProviderName()).
		Int("confidence", finding.Confidence).Str("verdict", string(finding.Verdict)).Msg("candidate analyzed")

	return finding
}

// collect gathers evidence in scoring order: delegation, chain, provider, then probe and address signals
func (r *run) collect(ctx context.Context, name string, c *chain.Chain, delegation resolver.Delegation,
	attribution matcher.Attribution, res *probe.Result) []types.Evidence {
	var evidence []types.Evidence

	if delegation.Dead {
		evidence = append(evidence, r.nsDead(ctx, delegation))
	}

	if c.Terminal == chain.TerminalNXDomain && len(c.Hops) > 0 {
		evidence = append(evidence, score.NewEvidence(types.SignalCNAMENXDomain, "CNAME target %s returns NXDOMAIN", c.Last()))
	}

	if links := r.walker.DanglingLinks(ctx, c); len(links) > 0 {
		evidence = append(evidence, score.ChainDangling(links))
	}

	evidence = append(evidence, attribution.Evidence...)

	if !res.Responded() && c.Terminal == chain.TerminalNXDomain {
		evidence = append(evidence, score.NewEvidence(types.SignalNoResponse, "no HTTP response from %s and its DNS does not resolve", name))
	}

	if res.Certificate != nil && probe.Mismatched(name, res.Certificate) {
		evidence = append(evidence, score.NewEvidence(types.SignalSSLMismatch, "certificate for %s does not cover %s",
			certificateNames(res.Certificate), name))
	}

	if c.Terminal == chain.TerminalARecord && !res.Responded() {
		if ip, provider, ok := r.options.Classifier.ClassifyAny(c.Addresses()); ok {
			evidence = append(evidence, score.NewEvidence(types.SignalDanglingA,
				"%s resolves to unreachable %s address %s", name, provider, ip))
		}
	}

	return evidence
}

// nsDead builds the ns_dead entry, noting nameserver domains that are no longer registered
func (r *run) nsDead(ctx context.Context, delegation resolver.Delegation) types.Evidence {
	e := score.NewEvidence(types.SignalNSDead, "every delegated nameserver is dead: %s",
		strings.Join(delegation.DeadNameservers, ", "))

	if r.options.Registration == nil {
		return e
	}

	registrable := lo.Uniq(lo.Map(delegation.DeadNameservers, func(ns string, _ int) string {
		return domain.Registrable(ns)
	}))

	var unregistered []string

	for _, d := range registrable {
		if err := r.limiter.Wait(ctx); err != nil {
			log.Debug().Err(err).Str("domain", d).Msg("registration lookup skipped")
			break
		}

		reg, err := r.options.Registration.Registration(ctx, d)
		if err != nil {
			log.Debug().Err(err).Str("domain", d).Msg("nameserver registration lookup failed")
			continue
		}

		if !reg.Registered {
			unregistered = append(unregistered, d)
		}
	}

	if len(unregistered) > 0 {
		e.Description += fmt.Sprintf(" (unregistered: %s)", strings.Join(unregistered, ", "))
	}

	return e
}

func certificateNames(cert *types.Certificate) string {
	names := lo.Compact(append([]string{cert.Subject}, cert.DNSNames...))
	if len(names) == 0 {
		return "<no names>"
	}

	return strings.Join(lo.Uniq(names), ", ")
}

// invalidFinding is the SAFE finding reported for a name that is not a valid hostname
func invalidFinding(candidate string, err error) types.Finding {
	return types.Finding{
		Subdomain: candidate,
		Chain:     types.ChainSummary{Hosts: []string{candidate}, Terminal: string(chain.TerminalError)},
		Evidence: []types.Evidence{{
			Kind:        types.SignalInvalidName,
			Description: fmt.Sprintf("not a valid DNS name: %v", err),
		}},
		Verdict:     types.VerdictSafe,
		RiskTier:    types.RiskInfo,
		Remediation: "Correct or remove the invalid name from the candidate list.",
	}
}
