// Package matcher attributes a CNAME chain to a hosting provider and gathers provider-specific evidence
package matcher

import (
	"net/http"
	"slices"

	"github.com/theopenlane/sentinel/internal/chain"
	"github.com/theopenlane/sentinel/internal/fingerprint"
	"github.com/theopenlane/sentinel/internal/probe"
	"github.com/theopenlane/sentinel/internal/score"
	"github.com/theopenlane/sentinel/internal/types"
)

// Attribution is the provider attribution for one candidate
type Attribution struct {
	// Fingerprint is the matched provider, nil when none matched
	Fingerprint *fingerprint.Fingerprint
	// Target is the chain host that matched a CNAME pattern
	Target string
	// Pattern is the CNAME pattern that matched
	Pattern string
	// ViaHeaders is set when the provider was identified from response headers alone
	ViaHeaders bool
	// Technology is the detected technology that identified the provider, when no CNAME or header fingerprint did
	Technology string
	// Evidence holds the provider evidence in the order it should be scored
	Evidence []types.Evidence
}

// Provider returns the matched provider key or nil
func (m *Attribution) Provider() *string {
	if m.Fingerprint == nil {
		return nil
	}

	name := m.Fingerprint.Provider

	return &name
}

// Match finds the provider of c, trying the terminal target first and then intermediates from last to first.
// When no target matches, response headers may still identify the provider, and after them the
// technologies detector reports, when detector is not nil.
func Match(table *fingerprint.Table, c *chain.Chain, res *probe.Result, detector Detector) Attribution {
	targets := slices.Clone(c.Targets())
	slices.Reverse(targets)

	for _, target := range targets {
		fp, pattern, ok := table.Lookup(target)
		if !ok {
			continue
		}

		return Attribution{
			Fingerprint: fp,
			Target:      target,
			Pattern:     pattern,
			Evidence:    responseEvidence(fp, res),
		}
	}

	if !res.Responded() {
		return Attribution{}
	}

	if fp, ok := table.MatchHeaders(res.Headers); ok {
		return Attribution{
			Fingerprint: fp,
			ViaHeaders:  true,
			Evidence:    []types.Evidence{score.Info("response headers identify %s", fp.Name())},
		}
	}

	if detector == nil {
		return Attribution{}
	}

	for _, detected := range technologies(detector, res.Headers, res.Body) {
		fp, ok := table.ByName(detected[1])
		if !ok {
			continue
		}

		return Attribution{
			Fingerprint: fp,
			Technology:  detected[0],
			Evidence:    []types.Evidence{score.Info("response fingerprint %s identifies %s", detected[0], fp.Name())},
		}
	}

	return Attribution{}
}

// responseEvidence compares the probe response with what fp serves for an unclaimed resource
func responseEvidence(fp *fingerprint.Fingerprint, res *probe.Result) []types.Evidence {
	if !res.Responded() {
		return nil
	}

	var evidence []types.Evidence

	pattern, errorMatched := fp.MatchError(res.Body)
	if errorMatched {
		evidence = append(evidence, score.NewEvidence(types.SignalErrorPattern, "%s response contains %q", fp.Name(), pattern))
	}

	if fp.MatchesStatus(res.StatusCode) {
		evidence = append(evidence, score.NewEvidence(types.SignalStatusMatch, "%s returned HTTP %d %s", fp.Name(), res.StatusCode, http.StatusText(res.StatusCode)))
	}

	if errorMatched || res.Body == "" {
		return evidence
	}

	if indicator, claimed := fp.MatchClaimed(res.Body); claimed {
		evidence = append(evidence, score.NewEvidence(types.SignalClaimedBranding, "%s branding %q present; the resource looks claimed", fp.Name(), indicator))
	} else if len(fp.ClaimedIndicators) > 0 {
		evidence = append(evidence, score.NewEvidence(types.SignalUnclaimed, "none of the %s branding markers are present", fp.Name()))
	}

	return evidence
}
