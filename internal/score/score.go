// Package score turns weighted evidence into a confidence score and verdict
package score

import (
	"fmt"

	"github.com/theopenlane/sentinel/internal/fingerprint"
	"github.com/theopenlane/sentinel/internal/types"
)

const (
	// MaxScore is the upper clamp bound
	MaxScore = 100
	// MinScore is the lower clamp bound
	MinScore = 0
	// ChainDanglingCap bounds the aggregate chain_dangling contribution
	ChainDanglingCap = 70
	// NoTakeoverCap bounds the score of providers that cannot be claimed by a third party
	NoTakeoverCap = 30
	// minConfirmedKinds is the number of distinct positive signals a CONFIRMED verdict needs
	minConfirmedKinds = 2
)

// Weights holds the contribution of every scored signal
var Weights = map[types.SignalKind]int{
	types.SignalNSDead:          50,
	types.SignalCNAMENXDomain:   40,
	types.SignalChainDangling:   35,
	types.SignalErrorPattern:    30,
	types.SignalStatusMatch:     20,
	types.SignalSSLMismatch:     15,
	types.SignalDanglingA:       15,
	types.SignalUnclaimed:       10,
	types.SignalNoResponse:      10,
	types.SignalWildcard:        -20,
	types.SignalClaimedBranding: -15,
}

// thresholds map minimum scores to verdicts, checked in order
var thresholds = []struct {
	min     int
	verdict types.Verdict
}{
	{min: 80, verdict: types.VerdictConfirmed},
	{min: 60, verdict: types.VerdictHighlyLikely},
	{min: 40, verdict: types.VerdictLikely},
	{min: 20, verdict: types.VerdictPossible},
}

// NewEvidence builds an evidence entry carrying the standard weight of kind
func NewEvidence(kind types.SignalKind, format string, args ...any) types.Evidence {
	return types.Evidence{
		Kind:        kind,
		Weight:      Weights[kind],
		Description: fmt.Sprintf(format, args...),
	}
}

// ChainDangling builds the single chain_dangling entry for links dangling intermediate targets
func ChainDangling(links []string) types.Evidence {
	weight := min(len(links)*Weights[types.SignalChainDangling], ChainDanglingCap)

	return types.Evidence{
		Kind:        types.SignalChainDangling,
		Weight:      weight,
		Description: fmt.Sprintf("%d intermediate CNAME target(s) return NXDOMAIN: %v", len(links), links),
	}
}

// Info builds a weightless informational entry
func Info(format string, args ...any) types.Evidence {
	return types.Evidence{
		Kind:        types.SignalInfo,
		Description: fmt.Sprintf(format, args...),
	}
}

// Assessment is the scored outcome of a set of evidence
type Assessment struct {
	// Evidence is the deduplicated evidence actually applied, plus any entries the engine added
	Evidence []types.Evidence
	// Confidence is the final score in [0,100]
	Confidence int
	// Verdict is the classification derived from Confidence
	Verdict types.Verdict
}

func clamp(v int) int {
	return max(MinScore, min(MaxScore, v))
}

// Score applies evidence in order and derives the verdict.
// Duplicate kinds after the first are ignored, the total is clamped after every step,
// the wildcard penalty applies once and only alongside a dangling signal,
// and a provider that cannot be taken over caps the clamped total.
func Score(evidence []types.Evidence, provider *fingerprint.Fingerprint, wildcard bool) Assessment {
	var (
		applied  []types.Evidence
		total    int
		seen     = make(map[types.SignalKind]struct{}, len(evidence))
		positive = make(map[types.SignalKind]struct{}, len(evidence))
		dangling bool
	)

	for _, e := range evidence {
		if !e.Kind.Informational() {
			if _, dup := seen[e.Kind]; dup {
				continue
			}

			seen[e.Kind] = struct{}{}
		}

		if e.Kind == types.SignalChainDangling {
			e.Weight = min(e.Weight, ChainDanglingCap)
		}

		if e.Kind == types.SignalWildcard {
			// only the engine decides when the penalty applies
			continue
		}

		applied = append(applied, e)
		total = clamp(total + e.Weight)

		if e.Weight > 0 {
			positive[e.Kind] = struct{}{}
		}

		if e.Kind.Dangling() {
			dangling = true
		}
	}

	if wildcard && dangling {
		penalty := NewEvidence(types.SignalWildcard, "zone answers for random labels; dangling signals are less reliable")
		applied = append(applied, penalty)
		total = clamp(total + penalty.Weight)
	}

	if provider != nil && !provider.CanTakeover {
		total = min(total, NoTakeoverCap)
		applied = append(applied, Info("%s does not allow claiming released resources; score capped at %d", provider.Name(), NoTakeoverCap))
	}

	verdict := Verdict(total)
	if verdict == types.VerdictConfirmed && len(positive) < minConfirmedKinds {
		verdict = types.VerdictHighlyLikely
	}

	return Assessment{
		Evidence:   applied,
		Confidence: total,
		Verdict:    verdict,
	}
}

// Verdict maps a score to its verdict without the corroboration rule
func Verdict(score int) types.Verdict {
	for _, t := range thresholds {
		if score >= t.min {
			return t.verdict
		}
	}

	return types.VerdictSafe
}
