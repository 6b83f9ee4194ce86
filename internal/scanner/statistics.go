package scanner

import (
	"github.com/samber/lo"

	"github.com/theopenlane/sentinel/internal/types"
)

// Statistics summarizes findings: how many responded over HTTP and how they are distributed by provider,
// verdict and risk tier
func Statistics(findings []types.Finding) types.Statistics {
	withProvider := lo.Filter(findings, func(f types.Finding, _ int) bool {
		return f.Provider != nil
	})

	return types.Statistics{
		TotalCandidates: len(findings),
		Live: lo.CountBy(findings, func(f types.Finding) bool {
			return f.Probe != nil && f.Probe.StatusCode != 0
		}),
		Providers: lo.CountValuesBy(withProvider, func(f types.Finding) string {
			return *f.Provider
		}),
		Verdicts: lo.CountValuesBy(findings, func(f types.Finding) types.Verdict {
			return f.Verdict
		}),
		RiskTiers: lo.CountValuesBy(findings, func(f types.Finding) types.RiskTier {
			return f.RiskTier
		}),
	}
}
