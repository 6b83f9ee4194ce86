package scanner

import (
	"fmt"

	"github.com/theopenlane/sentinel/internal/fingerprint"
	"github.com/theopenlane/sentinel/internal/types"
)

// riskTiers maps verdicts to how urgently a finding should be handled
var riskTiers = map[types.Verdict]types.RiskTier{
	types.VerdictConfirmed:    types.RiskCritical,
	types.VerdictHighlyLikely: types.RiskHigh,
	types.VerdictLikely:       types.RiskMedium,
	types.VerdictPossible:     types.RiskLow,
}

// RiskTier returns the risk tier assigned to a verdict
func RiskTier(v types.Verdict) types.RiskTier {
	if tier, ok := riskTiers[v]; ok {
		return tier
	}

	return types.RiskInfo
}

// Remediation describes how to close the exposure behind a finding
func Remediation(v types.Verdict, nsDead bool, fp *fingerprint.Fingerprint) string {
	if v == types.VerdictSafe {
		return "No action required."
	}

	var action string

	switch {
	case nsDead:
		action = "Remove the NS delegation or repoint it at nameservers you operate."
	case fp != nil:
		action = fmt.Sprintf("Remove the DNS record or reclaim the referenced resource on %s.", fp.Name())
	default:
		action = "Remove the DNS record if the referenced resource is no longer in use."
	}

	switch v {
	case types.VerdictConfirmed, types.VerdictHighlyLikely:
		return "Act immediately. " + action
	case types.VerdictLikely:
		return "Verify manually and then act. " + action
	default:
		return "Review when convenient. " + action
	}
}

// VerificationSteps lists how to confirm a takeover by hand; only LIKELY and more severe findings get steps
func VerificationSteps(v types.Verdict, subdomain string, nsDead bool, fp *fingerprint.Fingerprint, target string) []string {
	if !v.AtLeast(types.VerdictLikely) {
		return nil
	}

	if nsDead {
		return []string{
			"1. Register the dead nameserver domain",
			"2. Set up DNS hosting on the claimed nameserver",
			fmt.Sprintf("3. Create DNS records for %s", subdomain),
			"4. Full DNS control achieved, any address can be served",
		}
	}

	console, resource := "provider console", "resource"

	if fp != nil {
		if fp.TakeoverURL != "" {
			console = fp.TakeoverURL
		}

		if fp.VerificationMethod != "" {
			resource = fp.VerificationMethod
		}
	}

	return []string{
		fmt.Sprintf("1. Navigate to %s", console),
		fmt.Sprintf("2. Create a new %s", resource),
		fmt.Sprintf("3. Point it to the CNAME: %s", target),
		fmt.Sprintf("4. Verify you can access content at http://%s", subdomain),
	}
}
