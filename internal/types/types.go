package types

import (
	"strings"
	"time"
)

// Verdict is the discrete takeover classification assigned to a finding
type Verdict string

const (
	// VerdictConfirmed means the evidence is strong and corroborated by multiple signals
	VerdictConfirmed Verdict = "CONFIRMED"
	// VerdictHighlyLikely means the evidence is strong but may rest on a single signal
	VerdictHighlyLikely Verdict = "HIGHLY_LIKELY"
	// VerdictLikely means a takeover is plausible and worth manual verification
	VerdictLikely Verdict = "LIKELY"
	// VerdictPossible means weak evidence that should be triaged
	VerdictPossible Verdict = "POSSIBLE"
	// VerdictSafe means no meaningful takeover evidence was found
	VerdictSafe Verdict = "SAFE"
)

// verdictRank orders verdicts from least to most severe
var verdictRank = map[Verdict]int{
	VerdictSafe:         0,
	VerdictPossible:     1,
	VerdictLikely:       2,
	VerdictHighlyLikely: 3,
	VerdictConfirmed:    4,
}

// Rank returns the severity rank of the verdict, with unknown verdicts ranked lowest
func (v Verdict) Rank() int {
	return verdictRank[v]
}

// AtLeast reports whether v is as severe as or more severe than other
func (v Verdict) AtLeast(other Verdict) bool {
	return v.Rank() >= other.Rank()
}

// Valid reports whether v is one of the known verdicts
func (v Verdict) Valid() bool {
	_, ok := verdictRank[v]
	return ok
}

// ParseVerdict normalizes s into a verdict; the result is not necessarily Valid
func ParseVerdict(s string) Verdict {
	return Verdict(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_"))
}

// Verdicts lists every verdict from most to least severe
func Verdicts() []Verdict {
	return []Verdict{VerdictConfirmed, VerdictHighlyLikely, VerdictLikely, VerdictPossible, VerdictSafe}
}

// RiskTier describes how damaging a takeover on a provider would be
type RiskTier string

const (
	RiskLow      RiskTier = "LOW"
	RiskMedium   RiskTier = "MEDIUM"
	RiskHigh     RiskTier = "HIGH"
	RiskCritical RiskTier = "CRITICAL"
	// RiskInfo is used for findings without a matched provider or actionable verdict
	RiskInfo RiskTier = "INFO"
)

// Valid reports whether the tier is one a fingerprint may declare
func (r RiskTier) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// SignalKind identifies the detection signal behind an evidence entry
type SignalKind string

const (
	SignalNSDead          SignalKind = "ns_dead"
	SignalCNAMENXDomain   SignalKind = "cname_nxdomain"
	SignalChainDangling   SignalKind = "chain_dangling"
	SignalErrorPattern    SignalKind = "error_pattern"
	SignalStatusMatch     SignalKind = "status_match"
	SignalSSLMismatch     SignalKind = "ssl_mismatch"
	SignalDanglingA       SignalKind = "dangling_a"
	SignalUnclaimed       SignalKind = "unclaimed_resource"
	SignalNoResponse      SignalKind = "no_response"
	SignalWildcard        SignalKind = "wildcard_penalty"
	SignalClaimedBranding SignalKind = "claimed_branding"
	SignalInfo            SignalKind = "info"
	SignalInvalidName     SignalKind = "invalid_name"
)

// Dangling reports whether the signal indicates a record pointing at a missing resource
func (k SignalKind) Dangling() bool {
	switch k {
	case SignalNSDead, SignalCNAMENXDomain, SignalChainDangling, SignalNoResponse, SignalDanglingA:
		return true
	default:
		return false
	}
}

// Informational reports whether the signal carries no weight and may repeat within a finding
func (k SignalKind) Informational() bool {
	return k == SignalInfo || k == SignalInvalidName
}

// Evidence is a single weighted observation contributing to a finding's confidence
type Evidence struct {
	Kind        SignalKind `json:"kind" example:"cname_nxdomain" description:"Signal that produced this evidence"`
	Weight      int        `json:"weight" example:"40" description:"Signed contribution to the confidence score"`
	Description string     `json:"description" example:"CNAME target ancient-river-1234.herokuapp.com returns NXDOMAIN" description:"Human-readable explanation"`
}

// ChainSummary is the serializable form of a CNAME chain
type ChainSummary struct {
	// Hosts starts with the subdomain itself followed by each CNAME target in order
	Hosts    []string `json:"hosts"`
	Terminal string   `json:"terminal" example:"NXDOMAIN"`
}

// Certificate holds the names presented by a TLS endpoint
type Certificate struct {
	Subject  string   `json:"subject,omitempty"`
	DNSNames []string `json:"dns_names,omitempty"`
}

// ProbeSummary is the serializable form of an HTTP/TLS probe
type ProbeSummary struct {
	Scheme      string            `json:"scheme,omitempty" example:"https"`
	StatusCode  int               `json:"status_code,omitempty" example:"404"`
	Headers     map[string]string `json:"headers,omitempty"`
	Certificate *Certificate      `json:"certificate,omitempty"`
	ElapsedMS   int64             `json:"elapsed_ms"`
	Error       string            `json:"error,omitempty"`
}

// Finding is the takeover assessment of a single candidate subdomain
type Finding struct {
	Subdomain         string        `json:"subdomain" example:"staging.example.com"`
	Provider          *string       `json:"provider"`
	Chain             ChainSummary  `json:"chain"`
	Addresses         []string      `json:"addresses,omitempty"`
	Nameservers       []string      `json:"nameservers,omitempty"`
	Probe             *ProbeSummary `json:"probe,omitempty"`
	Wildcard          bool          `json:"wildcard"`
	Evidence          []Evidence    `json:"evidence"`
	Confidence        int           `json:"confidence" example:"90"`
	Verdict           Verdict       `json:"verdict" example:"CONFIRMED"`
	RiskTier          RiskTier      `json:"risk_tier" example:"HIGH"`
	Remediation       string        `json:"remediation"`
	VerificationSteps []string      `json:"verification_steps,omitempty"`
}

// ProviderName returns the matched provider or an empty string
func (f *Finding) ProviderName() string {
	if f.Provider == nil {
		return ""
	}

	return *f.Provider
}

// Statistics summarizes a scan's findings
type Statistics struct {
	TotalCandidates int              `json:"total_candidates"`
	Live            int              `json:"live"`
	Providers       map[string]int   `json:"providers"`
	Verdicts        map[Verdict]int  `json:"verdicts"`
	RiskTiers       map[RiskTier]int `json:"risk_tiers"`
}

// ScanResult contains every finding produced by a scan, in candidate order
type ScanResult struct {
	ID              string     `json:"id"`
	ScannedAt       time.Time  `json:"scanned_at"`
	Duration        string     `json:"duration" example:"12.5s"`
	TotalCandidates int        `json:"total_candidates"`
	Findings        []Finding  `json:"findings"`
	Statistics      Statistics `json:"statistics"`
}
