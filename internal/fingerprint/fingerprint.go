// Package fingerprint holds the registry of third-party providers whose dangling DNS records can be claimed
package fingerprint

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/theopenlane/sentinel/internal/types"
)

// Fingerprint describes how a third-party provider looks when a resource referenced by DNS is unclaimed
type Fingerprint struct {
	// Provider is the unique registry key (e.g. "heroku")
	Provider string `json:"provider"`
	// Service is the human-readable provider name
	Service string `json:"service,omitempty"`
	// CNAMEPatterns are hostname suffixes (or embedded label sequences ending in "." or "-") owned by the provider
	CNAMEPatterns []string `json:"cname_patterns"`
	// RiskTier rates the impact of a takeover on this provider
	RiskTier types.RiskTier `json:"risk_tier"`
	// CanTakeover reports whether anyone can register an unclaimed resource name on the provider
	CanTakeover bool `json:"can_takeover"`
	// ErrorPatterns are body substrings served for unclaimed resources
	ErrorPatterns []string `json:"error_patterns,omitempty"`
	// ClaimedIndicators are branding strings served by live, claimed resources
	ClaimedIndicators []string `json:"claimed_indicators,omitempty"`
	// StatusCodes are HTTP statuses served for unclaimed resources
	StatusCodes []int `json:"status_codes,omitempty"`
	// Headers identify the provider from response headers; an empty value only requires presence
	Headers map[string]string `json:"headers,omitempty"`
	// TakeoverURL is where a resource would be claimed
	TakeoverURL string `json:"takeover_url,omitempty"`
	// VerificationMethod names the resource to create when verifying a takeover
	VerificationMethod string `json:"verification_method,omitempty"`
}

// Name returns the display name of the provider
func (f *Fingerprint) Name() string {
	if f.Service != "" {
		return f.Service
	}

	return f.Provider
}

// Validate reports the first structural problem in the fingerprint
func (f *Fingerprint) Validate() error {
	if strings.TrimSpace(f.Provider) == "" {
		return ErrMissingProvider
	}

	patterns := lo.Filter(f.CNAMEPatterns, func(p string, _ int) bool {
		return normalizePattern(p) != ""
	})
	if len(patterns) == 0 && len(f.Headers) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingPatterns, f.Provider)
	}

	if !f.RiskTier.Valid() {
		return fmt.Errorf("%w: %s has %q", ErrInvalidRiskTier, f.Provider, f.RiskTier)
	}

	for _, code := range f.StatusCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("%w: %s has %d", ErrInvalidStatusCode, f.Provider, code)
		}
	}

	return nil
}

// MatchesStatus reports whether code is one of the provider's unclaimed-resource statuses
func (f *Fingerprint) MatchesStatus(code int) bool {
	return code != 0 && lo.Contains(f.StatusCodes, code)
}

// MatchError returns the first error pattern found in body, compared case-insensitively
func (f *Fingerprint) MatchError(body string) (string, bool) {
	return findFold(body, f.ErrorPatterns)
}

// MatchClaimed returns the first claimed-branding indicator found in body, compared case-insensitively
func (f *Fingerprint) MatchClaimed(body string) (string, bool) {
	return findFold(body, f.ClaimedIndicators)
}

// MatchHeaders reports whether every configured header is present and contains its expected value
func (f *Fingerprint) MatchHeaders(headers http.Header) bool {
	if len(f.Headers) == 0 || len(headers) == 0 {
		return false
	}

	for name, expected := range f.Headers {
		actual := headers.Get(name)
		if actual == "" {
			return false
		}

		if expected != "" && !strings.Contains(strings.ToLower(actual), strings.ToLower(expected)) {
			return false
		}
	}

	return true
}

func findFold(body string, needles []string) (string, bool) {
	if body == "" {
		return "", false
	}

	lower := strings.ToLower(body)
	for _, needle := range needles {
		if needle == "" {
			continue
		}

		if strings.Contains(lower, strings.ToLower(needle)) {
			return needle, true
		}
	}

	return "", false
}

// normalizePattern lower-cases a pattern and strips a root dot from fully-qualified names.
// Patterns with a leading dot keep a trailing one, which marks them as embedded label sequences.
func normalizePattern(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if !strings.HasPrefix(p, ".") {
		p = strings.TrimSuffix(p, ".")
	}

	return p
}
