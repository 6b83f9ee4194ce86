package domain

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/publicsuffix"
)

const (
	// maxNameLength is the longest presentation-format hostname DNS allows
	maxNameLength = 253
	// maxLabelLength is the longest single DNS label
	maxLabelLength = 63
)

// Info contains parsed candidate hostname information
type Info struct {
	// Name is the normalized hostname
	Name string `json:"name"`
	// Subdomain holds the labels left of the registrable domain, if any
	Subdomain string `json:"subdomain,omitempty"`
	// Registrable is the effective TLD plus one label
	Registrable string `json:"registrable"`
	// Suffix is the public suffix of the name
	Suffix string `json:"suffix"`
	// Zone is the parent zone used for wildcard detection
	Zone string `json:"zone"`
}

// Normalize lower-cases a candidate and strips whitespace, any URL scheme, path, port, and trailing dot
func Normalize(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))

	if strings.Contains(input, "://") {
		if u, err := url.Parse(input); err == nil && u.Host != "" {
			input = u.Host
		}
	}

	if idx := strings.IndexAny(input, "/?#"); idx != -1 {
		input = input[:idx]
	}

	if idx := strings.LastIndex(input, ":"); idx != -1 {
		input = input[:idx]
	}

	input = strings.TrimPrefix(input, "*.")

	return strings.TrimSuffix(input, ".")
}

// Validate checks that name is a syntactically valid multi-label DNS hostname
func Validate(name string) error {
	if name == "" {
		return ErrEmptyName
	}

	if len(name) > maxNameLength {
		return fmt.Errorf("%w: %d characters", ErrNameTooLong, len(name))
	}

	if _, ok := dns.IsDomainName(name); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDomainFormat, name)
	}

	labels := strings.Split(name, ".")
	if len(labels) < 2 { //nolint:mnd
		return fmt.Errorf("%w: %q has a single label", ErrInvalidDomainFormat, name)
	}

	for _, label := range labels {
		if err := validateLabel(label); err != nil {
			return fmt.Errorf("%w: %q", err, name)
		}
	}

	return nil
}

// validateLabel enforces letters, digits, hyphens and underscores with no leading or trailing hyphen
func validateLabel(label string) error {
	if label == "" || len(label) > maxLabelLength {
		return ErrInvalidLabel
	}

	if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
		return ErrInvalidLabel
	}

	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return ErrInvalidLabel
		}
	}

	return nil
}

// Parse normalizes and validates a candidate hostname and splits it into its parts
func Parse(input string) (*Info, error) {
	name := Normalize(input)
	if err := Validate(name); err != nil {
		return nil, err
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomainFormat, err)
	}

	suffix, _ := publicsuffix.PublicSuffix(name)

	subdomain := ""
	if etld1 != name {
		subdomain = strings.TrimSuffix(name, "."+etld1)
	}

	return &Info{
		Name:        name,
		Subdomain:   subdomain,
		Registrable: etld1,
		Suffix:      suffix,
		Zone:        ParentZone(name),
	}, nil
}

// Registrable returns the effective TLD plus one for name, or name itself when it has none
func Registrable(name string) string {
	etld1, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return name
	}

	return etld1
}

// ParentZone returns the zone a wildcard record for name would live in.
// The immediate parent is used unless it is a public suffix, in which case the name is its own zone.
func ParentZone(name string) string {
	idx := strings.Index(name, ".")
	if idx == -1 || idx == len(name)-1 {
		return name
	}

	parent := name[idx+1:]
	if suffix, _ := publicsuffix.PublicSuffix(parent); suffix == parent {
		return name
	}

	return parent
}

// Parents returns every ancestor of name, nearest first, stopping at the registrable domain
func Parents(name string) []string {
	registrable := Registrable(name)

	var parents []string

	for current := name; current != registrable; {
		idx := strings.Index(current, ".")
		if idx == -1 {
			break
		}

		current = current[idx+1:]
		parents = append(parents, current)
	}

	return parents
}
