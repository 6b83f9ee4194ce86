package fingerprint

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// entry is one CNAME pattern in the prioritized match table
type entry struct {
	// pattern is the normalized pattern text
	pattern string
	// embedded patterns match anywhere on a label boundary instead of only as a suffix
	embedded bool
	// fingerprint is the provider owning the pattern
	fingerprint *Fingerprint
}

// matches reports whether host falls under the pattern
func (e entry) matches(host string) bool {
	if e.embedded {
		return strings.Contains("."+host, e.pattern)
	}

	suffix := strings.TrimPrefix(e.pattern, ".")

	return host == suffix || strings.HasSuffix(host, "."+suffix)
}

// Table is an immutable, prioritized lookup structure over a set of fingerprints.
// Patterns are ordered longest first so the most specific pattern wins and ties resolve by provider name.
type Table struct {
	entries      []entry
	byName       map[string]*Fingerprint
	fingerprints []*Fingerprint
}

// NewTable validates the fingerprints and builds the lookup table
func NewTable(fps []Fingerprint) (*Table, error) {
	t := &Table{
		byName: make(map[string]*Fingerprint, len(fps)),
	}

	for i := range fps {
		fp := fps[i]
		fp.Provider = strings.ToLower(strings.TrimSpace(fp.Provider))

		if err := fp.Validate(); err != nil {
			return nil, err
		}

		if _, exists := t.byName[fp.Provider]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, fp.Provider)
		}

		t.byName[fp.Provider] = &fp
		t.fingerprints = append(t.fingerprints, &fp)

		for _, raw := range fp.CNAMEPatterns {
			pattern := normalizePattern(raw)
			if pattern == "" {
				continue
			}

			t.entries = append(t.entries, entry{
				pattern:     pattern,
				embedded:    strings.HasPrefix(pattern, ".") && (strings.HasSuffix(pattern, ".") || strings.HasSuffix(pattern, "-")),
				fingerprint: &fp,
			})
		}
	}

	sort.SliceStable(t.entries, func(i, j int) bool {
		a, b := t.entries[i], t.entries[j]
		if len(a.pattern) != len(b.pattern) {
			return len(a.pattern) > len(b.pattern)
		}

		if a.fingerprint.Provider != b.fingerprint.Provider {
			return a.fingerprint.Provider < b.fingerprint.Provider
		}

		return a.pattern < b.pattern
	})

	sort.Slice(t.fingerprints, func(i, j int) bool {
		return t.fingerprints[i].Provider < t.fingerprints[j].Provider
	})

	return t, nil
}

// MustTable builds a table from fingerprints known to be valid, panicking otherwise
func MustTable(fps []Fingerprint) *Table {
	t, err := NewTable(fps)
	if err != nil {
		panic(err)
	}

	return t
}

// Lookup returns the fingerprint owning host along with the pattern that matched
func (t *Table) Lookup(host string) (*Fingerprint, string, bool) {
	host = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))
	if host == "" {
		return nil, "", false
	}

	for _, e := range t.entries {
		if e.matches(host) {
			return e.fingerprint, e.pattern, true
		}
	}

	return nil, "", false
}

// ByName returns the fingerprint registered under provider
func (t *Table) ByName(provider string) (*Fingerprint, bool) {
	fp, ok := t.byName[strings.ToLower(provider)]
	return fp, ok
}

// MatchHeaders returns the first provider, by name, whose header fingerprint matches
func (t *Table) MatchHeaders(headers http.Header) (*Fingerprint, bool) {
	for _, fp := range t.fingerprints {
		if fp.MatchHeaders(headers) {
			return fp, true
		}
	}

	return nil, false
}

// Fingerprints returns a copy of every fingerprint sorted by provider
func (t *Table) Fingerprints() []Fingerprint {
	out := make([]Fingerprint, 0, len(t.fingerprints))
	for _, fp := range t.fingerprints {
		out = append(out, *fp)
	}

	return out
}

// Len returns the number of providers in the table
func (t *Table) Len() int {
	return len(t.fingerprints)
}

// Merge overlays custom fingerprints on base; a custom entry replaces a base entry with the same provider
func Merge(base, custom []Fingerprint) []Fingerprint {
	index := make(map[string]int, len(base))
	out := make([]Fingerprint, 0, len(base)+len(custom))

	for _, fp := range base {
		index[strings.ToLower(fp.Provider)] = len(out)
		out = append(out, fp)
	}

	for _, fp := range custom {
		key := strings.ToLower(strings.TrimSpace(fp.Provider))
		if i, ok := index[key]; ok {
			out[i] = fp
			continue
		}

		index[key] = len(out)
		out = append(out, fp)
	}

	return out
}
