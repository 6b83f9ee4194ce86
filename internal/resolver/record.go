package resolver

import "strings"

// Status is the outcome class of a single DNS lookup
type Status string

const (
	// StatusOK means the server answered with records of the requested type
	StatusOK Status = "OK"
	// StatusNXDomain means the name does not exist
	StatusNXDomain Status = "NXDOMAIN"
	// StatusServFail covers SERVFAIL, REFUSED and other server-side failures
	StatusServFail Status = "SERVFAIL"
	// StatusTimeout means no answer arrived before the deadline
	StatusTimeout Status = "TIMEOUT"
	// StatusNoAnswer means the name exists but has no records of the requested type
	StatusNoAnswer Status = "NO_ANSWER"
)

// Transient reports whether the status is worth retrying
func (s Status) Transient() bool {
	return s == StatusTimeout || s == StatusServFail
}

// Record is the immutable result of one lookup
type Record struct {
	// Name is the queried hostname without the trailing dot
	Name string `json:"name"`
	// Type is the query type mnemonic such as A or CNAME
	Type string `json:"type"`
	// Values holds the answer data in presentation format
	Values []string `json:"values,omitempty"`
	// Status is the outcome of the lookup
	Status Status `json:"status"`
}

// OK reports whether the record carries at least one answer
func (r Record) OK() bool {
	return r.Status == StatusOK && len(r.Values) > 0
}

// First returns the first answer value or an empty string
func (r Record) First() string {
	if len(r.Values) == 0 {
		return ""
	}

	return r.Values[0]
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
}
