// Package wildcard detects zones that answer for arbitrary names
package wildcard

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/miekg/dns"
	"github.com/rs/zerolog/log"

	"github.com/theopenlane/sentinel/internal/resolver"
)

// labelLength is the size of the random label probed under a zone
const labelLength = 20

// Resolver is the lookup capability a Detector needs
type Resolver interface {
	Resolve(ctx context.Context, name string, qtype uint16) resolver.Record
}

// entry memoizes the answer for one zone
type entry struct {
	once     sync.Once
	wildcard bool
}

// Detector answers whether a zone has a wildcard record, probing each zone at most once.
// A Detector belongs to a single scan.
type Detector struct {
	res   Resolver
	mu    sync.Mutex
	zones map[string]*entry
}

// NewDetector returns an empty detector
func NewDetector(res Resolver) *Detector {
	return &Detector{
		res:   res,
		zones: make(map[string]*entry),
	}
}

// Detect reports whether zone answers for names that were never defined.
// Concurrent callers for the same zone wait for the first probe and share its answer.
func (d *Detector) Detect(ctx context.Context, zone string) bool {
	zone = strings.ToLower(strings.TrimSuffix(zone, "."))
	if zone == "" {
		return false
	}

	d.mu.Lock()
	e, ok := d.zones[zone]
	if !ok {
		e = &entry{}
		d.zones[zone] = e
	}
	d.mu.Unlock()

	e.once.Do(func() {
		e.wildcard = d.answers(ctx, zone) && d.answers(ctx, zone)

		if e.wildcard {
			log.Debug().Str("zone", zone).Msg("wildcard zone detected")
		}
	})

	return e.wildcard
}

// answers probes one fresh random label under zone
func (d *Detector) answers(ctx context.Context, zone string) bool {
	name := randomLabel() + "." + zone

	if d.res.Resolve(ctx, name, dns.TypeA).OK() {
		return true
	}

	return d.res.Resolve(ctx, name, dns.TypeCNAME).OK()
}

func randomLabel() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:labelLength]
}
