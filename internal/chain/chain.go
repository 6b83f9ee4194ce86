// Package chain follows CNAME chains to a terminal state
package chain

import (
	"context"

	"github.com/miekg/dns"
	"github.com/rs/zerolog/log"

	"github.com/theopenlane/sentinel/internal/resolver"
	"github.com/theopenlane/sentinel/internal/types"
)

// DefaultMaxDepth is the longest chain followed before giving up
const DefaultMaxDepth = 10

// Terminal is the state a chain walk stopped in
type Terminal string

const (
	// TerminalARecord means the chain ended at a name with addresses
	TerminalARecord Terminal = "A_RECORD"
	// TerminalNXDomain means the chain ended at a name that does not exist
	TerminalNXDomain Terminal = "NXDOMAIN"
	// TerminalNonCNAME means the chain ended at a name with neither a CNAME nor addresses
	TerminalNonCNAME Terminal = "NON_CNAME_ANSWER"
	// TerminalCycle means a target repeated
	TerminalCycle Terminal = "CYCLE"
	// TerminalMaxDepth means the hop limit was reached
	TerminalMaxDepth Terminal = "MAX_DEPTH"
	// TerminalError means a lookup kept failing
	TerminalError Terminal = "ERROR"
)

// Chain is the outcome of walking the CNAME records of Name
type Chain struct {
	// Name is the starting hostname
	Name string `json:"name"`
	// Hops holds each successful CNAME answer in order
	Hops []resolver.Record `json:"hops,omitempty"`
	// End is the lookup that stopped the walk
	End resolver.Record `json:"end"`
	// Terminal is the stop state
	Terminal Terminal `json:"terminal"`
}

// Targets returns the CNAME target of every hop
func (c *Chain) Targets() []string {
	targets := make([]string, 0, len(c.Hops))
	for _, h := range c.Hops {
		targets = append(targets, h.First())
	}

	return targets
}

// Last returns the final hostname reached, which is Name for a chain without hops
func (c *Chain) Last() string {
	if len(c.Hops) == 0 {
		return c.Name
	}

	return c.Hops[len(c.Hops)-1].First()
}

// Addresses returns the A values of the terminal name, if it resolved
func (c *Chain) Addresses() []string {
	if c.Terminal != TerminalARecord {
		return nil
	}

	return c.End.Values
}

// Summary flattens the chain for a Finding
func (c *Chain) Summary() types.ChainSummary {
	return types.ChainSummary{
		Hosts:    append([]string{c.Name}, c.Targets()...),
		Terminal: string(c.Terminal),
	}
}

// Resolver is the lookup capability a Walker needs
type Resolver interface {
	Resolve(ctx context.Context, name string, qtype uint16) resolver.Record
}

// Walker walks CNAME chains
type Walker struct {
	res      Resolver
	maxDepth int
}

// Option configures a Walker
type Option func(*Walker)

// WithMaxDepth sets the hop limit
func WithMaxDepth(depth int) Option {
	return func(w *Walker) {
		if depth > 0 {
			w.maxDepth = depth
		}
	}
}

// NewWalker returns a Walker using res for lookups
func NewWalker(res Resolver, opts ...Option) *Walker {
	w := &Walker{
		res:      res,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Walk follows CNAMEs from name until a terminal state; it always terminates within maxDepth+1 CNAME lookups
func (w *Walker) Walk(ctx context.Context, name string) *Chain {
	c := &Chain{Name: name}
	visited := map[string]struct{}{name: {}}
	current := name

	for {
		rec := w.res.Resolve(ctx, current, dns.TypeCNAME)

		switch rec.Status {
		case resolver.StatusOK:
			target := rec.First()

			if _, seen := visited[target]; seen {
				return c.stop(rec, TerminalCycle)
			}

			if len(c.Hops) == w.maxDepth {
				return c.stop(rec, TerminalMaxDepth)
			}

			visited[target] = struct{}{}
			c.Hops = append(c.Hops, rec)
			current = target
		case resolver.StatusNXDomain:
			return c.stop(rec, TerminalNXDomain)
		case resolver.StatusNoAnswer:
			return w.resolveEnd(ctx, c, current)
		default:
			return c.stop(rec, TerminalError)
		}
	}
}

// resolveEnd classifies a name that has no CNAME by its A records
func (w *Walker) resolveEnd(ctx context.Context, c *Chain, name string) *Chain {
	rec := w.res.Resolve(ctx, name, dns.TypeA)

	switch {
	case rec.OK():
		return c.stop(rec, TerminalARecord)
	case rec.Status == resolver.StatusNXDomain:
		return c.stop(rec, TerminalNXDomain)
	case rec.Status.Transient():
		return c.stop(rec, TerminalError)
	default:
		return c.stop(rec, TerminalNonCNAME)
	}
}

func (c *Chain) stop(end resolver.Record, terminal Terminal) *Chain {
	c.End = end
	c.Terminal = terminal

	log.Debug().Str("name", c.Name).Int("hops", len(c.Hops)).Str("terminal", string(terminal)).Msg("chain walk finished")

	return c
}

// DanglingLinks returns every intermediate target, all but the last, whose A lookup is NXDOMAIN
func (w *Walker) DanglingLinks(ctx context.Context, c *Chain) []string {
	targets := c.Targets()
	if len(targets) < 2 {
		return nil
	}

	var dangling []string

	for _, target := range targets[:len(targets)-1] {
		if rec := w.res.Resolve(ctx, target, dns.TypeA); rec.Status == resolver.StatusNXDomain {
			dangling = append(dangling, target)
		}
	}

	return dangling
}
