package chain

import (
	"context"
	"fmt"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/sentinel/internal/resolver"
)

// fakeResolver answers from a fixed table and reports NXDOMAIN for anything else
type fakeResolver struct {
	cname map[string]string
	a     map[string][]string
	other map[string]resolver.Status
	calls int
}

func (f *fakeResolver) Resolve(_ context.Context, name string, qtype uint16) resolver.Record {
	f.calls++

	rec := resolver.Record{Name: name, Type: dns.TypeToString[qtype]}

	if status, ok := f.other[name]; ok {
		rec.Status = status
		return rec
	}

	switch qtype {
	case dns.TypeCNAME:
		if target, ok := f.cname[name]; ok {
			rec.Status = resolver.StatusOK
			rec.Values = []string{target}

			return rec
		}
	case dns.TypeA:
		if _, ok := f.cname[name]; ok {
			rec.Status = resolver.StatusNoAnswer
			return rec
		}

		if ips, ok := f.a[name]; ok {
			rec.Status = resolver.StatusOK
			rec.Values = ips

			return rec
		}
	}

	if _, ok := f.a[name]; ok {
		rec.Status = resolver.StatusNoAnswer
		return rec
	}

	rec.Status = resolver.StatusNXDomain

	return rec
}

func TestWalkTerminals(t *testing.T) {
	res := &fakeResolver{
		cname: map[string]string{
			"shop.example.com":   "shop.herokuapp.com",
			"blog.example.com":   "gone.provider.net",
			"loop-a.example.com": "loop-b.example.com",
			"loop-b.example.com": "loop-a.example.com",
			"self.example.com":   "self.example.com",
			"txt.example.com":    "txt-only.example.net",
		},
		a: map[string][]string{
			"shop.herokuapp.com":   {"192.0.2.1"},
			"apex.example.com":     {"192.0.2.2"},
			"txt-only.example.net": nil,
		},
		other: map[string]resolver.Status{
			"flaky.example.com": resolver.StatusTimeout,
		},
	}

	w := NewWalker(res)
	ctx := context.Background()

	cases := []struct {
		name     string
		terminal Terminal
		hosts    []string
	}{
		{name: "shop.example.com", terminal: TerminalARecord, hosts: []string{"shop.example.com", "shop.herokuapp.com"}},
		{name: "apex.example.com", terminal: TerminalARecord, hosts: []string{"apex.example.com"}},
		{name: "blog.example.com", terminal: TerminalNXDomain, hosts: []string{"blog.example.com", "gone.provider.net"}},
		{name: "nothing.example.com", terminal: TerminalNXDomain, hosts: []string{"nothing.example.com"}},
		{name: "loop-a.example.com", terminal: TerminalCycle, hosts: []string{"loop-a.example.com", "loop-b.example.com"}},
		{name: "self.example.com", terminal: TerminalCycle, hosts: []string{"self.example.com"}},
		{name: "txt.example.com", terminal: TerminalNonCNAME, hosts: []string{"txt.example.com", "txt-only.example.net"}},
		{name: "flaky.example.com", terminal: TerminalError, hosts: []string{"flaky.example.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := w.Walk(ctx, tc.name)

			assert.Equal(t, tc.terminal, c.Terminal)
			assert.Equal(t, tc.hosts, c.Summary().Hosts)
			assert.Equal(t, string(tc.terminal), c.Summary().Terminal)
		})
	}
}

func TestWalkAddresses(t *testing.T) {
	res := &fakeResolver{
		cname: map[string]string{"shop.example.com": "shop.herokuapp.com"},
		a:     map[string][]string{"shop.herokuapp.com": {"192.0.2.1", "192.0.2.2"}},
	}

	c := NewWalker(res).Walk(context.Background(), "shop.example.com")
	assert.Equal(t, []string{"192.0.2.1", "192.0.2.2"}, c.Addresses())
	assert.Equal(t, "shop.herokuapp.com", c.Last())

	missing := NewWalker(res).Walk(context.Background(), "missing.example.com")
	assert.Nil(t, missing.Addresses())
	assert.Equal(t, "missing.example.com", missing.Last())
}

func TestWalkStopsAtMaxDepth(t *testing.T) {
	res := &fakeResolver{cname: map[string]string{}}

	// an endless chain of distinct names
	for i := range 50 {
		res.cname[fmt.Sprintf("h%d.example.com", i)] = fmt.Sprintf("h%d.example.com", i+1)
	}

	c := NewWalker(res, WithMaxDepth(4)).Walk(context.Background(), "h0.example.com")

	require.Equal(t, TerminalMaxDepth, c.Terminal)
	assert.Len(t, c.Hops, 4)
	assert.Equal(t, 5, res.calls)

	def := NewWalker(res).Walk(context.Background(), "h0.example.com")
	assert.Equal(t, TerminalMaxDepth, def.Terminal)
	assert.Len(t, def.Hops, DefaultMaxDepth)
}

func TestWalkNeverRepeatsTargets(t *testing.T) {
	res := &fakeResolver{
		cname: map[string]string{
			"a.example.com": "b.example.com",
			"b.example.com": "c.example.com",
			"c.example.com": "b.example.com",
		},
	}

	c := NewWalker(res).Walk(context.Background(), "a.example.com")
	require.Equal(t, TerminalCycle, c.Terminal)

	seen := map[string]bool{}
	for _, target := range c.Targets() {
		assert.False(t, seen[target], "target %s repeated", target)
		seen[target] = true
	}
}

func TestDanglingLinks(t *testing.T) {
	res := &fakeResolver{
		cname: map[string]string{
			"cdn.example.com":       "edge.old-cdn.net",
			"edge.old-cdn.net":      "pool.old-cdn.net",
			"pool.old-cdn.net":      "origin.bucket.example",
			"origin.bucket.example": "gone.bucket.example",
		},
		other: map[string]resolver.Status{},
	}

	w := NewWalker(res)
	c := w.Walk(context.Background(), "cdn.example.com")
	require.Equal(t, TerminalNXDomain, c.Terminal)
	require.Len(t, c.Hops, 4)

	// intermediates with a CNAME report NO_ANSWER for A in this fake, so mark two of them gone
	delete(res.cname, "edge.old-cdn.net")
	delete(res.cname, "origin.bucket.example")

	assert.Equal(t, []string{"edge.old-cdn.net", "origin.bucket.example"}, w.DanglingLinks(context.Background(), c))

	short := &Chain{Name: "x.example.com", Hops: c.Hops[:1]}
	assert.Nil(t, w.DanglingLinks(context.Background(), short))
}
