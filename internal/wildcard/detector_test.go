package wildcard

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/sentinel/internal/dnstest"
	"github.com/theopenlane/sentinel/internal/resolver"
)

// countingResolver answers for every name under wildcardZone and counts lookups
type countingResolver struct {
	wildcardZone string
	answers      int // remaining positive answers, negative for unlimited
	calls        atomic.Int32
	mu           sync.Mutex
}

func (c *countingResolver) Resolve(_ context.Context, name string, qtype uint16) resolver.Record {
	c.calls.Add(1)
	time.Sleep(5 * time.Millisecond)

	rec := resolver.Record{Name: name, Type: dns.TypeToString[qtype], Status: resolver.StatusNXDomain}

	if qtype != dns.TypeA || !strings.HasSuffix(name, "."+c.wildcardZone) {
		return rec
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.answers == 0 {
		return rec
	}

	if c.answers > 0 {
		c.answers--
	}

	rec.Status = resolver.StatusOK
	rec.Values = []string{"192.0.2.99"}

	return rec
}

func TestDetectAgainstZone(t *testing.T) {
	zone := dnstest.NewZone().
		Wildcard("apps.example.com", "192.0.2.50").
		A("www.example.com", "192.0.2.1")

	addr := dnstest.Start(t, zone)

	res, err := resolver.New(resolver.WithServers(addr), resolver.WithTimeout(200*time.Millisecond))
	require.NoError(t, err)

	d := NewDetector(res)
	ctx := context.Background()

	assert.True(t, d.Detect(ctx, "apps.example.com"))
	assert.False(t, d.Detect(ctx, "example.com"))
	assert.False(t, d.Detect(ctx, ""))
}

func TestDetectMemoizesPerZoneUnderConcurrency(t *testing.T) {
	res := &countingResolver{wildcardZone: "example.com", answers: -1}
	d := NewDetector(res)

	var wg sync.WaitGroup

	results := make([]bool, 20)

	for i := range results {
		wg.Go(func() {
			results[i] = d.Detect(context.Background(), "example.com")
		})
	}

	wg.Wait()

	for _, r := range results {
		assert.True(t, r)
	}

	// one A lookup for each of the two random labels
	assert.Equal(t, int32(2), res.calls.Load())

	assert.False(t, d.Detect(context.Background(), "other.org"))
	assert.True(t, d.Detect(context.Background(), "EXAMPLE.com."))
}

func TestDetectRequiresBothProbes(t *testing.T) {
	res := &countingResolver{wildcardZone: "example.com", answers: 1}
	d := NewDetector(res)

	assert.False(t, d.Detect(context.Background(), "example.com"))
}

func TestRandomLabel(t *testing.T) {
	a, b := randomLabel(), randomLabel()

	assert.Len(t, a, labelLength)
	assert.NotEqual(t, a, b)
}
