package scanner

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/theopenlane/sentinel/internal/dnstest"
	"github.com/theopenlane/sentinel/internal/metrics"
	"github.com/theopenlane/sentinel/internal/probe"
	"github.com/theopenlane/sentinel/internal/rdap"
	"github.com/theopenlane/sentinel/internal/resolver"
	"github.com/theopenlane/sentinel/internal/types"
)

// httpOnly routes port 80 to addr and refuses everything else
func httpOnly(addr string) probe.DialContextFunc {
	return func(ctx context.Context, network, target string) (net.Conn, error) {
		_, port, err := net.SplitHostPort(target)
		if err != nil {
			return nil, err
		}

		if port != "80" || addr == "" {
			return nil, &net.OpError{Op: "dial", Net: network, Err: errors.New("connection refused")}
		}

		var d net.Dialer

		return d.DialContext(ctx, network, addr)
	}
}

// tlsOnly routes port 443 to addr and refuses everything else
func tlsOnly(addr string) probe.DialContextFunc {
	return func(ctx context.Context, network, target string) (net.Conn, error) {
		_, port, err := net.SplitHostPort(target)
		if err != nil {
			return nil, err
		}

		if port != "443" {
			return nil, &net.OpError{Op: "dial", Net: network, Err: errors.New("connection refused")}
		}

		var d net.Dialer

		return d.DialContext(ctx, network, addr)
	}
}

// selfSigned issues a throwaway certificate for names
func selfSigned(t *testing.T, names ...string) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: names[0]},
		DNSNames:     names,
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}

type stubClassifier struct {
	provider string
}

func (s stubClassifier) ClassifyAny(ips []string) (string, string, bool) {
	if s.provider == "" || len(ips) == 0 {
		return "", "", false
	}

	return ips[0], s.provider, true
}

type stubDetector map[string]struct{}

func (d stubDetector) Fingerprint(map[string][]string, []byte) map[string]struct{} {
	return d
}

type stubRegistration struct {
	mu      sync.Mutex
	queried []string
}

func (s *stubRegistration) Registration(_ context.Context, d string) (*rdap.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queried = append(s.queried, d)

	return &rdap.Registration{Domain: d}, nil
}

type recordingNotifier struct {
	results []*types.ScanResult
}

func (n *recordingNotifier) NotifyFindings(_ context.Context, result *types.ScanResult) (bool, error) {
	n.results = append(n.results, result)
	return true, nil
}

// newTestScanner serves zone on a local DNS server and probes through dial
func newTestScanner(t *testing.T, zone *dnstest.Zone, dial probe.DialContextFunc, opts ...ScanOption) *Scanner {
	t.Helper()

	addr := dnstest.Start(t, zone)

	base := []ScanOption{
		WithDNSResolvers([]string{addr}),
		WithNameserverPort(dnstest.Port(addr)),
		WithDNSTimeout(time.Second),
		WithHTTPTimeout(2 * time.Second),
		WithRateLimit(1000, 100),
		WithDialContext(dial),
		WithCertificateGrabber(nil),
		WithClassifier(stubClassifier{}),
		WithTechnologyDetector(nil),
	}

	s, err := New(append(base, opts...)...)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func kinds(evidence []types.Evidence) []types.SignalKind {
	out := make([]types.SignalKind, 0, len(evidence))
	for _, e := range evidence {
		out = append(out, e.Kind)
	}

	return out
}

func TestScanHerokuConfirmed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html><title>Heroku | No such app</title><body>There is no app configured at that hostname.</body></html>"))
	}))
	defer srv.Close()

	zone := dnstest.NewZone().CNAME("staging.example.com", "ancient-river-1234.herokuapp.com")

	m := metrics.New()
	s := newTestScanner(t, zone, httpOnly(srv.Listener.Addr().String()), WithMetrics(m))

	result, err := s.Scan(context.Background(), []string{"staging.example.com"})
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)

	f := result.Findings[0]
	assert.Equal(t, "staging.example.com", f.Subdomain)
	assert.Equal(t, "heroku", f.ProviderName())
	assert.Equal(t, []string{"staging.example.com", "ancient-river-1234.herokuapp.com"}, f.Chain.Hosts)
	assert.Equal(t, "NXDOMAIN", f.Chain.Terminal)
	assert.Equal(t, []types.SignalKind{types.SignalCNAMENXDomain, types.SignalErrorPattern, types.SignalStatusMatch}, kinds(f.Evidence))
	assert.Equal(t, 90, f.Confidence)
	assert.Equal(t, types.VerdictConfirmed, f.Verdict)
	assert.Equal(t, types.RiskCritical, f.RiskTier)
	assert.False(t, f.Wildcard)
	require.Len(t, f.VerificationSteps, 4)
	assert.Equal(t, "1. Navigate to https://dashboard.heroku.com", f.VerificationSteps[0])
	assert.Contains(t, f.VerificationSteps[2], "ancient-river-1234.herokuapp.com")
	require.NotNil(t, f.Probe)
	assert.Equal(t, "http", f.Probe.Scheme)

	assert.Equal(t, 1, result.Statistics.Live)
	assert.Equal(t, 1, result.Statistics.Providers["heroku"])
	assert.Equal(t, 1, result.Statistics.Verdicts[types.VerdictConfirmed])
	assert.NotEmpty(t, result.ID)
}

func TestScanWildcardZoneSafe(t *testing.T) {
	zone := dnstest.NewZone().Wildcard("example.com", "3.5.140.2")

	s := newTestScanner(t, zone, httpOnly(""), WithClassifier(stubClassifier{provider: "aws"}))

	result, err := s.Scan(context.Background(), []string{"random123xyz.example.com"})
	require.NoError(t, err)

	f := result.Findings[0]
	assert.True(t, f.Wildcard)
	assert.Nil(t, f.Provider)
	assert.Equal(t, "A_RECORD", f.Chain.Terminal)
	assert.Equal(t, []types.SignalKind{types.SignalDanglingA, types.SignalWildcard}, kinds(f.Evidence))
	assert.Equal(t, 0, f.Confidence)
	assert.Equal(t, types.VerdictSafe, f.Verdict)
	assert.Empty(t, f.VerificationSteps)
}

func TestScanDeadNameservers(t *testing.T) {
	zone := dnstest.NewZone().NS("legacy.example.com", "ns1.gone-provider.net", "ns2.gone-provider.net")
	registration := &stubRegistration{}

	s := newTestScanner(t, zone, httpOnly(""), WithRegistrationChecker(registration))

	result, err := s.Scan(context.Background(), []string{"legacy.example.com"})
	require.NoError(t, err)

	f := result.Findings[0]
	require.NotEmpty(t, f.Evidence)
	assert.Equal(t, types.SignalNSDead, f.Evidence[0].Kind)
	assert.Contains(t, f.Evidence[0].Description, "unregistered: gone-provider.net")
	assert.Equal(t, 50, f.Confidence)
	assert.Equal(t, types.VerdictLikely, f.Verdict)
	assert.Equal(t, types.RiskMedium, f.RiskTier)
	assert.ElementsMatch(t, []string{"ns1.gone-provider.net", "ns2.gone-provider.net"}, f.Nameservers)
	require.Len(t, f.VerificationSteps, 4)
	assert.Equal(t, "1. Register the dead nameserver domain", f.VerificationSteps[0])
	assert.Equal(t, []string{"gone-provider.net"}, registration.queried)
	assert.True(t, strings.HasPrefix(f.Remediation, "Verify manually"))
}

func TestScanCertificateMismatch(t *testing.T) {
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("welcome"))
	}))
	srv.TLS = &tls.Config{Certificates: []tls.Certificate{selfSigned(t, "herokuapp.com", "*.herokuapp.com")}}
	srv.StartTLS()
	defer srv.Close()

	zone := dnstest.NewZone().A("shop.example.com", "192.0.2.10")
	s := newTestScanner(t, zone, tlsOnly(srv.Listener.Addr().String()))

	result, err := s.Scan(context.Background(), []string{"shop.example.com"})
	require.NoError(t, err)

	f := result.Findings[0]
	require.NotNil(t, f.Probe)
	assert.Equal(t, "https", f.Probe.Scheme)
	require.Equal(t, []types.SignalKind{types.SignalSSLMismatch}, kinds(f.Evidence))
	assert.Equal(t, 15, f.Evidence[0].Weight)
	assert.Contains(t, f.Evidence[0].Description, "*.herokuapp.com")
	assert.Equal(t, 15, f.Confidence)
	assert.Equal(t, types.VerdictSafe, f.Verdict)
}

func TestScanAttributesDetectedTechnology(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>storefront</body></html>"))
	}))
	defer srv.Close()

	zone := dnstest.NewZone().A("shop.example.com", "192.0.2.10")
	detector := stubDetector{"Shopify:2.0": {}, "Nginx": {}}
	s := newTestScanner(t, zone, httpOnly(srv.Listener.Addr().String()), WithTechnologyDetector(detector))

	result, err := s.Scan(context.Background(), []string{"shop.example.com"})
	require.NoError(t, err)

	f := result.Findings[0]
	assert.Equal(t, "shopify", f.ProviderName())
	require.NotEmpty(t, f.Evidence)
	assert.Equal(t, types.SignalInfo, f.Evidence[0].Kind)
	assert.Contains(t, f.Evidence[0].Description, "Shopify")
	assert.Equal(t, types.VerdictSafe, f.Verdict)
}

func TestNewLoadsTechnologyDetector(t *testing.T) {
	s, err := New(WithCertificateGrabber(nil))
	require.NoError(t, err)

	assert.NotNil(t, s.options.Detector)
}

func TestRegistrationLookupWaitsOnLimiter(t *testing.T) {
	registration := &stubRegistration{}

	s, err := New(WithCertificateGrabber(nil), WithRegistrationChecker(registration))
	require.NoError(t, err)

	s.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, s.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	r := &run{Scanner: s}
	e := r.nsDead(ctx, resolver.Delegation{
		Nameservers:     []string{"ns1.gone-provider.net"},
		DeadNameservers: []string{"ns1.gone-provider.net"},
		Dead:            true,
	})

	assert.Equal(t, types.SignalNSDead, e.Kind)
	assert.NotContains(t, e.Description, "unregistered")
	assert.Empty(t, registration.queried)
}

func TestScanOneFindingPerCandidateInOrder(t *testing.T) {
	zone := dnstest.NewZone().
		CNAME("a.example.com", "gone-a.herokuapp.com").
		A("b.example.com", "192.0.2.10").
		CNAME("c.example.com", "c.example.com").
		Exists("d.example.com")

	notifier := &recordingNotifier{}
	s := newTestScanner(t, zone, httpOnly(""), WithConcurrency(3), WithNotifier(notifier))

	candidates := []string{
		"a.example.com",
		"bad!name.example.com",
		"b.example.com",
		"c.example.com",
		"missing.example.com",
		"localhost",
		"d.example.com",
	}

	result, err := s.Scan(context.Background(), candidates)
	require.NoError(t, err)
	require.Len(t, result.Findings, len(candidates))
	assert.Equal(t, len(candidates), result.TotalCandidates)

	for i, f := range result.Findings {
		assert.Equal(t, candidates[i], f.Subdomain)
		assert.True(t, f.Verdict.Valid())
	}

	invalid := result.Findings[1]
	assert.Equal(t, types.VerdictSafe, invalid.Verdict)
	assert.Equal(t, []types.SignalKind{types.SignalInvalidName}, kinds(invalid.Evidence))
	assert.Equal(t, "ERROR", invalid.Chain.Terminal)
	assert.Equal(t, types.VerdictSafe, result.Findings[5].Verdict)

	assert.Equal(t, "CYCLE", result.Findings[3].Chain.Terminal)
	assert.Equal(t, "NON_CNAME_ANSWER", result.Findings[6].Chain.Terminal)

	dangling := result.Findings[0]
	assert.Equal(t, "heroku", dangling.ProviderName())
	assert.Equal(t, []types.SignalKind{types.SignalCNAMENXDomain, types.SignalNoResponse}, kinds(dangling.Evidence))
	assert.Equal(t, types.VerdictLikely, dangling.Verdict)

	require.Len(t, notifier.results, 1)
	assert.Same(t, result, notifier.results[0])
}

func TestScanChainDanglingCapped(t *testing.T) {
	zone := dnstest.NewZone().
		CNAME("deep.example.com", "l1.gone.example.net").
		CNAME("l1.gone.example.net", "l2.gone.example.net").
		CNAME("l2.gone.example.net", "l3.gone.example.net").
		CNAME("l3.gone.example.net", "l4.gone.example.net").
		CNAME("l4.gone.example.net", "l5.gone.example.net")

	s := newTestScanner(t, zone, httpOnly(""))

	result, err := s.Scan(context.Background(), []string{"deep.example.com"})
	require.NoError(t, err)

	f := result.Findings[0]
	assert.Equal(t, "NXDOMAIN", f.Chain.Terminal)

	for _, e := range f.Evidence {
		if e.Kind == types.SignalChainDangling {
			assert.LessOrEqual(t, e.Weight, 70)
		}
	}

	assert.LessOrEqual(t, f.Confidence, 100)
}

func TestScanNoCandidates(t *testing.T) {
	s, err := New(WithCertificateGrabber(nil))
	require.NoError(t, err)

	_, err = s.Scan(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestScanCanceled(t *testing.T) {
	zone := dnstest.NewZone().A("b.example.com", "192.0.2.10")
	s := newTestScanner(t, zone, httpOnly(""))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Scan(ctx, []string{"b.example.com"})
	assert.ErrorIs(t, err, ErrScanCanceled)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  ScanOption
		want error
	}{
		{name: "concurrency", opt: WithConcurrency(0), want: ErrInvalidConcurrency},
		{name: "rate", opt: WithRateLimit(0, 1), want: ErrInvalidRateLimit},
		{name: "burst", opt: WithRateLimit(5, 0), want: ErrInvalidRateLimit},
		{name: "depth", opt: WithMaxDepth(0), want: ErrInvalidMaxDepth},
		{name: "resolvers", opt: WithDNSResolvers(nil), want: ErrNoResolvers},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opt)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
