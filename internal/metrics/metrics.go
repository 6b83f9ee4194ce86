// Package metrics exposes Prometheus instrumentation for scans
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sentinel"

// Metrics holds all the Prometheus metrics for scans
type Metrics struct {
	registry *prometheus.Registry

	ScansTotal     prometheus.Counter
	FindingsTotal  *prometheus.CounterVec
	DNSQueries     *prometheus.CounterVec
	ProbesTotal    *prometheus.CounterVec
	ScanDuration   prometheus.Histogram
	ActiveScans    prometheus.Gauge
	CandidatesSeen prometheus.Counter
}

// New creates a Metrics instance registered on its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ScansTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Total number of scans completed",
		}),
		FindingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Findings produced, by verdict",
		}, []string{"verdict"}),
		DNSQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dns_queries_total",
			Help:      "DNS lookups completed, by query type and status",
		}, []string{"type", "status"}),
		ProbesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "HTTP probes completed, by outcome",
		}, []string{"outcome"}),
		ScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall-clock duration of scans",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		ActiveScans: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_scans",
			Help:      "Scans currently running",
		}),
		CandidatesSeen: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Candidate subdomains analyzed",
		}),
	}
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ScanStarted marks a scan as running
func (m *Metrics) ScanStarted() {
	if m == nil {
		return
	}

	m.ActiveScans.Inc()
}

// ScanFinished records a completed scan
func (m *Metrics) ScanFinished(elapsed time.Duration, candidates int) {
	if m == nil {
		return
	}

	m.ActiveScans.Dec()
	m.ScansTotal.Inc()
	m.ScanDuration.Observe(elapsed.Seconds())
	m.CandidatesSeen.Add(float64(candidates))
}

// Finding counts a finding by verdict
func (m *Metrics) Finding(verdict string) {
	if m == nil {
		return
	}

	m.FindingsTotal.WithLabelValues(verdict).Inc()
}

// DNSQuery counts a completed DNS lookup
func (m *Metrics) DNSQuery(qtype, status string) {
	if m == nil {
		return
	}

	m.DNSQueries.WithLabelValues(qtype, status).Inc()
}

// Probe counts a completed HTTP probe; outcome is the scheme that answered or "none"
func (m *Metrics) Probe(outcome string) {
	if m == nil {
		return
	}

	m.ProbesTotal.WithLabelValues(outcome).Inc()
}
