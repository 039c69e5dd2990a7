// Package metrics exposes Prometheus instrumentation for fetch cycles and
// the HTTP surface, plus point-in-time runtime snapshots.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values for fetches.
const (
	OutcomeSuccess = "success"
)

// Cycle result label values.
const (
	CycleComplete = "complete"
	CyclePartial  = "partial"
	CycleFailed   = "failed"
)

// Metrics owns a private registry so that several instances (one per test,
// for example) never collide on registration.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	fetchesTotal   *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	cyclesTotal    *prometheus.CounterVec
	cyclesInFlight prometheus.Gauge
	cycleDuration  prometheus.Histogram
	cyclesRejected prometheus.Counter
	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
}

// NewMetrics creates and registers every collector, including the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		fetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fetchboard_fetches_total",
			Help: "Resource fetches by resource and outcome kind.",
		}, []string{"resource", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fetchboard_fetch_duration_seconds",
			Help:    "Duration of individual resource fetches.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
		cyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fetchboard_cycles_total",
			Help: "Delivered fetch cycles by result.",
		}, []string{"result"}),
		cyclesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fetchboard_cycles_in_flight",
			Help: "Fetch cycles started but not yet delivered.",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fetchboard_cycle_duration_seconds",
			Help:    "Wall time from cycle start to join.",
			Buckets: prometheus.DefBuckets,
		}),
		cyclesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fetchboard_cycles_rejected_total",
			Help: "Cycles refused because another was in flight.",
		}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fetchboard_active_requests",
			Help: "HTTP requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fetchboard_requests_total",
			Help: "HTTP requests served by path.",
		}, []string{"path"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.fetchesTotal, m.fetchDuration,
		m.cyclesTotal, m.cyclesInFlight, m.cycleDuration, m.cyclesRejected,
		m.activeRequests, m.requestsTotal,
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler { return m.handler }

// WritePrometheus serves the exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// ObserveFetch records one settled fetch. outcome is OutcomeSuccess or a
// failure kind name.
func (m *Metrics) ObserveFetch(resource, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchesTotal.WithLabelValues(resource, outcome).Inc()
	m.fetchDuration.WithLabelValues(resource).Observe(d.Seconds())
}

// CycleStarted marks a cycle as in flight.
func (m *Metrics) CycleStarted() {
	if m == nil {
		return
	}
	m.cyclesInFlight.Inc()
}

// CycleFinished records a delivered cycle with its result label.
func (m *Metrics) CycleFinished(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.cyclesInFlight.Dec()
	m.cyclesTotal.WithLabelValues(result).Inc()
	m.cycleDuration.Observe(d.Seconds())
}

// CycleRejected counts a cycle refused under the reject overlap policy.
func (m *Metrics) CycleRejected() {
	if m == nil {
		return
	}
	m.cyclesRejected.Inc()
}

// IncrementActiveRequests increments the in-progress HTTP request gauge.
func (m *Metrics) IncrementActiveRequests() {
	if m == nil {
		return
	}
	m.activeRequests.Inc()
}

// DecrementActiveRequests decrements the in-progress HTTP request gauge.
func (m *Metrics) DecrementActiveRequests() {
	if m == nil {
		return
	}
	m.activeRequests.Dec()
}

// CountRequest counts a served HTTP request.
func (m *Metrics) CountRequest(path string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(path).Inc()
}
