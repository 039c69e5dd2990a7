package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	return rec.Body.String()
}

func assertSample(t *testing.T, body, sample string) {
	t.Helper()
	if !strings.Contains(body, sample+"\n") {
		t.Errorf("metrics output should contain %q", sample)
	}
}

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	if m.Handler() == nil {
		t.Fatal("Handler should be initialized")
	}
	// A second instance must not panic on duplicate registration.
	_ = NewMetrics()
}

func TestObserveFetch(t *testing.T) {
	m := NewMetrics()
	m.ObserveFetch("joke", OutcomeSuccess, 20*time.Millisecond)
	m.ObserveFetch("joke", OutcomeSuccess, 30*time.Millisecond)
	m.ObserveFetch("image", "server_error", time.Millisecond)

	body := scrape(t, m)
	assertSample(t, body, `fetchboard_fetches_total{outcome="success",resource="joke"} 2`)
	assertSample(t, body, `fetchboard_fetches_total{outcome="server_error",resource="image"} 1`)
}

func TestCycleLifecycle(t *testing.T) {
	m := NewMetrics()
	m.CycleStarted()
	m.CycleStarted()
	assertSample(t, scrape(t, m), "fetchboard_cycles_in_flight 2")

	m.CycleFinished(CyclePartial, time.Second)
	m.CycleRejected()
	body := scrape(t, m)
	assertSample(t, body, "fetchboard_cycles_in_flight 1")
	assertSample(t, body, `fetchboard_cycles_total{result="partial"} 1`)
	assertSample(t, body, "fetchboard_cycles_rejected_total 1")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("joke", OutcomeSuccess, time.Second)
	m.CycleStarted()
	m.CycleFinished(CycleComplete, time.Second)
	m.CycleRejected()
	m.IncrementActiveRequests()
	m.DecrementActiveRequests()
	m.CountRequest("/health")
}

// TestMetrics_WritePrometheus tests the Prometheus exposition output.
func TestMetrics_WritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.IncrementActiveRequests()
	defer m.DecrementActiveRequests()
	m.CountRequest("/api/cycle")
	m.ObserveFetch("comments", OutcomeSuccess, time.Millisecond)
	m.CycleStarted()
	m.CycleFinished(CycleComplete, time.Millisecond)

	body := scrape(t, m)
	for _, want := range []string{
		"fetchboard_active_requests",
		"fetchboard_requests_total",
		"fetchboard_fetches_total",
		"fetchboard_fetch_duration_seconds",
		"fetchboard_cycles_total",
		"fetchboard_cycle_duration_seconds",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output should contain %s", want)
		}
	}
}
