package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("/x", "GET", 200, time.Millisecond)
	m.ObserveRateLimited()
	m.ObserveReport("ok", 3, time.Millisecond)
	m.ObserveCache(true)
	m.ObserveCacheError()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Errorf("nil handler status = %d, want 404", rec.Code)
	}
}

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveReport("ok", 5, 10*time.Millisecond)
	m.ObserveReport("data_error", 0, time.Millisecond)
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	if got := testutil.ToFloat64(m.RecordsAggregated); got != 5 {
		t.Errorf("records aggregated = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.ReportsBuilt.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok builds = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheMisses); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP("/api/komplain", "GET", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	if !strings.Contains(string(body), `complaint_dashboard_http_requests_total{code="200",method="GET",route="/api/komplain"} 1`) {
		t.Errorf("request counter missing from exposition:\n%s", body)
	}
}
