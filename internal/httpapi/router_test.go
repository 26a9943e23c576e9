package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"complaint-dashboard/internal/metrics"
	"complaint-dashboard/internal/report"
)

type fakeReports struct {
	summary   []byte
	dates     []string
	err       error
	lastMonth string
}

func (f *fakeReports) SummaryJSON(_ context.Context, month string) ([]byte, error) {
	f.lastMonth = month
	return f.summary, f.err
}

func (f *fakeReports) AvailableDates(context.Context) ([]string, error) {
	return f.dates, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func do(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	body, _ := io.ReadAll(res.Body)
	return res, string(body)
}

func TestSummaryEndpoint(t *testing.T) {
	reports := &fakeReports{summary: []byte(`{"totalComplaints":0}`)}
	h := NewRouter(reports, fakePinger{}, Options{})

	res, body := do(t, h, "/api/komplain?month=2024-03")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.StatusCode, body)
	}
	if body != `{"totalComplaints":0}` {
		t.Errorf("body = %s", body)
	}
	if reports.lastMonth != "2024-03" {
		t.Errorf("month passed = %q", reports.lastMonth)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if res.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	do(t, h, "/api/komplain")
	if reports.lastMonth != "" {
		t.Errorf("absent month should pass through empty, got %q", reports.lastMonth)
	}
}

func TestSummaryEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid month", fmt.Errorf("%w %q: expected YYYY-MM", report.ErrInvalidMonth, "x")},
		{"data access", fmt.Errorf("%w: %w", report.ErrDataAccess, errors.New("db down"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(&fakeReports{err: tt.err}, fakePinger{}, Options{})
			res, body := do(t, h, "/api/komplain?month=x")
			if res.StatusCode != http.StatusInternalServerError {
				t.Fatalf("status = %d", res.StatusCode)
			}
			var payload map[string]string
			if err := json.Unmarshal([]byte(body), &payload); err != nil {
				t.Fatalf("body is not JSON: %s", body)
			}
			if payload["message"] != "Server Error: "+tt.err.Error() {
				t.Errorf("message = %q", payload["message"])
			}
		})
	}
}

func TestAvailableDatesEndpoint(t *testing.T) {
	h := NewRouter(&fakeReports{dates: []string{"2024-01", "2023-12"}}, fakePinger{}, Options{})
	res, body := do(t, h, "/api/komplain/available-dates")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if strings.TrimSpace(body) != `["2024-01","2023-12"]` {
		t.Errorf("body = %s", body)
	}

	h = NewRouter(&fakeReports{err: errors.New("boom")}, fakePinger{}, Options{})
	res, body = do(t, h, "/api/komplain/available-dates")
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if strings.TrimSpace(body) != `{"error":"Failed to retrieve available dates"}` {
		t.Errorf("body = %s", body)
	}
}

func TestHealth(t *testing.T) {
	res, body := do(t, NewRouter(&fakeReports{}, fakePinger{}, Options{}), "/health")
	if res.StatusCode != http.StatusOK || body != "OK" {
		t.Errorf("healthy: %d %q", res.StatusCode, body)
	}

	res, _ = do(t, NewRouter(&fakeReports{}, fakePinger{err: errors.New("down")}, Options{}), "/health")
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d", res.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	h := NewRouter(&fakeReports{summary: []byte(`{}`)}, fakePinger{}, Options{RateLimit: 0.001, RateBurst: 2})

	codes := make([]int, 3)
	for i := range codes {
		res, _ := do(t, h, "/api/komplain")
		codes[i] = res.StatusCode
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}

	// health checks are not rate limited
	if res, _ := do(t, h, "/health"); res.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", res.StatusCode)
	}
}

func TestRequestID_ReusesValidHeader(t *testing.T) {
	h := NewRouter(&fakeReports{}, fakePinger{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "0b6f6a34-5a7e-4d36-9d55-4c7b1d2a8f10")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "0b6f6a34-5a7e-4d36-9d55-4c7b1d2a8f10" {
		t.Errorf("request id = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not-a-uuid" || got == "" {
		t.Errorf("invalid request id should be replaced, got %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	h := NewRouter(&fakeReports{summary: []byte(`{}`)}, fakePinger{}, Options{Metrics: m})

	do(t, h, "/api/komplain?month=2024-03")
	res, body := do(t, h, "/metrics")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if !strings.Contains(body, `route="/api/komplain`) {
		t.Errorf("summary route missing from metrics:\n%s", body)
	}
}
