package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(PackingRunsTotal.WithLabelValues("ff", StatusOK))
	RecordRun("ff", time.Millisecond, 3, StatusOK)
	after := testutil.ToFloat64(PackingRunsTotal.WithLabelValues("ff", StatusOK))

	if after-before != 1 {
		t.Fatalf("expected counter to increase by 1, got %v", after-before)
	}

	failedBefore := testutil.ToFloat64(PackingRunsTotal.WithLabelValues("ffd", StatusError))
	RecordRun("ffd", time.Millisecond, 0, StatusError)
	if got := testutil.ToFloat64(PackingRunsTotal.WithLabelValues("ffd", StatusError)); got-failedBefore != 1 {
		t.Fatalf("expected error counter to increase by 1, got %v", got-failedBefore)
	}
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, unmatchedPath, "418"))
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", rec.Code)
	}
	if got := testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, unmatchedPath, "418")); got-before != 1 {
		t.Fatalf("expected request counter to increase by 1, got %v", got-before)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Middleware(mux)

	before := testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, "GET /items/{id}", "204"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/43", nil))

	if got := testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, "GET /items/{id}", "204")); got-before != 2 {
		t.Fatalf("expected both requests under one pattern label, got %v", got-before)
	}
}

func TestHandlerExposesPackingMetrics(t *testing.T) {
	RecordRun("ff", time.Millisecond, 1, StatusOK)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "binpacking_runs_total") {
		t.Fatalf("expected binpacking_runs_total in exposition")
	}
}
