package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFetchCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.ObserveFetch(OutcomeSuccess, 200*time.Millisecond)
	c.ObserveFetch(OutcomeSuccess, 300*time.Millisecond)
	c.ObserveFetch(OutcomeFailure, time.Second)
	c.ObserveFetch(OutcomeStale, time.Second)

	if got := testutil.ToFloat64(c.Fetches.WithLabelValues(OutcomeSuccess)); got != 2 {
		t.Fatalf("success fetches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.Fetches.WithLabelValues(OutcomeFailure)); got != 1 {
		t.Fatalf("failure fetches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Fetches.WithLabelValues(OutcomeStale)); got != 1 {
		t.Fatalf("stale fetches = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.FetchDuration); got != 1 {
		t.Fatalf("duration series = %d, want 1", got)
	}
}

func TestSetRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c.SetRecords(120, 7)
	if got := testutil.ToFloat64(c.Records); got != 120 {
		t.Fatalf("records = %v, want 120", got)
	}
	if got := testutil.ToFloat64(c.VisibleRecords); got != 7 {
		t.Fatalf("visible records = %v, want 7", got)
	}
}

func TestNewCollectorReusesExisting(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}
	first.ObserveFetch(OutcomeSuccess, time.Millisecond)
	if got := testutil.ToFloat64(second.Fetches.WithLabelValues(OutcomeSuccess)); got != 1 {
		t.Fatalf("shared counter = %v, want 1", got)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveFetch(OutcomeSuccess, time.Second)
	c.SetRecords(1, 1)
	if c.Handler() == nil {
		t.Fatal("Handler() = nil, want default handler")
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c.ObserveFetch(OutcomeFailure, time.Second)

	srv := httptest.NewServer(c.Handler())
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), `satscope_catalog_fetches_total{outcome="failure"} 1`) {
		t.Fatalf("metrics output missing failure counter:\n%s", body)
	}
}
