// Package metrics exposes Prometheus instrumentation for catalog fetches.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeStale   = "stale"
)

// Collector bundles the fetch metrics. A nil *Collector is valid and records
// nothing, so callers never need to guard.
type Collector struct {
	gatherer prometheus.Gatherer

	Fetches        *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
	Records        prometheus.Gauge
	VisibleRecords prometheus.Gauge
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil. Registering twice against the same registry reuses the
// existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	fetches, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "satscope_catalog_fetches_total",
		Help: "Catalog fetches, labeled by outcome (success, failure, stale).",
	}, []string{"outcome"}), "satscope_catalog_fetches_total")
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "satscope_catalog_fetch_duration_seconds",
		Help:    "Catalog fetch latency in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}), "satscope_catalog_fetch_duration_seconds")
	if err != nil {
		return nil, err
	}
	records, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satscope_catalog_records",
		Help: "Records held from the last successful fetch.",
	}), "satscope_catalog_records")
	if err != nil {
		return nil, err
	}
	visible, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satscope_visible_records",
		Help: "Records left after local search, orbit filter and sort.",
	}), "satscope_visible_records")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		Fetches:        fetches,
		FetchDuration:  duration,
		Records:        records,
		VisibleRecords: visible,
	}, nil
}

// ObserveFetch records one resolved fetch.
func (c *Collector) ObserveFetch(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Fetches.WithLabelValues(outcome).Inc()
	if outcome != OutcomeStale {
		c.FetchDuration.Observe(elapsed.Seconds())
	}
}

// SetRecords updates the record gauges.
func (c *Collector) SetRecords(total, visible int) {
	if c == nil {
		return
	}
	c.Records.Set(float64(total))
	c.VisibleRecords.Set(float64(visible))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T, name string) (T, error) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, fmt.Errorf("register %s: %w", name, err)
	}
	return collector, nil
}
