// internal/metrics/collector.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rovshanmuradov/pump-sdk/pkg/client"
)

const namespace = "pump_sdk"

// Collector exports client telemetry to prometheus. It implements client.Recorder.
type Collector struct {
	registry *prometheus.Registry

	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	cacheEntries  prometheus.Gauge
	quotesTotal   *prometheus.CounterVec
}

// NewCollector creates a collector on its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "account_fetches_total",
				Help:      "Account reads by operation and status",
			},
			[]string{"op", "status"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "account_fetch_duration_seconds",
				Help:      "Duration of account reads including retries",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"op"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Account cache lookups by kind and result",
			},
			[]string{"kind", "result"},
		),
		cacheEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_entries",
				Help:      "Accounts held by the cache after the last purge",
			},
		),
		quotesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_total",
				Help:      "Quotes served by venue and side",
			},
			[]string{"venue", "side"},
		),
	}

	c.registry.MustRegister(c.fetchTotal, c.fetchDuration, c.cacheLookups, c.cacheEntries, c.quotesTotal)
	return c
}

// ObserveFetch records one account read.
func (c *Collector) ObserveFetch(op string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	c.fetchTotal.WithLabelValues(op, status).Inc()
	c.fetchDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// ObserveCache records a cache lookup.
func (c *Collector) ObserveCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(kind, result).Inc()
}

// ObserveCacheSize records how many accounts the cache holds.
func (c *Collector) ObserveCacheSize(entries int) {
	c.cacheEntries.Set(float64(entries))
}

// ObserveQuote records a served quote.
func (c *Collector) ObserveQuote(venue client.Venue, side string) {
	c.quotesTotal.WithLabelValues(venue.String(), side).Inc()
}

// Handler serves the registry in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

var _ client.Recorder = (*Collector)(nil)
