// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles all collectors behind a private registry
type Metrics struct {
	registry *prometheus.Registry

	SignalsGenerated  *prometheus.CounterVec
	SignalsRejected   *prometheus.CounterVec
	SignalsSuppressed *prometheus.CounterVec
	SignalsPublished  *prometheus.CounterVec

	WorkerCycles        *prometheus.CounterVec
	WorkerCycleDuration *prometheus.HistogramVec
	FeedErrors          *prometheus.CounterVec

	FingerprintsAlive prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())

	return &Metrics{
		registry: reg,
		SignalsGenerated: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "goldedge_signals_generated_total",
			Help: "Rule candidates produced, before validation.",
		}, []string{"symbol", "rule"}),
		SignalsRejected: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "goldedge_signals_rejected_total",
			Help: "Candidates rejected by validation, by reason code.",
		}, []string{"symbol", "reason"}),
		SignalsSuppressed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "goldedge_signals_suppressed_total",
			Help: "Validated signals dropped as duplicates.",
		}, []string{"symbol"}),
		SignalsPublished: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "goldedge_signals_published_total",
			Help: "Signals delivered to subscribers.",
		}, []string{"symbol", "rule"}),
		WorkerCycles: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "goldedge_worker_cycles_total",
			Help: "Completed evaluation cycles.",
		}, []string{"symbol", "timeframe"}),
		WorkerCycleDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "goldedge_worker_cycle_duration_seconds",
			Help:    "Wall time of one evaluation cycle.",
			Buckets: prometheus.DefBuckets,
		}, []string{"symbol", "timeframe"}),
		FeedErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "goldedge_feed_errors_total",
			Help: "Candle feed failures.",
		}, []string{"symbol"}),
		FingerprintsAlive: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "goldedge_dedup_fingerprints",
			Help: "Fingerprints currently held in the dedup cache.",
		}),
	}
}

// Handler returns the scrape endpoint for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
