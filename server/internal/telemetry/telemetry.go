// Package telemetry exposes the server's own Prometheus metrics on a
// private registry: evaluation counts and latency, the per-tenant health
// score and snapshot ingestion.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "propdash"

// Metrics holds the server collectors. A nil *Metrics is valid and records
// nothing, so handlers can be built without telemetry in tests.
type Metrics struct {
	reg *prometheus.Registry

	evaluations        *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	healthScore        *prometheus.GaugeVec
	snapshotsIngested  prometheus.Counter
}

// New registers the server collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Engine evaluations, by overall verdict.",
		}, []string{"overall"}),
		evaluationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent in one engine evaluation.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		healthScore: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tenant_health_score",
			Help:      "Deduction-based health score (0-100) of each tenant's latest snapshot.",
		}, []string{"tenant"}),
		snapshotsIngested: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_ingested_total",
			Help:      "Tenant snapshots accepted by the ingest endpoint.",
		}),
	}
}

// ObserveEvaluation records one evaluation with its verdict and duration.
func (m *Metrics) ObserveEvaluation(overall string, d time.Duration) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(overall).Inc()
	m.evaluationDuration.Observe(d.Seconds())
}

// SetHealthScore publishes a tenant's latest health score.
func (m *Metrics) SetHealthScore(tenant string, score int) {
	if m == nil {
		return
	}
	m.healthScore.WithLabelValues(tenant).Set(float64(score))
}

// ForgetTenants drops the health-score series of evicted tenants.
func (m *Metrics) ForgetTenants(tenants []string) {
	if m == nil {
		return
	}
	for _, t := range tenants {
		m.healthScore.DeleteLabelValues(t)
	}
}

// SnapshotIngested counts one accepted snapshot.
func (m *Metrics) SnapshotIngested() {
	if m == nil {
		return
	}
	m.snapshotsIngested.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
