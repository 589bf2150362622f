package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/football-api/internal/domain/syncrun"
)

const (
	RecordActionCreated = "created"
	RecordActionUpdated = "updated"
	RecordActionFailed  = "failed"
)

// SyncMetrics records sync outcomes as Prometheus series:
//
//	football_sync_runs_total{kind,outcome}
//	football_sync_records_total{entity,action}
//	football_sync_duration_seconds{kind}
type SyncMetrics struct {
	runs     *prometheus.CounterVec
	records  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewSyncMetrics registers the sync collectors on reg, or on the default
// registerer when reg is nil. Registering twice on one registry panics.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &SyncMetrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "football_sync_runs_total",
			Help: "Sync invocations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "football_sync_records_total",
			Help: "Reconciled records by entity and action.",
		}, []string{"entity", "action"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "football_sync_duration_seconds",
			Help:    "Wall time of one sync invocation.",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"kind"}),
	}
}

func (m *SyncMetrics) ObserveSync(kind syncrun.Kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(kind), outcome).Inc()
	m.duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (m *SyncMetrics) ObserveRecords(entity string, created, updated, failed int) {
	if m == nil {
		return
	}
	m.addRecords(entity, RecordActionCreated, created)
	m.addRecords(entity, RecordActionUpdated, updated)
	m.addRecords(entity, RecordActionFailed, failed)
}

func (m *SyncMetrics) addRecords(entity, action string, n int) {
	if n <= 0 {
		return
	}
	m.records.WithLabelValues(entity, action).Add(float64(n))
}

// MetricsHandler serves g in the Prometheus exposition format, falling back
// to the default gatherer.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
