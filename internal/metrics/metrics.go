package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-wide Prometheus instruments. One instance is
// created at wiring time and shared by the ledger service, the snapshot
// store and the export handlers.
type Metrics struct {
	registry *prometheus.Registry

	LedgerMutations *prometheus.CounterVec
	SnapshotSaves   *prometheus.CounterVec
	SnapshotLoads   *prometheus.CounterVec
	ExportDuration  *prometheus.HistogramVec
}

// New builds a Metrics set on a fresh registry with the standard process
// and Go runtime collectors attached.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		LedgerMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scorepad_ledger_mutations_total",
			Help: "Committed ledger mutations by reason.",
		}, []string{"reason"}),
		SnapshotSaves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scorepad_snapshot_saves_total",
			Help: "Snapshot write attempts by outcome.",
		}, []string{"outcome"}),
		SnapshotLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scorepad_snapshot_loads_total",
			Help: "Snapshot load attempts by outcome (ok, empty, expired, corrupt, error).",
		}, []string{"outcome"}),
		ExportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scorepad_export_duration_seconds",
			Help:    "Time spent producing export artifacts by format.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
