package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the explorer.
type Metrics struct {
	ControllerRunning prometheus.Gauge
	Recomputing       prometheus.Gauge
	DatasetRows       prometheus.Gauge

	// Trigger and cycle metrics.
	TriggersTotal     *prometheus.CounterVec // labels: kind={start,change,submit}
	TriggersCoalesced prometheus.Counter
	CyclesTotal       *prometheus.CounterVec // labels: outcome={published,superseded,failed}
	CycleDuration     prometheus.Histogram
	FilteredRows      prometheus.Histogram

	// Renderer sink metrics.
	SnapshotsRendered *prometheus.CounterVec // labels: sink
	RenderErrors      *prometheus.CounterVec // labels: sink
}

// NewMetrics creates and registers all explorer metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ControllerRunning,
		m.Recomputing,
		m.DatasetRows,
		m.TriggersTotal,
		m.TriggersCoalesced,
		m.CyclesTotal,
		m.CycleDuration,
		m.FilteredRows,
		m.SnapshotsRendered,
		m.RenderErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ControllerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfire_explorer",
			Name:      "controller_running",
			Help:      "1 when the dataflow controller is active, 0 when shut down.",
		}),
		Recomputing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfire_explorer",
			Name:      "recomputing",
			Help:      "1 while a recompute cycle is in flight.",
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfire_explorer",
			Name:      "dataset_rows",
			Help:      "Detections in the normalized dataset at startup.",
		}),
		TriggersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire_explorer",
			Name:      "triggers_total",
			Help:      "Recompute triggers by kind.",
		}, []string{"kind"}),
		TriggersCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfire_explorer",
			Name:      "triggers_coalesced_total",
			Help:      "Waiting triggers replaced by a newer one before they ran.",
		}),
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire_explorer",
			Name:      "cycles_total",
			Help:      "Recompute cycles by outcome.",
		}, []string{"outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wildfire_explorer",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a published filter-aggregate cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		FilteredRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wildfire_explorer",
			Name:      "filtered_rows",
			Help:      "Rows in the filtered view per cycle.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 8),
		}),
		SnapshotsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire_explorer",
			Name:      "snapshots_rendered_total",
			Help:      "Snapshots delivered to a renderer sink.",
		}, []string{"sink"}),
		RenderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire_explorer",
			Name:      "render_errors_total",
			Help:      "Snapshot deliveries that failed, by sink.",
		}, []string{"sink"}),
	}
}
