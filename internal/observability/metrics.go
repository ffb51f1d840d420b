package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a render run.
type Metrics struct {
	DatasetFetches       *prometheus.CounterVec // labels: outcome={success,error}
	DatasetFetchDuration prometheus.Histogram

	// Asset metrics (flags, icons).
	AssetFetches *prometheus.CounterVec // labels: kind={flag,icon}, outcome={success,skipped}
	AssetCache   *prometheus.CounterVec // labels: result={hit,miss}

	// Job metrics.
	RowsProcessed  *prometheus.CounterVec   // labels: job
	ChartsRendered *prometheus.CounterVec   // labels: job
	JobFailures    *prometheus.CounterVec   // labels: job
	JobDuration    *prometheus.HistogramVec // labels: job
	RunInProgress  prometheus.Gauge
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetFetches,
		m.DatasetFetchDuration,
		m.AssetFetches,
		m.AssetCache,
		m.RowsProcessed,
		m.ChartsRendered,
		m.JobFailures,
		m.JobDuration,
		m.RunInProgress,
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
		DatasetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tidyviz",
			Name:      "dataset_fetches_total",
			Help:      "Remote fetches by outcome.",
		}, []string{"outcome"}),
		DatasetFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tidyviz",
			Name:      "dataset_fetch_duration_seconds",
			Help:      "Duration of a single remote fetch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		AssetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tidyviz",
			Name:      "asset_fetches_total",
			Help:      "Auxiliary image fetches by kind and outcome.",
		}, []string{"kind", "outcome"}),
		AssetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tidyviz",
			Name:      "asset_cache_total",
			Help:      "Fetch cache lookups by result.",
		}, []string{"result"}),
		RowsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tidyviz",
			Name:      "rows_processed_total",
			Help:      "Dataset rows that survived cleaning, per job.",
		}, []string{"job"}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tidyviz",
			Name:      "charts_rendered_total",
			Help:      "PNG images written, per job.",
		}, []string{"job"}),
		JobFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tidyviz",
			Name:      "job_failures_total",
			Help:      "Jobs that aborted with an error.",
		}, []string{"job"}),
		JobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tidyviz",
			Name:      "job_duration_seconds",
			Help:      "Wall time of a complete job.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"job"}),
		RunInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tidyviz",
			Name:      "run_in_progress",
			Help:      "1 while jobs are running, 0 afterwards.",
		}),
	}
}

// WriteTextfile dumps the default registry in the text exposition format, for
// node_exporter's textfile collector. Batch runs have no scrape endpoint.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
