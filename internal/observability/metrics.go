package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a processing run.
type Metrics struct {
	FilesRead        prometheus.Counter
	FilesSkipped     *prometheus.CounterVec // labels: reason={no_year_pattern,year_mismatch,format,read,directory}
	RecordsRead      prometheus.Counter
	MissingValues    prometheus.Counter
	StationsIncluded prometheus.Counter
	StationsExcluded *prometheus.CounterVec // labels: reason={folder_missing,no_files_matched,no_readable_files}
	TableRows        prometheus.Gauge
	RunDuration      prometheus.Histogram
	RunsFailed       *prometheus.CounterVec // labels: stage={base_dir,no_data,export}

	SummariesPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "files_read_total",
			Help:      "Measurement files read successfully.",
		}),
		FilesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "files_skipped_total",
			Help:      "Station folder entries skipped, by reason.",
		}, []string{"reason"}),
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "records_read_total",
			Help:      "Records extracted from measurement files.",
		}),
		MissingValues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "missing_values_total",
			Help:      "Extracted records whose value failed numeric coercion.",
		}),
		StationsIncluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "stations_included_total",
			Help:      "Stations contributing a column to the table.",
		}),
		StationsExcluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "stations_excluded_total",
			Help:      "Stations left out of the table, by reason.",
		}, []string{"reason"}),
		TableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "table_rows",
			Help:      "Data rows in the consolidated table, excluding the summary row.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete read-consolidate-export run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RunsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "runs_failed_total",
			Help:      "Runs that produced no output file, by failing stage.",
		}, []string{"stage"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "summaries_published_total",
			Help:      "Station summaries written to the Kafka summary topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish station summaries.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FilesRead,
		m.FilesSkipped,
		m.RecordsRead,
		m.MissingValues,
		m.StationsIncluded,
		m.StationsExcluded,
		m.TableRows,
		m.RunDuration,
		m.RunsFailed,
		m.SummariesPublished,
		m.PublishErrors,
	}
}

// WriteTextfile writes every metric in the default registry to path in the
// text exposition format, for pickup by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
