package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "amedas_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL jobs.
type Metrics struct {
	PageFetches   *prometheus.CounterVec   // labels: page={selector,prefecture,stations,observation,other}, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: page
	UnitsFetched  prometheus.Counter
	RowsWritten   prometheus.Counter

	MessagesProduced prometheus.Counter
	ArchiveUploads   *prometheus.CounterVec // labels: outcome={success,error}

	JobDuration      prometheus.Histogram
	JobErrors        prometheus.Counter
	PipelineRunning  prometheus.Gauge
	RegistryStations prometheus.Gauge
}

// NewMetrics creates and registers all job metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PageFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_fetches_total",
			Help:      "JMA page and feed requests by page kind and outcome.",
		}, []string{"page", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "JMA request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"page"}),
		UnitsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_fetched_total",
			Help:      "Fetch units (days or months) assembled into observation tables.",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Observation rows persisted to CSV.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total messages written to the observation topic.",
		}),
		ArchiveUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_uploads_total",
			Help:      "CSV archive uploads by outcome.",
		}, []string{"outcome"}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of a complete fetch and load job.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		}),
		JobErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_errors_total",
			Help:      "Jobs aborted by a fetch, parse, or schema failure.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a job is running, 0 otherwise.",
		}),
		RegistryStations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_stations",
			Help:      "Stations in the loaded registry.",
		}),
	}

	prometheus.MustRegister(
		m.PageFetches,
		m.FetchDuration,
		m.UnitsFetched,
		m.RowsWritten,
		m.MessagesProduced,
		m.ArchiveUploads,
		m.JobDuration,
		m.JobErrors,
		m.PipelineRunning,
		m.RegistryStations,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PageFetches:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "page_fetches_total"}, []string{"page", "outcome"}),
		FetchDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "fetch_duration_seconds"}, []string{"page"}),
		UnitsFetched:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "units_fetched_total"}),
		RowsWritten:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rows_written_total"}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "messages_produced_total"}),
		ArchiveUploads:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "archive_uploads_total"}, []string{"outcome"}),
		JobDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "job_duration_seconds"}),
		JobErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "job_errors_total"}),
		PipelineRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "pipeline_running"}),
		RegistryStations: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "registry_stations"}),
	}
}
