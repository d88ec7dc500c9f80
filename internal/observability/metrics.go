package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline.
type Metrics struct {
	IndexFetches     *prometheus.CounterVec // labels: granularity={daily,monthly}, outcome={resolved,not_found,error}
	ArchiveDownloads *prometheus.CounterVec // labels: outcome={success,error}
	RowsParsed       prometheus.Counter
	RowsDropped      prometheus.Counter
	CacheLookups     *prometheus.CounterVec // labels: kind={stations,series,monthly}, result={hit,miss}
	FetchDuration    *prometheus.HistogramVec // labels: stage={index,archive}
	CatalogLoaded    prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		IndexFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retrowetter",
			Name:      "index_fetches_total",
			Help:      "Directory-listing resolutions by granularity and outcome.",
		}, []string{"granularity", "outcome"}),
		ArchiveDownloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retrowetter",
			Name:      "archive_downloads_total",
			Help:      "Measurement archive downloads by outcome.",
		}, []string{"outcome"}),
		RowsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "retrowetter",
			Name:      "rows_parsed_total",
			Help:      "Raw measurement rows tokenized from archives.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "retrowetter",
			Name:      "rows_dropped_total",
			Help:      "Rows dropped during normalization for unparsable dates.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retrowetter",
			Name:      "cache_lookups_total",
			Help:      "Memoized lookup results by kind.",
		}, []string{"kind", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "retrowetter",
			Name:      "fetch_duration_seconds",
			Help:      "DWD server request duration by pipeline stage.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		CatalogLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "retrowetter",
			Name:      "catalog_loaded",
			Help:      "1 once the station catalog has been loaded.",
		}),
	}

	prometheus.MustRegister(
		m.IndexFetches,
		m.ArchiveDownloads,
		m.RowsParsed,
		m.RowsDropped,
		m.CacheLookups,
		m.FetchDuration,
		m.CatalogLoaded,
	)

	return m
}

// NewMetricsForTesting creates Metrics with no registration to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		IndexFetches:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "retrowetter", Name: "index_fetches_total"}, []string{"granularity", "outcome"}),
		ArchiveDownloads: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "retrowetter", Name: "archive_downloads_total"}, []string{"outcome"}),
		RowsParsed:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "retrowetter", Name: "rows_parsed_total"}),
		RowsDropped:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "retrowetter", Name: "rows_dropped_total"}),
		CacheLookups:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "retrowetter", Name: "cache_lookups_total"}, []string{"kind", "result"}),
		FetchDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "retrowetter", Name: "fetch_duration_seconds"}, []string{"stage"}),
		CatalogLoaded:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "retrowetter", Name: "catalog_loaded"}),
	}
}
