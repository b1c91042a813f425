package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	queryDurationSeconds *prometheus.HistogramVec
	queryErrorsTotal     *prometheus.CounterVec
	seededRowsTotal      *prometheus.CounterVec
	reportCacheTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the report and seed runs.
func RegisterMetrics() {
	registerOnce.Do(func() {
		queryDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grades_query_duration_seconds",
			Help:    "Latency distribution of report queries.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"query"})

		queryErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grades_query_errors_total",
			Help: "Total number of report queries that failed.",
		}, []string{"query"})

		seededRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grades_seeded_rows_total",
			Help: "Rows written by committed seed runs.",
		}, []string{"entity"})

		reportCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grades_report_cache_total",
			Help: "Report cache lookups by result.",
		}, []string{"result"})

		prometheus.MustRegister(queryDurationSeconds, queryErrorsTotal, seededRowsTotal, reportCacheTotal)
	})
}

// QueryDuration exposes the latency histogram for report queries.
func QueryDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return queryDurationSeconds
}

// QueryErrors exposes the counter for failed report queries.
func QueryErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return queryErrorsTotal
}

// SeededRows exposes the counter for rows written while seeding.
func SeededRows() *prometheus.CounterVec {
	RegisterMetrics()
	return seededRowsTotal
}

// ReportCache exposes the counter for report cache hits and misses.
func ReportCache() *prometheus.CounterVec {
	RegisterMetrics()
	return reportCacheTotal
}

// WriteTextfile dumps every registered metric in the text exposition format, for
// node_exporter's textfile collector.
func WriteTextfile(path string) error {
	RegisterMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
