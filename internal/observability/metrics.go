// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Journal metrics
	TradesRecorded  prometheus.Counter
	TradesDeleted   prometheus.Counter
	EntriesRecorded prometheus.Counter
	GoalsUpserted   prometheus.Counter

	// Analytics metrics
	AnalyticsRecomputes      *prometheus.CounterVec
	AnalyticsComputeDuration prometheus.Histogram
	StaleResultsDropped      prometheus.Counter

	// Stream metrics
	StreamClients       prometheus.Gauge
	StreamEventsPushed  prometheus.Counter
	StreamSendFailures  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tradejournal"
	}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),

		TradesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "trades_recorded_total",
			Help:      "Total number of trades recorded",
		}),
		TradesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "trades_deleted_total",
			Help:      "Total number of trades deleted",
		}),
		EntriesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "daily_entries_recorded_total",
			Help:      "Total number of daily journal entries recorded",
		}),
		GoalsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "goals_upserted_total",
			Help:      "Total number of monthly goal upserts",
		}),

		AnalyticsRecomputes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "recomputes_total",
			Help:      "Total number of analytics recomputations by outcome",
		}, []string{"status"}),
		AnalyticsComputeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "compute_duration_seconds",
			Help:      "Analytics recomputation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		StaleResultsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "stale_results_dropped_total",
			Help:      "Total number of analytics results dropped because a newer refresh superseded them",
		}),

		StreamClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Current number of connected live-analytics stream clients",
		}),
		StreamEventsPushed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "events_pushed_total",
			Help:      "Total number of analytics snapshots pushed to stream clients",
		}),
		StreamSendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "send_failures_total",
			Help:      "Total number of failed pushes to stream clients",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(route, method, status string, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// RecordTradeRecorded increments the trades recorded counter.
func RecordTradeRecorded() {
	DefaultMetrics.TradesRecorded.Inc()
}

// RecordTradeDeleted increments the trades deleted counter.
func RecordTradeDeleted() {
	DefaultMetrics.TradesDeleted.Inc()
}

// RecordEntryRecorded increments the daily entries recorded counter.
func RecordEntryRecorded() {
	DefaultMetrics.EntriesRecorded.Inc()
}

// RecordGoalUpserted increments the goal upserts counter.
func RecordGoalUpserted() {
	DefaultMetrics.GoalsUpserted.Inc()
}

// RecordAnalyticsRecompute records one analytics recomputation.
func RecordAnalyticsRecompute(status string, seconds float64) {
	DefaultMetrics.AnalyticsRecomputes.WithLabelValues(status).Inc()
	DefaultMetrics.AnalyticsComputeDuration.Observe(seconds)
}

// RecordStaleResultDropped increments the superseded-results counter.
func RecordStaleResultDropped() {
	DefaultMetrics.StaleResultsDropped.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
