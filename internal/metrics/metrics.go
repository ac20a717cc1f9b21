package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Parse pipeline
	StatementsParsed      prometheus.Counter
	ParseFailures         *prometheus.CounterVec // reason: authentication, empty_document, format_mismatch, internal
	TransactionsExtracted prometheus.Counter
	ParseDuration         prometheus.Histogram

	// HTTP
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on an explicit registry; tests pass a
// fresh one to avoid duplicate-registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StatementsParsed: factory.NewCounter(prometheus.CounterOpts{
			Name: "sbiparser_statements_parsed_total",
			Help: "Total number of statements parsed successfully",
		}),
		ParseFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sbiparser_parse_failures_total",
			Help: "Total number of failed parses by failure class",
		}, []string{"reason"}),
		TransactionsExtracted: factory.NewCounter(prometheus.CounterOpts{
			Name: "sbiparser_transactions_extracted_total",
			Help: "Total number of transaction records extracted",
		}),
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sbiparser_parse_duration_seconds",
			Help:    "Time spent parsing one statement",
			Buckets: prometheus.DefBuckets,
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sbiparser_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sbiparser_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}
