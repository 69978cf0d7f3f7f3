// Package metrics holds the Prometheus collectors of the back-office service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of handled HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of handled HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// ImportMerchantsTotal counts merchants processed by an import run by outcome
	ImportMerchantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "merchants_total",
			Help:      "Total number of merchants processed by the import pipeline",
		},
		[]string{"outcome"},
	)

	ImportFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "failures_total",
			Help:      "Total number of import failures by entity and kind",
		},
		[]string{"entity", "kind"},
	)

	ImportRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "run_duration_seconds",
			Help:      "Duration of merchant import runs in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "requests_total",
			Help:      "Total number of requests to the merchant feed",
		},
		[]string{"status_code"},
	)

	FeedRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "request_duration_seconds",
			Help:      "Duration of merchant feed requests in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to Kafka",
		},
		[]string{"topic", "status"},
	)

	ReportExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "exports_total",
			Help:      "Total number of transaction workbook exports",
		},
		[]string{"status"},
	)

	ReportTransactions = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "transactions",
			Help:      "Number of transactions per exported workbook",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		},
	)
)

func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordImportMerchant(outcome string) {
	ImportMerchantsTotal.WithLabelValues(outcome).Inc()
}

func RecordImportFailure(entity, kind string) {
	ImportFailuresTotal.WithLabelValues(entity, kind).Inc()
}

func RecordImportRun(elapsed time.Duration) {
	ImportRunDuration.Observe(elapsed.Seconds())
}

func RecordFeedRequest(status int, elapsed time.Duration) {
	FeedRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	FeedRequestDuration.Observe(elapsed.Seconds())
}

func RecordKafkaPublish(topic, status string) {
	KafkaMessagesPublished.WithLabelValues(topic, status).Inc()
}

func RecordReportExport(status string, transactions int) {
	ReportExportsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		ReportTransactions.Observe(float64(transactions))
	}
}
