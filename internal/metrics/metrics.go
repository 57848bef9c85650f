// Package metrics provides Prometheus metrics for the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voxrelay"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// ASR metrics
	ASRSubmissions  *prometheus.CounterVec
	ASRQueries      *prometheus.CounterVec
	ASRWaitDuration *prometheus.HistogramVec

	// Upload metrics
	Uploads          *prometheus.CounterVec
	UploadBytes      prometheus.Counter
	TransferDuration prometheus.Histogram
	TransferQueue    prometheus.Gauge

	// Event metrics
	EventPublishes *prometheus.CounterVec
}

// DefaultMetrics is registered against the default Prometheus registry.
var DefaultMetrics = New(prometheus.DefaultRegisterer)

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "route"}),

		ASRSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asr_submissions_total",
			Help:      "Total number of ASR job submissions by outcome",
		}, []string{"outcome"}),
		ASRQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asr_queries_total",
			Help:      "Total number of ASR status queries by backend status",
		}, []string{"status"}),
		ASRWaitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "asr_wait_duration_seconds",
			Help:      "Time spent polling for an ASR result",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 3, 4, 5, 10},
		}, []string{"outcome"}),

		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of uploads by outcome",
		}, []string{"outcome"}),
		UploadBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Total bytes transferred to object storage",
		}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "storage_transfer_duration_seconds",
			Help:      "Duration of staged transfers to object storage",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		TransferQueue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "storage_transfer_queue_depth",
			Help:      "Number of transfer jobs waiting for a worker",
		}),

		EventPublishes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_total",
			Help:      "Total number of event publish attempts",
		}, []string{"topic", "result"}),
	}
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordSubmission records an ASR submission outcome.
func (m *Metrics) RecordSubmission(outcome string) {
	m.ASRSubmissions.WithLabelValues(outcome).Inc()
}

// RecordQuery records one ASR status query.
func (m *Metrics) RecordQuery(status string) {
	m.ASRQueries.WithLabelValues(status).Inc()
}

// RecordWait records how long a poll loop ran and how it ended.
func (m *Metrics) RecordWait(outcome string, durationSeconds float64) {
	m.ASRWaitDuration.WithLabelValues(outcome).Observe(durationSeconds)
}

// RecordUpload records an upload outcome and, on success, its size.
func (m *Metrics) RecordUpload(outcome string, size int64) {
	m.Uploads.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		m.UploadBytes.Add(float64(size))
	}
}

// RecordTransfer records a completed storage transfer.
func (m *Metrics) RecordTransfer(durationSeconds float64) {
	m.TransferDuration.Observe(durationSeconds)
}

// RecordEventPublish records an event publish attempt.
func (m *Metrics) RecordEventPublish(topic string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventPublishes.WithLabelValues(topic, result).Inc()
}
