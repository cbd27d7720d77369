// Package metrics provides Prometheus metrics export for the summarization
// pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter exports pipeline metrics in Prometheus format.
type Exporter struct {
	registry *prometheus.Registry

	// Request metrics
	requestsTotal   *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	requestsActive  prometheus.Gauge
	uploadSizeBytes *prometheus.HistogramVec

	// Extraction metrics
	extractions       *prometheus.CounterVec
	extractionLatency *prometheus.HistogramVec

	// Summarization metrics
	summaries            *prometheus.CounterVec
	summarizationLatency prometheus.Histogram
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewExporter creates a new Prometheus metrics exporter.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{registry: registry}

	e.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbrief",
			Subsystem: "pipeline",
			Name:      "requests_total",
			Help:      "Total number of summarization requests",
		},
		[]string{"media_type", "status"},
	)

	e.requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docbrief",
			Subsystem: "pipeline",
			Name:      "request_latency_seconds",
			Help:      "End-to-end request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"media_type"},
	)

	e.requestsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docbrief",
			Subsystem: "pipeline",
			Name:      "requests_active",
			Help:      "Number of requests currently in flight",
		},
	)

	e.uploadSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docbrief",
			Subsystem: "pipeline",
			Name:      "upload_size_bytes",
			Help:      "Accepted upload size in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 7),
		},
		[]string{"media_type"},
	)

	e.extractions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbrief",
			Subsystem: "extract",
			Name:      "operations_total",
			Help:      "Total number of text extraction attempts",
		},
		[]string{"stage", "status"},
	)

	e.extractionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docbrief",
			Subsystem: "extract",
			Name:      "latency_seconds",
			Help:      "Text extraction latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"stage"},
	)

	e.summaries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbrief",
			Subsystem: "summarize",
			Name:      "calls_total",
			Help:      "Total number of settled summarization calls",
		},
		[]string{"length", "status"},
	)

	e.summarizationLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docbrief",
			Subsystem: "summarize",
			Name:      "fanout_latency_seconds",
			Help:      "Latency of the three-way summarization fan-out in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
	)

	registry.MustRegister(
		e.requestsTotal,
		e.requestLatency,
		e.requestsActive,
		e.uploadSizeBytes,
		e.extractions,
		e.extractionLatency,
		e.summaries,
		e.summarizationLatency,
	)

	return e
}

// RecordRequest records one finished request.
func (e *Exporter) RecordRequest(mediaType, status string, latency time.Duration) {
	e.requestsTotal.WithLabelValues(mediaType, status).Inc()
	e.requestLatency.WithLabelValues(mediaType).Observe(latency.Seconds())
}

// RecordUpload records the size of an accepted upload.
func (e *Exporter) RecordUpload(mediaType string, sizeBytes int64) {
	e.uploadSizeBytes.WithLabelValues(mediaType).Observe(float64(sizeBytes))
}

// RequestStarted marks a request as in flight.
func (e *Exporter) RequestStarted() {
	e.requestsActive.Inc()
}

// RequestFinished marks an in-flight request as done.
func (e *Exporter) RequestFinished() {
	e.requestsActive.Dec()
}

// RecordExtraction records one extraction attempt.
func (e *Exporter) RecordExtraction(stage string, latency time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	e.extractions.WithLabelValues(stage, status).Inc()
	e.extractionLatency.WithLabelValues(stage).Observe(latency.Seconds())
}

// RecordSummary records one settled summarization call.
func (e *Exporter) RecordSummary(length string, fallback bool) {
	status := "success"
	if fallback {
		status = "fallback"
	}
	e.summaries.WithLabelValues(length, status).Inc()
}

// RecordFanoutLatency records the wall time of the three-way fan-out.
func (e *Exporter) RecordFanoutLatency(latency time.Duration) {
	e.summarizationLatency.Observe(latency.Seconds())
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// GetRegistry returns the Prometheus registry.
func (e *Exporter) GetRegistry() *prometheus.Registry {
	return e.registry
}
