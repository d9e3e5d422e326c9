package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blobcount_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blobcount_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Counting metrics
	countRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blobcount_count_requests_total",
			Help: "Total number of counting requests",
		},
		[]string{"status"}, // status: ok, error
	)

	countProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blobcount_count_processing_duration_seconds",
			Help:    "Counting pipeline duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	objectsDetected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blobcount_objects_detected",
			Help:    "Number of objects detected per image",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// File upload metrics
	uploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blobcount_upload_size_bytes",
			Help:    "Size of uploaded files in bytes",
			Buckets: []float64{1024, 10 * 1024, 100 * 1024, 1024 * 1024, 10 * 1024 * 1024, 50 * 1024 * 1024},
		},
	)
)

// metricsHandler exposes the prometheus registry.
func metricsHandler() http.Handler {
	return promhttp.Handler()
}
