package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics owns all prometheus collectors of the service behind a
// private registry, so tests can build isolated instances.
type ServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	classificationsTotal   *prometheus.CounterVec
	classificationDuration *prometheus.HistogramVec
	uploadBytes            *prometheus.HistogramVec
}

func NewServerMetrics(service string) *ServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docclassifier",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docclassifier",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docclassifier",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	classificationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docclassifier",
			Subsystem: "pipeline",
			Name:      "classifications_total",
			Help:      "Completed classification requests by outcome.",
		},
		[]string{"service", "outcome"},
	)
	classificationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docclassifier",
			Subsystem: "pipeline",
			Name:      "classification_duration_seconds",
			Help:      "End-to-end classification duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	uploadBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docclassifier",
			Subsystem: "pipeline",
			Name:      "upload_bytes",
			Help:      "Distribution of uploaded document sizes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		classificationsTotal,
		classificationDuration,
		uploadBytes,
	)

	return &ServerMetrics{
		registry:               registry,
		requestTotal:           requestTotal,
		requestDuration:        requestDuration,
		requestInFlight:        requestInFlight,
		classificationsTotal:   classificationsTotal,
		classificationDuration: classificationDuration,
		uploadBytes:            uploadBytes,
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts, durations and in-flight gauge.
func (m *ServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			r.URL.Path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// RecordClassification tracks one completed pipeline run. Outcome is "ok" or
// the stable failure kind name.
func (m *ServerMetrics) RecordClassification(service, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "internal"
	}
	m.classificationsTotal.WithLabelValues(service, outcome).Inc()
	m.classificationDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (m *ServerMetrics) RecordUploadSize(service string, uploadSize int64) {
	if uploadSize > 0 {
		m.uploadBytes.WithLabelValues(service).Observe(float64(uploadSize))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
