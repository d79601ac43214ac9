package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the portal.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	uploadsTotal     prometheus.Counter
	loginsTotal      *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	submissionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "form_submissions_total",
		Help: "Total number of accepted form submissions",
	}, []string{"form"})

	uploadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "certificate_uploads_total",
		Help: "Total number of stored certificate uploads",
	})

	loginsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logins_total",
		Help: "Total number of successful logins",
	}, []string{"provider"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, submissionsTotal, uploadsTotal, loginsTotal, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		submissionsTotal: submissionsTotal,
		uploadsTotal:     uploadsTotal,
		loginsTotal:      loginsTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordSubmission counts one accepted submission for a form.
func (m *MetricsService) RecordSubmission(form string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(form).Inc()
}

// RecordUpload counts one stored certificate file.
func (m *MetricsService) RecordUpload() {
	if m == nil {
		return
	}
	m.uploadsTotal.Inc()
}

// RecordLogin counts one successful login per provider.
func (m *MetricsService) RecordLogin(provider string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(provider).Inc()
}
