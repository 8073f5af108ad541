package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cc"

type HTTPServerMetrics struct {
	service  string
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	analysisRequestsTotal *prometheus.CounterVec
	analysisDuration      *prometheus.HistogramVec
	llmTokensTotal        *prometheus.CounterVec
	persistenceWrites     *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	analysisRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "requests_total",
			Help:      "Total contract analysis requests by mode and outcome.",
		},
		[]string{"service", "mode", "outcome"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Contract analysis duration in seconds, extraction included.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"service", "mode"},
	)
	llmTokensTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Token usage reported by the model provider.",
		},
		[]string{"service", "mode", "direction", "model"},
	)
	persistenceWrites := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "writes_total",
			Help:      "Best-effort persistence writes by step and status.",
		},
		[]string{"service", "step", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		analysisRequestsTotal,
		analysisDuration,
		llmTokensTotal,
		persistenceWrites,
	)

	return &HTTPServerMetrics{
		service:               service,
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		analysisRequestsTotal: analysisRequestsTotal,
		analysisDuration:      analysisDuration,
		llmTokensTotal:        llmTokensTotal,
		persistenceWrites:     persistenceWrites,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			m.service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath keeps per-resource paths from exploding label cardinality.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/templates/"):
		return "/api/templates/{id}"
	case strings.HasPrefix(path, "/api/blog/"):
		return "/api/blog/{slug}"
	case path == "/api/analyses/export":
		return path
	case strings.HasPrefix(path, "/api/analyses/"):
		return "/api/analyses/{id}"
	default:
		return path
	}
}

// RecordAnalysis counts one analyze or compare request. outcome is "success"
// or the error kind label.
func (m *HTTPServerMetrics) RecordAnalysis(mode, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.analysisRequestsTotal.WithLabelValues(m.service, mode, outcome).Inc()
	m.analysisDuration.WithLabelValues(m.service, mode).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordTokens(mode, direction, model string, count int) {
	if count <= 0 {
		return
	}
	if model == "" {
		model = "unknown"
	}
	m.llmTokensTotal.WithLabelValues(m.service, mode, direction, model).Add(float64(count))
}

func (m *HTTPServerMetrics) RecordPersistence(step, status string) {
	m.persistenceWrites.WithLabelValues(m.service, step, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
