package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	service  string
	registry *prometheus.Registry

	handleTotal    *prometheus.CounterVec
	handleDuration *prometheus.HistogramVec
	handleInFlight prometheus.Gauge
	eventsTotal    *prometheus.CounterVec
	eventLag       *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	handleTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "event_handle_total",
			Help:      "Total handled analysis events by status.",
		},
		[]string{"service", "status"},
	)
	handleDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "event_handle_duration_seconds",
			Help:      "Analysis event handling duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	handleInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "event_handle_in_flight",
			Help:      "Number of in-flight analysis event handlers.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	eventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "analysis_events_total",
			Help:      "Total completed analyses observed by overall risk.",
		},
		[]string{"service", "risk"},
	)
	eventLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "event_lag_seconds",
			Help:      "Delay between analysis creation and event handling.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(handleTotal, handleDuration, handleInFlight, eventsTotal, eventLag)

	return &WorkerMetrics{
		service:        service,
		registry:       registry,
		handleTotal:    handleTotal,
		handleDuration: handleDuration,
		handleInFlight: handleInFlight,
		eventsTotal:    eventsTotal,
		eventLag:       eventLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartEvent() {
	m.handleInFlight.Inc()
}

func (m *WorkerMetrics) FinishEvent(duration time.Duration, err error) {
	m.handleInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.handleTotal.WithLabelValues(m.service, status).Inc()
	m.handleDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

// RecordAnalysisEvent counts the event by risk. A negative lag means the
// creation time was unknown and is not observed.
func (m *WorkerMetrics) RecordAnalysisEvent(risk string, lagSeconds float64) {
	m.eventsTotal.WithLabelValues(m.service, risk).Inc()
	if lagSeconds < 0 {
		return
	}
	m.eventLag.WithLabelValues(m.service).Observe(lagSeconds)
}
