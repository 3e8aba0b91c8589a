package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/justicia-digital/procesos-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the workflow
// engine and the HTTP surface.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	transiciones    *prometheus.CounterVec
	alertas         *prometheus.CounterVec
	plazosVencidos  prometheus.Counter
	sweepRuns       prometheus.Counter
	sweepDuration   prometheus.Histogram
}

// NewMetricsService registers the collectors.
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

	transiciones := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "proceso_transiciones_total",
		Help: "State-machine transitions attempted, by edge and outcome",
	}, []string{"de", "a", "resultado"})

	alertas := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plazo_alertas_total",
		Help: "Deadline alerts emitted, by threshold in business days",
	}, []string{"umbral"})

	plazosVencidos := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plazos_vencidos_total",
		Help: "Deadlines the sweep marked as expired",
	})

	sweepRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plazo_sweep_runs_total",
		Help: "Completed deadline sweep executions",
	})

	sweepDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plazo_sweep_duration_seconds",
		Help:    "Duration of deadline sweep executions",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, transiciones, alertas, plazosVencidos, sweepRuns, sweepDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		transiciones:    transiciones,
		alertas:         alertas,
		plazosVencidos:  plazosVencidos,
		sweepRuns:       sweepRuns,
		sweepDuration:   sweepDuration,
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
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveTransicion counts one transition attempt.
func (m *MetricsService) ObserveTransicion(de, a models.EstadoProceso, resultado string) {
	if m == nil {
		return
	}
	m.transiciones.WithLabelValues(string(de), string(a), resultado).Inc()
}

// ObserveAlerta counts one emitted deadline alert.
func (m *MetricsService) ObserveAlerta(umbral int) {
	if m == nil {
		return
	}
	m.alertas.WithLabelValues(strconv.Itoa(umbral)).Inc()
}

// ObservePlazoVencido counts one expired deadline.
func (m *MetricsService) ObservePlazoVencido() {
	if m == nil {
		return
	}
	m.plazosVencidos.Inc()
}

// ObserveSweep records one completed sweep.
func (m *MetricsService) ObserveSweep(duration time.Duration) {
	if m == nil {
		return
	}
	m.sweepRuns.Inc()
	m.sweepDuration.Observe(duration.Seconds())
}
