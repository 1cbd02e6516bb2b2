// Package metrics expone contadores Prometheus del motor de autorización y del API HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registro propio con las métricas del servicio.
type Metrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	httpTotal   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// New crea el registro y registra todas las métricas.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_lifecycle_transitions_total",
		Help: "Transiciones de ciclo de vida por tipo y resultado.",
	}, []string{"kind", "outcome"})

	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_identity_resolutions_total",
		Help: "Resoluciones de identidad por resultado.",
	}, []string{"outcome"})

	httpTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "Peticiones HTTP por método, ruta y código.",
	}, []string{"method", "route", "status"})

	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_http_request_duration_seconds",
		Help:    "Latencia de las peticiones HTTP en segundos.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	registry.MustRegister(transitions, resolutions, httpTotal, httpLatency)

	return &Metrics{
		registry:    registry,
		transitions: transitions,
		resolutions: resolutions,
		httpTotal:   httpTotal,
		httpLatency: httpLatency,
	}
}

// ObserveTransition cuenta una transición (approved, rejected, conflict, error...).
func (m *Metrics) ObserveTransition(kind, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(kind, outcome).Inc()
}

// ObserveResolution cuenta una resolución de identidad.
func (m *Metrics) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(outcome).Inc()
}

// ObserveHTTP registra una petición completada.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry devuelve el registro subyacente.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler expone las métricas en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
