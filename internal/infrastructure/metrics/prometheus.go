// Package metrics expone métricas de negocio del libro de existencias en formato Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
)

var _ ports.MetricsRecorder = (*Registry)(nil)

// Registry registro propio (no el global) con los contadores de la aplicación.
type Registry struct {
	reg                *prometheus.Registry
	movements          *prometheus.CounterVec
	rejections         *prometheus.CounterVec
	orderTransitions   *prometheus.CounterVec
	fulfillmentLatency *prometheus.HistogramVec
	importRows         *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
}

// NewRegistry crea y registra los colectores.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_stock_movements_total",
		Help: "Movimientos registrados en el libro de existencias.",
	}, []string{"type", "reason"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_stock_movements_rejected_total",
		Help: "Movimientos rechazados por reglas del libro.",
	}, []string{"cause"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_order_transitions_total",
		Help: "Transiciones de estado de pedidos.",
	}, []string{"status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "almacen_fulfillment_seconds",
		Help:    "Duración del cierre de pedidos y ventas de mostrador.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_import_rows_total",
		Help: "Filas procesadas por la importación masiva.",
	}, []string{"outcome"})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_http_requests_total",
		Help: "Peticiones HTTP por ruta y código.",
	}, []string{"method", "route", "code"})

	r.MustRegister(
		movements, rejections, transitions, latency, importRows, httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{
		reg:                r,
		movements:          movements,
		rejections:         rejections,
		orderTransitions:   transitions,
		fulfillmentLatency: latency,
		importRows:         importRows,
		httpRequests:       httpRequests,
	}
}

func (r *Registry) MovementRecorded(movementType, reason string) {
	r.movements.WithLabelValues(movementType, reason).Inc()
}

func (r *Registry) MovementRejected(cause string) {
	r.rejections.WithLabelValues(cause).Inc()
}

func (r *Registry) OrderTransition(status string) {
	r.orderTransitions.WithLabelValues(status).Inc()
}

func (r *Registry) FulfillmentObserved(outcome string, elapsed time.Duration) {
	r.fulfillmentLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (r *Registry) ImportRows(outcome string, n int) {
	if n <= 0 {
		return
	}
	r.importRows.WithLabelValues(outcome).Add(float64(n))
}

// HTTPRequest cuenta una petición atendida.
func (r *Registry) HTTPRequest(method, route string, code int) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// Handler sirve /metrics.
func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
