// Package metrics expone contadores Prometheus de la API y de la disposición de calidad.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/internal/domain/disposition"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

const namespace = "manufactura"

var _ qa.Recorder = (*Metrics)(nil)

// Metrics colectores registrados en un registro propio (uno por proceso, o uno por test).
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DispositionsTotal   *prometheus.CounterVec
	DisposedQuantity    *prometheus.CounterVec
}

// New crea el registro y sus colectores. withRuntime añade métricas de Go y del proceso.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total de peticiones HTTP",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duración de las peticiones HTTP en segundos",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		DispositionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "qa_dispositions_total",
				Help:      "Disposiciones parciales procesadas por resultado",
			},
			[]string{"outcome"},
		),
		DisposedQuantity: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "qa_disposed_quantity_total",
				Help:      "Cantidad dispuesta por destino (solo disposiciones confirmadas)",
			},
			[]string{"disposition"},
		),
	}
}

// Registry registro subyacente.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Observe implementa qa.Recorder.
func (m *Metrics) Observe(outcome string, plan *disposition.Plan) {
	m.DispositionsTotal.WithLabelValues(outcome).Inc()
	if outcome != qa.OutcomeCommitted || plan == nil {
		return
	}
	add := func(label string, qty decimal.Decimal) {
		if v := qty.InexactFloat64(); v > 0 {
			m.DisposedQuantity.WithLabelValues(label).Add(v)
		}
	}
	add("APPROVED", plan.Approved)
	add(entity.DispositionRework, plan.Rework)
	add(entity.DispositionScrap, plan.Scrap)
	add(entity.DispositionDisposal, plan.Disposal)
}

// Middleware cuenta y mide cada petición usando la ruta registrada (no la URL) como etiqueta.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		m.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
		m.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler endpoint /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
