// Package metrics expone métricas Prometheus del motor de costeo y del API HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashbook-api/internal/application/inventory"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
)

var _ inventory.Metrics = (*Prometheus)(nil)

// Nombres de métricas.
const (
	MetricAllocationsTotal   = "cashbook_allocations_total"
	MetricAllocatedQtyTotal  = "cashbook_allocated_qty_total"
	MetricAllocatedCostTotal = "cashbook_allocated_cost_total"
	MetricReversalsTotal     = "cashbook_reversals_total"
	MetricReversedLinesTotal = "cashbook_reversed_lines_total"
	MetricRejectionsTotal    = "cashbook_rejections_total"
	MetricHTTPRequestsTotal  = "cashbook_http_requests_total"
	MetricHTTPDuration       = "cashbook_http_request_duration_seconds"
)

// Prometheus implementa inventory.Metrics sobre un registry propio.
type Prometheus struct {
	registry *prometheus.Registry

	allocations   *prometheus.CounterVec
	allocatedQty  *prometheus.CounterVec
	allocatedCost *prometheus.CounterVec
	reversals     prometheus.Counter
	reversedLines prometheus.Counter
	rejections    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewPrometheus registra las métricas en un registry nuevo (más los collectors de Go y proceso).
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricAllocationsTotal,
			Help: "Asignaciones FIFO aplicadas por clasificación.",
		}, []string{"class"}),
		allocatedQty: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricAllocatedQtyTotal,
			Help: "Unidades consumidas por clasificación.",
		}, []string{"class"}),
		allocatedCost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricAllocatedCostTotal,
			Help: "Costo FIFO consumido por clasificación.",
		}, []string{"class"}),
		reversals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricReversalsTotal,
			Help: "Asignaciones revertidas.",
		}),
		reversedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricReversedLinesTotal,
			Help: "Líneas de asignación acreditadas de vuelta a sus lotes.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRejectionsTotal,
			Help: "Operaciones rechazadas por motivo.",
		}, []string{"reason"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricHTTPRequestsTotal,
			Help: "Peticiones HTTP por ruta, método y status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricHTTPDuration,
			Help:    "Duración de peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(
		p.allocations, p.allocatedQty, p.allocatedCost,
		p.reversals, p.reversedLines, p.rejections,
		p.httpRequests, p.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Registry registry propio (tests).
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// ObserveAllocation cuenta una asignación aplicada.
func (p *Prometheus) ObserveAllocation(class entity.StockClass, qty, cost decimal.Decimal) {
	c := string(class)
	p.allocations.WithLabelValues(c).Inc()
	p.allocatedQty.WithLabelValues(c).Add(qty.InexactFloat64())
	if cost.IsPositive() {
		p.allocatedCost.WithLabelValues(c).Add(cost.InexactFloat64())
	}
}

// ObserveReversal cuenta una reversión.
func (p *Prometheus) ObserveReversal(lines int, _ decimal.Decimal) {
	p.reversals.Inc()
	p.reversedLines.Add(float64(lines))
}

// ObserveRejection cuenta un rechazo.
func (p *Prometheus) ObserveRejection(reason string) {
	p.rejections.WithLabelValues(reason).Inc()
}

// Handler handler HTTP de /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Middleware mide cada petición usando la ruta registrada (no la URL) como etiqueta.
func (p *Prometheus) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		p.httpRequests.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		p.httpDuration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}
