package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "farm_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	ledgerAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_ledger_adjustments_total",
		Help: "Batch stock adjustments by direction.",
	}, []string{"direction"})

	ledgerVolume = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_ledger_quantity_total",
		Help: "Absolute quantity moved through batch adjustments by direction.",
	}, []string{"direction"})

	codesAllocated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_codes_allocated_total",
		Help: "Sequential codes handed out by prefix.",
	}, []string{"prefix"})
)

// Middleware records count and latency of every request under its route
// pattern, so path parameters do not explode label cardinality.
func Middleware() fiber.Handler {
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
		httpRequests.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// ObserveAdjustment records one ledger adjustment of delta.
func ObserveAdjustment(delta decimal.Decimal) {
	direction := "in"
	if delta.IsNegative() {
		direction = "out"
	}
	ledgerAdjustments.WithLabelValues(direction).Inc()
	f, _ := delta.Abs().Float64()
	ledgerVolume.WithLabelValues(direction).Add(f)
}

// ObserveCode records one allocated code for prefix.
func ObserveCode(prefix string) {
	codesAllocated.WithLabelValues(prefix).Inc()
}
