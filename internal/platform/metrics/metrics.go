// Package metrics exposes prometheus collectors for the HTTP surface and for
// clinic events worth alerting on.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	decisions     *prometheus.CounterVec
	invoices      *prometheus.CounterVec
	auditFailures prometheus.Counter
}

// New registers the clinic collectors on reg. A nil reg uses a fresh private
// registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clinic_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_appointment_decisions_total",
				Help: "Appointment scheduling decisions by outcome",
			},
			[]string{"outcome"},
		),
		invoices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_invoices_issued_total",
				Help: "Invoices issued by payment method",
			},
			[]string{"payment_method"},
		),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clinic_audit_write_failures_total",
			Help: "Audit entries that could not be persisted",
		}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.decisions, m.invoices, m.auditFailures)
	return m
}

// Middleware records request counts and latency keyed by the matched route
// pattern, so ids in paths do not explode label cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}

// RecordDecision counts one scheduling outcome: "admitted", "rejected" or
// "store_conflict".
func (m *Metrics) RecordDecision(outcome string) {
	m.decisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) InvoiceIssued(method string) {
	m.invoices.WithLabelValues(method).Inc()
}

func (m *Metrics) AuditWriteFailed() {
	m.auditFailures.Inc()
}
