// Package metricsvc holds the Prometheus collectors of the API and the echo middleware feeding them.
package metricsvc

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "institute"

// Enrollment outcomes.
const (
	OutcomeEnrolled  = "enrolled"
	OutcomeNoSession = "no_session"
	OutcomeInvalid   = "invalid"
	OutcomeRejected  = "rejected"
	OutcomeInFlight  = "in_flight"
	OutcomeFailed    = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
	enrollments  *prometheus.CounterVec
	dispatches   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests received",
		}, []string{"method", "path", "status"}),
		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests",
		}),
		enrollments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrollments_total",
			Help:      "Enrollment submissions by outcome",
		}, []string{"outcome"}),
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_dispatch_total",
			Help:      "Level clicks of the courses menu by resulting action",
		}, []string{"kind"}),
	}
}

func (m *Metrics) ObserveEnrollment(outcome string) {
	m.enrollments.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDispatch(kind string) {
	m.dispatches.WithLabelValues(kind).Inc()
}

// Middleware records request count and latency, labelled by route template rather than raw path.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			m.httpInFlight.Inc()
			defer m.httpInFlight.Dec()

			err := next(ctx)

			status := ctx.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}
			path := ctx.Path()
			if path == "" {
				path = "unmatched"
			}
			labels := prometheus.Labels{
				"method": ctx.Request().Method,
				"path":   path,
				"status": strconv.Itoa(status),
			}
			m.httpRequests.With(labels).Inc()
			m.httpLatency.With(labels).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
