package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build routers repeatedly
// without tripping duplicate registration.
type Metrics struct {
	registry        *prometheus.Registry
	requestCounter  *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	favoriteChanges *prometheus.CounterVec
	cancellations   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Total number of HTTP requests handled by the storefront API",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "Duration of storefront API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		favoriteChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_favorite_changes_total",
				Help: "Favorites added or removed",
			},
			[]string{"action"},
		),
		cancellations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_order_cancellations_total",
				Help: "Order cancellation attempts by result",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(
		m.requestCounter,
		m.requestLatency,
		m.favoriteChanges,
		m.cancellations,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware must run outside the request logger so that errors have already
// been written to the response when the status is read.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			m.requestCounter.WithLabelValues(c.Request().Method, route, status).Inc()
			m.requestLatency.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) favoriteChanged(action string) {
	if m == nil {
		return
	}
	m.favoriteChanges.WithLabelValues(action).Inc()
}

func (m *Metrics) cancellation(result string) {
	if m == nil {
		return
	}
	m.cancellations.WithLabelValues(result).Inc()
}
