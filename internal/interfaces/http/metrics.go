package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfcare_http_requests_total",
			Help: "Total de peticiones HTTP.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "selfcare_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	authEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfcare_auth_events_total",
			Help: "Eventos de autenticación por resultado.",
		},
		[]string{"event", "result"},
	)
)

// MetricsMiddleware registra contador y latencia por ruta (patrón, no path concreto).
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := "unknown"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		status := responseStatus(c, err)

		httpRequestDurationSeconds.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return err
	}
}

// MetricsHandler expone el registro por defecto de Prometheus.
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// responseStatus el ErrorHandler todavía no ha corrido si err != nil.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func recordAuthEvent(event string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	authEventsTotal.WithLabelValues(event, result).Inc()
}
