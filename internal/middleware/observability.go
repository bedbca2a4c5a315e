package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devking-app/devking-api/internal/observability"
)

// Observability attaches Prometheus metrics and structured latency/error
// logging for the admin and teacher dashboard endpoints.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		audience := dashboardAudience(c.Path())
		if audience == "" {
			return err
		}

		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()
		statusLabel := fmt.Sprintf("%d", status)

		observability.DashboardRequests().WithLabelValues(audience, method, route, statusLabel).Inc()
		observability.DashboardLatency().WithLabelValues(audience, method, route).Observe(duration.Seconds())
		if status >= fiber.StatusBadRequest {
			observability.DashboardErrors().WithLabelValues(audience, method, route, statusLabel).Inc()
		}

		requestLogger := logger.With().
			Str("correlation_id", GetCorrelationID(c)).
			Str("audience", audience).
			Str("route", route).
			Str("method", method).
			Int("status", status).
			Float64("latency_ms", float64(duration)/float64(time.Millisecond)).
			Str("latency_bucket", latencyBucket(duration)).
			Logger()

		switch {
		case status >= fiber.StatusInternalServerError:
			requestLogger.Error().Msg("dashboard request failed")
		case status >= fiber.StatusBadRequest:
			requestLogger.Warn().Msg("dashboard request completed with client error")
		default:
			requestLogger.Info().Msg("dashboard request completed")
		}

		return err
	}
}

func dashboardAudience(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/v1/admin/dashboard"):
		return "admin"
	case strings.HasPrefix(path, "/api/v1/teacher/dashboard"):
		return "teacher"
	default:
		return ""
	}
}

func routeTemplate(c *fiber.Ctx) string {
	if c.Route() != nil && c.Route().Path != "" {
		return c.Route().Path
	}
	return c.Path()
}

func latencyBucket(duration time.Duration) string {
	switch {
	case duration <= 25*time.Millisecond:
		return "<=25ms"
	case duration <= 50*time.Millisecond:
		return "<=50ms"
	case duration <= 100*time.Millisecond:
		return "<=100ms"
	case duration <= 250*time.Millisecond:
		return "<=250ms"
	case duration <= 500*time.Millisecond:
		return "<=500ms"
	default:
		return ">500ms"
	}
}
