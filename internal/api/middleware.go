package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// observe logs each request with a generated request id and records the
// HTTP metrics. Route path (not the raw URL) keeps label cardinality
// bounded.
func (h *Handler) observe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.NewString()
		c.Locals("request_id", requestID)
		c.Set("X-Request-ID", requestID)

		err := c.Next()

		status := c.Response().StatusCode()
		path := c.Route().Path
		method := c.Method()
		elapsed := time.Since(start)

		h.Metrics.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		h.Metrics.HTTPDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())

		h.Log.Info().
			Str("request_id", requestID).
			Str("method", method).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", elapsed).
			Msg("request completed")

		return err
	}
}
