package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shubhamsharma-10/CloudDrive/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latency labelled by route pattern.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		metrics.ObserveRequest(c.Method(), routeLabel(c), statusOf(c, err), time.Since(start).Seconds())
		return err
	}
}

// routeLabel falls back to a fixed label when no route matched so that
// scanners cannot grow the label set.
func routeLabel(c *fiber.Ctx) string {
	route := c.Route()
	if route == nil || route.Path == "" || (route.Path == "/" && c.Path() != "/") {
		return unmatchedRoute
	}
	return route.Path
}

// statusOf is the status the client will see once err has been rendered.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
