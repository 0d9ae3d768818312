package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shubhamsharma-10/CloudDrive/pkg/logger"
)

func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rc := &RequestContext{RequestID: logger.GenerateRequestID()}
		c.Locals(requestContextKey, rc)
		c.Set("X-Request-ID", rc.RequestID)

		err := c.Next()
		if err != nil {
			// Render now so the logged status matches what the client receives.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		statusCode := c.Response().StatusCode()
		details := map[string]interface{}{
			"method":        c.Method(),
			"path":          c.Path(),
			"status_code":   statusCode,
			"latency_ms":    time.Since(start).Milliseconds(),
			"user_agent":    c.Get("User-Agent"),
			"ip":            c.IP(),
			"request_body":  logger.GetRequestBodySummary(c),
			"response_body": logger.GetResponseSizeSummary(c),
			"request_id":    rc.RequestID,
		}

		userID := rc.userID()
		if userID != nil {
			if statusCode >= 500 {
				logger.ErrorWithUser(*userID, "http_request", err, details)
			} else if statusCode >= 400 {
				logger.WarnWithUser(*userID, "http_request", details)
			} else {
				logger.InfoWithUser(*userID, "http_request", details)
			}
		} else {
			if statusCode >= 500 {
				logger.Error("http_request", err, details)
			} else if statusCode >= 400 {
				logger.Warn("http_request", details)
			} else {
				logger.Info("http_request", details)
			}
		}

		return nil
	}
}

// SecurityLogger records rejected and probing requests separately from the
// access log so they are easy to alert on.
func SecurityLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		statusCode := statusOf(c, err)
		var reason string
		switch statusCode {
		case fiber.StatusUnauthorized:
			reason = "unauthenticated"
		case fiber.StatusForbidden:
			reason = "access_denied"
		case fiber.StatusNotFound:
			reason = "not_found"
		default:
			return err
		}

		rc := RequestContextFrom(c)
		details := map[string]interface{}{
			"method":     c.Method(),
			"path":       c.Path(),
			"ip":         c.IP(),
			"reason":     reason,
			"request_id": rc.RequestID,
		}

		if userID := rc.userID(); userID != nil {
			logger.WarnWithUser(*userID, "security_"+reason, details)
		} else {
			logger.Warn("security_"+reason, details)
		}

		return err
	}
}
