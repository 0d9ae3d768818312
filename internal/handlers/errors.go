package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shubhamsharma-10/CloudDrive/internal/services"
	"github.com/shubhamsharma-10/CloudDrive/pkg/logger"
	"github.com/shubhamsharma-10/CloudDrive/pkg/utils"
)

// ErrorHandler renders errors that escape a handler, including fiber's own,
// in the standard response envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if status, ok := serviceStatus(err); ok && status < fiber.StatusInternalServerError {
		return utils.Error(c, status, services.Message(err))
	}

	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	// Bodies over the server limit never reach the upload handler.
	if code == fiber.StatusRequestEntityTooLarge {
		code = fiber.StatusBadRequest
		message = "file too large"
	}

	if code >= fiber.StatusInternalServerError {
		logger.Error("unhandled_error", err, map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		})
		message = "internal server error"
	}

	return utils.Error(c, code, message)
}
