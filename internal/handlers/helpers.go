package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shubhamsharma-10/CloudDrive/internal/middleware"
	"github.com/shubhamsharma-10/CloudDrive/internal/services"
	"github.com/shubhamsharma-10/CloudDrive/pkg/logger"
	"github.com/shubhamsharma-10/CloudDrive/pkg/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// bindJSON parses and validates a request body. The returned message is
// suitable for the client; an empty message means the body is valid.
func bindJSON(c *fiber.Ctx, dst interface{}) string {
	if err := c.BodyParser(dst); err != nil {
		return "invalid request body"
	}
	if err := validate.Struct(dst); err != nil {
		return validationMessage(err)
	}
	return ""
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func serviceStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		return fiber.StatusBadRequest, true
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized, true
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, services.ErrUpstream):
		return fiber.StatusInternalServerError, true
	default:
		return 0, false
	}
}

func respondServiceError(c *fiber.Ctx, err error) error {
	status, ok := serviceStatus(err)
	if !ok {
		status = fiber.StatusInternalServerError
	}
	if status >= fiber.StatusInternalServerError {
		rc := middleware.RequestContextFrom(c)
		details := map[string]interface{}{
			"path":       c.Path(),
			"request_id": rc.RequestID,
		}
		if rc.Principal != nil {
			logger.ErrorWithUser(rc.Principal.UserID.String(), "request_failed", err, details)
		} else {
			logger.Error("request_failed", err, details)
		}
	}
	return utils.Error(c, status, services.Message(err))
}

func fileIDParam(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := parseUUID(c.Params("id"))
	return id, err == nil
}
