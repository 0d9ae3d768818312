package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shubhamsharma-10/CloudDrive/internal/models"
	"github.com/shubhamsharma-10/CloudDrive/internal/services"
)

const requestContextKey = "requestContext"

// RequestContext is the per-request state shared between middleware and
// handlers. The request logger creates it; RequireAuth fills in the caller.
type RequestContext struct {
	RequestID string
	Principal *services.Principal
	User      *models.User
}

// RequestContextFrom returns the request's context, creating an empty one when
// no earlier middleware did.
func RequestContextFrom(c *fiber.Ctx) *RequestContext {
	if rc, ok := c.Locals(requestContextKey).(*RequestContext); ok && rc != nil {
		return rc
	}
	rc := &RequestContext{}
	c.Locals(requestContextKey, rc)
	return rc
}

func GetPrincipal(c *fiber.Ctx) *services.Principal {
	return RequestContextFrom(c).Principal
}

func GetCurrentUser(c *fiber.Ctx) *models.User {
	return RequestContextFrom(c).User
}

func (rc *RequestContext) userID() *string {
	if rc.Principal == nil {
		return nil
	}
	id := rc.Principal.UserID.String()
	return &id
}
