package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the header carrying the request correlation id.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the fiber.Ctx locals key holding the request id.
	RequestIDLocalKey = "request_id"
)

// RequestID attaches a correlation id to every request. An incoming
// X-Request-ID is honored so callers can trace across services; otherwise a
// fresh UUID is generated. The id is stored in locals and echoed in the
// response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}
