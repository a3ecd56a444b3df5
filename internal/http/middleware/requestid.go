package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"catalogapi/internal/logger"
)

const (
	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the fiber locals key holding the request id.
	RequestIDLocalKey = "request_id"
	// maxRequestIDLen bounds a client-supplied id; longer ones are replaced.
	maxRequestIDLen = 128
)

// RequestID ensures every request has an id, echoed in X-Request-ID.
//
// The id is stored in fiber locals for handlers, on the user context for
// the service layer and loggers, and on the active server span. Register it
// after the tracing middleware so the span exists.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		ctx := c.UserContext()
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("http.request_id", id))
		c.SetUserContext(logger.ContextWithRequestID(ctx, id))

		return c.Next()
	}
}
