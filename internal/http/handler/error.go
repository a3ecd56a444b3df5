package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"catalogapi/internal/apperr"
	"catalogapi/internal/http/middleware"
	"catalogapi/internal/logger"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Error     string `json:"error"`
}

// messagePayload is the body of operations that return no entity.
type messagePayload struct {
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Code:      code,
		Error:     message,
	})
}

// writeOutcome maps an error returned by the service layer onto a status and
// code. Reasons of client-facing kinds are passed through; integrity and
// storage failures are logged, with the request and trace ids found on the
// user context, and answered with a generic message.
func writeOutcome(c *fiber.Ctx, log zerolog.Logger, err error) error {
	log = logger.WithContext(c.UserContext(), log)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", apperr.Reason(err, "invalid input"))
	case errors.Is(err, apperr.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", apperr.Reason(err, "resource not found"))
	case errors.Is(err, apperr.ErrConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", apperr.Reason(err, "conflict"))
	case errors.Is(err, apperr.ErrIntegrity):
		log.Error().Err(err).Msg("data integrity violation")
		return writeError(c, fiber.StatusInternalServerError, "INTEGRITY_ERROR", "stored data violates an integrity rule")
	default:
		log.Error().Err(err).Msg("request failed")
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusUnprocessableEntity:
			return writeError(c, status, "INVALID_BODY", "invalid request body")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
