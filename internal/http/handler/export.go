package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"catalogapi/internal/logger"
	"catalogapi/internal/service"
)

// ExportUsers uploads a snapshot of every user to object storage.
//
// @Summary  Export users snapshot
// @Tags     exports
// @Produce  json
// @Success  201 {object} service.SnapshotRef
// @Failure  500 {object} errorPayload
// @Failure  503 {object} errorPayload
// @Router   /api/exports/users [post]
func ExportUsers(svc service.ExportService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := svc.ExportUsers(c.UserContext())
		if err != nil {
			if errors.Is(err, service.ErrExportsDisabled) {
				return writeError(c, fiber.StatusServiceUnavailable, "EXPORTS_DISABLED", "exports are not configured")
			}
			return writeOutcome(c, log, err)
		}
		l := logger.WithContext(c.UserContext(), log)
		l.Info().
			Str("key", ref.Key).
			Int("users", ref.Users).
			Int64("size", ref.Size).
			Msg("users snapshot exported")
		return c.Status(fiber.StatusCreated).JSON(ref)
	}
}
