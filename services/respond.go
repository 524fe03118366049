package services

import (
	"errors"

	"hackathon-judging-system/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps the engine's error taxonomy onto HTTP responses so
// every service reports denials the same way.
func respondError(c *fiber.Ctx, err error) error {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  ve.Message,
			"code":   "validation_error",
			"fields": ve.Fields,
		})
	}
	var ae *models.AuthorizationError
	if errors.As(err, &ae) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": ae.Message,
			"code":  "authorization_error",
		})
	}
	var pe *models.PhaseViolationError
	if errors.As(err, &pe) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":  pe.Message,
			"code":   "phase_violation",
			"action": pe.Action,
			"phase":  pe.Phase,
		})
	}
	var ce *models.ConflictError
	if errors.As(err, &ce) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": ce.Message,
			"code":  "conflict",
		})
	}
	var se *models.PersistenceError
	if errors.As(err, &se) {
		// Safe to retry: the transactional step is idempotent.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":     "a storage operation failed, please retry",
			"code":      "persistence_error",
			"retryable": true,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
