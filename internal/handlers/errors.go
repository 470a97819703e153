package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/services"
)

// errorResponse maps service errors onto HTTP responses. Validation failures
// are client errors; a lost status-transition race surfaces as a conflict;
// everything else is a server error with the detail kept out of the body.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "request not found"})
	case errors.Is(err, services.ErrAlreadyFinalized):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "request already finalized"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
