package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"frontdesk/pkg/auth"
)

// TokenHandler issues room capability tokens for dashboard identities
type TokenHandler struct {
	issuer *auth.RoomTokenIssuer
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(issuer *auth.RoomTokenIssuer) *TokenHandler {
	return &TokenHandler{issuer: issuer}
}

// Handle issues a dashboard token for GET /api/token?identity=&room=
func (h *TokenHandler) Handle(c *fiber.Ctx) error {
	identity := c.Query("identity")
	room := c.Query("room")

	if identity == "" || room == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identity and room are required"})
	}

	token, err := h.issuer.IssueDashboardToken(identity, room)
	if err != nil {
		log.Printf("❌ Error generating token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{"token": token})
}
