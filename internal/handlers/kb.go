package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/models"
	"frontdesk/internal/services"
)

// KnowledgeBaseHandler serves the knowledge base endpoints
type KnowledgeBaseHandler struct {
	escalation *services.EscalationService
}

// NewKnowledgeBaseHandler creates a new knowledge base handler
func NewKnowledgeBaseHandler(escalation *services.EscalationService) *KnowledgeBaseHandler {
	return &KnowledgeBaseHandler{escalation: escalation}
}

// List returns all knowledge base entries, newest first
func (h *KnowledgeBaseHandler) List(c *fiber.Ctx) error {
	entries, err := h.escalation.ListKnowledgeBase(c.Context())
	if err != nil {
		log.Printf("❌ Error fetching knowledge base: %v", err)
		return errorResponse(c, err)
	}
	if entries == nil {
		entries = []*models.KnowledgeBaseEntry{}
	}
	return c.JSON(entries)
}

// Match runs the matcher read-only against the q query parameter, exposed
// for diagnostics.
func (h *KnowledgeBaseHandler) Match(c *fiber.Ctx) error {
	entry, err := h.escalation.MatchKnowledgeBase(c.Context(), c.Query("q"))
	if err != nil {
		return errorResponse(c, err)
	}
	if entry == nil {
		return c.JSON(fiber.Map{"matched": false})
	}
	return c.JSON(fiber.Map{"matched": true, "entry": entry})
}
