package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/models"
	"frontdesk/internal/services"
)

// CallsHandler handles inbound voice-agent calls
type CallsHandler struct {
	escalation *services.EscalationService
}

// NewCallsHandler creates a new calls handler
func NewCallsHandler(escalation *services.EscalationService) *CallsHandler {
	return &CallsHandler{escalation: escalation}
}

// InboundRequest is the body of POST /api/calls/inbound
type InboundRequest struct {
	Caller    models.InboundCaller `json:"caller"`
	Utterance string               `json:"utterance"`
}

// Inbound routes an inbound question through the coordinator
func (h *CallsHandler) Inbound(c *fiber.Ctx) error {
	var req InboundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Caller.Phone == "" || req.Utterance == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "caller and utterance are required"})
	}

	log.Printf("📞 Inbound call from %s (%s): %q", req.Caller.Phone, req.Caller.Name, req.Utterance)

	result, err := h.escalation.HandleInbound(c.Context(), req.Caller, req.Utterance)
	if err != nil {
		log.Printf("❌ Error handling inbound call: %v", err)
		return errorResponse(c, err)
	}

	return c.JSON(result)
}
