package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/models"
	"frontdesk/internal/services"
)

// SupervisorHandler serves the supervisor dashboard endpoints
type SupervisorHandler struct {
	escalation *services.EscalationService
}

// NewSupervisorHandler creates a new supervisor handler
func NewSupervisorHandler(escalation *services.EscalationService) *SupervisorHandler {
	return &SupervisorHandler{escalation: escalation}
}

// ListRequests returns caller-joined help requests, newest first. The
// optional status query filters by lifecycle state; this endpoint doubles as
// the reconciliation read for dashboards that missed live events.
func (h *SupervisorHandler) ListRequests(c *fiber.Ctx) error {
	requests, err := h.escalation.ListRequests(c.Context(), c.Query("status"))
	if err != nil {
		log.Printf("❌ Error fetching requests: %v", err)
		return errorResponse(c, err)
	}
	if requests == nil {
		requests = []*models.HelpRequestDetail{}
	}
	return c.JSON(requests)
}

// AnswerRequest is the body of POST /api/supervisor/requests/:id/answer
type AnswerRequest struct {
	SupervisorID string `json:"supervisor_id"`
	AnswerText   string `json:"answer_text"`
	AddToKB      bool   `json:"add_to_kb"`
}

// Answer resolves a pending request with a supervisor's answer
func (h *SupervisorHandler) Answer(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}

	var req AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.SupervisorID == "" || req.AnswerText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "supervisor_id and answer_text are required"})
	}

	log.Printf("🧑‍💼 Supervisor %s answering request %d", req.SupervisorID, id)

	if err := h.escalation.Resolve(c.Context(), id, req.SupervisorID, req.AnswerText, req.AddToKB); err != nil {
		log.Printf("❌ Error answering request %d: %v", id, err)
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Request resolved"})
}
