package models

import "time"

// Help request lifecycle states. Transitions are one-directional:
// PENDING -> RESOLVED (supervisor) or PENDING -> UNRESOLVED (timeout reaper).
// RESOLVED and UNRESOLVED are terminal.
const (
	StatusPending    = "PENDING"
	StatusResolved   = "RESOLVED"
	StatusUnresolved = "UNRESOLVED"
)

// HelpRequest is one escalation instance, tracked from creation to terminal
// resolution. TimeoutAt is fixed at creation (created_at + request timeout)
// and never recomputed.
type HelpRequest struct {
	ID             int64     `json:"id"`
	CallerID       int64     `json:"caller_id"`
	QuestionText   string    `json:"question_text"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	TimeoutAt      time.Time `json:"timeout_at"`
	SupervisorID   *string   `json:"supervisor_id,omitempty"`
	ResolutionText *string   `json:"resolution_text,omitempty"`
}

// HelpRequestDetail is a help request joined with its caller, as served to
// the supervisor dashboard and carried in escalate events. TTLMinutes is the
// remaining time until the request's deadline; negative once past due.
type HelpRequestDetail struct {
	HelpRequest
	Phone      string `json:"phone"`
	CallerName string `json:"caller_name"`
	TTLMinutes int    `json:"ttl_minutes"`
}

// InboundResult is the coordinator's answer to an inbound question: either
// answered directly from the knowledge base or escalated to a supervisor.
type InboundResult struct {
	Status    string `json:"status"` // "answered" or "escalated"
	Answer    string `json:"answer,omitempty"`
	RequestID int64  `json:"requestId,omitempty"`
}
