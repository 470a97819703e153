package models

// Supervisor room event types
const (
	EventTypeEscalate = "escalate"
	EventTypeAnswer   = "answer"
	EventTypeTimeout  = "timeout"
)

// EscalateEvent announces a freshly created help request to the supervisor
// room. The request carries the caller join so dashboards can render it
// without a follow-up read.
type EscalateEvent struct {
	Type    string             `json:"type"`
	Request *HelpRequestDetail `json:"request"`
}

// AnswerEvent announces a supervisor resolution
type AnswerEvent struct {
	Type       string `json:"type"`
	RequestID  int64  `json:"requestId"`
	AnswerText string `json:"answer_text"`
}

// TimeoutEvent announces that the reaper force-expired a pending request
type TimeoutEvent struct {
	Type      string `json:"type"`
	RequestID int64  `json:"requestId"`
}
