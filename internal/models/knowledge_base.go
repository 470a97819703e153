package models

import "time"

// KnowledgeBaseEntry maps a question pattern to a canned answer. Entries are
// immutable once created; CreatedFromRequestID back-references the help
// request a supervisor promoted into the knowledge base, if any.
type KnowledgeBaseEntry struct {
	ID                   int64     `json:"id"`
	QuestionPattern      string    `json:"question_pattern"`
	AnswerText           string    `json:"answer_text"`
	CreatedFromRequestID *int64    `json:"created_from_request_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}
