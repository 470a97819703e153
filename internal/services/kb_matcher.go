package services

import (
	"context"
	"strings"

	"frontdesk/internal/models"
)

// KnowledgeBaseMatcher matches free-text questions against stored question
// patterns. Matching is a case-insensitive symmetric-containment heuristic,
// not semantic search: an entry matches when its pattern is a substring of
// the question or vice versa. The full knowledge base is scanned in insertion
// order and the first match wins; no scoring. The linear scan is fine at the
// data volumes a single supervisor team produces.
type KnowledgeBaseMatcher struct {
	store *EscalationStore
}

// NewKnowledgeBaseMatcher creates a new matcher
func NewKnowledgeBaseMatcher(store *EscalationStore) *KnowledgeBaseMatcher {
	return &KnowledgeBaseMatcher{store: store}
}

// Match returns the first entry matching questionText, or nil on a miss.
// Read-only and idempotent.
func (m *KnowledgeBaseMatcher) Match(ctx context.Context, questionText string) (*models.KnowledgeBaseEntry, error) {
	entries, err := m.store.AllKnowledgeBaseEntries(ctx)
	if err != nil {
		return nil, err
	}

	question := strings.ToLower(questionText)
	for _, entry := range entries {
		pattern := strings.ToLower(entry.QuestionPattern)
		if strings.Contains(question, pattern) || strings.Contains(pattern, question) {
			return entry, nil
		}
	}
	return nil, nil
}
