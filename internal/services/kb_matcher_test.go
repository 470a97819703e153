package services

import (
	"context"
	"testing"
	"time"
)

func seedKB(t *testing.T, store *EscalationStore, patterns ...string) {
	t.Helper()
	now := time.Now().UTC()
	for _, p := range patterns {
		if _, err := store.InsertKnowledgeBaseEntry(context.Background(), p, "answer: "+p, nil, now); err != nil {
			t.Fatalf("Failed to seed knowledge base: %v", err)
		}
	}
}

func TestKnowledgeBaseMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		question string
		want     string // matched pattern, "" for miss
	}{
		{
			name:     "pattern contained in question",
			patterns: []string{"business hours"},
			question: "what are your business hours today?",
			want:     "business hours",
		},
		{
			name:     "question contained in pattern",
			patterns: []string{"what are your detailed business hours"},
			question: "business hours",
			want:     "what are your detailed business hours",
		},
		{
			name:     "case insensitive",
			patterns: []string{"Business Hours"},
			question: "BUSINESS hours?",
			want:     "Business Hours",
		},
		{
			name:     "miss",
			patterns: []string{"business hours", "contact"},
			question: "refund policy",
			want:     "",
		},
		{
			name:     "first match by insertion order wins",
			patterns: []string{"hours", "business hours"},
			question: "business hours please",
			want:     "hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			seedKB(t, store, tt.patterns...)
			matcher := NewKnowledgeBaseMatcher(store)

			entry, err := matcher.Match(context.Background(), tt.question)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if tt.want == "" {
				if entry != nil {
					t.Fatalf("Expected miss, matched %q", entry.QuestionPattern)
				}
				return
			}
			if entry == nil {
				t.Fatalf("Expected match on %q, got miss", tt.want)
			}
			if entry.QuestionPattern != tt.want {
				t.Errorf("Expected pattern %q, got %q", tt.want, entry.QuestionPattern)
			}
		})
	}
}

func TestKnowledgeBaseMatcher_Idempotent(t *testing.T) {
	store := newTestStore(t)
	seedKB(t, store, "business hours")
	matcher := NewKnowledgeBaseMatcher(store)
	ctx := context.Background()

	first, err := matcher.Match(ctx, "business hours")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := matcher.Match(ctx, "business hours")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first == nil || second == nil || first.ID != second.ID {
		t.Error("Expected repeated matches to return the same entry")
	}

	// Matching leaves the knowledge base untouched.
	count, _ := store.CountKnowledgeBase(ctx)
	if count != 1 {
		t.Errorf("Expected matcher to be read-only, knowledge base count = %d", count)
	}
}
