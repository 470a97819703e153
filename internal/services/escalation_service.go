package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"frontdesk/internal/models"
)

// EscalationService coordinates the escalation lifecycle: it routes inbound
// questions through the knowledge base, creates PENDING help requests on a
// miss, and applies supervisor resolutions. All event publishes are
// best-effort and happen after the store write they announce; a lost event
// never rolls back a committed transition.
type EscalationService struct {
	store          *EscalationStore
	matcher        *KnowledgeBaseMatcher
	publisher      EventPublisher
	requestTimeout time.Duration
}

// NewEscalationService creates the lifecycle coordinator
func NewEscalationService(store *EscalationStore, matcher *KnowledgeBaseMatcher, publisher EventPublisher, requestTimeout time.Duration) *EscalationService {
	return &EscalationService{
		store:          store,
		matcher:        matcher,
		publisher:      publisher,
		requestTimeout: requestTimeout,
	}
}

// HandleInbound routes an inbound question. On a knowledge base hit the
// caller gets the stored answer immediately and no help request is created:
// the KB path bypasses the escalation lifecycle entirely. On a miss a
// PENDING request is created and an escalate event is broadcast.
func (s *EscalationService) HandleInbound(ctx context.Context, caller models.InboundCaller, questionText string) (*models.InboundResult, error) {
	if strings.TrimSpace(caller.Phone) == "" || strings.TrimSpace(questionText) == "" {
		return nil, fmt.Errorf("%w: caller phone and utterance are required", ErrValidation)
	}

	record, err := s.findOrCreateCaller(ctx, caller)
	if err != nil {
		return nil, err
	}

	entry, err := s.matcher.Match(ctx, questionText)
	if err != nil {
		return nil, err
	}

	if entry != nil {
		log.Printf("💡 [ESCALATION] KB hit (entry %d) for caller %s", entry.ID, record.Phone)
		if m := GetMetrics(); m != nil {
			m.KBHits.Inc()
		}
		return &models.InboundResult{Status: "answered", Answer: entry.AnswerText}, nil
	}

	if m := GetMetrics(); m != nil {
		m.KBMisses.Inc()
	}

	now := time.Now().UTC()
	requestID, err := s.store.CreateHelpRequest(ctx, record.ID, questionText, now, now.Add(s.requestTimeout))
	if err != nil {
		return nil, err
	}

	log.Printf("🚨 [ESCALATION] No KB match, escalating request %d for caller %s", requestID, record.Phone)
	if m := GetMetrics(); m != nil {
		m.Escalations.Inc()
	}

	// Best-effort notification: the request is escalated in the data model
	// regardless of delivery. Dashboards reconcile via the pending list.
	if detail, err := s.store.GetHelpRequestDetail(ctx, requestID); err != nil {
		log.Printf("⚠️ [ESCALATION] Failed to load request %d for publish: %v", requestID, err)
	} else if err := s.publisher.PublishEscalation(ctx, detail); err != nil {
		log.Printf("⚠️ [ESCALATION] Failed to publish escalate event for request %d: %v", requestID, err)
	}

	return &models.InboundResult{Status: "escalated", RequestID: requestID}, nil
}

// Resolve applies a supervisor's answer to a pending request. The transition
// is a compare-and-swap on the PENDING status: a request already finalized
// (resolved by another supervisor, or expired by the reaper) is rejected with
// ErrAlreadyFinalized instead of silently overwritten. With addToKB the
// original question text is promoted verbatim as a new KB pattern.
func (s *EscalationService) Resolve(ctx context.Context, requestID int64, supervisorID, answerText string, addToKB bool) error {
	if strings.TrimSpace(supervisorID) == "" || strings.TrimSpace(answerText) == "" {
		return fmt.Errorf("%w: supervisor_id and answer_text are required", ErrValidation)
	}

	now := time.Now().UTC()
	updated, err := s.store.ResolveHelpRequest(ctx, requestID, supervisorID, answerText, now)
	if err != nil {
		return err
	}
	if !updated {
		// Distinguish a finalized request from one that never existed.
		if _, err := s.store.GetHelpRequest(ctx, requestID); err != nil {
			return err
		}
		return ErrAlreadyFinalized
	}

	log.Printf("✅ [ESCALATION] Supervisor %s resolved request %d", supervisorID, requestID)
	if m := GetMetrics(); m != nil {
		m.Resolutions.Inc()
	}

	if addToKB {
		request, err := s.store.GetHelpRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if _, err := s.store.InsertKnowledgeBaseEntry(ctx, request.QuestionText, answerText, &requestID, now); err != nil {
			return err
		}
		log.Printf("📚 [ESCALATION] Added request %d to knowledge base", requestID)
	}

	if err := s.publisher.PublishAnswer(ctx, requestID, answerText); err != nil {
		log.Printf("⚠️ [ESCALATION] Failed to publish answer event for request %d: %v", requestID, err)
	}

	return nil
}

// ListRequests returns caller-joined requests for the dashboard, newest
// first. statusFilter is matched case-insensitively; empty means all.
func (s *EscalationService) ListRequests(ctx context.Context, statusFilter string) ([]*models.HelpRequestDetail, error) {
	return s.store.ListHelpRequests(ctx, strings.ToUpper(strings.TrimSpace(statusFilter)))
}

// ListKnowledgeBase returns the knowledge base, newest first
func (s *EscalationService) ListKnowledgeBase(ctx context.Context) ([]*models.KnowledgeBaseEntry, error) {
	return s.store.ListKnowledgeBase(ctx)
}

// MatchKnowledgeBase runs the matcher read-only, exposed for diagnostics
func (s *EscalationService) MatchKnowledgeBase(ctx context.Context, questionText string) (*models.KnowledgeBaseEntry, error) {
	if strings.TrimSpace(questionText) == "" {
		return nil, fmt.Errorf("%w: question text is required", ErrValidation)
	}
	return s.matcher.Match(ctx, questionText)
}

// findOrCreateCaller resolves a caller by phone, creating the identity record
// on first contact. Read-then-write: two concurrent first contacts from one
// phone can create duplicate rows, an accepted limitation of the schema
// (phone carries no uniqueness constraint).
func (s *EscalationService) findOrCreateCaller(ctx context.Context, caller models.InboundCaller) (*models.Caller, error) {
	record, err := s.store.FindCallerByPhone(ctx, caller.Phone)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	metadata, _ := json.Marshal(map[string]interface{}{})
	return s.store.CreateCaller(ctx, caller.Phone, caller.Name, string(metadata))
}
