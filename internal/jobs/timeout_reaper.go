package jobs

import (
	"context"
	"log"
	"time"

	"frontdesk/internal/services"
)

// TimeoutReaper force-expires help requests that stayed PENDING past their
// deadline. Each sweep selects the overdue PENDING set and transitions the
// rows one by one with a conditional update, so a request resolved by a
// supervisor mid-sweep is skipped rather than overwritten. Transitioned rows
// drop out of the PENDING predicate, which makes repeated sweeps idempotent.
type TimeoutReaper struct {
	store     *services.EscalationStore
	publisher services.EventPublisher
	interval  time.Duration
}

// NewTimeoutReaper creates a new timeout reaper
func NewTimeoutReaper(store *services.EscalationStore, publisher services.EventPublisher, interval time.Duration) *TimeoutReaper {
	return &TimeoutReaper{
		store:     store,
		publisher: publisher,
		interval:  interval,
	}
}

// Name implements Job
func (r *TimeoutReaper) Name() string { return "timeout-reaper" }

// Interval implements Job
func (r *TimeoutReaper) Interval() time.Duration { return r.interval }

// Run performs one sweep. A failed query aborts the tick and the next
// interval retries; a failed publish is logged and never blocks the rest of
// the batch.
func (r *TimeoutReaper) Run(ctx context.Context) error {
	now := time.Now().UTC()

	expired, err := r.store.ListExpiredPending(ctx, now)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	log.Printf("⏳ [REAPER] Found %d timed out requests", len(expired))

	for _, request := range expired {
		updated, err := r.store.ExpireHelpRequest(ctx, request.ID, now)
		if err != nil {
			log.Printf("❌ [REAPER] Failed to expire request %d: %v", request.ID, err)
			continue
		}
		if !updated {
			// A supervisor resolved it between the query and the update.
			log.Printf("ℹ️  [REAPER] Request %d already finalized, skipping", request.ID)
			continue
		}

		if m := services.GetMetrics(); m != nil {
			m.Timeouts.Inc()
		}

		if err := r.publisher.PublishTimeout(ctx, request.ID); err != nil {
			log.Printf("⚠️ [REAPER] Failed to publish timeout event for request %d: %v", request.ID, err)
		} else {
			log.Printf("📣 [REAPER] Published timeout notification for request %d", request.ID)
		}
	}

	return nil
}
