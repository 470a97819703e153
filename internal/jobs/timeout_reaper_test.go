package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"frontdesk/internal/database"
	"frontdesk/internal/models"
	"frontdesk/internal/services"
)

type fakePublisher struct {
	mu       sync.Mutex
	timeouts []int64
	failFor  map[int64]bool
}

func (f *fakePublisher) PublishEscalation(context.Context, *models.HelpRequestDetail) error {
	return nil
}

func (f *fakePublisher) PublishAnswer(context.Context, int64, string) error {
	return nil
}

func (f *fakePublisher) PublishTimeout(_ context.Context, requestID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[requestID] {
		return errors.New("publisher unreachable")
	}
	f.timeouts = append(f.timeouts, requestID)
	return nil
}

func (f *fakePublisher) published() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.timeouts...)
}

func newReaperFixture(t *testing.T) (*TimeoutReaper, *services.EscalationStore, *fakePublisher) {
	t.Helper()

	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	store := services.NewEscalationStore(db)
	publisher := &fakePublisher{failFor: make(map[int64]bool)}
	return NewTimeoutReaper(store, publisher, time.Minute), store, publisher
}

func createRequest(t *testing.T, store *services.EscalationStore, timeoutAt time.Time) int64 {
	t.Helper()
	ctx := context.Background()

	caller, err := store.CreateCaller(ctx, "+1555", "Ann", "{}")
	if err != nil {
		t.Fatalf("Failed to create caller: %v", err)
	}
	id, err := store.CreateHelpRequest(ctx, caller.ID, "refund policy", time.Now().UTC(), timeoutAt)
	if err != nil {
		t.Fatalf("Failed to create help request: %v", err)
	}
	return id
}

func TestTimeoutReaper_ExpiresOverdueRequests(t *testing.T) {
	reaper, store, publisher := newReaperFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	overdue := createRequest(t, store, now.Add(-time.Minute))
	fresh := createRequest(t, store, now.Add(10*time.Minute))

	if err := reaper.Run(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	hr, _ := store.GetHelpRequest(ctx, overdue)
	if hr.Status != models.StatusUnresolved {
		t.Errorf("Expected overdue request UNRESOLVED, got %s", hr.Status)
	}
	if hr.SupervisorID != nil || hr.ResolutionText != nil {
		t.Errorf("Expected UNRESOLVED request to carry no resolution fields")
	}

	untouched, _ := store.GetHelpRequest(ctx, fresh)
	if untouched.Status != models.StatusPending {
		t.Errorf("Expected fresh request to stay PENDING, got %s", untouched.Status)
	}

	if events := publisher.published(); len(events) != 1 || events[0] != overdue {
		t.Errorf("Expected exactly one timeout event for request %d, got %v", overdue, events)
	}
}

func TestTimeoutReaper_SecondSweepIsIdempotent(t *testing.T) {
	reaper, store, publisher := newReaperFixture(t)
	ctx := context.Background()

	id := createRequest(t, store, time.Now().UTC().Add(-time.Minute))

	if err := reaper.Run(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := reaper.Run(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	hr, _ := store.GetHelpRequest(ctx, id)
	if hr.Status != models.StatusUnresolved {
		t.Errorf("Expected UNRESOLVED, got %s", hr.Status)
	}
	if events := publisher.published(); len(events) != 1 {
		t.Errorf("Expected no additional events on the second sweep, got %v", events)
	}
}

func TestTimeoutReaper_PublishFailureDoesNotBlockBatch(t *testing.T) {
	reaper, store, publisher := newReaperFixture(t)
	ctx := context.Background()
	past := time.Now().UTC().Add(-time.Minute)

	first := createRequest(t, store, past)
	second := createRequest(t, store, past)
	publisher.failFor[first] = true

	if err := reaper.Run(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Both rows transition even though the first publish failed.
	for _, id := range []int64{first, second} {
		hr, _ := store.GetHelpRequest(ctx, id)
		if hr.Status != models.StatusUnresolved {
			t.Errorf("Expected request %d UNRESOLVED, got %s", id, hr.Status)
		}
	}
	if events := publisher.published(); len(events) != 1 || events[0] != second {
		t.Errorf("Expected only request %d to publish, got %v", second, events)
	}
}

func TestTimeoutReaper_SkipsResolvedRequests(t *testing.T) {
	reaper, store, publisher := newReaperFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	id := createRequest(t, store, now.Add(-time.Minute))
	if _, err := store.ResolveHelpRequest(ctx, id, "sup-1", "answer", now); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := reaper.Run(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	hr, _ := store.GetHelpRequest(ctx, id)
	if hr.Status != models.StatusResolved {
		t.Errorf("Expected resolved request to stay RESOLVED, got %s", hr.Status)
	}
	if events := publisher.published(); len(events) != 0 {
		t.Errorf("Expected no timeout events, got %v", events)
	}
}

func TestTimeoutReaper_JobMetadata(t *testing.T) {
	reaper, _, _ := newReaperFixture(t)

	if reaper.Name() != "timeout-reaper" {
		t.Errorf("Unexpected job name %q", reaper.Name())
	}
	if reaper.Interval() != time.Minute {
		t.Errorf("Unexpected interval %v", reaper.Interval())
	}
}
