package events

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Event
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Event{}}
}

func (r *testRepo) Create(ctx context.Context, e Event) error {
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) ApplyUpdate(ctx context.Context, id string, upd Update) (Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	if upd.Status != nil {
		e.Status = *upd.Status
	}
	if upd.CompletedDate != nil {
		e.CompletedDate = upd.CompletedDate
	}
	e.UpdatedAt = upd.UpdatedAt
	r.byID[id] = e
	return e, nil
}

func (r *testRepo) FindPending(ctx context.Context, animalID string, t Type) (Event, error) {
	var best Event
	found := false
	for _, e := range r.byID {
		if e.AnimalID != animalID || e.Type != t || e.Status != StatusPending {
			continue
		}
		if !found || e.ScheduledDate.Before(best.ScheduledDate) {
			best = e
			found = true
		}
	}
	if !found {
		return Event{}, ErrNotFound
	}
	return best, nil
}

func (r *testRepo) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	out := make([]Event, 0)
	for _, e := range r.byID {
		if filter.AnimalID != "" && e.AnimalID != filter.AnimalID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledDate.Before(out[j].ScheduledDate)
	})
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsAndValidation(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	e, err := svc.Create(context.Background(), CreateInput{
		AnimalID:      "a-1",
		Type:          TypeHealthCheck,
		Title:         "  Health Check  ",
		ScheduledDate: now.AddDate(0, 0, 3),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if e.Status != StatusPending {
		t.Fatalf("expected Pending, got %q", e.Status)
	}
	if e.Priority != PriorityMedium {
		t.Fatalf("expected default Medium priority, got %q", e.Priority)
	}
	if e.Title != "Health Check" {
		t.Fatalf("expected trimmed title, got %q", e.Title)
	}

	if _, err := svc.Create(context.Background(), CreateInput{Type: TypeHealthCheck, ScheduledDate: now}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without animal, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{AnimalID: "a-1", Type: TypeHealthCheck}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without date, got %v", err)
	}
}

func TestService_Cancel_Transitions(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seed := func(status Status) Event {
		e := Event{
			ID:            "e-" + string(status),
			AnimalID:      "a-1",
			Type:          TypeHealthCheck,
			ScheduledDate: now,
			Status:        status,
			Priority:      PriorityMedium,
		}
		repo.byID[e.ID] = e
		return e
	}

	pending := seed(StatusPending)
	overdue := seed(StatusOverdue)
	completed := seed(StatusCompleted)
	cancelled := seed(StatusCancelled)

	for _, e := range []Event{pending, overdue} {
		got, err := svc.Cancel(context.Background(), e.ID)
		if err != nil {
			t.Fatalf("cancel %s: %v", e.Status, err)
		}
		if got.Status != StatusCancelled {
			t.Fatalf("expected Cancelled, got %q", got.Status)
		}
	}

	for _, e := range []Event{completed, cancelled} {
		if _, err := svc.Cancel(context.Background(), e.ID); !errors.Is(err, ErrBadState) {
			t.Fatalf("expected ErrBadState cancelling %s, got %v", e.Status, err)
		}
	}

	if _, err := svc.Cancel(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
