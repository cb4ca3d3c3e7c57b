package customevents

import (
	"context"
	"errors"
	"testing"
	"time"

	"dairy-farm-records/internal/domain/animals"
	"dairy-farm-records/internal/domain/events"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]EventType
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]EventType{}}
}

func (r *testRepo) Create(ctx context.Context, t EventType) error {
	r.byID[t.ID] = t
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (EventType, error) {
	t, ok := r.byID[id]
	if !ok {
		return EventType{}, ErrNotFound
	}
	return t, nil
}

func (r *testRepo) GetByName(ctx context.Context, name string) (EventType, error) {
	for _, t := range r.byID {
		if t.Name == name {
			return t, nil
		}
	}
	return EventType{}, ErrNotFound
}

func (r *testRepo) List(ctx context.Context) ([]EventType, error) {
	out := make([]EventType, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type testAnimalsRepo struct {
	byID map[string]animals.Animal
}

func (r *testAnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	r.byID[a.ID] = a
	return nil
}

func (r *testAnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *testAnimalsRepo) GetByTag(ctx context.Context, tag string) (animals.Animal, error) {
	return animals.Animal{}, animals.ErrNotFound
}

func (r *testAnimalsRepo) List(ctx context.Context, f animals.ListFilter) ([]animals.Animal, error) {
	return nil, nil
}

func (r *testAnimalsRepo) ApplyUpdate(ctx context.Context, id string, upd animals.Update) (animals.Animal, error) {
	return r.GetByID(ctx, id)
}

func (r *testAnimalsRepo) Delete(ctx context.Context, id string) error { return nil }

type testEventsRepo struct {
	created []events.Event
}

func (r *testEventsRepo) Create(ctx context.Context, e events.Event) error {
	r.created = append(r.created, e)
	return nil
}

func (r *testEventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	return events.Event{}, events.ErrNotFound
}

func (r *testEventsRepo) ApplyUpdate(ctx context.Context, id string, upd events.Update) (events.Event, error) {
	return events.Event{}, events.ErrNotFound
}

func (r *testEventsRepo) FindPending(ctx context.Context, animalID string, t events.Type) (events.Event, error) {
	return events.Event{}, events.ErrNotFound
}

func (r *testEventsRepo) List(ctx context.Context, f events.ListFilter) ([]events.Event, error) {
	return nil, nil
}

func newTestService() (*Service, *testRepo, *testAnimalsRepo, *testEventsRepo) {
	repo := newTestRepo()
	animalsRepo := &testAnimalsRepo{byID: map[string]animals.Animal{}}
	eventsRepo := &testEventsRepo{}
	return NewService(repo, animalsRepo, eventsRepo), repo, animalsRepo, eventsRepo
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_Validates(t *testing.T) {
	svc, _, _, _ := newTestService()

	base := CreateInput{
		Name:          "Hoof Trimming",
		ReminderValue: 3,
		ReminderUnit:  events.UnitMonth,
		AnimalClasses: []animals.AnimalClass{animals.ClassAdultFemale},
	}

	if _, err := svc.Create(context.Background(), base); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"empty name", func(in *CreateInput) { in.Name = "  " }},
		{"reminder zero", func(in *CreateInput) { in.ReminderValue = 0 }},
		{"bad unit", func(in *CreateInput) { in.ReminderUnit = "fortnight" }},
		{"no classes", func(in *CreateInput) { in.AnimalClasses = nil }},
		{"bad class", func(in *CreateInput) { in.AnimalClasses = []animals.AnimalClass{"puppy"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			in.Name = "Otro " + tc.name
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_Create_DuplicateName(t *testing.T) {
	svc, _, _, _ := newTestService()

	in := CreateInput{
		Name:          "Vaccination",
		ReminderValue: 6,
		ReminderUnit:  events.UnitMonth,
		AnimalClasses: []animals.AnimalClass{animals.ClassAdultFemale, animals.ClassCalf},
	}
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestService_Create_DefaultPriority(t *testing.T) {
	svc, _, _, _ := newTestService()

	et, err := svc.Create(context.Background(), CreateInput{
		Name:          "Weighing",
		ReminderValue: 2,
		ReminderUnit:  events.UnitWeek,
		AnimalClasses: []animals.AnimalClass{animals.ClassCalf},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if et.DefaultPriority != events.PriorityMedium {
		t.Fatalf("expected medium default priority, got %q", et.DefaultPriority)
	}
}

func TestService_Apply_CreatesCompletedPlusPendingPair(t *testing.T) {
	svc, repo, animalsRepo, eventsRepo := newTestService()

	now := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a := animals.Animal{ID: "a-1", Tag: "C-001", Gender: animals.GenderFemale, Category: animals.CategoryAdult}
	animalsRepo.byID[a.ID] = a

	et := EventType{
		ID:              "t-1",
		Name:            "Hoof Trimming",
		DefaultPriority: events.PriorityLow,
		ReminderTime:    events.ReminderTime{Value: 1, Unit: events.UnitMonth},
		AnimalClasses:   []animals.AnimalClass{animals.ClassAdultFemale},
	}
	repo.byID[et.ID] = et

	applied, err := svc.Apply(context.Background(), "a-1", "t-1", "rear left overgrown")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if applied.Current.Status != events.StatusCompleted || applied.Current.CompletedDate == nil {
		t.Fatalf("expected completed current event, got %+v", applied.Current)
	}
	if applied.Current.Notes != "rear left overgrown" {
		t.Fatalf("expected notes on current event, got %q", applied.Current.Notes)
	}
	if applied.Current.Description != "Custom event: Hoof Trimming" {
		t.Fatalf("expected fallback description, got %q", applied.Current.Description)
	}

	if applied.Next.Status != events.StatusPending {
		t.Fatalf("expected pending next event, got %q", applied.Next.Status)
	}
	// Enero 31 + 1 mes calendario normaliza a marzo (AddDate).
	if want := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC); !applied.Next.ScheduledDate.Equal(want) {
		t.Fatalf("expected next at %v, got %v", want, applied.Next.ScheduledDate)
	}
	if len(applied.Next.AssociatedEvents) != 1 || applied.Next.AssociatedEvents[0] != applied.Current.ID {
		t.Fatalf("expected next associated to current, got %v", applied.Next.AssociatedEvents)
	}

	if len(eventsRepo.created) != 2 {
		t.Fatalf("expected 2 persisted events, got %d", len(eventsRepo.created))
	}
}

func TestService_Apply_NotApplicableClass(t *testing.T) {
	svc, repo, animalsRepo, _ := newTestService()

	animalsRepo.byID["a-1"] = animals.Animal{
		ID: "a-1", Tag: "B-001",
		Gender: animals.GenderMale, Category: animals.CategoryAdult,
	}
	repo.byID["t-1"] = EventType{
		ID: "t-1", Name: "Milking Equipment Check",
		ReminderTime:  events.ReminderTime{Value: 1, Unit: events.UnitWeek},
		AnimalClasses: []animals.AnimalClass{animals.ClassAdultFemale},
	}

	_, err := svc.Apply(context.Background(), "a-1", "t-1", "")
	if !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("expected ErrNotApplicable, got %v", err)
	}
}

func TestService_Apply_UnknownTypeOrAnimal(t *testing.T) {
	svc, _, animalsRepo, _ := newTestService()

	if _, err := svc.Apply(context.Background(), "ghost", "t-1", ""); !errors.Is(err, animals.ErrNotFound) {
		t.Fatalf("expected animals.ErrNotFound, got %v", err)
	}

	animalsRepo.byID["a-1"] = animals.Animal{ID: "a-1", Tag: "C-001", Gender: animals.GenderFemale, Category: animals.CategoryAdult}
	if _, err := svc.Apply(context.Background(), "a-1", "ghost", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNextDate_Units(t *testing.T) {
	now := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		r    events.ReminderTime
		want time.Time
	}{
		{"hours", events.ReminderTime{Value: 6, Unit: events.UnitHour}, now.Add(6 * time.Hour)},
		{"days", events.ReminderTime{Value: 10, Unit: events.UnitDay}, time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC)},
		{"weeks", events.ReminderTime{Value: 2, Unit: events.UnitWeek}, time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)},
		{"months normalize", events.ReminderTime{Value: 1, Unit: events.UnitMonth}, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)},
		{"unknown unit falls back to a week", events.ReminderTime{Value: 3, Unit: "decade"}, time.Date(2024, 2, 7, 10, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextDate(now, tc.r); !got.Equal(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
