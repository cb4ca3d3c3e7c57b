package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"dairy-farm-records/internal/domain/events"
)

type eventRepo struct {
	mu   sync.RWMutex
	byID map[string]events.Event
}

func NewEventRepo() events.Repository {
	return &eventRepo{
		byID: make(map[string]events.Event),
	}
}

func (r *eventRepo) Create(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}

	r.byID[e.ID] = e
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return events.Event{}, events.ErrNotFound
	}
	return e, nil
}

func (r *eventRepo) ApplyUpdate(ctx context.Context, id string, upd events.Update) (events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return events.Event{}, events.ErrNotFound
	}

	if upd.Status != nil {
		e.Status = *upd.Status
	}
	if upd.CompletedDate != nil {
		e.CompletedDate = upd.CompletedDate
	}
	if upd.Result != nil {
		e.Result = *upd.Result
	}
	if upd.Notes != nil {
		e.Notes = *upd.Notes
	}
	if upd.SemenDetails != nil {
		e.SemenDetails = upd.SemenDetails
	}
	if upd.NotificationSent != nil {
		e.NotificationSent = *upd.NotificationSent
	}
	e.UpdatedAt = upd.UpdatedAt

	r.byID[id] = e
	return e, nil
}

func (r *eventRepo) FindPending(ctx context.Context, animalID string, t events.Type) (events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best  events.Event
		found bool
	)
	for _, e := range r.byID {
		if e.AnimalID != animalID || e.Type != t {
			continue
		}
		if e.Status != events.StatusPending && e.Status != events.StatusOverdue {
			continue
		}
		// Empate por scheduled_date: desempata el ID para no depender del
		// orden de iteración del map.
		if !found || e.ScheduledDate.Before(best.ScheduledDate) ||
			(e.ScheduledDate.Equal(best.ScheduledDate) && e.ID < best.ID) {
			best = e
			found = true
		}
	}
	if !found {
		return events.Event{}, events.ErrNotFound
	}
	return best, nil
}

func (r *eventRepo) List(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]events.Event, 0)
	for _, e := range r.byID {
		if filter.AnimalID != "" && e.AnimalID != filter.AnimalID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.DueBefore != nil && !e.ScheduledDate.Before(*filter.DueBefore) {
			continue
		}
		if filter.CompletedFrom != nil {
			if e.CompletedDate == nil || e.CompletedDate.Before(*filter.CompletedFrom) {
				continue
			}
		}
		if filter.CompletedTo != nil {
			if e.CompletedDate == nil || e.CompletedDate.After(*filter.CompletedTo) {
				continue
			}
		}
		out = append(out, e)
	}

	// Orden por scheduled_date asc
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledDate.Before(out[j].ScheduledDate)
	})

	return out, nil
}
