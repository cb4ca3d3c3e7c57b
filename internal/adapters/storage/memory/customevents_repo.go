package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"dairy-farm-records/internal/domain/customevents"
)

type customEventTypeRepo struct {
	mu   sync.RWMutex
	byID map[string]customevents.EventType
}

func NewCustomEventTypeRepo() customevents.Repository {
	return &customEventTypeRepo{
		byID: make(map[string]customevents.EventType),
	}
}

func (r *customEventTypeRepo) Create(ctx context.Context, t customevents.EventType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		return errors.New("event type id required")
	}
	if _, exists := r.byID[t.ID]; exists {
		return errors.New("event type already exists")
	}
	r.byID[t.ID] = t
	return nil
}

func (r *customEventTypeRepo) GetByID(ctx context.Context, id string) (customevents.EventType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return customevents.EventType{}, customevents.ErrNotFound
	}
	return t, nil
}

func (r *customEventTypeRepo) GetByName(ctx context.Context, name string) (customevents.EventType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.byID {
		if t.Name == name {
			return t, nil
		}
	}
	return customevents.EventType{}, customevents.ErrNotFound
}

func (r *customEventTypeRepo) List(ctx context.Context) ([]customevents.EventType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]customevents.EventType, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out, nil
}

func (r *customEventTypeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return customevents.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
