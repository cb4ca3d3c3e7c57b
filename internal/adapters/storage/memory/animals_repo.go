// Package memory implementa los repositorios sobre mapas en memoria.
// Es el backend por defecto para desarrollo y tests; los datos se
// pierden al reiniciar.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"dairy-farm-records/internal/domain/animals"
)

type animalRepo struct {
	mu   sync.RWMutex
	byID map[string]animals.Animal
}

func NewAnimalRepo() animals.Repository {
	return &animalRepo{
		byID: make(map[string]animals.Animal),
	}
}

func (r *animalRepo) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *animalRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *animalRepo) GetByTag(ctx context.Context, tag string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.Tag == tag {
			return a, nil
		}
	}
	return animals.Animal{}, animals.ErrNotFound
}

func (r *animalRepo) List(ctx context.Context, filter animals.ListFilter) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if filter.Gender != "" && a.Gender != filter.Gender {
			continue
		}
		if filter.Location != "" && a.Location != filter.Location {
			continue
		}
		out = append(out, a)
	}

	// Orden estable por tag asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Tag < out[j].Tag
	})

	return out, nil
}

func (r *animalRepo) ApplyUpdate(ctx context.Context, id string, upd animals.Update) (animals.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}

	if upd.Breed != nil {
		a.Breed = *upd.Breed
	}
	if upd.AcquisitionDate != nil {
		a.AcquisitionDate = upd.AcquisitionDate
	}
	if upd.AcquisitionType != nil {
		a.AcquisitionType = *upd.AcquisitionType
	}
	if upd.MothersTag != nil {
		a.MothersTag = *upd.MothersTag
	}
	if upd.FathersTag != nil {
		a.FathersTag = *upd.FathersTag
	}
	if upd.CurrentBCS != nil {
		a.CurrentBCS = upd.CurrentBCS
	}
	if upd.CurrentWeight != nil {
		a.CurrentWeight = upd.CurrentWeight
	}
	if upd.LactationStatus != nil {
		a.LactationStatus = *upd.LactationStatus
	}
	if upd.Notes != nil {
		a.Notes = *upd.Notes
	}
	if upd.Location != nil {
		a.Location = *upd.Location
	}
	if upd.Category != nil {
		a.Category = *upd.Category
	}
	if upd.ReproductiveStatus != nil {
		a.ReproductiveStatus = *upd.ReproductiveStatus
	}
	if upd.LastHealthCheckDate != nil {
		a.LastHealthCheckDate = upd.LastHealthCheckDate
	}
	if upd.LastHeatDay != nil {
		a.LastHeatDay = upd.LastHeatDay
	}
	if upd.LastInseminationDate != nil {
		a.LastInseminationDate = upd.LastInseminationDate
	}
	if upd.ClearLastInsemination {
		a.LastInseminationDate = nil
	}
	a.UpdatedAt = upd.UpdatedAt

	r.byID[id] = a
	return a, nil
}

func (r *animalRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return animals.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
