package animals

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	GetByTag(ctx context.Context, tag string) (Animal, error)
	List(ctx context.Context, filter ListFilter) ([]Animal, error)

	// ApplyUpdate es un update parcial: solo los punteros no-nil se escriben.
	// No re-valida el documento completo.
	ApplyUpdate(ctx context.Context, id string, upd Update) (Animal, error)

	// Delete borra el animal. Los eventos NO se borran en cascada:
	// quedan como historia, huérfanos por animalId.
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Gender   Gender
	Location string
}

// Update modela un PATCH: nil = no tocar.
type Update struct {
	Breed           *string
	AcquisitionDate *time.Time
	AcquisitionType *AcquisitionType
	MothersTag      *string
	FathersTag      *string
	CurrentBCS      *float64
	CurrentWeight   *float64
	LactationStatus *LactationStatus
	Notes           *string
	Location        *string
	Category        *Category

	// Campos reservados al motor de ciclo de vida.
	ReproductiveStatus   *ReproductiveStatus
	LastHealthCheckDate  *time.Time
	LastHeatDay          *time.Time
	LastInseminationDate *time.Time
	// ClearLastInsemination distingue "poner en nil" de "no tocar"
	// (post-parto se limpia la última inseminación).
	ClearLastInsemination bool

	UpdatedAt time.Time
}
