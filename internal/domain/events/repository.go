package events

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)

	// ApplyUpdate es un update parcial: solo los punteros no-nil se escriben.
	ApplyUpdate(ctx context.Context, id string, upd Update) (Event, error)

	// FindPending devuelve el evento abierto (Pending u Overdue) de ese tipo
	// para el animal: un evento vencido sigue siendo completable por una
	// acción. Si hubiera más de uno (dato sucio), gana el de scheduled_date
	// más temprana, con el ID como desempate: semántica first-match
	// documentada, no hay constraint de unicidad al crear. ErrNotFound
	// cuando no hay ninguno.
	FindPending(ctx context.Context, animalID string, t Type) (Event, error)

	// List devuelve eventos ordenados por scheduled_date asc.
	List(ctx context.Context, filter ListFilter) ([]Event, error)
}

type ListFilter struct {
	AnimalID string
	Status   Status
	Type     Type

	// DueBefore filtra Pending vencidos (scheduled_date < DueBefore).
	DueBefore *time.Time

	// Rango sobre completed_date, para las agregaciones de estadísticas.
	CompletedFrom *time.Time
	CompletedTo   *time.Time
}

// Update modela la transición de un evento: nil = no tocar.
type Update struct {
	Status           *Status
	CompletedDate    *time.Time
	Result           *Result
	Notes            *string
	SemenDetails     *SemenDetails
	NotificationSent *bool

	UpdatedAt time.Time
}
