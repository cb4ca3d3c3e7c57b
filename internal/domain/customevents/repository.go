package customevents

import "context"

type Repository interface {
	Create(ctx context.Context, t EventType) error
	GetByID(ctx context.Context, id string) (EventType, error)
	GetByName(ctx context.Context, name string) (EventType, error)

	// List devuelve las plantillas ordenadas por nombre asc.
	List(ctx context.Context) ([]EventType, error)

	Delete(ctx context.Context, id string) error
}
