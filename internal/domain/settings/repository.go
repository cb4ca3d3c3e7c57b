package settings

import "context"

type Repository interface {
	// Get devuelve el registro singleton. ErrNotFound si nunca se creó.
	Get(ctx context.Context) (Config, error)

	// Upsert escribe la config completa (crea el singleton si no existe).
	Upsert(ctx context.Context, c Config) (Config, error)
}
