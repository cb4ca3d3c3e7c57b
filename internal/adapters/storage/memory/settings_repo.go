package memory

import (
	"context"
	"sync"

	"dairy-farm-records/internal/domain/settings"
)

type settingsRepo struct {
	mu     sync.RWMutex
	config *settings.Config
}

func NewSettingsRepo() settings.Repository {
	return &settingsRepo{}
}

func (r *settingsRepo) Get(ctx context.Context) (settings.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.config == nil {
		return settings.Config{}, settings.ErrNotFound
	}
	return *r.config, nil
}

func (r *settingsRepo) Upsert(ctx context.Context, c settings.Config) (settings.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.config = &c
	return c, nil
}
