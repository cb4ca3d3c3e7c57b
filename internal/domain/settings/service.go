package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dairy-farm-records/internal/platform/logger"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrOutOfRange = errors.New("value out of range")
)

const cacheTTL = 5 * time.Minute

// cached es el estado del cache en memoria: valor + momento de lectura.
// Una escritura reemplaza la referencia completa, así los lectores
// concurrentes ven la config vieja o la nueva, nunca una mezcla.
type cached struct {
	value     Config
	fetchedAt time.Time
}

// Service es la única fuente de verdad de los parámetros de tiempos.
// Cachea lecturas por 5 minutos; los updates reemplazan el cache al instante.
// En despliegues multi-instancia otra réplica puede ver hasta 5 minutos de
// config vieja tras un update concurrente: limitación aceptada.
type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time

	mu    sync.RWMutex
	cache *cached
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Get devuelve la config cacheada si tiene menos de 5 minutos; si no,
// recarga desde storage (creando el registro con defaults si no existe).
func (s *Service) Get(ctx context.Context) (Config, error) {
	now := s.now()

	s.mu.RLock()
	c := s.cache
	s.mu.RUnlock()

	if c != nil && now.Sub(c.fetchedAt) < cacheTTL {
		return c.value, nil
	}

	cfg, err := s.repo.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		cfg, err = s.repo.Upsert(ctx, Defaults())
	}
	if err != nil {
		return Config{}, err
	}

	s.mu.Lock()
	s.cache = &cached{value: cfg, fetchedAt: now}
	s.mu.Unlock()

	s.log.Debug("settings cached", map[string]any{
		"pregnancy_length_days":      cfg.PregnancyLengthDays,
		"health_check_interval_days": cfg.HealthCheckIntervalDays,
	})

	return cfg, nil
}

// Update valida cada campo presente contra su rango, persiste y reemplaza el
// cache con timestamp fresco. Si falla la validación no se escribe nada y el
// cache queda como estaba.
func (s *Service) Update(ctx context.Context, p Patch) (Config, error) {
	if p.isEmpty() {
		return s.Get(ctx)
	}

	if err := validate(p); err != nil {
		return Config{}, err
	}

	// Base: lo persistido (o defaults si no hay registro aún).
	base, err := s.repo.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		base = Defaults()
	} else if err != nil {
		return Config{}, err
	}

	cfg, err := s.repo.Upsert(ctx, p.applyTo(base))
	if err != nil {
		return Config{}, err
	}

	s.mu.Lock()
	s.cache = &cached{value: cfg, fetchedAt: s.now()}
	s.mu.Unlock()

	s.log.Info("settings updated", map[string]any{
		"pregnancy_length_days":                cfg.PregnancyLengthDays,
		"dry_off_days_before_calving":          cfg.DryOffDaysBeforeCalving,
		"insemination_to_pregnancy_check_days": cfg.InseminationToPregnancyCheckDays,
		"health_check_interval_days":           cfg.HealthCheckIntervalDays,
	})

	return cfg, nil
}

func validate(p Patch) error {
	if v := p.PregnancyLengthDays; v != nil && (*v < minPregnancyLength || *v > maxPregnancyLength) {
		return fmt.Errorf("%w: pregnancy length must be between %d and %d days",
			ErrOutOfRange, minPregnancyLength, maxPregnancyLength)
	}
	if v := p.DryOffDaysBeforeCalving; v != nil && (*v < minDryOffDays || *v > maxDryOffDays) {
		return fmt.Errorf("%w: dry-off timing must be between %d and %d days before calving",
			ErrOutOfRange, minDryOffDays, maxDryOffDays)
	}
	if v := p.InseminationToPregnancyCheckDays; v != nil && (*v < minInseminationToCheck || *v > maxInseminationToCheck) {
		return fmt.Errorf("%w: pregnancy check timing must be between %d and %d days after insemination",
			ErrOutOfRange, minInseminationToCheck, maxInseminationToCheck)
	}
	if v := p.HealthCheckIntervalDays; v != nil && (*v < minHealthCheckInterval || *v > maxHealthCheckInterval) {
		return fmt.Errorf("%w: health check interval must be between %d and %d days",
			ErrOutOfRange, minHealthCheckInterval, maxHealthCheckInterval)
	}
	return nil
}
