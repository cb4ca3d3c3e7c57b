// Package scheduler corre el barrido periódico que marca como vencidos los
// eventos pendientes cuya fecha programada ya pasó.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"dairy-farm-records/internal/domain/events"
	"dairy-farm-records/internal/platform/logger"
)

// DefaultSpec corre el barrido cada 10 minutos.
const DefaultSpec = "*/10 * * * *"

// OverdueScanner pasa a Overdue los eventos Pending con fecha vencida.
type OverdueScanner struct {
	repo events.Repository
	log  logger.Logger
	now  func() time.Time
	cron *cron.Cron
}

func NewOverdueScanner(repo events.Repository, log logger.Logger) *OverdueScanner {
	return &OverdueScanner{
		repo: repo,
		log:  log.With(map[string]any{"component": "overdue_scanner"}),
		now:  time.Now,
	}
}

// Start registra el job y arranca el cron. SkipIfStillRunning evita barridos
// solapados si la base está lenta; Recover contiene cualquier pánico del job.
func (s *OverdueScanner) Start(spec string) error {
	if spec == "" {
		spec = DefaultSpec
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
		cron.Recover(cron.DiscardLogger),
	))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.Scan(ctx)
	}); err != nil {
		return err
	}

	c.Start()
	s.cron = c
	s.log.Info("overdue scanner started", map[string]any{"spec": spec})
	return nil
}

// Stop frena el cron y espera a que termine el barrido en curso.
func (s *OverdueScanner) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("overdue scanner stopped", nil)
}

// Scan es una pasada del barrido; expuesto para poder dispararlo directo en
// tests y en el arranque.
func (s *OverdueScanner) Scan(ctx context.Context) {
	now := s.now()

	pending, err := s.repo.List(ctx, events.ListFilter{
		Status:    events.StatusPending,
		DueBefore: &now,
	})
	if err != nil {
		s.log.Error("listing due events", map[string]any{"error": err})
		return
	}
	if len(pending) == 0 {
		return
	}

	overdue := events.StatusOverdue
	marked := 0
	for _, e := range pending {
		if _, err := s.repo.ApplyUpdate(ctx, e.ID, events.Update{
			Status:    &overdue,
			UpdatedAt: now,
		}); err != nil {
			s.log.Error("marking event overdue", map[string]any{"event_id": e.ID, "error": err})
			continue
		}
		marked++
	}

	s.log.Info("overdue scan finished", map[string]any{"due": len(pending), "marked": marked})
}
