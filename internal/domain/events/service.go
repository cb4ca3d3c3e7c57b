package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

// Service cubre el CRUD de agenda que usa la UI (crear eventos manuales,
// listar, cancelar). Las transiciones del ciclo reproductivo NO pasan por
// acá: eso es del motor en internal/domain/lifecycle.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	AnimalID      string
	Type          Type
	Title         string
	Description   string
	ScheduledDate time.Time
	Priority      Priority
	ReminderTime  *ReminderTime
	Location      string
	Notes         string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Event, error) {
	if strings.TrimSpace(in.AnimalID) == "" {
		return Event{}, ErrInvalidInput
	}
	if in.Type == "" {
		return Event{}, ErrInvalidInput
	}
	if in.ScheduledDate.IsZero() {
		return Event{}, ErrInvalidInput
	}

	prio := in.Priority
	if prio == "" {
		prio = PriorityMedium
	}

	now := s.now()
	e := Event{
		ID:            uuid.NewString(),
		AnimalID:      strings.TrimSpace(in.AnimalID),
		Type:          in.Type,
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		ScheduledDate: in.ScheduledDate,
		Status:        StatusPending,
		Priority:      prio,
		ReminderTime:  in.ReminderTime,
		Location:      strings.TrimSpace(in.Location),
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	return s.repo.List(ctx, filter)
}

// Cancel pasa un evento Pending/Overdue a Cancelled. Un evento completado no
// se puede cancelar.
func (s *Service) Cancel(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if e.Status != StatusPending && e.Status != StatusOverdue {
		return Event{}, ErrBadState
	}

	st := StatusCancelled
	return s.repo.ApplyUpdate(ctx, id, Update{
		Status:    &st,
		UpdatedAt: s.now(),
	})
}
