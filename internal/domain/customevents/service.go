package customevents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dairy-farm-records/internal/domain/animals"
	"dairy-farm-records/internal/domain/events"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("name already exists")
	// ErrNotApplicable: la plantilla no aplica a la clase de este animal.
	ErrNotApplicable = errors.New("event type not applicable to this animal")
)

// Service maneja las plantillas de eventos personalizados y el patrón
// genérico "registrar ahora, agendar el próximo". A diferencia del motor de
// ciclo de vida, no toca el estado reproductivo ni busca pendientes previos:
// siempre crea el par completado+pendiente.
type Service struct {
	repo    Repository
	animals animals.Repository
	events  events.Repository
	now     func() time.Time
}

func NewService(repo Repository, animalsRepo animals.Repository, eventsRepo events.Repository) *Service {
	return &Service{
		repo:    repo,
		animals: animalsRepo,
		events:  eventsRepo,
		now:     time.Now,
	}
}

type CreateInput struct {
	Name            string
	Description     string
	DefaultPriority events.Priority
	ReminderValue   int
	ReminderUnit    events.TimeUnit
	AnimalClasses   []animals.AnimalClass
}

func (s *Service) Create(ctx context.Context, in CreateInput) (EventType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return EventType{}, ErrInvalidInput
	}
	if in.ReminderValue <= 0 {
		return EventType{}, ErrInvalidInput
	}
	switch in.ReminderUnit {
	case events.UnitHour, events.UnitDay, events.UnitWeek, events.UnitMonth:
	default:
		return EventType{}, ErrInvalidInput
	}
	if len(in.AnimalClasses) == 0 {
		return EventType{}, ErrInvalidInput
	}
	for _, c := range in.AnimalClasses {
		switch c {
		case animals.ClassAdultFemale, animals.ClassAdultMale, animals.ClassCalf:
		default:
			return EventType{}, ErrInvalidInput
		}
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return EventType{}, ErrDuplicateName
	} else if !errors.Is(err, ErrNotFound) {
		return EventType{}, err
	}

	prio := in.DefaultPriority
	if prio == "" {
		prio = events.PriorityMedium
	}

	now := s.now()
	t := EventType{
		ID:              uuid.NewString(),
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		DefaultPriority: prio,
		ReminderTime:    events.ReminderTime{Value: in.ReminderValue, Unit: in.ReminderUnit},
		AnimalClasses:   in.AnimalClasses,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return EventType{}, err
	}
	return t, nil
}

func (s *Service) List(ctx context.Context) ([]EventType, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// Applied es el par resultante de aplicar una plantilla.
type Applied struct {
	Current events.Event // registrado ahora, ya Completed
	Next    events.Event // Pending, agendado a now + reminder
}

// Apply registra el evento personalizado como completado ahora y agenda el
// próximo con el offset de la plantilla, asociado al primero.
func (s *Service) Apply(ctx context.Context, animalID, typeID, notes string) (Applied, error) {
	animalID = strings.TrimSpace(animalID)
	typeID = strings.TrimSpace(typeID)
	if animalID == "" || typeID == "" {
		return Applied{}, ErrInvalidInput
	}

	a, err := s.animals.GetByID(ctx, animalID)
	if err != nil {
		return Applied{}, err
	}

	t, err := s.repo.GetByID(ctx, typeID)
	if err != nil {
		return Applied{}, err
	}

	if !t.appliesTo(animals.Classify(a)) {
		return Applied{}, fmt.Errorf("%w: %s is for %v", ErrNotApplicable, t.Name, t.AnimalClasses)
	}

	now := s.now()

	current := events.Event{
		ID:            uuid.NewString(),
		AnimalID:      a.ID,
		Type:          events.Type(t.Name),
		Title:         t.Name + " for " + a.Tag,
		Description:   t.description(),
		ScheduledDate: now,
		Status:        events.StatusCompleted,
		CompletedDate: &now,
		Priority:      t.DefaultPriority,
		Location:      a.Location,
		Notes:         strings.TrimSpace(notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.events.Create(ctx, current); err != nil {
		return Applied{}, fmt.Errorf("create current event: %w", err)
	}

	next := events.Event{
		ID:               uuid.NewString(),
		AnimalID:         a.ID,
		Type:             events.Type(t.Name),
		Title:            t.Name + " for " + a.Tag,
		Description:      t.description(),
		ScheduledDate:    nextDate(now, t.ReminderTime),
		Status:           events.StatusPending,
		Priority:         t.DefaultPriority,
		Location:         a.Location,
		AssociatedEvents: []string{current.ID},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.events.Create(ctx, next); err != nil {
		return Applied{}, fmt.Errorf("create next event: %w", err)
	}

	return Applied{Current: current, Next: next}, nil
}

func (t EventType) description() string {
	if t.Description != "" {
		return t.Description
	}
	return "Custom event: " + t.Name
}

// nextDate suma el offset de la plantilla. Meses via AddDate (calendario);
// unidad desconocida cae a una semana, como el comportamiento histórico.
func nextDate(now time.Time, r events.ReminderTime) time.Time {
	switch r.Unit {
	case events.UnitHour:
		return now.Add(time.Duration(r.Value) * time.Hour)
	case events.UnitDay:
		return now.AddDate(0, 0, r.Value)
	case events.UnitWeek:
		return now.AddDate(0, 0, 7*r.Value)
	case events.UnitMonth:
		return now.AddDate(0, r.Value, 0)
	default:
		return now.AddDate(0, 0, 7)
	}
}
