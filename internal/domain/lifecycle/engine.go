// Package lifecycle implementa el motor de ciclo reproductivo/sanitario:
// dada una acción observada sobre un animal, completa el evento pendiente
// que corresponda, muta el estado reproductivo del animal y agenda los
// próximos eventos con fechas calculadas desde la configuración.
//
// La secuencia completar-viejo → actualizar-animal → crear-nuevos es
// estrictamente aditiva y NO transaccional: si un paso del medio falla, el
// llamador recibe error y puede quedar un evento completado sin follow-up
// agendado. Gap conocido, heredado del diseño original.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dairy-farm-records/internal/domain/animals"
	"dairy-farm-records/internal/domain/events"
	"dairy-farm-records/internal/domain/settings"
	"dairy-farm-records/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	// ErrInvalidOperation: la acción no aplica a este animal
	// (ej: heat-symptoms sobre un macho).
	ErrInvalidOperation = errors.New("invalid operation")
)

type Engine struct {
	animals  animals.Repository
	events   events.Repository
	settings *settings.Service
	log      logger.Logger
	now      func() time.Time
}

func NewEngine(animalsRepo animals.Repository, eventsRepo events.Repository, settingsSvc *settings.Service, log logger.Logger) *Engine {
	return &Engine{
		animals:  animalsRepo,
		events:   eventsRepo,
		settings: settingsSvc,
		log:      log,
		now:      time.Now,
	}
}

type Input struct {
	Notes string
	Semen *events.SemenDetails
}

type Result struct {
	Action Action
	Animal animals.Animal

	// CompletedEvent es el evento Pending que esta acción cerró; nil cuando
	// no había ninguno (no es un error).
	CompletedEvent *events.Event

	// NewEvents son los eventos creados por la acción, en orden de creación.
	NewEvents []events.Event

	Message string
}

// Apply ejecuta una acción contra un animal. Matchea exhaustivamente el set
// cerrado de acciones; ParseAction ya filtró los nombres desconocidos.
func (g *Engine) Apply(ctx context.Context, animalID string, action Action, in Input) (Result, error) {
	a, err := g.animals.GetByID(ctx, animalID)
	if err != nil {
		return Result{}, err
	}

	cfg, err := g.settings.Get(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load settings: %w", err)
	}

	var res Result
	switch action {
	case ActionHealthCheck:
		res, err = g.healthCheck(ctx, a, cfg, in)
	case ActionHeatSymptoms:
		res, err = g.heatSymptoms(ctx, a, in)
	case ActionInsemination:
		res, err = g.insemination(ctx, a, cfg, in)
	case ActionPregnancyConfirmed:
		res, err = g.pregnancyConfirmed(ctx, a, cfg, in)
	case ActionNotPregnant:
		res, err = g.notPregnant(ctx, a, in)
	case ActionDryOffCompleted:
		res, err = g.dryOffCompleted(ctx, a, in)
	case ActionCalvingCompleted:
		res, err = g.calvingCompleted(ctx, a, in)
	default:
		return Result{}, ErrUnknownAction
	}
	if err != nil {
		return Result{}, err
	}

	res.Action = action
	g.log.Info("action applied", map[string]any{
		"animal_id":  a.ID,
		"tag":        a.Tag,
		"action":     string(action),
		"new_events": len(res.NewEvents),
	})
	return res, nil
}

// healthCheck: cierra el HealthCheck pendiente (si hay), actualiza la fecha
// del último chequeo y agenda el próximo según el intervalo configurado.
func (g *Engine) healthCheck(ctx context.Context, a animals.Animal, cfg settings.Config, in Input) (Result, error) {
	now := g.now()

	completed, err := g.completePending(ctx, a.ID, events.TypeHealthCheck, now, in.Notes, nil, "")
	if err != nil {
		return Result{}, err
	}

	updated, err := g.animals.ApplyUpdate(ctx, a.ID, animals.Update{
		LastHealthCheckDate: &now,
		UpdatedAt:           now,
	})
	if err != nil {
		return Result{}, fmt.Errorf("update animal: %w", err)
	}

	next, err := g.schedule(ctx, events.Event{
		AnimalID:      a.ID,
		Type:          events.TypeHealthCheck,
		Title:         "Health Check for " + a.Tag,
		Description:   "Regular health examination",
		ScheduledDate: now.AddDate(0, 0, cfg.HealthCheckIntervalDays),
		Priority:      events.PriorityMedium,
		ReminderTime:  &events.ReminderTime{Value: 1, Unit: events.UnitDay},
		Location:      a.Location,
	}, now)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Animal:         updated,
		CompletedEvent: completed,
		NewEvents:      []events.Event{next},
		Message:        "health check recorded and next check scheduled",
	}, nil
}

// heatSymptoms: registra el celo como evento ya completado, pasa la hembra a
// "open" y agenda la inseminación 12 horas después.
func (g *Engine) heatSymptoms(ctx context.Context, a animals.Animal, in Input) (Result, error) {
	if a.Gender != animals.GenderFemale {
		return Result{}, fmt.Errorf("%w: heat symptoms can only be recorded for female animals", ErrInvalidOperation)
	}

	now := g.now()

	heat, err := g.record(ctx, events.Event{
		AnimalID:    a.ID,
		Type:        events.TypeHeatObserved,
		Title:       "Heat Observed for " + a.Tag,
		Description: "Heat symptoms observed",
		Priority:    events.PriorityHigh,
		Location:    a.Location,
		Notes:       in.Notes,
	}, now)
	if err != nil {
		return Result{}, err
	}

	st := animals.StatusOpen
	updated, err := g.animals.ApplyUpdate(ctx, a.ID, animals.Update{
		LastHeatDay:        &now,
		ReproductiveStatus: &st,
		UpdatedAt:          now,
	})
	if err != nil {
		return Result{}, fmt.Errorf("update animal: %w", err)
	}

	insem, err := g.schedule(ctx, events.Event{
		AnimalID:         a.ID,
		Type:             events.TypeInsemination,
		Title:            "Insemination for " + a.Tag,
		Description:      "Scheduled insemination following observed heat",
		ScheduledDate:    now.Add(12 * time.Hour),
		Priority:         events.PriorityHigh,
		ReminderTime:     &events.ReminderTime{Value: 2, Unit: events.UnitHour},
		Location:         a.Location,
		AssociatedEvents: []string{heat.ID},
	}, now)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Animal:    updated,
		NewEvents: []events.Event{heat, insem},
		Message:   "heat symptoms recorded and insemination scheduled",
	}, nil
}

// insemination: cierra la inseminación pendiente registrando la pajuela; si
// no había ninguna agendada, la registra como evento ya completado. Pasa el
// animal a "bred" y agenda el chequeo de preñez.
func (g *Engine) insemination(ctx context.Context, a animals.Animal, cfg settings.Config, in Input) (Result, error) {
	now := g.now()

	completed, err := g.completePending(ctx, a.ID, events.TypeInsemination, now, in.Notes, in.Semen, "")
	if err != nil {
		return Result{}, err
	}

	newEvents := make([]events.Event, 0, 2)
	source := completed
	if source == nil {
		// Inseminación no agendada: queda en la historia igual.
		rec, err := g.record(ctx, events.Event{
			AnimalID:     a.ID,
			Type:         events.TypeInsemination,
			Title:        "Insemination for " + a.Tag,
			Description:  "Unscheduled insemination",
			Priority:     events.PriorityHigh,
			Location:     a.Location,
			Notes:        in.Notes,
			SemenDetails: in.Semen,
		}, now)
		if err != nil {
			return Result{}, err
		}
		newEvents = append(newEvents, rec)
		source = &rec
	}

	st := animals.StatusBred
	updated, err := g.animals.ApplyUpdate(ctx, a.ID, animals.Update{
		LastInseminationDate: &now,
		ReproductiveStatus:   &st,
		UpdatedAt:            now,
	})
	if err != nil {
		return Result{}, fmt.Errorf("update animal: %w", err)
	}

	check, err := g.schedule(ctx, events.Event{
		AnimalID:         a.ID,
		Type:             events.TypePregnancyCheck,
		Title:            "Pregnancy Check for " + a.Tag,
		Description:      "Verify if insemination was successful",
		ScheduledDate:    now.AddDate(0, 0, cfg.InseminationToPregnancyCheckDays),
		Priority:         events.PriorityHigh,
		ReminderTime:     &events.ReminderTime{Value: 1, Unit: events.UnitDay},
		Location:         a.Location,
		AssociatedEvents: []string{source.ID},
	}, now)
	if err != nil {
		return Result{}, err
	}
	newEvents = append(newEvents, check)

	return Result{
		Animal:         updated,
		CompletedEvent: completed,
		NewEvents:      newEvents,
		Message:        "insemination recorded and pregnancy check scheduled",
	}, nil
}

// pregnancyConfirmed: cierra el PregnancyCheck con resultado positivo, pasa a
// "confirmed pregnant" y, si hay fecha de inseminación, agenda secado y parto
// esperado a partir de ella.
func (g *Engine) pregnancyConfirmed(ctx context.Context, a animals.Animal, cfg settings.Config, in Input) (Result, error) {
	now := g.now()

	completed, err := g.completePending(ctx, a.ID, events.TypePregnancyCheck, now, in.Notes, nil, events.ResultPositive)
	if err != nil {
		return Result{}, err
	}

	st := animals.StatusConfirmedPregnant
	updated, err := g.animals.ApplyUpdate(ctx, a.ID, animals.Update{
		ReproductiveStatus: &st,
		UpdatedAt:          now,
	})
	if err != nil {
		return Result{}, fmt.Errorf("update animal: %w", err)
	}

	if a.LastInseminationDate == nil {
		return Result{
			Animal:         updated,
			CompletedEvent: completed,
			Message:        "pregnancy confirmed",
		}, nil
	}

	calvingDate := a.LastInseminationDate.AddDate(0, 0, cfg.PregnancyLengthDays)
	dryOffDate := calvingDate.AddDate(0, 0, -cfg.DryOffDaysBeforeCalving)

	dryOff, err := g.schedule(ctx, events.Event{
		AnimalID:      a.ID,
		Type:          events.TypeDryOff,
		Title:         "Dry Off for " + a.Tag,
		Description:   "Prepare for calving by stopping milking",
		ScheduledDate: dryOffDate,
		Priority:      events.PriorityHigh,
		ReminderTime:  &events.ReminderTime{Value: 1, Unit: events.UnitDay},
		Location:      a.Location,
	}, now)
	if err != nil {
		return Result{}, err
	}

	calving, err := g.schedule(ctx, events.Event{
		AnimalID:      a.ID,
		Type:          events.TypeExpectedCalving,
		Title:         "Expected Calving for " + a.Tag,
		Description:   "Prepare for calving",
		ScheduledDate: calvingDate,
		Priority:      events.PriorityHigh,
		ReminderTime:  &events.ReminderTime{Value: 7, Unit: events.UnitDay},
		Location:      a.Location,
	}, now)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Animal:         updated,
		CompletedEvent: completed,
		NewEvents:      []events.Event{dryOff, calving},
		Message:        "pregnancy confirmed, dry-off and calving events scheduled",
	}, nil
}

// notPregnant: cierra el PregnancyCheck con resultado negativo y devuelve el
// animal a "not bred". No agenda nada.
func (g *Engine) notPregnant(ctx context.Context, a animals.Animal, in Input) (Result, error) {
	now := g.now()

	completed, err := g.completePending(ctx, a.ID, events.TypePregnancyCheck, now, in.Notes, nil, events.ResultNegative)
	if err != nil {
		return Result{}, err
	}

	st := animals.StatusNotBred
	updated, err := g.animals.ApplyUpdate(ctx, a.ID, animals.Update{
		ReproductiveStatus: &st,
		UpdatedAt:          now,
	})
	if err != nil {
		return Result{}, fmt.Errorf("update animal: %w", err)
	}

	return Result{
		Animal:         updated,
		CompletedEvent: completed,
		Message:        "animal marked as not pregnant",
	}, nil
}

// dryOffCompleted: cierra el DryOff pendiente y pasa el animal a "dry".
func (g *Engine) dryOffCompleted(ctx context.Context, a animals.Animal, in Input) (Result, error) {
	now := g.now()

	completed, err := g.completePending(ctx, a.ID, events.TypeDryOff, now, in.Notes, nil, "")
	if err != nil {
		return Result{}, err
	}

	st := animals.StatusDry
	updated, err := g.animals.ApplyUpdate(ctx, a.ID, animals.Update{
		ReproductiveStatus: &st,
		UpdatedAt:          now,
	})
	if err != nil {
		return Result{}, fmt.Errorf("update animal: %w", err)
	}

	return Result{
		Animal:         updated,
		CompletedEvent: completed,
		Message:        "dry-off recorded",
	}, nil
}

// calvingCompleted: cierra el ExpectedCalving pendiente, registra el parto
// como evento completado, resetea el ciclo (not bred, sin inseminación) y
// agenda el chequeo post-parto a los 14 días.
func (g *Engine) calvingCompleted(ctx context.Context, a animals.Animal, in Input) (Result, error) {
	now := g.now()

	completed, err := g.completePending(ctx, a.ID, events.TypeExpectedCalving, now, in.Notes, nil, "")
	if err != nil {
		return Result{}, err
	}

	calving, err := g.record(ctx, events.Event{
		AnimalID:    a.ID,
		Type:        events.TypeCalving,
		Title:       "Calving for " + a.Tag,
		Description: "Calving completed",
		Priority:    events.PriorityHigh,
		Location:    a.Location,
		Notes:       in.Notes,
	}, now)
	if err != nil {
		return Result{}, err
	}

	st := animals.StatusNotBred
	updated, err := g.animals.ApplyUpdate(ctx, a.ID, animals.Update{
		ReproductiveStatus:    &st,
		ClearLastInsemination: true,
		UpdatedAt:             now,
	})
	if err != nil {
		return Result{}, fmt.Errorf("update animal: %w", err)
	}

	// Chequeo post-parto fijo a 14 días, independiente del intervalo regular.
	check, err := g.schedule(ctx, events.Event{
		AnimalID:         a.ID,
		Type:             events.TypeHealthCheck,
		Title:            "Post-calving Health Check for " + a.Tag,
		Description:      "Health examination after calving",
		ScheduledDate:    now.AddDate(0, 0, 14),
		Priority:         events.PriorityHigh,
		ReminderTime:     &events.ReminderTime{Value: 1, Unit: events.UnitDay},
		Location:         a.Location,
		AssociatedEvents: []string{calving.ID},
	}, now)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Animal:         updated,
		CompletedEvent: completed,
		NewEvents:      []events.Event{calving, check},
		Message:        "calving recorded and post-calving check scheduled",
	}, nil
}

// completePending busca el evento Pending del tipo dado y lo marca Completed.
// Si no hay ninguno devuelve (nil, nil): no es un error.
func (g *Engine) completePending(ctx context.Context, animalID string, t events.Type, now time.Time, notes string, semen *events.SemenDetails, result events.Result) (*events.Event, error) {
	pending, err := g.events.FindPending(ctx, animalID, t)
	if errors.Is(err, events.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pending %s: %w", t, err)
	}

	st := events.StatusCompleted
	upd := events.Update{
		Status:        &st,
		CompletedDate: &now,
		SemenDetails:  semen,
		UpdatedAt:     now,
	}
	if notes != "" {
		upd.Notes = &notes
	}
	if result != "" {
		upd.Result = &result
	}

	done, err := g.events.ApplyUpdate(ctx, pending.ID, upd)
	if err != nil {
		return nil, fmt.Errorf("complete pending %s: %w", t, err)
	}
	return &done, nil
}

// schedule crea un evento Pending.
func (g *Engine) schedule(ctx context.Context, e events.Event, now time.Time) (events.Event, error) {
	e.ID = uuid.NewString()
	e.Status = events.StatusPending
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := g.events.Create(ctx, e); err != nil {
		return events.Event{}, fmt.Errorf("create %s event: %w", e.Type, err)
	}
	return e, nil
}

// record crea un evento ya completado (pasó ahora, sin agendado previo).
func (g *Engine) record(ctx context.Context, e events.Event, now time.Time) (events.Event, error) {
	e.ID = uuid.NewString()
	e.Status = events.StatusCompleted
	e.ScheduledDate = now
	e.CompletedDate = &now
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := g.events.Create(ctx, e); err != nil {
		return events.Event{}, fmt.Errorf("create %s event: %w", e.Type, err)
	}
	return e, nil
}
