package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	mem "dairy-farm-records/internal/adapters/storage/memory"
	"dairy-farm-records/internal/domain/animals"
	"dairy-farm-records/internal/domain/events"
	"dairy-farm-records/internal/domain/settings"
	"dairy-farm-records/internal/platform/logger"
	"dairy-farm-records/internal/scheduler"

	"github.com/google/uuid"
)

func newTestEngine(t *testing.T, now time.Time) (*Engine, animals.Repository, events.Repository) {
	t.Helper()

	animalsRepo := mem.NewAnimalRepo()
	eventsRepo := mem.NewEventRepo()
	settingsSvc := settings.NewService(mem.NewSettingsRepo(), logger.Nop())

	eng := NewEngine(animalsRepo, eventsRepo, settingsSvc, logger.Nop())
	eng.now = func() time.Time { return now }

	return eng, animalsRepo, eventsRepo
}

func seedAnimal(t *testing.T, repo animals.Repository, a animals.Animal) animals.Animal {
	t.Helper()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Gender == "" {
		a.Gender = animals.GenderFemale
	}
	if a.Category == "" {
		a.Category = animals.CategoryAdult
	}
	if a.ReproductiveStatus == "" {
		a.ReproductiveStatus = animals.StatusNotBred
	}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("seed animal: %v", err)
	}
	return a
}

func TestEngine_HeatSymptoms_SchedulesInsemination(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	eng, animalsRepo, _ := newTestEngine(t, now)

	a := seedAnimal(t, animalsRepo, animals.Animal{Tag: "C-001"})

	res, err := eng.Apply(context.Background(), a.ID, ActionHeatSymptoms, Input{Notes: "standing heat"})
	if err != nil {
		t.Fatalf("apply heat-symptoms: %v", err)
	}

	if res.Animal.ReproductiveStatus != animals.StatusOpen {
		t.Fatalf("expected status open, got %q", res.Animal.ReproductiveStatus)
	}
	if res.Animal.LastHeatDay == nil || !res.Animal.LastHeatDay.Equal(now) {
		t.Fatalf("expected LastHeatDay = now, got %v", res.Animal.LastHeatDay)
	}
	if len(res.NewEvents) != 2 {
		t.Fatalf("expected 2 new events (heat + insemination), got %d", len(res.NewEvents))
	}

	heat := res.NewEvents[0]
	if heat.Type != events.TypeHeatObserved || heat.Status != events.StatusCompleted {
		t.Fatalf("expected completed HeatObserved, got %s/%s", heat.Type, heat.Status)
	}

	insem := res.NewEvents[1]
	if insem.Type != events.TypeInsemination || insem.Status != events.StatusPending {
		t.Fatalf("expected pending Insemination, got %s/%s", insem.Type, insem.Status)
	}
	if want := now.Add(12 * time.Hour); !insem.ScheduledDate.Equal(want) {
		t.Fatalf("expected insemination at %v, got %v", want, insem.ScheduledDate)
	}
	if insem.Priority != events.PriorityHigh {
		t.Fatalf("expected high priority, got %q", insem.Priority)
	}
	if insem.ReminderTime == nil || insem.ReminderTime.Value != 2 || insem.ReminderTime.Unit != events.UnitHour {
		t.Fatalf("expected 2 hour reminder, got %+v", insem.ReminderTime)
	}
	if len(insem.AssociatedEvents) != 1 || insem.AssociatedEvents[0] != heat.ID {
		t.Fatalf("expected insemination associated to heat event, got %v", insem.AssociatedEvents)
	}
}

func TestEngine_HeatSymptoms_RejectsMales(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	eng, animalsRepo, _ := newTestEngine(t, now)

	a := seedAnimal(t, animalsRepo, animals.Animal{Tag: "B-001", Gender: animals.GenderMale})

	_, err := eng.Apply(context.Background(), a.ID, ActionHeatSymptoms, Input{})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestEngine_Insemination_CompletesPendingAndSchedulesCheck(t *testing.T) {
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	eng, animalsRepo, eventsRepo := newTestEngine(t, now)

	a := seedAnimal(t, animalsRepo, animals.Animal{Tag: "C-002", ReproductiveStatus: animals.StatusOpen})

	pending := events.Event{
		ID:            uuid.NewString(),
		AnimalID:      a.ID,
		Type:          events.TypeInsemination,
		Title:         "Insemination for C-002",
		ScheduledDate: now.Add(-2 * time.Hour),
		Status:        events.StatusPending,
		Priority:      events.PriorityHigh,
	}
	if err := eventsRepo.Create(context.Background(), pending); err != nil {
		t.Fatalf("seed pending insemination: %v", err)
	}

	semen := &events.SemenDetails{BullTag: "T-77", SerialNumber: "SN-123", Producer: "ABS"}
	res, err := eng.Apply(context.Background(), a.ID, ActionInsemination, Input{Semen: semen})
	if err != nil {
		t.Fatalf("apply insemination: %v", err)
	}

	if res.CompletedEvent == nil {
		t.Fatal("expected the pending insemination to be completed")
	}
	if res.CompletedEvent.ID != pending.ID {
		t.Fatalf("expected completion of %s, got %s", pending.ID, res.CompletedEvent.ID)
	}
	if res.CompletedEvent.Status != events.StatusCompleted {
		t.Fatalf("expected Completed, got %q", res.CompletedEvent.Status)
	}
	if res.CompletedEvent.SemenDetails == nil || res.CompletedEvent.SemenDetails.BullTag != "T-77" {
		t.Fatalf("expected semen details on completed event, got %+v", res.CompletedEvent.SemenDetails)
	}

	if res.Animal.ReproductiveStatus != animals.StatusBred {
		t.Fatalf("expected status bred, got %q", res.Animal.ReproductiveStatus)
	}
	if res.Animal.LastInseminationDate == nil || !res.Animal.LastInseminationDate.Equal(now) {
		t.Fatalf("expected LastInseminationDate = now, got %v", res.Animal.LastInseminationDate)
	}

	if len(res.NewEvents) != 1 {
		t.Fatalf("expected 1 new event, got %d", len(res.NewEvents))
	}
	check := res.NewEvents[0]
	if check.Type != events.TypePregnancyCheck {
		t.Fatalf("expected PregnancyCheck, got %q", check.Type)
	}
	// Default: 30 días inseminación -> chequeo.
	if want := now.AddDate(0, 0, 30); !check.ScheduledDate.Equal(want) {
		t.Fatalf("expected check at %v, got %v", want, check.ScheduledDate)
	}
	if len(check.AssociatedEvents) != 1 || check.AssociatedEvents[0] != pending.ID {
		t.Fatalf("expected check associated to insemination, got %v", check.AssociatedEvents)
	}
}

func TestEngine_Insemination_WithoutPendingRecordsIt(t *testing.T) {
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	eng, animalsRepo, _ := newTestEngine(t, now)

	a := seedAnimal(t, animalsRepo, animals.Animal{Tag: "C-003"})

	res, err := eng.Apply(context.Background(), a.ID, ActionInsemination, Input{})
	if err != nil {
		t.Fatalf("apply insemination: %v", err)
	}

	// Sin evento agendado no hay nada para completar; no es un error.
	if res.CompletedEvent != nil {
		t.Fatalf("expected nil CompletedEvent, got %+v", res.CompletedEvent)
	}
	if len(res.NewEvents) != 2 {
		t.Fatalf("expected 2 new events (recorded insemination + check), got %d", len(res.NewEvents))
	}
	rec := res.NewEvents[0]
	if rec.Type != events.TypeInsemination || rec.Status != events.StatusCompleted {
		t.Fatalf("expected recorded insemination, got %s/%s", rec.Type, rec.Status)
	}
	if res.NewEvents[1].Type != events.TypePregnancyCheck {
		t.Fatalf("expected pregnancy check, got %q", res.NewEvents[1].Type)
	}
}

func TestEngine_PregnancyConfirmed_SchedulesDryOffAndCalving(t *testing.T) {
	now := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	eng, animalsRepo, _ := newTestEngine(t, now)

	insem := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := seedAnimal(t, animalsRepo, animals.Animal{
		Tag:                  "C-004",
		ReproductiveStatus:   animals.StatusBred,
		LastInseminationDate: &insem,
	})

	res, err := eng.Apply(context.Background(), a.ID, ActionPregnancyConfirmed, Input{})
	if err != nil {
		t.Fatalf("apply pregnancy-confirmed: %v", err)
	}

	if res.Animal.ReproductiveStatus != animals.StatusConfirmedPregnant {
		t.Fatalf("expected confirmed pregnant, got %q", res.Animal.ReproductiveStatus)
	}
	if len(res.NewEvents) != 2 {
		t.Fatalf("expected dry-off + expected calving, got %d events", len(res.NewEvents))
	}

	dryOff, calving := res.NewEvents[0], res.NewEvents[1]
	if dryOff.Type != events.TypeDryOff || calving.Type != events.TypeExpectedCalving {
		t.Fatalf("unexpected event types: %s, %s", dryOff.Type, calving.Type)
	}

	// 2024-01-01 + 280 días = 2024-10-07; secado 60 días antes = 2024-08-08.
	wantCalving := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)
	wantDryOff := time.Date(2024, 8, 8, 0, 0, 0, 0, time.UTC)
	if !calving.ScheduledDate.Equal(wantCalving) {
		t.Fatalf("expected calving %v, got %v", wantCalving, calving.ScheduledDate)
	}
	if !dryOff.ScheduledDate.Equal(wantDryOff) {
		t.Fatalf("expected dry-off %v, got %v", wantDryOff, dryOff.ScheduledDate)
	}
}

func TestEngine_PregnancyConfirmed_WithoutInseminationDate(t *testing.T) {
	now := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	eng, animalsRepo, _ := newTestEngine(t, now)

	a := seedAnimal(t, animalsRepo, animals.Animal{Tag: "C-005"})

	res, err := eng.Apply(context.Background(), a.ID, ActionPregnancyConfirmed, Input{})
	if err != nil {
		t.Fatalf("apply pregnancy-confirmed: %v", err)
	}

	if res.Animal.ReproductiveStatus != animals.StatusConfirmedPregnant {
		t.Fatalf("expected confirmed pregnant, got %q", res.Animal.ReproductiveStatus)
	}
	// Sin fecha de inseminación no se puede calcular nada.
	if len(res.NewEvents) != 0 {
		t.Fatalf("expected no scheduled events, got %d", len(res.NewEvents))
	}
}

func TestEngine_NotPregnant_ResetsStatus(t *testing.T) {
	now := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	eng, animalsRepo, eventsRepo := newTestEngine(t, now)

	a := seedAnimal(t, animalsRepo, animals.Animal{Tag: "C-006", ReproductiveStatus: animals.StatusBred})

	pending := events.Event{
		ID:            uuid.NewString(),
		AnimalID:      a.ID,
		Type:          events.TypePregnancyCheck,
		ScheduledDate: now,
		Status:        events.StatusPending,
		Priority:      events.PriorityHigh,
	}
	if err := eventsRepo.Create(context.Background(), pending); err != nil {
		t.Fatalf("seed pending check: %v", err)
	}

	res, err := eng.Apply(context.Background(), a.ID, ActionNotPregnant, Input{})
	if err != nil {
		t.Fatalf("apply not-pregnant: %v", err)
	}

	if res.Animal.ReproductiveStatus != animals.StatusNotBred {
		t.Fatalf("expected not bred, got %q", res.Animal.ReproductiveStatus)
	}
	if res.CompletedEvent == nil || res.CompletedEvent.Result != events.ResultNegative {
		t.Fatalf("expected negative result on completed check, got %+v", res.CompletedEvent)
	}
	if len(res.NewEvents) != 0 {
		t.Fatalf("expected no new events, got %d", len(res.NewEvents))
	}
}

func TestEngine_DryOffCompleted(t *testing.T) {
	now := time.Date(2024, 8, 8, 9, 0, 0, 0, time.UTC)
	eng, animalsRepo, _ := newTestEngine(t, now)

	a := seedAnimal(t, animalsRepo, animals.Animal{Tag: "C-007", ReproductiveStatus: animals.StatusConfirmedPregnant})

	res, err := eng.Apply(context.Background(), a.ID, ActionDryOffCompleted, Input{})
	if err != nil {
		t.Fatalf("apply dry-off-completed: %v", err)
	}
	if res.Animal.ReproductiveStatus != animals.StatusDry {
		t.Fatalf("expected dry, got %q", res.Animal.ReproductiveStatus)
	}
}

func TestEngine_CalvingCompleted_ResetsCycle(t *testing.T) {
	now := time.Date(2024, 10, 7, 6, 0, 0, 0, time.UTC)
	eng, animalsRepo, _ := newTestEngine(t, now)

	insem := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := seedAnimal(t, animalsRepo, animals.Animal{
		Tag:                  "C-008",
		ReproductiveStatus:   animals.StatusDry,
		LastInseminationDate: &insem,
	})

	res, err := eng.Apply(context.Background(), a.ID, ActionCalvingCompleted, Input{Notes: "healthy calf"})
	if err != nil {
		t.Fatalf("apply calving-completed: %v", err)
	}

	if res.Animal.ReproductiveStatus != animals.StatusNotBred {
		t.Fatalf("expected not bred after calving, got %q", res.Animal.ReproductiveStatus)
	}
	if res.Animal.LastInseminationDate != nil {
		t.Fatalf("expected LastInseminationDate cleared, got %v", res.Animal.LastInseminationDate)
	}

	if len(res.NewEvents) != 2 {
		t.Fatalf("expected calving + post-calving check, got %d events", len(res.NewEvents))
	}
	calving, check := res.NewEvents[0], res.NewEvents[1]
	if calving.Type != events.TypeCalving || calving.Status != events.StatusCompleted {
		t.Fatalf("expected completed Calving, got %s/%s", calving.Type, calving.Status)
	}
	if check.Type != events.TypeHealthCheck {
		t.Fatalf("expected post-calving HealthCheck, got %q", check.Type)
	}
	if want := now.AddDate(0, 0, 14); !check.ScheduledDate.Equal(want) {
		t.Fatalf("expected post-calving check at %v, got %v", want, check.ScheduledDate)
	}
	if len(check.AssociatedEvents) != 1 || check.AssociatedEvents[0] != calving.ID {
		t.Fatalf("expected check associated to calving, got %v", check.AssociatedEvents)
	}
}

func TestEngine_HealthCheck_WithoutPending(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	eng, animalsRepo, _ := newTestEngine(t, now)

	a := seedAnimal(t, animalsRepo, animals.Animal{Tag: "C-009"})

	res, err := eng.Apply(context.Background(), a.ID, ActionHealthCheck, Input{})
	if err != nil {
		t.Fatalf("apply health-check: %v", err)
	}

	if res.CompletedEvent != nil {
		t.Fatalf("expected nil CompletedEvent, got %+v", res.CompletedEvent)
	}
	if res.Animal.LastHealthCheckDate == nil || !res.Animal.LastHealthCheckDate.Equal(now) {
		t.Fatalf("expected LastHealthCheckDate = now, got %v", res.Animal.LastHealthCheckDate)
	}
	if len(res.NewEvents) != 1 {
		t.Fatalf("expected 1 new event, got %d", len(res.NewEvents))
	}
	// Default: intervalo de 14 días.
	if want := now.AddDate(0, 0, 14); !res.NewEvents[0].ScheduledDate.Equal(want) {
		t.Fatalf("expected next check at %v, got %v", want, res.NewEvents[0].ScheduledDate)
	}
}

func TestEngine_HealthCheck_CompletesPending(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	eng, animalsRepo, eventsRepo := newTestEngine(t, now)

	a := seedAnimal(t, animalsRepo, animals.Animal{Tag: "C-010"})

	pending := events.Event{
		ID:            uuid.NewString(),
		AnimalID:      a.ID,
		Type:          events.TypeHealthCheck,
		ScheduledDate: now.AddDate(0, 0, -1),
		Status:        events.StatusPending,
		Priority:      events.PriorityMedium,
	}
	if err := eventsRepo.Create(context.Background(), pending); err != nil {
		t.Fatalf("seed pending check: %v", err)
	}

	res, err := eng.Apply(context.Background(), a.ID, ActionHealthCheck, Input{Notes: "all good"})
	if err != nil {
		t.Fatalf("apply health-check: %v", err)
	}

	if res.CompletedEvent == nil || res.CompletedEvent.ID != pending.ID {
		t.Fatalf("expected pending check completed, got %+v", res.CompletedEvent)
	}
	if res.CompletedEvent.Notes != "all good" {
		t.Fatalf("expected notes persisted, got %q", res.CompletedEvent.Notes)
	}
}

func TestEngine_HealthCheck_CompletesOverdueEvent(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	eng, animalsRepo, eventsRepo := newTestEngine(t, now)

	a := seedAnimal(t, animalsRepo, animals.Animal{Tag: "C-011"})

	// Chequeo agendado para ayer: el barrido lo marca Overdue antes de que
	// alguien registre la acción.
	scheduled := events.Event{
		ID:            uuid.NewString(),
		AnimalID:      a.ID,
		Type:          events.TypeHealthCheck,
		ScheduledDate: now.AddDate(0, 0, -1),
		Status:        events.StatusPending,
		Priority:      events.PriorityMedium,
	}
	if err := eventsRepo.Create(context.Background(), scheduled); err != nil {
		t.Fatalf("seed scheduled check: %v", err)
	}

	scanner := scheduler.NewOverdueScanner(eventsRepo, logger.Nop())
	scanner.Scan(context.Background())

	marked, err := eventsRepo.GetByID(context.Background(), scheduled.ID)
	if err != nil {
		t.Fatalf("get after scan: %v", err)
	}
	if marked.Status != events.StatusOverdue {
		t.Fatalf("expected scan to mark the check Overdue, got %q", marked.Status)
	}

	// Registrar el chequeo tarde igual completa el evento vencido; no queda
	// varado ni se duplica.
	res, err := eng.Apply(context.Background(), a.ID, ActionHealthCheck, Input{Notes: "late but done"})
	if err != nil {
		t.Fatalf("apply health-check: %v", err)
	}
	if res.CompletedEvent == nil || res.CompletedEvent.ID != scheduled.ID {
		t.Fatalf("expected the overdue check completed, got %+v", res.CompletedEvent)
	}
	if res.CompletedEvent.Status != events.StatusCompleted {
		t.Fatalf("expected Completed, got %q", res.CompletedEvent.Status)
	}
}

func TestEngine_Apply_UnknownAnimal(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	eng, _, _ := newTestEngine(t, now)

	_, err := eng.Apply(context.Background(), "nope", ActionHealthCheck, Input{})
	if !errors.Is(err, animals.ErrNotFound) {
		t.Fatalf("expected animals.ErrNotFound, got %v", err)
	}
}
