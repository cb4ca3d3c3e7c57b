package events

import "time"

// ReminderTime es el aviso previo del evento (valor + unidad).
type ReminderTime struct {
	Value int
	Unit  TimeUnit
}

// SemenDetails son los datos de la pajuela usada en una inseminación.
type SemenDetails struct {
	BullTag      string
	SerialNumber string
	Producer     string
}

// Event es una entrada de la agenda de un animal: programada (Pending) o ya
// registrada (Completed). Los eventos completados nunca vuelven atrás.
type Event struct {
	ID       string
	AnimalID string

	Type Type

	Title       string
	Description string

	ScheduledDate time.Time
	Status        Status
	Priority      Priority

	ReminderTime     *ReminderTime
	NotificationSent bool

	Location string

	CompletedDate *time.Time
	Result        Result
	Notes         string
	SemenDetails  *SemenDetails

	// AssociatedEvents referencia los eventos previos que causaron este
	// (ej: el celo observado que disparó la inseminación programada).
	AssociatedEvents []string

	CreatedAt time.Time
	UpdatedAt time.Time
}
