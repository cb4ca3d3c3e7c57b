package customevents

import (
	"time"

	"dairy-farm-records/internal/domain/animals"
	"dairy-farm-records/internal/domain/events"
)

// EventType es la plantilla de un evento personalizado: se registra ahora y
// se reagenda con un offset fijo. Es inmutable; borrarla no afecta los
// eventos ya creados a partir de ella.
type EventType struct {
	ID          string
	Name        string // unique
	Description string

	DefaultPriority events.Priority

	// ReminderTime es el offset de reprogramación (valor + unidad).
	ReminderTime events.ReminderTime

	// AnimalClasses limita a qué animales aplica la plantilla.
	AnimalClasses []animals.AnimalClass

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t EventType) appliesTo(class animals.AnimalClass) bool {
	for _, c := range t.AnimalClasses {
		if c == class {
			return true
		}
	}
	return false
}
