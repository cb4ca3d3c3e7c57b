package lifecycle

import (
	"errors"
	"strings"
)

// Action es el conjunto cerrado de acciones reconocidas por el motor.
// Agregar una acción implica agregar su case en Engine.Apply, que matchea
// exhaustivamente.
type Action string

const (
	ActionHealthCheck        Action = "health-check"
	ActionHeatSymptoms       Action = "heat-symptoms"
	ActionInsemination       Action = "insemination"
	ActionPregnancyConfirmed Action = "pregnancy-confirmed"
	ActionNotPregnant        Action = "not-pregnant"
	ActionDryOffCompleted    Action = "dry-off-completed"
	ActionCalvingCompleted   Action = "calving-completed"
)

var ErrUnknownAction = errors.New("unknown action")

// ParseAction valida el nombre que llega por la API contra el set cerrado.
func ParseAction(s string) (Action, error) {
	a := Action(strings.TrimSpace(s))
	switch a {
	case ActionHealthCheck,
		ActionHeatSymptoms,
		ActionInsemination,
		ActionPregnancyConfirmed,
		ActionNotPregnant,
		ActionDryOffCompleted,
		ActionCalvingCompleted:
		return a, nil
	default:
		return "", ErrUnknownAction
	}
}
