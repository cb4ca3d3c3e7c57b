package lifecycle

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"dairy-farm-records/internal/domain/animals"
	"dairy-farm-records/internal/domain/events"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, eng *Engine) {
	r.Post("/animals/{animalID}/actions", applyActionHandler(eng))
}

// applyActionRequest es el cuerpo para ejecutar una acción del ciclo.
type applyActionRequest struct {
	Action       string     `json:"action" enums:"health-check,heat-symptoms,insemination,pregnancy-confirmed,not-pregnant,dry-off-completed,calving-completed"`
	Notes        string     `json:"notes"`
	SemenDetails *semenBody `json:"semen_details"` // solo para insemination
}

type semenBody struct {
	BullTag      string `json:"bull_tag"`
	SerialNumber string `json:"serial_number"`
	Producer     string `json:"producer"`
}

type actionEventSummary struct {
	ID            string        `json:"id"`
	Type          events.Type   `json:"event_type"`
	Status        events.Status `json:"status"`
	ScheduledDate time.Time     `json:"scheduled_date"`
}

type actionResponse struct {
	Action  string `json:"action"`
	Message string `json:"message"`

	AnimalID           string                     `json:"animal_id"`
	ReproductiveStatus animals.ReproductiveStatus `json:"reproductive_status"`

	CompletedEvent *actionEventSummary  `json:"completed_event"` // null si no había pendiente
	NewEvents      []actionEventSummary `json:"new_events"`
}

// applyActionHandler godoc
// @Summary Ejecutar acción del ciclo de vida
// @Description Aplica una acción observada (celo, inseminación, preñez confirmada, etc.): completa el evento pendiente que corresponda, muta el estado reproductivo y agenda los próximos eventos según la configuración.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param payload body applyActionRequest true "Acción a ejecutar"
// @Success 200 {object} actionResponse
// @Failure 400 {string} string "invalid json / acción desconocida / acción no aplicable"
// @Failure 404 {string} string "animal not found"
// @Failure 500 {string} string "internal error"
// @Router /animals/{animalID}/actions [post]
func applyActionHandler(eng *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applyActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		action, err := ParseAction(req.Action)
		if err != nil {
			http.Error(w, "invalid action", http.StatusBadRequest)
			return
		}

		in := Input{Notes: req.Notes}
		if req.SemenDetails != nil {
			in.Semen = &events.SemenDetails{
				BullTag:      req.SemenDetails.BullTag,
				SerialNumber: req.SemenDetails.SerialNumber,
				Producer:     req.SemenDetails.Producer,
			}
		}

		res, err := eng.Apply(r.Context(), chi.URLParam(r, "animalID"), action, in)
		if err != nil {
			switch {
			case errors.Is(err, animals.ErrNotFound):
				http.Error(w, "animal not found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidOperation):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toActionResponse(res))
	}
}

func toActionResponse(res Result) actionResponse {
	out := actionResponse{
		Action:             string(res.Action),
		Message:            res.Message,
		AnimalID:           res.Animal.ID,
		ReproductiveStatus: res.Animal.ReproductiveStatus,
		NewEvents:          make([]actionEventSummary, 0, len(res.NewEvents)),
	}
	if res.CompletedEvent != nil {
		out.CompletedEvent = &actionEventSummary{
			ID:            res.CompletedEvent.ID,
			Type:          res.CompletedEvent.Type,
			Status:        res.CompletedEvent.Status,
			ScheduledDate: res.CompletedEvent.ScheduledDate,
		}
	}
	for _, e := range res.NewEvents {
		out.NewEvents = append(out.NewEvents, actionEventSummary{
			ID:            e.ID,
			Type:          e.Type,
			Status:        e.Status,
			ScheduledDate: e.ScheduledDate,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
