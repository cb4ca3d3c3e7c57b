package customevents

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"dairy-farm-records/internal/domain/animals"
	"dairy-farm-records/internal/domain/events"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/custom-event-types", func(tr chi.Router) {
		tr.Post("/", createTypeHandler(svc))
		tr.Get("/", listTypesHandler(svc))
		tr.Delete("/{typeID}", deleteTypeHandler(svc))
	})

	r.Post("/custom-events", applyCustomEventHandler(svc))
}

// createTypeRequest es el cuerpo para definir una plantilla de evento.
type createTypeRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DefaultPriority events.Priority `json:"default_priority" enums:"High,Medium,Low"`
	ReminderTime    reminderBody    `json:"reminder_time"`
	AnimalClasses   []string        `json:"animal_categories"`
}

type reminderBody struct {
	Value int             `json:"value"`
	Unit  events.TimeUnit `json:"unit" enums:"hour,day,week,month"`
}

type typeResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	DefaultPriority events.Priority `json:"default_priority"`
	ReminderTime    reminderBody    `json:"reminder_time"`
	AnimalClasses   []string        `json:"animal_categories"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type applyRequest struct {
	AnimalID          string `json:"animal_id"`
	CustomEventTypeID string `json:"custom_event_type_id"`
	Notes             string `json:"notes"`
}

type appliedEventBody struct {
	ID            string        `json:"id"`
	Type          events.Type   `json:"event_type"`
	Status        events.Status `json:"status"`
	ScheduledDate time.Time     `json:"scheduled_date"`
}

type applyResponse struct {
	Message      string           `json:"message"`
	CurrentEvent appliedEventBody `json:"current_event"`
	NextEvent    appliedEventBody `json:"next_event"`
}

// createTypeHandler godoc
// @Summary Crear tipo de evento personalizado
// @Description Define una plantilla "registrar ahora, reagendar con offset fijo". El nombre debe ser único.
// @Tags custom-events
// @Accept json
// @Produce json
// @Param payload body createTypeRequest true "Plantilla; animal_categories es subconjunto de [adult female, adult male, calf]"
// @Success 201 {object} typeResponse
// @Failure 400 {string} string "invalid json / nombre duplicado / datos inválidos"
// @Router /custom-event-types [post]
func createTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		classes := make([]animals.AnimalClass, 0, len(req.AnimalClasses))
		for _, c := range req.AnimalClasses {
			classes = append(classes, animals.AnimalClass(c))
		}

		t, err := svc.Create(r.Context(), CreateInput{
			Name:            req.Name,
			Description:     req.Description,
			DefaultPriority: req.DefaultPriority,
			ReminderValue:   req.ReminderTime.Value,
			ReminderUnit:    req.ReminderTime.Unit,
			AnimalClasses:   classes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toTypeResponse(t))
	}
}

// listTypesHandler godoc
// @Summary Listar tipos de evento personalizados
// @Tags custom-events
// @Produce json
// @Success 200 {array} typeResponse
// @Failure 500 {string} string "internal error"
// @Router /custom-event-types [get]
func listTypesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]typeResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTypeResponse(t))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// deleteTypeHandler godoc
// @Summary Borrar tipo de evento personalizado
// @Description Elimina la plantilla. Los eventos ya creados con ella no se tocan.
// @Tags custom-events
// @Param typeID path string true "ID de la plantilla"
// @Success 204 {string} string ""
// @Failure 404 {string} string "custom event type not found"
// @Router /custom-event-types/{typeID} [delete]
func deleteTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "typeID")); err != nil {
			http.Error(w, "custom event type not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// applyCustomEventHandler godoc
// @Summary Aplicar evento personalizado
// @Description Registra el evento como completado ahora y agenda el próximo con el offset de la plantilla.
// @Tags custom-events
// @Accept json
// @Produce json
// @Param payload body applyRequest true "Animal y plantilla a aplicar"
// @Success 201 {object} applyResponse
// @Failure 400 {string} string "invalid json / plantilla no aplica a este animal"
// @Failure 404 {string} string "animal o plantilla inexistente"
// @Failure 500 {string} string "internal error"
// @Router /custom-events [post]
func applyCustomEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Apply(r.Context(), req.AnimalID, req.CustomEventTypeID, req.Notes)
		if err != nil {
			switch {
			case errors.Is(err, animals.ErrNotFound) || errors.Is(err, ErrNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, ErrNotApplicable) || errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, applyResponse{
			Message:      res.Current.Title + " recorded, next event scheduled for " + res.Next.ScheduledDate.Format("2006-01-02"),
			CurrentEvent: toAppliedBody(res.Current),
			NextEvent:    toAppliedBody(res.Next),
		})
	}
}

func toTypeResponse(t EventType) typeResponse {
	classes := make([]string, 0, len(t.AnimalClasses))
	for _, c := range t.AnimalClasses {
		classes = append(classes, string(c))
	}
	return typeResponse{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		DefaultPriority: t.DefaultPriority,
		ReminderTime:    reminderBody{Value: t.ReminderTime.Value, Unit: t.ReminderTime.Unit},
		AnimalClasses:   classes,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func toAppliedBody(e events.Event) appliedEventBody {
	return appliedEventBody{
		ID:            e.ID,
		Type:          e.Type,
		Status:        e.Status,
		ScheduledDate: e.ScheduledDate,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
