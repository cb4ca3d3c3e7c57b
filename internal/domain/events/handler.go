package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dairy-farm-records/internal/domain/animals"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, animalsSvc *animals.Service) {
	r.Route("/events", func(er chi.Router) {
		er.Post("/", createEventHandler(svc, animalsSvc))
		er.Get("/", listEventsHandler(svc))
		er.Post("/{eventID}/cancel", cancelEventHandler(svc))
	})

	// Agenda de un animal
	r.Get("/animals/{animalID}/events", listAnimalEventsHandler(svc, animalsSvc))
}

// createEventRequest es el cuerpo para agendar un evento manual.
type createEventRequest struct {
	AnimalID      string        `json:"animal_id"`
	Type          Type          `json:"event_type"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ScheduledDate string        `json:"scheduled_date"` // RFC3339
	Priority      Priority      `json:"priority" enums:"High,Medium,Low"`
	ReminderTime  *reminderBody `json:"reminder_time"`
	Location      string        `json:"location"`
	Notes         string        `json:"notes"`
}

type reminderBody struct {
	Value int      `json:"value"`
	Unit  TimeUnit `json:"unit" enums:"hour,day,week,month"`
}

type semenBody struct {
	BullTag      string `json:"bull_tag"`
	SerialNumber string `json:"serial_number"`
	Producer     string `json:"producer"`
}

// eventResponse representa un evento de la agenda devuelto por la API.
type eventResponse struct {
	ID       string `json:"id"`
	AnimalID string `json:"animal_id"`

	Type        Type   `json:"event_type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	ScheduledDate time.Time `json:"scheduled_date"`
	Status        Status    `json:"status"`
	Priority      Priority  `json:"priority"`

	ReminderTime     *reminderBody `json:"reminder_time,omitempty"`
	NotificationSent bool          `json:"notification_sent"`

	Location string `json:"location,omitempty"`

	CompletedDate *time.Time `json:"completed_date,omitempty"`
	Result        Result     `json:"result,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	SemenDetails  *semenBody `json:"semen_details,omitempty"`

	AssociatedEvents []string `json:"associated_events,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createEventHandler godoc
// @Summary Agendar evento manual
// @Description Crea un evento Pending para un animal, fuera del flujo automático del motor.
// @Tags events
// @Accept json
// @Produce json
// @Param payload body createEventRequest true "Datos del evento; scheduled_date en RFC3339"
// @Success 201 {object} eventResponse
// @Failure 400 {string} string "invalid json / scheduled_date inválido"
// @Failure 404 {string} string "animal not found"
// @Router /events [post]
func createEventHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if _, err := animalsSvc.GetByID(r.Context(), req.AnimalID); err != nil {
			http.Error(w, "animal not found", http.StatusNotFound)
			return
		}

		t, err := time.Parse(time.RFC3339, req.ScheduledDate)
		if err != nil {
			http.Error(w, "scheduled_date must be RFC3339", http.StatusBadRequest)
			return
		}

		var rem *ReminderTime
		if req.ReminderTime != nil {
			rem = &ReminderTime{Value: req.ReminderTime.Value, Unit: req.ReminderTime.Unit}
		}

		e, err := svc.Create(r.Context(), CreateInput{
			AnimalID:      req.AnimalID,
			Type:          req.Type,
			Title:         req.Title,
			Description:   req.Description,
			ScheduledDate: t,
			Priority:      req.Priority,
			ReminderTime:  rem,
			Location:      req.Location,
			Notes:         req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

// listEventsHandler godoc
// @Summary Listar eventos
// @Description Lista eventos con filtros opcionales por animal, estado y tipo. Orden: scheduled_date asc.
// @Tags events
// @Produce json
// @Param animalId query string false "ID del animal"
// @Param status query string false "Pending, Completed, Overdue o Cancelled"
// @Param eventType query string false "Tipo de evento (ej: PregnancyCheck)"
// @Success 200 {array} eventResponse
// @Failure 500 {string} string "internal error"
// @Router /events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{
			AnimalID: strings.TrimSpace(r.URL.Query().Get("animalId")),
			Status:   Status(strings.TrimSpace(r.URL.Query().Get("status"))),
			Type:     Type(strings.TrimSpace(r.URL.Query().Get("eventType"))),
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// cancelEventHandler godoc
// @Summary Cancelar evento
// @Description Pasa un evento Pending u Overdue a Cancelled. Los completados no se cancelan.
// @Tags events
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 404 {string} string "event not found"
// @Failure 409 {string} string "event already completed"
// @Router /events/{eventID}/cancel [post]
func cancelEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.Cancel(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			if errors.Is(err, ErrBadState) {
				http.Error(w, "event already completed", http.StatusConflict)
				return
			}
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// listAnimalEventsHandler godoc
// @Summary Agenda de un animal
// @Description Lista todos los eventos (pasados y programados) del animal, orden scheduled_date asc.
// @Tags events
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {array} eventResponse
// @Failure 404 {string} string "animal not found"
// @Failure 500 {string} string "internal error"
// @Router /animals/{animalID}/events [get]
func listAnimalEventsHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		animalID := chi.URLParam(r, "animalID")
		if _, err := animalsSvc.GetByID(r.Context(), animalID); err != nil {
			http.Error(w, "animal not found", http.StatusNotFound)
			return
		}

		items, err := svc.List(r.Context(), ListFilter{AnimalID: animalID})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toEventResponse(e Event) eventResponse {
	resp := eventResponse{
		ID:               e.ID,
		AnimalID:         e.AnimalID,
		Type:             e.Type,
		Title:            e.Title,
		Description:      e.Description,
		ScheduledDate:    e.ScheduledDate,
		Status:           e.Status,
		Priority:         e.Priority,
		NotificationSent: e.NotificationSent,
		Location:         e.Location,
		CompletedDate:    e.CompletedDate,
		Result:           e.Result,
		Notes:            e.Notes,
		AssociatedEvents: e.AssociatedEvents,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if e.ReminderTime != nil {
		resp.ReminderTime = &reminderBody{Value: e.ReminderTime.Value, Unit: e.ReminderTime.Unit}
	}
	if e.SemenDetails != nil {
		resp.SemenDetails = &semenBody{
			BullTag:      e.SemenDetails.BullTag,
			SerialNumber: e.SemenDetails.SerialNumber,
			Producer:     e.SemenDetails.Producer,
		}
	}
	return resp
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
