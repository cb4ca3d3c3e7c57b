package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))

		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}", patchAnimalHandler(svc))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc))
	})
}

// createAnimalRequest es el cuerpo para registrar un animal.
type createAnimalRequest struct {
	Tag      string `json:"tag"`
	Gender   string `json:"gender" enums:"female,male"`
	Category string `json:"category" enums:"adult,calf"`

	BirthDate string `json:"birth_date"` // YYYY-MM-DD opcional
	Breed     string `json:"breed"`

	AcquisitionDate string `json:"acquisition_date"` // YYYY-MM-DD opcional
	AcquisitionType string `json:"acquisition_type" enums:"born,purchased"`
	MothersTag      string `json:"mothers_tag"`
	FathersTag      string `json:"fathers_tag"`

	CurrentBCS    *float64 `json:"current_bcs"`
	CurrentWeight *float64 `json:"current_weight"`

	ReproductiveStatus string `json:"reproductive_status"` // solo al registrar
	LactationStatus    string `json:"lactation_status"`

	Notes    string `json:"notes"`
	Location string `json:"location"`
}

type animalResponse struct {
	ID  string `json:"id"`
	Tag string `json:"tag"`

	Gender   Gender   `json:"gender"`
	Category Category `json:"category"`

	BirthDate *time.Time `json:"birth_date,omitempty"`
	Breed     string     `json:"breed,omitempty"`

	AcquisitionDate *time.Time      `json:"acquisition_date,omitempty"`
	AcquisitionType AcquisitionType `json:"acquisition_type,omitempty"`
	MothersTag      string          `json:"mothers_tag,omitempty"`
	FathersTag      string          `json:"fathers_tag,omitempty"`

	CurrentBCS    *float64 `json:"current_bcs,omitempty"`
	CurrentWeight *float64 `json:"current_weight,omitempty"`

	ReproductiveStatus   ReproductiveStatus `json:"reproductive_status"`
	LactationStatus      LactationStatus    `json:"lactation_status"`
	LastHealthCheckDate  *time.Time         `json:"last_health_check_date,omitempty"`
	LastHeatDay          *time.Time         `json:"last_heat_day,omitempty"`
	LastInseminationDate *time.Time         `json:"last_insemination_date,omitempty"`

	Notes    string `json:"notes,omitempty"`
	Location string `json:"location,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type patchAnimalRequest struct {
	// Punteros para PATCH real: nil = no tocar. El estado reproductivo no es
	// editable por esta vía.
	Breed           *string  `json:"breed"`
	AcquisitionDate *string  `json:"acquisition_date"` // YYYY-MM-DD
	AcquisitionType *string  `json:"acquisition_type"`
	MothersTag      *string  `json:"mothers_tag"`
	FathersTag      *string  `json:"fathers_tag"`
	CurrentBCS      *float64 `json:"current_bcs"`
	CurrentWeight   *float64 `json:"current_weight"`
	LactationStatus *string  `json:"lactation_status"`
	Notes           *string  `json:"notes"`
	Location        *string  `json:"location"`
	Category        *string  `json:"category"`
}

// createAnimalHandler godoc
// @Summary Registrar animal
// @Description Registra un animal nuevo en el rebaño. El tag debe ser único.
// @Tags animals
// @Accept json
// @Produce json
// @Param payload body createAnimalRequest true "Datos del animal; fechas en formato YYYY-MM-DD"
// @Success 201 {object} animalResponse
// @Failure 400 {string} string "invalid json / tag duplicado / reglas de negocio"
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bd, err := parseDate(req.BirthDate)
		if err != nil {
			http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		ad, err := parseDate(req.AcquisitionDate)
		if err != nil {
			http.Error(w, "acquisition_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			Tag:                req.Tag,
			Gender:             req.Gender,
			Category:           req.Category,
			BirthDate:          bd,
			Breed:              req.Breed,
			AcquisitionDate:    ad,
			AcquisitionType:    req.AcquisitionType,
			MothersTag:         req.MothersTag,
			FathersTag:         req.FathersTag,
			CurrentBCS:         req.CurrentBCS,
			CurrentWeight:      req.CurrentWeight,
			ReproductiveStatus: req.ReproductiveStatus,
			LactationStatus:    req.LactationStatus,
			Notes:              req.Notes,
			Location:           req.Location,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

// listAnimalsHandler godoc
// @Summary Listar animales
// @Description Lista los animales del rebaño. Permite filtrar por sexo y ubicación.
// @Tags animals
// @Produce json
// @Param gender query string false "female o male"
// @Param location query string false "Ubicación exacta"
// @Success 200 {array} animalResponse
// @Failure 500 {string} string "internal error"
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{
			Gender:   Gender(strings.TrimSpace(r.URL.Query().Get("gender"))),
			Location: strings.TrimSpace(r.URL.Query().Get("location")),
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getAnimalHandler godoc
// @Summary Obtener animal
// @Tags animals
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {object} animalResponse
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			http.Error(w, "animal not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// patchAnimalHandler godoc
// @Summary Actualizar animal
// @Description Update parcial de los campos editables. El estado reproductivo solo lo cambia el motor de eventos (POST /animals/{animalID}/actions).
// @Tags animals
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param payload body patchAnimalRequest true "Campos a modificar; los ausentes no se tocan"
// @Success 200 {object} animalResponse
// @Failure 400 {string} string "invalid json"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [patch]
func patchAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req patchAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := PatchInput{
			Breed:           req.Breed,
			AcquisitionType: req.AcquisitionType,
			MothersTag:      req.MothersTag,
			FathersTag:      req.FathersTag,
			CurrentBCS:      req.CurrentBCS,
			CurrentWeight:   req.CurrentWeight,
			LactationStatus: req.LactationStatus,
			Notes:           req.Notes,
			Location:        req.Location,
			Category:        req.Category,
		}
		if req.AcquisitionDate != nil {
			t, err := parseDate(*req.AcquisitionDate)
			if err != nil {
				http.Error(w, "acquisition_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.AcquisitionDate = t
		}

		a, err := svc.Patch(r.Context(), chi.URLParam(r, "animalID"), in)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "animal not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// deleteAnimalHandler godoc
// @Summary Eliminar animal
// @Description Borra el animal. Sus eventos NO se borran: quedan como historia.
// @Tags animals
// @Param animalID path string true "ID del animal"
// @Success 204 {string} string ""
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [delete]
func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "animalID")); err != nil {
			http.Error(w, "animal not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:                   a.ID,
		Tag:                  a.Tag,
		Gender:               a.Gender,
		Category:             a.Category,
		BirthDate:            a.BirthDate,
		Breed:                a.Breed,
		AcquisitionDate:      a.AcquisitionDate,
		AcquisitionType:      a.AcquisitionType,
		MothersTag:           a.MothersTag,
		FathersTag:           a.FathersTag,
		CurrentBCS:           a.CurrentBCS,
		CurrentWeight:        a.CurrentWeight,
		ReproductiveStatus:   a.ReproductiveStatus,
		LactationStatus:      a.LactationStatus,
		LastHealthCheckDate:  a.LastHealthCheckDate,
		LastHeatDay:          a.LastHeatDay,
		LastInseminationDate: a.LastInseminationDate,
		Notes:                a.Notes,
		Location:             a.Location,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
