package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/settings", getSettingsHandler(svc))
	r.Post("/settings", updateSettingsHandler(svc))
}

type settingsBody struct {
	PregnancyLengthDays              *int `json:"pregnancy_length_days"`
	DryOffDaysBeforeCalving          *int `json:"dry_off_days_before_calving"`
	InseminationToPregnancyCheckDays *int `json:"insemination_to_pregnancy_check_days"`
	HealthCheckIntervalDays          *int `json:"health_check_interval_days"`
}

type settingsResponse struct {
	PregnancyLengthDays              int `json:"pregnancy_length_days"`
	DryOffDaysBeforeCalving          int `json:"dry_off_days_before_calving"`
	InseminationToPregnancyCheckDays int `json:"insemination_to_pregnancy_check_days"`
	HealthCheckIntervalDays          int `json:"health_check_interval_days"`
}

// getSettingsHandler godoc
// @Summary Obtener parámetros de tiempos
// @Description Devuelve la configuración vigente (cacheada hasta 5 minutos).
// @Tags settings
// @Produce json
// @Success 200 {object} settingsResponse
// @Failure 500 {string} string "internal error"
// @Router /settings [get]
func getSettingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.Get(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(cfg))
	}
}

// updateSettingsHandler godoc
// @Summary Actualizar parámetros de tiempos
// @Description Update parcial. Cada campo presente se valida contra su rango antes de escribir; un valor fuera de rango rechaza todo el update.
// @Tags settings
// @Accept json
// @Produce json
// @Param payload body settingsBody true "Campos a modificar; los ausentes no se tocan"
// @Success 200 {object} settingsResponse
// @Failure 400 {string} string "invalid json / valor fuera de rango"
// @Failure 500 {string} string "internal error"
// @Router /settings [post]
func updateSettingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settingsBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		cfg, err := svc.Update(r.Context(), Patch{
			PregnancyLengthDays:              req.PregnancyLengthDays,
			DryOffDaysBeforeCalving:          req.DryOffDaysBeforeCalving,
			InseminationToPregnancyCheckDays: req.InseminationToPregnancyCheckDays,
			HealthCheckIntervalDays:          req.HealthCheckIntervalDays,
		})
		if err != nil {
			if errors.Is(err, ErrOutOfRange) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(cfg))
	}
}

func toResponse(c Config) settingsResponse {
	return settingsResponse{
		PregnancyLengthDays:              c.PregnancyLengthDays,
		DryOffDaysBeforeCalving:          c.DryOffDaysBeforeCalving,
		InseminationToPregnancyCheckDays: c.InseminationToPregnancyCheckDays,
		HealthCheckIntervalDays:          c.HealthCheckIntervalDays,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
