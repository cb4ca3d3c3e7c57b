package statistics

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/statistics", func(sr chi.Router) {
		sr.Get("/conception-rate", conceptionRateHandler(svc))
		sr.Get("/pregnancy-distribution", pregnancyDistributionHandler(svc))
		sr.Get("/calving-distribution", calvingDistributionHandler(svc))
	})
}

type monthlyConceptionResponse struct {
	Month      string `json:"month"`
	Total      int    `json:"total"`
	Successful int    `json:"successful"`
	Rate       int    `json:"rate"`
}

// conceptionRateHandler godoc
// @Summary      Tasa de concepción mensual
// @Description  Chequeos de preñez completados de los últimos 12 meses, el más viejo primero.
// @Tags         statistics
// @Produce      json
// @Success      200 {array} monthlyConceptionResponse
// @Router       /statistics/conception-rate [get]
func conceptionRateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		months, err := svc.ConceptionRate(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}

		out := make([]monthlyConceptionResponse, 0, len(months))
		for _, m := range months {
			out = append(out, monthlyConceptionResponse{
				Month:      m.Month,
				Total:      m.Total,
				Successful: m.Successful,
				Rate:       m.Rate,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type statusBucketResponse struct {
	Status     string `json:"status"`
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type pregnancyDistributionResponse struct {
	Total        int                    `json:"total"`
	Distribution []statusBucketResponse `json:"distribution"`
}

// pregnancyDistributionHandler godoc
// @Summary      Distribución de estado reproductivo
// @Description  Hembras agrupadas por estado reproductivo, ordenado por cantidad descendente.
// @Tags         statistics
// @Produce      json
// @Success      200 {object} pregnancyDistributionResponse
// @Router       /statistics/pregnancy-distribution [get]
func pregnancyDistributionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dist, err := svc.PregnancyDistribution(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}

		buckets := make([]statusBucketResponse, 0, len(dist.Distribution))
		for _, b := range dist.Distribution {
			buckets = append(buckets, statusBucketResponse{
				Status:     string(b.Status),
				Label:      b.Label,
				Count:      b.Count,
				Percentage: b.Percentage,
			})
		}
		writeJSON(w, http.StatusOK, pregnancyDistributionResponse{Total: dist.Total, Distribution: buckets})
	}
}

type monthCountResponse struct {
	Month int    `json:"month"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type heatmapCellResponse struct {
	Date  string `json:"date"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Count int    `json:"count"`
}

type calvingDistributionResponse struct {
	TotalCalvings int                   `json:"total_calvings"`
	ByMonth       []monthCountResponse  `json:"by_month"`
	Heatmap       []heatmapCellResponse `json:"heatmap"`
}

// calvingDistributionHandler godoc
// @Summary      Distribución de partos
// @Description  Partos agrupados por mes del año y por año-mes (heatmap cronológico).
// @Tags         statistics
// @Produce      json
// @Success      200 {object} calvingDistributionResponse
// @Router       /statistics/calving-distribution [get]
func calvingDistributionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dist, err := svc.CalvingDistribution(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}

		byMonth := make([]monthCountResponse, 0, len(dist.ByMonth))
		for _, m := range dist.ByMonth {
			byMonth = append(byMonth, monthCountResponse{Month: m.Month, Name: m.Name, Count: m.Count})
		}
		heatmap := make([]heatmapCellResponse, 0, len(dist.Heatmap))
		for _, c := range dist.Heatmap {
			heatmap = append(heatmap, heatmapCellResponse{Date: c.Date, Year: c.Year, Month: c.Month, Count: c.Count})
		}
		writeJSON(w, http.StatusOK, calvingDistributionResponse{
			TotalCalvings: dist.TotalCalvings,
			ByMonth:       byMonth,
			Heatmap:       heatmap,
		})
	}
}

// writeJSON se repite en cada handler a propósito: mantiene los paquetes sin
// dependencias entre sí por un helper trivial.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
