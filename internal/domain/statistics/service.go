// Package statistics calcula las agregaciones derivadas de la historia de
// eventos: tasa de concepción mensual, distribución de estado reproductivo y
// distribución de partos. Solo lectura; con datos vacíos devuelve estructuras
// en cero, nunca error.
package statistics

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"dairy-farm-records/internal/domain/animals"
	"dairy-farm-records/internal/domain/events"
)

type Service struct {
	events  events.Repository
	animals animals.Repository
	now     func() time.Time
}

func NewService(eventsRepo events.Repository, animalsRepo animals.Repository) *Service {
	return &Service{
		events:  eventsRepo,
		animals: animalsRepo,
		now:     time.Now,
	}
}

// MonthlyConception es la tasa de concepción de un mes calendario.
type MonthlyConception struct {
	Month      string // "Jan 2006"
	Total      int
	Successful int
	Rate       int // porcentaje redondeado, 0 si Total == 0
}

// ConceptionRate recorre los últimos 12 meses calendario (el más viejo
// primero) contando chequeos de preñez completados y cuántos confirmaron.
func (s *Service) ConceptionRate(ctx context.Context) ([]MonthlyConception, error) {
	now := s.now()

	out := make([]MonthlyConception, 0, 12)
	for i := 11; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

		checks, err := s.events.List(ctx, events.ListFilter{
			Type:          events.TypePregnancyCheck,
			Status:        events.StatusCompleted,
			CompletedFrom: &monthStart,
			CompletedTo:   &monthEnd,
		})
		if err != nil {
			return nil, err
		}

		successful := 0
		for _, e := range checks {
			if conceptionSuccess(e) {
				successful++
			}
		}

		rate := 0
		if len(checks) > 0 {
			rate = int(math.Round(float64(successful) / float64(len(checks)) * 100))
		}

		out = append(out, MonthlyConception{
			Month:      monthStart.Format("Jan 2006"),
			Total:      len(checks),
			Successful: successful,
			Rate:       rate,
		})
	}

	return out, nil
}

// conceptionSuccess decide si un chequeo completado confirmó preñez.
// Precedencia: campo result; si no está, las notas (compatibilidad con
// registros viejos); sin señal, cuenta como fallo.
func conceptionSuccess(e events.Event) bool {
	switch e.Result {
	case events.ResultPositive:
		return true
	case events.ResultNegative:
		return false
	}

	if e.Notes != "" {
		notes := strings.ToLower(e.Notes)
		if strings.Contains(notes, "not pregnant") || strings.Contains(notes, "negative") {
			return false
		}
		if strings.Contains(notes, "confirmed") || strings.Contains(notes, "positive") ||
			strings.Contains(notes, "pregnant") {
			return true
		}
	}

	return false
}

// StatusBucket es un bucket de la distribución de estado reproductivo.
type StatusBucket struct {
	Status     animals.ReproductiveStatus
	Label      string
	Count      int
	Percentage int
}

// PregnancyDistribution agrupa las hembras por estado reproductivo sobre el
// set fijo de cinco categorías, ordenado por count desc.
type PregnancyDistribution struct {
	Total        int
	Distribution []StatusBucket
}

var statusLabels = map[animals.ReproductiveStatus]string{
	animals.StatusOpen:              "Ready for Breeding",
	animals.StatusBred:              "Inseminated",
	animals.StatusConfirmedPregnant: "Pregnant",
	animals.StatusDry:               "Dry (Late Pregnancy)",
	animals.StatusNotBred:           "Not Bred",
}

var allStatuses = []animals.ReproductiveStatus{
	animals.StatusOpen,
	animals.StatusBred,
	animals.StatusConfirmedPregnant,
	animals.StatusDry,
	animals.StatusNotBred,
}

func (s *Service) PregnancyDistribution(ctx context.Context) (PregnancyDistribution, error) {
	females, err := s.animals.List(ctx, animals.ListFilter{Gender: animals.GenderFemale})
	if err != nil {
		return PregnancyDistribution{}, err
	}

	counts := make(map[animals.ReproductiveStatus]int, len(allStatuses))
	for _, a := range females {
		st := a.ReproductiveStatus
		if st == "" {
			st = animals.StatusNotBred
		}
		if _, known := statusLabels[st]; !known {
			// Estado desconocido (dato sucio): no entra en ningún bucket.
			continue
		}
		counts[st]++
	}

	total := len(females)
	buckets := make([]StatusBucket, 0, len(allStatuses))
	for _, st := range allStatuses {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(counts[st]) / float64(total) * 100))
		}
		buckets = append(buckets, StatusBucket{
			Status:     st,
			Label:      statusLabels[st],
			Count:      counts[st],
			Percentage: pct,
		})
	}

	// Orden por count desc; estable, así los empates respetan el orden fijo.
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})

	return PregnancyDistribution{Total: total, Distribution: buckets}, nil
}

// MonthCount es el total de partos de un mes del año (independiente del año).
type MonthCount struct {
	Month int // 0 = enero
	Name  string
	Count int
}

// HeatmapCell es el total de partos de un año+mes concreto.
type HeatmapCell struct {
	Date  string // "2006-01"
	Year  int
	Month int // 0 = enero
	Count int
}

// CalvingDistribution son las dos vistas de estacionalidad de partos.
type CalvingDistribution struct {
	TotalCalvings int
	ByMonth       []MonthCount  // 12 entradas fijas, ene-dic
	Heatmap       []HeatmapCell // solo meses con partos, orden cronológico
}

func (s *Service) CalvingDistribution(ctx context.Context) (CalvingDistribution, error) {
	calvings, err := s.events.List(ctx, events.ListFilter{
		Type:   events.TypeCalving,
		Status: events.StatusCompleted,
	})
	if err != nil {
		return CalvingDistribution{}, err
	}

	monthNames := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	byMonth := make([]MonthCount, 12)
	for i, name := range monthNames {
		byMonth[i] = MonthCount{Month: i, Name: name}
	}

	yearMonth := make(map[string]*HeatmapCell)
	for _, e := range calvings {
		if e.CompletedDate == nil {
			continue
		}
		d := *e.CompletedDate
		m := int(d.Month()) - 1
		byMonth[m].Count++

		key := d.Format("2006-01")
		if cell, ok := yearMonth[key]; ok {
			cell.Count++
		} else {
			yearMonth[key] = &HeatmapCell{Date: key, Year: d.Year(), Month: m, Count: 1}
		}
	}

	heatmap := make([]HeatmapCell, 0, len(yearMonth))
	for _, cell := range yearMonth {
		heatmap = append(heatmap, *cell)
	}
	sort.Slice(heatmap, func(i, j int) bool {
		if heatmap[i].Year != heatmap[j].Year {
			return heatmap[i].Year < heatmap[j].Year
		}
		return heatmap[i].Month < heatmap[j].Month
	})

	return CalvingDistribution{
		TotalCalvings: len(calvings),
		ByMonth:       byMonth,
		Heatmap:       heatmap,
	}, nil
}
