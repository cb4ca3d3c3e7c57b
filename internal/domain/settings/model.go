package settings

// Config son los parámetros de tiempos que manejan la aritmética de fechas
// del motor de eventos. Existe lógicamente una sola instancia.
type Config struct {
	PregnancyLengthDays              int
	DryOffDaysBeforeCalving          int
	InseminationToPregnancyCheckDays int
	HealthCheckIntervalDays          int
}

// Defaults devuelve los valores iniciales cuando todavía no hay registro.
func Defaults() Config {
	return Config{
		PregnancyLengthDays:              280,
		DryOffDaysBeforeCalving:          60,
		InseminationToPregnancyCheckDays: 30,
		HealthCheckIntervalDays:          14,
	}
}

// Rangos válidos por parámetro.
const (
	minPregnancyLength     = 200
	maxPregnancyLength     = 400
	minDryOffDays          = 30
	maxDryOffDays          = 120
	minInseminationToCheck = 14
	maxInseminationToCheck = 60
	minHealthCheckInterval = 7
	maxHealthCheckInterval = 90
)

// Patch es un update parcial: nil = no tocar.
type Patch struct {
	PregnancyLengthDays              *int
	DryOffDaysBeforeCalving          *int
	InseminationToPregnancyCheckDays *int
	HealthCheckIntervalDays          *int
}

func (p Patch) isEmpty() bool {
	return p.PregnancyLengthDays == nil &&
		p.DryOffDaysBeforeCalving == nil &&
		p.InseminationToPregnancyCheckDays == nil &&
		p.HealthCheckIntervalDays == nil
}

// applyTo devuelve la config resultante de aplicar el patch.
func (p Patch) applyTo(c Config) Config {
	if p.PregnancyLengthDays != nil {
		c.PregnancyLengthDays = *p.PregnancyLengthDays
	}
	if p.DryOffDaysBeforeCalving != nil {
		c.DryOffDaysBeforeCalving = *p.DryOffDaysBeforeCalving
	}
	if p.InseminationToPregnancyCheckDays != nil {
		c.InseminationToPregnancyCheckDays = *p.InseminationToPregnancyCheckDays
	}
	if p.HealthCheckIntervalDays != nil {
		c.HealthCheckIntervalDays = *p.HealthCheckIntervalDays
	}
	return c
}
