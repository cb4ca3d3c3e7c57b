package events

// Type identifica la clase de evento. Los siete tipos estándar participan del
// motor de ciclo de vida; cualquier otro valor es el nombre de un tipo de
// evento personalizado.
type Type string

const (
	TypeHealthCheck     Type = "HealthCheck"
	TypeHeatObserved    Type = "HeatObserved"
	TypeInsemination    Type = "Insemination"
	TypePregnancyCheck  Type = "PregnancyCheck"
	TypeDryOff          Type = "DryOff"
	TypeExpectedCalving Type = "ExpectedCalving"
	TypeCalving         Type = "Calving"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusOverdue   Status = "Overdue"
	StatusCancelled Status = "Cancelled"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Result es el resultado de un chequeo de preñez. Vacío = sin registrar.
type Result string

const (
	ResultPositive Result = "positive"
	ResultNegative Result = "negative"
)

// TimeUnit es la unidad del recordatorio / offset de reprogramación.
type TimeUnit string

const (
	UnitHour  TimeUnit = "hour"
	UnitDay   TimeUnit = "day"
	UnitWeek  TimeUnit = "week"
	UnitMonth TimeUnit = "month"
)
