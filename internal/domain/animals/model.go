package animals

import "time"

// Animal representa un animal registrado en el rebaño.
// Los campos de estado reproductivo (ReproductiveStatus, LastHeatDay,
// LastInseminationDate, LastHealthCheckDate) son propiedad del motor de
// ciclo de vida: los PATCH editoriales no deben tocarlos.
type Animal struct {
	ID  string
	Tag string // unique

	Gender   Gender
	Category Category

	BirthDate *time.Time
	Breed     string

	AcquisitionDate *time.Time
	AcquisitionType AcquisitionType
	MothersTag      string
	FathersTag      string

	CurrentBCS    *float64 // body condition score 1..5
	CurrentWeight *float64 // kg

	ReproductiveStatus   ReproductiveStatus
	LactationStatus      LactationStatus
	LastHealthCheckDate  *time.Time
	LastHeatDay          *time.Time
	LastInseminationDate *time.Time

	Notes    string
	Location string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Classify deriva la clase que usan los tipos de evento personalizados.
func Classify(a Animal) AnimalClass {
	if a.Category == CategoryCalf {
		return ClassCalf
	}
	if a.Gender == GenderMale {
		return ClassAdultMale
	}
	return ClassAdultFemale
}
