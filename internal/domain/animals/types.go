package animals

// Gender define el sexo del animal.
// @Enum female, male
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// Category define la etapa del animal.
// @Enum adult, calf
type Category string

const (
	CategoryAdult Category = "adult"
	CategoryCalf  Category = "calf"
)

// AcquisitionType indica cómo llegó el animal al rebaño.
type AcquisitionType string

const (
	AcquisitionBorn      AcquisitionType = "born"
	AcquisitionPurchased AcquisitionType = "purchased"
)

// ReproductiveStatus es el estado del ciclo reproductivo de una hembra.
// Solo el motor de ciclo de vida (internal/domain/lifecycle) lo muta.
// @Enum not bred, bred, confirmed pregnant, dry, open
type ReproductiveStatus string

const (
	StatusNotBred           ReproductiveStatus = "not bred"
	StatusBred              ReproductiveStatus = "bred"
	StatusConfirmedPregnant ReproductiveStatus = "confirmed pregnant"
	StatusDry               ReproductiveStatus = "dry"
	StatusOpen              ReproductiveStatus = "open"
)

// LactationStatus es informativo, no participa del motor de eventos.
type LactationStatus string

const (
	LactationLactating     LactationStatus = "lactating"
	LactationDry           LactationStatus = "dry"
	LactationNotApplicable LactationStatus = "not applicable"
)

// AnimalClass es la categoría derivada que consumen los tipos de evento
// personalizados (applicability por clase de animal).
type AnimalClass string

const (
	ClassAdultFemale AnimalClass = "adult female"
	ClassAdultMale   AnimalClass = "adult male"
	ClassCalf        AnimalClass = "calf"
)

func validGender(g Gender) bool {
	return g == GenderFemale || g == GenderMale
}

func validCategory(c Category) bool {
	return c == CategoryAdult || c == CategoryCalf
}

func validReproductiveStatus(s ReproductiveStatus) bool {
	switch s {
	case StatusNotBred, StatusBred, StatusConfirmedPregnant, StatusDry, StatusOpen:
		return true
	default:
		return false
	}
}
