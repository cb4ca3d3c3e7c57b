package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicateTag = errors.New("tag already exists")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Tag      string
	Gender   string
	Category string

	BirthDate *time.Time
	Breed     string

	AcquisitionDate *time.Time
	AcquisitionType string
	MothersTag      string
	FathersTag      string

	CurrentBCS    *float64
	CurrentWeight *float64

	ReproductiveStatus string
	LactationStatus    string

	Notes    string
	Location string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Animal, error) {
	tag := strings.TrimSpace(in.Tag)
	if tag == "" {
		return Animal{}, ErrInvalidInput
	}
	if !validGender(Gender(in.Gender)) {
		return Animal{}, ErrInvalidInput
	}

	cat := Category(in.Category)
	if in.Category == "" {
		cat = CategoryAdult
	} else if !validCategory(cat) {
		return Animal{}, ErrInvalidInput
	}

	// Tag único dentro del rebaño.
	if _, err := s.repo.GetByTag(ctx, tag); err == nil {
		return Animal{}, ErrDuplicateTag
	} else if !errors.Is(err, ErrNotFound) {
		return Animal{}, err
	}

	repro := ReproductiveStatus(in.ReproductiveStatus)
	if in.ReproductiveStatus == "" {
		repro = StatusNotBred
	} else if !validReproductiveStatus(repro) {
		return Animal{}, ErrInvalidInput
	}

	lact := LactationStatus(in.LactationStatus)
	if in.LactationStatus == "" {
		lact = LactationNotApplicable
	}

	now := s.now()
	a := Animal{
		ID:                 uuid.NewString(),
		Tag:                tag,
		Gender:             Gender(in.Gender),
		Category:           cat,
		BirthDate:          in.BirthDate,
		Breed:              strings.TrimSpace(in.Breed),
		AcquisitionDate:    in.AcquisitionDate,
		AcquisitionType:    AcquisitionType(strings.TrimSpace(in.AcquisitionType)),
		MothersTag:         strings.TrimSpace(in.MothersTag),
		FathersTag:         strings.TrimSpace(in.FathersTag),
		CurrentBCS:         in.CurrentBCS,
		CurrentWeight:      in.CurrentWeight,
		ReproductiveStatus: repro,
		LactationStatus:    lact,
		Notes:              strings.TrimSpace(in.Notes),
		Location:           strings.TrimSpace(in.Location),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Animal, error) {
	return s.repo.List(ctx, filter)
}

// PatchInput son los campos editables por formulario. El estado reproductivo
// y sus fechas quedan fuera a propósito: los muta solo el motor de eventos.
type PatchInput struct {
	Breed           *string
	AcquisitionDate *time.Time
	AcquisitionType *string
	MothersTag      *string
	FathersTag      *string
	CurrentBCS      *float64
	CurrentWeight   *float64
	LactationStatus *string
	Notes           *string
	Location        *string
	Category        *string
}

func (s *Service) Patch(ctx context.Context, id string, in PatchInput) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}

	upd := Update{
		Breed:           in.Breed,
		AcquisitionDate: in.AcquisitionDate,
		MothersTag:      in.MothersTag,
		FathersTag:      in.FathersTag,
		CurrentBCS:      in.CurrentBCS,
		CurrentWeight:   in.CurrentWeight,
		Notes:           in.Notes,
		Location:        in.Location,
		UpdatedAt:       s.now(),
	}

	if in.Category != nil {
		c := Category(*in.Category)
		if !validCategory(c) {
			return Animal{}, ErrInvalidInput
		}
		upd.Category = &c
	}
	if in.AcquisitionType != nil {
		at := AcquisitionType(*in.AcquisitionType)
		upd.AcquisitionType = &at
	}
	if in.LactationStatus != nil {
		ls := LactationStatus(*in.LactationStatus)
		upd.LactationStatus = &ls
	}

	return s.repo.ApplyUpdate(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
