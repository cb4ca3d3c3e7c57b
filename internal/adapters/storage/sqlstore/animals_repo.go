package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dairy-farm-records/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `
	id, tag, gender, category,
	birth_date, breed,
	acquisition_date, acquisition_type, mothers_tag, fathers_tag,
	current_bcs, current_weight,
	reproductive_status, lactation_status,
	last_health_check_date, last_heat_day, last_insemination_date,
	notes, location,
	created_at, updated_at
`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		a.ID,
		a.Tag,
		string(a.Gender),
		string(a.Category),
		nullTime(a.BirthDate),
		a.Breed,
		nullTime(a.AcquisitionDate),
		string(a.AcquisitionType),
		a.MothersTag,
		a.FathersTag,
		nullFloat(a.CurrentBCS),
		nullFloat(a.CurrentWeight),
		string(a.ReproductiveStatus),
		string(a.LactationStatus),
		nullTime(a.LastHealthCheckDate),
		nullTime(a.LastHeatDay),
		nullTime(a.LastInseminationDate),
		a.Notes,
		a.Location,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func scanAnimal(row interface{ Scan(...any) error }) (animals.Animal, error) {
	var (
		a                                   animals.Animal
		gender, category, acqType           string
		reproStatus, lactStatus             string
		birth, acqDate, lastHC, heat, insem sql.NullTime
		bcs, weight                         sql.NullFloat64
	)
	if err := row.Scan(
		&a.ID,
		&a.Tag,
		&gender,
		&category,
		&birth,
		&a.Breed,
		&acqDate,
		&acqType,
		&a.MothersTag,
		&a.FathersTag,
		&bcs,
		&weight,
		&reproStatus,
		&lactStatus,
		&lastHC,
		&heat,
		&insem,
		&a.Notes,
		&a.Location,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return animals.Animal{}, err
	}

	a.Gender = animals.Gender(gender)
	a.Category = animals.Category(category)
	a.AcquisitionType = animals.AcquisitionType(acqType)
	a.ReproductiveStatus = animals.ReproductiveStatus(reproStatus)
	a.LactationStatus = animals.LactationStatus(lactStatus)
	a.BirthDate = timePtr(birth)
	a.AcquisitionDate = timePtr(acqDate)
	a.LastHealthCheckDate = timePtr(lastHC)
	a.LastHeatDay = timePtr(heat)
	a.LastInseminationDate = timePtr(insem)

	return a, nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE id = $1
	`, id)

	a, err := scanAnimal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, err
}

func (r *AnimalsRepo) GetByTag(ctx context.Context, tag string) (animals.Animal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE tag = $1
	`, tag)

	a, err := scanAnimal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, err
}

func (r *AnimalsRepo) List(ctx context.Context, filter animals.ListFilter) ([]animals.Animal, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + animalColumns + ` FROM animals WHERE 1=1`)

	args := []any{}
	argN := 1

	if filter.Gender != "" {
		sb.WriteString(fmt.Sprintf(" AND gender = $%d", argN))
		args = append(args, string(filter.Gender))
		argN++
	}
	if filter.Location != "" {
		sb.WriteString(fmt.Sprintf(" AND location = $%d", argN))
		args = append(args, filter.Location)
		argN++
	}

	sb.WriteString(" ORDER BY tag ASC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *AnimalsRepo) ApplyUpdate(ctx context.Context, id string, upd animals.Update) (animals.Animal, error) {
	sets := []string{}
	args := []any{}
	argN := 1

	add := func(col string, val any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, val)
		argN++
	}

	if upd.Breed != nil {
		add("breed", *upd.Breed)
	}
	if upd.AcquisitionDate != nil {
		add("acquisition_date", *upd.AcquisitionDate)
	}
	if upd.AcquisitionType != nil {
		add("acquisition_type", string(*upd.AcquisitionType))
	}
	if upd.MothersTag != nil {
		add("mothers_tag", *upd.MothersTag)
	}
	if upd.FathersTag != nil {
		add("fathers_tag", *upd.FathersTag)
	}
	if upd.CurrentBCS != nil {
		add("current_bcs", *upd.CurrentBCS)
	}
	if upd.CurrentWeight != nil {
		add("current_weight", *upd.CurrentWeight)
	}
	if upd.LactationStatus != nil {
		add("lactation_status", string(*upd.LactationStatus))
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Category != nil {
		add("category", string(*upd.Category))
	}
	if upd.ReproductiveStatus != nil {
		add("reproductive_status", string(*upd.ReproductiveStatus))
	}
	if upd.LastHealthCheckDate != nil {
		add("last_health_check_date", *upd.LastHealthCheckDate)
	}
	if upd.LastHeatDay != nil {
		add("last_heat_day", *upd.LastHeatDay)
	}
	if upd.LastInseminationDate != nil {
		add("last_insemination_date", *upd.LastInseminationDate)
	}
	if upd.ClearLastInsemination {
		sets = append(sets, "last_insemination_date = NULL")
	}
	add("updated_at", upd.UpdatedAt)

	query := fmt.Sprintf(
		"UPDATE animals SET %s WHERE id = $%d",
		strings.Join(sets, ", "), argN,
	)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return animals.Animal{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.Animal{}, animals.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}
