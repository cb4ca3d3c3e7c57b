package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"dairy-farm-records/internal/domain/animals"
	"dairy-farm-records/internal/domain/customevents"
	"dairy-farm-records/internal/domain/events"
)

type CustomEventTypesRepo struct {
	db *sql.DB
}

func NewCustomEventTypesRepo(db *sql.DB) *CustomEventTypesRepo {
	return &CustomEventTypesRepo{db: db}
}

const customEventTypeColumns = `
	id, name, description,
	default_priority,
	reminder_value, reminder_unit,
	animal_classes,
	created_at, updated_at
`

func (r *CustomEventTypesRepo) Create(ctx context.Context, t customevents.EventType) error {
	classes := make([]string, 0, len(t.AnimalClasses))
	for _, c := range t.AnimalClasses {
		classes = append(classes, string(c))
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO custom_event_types (`+customEventTypeColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		t.ID,
		t.Name,
		t.Description,
		string(t.DefaultPriority),
		t.ReminderTime.Value,
		string(t.ReminderTime.Unit),
		joinCSV(classes),
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func scanCustomEventType(row interface{ Scan(...any) error }) (customevents.EventType, error) {
	var (
		t                 customevents.EventType
		priority, remUnit string
		classes           string
	)
	if err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&priority,
		&t.ReminderTime.Value,
		&remUnit,
		&classes,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return customevents.EventType{}, err
	}

	t.DefaultPriority = events.Priority(priority)
	t.ReminderTime.Unit = events.TimeUnit(remUnit)
	for _, c := range splitCSV(classes) {
		t.AnimalClasses = append(t.AnimalClasses, animals.AnimalClass(c))
	}

	return t, nil
}

func (r *CustomEventTypesRepo) GetByID(ctx context.Context, id string) (customevents.EventType, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+customEventTypeColumns+`
		FROM custom_event_types
		WHERE id = $1
	`, id)

	t, err := scanCustomEventType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return customevents.EventType{}, customevents.ErrNotFound
	}
	return t, err
}

func (r *CustomEventTypesRepo) GetByName(ctx context.Context, name string) (customevents.EventType, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+customEventTypeColumns+`
		FROM custom_event_types
		WHERE name = $1
	`, name)

	t, err := scanCustomEventType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return customevents.EventType{}, customevents.ErrNotFound
	}
	return t, err
}

func (r *CustomEventTypesRepo) List(ctx context.Context) ([]customevents.EventType, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+customEventTypeColumns+`
		FROM custom_event_types
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]customevents.EventType, 0)
	for rows.Next() {
		t, err := scanCustomEventType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

func (r *CustomEventTypesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM custom_event_types WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return customevents.ErrNotFound
	}
	return nil
}
