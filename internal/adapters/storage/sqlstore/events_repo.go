package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dairy-farm-records/internal/domain/events"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

const eventColumns = `
	id, animal_id, type,
	title, description,
	scheduled_date, status, priority,
	reminder_value, reminder_unit, notification_sent,
	location,
	completed_date, result, notes,
	semen_bull_tag, semen_serial_number, semen_producer,
	associated_events,
	created_at, updated_at
`

func (r *EventsRepo) Create(ctx context.Context, e events.Event) error {
	var remValue sql.NullInt64
	var remUnit sql.NullString
	if e.ReminderTime != nil {
		remValue = sql.NullInt64{Int64: int64(e.ReminderTime.Value), Valid: true}
		remUnit = sql.NullString{String: string(e.ReminderTime.Unit), Valid: true}
	}

	var bullTag, serial, producer sql.NullString
	if e.SemenDetails != nil {
		bullTag = sql.NullString{String: e.SemenDetails.BullTag, Valid: true}
		serial = sql.NullString{String: e.SemenDetails.SerialNumber, Valid: true}
		producer = sql.NullString{String: e.SemenDetails.Producer, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO farm_events (`+eventColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		e.ID,
		e.AnimalID,
		string(e.Type),
		e.Title,
		e.Description,
		e.ScheduledDate,
		string(e.Status),
		string(e.Priority),
		remValue,
		remUnit,
		e.NotificationSent,
		e.Location,
		nullTime(e.CompletedDate),
		string(e.Result),
		e.Notes,
		bullTag,
		serial,
		producer,
		joinCSV(e.AssociatedEvents),
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func scanEvent(row interface{ Scan(...any) error }) (events.Event, error) {
	var (
		e                         events.Event
		typ, status, priority     string
		result                    string
		remValue                  sql.NullInt64
		remUnit                   sql.NullString
		completed                 sql.NullTime
		bullTag, serial, producer sql.NullString
		associated                string
	)
	if err := row.Scan(
		&e.ID,
		&e.AnimalID,
		&typ,
		&e.Title,
		&e.Description,
		&e.ScheduledDate,
		&status,
		&priority,
		&remValue,
		&remUnit,
		&e.NotificationSent,
		&e.Location,
		&completed,
		&result,
		&e.Notes,
		&bullTag,
		&serial,
		&producer,
		&associated,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return events.Event{}, err
	}

	e.Type = events.Type(typ)
	e.Status = events.Status(status)
	e.Priority = events.Priority(priority)
	e.Result = events.Result(result)
	e.CompletedDate = timePtr(completed)
	e.AssociatedEvents = splitCSV(associated)

	if remValue.Valid && remUnit.Valid {
		e.ReminderTime = &events.ReminderTime{
			Value: int(remValue.Int64),
			Unit:  events.TimeUnit(remUnit.String),
		}
	}
	if bullTag.Valid || serial.Valid || producer.Valid {
		e.SemenDetails = &events.SemenDetails{
			BullTag:      bullTag.String,
			SerialNumber: serial.String,
			Producer:     producer.String,
		}
	}

	return e, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM farm_events
		WHERE id = $1
	`, id)

	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return events.Event{}, events.ErrNotFound
	}
	return e, err
}

func (r *EventsRepo) ApplyUpdate(ctx context.Context, id string, upd events.Update) (events.Event, error) {
	sets := []string{}
	args := []any{}
	argN := 1

	add := func(col string, val any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, val)
		argN++
	}

	if upd.Status != nil {
		add("status", string(*upd.Status))
	}
	if upd.CompletedDate != nil {
		add("completed_date", *upd.CompletedDate)
	}
	if upd.Result != nil {
		add("result", string(*upd.Result))
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	if upd.SemenDetails != nil {
		add("semen_bull_tag", upd.SemenDetails.BullTag)
		add("semen_serial_number", upd.SemenDetails.SerialNumber)
		add("semen_producer", upd.SemenDetails.Producer)
	}
	if upd.NotificationSent != nil {
		add("notification_sent", *upd.NotificationSent)
	}
	add("updated_at", upd.UpdatedAt)

	query := fmt.Sprintf(
		"UPDATE farm_events SET %s WHERE id = $%d",
		strings.Join(sets, ", "), argN,
	)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return events.Event{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return events.Event{}, events.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *EventsRepo) FindPending(ctx context.Context, animalID string, t events.Type) (events.Event, error) {
	// Overdue cuenta como abierto: una acción registrada tarde completa el
	// evento vencido. Si hubiera más de uno del mismo tipo (dato sucio),
	// gana el de fecha programada más temprana, con el id de desempate.
	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM farm_events
		WHERE animal_id = $1 AND type = $2 AND status IN ('Pending', 'Overdue')
		ORDER BY scheduled_date ASC, id ASC
		LIMIT 1
	`, animalID, string(t))

	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return events.Event{}, events.ErrNotFound
	}
	return e, err
}

func (r *EventsRepo) List(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + eventColumns + ` FROM farm_events WHERE 1=1`)

	args := []any{}
	argN := 1

	if filter.AnimalID != "" {
		sb.WriteString(fmt.Sprintf(" AND animal_id = $%d", argN))
		args = append(args, filter.AnimalID)
		argN++
	}
	if filter.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(filter.Status))
		argN++
	}
	if filter.Type != "" {
		sb.WriteString(fmt.Sprintf(" AND type = $%d", argN))
		args = append(args, string(filter.Type))
		argN++
	}
	if filter.DueBefore != nil {
		sb.WriteString(fmt.Sprintf(" AND scheduled_date < $%d", argN))
		args = append(args, *filter.DueBefore)
		argN++
	}
	if filter.CompletedFrom != nil {
		sb.WriteString(fmt.Sprintf(" AND completed_date >= $%d", argN))
		args = append(args, *filter.CompletedFrom)
		argN++
	}
	if filter.CompletedTo != nil {
		sb.WriteString(fmt.Sprintf(" AND completed_date <= $%d", argN))
		args = append(args, *filter.CompletedTo)
		argN++
	}

	sb.WriteString(" ORDER BY scheduled_date ASC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}
