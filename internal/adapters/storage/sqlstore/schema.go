package sqlstore

import (
	"context"
	"database/sql"
)

// DDL portable entre Postgres y SQLite: TEXT/INTEGER/REAL/TIMESTAMP/BOOLEAN
// existen (o tienen afinidad) en los dos. Se ejecuta de a una sentencia
// porque pgx no acepta batches en un Exec.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS animals (
		id                     TEXT PRIMARY KEY,
		tag                    TEXT NOT NULL UNIQUE,
		gender                 TEXT NOT NULL,
		category               TEXT NOT NULL,
		birth_date             TIMESTAMP,
		breed                  TEXT NOT NULL DEFAULT '',
		acquisition_date       TIMESTAMP,
		acquisition_type       TEXT NOT NULL DEFAULT '',
		mothers_tag            TEXT NOT NULL DEFAULT '',
		fathers_tag            TEXT NOT NULL DEFAULT '',
		current_bcs            REAL,
		current_weight         REAL,
		reproductive_status    TEXT NOT NULL,
		lactation_status       TEXT NOT NULL,
		last_health_check_date TIMESTAMP,
		last_heat_day          TIMESTAMP,
		last_insemination_date TIMESTAMP,
		notes                  TEXT NOT NULL DEFAULT '',
		location               TEXT NOT NULL DEFAULT '',
		created_at             TIMESTAMP NOT NULL,
		updated_at             TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS farm_events (
		id                  TEXT PRIMARY KEY,
		animal_id           TEXT NOT NULL,
		type                TEXT NOT NULL,
		title               TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		scheduled_date      TIMESTAMP NOT NULL,
		status              TEXT NOT NULL,
		priority            TEXT NOT NULL,
		reminder_value      INTEGER,
		reminder_unit       TEXT,
		notification_sent   BOOLEAN NOT NULL DEFAULT FALSE,
		location            TEXT NOT NULL DEFAULT '',
		completed_date      TIMESTAMP,
		result              TEXT NOT NULL DEFAULT '',
		notes               TEXT NOT NULL DEFAULT '',
		semen_bull_tag      TEXT,
		semen_serial_number TEXT,
		semen_producer      TEXT,
		associated_events   TEXT NOT NULL DEFAULT '',
		created_at          TIMESTAMP NOT NULL,
		updated_at          TIMESTAMP NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_farm_events_animal
		ON farm_events (animal_id, type, status)`,

	`CREATE INDEX IF NOT EXISTS idx_farm_events_scheduled
		ON farm_events (status, scheduled_date)`,

	`CREATE TABLE IF NOT EXISTS custom_event_types (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL UNIQUE,
		description      TEXT NOT NULL DEFAULT '',
		default_priority TEXT NOT NULL,
		reminder_value   INTEGER NOT NULL,
		reminder_unit    TEXT NOT NULL,
		animal_classes   TEXT NOT NULL,
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS farm_settings (
		id                                   INTEGER PRIMARY KEY,
		pregnancy_length_days                INTEGER NOT NULL,
		dry_off_days_before_calving          INTEGER NOT NULL,
		insemination_to_pregnancy_check_days INTEGER NOT NULL,
		health_check_interval_days           INTEGER NOT NULL
	)`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
