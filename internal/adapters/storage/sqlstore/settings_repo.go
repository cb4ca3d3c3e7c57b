package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"dairy-farm-records/internal/domain/settings"
)

// SettingsRepo guarda la config como fila singleton (id = 1).
type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) Get(ctx context.Context) (settings.Config, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			pregnancy_length_days,
			dry_off_days_before_calving,
			insemination_to_pregnancy_check_days,
			health_check_interval_days
		FROM farm_settings
		WHERE id = 1
	`)

	var c settings.Config
	if err := row.Scan(
		&c.PregnancyLengthDays,
		&c.DryOffDaysBeforeCalving,
		&c.InseminationToPregnancyCheckDays,
		&c.HealthCheckIntervalDays,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings.Config{}, settings.ErrNotFound
		}
		return settings.Config{}, err
	}

	return c, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, c settings.Config) (settings.Config, error) {
	// ON CONFLICT funciona igual en Postgres y SQLite.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO farm_settings (
			id,
			pregnancy_length_days,
			dry_off_days_before_calving,
			insemination_to_pregnancy_check_days,
			health_check_interval_days
		) VALUES (1,$1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET
			pregnancy_length_days = $5,
			dry_off_days_before_calving = $6,
			insemination_to_pregnancy_check_days = $7,
			health_check_interval_days = $8
	`,
		c.PregnancyLengthDays,
		c.DryOffDaysBeforeCalving,
		c.InseminationToPregnancyCheckDays,
		c.HealthCheckIntervalDays,
		c.PregnancyLengthDays,
		c.DryOffDaysBeforeCalving,
		c.InseminationToPregnancyCheckDays,
		c.HealthCheckIntervalDays,
	)
	if err != nil {
		return settings.Config{}, err
	}

	return c, nil
}
