package repository

import (
	"context"
	"database/sql"
	"errors"

	"solarmon/backend/services/meter-service/internal/energy"
	"solarmon/backend/services/meter-service/internal/models"
)

// ErrBaselineNotFound indicates the baseline has not been recorded yet.
var ErrBaselineNotFound = errors.New("baseline not found")

// BaselineRepository manages the single baseline row.
type BaselineRepository struct {
	db *sql.DB
}

// NewBaselineRepository returns repository.
func NewBaselineRepository(db *sql.DB) *BaselineRepository {
	return &BaselineRepository{db: db}
}

// GetBaseline returns the baseline counters.
func (r *BaselineRepository) GetBaseline(ctx context.Context) (*models.BaselineReading, error) {
	const query = `
		SELECT solar_inverter_reading, solar_meter_reading, smart_meter_export, smart_meter_imported, created_at, updated_at
		FROM base_readings
		WHERE id = 1
	`
	var b models.BaselineReading
	err := r.db.QueryRowContext(ctx, query).Scan(
		&b.SolarInverter,
		&b.SolarMeter,
		&b.Export,
		&b.Import,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBaselineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SetBaseline records the baseline, replacing an earlier one.
func (r *BaselineRepository) SetBaseline(ctx context.Context, counters energy.Counters) (*models.BaselineReading, error) {
	const query = `
		INSERT INTO base_readings (id, solar_inverter_reading, solar_meter_reading, smart_meter_export, smart_meter_imported, created_at, updated_at)
		VALUES (1, $1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			solar_inverter_reading = EXCLUDED.solar_inverter_reading,
			solar_meter_reading = EXCLUDED.solar_meter_reading,
			smart_meter_export = EXCLUDED.smart_meter_export,
			smart_meter_imported = EXCLUDED.smart_meter_imported,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	b := models.BaselineReading{Counters: counters}
	if err := r.db.QueryRowContext(ctx, query,
		counters.SolarInverter,
		counters.SolarMeter,
		counters.Export,
		counters.Import,
	).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
