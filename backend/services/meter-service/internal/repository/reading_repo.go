package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"solarmon/backend/services/meter-service/internal/models"
)

// ErrReadingNotFound indicates no reading matched the lookup.
var ErrReadingNotFound = errors.New("reading not found")

const readingColumns = `id, date, solar_inverter_reading, solar_meter_reading, smart_meter_export, smart_meter_imported, created_at, updated_at`

// ReadingRepository persists daily cumulative readings.
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository returns repository.
func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// UpsertReading stores a reading, overwriting any existing row for the same
// date. It reports whether a new row was inserted.
func (r *ReadingRepository) UpsertReading(ctx context.Context, reading *models.DailyReading) (bool, error) {
	const query = `
		INSERT INTO daily_readings (date, solar_inverter_reading, solar_meter_reading, smart_meter_export, smart_meter_imported, created_at, updated_at)
		VALUES ($1::date, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (date) DO UPDATE SET
			solar_inverter_reading = EXCLUDED.solar_inverter_reading,
			solar_meter_reading = EXCLUDED.solar_meter_reading,
			smart_meter_export = EXCLUDED.smart_meter_export,
			smart_meter_imported = EXCLUDED.smart_meter_imported,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.db.QueryRowContext(ctx, query,
		models.FormatDate(reading.Date),
		reading.SolarInverter,
		reading.SolarMeter,
		reading.Export,
		reading.Import,
	).Scan(&reading.ID, &reading.CreatedAt, &reading.UpdatedAt, &inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// GetReading returns the reading recorded for date.
func (r *ReadingRepository) GetReading(ctx context.Context, date time.Time) (*models.DailyReading, error) {
	const query = `SELECT ` + readingColumns + ` FROM daily_readings WHERE date = $1::date`
	return r.queryOne(ctx, query, models.FormatDate(date))
}

// GetLatestReadingBefore returns the most recent reading strictly before date.
func (r *ReadingRepository) GetLatestReadingBefore(ctx context.Context, date time.Time) (*models.DailyReading, error) {
	const query = `
		SELECT ` + readingColumns + `
		FROM daily_readings
		WHERE date < $1::date
		ORDER BY date DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, models.FormatDate(date))
}

// GetLatestReadingOnOrBefore returns the most recent reading on or before date.
func (r *ReadingRepository) GetLatestReadingOnOrBefore(ctx context.Context, date time.Time) (*models.DailyReading, error) {
	const query = `
		SELECT ` + readingColumns + `
		FROM daily_readings
		WHERE date <= $1::date
		ORDER BY date DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, models.FormatDate(date))
}

// GetReadingsInRange returns readings in [start, end] ordered by ascending date.
func (r *ReadingRepository) GetReadingsInRange(ctx context.Context, start, end time.Time) ([]models.DailyReading, error) {
	const query = `
		SELECT ` + readingColumns + `
		FROM daily_readings
		WHERE date >= $1::date AND date <= $2::date
		ORDER BY date ASC
	`
	return r.queryMany(ctx, query, models.FormatDate(start), models.FormatDate(end))
}

// ListReadings returns readings newest first. The range filter applies only
// when both bounds are set.
func (r *ReadingRepository) ListReadings(ctx context.Context, start, end *time.Time) ([]models.DailyReading, error) {
	if start != nil && end != nil {
		const query = `
			SELECT ` + readingColumns + `
			FROM daily_readings
			WHERE date >= $1::date AND date <= $2::date
			ORDER BY date DESC
		`
		return r.queryMany(ctx, query, models.FormatDate(*start), models.FormatDate(*end))
	}
	const query = `SELECT ` + readingColumns + ` FROM daily_readings ORDER BY date DESC`
	return r.queryMany(ctx, query)
}

func (r *ReadingRepository) queryOne(ctx context.Context, query string, args ...any) (*models.DailyReading, error) {
	var reading models.DailyReading
	err := scanReading(r.db.QueryRowContext(ctx, query, args...), &reading)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReadingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

func (r *ReadingRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.DailyReading, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]models.DailyReading, 0)
	for rows.Next() {
		var reading models.DailyReading
		if err := scanReading(rows, &reading); err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return readings, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReading(row scanner, reading *models.DailyReading) error {
	if err := row.Scan(
		&reading.ID,
		&reading.Date,
		&reading.SolarInverter,
		&reading.SolarMeter,
		&reading.Export,
		&reading.Import,
		&reading.CreatedAt,
		&reading.UpdatedAt,
	); err != nil {
		return err
	}
	reading.Date = models.DateOf(reading.Date, nil)
	return nil
}
