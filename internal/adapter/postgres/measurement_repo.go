package postgres

import (
	"context"

	"bodymetrics/internal/domain"
)

const measurementColumns = "id, user_id, type, value_cm, side, recorded_at"

// AddMeasurement inserts a circumference measurement.
func (d *DB) AddMeasurement(ctx context.Context, rec domain.MeasurementRecord) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO measurement_records(user_id, type, value_cm, side, recorded_at) VALUES($1, $2, $3, $4, $5) RETURNING id;",
		rec.UserID, string(rec.Type), rec.ValueCm, string(rec.Side), rec.Date.UTC(),
	).Scan(&id)
	return id, err
}

// ListRecentMeasurements returns the most recent measurements up to limit, newest first.
func (d *DB) ListRecentMeasurements(ctx context.Context, userID int64, limit int) ([]domain.MeasurementRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+measurementColumns+" FROM measurement_records WHERE user_id=$1 ORDER BY recorded_at DESC, id DESC LIMIT $2;",
		userID, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMeasurement)
}

// ListMeasurements returns the user's full history in ascending date order.
func (d *DB) ListMeasurements(ctx context.Context, userID int64) ([]domain.MeasurementRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+measurementColumns+" FROM measurement_records WHERE user_id=$1 ORDER BY recorded_at, id;", userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMeasurement)
}

func scanMeasurement(s scanner) (domain.MeasurementRecord, error) {
	var (
		r         domain.MeasurementRecord
		typ, side string
	)
	if err := s.Scan(&r.ID, &r.UserID, &typ, &r.ValueCm, &side, &r.Date); err != nil {
		return r, err
	}
	r.Type = domain.MeasurementType(typ)
	r.Side = domain.Side(side)
	return r, nil
}
