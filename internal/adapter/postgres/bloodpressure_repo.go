package postgres

import (
	"context"

	"bodymetrics/internal/domain"
)

// AddBloodPressure inserts a cuff reading.
func (d *DB) AddBloodPressure(ctx context.Context, r domain.BloodPressureReading) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO blood_pressure_readings(user_id, systolic, diastolic, pulse, recorded_at) VALUES($1, $2, $3, $4, $5) RETURNING id;",
		r.UserID, r.Systolic, r.Diastolic, r.Pulse, r.Date.UTC(),
	).Scan(&id)
	return id, err
}

// ListBloodPressure returns the user's readings in ascending date order.
func (d *DB) ListBloodPressure(ctx context.Context, userID int64) ([]domain.BloodPressureReading, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, user_id, systolic, diastolic, pulse, recorded_at FROM blood_pressure_readings WHERE user_id=$1 ORDER BY recorded_at, id;",
		userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (domain.BloodPressureReading, error) {
		var r domain.BloodPressureReading
		err := s.Scan(&r.ID, &r.UserID, &r.Systolic, &r.Diastolic, &r.Pulse, &r.Date)
		return r, err
	})
}
