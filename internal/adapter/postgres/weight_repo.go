package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bodymetrics/internal/domain"
)

const weightColumns = "id, user_id, value_kg, recorded_at, note, photo_ref"

// AddWeight inserts a new weigh-in.
func (d *DB) AddWeight(ctx context.Context, rec domain.WeightRecord) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO weight_records(user_id, value_kg, recorded_at, note, photo_ref) VALUES($1, $2, $3, $4, $5) RETURNING id;",
		rec.UserID, rec.ValueKg, rec.Date.UTC(), rec.Note, rec.PhotoRef,
	).Scan(&id)
	return id, err
}

// DeleteLatestWeight removes the user's most recent weigh-in.
func (d *DB) DeleteLatestWeight(ctx context.Context, userID int64) (bool, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"SELECT id FROM weight_records WHERE user_id=$1 ORDER BY recorded_at DESC, id DESC LIMIT 1;", userID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	_, err = d.sql.ExecContext(ctx, "DELETE FROM weight_records WHERE id=$1 AND user_id=$2;", id, userID)
	return err == nil, err
}

// LatestWeightForLocalDay returns the most recent weigh-in for a local calendar day.
func (d *DB) LatestWeightForLocalDay(ctx context.Context, userID int64, localDay string) (*domain.WeightRecord, error) {
	dayStart, err := time.ParseInLocation(domain.DayLayout, localDay, time.Local)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	row := d.sql.QueryRowContext(ctx,
		"SELECT "+weightColumns+" FROM weight_records WHERE user_id=$1 AND recorded_at >= $2 AND recorded_at < $3 ORDER BY recorded_at DESC, id DESC LIMIT 1;",
		userID, dayStart.UTC(), dayEnd.UTC(),
	)
	rec, err := scanWeight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ListRecentWeights returns the most recent weigh-ins up to limit, newest first.
func (d *DB) ListRecentWeights(ctx context.Context, userID int64, limit int) ([]domain.WeightRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+weightColumns+" FROM weight_records WHERE user_id=$1 ORDER BY recorded_at DESC, id DESC LIMIT $2;",
		userID, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanWeight)
}

// ListWeights returns the user's full history in ascending date order.
func (d *DB) ListWeights(ctx context.Context, userID int64) ([]domain.WeightRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+weightColumns+" FROM weight_records WHERE user_id=$1 ORDER BY recorded_at, id;", userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanWeight)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanWeight(s scanner) (domain.WeightRecord, error) {
	var r domain.WeightRecord
	err := s.Scan(&r.ID, &r.UserID, &r.ValueKg, &r.Date, &r.Note, &r.PhotoRef)
	return r, err
}

// collect drains rows through scan and closes them.
func collect[T any](rows *sql.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
