package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bodymetrics/internal/domain"
)

// GetProfile returns the user's profile, or nil when none is saved.
func (d *DB) GetProfile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	var (
		p                            domain.UserProfile
		birth                        sql.NullTime
		targetWeight, targetWaist    sql.NullFloat64
		gender, activity, system, gl string
	)
	err := d.sql.QueryRowContext(ctx,
		`SELECT user_id, height_cm, birth_date, gender, activity_level, measurement_system,
			medical_guidelines, target_weight_kg, target_waist_cm
		FROM profiles WHERE user_id=$1;`, userID,
	).Scan(&p.UserID, &p.HeightCm, &birth, &gender, &activity, &system, &gl, &targetWeight, &targetWaist)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Gender = domain.Gender(gender)
	p.ActivityLevel = domain.ActivityLevel(activity)
	p.MeasurementSystem = domain.MeasurementSystem(system)
	p.MedicalGuidelines = domain.MedicalGuidelines(gl)
	if birth.Valid {
		b := birth.Time
		p.BirthDate = &b
	}
	if targetWeight.Valid {
		p.TargetWeightKg = &targetWeight.Float64
	}
	if targetWaist.Valid {
		p.TargetWaistCm = &targetWaist.Float64
	}
	return &p, nil
}

// SaveProfile inserts or replaces the user's profile.
func (d *DB) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO profiles (user_id, height_cm, birth_date, gender, activity_level, measurement_system,
			medical_guidelines, target_weight_kg, target_waist_cm, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			height_cm = EXCLUDED.height_cm,
			birth_date = EXCLUDED.birth_date,
			gender = EXCLUDED.gender,
			activity_level = EXCLUDED.activity_level,
			measurement_system = EXCLUDED.measurement_system,
			medical_guidelines = EXCLUDED.medical_guidelines,
			target_weight_kg = EXCLUDED.target_weight_kg,
			target_waist_cm = EXCLUDED.target_waist_cm,
			updated_at = EXCLUDED.updated_at;`,
		p.UserID, p.HeightCm, nullTime(p.BirthDate), string(p.Gender), string(p.ActivityLevel),
		string(p.MeasurementSystem), string(p.MedicalGuidelines),
		nullFloat(p.TargetWeightKg), nullFloat(p.TargetWaistCm), time.Now().UTC(),
	)
	return err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
