package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// migrations are idempotent and run in order on every start.
var migrations = []string{
	"CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY, username TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
	"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
	"ALTER TABLE sessions ADD COLUMN IF NOT EXISTS user_agent TEXT NOT NULL DEFAULT '';",
	"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",

	`CREATE TABLE IF NOT EXISTS profiles (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		height_cm DOUBLE PRECISION NOT NULL CHECK(height_cm > 0),
		birth_date DATE,
		gender TEXT NOT NULL DEFAULT '',
		activity_level TEXT NOT NULL DEFAULT 'sedentary',
		measurement_system TEXT NOT NULL DEFAULT 'metric' CHECK(measurement_system IN ('metric','imperial')),
		medical_guidelines TEXT NOT NULL DEFAULT 'us_aha' CHECK(medical_guidelines IN ('us_aha','eu_esc')),
		target_weight_kg DOUBLE PRECISION,
		target_waist_cm DOUBLE PRECISION,
		updated_at TIMESTAMPTZ NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS weight_records (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		value_kg DOUBLE PRECISION NOT NULL CHECK(value_kg > 0),
		recorded_at TIMESTAMPTZ NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		photo_ref TEXT NOT NULL DEFAULT ''
	);`,
	"CREATE INDEX IF NOT EXISTS idx_weight_records_user_time ON weight_records(user_id, recorded_at);",

	`CREATE TABLE IF NOT EXISTS measurement_records (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		value_cm DOUBLE PRECISION NOT NULL CHECK(value_cm > 0),
		side TEXT NOT NULL DEFAULT '' CHECK(side IN ('','left','right')),
		recorded_at TIMESTAMPTZ NOT NULL
	);`,
	"CREATE INDEX IF NOT EXISTS idx_measurement_records_user_time ON measurement_records(user_id, recorded_at);",

	`CREATE TABLE IF NOT EXISTS blood_pressure_readings (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		systolic INTEGER NOT NULL CHECK(systolic > 0),
		diastolic INTEGER NOT NULL CHECK(diastolic > 0),
		pulse INTEGER NOT NULL DEFAULT 0,
		recorded_at TIMESTAMPTZ NOT NULL
	);`,
	"CREATE INDEX IF NOT EXISTS idx_blood_pressure_user_time ON blood_pressure_readings(user_id, recorded_at);",
}

func (d *DB) migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}
