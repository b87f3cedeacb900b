package main

import (
	"fmt"
	"log/slog"

	"bodymetrics/internal/adapter/memory"
	"bodymetrics/internal/adapter/postgres"
	"bodymetrics/internal/app"
	"bodymetrics/internal/config"
	"bodymetrics/internal/domain"
)

// store is the set of repositories behind one storage backend.
type store struct {
	users         domain.UserRepository
	sessions      domain.SessionRepository
	weights       domain.WeightRepository
	measurements  domain.MeasurementRepository
	bloodPressure domain.BloodPressureRepository
	profiles      domain.ProfileRepository
	close         func() error
}

func openStore(cfg config.Config) (*store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		db := memory.New()
		return &store{
			users: db, sessions: db.NewSessionRepo(),
			weights: db, measurements: db, bloodPressure: db, profiles: db,
			close: func() error { return nil },
		}, nil
	case config.StoragePostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		return &store{
			users: db, sessions: postgres.NewSessionRepo(db),
			weights: db, measurements: db, bloodPressure: db, profiles: db,
			close: db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func (s *store) insightsService(logger *slog.Logger) *app.InsightsService {
	return app.NewInsightsService(s.weights, s.measurements, s.bloodPressure, s.profiles,
		app.WithInsightsLogger(logger))
}
