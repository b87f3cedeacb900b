package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"bodymetrics/internal/domain"
)

// WeightService encapsulates weight-tracking use cases.
type WeightService struct {
	repo domain.WeightRepository
	now  func() time.Time
}

// NewWeightService creates a WeightService backed by the given repository.
func NewWeightService(repo domain.WeightRepository) *WeightService {
	return &WeightService{repo: repo, now: time.Now}
}

// GetTodayWeight returns the latest weight record for the given local day.
func (s *WeightService) GetTodayWeight(ctx context.Context, userID int64, today string) (*domain.WeightRecord, error) {
	return s.repo.LatestWeightForLocalDay(ctx, userID, today)
}

// RecordWeight validates and stores a new weigh-in given in unit ("kg" or
// "lb"), returning the latest record for today after the insert. Values are
// always stored in kilograms.
func (s *WeightService) RecordWeight(ctx context.Context, userID int64, value float64, unit, note string) (*domain.WeightRecord, string, error) {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, "", fmt.Errorf("%w: value must be > 0", ErrInvalidInput)
	}
	if unit != "kg" && unit != "lb" {
		return nil, "", fmt.Errorf("%w: unit must be \"kg\" or \"lb\"", ErrInvalidInput)
	}
	now := s.now()
	today := now.In(time.Local).Format(domain.DayLayout)
	rec := domain.WeightRecord{
		UserID:  userID,
		ValueKg: domain.ConvertWeight(value, unit, "kg"),
		Date:    now,
		Note:    note,
	}
	if _, err := s.repo.AddWeight(ctx, rec); err != nil {
		return nil, today, fmt.Errorf("add weight: %w", err)
	}
	entry, err := s.repo.LatestWeightForLocalDay(ctx, userID, today)
	return entry, today, err
}

// ListRecent returns the most recent weigh-ins up to limit.
func (s *WeightService) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.WeightRecord, error) {
	return s.repo.ListRecentWeights(ctx, userID, limit)
}

// UndoLast deletes the most recent weigh-in and returns the new latest
// record for today.
func (s *WeightService) UndoLast(ctx context.Context, userID int64) (bool, *domain.WeightRecord, string, error) {
	today := s.now().In(time.Local).Format(domain.DayLayout)
	deleted, err := s.repo.DeleteLatestWeight(ctx, userID)
	if err != nil {
		return false, nil, today, err
	}
	entry, _ := s.repo.LatestWeightForLocalDay(ctx, userID, today)
	return deleted, entry, today, nil
}
