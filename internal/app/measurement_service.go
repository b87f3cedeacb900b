package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"bodymetrics/internal/domain"
)

// MeasurementService records body circumference measurements.
type MeasurementService struct {
	repo domain.MeasurementRepository
	now  func() time.Time
}

// NewMeasurementService creates a MeasurementService backed by the given repository.
func NewMeasurementService(repo domain.MeasurementRepository) *MeasurementService {
	return &MeasurementService{repo: repo, now: time.Now}
}

// limbSites may carry a left/right side; every other site must not.
var limbSites = map[domain.MeasurementType]bool{
	domain.MeasurementArm:   true,
	domain.MeasurementThigh: true,
}

// Record validates and stores one measurement given in unit ("cm" or "in").
func (s *MeasurementService) Record(ctx context.Context, userID int64, t domain.MeasurementType, value float64, unit string, side domain.Side) (*domain.MeasurementRecord, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown measurement type %q", ErrInvalidInput, t)
	}
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: value must be > 0", ErrInvalidInput)
	}
	if unit != "cm" && unit != "in" {
		return nil, fmt.Errorf("%w: unit must be \"cm\" or \"in\"", ErrInvalidInput)
	}
	switch side {
	case domain.SideNone:
	case domain.SideLeft, domain.SideRight:
		if !limbSites[t] {
			return nil, fmt.Errorf("%w: %s has no side", ErrInvalidInput, t)
		}
	default:
		return nil, fmt.Errorf("%w: side must be \"left\" or \"right\"", ErrInvalidInput)
	}

	rec := domain.MeasurementRecord{
		UserID:  userID,
		Type:    t,
		ValueCm: domain.ConvertLength(value, unit, "cm"),
		Date:    s.now(),
		Side:    side,
	}
	id, err := s.repo.AddMeasurement(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("add measurement: %w", err)
	}
	rec.ID = id
	return &rec, nil
}

// ListRecent returns the most recent measurements up to limit.
func (s *MeasurementService) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.MeasurementRecord, error) {
	return s.repo.ListRecentMeasurements(ctx, userID, limit)
}
