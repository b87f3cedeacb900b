package app

import (
	"context"
	"fmt"
	"time"

	"bodymetrics/internal/domain"
)

// Plausible cuff reading bounds in mmHg and beats per minute.
const (
	minSystolic  = 50
	maxSystolic  = 300
	minDiastolic = 30
	maxDiastolic = 200
	minPulse     = 20
	maxPulse     = 250
)

// BloodPressureService records blood-pressure readings.
type BloodPressureService struct {
	repo domain.BloodPressureRepository
	now  func() time.Time
}

// NewBloodPressureService creates a BloodPressureService backed by the given repository.
func NewBloodPressureService(repo domain.BloodPressureRepository) *BloodPressureService {
	return &BloodPressureService{repo: repo, now: time.Now}
}

// Record validates and stores one reading. A zero pulse means "not reported".
func (s *BloodPressureService) Record(ctx context.Context, userID int64, systolic, diastolic, pulse int) (*domain.BloodPressureReading, error) {
	if systolic < minSystolic || systolic > maxSystolic {
		return nil, fmt.Errorf("%w: systolic must be between %d and %d", ErrInvalidInput, minSystolic, maxSystolic)
	}
	if diastolic < minDiastolic || diastolic > maxDiastolic {
		return nil, fmt.Errorf("%w: diastolic must be between %d and %d", ErrInvalidInput, minDiastolic, maxDiastolic)
	}
	if diastolic >= systolic {
		return nil, fmt.Errorf("%w: diastolic must be below systolic", ErrInvalidInput)
	}
	if pulse != 0 && (pulse < minPulse || pulse > maxPulse) {
		return nil, fmt.Errorf("%w: pulse must be between %d and %d", ErrInvalidInput, minPulse, maxPulse)
	}

	r := domain.BloodPressureReading{
		UserID:    userID,
		Systolic:  systolic,
		Diastolic: diastolic,
		Pulse:     pulse,
		Date:      s.now(),
	}
	id, err := s.repo.AddBloodPressure(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("add blood pressure: %w", err)
	}
	r.ID = id
	return &r, nil
}

// List returns every reading of the user in ascending date order.
func (s *BloodPressureService) List(ctx context.Context, userID int64) ([]domain.BloodPressureReading, error) {
	return s.repo.ListBloodPressure(ctx, userID)
}
