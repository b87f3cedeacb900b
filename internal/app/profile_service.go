package app

import (
	"context"
	"fmt"
	"math"

	"bodymetrics/internal/domain"
)

// Plausible adult height bounds in centimetres.
const (
	minHeightCm = 50
	maxHeightCm = 275
)

// ProfileService reads and updates the user's health profile.
type ProfileService struct {
	repo domain.ProfileRepository
}

// NewProfileService creates a ProfileService backed by the given repository.
func NewProfileService(repo domain.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Get returns the stored profile or ErrProfileNotFound.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// Save validates p, fills in defaults for empty enum fields and stores it.
func (s *ProfileService) Save(ctx context.Context, p domain.UserProfile) (*domain.UserProfile, error) {
	if p.ActivityLevel == "" {
		p.ActivityLevel = domain.ActivitySedentary
	}
	if p.MeasurementSystem == "" {
		p.MeasurementSystem = domain.SystemMetric
	}
	if p.MedicalGuidelines == "" {
		p.MedicalGuidelines = domain.GuidelinesUSAHA
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return &p, nil
}

func validateProfile(p domain.UserProfile) error {
	if math.IsNaN(p.HeightCm) || p.HeightCm < minHeightCm || p.HeightCm > maxHeightCm {
		return fmt.Errorf("%w: heightCm must be between %d and %d", ErrInvalidInput, minHeightCm, maxHeightCm)
	}
	if !p.ActivityLevel.Valid() {
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidInput, p.ActivityLevel)
	}
	switch p.MeasurementSystem {
	case domain.SystemMetric, domain.SystemImperial:
	default:
		return fmt.Errorf("%w: unknown measurement system %q", ErrInvalidInput, p.MeasurementSystem)
	}
	switch p.MedicalGuidelines {
	case domain.GuidelinesUSAHA, domain.GuidelinesEUESC:
	default:
		return fmt.Errorf("%w: unknown medical guidelines %q", ErrInvalidInput, p.MedicalGuidelines)
	}
	switch p.Gender {
	case domain.GenderUnspecified, domain.GenderMale, domain.GenderFemale, domain.GenderOther:
	default:
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidInput, p.Gender)
	}
	if p.TargetWeightKg != nil && !positive(*p.TargetWeightKg) {
		return fmt.Errorf("%w: targetWeightKg must be > 0", ErrInvalidInput)
	}
	if p.TargetWaistCm != nil && !positive(*p.TargetWaistCm) {
		return fmt.Errorf("%w: targetWaistCm must be > 0", ErrInvalidInput)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
