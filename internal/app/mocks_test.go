package app_test

import (
	"context"

	"bodymetrics/internal/domain"
)

type mockWeightRepo struct {
	addFn    func(ctx context.Context, rec domain.WeightRecord) (int64, error)
	deleteFn func(ctx context.Context, userID int64) (bool, error)
	latestFn func(ctx context.Context, userID int64, day string) (*domain.WeightRecord, error)
	recentFn func(ctx context.Context, userID int64, limit int) ([]domain.WeightRecord, error)
	listFn   func(ctx context.Context, userID int64) ([]domain.WeightRecord, error)
}

func (m *mockWeightRepo) AddWeight(ctx context.Context, rec domain.WeightRecord) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, rec)
	}
	return 0, nil
}

func (m *mockWeightRepo) DeleteLatestWeight(ctx context.Context, userID int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID)
	}
	return false, nil
}

func (m *mockWeightRepo) LatestWeightForLocalDay(ctx context.Context, userID int64, day string) (*domain.WeightRecord, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockWeightRepo) ListRecentWeights(ctx context.Context, userID int64, limit int) ([]domain.WeightRecord, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockWeightRepo) ListWeights(ctx context.Context, userID int64) ([]domain.WeightRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

type mockMeasurementRepo struct {
	addFn    func(ctx context.Context, rec domain.MeasurementRecord) (int64, error)
	recentFn func(ctx context.Context, userID int64, limit int) ([]domain.MeasurementRecord, error)
	listFn   func(ctx context.Context, userID int64) ([]domain.MeasurementRecord, error)
}

func (m *mockMeasurementRepo) AddMeasurement(ctx context.Context, rec domain.MeasurementRecord) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, rec)
	}
	return 0, nil
}

func (m *mockMeasurementRepo) ListRecentMeasurements(ctx context.Context, userID int64, limit int) ([]domain.MeasurementRecord, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockMeasurementRepo) ListMeasurements(ctx context.Context, userID int64) ([]domain.MeasurementRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

type mockBloodPressureRepo struct {
	addFn  func(ctx context.Context, r domain.BloodPressureReading) (int64, error)
	listFn func(ctx context.Context, userID int64) ([]domain.BloodPressureReading, error)
}

func (m *mockBloodPressureRepo) AddBloodPressure(ctx context.Context, r domain.BloodPressureReading) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, r)
	}
	return 0, nil
}

func (m *mockBloodPressureRepo) ListBloodPressure(ctx context.Context, userID int64) ([]domain.BloodPressureReading, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

type mockProfileRepo struct {
	getFn  func(ctx context.Context, userID int64) (*domain.UserProfile, error)
	saveFn func(ctx context.Context, p domain.UserProfile) error
}

func (m *mockProfileRepo) GetProfile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepo) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, p)
	}
	return nil
}
