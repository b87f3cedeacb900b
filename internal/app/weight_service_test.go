package app_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"bodymetrics/internal/app"
	"bodymetrics/internal/domain"
)

func TestRecordWeight_Validation(t *testing.T) {
	svc := app.NewWeightService(&mockWeightRepo{})

	tests := []struct {
		name  string
		value float64
		unit  string
	}{
		{"zero value", 0, "kg"},
		{"negative value", -5, "kg"},
		{"not a number", math.NaN(), "kg"},
		{"bad unit", 80, "stones"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.RecordWeight(context.Background(), 1, tc.value, tc.unit, "")
			if !errors.Is(err, app.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRecordWeight_Success(t *testing.T) {
	entry := &domain.WeightRecord{ID: 1, ValueKg: 80}
	var stored domain.WeightRecord
	repo := &mockWeightRepo{
		addFn: func(_ context.Context, rec domain.WeightRecord) (int64, error) {
			stored = rec
			return 1, nil
		},
		latestFn: func(_ context.Context, _ int64, _ string) (*domain.WeightRecord, error) {
			return entry, nil
		},
	}
	svc := app.NewWeightService(repo)
	got, today, err := svc.RecordWeight(context.Background(), 7, 80, "kg", "after run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if today == "" {
		t.Fatal("expected today string")
	}
	if got == nil || got.ID != 1 {
		t.Fatalf("unexpected entry: %v", got)
	}
	if stored.UserID != 7 || stored.ValueKg != 80 || stored.Note != "after run" {
		t.Fatalf("unexpected stored record: %+v", stored)
	}
}

func TestRecordWeight_ConvertsPounds(t *testing.T) {
	var stored domain.WeightRecord
	repo := &mockWeightRepo{
		addFn: func(_ context.Context, rec domain.WeightRecord) (int64, error) {
			stored = rec
			return 1, nil
		},
	}
	svc := app.NewWeightService(repo)
	if _, _, err := svc.RecordWeight(context.Background(), 1, 200, "lb", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(stored.ValueKg-90.718474) > 1e-6 {
		t.Fatalf("expected 90.718 kg, got %v", stored.ValueKg)
	}
}

func TestRecordWeight_RepoError(t *testing.T) {
	repo := &mockWeightRepo{
		addFn: func(_ context.Context, _ domain.WeightRecord) (int64, error) {
			return 0, errors.New("db down")
		},
	}
	svc := app.NewWeightService(repo)
	_, _, err := svc.RecordWeight(context.Background(), 1, 80, "kg", "")
	if err == nil {
		t.Fatal("expected error from repo")
	}
}

func TestGetTodayWeight(t *testing.T) {
	entry := &domain.WeightRecord{ID: 5, ValueKg: 75}
	repo := &mockWeightRepo{
		latestFn: func(_ context.Context, _ int64, day string) (*domain.WeightRecord, error) {
			if day != "2026-01-15" {
				t.Fatalf("unexpected day: %s", day)
			}
			return entry, nil
		},
	}
	svc := app.NewWeightService(repo)
	got, err := svc.GetTodayWeight(context.Background(), 1, "2026-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != 5 {
		t.Fatalf("unexpected entry: %v", got)
	}
}

func TestUndoLastWeight(t *testing.T) {
	repo := &mockWeightRepo{
		deleteFn: func(_ context.Context, _ int64) (bool, error) { return true, nil },
	}
	svc := app.NewWeightService(repo)
	deleted, _, _, err := svc.UndoLast(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatal("expected deleted=true")
	}
}

func TestListRecentWeight_Error(t *testing.T) {
	repo := &mockWeightRepo{
		recentFn: func(_ context.Context, _ int64, _ int) ([]domain.WeightRecord, error) {
			return nil, errors.New("db down")
		},
	}
	svc := app.NewWeightService(repo)
	_, err := svc.ListRecent(context.Background(), 1, 10)
	if err == nil {
		t.Fatal("expected error")
	}
}
