package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bodymetrics/internal/analytics"
	"bodymetrics/internal/domain"
)

// MaxChartDays caps the range served by GetDaily.
const MaxChartDays = 366

// InsightsService loads a user's history and runs the analytics engine over it.
type InsightsService struct {
	weights      domain.WeightRepository
	measurements domain.MeasurementRepository
	bloodPress   domain.BloodPressureRepository
	profiles     domain.ProfileRepository
	engine       *analytics.Engine
	log          *slog.Logger
	now          func() time.Time
	loc          *time.Location
}

// InsightsOption configures an InsightsService.
type InsightsOption func(*InsightsService)

// WithEngine replaces the default analytics engine.
func WithEngine(e *analytics.Engine) InsightsOption {
	return func(s *InsightsService) { s.engine = e }
}

// WithInsightsLogger sets the logger used for report diagnostics.
func WithInsightsLogger(l *slog.Logger) InsightsOption {
	return func(s *InsightsService) { s.log = l }
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) InsightsOption {
	return func(s *InsightsService) { s.now = now }
}

// WithLocation sets the time zone that defines a user's calendar day.
func WithLocation(loc *time.Location) InsightsOption {
	return func(s *InsightsService) { s.loc = loc }
}

// NewInsightsService creates an InsightsService backed by the given repositories.
func NewInsightsService(
	weights domain.WeightRepository,
	measurements domain.MeasurementRepository,
	bp domain.BloodPressureRepository,
	profiles domain.ProfileRepository,
	opts ...InsightsOption,
) *InsightsService {
	s := &InsightsService{
		weights:      weights,
		measurements: measurements,
		bloodPress:   bp,
		profiles:     profiles,
		engine:       analytics.New(),
		log:          slog.Default(),
		now:          time.Now,
		loc:          time.Local,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// DefaultProfile is used for users who have not saved a profile yet.
func DefaultProfile(userID int64) domain.UserProfile {
	return domain.UserProfile{
		UserID:            userID,
		ActivityLevel:     domain.ActivitySedentary,
		MeasurementSystem: domain.SystemMetric,
		MedicalGuidelines: domain.GuidelinesUSAHA,
	}
}

// Snapshot loads everything the engine needs for one user. A missing profile
// yields DefaultProfile; hasProfile reports which case applied. All dates are
// moved into the service's location so the engine groups by the user's day.
func (s *InsightsService) Snapshot(ctx context.Context, userID int64) (snap analytics.Snapshot, hasProfile bool, err error) {
	snap = analytics.Snapshot{UserID: userID, Today: s.now().In(s.loc)}

	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return snap, false, fmt.Errorf("load profile: %w", err)
	}
	snap.Profile = DefaultProfile(userID)
	if p != nil {
		snap.Profile = *p
		hasProfile = true
	}

	if err := ctx.Err(); err != nil {
		return snap, hasProfile, err
	}
	if snap.Weights, err = s.weights.ListWeights(ctx, userID); err != nil {
		return snap, hasProfile, fmt.Errorf("load weights: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return snap, hasProfile, err
	}
	if snap.Measurements, err = s.measurements.ListMeasurements(ctx, userID); err != nil {
		return snap, hasProfile, fmt.Errorf("load measurements: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return snap, hasProfile, err
	}
	if snap.BloodPressure, err = s.bloodPress.ListBloodPressure(ctx, userID); err != nil {
		return snap, hasProfile, fmt.Errorf("load blood pressure: %w", err)
	}

	for i := range snap.Weights {
		snap.Weights[i].Date = snap.Weights[i].Date.In(s.loc)
	}
	for i := range snap.Measurements {
		snap.Measurements[i].Date = snap.Measurements[i].Date.In(s.loc)
	}
	for i := range snap.BloodPressure {
		snap.BloodPressure[i].Date = snap.BloodPressure[i].Date.In(s.loc)
	}
	return snap, hasProfile, nil
}

// Statistics returns the full-history statistics of the user.
func (s *InsightsService) Statistics(ctx context.Context, userID int64) (analytics.StatisticsSnapshot, error) {
	snap, _, err := s.Snapshot(ctx, userID)
	if err != nil {
		return analytics.StatisticsSnapshot{}, err
	}
	return s.engine.Statistics.Aggregate(snap), nil
}

// Report runs every analyzer and builds the ordered insight cards.
func (s *InsightsService) Report(ctx context.Context, userID int64) (analytics.Report, error) {
	snap, _, err := s.Snapshot(ctx, userID)
	if err != nil {
		return analytics.Report{}, err
	}
	start := s.now()
	r, err := s.engine.Report(ctx, snap)
	if err != nil {
		return analytics.Report{}, err
	}
	s.log.DebugContext(ctx, "analytics report built",
		"user_id", userID,
		"weights", len(snap.Weights),
		"cards", len(r.Cards),
		"plateau", r.Plateau.Severity,
		"duration", s.now().Sub(start),
	)
	return r, nil
}

// Insights returns only the ordered insight cards.
func (s *InsightsService) Insights(ctx context.Context, userID int64) ([]analytics.Card, error) {
	r, err := s.Report(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.Cards, nil
}

// AssessmentResult is a body composition assessment plus whether the user
// should be asked for a waist measurement.
type AssessmentResult struct {
	Assessment  analytics.Assessment `json:"assessment"`
	PromptWaist bool                 `json:"promptWaist"`
}

// Assessment evaluates body composition at the latest weigh-in. It needs a
// saved profile and at least one weight.
func (s *InsightsService) Assessment(ctx context.Context, userID int64) (*AssessmentResult, error) {
	snap, hasProfile, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !hasProfile {
		return nil, ErrProfileNotFound
	}
	a, ok := s.engine.Assess(snap)
	if !ok {
		return nil, ErrNoWeights
	}
	points := analytics.DailyWeights(snap.Weights)
	latest := points[len(points)-1].Value
	prompt := a.WaistMissing && analytics.ShouldPromptWaistMeasurement(latest, snap.Profile.HeightCm, snap.Profile.ActivityLevel)
	return &AssessmentResult{Assessment: a, PromptWaist: prompt}, nil
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day    string      `json:"day"`
	Weight *ChartValue `json:"weight"`
	Waist  *ChartValue `json:"waist"`
}

// ChartValue is an optional value within a DayPoint.
type ChartValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// GetDaily returns per-day chart data for the last days days. Weights are
// converted to unit and waist to the matching length unit.
func (s *InsightsService) GetDaily(ctx context.Context, userID int64, days int, unit string) ([]DayPoint, error) {
	if unit != "kg" && unit != "lb" {
		return nil, fmt.Errorf("%w: unit must be \"kg\" or \"lb\"", ErrInvalidInput)
	}
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be >= 1", ErrInvalidInput)
	}
	days = min(days, MaxChartDays)
	lengthUnit := "cm"
	if unit == "lb" {
		lengthUnit = "in"
	}

	weights, err := s.weights.ListWeights(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	measurements, err := s.measurements.ListMeasurements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load measurements: %w", err)
	}

	// Later records overwrite earlier ones, leaving the latest value per day.
	weightByDay := make(map[string]float64)
	for _, w := range domain.SortWeights(weights) {
		weightByDay[s.day(w.Date)] = w.ValueKg
	}
	waistByDay := make(map[string]float64)
	for _, m := range domain.SortMeasurements(measurements) {
		if m.Type == domain.MeasurementWaist {
			waistByDay[s.day(m.Date)] = m.ValueCm
		}
	}

	today := s.now().In(s.loc)
	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(domain.DayLayout)
		p := DayPoint{Day: day}
		if kg, ok := weightByDay[day]; ok {
			p.Weight = &ChartValue{Value: domain.ConvertWeight(kg, "kg", unit), Unit: unit}
		}
		if cm, ok := waistByDay[day]; ok {
			p.Waist = &ChartValue{Value: domain.ConvertLength(cm, "cm", lengthUnit), Unit: lengthUnit}
		}
		points = append(points, p)
	}
	return points, nil
}

func (s *InsightsService) day(t time.Time) string {
	return t.In(s.loc).Format(domain.DayLayout)
}
