package analytics

import (
	"context"
	"time"

	"bodymetrics/internal/domain"
)

// Snapshot is everything the engine needs about one user at one moment.
// Slices may be in any order; the engine sorts copies.
type Snapshot struct {
	UserID        int64
	Weights       []domain.WeightRecord
	Measurements  []domain.MeasurementRecord
	BloodPressure []domain.BloodPressureReading
	Profile       domain.UserProfile
	Today         time.Time
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	trend      []TrendOption
	plateau    []PlateauOption
	prediction []PredictionOption
}

// WithTrend passes options to the engine's TrendAnalyzer.
func WithTrend(opts ...TrendOption) Option {
	return func(c *config) { c.trend = append(c.trend, opts...) }
}

// WithPlateau passes options to the engine's PlateauDetector.
func WithPlateau(opts ...PlateauOption) Option {
	return func(c *config) { c.plateau = append(c.plateau, opts...) }
}

// WithPrediction passes options to the engine's PredictionEngine.
func WithPrediction(opts ...PredictionOption) Option {
	return func(c *config) { c.prediction = append(c.prediction, opts...) }
}

// Engine bundles the analyzers so they share one configuration.
type Engine struct {
	Trend      *TrendAnalyzer
	Plateau    *PlateauDetector
	Prediction *PredictionEngine
	Statistics *StatisticsAggregator
	Insights   *InsightCardBuilder
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	trend := NewTrendAnalyzer(cfg.trend...)
	prediction := NewPredictionEngine(cfg.prediction...)
	return &Engine{
		Trend:      trend,
		Plateau:    NewPlateauDetector(cfg.plateau...),
		Prediction: prediction,
		Statistics: NewStatisticsAggregator(trend, prediction),
		Insights:   NewInsightCardBuilder(),
	}
}

// Report is the combined analytics result for one snapshot.
type Report struct {
	Statistics StatisticsSnapshot `json:"statistics"`
	Plateau    PlateauStatus      `json:"plateau"`
	Prediction Prediction         `json:"prediction"`
	Cards      []Card             `json:"cards"`
}

// Report runs every analyzer over s and builds the insight cards.
func (e *Engine) Report(ctx context.Context, s Snapshot) (Report, error) {
	r := Report{
		Statistics: e.Statistics.Aggregate(s),
		Plateau:    e.Plateau.Detect(s.Weights),
		Prediction: e.Prediction.Predict(s.Weights, s.Profile.TargetWeightKg, s.Today),
	}
	cards, err := e.Insights.Build(ctx, BuildInput{
		Snapshot:   s,
		Statistics: r.Statistics,
		Plateau:    r.Plateau,
		Prediction: r.Prediction,
	})
	if err != nil {
		return Report{}, err
	}
	r.Cards = cards
	return r, nil
}

// Assess evaluates body composition at the latest weight. ok is false when
// there is no valid weight yet.
func (e *Engine) Assess(s Snapshot) (a Assessment, ok bool) {
	points := DailyWeights(s.Weights)
	if len(points) == 0 {
		return Assessment{}, false
	}
	return Assess(assessmentInput(s, points[len(points)-1].Value)), true
}
