package analytics

import (
	"math"

	"bodymetrics/internal/domain"
)

// Trend defaults.
const (
	// DefaultNoiseThreshold is the weekly weight change below which a trend is stable (kg/week).
	DefaultNoiseThreshold = 0.1
	// DefaultMaxGapDays is the largest day gap a streak survives.
	DefaultMaxGapDays = 3
	// DefaultCurrentPoints is how many trailing daily points drive the current trend.
	DefaultCurrentPoints = 3
	// WeeklyWindowDays and MonthlyWindowDays size the rolling windows.
	WeeklyWindowDays  = 7
	MonthlyWindowDays = 30
)

// Direction is the sign of a series' movement.
type Direction string

const (
	DirectionDown Direction = "down"
	DirectionUp   Direction = "up"
	DirectionFlat Direction = "flat"
)

// Trend is a weight direction label.
type Trend string

const (
	TrendLosing  Trend = "losing"
	TrendGaining Trend = "gaining"
	TrendStable  Trend = "stable"
)

func trendOf(d Direction) Trend {
	switch d {
	case DirectionDown:
		return TrendLosing
	case DirectionUp:
		return TrendGaining
	default:
		return TrendStable
	}
}

// SeriesTrend is the direction and weekly rate of a generic series.
type SeriesTrend struct {
	Direction   Direction `json:"direction"`
	RatePerWeek Value     `json:"ratePerWeek"`
}

// ClassifySeries computes the weighted weekly rate over the trailing
// windowDays of points (all points when windowDays <= 0) and classifies it
// against noisePerWeek. Points must be ascending with at most one per day.
func ClassifySeries(points []Point, windowDays int, noisePerWeek float64) SeriesTrend {
	if windowDays > 0 {
		points = lastDays(points, windowDays)
	}
	return classifyRate(weightedWeeklyRate(points), noisePerWeek)
}

func classifyRate(rate Value, noisePerWeek float64) SeriesTrend {
	st := SeriesTrend{Direction: DirectionFlat, RatePerWeek: rate}
	if !rate.Available() || math.Abs(rate.Value) < noisePerWeek {
		return st
	}
	if rate.Value < 0 {
		st.Direction = DirectionDown
	} else {
		st.Direction = DirectionUp
	}
	return st
}

// weightedWeeklyRate averages consecutive per-day slopes, weighting newer
// slopes higher (1..n), and scales the result to a week.
func weightedWeeklyRate(points []Point) Value {
	if len(points) < 2 {
		return Unavailable(ReasonInsufficientData)
	}
	var sum, weights float64
	for i := 1; i < len(points); i++ {
		dt := daysBetween(points[i-1].Date, points[i].Date)
		if dt <= 0 {
			continue
		}
		w := float64(i)
		sum += w * (points[i].Value - points[i-1].Value) / float64(dt)
		weights += w
	}
	if weights == 0 {
		return Unavailable(ReasonInsufficientData)
	}
	return Of(sum / weights * 7)
}

// TrendResult is the directional summary of a weight history.
type TrendResult struct {
	CurrentTrend    Trend `json:"currentTrend"`
	WeeklyTrend     Trend `json:"weeklyTrend"`
	MonthlyTrend    Trend `json:"monthlyTrend"`
	CurrentRate     Value `json:"currentRateKgPerWeek"`
	WeeklyRate      Value `json:"weeklyRateKgPerWeek"`
	MonthlyRate     Value `json:"monthlyRateKgPerWeek"`
	CurrentStreak   int   `json:"currentStreak"`
	LongestStreak   int   `json:"longestStreak"`
	StreakDirection Trend `json:"streakDirection"`
}

// TrendOption configures a TrendAnalyzer.
type TrendOption func(*trendConfig)

type trendConfig struct {
	noiseThreshold float64
	maxGapDays     int
	currentPoints  int
}

// WithNoiseThreshold sets the stable band in kg/week.
func WithNoiseThreshold(kgPerWeek float64) TrendOption {
	return func(c *trendConfig) { c.noiseThreshold = kgPerWeek }
}

// WithMaxGapDays sets the largest day gap a streak survives.
func WithMaxGapDays(days int) TrendOption {
	return func(c *trendConfig) { c.maxGapDays = days }
}

// TrendAnalyzer classifies weight direction and streaks.
type TrendAnalyzer struct {
	cfg trendConfig
}

// NewTrendAnalyzer creates a TrendAnalyzer with defaults overridden by opts.
func NewTrendAnalyzer(opts ...TrendOption) *TrendAnalyzer {
	cfg := trendConfig{
		noiseThreshold: DefaultNoiseThreshold,
		maxGapDays:     DefaultMaxGapDays,
		currentPoints:  DefaultCurrentPoints,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &TrendAnalyzer{cfg: cfg}
}

// Analyze computes trends and streaks for recs. recs is not modified.
func (t *TrendAnalyzer) Analyze(recs []domain.WeightRecord) TrendResult {
	return t.AnalyzeSeries(DailyWeights(recs))
}

// AnalyzeSeries is Analyze for an arbitrary ascending daily series.
func (t *TrendAnalyzer) AnalyzeSeries(points []Point) TrendResult {
	current := classifyRate(weightedWeeklyRate(lastN(points, t.cfg.currentPoints)), t.cfg.noiseThreshold)
	weekly := ClassifySeries(points, WeeklyWindowDays, t.cfg.noiseThreshold)
	monthly := ClassifySeries(points, MonthlyWindowDays, t.cfg.noiseThreshold)
	cur, longest, dir := Streaks(points, t.cfg.maxGapDays)

	return TrendResult{
		CurrentTrend:    trendOf(current.Direction),
		WeeklyTrend:     trendOf(weekly.Direction),
		MonthlyTrend:    trendOf(monthly.Direction),
		CurrentRate:     current.RatePerWeek,
		WeeklyRate:      weekly.RatePerWeek,
		MonthlyRate:     monthly.RatePerWeek,
		CurrentStreak:   cur,
		LongestStreak:   longest,
		StreakDirection: trendOf(dir),
	}
}

// Streaks walks consecutive deltas. A delta in the streak's direction within
// maxGapDays extends it; a reversal restarts it at 1; a larger gap or a zero
// delta resets it to 0.
func Streaks(points []Point, maxGapDays int) (current, longest int, dir Direction) {
	dir = DirectionFlat
	for i := 1; i < len(points); i++ {
		gap := daysBetween(points[i-1].Date, points[i].Date)
		delta := points[i].Value - points[i-1].Value
		d := DirectionFlat
		if delta < 0 {
			d = DirectionDown
		} else if delta > 0 {
			d = DirectionUp
		}

		switch {
		case gap > maxGapDays || d == DirectionFlat:
			current, dir = 0, DirectionFlat
		case d == dir:
			current++
		default:
			current, dir = 1, d
		}
		longest = max(longest, current)
	}
	return current, longest, dir
}
