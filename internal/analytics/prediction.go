package analytics

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"bodymetrics/internal/domain"
)

// Prediction defaults.
const (
	DefaultPredictionPoints = 14
	PredictionMinPoints     = 3
	// GoalReachedToleranceKg treats a current weight this close to the goal as reached.
	GoalReachedToleranceKg = 0.1
	// Residual standard deviation bounds (kg) for the confidence labels.
	ConfidenceHighMaxSigma   = 0.3
	ConfidenceMediumMaxSigma = 0.7
)

// Confidence is a coarse reliability label for a prediction.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// Prediction is an estimate of when the goal weight is reached.
type Prediction struct {
	EstimatedDate   *time.Time `json:"estimatedDate,omitempty"`
	EstimatedDays   Value      `json:"estimatedDays"`
	RateKgPerWeek   Value      `json:"rateKgPerWeek"`
	ResidualStdDev  Value      `json:"residualStdDevKg"`
	Confidence      Confidence `json:"confidence"`
	ConfidenceScore Value      `json:"confidenceScore"`
	Reason          Reason     `json:"reason,omitempty"`
}

// Available reports whether an estimated date was produced.
func (p Prediction) Available() bool {
	return p.Reason == ReasonNone
}

// PredictionOption configures a PredictionEngine.
type PredictionOption func(*PredictionEngine)

// WithPredictionPoints sets how many trailing daily points are fitted.
// Values below PredictionMinPoints are raised to it.
func WithPredictionPoints(n int) PredictionOption {
	return func(e *PredictionEngine) { e.points = max(n, PredictionMinPoints) }
}

// PredictionEngine fits a least-squares line to recent weights.
type PredictionEngine struct {
	points int
}

// NewPredictionEngine creates a PredictionEngine with defaults overridden by opts.
func NewPredictionEngine(opts ...PredictionOption) *PredictionEngine {
	e := &PredictionEngine{points: DefaultPredictionPoints}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Predict estimates the days until goalWeightKg is reached, counting from today.
func (e *PredictionEngine) Predict(recs []domain.WeightRecord, goalWeightKg *float64, today time.Time) Prediction {
	p := Prediction{
		EstimatedDays:   Unavailable(ReasonInsufficientData),
		RateKgPerWeek:   Unavailable(ReasonInsufficientData),
		ResidualStdDev:  Unavailable(ReasonInsufficientData),
		Confidence:      ConfidenceNone,
		ConfidenceScore: Unavailable(ReasonInsufficientData),
		Reason:          ReasonInsufficientData,
	}
	points := lastN(DailyWeights(recs), e.points)
	if len(points) < PredictionMinPoints {
		return p
	}

	slope, sigma := fitLine(points)
	if !slope.Available() {
		p.Reason = slope.Reason
		return p
	}
	p.RateKgPerWeek = Of(slope.Value * 7)
	p.ResidualStdDev = sigma
	p.ConfidenceScore = Of(1 / (1 + sigma.Value))
	p.Confidence = confidenceFor(sigma.Value)

	if goalWeightKg == nil || *goalWeightKg <= 0 {
		return unavailablePrediction(p, ReasonNoGoal)
	}
	current := points[len(points)-1].Value
	remaining := *goalWeightKg - current
	if math.Abs(remaining) <= GoalReachedToleranceKg {
		return datedPrediction(p, 0, today)
	}
	if slope.Value == 0 || math.Signbit(slope.Value) != math.Signbit(remaining) {
		return unavailablePrediction(p, ReasonNonConverging)
	}
	days := math.Round(remaining / slope.Value)
	if math.IsInf(days, 0) || days > math.MaxInt32 {
		return unavailablePrediction(p, ReasonNonConverging)
	}
	return datedPrediction(p, int(days), today)
}

func unavailablePrediction(p Prediction, r Reason) Prediction {
	p.Reason = r
	p.EstimatedDays = Unavailable(r)
	return p
}

func datedPrediction(p Prediction, days int, today time.Time) Prediction {
	d := startOfDay(today).AddDate(0, 0, days)
	p.Reason = ReasonNone
	p.EstimatedDays = Of(float64(days))
	p.EstimatedDate = &d
	return p
}

// fitLine regresses value on elapsed days and returns the slope (kg/day) and
// the residual standard deviation.
func fitLine(points []Point) (slope, sigma Value) {
	first := points[0].Date
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, pt := range points {
		xs[i] = float64(daysBetween(first, pt.Date))
		ys[i] = pt.Value
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return Unavailable(ReasonInvalidInput), Unavailable(ReasonInvalidInput)
	}

	var ss float64
	for i := range xs {
		r := ys[i] - (alpha + beta*xs[i])
		ss += r * r
	}
	dof := float64(len(xs) - 2)
	return Of(beta), Of(math.Sqrt(ss / dof))
}

func confidenceFor(sigma float64) Confidence {
	switch {
	case sigma <= ConfidenceHighMaxSigma:
		return ConfidenceHigh
	case sigma <= ConfidenceMediumMaxSigma:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
