package analytics

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"bodymetrics/internal/domain"
)

// BMIAnalysis summarises BMI across the weight history.
type BMIAnalysis struct {
	Current  Value    `json:"current"`
	Initial  Value    `json:"initial"`
	Change   Value    `json:"change"`
	Target   Value    `json:"target"`
	Category Category `json:"category"`
}

// MeasurementSummary is the latest value and overall change of one site.
type MeasurementSummary struct {
	Type       domain.MeasurementType `json:"type"`
	Side       domain.Side            `json:"side,omitempty"`
	Count      int                    `json:"count"`
	Latest     Value                  `json:"latestCm"`
	Change     Value                  `json:"changeCm"`
	LatestDate time.Time              `json:"latestDate"`
}

// StatisticsSnapshot is the full-history report of one user.
type StatisticsSnapshot struct {
	TotalEntries        int        `json:"totalEntries"`
	DaysActive          int        `json:"daysActive"`
	FirstDate           *time.Time `json:"firstDate,omitempty"`
	LastDate            *time.Time `json:"lastDate,omitempty"`
	InitialWeight       Value      `json:"initialWeightKg"`
	CurrentWeight       Value      `json:"currentWeightKg"`
	MinWeight           Value      `json:"minWeightKg"`
	MaxWeight           Value      `json:"maxWeightKg"`
	AverageWeight       Value      `json:"averageWeightKg"`
	TotalLoss           Value      `json:"totalLossKg"`
	TotalGain           Value      `json:"totalGainKg"`
	AverageWeeklyChange Value      `json:"averageWeeklyChangeKg"`
	ProgressPercent     Value      `json:"progressPercent"`
	EstimatedDaysToGoal Value      `json:"estimatedDaysToGoal"`

	Trend         TrendResult            `json:"trend"`
	BMI           BMIAnalysis            `json:"bmi"`
	Measurements  []MeasurementSummary   `json:"measurements"`
	Assessment    *Assessment            `json:"assessment,omitempty"`
	BloodPressure *BloodPressureAnalysis `json:"bloodPressure,omitempty"`
}

// StatisticsAggregator builds StatisticsSnapshot values.
type StatisticsAggregator struct {
	trend      *TrendAnalyzer
	prediction *PredictionEngine
}

// NewStatisticsAggregator wires the analyzers the aggregator delegates to.
// Nil arguments are replaced by defaults.
func NewStatisticsAggregator(trend *TrendAnalyzer, prediction *PredictionEngine) *StatisticsAggregator {
	if trend == nil {
		trend = NewTrendAnalyzer()
	}
	if prediction == nil {
		prediction = NewPredictionEngine()
	}
	return &StatisticsAggregator{trend: trend, prediction: prediction}
}

// Aggregate computes the statistics of s. Blood pressure is analysed only
// when readings are present.
func (a *StatisticsAggregator) Aggregate(s Snapshot) StatisticsSnapshot {
	insufficient := Unavailable(ReasonInsufficientData)
	out := StatisticsSnapshot{
		InitialWeight:       insufficient,
		CurrentWeight:       insufficient,
		MinWeight:           insufficient,
		MaxWeight:           insufficient,
		AverageWeight:       insufficient,
		TotalLoss:           insufficient,
		TotalGain:           insufficient,
		AverageWeeklyChange: insufficient,
		ProgressPercent:     insufficient,
		EstimatedDaysToGoal: insufficient,
		Measurements:        summarizeMeasurements(s.Measurements),
	}

	// Entries count every reading; the weight figures below use one value per day.
	points := DailyWeights(s.Weights)
	out.TotalEntries = len(validWeightValues(s.Weights))
	out.DaysActive = len(points)
	out.Trend = a.trend.AnalyzeSeries(points)

	if len(points) > 0 {
		first, last := points[0], points[len(points)-1]
		out.FirstDate, out.LastDate = &first.Date, &last.Date
		lo, hi := valueRange(points)
		out.InitialWeight = Of(first.Value)
		out.CurrentWeight = Of(last.Value)
		out.MinWeight = Of(lo)
		out.MaxWeight = Of(hi)
		out.AverageWeight = Of(stat.Mean(pointValues(points), nil))
		out.TotalLoss, out.TotalGain = lossAndGain(first.Value, last.Value, lo, hi)
		if days := daysBetween(first.Date, last.Date); days > 0 {
			out.AverageWeeklyChange = Of((last.Value - first.Value) / (float64(days) / 7))
		}
		out.ProgressPercent = progressPercent(first.Value, last.Value, s.Profile.TargetWeightKg)
	}
	if s.Profile.TargetWeightKg == nil {
		out.ProgressPercent = Unavailable(ReasonNoGoal)
	}
	out.EstimatedDaysToGoal = a.prediction.Predict(s.Weights, s.Profile.TargetWeightKg, s.Today).EstimatedDays

	out.BMI = bmiAnalysis(points, s.Profile)
	if len(points) > 0 {
		assessment := Assess(assessmentInput(s, points[len(points)-1].Value))
		out.Assessment = &assessment
		out.BMI.Category = assessment.Category
	}

	if len(s.BloodPressure) > 0 {
		bp := AnalyzeBloodPressure(s.BloodPressure, s.Profile.MedicalGuidelines)
		out.BloodPressure = &bp
	}
	return out
}

func validWeightValues(recs []domain.WeightRecord) []float64 {
	out := make([]float64, 0, len(recs))
	for _, r := range recs {
		if r.ValueKg > 0 && !math.IsInf(r.ValueKg, 0) {
			out = append(out, r.ValueKg)
		}
	}
	return out
}

func pointValues(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

// lossAndGain reports initial−min when the user is below the starting weight
// and max−initial when above it; the other side is zero.
func lossAndGain(initial, current, lo, hi float64) (loss, gain Value) {
	loss, gain = Of(0), Of(0)
	switch {
	case current < initial:
		loss = Of(initial - lo)
	case current > initial:
		gain = Of(hi - initial)
	}
	return loss, gain
}

func progressPercent(initial, current float64, goal *float64) Value {
	if goal == nil {
		return Unavailable(ReasonNoGoal)
	}
	span := initial - *goal
	if math.Abs(span) <= GoalReachedToleranceKg {
		if math.Abs(current-*goal) <= GoalReachedToleranceKg {
			return Of(100)
		}
		return Of(0)
	}
	pct := (initial - current) / span * 100
	return Of(math.Min(100, math.Max(0, pct)))
}

func bmiAnalysis(points []Point, p domain.UserProfile) BMIAnalysis {
	b := BMIAnalysis{
		Current:  Unavailable(ReasonInsufficientData),
		Initial:  Unavailable(ReasonInsufficientData),
		Change:   Unavailable(ReasonInsufficientData),
		Target:   Unavailable(ReasonNoGoal),
		Category: CategoryUnclassified,
	}
	if p.TargetWeightKg != nil {
		b.Target = BMI(*p.TargetWeightKg, p.HeightCm)
	}
	if len(points) == 0 {
		return b
	}
	b.Initial = BMI(points[0].Value, p.HeightCm)
	b.Current = BMI(points[len(points)-1].Value, p.HeightCm)
	if b.Initial.Available() && b.Current.Available() {
		b.Change = Of(b.Current.Value - b.Initial.Value)
	} else {
		b.Change = Unavailable(ReasonInvalidInput)
	}
	return b
}

// assessmentInput pairs the current weight with the latest waist and hip.
func assessmentInput(s Snapshot, weightKg float64) AssessmentInput {
	sorted := domain.SortMeasurements(s.Measurements)
	in := AssessmentInput{
		WeightKg: weightKg,
		HeightCm: s.Profile.HeightCm,
		Activity: s.Profile.ActivityLevel,
		Age:      s.Profile.AgeOn(s.Today),
		Gender:   s.Profile.Gender,
	}
	if m := domain.LatestMeasurement(sorted, domain.MeasurementWaist); m != nil {
		in.WaistCm = &m.ValueCm
	}
	if m := domain.LatestMeasurement(sorted, domain.MeasurementHips); m != nil {
		in.HipCm = &m.ValueCm
	}
	return in
}

func summarizeMeasurements(recs []domain.MeasurementRecord) []MeasurementSummary {
	type key struct {
		t    domain.MeasurementType
		side domain.Side
	}
	type acc struct {
		first, last domain.MeasurementRecord
		count       int
	}
	groups := make(map[key]*acc)
	var order []key
	for _, r := range domain.SortMeasurements(recs) {
		if r.ValueCm <= 0 {
			continue
		}
		k := key{r.Type, r.Side}
		g, ok := groups[k]
		if !ok {
			g = &acc{first: r}
			groups[k] = g
			order = append(order, k)
		}
		g.last = r
		g.count++
	}

	out := make([]MeasurementSummary, 0, len(order))
	for _, t := range domain.MeasurementTypes {
		for _, k := range order {
			if k.t != t {
				continue
			}
			g := groups[k]
			out = append(out, MeasurementSummary{
				Type:       k.t,
				Side:       k.side,
				Count:      g.count,
				Latest:     Of(g.last.ValueCm),
				Change:     Of(g.last.ValueCm - g.first.ValueCm),
				LatestDate: g.last.Date,
			})
		}
	}
	return out
}
