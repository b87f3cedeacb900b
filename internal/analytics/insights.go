package analytics

import (
	"cmp"
	"context"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"bodymetrics/internal/domain"
)

// Card gates and thresholds.
const (
	StreakMinRecords        = 2
	BestProgressMinDays     = 7
	PatternsMinRecords      = 14
	PatternsMinWeekdays     = 2
	TrendAnalysisMinRecords = 3
	WeeklySummaryDays       = 7
	// GoalNearCompletePercent promotes the goal card to the top.
	GoalNearCompletePercent = 90.0
	// RegularLoggingPerWeek is the weigh-in count below which Tips nudges for more.
	RegularLoggingPerWeek = 3
)

var (
	weightChangeMilestones = []float64{1, 2.5, 5, 7.5, 10, 15, 20, 25, 30, 40, 50}
	goalProgressMilestones = []float64{25, 50, 75, 100}
)

// BuildInput is the precomputed analysis the cards are derived from.
type BuildInput struct {
	Snapshot   Snapshot
	Statistics StatisticsSnapshot
	Plateau    PlateauStatus
	Prediction Prediction
}

// InsightCardBuilder turns analysis results into an ordered card list.
type InsightCardBuilder struct{}

// NewInsightCardBuilder creates an InsightCardBuilder.
func NewInsightCardBuilder() *InsightCardBuilder {
	return &InsightCardBuilder{}
}

// cardFunc returns a card, or false when its gate is not met.
type cardFunc func(st *buildState) (Card, bool)

var cardFuncs = []cardFunc{
	progressSummaryCard,
	streakCard,
	plateauAnalysisCard,
	bestProgressCard,
	patternsCard,
	predictionsCard,
	tipsCard,
	plateauStrategiesCard,
	milestonesCard,
	trendAnalysisCard,
	weeklySummaryCard,
	goalProgressCard,
}

type buildState struct {
	in     BuildInput
	points []Point
	asOf   time.Time
	// losing is the goal direction; without a target weight loss is assumed.
	losing bool
}

// header stamps a card with the latest weigh-in day.
func (st *buildState) header(t CardType, p Priority) CardHeader {
	return st.headerAt(t, p, st.asOf)
}

// headerAt stamps a card with the day its own data was last updated.
func (st *buildState) headerAt(t CardType, p Priority, asOf time.Time) CardHeader {
	return CardHeader{ID: CardID(st.in.Snapshot.UserID, t), Type: t, Priority: p, AsOf: asOf}
}

// Build evaluates every card gate and returns the emitted cards in display
// order. The only error is ctx's, checked between cards.
func (b *InsightCardBuilder) Build(ctx context.Context, in BuildInput) ([]Card, error) {
	st := &buildState{in: in, points: DailyWeights(in.Snapshot.Weights), losing: true}
	if n := len(st.points); n > 0 {
		st.asOf = st.points[n-1].Date
		if t := in.Snapshot.Profile.TargetWeightKg; t != nil && *t > st.points[0].Value {
			st.losing = false
		}
	}

	cards := make([]Card, 0, len(cardFuncs))
	for _, f := range cardFuncs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c, ok := f(st); ok {
			cards = append(cards, c)
		}
	}
	SortCards(cards)
	return cards, nil
}

// SortCards orders cards by priority, then by the recency of each card's own
// data (newest first), then by type.
func SortCards(cards []Card) {
	slices.SortStableFunc(cards, func(a, b Card) int {
		ha, hb := a.Header(), b.Header()
		if c := cmp.Compare(ha.Priority, hb.Priority); c != 0 {
			return c
		}
		if c := hb.AsOf.Compare(ha.AsOf); c != 0 {
			return c
		}
		return cmp.Compare(cardTypeOrder[ha.Type], cardTypeOrder[hb.Type])
	})
}

func progressSummaryCard(st *buildState) (Card, bool) {
	s := st.in.Statistics
	if s.TotalEntries < 1 || len(st.points) == 0 {
		return nil, false
	}
	change := Unavailable(ReasonInsufficientData)
	if s.InitialWeight.Available() && s.CurrentWeight.Available() {
		change = Of(s.CurrentWeight.Value - s.InitialWeight.Value)
	}
	return ProgressSummaryCard{
		CardHeader:      st.header(CardProgressSummary, PriorityDescriptive),
		StartWeightKg:   s.InitialWeight,
		CurrentWeightKg: s.CurrentWeight,
		ChangeKg:        change,
		TotalEntries:    s.TotalEntries,
		DaysActive:      s.DaysActive,
	}, true
}

func streakCard(st *buildState) (Card, bool) {
	if st.in.Statistics.TotalEntries < StreakMinRecords || len(st.points) < 2 {
		return nil, false
	}
	t := st.in.Statistics.Trend
	return StreakCard{
		CardHeader:    st.header(CardStreak, PriorityInformative),
		CurrentStreak: t.CurrentStreak,
		LongestStreak: t.LongestStreak,
		Direction:     t.StreakDirection,
	}, true
}

func plateauAnalysisCard(st *buildState) (Card, bool) {
	p := st.in.Plateau
	if p.Severity == SeverityNone || p.Severity == "" {
		return nil, false
	}
	prio := PriorityActionable
	if p.Severity == SeveritySevere {
		prio = PriorityUrgent
	}
	return PlateauAnalysisCard{
		CardHeader:    st.header(CardPlateauAnalysis, prio),
		Severity:      p.Severity,
		DurationDays:  p.DurationDays,
		RangeKg:       p.RangeKg,
		PrimaryAction: p.PrimaryAction,
		Encouragement: p.Encouragement,
	}, true
}

func bestProgressCard(st *buildState) (Card, bool) {
	pts := st.points
	if len(pts) < 2 || daysBetween(pts[0].Date, pts[len(pts)-1].Date) < BestProgressMinDays {
		return nil, false
	}
	sign := 1.0
	if st.losing {
		sign = -1
	}
	best, from, to := math.Inf(-1), 0, 0
	for i := range pts {
		for j := i + 1; j < len(pts) && daysBetween(pts[i].Date, pts[j].Date) <= BestProgressMinDays; j++ {
			if gain := sign * (pts[j].Value - pts[i].Value); gain > best {
				best, from, to = gain, i, j
			}
		}
	}
	if best <= 0 {
		return nil, false
	}
	return BestProgressCard{
		CardHeader: st.headerAt(CardBestProgress, PriorityInformative, pts[to].Date),
		ChangeKg:   Of(pts[to].Value - pts[from].Value),
		From:       pts[from].Date,
		To:         pts[to].Date,
	}, true
}

func patternsCard(st *buildState) (Card, bool) {
	if st.in.Statistics.TotalEntries < PatternsMinRecords {
		return nil, false
	}
	deltas := make(map[time.Weekday][]float64, 7)
	for i := 1; i < len(st.points); i++ {
		prev, cur := st.points[i-1], st.points[i]
		gap := daysBetween(prev.Date, cur.Date)
		if gap <= 0 {
			continue
		}
		wd := cur.Date.Weekday()
		deltas[wd] = append(deltas[wd], (cur.Value-prev.Value)/float64(gap))
	}
	if len(deltas) < PatternsMinWeekdays {
		return nil, false
	}

	c := PatternsCard{CardHeader: st.header(CardPatterns, PriorityDescriptive)}
	bestSet := false
	var best, worst float64
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		d, ok := deltas[wd]
		if !ok {
			continue
		}
		mean := stat.Mean(d, nil)
		c.ByWeekday = append(c.ByWeekday, WeekdayChange{Weekday: wd, ChangeKg: Of(mean), Samples: len(d)})
		score := mean
		if st.losing {
			score = -mean
		}
		if !bestSet || score > best {
			best, c.BestWeekday = score, wd
		}
		if !bestSet || score < worst {
			worst, c.WorstWeekday = score, wd
		}
		bestSet = true
	}
	return c, true
}

func predictionsCard(st *buildState) (Card, bool) {
	p := st.in.Prediction
	if !p.Available() || p.EstimatedDate == nil || !p.EstimatedDays.Available() {
		return nil, false
	}
	return PredictionsCard{
		CardHeader:    st.header(CardPredictions, PriorityActionable),
		EstimatedDate: *p.EstimatedDate,
		EstimatedDays: int(p.EstimatedDays.Value),
		RateKgPerWeek: p.RateKgPerWeek,
		Confidence:    p.Confidence,
	}, true
}

func tipsCard(st *buildState) (Card, bool) {
	s := st.in.Statistics
	prof := st.in.Snapshot.Profile
	if prof.HeightCm <= 0 || s.TotalEntries < 1 || s.Assessment == nil {
		return nil, false
	}
	a := s.Assessment
	tips := []string{a.Recommendation}
	if a.WaistMissing && ShouldPromptWaistMeasurement(s.CurrentWeight.Or(0), prof.HeightCm, prof.ActivityLevel) {
		tips = append(tips, "Add a waist measurement. It tells muscle from fat better than BMI alone.")
	}
	switch trend := s.Trend.WeeklyTrend; {
	case st.losing && trend == TrendGaining:
		tips = append(tips, "Your weight rose this week. Review the last few days of meals and activity.")
	case !st.losing && trend == TrendLosing:
		tips = append(tips, "Your weight dropped this week. Check that you are eating enough to reach your goal.")
	}
	if weekEntries(st) < RegularLoggingPerWeek {
		tips = append(tips, "Weigh in at least three times a week so trends stay reliable.")
	}
	asOf := st.asOf
	sorted := domain.SortMeasurements(st.in.Snapshot.Measurements)
	if m := domain.LatestMeasurement(sorted, domain.MeasurementWaist); m != nil && startOfDay(m.Date).After(asOf) {
		asOf = startOfDay(m.Date)
	}
	return TipsCard{
		CardHeader: st.headerAt(CardTips, PriorityActionable, asOf),
		Category:   a.Category,
		Tips:       tips,
	}, true
}

func plateauStrategiesCard(st *buildState) (Card, bool) {
	p := st.in.Plateau
	if !p.Severity.AtLeast(SeverityModerate) || len(p.Strategies) == 0 {
		return nil, false
	}
	return PlateauStrategiesCard{
		CardHeader: st.header(CardPlateauStrategies, PriorityActionable),
		Severity:   p.Severity,
		Strategies: slices.Clone(p.Strategies),
	}, true
}

func milestonesCard(st *buildState) (Card, bool) {
	s := st.in.Statistics
	change := s.TotalLoss
	if !st.losing {
		change = s.TotalGain
	}

	var reached []Milestone
	var next *Milestone
	collect := func(kind MilestoneKind, thresholds []float64, v Value) {
		if !v.Available() {
			return
		}
		for _, t := range thresholds {
			if v.Value < t {
				if next == nil {
					next = &Milestone{Kind: kind, Threshold: t}
				}
				return
			}
			reached = append(reached, Milestone{Kind: kind, Threshold: t})
		}
	}
	collect(MilestoneWeightChange, weightChangeMilestones, change)
	collect(MilestoneGoalProgress, goalProgressMilestones, s.ProgressPercent)
	if len(reached) == 0 {
		return nil, false
	}
	return MilestonesCard{
		CardHeader: st.headerAt(CardMilestones, PriorityInformative, extremeDay(st.points, st.losing)),
		Reached:    reached,
		Next:       next,
	}, true
}

func trendAnalysisCard(st *buildState) (Card, bool) {
	if st.in.Statistics.TotalEntries < TrendAnalysisMinRecords {
		return nil, false
	}
	return TrendAnalysisCard{
		CardHeader: st.header(CardTrendAnalysis, PriorityInformative),
		Trend:      st.in.Statistics.Trend,
	}, true
}

func weeklySummaryCard(st *buildState) (Card, bool) {
	week := weekPoints(st)
	if len(week) == 0 {
		return nil, false
	}
	values := make([]float64, len(week))
	for i, p := range week {
		values[i] = p.Value
	}
	first, last := week[0].Value, week[len(week)-1].Value
	return WeeklySummaryCard{
		CardHeader: st.header(CardWeeklySummary, PriorityInformative),
		Entries:    weekEntries(st),
		StartKg:    Of(first),
		EndKg:      Of(last),
		ChangeKg:   Of(last - first),
		AverageKg:  Of(stat.Mean(values, nil)),
	}, true
}

func goalProgressCard(st *buildState) (Card, bool) {
	target := st.in.Snapshot.Profile.TargetWeightKg
	if target == nil || *target <= 0 {
		return nil, false
	}
	s := st.in.Statistics
	c := GoalProgressCard{
		CardHeader:      st.header(CardGoalProgress, PriorityInformative),
		TargetKg:        *target,
		CurrentKg:       s.CurrentWeight,
		RemainingKg:     Unavailable(ReasonInsufficientData),
		ProgressPercent: s.ProgressPercent,
	}
	if s.CurrentWeight.Available() {
		c.RemainingKg = Of(math.Abs(*target - s.CurrentWeight.Value))
	}
	if s.ProgressPercent.Available() && s.ProgressPercent.Value >= GoalNearCompletePercent {
		c.NearComplete = true
		c.Priority = PriorityUrgent
	}
	return c, true
}

// extremeDay is the first day the lowest (losing) or highest weight was
// recorded, which is when the furthest milestone was reached.
func extremeDay(points []Point, losing bool) time.Time {
	var best Point
	for i, p := range points {
		if i == 0 || (losing && p.Value < best.Value) || (!losing && p.Value > best.Value) {
			best = p
		}
	}
	return best.Date
}

// weekStart is the first day of the trailing seven-day window ending today.
func weekStart(st *buildState) time.Time {
	today := st.in.Snapshot.Today
	if today.IsZero() {
		today = st.asOf
	}
	return startOfDay(today).AddDate(0, 0, -(WeeklySummaryDays - 1))
}

func weekPoints(st *buildState) []Point {
	from := weekStart(st)
	i, _ := slices.BinarySearchFunc(st.points, from, func(p Point, t time.Time) int {
		return p.Date.Compare(t)
	})
	return st.points[i:]
}

// weekEntries counts raw weigh-ins in the trailing week.
func weekEntries(st *buildState) int {
	from := weekStart(st)
	n := 0
	for _, r := range st.in.Snapshot.Weights {
		if r.ValueKg > 0 && !startOfDay(r.Date).Before(from) {
			n++
		}
	}
	return n
}
