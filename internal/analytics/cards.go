package analytics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CardType is the stable discriminant used for rendering dispatch.
type CardType string

const (
	CardProgressSummary   CardType = "progress_summary"
	CardStreak            CardType = "streak"
	CardPlateauAnalysis   CardType = "plateau_analysis"
	CardBestProgress      CardType = "best_progress"
	CardPatterns          CardType = "patterns"
	CardPredictions       CardType = "predictions"
	CardTips              CardType = "tips"
	CardPlateauStrategies CardType = "plateau_strategies"
	CardMilestones        CardType = "milestones"
	CardTrendAnalysis     CardType = "trend_analysis"
	CardWeeklySummary     CardType = "weekly_summary"
	CardGoalProgress      CardType = "goal_progress"
)

// cardTypeOrder is the final tie-break of the card ordering.
var cardTypeOrder = map[CardType]int{
	CardProgressSummary:   0,
	CardStreak:            1,
	CardPlateauAnalysis:   2,
	CardBestProgress:      3,
	CardPatterns:          4,
	CardPredictions:       5,
	CardTips:              6,
	CardPlateauStrategies: 7,
	CardMilestones:        8,
	CardTrendAnalysis:     9,
	CardWeeklySummary:     10,
	CardGoalProgress:      11,
}

// Priority orders cards; lower values are shown first.
type Priority int

const (
	PriorityUrgent      Priority = 0
	PriorityActionable  Priority = 1
	PriorityInformative Priority = 2
	PriorityDescriptive Priority = 3
)

// cardNamespace seeds the deterministic card IDs.
var cardNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("bodymetrics/insight-card"))

// CardID returns the stable identity of the card of type t for a user.
func CardID(userID int64, t CardType) uuid.UUID {
	return uuid.NewSHA1(cardNamespace, fmt.Appendf(nil, "%d/%s", userID, t))
}

// CardHeader is embedded in every card variant.
type CardHeader struct {
	ID       uuid.UUID `json:"id"`
	Type     CardType  `json:"type"`
	Priority Priority  `json:"priority"`
	AsOf     time.Time `json:"asOf"`
}

// Header returns the common card fields.
func (h CardHeader) Header() CardHeader { return h }

func (CardHeader) isCard() {}

// Card is one insight card. The set of variants is closed to this package.
type Card interface {
	Header() CardHeader
	isCard()
}

type ProgressSummaryCard struct {
	CardHeader
	StartWeightKg   Value `json:"startWeightKg"`
	CurrentWeightKg Value `json:"currentWeightKg"`
	ChangeKg        Value `json:"changeKg"`
	TotalEntries    int   `json:"totalEntries"`
	DaysActive      int   `json:"daysActive"`
}

type StreakCard struct {
	CardHeader
	CurrentStreak int   `json:"currentStreak"`
	LongestStreak int   `json:"longestStreak"`
	Direction     Trend `json:"direction"`
}

type PlateauAnalysisCard struct {
	CardHeader
	Severity      Severity `json:"severity"`
	DurationDays  int      `json:"durationDays"`
	RangeKg       Value    `json:"rangeKg"`
	PrimaryAction string   `json:"primaryAction"`
	Encouragement string   `json:"encouragement"`
}

// BestProgressCard is the largest move toward the goal within any seven-day span.
type BestProgressCard struct {
	CardHeader
	ChangeKg Value     `json:"changeKg"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
}

// WeekdayChange is the mean day-over-day change attributed to a weekday.
type WeekdayChange struct {
	Weekday  time.Weekday `json:"weekday"`
	ChangeKg Value        `json:"changeKg"`
	Samples  int          `json:"samples"`
}

type PatternsCard struct {
	CardHeader
	BestWeekday  time.Weekday    `json:"bestWeekday"`
	WorstWeekday time.Weekday    `json:"worstWeekday"`
	ByWeekday    []WeekdayChange `json:"byWeekday"`
}

type PredictionsCard struct {
	CardHeader
	EstimatedDate time.Time  `json:"estimatedDate"`
	EstimatedDays int        `json:"estimatedDays"`
	RateKgPerWeek Value      `json:"rateKgPerWeek"`
	Confidence    Confidence `json:"confidence"`
}

type TipsCard struct {
	CardHeader
	Category Category `json:"category"`
	Tips     []string `json:"tips"`
}

type PlateauStrategiesCard struct {
	CardHeader
	Severity   Severity `json:"severity"`
	Strategies []string `json:"strategies"`
}

// MilestoneKind distinguishes absolute weight-change milestones from goal progress.
type MilestoneKind string

const (
	MilestoneWeightChange MilestoneKind = "weight_change"
	MilestoneGoalProgress MilestoneKind = "goal_progress"
)

// Milestone is a threshold in kg (weight change) or percent (goal progress).
type Milestone struct {
	Kind      MilestoneKind `json:"kind"`
	Threshold float64       `json:"threshold"`
}

type MilestonesCard struct {
	CardHeader
	Reached []Milestone `json:"reached"`
	Next    *Milestone  `json:"next,omitempty"`
}

type TrendAnalysisCard struct {
	CardHeader
	Trend TrendResult `json:"trend"`
}

type WeeklySummaryCard struct {
	CardHeader
	Entries   int   `json:"entries"`
	StartKg   Value `json:"startKg"`
	EndKg     Value `json:"endKg"`
	ChangeKg  Value `json:"changeKg"`
	AverageKg Value `json:"averageKg"`
}

type GoalProgressCard struct {
	CardHeader
	TargetKg        float64 `json:"targetKg"`
	CurrentKg       Value   `json:"currentKg"`
	RemainingKg     Value   `json:"remainingKg"`
	ProgressPercent Value   `json:"progressPercent"`
	NearComplete    bool    `json:"nearComplete"`
}
