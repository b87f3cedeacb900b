package analytics

import (
	"slices"
	"time"

	"bodymetrics/internal/domain"
)

// Plateau defaults. Durations are inclusive calendar days.
const (
	DefaultPlateauWindowEntries = 14
	DefaultPlateauWindowDays    = 14
	// DefaultPlateauEpsilon is the largest max−min spread (kg) still counted as flat.
	DefaultPlateauEpsilon = 0.5

	PlateauMinPoints       = 3
	PlateauMildMaxDays     = 14
	PlateauModerateMaxDays = 21
)

// Severity grades how long weight has been flat.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityMild:     1,
	SeverityModerate: 2,
	SeveritySevere:   3,
}

// AtLeast reports whether s is as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

type plateauAdvice struct {
	action        string
	encouragement string
	strategies    []string
}

var plateauAdviceBySeverity = map[Severity]plateauAdvice{
	SeverityNone: {
		action:        "Keep logging consistently.",
		encouragement: "Your weight is still moving.",
	},
	SeverityMild: {
		action:        "Double-check portion sizes and keep logging every day.",
		encouragement: "Short stalls are normal. Water and glycogen shifts can hide fat loss for a week or two.",
		strategies: []string{
			"Weigh yourself at the same time each morning",
			"Track food for a full week without gaps",
			"Add a short walk after meals",
		},
	},
	SeverityModerate: {
		action:        "Recalculate your calorie target for your current weight.",
		encouragement: "You have held your progress steady. A small adjustment is usually enough to restart it.",
		strategies: []string{
			"Reduce daily intake by 100 to 200 kcal",
			"Increase daily steps by 2,000",
			"Raise protein intake to preserve muscle",
			"Check that sleep averages at least seven hours",
		},
	},
	SeveritySevere: {
		action:        "Change your routine: adjust intake, training and recovery together.",
		encouragement: "Long plateaus happen to everyone. Your body has adapted, so give it a new stimulus.",
		strategies: []string{
			"Take a one- to two-week diet break at maintenance calories",
			"Switch training style, for example add resistance training",
			"Review weekend eating patterns",
			"Track waist measurements, which may be improving while weight is flat",
			"Consider talking to a dietitian",
		},
	},
}

// PlateauStatus describes the current stagnation, if any.
type PlateauStatus struct {
	Severity      Severity   `json:"severity"`
	DurationDays  int        `json:"durationDays"`
	Since         *time.Time `json:"since,omitempty"`
	RangeKg       Value      `json:"rangeKg"`
	PrimaryAction string     `json:"primaryAction"`
	Encouragement string     `json:"encouragement"`
	Strategies    []string   `json:"strategies,omitempty"`
	Reason        Reason     `json:"reason,omitempty"`
}

// PlateauOption configures a PlateauDetector.
type PlateauOption func(*plateauConfig)

type plateauConfig struct {
	windowEntries int
	windowDays    int
	epsilon       float64
}

// WithPlateauWindow sets the detection window. Zero disables a bound; when both
// are set the smaller resulting set is used.
func WithPlateauWindow(entries, days int) PlateauOption {
	return func(c *plateauConfig) {
		c.windowEntries = entries
		c.windowDays = days
	}
}

// WithPlateauEpsilon sets the flat spread in kg.
func WithPlateauEpsilon(kg float64) PlateauOption {
	return func(c *plateauConfig) { c.epsilon = kg }
}

// PlateauDetector classifies weight stagnation.
type PlateauDetector struct {
	cfg plateauConfig
}

// NewPlateauDetector creates a PlateauDetector with defaults overridden by opts.
func NewPlateauDetector(opts ...PlateauOption) *PlateauDetector {
	cfg := plateauConfig{
		windowEntries: DefaultPlateauWindowEntries,
		windowDays:    DefaultPlateauWindowDays,
		epsilon:       DefaultPlateauEpsilon,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &PlateauDetector{cfg: cfg}
}

// Detect reports the plateau ending at the latest record.
func (d *PlateauDetector) Detect(recs []domain.WeightRecord) PlateauStatus {
	points := DailyWeights(recs)
	window := d.window(points)
	if len(window) < PlateauMinPoints {
		return plateauStatus(SeverityNone, 0, nil, Unavailable(ReasonInsufficientData), ReasonInsufficientData)
	}

	lo, hi := valueRange(window)
	if hi-lo > d.cfg.epsilon {
		return plateauStatus(SeverityNone, 0, nil, Of(hi-lo), ReasonNone)
	}

	// Extend the plateau back through history while it stays flat.
	start := len(points) - len(window)
	for start > 0 {
		v := points[start-1].Value
		nlo, nhi := min(lo, v), max(hi, v)
		if nhi-nlo > d.cfg.epsilon {
			break
		}
		lo, hi = nlo, nhi
		start--
	}

	since := points[start].Date
	duration := daysBetween(since, points[len(points)-1].Date) + 1
	return plateauStatus(severityFor(duration), duration, &since, Of(hi-lo), ReasonNone)
}

func (d *PlateauDetector) window(points []Point) []Point {
	w := points
	if d.cfg.windowEntries > 0 {
		w = lastN(w, d.cfg.windowEntries)
	}
	if d.cfg.windowDays > 0 {
		byDays := lastDays(points, d.cfg.windowDays)
		if len(byDays) < len(w) {
			w = byDays
		}
	}
	return w
}

// severityFor grades a plateau whose flat condition already holds, so the
// result is never SeverityNone.
func severityFor(durationDays int) Severity {
	switch {
	case durationDays <= PlateauMildMaxDays:
		return SeverityMild
	case durationDays <= PlateauModerateMaxDays:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

func plateauStatus(s Severity, duration int, since *time.Time, spread Value, reason Reason) PlateauStatus {
	advice := plateauAdviceBySeverity[s]
	st := PlateauStatus{
		Severity:      s,
		RangeKg:       spread,
		PrimaryAction: advice.action,
		Encouragement: advice.encouragement,
		Strategies:    slices.Clone(advice.strategies),
		Reason:        reason,
	}
	if s != SeverityNone {
		st.DurationDays = duration
		st.Since = since
	}
	return st
}
