package analytics

import (
	"gonum.org/v1/gonum/stat"

	"bodymetrics/internal/domain"
)

// BPNoiseThreshold is the weekly change (mmHg/week) below which blood pressure is flat.
const BPNoiseThreshold = 1.0

// BPCategory is a guideline-specific blood-pressure class.
type BPCategory string

const (
	// US_AHA (2017 ACC/AHA)
	BPNormal   BPCategory = "normal"
	BPElevated BPCategory = "elevated"
	BPStage1   BPCategory = "stage_1"
	BPStage2   BPCategory = "stage_2"
	BPCrisis   BPCategory = "crisis"

	// EU_ESC (2018 ESC/ESH). "normal" is shared with the US table.
	BPOptimal    BPCategory = "optimal"
	BPHighNormal BPCategory = "high_normal"
	BPGrade1     BPCategory = "grade_1"
	BPGrade2     BPCategory = "grade_2"
	BPGrade3     BPCategory = "grade_3"
)

// bpBand matches a reading when systolic >= MinSystolic or diastolic >= MinDiastolic.
type bpBand struct {
	Category     BPCategory
	MinSystolic  int
	MinDiastolic int
	High         bool
}

// bpGuidelines lists bands from most to least severe; the last band catches
// everything else. Keep it ordered explicitly, never by category name.
var bpGuidelines = map[domain.MedicalGuidelines][]bpBand{
	domain.GuidelinesUSAHA: {
		{Category: BPCrisis, MinSystolic: 181, MinDiastolic: 121, High: true},
		{Category: BPStage2, MinSystolic: 140, MinDiastolic: 90, High: true},
		{Category: BPStage1, MinSystolic: 130, MinDiastolic: 80, High: true},
		{Category: BPElevated, MinSystolic: 120, MinDiastolic: 1 << 30},
		{Category: BPNormal},
	},
	domain.GuidelinesEUESC: {
		{Category: BPGrade3, MinSystolic: 180, MinDiastolic: 110, High: true},
		{Category: BPGrade2, MinSystolic: 160, MinDiastolic: 100, High: true},
		{Category: BPGrade1, MinSystolic: 140, MinDiastolic: 90, High: true},
		{Category: BPHighNormal, MinSystolic: 130, MinDiastolic: 85},
		{Category: BPNormal, MinSystolic: 120, MinDiastolic: 80},
		{Category: BPOptimal},
	},
}

func bandsFor(g domain.MedicalGuidelines) []bpBand {
	if bands, ok := bpGuidelines[g]; ok {
		return bands
	}
	return bpGuidelines[domain.GuidelinesUSAHA]
}

// ClassifyBloodPressure returns the category of one reading and whether it
// counts as high under guideline g. Unknown guidelines fall back to US_AHA.
func ClassifyBloodPressure(systolic, diastolic int, g domain.MedicalGuidelines) (BPCategory, bool) {
	bands := bandsFor(g)
	for _, b := range bands[:len(bands)-1] {
		if systolic >= b.MinSystolic || diastolic >= b.MinDiastolic {
			return b.Category, b.High
		}
	}
	last := bands[len(bands)-1]
	return last.Category, last.High
}

// CategoryCount is one row of a category breakdown.
type CategoryCount struct {
	Category BPCategory `json:"category"`
	Count    int        `json:"count"`
}

// BloodPressureAnalysis summarises a user's cuff readings.
type BloodPressureAnalysis struct {
	Guidelines       domain.MedicalGuidelines `json:"guidelines"`
	Readings         int                      `json:"readings"`
	AverageSystolic  Value                    `json:"averageSystolic"`
	AverageDiastolic Value                    `json:"averageDiastolic"`
	AveragePulse     Value                    `json:"averagePulse"`
	SystolicTrend    SeriesTrend              `json:"systolicTrend"`
	DiastolicTrend   SeriesTrend              `json:"diastolicTrend"`
	HighReadings     int                      `json:"highReadings"`
	LatestCategory   BPCategory               `json:"latestCategory,omitempty"`
	Categories       []CategoryCount          `json:"categories"`
}

// AnalyzeBloodPressure aggregates readings under guideline g.
func AnalyzeBloodPressure(readings []domain.BloodPressureReading, g domain.MedicalGuidelines) BloodPressureAnalysis {
	bands := bandsFor(g)
	if _, ok := bpGuidelines[g]; !ok {
		g = domain.GuidelinesUSAHA
	}
	a := BloodPressureAnalysis{
		Guidelines:       g,
		AverageSystolic:  Unavailable(ReasonInsufficientData),
		AverageDiastolic: Unavailable(ReasonInsufficientData),
		AveragePulse:     Unavailable(ReasonInsufficientData),
		SystolicTrend:    SeriesTrend{Direction: DirectionFlat, RatePerWeek: Unavailable(ReasonInsufficientData)},
		DiastolicTrend:   SeriesTrend{Direction: DirectionFlat, RatePerWeek: Unavailable(ReasonInsufficientData)},
	}

	counts := make(map[BPCategory]int, len(bands))
	var sys, dia, pulse []float64
	var sysPts, diaPts []Point
	for _, r := range domain.SortBloodPressure(readings) {
		if r.Systolic <= 0 || r.Diastolic <= 0 {
			continue
		}
		cat, high := ClassifyBloodPressure(r.Systolic, r.Diastolic, g)
		counts[cat]++
		if high {
			a.HighReadings++
		}
		a.LatestCategory = cat
		sys = append(sys, float64(r.Systolic))
		dia = append(dia, float64(r.Diastolic))
		if r.Pulse > 0 {
			pulse = append(pulse, float64(r.Pulse))
		}
		sysPts = appendDaily(sysPts, r.Date, float64(r.Systolic))
		diaPts = appendDaily(diaPts, r.Date, float64(r.Diastolic))
	}
	a.Readings = len(sys)

	if len(sys) > 0 {
		a.AverageSystolic = Of(stat.Mean(sys, nil))
		a.AverageDiastolic = Of(stat.Mean(dia, nil))
		a.SystolicTrend = ClassifySeries(sysPts, MonthlyWindowDays, BPNoiseThreshold)
		a.DiastolicTrend = ClassifySeries(diaPts, MonthlyWindowDays, BPNoiseThreshold)
	}
	if len(pulse) > 0 {
		a.AveragePulse = Of(stat.Mean(pulse, nil))
	}

	// Least severe first, matching how the breakdown is displayed.
	a.Categories = make([]CategoryCount, 0, len(bands))
	for i := len(bands) - 1; i >= 0; i-- {
		a.Categories = append(a.Categories, CategoryCount{Category: bands[i].Category, Count: counts[bands[i].Category]})
	}
	return a
}
