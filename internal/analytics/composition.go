package analytics

import "bodymetrics/internal/domain"

// WHO adult BMI boundaries before the activity bonus is applied.
const (
	BMIUnderweightMax = 18.5
	BMIHealthyMax     = 25.0
	BMIObeseMin       = 30.0

	// WaistPromptBMI is the BMI above which a missing waist measurement is requested.
	WaistPromptBMI = 25.0
	// AdultMinAge is the youngest age adult BMI bands apply to.
	AdultMinAge = 18
)

// PrimaryMetric names the metric a display surface should lead with.
type PrimaryMetric string

const (
	PrimaryBMI  PrimaryMetric = "bmi"
	PrimaryWHtR PrimaryMetric = "whtr"
	PrimaryBRI  PrimaryMetric = "bri"
)

// Category is the body-composition label.
type Category string

const (
	CategoryUnderweight   Category = "underweight"
	CategoryHealthy       Category = "healthy"
	CategoryAthleticBuild Category = "athletic_build"
	CategoryOverweight    Category = "overweight"
	CategoryObese         Category = "obese"
	CategoryUnclassified  Category = "unclassified"
)

// HealthRisk is the coarse risk tier.
type HealthRisk string

const (
	RiskVeryLow  HealthRisk = "very_low"
	RiskLow      HealthRisk = "low"
	RiskModerate HealthRisk = "moderate"
	RiskHigh     HealthRisk = "high"
	RiskUnknown  HealthRisk = "unknown"
)

var riskRank = map[HealthRisk]int{
	RiskVeryLow:  0,
	RiskLow:      1,
	RiskModerate: 2,
	RiskHigh:     3,
}

func worseRisk(a, b HealthRisk) HealthRisk {
	if riskRank[b] > riskRank[a] {
		return b
	}
	return a
}

// AssessmentInput carries one point-in-time body snapshot.
type AssessmentInput struct {
	WeightKg float64
	HeightCm float64
	WaistCm  *float64
	HipCm    *float64
	Activity domain.ActivityLevel
	Age      *int
	Gender   domain.Gender
}

// Assessment is the body-composition result for one snapshot.
type Assessment struct {
	BMI            Value         `json:"bmi"`
	WHtR           Value         `json:"whtr"`
	BRI            Value         `json:"bri"`
	BRIBand        BRIBand       `json:"briBand,omitempty"`
	PrimaryMetric  PrimaryMetric `json:"primaryMetric"`
	Category       Category      `json:"category"`
	HealthRisk     HealthRisk    `json:"healthRisk"`
	Recommendation string        `json:"recommendation"`
	WaistMissing   bool          `json:"waistMissing"`
}

// Assess classifies one body snapshot.
func Assess(in AssessmentInput) Assessment {
	a := Assessment{
		BMI:           BMI(in.WeightKg, in.HeightCm),
		WHtR:          Unavailable(ReasonInsufficientData),
		BRI:           Unavailable(ReasonInsufficientData),
		PrimaryMetric: PrimaryBMI,
		WaistMissing:  in.WaistCm == nil,
	}
	if in.WaistCm != nil {
		a.WHtR = WHtR(*in.WaistCm, in.HeightCm)
		if a.WHtR.Available() {
			a.PrimaryMetric = PrimaryWHtR
		}
		if in.HipCm != nil {
			a.BRI = BRI(*in.WaistCm, in.HeightCm, *in.HipCm)
			if a.BRI.Available() {
				a.BRIBand = BRIBandOf(a.BRI.Value)
			}
		}
	}

	switch {
	case !a.BMI.Available():
		a.Category = CategoryUnclassified
		a.HealthRisk = RiskUnknown
	case in.Age != nil && *in.Age < AdultMinAge:
		a.Category = CategoryUnclassified
		a.HealthRisk = RiskUnknown
	default:
		a.Category = BMICategory(a.BMI.Value, in.Activity)
		if a.Category == CategoryOverweight && WHtRHealthy(a.WHtR) {
			a.Category = CategoryAthleticBuild
		}
		a.HealthRisk = healthRisk(a)
	}
	a.Recommendation = recommendationFor(a.Category, a.HealthRisk, a.WaistMissing, a.BMI.Available())
	return a
}

// BMICategory applies WHO bands with the healthy upper bound raised by the
// activity level's bonus.
func BMICategory(bmi float64, level domain.ActivityLevel) Category {
	healthyMax := BMIHealthyMax + level.BMIBonusThreshold()
	switch {
	case bmi < BMIUnderweightMax:
		return CategoryUnderweight
	case bmi < healthyMax:
		return CategoryHealthy
	case bmi < BMIObeseMin:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// healthRisk prefers body-shape metrics over BMI when they are available.
func healthRisk(a Assessment) HealthRisk {
	shape, ok := shapeRisk(a.WHtR, a.BRI)
	if !ok {
		switch a.Category {
		case CategoryUnderweight, CategoryOverweight:
			return RiskModerate
		case CategoryObese:
			return RiskHigh
		default:
			return RiskLow
		}
	}
	if a.Category == CategoryUnderweight {
		return worseRisk(shape, RiskModerate)
	}
	return shape
}

func shapeRisk(whtr, bri Value) (HealthRisk, bool) {
	var risk HealthRisk
	found := false
	if whtr.Available() {
		found = true
		switch {
		case whtr.Value < WHtRVeryLowMax:
			risk = RiskVeryLow
		case whtr.Value < WHtRHealthyMax:
			risk = RiskLow
		case whtr.Value < WHtRModerateMax:
			risk = RiskModerate
		default:
			risk = RiskHigh
		}
	}
	if bri.Available() {
		var r HealthRisk
		switch BRIBandOf(bri.Value) {
		case BRIBandLow:
			r = RiskLow
		case BRIBandModerate:
			r = RiskModerate
		default:
			r = RiskHigh
		}
		if found {
			risk = worseRisk(risk, r)
		} else {
			risk = r
		}
		found = true
	}
	return risk, found
}

// ShouldPromptWaistMeasurement reports whether a user without a waist
// measurement should be asked for one because BMI alone is unreliable.
func ShouldPromptWaistMeasurement(weightKg, heightCm float64, level domain.ActivityLevel) bool {
	if level.AtLeast(domain.ActivityAthletic) {
		return true
	}
	bmi := BMI(weightKg, heightCm)
	return bmi.Available() && bmi.Value > WaistPromptBMI
}

type recommendationKey struct {
	category     Category
	risk         HealthRisk
	waistMissing bool
}

// anyRisk and anyCategory are wildcards in the recommendation table.
const (
	anyRisk     HealthRisk = ""
	anyCategory Category   = ""
)

var recommendations = map[recommendationKey]string{
	{CategoryUnderweight, anyRisk, true}:  "Your weight is below the healthy range. Talk to a healthcare professional about a nutrition plan that supports gradual gain.",
	{CategoryUnderweight, anyRisk, false}: "Your weight is below the healthy range. Talk to a healthcare professional about a nutrition plan that supports gradual gain.",

	{CategoryHealthy, anyRisk, true}:       "Your BMI is in the healthy range. Adding a waist measurement gives a clearer picture of your body composition.",
	{CategoryHealthy, anyRisk, false}:      "Your measurements are in the healthy range. Keep up your current habits.",
	{CategoryHealthy, RiskModerate, false}: "Your BMI is healthy, but your waist measurement points to some central fat. Regular activity and fewer refined carbohydrates help trim the waistline.",
	{CategoryHealthy, RiskHigh, false}:     "Your BMI is healthy, but your waist measurement indicates increased central fat. Consider discussing cardiometabolic screening with a healthcare professional.",

	{CategoryAthleticBuild, anyRisk, false}: "Your BMI is above the standard range, but your waist-to-height ratio is healthy. This points to muscle mass rather than excess fat.",

	{CategoryOverweight, anyRisk, true}:   "Your BMI is above the healthy range. BMI can overstate risk for muscular builds, so add a waist measurement for a more accurate assessment.",
	{CategoryOverweight, anyRisk, false}:  "Your measurements suggest a moderately increased health risk. A modest calorie deficit and regular activity can bring your waist measurement down.",
	{CategoryOverweight, RiskHigh, false}: "Your waist measurement indicates elevated central fat. Reducing waist circumference should be your first priority.",

	{CategoryObese, anyRisk, true}:  "Your BMI is in the obese range. Add a waist measurement and consider discussing a weight-management plan with a healthcare professional.",
	{CategoryObese, anyRisk, false}: "Your measurements indicate an elevated health risk. A structured weight-management plan with professional support is recommended.",
	{CategoryObese, RiskLow, false}: "Your BMI is in the obese range, yet your waist measurement is healthy. Keep monitoring your waist and discuss your results with a professional.",

	{CategoryUnclassified, anyRisk, true}:  "Adult BMI ranges do not apply under 18. Use age- and sex-specific growth charts with a paediatric professional.",
	{CategoryUnclassified, anyRisk, false}: "Adult BMI ranges do not apply under 18. Use age- and sex-specific growth charts with a paediatric professional.",

	{anyCategory, RiskHigh, false}: "Your waist measurements indicate elevated central fat. Focus on reducing waist circumference through diet and activity.",
	{anyCategory, anyRisk, false}:  "Keep tracking your measurements to follow your progress.",
	{anyCategory, anyRisk, true}:   "Keep tracking your weight and add a waist measurement for a fuller picture.",
}

const invalidInputRecommendation = "Enter a valid height and weight to get a body composition assessment."

func recommendationFor(c Category, r HealthRisk, waistMissing, valid bool) string {
	if !valid {
		return invalidInputRecommendation
	}
	for _, k := range []recommendationKey{
		{c, r, waistMissing},
		{c, anyRisk, waistMissing},
		{anyCategory, r, waistMissing},
		{anyCategory, anyRisk, waistMissing},
	} {
		if msg, ok := recommendations[k]; ok {
			return msg
		}
	}
	return ""
}
