package domain

import (
	"context"
	"time"
)

// ActivityLevel is the user's self-reported training volume.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityActive           ActivityLevel = "active"
	ActivityAthletic         ActivityLevel = "athletic"
	ActivityEnduranceAthlete ActivityLevel = "endurance_athlete"
)

// activityLevelInfo is one row of the activity lookup table.
type activityLevelInfo struct {
	Rank              int
	BMIBonusThreshold float64
}

// activityLevels is the single source of truth for ordering and BMI bonus.
// Rank and bonus are explicit so the mapping never depends on declaration order.
var activityLevels = map[ActivityLevel]activityLevelInfo{
	ActivitySedentary:        {Rank: 0, BMIBonusThreshold: 0},
	ActivityActive:           {Rank: 1, BMIBonusThreshold: 1},
	ActivityAthletic:         {Rank: 2, BMIBonusThreshold: 2},
	ActivityEnduranceAthlete: {Rank: 3, BMIBonusThreshold: 3},
}

// Valid reports whether a is a known activity level.
func (a ActivityLevel) Valid() bool {
	_, ok := activityLevels[a]
	return ok
}

// Rank orders activity levels; unknown levels rank as sedentary.
func (a ActivityLevel) Rank() int {
	return activityLevels[a].Rank
}

// BMIBonusThreshold is how many BMI units the healthy upper bound is raised.
func (a ActivityLevel) BMIBonusThreshold() float64 {
	return activityLevels[a].BMIBonusThreshold
}

// AtLeast reports whether a ranks at or above other.
func (a ActivityLevel) AtLeast(other ActivityLevel) bool {
	return a.Rank() >= other.Rank()
}

// Gender is optional and only used for display and future sex-specific bands.
type Gender string

const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderOther       Gender = "other"
)

// MeasurementSystem is the user's preferred display unit system.
type MeasurementSystem string

const (
	SystemMetric   MeasurementSystem = "metric"
	SystemImperial MeasurementSystem = "imperial"
)

// MedicalGuidelines selects the blood-pressure classification table.
type MedicalGuidelines string

const (
	GuidelinesUSAHA MedicalGuidelines = "us_aha"
	GuidelinesEUESC MedicalGuidelines = "eu_esc"
)

// UserProfile is the static health profile consumed by the analytics engine.
type UserProfile struct {
	UserID            int64             `json:"userId"`
	HeightCm          float64           `json:"heightCm"`
	BirthDate         *time.Time        `json:"birthDate,omitempty"`
	Gender            Gender            `json:"gender,omitempty"`
	ActivityLevel     ActivityLevel     `json:"activityLevel"`
	MeasurementSystem MeasurementSystem `json:"measurementSystem"`
	MedicalGuidelines MedicalGuidelines `json:"medicalGuidelines"`
	TargetWeightKg    *float64          `json:"targetWeightKg,omitempty"`
	TargetWaistCm     *float64          `json:"targetWaistCm,omitempty"`
}

// AgeOn returns the age in whole years on day t, or nil without a birth date.
func (p UserProfile) AgeOn(t time.Time) *int {
	if p.BirthDate == nil {
		return nil
	}
	b := *p.BirthDate
	age := t.Year() - b.Year()
	if t.Before(b.AddDate(age, 0, 0)) {
		age--
	}
	if age < 0 {
		return nil
	}
	return &age
}

// ProfileRepository is the port for profile persistence.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID int64) (*UserProfile, error)
	SaveProfile(ctx context.Context, p UserProfile) error
}
