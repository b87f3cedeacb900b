package analytics

import "math"

// Metric thresholds. Classification always happens in metric units.
const (
	// WHtRHealthyMax is the exclusive upper bound of a healthy waist-to-height ratio.
	WHtRHealthyMax = 0.5
	// WHtRVeryLowMax bounds the very-low risk tier.
	WHtRVeryLowMax = 0.45
	// WHtRModerateMax bounds the moderate risk tier; at or above is high.
	WHtRModerateMax = 0.6

	// BRILowMax is the exclusive upper bound of the low-risk BRI band.
	BRILowMax = 3.0
	// BRIModerateMax is the exclusive upper bound of the moderate BRI band.
	BRIModerateMax = 5.0
)

// BMI returns weight(kg) / height(m)^2.
func BMI(weightKg, heightCm float64) Value {
	if weightKg <= 0 || heightCm <= 0 {
		return Unavailable(ReasonInvalidInput)
	}
	h := heightCm / 100
	return Of(weightKg / (h * h))
}

// WHtR returns the waist-to-height ratio.
func WHtR(waistCm, heightCm float64) Value {
	if waistCm <= 0 {
		return Unavailable(ReasonInsufficientData)
	}
	if heightCm <= 0 {
		return Unavailable(ReasonInvalidInput)
	}
	return Of(waistCm / heightCm)
}

// WHtRHealthy reports whether an available ratio is below WHtRHealthyMax.
func WHtRHealthy(v Value) bool {
	return v.Available() && v.Value < WHtRHealthyMax
}

// BRI returns the body roundness index of Thomas et al. (2013):
//
//	364.2 − 365.5 × sqrt(1 − (waist/2π)² / (height/2)²)
//
// The index only uses waist and height, but it is reported only when a hip
// measurement is present too so that it always accompanies a full trunk set.
func BRI(waistCm, heightCm, hipCm float64) Value {
	if waistCm <= 0 || hipCm <= 0 {
		return Unavailable(ReasonInsufficientData)
	}
	if heightCm <= 0 {
		return Unavailable(ReasonInvalidInput)
	}
	r := waistCm / (2 * math.Pi)
	half := heightCm / 2
	radicand := 1 - (r*r)/(half*half)
	if radicand <= 0 {
		return Unavailable(ReasonInvalidInput)
	}
	return Of(364.2 - 365.5*math.Sqrt(radicand))
}

// BRIBand names the risk band of an available BRI.
type BRIBand string

const (
	BRIBandLow      BRIBand = "low"
	BRIBandModerate BRIBand = "moderate"
	BRIBandElevated BRIBand = "elevated"
)

// BRIBandOf classifies an available BRI value.
func BRIBandOf(bri float64) BRIBand {
	switch {
	case bri < BRILowMax:
		return BRIBandLow
	case bri < BRIModerateMax:
		return BRIBandModerate
	default:
		return BRIBandElevated
	}
}
