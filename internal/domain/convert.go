package domain

const (
	kgPerLb = 0.45359237
	cmPerIn = 2.54
)

// ConvertWeight converts a weight value between "kg" and "lb".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == "kg" && to == "lb" {
		return v / kgPerLb
	}
	if from == "lb" && to == "kg" {
		return v * kgPerLb
	}
	return v
}

// ConvertLength converts a length value between "cm" and "in".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertLength(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == "cm" && to == "in" {
		return v / cmPerIn
	}
	if from == "in" && to == "cm" {
		return v * cmPerIn
	}
	return v
}

// WeightUnit returns the display weight unit for a measurement system.
func (s MeasurementSystem) WeightUnit() string {
	if s == SystemImperial {
		return "lb"
	}
	return "kg"
}

// LengthUnit returns the display length unit for a measurement system.
func (s MeasurementSystem) LengthUnit() string {
	if s == SystemImperial {
		return "in"
	}
	return "cm"
}
