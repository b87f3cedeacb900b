package domain

import (
	"cmp"
	"slices"
)

// DayLayout is the calendar-day format used across the service.
const DayLayout = "2006-01-02"

// SortWeights returns a copy of recs in ascending date order, ties broken by ID.
func SortWeights(recs []WeightRecord) []WeightRecord {
	out := slices.Clone(recs)
	slices.SortStableFunc(out, func(a, b WeightRecord) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// SortMeasurements returns a copy of recs in ascending date order, ties broken by ID.
func SortMeasurements(recs []MeasurementRecord) []MeasurementRecord {
	out := slices.Clone(recs)
	slices.SortStableFunc(out, func(a, b MeasurementRecord) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// SortBloodPressure returns a copy of readings in ascending date order, ties broken by ID.
func SortBloodPressure(readings []BloodPressureReading) []BloodPressureReading {
	out := slices.Clone(readings)
	slices.SortStableFunc(out, func(a, b BloodPressureReading) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// LatestMeasurement returns the most recent measurement of type t, or nil.
// recs must already be in ascending order.
func LatestMeasurement(recs []MeasurementRecord, t MeasurementType) *MeasurementRecord {
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].Type == t {
			m := recs[i]
			return &m
		}
	}
	return nil
}
