package analytics

import (
	"math"
	"time"

	"bodymetrics/internal/domain"
)

// Point is one dated observation of a numeric series.
type Point struct {
	Date  time.Time
	Value float64
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, rounding to absorb DST shifts.
func daysBetween(a, b time.Time) int {
	return int(math.Round(startOfDay(b).Sub(startOfDay(a)).Hours() / 24))
}

// DailyWeights collapses records to one point per calendar day, keeping the
// latest reading of each day. Invalid (non-positive) weights are skipped.
func DailyWeights(recs []domain.WeightRecord) []Point {
	sorted := domain.SortWeights(recs)
	out := make([]Point, 0, len(sorted))
	for _, r := range sorted {
		if r.ValueKg <= 0 || math.IsNaN(r.ValueKg) || math.IsInf(r.ValueKg, 0) {
			continue
		}
		out = appendDaily(out, r.Date, r.ValueKg)
	}
	return out
}

// appendDaily adds a point, replacing the previous one when it falls on the same day.
func appendDaily(points []Point, t time.Time, v float64) []Point {
	day := startOfDay(t)
	if n := len(points); n > 0 && points[n-1].Date.Equal(day) {
		points[n-1].Value = v
		return points
	}
	return append(points, Point{Date: day, Value: v})
}

// lastDays returns the suffix of points dated within days of the last point.
func lastDays(points []Point, days int) []Point {
	if len(points) == 0 {
		return nil
	}
	last := points[len(points)-1].Date
	i := len(points)
	for i > 0 && daysBetween(points[i-1].Date, last) <= days {
		i--
	}
	return points[i:]
}

// lastN returns at most n trailing points.
func lastN(points []Point, n int) []Point {
	if n <= 0 || len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}

func valueRange(points []Point) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	return lo, hi
}
