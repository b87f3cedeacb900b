package analytics_test

import (
	"time"

	"bodymetrics/internal/domain"
)

// day0 is a Monday.
var day0 = time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)

// dailyWeights returns one record per consecutive day starting at day0.
func dailyWeights(values ...float64) []domain.WeightRecord {
	recs := make([]domain.WeightRecord, len(values))
	for i, v := range values {
		recs[i] = domain.WeightRecord{ID: int64(i + 1), UserID: 1, ValueKg: v, Date: day0.AddDate(0, 0, i)}
	}
	return recs
}

// flat alternates ±0.2 kg around centre for n days.
func flat(centre float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = centre + 0.2
		} else {
			out[i] = centre - 0.2
		}
	}
	return out
}

func ptr[T any](v T) *T { return &v }
