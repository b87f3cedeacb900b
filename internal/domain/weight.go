package domain

import (
	"context"
	"time"
)

// WeightRecord is a single weigh-in, always stored in kilograms.
type WeightRecord struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userId"`
	ValueKg  float64   `json:"valueKg"`
	Date     time.Time `json:"date"`
	Note     string    `json:"note,omitempty"`
	PhotoRef string    `json:"photoRef,omitempty"`
}

// Day returns the local calendar day of the record.
func (r WeightRecord) Day() string {
	return r.Date.In(time.Local).Format(DayLayout)
}

// WeightRepository is the port for weight persistence.
type WeightRepository interface {
	AddWeight(ctx context.Context, rec WeightRecord) (int64, error)
	DeleteLatestWeight(ctx context.Context, userID int64) (bool, error)
	LatestWeightForLocalDay(ctx context.Context, userID int64, localDay string) (*WeightRecord, error)
	ListRecentWeights(ctx context.Context, userID int64, limit int) ([]WeightRecord, error)
	// ListWeights returns the full history in ascending date order.
	ListWeights(ctx context.Context, userID int64) ([]WeightRecord, error)
}
