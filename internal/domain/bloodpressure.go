package domain

import (
	"context"
	"time"
)

// BloodPressureReading is a single cuff reading in mmHg. Pulse is zero when
// the device did not report it.
type BloodPressureReading struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Systolic  int       `json:"systolic"`
	Diastolic int       `json:"diastolic"`
	Pulse     int       `json:"pulse,omitempty"`
	Date      time.Time `json:"date"`
}

// BloodPressureRepository is the port for blood-pressure persistence.
type BloodPressureRepository interface {
	AddBloodPressure(ctx context.Context, r BloodPressureReading) (int64, error)
	ListBloodPressure(ctx context.Context, userID int64) ([]BloodPressureReading, error)
}
