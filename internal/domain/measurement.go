package domain

import (
	"context"
	"time"
)

// MeasurementType identifies a body circumference site.
type MeasurementType string

const (
	MeasurementWaist MeasurementType = "waist"
	MeasurementChest MeasurementType = "chest"
	MeasurementHips  MeasurementType = "hips"
	MeasurementNeck  MeasurementType = "neck"
	MeasurementArm   MeasurementType = "arm"
	MeasurementThigh MeasurementType = "thigh"
)

// MeasurementTypes lists the known measurement sites in display order.
var MeasurementTypes = []MeasurementType{
	MeasurementWaist, MeasurementChest, MeasurementHips,
	MeasurementNeck, MeasurementArm, MeasurementThigh,
}

// Valid reports whether t is a known measurement site.
func (t MeasurementType) Valid() bool {
	for _, k := range MeasurementTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Side distinguishes left/right limb measurements. Empty for trunk sites.
type Side string

const (
	SideNone  Side = ""
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// MeasurementRecord is a single circumference measurement in centimetres.
type MeasurementRecord struct {
	ID      int64           `json:"id"`
	UserID  int64           `json:"userId"`
	Type    MeasurementType `json:"type"`
	ValueCm float64         `json:"valueCm"`
	Date    time.Time       `json:"date"`
	Side    Side            `json:"side,omitempty"`
}

// MeasurementRepository is the port for circumference persistence.
type MeasurementRepository interface {
	AddMeasurement(ctx context.Context, rec MeasurementRecord) (int64, error)
	ListRecentMeasurements(ctx context.Context, userID int64, limit int) ([]MeasurementRecord, error)
	// ListMeasurements returns the full history in ascending date order.
	ListMeasurements(ctx context.Context, userID int64) ([]MeasurementRecord, error)
}
