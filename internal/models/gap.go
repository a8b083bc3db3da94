package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Severity classifies the size of a mileage gap.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities for sorting, highest first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MileageGap is a derived record: a positive, unexplained difference between
// one trip's end odometer reading and the next trip's start reading for the
// same vehicle. Gaps are recomputed from trip pairs on every detection run
// and are never persisted; only their acknowledgements are.
type MileageGap struct {
	PreviousTripID      primitive.ObjectID `json:"previous_trip_id" bson:"previous_trip_id"`
	CurrentTripID       primitive.ObjectID `json:"current_trip_id" bson:"current_trip_id"`
	VehicleID           string             `json:"vehicle_id" bson:"vehicle_id"`
	VehicleName         string             `json:"vehicle_name" bson:"vehicle_name"`
	PreviousEndMileage  float64            `json:"previous_end_mileage" bson:"previous_end_mileage"`
	CurrentStartMileage float64            `json:"current_start_mileage" bson:"current_start_mileage"`
	UnaccountedKm       float64            `json:"unaccounted_km" bson:"unaccounted_km"`
	DaysBetween         int                `json:"days_between" bson:"days_between"`
	PreviousDate        time.Time          `json:"previous_date" bson:"previous_date"`
	CurrentDate         time.Time          `json:"current_date" bson:"current_date"`
	Severity            Severity           `json:"severity" bson:"severity"`
}

// GapID returns the stable composite identity of the gap. Trip edits that do
// not change which two trips are adjacent keep the same identity, so an
// acknowledgement keyed by it stays valid.
func (g *MileageGap) GapID() string {
	return g.PreviousTripID.Hex() + "-" + g.CurrentTripID.Hex()
}

// GapStats summarizes the currently unacknowledged gaps of a company.
type GapStats struct {
	TotalGaps           int     `json:"total_gaps"`
	TotalUnaccountedKm  float64 `json:"total_unaccounted_km"`
	HighSeverityCount   int     `json:"high_severity_count"`
	MediumSeverityCount int     `json:"medium_severity_count"`
	LowSeverityCount    int     `json:"low_severity_count"`
	AffectedVehicles    int     `json:"affected_vehicles"`
	AverageGapSize      float64 `json:"average_gap_size"`
}
