package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripRecord represents one vehicle usage event captured by an operator:
// a date, a start and end odometer reading, and the cash taken in.
type TripRecord struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CompanyID    string             `json:"company_id" bson:"company_id"`
	VehicleID    string             `json:"vehicle_id" bson:"vehicle_id"`
	DriverID     string             `json:"driver_id" bson:"driver_id"`
	Date         time.Time          `json:"date" bson:"date"`
	StartMileage float64            `json:"start_mileage" bson:"start_mileage"` // in kilometers
	EndMileage   float64            `json:"end_mileage" bson:"end_mileage"`     // in kilometers
	CashIn       float64            `json:"cash_in" bson:"cash_in"`             // in USD
	Notes        string             `json:"notes" bson:"notes"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// DistanceTraveled returns the odometer delta for the trip. It is always
// derived from the stored readings so a mileage edit can never leave a stale
// distance behind.
func (t *TripRecord) DistanceTraveled() float64 {
	return t.EndMileage - t.StartMileage
}
