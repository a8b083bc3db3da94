package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpenseRecord represents a fleet expense entry.
type ExpenseRecord struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CompanyID string             `json:"company_id" bson:"company_id"`
	VehicleID string             `json:"vehicle_id" bson:"vehicle_id"`
	Category  string             `json:"category" bson:"category"` // "fuel", "maintenance", "insurance", "tolls", "parking", "other"
	Amount    float64            `json:"amount" bson:"amount"`     // in USD
	Date      time.Time          `json:"date" bson:"date"`
	Notes     string             `json:"notes" bson:"notes"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
