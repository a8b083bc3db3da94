package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle represents a registered fleet vehicle.
type Vehicle struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID    string             `bson:"company_id" json:"company_id"`
	Registration string             `bson:"registration" json:"registration"`
	Make         string             `bson:"make" json:"make"`
	Model        string             `bson:"model" json:"model"`
	Year         int                `bson:"year" json:"year"`
	Status       string             `bson:"status" json:"status"` // "active" or "inactive"
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// DisplayName returns the label used when tagging gaps and reports,
// preferring the registration plate over make and model.
func (v *Vehicle) DisplayName() string {
	if v.Registration != "" {
		return v.Registration
	}
	return v.Make + " " + v.Model
}
