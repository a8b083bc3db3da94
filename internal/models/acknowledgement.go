package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AcknowledgementRecord marks that a manager has reviewed a specific mileage
// gap. It is keyed by the gap's composite identity; acknowledging the same
// gap twice overwrites the entry (last write wins).
type AcknowledgementRecord struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	GapID          string             `json:"gap_id" bson:"gap_id"`
	CompanyID      string             `json:"company_id" bson:"company_id"`
	ReviewerID     string             `json:"reviewer_id" bson:"reviewer_id"`
	Note           string             `json:"note" bson:"note"`
	AcknowledgedAt time.Time          `json:"acknowledged_at" bson:"acknowledged_at"`
}
