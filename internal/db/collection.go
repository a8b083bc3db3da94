package db

import (
	"context"
	"time"

	"github.com/fleetware/fleet-mileage/internal/models"
)

// TripCollection defines the interface for trip record operations.
type TripCollection interface {
	InsertTrip(ctx context.Context, trip models.TripRecord) (string, error)
	FindTripByID(ctx context.Context, id string) (*models.TripRecord, error)
	FindTripsByVehicle(ctx context.Context, companyID, vehicleID string) ([]models.TripRecord, error)
	FindTripsByCompany(ctx context.Context, companyID string) ([]models.TripRecord, error)
	// FindPrecedingTrip returns the most recent trip for the vehicle dated
	// strictly before the given date, excluding excludeID (the trip being
	// edited). Returns nil without error when no such trip exists.
	FindPrecedingTrip(ctx context.Context, companyID, vehicleID string, before time.Time, excludeID string) (*models.TripRecord, error)
	UpdateTrip(ctx context.Context, id string, trip models.TripRecord) error
	DeleteTrip(ctx context.Context, id string) error
}

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindVehiclesByCompany(ctx context.Context, companyID string) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}

// ExpenseCollection defines the interface for expense record operations.
type ExpenseCollection interface {
	InsertExpense(ctx context.Context, expense models.ExpenseRecord) (string, error)
	// FindExpenses lists expenses for a company; vehicleID narrows the result
	// to one vehicle when non-empty.
	FindExpenses(ctx context.Context, companyID, vehicleID string) ([]models.ExpenseRecord, error)
	DeleteExpense(ctx context.Context, id string) error
}

// AcknowledgementCollection defines the interface for gap acknowledgement
// storage. Entries are keyed by the gap's composite identity.
type AcknowledgementCollection interface {
	// UpsertAcknowledgement writes the entry for the gap, replacing any
	// existing one (last write wins).
	UpsertAcknowledgement(ctx context.Context, ack models.AcknowledgementRecord) error
	// FindAcknowledgement returns nil without error when the gap has no entry.
	FindAcknowledgement(ctx context.Context, gapID string) (*models.AcknowledgementRecord, error)
}
