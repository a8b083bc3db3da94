package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fleetware/fleet-mileage/internal/middleware"
	"github.com/fleetware/fleet-mileage/internal/models"
)

// MockTripCollection is a mock implementation of db.TripCollection
type MockTripCollection struct {
	mock.Mock
}

func (m *MockTripCollection) InsertTrip(ctx context.Context, trip models.TripRecord) (string, error) {
	args := m.Called(ctx, trip)
	return args.String(0), args.Error(1)
}

func (m *MockTripCollection) FindTripByID(ctx context.Context, id string) (*models.TripRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TripRecord), args.Error(1)
}

func (m *MockTripCollection) FindTripsByVehicle(ctx context.Context, companyID, vehicleID string) ([]models.TripRecord, error) {
	args := m.Called(ctx, companyID, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TripRecord), args.Error(1)
}

func (m *MockTripCollection) FindTripsByCompany(ctx context.Context, companyID string) ([]models.TripRecord, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TripRecord), args.Error(1)
}

func (m *MockTripCollection) FindPrecedingTrip(ctx context.Context, companyID, vehicleID string, before time.Time, excludeID string) (*models.TripRecord, error) {
	args := m.Called(ctx, companyID, vehicleID, before, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TripRecord), args.Error(1)
}

func (m *MockTripCollection) UpdateTrip(ctx context.Context, id string, trip models.TripRecord) error {
	args := m.Called(ctx, id, trip)
	return args.Error(0)
}

func (m *MockTripCollection) DeleteTrip(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVehicleCollection is a mock implementation of db.VehicleCollection
type MockVehicleCollection struct {
	mock.Mock
}

func (m *MockVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error) {
	args := m.Called(ctx, vehicle)
	return args.String(0), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) FindVehiclesByCompany(ctx context.Context, companyID string) ([]models.Vehicle, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error {
	args := m.Called(ctx, id, vehicle)
	return args.Error(0)
}

func (m *MockVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockExpenseCollection is a mock implementation of db.ExpenseCollection
type MockExpenseCollection struct {
	mock.Mock
}

func (m *MockExpenseCollection) InsertExpense(ctx context.Context, expense models.ExpenseRecord) (string, error) {
	args := m.Called(ctx, expense)
	return args.String(0), args.Error(1)
}

func (m *MockExpenseCollection) FindExpenses(ctx context.Context, companyID, vehicleID string) ([]models.ExpenseRecord, error) {
	args := m.Called(ctx, companyID, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExpenseRecord), args.Error(1)
}

func (m *MockExpenseCollection) DeleteExpense(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAcknowledgementCollection is a mock implementation of
// db.AcknowledgementCollection
type MockAcknowledgementCollection struct {
	mock.Mock
}

func (m *MockAcknowledgementCollection) UpsertAcknowledgement(ctx context.Context, ack models.AcknowledgementRecord) error {
	args := m.Called(ctx, ack)
	return args.Error(0)
}

func (m *MockAcknowledgementCollection) FindAcknowledgement(ctx context.Context, gapID string) (*models.AcknowledgementRecord, error) {
	args := m.Called(ctx, gapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AcknowledgementRecord), args.Error(1)
}

// authenticated injects claims the way the auth middleware would.
func authenticated(req *http.Request, role models.Role) *http.Request {
	claims := &models.Claims{
		UserID:    "user-1",
		Username:  "testuser",
		Role:      role,
		CompanyID: "co-1",
	}
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, claims)
	return req.WithContext(ctx)
}
