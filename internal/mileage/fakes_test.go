package mileage

import (
	"context"
	"errors"
	"time"

	"github.com/fleetware/fleet-mileage/internal/models"
)

// fakeTripStore is an in-memory db.TripCollection for engine tests.
type fakeTripStore struct {
	trips map[string][]models.TripRecord // keyed by vehicle id
	err   error                          // returned by every read when set
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: make(map[string][]models.TripRecord)}
}

func (f *fakeTripStore) add(trip models.TripRecord) {
	f.trips[trip.VehicleID] = append(f.trips[trip.VehicleID], trip)
}

func (f *fakeTripStore) InsertTrip(ctx context.Context, trip models.TripRecord) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.add(trip)
	return trip.ID.Hex(), nil
}

func (f *fakeTripStore) FindTripByID(ctx context.Context, id string) (*models.TripRecord, error) {
	for _, trips := range f.trips {
		for _, t := range trips {
			if t.ID.Hex() == id {
				return &t, nil
			}
		}
	}
	return nil, errors.New("trip not found")
}

func (f *fakeTripStore) FindTripsByVehicle(ctx context.Context, companyID, vehicleID string) ([]models.TripRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.trips[vehicleID], nil
}

func (f *fakeTripStore) FindTripsByCompany(ctx context.Context, companyID string) ([]models.TripRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var all []models.TripRecord
	for _, trips := range f.trips {
		all = append(all, trips...)
	}
	return all, nil
}

func (f *fakeTripStore) FindPrecedingTrip(ctx context.Context, companyID, vehicleID string, before time.Time, excludeID string) (*models.TripRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var best *models.TripRecord
	for _, t := range f.trips[vehicleID] {
		if excludeID != "" && t.ID.Hex() == excludeID {
			continue
		}
		if !t.Date.Before(before) {
			continue
		}
		if best == nil || t.Date.After(best.Date) {
			candidate := t
			best = &candidate
		}
	}
	return best, nil
}

func (f *fakeTripStore) UpdateTrip(ctx context.Context, id string, trip models.TripRecord) error {
	return f.err
}

func (f *fakeTripStore) DeleteTrip(ctx context.Context, id string) error {
	return f.err
}

// fakeVehicleStore is an in-memory db.VehicleCollection.
type fakeVehicleStore struct {
	vehicles []models.Vehicle
	err      error
}

func (f *fakeVehicleStore) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.vehicles = append(f.vehicles, vehicle)
	return vehicle.ID.Hex(), nil
}

func (f *fakeVehicleStore) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	for _, v := range f.vehicles {
		if v.ID.Hex() == id {
			return &v, nil
		}
	}
	return nil, errors.New("vehicle not found")
}

func (f *fakeVehicleStore) FindVehiclesByCompany(ctx context.Context, companyID string) ([]models.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vehicles, nil
}

func (f *fakeVehicleStore) UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error {
	return f.err
}

func (f *fakeVehicleStore) DeleteVehicle(ctx context.Context, id string) error {
	return f.err
}

// fakeAckStore is an in-memory db.AcknowledgementCollection.
type fakeAckStore struct {
	acks    map[string]models.AcknowledgementRecord
	findErr error
}

func newFakeAckStore() *fakeAckStore {
	return &fakeAckStore{acks: make(map[string]models.AcknowledgementRecord)}
}

func (f *fakeAckStore) UpsertAcknowledgement(ctx context.Context, ack models.AcknowledgementRecord) error {
	f.acks[ack.GapID] = ack
	return nil
}

func (f *fakeAckStore) FindAcknowledgement(ctx context.Context, gapID string) (*models.AcknowledgementRecord, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	ack, ok := f.acks[gapID]
	if !ok {
		return nil, nil
	}
	return &ack, nil
}
