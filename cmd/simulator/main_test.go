package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNextTrip_AdvancesOdometerAndCalendar(t *testing.T) {
	state := &VehicleState{
		VehicleID: "veh-1",
		Odometer:  10000,
		NextDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	for i := 0; i < 50; i++ {
		before := state.Odometer
		beforeDate := state.NextDate

		capture := nextTrip(state, "demo-company")

		if capture.VehicleID != "veh-1" {
			t.Fatalf("Expected vehicle ID 'veh-1', got %s", capture.VehicleID)
		}
		if capture.CompanyID != "demo-company" {
			t.Fatalf("Expected company ID 'demo-company', got %s", capture.CompanyID)
		}
		if capture.StartMileage < before {
			t.Errorf("Start mileage %f regressed below previous odometer %f", capture.StartMileage, before)
		}
		if capture.EndMileage <= capture.StartMileage {
			t.Errorf("End mileage %f not beyond start %f", capture.EndMileage, capture.StartMileage)
		}
		if state.Odometer != capture.EndMileage {
			t.Errorf("Odometer %f not advanced to trip end %f", state.Odometer, capture.EndMileage)
		}
		if !state.NextDate.After(beforeDate) {
			t.Errorf("Next trip date %v did not advance past %v", state.NextDate, beforeDate)
		}
		if capture.CashIn <= 0 {
			t.Errorf("Expected positive cash in, got %f", capture.CashIn)
		}
	}
}

func TestNextTrip_SometimesLeavesGaps(t *testing.T) {
	state := &VehicleState{
		VehicleID: "veh-1",
		Odometer:  10000,
		NextDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	gapCount := 0
	for i := 0; i < 500; i++ {
		before := state.Odometer
		capture := nextTrip(state, "demo-company")
		if capture.StartMileage > before {
			gapCount++
		}
	}

	// Roughly 15% of trips should start past the previous end reading.
	if gapCount == 0 {
		t.Error("Expected some trips to leave unaccounted mileage, got none")
	}
	if gapCount > 250 {
		t.Errorf("Too many gap trips: %d out of 500", gapCount)
	}
}

func TestCreateVehicle_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/vehicles" {
			t.Errorf("Expected path /vehicles, got %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}
		var vehicle Vehicle
		if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
			t.Errorf("Failed to decode vehicle payload: %v", err)
		}
		if vehicle.Registration == "" {
			t.Error("Expected a registration in the payload")
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "vehicle-id"})
	}))
	defer server.Close()

	id, err := createVehicle(server.URL, 0)
	if err != nil {
		t.Fatalf("Expected creation to succeed, got error: %v", err)
	}
	if id != "vehicle-id" {
		t.Errorf("Expected vehicle ID 'vehicle-id', got %s", id)
	}
}

func TestCreateVehicle_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := createVehicle(server.URL, 0); err == nil {
		t.Error("Expected error for server failure, got nil")
	}
}

func TestCreateVehicle_NetworkError(t *testing.T) {
	if _, err := createVehicle("http://127.0.0.1:1", 0); err == nil {
		t.Error("Expected error for unreachable API, got nil")
	}
}
