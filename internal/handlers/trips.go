package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/fleetware/fleet-mileage/internal/db"
	"github.com/fleetware/fleet-mileage/internal/mileage"
	"github.com/fleetware/fleet-mileage/internal/models"
)

// TripHandler handles trip capture, editing and live mileage checks.
type TripHandler struct {
	trips     db.TripCollection
	validator *mileage.Validator
}

// NewTripHandler creates a new trip handler.
func NewTripHandler(trips db.TripCollection, validator *mileage.Validator) *TripHandler {
	return &TripHandler{trips: trips, validator: validator}
}

// tripRequest is the capture/edit payload.
type tripRequest struct {
	VehicleID    string    `json:"vehicle_id"`
	DriverID     string    `json:"driver_id"`
	Date         time.Time `json:"date"`
	StartMileage float64   `json:"start_mileage"`
	EndMileage   float64   `json:"end_mileage"`
	CashIn       float64   `json:"cash_in"`
	Notes        string    `json:"notes"`
}

// Collection handles /api/trips: POST captures a trip, GET lists trips.
func (h *TripHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles /api/trips/{id}: GET, PUT and DELETE for one trip.
func (h *TripHandler) Item(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	trip, err := h.trips.FindTripByID(r.Context(), r.PathValue("id"))
	if err != nil || trip.CompanyID != claims.CompanyID {
		http.Error(w, "Trip not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, trip)
	case http.MethodPut:
		h.update(w, r, trip)
	case http.MethodDelete:
		if err := h.trips.DeleteTrip(r.Context(), trip.ID.Hex()); err != nil {
			http.Error(w, "Failed to delete trip", http.StatusInternalServerError)
			return
		}
		writeMessage(w, http.StatusOK, "Trip deleted")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Check handles POST /api/trips/check: the interactive validation run while
// an operator fills the capture form. It never blocks a write; it only
// reports how the candidate readings look against the vehicle's history.
func (h *TripHandler) Check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		tripRequest
		// TripID is set when the form is editing an existing trip, so the
		// trip cannot serve as its own predecessor.
		TripID string `json:"trip_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.VehicleID == "" {
		http.Error(w, "vehicle_id is required", http.StatusBadRequest)
		return
	}

	prev, err := h.trips.FindPrecedingTrip(r.Context(), claims.CompanyID, req.VehicleID, req.Date, req.TripID)
	if err != nil {
		http.Error(w, "Failed to look up trip history", http.StatusInternalServerError)
		return
	}
	result := h.validator.CheckLive(mileage.Input{
		StartMileage: req.StartMileage,
		EndMileage:   req.EndMileage,
		Date:         req.Date,
		Previous:     prev,
	})
	writeJSON(w, http.StatusOK, result)
}

func (h *TripHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var req tripRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.VehicleID == "" || req.Date.IsZero() {
		http.Error(w, "vehicle_id and date are required", http.StatusBadRequest)
		return
	}

	trip := models.TripRecord{
		CompanyID:    claims.CompanyID,
		VehicleID:    req.VehicleID,
		DriverID:     req.DriverID,
		Date:         req.Date,
		StartMileage: req.StartMileage,
		EndMileage:   req.EndMileage,
		CashIn:       req.CashIn,
		Notes:        req.Notes,
	}
	result, err := h.validator.ValidateNew(r.Context(), trip)
	if err != nil {
		http.Error(w, "Failed to look up trip history", http.StatusInternalServerError)
		return
	}
	if !result.Valid {
		writeJSON(w, http.StatusBadRequest, result)
		return
	}

	id, err := h.trips.InsertTrip(r.Context(), trip)
	if err != nil {
		http.Error(w, "Failed to create trip", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       id,
		"warnings": result.Warnings,
	})
}

func (h *TripHandler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	var (
		trips []models.TripRecord
		err   error
	)
	if vehicleID := r.URL.Query().Get("vehicle_id"); vehicleID != "" {
		trips, err = h.trips.FindTripsByVehicle(r.Context(), claims.CompanyID, vehicleID)
	} else {
		trips, err = h.trips.FindTripsByCompany(r.Context(), claims.CompanyID)
	}
	if err != nil {
		http.Error(w, "Failed to list trips", http.StatusInternalServerError)
		return
	}
	if trips == nil {
		trips = []models.TripRecord{}
	}
	writeJSON(w, http.StatusOK, trips)
}

// update re-validates the edited trip against its neighbors. The preceding
// trip lookup uses the trip's new date and excludes the trip itself, so date
// moves and mileage changes are both checked against the right neighbor.
func (h *TripHandler) update(w http.ResponseWriter, r *http.Request, trip *models.TripRecord) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	req := tripRequest{
		VehicleID:    trip.VehicleID,
		DriverID:     trip.DriverID,
		Date:         trip.Date,
		StartMileage: trip.StartMileage,
		EndMileage:   trip.EndMileage,
		CashIn:       trip.CashIn,
		Notes:        trip.Notes,
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	updated := *trip
	updated.VehicleID = req.VehicleID
	updated.DriverID = req.DriverID
	updated.Date = req.Date
	updated.StartMileage = req.StartMileage
	updated.EndMileage = req.EndMileage
	updated.CashIn = req.CashIn
	updated.Notes = req.Notes

	result, err := h.validator.ValidateEdit(r.Context(), updated)
	if err != nil {
		http.Error(w, "Failed to look up trip history", http.StatusInternalServerError)
		return
	}
	if !result.Valid {
		writeJSON(w, http.StatusBadRequest, result)
		return
	}

	if err := h.trips.UpdateTrip(r.Context(), trip.ID.Hex(), updated); err != nil {
		http.Error(w, "Failed to update trip", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Trip updated",
		"warnings": result.Warnings,
	})
}
