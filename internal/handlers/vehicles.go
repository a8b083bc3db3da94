package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/fleetware/fleet-mileage/internal/db"
	"github.com/fleetware/fleet-mileage/internal/models"
)

// VehicleHandler handles vehicle registration and lookup requests.
type VehicleHandler struct {
	vehicles db.VehicleCollection
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(vehicles db.VehicleCollection) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// Collection handles /api/vehicles: POST registers a vehicle, GET lists the
// company's fleet.
func (h *VehicleHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles /api/vehicles/{id}: GET, PUT and DELETE for one vehicle.
func (h *VehicleHandler) Item(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), r.PathValue("id"))
	if err != nil || vehicle.CompanyID != claims.CompanyID {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, vehicle)
	case http.MethodPut:
		h.update(w, r, vehicle)
	case http.MethodDelete:
		if err := h.vehicles.DeleteVehicle(r.Context(), vehicle.ID.Hex()); err != nil {
			http.Error(w, "Failed to delete vehicle", http.StatusInternalServerError)
			return
		}
		writeMessage(w, http.StatusOK, "Vehicle deleted")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *VehicleHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var vehicle models.Vehicle
	if err := json.Unmarshal(body, &vehicle); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if vehicle.Registration == "" && (vehicle.Make == "" || vehicle.Model == "") {
		http.Error(w, "Registration or make and model are required", http.StatusBadRequest)
		return
	}
	vehicle.CompanyID = claims.CompanyID
	if vehicle.Status == "" {
		vehicle.Status = "active"
	}

	id, err := h.vehicles.InsertVehicle(r.Context(), vehicle)
	if err != nil {
		http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *VehicleHandler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	vehicles, err := h.vehicles.FindVehiclesByCompany(r.Context(), claims.CompanyID)
	if err != nil {
		http.Error(w, "Failed to list vehicles", http.StatusInternalServerError)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) update(w http.ResponseWriter, r *http.Request, vehicle *models.Vehicle) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	updated := *vehicle
	if err := json.Unmarshal(body, &updated); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	// Identity fields are not editable.
	updated.ID = vehicle.ID
	updated.CompanyID = vehicle.CompanyID
	updated.CreatedAt = vehicle.CreatedAt

	if err := h.vehicles.UpdateVehicle(r.Context(), vehicle.ID.Hex(), updated); err != nil {
		http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, "Vehicle updated")
}
