package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fleetware/fleet-mileage/internal/db"
	"github.com/fleetware/fleet-mileage/internal/mileage"
	"github.com/fleetware/fleet-mileage/internal/models"
	"github.com/fleetware/fleet-mileage/internal/report"
)

// GapHandler exposes mileage gap detection, statistics, reporting and the
// acknowledgement workflow.
type GapHandler struct {
	detector *mileage.Detector
	ledger   *mileage.Ledger
	vehicles db.VehicleCollection
}

// NewGapHandler creates a new gap handler.
func NewGapHandler(detector *mileage.Detector, ledger *mileage.Ledger, vehicles db.VehicleCollection) *GapHandler {
	return &GapHandler{detector: detector, ledger: ledger, vehicles: vehicles}
}

// List handles GET /api/gaps: the company's outstanding gaps, severity
// first, largest first.
func (h *GapHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	gaps, ok := h.outstandingGaps(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, gaps)
}

// Stats handles GET /api/gaps/stats.
func (h *GapHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	gaps, ok := h.outstandingGaps(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mileage.Aggregate(gaps))
}

// Report handles GET /api/gaps/report, serving the outstanding-gap report
// as a PDF download.
func (h *GapHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	gaps, ok := h.outstandingGaps(w, r)
	if !ok {
		return
	}
	pdfBytes, err := report.BuildGapReportPDF(claims.CompanyID, gaps, mileage.Aggregate(gaps))
	if err != nil {
		http.Error(w, "Failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="unaccounted-mileage.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

// VehicleGaps handles GET /api/vehicles/{id}/gaps. Unlike the company-wide
// scan, a store failure here is reported to the caller: with a single known
// vehicle there is nothing to fall back on.
func (h *GapHandler) VehicleGaps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), r.PathValue("id"))
	if err != nil || vehicle.CompanyID != claims.CompanyID {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}
	gaps, err := h.detector.DetectVehicle(r.Context(), claims.CompanyID, vehicle.ID.Hex(), vehicle.DisplayName())
	if err != nil {
		http.Error(w, "Failed to scan trip history", http.StatusInternalServerError)
		return
	}
	mileage.SortGaps(gaps)
	gaps = h.ledger.FilterUnacknowledged(r.Context(), gaps)
	writeJSON(w, http.StatusOK, gaps)
}

// Acknowledge handles POST /api/gaps/{id}/acknowledge. Only managers and
// admins may sign off unaccounted mileage; repeating the call overwrites the
// earlier entry.
func (h *GapHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	reviewer := models.User{Role: claims.Role}
	if !reviewer.CanAcknowledgeGaps() {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	gapID := r.PathValue("id")
	if err := validateGapID(gapID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if r.Body != nil {
		// The note is optional; an empty body acknowledges without one.
		json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.ledger.Acknowledge(r.Context(), claims.CompanyID, gapID, claims.UserID, req.Note); err != nil {
		http.Error(w, "Failed to record acknowledgement", http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, "Gap acknowledged")
}

// outstandingGaps runs the company-wide scan and strips acknowledged gaps.
func (h *GapHandler) outstandingGaps(w http.ResponseWriter, r *http.Request) ([]models.MileageGap, bool) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return nil, false
	}
	gaps, err := h.detector.DetectCompany(r.Context(), claims.CompanyID)
	if err != nil {
		http.Error(w, "Failed to scan fleet", http.StatusInternalServerError)
		return nil, false
	}
	gaps = h.ledger.FilterUnacknowledged(r.Context(), gaps)
	if gaps == nil {
		gaps = []models.MileageGap{}
	}
	return gaps, true
}

// validateGapID checks the composite previous-current trip id form.
func validateGapID(gapID string) error {
	parts := strings.Split(gapID, "-")
	if len(parts) != 2 {
		return fmt.Errorf("gap id must be <previousTripId>-<currentTripId>")
	}
	for _, part := range parts {
		if _, err := primitive.ObjectIDFromHex(part); err != nil {
			return fmt.Errorf("gap id must be <previousTripId>-<currentTripId>")
		}
	}
	return nil
}
