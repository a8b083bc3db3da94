package handlers

import (
	"net/http"
	"time"

	"github.com/fleetware/fleet-mileage/internal/analytics"
	"github.com/fleetware/fleet-mileage/internal/db"
	"github.com/fleetware/fleet-mileage/internal/models"
)

// AnalyticsHandler serves the dashboard aggregations.
type AnalyticsHandler struct {
	trips    db.TripCollection
	expenses db.ExpenseCollection
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(trips db.TripCollection, expenses db.ExpenseCollection) *AnalyticsHandler {
	return &AnalyticsHandler{trips: trips, expenses: expenses}
}

// Summary handles GET /api/analytics/summary?range=&vehicle_id=.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	trips, expenses, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(trips, expenses))
}

// Trends handles GET /api/analytics/trends?range=&vehicle_id=.
func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	trips, expenses, ok := h.load(w, r)
	if !ok {
		return
	}
	series := analytics.TrendSeries(trips, expenses)
	if series == nil {
		series = []analytics.TrendPoint{}
	}
	writeJSON(w, http.StatusOK, series)
}

// load fetches the company's records and applies the requested time range.
// Filtering happens before aggregation; the math itself is range-agnostic.
func (h *AnalyticsHandler) load(w http.ResponseWriter, r *http.Request) ([]models.TripRecord, []models.ExpenseRecord, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, nil, false
	}
	claims, ok := claimsFrom(w, r)
	if !ok {
		return nil, nil, false
	}

	vehicleID := r.URL.Query().Get("vehicle_id")
	var (
		trips []models.TripRecord
		err   error
	)
	if vehicleID != "" {
		trips, err = h.trips.FindTripsByVehicle(r.Context(), claims.CompanyID, vehicleID)
	} else {
		trips, err = h.trips.FindTripsByCompany(r.Context(), claims.CompanyID)
	}
	if err != nil {
		http.Error(w, "Failed to load trips", http.StatusInternalServerError)
		return nil, nil, false
	}
	expenses, err := h.expenses.FindExpenses(r.Context(), claims.CompanyID, vehicleID)
	if err != nil {
		http.Error(w, "Failed to load expenses", http.StatusInternalServerError)
		return nil, nil, false
	}

	timeRange := analytics.ParseRange(r.URL.Query().Get("range"))
	now := time.Now()
	return timeRange.FilterTrips(trips, now), timeRange.FilterExpenses(expenses, now), true
}
