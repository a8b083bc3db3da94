package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fleetware/fleet-mileage/internal/middleware"
	"github.com/fleetware/fleet-mileage/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// claimsFrom pulls the authenticated user's claims from the request context,
// writing a 401 when missing.
func claimsFrom(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}
