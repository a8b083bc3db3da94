package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/fleetware/fleet-mileage/internal/db"
	"github.com/fleetware/fleet-mileage/internal/models"
)

// ExpenseHandler handles daily expense capture and listing.
type ExpenseHandler struct {
	expenses db.ExpenseCollection
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenses db.ExpenseCollection) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Collection handles /api/expenses: POST captures an expense, GET lists the
// company's expenses, optionally narrowed with ?vehicle_id=.
func (h *ExpenseHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var expense models.ExpenseRecord
	if err := json.Unmarshal(body, &expense); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if expense.Amount < 0 {
		http.Error(w, "Amount must not be negative", http.StatusBadRequest)
		return
	}
	if expense.Date.IsZero() {
		http.Error(w, "Date is required", http.StatusBadRequest)
		return
	}
	expense.CompanyID = claims.CompanyID
	if expense.Category == "" {
		expense.Category = "other"
	}

	id, err := h.expenses.InsertExpense(r.Context(), expense)
	if err != nil {
		http.Error(w, "Failed to create expense", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *ExpenseHandler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	expenses, err := h.expenses.FindExpenses(r.Context(), claims.CompanyID, r.URL.Query().Get("vehicle_id"))
	if err != nil {
		http.Error(w, "Failed to list expenses", http.StatusInternalServerError)
		return
	}
	if expenses == nil {
		expenses = []models.ExpenseRecord{}
	}
	writeJSON(w, http.StatusOK, expenses)
}
