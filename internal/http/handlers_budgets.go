package http

import (
	"log/slog"
	"net/http"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

type upsertBudgetRequest struct {
	Category      string  `json:"category"`
	MonthlyTarget float64 `json:"monthlyTarget"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.deps.Budgets.ListBudgets(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List budgets failed", "error", err)
		errorJSON(w, http.StatusInternalServerError, "list budgets failed")
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

// handleUpsertBudget sets the monthly target for a category, creating the
// budget if it does not exist.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req upsertBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	category := sanitizeInput(req.Category)
	if category == "" {
		errorJSON(w, http.StatusUnprocessableEntity, "category is required")
		return
	}
	if req.MonthlyTarget < 0 {
		errorJSON(w, http.StatusUnprocessableEntity, "monthlyTarget must not be negative")
		return
	}

	if err := s.deps.Budgets.UpsertBudget(r.Context(), category, req.MonthlyTarget); err != nil {
		slog.ErrorContext(r.Context(), "Upsert budget failed", "error", err, "category", category)
		errorJSON(w, http.StatusInternalServerError, "upsert budget failed")
		return
	}

	s.purgeReportCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.deps.Budgets.DeleteBudget(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete budget failed", "error", err, "budget_id", id)
		errorJSON(w, http.StatusInternalServerError, "delete budget failed")
		return
	}

	s.purgeReportCaches()
	w.WriteHeader(http.StatusNoContent)
}
