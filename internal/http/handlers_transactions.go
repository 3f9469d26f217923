package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/RDubya18/sprig-mobile/internal/core"
	"github.com/RDubya18/sprig-mobile/internal/storage"
)

// handleListTransactions lists transactions, newest first. Supported query
// parameters: month (YYYY-MM), category, search.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filters := storage.TransactionFilters{
		Category: sanitizeInput(r.URL.Query().Get("category")),
		Search:   sanitizeInput(r.URL.Query().Get("search")),
	}

	if month := strings.TrimSpace(r.URL.Query().Get("month")); month != "" {
		if !core.ValidMonthKey(month) {
			errorJSON(w, http.StatusBadRequest, "invalid month: want YYYY-MM")
			return
		}
		filters.MonthKey = month
	}

	txs, err := s.deps.Transactions.ListTransactions(r.Context(), filters)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		errorJSON(w, http.StatusInternalServerError, "list transactions failed")
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

// handleListCategories returns the distinct categories in use, optionally
// restricted to one month.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month != "" && !core.ValidMonthKey(month) {
		errorJSON(w, http.StatusBadRequest, "invalid month: want YYYY-MM")
		return
	}

	categories, err := s.deps.Transactions.DistinctCategories(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err)
		errorJSON(w, http.StatusInternalServerError, "list categories failed")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}
