package http

import (
	"log/slog"
	"net/http"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

// handleMonthOverview serves the monthly overview, cached per month key.
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	if overview, found := s.overviewCache.Get(month); found {
		slog.DebugContext(r.Context(), "Overview cache hit", "month", month)
		writeJSON(w, http.StatusOK, overview)
		return
	}

	overview, err := s.deps.Overview.MonthOverview(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month overview failed", "error", err, "month", month)
		errorJSON(w, http.StatusInternalServerError, "month overview failed")
		return
	}

	s.overviewCache.Set(month, overview)
	writeJSON(w, http.StatusOK, overview)
}

// handleMonthInsights serves the month-over-month insights, cached per
// month key.
func (s *Server) handleMonthInsights(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	if insights, found := s.insightsCache.Get(month); found {
		slog.DebugContext(r.Context(), "Insights cache hit", "month", month)
		writeJSON(w, http.StatusOK, insights)
		return
	}

	insights, err := s.deps.Insights.MonthInsights(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month insights failed", "error", err, "month", month)
		errorJSON(w, http.StatusInternalServerError, "month insights failed")
		return
	}
	if insights == nil {
		insights = []core.Insight{}
	}

	s.insightsCache.Set(month, insights)
	writeJSON(w, http.StatusOK, insights)
}
