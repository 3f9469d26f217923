package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

type addRuleRequest struct {
	Pattern   string `json:"pattern"`
	MatchType string `json:"matchType"`
	Category  string `json:"category"`
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.deps.Rules.ListRules(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List rules failed", "error", err)
		errorJSON(w, http.StatusInternalServerError, "list rules failed")
		return
	}
	if rules == nil {
		rules = []core.Rule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	var req addRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rule := core.Rule{
		Pattern:   sanitizeInput(req.Pattern),
		MatchType: core.MatchType(sanitizeInput(req.MatchType)),
		Category:  sanitizeInput(req.Category),
	}

	stored, err := s.deps.Rules.AddRule(r.Context(), rule)
	if err != nil {
		if errors.Is(err, core.ErrEmptyPattern) || errors.Is(err, core.ErrEmptyCategory) || errors.Is(err, core.ErrInvalidMatchType) {
			errorJSON(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Add rule failed", "error", err)
		errorJSON(w, http.StatusInternalServerError, "add rule failed")
		return
	}

	s.purgeReportCaches()
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.deps.Rules.DeleteRule(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete rule failed", "error", err, "rule_id", id)
		errorJSON(w, http.StatusInternalServerError, "delete rule failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleApplyRules re-runs the categorization pass on demand.
func (s *Server) handleApplyRules(w http.ResponseWriter, r *http.Request) {
	updated, err := s.deps.Rules.ApplyRulesToUncategorized(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Apply rules failed", "error", err)
		errorJSON(w, http.StatusInternalServerError, "apply rules failed")
		return
	}

	if updated > 0 {
		s.purgeReportCaches()
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}
