package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/RDubya18/sprig-mobile/internal/core"
	"github.com/RDubya18/sprig-mobile/internal/storage"
)

type createAccountRequest struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Balance float64 `json:"balance"`
}

type patchAccountRequest struct {
	Name           *string  `json:"name"`
	Type           *string  `json:"type"`
	Balance        *float64 `json:"balance"`
	LastReconciled *string  `json:"lastReconciled"`
}

// accountResponse pairs the stored account with the net of its transactions.
type accountResponse struct {
	core.Account
	Net float64 `json:"net"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.deps.Accounts.ListAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List accounts failed", "error", err)
		errorJSON(w, http.StatusInternalServerError, "list accounts failed")
		return
	}
	if accounts == nil {
		accounts = []core.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	account := core.Account{
		Name:    sanitizeInput(req.Name),
		Type:    core.AccountType(sanitizeInput(req.Type)),
		Balance: req.Balance,
	}

	stored, err := s.deps.Accounts.CreateAccount(r.Context(), account)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAccount) {
			errorJSON(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create account failed", "error", err)
		errorJSON(w, http.StatusInternalServerError, "create account failed")
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

// handleGetAccount returns one account along with the net movement of its
// linked transactions.
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := s.deps.Accounts.GetAccount(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Get account failed", "error", err, "account_id", id)
		errorJSON(w, http.StatusInternalServerError, "get account failed")
		return
	}
	if account == nil {
		errorJSON(w, http.StatusNotFound, "account not found")
		return
	}

	net, err := s.deps.Accounts.AccountNet(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Account net failed", "error", err, "account_id", id)
		errorJSON(w, http.StatusInternalServerError, "get account failed")
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{Account: *account, Net: net})
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	var req patchAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	patch := storage.AccountPatch{
		Balance:        req.Balance,
		LastReconciled: req.LastReconciled,
	}
	if req.Name != nil {
		name := sanitizeInput(*req.Name)
		if name == "" {
			errorJSON(w, http.StatusUnprocessableEntity, "name must not be empty")
			return
		}
		patch.Name = &name
	}
	if req.Type != nil {
		accountType := core.AccountType(sanitizeInput(*req.Type))
		if !accountType.Valid() {
			errorJSON(w, http.StatusUnprocessableEntity, "invalid account type")
			return
		}
		patch.Type = &accountType
	}

	if err := s.deps.Accounts.UpdateAccount(r.Context(), id, patch); err != nil {
		slog.ErrorContext(r.Context(), "Update account failed", "error", err, "account_id", id)
		errorJSON(w, http.StatusInternalServerError, "update account failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
