package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/fliprooms/internal/api/apierr"
	"github.com/fastprodman/fliprooms/internal/services/accounts"
)

type registerRequest struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"displayName"`
}

type balanceDeltaRequest struct {
	Delta int64  `json:"delta"`
	Key   string `json:"key"`
}

// GetAccountHandler handles GET /accounts/{identity}
func (h *HandlerProvider) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	acc, err := h.query.GetAccount(r.Context(), chi.URLParam(r, "identity"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, acc)
}

// RegisterAccountHandler handles POST /accounts
func (h *HandlerProvider) RegisterAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	acc, created, err := h.accounts.Register(r.Context(), req.Identity, req.DisplayName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	h.writeJSON(w, status, acc)
}

// GetBalanceHandler handles GET /accounts/{identity}/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	bal, err := h.query.GetBalance(r.Context(), chi.URLParam(r, "identity"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, bal)
}

// ApplyBalanceDeltaHandler handles POST /accounts/{identity}/balance
func (h *HandlerProvider) ApplyBalanceDeltaHandler(w http.ResponseWriter, r *http.Request) {
	var req balanceDeltaRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	change, err := h.accounts.ApplyDelta(r.Context(), accounts.Adjustment{
		Identity: chi.URLParam(r, "identity"),
		Delta:    req.Delta,
		Key:      req.Key,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, change)
}

// ListEntriesHandler handles GET /accounts/{identity}/entries?limit=
func (h *HandlerProvider) ListEntriesHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, apierr.NewInvalidRequestError("limit must be an integer"))
			return
		}

		limit = n
	}

	list, err := h.query.ListEntries(r.Context(), chi.URLParam(r, "identity"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}
