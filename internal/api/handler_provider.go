package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/fastprodman/fliprooms/internal/api/apierr"
	"github.com/fastprodman/fliprooms/internal/services/accounts"
	"github.com/fastprodman/fliprooms/internal/services/outcome"
	"github.com/fastprodman/fliprooms/internal/services/query"
	"github.com/fastprodman/fliprooms/internal/services/rooms"
)

const maxBodyBytes = 1 << 20

// HandlerProvider exposes the services as HTTP handlers.
type HandlerProvider struct {
	accounts *accounts.Manager
	rooms    *rooms.Registry
	resolver *outcome.Resolver
	query    *query.Facade
	log      *slog.Logger
}

func NewHandler(cfg RouterConfig) *HandlerProvider {
	return &HandlerProvider{
		accounts: cfg.Accounts,
		rooms:    cfg.Rooms,
		resolver: cfg.Resolver,
		query:    cfg.Query,
		log:      cfg.Logger,
	}
}

// --- Helpers ---

func (h *HandlerProvider) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		// headers are already out; nothing left to tell the client
		h.log.Error("failed to encode JSON response", "error", err)
	}
}

func (h *HandlerProvider) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apierr.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

// decodeJSON reads a single JSON object, rejecting unknown fields and bodies
// over 1MB.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	//nolint:errcheck
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return apierr.NewInvalidRequestError("empty body")
		}

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apierr.NewInvalidRequestError("body too large")
		}

		return apierr.NewInvalidRequestError("invalid JSON: " + err.Error())
	}

	if dec.More() {
		return apierr.NewInvalidRequestError("body must hold a single JSON object")
	}

	return nil
}
