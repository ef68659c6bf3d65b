package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fastprodman/fliprooms/internal/api/middleware"
	"github.com/fastprodman/fliprooms/internal/services/accounts"
	"github.com/fastprodman/fliprooms/internal/services/outcome"
	"github.com/fastprodman/fliprooms/internal/services/query"
	"github.com/fastprodman/fliprooms/internal/services/rooms"
)

// RouterConfig holds the services the API exposes.
type RouterConfig struct {
	Logger   *slog.Logger
	Accounts *accounts.Manager
	Rooms    *rooms.Registry
	Resolver *outcome.Resolver
	Query    *query.Facade
}

// NewRouter constructs a chi router with all API endpoints registered.
func NewRouter(cfg RouterConfig) http.Handler {
	h := NewHandler(cfg)
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.RegisterAccountHandler)
		r.Get("/{identity}", h.GetAccountHandler)
		r.Get("/{identity}/balance", h.GetBalanceHandler)
		r.Post("/{identity}/balance", h.ApplyBalanceDeltaHandler)
		r.Get("/{identity}/entries", h.ListEntriesHandler)
	})

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", h.ListRoomsHandler)
		r.Post("/", h.CreateRoomHandler)
		r.Get("/{roomId}", h.GetRoomHandler)
		r.Patch("/{roomId}", h.UpdateRoomHandler)
		r.Delete("/{roomId}", h.DeleteRoomHandler)
		r.Post("/{roomId}/join", h.JoinRoomHandler)
		r.Post("/{roomId}/resolve", h.ResolveRoomHandler)
	})

	r.Post("/wagers", h.SoloWagerHandler)

	return r
}
