package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/fliprooms/internal/api"
	"github.com/fastprodman/fliprooms/internal/config"
	"github.com/fastprodman/fliprooms/internal/dependencies/clock"
	"github.com/fastprodman/fliprooms/internal/dependencies/random"
	"github.com/fastprodman/fliprooms/internal/infra/logging"
	"github.com/fastprodman/fliprooms/internal/repos"
	pgstore "github.com/fastprodman/fliprooms/internal/repos/postgres"
	redisstore "github.com/fastprodman/fliprooms/internal/repos/redis"
	"github.com/fastprodman/fliprooms/internal/services/accounts"
	"github.com/fastprodman/fliprooms/internal/services/outcome"
	"github.com/fastprodman/fliprooms/internal/services/query"
	"github.com/fastprodman/fliprooms/internal/services/rooms"
	"github.com/fastprodman/fliprooms/pkg/envconf"
	"github.com/fastprodman/fliprooms/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logger := logging.SetupJSON(cfg.LogLevel)
	shutdownqueue.SetLogger(logger.With("component", "shutdown"))

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	shutdownqueue.AddNamed("store", func(context.Context) error {
		return store.Close()
	})

	// --- Services ---
	clk := clock.New()

	accountSrv := accounts.New(store, clk, logger)
	roomSrv := rooms.New(store, accountSrv, clk, logger)
	resolver := outcome.New(store, accountSrv, roomSrv, random.New(), logger)

	// --- HTTP server ---
	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Accounts: accountSrv,
		Rooms:    roomSrv,
		Resolver: resolver,
		Query:    query.New(accountSrv, roomSrv),
	})
	srv := api.NewServer(cfg.Port, router)

	shutdownqueue.AddNamed("http server", func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port, "store", cfg.Store.Backend)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

func openStore(ctx context.Context, cfg config.StoreConfig) (repos.Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return pgstore.Open(ctx, cfg.Postgres)
	case config.BackendRedis:
		return redisstore.New(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
