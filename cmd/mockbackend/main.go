package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-client/internal/api"
	"fleet-client/internal/api/handlers"
	"fleet-client/internal/config"
	"fleet-client/internal/domain"
	"fleet-client/internal/platform/logging"
	"fleet-client/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// main is the mock backend composition root. It seeds the in-memory stores
// from JSON and serves the REST contract the fleet client talks to.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		ServiceName: "fleet-mockbackend",
		Environment: cfg.Env,
	})
	slog.SetDefault(logger)

	stores := store.NewStores(time.Now)
	if err := store.SeedFromJSON(stores, cfg.Seed.Path); err != nil {
		logger.Error("seed stores", "path", cfg.Seed.Path, "err", err)
		os.Exit(1)
	}
	logger.Info("stores seeded", "path", cfg.Seed.Path,
		"orders", stores.Orders.Len(), "vehicles", stores.Fleet.Len())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := api.NewRouter(api.Deps{
		Stores:     stores,
		Attendance: store.NewAttendanceStore(time.Now),
		Accounts: map[string]handlers.Account{
			config.Get("MOCK_USER_EMAIL", "dispatch@fleetops.example.com"): {
				Password: config.Get("MOCK_USER_PASSWORD", "fleet123"),
				User:     domain.User{ID: "USR-1", Name: "Dispatch Desk", Email: "dispatch@fleetops.example.com", Role: "dispatcher"},
			},
		},
		Registry: reg,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
