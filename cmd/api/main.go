// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the binder HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the binder store (memory, badger or postgres with migrations).
//  4. Optionally put a Redis read-through cache in front of it.
//  5. Load the card catalog, if one is configured.
//  6. Choose the identity source (JWT verification or a fixed demo user).
//  7. Wire HTTP handlers and start the server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/taibuivan/pokebinder/internal/api"
	"github.com/taibuivan/pokebinder/internal/catalog"
	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/platform/config"
	"github.com/taibuivan/pokebinder/internal/platform/constants"
	"github.com/taibuivan/pokebinder/internal/platform/middleware"
	"github.com/taibuivan/pokebinder/internal/platform/migration"
	pgstore "github.com/taibuivan/pokebinder/internal/platform/postgres"
	redisstore "github.com/taibuivan/pokebinder/internal/platform/redis"
	"github.com/taibuivan/pokebinder/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage", cfg.StorageDriver),
	)

	// Root context for startup. A deadline catches misconfiguration quickly
	// rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Binder Store ───────────────────────────────────────────────────
	var repository binder.Repository
	var checks []api.Check

	switch cfg.StorageDriver {
	case constants.StorageMemory:
		repository = binder.NewMemoryRepository()

	case constants.StorageBadger:
		store, err := binder.OpenBadgerRepository(cfg.BadgerPath, log)
		must(log, err, "open badger store")
		defer func() {
			log.Info("closing badger store")
			if cerr := store.Close(); cerr != nil {
				log.Error("badger close error", slog.Any("error", cerr))
			}
		}()
		repository = store
		checks = append(checks, api.Check{Name: "storage", Critical: true, Probe: store.Ping})

	case constants.StoragePostgres:
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()
		repository = binder.NewPostgresRepository(pool)
		checks = append(checks, api.Check{Name: "storage", Critical: true, Probe: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}})
	}

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
		repository = binder.NewCachedRepository(repository, rdb, cfg.CacheTTL, log)
		checks = append(checks, api.Check{Name: "cache", Probe: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}})
	}

	// ── 5. Card Catalog (optional) ────────────────────────────────────────
	var lookup catalog.Lookup
	if cfg.CatalogSeedPath != "" {
		static, err := catalog.LoadStaticLookup(cfg.CatalogSeedPath)
		must(log, err, "load card catalog")

		cached, err := catalog.NewCachedLookup(static, cfg.CatalogCacheSize)
		must(log, err, "initialize catalog cache")
		lookup = cached

		log.Info("catalog_loaded", slog.Int("cards", static.Len()))
	}

	// ── 6. Identity ───────────────────────────────────────────────────────
	identity := middleware.DemoIdentity(cfg.DemoUserID)
	if cfg.JWTPubKeyPath != "" {
		verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
		must(log, err, "initialize jwt verifier")
		identity = middleware.Authenticate(verifier)
	} else {
		log.Warn("demo_identity_enabled", slog.String("user_id", cfg.DemoUserID))
	}

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	binderService := binder.NewService(repository, lookup, log)
	binderHandler := binder.NewHandler(binderService)

	liveness, readiness := api.NewHealthHandlers(checks, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, identity, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Binder:    binderHandler,
	})

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the process-wide JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
