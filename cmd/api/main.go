// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the LetterTool HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the jurisdiction resolvers from the bundled datasets.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/lettertool/internal/api"
	"github.com/taibuivan/lettertool/internal/core/jurisdiction"
	"github.com/taibuivan/lettertool/internal/core/jurisdiction/canada"
	"github.com/taibuivan/lettertool/internal/core/jurisdiction/france"
	"github.com/taibuivan/lettertool/internal/core/jurisdiction/germany"
	"github.com/taibuivan/lettertool/internal/core/letter"
	"github.com/taibuivan/lettertool/internal/core/target"
	"github.com/taibuivan/lettertool/internal/platform/config"
	"github.com/taibuivan/lettertool/internal/platform/constants"
	"github.com/taibuivan/lettertool/internal/platform/migration"
	pgstore "github.com/taibuivan/lettertool/internal/platform/postgres"
	redisstore "github.com/taibuivan/lettertool/internal/platform/redis"
	"github.com/taibuivan/lettertool/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("[LetterTool] service_initializing")

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
	)

	// Startup deadline so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token verification ─────────────────────────────────────────────
	verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "load jwt public key")

	// ── 7. Jurisdictions ──────────────────────────────────────────────────
	germanResolver, err := germany.NewBundled(jurisdiction.ExcludeParties(cfg.ExcludedPartiesDE...))
	must(log, err, "load german dataset")

	frenchResolver, err := france.NewBundled(jurisdiction.AllowAll)
	must(log, err, "load french dataset")

	canadianResolver, err := canada.NewBundled(jurisdiction.AllowAll)
	must(log, err, "load canadian dataset")

	jurisdictionService := jurisdiction.NewService(log, germanResolver, frenchResolver, canadianResolver)
	for _, country := range jurisdictionService.Countries() {
		log.Info("jurisdiction_loaded", slog.String("country", string(country)))
	}

	// ── 8. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(log,
		api.HealthCheck{Name: "postgres", Check: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}},
		api.HealthCheck{Name: "redis", Optional: true, Check: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}},
	)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	sheets := target.NewSheetsClient(cfg.SheetsBaseURL, cfg.SheetsFetchTimeout, log)
	defer sheets.Close()

	targetService := target.NewService(target.NewPostgresRepository(pool), sheets, log)

	letterStore := letter.NewStore(
		letter.NewRedisCache[letter.CachedLetter](rdb, log),
		letter.NewRedisCache[[]letter.EmailedRecord](rdb, log),
		cfg.LetterRetention,
	)
	letterService := letter.NewService(letterStore, jurisdictionService, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, verifier, api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Jurisdiction: jurisdiction.NewHandler(jurisdictionService),
		Target:       target.NewHandler(targetService),
		Letter:       letter.NewHandler(letterService),
	})

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "lettertool"))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
