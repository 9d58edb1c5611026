// Package main is the entry point for the one-shot ingest batch.
// Its sole responsibility is wiring dependencies together and executing a
// single materialization run. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for goose
	"github.com/pressly/goose/v3"

	"github.com/pkordes/taxi-ingest/internal/config"
	"github.com/pkordes/taxi-ingest/internal/fetch"
	"github.com/pkordes/taxi-ingest/internal/ingest"
	"github.com/pkordes/taxi-ingest/internal/repo"
	"github.com/pkordes/taxi-ingest/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger. JSON handler writes
	// machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// The window is required for a batch run; fail before touching the
	// database or the network.
	window, err := cfg.Window()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := migrate(ctx, cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Pipeline ---------------------------------------------------------
	fetcher := fetch.New(cfg.BaseURL, cfg.FetchTimeout, logger)
	materializer := ingest.NewMaterializer(fetcher, logger,
		ingest.WithConcurrency(cfg.FetchConcurrency))
	runner := ingest.NewRunner(materializer, repo.NewTripRepo(pool), repo.NewRunRepo(pool), logger)

	run, err := runner.Run(ctx, window, cfg.TaxiTypes)
	if err != nil {
		slog.Error("ingest run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("ingest run finished",
		"run_id", run.ID,
		"rows", run.RowCount,
		"start_date", run.StartDate.Format("2006-01-02"),
		"end_date", run.EndDate.Format("2006-01-02"),
		"taxi_types", run.TaxiTypes,
	)
}

// migrate applies all pending migrations using the embedded SQL files.
// goose needs database/sql, not a pgx pool, so it gets its own connection.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}
