// Package main is the entry point for the commissions API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/edu-maass/comissions-dashboard/api"
	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/config"
	"github.com/edu-maass/comissions-dashboard/internal/handler"
	"github.com/edu-maass/comissions-dashboard/internal/middleware"
	"github.com/edu-maass/comissions-dashboard/internal/repo"
	"github.com/edu-maass/comissions-dashboard/internal/service"
	"github.com/edu-maass/comissions-dashboard/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	schedule, err := loadSchedule(cfg.ScheduleFile)
	if err != nil {
		slog.Error("failed to load commission schedule", "file", cfg.ScheduleFile, "error", err)
		os.Exit(1)
	}

	// --- Database ---------------------------------------------------------
	ctx := context.Background()
	if err := migrate(ctx, cfg.DatabaseURL); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

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
	slog.Info("database connection established")

	// --- Services ---------------------------------------------------------
	trips := repo.NewTripRepo(pool)
	tripSvc := service.NewTripService(trips, schedule, service.SystemClock)
	srv := handler.NewServer(handler.Services{
		Trips:     tripSvc,
		Approvals: service.NewApprovalService(trips, schedule, service.SystemClock, logger),
		Reports:   service.NewReportService(trips, schedule, service.SystemClock),
		Exports:   service.NewExportService(trips, schedule, service.SystemClock),
		Imports:   service.NewImportService(tripSvc, logger),
	}, schedule, api.OpenAPI, service.SystemClock, logger)

	// --- Router -----------------------------------------------------------
	// Order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	// CORS runs before the session check so preflights never need a token.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	session := middleware.NewSession(middleware.NewTokenAuth(cfg.JWTSecret))
	r.Mount("/", srv.Handler(session))

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// loadSchedule reads the YAML schedule at path, or returns the built-in one
// when path is empty.
func loadSchedule(path string) (commission.Schedule, error) {
	if path == "" {
		return commission.DefaultSchedule(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return commission.LoadSchedule(f)
}

// migrate applies pending goose migrations over a short-lived database/sql
// handle; the pool is opened afterwards.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", n)
	return nil
}
