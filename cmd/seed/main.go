// Command seed fills the database with generated trips and prints session
// tokens for local development.
//
//	go run ./cmd/seed -n 200 -seed 42
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/config"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/fixture"
	"github.com/edu-maass/comissions-dashboard/internal/middleware"
	"github.com/edu-maass/comissions-dashboard/internal/repo"
	"github.com/edu-maass/comissions-dashboard/internal/service"
	"github.com/edu-maass/comissions-dashboard/migrations"
)

func main() {
	n := flag.Int("n", 200, "number of trips to generate")
	seed := flag.Uint64("seed", 1, "generator seed; the same seed yields the same trips")
	ttl := flag.Duration("ttl", 24*time.Hour, "lifetime of the printed session tokens")
	flag.Parse()

	if err := run(context.Background(), *n, *seed, *ttl); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, n int, seed uint64, ttl time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	_, err = migrations.Up(ctx, db)
	db.Close()
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := service.NewTripService(repo.NewTripRepo(pool), commission.DefaultSchedule(), service.SystemClock)
	trips := fixture.NewTripFactory(seed).Trips(n)

	var created, skipped int
	for _, t := range trips {
		if _, err := svc.RecordSale(ctx, t); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				skipped++
				continue
			}
			return fmt.Errorf("booking %s: %w", t.Booking, err)
		}
		created++
	}
	slog.Info("trips seeded", "created", created, "skipped", skipped)

	ja := middleware.NewTokenAuth(cfg.JWTSecret)
	actors := []domain.Actor{{Name: "Dirección", IsAdmin: true}}
	if len(trips) > 0 {
		actors = append(actors, domain.Actor{Name: trips[0].Specialist})
	}
	for _, a := range actors {
		token, err := middleware.IssueToken(ja, a, ttl)
		if err != nil {
			return err
		}
		fmt.Printf("%s (admin=%t)\n  Authorization: Bearer %s\n", a.Name, a.IsAdmin, token)
	}
	return nil
}
