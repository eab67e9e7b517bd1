package service_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/repo"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	getByBooking func(ctx context.Context, booking string) (domain.Trip, error)
	list         func(ctx context.Context, q repo.TripQuery) ([]domain.Trip, error)
	update       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) GetByBooking(ctx context.Context, booking string) (domain.Trip, error) {
	return m.getByBooking(ctx, booking)
}
func (m *mockTripRepo) List(ctx context.Context, q repo.TripQuery) ([]domain.Trip, error) {
	return m.list(ctx, q)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// memRepo backs a mockTripRepo with a map so services can round-trip trips.
func memRepo(trips ...domain.Trip) (*mockTripRepo, map[uuid.UUID]domain.Trip) {
	store := map[uuid.UUID]domain.Trip{}
	for _, t := range trips {
		store[t.ID] = t
	}
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) {
			for _, existing := range store {
				if existing.Booking == t.Booking {
					return domain.Trip{}, domain.ErrConflict
				}
			}
			t.ID = uuid.New()
			store[t.ID] = t
			return t, nil
		},
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			t, ok := store[id]
			if !ok {
				return domain.Trip{}, domain.ErrNotFound
			}
			return t, nil
		},
		list: func(_ context.Context, _ repo.TripQuery) ([]domain.Trip, error) {
			out := make([]domain.Trip, 0, len(trips))
			for _, t := range trips {
				out = append(out, store[t.ID])
			}
			return out, nil
		},
		update: func(_ context.Context, t domain.Trip) (domain.Trip, error) {
			if _, ok := store[t.ID]; !ok {
				return domain.Trip{}, domain.ErrNotFound
			}
			store[t.ID] = t
			return t, nil
		},
	}, store
}

// ---- helpers ---------------------------------------------------------------

var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// saleFixture returns the facts of a legacy trip sold 2024-09-15.
func saleFixture() domain.Trip {
	return domain.Trip{
		Booking:       "BK-1001",
		SaleDate:      time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
		TravelDate:    time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC),
		Traveler:      "Ana López",
		Specialist:    "María García",
		Role:          domain.RoleSpecialist,
		QuotedProfit:  dec("25000"),
		QuotedRevenue: dec("200000"),
		NPS:           9,
		TravelDays:    10,
	}
}

// storedTrip returns saleFixture as the repo would hand it back: with an ID
// and computed lines.
func storedTrip() domain.Trip {
	t := saleFixture()
	t.ID = uuid.New()
	t.Advance = domain.PayableLine{Percentage: dec("0.045"), Amount: dec("1125"), Status: domain.StatusPending}
	t.Settlement = domain.PayableLine{Status: domain.StatusNotApplicable}
	t.ManagerBonus = domain.PayableLine{Status: domain.StatusNotApplicable}
	return t
}
