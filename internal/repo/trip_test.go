package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/repo"
	"github.com/edu-maass/comissions-dashboard/testutil"
)

// newTestRepo returns a TripRepo backed by a transaction that is rolled back
// when the test finishes.
func newTestRepo(t *testing.T) repo.TripRepo {
	t.Helper()
	return repo.NewTripRepo(testutil.NewTx(t))
}

// tripFixture returns an operated, computed legacy trip.
func tripFixture(booking string) domain.Trip {
	actual := decimal.RequireFromString("22000")
	revenue := decimal.RequireFromString("210000")
	trip := domain.Trip{
		Booking:             booking,
		SaleDate:            time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
		TravelDate:          time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC),
		Traveler:            "Ana López",
		Specialist:          "María García",
		Role:                domain.RoleSpecialist,
		Buyer:               "Ana López",
		AppliesManagerBonus: true,
		QuotedProfit:        decimal.RequireFromString("25000"),
		ActualProfit:        &actual,
		QuotedRevenue:       decimal.RequireFromString("200000"),
		ActualRevenue:       &revenue,
		Original: domain.CurrencySnapshot{
			Amount:       decimal.RequireFromString("10810.81"),
			Currency:     domain.CurrencyUSD,
			ExchangeRate: decimal.RequireFromString("18.5"),
		},
		NPS:        9,
		TravelDays: 10,
		Reviews: domain.Reviews{
			Count:      2,
			Dates:      []time.Time{time.Date(2024, 11, 14, 0, 0, 0, 0, time.UTC), time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)},
			AmountPaid: decimal.RequireFromString("250"),
		},
	}
	return commission.DefaultSchedule().Refresh(trip, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestTripRepo_Create(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	input := tripFixture("BK-REPO-1")
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, input.Booking, got.Booking)
	assert.True(t, got.SaleDate.Equal(input.SaleDate), "SaleDate mismatch")
	assert.True(t, got.QuotedProfit.Equal(input.QuotedProfit))
	require.NotNil(t, got.ActualProfit)
	assert.True(t, got.ActualProfit.Equal(*input.ActualProfit))
	assert.Equal(t, domain.CurrencyUSD, got.Original.Currency)
	assert.True(t, got.Original.ExchangeRate.Equal(input.Original.ExchangeRate))
	assert.Len(t, got.Reviews.Dates, 2)
	assert.Equal(t, domain.RegimeLegacy, got.Regime)
	assert.True(t, got.Advance.Amount.Equal(decimal.RequireFromString("1125")))
	assert.True(t, got.Settlement.Amount.Equal(decimal.RequireFromString("855")))
	assert.Equal(t, domain.StatusPending, got.Settlement.Status)
	assert.True(t, got.ReviewBonus.TotalCommission.Equal(decimal.RequireFromString("1250")))
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestTripRepo_Create_NotOperated(t *testing.T) {
	r := newTestRepo(t)

	input := tripFixture("BK-REPO-2")
	input.ActualProfit = nil
	input.ActualRevenue = nil
	input.Reviews = domain.Reviews{}

	got, err := r.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Nil(t, got.ActualProfit, "absent actual profit must stay absent, not zero")
	assert.Nil(t, got.ActualRevenue)
	assert.Empty(t, got.Reviews.Dates)
}

func TestTripRepo_Create_DuplicateBooking(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.Create(ctx, tripFixture("BK-DUP"))
	require.NoError(t, err)

	_, err = r.Create(ctx, tripFixture("BK-DUP"))
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestTripRepo_GetByID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture("BK-REPO-3"))
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Booking, got.Booking)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.GetByID(context.Background(), uuid.New())

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_GetByBooking(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture("BK-REPO-4"))
	require.NoError(t, err)

	got, err := r.GetByBooking(ctx, "BK-REPO-4")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = r.GetByBooking(ctx, "BK-NOPE")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_List(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	older := tripFixture("BK-LIST-OLD")
	older.SaleDate = time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	older.TravelDate = time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC)
	older.Specialist = "Luis Pérez"

	travelsInNov := tripFixture("BK-LIST-NOV")

	_, err := r.Create(ctx, older)
	require.NoError(t, err)
	_, err = r.Create(ctx, travelsInNov)
	require.NoError(t, err)

	all, err := r.List(ctx, repo.TripQuery{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 2)

	nov := domain.MonthPeriod(2024, time.November)
	windowed, err := r.List(ctx, repo.TripQuery{Window: &nov})
	require.NoError(t, err)
	assert.Equal(t, []string{"BK-LIST-NOV"}, bookings(windowed), "sale or travel date in window")

	luis, err := r.List(ctx, repo.TripQuery{Specialist: "luis pérez"})
	require.NoError(t, err)
	assert.Equal(t, []string{"BK-LIST-OLD"}, bookings(luis))
}

func TestTripRepo_Update(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture("BK-REPO-5"))
	require.NoError(t, err)

	approved, err := commission.Approve(created, domain.LineAdvance)
	require.NoError(t, err)
	paid, err := commission.MarkPaid(approved, domain.LineAdvance, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	rejected, err := commission.Reject(paid, domain.LineSettlement, "missing invoice")
	require.NoError(t, err)

	got, err := r.Update(ctx, rejected)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Advance.Status)
	require.NotNil(t, got.Advance.PaidAt)
	assert.True(t, got.Advance.PaidAt.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.StatusRejected, got.Settlement.Status)
	assert.Equal(t, "missing invoice", got.Settlement.RejectionNote)
	assert.False(t, got.UpdatedAt.Before(created.UpdatedAt))
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	r := newTestRepo(t)

	ghost := tripFixture("BK-GHOST")
	ghost.ID = uuid.New()

	_, err := r.Update(context.Background(), ghost)

	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- helpers ----

func bookings(trips []domain.Trip) []string {
	out := make([]string, 0, len(trips))
	for _, t := range trips {
		out = append(out, t.Booking)
	}
	return out
}
