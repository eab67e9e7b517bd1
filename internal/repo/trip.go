// Package repo contains all database access logic for the commissions service.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation is the Postgres SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// TripQuery narrows List. The zero value returns every trip.
type TripQuery struct {
	// Window keeps trips whose sale date or travel date falls inside it.
	// Exact windowing is left to the commission engine.
	Window *domain.Period
	// Specialist is a case-insensitive exact match.
	Specialist string
}

// TripRepo defines the persistence operations for trips.
// Trips are a permanent ledger: there is no Delete.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record.
	// Returns domain.ErrConflict if the booking code is already taken.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetByBooking returns domain.ErrNotFound if the booking code is unknown.
	GetByBooking(ctx context.Context, booking string) (domain.Trip, error)

	// List returns matching trips ordered by sale_date descending.
	List(ctx context.Context, q TripQuery) ([]domain.Trip, error)

	// Update overwrites every stored field of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// tripColumns is the select list scanTrip expects, in order.
// Numerics are read as text so they round-trip through decimal.Decimal exactly.
const tripColumns = `
	id, booking, sale_date, travel_date, traveler, specialist, role, buyer, applies_manager_bonus,
	quoted_profit::text, actual_profit::text, quoted_revenue::text, actual_revenue::text,
	original_amount::text, original_currency, exchange_rate::text, nps, travel_days,
	review_count, review_dates, review_amount_paid::text, review_bonus_total::text,
	regime,
	advance_percentage::text, advance_amount::text, advance_status,
	advance_rejection_note, advance_postponement_note, advance_paid_at,
	settlement_percentage::text, settlement_amount::text, settlement_status,
	settlement_rejection_note, settlement_postponement_note, settlement_paid_at,
	manager_bonus_percentage::text, manager_bonus_amount::text, manager_bonus_status,
	manager_bonus_rejection_note, manager_bonus_postponement_note, manager_bonus_paid_at,
	created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	q := `
		INSERT INTO trips (
			id, booking, sale_date, travel_date, traveler, specialist, role, buyer, applies_manager_bonus,
			quoted_profit, actual_profit, quoted_revenue, actual_revenue,
			original_amount, original_currency, exchange_rate, nps, travel_days,
			review_count, review_dates, review_amount_paid, review_bonus_total,
			regime,
			advance_percentage, advance_amount, advance_status,
			advance_rejection_note, advance_postponement_note, advance_paid_at,
			settlement_percentage, settlement_amount, settlement_status,
			settlement_rejection_note, settlement_postponement_note, settlement_paid_at,
			manager_bonus_percentage, manager_bonus_amount, manager_bonus_status,
			manager_bonus_rejection_note, manager_bonus_postponement_note, manager_bonus_paid_at
		) VALUES (
			@id, @booking, @sale_date, @travel_date, @traveler, @specialist, @role, @buyer, @applies_manager_bonus,
			@quoted_profit, @actual_profit, @quoted_revenue, @actual_revenue,
			@original_amount, @original_currency, @exchange_rate, @nps, @travel_days,
			@review_count, @review_dates, @review_amount_paid, @review_bonus_total,
			@regime,
			@advance_percentage, @advance_amount, @advance_status,
			@advance_rejection_note, @advance_postponement_note, @advance_paid_at,
			@settlement_percentage, @settlement_amount, @settlement_status,
			@settlement_rejection_note, @settlement_postponement_note, @settlement_paid_at,
			@manager_bonus_percentage, @manager_bonus_amount, @manager_bonus_status,
			@manager_bonus_rejection_note, @manager_bonus_postponement_note, @manager_bonus_paid_at
		)
		RETURNING ` + tripColumns

	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByBooking retrieves a trip by its booking code.
func (r *pgTripRepo) GetByBooking(ctx context.Context, booking string) (domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE booking = @booking`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"booking": booking})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByBooking: %w", err)
	}
	return result, nil
}

// List returns trips matching q, most recent sale first.
func (r *pgTripRepo) List(ctx context.Context, tq TripQuery) ([]domain.Trip, error) {
	q := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE (NOT @windowed
		       OR (sale_date   >= @start AND sale_date   < @end)
		       OR (travel_date >= @start AND travel_date < @end))
		  AND (@specialist = '' OR lower(specialist) = lower(@specialist))
		ORDER BY sale_date DESC, booking`

	args := pgx.NamedArgs{
		"windowed":   tq.Window != nil,
		"start":      time.Time{},
		"end":        time.Time{},
		"specialist": tq.Specialist,
	}
	if tq.Window != nil {
		args["start"] = tq.Window.Start
		args["end"] = tq.Window.End
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, nil
}

// Update overwrites a trip row and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	q := `
		UPDATE trips
		SET booking                         = @booking,
		    sale_date                       = @sale_date,
		    travel_date                     = @travel_date,
		    traveler                        = @traveler,
		    specialist                      = @specialist,
		    role                            = @role,
		    buyer                           = @buyer,
		    applies_manager_bonus           = @applies_manager_bonus,
		    quoted_profit                   = @quoted_profit,
		    actual_profit                   = @actual_profit,
		    quoted_revenue                  = @quoted_revenue,
		    actual_revenue                  = @actual_revenue,
		    original_amount                 = @original_amount,
		    original_currency               = @original_currency,
		    exchange_rate                   = @exchange_rate,
		    nps                             = @nps,
		    travel_days                     = @travel_days,
		    review_count                    = @review_count,
		    review_dates                    = @review_dates,
		    review_amount_paid              = @review_amount_paid,
		    review_bonus_total              = @review_bonus_total,
		    regime                          = @regime,
		    advance_percentage              = @advance_percentage,
		    advance_amount                  = @advance_amount,
		    advance_status                  = @advance_status,
		    advance_rejection_note          = @advance_rejection_note,
		    advance_postponement_note       = @advance_postponement_note,
		    advance_paid_at                 = @advance_paid_at,
		    settlement_percentage           = @settlement_percentage,
		    settlement_amount               = @settlement_amount,
		    settlement_status               = @settlement_status,
		    settlement_rejection_note       = @settlement_rejection_note,
		    settlement_postponement_note    = @settlement_postponement_note,
		    settlement_paid_at              = @settlement_paid_at,
		    manager_bonus_percentage        = @manager_bonus_percentage,
		    manager_bonus_amount            = @manager_bonus_amount,
		    manager_bonus_status            = @manager_bonus_status,
		    manager_bonus_rejection_note    = @manager_bonus_rejection_note,
		    manager_bonus_postponement_note = @manager_bonus_postponement_note,
		    manager_bonus_paid_at           = @manager_bonus_paid_at,
		    updated_at                      = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", mapWriteError(err))
	}
	return result, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: booking already exists", domain.ErrConflict)
	}
	return err
}

func tripArgs(t domain.Trip) pgx.NamedArgs {
	reviewDates := t.Reviews.Dates
	if reviewDates == nil {
		reviewDates = []time.Time{}
	}
	args := pgx.NamedArgs{
		"id":                    t.ID,
		"booking":               t.Booking,
		"sale_date":             t.SaleDate,
		"travel_date":           t.TravelDate,
		"traveler":              t.Traveler,
		"specialist":            t.Specialist,
		"role":                  string(t.Role),
		"buyer":                 t.Buyer,
		"applies_manager_bonus": t.AppliesManagerBonus,
		"quoted_profit":         t.QuotedProfit.String(),
		"actual_profit":         optionalNumeric(t.ActualProfit),
		"quoted_revenue":        t.QuotedRevenue.String(),
		"actual_revenue":        optionalNumeric(t.ActualRevenue),
		"original_amount":       t.Original.Amount.String(),
		"original_currency":     string(t.Original.Currency),
		"exchange_rate":         t.Original.ExchangeRate.String(),
		"nps":                   t.NPS,
		"travel_days":           t.TravelDays,
		"review_count":          t.Reviews.Count,
		"review_dates":          reviewDates,
		"review_amount_paid":    t.Reviews.AmountPaid.String(),
		"review_bonus_total":    t.ReviewBonus.TotalCommission.String(),
		"regime":                string(t.Regime),
	}
	for _, name := range domain.Lines {
		l := t.Line(name)
		prefix := string(name) + "_"
		args[prefix+"percentage"] = l.Percentage.String()
		args[prefix+"amount"] = l.Amount.String()
		args[prefix+"status"] = string(lineStatus(l.Status))
		args[prefix+"rejection_note"] = l.RejectionNote
		args[prefix+"postponement_note"] = l.PostponementNote
		args[prefix+"paid_at"] = l.PaidAt
	}
	if t.Original.Currency == "" {
		args["original_currency"] = string(domain.CurrencyMXN)
	}
	if t.Original.ExchangeRate.IsZero() {
		args["exchange_rate"] = "1"
	}
	return args
}

func lineStatus(s domain.PayableStatus) domain.PayableStatus {
	if s == "" {
		return domain.StatusNotApplicable
	}
	return s
}

func optionalNumeric(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// lineRow holds the raw columns of one payable line.
type lineRow struct {
	percentage       string
	amount           string
	status           string
	rejectionNote    string
	postponementNote string
	paidAt           *time.Time
}

func (l *lineRow) dest() []any {
	return []any{&l.percentage, &l.amount, &l.status, &l.rejectionNote, &l.postponementNote, &l.paidAt}
}

func (l lineRow) toDomain() (domain.PayableLine, error) {
	pct, err := decimal.NewFromString(l.percentage)
	if err != nil {
		return domain.PayableLine{}, fmt.Errorf("percentage: %w", err)
	}
	amt, err := decimal.NewFromString(l.amount)
	if err != nil {
		return domain.PayableLine{}, fmt.Errorf("amount: %w", err)
	}
	out := domain.PayableLine{
		Percentage:       pct,
		Amount:           amt,
		Status:           domain.PayableStatus(l.status),
		RejectionNote:    l.rejectionNote,
		PostponementNote: l.postponementNote,
	}
	if l.paidAt != nil {
		paid := l.paidAt.UTC()
		out.PaidAt = &paid
	}
	return out, nil
}

// scanTrip maps a single database row selected with tripColumns into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t                                                 domain.Trip
		id                                                pgtype.UUID
		role, currency, regime                            string
		quotedProfit, quotedRevenue, originalAmount, rate string
		actualProfit, actualRevenue                       *string
		reviewAmountPaid, reviewBonusTotal                string
		advance, settlement, managerBonus                 lineRow
	)

	dest := []any{
		&id, &t.Booking, &t.SaleDate, &t.TravelDate, &t.Traveler, &t.Specialist, &role, &t.Buyer, &t.AppliesManagerBonus,
		&quotedProfit, &actualProfit, &quotedRevenue, &actualRevenue,
		&originalAmount, &currency, &rate, &t.NPS, &t.TravelDays,
		&t.Reviews.Count, &t.Reviews.Dates, &reviewAmountPaid, &reviewBonusTotal,
		&regime,
	}
	dest = append(dest, advance.dest()...)
	dest = append(dest, settlement.dest()...)
	dest = append(dest, managerBonus.dest()...)
	dest = append(dest, &t.CreatedAt, &t.UpdatedAt)

	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.Role = domain.Role(role)
	t.Regime = domain.Regime(regime)
	t.Original.Currency = domain.Currency(currency)
	t.SaleDate = t.SaleDate.UTC()
	t.TravelDate = t.TravelDate.UTC()
	for i := range t.Reviews.Dates {
		t.Reviews.Dates[i] = t.Reviews.Dates[i].UTC()
	}

	var err error
	numerics := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{quotedProfit, &t.QuotedProfit},
		{quotedRevenue, &t.QuotedRevenue},
		{originalAmount, &t.Original.Amount},
		{rate, &t.Original.ExchangeRate},
		{reviewAmountPaid, &t.Reviews.AmountPaid},
		{reviewBonusTotal, &t.ReviewBonus.TotalCommission},
	}
	for _, n := range numerics {
		if *n.dst, err = decimal.NewFromString(n.raw); err != nil {
			return domain.Trip{}, fmt.Errorf("parse numeric: %w", err)
		}
	}
	if t.ActualProfit, err = parseOptional(actualProfit); err != nil {
		return domain.Trip{}, fmt.Errorf("parse actual_profit: %w", err)
	}
	if t.ActualRevenue, err = parseOptional(actualRevenue); err != nil {
		return domain.Trip{}, fmt.Errorf("parse actual_revenue: %w", err)
	}

	if t.Advance, err = advance.toDomain(); err != nil {
		return domain.Trip{}, fmt.Errorf("advance: %w", err)
	}
	if t.Settlement, err = settlement.toDomain(); err != nil {
		return domain.Trip{}, fmt.Errorf("settlement: %w", err)
	}
	if t.ManagerBonus, err = managerBonus.toDomain(); err != nil {
		return domain.Trip{}, fmt.Errorf("manager bonus: %w", err)
	}

	t.ReviewBonus.Count = t.Reviews.Count
	t.ReviewBonus.Dates = t.Reviews.Dates
	t.ReviewBonus.AmountPaid = t.Reviews.AmountPaid

	return t, nil
}

func parseOptional(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
