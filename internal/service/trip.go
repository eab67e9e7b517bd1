// Package service contains the business logic for the commissions service.
// Services validate inputs, run the commission engine and orchestrate repo
// calls. No SQL lives here; services depend on repo interfaces.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/repo"
)

// Clock returns the current time. Statuses that depend on whether a date has
// passed are evaluated against it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// OperationInput carries the actual figures known once a trip has been operated.
// A nil ActualRevenue is derived from the quoted cost plus the actual profit.
type OperationInput struct {
	ActualProfit  decimal.Decimal
	ActualRevenue *decimal.Decimal
}

// TripService records trip facts and serves computed trips.
type TripService struct {
	repo     repo.TripRepo
	schedule commission.Schedule
	now      Clock
}

// NewTripService constructs a TripService.
func NewTripService(r repo.TripRepo, schedule commission.Schedule, now Clock) *TripService {
	return &TripService{repo: r, schedule: schedule, now: now}
}

// RecordSale validates the facts of a newly sold trip, computes its
// commissions and persists it. Any line state on the input is discarded.
func (s *TripService) RecordSale(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.Booking = strings.TrimSpace(trip.Booking)
	trip.Specialist = strings.TrimSpace(trip.Specialist)
	trip.Traveler = strings.TrimSpace(trip.Traveler)
	if trip.Original.Currency == "" {
		trip.Original.Currency = domain.CurrencyMXN
	}
	if trip.Original.ExchangeRate.IsZero() {
		trip.Original.ExchangeRate = decimal.NewFromInt(1)
	}
	if trip.Buyer == "" {
		trip.Buyer = trip.Traveler
	}
	if err := validateSale(trip); err != nil {
		return domain.Trip{}, err
	}

	trip.ID = uuid.Nil
	trip.Advance = domain.PayableLine{}
	trip.Settlement = domain.PayableLine{}
	trip.ManagerBonus = domain.PayableLine{}
	trip.Reviews.Count = min(trip.Reviews.Count, 3)
	trip = s.schedule.Refresh(trip, s.now())

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RecordSale: %w", err)
	}
	return created, nil
}

// RecordOperation sets the actual figures of a trip. It may be called once;
// actual figures are immutable afterwards.
func (s *TripService) RecordOperation(ctx context.Context, id uuid.UUID, op OperationInput) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RecordOperation: %w", err)
	}
	if trip.Operated() {
		return domain.Trip{}, fmt.Errorf("service.TripService.RecordOperation: %w: trip %s has already been operated", domain.ErrValidation, trip.Booking)
	}
	if op.ActualProfit.IsNegative() {
		return domain.Trip{}, fmt.Errorf("service.TripService.RecordOperation: %w: actual profit must not be negative", domain.ErrValidation)
	}

	revenue := trip.QuotedCost().Add(op.ActualProfit)
	if op.ActualRevenue != nil {
		if op.ActualRevenue.LessThan(op.ActualProfit) {
			return domain.Trip{}, fmt.Errorf("service.TripService.RecordOperation: %w: actual revenue must not be below actual profit", domain.ErrValidation)
		}
		revenue = *op.ActualRevenue
	}
	profit := op.ActualProfit
	trip.ActualProfit = &profit
	trip.ActualRevenue = &revenue

	trip = s.schedule.Refresh(trip, s.now())
	updated, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RecordOperation: %w", err)
	}
	return updated, nil
}

// RecordReviews replaces the review facts of a trip. Counts above three are
// stored as three.
func (s *TripService) RecordReviews(ctx context.Context, id uuid.UUID, reviews domain.Reviews) (domain.Trip, error) {
	if reviews.Count < 0 {
		return domain.Trip{}, fmt.Errorf("%w: review count must not be negative", domain.ErrValidation)
	}
	if len(reviews.Dates) > 3 {
		return domain.Trip{}, fmt.Errorf("%w: at most 3 review dates", domain.ErrValidation)
	}
	if reviews.AmountPaid.IsNegative() {
		return domain.Trip{}, fmt.Errorf("%w: amount paid must not be negative", domain.ErrValidation)
	}
	reviews.Count = min(reviews.Count, 3)

	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RecordReviews: %w", err)
	}
	trip.Reviews = reviews
	trip = s.schedule.Refresh(trip, s.now())
	if trip.ReviewBonus.AmountDue().IsNegative() {
		return domain.Trip{}, fmt.Errorf("%w: amount paid exceeds the review bonus of %s", domain.ErrValidation, trip.ReviewBonus.TotalCommission)
	}

	updated, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RecordReviews: %w", err)
	}
	return updated, nil
}

// GetByID returns a trip with statuses evaluated as of now.
// A non-admin actor asking for someone else's trip gets ErrNotFound.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID, actor domain.Actor) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	if own, scoped := actor.ScopedTo(); scoped && !strings.EqualFold(own, trip.Specialist) {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", domain.ErrNotFound)
	}
	return s.schedule.Refresh(trip, s.now()), nil
}

// List returns one page of trips sold or travelled in period (all trips when
// period is nil) that match f and that actor may see, most recent sale first.
func (s *TripService) List(ctx context.Context, f domain.TripFilter, period *domain.Period, actor domain.Actor, page domain.PageRequest) (domain.Page[domain.Trip], error) {
	trips, err := loadTrips(ctx, s.repo, s.schedule, s.now(), period, actor)
	if err != nil {
		return domain.Page[domain.Trip]{}, fmt.Errorf("service.TripService.List: %w", err)
	}
	return domain.Paginate(commission.Filter(trips, f, actor), page), nil
}

// validateSale enforces the invariants of a new trip's facts.
func validateSale(t domain.Trip) error {
	switch {
	case t.Booking == "":
		return fmt.Errorf("%w: booking is required", domain.ErrValidation)
	case t.Specialist == "":
		return fmt.Errorf("%w: specialist is required", domain.ErrValidation)
	case !t.Role.IsValid():
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, t.Role)
	case t.SaleDate.IsZero():
		return fmt.Errorf("%w: sale date is required", domain.ErrValidation)
	case t.TravelDate.IsZero():
		return fmt.Errorf("%w: travel date is required", domain.ErrValidation)
	case t.TravelDate.Before(t.SaleDate):
		return fmt.Errorf("%w: travel date must not be before sale date", domain.ErrValidation)
	case t.QuotedProfit.IsNegative():
		return fmt.Errorf("%w: quoted profit must not be negative", domain.ErrValidation)
	case t.QuotedRevenue.IsNegative():
		return fmt.Errorf("%w: quoted revenue must not be negative", domain.ErrValidation)
	case !t.Original.Currency.IsValid():
		return fmt.Errorf("%w: unknown currency %q", domain.ErrValidation, t.Original.Currency)
	case !t.Original.ExchangeRate.IsPositive():
		return fmt.Errorf("%w: exchange rate must be positive", domain.ErrValidation)
	case t.NPS < 0 || t.NPS > 10:
		return fmt.Errorf("%w: NPS must be between 0 and 10", domain.ErrValidation)
	case t.TravelDays < 0:
		return fmt.Errorf("%w: travel days must not be negative", domain.ErrValidation)
	case t.Reviews.Count < 0:
		return fmt.Errorf("%w: review count must not be negative", domain.ErrValidation)
	case len(t.Reviews.Dates) > 3:
		return fmt.Errorf("%w: at most 3 review dates", domain.ErrValidation)
	case t.ActualProfit != nil && t.ActualProfit.IsNegative():
		return fmt.Errorf("%w: actual profit must not be negative", domain.ErrValidation)
	case t.ActualRevenue != nil && t.ActualProfit == nil:
		return fmt.Errorf("%w: actual revenue given without actual profit", domain.ErrValidation)
	}
	return nil
}

// loadTrips fetches the trips sold or travelled in window and refreshes them
// as of asOf. A scoped actor is pushed down to the query.
func loadTrips(ctx context.Context, r repo.TripRepo, schedule commission.Schedule, asOf time.Time, window *domain.Period, actor domain.Actor) ([]domain.Trip, error) {
	q := repo.TripQuery{Window: window}
	if own, scoped := actor.ScopedTo(); scoped {
		q.Specialist = own
	}
	trips, err := r.List(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if window != nil && !commission.SoldOrTravelledIn(t, *window) {
			continue
		}
		out = append(out, schedule.Refresh(t, asOf))
	}
	return out, nil
}
