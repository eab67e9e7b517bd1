package commission

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// MaxHistoryMonths bounds how far back MonthlyHistory may reach.
const MaxHistoryMonths = 36

// MonthlyHistory returns one totals row per calendar month for the months
// ending with (and including) the month of end, oldest first. Months are
// reduced concurrently; trips is read-only so the reductions share it.
func MonthlyHistory(ctx context.Context, trips []domain.Trip, end time.Time, months int, scope Scope) ([]domain.MonthlyTotals, error) {
	if months < 1 || months > MaxHistoryMonths {
		return nil, fmt.Errorf("%w: months must be between 1 and %d", domain.ErrValidation, MaxHistoryMonths)
	}

	last := domain.MonthPeriod(end.Year(), end.Month())
	out := make([]domain.MonthlyTotals, months)

	g, ctx := errgroup.WithContext(ctx)
	for i := range months {
		period := domain.MonthPeriod(last.Start.Year(), last.Start.Month()-time.Month(months-1-i))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h := Highlights(trips, period, scope)
			out[i] = domain.MonthlyTotals{
				Year:        period.Start.Year(),
				Month:       period.Start.Month(),
				Advances:    h.AdvancesPaid,
				Settlements: h.SettlementsPaid,
				ReviewBonus: h.ReviewBonusTotal,
				Total:       h.GrandTotal,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("commission.MonthlyHistory: %w", err)
	}
	return out, nil
}
