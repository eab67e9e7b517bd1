package commission

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// moneyPlaces is the number of decimal places kept on computed amounts.
const moneyPlaces = 2

// ComputeFinancials derives every computed field of t from its facts and the
// given schema and returns the updated trip. Facts are never touched.
//
// Line statuses that are unset or not applicable are (re)assigned as of asOf:
// pending once the line's trigger date has passed, not applicable otherwise.
// Statuses reached through a user action are kept. A settlement or manager
// bonus on a trip that has not been operated is always not applicable.
func ComputeFinancials(t domain.Trip, s Schema, asOf time.Time) domain.Trip {
	t.Regime = s.Regime

	t.Advance.Percentage = s.AdvancePercentage
	t.Advance.Amount = t.QuotedProfit.Mul(s.AdvancePercentage).Round(moneyPlaces)
	t.Advance = initialStatus(t.Advance, !t.SaleDate.After(asOf))

	t.Settlement.Percentage = s.SettlementPercentage
	if t.ActualProfit != nil {
		gross := t.ActualProfit.Mul(s.SettlementPercentage).Round(moneyPlaces)
		t.Settlement.Amount = decimal.Max(decimal.Zero, gross.Sub(t.Advance.Amount))
		t.Settlement = initialStatus(t.Settlement, !t.TravelDate.After(asOf))
	} else {
		t.Settlement.Amount = decimal.Zero
		t.Settlement = notApplicable(t.Settlement)
	}

	switch {
	case !t.AppliesManagerBonus:
		t.ManagerBonus.Percentage = decimal.Zero
		t.ManagerBonus.Amount = decimal.Zero
		t.ManagerBonus = notApplicable(t.ManagerBonus)
	case t.ActualProfit == nil:
		t.ManagerBonus.Percentage = s.ManagerBonusPercentage
		t.ManagerBonus.Amount = decimal.Zero
		t.ManagerBonus = notApplicable(t.ManagerBonus)
	default:
		t.ManagerBonus.Percentage = s.ManagerBonusPercentage
		t.ManagerBonus.Amount = t.ActualProfit.Mul(s.ManagerBonusPercentage).Round(moneyPlaces)
		t.ManagerBonus = initialStatus(t.ManagerBonus, !t.TravelDate.After(asOf))
	}

	t.ReviewBonus = computeReviewBonus(t.Reviews, s)
	return t
}

// Refresh re-resolves the schema for t's sale date and recomputes it.
func (s Schedule) Refresh(t domain.Trip, asOf time.Time) domain.Trip {
	return ComputeFinancials(t, s.Resolve(t.SaleDate), asOf)
}

func computeReviewBonus(r domain.Reviews, s Schema) domain.ReviewBonus {
	count := min(max(r.Count, 0), 3)
	dates := r.Dates
	if len(dates) > 3 {
		dates = dates[:3]
	}
	return domain.ReviewBonus{
		Count:           count,
		Dates:           dates,
		TotalCommission: s.ReviewBonus(count),
		AmountPaid:      r.AmountPaid,
	}
}

func initialStatus(l domain.PayableLine, due bool) domain.PayableLine {
	if l.Status != "" && l.Status != domain.StatusNotApplicable {
		return l
	}
	if due {
		l.Status = domain.StatusPending
	} else {
		l.Status = domain.StatusNotApplicable
	}
	l.RejectionNote = ""
	l.PostponementNote = ""
	return l
}

func notApplicable(l domain.PayableLine) domain.PayableLine {
	l.Status = domain.StatusNotApplicable
	l.RejectionNote = ""
	l.PostponementNote = ""
	l.PaidAt = nil
	return l
}
