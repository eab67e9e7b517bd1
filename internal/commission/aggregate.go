package commission

import (
	"github.com/shopspring/decimal"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// Highlights, PrimaryBonus and ReviewBonus window trips by sale date.
// ManagerBonus windows by sale date or travel date, since a manager's bonus
// accrues when the trip is operated and a trip sold in one month often travels
// in another. All four are pure reductions: empty input yields zero values.

// Highlights sums what has actually been paid in p.
func Highlights(trips []domain.Trip, p domain.Period, scope Scope) domain.Highlights {
	h := domain.Highlights{
		AdvancesPaid:     decimal.Zero,
		SettlementsPaid:  decimal.Zero,
		ReviewBonusTotal: decimal.Zero,
	}
	for _, t := range window(trips, p, scope, SoldIn) {
		h.TripsSold++
		if t.Operated() {
			h.TripsOperated++
		}
		if t.Advance.Status == domain.StatusPaid {
			h.AdvancesPaid = h.AdvancesPaid.Add(t.Advance.Amount)
		}
		if t.Settlement.Status == domain.StatusPaid {
			h.SettlementsPaid = h.SettlementsPaid.Add(t.Settlement.Amount)
		}
		h.ReviewBonusTotal = h.ReviewBonusTotal.Add(t.ReviewBonus.TotalCommission)
		h.ReviewsTotal += t.ReviewBonus.Count
	}
	h.GrandTotal = h.AdvancesPaid.Add(h.SettlementsPaid).Add(h.ReviewBonusTotal)
	return h
}

// PrimaryBonus summarizes the advance and settlement program in p.
// AmountPayable counts approved, not yet paid, advance and settlement lines.
func PrimaryBonus(trips []domain.Trip, p domain.Period, scope Scope) domain.PrimaryBonusSummary {
	s := domain.PrimaryBonusSummary{
		QuotedProfit:    decimal.Zero,
		AdvanceTotal:    decimal.Zero,
		ActualProfit:    decimal.Zero,
		SettlementTotal: decimal.Zero,
		AmountPayable:   decimal.Zero,
	}
	for _, t := range window(trips, p, scope, SoldIn) {
		s.TripsSold++
		if t.Operated() {
			s.TripsOperated++
		}
		s.QuotedProfit = s.QuotedProfit.Add(t.QuotedProfit)
		s.AdvanceTotal = s.AdvanceTotal.Add(t.Advance.Amount)
		s.ActualProfit = s.ActualProfit.Add(t.ActualProfitOrZero())
		s.SettlementTotal = s.SettlementTotal.Add(t.Settlement.Amount)
		s.AmountPayable = s.AmountPayable.Add(t.Advance.Payable()).Add(t.Settlement.Payable())
	}
	return s
}

// ReviewBonus buckets the trips sold in p by review count.
func ReviewBonus(trips []domain.Trip, p domain.Period, scope Scope) domain.ReviewBonusSummary {
	s := domain.ReviewBonusSummary{TotalCommission: decimal.Zero}
	for _, t := range window(trips, p, scope, SoldIn) {
		switch {
		case t.ReviewBonus.Count >= 3:
			s.ThreeOrMore++
		case t.ReviewBonus.Count == 2:
			s.TwoReviews++
		case t.ReviewBonus.Count == 1:
			s.OneReview++
		}
		s.TotalCommission = s.TotalCommission.Add(t.ReviewBonus.TotalCommission)
	}
	return s
}

// ManagerBonus summarizes trips in a managed market sold or travelled in p.
func ManagerBonus(trips []domain.Trip, p domain.Period, scope Scope) domain.ManagerBonusSummary {
	s := domain.ManagerBonusSummary{
		ActualProfit:    decimal.Zero,
		TotalCommission: decimal.Zero,
		AmountPayable:   decimal.Zero,
	}
	for _, t := range window(trips, p, scope, SoldOrTravelledIn) {
		if !t.AppliesManagerBonus {
			continue
		}
		s.Trips++
		if t.Operated() {
			s.TripsOperated++
		}
		s.ActualProfit = s.ActualProfit.Add(t.ActualProfitOrZero())
		s.TotalCommission = s.TotalCommission.Add(t.ManagerBonus.Amount)
		s.AmountPayable = s.AmountPayable.Add(t.ManagerBonus.Payable())
	}
	return s
}
