package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExportRow is a single row in the commissions export.
// It is a flat view of one trip: facts, each payable line and the review bonus.
// Operated is false when the trip has no actual figures yet; ActualProfit is
// then zero and must not be read as a loss.
type ExportRow struct {
	Booking    string
	Traveler   string
	Specialist string
	Role       Role
	SaleDate   time.Time
	TravelDate time.Time
	Regime     Regime

	QuotedProfit decimal.Decimal
	ActualProfit decimal.Decimal
	Operated     bool

	AdvancePercentage decimal.Decimal
	AdvanceAmount     decimal.Decimal
	AdvanceStatus     PayableStatus

	SettlementPercentage decimal.Decimal
	SettlementAmount     decimal.Decimal
	SettlementStatus     PayableStatus

	ManagerBonusAmount decimal.Decimal
	ManagerBonusStatus PayableStatus

	ReviewCount     int
	ReviewBonus     decimal.Decimal
	ReviewAmountDue decimal.Decimal

	AmountPayable decimal.Decimal
}

// NewExportRow flattens a computed trip.
func NewExportRow(t Trip) ExportRow {
	return ExportRow{
		Booking:              t.Booking,
		Traveler:             t.Traveler,
		Specialist:           t.Specialist,
		Role:                 t.Role,
		SaleDate:             t.SaleDate,
		TravelDate:           t.TravelDate,
		Regime:               t.Regime,
		QuotedProfit:         t.QuotedProfit,
		ActualProfit:         t.ActualProfitOrZero(),
		Operated:             t.Operated(),
		AdvancePercentage:    t.Advance.Percentage,
		AdvanceAmount:        t.Advance.Amount,
		AdvanceStatus:        t.Advance.Status,
		SettlementPercentage: t.Settlement.Percentage,
		SettlementAmount:     t.Settlement.Amount,
		SettlementStatus:     t.Settlement.Status,
		ManagerBonusAmount:   t.ManagerBonus.Amount,
		ManagerBonusStatus:   t.ManagerBonus.Status,
		ReviewCount:          t.ReviewBonus.Count,
		ReviewBonus:          t.ReviewBonus.TotalCommission,
		ReviewAmountDue:      t.ReviewBonus.AmountDue(),
		AmountPayable:        t.AmountCurrentlyPayable(),
	}
}

// Statement is one specialist's commission statement for a period.
type Statement struct {
	Specialist  string
	Period      Period
	Rows        []ExportRow
	Highlights  Highlights
	GeneratedAt time.Time
}
