package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Highlights is the headline summary for a period.
// The three *Paid sums count only lines in the paid status.
type Highlights struct {
	AdvancesPaid     decimal.Decimal
	TripsSold        int
	SettlementsPaid  decimal.Decimal
	TripsOperated    int
	ReviewBonusTotal decimal.Decimal
	ReviewsTotal     int
	GrandTotal       decimal.Decimal
}

// PrimaryBonusSummary covers the advance and settlement program.
type PrimaryBonusSummary struct {
	TripsSold       int
	TripsOperated   int
	QuotedProfit    decimal.Decimal
	AdvanceTotal    decimal.Decimal
	ActualProfit    decimal.Decimal
	SettlementTotal decimal.Decimal
	AmountPayable   decimal.Decimal
}

// ReviewBonusSummary buckets trips by review count.
type ReviewBonusSummary struct {
	OneReview       int
	TwoReviews      int
	ThreeOrMore     int
	TotalCommission decimal.Decimal
}

// ManagerBonusSummary covers trips in a managed market.
type ManagerBonusSummary struct {
	Trips           int
	TripsOperated   int
	ActualProfit    decimal.Decimal
	TotalCommission decimal.Decimal
	AmountPayable   decimal.Decimal
}

// MonthlyTotals is one point of the historic chart.
type MonthlyTotals struct {
	Year        int
	Month       time.Month
	Advances    decimal.Decimal
	Settlements decimal.Decimal
	ReviewBonus decimal.Decimal
	Total       decimal.Decimal
}
