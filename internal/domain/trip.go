// Package domain contains the core data types for the commissions service.
// It depends only on value libraries (uuid, decimal) and is imported by every
// other internal package (commission, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is the part a salesperson played on a trip.
type Role string

const (
	RoleSpecialist Role = "Especialista"
	RoleSupport    Role = "Apoyo"
	RoleBookings   Role = "Reservas"
	RoleFollowUp   Role = "Seguimiento"
	RoleTripbook   Role = "Tripbook"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleSpecialist, RoleSupport, RoleBookings, RoleFollowUp, RoleTripbook:
		return true
	}
	return false
}

// Currency is the ISO code of the currency a trip was quoted in.
type Currency string

const (
	CurrencyMXN Currency = "MXN"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// IsValid reports whether c is one of the supported currencies.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyMXN, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// Regime names the commission schedule a trip was sold under.
type Regime string

const (
	RegimeLegacy  Regime = "legacy"
	RegimeCurrent Regime = "current"
)

// CurrencySnapshot records the original-currency revenue and the exchange
// rate at quote time. Amount × ExchangeRate approximates QuotedRevenue.
type CurrencySnapshot struct {
	Amount       decimal.Decimal
	Currency     Currency
	ExchangeRate decimal.Decimal
}

// Converted returns Amount in the reporting currency.
func (c CurrencySnapshot) Converted() decimal.Decimal {
	return c.Amount.Mul(c.ExchangeRate)
}

// Reviews holds the customer review facts for a trip.
// Count is capped at 3 (3 means "3 or more"); Dates has at most 3 entries.
type Reviews struct {
	Count      int
	Dates      []time.Time
	AmountPaid decimal.Decimal
}

// PayableLine is one approvable monetary item on a trip.
// RejectionNote is set only while Status is rejected, PostponementNote only
// while Status is postponed.
type PayableLine struct {
	Percentage       decimal.Decimal
	Amount           decimal.Decimal
	Status           PayableStatus
	RejectionNote    string
	PostponementNote string
	PaidAt           *time.Time
}

// Approved reports whether the line has been approved, whether or not it has
// since been paid.
func (l PayableLine) Approved() bool {
	return l.Status == StatusApproved || l.Status == StatusPaid
}

// Payable returns the amount owed right now: the line amount when approved
// and not yet paid, zero otherwise.
func (l PayableLine) Payable() decimal.Decimal {
	if l.Status == StatusApproved {
		return l.Amount
	}
	return decimal.Zero
}

// ReviewBonus is derived from the review facts and the trip's schema.
// It is never mutated directly.
type ReviewBonus struct {
	Count           int
	Dates           []time.Time
	TotalCommission decimal.Decimal
	AmountPaid      decimal.Decimal
}

// AmountDue is the part of the bonus not yet paid out.
func (b ReviewBonus) AmountDue() decimal.Decimal {
	return b.TotalCommission.Sub(b.AmountPaid)
}

// Trip is one sold travel booking and the commissions derived from it.
// It is the aggregate root: payable lines belong exclusively to their trip.
type Trip struct {
	ID         uuid.UUID
	Booking    string
	SaleDate   time.Time
	TravelDate time.Time
	Traveler   string
	Specialist string
	Role       Role
	Buyer      string

	// AppliesManagerBonus marks trips in a managed market where the manager
	// is not the specialist of record.
	AppliesManagerBonus bool

	QuotedProfit  decimal.Decimal
	ActualProfit  *decimal.Decimal // nil until the trip has been operated
	QuotedRevenue decimal.Decimal
	ActualRevenue *decimal.Decimal
	Original      CurrencySnapshot

	NPS        int
	TravelDays int
	Reviews    Reviews

	Regime       Regime
	Advance      PayableLine
	Settlement   PayableLine
	ManagerBonus PayableLine
	ReviewBonus  ReviewBonus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Operated reports whether the trip's actual figures are known.
func (t Trip) Operated() bool {
	return t.ActualProfit != nil
}

// QuotedCost is quoted revenue minus quoted profit.
func (t Trip) QuotedCost() decimal.Decimal {
	return t.QuotedRevenue.Sub(t.QuotedProfit)
}

// ActualCost is actual revenue minus actual profit, or nil before operation.
func (t Trip) ActualCost() *decimal.Decimal {
	if t.ActualRevenue == nil || t.ActualProfit == nil {
		return nil
	}
	c := t.ActualRevenue.Sub(*t.ActualProfit)
	return &c
}

// ActualProfitOrZero returns the actual profit, treating "not operated" as zero.
// Use it only for sums; absence is not the same as zero profit.
func (t Trip) ActualProfitOrZero() decimal.Decimal {
	if t.ActualProfit == nil {
		return decimal.Zero
	}
	return *t.ActualProfit
}

// Line returns the payable line named n.
func (t Trip) Line(n LineName) PayableLine {
	switch n {
	case LineSettlement:
		return t.Settlement
	case LineManagerBonus:
		return t.ManagerBonus
	default:
		return t.Advance
	}
}

// WithLine returns a copy of t with line n replaced by l.
func (t Trip) WithLine(n LineName, l PayableLine) Trip {
	switch n {
	case LineAdvance:
		t.Advance = l
	case LineSettlement:
		t.Settlement = l
	case LineManagerBonus:
		t.ManagerBonus = l
	}
	return t
}

// AmountCurrentlyPayable sums the approved-but-unpaid amounts of all three
// lines. Paid lines have already been disbursed and are excluded.
func (t Trip) AmountCurrentlyPayable() decimal.Decimal {
	return t.Advance.Payable().
		Add(t.Settlement.Payable()).
		Add(t.ManagerBonus.Payable())
}
