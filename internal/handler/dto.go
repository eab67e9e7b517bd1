package handler

import (
	"errors"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// Amounts travel as JSON strings ("1125.50"); decimal.Decimal marshals that
// way and unmarshals from either strings or numbers.

type currencyJSON struct {
	Amount       decimal.Decimal `json:"amount"`
	Currency     domain.Currency `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

type reviewsRequest struct {
	Count      int                  `json:"count"`
	Dates      []openapi_types.Date `json:"dates"`
	AmountPaid decimal.Decimal      `json:"amount_paid"`
}

// saleRequest is the body of POST /trips.
type saleRequest struct {
	Booking             string             `json:"booking"`
	SaleDate            openapi_types.Date `json:"sale_date"`
	TravelDate          openapi_types.Date `json:"travel_date"`
	Traveler            string             `json:"traveler"`
	Specialist          string             `json:"specialist"`
	Role                domain.Role        `json:"role"`
	Buyer               string             `json:"buyer"`
	AppliesManagerBonus bool               `json:"applies_manager_bonus"`
	QuotedProfit        decimal.Decimal    `json:"quoted_profit"`
	QuotedRevenue       decimal.Decimal    `json:"quoted_revenue"`
	ActualProfit        *decimal.Decimal   `json:"actual_profit"`
	ActualRevenue       *decimal.Decimal   `json:"actual_revenue"`
	Original            *currencyJSON      `json:"original"`
	NPS                 int                `json:"nps"`
	TravelDays          int                `json:"travel_days"`
	Reviews             *reviewsRequest    `json:"reviews"`
}

func (req saleRequest) toDomain() domain.Trip {
	t := domain.Trip{
		Booking:             req.Booking,
		SaleDate:            req.SaleDate.Time,
		TravelDate:          req.TravelDate.Time,
		Traveler:            req.Traveler,
		Specialist:          req.Specialist,
		Role:                req.Role,
		Buyer:               req.Buyer,
		AppliesManagerBonus: req.AppliesManagerBonus,
		QuotedProfit:        req.QuotedProfit,
		QuotedRevenue:       req.QuotedRevenue,
		ActualProfit:        req.ActualProfit,
		ActualRevenue:       req.ActualRevenue,
		NPS:                 req.NPS,
		TravelDays:          req.TravelDays,
	}
	if t.Role == "" {
		t.Role = domain.RoleSpecialist
	}
	if req.Original != nil {
		t.Original = domain.CurrencySnapshot{
			Amount:       req.Original.Amount,
			Currency:     req.Original.Currency,
			ExchangeRate: req.Original.ExchangeRate,
		}
	}
	if req.Reviews != nil {
		t.Reviews = req.Reviews.toDomain()
	}
	return t
}

func (req reviewsRequest) toDomain() domain.Reviews {
	r := domain.Reviews{Count: req.Count, AmountPaid: req.AmountPaid}
	for _, d := range req.Dates {
		r.Dates = append(r.Dates, d.Time)
	}
	return r
}

// operationRequest is the body of PUT /trips/{id}/operation.
type operationRequest struct {
	ActualProfit  *decimal.Decimal `json:"actual_profit"`
	ActualRevenue *decimal.Decimal `json:"actual_revenue"`
}

// noteRequest is the body of reject and postpone.
type noteRequest struct {
	Note string `json:"note"`
}

// paymentRequest is the body of POST .../paid.
type paymentRequest struct {
	PaymentDate *openapi_types.Date `json:"payment_date"`
}

var errNoActualProfit = errors.New("actual_profit is required")

type lineResponse struct {
	Percentage       decimal.Decimal      `json:"percentage"`
	Amount           decimal.Decimal      `json:"amount"`
	Status           domain.PayableStatus `json:"status"`
	Display          domain.StatusDisplay `json:"display"`
	RejectionNote    string               `json:"rejection_note,omitempty"`
	PostponementNote string               `json:"postponement_note,omitempty"`
	PaidAt           *time.Time           `json:"paid_at,omitempty"`
	// Actions lists what the requesting actor may do next.
	Actions []commission.Action `json:"actions"`
}

type reviewBonusResponse struct {
	Count           int                  `json:"count"`
	Dates           []openapi_types.Date `json:"dates"`
	TotalCommission decimal.Decimal      `json:"total_commission"`
	AmountPaid      decimal.Decimal      `json:"amount_paid"`
	AmountDue       decimal.Decimal      `json:"amount_due"`
}

// tripResponse is the JSON shape of a computed trip.
type tripResponse struct {
	ID                  uuid.UUID           `json:"id"`
	Booking             string              `json:"booking"`
	SaleDate            openapi_types.Date  `json:"sale_date"`
	TravelDate          openapi_types.Date  `json:"travel_date"`
	Traveler            string              `json:"traveler"`
	Specialist          string              `json:"specialist"`
	Role                domain.Role         `json:"role"`
	Buyer               string              `json:"buyer"`
	AppliesManagerBonus bool                `json:"applies_manager_bonus"`
	Operated            bool                `json:"operated"`
	QuotedProfit        decimal.Decimal     `json:"quoted_profit"`
	QuotedRevenue       decimal.Decimal     `json:"quoted_revenue"`
	QuotedCost          decimal.Decimal     `json:"quoted_cost"`
	ActualProfit        *decimal.Decimal    `json:"actual_profit"`
	ActualRevenue       *decimal.Decimal    `json:"actual_revenue"`
	ActualCost          *decimal.Decimal    `json:"actual_cost"`
	Original            currencyJSON        `json:"original"`
	NPS                 int                 `json:"nps"`
	TravelDays          int                 `json:"travel_days"`
	Regime              domain.Regime       `json:"regime"`
	Advance             lineResponse        `json:"advance"`
	Settlement          lineResponse        `json:"settlement"`
	ManagerBonus        lineResponse        `json:"manager_bonus"`
	ReviewBonus         reviewBonusResponse `json:"review_bonus"`
	AmountPayable       decimal.Decimal     `json:"amount_payable"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

func tripToResponse(t domain.Trip, actor domain.Actor) tripResponse {
	return tripResponse{
		ID:                  t.ID,
		Booking:             t.Booking,
		SaleDate:            openapi_types.Date{Time: t.SaleDate},
		TravelDate:          openapi_types.Date{Time: t.TravelDate},
		Traveler:            t.Traveler,
		Specialist:          t.Specialist,
		Role:                t.Role,
		Buyer:               t.Buyer,
		AppliesManagerBonus: t.AppliesManagerBonus,
		Operated:            t.Operated(),
		QuotedProfit:        t.QuotedProfit,
		QuotedRevenue:       t.QuotedRevenue,
		QuotedCost:          t.QuotedCost(),
		ActualProfit:        t.ActualProfit,
		ActualRevenue:       t.ActualRevenue,
		ActualCost:          t.ActualCost(),
		Original: currencyJSON{
			Amount:       t.Original.Amount,
			Currency:     t.Original.Currency,
			ExchangeRate: t.Original.ExchangeRate,
		},
		NPS:          t.NPS,
		TravelDays:   t.TravelDays,
		Regime:       t.Regime,
		Advance:      lineToResponse(t.Advance, actor),
		Settlement:   lineToResponse(t.Settlement, actor),
		ManagerBonus: lineToResponse(t.ManagerBonus, actor),
		ReviewBonus: reviewBonusResponse{
			Count:           t.ReviewBonus.Count,
			Dates:           datesToResponse(t.ReviewBonus.Dates),
			TotalCommission: t.ReviewBonus.TotalCommission,
			AmountPaid:      t.ReviewBonus.AmountPaid,
			AmountDue:       t.ReviewBonus.AmountDue(),
		},
		AmountPayable: t.AmountCurrentlyPayable(),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func lineToResponse(l domain.PayableLine, actor domain.Actor) lineResponse {
	out := lineResponse{
		Percentage:       l.Percentage,
		Amount:           l.Amount,
		Status:           l.Status,
		Display:          l.Status.Display(),
		RejectionNote:    l.RejectionNote,
		PostponementNote: l.PostponementNote,
		PaidAt:           l.PaidAt,
		Actions:          []commission.Action{},
	}
	for _, a := range commission.PermittedActions(l.Status) {
		if !actor.IsAdmin && (a == commission.ActionPostpone || a == commission.ActionMarkPaid) {
			continue
		}
		out.Actions = append(out.Actions, a)
	}
	return out
}

func datesToResponse(ds []time.Time) []openapi_types.Date {
	out := make([]openapi_types.Date, 0, len(ds))
	for _, d := range ds {
		out = append(out, openapi_types.Date{Time: d})
	}
	return out
}

// pagination mirrors domain.Page without the items.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type tripListResponse struct {
	Data       []tripResponse `json:"data"`
	Pagination pagination     `json:"pagination"`
}

type periodResponse struct {
	From openapi_types.Date `json:"from"`
	// To is the last day inside the period.
	To openapi_types.Date `json:"to"`
}

func periodToResponse(p domain.Period) periodResponse {
	return periodResponse{
		From: openapi_types.Date{Time: p.Start},
		To:   openapi_types.Date{Time: p.End.AddDate(0, 0, -1)},
	}
}

type highlightsResponse struct {
	Period           periodResponse  `json:"period"`
	AdvancesPaid     decimal.Decimal `json:"advances_paid"`
	TripsSold        int             `json:"trips_sold"`
	SettlementsPaid  decimal.Decimal `json:"settlements_paid"`
	TripsOperated    int             `json:"trips_operated"`
	ReviewBonusTotal decimal.Decimal `json:"review_bonus_total"`
	ReviewsTotal     int             `json:"reviews_total"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
}

type primaryBonusResponse struct {
	Period          periodResponse  `json:"period"`
	TripsSold       int             `json:"trips_sold"`
	TripsOperated   int             `json:"trips_operated"`
	QuotedProfit    decimal.Decimal `json:"quoted_profit"`
	AdvanceTotal    decimal.Decimal `json:"advance_total"`
	ActualProfit    decimal.Decimal `json:"actual_profit"`
	SettlementTotal decimal.Decimal `json:"settlement_total"`
	AmountPayable   decimal.Decimal `json:"amount_payable"`
}

type reviewBonusSummaryResponse struct {
	Period          periodResponse  `json:"period"`
	OneReview       int             `json:"one_review"`
	TwoReviews      int             `json:"two_reviews"`
	ThreeOrMore     int             `json:"three_or_more"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}

type managerBonusResponse struct {
	Period          periodResponse  `json:"period"`
	Trips           int             `json:"trips"`
	TripsOperated   int             `json:"trips_operated"`
	ActualProfit    decimal.Decimal `json:"actual_profit"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	AmountPayable   decimal.Decimal `json:"amount_payable"`
}

type monthlyTotalsResponse struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Advances    decimal.Decimal `json:"advances"`
	Settlements decimal.Decimal `json:"settlements"`
	ReviewBonus decimal.Decimal `json:"review_bonus"`
	Total       decimal.Decimal `json:"total"`
}

type schemaResponse struct {
	Regime                 domain.Regime       `json:"regime"`
	EffectiveFrom          *openapi_types.Date `json:"effective_from"`
	AdvancePercentage      decimal.Decimal     `json:"advance_percentage"`
	SettlementPercentage   decimal.Decimal     `json:"settlement_percentage"`
	ManagerBonusPercentage decimal.Decimal     `json:"manager_bonus_percentage"`
	ReviewTiers            []decimal.Decimal   `json:"review_tiers"`
}

func schemaToResponse(s commission.Schema) schemaResponse {
	out := schemaResponse{
		Regime:                 s.Regime,
		AdvancePercentage:      s.AdvancePercentage,
		SettlementPercentage:   s.SettlementPercentage,
		ManagerBonusPercentage: s.ManagerBonusPercentage,
		ReviewTiers:            s.ReviewTiers[:],
	}
	if !s.EffectiveFrom.IsZero() {
		out.EffectiveFrom = &openapi_types.Date{Time: s.EffectiveFrom}
	}
	return out
}

type importResponse struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []importRowError `json:"errors"`
}

type importRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}
