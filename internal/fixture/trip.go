// Package fixture builds deterministic trip facts for tests and demo seeding.
// Production code never generates trips; it imports them.
package fixture

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

var (
	specialists = []string{"María García", "Luis Pérez", "Ana Martínez", "Carlos Romero", "Lucía Fernández"}
	travelers   = []string{"Jorge Ruiz", "Sofía Torres", "Pedro Díaz", "Elena Vega", "Diego Navarro", "Valeria Soto", "Andrés Molina", "Camila Reyes"}
	roles       = []domain.Role{domain.RoleSpecialist, domain.RoleSupport, domain.RoleBookings, domain.RoleFollowUp, domain.RoleTripbook}
	currencies  = []domain.Currency{domain.CurrencyMXN, domain.CurrencyUSD, domain.CurrencyEUR}
	rates       = map[domain.Currency]decimal.Decimal{
		domain.CurrencyMXN: decimal.NewFromInt(1),
		domain.CurrencyUSD: decimal.RequireFromString("18.50"),
		domain.CurrencyEUR: decimal.RequireFromString("20.10"),
	}
)

// TripFactory produces trip facts from a seeded source. Two factories with the
// same seed produce the same trips. A TripFactory is not safe for concurrent use.
type TripFactory struct {
	seed uint64
	rnd  *rand.Rand
	from time.Time
	days int
	seq  int
}

// NewTripFactory returns a factory whose sale dates span 2024 and 2025, so
// roughly half of the trips fall under each commission regime.
func NewTripFactory(seed uint64) *TripFactory {
	return &TripFactory{
		seed: seed,
		rnd:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		from: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		days: 731,
	}
}

// Trip returns the next trip. Only facts are set; lines and bonuses are left
// for the commission engine.
func (f *TripFactory) Trip() domain.Trip {
	f.seq++
	sale := f.from.AddDate(0, 0, f.rnd.IntN(f.days))
	travelDays := 3 + f.rnd.IntN(12)
	travel := sale.AddDate(0, 0, 15+f.rnd.IntN(120))

	quotedRevenue := decimal.NewFromInt(int64(80_000 + f.rnd.IntN(420_000)))
	margin := decimal.NewFromInt(int64(12 + f.rnd.IntN(14))).Div(decimal.NewFromInt(100))
	quotedProfit := quotedRevenue.Mul(margin).Round(2)

	currency := currencies[f.rnd.IntN(len(currencies))]
	rate := rates[currency]

	t := domain.Trip{
		ID:                  uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%d/%d", f.seed, f.seq)),
		Booking:             fmt.Sprintf("BK-%s-%04d", sale.Format("0601"), f.seq),
		SaleDate:            sale,
		TravelDate:          travel,
		Traveler:            travelers[f.rnd.IntN(len(travelers))],
		Specialist:          specialists[f.rnd.IntN(len(specialists))],
		Role:                roles[f.rnd.IntN(len(roles))],
		AppliesManagerBonus: f.rnd.IntN(4) == 0,
		QuotedProfit:        quotedProfit,
		QuotedRevenue:       quotedRevenue,
		Original: domain.CurrencySnapshot{
			Amount:       quotedRevenue.Div(rate).Round(2),
			Currency:     currency,
			ExchangeRate: rate,
		},
		NPS:        6 + f.rnd.IntN(5),
		TravelDays: travelDays,
		Reviews:    domain.Reviews{AmountPaid: decimal.Zero},
	}
	t.Buyer = t.Traveler

	// About 70% of trips have been operated.
	if f.rnd.Float64() < 0.7 {
		swing := decimal.NewFromInt(int64(85 + f.rnd.IntN(31))).Div(decimal.NewFromInt(100))
		actualProfit := quotedProfit.Mul(swing).Round(2)
		actualRevenue := quotedRevenue.Sub(quotedProfit).Add(actualProfit)
		t.ActualProfit = &actualProfit
		t.ActualRevenue = &actualRevenue

		t.Reviews.Count = f.rnd.IntN(4)
		for i := range t.Reviews.Count {
			t.Reviews.Dates = append(t.Reviews.Dates, travel.AddDate(0, 0, travelDays+1+i))
		}
	}
	return t
}

// Trips returns the next n trips.
func (f *TripFactory) Trips(n int) []domain.Trip {
	out := make([]domain.Trip, n)
	for i := range out {
		out[i] = f.Trip()
	}
	return out
}
