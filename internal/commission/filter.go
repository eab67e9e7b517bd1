package commission

import (
	"strings"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// Scope narrows the trips an aggregation sees: who is asking and what they
// filtered on. The zero Scope sees every trip.
type Scope struct {
	Actor  domain.Actor
	Filter domain.TripFilter
}

// Filter returns the trips that match f and that actor may see, in input order.
// A non-admin actor with a name only ever sees their own trips.
func Filter(trips []domain.Trip, f domain.TripFilter, actor domain.Actor) []domain.Trip {
	own, scoped := actor.ScopedTo()
	contains := strings.ToLower(strings.TrimSpace(f.SpecialistContains))
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if scoped && !strings.EqualFold(t.Specialist, own) {
			continue
		}
		if f.Specialist != "" && !strings.EqualFold(t.Specialist, f.Specialist) {
			continue
		}
		if contains != "" && !strings.Contains(strings.ToLower(t.Specialist), contains) {
			continue
		}
		if f.Role != "" && t.Role != f.Role {
			continue
		}
		if f.SettlementStatus != "" && t.Settlement.Status != f.SettlementStatus {
			continue
		}
		if f.PendingLine != "" && t.Line(f.PendingLine).Status != domain.StatusPending {
			continue
		}
		if query != "" && !matchesQuery(t, query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesQuery(t domain.Trip, q string) bool {
	for _, field := range []string{t.Booking, t.Traveler, t.Specialist} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// SoldIn reports whether t was sold inside p.
func SoldIn(t domain.Trip, p domain.Period) bool {
	return p.Contains(t.SaleDate)
}

// SoldOrTravelledIn reports whether t was sold or travelled inside p.
func SoldOrTravelledIn(t domain.Trip, p domain.Period) bool {
	return p.Contains(t.SaleDate) || p.Contains(t.TravelDate)
}

func window(trips []domain.Trip, p domain.Period, scope Scope, in func(domain.Trip, domain.Period) bool) []domain.Trip {
	var out []domain.Trip
	for _, t := range Filter(trips, scope.Filter, scope.Actor) {
		if in(t, p) {
			out = append(out, t)
		}
	}
	return out
}
