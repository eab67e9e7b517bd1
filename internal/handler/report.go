package handler

import (
	"net/http"
	"time"

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// reportParams reads the period and scope shared by every report endpoint.
func (s *Server) reportParams(w http.ResponseWriter, r *http.Request) (domain.Period, commission.Scope, bool) {
	p, err := s.periodParams(r)
	if err != nil {
		badRequest(w, err.Error())
		return domain.Period{}, commission.Scope{}, false
	}
	scope, err := scopeParams(r)
	if err != nil {
		badRequest(w, err.Error())
		return domain.Period{}, commission.Scope{}, false
	}
	return p, scope, true
}

// GetHighlights handles GET /reports/highlights.
func (s *Server) GetHighlights(w http.ResponseWriter, r *http.Request) {
	p, scope, ok := s.reportParams(w, r)
	if !ok {
		return
	}
	h, err := s.Reports.Highlights(r.Context(), p, scope)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, highlightsResponse{
		Period:           periodToResponse(p),
		AdvancesPaid:     h.AdvancesPaid,
		TripsSold:        h.TripsSold,
		SettlementsPaid:  h.SettlementsPaid,
		TripsOperated:    h.TripsOperated,
		ReviewBonusTotal: h.ReviewBonusTotal,
		ReviewsTotal:     h.ReviewsTotal,
		GrandTotal:       h.GrandTotal,
	})
}

// GetPrimaryBonus handles GET /reports/primary-bonus.
func (s *Server) GetPrimaryBonus(w http.ResponseWriter, r *http.Request) {
	p, scope, ok := s.reportParams(w, r)
	if !ok {
		return
	}
	b, err := s.Reports.PrimaryBonus(r.Context(), p, scope)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, primaryBonusResponse{
		Period:          periodToResponse(p),
		TripsSold:       b.TripsSold,
		TripsOperated:   b.TripsOperated,
		QuotedProfit:    b.QuotedProfit,
		AdvanceTotal:    b.AdvanceTotal,
		ActualProfit:    b.ActualProfit,
		SettlementTotal: b.SettlementTotal,
		AmountPayable:   b.AmountPayable,
	})
}

// GetReviewBonus handles GET /reports/review-bonus.
func (s *Server) GetReviewBonus(w http.ResponseWriter, r *http.Request) {
	p, scope, ok := s.reportParams(w, r)
	if !ok {
		return
	}
	b, err := s.Reports.ReviewBonus(r.Context(), p, scope)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewBonusSummaryResponse{
		Period:          periodToResponse(p),
		OneReview:       b.OneReview,
		TwoReviews:      b.TwoReviews,
		ThreeOrMore:     b.ThreeOrMore,
		TotalCommission: b.TotalCommission,
	})
}

// GetManagerBonus handles GET /reports/manager-bonus.
func (s *Server) GetManagerBonus(w http.ResponseWriter, r *http.Request) {
	p, scope, ok := s.reportParams(w, r)
	if !ok {
		return
	}
	b, err := s.Reports.ManagerBonus(r.Context(), p, scope)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, managerBonusResponse{
		Period:          periodToResponse(p),
		Trips:           b.Trips,
		TripsOperated:   b.TripsOperated,
		ActualProfit:    b.ActualProfit,
		TotalCommission: b.TotalCommission,
		AmountPayable:   b.AmountPayable,
	})
}

// GetHistory handles GET /reports/history?months=12&year=&month=.
// The window ends with the given month, or the current one.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	var year, month, months *int
	for name, dest := range map[string]any{"year": &year, "month": &month, "months": &months} {
		if err := queryOptional(r, name, dest); err != nil {
			badRequest(w, err.Error())
			return
		}
	}
	end := s.now().UTC()
	if year != nil || month != nil {
		if year == nil || month == nil || *month < 1 || *month > 12 {
			badRequest(w, "year and month must be given together, month between 1 and 12")
			return
		}
		end = time.Date(*year, time.Month(*month), 1, 0, 0, 0, 0, time.UTC)
	}
	n := 12
	if months != nil {
		n = *months
	}
	scope, err := scopeParams(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	rows, err := s.Reports.History(r.Context(), end, n, scope)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]monthlyTotalsResponse, len(rows))
	for i, m := range rows {
		out[i] = monthlyTotalsResponse{
			Year:        m.Year,
			Month:       int(m.Month),
			Advances:    m.Advances,
			Settlements: m.Settlements,
			ReviewBonus: m.ReviewBonus,
			Total:       m.Total,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
