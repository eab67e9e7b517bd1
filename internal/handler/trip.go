package handler

import (
	"encoding/json"
	"net/http"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/middleware"
	"github.com/edu-maass/comissions-dashboard/internal/service"
)

// RecordSale handles POST /trips.
func (s *Server) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	created, err := s.Trips.RecordSale(r.Context(), req.toDomain())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created, middleware.ActorFromContext(r.Context())))
}

// ListTrips handles GET /trips.
// The period filter is optional here: without year/month or from/to every
// trip is listed. Supports ?page= and ?limit= (defaults: page=1, limit=50, max=500).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	var period *domain.Period
	if hasPeriod(r) {
		p, err := s.periodParams(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		period = &p
	}
	f, err := filterParams(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var page, limit *int
	if err := queryOptional(r, "page", &page); err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := queryOptional(r, "limit", &limit); err != nil {
		badRequest(w, err.Error())
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	res, err := s.Trips.List(r.Context(), f, period, actor, domain.NewPageRequest(page, limit))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	data := make([]tripResponse, len(res.Items))
	for i, t := range res.Items {
		data[i] = tripToResponse(t, actor)
	}
	writeJSON(w, http.StatusOK, tripListResponse{
		Data:       data,
		Pagination: pagination{Page: res.Page, Limit: res.Limit, Total: res.Total},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	trip, err := s.Trips.GetByID(r.Context(), id, actor)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip, actor))
}

// RecordOperation handles PUT /trips/{id}/operation.
func (s *Server) RecordOperation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req operationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.ActualProfit == nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", errNoActualProfit.Error())
		return
	}

	trip, err := s.Trips.RecordOperation(r.Context(), id, service.OperationInput{
		ActualProfit:  *req.ActualProfit,
		ActualRevenue: req.ActualRevenue,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip, middleware.ActorFromContext(r.Context())))
}

// RecordReviews handles PUT /trips/{id}/reviews.
func (s *Server) RecordReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req reviewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	trip, err := s.Trips.RecordReviews(r.Context(), id, req.toDomain())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip, middleware.ActorFromContext(r.Context())))
}

func hasPeriod(r *http.Request) bool {
	q := r.URL.Query()
	for _, k := range []string{"year", "month", "from", "to"} {
		if q.Has(k) {
			return true
		}
	}
	return false
}
