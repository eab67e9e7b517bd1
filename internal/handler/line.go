package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/middleware"
)

// ApproveLine handles POST /trips/{id}/lines/{line}/approve.
func (s *Server) ApproveLine(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(id uuid.UUID, line domain.LineName, actor domain.Actor) (domain.Trip, error) {
		return s.Approvals.Approve(r.Context(), id, line, actor)
	})
}

// RejectLine handles POST /trips/{id}/lines/{line}/reject.
// The body carries the mandatory {"note"}.
func (s *Server) RejectLine(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeOptional(r, &req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	s.transition(w, r, func(id uuid.UUID, line domain.LineName, actor domain.Actor) (domain.Trip, error) {
		return s.Approvals.Reject(r.Context(), id, line, req.Note, actor)
	})
}

// PostponeLine handles POST /trips/{id}/lines/{line}/postpone. Admin only.
func (s *Server) PostponeLine(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeOptional(r, &req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	s.transition(w, r, func(id uuid.UUID, line domain.LineName, actor domain.Actor) (domain.Trip, error) {
		return s.Approvals.Postpone(r.Context(), id, line, req.Note, actor)
	})
}

// MarkLinePaid handles POST /trips/{id}/lines/{line}/paid. Admin only.
// payment_date defaults to today (UTC).
func (s *Server) MarkLinePaid(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeOptional(r, &req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	paidAt := s.now().UTC()
	if req.PaymentDate != nil {
		paidAt = req.PaymentDate.Time
	}
	s.transition(w, r, func(id uuid.UUID, line domain.LineName, actor domain.Actor) (domain.Trip, error) {
		return s.Approvals.MarkPaid(r.Context(), id, line, paidAt, actor)
	})
}

// transition binds the path, runs apply and writes the updated trip.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, apply func(uuid.UUID, domain.LineName, domain.Actor) (domain.Trip, error)) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	line, err := pathLine(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	trip, err := apply(id, line, actor)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip, actor))
}

// decodeOptional decodes a JSON body into v; an empty body leaves v untouched.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
