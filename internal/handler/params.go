package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/middleware"
)

// pathID binds the {id} path parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid trip id: %w", err)
	}
	return id, nil
}

// pathLine binds the {line} path parameter.
func pathLine(r *http.Request) (domain.LineName, error) {
	line := domain.LineName(chi.URLParam(r, "line"))
	if !line.IsValid() {
		return "", fmt.Errorf("unknown line %q: want advance, settlement or manager_bonus", line)
	}
	return line, nil
}

// queryOptional binds an optional form-style query parameter into dest, which
// must be a pointer to a pointer.
func queryOptional(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

// periodParams resolves the reporting window of a request:
// year&month for a calendar month, from&to for an inclusive date range, or
// nothing for the current UTC month.
func (s *Server) periodParams(r *http.Request) (domain.Period, error) {
	var (
		year, month *int
		from, to    *openapi_types.Date
	)
	for name, dest := range map[string]any{"year": &year, "month": &month, "from": &from, "to": &to} {
		if err := queryOptional(r, name, dest); err != nil {
			return domain.Period{}, err
		}
	}

	switch {
	case (year != nil || month != nil) && (from != nil || to != nil):
		return domain.Period{}, errors.New("use either year and month or from and to")
	case year != nil || month != nil:
		if year == nil || month == nil {
			return domain.Period{}, errors.New("year and month must be given together")
		}
		if *month < 1 || *month > 12 {
			return domain.Period{}, fmt.Errorf("month %d out of range", *month)
		}
		return domain.MonthPeriod(*year, time.Month(*month)), nil
	case from != nil || to != nil:
		if from == nil || to == nil {
			return domain.Period{}, errors.New("from and to must be given together")
		}
		p := domain.Period{Start: from.Time, End: to.Time.AddDate(0, 0, 1)}
		if err := p.Validate(); err != nil {
			return domain.Period{}, errors.New("from must not be after to")
		}
		return p, nil
	}
	now := s.now().UTC()
	return domain.MonthPeriod(now.Year(), now.Month()), nil
}

// filterParams reads the trip filter from the query string.
func filterParams(r *http.Request) (domain.TripFilter, error) {
	var q, specialist, role, status, pending *string
	for name, dest := range map[string]any{
		"q": &q, "specialist": &specialist, "role": &role, "settlement_status": &status, "pending": &pending,
	} {
		if err := queryOptional(r, name, dest); err != nil {
			return domain.TripFilter{}, err
		}
	}

	var f domain.TripFilter
	if q != nil {
		f.Query = strings.TrimSpace(*q)
	}
	if specialist != nil {
		f.SpecialistContains = strings.TrimSpace(*specialist)
	}
	if role != nil && *role != "" {
		f.Role = domain.Role(*role)
		if !f.Role.IsValid() {
			return domain.TripFilter{}, fmt.Errorf("unknown role %q", *role)
		}
	}
	if status != nil && *status != "" {
		f.SettlementStatus = domain.PayableStatus(*status)
		if !f.SettlementStatus.IsValid() {
			return domain.TripFilter{}, fmt.Errorf("unknown settlement_status %q", *status)
		}
	}
	if pending != nil && *pending != "" {
		f.PendingLine = domain.LineName(*pending)
		if !f.PendingLine.IsValid() {
			return domain.TripFilter{}, fmt.Errorf("unknown line %q", *pending)
		}
	}
	return f, nil
}

// scopeParams combines the session actor with the query filter.
func scopeParams(r *http.Request) (commission.Scope, error) {
	f, err := filterParams(r)
	if err != nil {
		return commission.Scope{}, err
	}
	return commission.Scope{Actor: middleware.ActorFromContext(r.Context()), Filter: f}, nil
}
