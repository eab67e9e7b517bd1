// Package handler implements the HTTP handlers for the commissions API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, line.go, etc.) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/service"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	RecordSale(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	RecordOperation(ctx context.Context, id uuid.UUID, op service.OperationInput) (domain.Trip, error)
	RecordReviews(ctx context.Context, id uuid.UUID, reviews domain.Reviews) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID, actor domain.Actor) (domain.Trip, error)
	List(ctx context.Context, f domain.TripFilter, period *domain.Period, actor domain.Actor, page domain.PageRequest) (domain.Page[domain.Trip], error)
}

// ApprovalServicer moves payable lines through their lifecycle.
type ApprovalServicer interface {
	Approve(ctx context.Context, id uuid.UUID, line domain.LineName, actor domain.Actor) (domain.Trip, error)
	Reject(ctx context.Context, id uuid.UUID, line domain.LineName, note string, actor domain.Actor) (domain.Trip, error)
	Postpone(ctx context.Context, id uuid.UUID, line domain.LineName, note string, actor domain.Actor) (domain.Trip, error)
	MarkPaid(ctx context.Context, id uuid.UUID, line domain.LineName, paidAt time.Time, actor domain.Actor) (domain.Trip, error)
}

// ReportServicer serves the period summaries.
type ReportServicer interface {
	Highlights(ctx context.Context, p domain.Period, scope commission.Scope) (domain.Highlights, error)
	PrimaryBonus(ctx context.Context, p domain.Period, scope commission.Scope) (domain.PrimaryBonusSummary, error)
	ReviewBonus(ctx context.Context, p domain.Period, scope commission.Scope) (domain.ReviewBonusSummary, error)
	ManagerBonus(ctx context.Context, p domain.Period, scope commission.Scope) (domain.ManagerBonusSummary, error)
	History(ctx context.Context, end time.Time, months int, scope commission.Scope) ([]domain.MonthlyTotals, error)
}

// ExportServicer assembles rows for downloads.
type ExportServicer interface {
	Rows(ctx context.Context, p domain.Period, scope commission.Scope) ([]domain.ExportRow, error)
	Statement(ctx context.Context, specialist string, p domain.Period, actor domain.Actor) (domain.Statement, error)
}

// ImportServicer records a sales ledger CSV.
type ImportServicer interface {
	Import(ctx context.Context, r io.Reader) (service.ImportResult, error)
}

// Services groups the Server's business dependencies. A nil field leaves its
// routes unusable, which handler tests rely on to wire only what they need.
type Services struct {
	Trips     TripServicer
	Approvals ApprovalServicer
	Reports   ReportServicer
	Exports   ExportServicer
	Imports   ImportServicer
}

// Server holds every dependency the handlers need.
type Server struct {
	Services
	schedule commission.Schedule
	openAPI  []byte
	now      func() time.Time
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// now supplies the default reporting period (the current UTC month).
func NewServer(svc Services, schedule commission.Schedule, openAPI []byte, now func() time.Time, log *slog.Logger) *Server {
	return &Server{Services: svc, schedule: schedule, openAPI: openAPI, now: now, log: log}
}

// Handler returns the API router. Health and the OpenAPI document are public;
// every other route runs behind session, which must place a domain.Actor in
// the request context.
func (s *Server) Handler(session func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Group(func(r chi.Router) {
		r.Use(session)

		r.Get("/schemas", s.GetSchema)

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.RecordSale)
			r.Get("/", s.ListTrips)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Put("/operation", s.RecordOperation)
				r.Put("/reviews", s.RecordReviews)
				r.Post("/lines/{line}/approve", s.ApproveLine)
				r.Post("/lines/{line}/reject", s.RejectLine)
				r.Post("/lines/{line}/postpone", s.PostponeLine)
				r.Post("/lines/{line}/paid", s.MarkLinePaid)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/highlights", s.GetHighlights)
			r.Get("/primary-bonus", s.GetPrimaryBonus)
			r.Get("/review-bonus", s.GetReviewBonus)
			r.Get("/manager-bonus", s.GetManagerBonus)
			r.Get("/history", s.GetHistory)
		})

		r.Get("/export", s.GetExport)
		r.Get("/statements", s.GetStatement)
		r.Post("/imports", s.PostImport)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}
