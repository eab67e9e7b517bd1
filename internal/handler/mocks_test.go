package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/handler"
	"github.com/edu-maass/comissions-dashboard/internal/middleware"
	"github.com/edu-maass/comissions-dashboard/internal/service"
)

// ---- mock TripServicer -----------------------------------------------------

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	recordSale      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	recordOperation func(ctx context.Context, id uuid.UUID, op service.OperationInput) (domain.Trip, error)
	recordReviews   func(ctx context.Context, id uuid.UUID, reviews domain.Reviews) (domain.Trip, error)
	getByID         func(ctx context.Context, id uuid.UUID, actor domain.Actor) (domain.Trip, error)
	list            func(ctx context.Context, f domain.TripFilter, period *domain.Period, actor domain.Actor, page domain.PageRequest) (domain.Page[domain.Trip], error)
}

func (m *mockTripServicer) RecordSale(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.recordSale(ctx, t)
}
func (m *mockTripServicer) RecordOperation(ctx context.Context, id uuid.UUID, op service.OperationInput) (domain.Trip, error) {
	return m.recordOperation(ctx, id, op)
}
func (m *mockTripServicer) RecordReviews(ctx context.Context, id uuid.UUID, r domain.Reviews) (domain.Trip, error) {
	return m.recordReviews(ctx, id, r)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID, actor domain.Actor) (domain.Trip, error) {
	return m.getByID(ctx, id, actor)
}
func (m *mockTripServicer) List(ctx context.Context, f domain.TripFilter, period *domain.Period, actor domain.Actor, page domain.PageRequest) (domain.Page[domain.Trip], error) {
	return m.list(ctx, f, period, actor, page)
}

// ---- mock ApprovalServicer -------------------------------------------------

type mockApprovalServicer struct {
	approve  func(ctx context.Context, id uuid.UUID, line domain.LineName, actor domain.Actor) (domain.Trip, error)
	reject   func(ctx context.Context, id uuid.UUID, line domain.LineName, note string, actor domain.Actor) (domain.Trip, error)
	postpone func(ctx context.Context, id uuid.UUID, line domain.LineName, note string, actor domain.Actor) (domain.Trip, error)
	markPaid func(ctx context.Context, id uuid.UUID, line domain.LineName, paidAt time.Time, actor domain.Actor) (domain.Trip, error)
}

func (m *mockApprovalServicer) Approve(ctx context.Context, id uuid.UUID, line domain.LineName, actor domain.Actor) (domain.Trip, error) {
	return m.approve(ctx, id, line, actor)
}
func (m *mockApprovalServicer) Reject(ctx context.Context, id uuid.UUID, line domain.LineName, note string, actor domain.Actor) (domain.Trip, error) {
	return m.reject(ctx, id, line, note, actor)
}
func (m *mockApprovalServicer) Postpone(ctx context.Context, id uuid.UUID, line domain.LineName, note string, actor domain.Actor) (domain.Trip, error) {
	return m.postpone(ctx, id, line, note, actor)
}
func (m *mockApprovalServicer) MarkPaid(ctx context.Context, id uuid.UUID, line domain.LineName, paidAt time.Time, actor domain.Actor) (domain.Trip, error) {
	return m.markPaid(ctx, id, line, paidAt, actor)
}

// ---- mock ReportServicer ---------------------------------------------------

type mockReportServicer struct {
	highlights   func(ctx context.Context, p domain.Period, scope commission.Scope) (domain.Highlights, error)
	primaryBonus func(ctx context.Context, p domain.Period, scope commission.Scope) (domain.PrimaryBonusSummary, error)
	reviewBonus  func(ctx context.Context, p domain.Period, scope commission.Scope) (domain.ReviewBonusSummary, error)
	managerBonus func(ctx context.Context, p domain.Period, scope commission.Scope) (domain.ManagerBonusSummary, error)
	history      func(ctx context.Context, end time.Time, months int, scope commission.Scope) ([]domain.MonthlyTotals, error)
}

func (m *mockReportServicer) Highlights(ctx context.Context, p domain.Period, scope commission.Scope) (domain.Highlights, error) {
	return m.highlights(ctx, p, scope)
}
func (m *mockReportServicer) PrimaryBonus(ctx context.Context, p domain.Period, scope commission.Scope) (domain.PrimaryBonusSummary, error) {
	return m.primaryBonus(ctx, p, scope)
}
func (m *mockReportServicer) ReviewBonus(ctx context.Context, p domain.Period, scope commission.Scope) (domain.ReviewBonusSummary, error) {
	return m.reviewBonus(ctx, p, scope)
}
func (m *mockReportServicer) ManagerBonus(ctx context.Context, p domain.Period, scope commission.Scope) (domain.ManagerBonusSummary, error) {
	return m.managerBonus(ctx, p, scope)
}
func (m *mockReportServicer) History(ctx context.Context, end time.Time, months int, scope commission.Scope) ([]domain.MonthlyTotals, error) {
	return m.history(ctx, end, months, scope)
}

// ---- mock ExportServicer ---------------------------------------------------

type mockExportServicer struct {
	rows      func(ctx context.Context, p domain.Period, scope commission.Scope) ([]domain.ExportRow, error)
	statement func(ctx context.Context, specialist string, p domain.Period, actor domain.Actor) (domain.Statement, error)
}

func (m *mockExportServicer) Rows(ctx context.Context, p domain.Period, scope commission.Scope) ([]domain.ExportRow, error) {
	return m.rows(ctx, p, scope)
}
func (m *mockExportServicer) Statement(ctx context.Context, specialist string, p domain.Period, actor domain.Actor) (domain.Statement, error) {
	return m.statement(ctx, specialist, p, actor)
}

// ---- mock ImportServicer ---------------------------------------------------

type mockImportServicer struct {
	importCSV func(ctx context.Context, r io.Reader) (service.ImportResult, error)
}

func (m *mockImportServicer) Import(ctx context.Context, r io.Reader) (service.ImportResult, error) {
	return m.importCSV(ctx, r)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer     = (*mockTripServicer)(nil)
	_ handler.ApprovalServicer = (*mockApprovalServicer)(nil)
	_ handler.ReportServicer   = (*mockReportServicer)(nil)
	_ handler.ExportServicer   = (*mockExportServicer)(nil)
	_ handler.ImportServicer   = (*mockImportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

var (
	fixedNow   = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	admin      = domain.Actor{Name: "Dirección", IsAdmin: true}
	specialist = domain.Actor{Name: "María García"}
)

// newHTTPHandler wires a Server with the given services the way main.go does,
// with a session stub that authenticates every request as actor.
func newHTTPHandler(svc handler.Services, actor domain.Actor) http.Handler {
	srv := handler.NewServer(svc, commission.DefaultSchedule(), []byte("openapi: 3.0.3\n"),
		func() time.Time { return fixedNow }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return srv.Handler(sessionAs(actor))
}

func sessionAs(actor domain.Actor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithActor(r.Context(), actor)))
		})
	}
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// tripFixture returns an operated legacy trip as the service would return it.
func tripFixture() domain.Trip {
	return domain.Trip{
		ID:            uuid.MustParse("6f1c2a1e-3b7d-4c53-9a55-2d3c7f0e8a01"),
		Booking:       "BK-1001",
		SaleDate:      time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
		TravelDate:    time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC),
		Traveler:      "Ana López",
		Specialist:    "María García",
		Role:          domain.RoleSpecialist,
		Buyer:         "Ana López",
		QuotedProfit:  dec("25000"),
		QuotedRevenue: dec("200000"),
		ActualProfit:  decPtr("22000"),
		ActualRevenue: decPtr("197000"),
		Original:      domain.CurrencySnapshot{Amount: dec("200000"), Currency: domain.CurrencyMXN, ExchangeRate: dec("1")},
		Regime:        domain.RegimeLegacy,
		Advance:       domain.PayableLine{Percentage: dec("0.045"), Amount: dec("1125"), Status: domain.StatusApproved},
		Settlement:    domain.PayableLine{Percentage: dec("0.09"), Amount: dec("855"), Status: domain.StatusPending},
		ManagerBonus:  domain.PayableLine{Status: domain.StatusNotApplicable},
		ReviewBonus:   domain.ReviewBonus{Count: 2, TotalCommission: dec("1250"), AmountPaid: dec("250")},
		CreatedAt:     time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 11, 3, 10, 0, 0, 0, time.UTC),
	}
}

// errorBody decodes the {"error":{...}} envelope.
func errorBody(rec *httptest.ResponseRecorder) handler.ErrorDetail {
	var body handler.ErrorResponse
	_ = jsonDecode(rec, &body)
	return body.Error
}

func jsonDecode(rec *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(rec.Body).Decode(v)
}
