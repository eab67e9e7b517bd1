package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/repo"
)

// ExportService assembles flat commission rows for downloads.
type ExportService struct {
	repo     repo.TripRepo
	schedule commission.Schedule
	now      Clock
}

// NewExportService constructs an ExportService.
func NewExportService(r repo.TripRepo, schedule commission.Schedule, now Clock) *ExportService {
	return &ExportService{repo: r, schedule: schedule, now: now}
}

// Rows returns one ExportRow per trip sold or travelled in p that matches the
// scope, most recent sale first. It is the same set List pages through.
func (s *ExportService) Rows(ctx context.Context, p domain.Period, scope commission.Scope) ([]domain.ExportRow, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}
	trips, err := loadTrips(ctx, s.repo, s.schedule, s.now(), &p, scope.Actor)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, t := range commission.Filter(trips, scope.Filter, scope.Actor) {
		rows = append(rows, domain.NewExportRow(t))
	}
	return rows, nil
}

// Statement returns one specialist's trips sold in p and their highlights.
// A non-admin actor may only request their own statement.
func (s *ExportService) Statement(ctx context.Context, specialist string, p domain.Period, actor domain.Actor) (domain.Statement, error) {
	specialist = strings.TrimSpace(specialist)
	if specialist == "" {
		return domain.Statement{}, fmt.Errorf("service.ExportService.Statement: %w: specialist is required", domain.ErrValidation)
	}
	if own, scoped := actor.ScopedTo(); scoped && !strings.EqualFold(own, specialist) {
		return domain.Statement{}, fmt.Errorf("service.ExportService.Statement: %w: statements of other specialists are restricted", domain.ErrUnauthorized)
	}
	if err := p.Validate(); err != nil {
		return domain.Statement{}, fmt.Errorf("service.ExportService.Statement: %w", err)
	}

	trips, err := loadTrips(ctx, s.repo, s.schedule, s.now(), &p, domain.Actor{Name: specialist})
	if err != nil {
		return domain.Statement{}, fmt.Errorf("service.ExportService.Statement: %w", err)
	}

	scope := commission.Scope{Filter: domain.TripFilter{Specialist: specialist}}
	st := domain.Statement{
		Specialist:  specialist,
		Period:      p,
		Rows:        []domain.ExportRow{},
		Highlights:  commission.Highlights(trips, p, scope),
		GeneratedAt: s.now(),
	}
	for _, t := range commission.Filter(trips, scope.Filter, domain.Actor{}) {
		if commission.SoldIn(t, p) {
			st.Rows = append(st.Rows, domain.NewExportRow(t))
		}
	}
	return st, nil
}
