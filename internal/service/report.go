package service

import (
	"context"
	"fmt"
	"time"

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/repo"
)

// ReportService serves the period summaries of the dashboard.
type ReportService struct {
	repo     repo.TripRepo
	schedule commission.Schedule
	now      Clock
}

// NewReportService constructs a ReportService.
func NewReportService(r repo.TripRepo, schedule commission.Schedule, now Clock) *ReportService {
	return &ReportService{repo: r, schedule: schedule, now: now}
}

// Highlights returns the paid totals for trips sold in p.
func (s *ReportService) Highlights(ctx context.Context, p domain.Period, scope commission.Scope) (domain.Highlights, error) {
	trips, err := s.load(ctx, p, scope)
	if err != nil {
		return domain.Highlights{}, fmt.Errorf("service.ReportService.Highlights: %w", err)
	}
	return commission.Highlights(trips, p, scope), nil
}

// PrimaryBonus returns the advance and settlement summary for trips sold in p.
func (s *ReportService) PrimaryBonus(ctx context.Context, p domain.Period, scope commission.Scope) (domain.PrimaryBonusSummary, error) {
	trips, err := s.load(ctx, p, scope)
	if err != nil {
		return domain.PrimaryBonusSummary{}, fmt.Errorf("service.ReportService.PrimaryBonus: %w", err)
	}
	return commission.PrimaryBonus(trips, p, scope), nil
}

// ReviewBonus returns the review-count buckets for trips sold in p.
func (s *ReportService) ReviewBonus(ctx context.Context, p domain.Period, scope commission.Scope) (domain.ReviewBonusSummary, error) {
	trips, err := s.load(ctx, p, scope)
	if err != nil {
		return domain.ReviewBonusSummary{}, fmt.Errorf("service.ReportService.ReviewBonus: %w", err)
	}
	return commission.ReviewBonus(trips, p, scope), nil
}

// ManagerBonus returns the manager summary for managed trips sold or
// travelled in p.
func (s *ReportService) ManagerBonus(ctx context.Context, p domain.Period, scope commission.Scope) (domain.ManagerBonusSummary, error) {
	trips, err := s.load(ctx, p, scope)
	if err != nil {
		return domain.ManagerBonusSummary{}, fmt.Errorf("service.ReportService.ManagerBonus: %w", err)
	}
	return commission.ManagerBonus(trips, p, scope), nil
}

// History returns monthly totals for the months months ending with the month
// of end, oldest first.
func (s *ReportService) History(ctx context.Context, end time.Time, months int, scope commission.Scope) ([]domain.MonthlyTotals, error) {
	if months < 1 || months > commission.MaxHistoryMonths {
		return nil, fmt.Errorf("service.ReportService.History: %w: months must be between 1 and %d", domain.ErrValidation, commission.MaxHistoryMonths)
	}
	last := domain.MonthPeriod(end.Year(), end.Month())
	first := domain.MonthPeriod(end.Year(), end.Month()-time.Month(months-1))
	window := domain.Period{Start: first.Start, End: last.End}

	trips, err := s.load(ctx, window, scope)
	if err != nil {
		return nil, fmt.Errorf("service.ReportService.History: %w", err)
	}
	out, err := commission.MonthlyHistory(ctx, trips, end, months, scope)
	if err != nil {
		return nil, fmt.Errorf("service.ReportService.History: %w", err)
	}
	return out, nil
}

func (s *ReportService) load(ctx context.Context, p domain.Period, scope commission.Scope) ([]domain.Trip, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return loadTrips(ctx, s.repo, s.schedule, s.now(), &p, scope.Actor)
}
