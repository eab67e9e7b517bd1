package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/edu-maass/comissions-dashboard/internal/commission"
	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/repo"
)

// ApprovalService drives payable lines through their status lifecycle.
// Each call loads the trip, evaluates statuses as of now, applies one
// transition and persists the result. A failed transition persists nothing.
type ApprovalService struct {
	repo     repo.TripRepo
	schedule commission.Schedule
	now      Clock
	log      *slog.Logger
}

// NewApprovalService constructs an ApprovalService.
func NewApprovalService(r repo.TripRepo, schedule commission.Schedule, now Clock, log *slog.Logger) *ApprovalService {
	return &ApprovalService{repo: r, schedule: schedule, now: now, log: log}
}

// Approve moves a pending line to approved.
func (s *ApprovalService) Approve(ctx context.Context, id uuid.UUID, line domain.LineName, actor domain.Actor) (domain.Trip, error) {
	return s.apply(ctx, id, line, actor, commission.ActionApprove, func(t domain.Trip) (domain.Trip, error) {
		return commission.Approve(t, line)
	})
}

// Reject moves a pending line to rejected with a note.
func (s *ApprovalService) Reject(ctx context.Context, id uuid.UUID, line domain.LineName, note string, actor domain.Actor) (domain.Trip, error) {
	return s.apply(ctx, id, line, actor, commission.ActionReject, func(t domain.Trip) (domain.Trip, error) {
		return commission.Reject(t, line, note)
	})
}

// Postpone moves a pending line to postponed, cascading to its sibling.
// Only admins may postpone.
func (s *ApprovalService) Postpone(ctx context.Context, id uuid.UUID, line domain.LineName, note string, actor domain.Actor) (domain.Trip, error) {
	return s.apply(ctx, id, line, actor, commission.ActionPostpone, func(t domain.Trip) (domain.Trip, error) {
		return commission.Postpone(t, line, note, actor.IsAdmin)
	})
}

// MarkPaid records that an approved line was paid on paidAt.
// Only admins may record payments.
func (s *ApprovalService) MarkPaid(ctx context.Context, id uuid.UUID, line domain.LineName, paidAt time.Time, actor domain.Actor) (domain.Trip, error) {
	if !actor.IsAdmin {
		return domain.Trip{}, fmt.Errorf("service.ApprovalService.MarkPaid: %w: only administrators can record payments", domain.ErrUnauthorized)
	}
	return s.apply(ctx, id, line, actor, commission.ActionMarkPaid, func(t domain.Trip) (domain.Trip, error) {
		return commission.MarkPaid(t, line, paidAt)
	})
}

var methodNames = map[commission.Action]string{
	commission.ActionApprove:  "Approve",
	commission.ActionReject:   "Reject",
	commission.ActionPostpone: "Postpone",
	commission.ActionMarkPaid: "MarkPaid",
}

func (s *ApprovalService) apply(
	ctx context.Context,
	id uuid.UUID,
	line domain.LineName,
	actor domain.Actor,
	action commission.Action,
	transition func(domain.Trip) (domain.Trip, error),
) (domain.Trip, error) {
	op := "service.ApprovalService." + methodNames[action]

	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	before := s.schedule.Refresh(stored, s.now())

	after, err := transition(before)
	if err != nil {
		s.log.DebugContext(ctx, "transition refused",
			"trip_id", id, "line", line, "action", action, "actor", actor.Name, "error", err)
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.repo.Update(ctx, after)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.InfoContext(ctx, "line transitioned",
		"trip_id", id,
		"booking", updated.Booking,
		"line", line,
		"from", before.Line(line).Status,
		"to", after.Line(line).Status,
		"actor", actor.Name,
	)
	if action == commission.ActionPostpone {
		if sibling, ok := commission.Cascaded(before, after, line); ok {
			s.log.InfoContext(ctx, "line transitioned",
				"trip_id", id,
				"booking", updated.Booking,
				"line", sibling,
				"from", before.Line(sibling).Status,
				"to", after.Line(sibling).Status,
				"actor", actor.Name,
				"cascade", true,
			)
		}
	}
	return updated, nil
}
