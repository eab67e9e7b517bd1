package commission

import (
	"fmt"
	"strings"
	"time"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
)

// Action is a user or payment event applied to a payable line.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionPostpone Action = "postpone"
	ActionMarkPaid Action = "mark_paid"
)

// transitions lists, per action, the only status each action may leave from
// and the status it lands in.
var transitions = map[Action]map[domain.PayableStatus]domain.PayableStatus{
	ActionApprove:  {domain.StatusPending: domain.StatusApproved},
	ActionReject:   {domain.StatusPending: domain.StatusRejected},
	ActionPostpone: {domain.StatusPending: domain.StatusPostponed},
	ActionMarkPaid: {domain.StatusApproved: domain.StatusPaid},
}

// CanApply reports whether action a is permitted from status from.
func CanApply(a Action, from domain.PayableStatus) bool {
	_, ok := transitions[a][from]
	return ok
}

// PermittedActions returns the actions allowed from status from, in a fixed order.
func PermittedActions(from domain.PayableStatus) []Action {
	var out []Action
	for _, a := range []Action{ActionApprove, ActionReject, ActionPostpone, ActionMarkPaid} {
		if CanApply(a, from) {
			out = append(out, a)
		}
	}
	return out
}

func next(a Action, name domain.LineName, from domain.PayableStatus) (domain.PayableStatus, error) {
	to, ok := transitions[a][from]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s %s line in status %s", domain.ErrInvalidTransition, a, name, from)
	}
	return to, nil
}

func checkLine(name domain.LineName) error {
	if !name.IsValid() {
		return fmt.Errorf("%w: unknown line %q", domain.ErrValidation, name)
	}
	return nil
}

// Approve moves line name from pending to approved and clears its notes.
// The sibling line is not affected.
func Approve(t domain.Trip, name domain.LineName) (domain.Trip, error) {
	if err := checkLine(name); err != nil {
		return t, err
	}
	l := t.Line(name)
	to, err := next(ActionApprove, name, l.Status)
	if err != nil {
		return t, err
	}
	l.Status = to
	l.RejectionNote = ""
	l.PostponementNote = ""
	return t.WithLine(name, l), nil
}

// Reject moves line name from pending to rejected with a non-blank note.
// Rejected is terminal.
func Reject(t domain.Trip, name domain.LineName, note string) (domain.Trip, error) {
	if err := checkLine(name); err != nil {
		return t, err
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return t, fmt.Errorf("%w: rejecting a line requires a note", domain.ErrInvalidTransition)
	}
	l := t.Line(name)
	to, err := next(ActionReject, name, l.Status)
	if err != nil {
		return t, err
	}
	l.Status = to
	l.RejectionNote = note
	l.PostponementNote = ""
	return t.WithLine(name, l), nil
}

// CascadeNote is the note written on a sibling line postponed automatically.
func CascadeNote(origin domain.LineName) string {
	return fmt.Sprintf("auto-postponed due to %s postponement", origin)
}

// Postpone moves line name from pending to postponed. Only admins may postpone.
//
// Postponing the advance also postpones the settlement, and the reverse, with
// an automatic note. The cascade goes one level deep and overwrites whatever
// status the sibling had, except paid (already disbursed) and not applicable
// (nothing to postpone yet).
func Postpone(t domain.Trip, name domain.LineName, note string, isAdmin bool) (domain.Trip, error) {
	if !isAdmin {
		return t, fmt.Errorf("%w: only administrators can postpone a line", domain.ErrUnauthorized)
	}
	if err := checkLine(name); err != nil {
		return t, err
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return t, fmt.Errorf("%w: postponing a line requires a note", domain.ErrInvalidTransition)
	}
	l := t.Line(name)
	to, err := next(ActionPostpone, name, l.Status)
	if err != nil {
		return t, err
	}
	l.Status = to
	l.PostponementNote = note
	l.RejectionNote = ""
	out := t.WithLine(name, l)

	if sibling, ok := name.Sibling(); ok {
		sl := out.Line(sibling)
		if sl.Status != domain.StatusPaid && sl.Status != domain.StatusNotApplicable {
			sl.Status = domain.StatusPostponed
			sl.PostponementNote = CascadeNote(name)
			sl.RejectionNote = ""
			out = out.WithLine(sibling, sl)
		}
	}
	return out, nil
}

// Cascaded reports whether postponing line name on before changed its sibling
// on after.
func Cascaded(before, after domain.Trip, name domain.LineName) (domain.LineName, bool) {
	sibling, ok := name.Sibling()
	if !ok {
		return "", false
	}
	b, a := before.Line(sibling), after.Line(sibling)
	return sibling, b.Status != a.Status || b.PostponementNote != a.PostponementNote
}

// MarkPaid records an external payment: approved to paid on paidAt.
func MarkPaid(t domain.Trip, name domain.LineName, paidAt time.Time) (domain.Trip, error) {
	if err := checkLine(name); err != nil {
		return t, err
	}
	if paidAt.IsZero() {
		return t, fmt.Errorf("%w: payment date is required", domain.ErrValidation)
	}
	l := t.Line(name)
	to, err := next(ActionMarkPaid, name, l.Status)
	if err != nil {
		return t, err
	}
	l.Status = to
	l.PaidAt = &paidAt
	return t.WithLine(name, l), nil
}
