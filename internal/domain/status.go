package domain

// PayableStatus is the lifecycle status of one payable line.
// It is the single source of truth for approval state; Approved() on
// PayableLine is derived from it.
type PayableStatus string

const (
	StatusNotApplicable PayableStatus = "not_applicable"
	StatusPending       PayableStatus = "pending"
	StatusApproved      PayableStatus = "approved"
	StatusRejected      PayableStatus = "rejected"
	StatusPostponed     PayableStatus = "postponed"
	StatusPaid          PayableStatus = "paid"
)

var validStatuses = map[PayableStatus]bool{
	StatusNotApplicable: true,
	StatusPending:       true,
	StatusApproved:      true,
	StatusRejected:      true,
	StatusPostponed:     true,
	StatusPaid:          true,
}

// IsValid reports whether s is one of the known statuses.
func (s PayableStatus) IsValid() bool {
	return validStatuses[s]
}

// String returns the wire representation of the status.
func (s PayableStatus) String() string {
	return string(s)
}

// Display returns the presentation metadata for s.
// Unknown statuses fall back to the NotApplicable entry.
func (s PayableStatus) Display() StatusDisplay {
	if d, ok := statusDisplays[s]; ok {
		return d
	}
	return statusDisplays[StatusNotApplicable]
}

// StatusDisplay is what a presentation layer needs to render a status badge.
type StatusDisplay struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// statusDisplays is the only place statuses are mapped to labels and colors.
var statusDisplays = map[PayableStatus]StatusDisplay{
	StatusNotApplicable: {Label: "N/A", Color: "gray"},
	StatusPending:       {Label: "Pendiente", Color: "yellow"},
	StatusApproved:      {Label: "Aprobado", Color: "green"},
	StatusRejected:      {Label: "Rechazado", Color: "red"},
	StatusPostponed:     {Label: "Pospuesto", Color: "purple"},
	StatusPaid:          {Label: "Pagado", Color: "blue"},
}

// LineName identifies one of the three payable lines on a trip.
type LineName string

const (
	LineAdvance      LineName = "advance"
	LineSettlement   LineName = "settlement"
	LineManagerBonus LineName = "manager_bonus"
)

// Lines lists every payable line in display order.
var Lines = []LineName{LineAdvance, LineSettlement, LineManagerBonus}

// IsValid reports whether n names a known line.
func (n LineName) IsValid() bool {
	switch n {
	case LineAdvance, LineSettlement, LineManagerBonus:
		return true
	}
	return false
}

// Sibling returns the line coupled to n by the postponement cascade.
// Only advance and settlement are coupled; ok is false for anything else.
func (n LineName) Sibling() (LineName, bool) {
	switch n {
	case LineAdvance:
		return LineSettlement, true
	case LineSettlement:
		return LineAdvance, true
	}
	return "", false
}
