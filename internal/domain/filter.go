package domain

// Actor is the user on whose behalf an operation runs.
// It is supplied by the session layer and is never persisted.
type Actor struct {
	Name    string
	IsAdmin bool
}

// ScopedTo reports whether the actor may only see their own trips.
// Admins and anonymous callers see everything.
func (a Actor) ScopedTo() (string, bool) {
	if a.IsAdmin || a.Name == "" {
		return "", false
	}
	return a.Name, true
}

// TripFilter narrows a trip collection. Zero-valued fields do not filter.
type TripFilter struct {
	// Specialist restricts to one specialist of record (exact match).
	Specialist string
	// SpecialistContains is a case-insensitive substring match on the specialist.
	SpecialistContains string
	Role               Role
	SettlementStatus   PayableStatus
	// PendingLine keeps only trips whose named line is pending.
	PendingLine LineName
	// Query is a case-insensitive substring match on booking, traveler or specialist.
	Query string
}
