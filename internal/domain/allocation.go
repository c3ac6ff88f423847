package domain

import "time"

// PhaseAllocation ties one consultant to one phase with a committed hour
// total, subject to approval.
type PhaseAllocation struct {
	ID           string
	PhaseID      string
	ConsultantID string
	TotalHours   float64
	Status       AllocationStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CountsTowardBudget reports whether the allocation's hours still occupy
// the consultant's project budget pool.
func (a *PhaseAllocation) CountsTowardBudget() bool {
	return !a.Status.TerminalExcluded()
}

// WeeklyAllocation distributes part of a phase allocation into one ISO
// calendar week. WeekStart is the Monday of that week.
type WeeklyAllocation struct {
	ID            string
	AllocationID  string
	WeekStart     time.Time
	ProposedHours float64
	ApprovedHours *float64
	Status        WeeklyStatus
	Rationale     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectiveHours returns the approver-set hours when present, otherwise
// the consultant's proposal. Rejected weeks contribute nothing.
func (w *WeeklyAllocation) EffectiveHours() float64 {
	if w.Status == WeeklyRejected {
		return 0
	}
	if w.ApprovedHours != nil {
		return *w.ApprovedHours
	}
	return w.ProposedHours
}
