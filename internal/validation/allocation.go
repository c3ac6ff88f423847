package validation

import "fmt"

// AllocationCheck carries the fresh numbers a phase-allocation save is
// validated against. Callers supply them explicitly (re-read inside the
// commit transaction) so the validator stays unit-testable and never
// trusts client-cached state.
type AllocationCheck struct {
	// ProposedHours is the new totalHours value being saved.
	ProposedHours float64
	// CurrentHours is the allocation's stored totalHours; zero for a new
	// allocation.
	CurrentHours float64
	// PlannedFloor is the sum of weekly effective hours already
	// distributed under this allocation.
	PlannedFloor float64
	// ProjectBudgetHours is the consultant's total hour budget on the
	// project.
	ProjectBudgetHours float64
	// OtherCommittedHours is the consultant's hours committed to other
	// phases of the same project, excluding terminal-excluded statuses.
	OtherCommittedHours float64
	// AvailableHours is the consultant's computed availability over the
	// phase period. Only consulted when CheckAvailability is set; it may
	// come from a replica since it is advisory only.
	AvailableHours    float64
	CheckAvailability bool
}

// ValidateAllocation applies the allocation bounds rules in priority
// order; the first failing rule wins and the rest are skipped.
func ValidateAllocation(c AllocationCheck) Result {
	if c.ProposedHours < 0 {
		return fail("hours must not be negative")
	}

	if c.ProposedHours < c.PlannedFloor {
		maxReduction := c.CurrentHours - c.PlannedFloor
		if maxReduction < 0 {
			maxReduction = 0
		}
		return fail(fmt.Sprintf(
			"cannot reduce below %.1fh already planned in weekly allocations (maximum reduction is %.1fh)",
			c.PlannedFloor, maxReduction))
	}

	remaining := c.ProjectBudgetHours - c.OtherCommittedHours
	if c.ProposedHours > remaining {
		overage := c.ProposedHours - remaining
		return fail(fmt.Sprintf(
			"exceeds the consultant's remaining project budget of %.1fh by %.1fh",
			remaining, overage))
	}

	if c.CheckAvailability && c.ProposedHours > c.AvailableHours {
		return okWithWarning(fmt.Sprintf(
			"exceeds the consultant's available capacity of %.1fh for the phase period by %.1fh; hours may be unplannable",
			c.AvailableHours, c.ProposedHours-c.AvailableHours))
	}

	return ok()
}
