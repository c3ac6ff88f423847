// Package structure enforces the sprint/phase structural rules: sprint
// sets must be non-empty and contiguous by number, and the reserved
// kickoff sprint may only belong to the designated kickoff phase.
package structure

import (
	"fmt"
	"sort"
	"time"

	"github.com/ahenriksen/staffplan/internal/domain"
)

// PhaseContext describes the phase a sprint selection is being made for.
type PhaseContext struct {
	// NewPhase is true when the phase does not exist yet. The kickoff
	// sprint is bootstrap-only and never selectable for new phases.
	NewPhase  bool
	IsKickoff bool
}

// Selectable reports whether the sprint may be toggled into the given
// phase's selection at time now.
func Selectable(sprint *domain.Sprint, ctx PhaseContext, now time.Time) bool {
	if sprint.EndedBefore(now) {
		return false
	}
	if sprint.Number == domain.KickoffSprintNumber {
		if ctx.NewPhase {
			return false
		}
		return ctx.IsKickoff
	}
	return true
}

// Consecutive reports whether the sorted sprint numbers form a gap-free
// integer run. Sets of length zero or one are trivially consecutive.
func Consecutive(sorted []int) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1]+1 {
			return false
		}
	}
	return true
}

// DateRange derives a phase's start and end from its selected sprints:
// the earliest sprint start and the latest sprint end.
func DateRange(sprints []*domain.Sprint) (start, end time.Time, err error) {
	if len(sprints) == 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("phase must have at least one sprint")
	}
	start = sprints[0].StartDate
	end = sprints[0].EndDate
	for _, s := range sprints[1:] {
		if s.StartDate.Before(start) {
			start = s.StartDate
		}
		if s.EndDate.After(end) {
			end = s.EndDate
		}
	}
	return start, end, nil
}

// ValidateSelection checks a full sprint selection for a phase: non-empty,
// contiguous, and reserved-sprint rules. Structural violations are hard
// errors, raised before any hour math.
func ValidateSelection(numbers []int, ctx PhaseContext) error {
	if len(numbers) == 0 {
		return fmt.Errorf("phase must have at least one sprint")
	}
	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return fmt.Errorf("sprint %d selected twice", sorted[i])
		}
	}
	if !Consecutive(sorted) {
		return fmt.Errorf("sprints must be consecutive (got %v)", sorted)
	}
	for _, n := range sorted {
		if n == domain.KickoffSprintNumber {
			if ctx.NewPhase {
				return fmt.Errorf("sprint 0 is reserved for the kickoff phase and cannot be assigned to a new phase")
			}
			if !ctx.IsKickoff {
				return fmt.Errorf("sprint 0 is reserved for the kickoff phase")
			}
		}
	}
	return nil
}
