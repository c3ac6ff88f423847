// Package approval is the authoritative lifecycle for phase allocations,
// weekly allocations, and hour change requests. Transition tables are the
// single source of truth; anything not listed is an invalid transition.
package approval

import (
	"fmt"
	"strings"

	"github.com/ahenriksen/staffplan/internal/domain"
)

var allocationTransitions = map[domain.AllocationStatus][]domain.AllocationStatus{
	domain.AllocationPending:  {domain.AllocationApproved, domain.AllocationRejected},
	domain.AllocationApproved: {domain.AllocationDeletionPending},
	// Rejecting a pending deletion restores the approved allocation.
	domain.AllocationDeletionPending: {domain.AllocationApproved},
}

var weeklyTransitions = map[domain.WeeklyStatus][]domain.WeeklyStatus{
	domain.WeeklyPending: {domain.WeeklyApproved, domain.WeeklyRejected, domain.WeeklyModified},
}

var changeTransitions = map[domain.ChangeRequestStatus][]domain.ChangeRequestStatus{
	domain.ChangePending: {domain.ChangeApproved, domain.ChangeRejected},
}

// AllocationTransition validates a status change for a phase allocation.
// EXPIRED and FORFEITED are reachable from any non-terminal state via
// external lifecycle events (phase end, budget reclamation).
func AllocationTransition(current, next domain.AllocationStatus) error {
	if next == domain.AllocationExpired || next == domain.AllocationForfeited {
		if current.TerminalExcluded() {
			return invalid("allocation", string(current), string(next))
		}
		return nil
	}
	if !listed(allocationTransitions[current], next) {
		return invalid("allocation", string(current), string(next))
	}
	return nil
}

// WeeklyTransition validates a status change for a weekly allocation.
func WeeklyTransition(current, next domain.WeeklyStatus) error {
	if !listedWeekly(weeklyTransitions[current], next) {
		return invalid("weekly allocation", string(current), string(next))
	}
	return nil
}

// ChangeTransition validates a status change for an hour change request.
// Both outcomes are terminal.
func ChangeTransition(current, next domain.ChangeRequestStatus) error {
	if !listedChange(changeTransitions[current], next) {
		return invalid("change request", string(current), string(next))
	}
	return nil
}

// ModifyWeekly applies a MODIFIED decision: the approver sets hours
// different from the proposal and must give a rationale.
func ModifyWeekly(w *domain.WeeklyAllocation, approvedHours float64, rationale string) error {
	if err := WeeklyTransition(w.Status, domain.WeeklyModified); err != nil {
		return err
	}
	if approvedHours == w.ProposedHours {
		return fmt.Errorf("modified hours must differ from the proposed %.1fh (approve instead)", w.ProposedHours)
	}
	if approvedHours < 0 {
		return fmt.Errorf("approved hours must not be negative")
	}
	if strings.TrimSpace(rationale) == "" {
		return fmt.Errorf("a rationale is required when modifying proposed hours")
	}
	w.Status = domain.WeeklyModified
	w.ApprovedHours = &approvedHours
	w.Rationale = rationale
	return nil
}

// RejectChange marks a change request rejected; a reason is mandatory.
func RejectChange(r *domain.HourChangeRequest, reason string) error {
	if err := ChangeTransition(r.Status, domain.ChangeRejected); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("a reason is required when rejecting a change request")
	}
	r.Status = domain.ChangeRejected
	r.ResolutionNote = reason
	return nil
}

func invalid(entity, from, to string) error {
	return fmt.Errorf("invalid %s transition %s -> %s", entity, from, to)
}

func listed(allowed []domain.AllocationStatus, next domain.AllocationStatus) bool {
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

func listedWeekly(allowed []domain.WeeklyStatus, next domain.WeeklyStatus) bool {
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

func listedChange(allowed []domain.ChangeRequestStatus, next domain.ChangeRequestStatus) bool {
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}
