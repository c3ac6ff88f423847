package validation

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MinReasonLength is the minimum trimmed length of a change-request
	// reason. The upper bound is enforced at the input layer.
	MinReasonLength = 10

	// HourIncrement is the granularity all requested hour figures must
	// respect.
	HourIncrement = 0.5

	// LargeChangeThreshold is the absolute delta above which an
	// adjustment gets an advisory "large change" warning.
	LargeChangeThreshold = 20.0
)

// AdjustmentCheck is the input for validating an ADJUSTMENT request.
type AdjustmentCheck struct {
	Reason         string
	OriginalHours  float64
	RequestedHours float64
	// PlannedFloor is the sum of weekly effective hours already
	// distributed under the target allocation.
	PlannedFloor float64
}

// ShiftCheck is the input for validating a SHIFT request.
type ShiftCheck struct {
	Reason           string
	OriginalHours    float64 // hours currently held by the source consultant
	ShiftHours       float64
	FromConsultantID string
	ToConsultantID   string
}

// ValidateAdjustment checks a resize request. Data-quality rules run
// before any numeric rule; the first failing rule wins.
func ValidateAdjustment(c AdjustmentCheck) Result {
	if r := checkReason(c.Reason); !r.Valid {
		return r
	}

	delta := c.RequestedHours - c.OriginalHours
	if math.Abs(delta) < HourIncrement {
		return fail("requested hours must differ from the current allocation by at least 0.5h")
	}
	if !halfHourIncrement(c.RequestedHours) {
		return fail(fmt.Sprintf("requested hours must be a multiple of 0.5 (got %g)", c.RequestedHours))
	}

	newTotal := c.OriginalHours + delta
	if newTotal <= 0 {
		return fail(fmt.Sprintf("new total of %.1fh must be greater than zero", newTotal))
	}
	if newTotal < c.PlannedFloor {
		maxReduction := c.OriginalHours - c.PlannedFloor
		if maxReduction < 0 {
			maxReduction = 0
		}
		return fail(fmt.Sprintf(
			"cannot reduce below %.1fh already planned in weekly allocations (maximum reduction is %.1fh)",
			c.PlannedFloor, maxReduction))
	}

	if math.Abs(delta) > LargeChangeThreshold {
		return okWithWarning(fmt.Sprintf(
			"large change of %.1fh requested; changes above %.0fh may warrant a project review",
			math.Abs(delta), LargeChangeThreshold))
	}
	return ok()
}

// ValidateShift checks an hour transfer between two consultants.
func ValidateShift(c ShiftCheck) Result {
	if r := checkReason(c.Reason); !r.Valid {
		return r
	}

	if c.FromConsultantID == c.ToConsultantID {
		return fail("cannot shift hours from a consultant to themselves")
	}
	if c.ShiftHours <= 0 {
		return fail("shift hours must be greater than zero")
	}
	if !halfHourIncrement(c.ShiftHours) {
		return fail(fmt.Sprintf("shift hours must be a multiple of 0.5 (got %g)", c.ShiftHours))
	}
	if c.ShiftHours > c.OriginalHours {
		return fail(fmt.Sprintf(
			"cannot transfer more than the %.1fh currently allocated", c.OriginalHours))
	}
	return ok()
}

func checkReason(reason string) Result {
	if len(strings.TrimSpace(reason)) < MinReasonLength {
		return fail(fmt.Sprintf("please provide more detail in the reason (at least %d characters)", MinReasonLength))
	}
	return ok()
}

func halfHourIncrement(v float64) bool {
	scaled := v / HourIncrement
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}
