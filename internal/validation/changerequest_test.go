package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const validReason = "moving hours to cover the testing phase"

func TestValidateAdjustment_ReasonTooShort(t *testing.T) {
	r := ValidateAdjustment(AdjustmentCheck{
		Reason:         "too vague",
		OriginalHours:  20,
		RequestedHours: 25,
	})
	assert.False(t, r.Valid)
	assert.Contains(t, r.Err, "more detail")
}

func TestValidateAdjustment_ReasonWhitespaceOnly(t *testing.T) {
	r := ValidateAdjustment(AdjustmentCheck{
		Reason:         strings.Repeat(" ", 40),
		OriginalHours:  20,
		RequestedHours: 25,
	})
	assert.False(t, r.Valid)
}

func TestValidateAdjustment_ReasonCheckedBeforeNumericRules(t *testing.T) {
	// Zero delta AND short reason: the data-quality error must win.
	r := ValidateAdjustment(AdjustmentCheck{
		Reason:         "short",
		OriginalHours:  20,
		RequestedHours: 20,
	})
	assert.False(t, r.Valid)
	assert.Contains(t, r.Err, "more detail")
}

func TestValidateAdjustment_ZeroDelta(t *testing.T) {
	r := ValidateAdjustment(AdjustmentCheck{
		Reason:         validReason,
		OriginalHours:  20,
		RequestedHours: 20,
	})
	assert.False(t, r.Valid)
	assert.Contains(t, r.Err, "at least 0.5h")
}

func TestValidateAdjustment_NotHalfHourIncrement(t *testing.T) {
	r := ValidateAdjustment(AdjustmentCheck{
		Reason:         validReason,
		OriginalHours:  20,
		RequestedHours: 20.3,
	})
	assert.False(t, r.Valid)
	assert.Contains(t, r.Err, "multiple of 0.5")
}

func TestValidateAdjustment_Accepted(t *testing.T) {
	r := ValidateAdjustment(AdjustmentCheck{
		Reason:         "extra scope added",
		OriginalHours:  20,
		RequestedHours: 25,
	})
	assert.True(t, r.Valid)
	assert.Empty(t, r.Warning)
}

func TestValidateAdjustment_NewTotalMustBePositive(t *testing.T) {
	r := ValidateAdjustment(AdjustmentCheck{
		Reason:         validReason,
		OriginalHours:  5,
		RequestedHours: 0,
	})
	assert.False(t, r.Valid)
	assert.Contains(t, r.Err, "greater than zero")
}

func TestValidateAdjustment_BelowPlannedFloor(t *testing.T) {
	r := ValidateAdjustment(AdjustmentCheck{
		Reason:         validReason,
		OriginalHours:  30,
		RequestedHours: 5,
		PlannedFloor:   10,
	})
	assert.False(t, r.Valid)
	assert.Contains(t, r.Err, "maximum reduction is 20.0h")
}

func TestValidateAdjustment_LargeChangeWarns(t *testing.T) {
	r := ValidateAdjustment(AdjustmentCheck{
		Reason:         validReason,
		OriginalHours:  20,
		RequestedHours: 45,
	})
	assert.True(t, r.Valid)
	assert.Contains(t, r.Warning, "large change")
}

func TestValidateShift_SameConsultant(t *testing.T) {
	r := ValidateShift(ShiftCheck{
		Reason:           validReason,
		OriginalHours:    20,
		ShiftHours:       5,
		FromConsultantID: "c1",
		ToConsultantID:   "c1",
	})
	assert.False(t, r.Valid)
	assert.Contains(t, r.Err, "themselves")
}

func TestValidateShift_MoreThanHeld(t *testing.T) {
	r := ValidateShift(ShiftCheck{
		Reason:           validReason,
		OriginalHours:    8,
		ShiftHours:       10,
		FromConsultantID: "c1",
		ToConsultantID:   "c2",
	})
	assert.False(t, r.Valid)
	assert.Contains(t, r.Err, "cannot transfer more than the 8.0h currently allocated")
}

func TestValidateShift_ZeroOrNegative(t *testing.T) {
	for _, hours := range []float64{0, -2} {
		r := ValidateShift(ShiftCheck{
			Reason:           validReason,
			OriginalHours:    8,
			ShiftHours:       hours,
			FromConsultantID: "c1",
			ToConsultantID:   "c2",
		})
		assert.False(t, r.Valid, "hours %g", hours)
	}
}

func TestValidateShift_IncrementRule(t *testing.T) {
	r := ValidateShift(ShiftCheck{
		Reason:           validReason,
		OriginalHours:    8,
		ShiftHours:       2.25,
		FromConsultantID: "c1",
		ToConsultantID:   "c2",
	})
	assert.False(t, r.Valid)
	assert.Contains(t, r.Err, "multiple of 0.5")
}

func TestValidateShift_Accepted(t *testing.T) {
	r := ValidateShift(ShiftCheck{
		Reason:           validReason,
		OriginalHours:    8,
		ShiftHours:       8,
		FromConsultantID: "c1",
		ToConsultantID:   "c2",
	})
	assert.True(t, r.Valid)
}
