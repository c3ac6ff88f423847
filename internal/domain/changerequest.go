package domain

import "time"

// HourChangeRequest proposes a resize of one allocation (ADJUSTMENT) or a
// transfer of hours between two consultants on the same phase (SHIFT).
// Immutable once resolved except for the resolution fields.
type HourChangeRequest struct {
	ID           string
	AllocationID string
	Type         ChangeType
	Status       ChangeRequestStatus

	OriginalHours  float64
	RequestedHours float64 // ADJUSTMENT only

	ShiftHours       float64 // SHIFT only
	FromConsultantID string
	ToConsultantID   string

	Reason         string
	RequestedBy    string
	ResolvedBy     string
	ResolvedAt     *time.Time
	ResolutionNote string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Delta returns the signed hour change an ADJUSTMENT would apply.
func (r *HourChangeRequest) Delta() float64 {
	return r.RequestedHours - r.OriginalHours
}
