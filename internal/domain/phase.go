package domain

import "time"

// Phase is a named span of a project composed of one or more contiguous
// sprints. StartDate and EndDate are derived from the assigned sprint set,
// never entered directly.
type Phase struct {
	ID          string
	ProjectID   string
	Name        string
	Description string
	IsKickoff   bool
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
