package domain

import "time"

// KickoffSprintNumber is reserved for project bootstrap work. It may only
// ever be assigned to the project's designated kickoff phase.
const KickoffSprintNumber = 0

// SprintLengthWeeks is the fixed sprint length used when generating sprints.
const SprintLengthWeeks = 2

type Sprint struct {
	ID        string
	ProjectID string
	Number    int
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
}

// EndedBefore reports whether the sprint is already over at the given time.
func (s *Sprint) EndedBefore(now time.Time) bool {
	return s.EndDate.Before(now)
}
