package testutil

import (
	"fmt"
	"time"

	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/google/uuid"
)

// FixedNow is the reference time fixtures are anchored to, a Monday.
var FixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// Consultant fixtures

func NewTestConsultant(name string) *domain.Consultant {
	return &domain.Consultant{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     fmt.Sprintf("%s@example.test", name),
		CreatedAt: FixedNow,
	}
}

// Project options

type ProjectOption func(*domain.Project)

func WithBudget(hours float64) ProjectOption {
	return func(p *domain.Project) {
		p.BudgetedHours = hours
	}
}

func WithStartDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:            uuid.New().String(),
		Name:          name,
		BudgetedHours: 200,
		StartDate:     FixedNow.AddDate(0, 0, -7),
		CreatedAt:     FixedNow,
		UpdatedAt:     FixedNow,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestSprints generates count contiguous two-week sprints for the
// project, numbered from 0, starting at the project start date.
func NewTestSprints(p *domain.Project, count int) []*domain.Sprint {
	sprints := make([]*domain.Sprint, 0, count)
	start := p.StartDate
	for n := 0; n < count; n++ {
		end := start.AddDate(0, 0, domain.SprintLengthWeeks*7-1)
		sprints = append(sprints, &domain.Sprint{
			ID:        uuid.New().String(),
			ProjectID: p.ID,
			Number:    n,
			StartDate: start,
			EndDate:   end,
			CreatedAt: FixedNow,
		})
		start = end.AddDate(0, 0, 1)
	}
	return sprints
}

// Phase options

type PhaseOption func(*domain.Phase)

func WithKickoff() PhaseOption {
	return func(ph *domain.Phase) {
		ph.IsKickoff = true
	}
}

func WithPhaseDates(start, end time.Time) PhaseOption {
	return func(ph *domain.Phase) {
		ph.StartDate = start
		ph.EndDate = end
	}
}

func NewTestPhase(projectID, name string, opts ...PhaseOption) *domain.Phase {
	ph := &domain.Phase{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		StartDate: FixedNow,
		EndDate:   FixedNow.AddDate(0, 0, 27),
		CreatedAt: FixedNow,
		UpdatedAt: FixedNow,
	}
	for _, opt := range opts {
		opt(ph)
	}
	return ph
}

// Allocation options

type AllocationOption func(*domain.PhaseAllocation)

func WithAllocationStatus(s domain.AllocationStatus) AllocationOption {
	return func(a *domain.PhaseAllocation) {
		a.Status = s
	}
}

func NewTestAllocation(phaseID, consultantID string, hours float64, opts ...AllocationOption) *domain.PhaseAllocation {
	a := &domain.PhaseAllocation{
		ID:           uuid.New().String(),
		PhaseID:      phaseID,
		ConsultantID: consultantID,
		TotalHours:   hours,
		Status:       domain.AllocationPending,
		CreatedAt:    FixedNow,
		UpdatedAt:    FixedNow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Weekly allocation options

type WeeklyOption func(*domain.WeeklyAllocation)

func WithApprovedHours(hours float64) WeeklyOption {
	return func(w *domain.WeeklyAllocation) {
		w.ApprovedHours = &hours
	}
}

func WithWeeklyStatus(s domain.WeeklyStatus) WeeklyOption {
	return func(w *domain.WeeklyAllocation) {
		w.Status = s
	}
}

func NewTestWeekly(allocationID string, weekStart time.Time, proposed float64, opts ...WeeklyOption) *domain.WeeklyAllocation {
	w := &domain.WeeklyAllocation{
		ID:            uuid.New().String(),
		AllocationID:  allocationID,
		WeekStart:     weekStart,
		ProposedHours: proposed,
		Status:        domain.WeeklyPending,
		CreatedAt:     FixedNow,
		UpdatedAt:     FixedNow,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}
