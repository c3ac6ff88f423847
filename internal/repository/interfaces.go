package repository

import (
	"context"
	"time"

	"github.com/ahenriksen/staffplan/internal/capacity"
	"github.com/ahenriksen/staffplan/internal/domain"
)

type ConsultantRepo interface {
	Create(ctx context.Context, c *domain.Consultant) error
	GetByID(ctx context.Context, id string) (*domain.Consultant, error)
	List(ctx context.Context) ([]*domain.Consultant, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
}

type SprintRepo interface {
	Create(ctx context.Context, s *domain.Sprint) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Sprint, error)
	GetByNumber(ctx context.Context, projectID string, number int) (*domain.Sprint, error)
}

type PhaseRepo interface {
	Create(ctx context.Context, ph *domain.Phase) error
	GetByID(ctx context.Context, id string) (*domain.Phase, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error)
	Update(ctx context.Context, ph *domain.Phase) error
	Delete(ctx context.Context, id string) error
	// GetKickoff returns the project's designated kickoff phase, or nil
	// when none exists yet.
	GetKickoff(ctx context.Context, projectID string) (*domain.Phase, error)
	// SetSprints replaces the phase's assigned sprint set.
	SetSprints(ctx context.Context, phaseID string, sprintIDs []string) error
	ListSprints(ctx context.Context, phaseID string) ([]*domain.Sprint, error)
}

type AllocationRepo interface {
	Create(ctx context.Context, a *domain.PhaseAllocation) error
	GetByID(ctx context.Context, id string) (*domain.PhaseAllocation, error)
	GetByPhaseAndConsultant(ctx context.Context, phaseID, consultantID string) (*domain.PhaseAllocation, error)
	ListByPhase(ctx context.Context, phaseID string) ([]*domain.PhaseAllocation, error)
	Update(ctx context.Context, a *domain.PhaseAllocation) error
	Delete(ctx context.Context, id string) error

	// SumProjectAllocations sums the consultant's total_hours across every
	// phase of the project, excluding terminal-excluded statuses and,
	// when excludePhaseID is non-empty, that phase's allocation.
	SumProjectAllocations(ctx context.Context, consultantID, projectID, excludePhaseID string) (float64, error)
	// SumApprovedByProject sums APPROVED allocation hours across all of a
	// project's phases, for budget-utilization warnings.
	SumApprovedByProject(ctx context.Context, projectID string) (float64, error)
	// ListOverlapping returns every non-terminal allocation the given
	// consultants hold, across all projects, with the weekly allocations
	// falling inside [start, end] attached.
	ListOverlapping(ctx context.Context, consultantIDs []string, start, end time.Time) ([]capacity.AllocationLoad, error)
}

type WeeklyRepo interface {
	Create(ctx context.Context, w *domain.WeeklyAllocation) error
	GetByID(ctx context.Context, id string) (*domain.WeeklyAllocation, error)
	ListByAllocation(ctx context.Context, allocationID string) ([]*domain.WeeklyAllocation, error)
	Update(ctx context.Context, w *domain.WeeklyAllocation) error
	Delete(ctx context.Context, id string) error

	// SumPlannedHours is the allocation's planned floor: the sum of
	// effective hours over its non-rejected weekly allocations.
	SumPlannedHours(ctx context.Context, allocationID string) (float64, error)
}

type ChangeRequestRepo interface {
	Create(ctx context.Context, r *domain.HourChangeRequest) error
	GetByID(ctx context.Context, id string) (*domain.HourChangeRequest, error)
	ListByAllocation(ctx context.Context, allocationID string) ([]*domain.HourChangeRequest, error)
	ListPending(ctx context.Context) ([]*domain.HourChangeRequest, error)
	Update(ctx context.Context, r *domain.HourChangeRequest) error
}
