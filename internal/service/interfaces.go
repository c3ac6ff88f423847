package service

import (
	"context"
	"time"

	"github.com/ahenriksen/staffplan/internal/capacity"
	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/importer"
)

// BudgetUtilization reports a project's approved allocation hours against
// its budgeted hours. Exceeding the budget is advisory, never blocking.
type BudgetUtilization struct {
	BudgetedHours float64
	ApprovedHours float64
	Warning       string
}

type ConsultantService interface {
	Create(ctx context.Context, c *domain.Consultant) error
	GetByID(ctx context.Context, id string) (*domain.Consultant, error)
	List(ctx context.Context) ([]*domain.Consultant, error)
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	BudgetUtilization(ctx context.Context, projectID string) (*BudgetUtilization, error)
	// GenerateSprints appends count contiguous two-week sprints to the
	// project, numbering on from the highest existing sprint (starting
	// at 0 for a fresh project).
	GenerateSprints(ctx context.Context, projectID string, count int) ([]*domain.Sprint, error)
	ListSprints(ctx context.Context, projectID string) ([]*domain.Sprint, error)
}

// PhaseSpec is the caller's input for creating or editing a phase.
type PhaseSpec struct {
	Name          string
	Description   string
	IsKickoff     bool
	SprintNumbers []int
}

type PhaseService interface {
	Create(ctx context.Context, projectID string, spec PhaseSpec) (*domain.Phase, error)
	GetByID(ctx context.Context, id string) (*domain.Phase, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error)
	// EditSprints replaces the phase's sprint selection, re-deriving its
	// date range. Kickoff-sprint and contiguity rules apply.
	EditSprints(ctx context.Context, phaseID string, sprintNumbers []int) (*domain.Phase, error)
	// AddToRoster creates a PENDING allocation for the consultant.
	AddToRoster(ctx context.Context, phaseID, consultantID string, hours float64) (*SaveAllocationResult, error)
	// RemoveFromRoster deletes the consultant's allocation outright when
	// no weekly hours are planned under it; otherwise it marks the
	// allocation DELETION_PENDING for the approval authority.
	RemoveFromRoster(ctx context.Context, phaseID, consultantID string) (*domain.PhaseAllocation, error)
}

// SaveAllocationResult mirrors the validator contract: a persisted value
// possibly accompanied by an advisory warning.
type SaveAllocationResult struct {
	Allocation *domain.PhaseAllocation
	Warning    string
}

// AllocationPolicy holds the engine's explicit policy knobs.
type AllocationPolicy struct {
	// RevalidateOnModify controls whether editing the hours of an
	// APPROVED allocation resets it to PENDING for re-approval.
	RevalidateOnModify bool
}

// DefaultAllocationPolicy is the documented default: edits to approved
// allocations go back through approval.
var DefaultAllocationPolicy = AllocationPolicy{RevalidateOnModify: true}

type AllocationService interface {
	GetByID(ctx context.Context, id string) (*domain.PhaseAllocation, error)
	ListByPhase(ctx context.Context, phaseID string) ([]*domain.PhaseAllocation, error)
	// SetHours re-validates the proposed total against freshly read
	// committed and planned sums inside one transaction, then persists.
	SetHours(ctx context.Context, allocationID string, hours float64) (*SaveAllocationResult, error)
	// Approve commits the allocation. The returned warning, when
	// non-empty, flags project budget over-utilization; it never blocks.
	Approve(ctx context.Context, allocationID string) (warning string, err error)
	Reject(ctx context.Context, allocationID string) error
	// ResolveDeletion finalizes a DELETION_PENDING allocation: approve
	// removes the record, reject restores it to APPROVED.
	ResolveDeletion(ctx context.Context, allocationID string, approve bool) error
	// Expire and Forfeit are the external lifecycle events that release
	// an allocation's hours back to the consultant's budget pool.
	Expire(ctx context.Context, allocationID string) error
	Forfeit(ctx context.Context, allocationID string) error
}

// WeekHours is one week's slot of a weekly plan submission.
type WeekHours struct {
	WeekStart time.Time
	Hours     float64
}

// WeeklyDecision is the approval authority's verdict on one weekly
// allocation within a batch.
type WeeklyDecision struct {
	WeeklyID string
	Approve  bool
	// Modify, when set, overrides Approve and applies ModifiedHours with
	// the given rationale.
	Modify        bool
	ModifiedHours float64
	Rationale     string
}

// BatchItemResult reports one item's outcome in a batch decision. Items
// are processed independently; one failure never aborts siblings.
type BatchItemResult struct {
	WeeklyID string
	Err      error
}

type WeeklyPlanService interface {
	ListByAllocation(ctx context.Context, allocationID string) ([]*domain.WeeklyAllocation, error)
	// Submit replaces the consultant's proposed distribution for the
	// given weeks. The sum of effective hours across all of the
	// allocation's weeks must stay within its total.
	Submit(ctx context.Context, allocationID string, weeks []WeekHours) ([]*domain.WeeklyAllocation, error)
	Decide(ctx context.Context, d WeeklyDecision) error
	BatchDecide(ctx context.Context, decisions []WeeklyDecision) []BatchItemResult
}

// ChangeRequestResult carries a created request plus any advisory warning
// from validation.
type ChangeRequestResult struct {
	Request *domain.HourChangeRequest
	Warning string
}

type ChangeRequestService interface {
	GetByID(ctx context.Context, id string) (*domain.HourChangeRequest, error)
	ListPending(ctx context.Context) ([]*domain.HourChangeRequest, error)
	CreateAdjustment(ctx context.Context, allocationID string, requestedHours float64, reason, requestedBy string) (*ChangeRequestResult, error)
	CreateShift(ctx context.Context, allocationID string, toConsultantID string, shiftHours float64, reason, requestedBy string) (*ChangeRequestResult, error)
	// Approve applies the requested change to the underlying
	// allocation(s) in the same transaction that resolves the request.
	// If re-validation fails against current facts the transaction rolls
	// back and the request stays PENDING.
	Approve(ctx context.Context, requestID, resolvedBy string) (*ChangeRequestResult, error)
	Reject(ctx context.Context, requestID, resolvedBy, reason string) error
}

// ImportResult summarizes a successful plan import. Warning carries the
// budget-utilization advisory when imported APPROVED allocations already
// exceed the project budget.
type ImportResult struct {
	Project         *domain.Project
	ConsultantCount int
	SprintCount     int
	PhaseCount      int
	AllocationCount int
	WeeklyCount     int
	Warning         string
}

type ImportService interface {
	ImportPlan(ctx context.Context, filePath string) (*ImportResult, error)
	ImportPlanFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}

type CapacityService interface {
	// ReportForRange computes weekly availability for the consultants
	// over [start, end], across all their projects.
	ReportForRange(ctx context.Context, consultantIDs []string, start, end time.Time) (*capacity.Report, error)
	// ReportForPhase derives the range from the phase's sprint-derived
	// dates.
	ReportForPhase(ctx context.Context, phaseID string, consultantIDs []string) (*capacity.Report, error)
}
