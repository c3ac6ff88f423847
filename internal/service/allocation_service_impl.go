package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ahenriksen/staffplan/internal/approval"
	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/repository"
	"github.com/ahenriksen/staffplan/internal/validation"
)

type allocationService struct {
	allocations repository.AllocationRepo
	policy      AllocationPolicy
	uow         db.UnitOfWork
	obs         UseCaseObserver
}

func NewAllocationService(allocations repository.AllocationRepo, policy AllocationPolicy, uow db.UnitOfWork, observers ...UseCaseObserver) AllocationService {
	return &allocationService{
		allocations: allocations,
		policy:      policy,
		uow:         uow,
		obs:         useCaseObserverOrNoop(observers),
	}
}

func (s *allocationService) GetByID(ctx context.Context, id string) (*domain.PhaseAllocation, error) {
	return s.allocations.GetByID(ctx, id)
}

func (s *allocationService) ListByPhase(ctx context.Context, phaseID string) ([]*domain.PhaseAllocation, error) {
	return s.allocations.ListByPhase(ctx, phaseID)
}

// SetHours resizes an allocation. All bounds are checked against sums
// re-read inside the transaction, never against caller-supplied state, so
// two actors racing on the same budget pool cannot silently overcommit.
func (s *allocationService) SetHours(ctx context.Context, allocationID string, hours float64) (*SaveAllocationResult, error) {
	result := &SaveAllocationResult{}
	fields := map[string]any{"allocation_id": allocationID, "hours": hours}

	err := observe(ctx, s.obs, "allocation.set_hours", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txAllocations := repository.NewSQLiteAllocationRepo(tx)
			txWeeklies := repository.NewSQLiteWeeklyRepo(tx)
			txPhases := repository.NewSQLitePhaseRepo(tx)
			txProjects := repository.NewSQLiteProjectRepo(tx)

			a, err := txAllocations.GetByID(ctx, allocationID)
			if err != nil {
				return err
			}
			if a.Status.TerminalExcluded() {
				return fmt.Errorf("cannot edit a %s allocation", a.Status)
			}

			ph, err := txPhases.GetByID(ctx, a.PhaseID)
			if err != nil {
				return err
			}
			p, err := txProjects.GetByID(ctx, ph.ProjectID)
			if err != nil {
				return err
			}

			planned, err := txWeeklies.SumPlannedHours(ctx, a.ID)
			if err != nil {
				return err
			}
			otherCommitted, err := txAllocations.SumProjectAllocations(ctx, a.ConsultantID, ph.ProjectID, a.PhaseID)
			if err != nil {
				return err
			}
			available, err := availableHoursForRange(ctx, txAllocations, a.ConsultantID, ph.StartDate, ph.EndDate)
			if err != nil {
				return err
			}

			res := validation.ValidateAllocation(validation.AllocationCheck{
				ProposedHours:       hours,
				CurrentHours:        a.TotalHours,
				PlannedFloor:        planned,
				ProjectBudgetHours:  p.BudgetedHours,
				OtherCommittedHours: otherCommitted,
				AvailableHours:      available,
				CheckAvailability:   true,
			})
			if !res.Valid {
				return fmt.Errorf("%s", res.Err)
			}
			result.Warning = res.Warning

			a.TotalHours = hours
			if a.Status == domain.AllocationApproved && s.policy.RevalidateOnModify {
				a.Status = domain.AllocationPending
			}
			a.UpdatedAt = time.Now().UTC()
			if err := txAllocations.Update(ctx, a); err != nil {
				return err
			}
			result.Allocation = a
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *allocationService) Approve(ctx context.Context, allocationID string) (string, error) {
	var warning string
	err := observe(ctx, s.obs, "allocation.approve", map[string]any{"allocation_id": allocationID}, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txAllocations := repository.NewSQLiteAllocationRepo(tx)
			txPhases := repository.NewSQLitePhaseRepo(tx)
			txProjects := repository.NewSQLiteProjectRepo(tx)

			a, err := txAllocations.GetByID(ctx, allocationID)
			if err != nil {
				return err
			}
			if err := transitionAllocation(a, domain.AllocationApproved); err != nil {
				return err
			}
			if err := txAllocations.Update(ctx, a); err != nil {
				return err
			}

			ph, err := txPhases.GetByID(ctx, a.PhaseID)
			if err != nil {
				return err
			}
			p, err := txProjects.GetByID(ctx, ph.ProjectID)
			if err != nil {
				return err
			}
			approved, err := txAllocations.SumApprovedByProject(ctx, ph.ProjectID)
			if err != nil {
				return err
			}
			if approved > p.BudgetedHours {
				warning = fmt.Sprintf(
					"approved allocations of %.1fh exceed the project budget of %.1fh by %.1fh",
					approved, p.BudgetedHours, approved-p.BudgetedHours)
			}
			return nil
		})
	})
	return warning, err
}

func (s *allocationService) Reject(ctx context.Context, allocationID string) error {
	return s.transition(ctx, "allocation.reject", allocationID, domain.AllocationRejected)
}

func (s *allocationService) ResolveDeletion(ctx context.Context, allocationID string, approve bool) error {
	if !approve {
		// Rejecting the deletion restores the approved allocation.
		return s.transition(ctx, "allocation.reject_deletion", allocationID, domain.AllocationApproved)
	}
	return observe(ctx, s.obs, "allocation.approve_deletion", map[string]any{"allocation_id": allocationID}, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txAllocations := repository.NewSQLiteAllocationRepo(tx)
			a, err := txAllocations.GetByID(ctx, allocationID)
			if err != nil {
				return err
			}
			if a.Status != domain.AllocationDeletionPending {
				return fmt.Errorf("allocation is %s, not DELETION_PENDING", a.Status)
			}
			// Weekly allocations cascade with the row.
			return txAllocations.Delete(ctx, a.ID)
		})
	})
}

func (s *allocationService) Expire(ctx context.Context, allocationID string) error {
	return s.transition(ctx, "allocation.expire", allocationID, domain.AllocationExpired)
}

func (s *allocationService) Forfeit(ctx context.Context, allocationID string) error {
	return s.transition(ctx, "allocation.forfeit", allocationID, domain.AllocationForfeited)
}

func (s *allocationService) transition(ctx context.Context, useCase, allocationID string, next domain.AllocationStatus) error {
	return observe(ctx, s.obs, useCase, map[string]any{"allocation_id": allocationID}, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txAllocations := repository.NewSQLiteAllocationRepo(tx)
			a, err := txAllocations.GetByID(ctx, allocationID)
			if err != nil {
				return err
			}
			if err := transitionAllocation(a, next); err != nil {
				return err
			}
			return txAllocations.Update(ctx, a)
		})
	})
}

func transitionAllocation(a *domain.PhaseAllocation, next domain.AllocationStatus) error {
	if err := approval.AllocationTransition(a.Status, next); err != nil {
		return err
	}
	a.Status = next
	a.UpdatedAt = time.Now().UTC()
	return nil
}
