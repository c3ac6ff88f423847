package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahenriksen/staffplan/internal/approval"
	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/repository"
	"github.com/ahenriksen/staffplan/internal/validation"
)

type changeRequestService struct {
	requests    repository.ChangeRequestRepo
	allocations repository.AllocationRepo
	weeklies    repository.WeeklyRepo
	uow         db.UnitOfWork
	obs         UseCaseObserver
}

func NewChangeRequestService(requests repository.ChangeRequestRepo, allocations repository.AllocationRepo, weeklies repository.WeeklyRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ChangeRequestService {
	return &changeRequestService{
		requests:    requests,
		allocations: allocations,
		weeklies:    weeklies,
		uow:         uow,
		obs:         useCaseObserverOrNoop(observers),
	}
}

func (s *changeRequestService) GetByID(ctx context.Context, id string) (*domain.HourChangeRequest, error) {
	return s.requests.GetByID(ctx, id)
}

func (s *changeRequestService) ListPending(ctx context.Context) ([]*domain.HourChangeRequest, error) {
	return s.requests.ListPending(ctx)
}

func (s *changeRequestService) CreateAdjustment(ctx context.Context, allocationID string, requestedHours float64, reason, requestedBy string) (*ChangeRequestResult, error) {
	result := &ChangeRequestResult{}
	fields := map[string]any{"allocation_id": allocationID}

	err := observe(ctx, s.obs, "change.create_adjustment", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txAllocations := repository.NewSQLiteAllocationRepo(tx)
			txWeeklies := repository.NewSQLiteWeeklyRepo(tx)
			txRequests := repository.NewSQLiteChangeRequestRepo(tx)

			a, err := txAllocations.GetByID(ctx, allocationID)
			if err != nil {
				return err
			}
			if a.Status.TerminalExcluded() || a.Status == domain.AllocationRejected {
				return fmt.Errorf("cannot request changes to a %s allocation", a.Status)
			}

			planned, err := txWeeklies.SumPlannedHours(ctx, a.ID)
			if err != nil {
				return err
			}
			res := validation.ValidateAdjustment(validation.AdjustmentCheck{
				Reason:         reason,
				OriginalHours:  a.TotalHours,
				RequestedHours: requestedHours,
				PlannedFloor:   planned,
			})
			if !res.Valid {
				return fmt.Errorf("%s", res.Err)
			}
			result.Warning = res.Warning

			now := time.Now().UTC()
			r := &domain.HourChangeRequest{
				ID:             uuid.New().String(),
				AllocationID:   a.ID,
				Type:           domain.ChangeAdjustment,
				Status:         domain.ChangePending,
				OriginalHours:  a.TotalHours,
				RequestedHours: requestedHours,
				Reason:         reason,
				RequestedBy:    requestedBy,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := txRequests.Create(ctx, r); err != nil {
				return err
			}
			result.Request = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *changeRequestService) CreateShift(ctx context.Context, allocationID string, toConsultantID string, shiftHours float64, reason, requestedBy string) (*ChangeRequestResult, error) {
	result := &ChangeRequestResult{}
	fields := map[string]any{"allocation_id": allocationID, "to_consultant_id": toConsultantID}

	err := observe(ctx, s.obs, "change.create_shift", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txAllocations := repository.NewSQLiteAllocationRepo(tx)
			txConsultants := repository.NewSQLiteConsultantRepo(tx)
			txRequests := repository.NewSQLiteChangeRequestRepo(tx)

			a, err := txAllocations.GetByID(ctx, allocationID)
			if err != nil {
				return err
			}
			if a.Status.TerminalExcluded() || a.Status == domain.AllocationRejected {
				return fmt.Errorf("cannot request changes to a %s allocation", a.Status)
			}
			if _, err := txConsultants.GetByID(ctx, toConsultantID); err != nil {
				return err
			}

			res := validation.ValidateShift(validation.ShiftCheck{
				Reason:           reason,
				OriginalHours:    a.TotalHours,
				ShiftHours:       shiftHours,
				FromConsultantID: a.ConsultantID,
				ToConsultantID:   toConsultantID,
			})
			if !res.Valid {
				return fmt.Errorf("%s", res.Err)
			}
			result.Warning = res.Warning

			now := time.Now().UTC()
			r := &domain.HourChangeRequest{
				ID:               uuid.New().String(),
				AllocationID:     a.ID,
				Type:             domain.ChangeShift,
				Status:           domain.ChangePending,
				OriginalHours:    a.TotalHours,
				ShiftHours:       shiftHours,
				FromConsultantID: a.ConsultantID,
				ToConsultantID:   toConsultantID,
				Reason:           reason,
				RequestedBy:      requestedBy,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := txRequests.Create(ctx, r); err != nil {
				return err
			}
			result.Request = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Approve resolves the request and applies its change in one transaction.
// The change is re-validated against freshly read sums at apply time;
// when that fails the whole transaction rolls back and the request stays
// PENDING for the authority to retry or reject.
func (s *changeRequestService) Approve(ctx context.Context, requestID, resolvedBy string) (*ChangeRequestResult, error) {
	result := &ChangeRequestResult{}
	fields := map[string]any{"request_id": requestID}

	err := observe(ctx, s.obs, "change.approve", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txRequests := repository.NewSQLiteChangeRequestRepo(tx)

			r, err := txRequests.GetByID(ctx, requestID)
			if err != nil {
				return err
			}
			if err := approval.ChangeTransition(r.Status, domain.ChangeApproved); err != nil {
				return err
			}

			switch r.Type {
			case domain.ChangeAdjustment:
				err = s.applyAdjustment(ctx, tx, r)
			case domain.ChangeShift:
				err = s.applyShift(ctx, tx, r)
			default:
				err = fmt.Errorf("unknown change type %q", r.Type)
			}
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			r.Status = domain.ChangeApproved
			r.ResolvedBy = resolvedBy
			r.ResolvedAt = &now
			r.UpdatedAt = now
			if err := txRequests.Update(ctx, r); err != nil {
				return err
			}
			result.Request = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyAdjustment resizes the underlying allocation by the request's
// delta, bounds checked against current facts rather than the snapshot
// the request was created from.
func (s *changeRequestService) applyAdjustment(ctx context.Context, tx db.DBTX, r *domain.HourChangeRequest) error {
	txAllocations := repository.NewSQLiteAllocationRepo(tx)
	txWeeklies := repository.NewSQLiteWeeklyRepo(tx)
	txPhases := repository.NewSQLitePhaseRepo(tx)
	txProjects := repository.NewSQLiteProjectRepo(tx)

	a, err := txAllocations.GetByID(ctx, r.AllocationID)
	if err != nil {
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

	newTotal := a.TotalHours + r.Delta()
	planned, err := txWeeklies.SumPlannedHours(ctx, a.ID)
	if err != nil {
		return err
	}
	otherCommitted, err := txAllocations.SumProjectAllocations(ctx, a.ConsultantID, ph.ProjectID, a.PhaseID)
	if err != nil {
		return err
	}
	res := validation.ValidateAllocation(validation.AllocationCheck{
		ProposedHours:       newTotal,
		CurrentHours:        a.TotalHours,
		PlannedFloor:        planned,
		ProjectBudgetHours:  p.BudgetedHours,
		OtherCommittedHours: otherCommitted,
	})
	if !res.Valid {
		return fmt.Errorf("cannot apply change: %s", res.Err)
	}

	a.TotalHours = newTotal
	a.UpdatedAt = time.Now().UTC()
	return txAllocations.Update(ctx, a)
}

// applyShift moves hours from the source allocation to the target
// consultant's allocation on the same phase, creating one when the
// target is not on the roster yet. Both sides are re-checked.
func (s *changeRequestService) applyShift(ctx context.Context, tx db.DBTX, r *domain.HourChangeRequest) error {
	txAllocations := repository.NewSQLiteAllocationRepo(tx)
	txWeeklies := repository.NewSQLiteWeeklyRepo(tx)
	txPhases := repository.NewSQLitePhaseRepo(tx)
	txProjects := repository.NewSQLiteProjectRepo(tx)

	source, err := txAllocations.GetByID(ctx, r.AllocationID)
	if err != nil {
		return err
	}
	ph, err := txPhases.GetByID(ctx, source.PhaseID)
	if err != nil {
		return err
	}
	p, err := txProjects.GetByID(ctx, ph.ProjectID)
	if err != nil {
		return err
	}

	if r.ShiftHours > source.TotalHours {
		return fmt.Errorf(
			"cannot apply change: cannot transfer more than the %.1fh currently allocated", source.TotalHours)
	}
	sourcePlanned, err := txWeeklies.SumPlannedHours(ctx, source.ID)
	if err != nil {
		return err
	}
	if source.TotalHours-r.ShiftHours < sourcePlanned {
		return fmt.Errorf(
			"cannot apply change: source would drop below %.1fh already planned in weekly allocations", sourcePlanned)
	}

	target, err := txAllocations.GetByPhaseAndConsultant(ctx, source.PhaseID, r.ToConsultantID)
	now := time.Now().UTC()
	if err != nil {
		// Not on the roster yet: the shift seats the target consultant
		// with an approved allocation of the transferred hours.
		otherCommitted, sumErr := txAllocations.SumProjectAllocations(ctx, r.ToConsultantID, ph.ProjectID, source.PhaseID)
		if sumErr != nil {
			return sumErr
		}
		res := validation.ValidateAllocation(validation.AllocationCheck{
			ProposedHours:       r.ShiftHours,
			ProjectBudgetHours:  p.BudgetedHours,
			OtherCommittedHours: otherCommitted,
		})
		if !res.Valid {
			return fmt.Errorf("cannot apply change: %s", res.Err)
		}
		target = &domain.PhaseAllocation{
			ID:           uuid.New().String(),
			PhaseID:      source.PhaseID,
			ConsultantID: r.ToConsultantID,
			TotalHours:   r.ShiftHours,
			Status:       domain.AllocationApproved,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := txAllocations.Create(ctx, target); err != nil {
			return err
		}
	} else {
		otherCommitted, sumErr := txAllocations.SumProjectAllocations(ctx, target.ConsultantID, ph.ProjectID, target.PhaseID)
		if sumErr != nil {
			return sumErr
		}
		res := validation.ValidateAllocation(validation.AllocationCheck{
			ProposedHours:       target.TotalHours + r.ShiftHours,
			CurrentHours:        target.TotalHours,
			ProjectBudgetHours:  p.BudgetedHours,
			OtherCommittedHours: otherCommitted,
		})
		if !res.Valid {
			return fmt.Errorf("cannot apply change: %s", res.Err)
		}
		target.TotalHours += r.ShiftHours
		target.UpdatedAt = now
		if err := txAllocations.Update(ctx, target); err != nil {
			return err
		}
	}

	source.TotalHours -= r.ShiftHours
	source.UpdatedAt = now
	return txAllocations.Update(ctx, source)
}

func (s *changeRequestService) Reject(ctx context.Context, requestID, resolvedBy, reason string) error {
	fields := map[string]any{"request_id": requestID}
	return observe(ctx, s.obs, "change.reject", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txRequests := repository.NewSQLiteChangeRequestRepo(tx)

			r, err := txRequests.GetByID(ctx, requestID)
			if err != nil {
				return err
			}
			if err := approval.RejectChange(r, reason); err != nil {
				return err
			}
			now := time.Now().UTC()
			r.ResolvedBy = resolvedBy
			r.ResolvedAt = &now
			r.UpdatedAt = now
			return txRequests.Update(ctx, r)
		})
	})
}
