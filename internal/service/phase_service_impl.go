package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/repository"
	"github.com/ahenriksen/staffplan/internal/structure"
	"github.com/ahenriksen/staffplan/internal/validation"
)

type phaseService struct {
	phases      repository.PhaseRepo
	allocations repository.AllocationRepo
	uow         db.UnitOfWork
	obs         UseCaseObserver
}

func NewPhaseService(phases repository.PhaseRepo, allocations repository.AllocationRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PhaseService {
	return &phaseService{
		phases:      phases,
		allocations: allocations,
		uow:         uow,
		obs:         useCaseObserverOrNoop(observers),
	}
}

func (s *phaseService) Create(ctx context.Context, projectID string, spec PhaseSpec) (*domain.Phase, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("phase name is required")
	}

	phCtx := structure.PhaseContext{NewPhase: true, IsKickoff: spec.IsKickoff}
	if err := structure.ValidateSelection(spec.SprintNumbers, phCtx); err != nil {
		return nil, err
	}

	ph := &domain.Phase{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Name:        spec.Name,
		Description: spec.Description,
		IsKickoff:   spec.IsKickoff,
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txPhases := repository.NewSQLitePhaseRepo(tx)
		txSprints := repository.NewSQLiteSprintRepo(tx)

		if _, err := txProjects.GetByID(ctx, projectID); err != nil {
			return err
		}
		if spec.IsKickoff {
			existing, err := txPhases.GetKickoff(ctx, projectID)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("project already has a kickoff phase (%s)", existing.Name)
			}
		}

		sprints, err := resolveSprints(ctx, txSprints, projectID, spec.SprintNumbers)
		if err != nil {
			return err
		}
		start, end, err := structure.DateRange(sprints)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		ph.StartDate = start
		ph.EndDate = end
		ph.CreatedAt = now
		ph.UpdatedAt = now

		if err := txPhases.Create(ctx, ph); err != nil {
			return err
		}
		return txPhases.SetSprints(ctx, ph.ID, sprintIDs(sprints))
	})
	if err != nil {
		return nil, err
	}
	return ph, nil
}

func (s *phaseService) GetByID(ctx context.Context, id string) (*domain.Phase, error) {
	return s.phases.GetByID(ctx, id)
}

func (s *phaseService) ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error) {
	return s.phases.ListByProject(ctx, projectID)
}

func (s *phaseService) EditSprints(ctx context.Context, phaseID string, sprintNumbers []int) (*domain.Phase, error) {
	var ph *domain.Phase
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPhases := repository.NewSQLitePhaseRepo(tx)
		txSprints := repository.NewSQLiteSprintRepo(tx)

		var err error
		ph, err = txPhases.GetByID(ctx, phaseID)
		if err != nil {
			return err
		}

		phCtx := structure.PhaseContext{NewPhase: false, IsKickoff: ph.IsKickoff}
		if err := structure.ValidateSelection(sprintNumbers, phCtx); err != nil {
			return err
		}

		sprints, err := resolveSprints(ctx, txSprints, ph.ProjectID, sprintNumbers)
		if err != nil {
			return err
		}
		start, end, err := structure.DateRange(sprints)
		if err != nil {
			return err
		}

		ph.StartDate = start
		ph.EndDate = end
		ph.UpdatedAt = time.Now().UTC()
		if err := txPhases.Update(ctx, ph); err != nil {
			return err
		}
		return txPhases.SetSprints(ctx, phaseID, sprintIDs(sprints))
	})
	if err != nil {
		return nil, err
	}
	return ph, nil
}

// AddToRoster creates a PENDING allocation for the consultant, bounds
// checked against freshly read budget and commitment sums inside the
// transaction.
func (s *phaseService) AddToRoster(ctx context.Context, phaseID, consultantID string, hours float64) (*SaveAllocationResult, error) {
	result := &SaveAllocationResult{}
	fields := map[string]any{"phase_id": phaseID, "consultant_id": consultantID}

	err := observe(ctx, s.obs, "phase.add_to_roster", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txPhases := repository.NewSQLitePhaseRepo(tx)
			txProjects := repository.NewSQLiteProjectRepo(tx)
			txConsultants := repository.NewSQLiteConsultantRepo(tx)
			txAllocations := repository.NewSQLiteAllocationRepo(tx)

			ph, err := txPhases.GetByID(ctx, phaseID)
			if err != nil {
				return err
			}
			if _, err := txConsultants.GetByID(ctx, consultantID); err != nil {
				return err
			}
			p, err := txProjects.GetByID(ctx, ph.ProjectID)
			if err != nil {
				return err
			}

			if existing, err := txAllocations.GetByPhaseAndConsultant(ctx, phaseID, consultantID); err == nil && existing != nil {
				return fmt.Errorf("consultant is already on the phase roster")
			}

			otherCommitted, err := txAllocations.SumProjectAllocations(ctx, consultantID, ph.ProjectID, phaseID)
			if err != nil {
				return err
			}
			available, err := availableHoursForRange(ctx, txAllocations, consultantID, ph.StartDate, ph.EndDate)
			if err != nil {
				return err
			}

			res := validation.ValidateAllocation(validation.AllocationCheck{
				ProposedHours:       hours,
				CurrentHours:        0,
				PlannedFloor:        0,
				ProjectBudgetHours:  p.BudgetedHours,
				OtherCommittedHours: otherCommitted,
				AvailableHours:      available,
				CheckAvailability:   true,
			})
			if !res.Valid {
				return fmt.Errorf("%s", res.Err)
			}
			result.Warning = res.Warning

			now := time.Now().UTC()
			a := &domain.PhaseAllocation{
				ID:           uuid.New().String(),
				PhaseID:      phaseID,
				ConsultantID: consultantID,
				TotalHours:   hours,
				Status:       domain.AllocationPending,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := txAllocations.Create(ctx, a); err != nil {
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

// RemoveFromRoster hard-deletes an allocation with no planned weekly
// hours; otherwise the allocation goes DELETION_PENDING and stays in
// place until the approval authority resolves it.
func (s *phaseService) RemoveFromRoster(ctx context.Context, phaseID, consultantID string) (*domain.PhaseAllocation, error) {
	var out *domain.PhaseAllocation
	fields := map[string]any{"phase_id": phaseID, "consultant_id": consultantID}

	err := observe(ctx, s.obs, "phase.remove_from_roster", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txAllocations := repository.NewSQLiteAllocationRepo(tx)
			txWeeklies := repository.NewSQLiteWeeklyRepo(tx)

			a, err := txAllocations.GetByPhaseAndConsultant(ctx, phaseID, consultantID)
			if err != nil {
				return err
			}

			planned, err := txWeeklies.SumPlannedHours(ctx, a.ID)
			if err != nil {
				return err
			}
			if planned == 0 {
				return txAllocations.Delete(ctx, a.ID)
			}

			if err := transitionAllocation(a, domain.AllocationDeletionPending); err != nil {
				return err
			}
			if err := txAllocations.Update(ctx, a); err != nil {
				return err
			}
			out = a
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func resolveSprints(ctx context.Context, sprints repository.SprintRepo, projectID string, numbers []int) ([]*domain.Sprint, error) {
	resolved := make([]*domain.Sprint, 0, len(numbers))
	for _, n := range sortedSprintNumbers(numbers) {
		sp, err := sprints.GetByNumber(ctx, projectID, n)
		if err != nil {
			return nil, fmt.Errorf("sprint %d: %w", n, err)
		}
		resolved = append(resolved, sp)
	}
	return resolved, nil
}

func sprintIDs(sprints []*domain.Sprint) []string {
	ids := make([]string, len(sprints))
	for i, sp := range sprints {
		ids[i] = sp.ID
	}
	return ids
}
