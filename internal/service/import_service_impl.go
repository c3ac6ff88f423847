package service

import (
	"context"
	"fmt"

	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/importer"
	"github.com/ahenriksen/staffplan/internal/repository"
)

type importService struct {
	uow db.UnitOfWork
	obs UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, obs: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportPlan(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportPlanFromSchema(ctx, schema)
}

// ImportPlanFromSchema validates, converts, and persists the whole plan
// in one transaction; a failure on any record rolls the plan back.
func (s *importService) ImportPlanFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	plan, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	result := &ImportResult{
		Project:         plan.Project,
		ConsultantCount: len(plan.Consultants),
		SprintCount:     len(plan.Sprints),
		PhaseCount:      len(plan.Phases),
		AllocationCount: len(plan.Allocations),
		WeeklyCount:     len(plan.Weeklies),
	}

	var approved float64
	for _, a := range plan.Allocations {
		if a.Status == domain.AllocationApproved {
			approved += a.TotalHours
		}
	}
	if approved > plan.Project.BudgetedHours {
		result.Warning = fmt.Sprintf(
			"approved allocations of %.1fh exceed the project budget of %.1fh by %.1fh",
			approved, plan.Project.BudgetedHours, approved-plan.Project.BudgetedHours)
	}

	fields := map[string]any{"project": plan.Project.Name}
	err = observe(ctx, s.obs, "import.plan", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txConsultants := repository.NewSQLiteConsultantRepo(tx)
			txProjects := repository.NewSQLiteProjectRepo(tx)
			txSprints := repository.NewSQLiteSprintRepo(tx)
			txPhases := repository.NewSQLitePhaseRepo(tx)
			txAllocations := repository.NewSQLiteAllocationRepo(tx)
			txWeeklies := repository.NewSQLiteWeeklyRepo(tx)

			for _, c := range plan.Consultants {
				if err := txConsultants.Create(ctx, c); err != nil {
					return fmt.Errorf("creating consultant %q: %w", c.Name, err)
				}
			}
			if err := txProjects.Create(ctx, plan.Project); err != nil {
				return fmt.Errorf("creating project: %w", err)
			}
			for _, sp := range plan.Sprints {
				if err := txSprints.Create(ctx, sp); err != nil {
					return fmt.Errorf("creating sprint %d: %w", sp.Number, err)
				}
			}
			for _, ph := range plan.Phases {
				if err := txPhases.Create(ctx, ph); err != nil {
					return fmt.Errorf("creating phase %q: %w", ph.Name, err)
				}
				if err := txPhases.SetSprints(ctx, ph.ID, plan.PhaseSprints[ph.ID]); err != nil {
					return fmt.Errorf("assigning sprints to phase %q: %w", ph.Name, err)
				}
			}
			for _, a := range plan.Allocations {
				if err := txAllocations.Create(ctx, a); err != nil {
					return fmt.Errorf("creating allocation: %w", err)
				}
			}
			for _, w := range plan.Weeklies {
				if err := txWeeklies.Create(ctx, w); err != nil {
					return fmt.Errorf("creating weekly allocation: %w", err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
