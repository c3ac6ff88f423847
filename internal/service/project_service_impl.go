package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahenriksen/staffplan/internal/calweek"
	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/repository"
)

type projectService struct {
	projects    repository.ProjectRepo
	sprints     repository.SprintRepo
	allocations repository.AllocationRepo
	uow         db.UnitOfWork
}

func NewProjectService(projects repository.ProjectRepo, sprints repository.SprintRepo, allocations repository.AllocationRepo, uow db.UnitOfWork) ProjectService {
	return &projectService{projects: projects, sprints: sprints, allocations: allocations, uow: uow}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) BudgetUtilization(ctx context.Context, projectID string) (*BudgetUtilization, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	approved, err := s.allocations.SumApprovedByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	bu := &BudgetUtilization{BudgetedHours: p.BudgetedHours, ApprovedHours: approved}
	if approved > p.BudgetedHours {
		bu.Warning = fmt.Sprintf(
			"approved allocations of %.1fh exceed the project budget of %.1fh by %.1fh",
			approved, p.BudgetedHours, approved-p.BudgetedHours)
	}
	return bu, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) ListSprints(ctx context.Context, projectID string) ([]*domain.Sprint, error) {
	return s.sprints.ListByProject(ctx, projectID)
}

// GenerateSprints appends contiguous two-week sprints. Sprint 0 starts on
// the Monday of the project's start week; each subsequent sprint starts
// the day after its predecessor ends.
func (s *projectService) GenerateSprints(ctx context.Context, projectID string, count int) ([]*domain.Sprint, error) {
	if count <= 0 {
		return nil, fmt.Errorf("sprint count must be positive (got %d)", count)
	}

	var created []*domain.Sprint
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txSprints := repository.NewSQLiteSprintRepo(tx)

		p, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}

		existing, err := txSprints.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}

		nextNumber := domain.KickoffSprintNumber
		nextStart := calweek.FromDate(p.StartDate).Start
		if len(existing) > 0 {
			last := existing[len(existing)-1]
			nextNumber = last.Number + 1
			nextStart = last.EndDate.AddDate(0, 0, 1)
		}

		now := time.Now().UTC()
		for i := 0; i < count; i++ {
			sp := &domain.Sprint{
				ID:        uuid.New().String(),
				ProjectID: projectID,
				Number:    nextNumber,
				StartDate: nextStart,
				EndDate:   nextStart.AddDate(0, 0, domain.SprintLengthWeeks*7-1),
				CreatedAt: now,
			}
			if err := txSprints.Create(ctx, sp); err != nil {
				return err
			}
			created = append(created, sp)
			nextNumber++
			nextStart = sp.EndDate.AddDate(0, 0, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
