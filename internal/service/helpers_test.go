package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/repository"
	"github.com/ahenriksen/staffplan/internal/testutil"
)

type testEnv struct {
	consultants repository.ConsultantRepo
	projects    repository.ProjectRepo
	sprints     repository.SprintRepo
	phases      repository.PhaseRepo
	allocations repository.AllocationRepo
	weeklies    repository.WeeklyRepo
	requests    repository.ChangeRequestRepo
	uow         db.UnitOfWork
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		consultants: repository.NewSQLiteConsultantRepo(database),
		projects:    repository.NewSQLiteProjectRepo(database),
		sprints:     repository.NewSQLiteSprintRepo(database),
		phases:      repository.NewSQLitePhaseRepo(database),
		allocations: repository.NewSQLiteAllocationRepo(database),
		weeklies:    repository.NewSQLiteWeeklyRepo(database),
		requests:    repository.NewSQLiteChangeRequestRepo(database),
		uow:         testutil.NewTestUoW(database),
	}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// seedPlan persists a consultant, a 100h project with three sprints, and
// a phase spanning sprints 1-2.
func seedPlan(t *testing.T, env *testEnv) (*domain.Consultant, *domain.Project, []*domain.Sprint, *domain.Phase) {
	t.Helper()
	ctx := context.Background()

	c := testutil.NewTestConsultant("dana")
	require.NoError(t, env.consultants.Create(ctx, c))

	p := testutil.NewTestProject("Atlas", testutil.WithBudget(100))
	require.NoError(t, env.projects.Create(ctx, p))

	sprints := testutil.NewTestSprints(p, 3)
	for _, sp := range sprints {
		require.NoError(t, env.sprints.Create(ctx, sp))
	}

	ph := testutil.NewTestPhase(p.ID, "Build",
		testutil.WithPhaseDates(sprints[1].StartDate, sprints[2].EndDate))
	require.NoError(t, env.phases.Create(ctx, ph))
	require.NoError(t, env.phases.SetSprints(ctx, ph.ID, []string{sprints[1].ID, sprints[2].ID}))

	return c, p, sprints, ph
}
