package repository

import (
	"context"
	"testing"

	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allocFixture struct {
	consultants *SQLiteConsultantRepo
	projects    *SQLiteProjectRepo
	sprints     *SQLiteSprintRepo
	phases      *SQLitePhaseRepo
	allocations *SQLiteAllocationRepo
	weeklies    *SQLiteWeeklyRepo

	consultant *domain.Consultant
	project    *domain.Project
	phaseA     *domain.Phase
	phaseB     *domain.Phase
}

func newAllocFixture(t *testing.T) *allocFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	f := &allocFixture{
		consultants: NewSQLiteConsultantRepo(database),
		projects:    NewSQLiteProjectRepo(database),
		sprints:     NewSQLiteSprintRepo(database),
		phases:      NewSQLitePhaseRepo(database),
		allocations: NewSQLiteAllocationRepo(database),
		weeklies:    NewSQLiteWeeklyRepo(database),
	}

	ctx := context.Background()
	f.consultant = testutil.NewTestConsultant("ada")
	require.NoError(t, f.consultants.Create(ctx, f.consultant))

	f.project = testutil.NewTestProject("Alpha", testutil.WithBudget(100))
	require.NoError(t, f.projects.Create(ctx, f.project))

	f.phaseA = testutil.NewTestPhase(f.project.ID, "Design")
	f.phaseB = testutil.NewTestPhase(f.project.ID, "Build")
	require.NoError(t, f.phases.Create(ctx, f.phaseA))
	require.NoError(t, f.phases.Create(ctx, f.phaseB))

	return f
}

func TestAllocationRepo_CreateAndGet(t *testing.T) {
	f := newAllocFixture(t)
	ctx := context.Background()

	a := testutil.NewTestAllocation(f.phaseA.ID, f.consultant.ID, 25.5)
	require.NoError(t, f.allocations.Create(ctx, a))

	got, err := f.allocations.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.5, got.TotalHours)
	assert.Equal(t, domain.AllocationPending, got.Status)

	byPair, err := f.allocations.GetByPhaseAndConsultant(ctx, f.phaseA.ID, f.consultant.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, byPair.ID)
}

func TestSumProjectAllocations_ExcludesTerminalAndPhase(t *testing.T) {
	f := newAllocFixture(t)
	ctx := context.Background()

	require.NoError(t, f.allocations.Create(ctx,
		testutil.NewTestAllocation(f.phaseA.ID, f.consultant.ID, 40, testutil.WithAllocationStatus(domain.AllocationApproved))))
	require.NoError(t, f.allocations.Create(ctx,
		testutil.NewTestAllocation(f.phaseB.ID, f.consultant.ID, 30, testutil.WithAllocationStatus(domain.AllocationExpired))))

	// Expired hours are released back to the pool.
	total, err := f.allocations.SumProjectAllocations(ctx, f.consultant.ID, f.project.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 40.0, total)

	// Excluding phase A leaves nothing counting.
	total, err = f.allocations.SumProjectAllocations(ctx, f.consultant.ID, f.project.ID, f.phaseA.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestSumApprovedByProject(t *testing.T) {
	f := newAllocFixture(t)
	ctx := context.Background()

	require.NoError(t, f.allocations.Create(ctx,
		testutil.NewTestAllocation(f.phaseA.ID, f.consultant.ID, 60, testutil.WithAllocationStatus(domain.AllocationApproved))))
	require.NoError(t, f.allocations.Create(ctx,
		testutil.NewTestAllocation(f.phaseB.ID, f.consultant.ID, 50)))

	total, err := f.allocations.SumApprovedByProject(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, total)
}

func TestSumPlannedHours_EffectiveAndRejected(t *testing.T) {
	f := newAllocFixture(t)
	ctx := context.Background()

	a := testutil.NewTestAllocation(f.phaseA.ID, f.consultant.ID, 40)
	require.NoError(t, f.allocations.Create(ctx, a))

	monday := testutil.FixedNow
	week1 := testutil.NewTestWeekly(a.ID, monday, 10)
	week2 := testutil.NewTestWeekly(a.ID, monday.AddDate(0, 0, 7), 12,
		testutil.WithApprovedHours(8), testutil.WithWeeklyStatus(domain.WeeklyModified))
	week3 := testutil.NewTestWeekly(a.ID, monday.AddDate(0, 0, 14), 20,
		testutil.WithWeeklyStatus(domain.WeeklyRejected))
	for _, w := range []*domain.WeeklyAllocation{week1, week2, week3} {
		require.NoError(t, f.weeklies.Create(ctx, w))
	}

	// 10 proposed + 8 approved; the rejected 20 does not count.
	total, err := f.weeklies.SumPlannedHours(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 18.0, total)
}

func TestListOverlapping(t *testing.T) {
	f := newAllocFixture(t)
	ctx := context.Background()

	a := testutil.NewTestAllocation(f.phaseA.ID, f.consultant.ID, 40,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, f.allocations.Create(ctx, a))

	monday := testutil.FixedNow // a Monday
	inRange := testutil.NewTestWeekly(a.ID, monday, 15)
	outOfRange := testutil.NewTestWeekly(a.ID, monday.AddDate(0, 0, 28), 10)
	require.NoError(t, f.weeklies.Create(ctx, inRange))
	require.NoError(t, f.weeklies.Create(ctx, outOfRange))

	loads, err := f.allocations.ListOverlapping(ctx,
		[]string{f.consultant.ID}, monday, monday.AddDate(0, 0, 13))
	require.NoError(t, err)
	require.Len(t, loads, 1)
	assert.Equal(t, f.project.ID, loads[0].ProjectID)
	assert.Equal(t, "Alpha", loads[0].ProjectName)
	require.Len(t, loads[0].Weeklies, 1)
	assert.Equal(t, 15.0, loads[0].Weeklies[0].ProposedHours)
}

func TestListOverlapping_NoConsultants(t *testing.T) {
	f := newAllocFixture(t)
	loads, err := f.allocations.ListOverlapping(context.Background(), nil, testutil.FixedNow, testutil.FixedNow)
	require.NoError(t, err)
	assert.Empty(t, loads)
}
