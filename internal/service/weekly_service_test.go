package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/testutil"
)

func TestWeeklySubmit_DistributesWithinTotal(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, sprints, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 30,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewWeeklyPlanService(env.weeklies, env.uow)

	week1 := sprints[1].StartDate
	submitted, err := svc.Submit(ctx, a.ID, []WeekHours{
		{WeekStart: week1, Hours: 12},
		{WeekStart: week1.AddDate(0, 0, 7), Hours: 10},
	})
	require.NoError(t, err)
	require.Len(t, submitted, 2)
	for _, w := range submitted {
		assert.Equal(t, domain.WeeklyPending, w.Status)
	}

	planned, err := env.weeklies.SumPlannedHours(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 22.0, planned)
}

func TestWeeklySubmit_RejectsOverTotal(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, sprints, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 20,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewWeeklyPlanService(env.weeklies, env.uow)

	week1 := sprints[1].StartDate
	_, err := svc.Submit(ctx, a.ID, []WeekHours{
		{WeekStart: week1, Hours: 15},
		{WeekStart: week1.AddDate(0, 0, 7), Hours: 10},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceed the allocation total of 20.0h by 5.0h")

	// Nothing was persisted.
	weeklies, err := env.weeklies.ListByAllocation(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, weeklies)
}

func TestWeeklySubmit_CountsUntouchedWeeks(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, sprints, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 20,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewWeeklyPlanService(env.weeklies, env.uow)

	week1 := sprints[1].StartDate
	week2 := week1.AddDate(0, 0, 7)

	_, err := svc.Submit(ctx, a.ID, []WeekHours{{WeekStart: week1, Hours: 12}})
	require.NoError(t, err)

	// 12h already planned in week1: another 10h in week2 overshoots.
	_, err = svc.Submit(ctx, a.ID, []WeekHours{{WeekStart: week2, Hours: 10}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceed the allocation total")

	// Replacing week1 in the same submission makes room.
	_, err = svc.Submit(ctx, a.ID, []WeekHours{
		{WeekStart: week1, Hours: 8},
		{WeekStart: week2, Hours: 10},
	})
	require.NoError(t, err)

	planned, err := env.weeklies.SumPlannedHours(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 18.0, planned)
}

func TestWeeklySubmit_RequiresApprovedAllocation(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, sprints, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 20)
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewWeeklyPlanService(env.weeklies, env.uow)

	_, err := svc.Submit(ctx, a.ID, []WeekHours{{WeekStart: sprints[1].StartDate, Hours: 5}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APPROVED allocation")
}

func TestWeeklySubmit_RejectsWeekOutsidePhase(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, _, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 20,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewWeeklyPlanService(env.weeklies, env.uow)

	_, err := svc.Submit(ctx, a.ID, []WeekHours{
		{WeekStart: ph.EndDate.AddDate(0, 0, 14), Hours: 5},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside the phase period")
}

func TestWeeklyDecide(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, sprints, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 40,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewWeeklyPlanService(env.weeklies, env.uow)

	week1 := sprints[1].StartDate
	submitted, err := svc.Submit(ctx, a.ID, []WeekHours{{WeekStart: week1, Hours: 10}})
	require.NoError(t, err)
	w := submitted[0]

	t.Run("modify needs a rationale and different hours", func(t *testing.T) {
		err := svc.Decide(ctx, WeeklyDecision{WeeklyID: w.ID, Modify: true, ModifiedHours: 10, Rationale: "same"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must differ")

		err = svc.Decide(ctx, WeeklyDecision{WeeklyID: w.ID, Modify: true, ModifiedHours: 8})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rationale")
	})

	t.Run("modify sets approved hours", func(t *testing.T) {
		err := svc.Decide(ctx, WeeklyDecision{
			WeeklyID: w.ID, Modify: true, ModifiedHours: 8, Rationale: "client cut scope",
		})
		require.NoError(t, err)

		stored, err := env.weeklies.GetByID(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.WeeklyModified, stored.Status)
		require.NotNil(t, stored.ApprovedHours)
		assert.Equal(t, 8.0, *stored.ApprovedHours)
		assert.Equal(t, 8.0, stored.EffectiveHours())
	})

	t.Run("decided weeks are terminal", func(t *testing.T) {
		err := svc.Decide(ctx, WeeklyDecision{WeeklyID: w.ID, Approve: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid weekly allocation transition")
	})
}

func TestWeeklyDecide_ModifyCannotExceedAllocationTotal(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, sprints, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 20,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewWeeklyPlanService(env.weeklies, env.uow)

	week1 := sprints[1].StartDate
	submitted, err := svc.Submit(ctx, a.ID, []WeekHours{
		{WeekStart: week1, Hours: 10},
		{WeekStart: week1.AddDate(0, 0, 7), Hours: 10},
	})
	require.NoError(t, err)

	err = svc.Decide(ctx, WeeklyDecision{
		WeeklyID: submitted[0].ID, Modify: true, ModifiedHours: 30, Rationale: "scope grew",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeding the allocation total of 20.0h")

	// The rejected modification leaves the plan untouched.
	planned, err := env.weeklies.SumPlannedHours(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, planned)
	stored, err := env.weeklies.GetByID(ctx, submitted[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WeeklyPending, stored.Status)

	// Modifying down, or up within the total, still works.
	require.NoError(t, svc.Decide(ctx, WeeklyDecision{
		WeeklyID: submitted[0].ID, Modify: true, ModifiedHours: 4, Rationale: "scope cut",
	}))
	planned, err = env.weeklies.SumPlannedHours(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 14.0, planned)
}

func TestWeeklyBatchDecide_PartialFailure(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, sprints, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 40,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewWeeklyPlanService(env.weeklies, env.uow)

	week1 := sprints[1].StartDate
	submitted, err := svc.Submit(ctx, a.ID, []WeekHours{
		{WeekStart: week1, Hours: 10},
		{WeekStart: week1.AddDate(0, 0, 7), Hours: 10},
	})
	require.NoError(t, err)

	// Decide the first week up front so the batch hits a conflict on it.
	require.NoError(t, svc.Decide(ctx, WeeklyDecision{WeeklyID: submitted[0].ID, Approve: true}))

	results := svc.BatchDecide(ctx, []WeeklyDecision{
		{WeeklyID: submitted[0].ID, Approve: true},
		{WeeklyID: submitted[1].ID, Approve: true},
	})
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err, "already-decided week conflicts")
	assert.NoError(t, results[1].Err, "sibling is processed despite the conflict")

	stored, err := env.weeklies.GetByID(ctx, submitted[1].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WeeklyApproved, stored.Status)
}
