package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/testutil"
)

func TestSetHours_RejectsOverBudget(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, p, _, ph := seedPlan(t, env)

	// 40h already committed on another phase of the same project.
	other := testutil.NewTestPhase(p.ID, "Discovery")
	require.NoError(t, env.phases.Create(ctx, other))
	committed := testutil.NewTestAllocation(other.ID, c.ID, 40,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, committed))

	a := testutil.NewTestAllocation(ph.ID, c.ID, 20)
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewAllocationService(env.allocations, DefaultAllocationPolicy, env.uow)

	// Budget 100, 40 elsewhere: 70 overshoots the remaining 60 by 10.
	_, err := svc.SetHours(ctx, a.ID, 70)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remaining project budget of 60.0h")
	assert.Contains(t, err.Error(), "by 10.0h")

	// The stored value must be untouched after the rollback.
	stored, err := env.allocations.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, stored.TotalHours)
}

func TestSetHours_ExpiredAllocationsReleaseBudget(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, p, _, ph := seedPlan(t, env)

	other := testutil.NewTestPhase(p.ID, "Discovery")
	require.NoError(t, env.phases.Create(ctx, other))
	expired := testutil.NewTestAllocation(other.ID, c.ID, 40,
		testutil.WithAllocationStatus(domain.AllocationExpired))
	require.NoError(t, env.allocations.Create(ctx, expired))

	a := testutil.NewTestAllocation(ph.ID, c.ID, 20)
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewAllocationService(env.allocations, DefaultAllocationPolicy, env.uow)

	// The expired 40h no longer count, so 70h fits under the 100h budget.
	result, err := svc.SetHours(ctx, a.ID, 70)
	require.NoError(t, err)
	assert.Equal(t, 70.0, result.Allocation.TotalHours)
}

func TestSetHours_RejectsBelowPlannedFloor(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, sprints, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 30,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a))

	w := testutil.NewTestWeekly(a.ID, sprints[1].StartDate, 12)
	require.NoError(t, env.weeklies.Create(ctx, w))

	svc := NewAllocationService(env.allocations, DefaultAllocationPolicy, env.uow)

	_, err := svc.SetHours(ctx, a.ID, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reduce below 12.0h")
	assert.Contains(t, err.Error(), "maximum reduction is 18.0h")
}

func TestSetHours_RevalidateOnModifyResetsApproval(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, _, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 30,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewAllocationService(env.allocations, DefaultAllocationPolicy, env.uow)

	result, err := svc.SetHours(ctx, a.ID, 35)
	require.NoError(t, err)
	assert.Equal(t, domain.AllocationPending, result.Allocation.Status,
		"editing an approved allocation goes back through approval")

	stored, err := env.allocations.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AllocationPending, stored.Status)
}

func TestSetHours_PolicyKeepsApprovedStatus(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, _, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 30,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewAllocationService(env.allocations, AllocationPolicy{RevalidateOnModify: false}, env.uow)

	result, err := svc.SetHours(ctx, a.ID, 35)
	require.NoError(t, err)
	assert.Equal(t, domain.AllocationApproved, result.Allocation.Status)
}

func TestSetHours_AvailabilityWarningDoesNotBlock(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, sprints, ph := seedPlan(t, env)

	// Fill the consultant's calendar on another project for the phase
	// weeks so availability is exhausted.
	otherProject := testutil.NewTestProject("Borealis", testutil.WithBudget(500))
	require.NoError(t, env.projects.Create(ctx, otherProject))
	otherPhase := testutil.NewTestPhase(otherProject.ID, "Ops",
		testutil.WithPhaseDates(ph.StartDate, ph.EndDate))
	require.NoError(t, env.phases.Create(ctx, otherPhase))
	busy := testutil.NewTestAllocation(otherPhase.ID, c.ID, 160,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, busy))
	week := sprints[1].StartDate
	for i := 0; i < 4; i++ {
		require.NoError(t, env.weeklies.Create(ctx,
			testutil.NewTestWeekly(busy.ID, week.AddDate(0, 0, 7*i), 40,
				testutil.WithWeeklyStatus(domain.WeeklyApproved))))
	}

	a := testutil.NewTestAllocation(ph.ID, c.ID, 20)
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewAllocationService(env.allocations, DefaultAllocationPolicy, env.uow)

	result, err := svc.SetHours(ctx, a.ID, 30)
	require.NoError(t, err, "availability is advisory, never blocking")
	assert.Contains(t, result.Warning, "available capacity")
	assert.Equal(t, 30.0, result.Allocation.TotalHours)
}

func TestApprove_WarnsOnBudgetOverrun(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, _, ph := seedPlan(t, env)

	c2 := testutil.NewTestConsultant("miro")
	require.NoError(t, env.consultants.Create(ctx, c2))

	// 80 + 30 approved exceeds the 100h project budget.
	a1 := testutil.NewTestAllocation(ph.ID, c.ID, 80,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a1))
	a2 := testutil.NewTestAllocation(ph.ID, c2.ID, 30)
	require.NoError(t, env.allocations.Create(ctx, a2))

	svc := NewAllocationService(env.allocations, DefaultAllocationPolicy, env.uow)

	warning, err := svc.Approve(ctx, a2.ID)
	require.NoError(t, err, "budget overrun warns, it does not block")
	assert.Contains(t, warning, "exceed the project budget of 100.0h by 10.0h")

	stored, err := env.allocations.GetByID(ctx, a2.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AllocationApproved, stored.Status)
}

func TestTransitions_InvalidMovesRejected(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, _, ph := seedPlan(t, env)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 20,
		testutil.WithAllocationStatus(domain.AllocationRejected))
	require.NoError(t, env.allocations.Create(ctx, a))

	svc := NewAllocationService(env.allocations, DefaultAllocationPolicy, env.uow)

	_, err := svc.Approve(ctx, a.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid allocation transition REJECTED -> APPROVED")
}

func TestResolveDeletion(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, sprints, ph := seedPlan(t, env)

	svc := NewAllocationService(env.allocations, DefaultAllocationPolicy, env.uow)

	t.Run("reject restores approved", func(t *testing.T) {
		a := testutil.NewTestAllocation(ph.ID, c.ID, 20,
			testutil.WithAllocationStatus(domain.AllocationDeletionPending))
		require.NoError(t, env.allocations.Create(ctx, a))

		require.NoError(t, svc.ResolveDeletion(ctx, a.ID, false))

		stored, err := env.allocations.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AllocationApproved, stored.Status)
		require.NoError(t, env.allocations.Delete(ctx, a.ID))
	})

	t.Run("approve removes the allocation and its weeks", func(t *testing.T) {
		a := testutil.NewTestAllocation(ph.ID, c.ID, 20,
			testutil.WithAllocationStatus(domain.AllocationDeletionPending))
		require.NoError(t, env.allocations.Create(ctx, a))
		require.NoError(t, env.weeklies.Create(ctx,
			testutil.NewTestWeekly(a.ID, sprints[1].StartDate, 8)))

		require.NoError(t, svc.ResolveDeletion(ctx, a.ID, true))

		_, err := env.allocations.GetByID(ctx, a.ID)
		assert.Error(t, err)
		weeklies, err := env.weeklies.ListByAllocation(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, weeklies)
	})
}

func TestExpireAndForfeit(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	c, _, _, ph := seedPlan(t, env)

	svc := NewAllocationService(env.allocations, DefaultAllocationPolicy, env.uow)

	a := testutil.NewTestAllocation(ph.ID, c.ID, 20,
		testutil.WithAllocationStatus(domain.AllocationApproved))
	require.NoError(t, env.allocations.Create(ctx, a))

	require.NoError(t, svc.Expire(ctx, a.ID))
	stored, err := env.allocations.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AllocationExpired, stored.Status)

	// Terminal states stay terminal.
	err = svc.Forfeit(ctx, a.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid allocation transition EXPIRED -> FORFEITED")
}
