package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahenriksen/staffplan/internal/domain"
)

func TestConvert(t *testing.T) {
	schema := validSchema()
	require.Empty(t, ValidateImportSchema(schema))

	plan, err := Convert(schema)
	require.NoError(t, err)

	assert.Equal(t, "Atlas", plan.Project.Name)
	assert.Equal(t, 100.0, plan.Project.BudgetedHours)
	assert.True(t, plan.Project.StartDate.Equal(date(t, "2026-03-02")))

	require.Len(t, plan.Consultants, 2)
	require.Len(t, plan.Sprints, 3)
	require.Len(t, plan.Phases, 2)
	require.Len(t, plan.Allocations, 2)
	require.Len(t, plan.Weeklies, 2)

	for _, sp := range plan.Sprints {
		assert.Equal(t, plan.Project.ID, sp.ProjectID)
	}

	t.Run("phase dates derive from the selected sprints", func(t *testing.T) {
		build := plan.Phases[1]
		assert.Equal(t, "Build", build.Name)
		assert.False(t, build.IsKickoff)
		assert.True(t, build.StartDate.Equal(date(t, "2026-03-09")))
		assert.True(t, build.EndDate.Equal(date(t, "2026-04-05")))

		sprintIDs := plan.PhaseSprints[build.ID]
		require.Len(t, sprintIDs, 2)
		assert.Equal(t, plan.Sprints[1].ID, sprintIDs[0])
		assert.Equal(t, plan.Sprints[2].ID, sprintIDs[1])
	})

	t.Run("refs resolve to generated ids", func(t *testing.T) {
		a1 := plan.Allocations[0]
		assert.Equal(t, plan.Phases[1].ID, a1.PhaseID)
		assert.Equal(t, plan.Consultants[0].ID, a1.ConsultantID)
		assert.Equal(t, domain.AllocationApproved, a1.Status)

		// Blank status defaults to PENDING.
		assert.Equal(t, domain.AllocationPending, plan.Allocations[1].Status)

		for _, w := range plan.Weeklies {
			assert.Equal(t, a1.ID, w.AllocationID)
		}
	})

	t.Run("week starts normalize to mondays", func(t *testing.T) {
		w := plan.Weeklies[0]
		assert.Equal(t, time.Monday, w.WeekStart.Weekday())
		assert.True(t, w.WeekStart.Equal(date(t, "2026-03-09")))
		assert.Equal(t, domain.WeeklyModified, w.Status)
		require.NotNil(t, w.ApprovedHours)
		assert.Equal(t, 16.0, *w.ApprovedHours)
		assert.Equal(t, 16.0, w.EffectiveHours())

		assert.Equal(t, domain.WeeklyPending, plan.Weeklies[1].Status)
	})
}

func TestConvert_MidweekWeekStart(t *testing.T) {
	schema := validSchema()
	// A Wednesday snaps back to its ISO week's Monday.
	schema.Weeklies = []WeeklyImport{
		{AllocationRef: "a1", WeekStart: "2026-03-11", ProposedHours: 8},
	}

	plan, err := Convert(schema)
	require.NoError(t, err)
	require.Len(t, plan.Weeklies, 1)
	assert.True(t, plan.Weeklies[0].WeekStart.Equal(date(t, "2026-03-09")))
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
