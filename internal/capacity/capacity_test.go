package capacity

import (
	"testing"
	"time"

	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday1 = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	monday2 = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
)

func weekly(weekStart time.Time, proposed float64, approved *float64) domain.WeeklyAllocation {
	return domain.WeeklyAllocation{
		ID:            "w",
		WeekStart:     weekStart,
		ProposedHours: proposed,
		ApprovedHours: approved,
		Status:        domain.WeeklyPending,
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, domain.UtilizationAvailable, Classify(0))
	assert.Equal(t, domain.UtilizationAvailable, Classify(15))
	assert.Equal(t, domain.UtilizationPartiallyBusy, Classify(16))
	assert.Equal(t, domain.UtilizationPartiallyBusy, Classify(30))
	assert.Equal(t, domain.UtilizationBusy, Classify(31))
	assert.Equal(t, domain.UtilizationBusy, Classify(40))
	assert.Equal(t, domain.UtilizationOverloaded, Classify(40.5))
}

func TestCompute_NoAllocations_AllAvailable(t *testing.T) {
	report := Compute(Input{
		Start:         monday1,
		End:           monday2.AddDate(0, 0, 6),
		ConsultantIDs: []string{"c1"},
	})
	require.Len(t, report.Consultants, 1)
	cr := report.Consultants[0]
	require.Len(t, cr.Weeks, 2)
	for _, wl := range cr.Weeks {
		assert.Equal(t, 0.0, wl.AllocatedHours)
		assert.Equal(t, WeeklyCapacityHours, wl.AvailableHours)
		assert.Equal(t, domain.UtilizationAvailable, wl.Status)
	}
	assert.Equal(t, domain.UtilizationAvailable, cr.OverallStatus)
}

func TestCompute_EmptyRange_NoWeeks(t *testing.T) {
	report := Compute(Input{
		Start:         monday2,
		End:           monday1,
		ConsultantIDs: []string{"c1"},
	})
	require.Len(t, report.Consultants, 1)
	assert.Empty(t, report.Consultants[0].Weeks)
	assert.Equal(t, 0.0, report.Consultants[0].AverageHoursPerWeek)
}

func TestCompute_SumsAcrossProjects(t *testing.T) {
	// 45h in one week across two projects => overloaded, available 0.
	report := Compute(Input{
		Start:         monday1,
		End:           monday1.AddDate(0, 0, 6),
		ConsultantIDs: []string{"c1"},
		Allocations: []AllocationLoad{
			{
				ConsultantID: "c1", ProjectID: "p1", ProjectName: "Alpha",
				Status:   domain.AllocationApproved,
				Weeklies: []domain.WeeklyAllocation{weekly(monday1, 25, nil)},
			},
			{
				ConsultantID: "c1", ProjectID: "p2", ProjectName: "Beta",
				Status:   domain.AllocationApproved,
				Weeklies: []domain.WeeklyAllocation{weekly(monday1, 20, nil)},
			},
		},
	})
	cr := report.Consultants[0]
	require.Len(t, cr.Weeks, 1)
	wl := cr.Weeks[0]
	assert.Equal(t, 45.0, wl.AllocatedHours)
	assert.Equal(t, 0.0, wl.AvailableHours)
	assert.Equal(t, domain.UtilizationOverloaded, wl.Status)
	require.Len(t, wl.ByProject, 2)
	assert.Equal(t, "p1", wl.ByProject[0].ProjectID)
	assert.Equal(t, 25.0, wl.ByProject[0].Hours)
	assert.Equal(t, "p2", wl.ByProject[1].ProjectID)
}

func TestCompute_ApprovedHoursWinOverProposed(t *testing.T) {
	approved := 10.0
	report := Compute(Input{
		Start:         monday1,
		End:           monday1.AddDate(0, 0, 6),
		ConsultantIDs: []string{"c1"},
		Allocations: []AllocationLoad{{
			ConsultantID: "c1", ProjectID: "p1",
			Status:   domain.AllocationApproved,
			Weeklies: []domain.WeeklyAllocation{weekly(monday1, 35, &approved)},
		}},
	})
	assert.Equal(t, 10.0, report.Consultants[0].Weeks[0].AllocatedHours)
}

func TestCompute_TerminalExcludedAllocationsIgnored(t *testing.T) {
	for _, status := range []domain.AllocationStatus{domain.AllocationExpired, domain.AllocationForfeited} {
		report := Compute(Input{
			Start:         monday1,
			End:           monday1.AddDate(0, 0, 6),
			ConsultantIDs: []string{"c1"},
			Allocations: []AllocationLoad{{
				ConsultantID: "c1", ProjectID: "p1",
				Status:   status,
				Weeklies: []domain.WeeklyAllocation{weekly(monday1, 30, nil)},
			}},
		})
		assert.Equal(t, 0.0, report.Consultants[0].Weeks[0].AllocatedHours, "status %s", status)
	}
}

func TestCompute_WeeksOutsideRangeIgnored(t *testing.T) {
	report := Compute(Input{
		Start:         monday1,
		End:           monday1.AddDate(0, 0, 6),
		ConsultantIDs: []string{"c1"},
		Allocations: []AllocationLoad{{
			ConsultantID: "c1", ProjectID: "p1",
			Status: domain.AllocationApproved,
			Weeklies: []domain.WeeklyAllocation{
				weekly(monday1, 8, nil),
				weekly(monday2, 35, nil),
			},
		}},
	})
	cr := report.Consultants[0]
	require.Len(t, cr.Weeks, 1)
	assert.Equal(t, 8.0, cr.Weeks[0].AllocatedHours)
	assert.Equal(t, 8.0, cr.TotalAllocatedHours)
}

func TestCompute_OverallStatusFromAverage(t *testing.T) {
	report := Compute(Input{
		Start:         monday1,
		End:           monday2.AddDate(0, 0, 6),
		ConsultantIDs: []string{"c1"},
		Allocations: []AllocationLoad{{
			ConsultantID: "c1", ProjectID: "p1",
			Status: domain.AllocationApproved,
			Weeklies: []domain.WeeklyAllocation{
				weekly(monday1, 40, nil),
				weekly(monday2, 10, nil),
			},
		}},
	})
	cr := report.Consultants[0]
	assert.Equal(t, 50.0, cr.TotalAllocatedHours)
	assert.Equal(t, 25.0, cr.AverageHoursPerWeek)
	assert.Equal(t, domain.UtilizationPartiallyBusy, cr.OverallStatus)
}

func TestCompute_Idempotent(t *testing.T) {
	in := Input{
		Start:         monday1,
		End:           monday2.AddDate(0, 0, 6),
		ConsultantIDs: []string{"c1", "c2"},
		Allocations: []AllocationLoad{{
			ConsultantID: "c1", ProjectID: "p1",
			Status:   domain.AllocationApproved,
			Weeklies: []domain.WeeklyAllocation{weekly(monday1, 12.5, nil)},
		}},
	}
	first := Compute(in)
	second := Compute(in)
	assert.Equal(t, first, second)
}
