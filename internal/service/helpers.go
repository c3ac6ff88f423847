package service

import (
	"context"
	"sort"
	"time"

	"github.com/ahenriksen/staffplan/internal/capacity"
	"github.com/ahenriksen/staffplan/internal/repository"
)

// availableHoursForRange sums one consultant's free capacity over the ISO
// weeks of [start, end], across every project they are allocated on. The
// figure feeds advisory warnings only, so it is read outside any write
// lock without harm.
func availableHoursForRange(ctx context.Context, allocations repository.AllocationRepo, consultantID string, start, end time.Time) (float64, error) {
	loads, err := allocations.ListOverlapping(ctx, []string{consultantID}, start, end)
	if err != nil {
		return 0, err
	}
	report := capacity.Compute(capacity.Input{
		Start:         start,
		End:           end,
		ConsultantIDs: []string{consultantID},
		Allocations:   loads,
	})
	var available float64
	for _, cr := range report.Consultants {
		for _, wl := range cr.Weeks {
			available += wl.AvailableHours
		}
	}
	return available, nil
}

func sortedSprintNumbers(numbers []int) []int {
	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)
	return sorted
}
