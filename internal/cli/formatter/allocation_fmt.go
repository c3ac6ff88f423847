package formatter

import (
	"fmt"
	"strings"

	"github.com/ahenriksen/staffplan/internal/domain"
)

// FormatAllocationList renders a phase roster. Names maps consultant IDs
// to display names.
func FormatAllocationList(allocations []*domain.PhaseAllocation, names map[string]string) string {
	if len(allocations) == 0 {
		return Dim("No allocations.") + "\n"
	}

	var b strings.Builder
	for _, a := range allocations {
		name := names[a.ConsultantID]
		if name == "" {
			name = a.ConsultantID
		}
		b.WriteString(fmt.Sprintf("%-28s %7.1fh  %s  %s\n",
			name, a.TotalHours, AllocationStatusPill(a.Status), Dim(shortID(a.ID))))
	}
	return b.String()
}

// FormatWeeklyList renders an allocation's weekly distribution.
func FormatWeeklyList(weeklies []*domain.WeeklyAllocation) string {
	if len(weeklies) == 0 {
		return Dim("No weekly allocations.") + "\n"
	}

	var b strings.Builder
	for _, w := range weeklies {
		hours := fmt.Sprintf("%.1fh proposed", w.ProposedHours)
		if w.ApprovedHours != nil {
			hours += fmt.Sprintf(", %.1fh approved", *w.ApprovedHours)
		}
		b.WriteString(fmt.Sprintf("%-12s %-28s %s  %s\n",
			w.WeekStart.Format("2006-01-02"), hours, WeeklyStatusPill(w.Status), Dim(shortID(w.ID))))
		if w.Rationale != "" {
			b.WriteString(Dim("             "+w.Rationale) + "\n")
		}
	}
	return b.String()
}

// FormatChangeRequest renders one change request with its resolution state.
func FormatChangeRequest(r *domain.HourChangeRequest, names map[string]string) string {
	var b strings.Builder

	switch r.Type {
	case domain.ChangeAdjustment:
		b.WriteString(fmt.Sprintf("%s  %s  %.1fh → %.1fh\n",
			Bold("ADJUSTMENT"), Dim(shortID(r.ID)), r.OriginalHours, r.RequestedHours))
	case domain.ChangeShift:
		from := names[r.FromConsultantID]
		if from == "" {
			from = r.FromConsultantID
		}
		to := names[r.ToConsultantID]
		if to == "" {
			to = r.ToConsultantID
		}
		b.WriteString(fmt.Sprintf("%s  %s  %.1fh from %s to %s\n",
			Bold("SHIFT"), Dim(shortID(r.ID)), r.ShiftHours, from, to))
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n", changeStatusPill(r.Status), Dim(r.Reason)))
	if r.ResolutionNote != "" {
		b.WriteString(Dim("  resolution: "+r.ResolutionNote) + "\n")
	}
	return b.String()
}

func changeStatusPill(status domain.ChangeRequestStatus) string {
	switch status {
	case domain.ChangeApproved:
		return StyleGreen.Render("● APPROVED")
	case domain.ChangePending:
		return StyleYellow.Render("○ PENDING")
	case domain.ChangeRejected:
		return StyleRed.Render("✖ REJECTED")
	default:
		return StyleDim.Render(string(status))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
