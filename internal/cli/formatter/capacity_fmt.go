package formatter

import (
	"fmt"
	"strings"

	"github.com/ahenriksen/staffplan/internal/capacity"
)

// FormatCapacityReport renders a weekly breakdown per consultant. Names
// maps consultant IDs to display names; unknown IDs render as-is.
func FormatCapacityReport(report *capacity.Report, names map[string]string) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Capacity %s – %s",
		report.Start.Format("Jan 2, 2006"), report.End.Format("Jan 2, 2006"))))
	b.WriteString("\n")

	if len(report.Weeks) == 0 {
		b.WriteString(Dim("No calendar weeks in range.") + "\n")
		return b.String()
	}

	for _, cr := range report.Consultants {
		name := names[cr.ConsultantID]
		if name == "" {
			name = cr.ConsultantID
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			Bold(name),
			UtilizationIndicator(cr.OverallStatus),
			Dim(fmt.Sprintf("avg %.1fh/week, %.1fh total", cr.AverageHoursPerWeek, cr.TotalAllocatedHours))))

		for _, wl := range cr.Weeks {
			line := fmt.Sprintf("  %-9s %6.1fh allocated %6.1fh free  %s",
				wl.Week.Key(), wl.AllocatedHours, wl.AvailableHours, UtilizationIndicator(wl.Status))
			b.WriteString(line + "\n")
			for _, ph := range wl.ByProject {
				b.WriteString(Dim(fmt.Sprintf("      %s: %.1fh", ph.ProjectName, ph.Hours)) + "\n")
			}
		}
	}

	return b.String()
}
