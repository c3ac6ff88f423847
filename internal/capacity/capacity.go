// Package capacity computes per-consultant weekly availability across all
// projects. The calculation is read-only and idempotent; it validates
// nothing and mutates nothing.
package capacity

import (
	"sort"
	"time"

	"github.com/ahenriksen/staffplan/internal/calweek"
	"github.com/ahenriksen/staffplan/internal/domain"
)

// WeeklyCapacityHours is the fixed full-time capacity one consultant has
// in a calendar week.
const WeeklyCapacityHours = 40.0

// Classify maps an allocated-hours total for one week onto the four-level
// utilization scale.
func Classify(hours float64) domain.UtilizationStatus {
	switch {
	case hours <= 15:
		return domain.UtilizationAvailable
	case hours <= 30:
		return domain.UtilizationPartiallyBusy
	case hours <= WeeklyCapacityHours:
		return domain.UtilizationBusy
	default:
		return domain.UtilizationOverloaded
	}
}

// AllocationLoad is a joined view of one phase allocation with its weekly
// distribution and project context. Built by the repository layer; the
// calculator itself never touches storage.
type AllocationLoad struct {
	ConsultantID string
	ProjectID    string
	ProjectName  string
	Status       domain.AllocationStatus
	Weeklies     []domain.WeeklyAllocation
}

type Input struct {
	Start         time.Time
	End           time.Time
	ConsultantIDs []string
	Allocations   []AllocationLoad
}

// ProjectHours is one project's share of a consultant's week.
type ProjectHours struct {
	ProjectID   string
	ProjectName string
	Hours       float64
}

type WeekLoad struct {
	Week           calweek.Week
	AllocatedHours float64
	AvailableHours float64
	Status         domain.UtilizationStatus
	ByProject      []ProjectHours
}

type ConsultantReport struct {
	ConsultantID        string
	TotalAllocatedHours float64
	AverageHoursPerWeek float64
	OverallStatus       domain.UtilizationStatus
	Weeks               []WeekLoad
}

type Report struct {
	Start       time.Time
	End         time.Time
	Weeks       []calweek.Week
	Consultants []ConsultantReport
}

// Compute aggregates effective weekly hours per consultant per ISO week in
// [Start, End]. Allocations in terminal-excluded states contribute
// nothing. An empty week range yields an empty report, never a division
// by zero.
func Compute(in Input) Report {
	weeks := calweek.Range(in.Start, in.End)
	report := Report{Start: in.Start, End: in.End, Weeks: weeks}

	byConsultant := make(map[string][]AllocationLoad, len(in.ConsultantIDs))
	for _, load := range in.Allocations {
		if load.Status.TerminalExcluded() {
			continue
		}
		byConsultant[load.ConsultantID] = append(byConsultant[load.ConsultantID], load)
	}

	for _, id := range in.ConsultantIDs {
		report.Consultants = append(report.Consultants, computeConsultant(id, byConsultant[id], weeks))
	}
	return report
}

func computeConsultant(id string, loads []AllocationLoad, weeks []calweek.Week) ConsultantReport {
	cr := ConsultantReport{ConsultantID: id, OverallStatus: domain.UtilizationAvailable}

	for _, week := range weeks {
		wl := WeekLoad{Week: week}
		projectHours := make(map[string]*ProjectHours)

		for _, load := range loads {
			for i := range load.Weeklies {
				wa := &load.Weeklies[i]
				if !week.Contains(wa.WeekStart) {
					continue
				}
				hours := wa.EffectiveHours()
				if hours == 0 {
					continue
				}
				wl.AllocatedHours += hours
				ph, ok := projectHours[load.ProjectID]
				if !ok {
					ph = &ProjectHours{ProjectID: load.ProjectID, ProjectName: load.ProjectName}
					projectHours[load.ProjectID] = ph
				}
				ph.Hours += hours
			}
		}

		for _, ph := range projectHours {
			wl.ByProject = append(wl.ByProject, *ph)
		}
		sortProjectHours(wl.ByProject)

		wl.AvailableHours = WeeklyCapacityHours - wl.AllocatedHours
		if wl.AvailableHours < 0 {
			wl.AvailableHours = 0
		}
		wl.Status = Classify(wl.AllocatedHours)

		cr.TotalAllocatedHours += wl.AllocatedHours
		cr.Weeks = append(cr.Weeks, wl)
	}

	if len(weeks) > 0 {
		cr.AverageHoursPerWeek = cr.TotalAllocatedHours / float64(len(weeks))
		cr.OverallStatus = Classify(cr.AverageHoursPerWeek)
	}
	return cr
}

func sortProjectHours(ph []ProjectHours) {
	sort.Slice(ph, func(i, j int) bool { return ph[i].ProjectID < ph[j].ProjectID })
}
