package importer

import (
	"fmt"
	"sort"
	"time"

	"github.com/ahenriksen/staffplan/internal/domain"
)

var validWeeklyStatuses = map[string]bool{
	string(domain.WeeklyPending):  true,
	string(domain.WeeklyApproved): true,
	string(domain.WeeklyRejected): true,
	string(domain.WeeklyModified): true,
}

// ValidateImportSchema checks the import schema before conversion and
// returns every validation error found, not just the first.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	consultantRefs := make(map[string]bool)
	errs = append(errs, validateConsultants(schema.Consultants, consultantRefs)...)

	sprintNumbers := make(map[int]bool)
	errs = append(errs, validateSprints(schema.Sprints, sprintNumbers)...)

	phaseRefs := make(map[string]bool)
	errs = append(errs, validatePhases(schema.Phases, sprintNumbers, phaseRefs)...)

	allocRefs := make(map[string]float64)
	errs = append(errs, validateAllocations(schema.Allocations, phaseRefs, consultantRefs, allocRefs)...)

	errs = append(errs, validateBudget(schema.Project.BudgetedHours, schema.Allocations)...)

	errs = append(errs, validateWeeklies(schema.Weeklies, allocRefs)...)

	return errs
}

// validateBudget enforces the per-consultant budget bound: one
// consultant's committed hours across all phases must fit the project
// budget. EXPIRED and FORFEITED allocations release their hours.
func validateBudget(budgetedHours float64, allocations []AllocationImport) []error {
	var errs []error

	committed := make(map[string]float64)
	for _, a := range allocations {
		if a.ConsultantRef == "" || domain.AllocationStatus(a.Status).TerminalExcluded() {
			continue
		}
		committed[a.ConsultantRef] += a.TotalHours
	}

	refs := make([]string, 0, len(committed))
	for ref := range committed {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	for _, ref := range refs {
		if committed[ref] > budgetedHours {
			errs = append(errs, fmt.Errorf(
				"consultant %q: committed hours of %.1fh exceed the project budget of %.1fh by %.1fh",
				ref, committed[ref], budgetedHours, committed[ref]-budgetedHours))
		}
	}

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.BudgetedHours < 0 {
		errs = append(errs, fmt.Errorf("project.budgeted_hours must not be negative"))
	}
	if p.StartDate == "" {
		errs = append(errs, fmt.Errorf("project.start_date is required"))
	} else if _, err := time.Parse("2006-01-02", p.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("project.start_date: invalid date format %q (expected YYYY-MM-DD)", p.StartDate))
	}

	return errs
}

func validateConsultants(consultants []ConsultantImport, refs map[string]bool) []error {
	var errs []error

	for i, c := range consultants {
		prefix := fmt.Sprintf("consultants[%d]", i)

		if c.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[c.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, c.Ref))
		} else {
			refs[c.Ref] = true
		}

		if c.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
	}

	return errs
}

func validateSprints(sprints []SprintImport, numbers map[int]bool) []error {
	var errs []error

	for i, sp := range sprints {
		prefix := fmt.Sprintf("sprints[%d]", i)

		if sp.Number < 0 {
			errs = append(errs, fmt.Errorf("%s.number must not be negative", prefix))
		} else if numbers[sp.Number] {
			errs = append(errs, fmt.Errorf("%s.number: duplicate sprint number %d", prefix, sp.Number))
		} else {
			numbers[sp.Number] = true
		}

		start, startErr := parseDateField(prefix+".start_date", sp.StartDate, &errs)
		end, endErr := parseDateField(prefix+".end_date", sp.EndDate, &errs)
		if startErr == nil && endErr == nil && !end.After(start) {
			errs = append(errs, fmt.Errorf("%s: end_date %q must be after start_date %q", prefix, sp.EndDate, sp.StartDate))
		}
	}

	if len(numbers) > 0 {
		sorted := make([]int, 0, len(numbers))
		for n := range numbers {
			sorted = append(sorted, n)
		}
		sort.Ints(sorted)
		if sorted[0] != domain.KickoffSprintNumber {
			errs = append(errs, fmt.Errorf("sprints must start at number %d (got %d)", domain.KickoffSprintNumber, sorted[0]))
		}
		for i := 1; i < len(sorted); i++ {
			if sorted[i] != sorted[i-1]+1 {
				errs = append(errs, fmt.Errorf("sprint numbers must be contiguous (gap between %d and %d)", sorted[i-1], sorted[i]))
			}
		}
	}

	return errs
}

func validatePhases(phases []PhaseImport, sprintNumbers map[int]bool, refs map[string]bool) []error {
	var errs []error
	kickoffCount := 0

	for i, ph := range phases {
		prefix := fmt.Sprintf("phases[%d]", i)

		if ph.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[ph.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, ph.Ref))
		} else {
			refs[ph.Ref] = true
		}

		if ph.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if ph.IsKickoff {
			kickoffCount++
		}

		if len(ph.SprintNumbers) == 0 {
			errs = append(errs, fmt.Errorf("%s.sprint_numbers must not be empty", prefix))
			continue
		}

		sorted := append([]int(nil), ph.SprintNumbers...)
		sort.Ints(sorted)
		for j := 1; j < len(sorted); j++ {
			if sorted[j] == sorted[j-1] {
				errs = append(errs, fmt.Errorf("%s.sprint_numbers: sprint %d selected twice", prefix, sorted[j]))
			} else if sorted[j] != sorted[j-1]+1 {
				errs = append(errs, fmt.Errorf("%s.sprint_numbers must be consecutive (got %v)", prefix, sorted))
				break
			}
		}
		for _, n := range sorted {
			if !sprintNumbers[n] {
				errs = append(errs, fmt.Errorf("%s.sprint_numbers: sprint %d not found in sprints", prefix, n))
			}
			if n == domain.KickoffSprintNumber && !ph.IsKickoff {
				errs = append(errs, fmt.Errorf("%s.sprint_numbers: sprint 0 is reserved for the kickoff phase", prefix))
			}
		}
	}

	if kickoffCount > 1 {
		errs = append(errs, fmt.Errorf("at most one phase may be the kickoff phase (got %d)", kickoffCount))
	}

	return errs
}

func validateAllocations(allocations []AllocationImport, phaseRefs, consultantRefs map[string]bool, allocRefs map[string]float64) []error {
	var errs []error
	seated := make(map[string]bool)

	for i, a := range allocations {
		prefix := fmt.Sprintf("allocations[%d]", i)

		if a.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := allocRefs[a.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, a.Ref))
		} else {
			allocRefs[a.Ref] = a.TotalHours
		}

		if a.PhaseRef == "" {
			errs = append(errs, fmt.Errorf("%s.phase_ref is required", prefix))
		} else if !phaseRefs[a.PhaseRef] {
			errs = append(errs, fmt.Errorf("%s.phase_ref: ref %q not found in phases", prefix, a.PhaseRef))
		}
		if a.ConsultantRef == "" {
			errs = append(errs, fmt.Errorf("%s.consultant_ref is required", prefix))
		} else if !consultantRefs[a.ConsultantRef] {
			errs = append(errs, fmt.Errorf("%s.consultant_ref: ref %q not found in consultants", prefix, a.ConsultantRef))
		}

		if a.PhaseRef != "" && a.ConsultantRef != "" {
			seat := a.PhaseRef + "\x00" + a.ConsultantRef
			if seated[seat] {
				errs = append(errs, fmt.Errorf("%s: consultant %q already allocated on phase %q", prefix, a.ConsultantRef, a.PhaseRef))
			}
			seated[seat] = true
		}

		if a.TotalHours < 0 {
			errs = append(errs, fmt.Errorf("%s.total_hours must not be negative", prefix))
		}
		if a.Status != "" && !domain.ValidAllocationStatuses[a.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, a.Status))
		}
	}

	return errs
}

func validateWeeklies(weeklies []WeeklyImport, allocRefs map[string]float64) []error {
	var errs []error
	planned := make(map[string]float64)

	for i, w := range weeklies {
		prefix := fmt.Sprintf("weekly_allocations[%d]", i)

		if w.AllocationRef == "" {
			errs = append(errs, fmt.Errorf("%s.allocation_ref is required", prefix))
		} else if _, ok := allocRefs[w.AllocationRef]; !ok {
			errs = append(errs, fmt.Errorf("%s.allocation_ref: ref %q not found in allocations", prefix, w.AllocationRef))
		}

		parseDateField(prefix+".week_start", w.WeekStart, &errs)

		if w.ProposedHours < 0 {
			errs = append(errs, fmt.Errorf("%s.proposed_hours must not be negative", prefix))
		}
		if w.ApprovedHours != nil && *w.ApprovedHours < 0 {
			errs = append(errs, fmt.Errorf("%s.approved_hours must not be negative", prefix))
		}
		if w.Status != "" && !validWeeklyStatuses[w.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, w.Status))
		}

		if w.Status != string(domain.WeeklyRejected) {
			effective := w.ProposedHours
			if w.ApprovedHours != nil {
				effective = *w.ApprovedHours
			}
			planned[w.AllocationRef] += effective
		}
	}

	// The planned floor must fit under each allocation's total.
	refs := make([]string, 0, len(planned))
	for ref := range planned {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	for _, ref := range refs {
		total, ok := allocRefs[ref]
		if ok && planned[ref] > total {
			errs = append(errs, fmt.Errorf(
				"allocation %q: planned weekly hours of %.1fh exceed total_hours of %.1fh", ref, planned[ref], total))
		}
	}

	return errs
}

func parseDateField(field, value string, errs *[]error) (time.Time, error) {
	if value == "" {
		err := fmt.Errorf("%s is required", field)
		*errs = append(*errs, err)
		return time.Time{}, err
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value))
		return time.Time{}, err
	}
	return t, nil
}
