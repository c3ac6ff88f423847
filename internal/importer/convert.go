package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahenriksen/staffplan/internal/calweek"
	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/structure"
)

// GeneratedPlan holds the domain objects produced from an import file,
// ready for persistence in one transaction.
type GeneratedPlan struct {
	Project     *domain.Project
	Consultants []*domain.Consultant
	Sprints     []*domain.Sprint
	Phases      []*domain.Phase
	// PhaseSprints maps phase ID to the IDs of its selected sprints.
	PhaseSprints map[string][]string
	Allocations  []*domain.PhaseAllocation
	Weeklies     []*domain.WeeklyAllocation
}

// Convert transforms a validated ImportSchema into domain objects. Call
// ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*GeneratedPlan, error) {
	now := time.Now().UTC()

	startDate, err := time.Parse("2006-01-02", schema.Project.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}

	plan := &GeneratedPlan{
		Project: &domain.Project{
			ID:            uuid.New().String(),
			Name:          schema.Project.Name,
			BudgetedHours: schema.Project.BudgetedHours,
			StartDate:     startDate,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		PhaseSprints: make(map[string][]string),
	}

	consultantIDs := make(map[string]string, len(schema.Consultants))
	for _, c := range schema.Consultants {
		id := uuid.New().String()
		consultantIDs[c.Ref] = id
		plan.Consultants = append(plan.Consultants, &domain.Consultant{
			ID:        id,
			Name:      c.Name,
			Email:     c.Email,
			CreatedAt: now,
		})
	}

	sprintsByNumber := make(map[int]*domain.Sprint, len(schema.Sprints))
	for _, sp := range schema.Sprints {
		start, err := time.Parse("2006-01-02", sp.StartDate)
		if err != nil {
			return nil, fmt.Errorf("sprint %d: parsing start_date: %w", sp.Number, err)
		}
		end, err := time.Parse("2006-01-02", sp.EndDate)
		if err != nil {
			return nil, fmt.Errorf("sprint %d: parsing end_date: %w", sp.Number, err)
		}
		s := &domain.Sprint{
			ID:        uuid.New().String(),
			ProjectID: plan.Project.ID,
			Number:    sp.Number,
			StartDate: start,
			EndDate:   end,
			CreatedAt: now,
		}
		sprintsByNumber[sp.Number] = s
		plan.Sprints = append(plan.Sprints, s)
	}

	phaseIDs := make(map[string]string, len(schema.Phases))
	for _, ph := range schema.Phases {
		selected := make([]*domain.Sprint, 0, len(ph.SprintNumbers))
		sprintIDs := make([]string, 0, len(ph.SprintNumbers))
		for _, n := range ph.SprintNumbers {
			s, ok := sprintsByNumber[n]
			if !ok {
				return nil, fmt.Errorf("phase %q: sprint %d not found", ph.Ref, n)
			}
			selected = append(selected, s)
			sprintIDs = append(sprintIDs, s.ID)
		}
		start, end, err := structure.DateRange(selected)
		if err != nil {
			return nil, fmt.Errorf("phase %q: %w", ph.Ref, err)
		}

		id := uuid.New().String()
		phaseIDs[ph.Ref] = id
		plan.Phases = append(plan.Phases, &domain.Phase{
			ID:          id,
			ProjectID:   plan.Project.ID,
			Name:        ph.Name,
			Description: ph.Description,
			IsKickoff:   ph.IsKickoff,
			StartDate:   start,
			EndDate:     end,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		plan.PhaseSprints[id] = sprintIDs
	}

	allocationIDs := make(map[string]string, len(schema.Allocations))
	for _, a := range schema.Allocations {
		status := domain.AllocationStatus(a.Status)
		if a.Status == "" {
			status = domain.AllocationPending
		}
		id := uuid.New().String()
		allocationIDs[a.Ref] = id
		plan.Allocations = append(plan.Allocations, &domain.PhaseAllocation{
			ID:           id,
			PhaseID:      phaseIDs[a.PhaseRef],
			ConsultantID: consultantIDs[a.ConsultantRef],
			TotalHours:   a.TotalHours,
			Status:       status,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	for _, w := range schema.Weeklies {
		weekStart, err := time.Parse("2006-01-02", w.WeekStart)
		if err != nil {
			return nil, fmt.Errorf("weekly allocation: parsing week_start: %w", err)
		}
		status := domain.WeeklyStatus(w.Status)
		if w.Status == "" {
			status = domain.WeeklyPending
		}
		plan.Weeklies = append(plan.Weeklies, &domain.WeeklyAllocation{
			ID:            uuid.New().String(),
			AllocationID:  allocationIDs[w.AllocationRef],
			WeekStart:     calweek.FromDate(weekStart).Start,
			ProposedHours: w.ProposedHours,
			ApprovedHours: w.ApprovedHours,
			Status:        status,
			Rationale:     w.Rationale,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	return plan, nil
}
