package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchema() *ImportSchema {
	approved := 16.0
	return &ImportSchema{
		Project: ProjectImport{Name: "Atlas", BudgetedHours: 100, StartDate: "2026-03-02"},
		Consultants: []ConsultantImport{
			{Ref: "dana", Name: "Dana Berg", Email: "dana@example.com"},
			{Ref: "miguel", Name: "Miguel Sosa"},
		},
		Sprints: []SprintImport{
			{Number: 0, StartDate: "2026-03-02", EndDate: "2026-03-08"},
			{Number: 1, StartDate: "2026-03-09", EndDate: "2026-03-22"},
			{Number: 2, StartDate: "2026-03-23", EndDate: "2026-04-05"},
		},
		Phases: []PhaseImport{
			{Ref: "kickoff", Name: "Kickoff", IsKickoff: true, SprintNumbers: []int{0}},
			{Ref: "build", Name: "Build", SprintNumbers: []int{1, 2}},
		},
		Allocations: []AllocationImport{
			{Ref: "a1", PhaseRef: "build", ConsultantRef: "dana", TotalHours: 40, Status: "APPROVED"},
			{Ref: "a2", PhaseRef: "build", ConsultantRef: "miguel", TotalHours: 20},
		},
		Weeklies: []WeeklyImport{
			{AllocationRef: "a1", WeekStart: "2026-03-09", ProposedHours: 20, ApprovedHours: &approved, Status: "MODIFIED", Rationale: "trimmed"},
			{AllocationRef: "a1", WeekStart: "2026-03-16", ProposedHours: 20},
		},
	}
}

func TestValidateImportSchema_ValidPlan(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validSchema()))
}

func TestValidateImportSchema_CollectsAllErrors(t *testing.T) {
	schema := validSchema()
	schema.Project.Name = ""
	schema.Project.StartDate = "03/02/2026"
	schema.Consultants = append(schema.Consultants, ConsultantImport{Ref: "dana", Name: "Dana Two"})
	schema.Allocations[0].TotalHours = -5

	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 4, "one pass reports every problem")

	joined := errorStrings(errs)
	assert.Contains(t, joined, "project.name is required")
	assert.Contains(t, joined, `invalid date format "03/02/2026"`)
	assert.Contains(t, joined, `duplicate ref "dana"`)
	assert.Contains(t, joined, "total_hours must not be negative")
}

func TestValidateImportSchema_SprintNumbering(t *testing.T) {
	t.Run("must start at zero", func(t *testing.T) {
		schema := validSchema()
		schema.Sprints = schema.Sprints[1:]
		schema.Phases = schema.Phases[1:]

		joined := errorStrings(ValidateImportSchema(schema))
		assert.Contains(t, joined, "sprints must start at number 0 (got 1)")
	})

	t.Run("gaps are rejected", func(t *testing.T) {
		schema := validSchema()
		schema.Sprints[2].Number = 4
		schema.Phases[1].SprintNumbers = []int{1}

		joined := errorStrings(ValidateImportSchema(schema))
		assert.Contains(t, joined, "contiguous (gap between 1 and 4)")
	})

	t.Run("sprint end must follow start", func(t *testing.T) {
		schema := validSchema()
		schema.Sprints[1].EndDate = "2026-03-09"

		joined := errorStrings(ValidateImportSchema(schema))
		assert.Contains(t, joined, "must be after start_date")
	})
}

func TestValidateImportSchema_PhaseRules(t *testing.T) {
	t.Run("sprint zero reserved for kickoff", func(t *testing.T) {
		schema := validSchema()
		schema.Phases[1].SprintNumbers = []int{0, 1, 2}

		joined := errorStrings(ValidateImportSchema(schema))
		assert.Contains(t, joined, "sprint 0 is reserved for the kickoff phase")
	})

	t.Run("non consecutive sprints rejected", func(t *testing.T) {
		schema := validSchema()
		schema.Phases[1].SprintNumbers = []int{1, 3}

		joined := errorStrings(ValidateImportSchema(schema))
		assert.Contains(t, joined, "sprint_numbers must be consecutive")
		assert.Contains(t, joined, "sprint 3 not found in sprints")
	})

	t.Run("single kickoff", func(t *testing.T) {
		schema := validSchema()
		schema.Phases[1].IsKickoff = true

		joined := errorStrings(ValidateImportSchema(schema))
		assert.Contains(t, joined, "at most one phase may be the kickoff phase (got 2)")
	})
}

func TestValidateImportSchema_AllocationRules(t *testing.T) {
	schema := validSchema()
	schema.Allocations = append(schema.Allocations,
		AllocationImport{Ref: "a3", PhaseRef: "build", ConsultantRef: "dana", TotalHours: 10},
		AllocationImport{Ref: "a4", PhaseRef: "ship", ConsultantRef: "nadia", TotalHours: 10, Status: "DONE"},
	)

	joined := errorStrings(ValidateImportSchema(schema))
	assert.Contains(t, joined, `consultant "dana" already allocated on phase "build"`)
	assert.Contains(t, joined, `phase_ref: ref "ship" not found in phases`)
	assert.Contains(t, joined, `consultant_ref: ref "nadia" not found in consultants`)
	assert.Contains(t, joined, `status: invalid value "DONE"`)
}

func TestValidateImportSchema_ConsultantBudgetBound(t *testing.T) {
	t.Run("committed hours above the budget are rejected", func(t *testing.T) {
		schema := validSchema()
		schema.Allocations[0].TotalHours = 120
		schema.Weeklies = nil

		joined := errorStrings(ValidateImportSchema(schema))
		assert.Contains(t, joined,
			`consultant "dana": committed hours of 120.0h exceed the project budget of 100.0h by 20.0h`)
	})

	t.Run("expired allocations release their hours", func(t *testing.T) {
		schema := validSchema()
		schema.Allocations = append(schema.Allocations,
			AllocationImport{Ref: "a3", PhaseRef: "kickoff", ConsultantRef: "dana", TotalHours: 90, Status: "EXPIRED"})

		assert.Empty(t, ValidateImportSchema(schema))
	})
}

func TestValidateImportSchema_WeeklyFloor(t *testing.T) {
	schema := validSchema()
	schema.Weeklies = append(schema.Weeklies,
		WeeklyImport{AllocationRef: "a1", WeekStart: "2026-03-23", ProposedHours: 10},
		// Rejected weeks never count against the total.
		WeeklyImport{AllocationRef: "a1", WeekStart: "2026-03-30", ProposedHours: 99, Status: "REJECTED"},
	)

	joined := errorStrings(ValidateImportSchema(schema))
	assert.Contains(t, joined,
		`allocation "a1": planned weekly hours of 46.0h exceed total_hours of 40.0h`)
}

func errorStrings(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}
