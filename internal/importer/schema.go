// Package importer loads a full project plan from a JSON file: project,
// consultants, sprints, phases, and optionally pre-existing allocations
// with their weekly distributions. Validation collects every error in
// one pass so a plan author can fix a file in one round trip.
package importer

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// ImportSchema is the top-level JSON structure for plan import.
type ImportSchema struct {
	Project     ProjectImport      `json:"project"`
	Consultants []ConsultantImport `json:"consultants"`
	Sprints     []SprintImport     `json:"sprints"`
	Phases      []PhaseImport      `json:"phases"`
	Allocations []AllocationImport `json:"allocations,omitempty"`
	Weeklies    []WeeklyImport     `json:"weekly_allocations,omitempty"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	Name          string  `json:"name"`
	BudgetedHours float64 `json:"budgeted_hours"`
	StartDate     string  `json:"start_date"`
}

// ConsultantImport references a person from the external directory.
type ConsultantImport struct {
	Ref   string `json:"ref"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// SprintImport defines one sprint. Numbers must run contiguously from 0.
type SprintImport struct {
	Number    int    `json:"number"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// PhaseImport defines a phase over a consecutive sprint-number span.
type PhaseImport struct {
	Ref           string `json:"ref"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	IsKickoff     bool   `json:"is_kickoff,omitempty"`
	SprintNumbers []int  `json:"sprint_numbers"`
}

// AllocationImport seats a consultant on a phase with committed hours.
type AllocationImport struct {
	Ref           string  `json:"ref"`
	PhaseRef      string  `json:"phase_ref"`
	ConsultantRef string  `json:"consultant_ref"`
	TotalHours    float64 `json:"total_hours"`
	Status        string  `json:"status,omitempty"`
}

// WeeklyImport distributes part of an allocation into one calendar week.
type WeeklyImport struct {
	AllocationRef string   `json:"allocation_ref"`
	WeekStart     string   `json:"week_start"`
	ProposedHours float64  `json:"proposed_hours"`
	ApprovedHours *float64 `json:"approved_hours,omitempty"`
	Status        string   `json:"status,omitempty"`
	Rationale     string   `json:"rationale,omitempty"`
}

// LoadImportSchema reads and parses a plan import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
