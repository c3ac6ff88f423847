package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahenriksen/staffplan/internal/domain"
)

// resolveID matches input against a list of (id, label) pairs: exact
// label match (case-insensitive) first, then exact ID, then ID prefix.
func resolveID(input, kind string, ids, labels []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s is required", kind)
	}
	for i, label := range labels {
		if strings.EqualFold(label, input) {
			return ids[i], nil
		}
	}
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(projects))
	names := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
		names[i] = p.Name
	}
	return resolveID(input, "project", ids, names)
}

func resolveConsultantID(ctx context.Context, app *App, input string) (string, error) {
	consultants, err := app.Consultants.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(consultants))
	names := make([]string, len(consultants))
	for i, c := range consultants {
		ids[i] = c.ID
		names[i] = c.Name
	}
	return resolveID(input, "consultant", ids, names)
}

func resolvePhaseID(ctx context.Context, app *App, projectInput, input string) (string, error) {
	projectID, err := resolveProjectID(ctx, app, projectInput)
	if err != nil {
		return "", err
	}
	phases, err := app.Phases.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(phases))
	names := make([]string, len(phases))
	for i, ph := range phases {
		ids[i] = ph.ID
		names[i] = ph.Name
	}
	return resolveID(input, "phase", ids, names)
}

// resolveAllocation finds the consultant's allocation on the given phase.
func resolveAllocation(ctx context.Context, app *App, projectInput, phaseInput, consultantInput string) (*domain.PhaseAllocation, error) {
	phaseID, err := resolvePhaseID(ctx, app, projectInput, phaseInput)
	if err != nil {
		return nil, err
	}
	consultantID, err := resolveConsultantID(ctx, app, consultantInput)
	if err != nil {
		return nil, err
	}
	allocations, err := app.Allocations.ListByPhase(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	for _, a := range allocations {
		if a.ConsultantID == consultantID {
			return a, nil
		}
	}
	return nil, fmt.Errorf("consultant %q has no allocation on phase %q", consultantInput, phaseInput)
}

// resolvePendingChangeID matches input against pending change request IDs.
func resolvePendingChangeID(ctx context.Context, app *App, input string) (string, error) {
	requests, err := app.Changes.ListPending(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}
	return resolveID(input, "change request", ids, nil)
}

// consultantNames builds an ID-to-name map for display.
func consultantNames(ctx context.Context, app *App) map[string]string {
	names := make(map[string]string)
	consultants, err := app.Consultants.List(ctx)
	if err != nil {
		return names
	}
	for _, c := range consultants {
		names[c.ID] = c.Name
	}
	return names
}
