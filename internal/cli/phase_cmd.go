package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahenriksen/staffplan/internal/cli/formatter"
	"github.com/ahenriksen/staffplan/internal/service"
)

func newPhaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Manage project phases and rosters",
	}

	cmd.AddCommand(
		newPhaseAddCmd(app),
		newPhaseListCmd(app),
		newPhaseSprintsCmd(app),
		newPhaseRosterCmd(app),
	)

	return cmd
}

func newPhaseAddCmd(app *App) *cobra.Command {
	var project, name, description string
	var sprints []int
	var kickoff bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a phase over a consecutive sprint span",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			ph, err := app.Phases.Create(ctx, projectID, service.PhaseSpec{
				Name:          name,
				Description:   description,
				IsKickoff:     kickoff,
				SprintNumbers: sprints,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created phase %s (%s – %s)\n",
				ph.Name, ph.StartDate.Format("2006-01-02"), ph.EndDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	cmd.Flags().StringVar(&name, "name", "", "Phase name")
	cmd.Flags().StringVar(&description, "description", "", "Phase description")
	cmd.Flags().IntSliceVar(&sprints, "sprints", nil, "Sprint numbers, e.g. 1,2,3")
	cmd.Flags().BoolVar(&kickoff, "kickoff", false, "Designate as the project's kickoff phase")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("sprints")

	return cmd
}

func newPhaseListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's phases",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			phases, err := app.Phases.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if len(phases) == 0 {
				fmt.Println(formatter.Dim("No phases."))
				return nil
			}
			for _, ph := range phases {
				label := ph.Name
				if ph.IsKickoff {
					label += " (kickoff)"
				}
				fmt.Printf("%-28s %s – %s  %s\n", label,
					ph.StartDate.Format("2006-01-02"), ph.EndDate.Format("2006-01-02"),
					formatter.Dim(ph.ID[:8]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newPhaseSprintsCmd(app *App) *cobra.Command {
	var project, phase string
	var sprints []int

	cmd := &cobra.Command{
		Use:   "sprints",
		Short: "Replace a phase's sprint selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			phaseID, err := resolvePhaseID(ctx, app, project, phase)
			if err != nil {
				return err
			}
			ph, err := app.Phases.EditSprints(ctx, phaseID, sprints)
			if err != nil {
				return err
			}
			fmt.Printf("Phase %s now runs %s – %s\n",
				ph.Name, ph.StartDate.Format("2006-01-02"), ph.EndDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	cmd.Flags().StringVar(&phase, "phase", "", "Phase name or ID")
	cmd.Flags().IntSliceVar(&sprints, "sprints", nil, "Sprint numbers, e.g. 1,2,3")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("phase")
	_ = cmd.MarkFlagRequired("sprints")

	return cmd
}

func newPhaseRosterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage a phase's consultant roster",
	}

	cmd.AddCommand(
		newRosterAddCmd(app),
		newRosterRemoveCmd(app),
		newRosterListCmd(app),
	)

	return cmd
}

func newRosterAddCmd(app *App) *cobra.Command {
	var project, phase, consultant string
	var hours float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Allocate a consultant on a phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			phaseID, err := resolvePhaseID(ctx, app, project, phase)
			if err != nil {
				return err
			}
			consultantID, err := resolveConsultantID(ctx, app, consultant)
			if err != nil {
				return err
			}
			result, err := app.Phases.AddToRoster(ctx, phaseID, consultantID, hours)
			if err != nil {
				return err
			}
			fmt.Printf("Allocated %.1fh (%s), pending approval\n",
				result.Allocation.TotalHours, result.Allocation.ID[:8])
			if result.Warning != "" {
				fmt.Println(formatter.Warning(result.Warning))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	cmd.Flags().StringVar(&phase, "phase", "", "Phase name or ID")
	cmd.Flags().StringVar(&consultant, "consultant", "", "Consultant name or ID")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Total hours to allocate")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("phase")
	_ = cmd.MarkFlagRequired("consultant")
	_ = cmd.MarkFlagRequired("hours")

	return cmd
}

func newRosterRemoveCmd(app *App) *cobra.Command {
	var project, phase, consultant string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a consultant from a phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			phaseID, err := resolvePhaseID(ctx, app, project, phase)
			if err != nil {
				return err
			}
			consultantID, err := resolveConsultantID(ctx, app, consultant)
			if err != nil {
				return err
			}
			a, err := app.Phases.RemoveFromRoster(ctx, phaseID, consultantID)
			if err != nil {
				return err
			}
			if a == nil {
				fmt.Println("Removed from roster")
				return nil
			}
			fmt.Println("Allocation has planned weekly hours; removal is pending approval")
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	cmd.Flags().StringVar(&phase, "phase", "", "Phase name or ID")
	cmd.Flags().StringVar(&consultant, "consultant", "", "Consultant name or ID")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("phase")
	_ = cmd.MarkFlagRequired("consultant")

	return cmd
}

func newRosterListCmd(app *App) *cobra.Command {
	var project, phase string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a phase's allocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			phaseID, err := resolvePhaseID(ctx, app, project, phase)
			if err != nil {
				return err
			}
			allocations, err := app.Allocations.ListByPhase(ctx, phaseID)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatAllocationList(allocations, consultantNames(ctx, app)))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	cmd.Flags().StringVar(&phase, "phase", "", "Phase name or ID")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("phase")

	return cmd
}
