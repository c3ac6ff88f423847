package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahenriksen/staffplan/internal/cli/formatter"
	"github.com/ahenriksen/staffplan/internal/domain"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects and their sprints",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectSprintsCmd(app),
		newProjectBudgetCmd(app),
		newProjectImportCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, start string
	var budget float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", start, err)
			}

			p, err := app.Projects.Create(context.Background(), &domain.Project{
				Name:          name,
				BudgetedHours: budget,
				StartDate:     startDate,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created project %s (%s) with a %.1fh budget\n", p.Name, p.ID[:8], p.BudgetedHours)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Budgeted hours")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("budget")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println(formatter.Dim("No projects."))
				return nil
			}
			for _, p := range projects {
				fmt.Printf("%-28s %8.1fh  starts %s  %s\n",
					p.Name, p.BudgetedHours, p.StartDate.Format("2006-01-02"), formatter.Dim(p.ID[:8]))
			}
			return nil
		},
	}
}

func newProjectSprintsCmd(app *App) *cobra.Command {
	var project string
	var generate int

	cmd := &cobra.Command{
		Use:   "sprints",
		Short: "List or generate a project's sprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			if generate > 0 {
				created, err := app.Projects.GenerateSprints(ctx, projectID, generate)
				if err != nil {
					return err
				}
				fmt.Printf("Generated %d sprints\n", len(created))
			}

			sprints, err := app.Projects.ListSprints(ctx, projectID)
			if err != nil {
				return err
			}
			if len(sprints) == 0 {
				fmt.Println(formatter.Dim("No sprints. Use --generate to create some."))
				return nil
			}
			for _, sp := range sprints {
				label := fmt.Sprintf("Sprint %d", sp.Number)
				if sp.Number == domain.KickoffSprintNumber {
					label += " (kickoff)"
				}
				fmt.Printf("%-20s %s – %s\n", label,
					sp.StartDate.Format("2006-01-02"), sp.EndDate.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	cmd.Flags().IntVar(&generate, "generate", 0, "Generate this many new sprints first")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newProjectBudgetCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show the project's approved hours against its budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			bu, err := app.Projects.BudgetUtilization(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Printf("Approved %.1fh of %.1fh budgeted\n", bu.ApprovedHours, bu.BudgetedHours)
			if bu.Warning != "" {
				fmt.Println(formatter.Warning(bu.Warning))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newProjectImportCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a project plan from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportPlan(context.Background(), file)
			if err != nil {
				return err
			}
			fmt.Printf("Imported project %s: %d consultants, %d sprints, %d phases, %d allocations, %d weekly allocations\n",
				result.Project.Name, result.ConsultantCount, result.SprintCount,
				result.PhaseCount, result.AllocationCount, result.WeeklyCount)
			if result.Warning != "" {
				fmt.Println(formatter.Warning(result.Warning))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the import JSON file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
