package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahenriksen/staffplan/internal/cli/formatter"
)

func newAllocationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocation",
		Short: "Manage phase allocations",
	}

	cmd.AddCommand(
		newAllocationSetHoursCmd(app),
		newAllocationApproveCmd(app),
		newAllocationRejectCmd(app),
		newAllocationDeletionCmd(app),
		newAllocationExpireCmd(app),
		newAllocationForfeitCmd(app),
	)

	return cmd
}

// allocationFlags wires the identifying flags shared by allocation
// subcommands.
func allocationFlags(cmd *cobra.Command, project, phase, consultant *string) {
	cmd.Flags().StringVar(project, "project", "", "Project name or ID")
	cmd.Flags().StringVar(phase, "phase", "", "Phase name or ID")
	cmd.Flags().StringVar(consultant, "consultant", "", "Consultant name or ID")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("phase")
	_ = cmd.MarkFlagRequired("consultant")
}

func newAllocationSetHoursCmd(app *App) *cobra.Command {
	var project, phase, consultant string
	var hours float64

	cmd := &cobra.Command{
		Use:   "set-hours",
		Short: "Resize an allocation's total hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			result, err := app.Allocations.SetHours(ctx, a.ID, hours)
			if err != nil {
				return err
			}
			fmt.Printf("Allocation set to %.1fh (%s)\n",
				result.Allocation.TotalHours, result.Allocation.Status)
			if result.Warning != "" {
				fmt.Println(formatter.Warning(result.Warning))
			}
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	cmd.Flags().Float64Var(&hours, "hours", 0, "New total hours")
	_ = cmd.MarkFlagRequired("hours")

	return cmd
}

func newAllocationApproveCmd(app *App) *cobra.Command {
	var project, phase, consultant string

	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Approve a pending allocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			warning, err := app.Allocations.Approve(ctx, a.ID)
			if err != nil {
				return err
			}
			fmt.Println("Allocation approved")
			if warning != "" {
				fmt.Println(formatter.Warning(warning))
			}
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	return cmd
}

func newAllocationRejectCmd(app *App) *cobra.Command {
	var project, phase, consultant string

	cmd := &cobra.Command{
		Use:   "reject",
		Short: "Reject a pending allocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			if err := app.Allocations.Reject(ctx, a.ID); err != nil {
				return err
			}
			fmt.Println("Allocation rejected")
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	return cmd
}

func newAllocationDeletionCmd(app *App) *cobra.Command {
	var project, phase, consultant string
	var approve bool

	cmd := &cobra.Command{
		Use:   "resolve-deletion",
		Short: "Resolve a pending allocation removal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			if err := app.Allocations.ResolveDeletion(ctx, a.ID, approve); err != nil {
				return err
			}
			if approve {
				fmt.Println("Allocation removed")
			} else {
				fmt.Println("Removal rejected; allocation restored to APPROVED")
			}
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	cmd.Flags().BoolVar(&approve, "approve", false, "Approve the removal (default is reject)")

	return cmd
}

func newAllocationExpireCmd(app *App) *cobra.Command {
	var project, phase, consultant string

	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Expire an allocation, releasing its hours to the budget pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			if err := app.Allocations.Expire(ctx, a.ID); err != nil {
				return err
			}
			fmt.Printf("Allocation expired; %.1fh released\n", a.TotalHours)
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	return cmd
}

func newAllocationForfeitCmd(app *App) *cobra.Command {
	var project, phase, consultant string

	cmd := &cobra.Command{
		Use:   "forfeit",
		Short: "Forfeit an allocation, releasing its hours to the budget pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			if err := app.Allocations.Forfeit(ctx, a.ID); err != nil {
				return err
			}
			fmt.Printf("Allocation forfeited; %.1fh released\n", a.TotalHours)
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	return cmd
}
