package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ahenriksen/staffplan/internal/cli/formatter"
)

func newChangeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "change",
		Short: "Request and resolve hour changes",
	}

	cmd.AddCommand(
		newChangeAdjustCmd(app),
		newChangeShiftCmd(app),
		newChangeListCmd(app),
		newChangeApproveCmd(app),
		newChangeRejectCmd(app),
	)

	return cmd
}

func newChangeAdjustCmd(app *App) *cobra.Command {
	var project, phase, consultant, reason, requestedBy string
	var hours float64

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Request a resize of an allocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			result, err := app.Changes.CreateAdjustment(ctx, a.ID, hours, reason, requestedBy)
			if err != nil {
				return err
			}
			fmt.Printf("Requested adjustment %.1fh → %.1fh (%s)\n",
				result.Request.OriginalHours, result.Request.RequestedHours, result.Request.ID[:8])
			if result.Warning != "" {
				fmt.Println(formatter.Warning(result.Warning))
			}
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	cmd.Flags().Float64Var(&hours, "hours", 0, "Requested new total hours")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the change (at least 10 characters)")
	cmd.Flags().StringVar(&requestedBy, "by", "", "Requester name")
	_ = cmd.MarkFlagRequired("hours")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newChangeShiftCmd(app *App) *cobra.Command {
	var project, phase, consultant, to, reason, requestedBy string
	var hours float64

	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Request an hour transfer to another consultant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			toID, err := resolveConsultantID(ctx, app, to)
			if err != nil {
				return err
			}
			result, err := app.Changes.CreateShift(ctx, a.ID, toID, hours, reason, requestedBy)
			if err != nil {
				return err
			}
			fmt.Printf("Requested shift of %.1fh (%s)\n", result.Request.ShiftHours, result.Request.ID[:8])
			if result.Warning != "" {
				fmt.Println(formatter.Warning(result.Warning))
			}
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	cmd.Flags().StringVar(&to, "to", "", "Receiving consultant name or ID")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Hours to transfer")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the change (at least 10 characters)")
	cmd.Flags().StringVar(&requestedBy, "by", "", "Requester name")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("hours")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newChangeListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending change requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			requests, err := app.Changes.ListPending(ctx)
			if err != nil {
				return err
			}
			if len(requests) == 0 {
				fmt.Println(formatter.Dim("No pending change requests."))
				return nil
			}
			names := consultantNames(ctx, app)
			for _, r := range requests {
				fmt.Print(formatter.FormatChangeRequest(r, names))
			}
			return nil
		},
	}
}

func newChangeApproveCmd(app *App) *cobra.Command {
	var id, resolvedBy string
	var yes bool

	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Approve a change request and apply it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			requestID, err := resolvePendingChangeID(ctx, app, id)
			if err != nil {
				return err
			}

			if !yes && app.IsInteractive != nil && app.IsInteractive() {
				r, err := app.Changes.GetByID(ctx, requestID)
				if err != nil {
					return err
				}
				fmt.Print(formatter.FormatChangeRequest(r, consultantNames(ctx, app)))
				fmt.Print("Apply this change? [y/N] ")
				line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
					fmt.Println("Aborted")
					return nil
				}
			}

			result, err := app.Changes.Approve(ctx, requestID, resolvedBy)
			if err != nil {
				return err
			}
			fmt.Printf("Change %s approved and applied\n", result.Request.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Change request ID or prefix")
	cmd.Flags().StringVar(&resolvedBy, "by", "", "Approver name")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newChangeRejectCmd(app *App) *cobra.Command {
	var id, resolvedBy, reason string

	cmd := &cobra.Command{
		Use:   "reject",
		Short: "Reject a change request",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			requestID, err := resolvePendingChangeID(ctx, app, id)
			if err != nil {
				return err
			}
			if err := app.Changes.Reject(ctx, requestID, resolvedBy, reason); err != nil {
				return err
			}
			fmt.Println("Change request rejected")
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Change request ID or prefix")
	cmd.Flags().StringVar(&resolvedBy, "by", "", "Approver name")
	cmd.Flags().StringVar(&reason, "reason", "", "Rejection reason")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}
