package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahenriksen/staffplan/internal/capacity"
	"github.com/ahenriksen/staffplan/internal/cli/formatter"
)

func newCapacityCmd(app *App) *cobra.Command {
	var project, phase, from, to string
	var consultants []string

	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Show weekly capacity per consultant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			ids := make([]string, 0, len(consultants))
			for _, input := range consultants {
				id, err := resolveConsultantID(ctx, app, input)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			var report *capacity.Report
			var err error
			switch {
			case phase != "":
				phaseID, rerr := resolvePhaseID(ctx, app, project, phase)
				if rerr != nil {
					return rerr
				}
				report, err = app.Capacity.ReportForPhase(ctx, phaseID, ids)
			case from != "" && to != "":
				start, perr := time.Parse("2006-01-02", from)
				if perr != nil {
					return fmt.Errorf("invalid --from date %q: %w", from, perr)
				}
				end, perr := time.Parse("2006-01-02", to)
				if perr != nil {
					return fmt.Errorf("invalid --to date %q: %w", to, perr)
				}
				report, err = app.Capacity.ReportForRange(ctx, ids, start, end)
			default:
				return fmt.Errorf("provide either --phase (with --project) or --from and --to")
			}
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatCapacityReport(report, consultantNames(ctx, app)))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name or ID (with --phase)")
	cmd.Flags().StringVar(&phase, "phase", "", "Phase name or ID to derive the range from")
	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&consultants, "consultant", nil, "Consultant names or IDs (default all)")

	return cmd
}
