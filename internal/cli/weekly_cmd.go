package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahenriksen/staffplan/internal/calweek"
	"github.com/ahenriksen/staffplan/internal/cli/formatter"
	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/service"
)

func newWeeklyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Plan and approve weekly hour distributions",
	}

	cmd.AddCommand(
		newWeeklySubmitCmd(app),
		newWeeklyListCmd(app),
		newWeeklyDecideCmd(app),
		newWeeklyBatchCmd(app),
	)

	return cmd
}

// parseWeekEntries parses repeated "DATE=HOURS" flags into week slots.
func parseWeekEntries(entries []string) ([]service.WeekHours, error) {
	weeks := make([]service.WeekHours, 0, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid week entry %q (expected DATE=HOURS)", entry)
		}
		date, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid week date %q: %w", parts[0], err)
		}
		hours, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid hours %q: %w", parts[1], err)
		}
		weeks = append(weeks, service.WeekHours{WeekStart: date, Hours: hours})
	}
	return weeks, nil
}

func newWeeklySubmitCmd(app *App) *cobra.Command {
	var project, phase, consultant string
	var entries []string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a weekly hour distribution for an allocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			weeks, err := parseWeekEntries(entries)
			if err != nil {
				return err
			}
			submitted, err := app.Weeklies.Submit(ctx, a.ID, weeks)
			if err != nil {
				return err
			}
			fmt.Printf("Submitted %d weeks for approval\n", len(submitted))
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	cmd.Flags().StringArrayVar(&entries, "week", nil, "Week entry as DATE=HOURS, e.g. 2026-03-02=10 (repeatable)")
	_ = cmd.MarkFlagRequired("week")

	return cmd
}

func newWeeklyListCmd(app *App) *cobra.Command {
	var project, phase, consultant string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an allocation's weekly distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			weeklies, err := app.Weeklies.ListByAllocation(ctx, a.ID)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatWeeklyList(weeklies))
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	return cmd
}

func newWeeklyDecideCmd(app *App) *cobra.Command {
	var project, phase, consultant, week, rationale string
	var reject bool
	var modify float64

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Approve, reject, or modify one week's proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			weekDate, err := time.Parse("2006-01-02", week)
			if err != nil {
				return fmt.Errorf("invalid week date %q: %w", week, err)
			}
			w, err := findWeekly(ctx, app, a.ID, weekDate)
			if err != nil {
				return err
			}

			d := service.WeeklyDecision{WeeklyID: w.ID, Rationale: rationale}
			switch {
			case cmd.Flags().Changed("modify"):
				d.Modify = true
				d.ModifiedHours = modify
			case reject:
			default:
				d.Approve = true
			}

			if err := app.Weeklies.Decide(ctx, d); err != nil {
				return err
			}
			fmt.Println("Decision recorded")
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	cmd.Flags().StringVar(&week, "week", "", "Week start date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject instead of approve")
	cmd.Flags().Float64Var(&modify, "modify", 0, "Approve with different hours")
	cmd.Flags().StringVar(&rationale, "rationale", "", "Rationale (required with --modify)")
	_ = cmd.MarkFlagRequired("week")

	return cmd
}

func newWeeklyBatchCmd(app *App) *cobra.Command {
	var project, phase, consultant string
	var reject bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Apply one decision to every pending week of an allocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := resolveAllocation(ctx, app, project, phase, consultant)
			if err != nil {
				return err
			}
			weeklies, err := app.Weeklies.ListByAllocation(ctx, a.ID)
			if err != nil {
				return err
			}

			var decisions []service.WeeklyDecision
			for _, w := range weeklies {
				if w.Status != domain.WeeklyPending {
					continue
				}
				decisions = append(decisions, service.WeeklyDecision{
					WeeklyID: w.ID,
					Approve:  !reject,
				})
			}
			if len(decisions) == 0 {
				fmt.Println(formatter.Dim("No pending weeks."))
				return nil
			}

			results := app.Weeklies.BatchDecide(ctx, decisions)
			var failed int
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Println(formatter.Warning(fmt.Sprintf("%s: %v", r.WeeklyID[:8], r.Err)))
				}
			}
			fmt.Printf("Decided %d of %d weeks\n", len(results)-failed, len(results))
			return nil
		},
	}

	allocationFlags(cmd, &project, &phase, &consultant)
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject instead of approve")

	return cmd
}

func findWeekly(ctx context.Context, app *App, allocationID string, weekDate time.Time) (*domain.WeeklyAllocation, error) {
	weeklies, err := app.Weeklies.ListByAllocation(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	want := calweek.FromDate(weekDate)
	for _, w := range weeklies {
		if calweek.FromDate(w.WeekStart).Start.Equal(want.Start) {
			return w, nil
		}
	}
	return nil, fmt.Errorf("no weekly allocation for week %s", want.Key())
}
