package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahenriksen/staffplan/internal/cli/formatter"
	"github.com/ahenriksen/staffplan/internal/domain"
)

func newConsultantCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consultant",
		Short: "Manage consultants",
	}

	cmd.AddCommand(
		newConsultantAddCmd(app),
		newConsultantListCmd(app),
	)

	return cmd
}

func newConsultantAddCmd(app *App) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a consultant",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &domain.Consultant{Name: name, Email: email}
			if err := app.Consultants.Create(context.Background(), c); err != nil {
				return err
			}
			fmt.Printf("Registered consultant %s (%s)\n", c.Name, c.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Consultant name")
	cmd.Flags().StringVar(&email, "email", "", "Consultant email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newConsultantListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List consultants",
		RunE: func(cmd *cobra.Command, args []string) error {
			consultants, err := app.Consultants.List(context.Background())
			if err != nil {
				return err
			}
			if len(consultants) == 0 {
				fmt.Println(formatter.Dim("No consultants."))
				return nil
			}
			for _, c := range consultants {
				line := fmt.Sprintf("%-28s %s", c.Name, formatter.Dim(c.ID[:8]))
				if c.Email != "" {
					line += "  " + formatter.Dim(c.Email)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
