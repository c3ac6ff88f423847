package cli

import (
	"github.com/spf13/cobra"

	"github.com/ahenriksen/staffplan/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Consultants service.ConsultantService
	Projects    service.ProjectService
	Phases      service.PhaseService
	Allocations service.AllocationService
	Weeklies    service.WeeklyPlanService
	Changes     service.ChangeRequestService
	Capacity    service.CapacityService
	Import      service.ImportService

	// IsInteractive reports whether stdin is a terminal; confirmation
	// prompts are skipped when it is not.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "staffplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "staffplan",
		Short: "Consultant capacity allocation and approval engine",
	}

	root.AddCommand(
		newConsultantCmd(app),
		newProjectCmd(app),
		newPhaseCmd(app),
		newAllocationCmd(app),
		newWeeklyCmd(app),
		newChangeCmd(app),
		newCapacityCmd(app),
	)

	return root
}
