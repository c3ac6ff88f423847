package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/ahenriksen/staffplan/internal/cli"
	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/repository"
	"github.com/ahenriksen/staffplan/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// DB path: env var or default ~/.staffplan/staffplan.db
	dbPath := os.Getenv("STAFFPLAN_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".staffplan", "staffplan.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	consultantRepo := repository.NewSQLiteConsultantRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	sprintRepo := repository.NewSQLiteSprintRepo(database)
	phaseRepo := repository.NewSQLitePhaseRepo(database)
	allocationRepo := repository.NewSQLiteAllocationRepo(database)
	weeklyRepo := repository.NewSQLiteWeeklyRepo(database)
	changeRepo := repository.NewSQLiteChangeRequestRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	// Use-case telemetry goes to stderr when requested.
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if os.Getenv("STAFFPLAN_LOG") != "" {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	app := &cli.App{
		Consultants: service.NewConsultantService(consultantRepo),
		Projects:    service.NewProjectService(projectRepo, sprintRepo, allocationRepo, uow),
		Phases:      service.NewPhaseService(phaseRepo, allocationRepo, uow, observer),
		Allocations: service.NewAllocationService(allocationRepo, service.DefaultAllocationPolicy, uow, observer),
		Weeklies:    service.NewWeeklyPlanService(weeklyRepo, uow, observer),
		Changes:     service.NewChangeRequestService(changeRepo, allocationRepo, weeklyRepo, uow, observer),
		Capacity:    service.NewCapacityService(consultantRepo, phaseRepo, allocationRepo),
		Import:      service.NewImportService(uow, observer),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
