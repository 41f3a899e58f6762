package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/karlrobeck/SovereignTask/internal/cli"
	"github.com/karlrobeck/SovereignTask/internal/clock"
	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/identity"
	"github.com/karlrobeck/SovereignTask/internal/lock"
	"github.com/karlrobeck/SovereignTask/internal/repository"
	"github.com/karlrobeck/SovereignTask/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.sovereigntask/sovereigntask.db
	dbPath := os.Getenv("SOVEREIGNTASK_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".sovereigntask", "sovereigntask.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	tenantRepo := repository.NewSQLiteTenantRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	statusRepo := repository.NewSQLiteStatusRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	clk := clock.System{}
	ids := identity.UUID{}
	locks := lock.NewMutexMap()

	var observers []service.UseCaseObserver
	if os.Getenv("SOVEREIGNTASK_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Tenants:   service.NewTenantService(tenantRepo, clk, ids),
		Users:     service.NewUserService(userRepo, clk, ids),
		Projects:  service.NewProjectService(projectRepo, clk, ids),
		Statuses:  service.NewStatusService(statusRepo, clk, ids),
		Tasks:     service.NewTaskService(taskRepo, uow, clk, ids),
		Hierarchy: service.NewHierarchyService(taskRepo, uow, clk, locks, observers...),
		Deps:      service.NewDependencyService(taskRepo, depRepo, uow, clk, ids, locks, observers...),
		Audits:    service.NewAuditService(auditRepo, uow, clk, observers...),
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
