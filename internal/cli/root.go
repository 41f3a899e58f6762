package cli

import (
	"github.com/karlrobeck/SovereignTask/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tenants   service.TenantService
	Users     service.UserService
	Projects  service.ProjectService
	Statuses  service.StatusService
	Tasks     service.TaskService
	Hierarchy service.HierarchyService
	Deps      service.DependencyService
	Audits    service.AuditService
}

// NewRootCmd creates the top-level "sovereigntask" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "sovereigntask",
		Short:         "Multi-tenant task graph and audit trail",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTenantCmd(app),
		newUserCmd(app),
		newProjectCmd(app),
		newStatusCmd(app),
		newTaskCmd(app),
		newDepCmd(app),
		newAuditCmd(app),
	)

	return root
}
