package cli

import (
	"context"
	"fmt"

	"github.com/karlrobeck/SovereignTask/internal/cli/formatter"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var tenantID, name, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{
				TenantID:    tenantID,
				Name:        name,
				Description: description,
			}
			if err := app.Projects.Create(context.Background(), p); err != nil {
				return err
			}
			fmt.Printf("Created project %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects in a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.ListByTenant(context.Background(), tenantID)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{p.ID, p.Name, p.CreatedAt.Format("2006-01-02")})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "Name", "Created"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a project with its statuses and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Projects.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed project %s\n", args[0])
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Manage project statuses",
	}

	cmd.AddCommand(
		newStatusAddCmd(app),
		newStatusListCmd(app),
	)

	return cmd
}

func newStatusAddCmd(app *App) *cobra.Command {
	var projectID, name string
	var order int
	var terminal bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a status column in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.Status{
				ProjectID:  projectID,
				Name:       name,
				OrderIndex: order,
				IsTerminal: terminal,
			}
			if err := app.Statuses.Create(context.Background(), s); err != nil {
				return err
			}
			fmt.Printf("Created status %s (%s)\n", s.Name, s.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&name, "name", "", "Status name, unique within the project")
	cmd.Flags().IntVar(&order, "order", 0, "Column position")
	cmd.Flags().BoolVar(&terminal, "terminal", false, "Mark as a terminal status")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newStatusListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List statuses in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := app.Statuses.ListByProject(context.Background(), projectID)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				terminal := ""
				if s.IsTerminal {
					terminal = "yes"
				}
				rows = append(rows, []string{s.ID, s.Name, fmt.Sprintf("%d", s.OrderIndex), terminal})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "Name", "Order", "Terminal"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
