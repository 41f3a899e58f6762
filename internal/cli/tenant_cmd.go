package cli

import (
	"context"
	"fmt"

	"github.com/karlrobeck/SovereignTask/internal/cli/formatter"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/spf13/cobra"
)

func newTenantCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	cmd.AddCommand(
		newTenantAddCmd(app),
		newTenantListCmd(app),
		newTenantRemoveCmd(app),
	)

	return cmd
}

func newTenantAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &domain.Tenant{Name: name}
			if err := app.Tenants.Create(context.Background(), t); err != nil {
				return err
			}
			fmt.Printf("Created tenant %s (%s)\n", t.Name, t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tenant name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTenantListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenants, err := app.Tenants.List(context.Background())
			if err != nil {
				return err
			}
			if len(tenants) == 0 {
				fmt.Println("No tenants found.")
				return nil
			}
			rows := make([][]string, 0, len(tenants))
			for _, t := range tenants {
				rows = append(rows, []string{t.ID, t.Name, t.CreatedAt.Format("2006-01-02")})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "Name", "Created"}, rows))
			return nil
		},
	}
}

func newTenantRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a tenant and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tenants.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed tenant %s\n", args[0])
			return nil
		},
	}
}
