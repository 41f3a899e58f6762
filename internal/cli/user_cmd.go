package cli

import (
	"context"
	"fmt"

	"github.com/karlrobeck/SovereignTask/internal/cli/formatter"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
		newUserRemoveCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var tenantID, email, displayName string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new user in a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &domain.User{
				TenantID:    tenantID,
				Email:       email,
				DisplayName: displayName,
			}
			if err := app.Users.Create(context.Background(), u); err != nil {
				return err
			}
			fmt.Printf("Created user %s <%s> (%s)\n", u.DisplayName, u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&email, "email", "", "Email, unique within the tenant")
	cmd.Flags().StringVar(&displayName, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users in a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.ListByTenant(context.Background(), tenantID)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println("No users found.")
				return nil
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{u.ID, u.DisplayName, u.Email})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "Name", "Email"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func newUserRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a user; their task assignments are cleared",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Users.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed user %s\n", args[0])
			return nil
		},
	}
}
