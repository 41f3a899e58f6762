package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/cli/formatter"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/importer"
	"github.com/karlrobeck/SovereignTask/internal/repository"
	"github.com/spf13/cobra"
)

func newAuditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect and manage the audit trail",
	}

	cmd.AddCommand(
		newAuditLogCmd(app),
		newAuditWindowCmd(app),
		newAuditPageCmd(app),
		newAuditActorsCmd(app),
		newAuditLatestCmd(app),
		newAuditFilterCmd(app),
		newAuditPurgeCmd(app),
		newAuditImportCmd(app),
	)

	return cmd
}

func newAuditLogCmd(app *App) *cobra.Command {
	var tableName string

	cmd := &cobra.Command{
		Use:   "log RECORD",
		Short: "Show a record's full history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Audits.ListByRecord(context.Background(), tableName, args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No audit entries found.")
				return nil
			}
			fmt.Print(formatter.FormatAuditList(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&tableName, "table", "tasks", "Audited table name")

	return cmd
}

func newAuditWindowCmd(app *App) *cobra.Command {
	var tenantID, from, to string

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show who did what in a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromTime, err := time.Parse(time.RFC3339, from)
			if err != nil {
				return fmt.Errorf("invalid --from %q: %w", from, err)
			}
			toTime, err := time.Parse(time.RFC3339, to)
			if err != nil {
				return fmt.Errorf("invalid --to %q: %w", to, err)
			}

			entries, err := app.Audits.ListByActorWindow(context.Background(), tenantID, fromTime, toTime)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No audit entries found.")
				return nil
			}
			fmt.Print(formatter.FormatAuditWithActors(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&from, "from", "", "Window start (RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (RFC 3339)")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newAuditPageCmd(app *App) *cobra.Command {
	var tenantID string
	var page, size int

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Page through a tenant's audit trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, total, err := app.Audits.Paginate(context.Background(), tenantID, page, size)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatAuditList(entries))
			fmt.Printf("\nPage %d, %d of %d entries\n", page, len(entries), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	cmd.Flags().IntVar(&page, "page", 1, "Page number, 1-based")
	cmd.Flags().IntVar(&size, "size", 20, "Entries per page")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func newAuditActorsCmd(app *App) *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "actors",
		Short: "Summarize activity per actor and action",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := app.Audits.CountByActor(context.Background(), tenantID)
			if err != nil {
				return err
			}
			if len(counts) == 0 {
				fmt.Println("No audit entries found.")
				return nil
			}
			fmt.Print(formatter.FormatActorCounts(counts))
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func newAuditLatestCmd(app *App) *cobra.Command {
	var tableName string

	cmd := &cobra.Command{
		Use:   "latest RECORD",
		Short: "Show a record's most recent change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := app.Audits.Latest(context.Background(), tableName, args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatAuditList([]*domain.AuditLog{entry}))
			if entry.NewValues != nil {
				fmt.Printf("\n%s %s\n", formatter.Bold("After:"), *entry.NewValues)
			}
			if entry.OldValues != nil {
				fmt.Printf("%s %s\n", formatter.Bold("Before:"), *entry.OldValues)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tableName, "table", "tasks", "Audited table name")

	return cmd
}

func newAuditFilterCmd(app *App) *cobra.Command {
	var tenantID, tableName, action, from, to string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter a tenant's audit trail; criteria combine with AND",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := repository.AuditQuery{
				TableName: tableName,
				Action:    domain.AuditAction(action),
			}
			if from != "" {
				t, err := time.Parse(time.RFC3339, from)
				if err != nil {
					return fmt.Errorf("invalid --from %q: %w", from, err)
				}
				q.From = &t
			}
			if to != "" {
				t, err := time.Parse(time.RFC3339, to)
				if err != nil {
					return fmt.Errorf("invalid --to %q: %w", to, err)
				}
				q.To = &t
			}

			entries, err := app.Audits.Filter(context.Background(), tenantID, q)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No audit entries found.")
				return nil
			}
			fmt.Print(formatter.FormatAuditList(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&tableName, "table", "", "Filter by audited table")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action (CREATE|UPDATE|DELETE)")
	cmd.Flags().StringVar(&from, "from", "", "Entries at or after this time (RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "Entries at or before this time (RFC 3339)")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func newAuditPurgeCmd(app *App) *cobra.Command {
	var tenantID, olderThan string

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove a tenant's audit entries older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff, err := time.Parse(time.RFC3339, olderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than %q: %w", olderThan, err)
			}
			removed, err := app.Audits.Purge(context.Background(), tenantID, cutoff)
			if err != nil {
				return err
			}
			fmt.Printf("Purged %d audit entries\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&olderThan, "older-than", "", "Cutoff timestamp (RFC 3339)")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("older-than")

	return cmd
}

func newAuditImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Append a batch of audit entries from a YAML file, all or nothing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.LoadBatchSchema(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateBatchSchema(schema); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.Red("error:"), e)
				}
				return fmt.Errorf("import file has %d validation errors", len(errs))
			}

			entries, err := importer.ConvertBatch(schema, time.Now().UTC())
			if err != nil {
				return err
			}
			if err := app.Audits.AppendBatch(context.Background(), schema.TenantID, entries); err != nil {
				return err
			}
			fmt.Printf("Appended %d audit entries for tenant %s\n", len(entries), schema.TenantID)
			return nil
		},
	}
}
