package cli

import (
	"context"
	"fmt"

	"github.com/karlrobeck/SovereignTask/internal/cli/formatter"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage task dependencies",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepCheckCmd(app),
		newDepListCmd(app),
		newDepRetypeCmd(app),
		newDepRemoveCmd(app),
		newDepPathCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var projectID, actorID, depType string

	cmd := &cobra.Command{
		Use:   "add PREDECESSOR SUCCESSOR",
		Short: "Add a dependency edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pred, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			succ, err := resolveTaskID(ctx, app, projectID, args[1])
			if err != nil {
				return err
			}

			dep, err := app.Deps.Create(ctx, pred, succ, domain.DependencyType(depType), actorID)
			if err != nil {
				return err
			}
			fmt.Printf("Created dependency %s -> %s [%s] (%s)\n", pred, succ, dep.Type, dep.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&actorID, "actor", "", "Acting user ID")
	cmd.Flags().StringVar(&depType, "type", "", "Dependency type (FS|SS|FF|SF, default FS)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func newDepCheckCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "check PREDECESSOR SUCCESSOR",
		Short: "Check whether an edge would close a cycle, without adding it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pred, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			succ, err := resolveTaskID(ctx, app, projectID, args[1])
			if err != nil {
				return err
			}

			closes, err := app.Deps.WouldCycle(ctx, pred, succ)
			if err != nil {
				return err
			}
			if closes {
				fmt.Println(formatter.Red("cycle: this edge would close a cycle"))
			} else {
				fmt.Println(formatter.Green("ok: this edge is safe to add"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newDepListCmd(app *App) *cobra.Command {
	var projectID string
	var blocking, blocked bool

	cmd := &cobra.Command{
		Use:   "list ID",
		Short: "List a task's dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}

			if blocking || blocked {
				var tasks []*domain.Task
				if blocking {
					tasks, err = app.Deps.ListBlocking(ctx, taskID)
				} else {
					tasks, err = app.Deps.ListBlockedBy(ctx, taskID)
				}
				if err != nil {
					return err
				}
				fmt.Print(formatter.FormatTaskList(tasks))
				return nil
			}

			preds, err := app.Deps.ListPredecessors(ctx, taskID)
			if err != nil {
				return err
			}
			succs, err := app.Deps.ListSuccessors(ctx, taskID)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(preds)+len(succs))
			for _, d := range preds {
				rows = append(rows, []string{d.ID, d.PredecessorTaskID, "->", taskID, string(d.Type)})
			}
			for _, d := range succs {
				rows = append(rows, []string{d.ID, taskID, "->", d.SuccessorTaskID, string(d.Type)})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "Predecessor", "", "Successor", "Type"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().BoolVar(&blocking, "blocking", false, "Show the tasks blocking this one")
	cmd.Flags().BoolVar(&blocked, "blocked", false, "Show the tasks this one blocks")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newDepRetypeCmd(app *App) *cobra.Command {
	var actorID, depType string

	cmd := &cobra.Command{
		Use:   "retype ID",
		Short: "Change a dependency's type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dep, err := app.Deps.UpdateType(context.Background(), args[0], domain.DependencyType(depType), actorID)
			if err != nil {
				return err
			}
			fmt.Printf("Dependency %s is now [%s]\n", dep.ID, dep.Type)
			return nil
		},
	}

	cmd.Flags().StringVar(&actorID, "actor", "", "Acting user ID")
	cmd.Flags().StringVar(&depType, "type", "", "Dependency type (FS|SS|FF|SF)")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	var actorID string

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a dependency edge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Deps.Delete(context.Background(), args[0], actorID); err != nil {
				return err
			}
			fmt.Printf("Removed dependency %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&actorID, "actor", "", "Acting user ID")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func newDepPathCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show the project's critical path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.Deps.CriticalPath(context.Background(), projectID)
			if err != nil {
				return err
			}
			if len(path) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}
			fmt.Print(formatter.FormatTaskList(path))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
