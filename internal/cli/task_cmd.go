package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/cli/formatter"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskInspectCmd(app),
		newTaskUpdateCmd(app),
		newTaskAssignCmd(app),
		newTaskUnassignCmd(app),
		newTaskMoveCmd(app),
		newTaskParentCmd(app),
		newTaskTreeCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

// expectVersionFlag registers the shared --expect-version flag. A value of 0
// means last-write-wins; anything else makes the mutation a compare-and-set.
func expectVersionFlag(flags *pflag.FlagSet, target *int64) {
	flags.Int64Var(target, "expect-version", 0,
		"Fail unless the task is still at this version (0 = last write wins)")
}

func expectedOrNil(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date %q: %w", name, value, err)
	}
	return &t, nil
}

func newTaskAddCmd(app *App) *cobra.Command {
	var projectID, statusID, actorID, title, description, priority, start, due, parentID string
	var estimate int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			t := &domain.Task{
				ProjectID:        projectID,
				StatusID:         statusID,
				Title:            title,
				Description:      description,
				Priority:         domain.PriorityMedium,
				EstimatedMinutes: estimate,
			}
			if priority != "" {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				t.Priority = p
			}

			var err error
			if t.StartDate, err = parseDateFlag("start", start); err != nil {
				return err
			}
			if t.DueDate, err = parseDateFlag("due", due); err != nil {
				return err
			}

			if err := app.Tasks.Create(ctx, t, actorID); err != nil {
				return err
			}

			if parentID != "" {
				resolved, err := resolveTaskID(ctx, app, projectID, parentID)
				if err != nil {
					return err
				}
				if _, err := app.Hierarchy.SetParent(ctx, t.ID, &resolved, nil, actorID); err != nil {
					return err
				}
			}

			fmt.Printf("Created task %s (%s)\n", t.Title, t.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&statusID, "status", "", "Status ID")
	cmd.Flags().StringVar(&actorID, "actor", "", "Acting user ID")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low|medium|high|urgent)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent task ID")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "Estimated minutes")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("status")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Tasks.ListByProject(context.Background(), projectID)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}
			fmt.Print(formatter.FormatTaskList(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newTaskInspectCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "inspect ID",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.GetByID(ctx, taskID)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatTaskDetail(t))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var projectID, actorID, title, description, priority, start, due string
	var estimate int
	var clearStart, clearDue bool
	var expectVersion int64

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}

			var upd service.TaskUpdate
			if cmd.Flags().Changed("title") {
				upd.Title = &title
			}
			if cmd.Flags().Changed("description") {
				upd.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				upd.Priority = &p
			}
			if cmd.Flags().Changed("estimate") {
				upd.EstimatedMinutes = &estimate
			}
			if upd.StartDate, err = parseDateFlag("start", start); err != nil {
				return err
			}
			if upd.DueDate, err = parseDateFlag("due", due); err != nil {
				return err
			}
			upd.ClearStartDate = clearStart
			upd.ClearDueDate = clearDue

			t, err := app.Tasks.Update(ctx, taskID, upd, expectedOrNil(expectVersion), actorID)
			if err != nil {
				return err
			}
			fmt.Printf("Updated task %s, now at version %d\n", t.DisplayID(), t.RowVersion)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&actorID, "actor", "", "Acting user ID")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low|medium|high|urgent)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "Estimated minutes")
	cmd.Flags().BoolVar(&clearStart, "clear-start", false, "Unset the start date")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Unset the due date")
	expectVersionFlag(cmd.Flags(), &expectVersion)
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func newTaskAssignCmd(app *App) *cobra.Command {
	var projectID, actorID, userID string
	var expectVersion int64

	cmd := &cobra.Command{
		Use:   "assign ID",
		Short: "Assign a task to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Assign(ctx, taskID, userID, expectedOrNil(expectVersion), actorID)
			if err != nil {
				return err
			}
			fmt.Printf("Assigned task %s to %s\n", t.DisplayID(), userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&actorID, "actor", "", "Acting user ID")
	cmd.Flags().StringVar(&userID, "user", "", "Assignee user ID")
	expectVersionFlag(cmd.Flags(), &expectVersion)
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newTaskUnassignCmd(app *App) *cobra.Command {
	var projectID, actorID string
	var expectVersion int64

	cmd := &cobra.Command{
		Use:   "unassign ID",
		Short: "Clear a task's assignee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Unassign(ctx, taskID, expectedOrNil(expectVersion), actorID)
			if err != nil {
				return err
			}
			fmt.Printf("Unassigned task %s\n", t.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&actorID, "actor", "", "Acting user ID")
	expectVersionFlag(cmd.Flags(), &expectVersion)
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var projectID, actorID, statusID string
	var expectVersion int64

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Move a task to another status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.MoveStatus(ctx, taskID, statusID, expectedOrNil(expectVersion), actorID)
			if err != nil {
				return err
			}
			fmt.Printf("Moved task %s to status %s\n", t.DisplayID(), statusID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&actorID, "actor", "", "Acting user ID")
	cmd.Flags().StringVar(&statusID, "to", "", "Target status ID")
	expectVersionFlag(cmd.Flags(), &expectVersion)
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newTaskParentCmd(app *App) *cobra.Command {
	var projectID, actorID, parentID string
	var clear bool
	var expectVersion int64

	cmd := &cobra.Command{
		Use:   "parent ID",
		Short: "Reparent a task, or clear its parent with --clear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}

			var newParent *string
			if !clear {
				if parentID == "" {
					return fmt.Errorf("either --to or --clear is required")
				}
				resolved, err := resolveTaskID(ctx, app, projectID, parentID)
				if err != nil {
					return err
				}
				newParent = &resolved
			}

			t, err := app.Hierarchy.SetParent(ctx, taskID, newParent, expectedOrNil(expectVersion), actorID)
			if err != nil {
				return err
			}
			if newParent == nil {
				fmt.Printf("Cleared parent of task %s\n", t.DisplayID())
			} else {
				fmt.Printf("Task %s is now under %s\n", t.DisplayID(), *newParent)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&actorID, "actor", "", "Acting user ID")
	cmd.Flags().StringVar(&parentID, "to", "", "New parent task ID")
	cmd.Flags().BoolVar(&clear, "clear", false, "Make the task a root task")
	expectVersionFlag(cmd.Flags(), &expectVersion)
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func newTaskTreeCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "tree ID",
		Short: "Show a task and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			root, err := app.Tasks.GetByID(ctx, taskID)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatTaskTree(root, func(id string) []*domain.Task {
				children, err := app.Hierarchy.ListSubtasks(ctx, id)
				if err != nil {
					return nil
				}
				return children
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var projectID, actorID string

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a task and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			if err := app.Hierarchy.DeleteTask(ctx, taskID, actorID); err != nil {
				return err
			}
			fmt.Printf("Removed task %s and its subtree\n", taskID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&actorID, "actor", "", "Acting user ID")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}
