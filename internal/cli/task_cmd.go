package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage assigned tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskStatsCmd(app),
		newTaskStatusCmd(app),
		newTaskOverrideCmd(app),
		newTaskDeactivateCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var in taskInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task and assign it to a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Title == "" && app.interactive() {
				if err := taskForm(&in).Run(); err != nil {
					return err
				}
			}
			task, assignment, err := in.build()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := app.Assignments.CreateTask(ctx, task); err != nil {
				return err
			}
			assignment.TaskID = task.ID
			if err := app.Assignments.Assign(ctx, assignment); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s, assigned as %s\n", task.ID, assignment.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&in.Planned, "planned", "", "Planned date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Client, "client", "", "Client ID")
	cmd.Flags().StringVar(&in.Executor, "executor", "", "Executor user ID (blank for unassigned)")

	return cmd
}

// taskInput is the raw text of a new task, from flags or the form.
type taskInput struct {
	Title    string
	Planned  string
	Client   string
	Executor string
}

func (in taskInput) build() (*domain.TaskTemplate, *domain.Assignment, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil, fmt.Errorf("task title is required")
	}
	client := strings.TrimSpace(in.Client)
	if client == "" {
		return nil, nil, fmt.Errorf("client is required")
	}
	if err := validateOptionalDate(in.Planned); err != nil {
		return nil, nil, fmt.Errorf("planned date: %w", err)
	}

	task := &domain.TaskTemplate{Title: title}
	if in.Planned != "" {
		d, _ := time.Parse("2006-01-02", in.Planned)
		task.PlannedDate = &d
	}
	a := &domain.Assignment{ClientID: client, IsActive: true}
	if exec := strings.TrimSpace(in.Executor); exec != "" {
		a.ExecutorID = &exec
	}
	return task, a, nil
}

func newTaskListCmd(app *App) *cobra.Command {
	var executor, userFlag string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assigned tasks with their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			list, err := app.Assignments.List(ctx, repository.AssignmentFilter{
				ExecutorID:      executor,
				IncludeInactive: all,
			})
			if err != nil {
				return err
			}

			var activeTaskID string
			if userID, err := app.resolveUser(userFlag); err == nil {
				if s, err := app.Sessions.ActiveSession(ctx, userID); err == nil && s != nil {
					activeTaskID = s.AssignedTaskID
				}
			}

			rows := make([]formatter.TaskRow, 0, len(list))
			for _, a := range list {
				rows = append(rows, formatter.TaskRow{
					Assignment: a,
					Status:     app.Status.ResolveStatusAsync(ctx, a, activeTaskID),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&executor, "executor", "", "Only tasks assigned to this user")
	addUserFlag(cmd.Flags(), &userFlag, "Viewing user, for the live-session status")
	cmd.Flags().BoolVar(&all, "all", false, "Include inactive assignments")

	return cmd
}

func newTaskStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <assigned-task-id>",
		Short: "Show time spent on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := app.Stats.ComputeTaskTimeStats(cmd.Context(), args[0])
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStats(args[0], stats))
			return nil
		},
	}
}

func newTaskStatusCmd(app *App) *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "status <assigned-task-id>",
		Short: "Show a task's display status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := app.resolveUser(userFlag)
			tag, err := app.Status.StatusOf(cmd.Context(), args[0], userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StatusIndicator(tag))
			return nil
		},
	}

	addUserFlag(cmd.Flags(), &userFlag, "Viewing user")

	return cmd
}

func newTaskOverrideCmd(app *App) *cobra.Command {
	var clearFlag bool

	cmd := &cobra.Command{
		Use:   "override <assigned-task-id> [status]",
		Short: "Set or clear a manual status",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := ""
			if len(args) == 2 {
				status = args[1]
			}
			if status == "" && !clearFlag {
				return fmt.Errorf("give a status or pass --clear")
			}
			if err := app.Assignments.SetOverride(cmd.Context(), args[0], status); err != nil {
				return err
			}
			if status == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared status override on %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set status of %s to %s\n", args[0], status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearFlag, "clear", false, "Remove the manual status")

	return cmd
}

func newTaskDeactivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <assigned-task-id>",
		Short: "Mark an assignment inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Assignments.Deactivate(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated %s\n", args[0])
			return nil
		},
	}
}
