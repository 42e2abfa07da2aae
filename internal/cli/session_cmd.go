package cli

import (
	"fmt"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start, pause, resume and stop work sessions",
	}

	cmd.AddCommand(
		newSessionOpenCmd(app, "start", "Start a work session on a task", false),
		newSessionOpenCmd(app, "resume", "Resume work on a paused task", true),
		newSessionCloseCmd(app, "pause", "Pause the running session", false),
		newSessionCloseCmd(app, "stop", "Stop the running session and complete the task", true),
		newSessionActiveCmd(app),
		newSessionListCmd(app),
	)

	return cmd
}

func newSessionOpenCmd(app *App, use, short string, resume bool) *cobra.Command {
	var taskID, userFlag string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.resolveUser(userFlag)
			if err != nil {
				return err
			}
			open := app.Sessions.StartSession
			if resume {
				open = app.Sessions.ResumeSession
			}
			s, err := open(cmd.Context(), taskID, userID)
			if err != nil {
				return err
			}
			verb := "Started"
			if resume {
				verb = "Resumed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s session %s on task %s\n", verb, s.ID, s.AssignedTaskID)
			return nil
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "Assigned task ID")
	addUserFlag(cmd.Flags(), &userFlag, "User ID")
	_ = cmd.MarkFlagRequired("task")

	return cmd
}

// newSessionCloseCmd closes the given log, or the user's open session when
// no log ID is passed.
func newSessionCloseCmd(app *App, use, short string, stop bool) *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   use + " [log-id]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var logID string
			if len(args) == 1 {
				logID = args[0]
			} else {
				userID, err := app.resolveUser(userFlag)
				if err != nil {
					return err
				}
				s, err := app.Sessions.ActiveSession(ctx, userID)
				if err != nil {
					return err
				}
				if s == nil {
					return fmt.Errorf("user %s has no active session", userID)
				}
				logID = s.ID
			}

			closeFn := app.Sessions.PauseSession
			verb := "Paused"
			if stop {
				closeFn = app.Sessions.StopSession
				verb = "Stopped"
			}
			if err := closeFn(ctx, logID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s session %s\n", verb, logID)
			return nil
		},
	}

	addUserFlag(cmd.Flags(), &userFlag, "User whose open session to close")

	return cmd
}

func newSessionActiveCmd(app *App) *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "active",
		Short: "Show the user's running session",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.resolveUser(userFlag)
			if err != nil {
				return err
			}
			s, err := app.Sessions.ActiveSession(cmd.Context(), userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if s == nil {
				fmt.Fprintln(out, formatter.Dim("No active session."))
				return nil
			}
			fmt.Fprint(out, formatter.FormatSession(s, app.now().In(app.location())))
			return nil
		},
	}

	addUserFlag(cmd.Flags(), &userFlag, "User ID")

	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	var taskID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a task's time log",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Sessions.ListSessions(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList(rows, app.location()))
			return nil
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "Assigned task ID")
	_ = cmd.MarkFlagRequired("task")

	return cmd
}
