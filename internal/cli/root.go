package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/tempo/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds the services and settings CLI commands run against.
type App struct {
	Sessions    service.SessionController
	Stats       service.Aggregator
	Status      service.StatusResolver
	Assignments service.AssignmentService
	Hub         *service.SessionHub

	// User is the default user for session commands (TEMPO_USER).
	User     string
	HTTPAddr string
	Location *time.Location
	Logger   *slog.Logger

	Now           func() time.Time
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// resolveUser returns the flag value, falling back to the configured user.
func (a *App) resolveUser(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if a.User != "" {
		return a.User, nil
	}
	return "", fmt.Errorf("no user given: pass --user or set TEMPO_USER")
}

// addUserFlag registers the --user flag shared by session-scoped commands.
func addUserFlag(fs *pflag.FlagSet, p *string, usage string) {
	fs.StringVar(p, "user", "", usage+" (default TEMPO_USER)")
}

// NewRootCmd creates the top-level "tempo" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tempo",
		Short:         "Task time tracking for field workers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSessionCmd(app),
		newTaskCmd(app),
		newWatchCmd(app),
		newServeCmd(app),
	)

	return root
}
