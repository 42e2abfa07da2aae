package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/liveclock"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// watchReloadEvery bounds how long the view can show a session that another
// process has already closed.
const watchReloadEvery = 5 * time.Second

func newWatchCmd(app *App) *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the running session with a live clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.resolveUser(userFlag)
			if err != nil {
				return err
			}

			var events liveclock.EventSource
			if app.Hub != nil {
				events = app.Hub
			}
			tracker := liveclock.New(app.Sessions, events,
				liveclock.WithNow(app.now),
				liveclock.WithLogger(app.logger()),
				liveclock.WithReloadEvery(watchReloadEvery),
			)
			defer tracker.Close()

			ticks := make(chan liveclock.Tick, 1)
			unsubscribe := tracker.Subscribe(func(t liveclock.Tick) {
				// Keep only the newest tick when the view falls behind.
				select {
				case ticks <- t:
				default:
					select {
					case <-ticks:
					default:
					}
					select {
					case ticks <- t:
					default:
					}
				}
			})
			defer unsubscribe()

			if err := tracker.Open(cmd.Context(), userID); err != nil {
				return err
			}

			// Plain output when not attached to a terminal.
			if !app.interactive() {
				fmt.Fprintln(cmd.OutOrStdout(), renderClock(tracker.Snapshot(), app.location()))
				return nil
			}

			m := newWatchModel(tracker, app.Sessions, userID, ticks, app.location())
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	addUserFlag(cmd.Flags(), &userFlag, "User to watch")

	return cmd
}

type watchKeyMap struct {
	Pause   key.Binding
	Stop    key.Binding
	Resume  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Stop, k.Resume, k.Refresh, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultWatchKeys() watchKeyMap {
	return watchKeyMap{
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Stop:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Resume:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "resume")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type tickMsg liveclock.Tick

type reloadedMsg struct{ err error }

// actionDoneMsg reports a pause, stop or resume issued from the view. The
// clock has already been reloaded when it arrives.
type actionDoneMsg struct {
	verb string
	err  error
}

var pastTense = map[string]string{"pause": "paused", "stop": "stopped", "resume": "resumed"}

// reloader is the part of the tracker the view drives.
type reloader interface {
	Reload(ctx context.Context) error
	Snapshot() liveclock.Tick
}

// sessionActions is the part of the session controller the view drives.
type sessionActions interface {
	PauseSession(ctx context.Context, logID string) error
	StopSession(ctx context.Context, logID string) error
	ResumeSession(ctx context.Context, assignedTaskID, userID string) (*domain.Session, error)
}

type watchModel struct {
	clock   reloader
	actions sessionActions
	userID  string
	ticks   <-chan liveclock.Tick
	loc     *time.Location
	keys    watchKeyMap
	help    help.Model

	tick liveclock.Tick
	// lastTaskID is the task of the most recent session seen, the target
	// of resume.
	lastTaskID string
	notice     string
	err        error
}

func newWatchModel(clock reloader, actions sessionActions, userID string, ticks <-chan liveclock.Tick, loc *time.Location) watchModel {
	m := watchModel{
		clock:   clock,
		actions: actions,
		userID:  userID,
		ticks:   ticks,
		loc:     loc,
		keys:    defaultWatchKeys(),
		help:    help.New(),
	}
	m.setTick(clock.Snapshot())
	return m
}

func (m *watchModel) setTick(t liveclock.Tick) {
	m.tick = t
	if t.Session != nil {
		m.lastTaskID = t.Session.AssignedTaskID
	}
}

// act runs a session write and then reloads the clock so the view does not
// wait for the event round trip.
func (m watchModel) act(verb string, write func(ctx context.Context) error) tea.Cmd {
	clock := m.clock
	return func() tea.Msg {
		ctx := context.Background()
		if err := write(ctx); err != nil {
			return actionDoneMsg{verb: verb, err: err}
		}
		_ = clock.Reload(ctx)
		return actionDoneMsg{verb: verb}
	}
}

func (m watchModel) closeCmd(verb string, closeFn func(ctx context.Context, logID string) error) (tea.Model, tea.Cmd) {
	if !m.tick.Running() {
		m.notice = ""
		m.err = fmt.Errorf("no running session to %s", verb)
		return m, nil
	}
	logID := m.tick.Session.ID
	return m, m.act(verb, func(ctx context.Context) error { return closeFn(ctx, logID) })
}

func waitForTick(ticks <-chan liveclock.Tick) tea.Cmd {
	return func() tea.Msg {
		t, ok := <-ticks
		if !ok {
			return nil
		}
		return tickMsg(t)
	}
}

func (m watchModel) Init() tea.Cmd {
	return waitForTick(m.ticks)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.setTick(liveclock.Tick(msg))
		return m, waitForTick(m.ticks)
	case reloadedMsg:
		m.err, m.notice = nil, ""
		if msg.err != nil {
			m.err = fmt.Errorf("reload failed: %w", msg.err)
		} else {
			m.setTick(m.clock.Snapshot())
		}
		return m, nil
	case actionDoneMsg:
		m.err, m.notice = msg.err, ""
		if msg.err == nil {
			m.notice = "Session " + pastTense[msg.verb] + "."
			m.setTick(m.clock.Snapshot())
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			return m.closeCmd("pause", m.actions.PauseSession)
		case key.Matches(msg, m.keys.Stop):
			return m.closeCmd("stop", m.actions.StopSession)
		case key.Matches(msg, m.keys.Resume):
			if m.lastTaskID == "" {
				m.notice = ""
				m.err = fmt.Errorf("no earlier session to resume")
				return m, nil
			}
			taskID, userID, actions := m.lastTaskID, m.userID, m.actions
			return m, m.act("resume", func(ctx context.Context) error {
				_, err := actions.ResumeSession(ctx, taskID, userID)
				return err
			})
		case key.Matches(msg, m.keys.Refresh):
			clock := m.clock
			return m, func() tea.Msg {
				return reloadedMsg{err: clock.Reload(context.Background())}
			}
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(renderClock(m.tick, m.loc))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render(m.err.Error()) + "\n")
	} else if m.notice != "" {
		b.WriteString(formatter.Dim(m.notice) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderClock(t liveclock.Tick, loc *time.Location) string {
	if !t.Running() {
		return formatter.RenderBox("Live clock", formatter.Dim(fmt.Sprintf("No active session for %s.", t.UserID)))
	}
	s := t.Session
	body := fmt.Sprintf("%s\n\n%s  %s\n%s  %s\n%s  %s",
		formatter.StyleBold.Render(formatter.FormatElapsed(t.Elapsed)),
		formatter.Dim("Task: "), s.AssignedTaskID,
		formatter.Dim("Since:"), s.StartTime.In(loc).Format("15:04:05"),
		formatter.Dim("Log:  "), s.ID,
	)
	return formatter.RenderBox("Live clock", body)
}
