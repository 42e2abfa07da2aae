package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusIndicator renders a task status tag as a colored pill such as
// "● In progress". Tags outside the known set come from manual overrides
// and are shown verbatim.
func StatusIndicator(tag domain.StatusTag) string {
	switch tag {
	case domain.StatusInProgress:
		return StyleGreen.Render("● In progress")
	case domain.StatusPaused:
		return StyleYellow.Render("◐ Paused")
	case domain.StatusCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.StatusOverdue:
		return StyleRed.Render("▲ Overdue")
	case domain.StatusNoExecutor:
		return StylePurple.Render("? No executor")
	case domain.StatusNotStarted:
		return StyleBlue.Render("○ Not started")
	case domain.StatusInactive:
		return StyleDim.Render("✖ Inactive")
	default:
		return StyleFg.Render("◆ " + string(tag))
	}
}

// LogStatusPill renders a single time log row's status.
func LogStatusPill(s domain.LogStatus) string {
	switch s {
	case domain.LogInProgress:
		return StyleGreen.Render("● running")
	case domain.LogPaused:
		return StyleYellow.Render("◐ paused")
	case domain.LogCompleted:
		return StyleDim.Render("✔ completed")
	default:
		return StyleDim.Render(string(s))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
