package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title == "" {
		return boxStyle.Render(content)
	}
	return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// HumanDate names t's calendar day as seen from now's location: "Today",
// "Yesterday", or the date itself.
func HumanDate(t, now time.Time) string {
	day := t.In(now.Location())
	switch {
	case sameDay(day, now):
		return "Today"
	case sameDay(day, now.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	return day.Format("Jan 2, 2006")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// HumanTimestamp describes how long ago a session started. Anything older
// than a day, or in the future, falls back to HumanDate.
func HumanTimestamp(t, now time.Time) string {
	ago := now.Sub(t)
	if ago < 0 || ago >= 24*time.Hour {
		return HumanDate(t, now)
	}
	if ago < time.Minute {
		return "Just now"
	}
	if ago < time.Hour {
		return fmt.Sprintf("%dm ago", int(ago/time.Minute))
	}
	return fmt.Sprintf("%dh ago", int(ago/time.Hour))
}

// TruncID dims a row ID, shortened to its first 8 characters.
func TruncID(id string) string {
	return StyleDim.Render(id[:min(len(id), 8)])
}

// FormatMinutes renders a duration in whole minutes as "2h 5m", "2h" or "5m".
func FormatMinutes(minutes int) string {
	minutes = max(minutes, 0)
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatElapsed renders whole seconds as a stopwatch, HH:MM:SS.
func FormatElapsed(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
