package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func tempoHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// taskForm collects a new task interactively, prefilled from any flags.
func taskForm(in *taskInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&in.Title).
				Validate(validateRequired("title")),
			huh.NewInput().
				Title("Client").
				Value(&in.Client).
				Validate(validateRequired("client")),
			huh.NewInput().
				Title("Executor (blank for unassigned)").
				Value(&in.Executor),
			huh.NewInput().
				Title("Planned date (YYYY-MM-DD, blank for none)").
				Placeholder("2025-06-30").
				Value(&in.Planned).
				Validate(validateOptionalDate),
		),
	).WithTheme(tempoHuhTheme()).WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
