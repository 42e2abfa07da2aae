package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHumanDate(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", HumanDate(now.Add(-time.Hour), now))
	assert.Equal(t, "Yesterday", HumanDate(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Sep 30, 2022", HumanDate(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), now))
}

func TestHumanDate_UsesViewerLocation(t *testing.T) {
	sydney := time.FixedZone("AEST", 10*60*60)
	now := time.Date(2026, 2, 7, 8, 0, 0, 0, sydney)
	// 23:30 UTC on Feb 6 is already Feb 7 in Sydney.
	started := time.Date(2026, 2, 6, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "Today", HumanDate(started, now))
	assert.Equal(t, "Yesterday", HumanDate(started, now.In(time.UTC).Add(24*time.Hour)))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Just now", HumanTimestamp(now, now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "2h ago", HumanTimestamp(now.Add(-2*time.Hour), now))
	assert.Equal(t, "Feb 5, 2026", HumanTimestamp(now.Add(-48*time.Hour), now))
}

func TestStatusIndicator(t *testing.T) {
	tests := []struct {
		tag      domain.StatusTag
		contains string
	}{
		{domain.StatusInProgress, "In progress"},
		{domain.StatusPaused, "Paused"},
		{domain.StatusCompleted, "Completed"},
		{domain.StatusOverdue, "Overdue"},
		{domain.StatusNoExecutor, "No executor"},
		{domain.StatusNotStarted, "Not started"},
		{domain.StatusInactive, "Inactive"},
		{domain.StatusTag("waiting_parts"), "waiting_parts"},
	}
	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			assert.Contains(t, StatusIndicator(tt.tag), tt.contains)
		})
	}
	assert.Len(t, domain.AllStatusTags, 7, "every known tag needs a case above")
}

func TestTruncID(t *testing.T) {
	got := TruncID("a1b2c3d4-e5f6-7890-abcd-ef1234567890")
	assert.Contains(t, got, "a1b2c3d4")
	assert.NotContains(t, got, "e5f6")
	assert.Contains(t, TruncID("short"), "short")
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "0m"},
		{-5, "0m"},
		{45, "45m"},
		{60, "1h"},
		{150, "2h 30m"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMinutes(tt.input))
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatElapsed(-3))
	assert.Equal(t, "00:01:05", FormatElapsed(65))
	assert.Equal(t, "02:00:59", FormatElapsed(7259))
}

func TestRenderBox(t *testing.T) {
	result := RenderBox("Test", "content here")
	assert.Contains(t, result, "TEST")
	assert.Contains(t, result, "content here")
	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "╰")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{{"long value", "x"}, {"s"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[2], "long value  x")
	assert.Empty(t, RenderTable(nil, nil))
}

func TestFormatStats(t *testing.T) {
	status := domain.LogCompleted
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	out := FormatStats("as-1", domain.TaskTimeStats{Status: &status, TotalMinutes: 75, CompletionDate: &day})
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "1h 15m")
	assert.Contains(t, out, "2025-03-10")

	assert.Contains(t, FormatStats("as-2", domain.TaskTimeStats{}), "no sessions")
}

func TestFormatSessionList(t *testing.T) {
	assert.Contains(t, FormatSessionList(nil, time.UTC), "No time logged")

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Minute)
	minutes := 10
	action := domain.ActionPause
	out := FormatSessionList([]*domain.Session{{
		ID: "log-1", UserID: "u1", StartTime: start, EndTime: &end,
		LogStatus: domain.LogPaused, DurationMinutes: &minutes, Action: &action,
	}}, time.UTC)
	assert.Contains(t, out, "2025-03-10 09:00")
	assert.Contains(t, out, "10m")
	assert.Contains(t, out, "pause")
}
