package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func closedRow(id string, start time.Time, d time.Duration, status LogStatus) *Session {
	s := &Session{ID: id, AssignedTaskID: "task", UserID: "u1", StartTime: start, LogStatus: LogInProgress}
	action := ActionPause
	if status == LogCompleted {
		action = ActionStop
	}
	if err := s.Close(start.Add(d), status, action); err != nil {
		panic(err)
	}
	return s
}

func openRow(id string, start time.Time) *Session {
	return &Session{ID: id, AssignedTaskID: "task", UserID: "u1", StartTime: start, LogStatus: LogInProgress}
}

func TestFoldSessions_NoRows(t *testing.T) {
	stats := FoldSessions(nil, t0, time.UTC)
	assert.Nil(t, stats.Status)
	assert.Equal(t, 0, stats.TotalMinutes)
	assert.Nil(t, stats.CompletionDate)
}

func TestFoldSessions_OpenRowAddsLiveMinutes(t *testing.T) {
	rows := []*Session{
		closedRow("a", t0, 10*time.Minute, LogPaused),
		openRow("b", t0.Add(20*time.Minute)),
	}
	now := t0.Add(20*time.Minute + 7*time.Minute + 59*time.Second)

	stats := FoldSessions(rows, now, time.UTC)
	require.NotNil(t, stats.Status)
	assert.Equal(t, LogInProgress, *stats.Status)
	assert.Equal(t, 17, stats.TotalMinutes, "10 closed + floor(7m59s)")
	assert.Nil(t, stats.CompletionDate)
}

func TestFoldSessions_LatestPaused(t *testing.T) {
	rows := []*Session{
		closedRow("a", t0, 10*time.Minute, LogPaused),
	}
	stats := FoldSessions(rows, t0.Add(time.Hour), time.UTC)
	require.NotNil(t, stats.Status)
	assert.Equal(t, LogPaused, *stats.Status)
	assert.Equal(t, 10, stats.TotalMinutes)
	assert.Nil(t, stats.CompletionDate)
}

func TestFoldSessions_PausedAfterCompletedWins(t *testing.T) {
	// A task reopened after completion and paused again reads as paused.
	rows := []*Session{
		closedRow("a", t0, 30*time.Minute, LogCompleted),
		closedRow("b", t0.AddDate(0, 0, 1), 15*time.Minute, LogPaused),
	}
	stats := FoldSessions(rows, t0.AddDate(0, 0, 2), time.UTC)
	require.NotNil(t, stats.Status)
	assert.Equal(t, LogPaused, *stats.Status)
	assert.Equal(t, 45, stats.TotalMinutes)
}

func TestFoldSessions_CompletedUsesLatestEndDate(t *testing.T) {
	day2 := t0.AddDate(0, 0, 1)
	rows := []*Session{
		closedRow("b", day2, 5*time.Minute, LogCompleted),
		closedRow("a", t0, 10*time.Minute, LogPaused),
	}
	stats := FoldSessions(rows, day2.Add(time.Hour), time.UTC)
	require.NotNil(t, stats.Status)
	assert.Equal(t, LogCompleted, *stats.Status)
	assert.Equal(t, 15, stats.TotalMinutes)
	require.NotNil(t, stats.CompletionDate)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), *stats.CompletionDate)
}

func TestFoldSessions_StartTieBrokenByIDDescending(t *testing.T) {
	rows := []*Session{
		closedRow("b", t0, 5*time.Minute, LogPaused),
		closedRow("a", t0, 5*time.Minute, LogCompleted),
	}
	stats := FoldSessions(rows, t0.Add(time.Hour), time.UTC)
	require.NotNil(t, stats.Status)
	assert.Equal(t, LogPaused, *stats.Status, "row b ranks latest on an equal start time")
}

func TestFoldSessions_CompletionDateInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	start := time.Date(2025, 6, 15, 21, 0, 0, 0, time.UTC) // 02:00 on the 16th at UTC+5
	rows := []*Session{closedRow("a", start, 5*time.Minute, LogCompleted)}

	stats := FoldSessions(rows, start.Add(time.Hour), loc)
	require.NotNil(t, stats.CompletionDate)
	assert.Equal(t, 16, stats.CompletionDate.Day())
}

func TestFoldSessions_Idempotent(t *testing.T) {
	rows := []*Session{
		closedRow("a", t0, 10*time.Minute, LogPaused),
		openRow("b", t0.Add(20*time.Minute)),
	}
	now := t0.Add(time.Hour)
	assert.Equal(t, FoldSessions(rows, now, time.UTC), FoldSessions(rows, now, time.UTC))
}

func TestFoldSessions_Additivity(t *testing.T) {
	durations := []time.Duration{
		10 * time.Minute,
		5*time.Minute + 30*time.Second,
		59 * time.Second,
		2*time.Hour + 1*time.Minute,
	}
	var rows []*Session
	var want int
	start := t0
	for i, d := range durations {
		status := LogPaused
		if i == len(durations)-1 {
			status = LogCompleted
		}
		rows = append(rows, closedRow(string(rune('a'+i)), start, d, status))
		want += int(d / time.Minute)
		start = start.Add(d + 15*time.Minute)
	}

	stats := FoldSessions(rows, start, time.UTC)
	assert.Equal(t, want, stats.TotalMinutes)
}

func TestSession_CloseIsFinal(t *testing.T) {
	s := openRow("a", t0)
	require.NoError(t, s.Close(t0.Add(10*time.Minute), LogPaused, ActionPause))
	assert.Equal(t, 10, s.Minutes())
	assert.False(t, s.IsOpen())

	err := s.Close(t0.Add(20*time.Minute), LogCompleted, ActionStop)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Equal(t, 10, s.Minutes(), "duration is fixed at first close")
	assert.Equal(t, LogPaused, s.LogStatus)
}

func TestWholeMinutes_ClampsNegative(t *testing.T) {
	assert.Equal(t, 0, WholeMinutes(t0, t0.Add(-time.Minute)))
	assert.Equal(t, 0, WholeSeconds(t0, t0.Add(-time.Second)))
	assert.Equal(t, 1, WholeMinutes(t0, t0.Add(119*time.Second)))
}
