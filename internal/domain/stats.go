package domain

import "time"

// TaskTimeStats is the derived time summary of one assigned task. It is
// computed from the task's full session history on every request.
type TaskTimeStats struct {
	Status         *LogStatus
	TotalMinutes   int
	CompletionDate *time.Time
}

// Tag returns the display tag for the aggregated status, if any.
func (s TaskTimeStats) Tag() (StatusTag, bool) {
	if s.Status == nil {
		return "", false
	}
	return TagForLogStatus(*s.Status), true
}

// FoldSessions folds a task's rows into its stats. Row order does not
// matter. Dates are truncated to midnight in loc.
func FoldSessions(rows []*Session, now time.Time, loc *time.Location) TaskTimeStats {
	if len(rows) == 0 {
		return TaskTimeStats{}
	}
	if loc == nil {
		loc = time.UTC
	}

	var closedMin int
	var open *Session
	for _, r := range rows {
		if r.EndTime == nil {
			if open == nil || startsAfter(r, open) {
				open = r
			}
			continue
		}
		closedMin += r.Minutes()
	}

	if open != nil {
		status := LogInProgress
		return TaskTimeStats{
			Status:       &status,
			TotalMinutes: closedMin + WholeMinutes(open.StartTime, now),
		}
	}

	latest := rows[0]
	for _, r := range rows[1:] {
		if startsAfter(r, latest) {
			latest = r
		}
	}
	if latest.LogStatus == LogPaused {
		status := LogPaused
		return TaskTimeStats{Status: &status, TotalMinutes: closedMin}
	}

	var lastEnded *Session
	completed := false
	for _, r := range rows {
		if r.LogStatus == LogCompleted {
			completed = true
		}
		if lastEnded == nil || endsAfter(r, lastEnded) {
			lastEnded = r
		}
	}
	if completed {
		status := LogCompleted
		day := DateOf(*lastEnded.EndTime, loc)
		return TaskTimeStats{Status: &status, TotalMinutes: closedMin, CompletionDate: &day}
	}

	return TaskTimeStats{}
}

// DateOf returns midnight of t's calendar day in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func startsAfter(a, b *Session) bool {
	if a.StartTime.Equal(b.StartTime) {
		return a.ID > b.ID
	}
	return a.StartTime.After(b.StartTime)
}

// endsAfter only ranks closed rows; every row here is closed.
func endsAfter(a, b *Session) bool {
	if a.EndTime.Equal(*b.EndTime) {
		return a.ID > b.ID
	}
	return a.EndTime.After(*b.EndTime)
}
