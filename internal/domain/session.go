package domain

import "time"

// Session is one contiguous work interval recorded against an assigned task.
// Rows are created by start/resume and closed exactly once by pause/stop.
type Session struct {
	ID              string
	AssignedTaskID  string
	UserID          string
	StartTime       time.Time
	EndTime         *time.Time
	LogStatus       LogStatus
	DurationMinutes *int
	Action          *SessionAction
}

// IsOpen reports whether the row is the user's live session.
func (s *Session) IsOpen() bool {
	return s.EndTime == nil && s.LogStatus == LogInProgress
}

// Close fixes the row's end time and duration. The duration is computed
// once here and never recomputed.
func (s *Session) Close(end time.Time, status LogStatus, action SessionAction) error {
	if s.EndTime != nil {
		return ErrSessionClosed
	}
	minutes := WholeMinutes(s.StartTime, end)
	s.EndTime = &end
	s.LogStatus = status
	s.DurationMinutes = &minutes
	s.Action = &action
	return nil
}

// Minutes returns the stored duration, or 0 for rows that are still open.
func (s *Session) Minutes() int {
	if s.DurationMinutes == nil {
		return 0
	}
	return *s.DurationMinutes
}

// WholeMinutes returns floor((end-start)/60s), clamped at zero so a clock
// that stepped backwards never yields negative time.
func WholeMinutes(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// WholeSeconds returns floor((end-start)/1s), clamped at zero.
func WholeSeconds(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int(d / time.Second)
}
