package domain

import "time"

// NeedsStats reports whether ResolveStatus would consult stats for this
// assignment. Rules that win without session history are checked first.
func NeedsStats(a *Assignment, activeAssignedTaskID string) bool {
	if !a.IsActive {
		return false
	}
	if activeAssignedTaskID != "" && activeAssignedTaskID == a.ID {
		return false
	}
	_, manual := a.ManualStatus()
	return !manual
}

// ResolveStatus returns the display status of an assignment. It performs no
// I/O: stats must be supplied by the caller and may be nil. The first
// matching rule wins:
//
//  1. inactive assignment
//  2. the current user's live session is on this assignment
//  3. manual status override, verbatim
//  4. aggregated session status
//  5. no executor assigned
//  6. planned date before today and no completion date
//  7. not started
func ResolveStatus(a *Assignment, activeAssignedTaskID string, stats *TaskTimeStats, today time.Time) StatusTag {
	if !a.IsActive {
		return StatusInactive
	}
	if activeAssignedTaskID != "" && activeAssignedTaskID == a.ID {
		return StatusInProgress
	}
	if manual, ok := a.ManualStatus(); ok {
		return StatusTag(manual)
	}
	if stats != nil {
		if tag, ok := stats.Tag(); ok {
			return tag
		}
	}
	if !a.HasExecutor() {
		return StatusNoExecutor
	}
	if a.PlannedDate != nil && a.CompletionDate == nil {
		// Planned dates are calendar dates; compare them as such in today's
		// location instead of converting the stored instant.
		loc := today.Location()
		py, pm, pd := a.PlannedDate.Date()
		planned := time.Date(py, pm, pd, 0, 0, 0, 0, loc)
		if planned.Before(DateOf(today, loc)) {
			return StatusOverdue
		}
	}
	return StatusNotStarted
}
