package domain

import "time"

// TaskTemplate is the reusable task definition an assignment points at.
type TaskTemplate struct {
	ID          string
	Title       string
	PlannedDate *time.Time
	CreatedAt   time.Time
}

// Assignment is one assigned task instance. PlannedDate is copied from the
// linked template when the row is loaded, so callers never chase the
// template themselves.
type Assignment struct {
	ID                    string
	TaskID                string
	ClientID              string
	ExecutorID            *string
	IsActive              bool
	TaskStatus            *string
	CompletionDate        *time.Time
	CompletionTimeMinutes *int
	PlannedDate           *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// HasExecutor reports whether someone is assigned to do the work.
func (a *Assignment) HasExecutor() bool {
	return a.ExecutorID != nil && *a.ExecutorID != ""
}

// ManualStatus returns the override status, if one is set.
func (a *Assignment) ManualStatus() (string, bool) {
	if a.TaskStatus == nil || *a.TaskStatus == "" {
		return "", false
	}
	return *a.TaskStatus, true
}
