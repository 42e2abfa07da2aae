package testutil

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/google/uuid"
)

// Task template options
type TaskOption func(*domain.TaskTemplate)

func WithPlannedDate(d time.Time) TaskOption {
	return func(t *domain.TaskTemplate) {
		t.PlannedDate = &d
	}
}

func NewTestTask(title string, opts ...TaskOption) *domain.TaskTemplate {
	t := &domain.TaskTemplate{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Assignment options
type AssignmentOption func(*domain.Assignment)

func WithExecutor(userID string) AssignmentOption {
	return func(a *domain.Assignment) {
		a.ExecutorID = &userID
	}
}

func WithoutExecutor() AssignmentOption {
	return func(a *domain.Assignment) {
		a.ExecutorID = nil
	}
}

func WithInactive() AssignmentOption {
	return func(a *domain.Assignment) {
		a.IsActive = false
	}
}

func WithTaskStatus(s string) AssignmentOption {
	return func(a *domain.Assignment) {
		a.TaskStatus = &s
	}
}

func WithCompletionDate(d time.Time) AssignmentOption {
	return func(a *domain.Assignment) {
		a.CompletionDate = &d
	}
}

func NewTestAssignment(taskID string, opts ...AssignmentOption) *domain.Assignment {
	now := time.Now().UTC()
	executor := "worker-1"
	a := &domain.Assignment{
		ID:         uuid.New().String(),
		TaskID:     taskID,
		ClientID:   "client-1",
		ExecutorID: &executor,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Session options
type SessionOption func(*domain.Session)

func WithStartTime(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.StartTime = t
	}
}

// WithClosed closes the row after d with the given status.
func WithClosed(d time.Duration, status domain.LogStatus) SessionOption {
	return func(s *domain.Session) {
		action := domain.ActionPause
		if status == domain.LogCompleted {
			action = domain.ActionStop
		}
		_ = s.Close(s.StartTime.Add(d), status, action)
	}
}

func NewTestSession(assignedTaskID, userID string, opts ...SessionOption) *domain.Session {
	action := domain.ActionStart
	s := &domain.Session{
		ID:             uuid.New().String(),
		AssignedTaskID: assignedTaskID,
		UserID:         userID,
		StartTime:      time.Now().UTC().Truncate(time.Second),
		LogStatus:      domain.LogInProgress,
		Action:         &action,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
