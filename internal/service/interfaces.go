package service

import (
	"context"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
)

// SessionController owns session writes and the one-open-session-per-user
// rule.
type SessionController interface {
	StartSession(ctx context.Context, assignedTaskID, userID string) (*domain.Session, error)
	PauseSession(ctx context.Context, logID string) error
	ResumeSession(ctx context.Context, assignedTaskID, userID string) (*domain.Session, error)
	StopSession(ctx context.Context, logID string) error
	// ActiveSession returns nil when the user has no open session.
	ActiveSession(ctx context.Context, userID string) (*domain.Session, error)
	// ActiveSessionForTask returns nil when the task has no open session.
	ActiveSessionForTask(ctx context.Context, assignedTaskID string) (*domain.Session, error)
	ListSessions(ctx context.Context, assignedTaskID string) ([]*domain.Session, error)
}

// Aggregator derives time stats from a task's session history. It never
// fails: read errors are logged and yield zero stats.
type Aggregator interface {
	ComputeTaskTimeStats(ctx context.Context, assignedTaskID string) domain.TaskTimeStats
}

type StatusResolver interface {
	// ResolveStatus applies the precedence rules to the given inputs
	// without touching the store.
	ResolveStatus(a *domain.Assignment, activeAssignedTaskID string, stats *domain.TaskTimeStats) domain.StatusTag
	// ResolveStatusAsync computes stats only when the earlier rules do not
	// decide the status.
	ResolveStatusAsync(ctx context.Context, a *domain.Assignment, activeAssignedTaskID string) domain.StatusTag
	// StatusOf loads the assignment and the user's open session, then
	// resolves.
	StatusOf(ctx context.Context, assignedTaskID, userID string) (domain.StatusTag, error)
}

// AssignmentService manages the assignment facts the resolver reads.
type AssignmentService interface {
	CreateTask(ctx context.Context, t *domain.TaskTemplate) error
	Assign(ctx context.Context, a *domain.Assignment) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	List(ctx context.Context, filter repository.AssignmentFilter) ([]*domain.Assignment, error)
	// SetOverride sets the manual status; an empty status clears it.
	SetOverride(ctx context.Context, id, status string) error
	Deactivate(ctx context.Context, id string) error
}
