package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// SessionRepo is the session store: the task time log.
type SessionRepo interface {
	// Create inserts a row. It fails with ErrOpenSessionExists when the
	// user already has an open row.
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// LatestOpenByUser returns nil when the user has no open row.
	LatestOpenByUser(ctx context.Context, userID string) (*domain.Session, error)
	// LatestOpenByAssignedTask returns nil when the task has no open row.
	LatestOpenByAssignedTask(ctx context.Context, assignedTaskID string) (*domain.Session, error)
	// ListByAssignedTask returns all rows for a task, newest start first.
	ListByAssignedTask(ctx context.Context, assignedTaskID string) ([]*domain.Session, error)
	// Close persists a closed row. Only open rows are updated; a row that
	// is already closed fails with ErrAlreadyClosed.
	Close(ctx context.Context, s *domain.Session) error
}

// AssignmentFilter narrows List results.
type AssignmentFilter struct {
	ExecutorID      string
	IncludeInactive bool
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.Assignment) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	List(ctx context.Context, filter AssignmentFilter) ([]*domain.Assignment, error)
	SetTaskStatus(ctx context.Context, id string, status *string) error
	SetActive(ctx context.Context, id string, active bool) error
	RecordCompletion(ctx context.Context, id string, date time.Time, minutes int) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.TaskTemplate) error
	GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error)
}
