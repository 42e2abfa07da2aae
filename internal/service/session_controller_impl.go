package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/google/uuid"
)

type sessionController struct {
	sessions    repository.SessionRepo
	assignments repository.AssignmentRepo
	uow         db.UnitOfWork
	opts        options
}

func NewSessionController(sessions repository.SessionRepo, assignments repository.AssignmentRepo, uow db.UnitOfWork, opts ...Option) SessionController {
	return &sessionController{
		sessions:    sessions,
		assignments: assignments,
		uow:         uow,
		opts:        applyOptions(opts),
	}
}

func (c *sessionController) StartSession(ctx context.Context, assignedTaskID, userID string) (*domain.Session, error) {
	return c.open(ctx, "session.start", assignedTaskID, userID, domain.ActionStart)
}

func (c *sessionController) ResumeSession(ctx context.Context, assignedTaskID, userID string) (*domain.Session, error) {
	return c.open(ctx, "session.resume", assignedTaskID, userID, domain.ActionResume)
}

func (c *sessionController) PauseSession(ctx context.Context, logID string) error {
	return c.close(ctx, "session.pause", logID, domain.LogPaused, domain.ActionPause)
}

func (c *sessionController) StopSession(ctx context.Context, logID string) error {
	return c.close(ctx, "session.stop", logID, domain.LogCompleted, domain.ActionStop)
}

func (c *sessionController) ActiveSession(ctx context.Context, userID string) (*domain.Session, error) {
	s, err := c.sessions.LatestOpenByUser(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "loading active session", Err: err}
	}
	return s, nil
}

func (c *sessionController) ActiveSessionForTask(ctx context.Context, assignedTaskID string) (*domain.Session, error) {
	s, err := c.sessions.LatestOpenByAssignedTask(ctx, assignedTaskID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "loading active task session", Err: err}
	}
	return s, nil
}

func (c *sessionController) ListSessions(ctx context.Context, assignedTaskID string) ([]*domain.Session, error) {
	rows, err := c.sessions.ListByAssignedTask(ctx, assignedTaskID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "listing task sessions", Err: err}
	}
	return rows, nil
}

// open inserts a new in-progress row after checking the user holds none.
// The check is advisory; the open-session index settles races.
func (c *sessionController) open(ctx context.Context, name, assignedTaskID, userID string, action domain.SessionAction) (session *domain.Session, err error) {
	uc := c.opts.begin(name, map[string]any{"assigned_task_id": assignedTaskID, "user_id": userID})
	defer func() {
		if session != nil {
			uc.set("log_id", session.ID)
		}
		uc.finish(ctx, err)
	}()

	if _, err := c.assignments.GetByID(ctx, assignedTaskID); err != nil {
		return nil, mapLookupErr(err, "assigned task", assignedTaskID)
	}

	existing, err := c.sessions.LatestOpenByUser(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "checking active session", Err: err}
	}
	if existing != nil {
		return nil, &domain.AlreadyActiveError{UserID: userID, ActiveLogID: existing.ID}
	}

	s := &domain.Session{
		ID:             uuid.New().String(),
		AssignedTaskID: assignedTaskID,
		UserID:         userID,
		StartTime:      c.opts.clock(),
		LogStatus:      domain.LogInProgress,
		Action:         &action,
	}
	if err := c.sessions.Create(ctx, s); err != nil {
		if errors.Is(err, repository.ErrOpenSessionExists) {
			return nil, &domain.AlreadyActiveError{UserID: userID}
		}
		return nil, &domain.PersistenceError{Op: "creating session", Err: err}
	}

	c.opts.hub.Publish(SessionEvent{Action: action, Session: *s})
	return s, nil
}

// close ends an open row. Stopping also records the assignment's completion
// facts in the same transaction.
func (c *sessionController) close(ctx context.Context, name, logID string, status domain.LogStatus, action domain.SessionAction) (err error) {
	uc := c.opts.begin(name, map[string]any{"log_id": logID})
	defer func() { uc.finish(ctx, err) }()

	s, err := c.sessions.GetByID(ctx, logID)
	if err != nil {
		return mapLookupErr(err, "task time log", logID)
	}
	uc.set("assigned_task_id", s.AssignedTaskID)

	now := c.opts.clock()
	if err := s.Close(now, status, action); err != nil {
		return err
	}
	uc.set("duration_minutes", s.Minutes())

	err = c.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLSessionRepo(tx)
		if err := txSessions.Close(ctx, s); err != nil {
			return err
		}
		if status != domain.LogCompleted {
			return nil
		}

		rows, err := txSessions.ListByAssignedTask(ctx, s.AssignedTaskID)
		if err != nil {
			return err
		}
		total := 0
		for _, r := range rows {
			total += r.Minutes()
		}
		return repository.NewSQLAssignmentRepo(tx).RecordCompletion(ctx, s.AssignedTaskID, domain.DateOf(now, c.opts.loc), total)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyClosed):
			return domain.ErrSessionClosed
		case errors.Is(err, repository.ErrNotFound):
			return &domain.NotFoundError{Entity: "task time log", ID: logID}
		}
		return &domain.PersistenceError{Op: "closing session", Err: err}
	}

	c.opts.hub.Publish(SessionEvent{Action: action, Session: *s})
	return nil
}
