package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

const sessionColumns = `id, assigned_task_id, user_id, start_time, end_time, log_status, duration_minutes, action`

// SQLSessionRepo implements SessionRepo on database/sql. Pass a DBTX that
// has been through db.Bind for non-SQLite drivers.
type SQLSessionRepo struct {
	db db.DBTX
}

// NewSQLSessionRepo creates a new SQLSessionRepo.
func NewSQLSessionRepo(conn db.DBTX) *SQLSessionRepo {
	return &SQLSessionRepo{db: conn}
}

func (r *SQLSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO task_time_logs (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.AssignedTaskID,
		s.UserID,
		formatTime(s.StartTime),
		nullableTimeToString(s.EndTime, time.RFC3339),
		string(s.LogStatus),
		nullableIntToValue(s.DurationMinutes),
		actionToValue(s.Action),
	)
	if err != nil {
		if isOpenSessionViolation(err) {
			return fmt.Errorf("inserting task time log: %w", ErrOpenSessionExists)
		}
		return fmt.Errorf("inserting task time log: %w", err)
	}
	return nil
}

func (r *SQLSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM task_time_logs WHERE id = ?`
	return r.scanSession(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLSessionRepo) LatestOpenByUser(ctx context.Context, userID string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM task_time_logs
		WHERE user_id = ? AND log_status = 'in_progress' AND end_time IS NULL
		ORDER BY start_time DESC, id DESC LIMIT 1`
	return r.optional(r.scanSession(r.db.QueryRowContext(ctx, query, userID)))
}

func (r *SQLSessionRepo) LatestOpenByAssignedTask(ctx context.Context, assignedTaskID string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM task_time_logs
		WHERE assigned_task_id = ? AND log_status = 'in_progress' AND end_time IS NULL
		ORDER BY start_time DESC, id DESC LIMIT 1`
	return r.optional(r.scanSession(r.db.QueryRowContext(ctx, query, assignedTaskID)))
}

func (r *SQLSessionRepo) ListByAssignedTask(ctx context.Context, assignedTaskID string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM task_time_logs
		WHERE assigned_task_id = ? ORDER BY start_time DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, assignedTaskID)
	if err != nil {
		return nil, fmt.Errorf("listing task time logs by assigned task: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLSessionRepo) Close(ctx context.Context, s *domain.Session) error {
	if s.EndTime == nil {
		return fmt.Errorf("closing task time log %s: end time is not set", s.ID)
	}
	query := `UPDATE task_time_logs SET end_time = ?, log_status = ?, duration_minutes = ?, action = ?
		WHERE id = ? AND end_time IS NULL`
	res, err := r.db.ExecContext(ctx, query,
		formatTime(*s.EndTime),
		string(s.LogStatus),
		nullableIntToValue(s.DurationMinutes),
		actionToValue(s.Action),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("closing task time log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("closing task time log: %w", err)
	}
	if n == 0 {
		// Either the row is gone or another writer closed it first.
		if _, getErr := r.GetByID(ctx, s.ID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("task time log %s: %w", s.ID, ErrAlreadyClosed)
	}
	return nil
}

// optional turns a not-found lookup into a nil row.
func (r *SQLSessionRepo) optional(s *domain.Session, err error) (*domain.Session, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return s, err
}

// scanSession scans a single session from a *sql.Row.
func (r *SQLSessionRepo) scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	var startStr, status string
	var endStr, action sql.NullString
	var minutes sql.NullInt64

	err := row.Scan(&s.ID, &s.AssignedTaskID, &s.UserID, &startStr, &endStr, &status, &minutes, &action)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task time log: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task time log: %w", err)
	}
	return r.populateSession(&s, startStr, endStr, status, minutes, action)
}

// scanSessions scans multiple sessions from *sql.Rows.
func (r *SQLSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		var s domain.Session
		var startStr, status string
		var endStr, action sql.NullString
		var minutes sql.NullInt64

		if err := rows.Scan(&s.ID, &s.AssignedTaskID, &s.UserID, &startStr, &endStr, &status, &minutes, &action); err != nil {
			return nil, fmt.Errorf("scanning task time log row: %w", err)
		}
		session, err := r.populateSession(&s, startStr, endStr, status, minutes, action)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task time logs: %w", err)
	}
	return sessions, nil
}

// populateSession fills in parsed fields after scanning raw columns.
func (r *SQLSessionRepo) populateSession(
	s *domain.Session,
	startStr string,
	endStr sql.NullString,
	status string,
	minutes sql.NullInt64,
	action sql.NullString,
) (*domain.Session, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time: %w", err)
	}
	s.StartTime = start
	if endStr.Valid {
		end, err := time.Parse(time.RFC3339, endStr.String)
		if err != nil {
			return nil, fmt.Errorf("parsing end_time: %w", err)
		}
		s.EndTime = &end
	}
	s.LogStatus = domain.LogStatus(status)
	s.DurationMinutes = nullableInt(minutes)
	if action.Valid {
		a := domain.SessionAction(action.String)
		s.Action = &a
	}
	return s, nil
}

func actionToValue(a *domain.SessionAction) interface{} {
	if a == nil {
		return nil
	}
	return string(*a)
}
