package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// assignmentSelect joins the task template so PlannedDate arrives already
// flattened onto the assignment.
const assignmentSelect = `SELECT a.id, a.task_id, a.client_id, a.executor_id, a.is_active, a.task_status,
		a.completion_date, a.completion_time_minutes, a.created_at, a.updated_at, t.planned_date
	FROM assigned_tasks a
	JOIN tasks t ON t.id = a.task_id`

// SQLAssignmentRepo implements AssignmentRepo on database/sql.
type SQLAssignmentRepo struct {
	db db.DBTX
}

// NewSQLAssignmentRepo creates a new SQLAssignmentRepo.
func NewSQLAssignmentRepo(conn db.DBTX) *SQLAssignmentRepo {
	return &SQLAssignmentRepo{db: conn}
}

func (r *SQLAssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	query := `INSERT INTO assigned_tasks (id, task_id, client_id, executor_id, is_active, task_status,
		completion_date, completion_time_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.TaskID,
		a.ClientID,
		nullableStringToValue(a.ExecutorID),
		boolToInt(a.IsActive),
		nullableStringToValue(a.TaskStatus),
		nullableTimeToString(a.CompletionDate, dateLayout),
		nullableIntToValue(a.CompletionTimeMinutes),
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting assigned task: %w", err)
	}
	return nil
}

func (r *SQLAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	row := r.db.QueryRowContext(ctx, assignmentSelect+` WHERE a.id = ?`, id)

	a, err := scanAssignment(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assigned task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning assigned task: %w", err)
	}
	return a, nil
}

func (r *SQLAssignmentRepo) List(ctx context.Context, filter AssignmentFilter) ([]*domain.Assignment, error) {
	query := assignmentSelect + ` WHERE 1 = 1`
	var args []any
	if filter.ExecutorID != "" {
		query += ` AND a.executor_id = ?`
		args = append(args, filter.ExecutorID)
	}
	if !filter.IncludeInactive {
		query += ` AND a.is_active = 1`
	}
	query += ` ORDER BY t.planned_date IS NULL, t.planned_date, a.created_at, a.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assigned tasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning assigned task row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assigned tasks: %w", err)
	}
	return out, nil
}

func (r *SQLAssignmentRepo) SetTaskStatus(ctx context.Context, id string, status *string) error {
	query := `UPDATE assigned_tasks SET task_status = ?, updated_at = ? WHERE id = ?`
	return r.update(ctx, "setting assigned task status", query, nullableStringToValue(status), nowUTC(), id)
}

func (r *SQLAssignmentRepo) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE assigned_tasks SET is_active = ?, updated_at = ? WHERE id = ?`
	return r.update(ctx, "setting assigned task active flag", query, boolToInt(active), nowUTC(), id)
}

func (r *SQLAssignmentRepo) RecordCompletion(ctx context.Context, id string, date time.Time, minutes int) error {
	query := `UPDATE assigned_tasks SET completion_date = ?, completion_time_minutes = ?, updated_at = ?
		WHERE id = ?`
	return r.update(ctx, "recording assigned task completion", query, date.Format(dateLayout), minutes, nowUTC(), id)
}

func (r *SQLAssignmentRepo) update(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("assigned task: %w", ErrNotFound)
	}
	return nil
}

// scanAssignment reads one joined assignment row through the given scan func,
// which is either (*sql.Row).Scan or (*sql.Rows).Scan.
func scanAssignment(scan func(dest ...any) error) (*domain.Assignment, error) {
	var a domain.Assignment
	var executor, status, completion, planned sql.NullString
	var minutes sql.NullInt64
	var active int
	var createdStr, updatedStr string

	if err := scan(&a.ID, &a.TaskID, &a.ClientID, &executor, &active, &status,
		&completion, &minutes, &createdStr, &updatedStr, &planned); err != nil {
		return nil, err
	}

	var err error
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	a.ExecutorID = nullableString(executor)
	a.IsActive = intToBool(active)
	a.TaskStatus = nullableString(status)
	a.CompletionDate = parseNullableTime(completion, dateLayout)
	a.CompletionTimeMinutes = nullableInt(minutes)
	a.PlannedDate = parseNullableTime(planned, dateLayout)
	return &a, nil
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return formatTime(time.Now())
}
