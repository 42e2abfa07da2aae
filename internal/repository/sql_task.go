package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// SQLTaskRepo stores task templates.
type SQLTaskRepo struct {
	db db.DBTX
}

func NewSQLTaskRepo(conn db.DBTX) *SQLTaskRepo {
	return &SQLTaskRepo{db: conn}
}

func (r *SQLTaskRepo) Create(ctx context.Context, t *domain.TaskTemplate) error {
	query := `INSERT INTO tasks (id, title, planned_date, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		nullableTimeToString(t.PlannedDate, dateLayout),
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLTaskRepo) GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error) {
	query := `SELECT id, title, planned_date, created_at FROM tasks WHERE id = ?`
	var t domain.TaskTemplate
	var planned sql.NullString
	var createdStr string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Title, &planned, &createdStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	t.PlannedDate = parseNullableTime(planned, dateLayout)
	return &t, nil
}
