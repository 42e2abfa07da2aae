package service

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/google/uuid"
)

type assignmentService struct {
	tasks       repository.TaskRepo
	assignments repository.AssignmentRepo
	opts        options
}

func NewAssignmentService(tasks repository.TaskRepo, assignments repository.AssignmentRepo, opts ...Option) AssignmentService {
	return &assignmentService{tasks: tasks, assignments: assignments, opts: applyOptions(opts)}
}

func (s *assignmentService) CreateTask(ctx context.Context, t *domain.TaskTemplate) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.CreatedAt = s.opts.clock()
	if err := s.tasks.Create(ctx, t); err != nil {
		return &domain.PersistenceError{Op: "creating task", Err: err}
	}
	return nil
}

func (s *assignmentService) Assign(ctx context.Context, a *domain.Assignment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if _, err := s.tasks.GetByID(ctx, a.TaskID); err != nil {
		return mapLookupErr(err, "task", a.TaskID)
	}
	now := s.opts.clock()
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := s.assignments.Create(ctx, a); err != nil {
		return &domain.PersistenceError{Op: "creating assigned task", Err: err}
	}
	return nil
}

func (s *assignmentService) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "assigned task", id)
	}
	return a, nil
}

func (s *assignmentService) List(ctx context.Context, filter repository.AssignmentFilter) ([]*domain.Assignment, error) {
	list, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "listing assigned tasks", Err: err}
	}
	return list, nil
}

func (s *assignmentService) SetOverride(ctx context.Context, id, status string) (err error) {
	uc := s.opts.begin("task.override", map[string]any{"assigned_task_id": id, "status": status})
	defer func() { uc.finish(ctx, err) }()

	var value *string
	if status = strings.TrimSpace(status); status != "" {
		value = &status
	}
	if err := s.assignments.SetTaskStatus(ctx, id, value); err != nil {
		return mapStoreErr(err, "setting assigned task status", "assigned task", id)
	}
	return nil
}

func (s *assignmentService) Deactivate(ctx context.Context, id string) (err error) {
	uc := s.opts.begin("task.deactivate", map[string]any{"assigned_task_id": id})
	defer func() { uc.finish(ctx, err) }()

	if err := s.assignments.SetActive(ctx, id, false); err != nil {
		return mapStoreErr(err, "deactivating assigned task", "assigned task", id)
	}
	return nil
}

// mapStoreErr turns a store error into the domain error callers match on.
// op names the failed operation in persistence errors.
func mapStoreErr(err error, op, entity, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

func mapLookupErr(err error, entity, id string) error {
	return mapStoreErr(err, "loading "+entity, entity, id)
}
