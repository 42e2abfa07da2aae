package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentRepo_GetByID_FlattensPlannedDate(t *testing.T) {
	database := testutil.NewTestDB(t)
	a := seedAssignment(t, database, testutil.WithTaskStatus("on_hold"))
	repo := NewSQLAssignmentRepo(database)

	got, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.ExecutorID)
	assert.Equal(t, "worker-1", *got.ExecutorID)
	require.NotNil(t, got.TaskStatus)
	assert.Equal(t, "on_hold", *got.TaskStatus)
	require.NotNil(t, got.PlannedDate)
	assert.Equal(t, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), *got.PlannedDate)
	assert.Nil(t, got.CompletionDate)
}

func TestAssignmentRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLAssignmentRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignmentRepo_Updates(t *testing.T) {
	database := testutil.NewTestDB(t)
	a := seedAssignment(t, database, testutil.WithoutExecutor())
	repo := NewSQLAssignmentRepo(database)
	ctx := context.Background()

	status := "blocked"
	require.NoError(t, repo.SetTaskStatus(ctx, a.ID, &status))
	require.NoError(t, repo.SetActive(ctx, a.ID, false))
	require.NoError(t, repo.RecordCompletion(ctx, a.ID, time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC), 42))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ExecutorID)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.TaskStatus)
	assert.Equal(t, "blocked", *got.TaskStatus)
	require.NotNil(t, got.CompletionDate)
	assert.Equal(t, 18, got.CompletionDate.Day())
	require.NotNil(t, got.CompletionTimeMinutes)
	assert.Equal(t, 42, *got.CompletionTimeMinutes)

	require.NoError(t, repo.SetTaskStatus(ctx, a.ID, nil))
	got, err = repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TaskStatus, "clearing the override stores NULL")

	assert.ErrorIs(t, repo.SetActive(ctx, "missing", true), ErrNotFound)
}

func TestAssignmentRepo_List(t *testing.T) {
	database := testutil.NewTestDB(t)
	mine := seedAssignment(t, database, testutil.WithExecutor("u1"))
	seedAssignment(t, database, testutil.WithExecutor("u2"))
	inactive := seedAssignment(t, database, testutil.WithExecutor("u1"), testutil.WithInactive())
	repo := NewSQLAssignmentRepo(database)
	ctx := context.Background()

	all, err := repo.List(ctx, AssignmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2, "inactive rows are hidden by default")

	list, err := repo.List(ctx, AssignmentFilter{ExecutorID: "u1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	list, err = repo.List(ctx, AssignmentFilter{ExecutorID: "u1", IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{mine.ID, inactive.ID}, ids)
}

func TestTaskRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLTaskRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	task := testutil.NewTestTask("Install shelves")
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Install shelves", got.Title)
	assert.Nil(t, got.PlannedDate)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
