package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/require"
)

// t0 is a fixed wall clock used across service tests.
var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type testEngine struct {
	db          *sql.DB
	tasks       *repository.SQLTaskRepo
	assignments *repository.SQLAssignmentRepo
	sessions    *repository.SQLSessionRepo
	uow         db.UnitOfWork
	clock       *testutil.FakeClock
	hub         *SessionHub
	controller  SessionController
	aggregator  Aggregator
	resolver    StatusResolver
	assignSvc   AssignmentService
}

func setupEngine(t *testing.T, extra ...Option) *testEngine {
	t.Helper()
	return newTestEngine(t, testutil.NewTestDB(t), extra...)
}

// newTestEngine wires the services over database the same way main does.
func newTestEngine(t *testing.T, database *sql.DB, extra ...Option) *testEngine {
	t.Helper()
	e := &testEngine{
		db:          database,
		tasks:       repository.NewSQLTaskRepo(database),
		assignments: repository.NewSQLAssignmentRepo(database),
		sessions:    repository.NewSQLSessionRepo(database),
		uow:         testutil.NewTestUoW(database),
		clock:       testutil.NewFakeClock(t0),
		hub:         NewSessionHub(),
	}
	opts := append([]Option{WithNow(e.clock.Now), WithHub(e.hub)}, extra...)
	e.controller = NewSessionController(e.sessions, e.assignments, e.uow, opts...)
	e.aggregator = NewAggregator(e.sessions, opts...)
	e.resolver = NewStatusResolver(e.assignments, e.sessions, e.aggregator, opts...)
	e.assignSvc = NewAssignmentService(e.tasks, e.assignments, opts...)
	return e
}

// seedAssignment stores a task template and one assignment of it.
func (e *testEngine) seedAssignment(t *testing.T, opts ...testutil.AssignmentOption) *domain.Assignment {
	t.Helper()
	ctx := context.Background()
	task := testutil.NewTestTask("Inspect boiler", testutil.WithPlannedDate(t0.AddDate(0, 0, 7)))
	require.NoError(t, e.tasks.Create(ctx, task))
	a := testutil.NewTestAssignment(task.ID, opts...)
	require.NoError(t, e.assignments.Create(ctx, a))
	got, err := e.assignments.GetByID(ctx, a.ID)
	require.NoError(t, err)
	return got
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.events))
	for _, e := range o.events {
		out = append(out, e.Name)
	}
	return out
}
