package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf_NewTaskIsNotStarted(t *testing.T) {
	e := setupEngine(t)
	a := e.seedAssignment(t)

	status, err := e.resolver.StatusOf(context.Background(), a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotStarted, status)
}

func TestStatusOf_InactiveBeatsLiveSession(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	a := e.seedAssignment(t)

	_, err := e.controller.StartSession(ctx, a.ID, "u1")
	require.NoError(t, err)

	status, err := e.resolver.StatusOf(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, status)

	require.NoError(t, e.assignSvc.Deactivate(ctx, a.ID))
	status, err = e.resolver.StatusOf(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, status)
}

func TestStatusOf_OtherUsersSessionFallsBackToStats(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	a := e.seedAssignment(t)

	_, err := e.controller.StartSession(ctx, a.ID, "u2")
	require.NoError(t, err)

	// u1 has no live session here; the aggregated status still shows it.
	status, err := e.resolver.StatusOf(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, status)
}

func TestStatusOf_OverdueAndNoExecutor(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	past := testutil.NewTestTask("Late", testutil.WithPlannedDate(t0.AddDate(0, 0, -2)))
	require.NoError(t, e.tasks.Create(ctx, past))
	late := testutil.NewTestAssignment(past.ID)
	require.NoError(t, e.assignments.Create(ctx, late))
	unassigned := testutil.NewTestAssignment(past.ID, testutil.WithoutExecutor())
	require.NoError(t, e.assignments.Create(ctx, unassigned))

	status, err := e.resolver.StatusOf(ctx, late.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOverdue, status)

	status, err = e.resolver.StatusOf(ctx, unassigned.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoExecutor, status)
}

func TestStatusOf_OverrideIsVerbatim(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	a := e.seedAssignment(t)

	require.NoError(t, e.assignSvc.SetOverride(ctx, a.ID, "on_hold"))
	status, err := e.resolver.StatusOf(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTag("on_hold"), status)
	assert.False(t, status.Valid())
}

func TestStatusOf_UnknownAssignment(t *testing.T) {
	e := setupEngine(t)

	_, err := e.resolver.StatusOf(context.Background(), "missing", "u1")
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestResolveStatus_SyncAndAsyncAgree(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	paused := e.seedAssignment(t)
	s, err := e.controller.StartSession(ctx, paused.ID, "u1")
	require.NoError(t, err)
	e.clock.Advance(5 * time.Minute)
	require.NoError(t, e.controller.PauseSession(ctx, s.ID))

	fresh := e.seedAssignment(t)
	override := e.seedAssignment(t, testutil.WithTaskStatus("completed"))
	inactive := e.seedAssignment(t, testutil.WithInactive())

	for _, a := range []*domain.Assignment{paused, fresh, override, inactive} {
		for _, active := range []string{"", paused.ID, fresh.ID} {
			stats := e.aggregator.ComputeTaskTimeStats(ctx, a.ID)
			want := e.resolver.ResolveStatus(a, active, &stats)
			assert.Equal(t, want, e.resolver.ResolveStatusAsync(ctx, a, active),
				"assignment %s active %q", a.ID, active)
		}
	}
}

type countingAggregator struct {
	calls int
}

func (c *countingAggregator) ComputeTaskTimeStats(context.Context, string) domain.TaskTimeStats {
	c.calls++
	return domain.TaskTimeStats{}
}

func TestResolveStatusAsync_SkipsStatsWhenDecided(t *testing.T) {
	agg := &countingAggregator{}
	r := NewStatusResolver(nil, nil, agg, WithNow(func() time.Time { return t0 }))
	ctx := context.Background()

	a := testutil.NewTestAssignment("task-1", testutil.WithTaskStatus("blocked"))
	assert.Equal(t, domain.StatusTag("blocked"), r.ResolveStatusAsync(ctx, a, ""))
	assert.Equal(t, 0, agg.calls)

	plain := testutil.NewTestAssignment("task-1")
	assert.Equal(t, domain.StatusNotStarted, r.ResolveStatusAsync(ctx, plain, "other"))
	assert.Equal(t, 1, agg.calls)

	live := testutil.NewTestAssignment("task-1")
	assert.Equal(t, domain.StatusInProgress, r.ResolveStatusAsync(ctx, live, live.ID))
	assert.Equal(t, 1, agg.calls)
}
