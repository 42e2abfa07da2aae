package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	router      *gin.Engine
	clock       *testutil.FakeClock
	assignments *repository.SQLAssignmentRepo
	assignment  *domain.Assignment
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database := testutil.NewTestDB(t)
	tasks := repository.NewSQLTaskRepo(database)
	assignments := repository.NewSQLAssignmentRepo(database)
	sessions := repository.NewSQLSessionRepo(database)
	clock := testutil.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	opts := []service.Option{service.WithNow(clock.Now)}

	ctrl := service.NewSessionController(sessions, assignments, testutil.NewTestUoW(database), opts...)
	agg := service.NewAggregator(sessions, opts...)
	resolver := service.NewStatusResolver(assignments, sessions, agg, opts...)

	ctx := context.Background()
	task := testutil.NewTestTask("Site visit", testutil.WithPlannedDate(clock.Now().AddDate(0, 0, 3)))
	require.NoError(t, tasks.Create(ctx, task))
	a := testutil.NewTestAssignment(task.ID)
	require.NoError(t, assignments.Create(ctx, a))

	return &apiFixture{
		router:      NewRouter(NewHandler(ctrl, agg, resolver, nil)),
		clock:       clock,
		assignments: assignments,
		assignment:  a,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func (f *apiFixture) start(t *testing.T, userID string) sessionResponse {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/sessions/start",
		`{"assigned_task_id":"`+f.assignment.ID+`","user_id":"`+userID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[sessionResponse](t, w)
}

func TestAPI_SessionLifecycle(t *testing.T) {
	f := setupAPI(t)

	s := f.start(t, "u1")
	assert.Equal(t, "in_progress", s.LogStatus)
	require.NotNil(t, s.Action)
	assert.Equal(t, "start", *s.Action)

	f.clock.Advance(10 * time.Minute)
	w := f.do(t, http.MethodPost, "/api/v1/sessions/"+s.ID+"/pause", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/sessions/resume",
		`{"assigned_task_id":"`+f.assignment.ID+`","user_id":"u1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	resumed := decode[sessionResponse](t, w)

	f.clock.Advance(5 * time.Minute)
	w = f.do(t, http.MethodPost, "/api/v1/sessions/"+resumed.ID+"/stop", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/assigned-tasks/"+f.assignment.ID+"/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[statsResponse](t, w)
	require.NotNil(t, stats.Status)
	assert.Equal(t, "completed", *stats.Status)
	assert.Equal(t, 15, stats.TotalMinutes)
	require.NotNil(t, stats.CompletionDate)
	assert.Equal(t, "2025-03-10", *stats.CompletionDate)

	w = f.do(t, http.MethodGet, "/api/v1/assigned-tasks/"+f.assignment.ID+"/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]sessionResponse](t, w), 2)
}

func TestAPI_StartConflict(t *testing.T) {
	f := setupAPI(t)
	first := f.start(t, "u1")

	w := f.do(t, http.MethodPost, "/api/v1/sessions/start",
		`{"assigned_task_id":"`+f.assignment.ID+`","user_id":"u1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, first.ID, body["active_log_id"])
}

func TestAPI_BadInput(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/v1/sessions/start", `{"user_id":"u1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/sessions/start", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_NotFoundAndClosed(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/v1/sessions/nope/pause", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/assigned-tasks/nope/status", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	s := f.start(t, "u1")
	f.clock.Advance(time.Minute)
	require.Equal(t, http.StatusNoContent, f.do(t, http.MethodPost, "/api/v1/sessions/"+s.ID+"/stop", "").Code)
	w = f.do(t, http.MethodPost, "/api/v1/sessions/"+s.ID+"/pause", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAPI_ActiveSessionLookups(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodGet, "/api/v1/users/u1/active-session", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	s := f.start(t, "u1")

	w = f.do(t, http.MethodGet, "/api/v1/users/u1/active-session", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, s.ID, decode[sessionResponse](t, w).ID)

	w = f.do(t, http.MethodGet, "/api/v1/assigned-tasks/"+f.assignment.ID+"/active-session", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, s.ID, decode[sessionResponse](t, w).ID)
}

func TestAPI_Status(t *testing.T) {
	f := setupAPI(t)
	path := "/api/v1/assigned-tasks/" + f.assignment.ID + "/status?user_id=u1"

	w := f.do(t, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, statusResponse{Status: "not_started", Known: true}, decode[statusResponse](t, w))

	f.start(t, "u1")
	w = f.do(t, http.MethodGet, path, "")
	assert.Equal(t, "in_progress", decode[statusResponse](t, w).Status)

	status := "waiting_parts"
	require.NoError(t, f.assignments.SetTaskStatus(context.Background(), f.assignment.ID, &status))
	require.NoError(t, f.assignments.SetActive(context.Background(), f.assignment.ID, false))
	w = f.do(t, http.MethodGet, path, "")
	assert.Equal(t, statusResponse{Status: "inactive", Known: true}, decode[statusResponse](t, w))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(&domain.AlreadyActiveError{UserID: "u1"}))
	assert.Equal(t, http.StatusConflict, statusFor(domain.ErrSessionClosed))
	assert.Equal(t, http.StatusNotFound, statusFor(&domain.NotFoundError{Entity: "x", ID: "y"}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(&domain.PersistenceError{Op: "x", Err: assert.AnError}))
}
