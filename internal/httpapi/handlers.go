package httpapi

import (
	"context"
	"net/http"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/gin-gonic/gin"
)

// POST /api/v1/sessions/start
func (h *Handler) StartSession(c *gin.Context) {
	h.openSession(c, h.sessions.StartSession)
}

// POST /api/v1/sessions/resume
func (h *Handler) ResumeSession(c *gin.Context) {
	h.openSession(c, h.sessions.ResumeSession)
}

type openFunc func(ctx context.Context, assignedTaskID, userID string) (*domain.Session, error)

func (h *Handler) openSession(c *gin.Context, open openFunc) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := open(c.Request.Context(), req.AssignedTaskID, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(s))
}

// POST /api/v1/sessions/:id/pause
func (h *Handler) PauseSession(c *gin.Context) {
	if err := h.sessions.PauseSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/v1/sessions/:id/stop
func (h *Handler) StopSession(c *gin.Context) {
	if err := h.sessions.StopSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/users/:id/active-session
func (h *Handler) ActiveSession(c *gin.Context) {
	s, err := h.sessions.ActiveSession(c.Request.Context(), c.Param("id"))
	writeOptionalSession(c, s, err)
}

// GET /api/v1/assigned-tasks/:id/active-session
func (h *Handler) TaskActiveSession(c *gin.Context) {
	s, err := h.sessions.ActiveSessionForTask(c.Request.Context(), c.Param("id"))
	writeOptionalSession(c, s, err)
}

// GET /api/v1/assigned-tasks/:id/sessions
func (h *Handler) TaskSessions(c *gin.Context) {
	rows, err := h.sessions.ListSessions(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]sessionResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, toSessionResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/v1/assigned-tasks/:id/stats
func (h *Handler) TaskStats(c *gin.Context) {
	c.JSON(http.StatusOK, toStatsResponse(h.stats.ComputeTaskTimeStats(c.Request.Context(), c.Param("id"))))
}

// GET /api/v1/assigned-tasks/:id/status?user_id=
func (h *Handler) TaskStatus(c *gin.Context) {
	tag, err := h.status.StatusOf(c.Request.Context(), c.Param("id"), c.Query("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{Status: string(tag), Known: tag.Valid()})
}

func writeOptionalSession(c *gin.Context, s *domain.Session, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	if s == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(s))
}
