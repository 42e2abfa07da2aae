// Package httpapi exposes the session engine over JSON/HTTP.
package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/tempo/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler serves the /api/v1 routes.
type Handler struct {
	sessions service.SessionController
	stats    service.Aggregator
	status   service.StatusResolver
	logger   *slog.Logger
}

func NewHandler(sessions service.SessionController, stats service.Aggregator, status service.StatusResolver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{sessions: sessions, stats: stats, status: status, logger: logger}
}

// NewRouter builds a gin engine with the API routes and request logging.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))
	h.Register(r)
	return r
}

func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api/v1")
	{
		api.POST("/sessions/start", h.StartSession)
		api.POST("/sessions/resume", h.ResumeSession)
		api.POST("/sessions/:id/pause", h.PauseSession)
		api.POST("/sessions/:id/stop", h.StopSession)

		api.GET("/users/:id/active-session", h.ActiveSession)

		api.GET("/assigned-tasks/:id/stats", h.TaskStats)
		api.GET("/assigned-tasks/:id/status", h.TaskStatus)
		api.GET("/assigned-tasks/:id/active-session", h.TaskActiveSession)
		api.GET("/assigned-tasks/:id/sessions", h.TaskSessions)
	}
}

// NewServer wraps the router in an http.Server with conservative timeouts.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(started).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.Last().Error())
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "http_request", attrs...)
			return
		}
		logger.InfoContext(c.Request.Context(), "http_request", attrs...)
	}
}
