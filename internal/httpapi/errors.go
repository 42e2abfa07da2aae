package httpapi

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/gin-gonic/gin"
)

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAlreadyActive), errors.Is(err, domain.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	code := statusFor(err)
	body := gin.H{"error": err.Error()}
	var active *domain.AlreadyActiveError
	if errors.As(err, &active) && active.ActiveLogID != "" {
		body["active_log_id"] = active.ActiveLogID
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, body)
}
