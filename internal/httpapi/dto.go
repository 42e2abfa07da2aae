package httpapi

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

type sessionRequest struct {
	AssignedTaskID string `json:"assigned_task_id" binding:"required"`
	UserID         string `json:"user_id" binding:"required"`
}

type sessionResponse struct {
	ID              string     `json:"id"`
	AssignedTaskID  string     `json:"assigned_task_id"`
	UserID          string     `json:"user_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	LogStatus       string     `json:"log_status"`
	DurationMinutes *int       `json:"duration_minutes"`
	Action          *string    `json:"action"`
}

func toSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		ID:              s.ID,
		AssignedTaskID:  s.AssignedTaskID,
		UserID:          s.UserID,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		LogStatus:       string(s.LogStatus),
		DurationMinutes: s.DurationMinutes,
	}
	if s.Action != nil {
		a := string(*s.Action)
		resp.Action = &a
	}
	return resp
}

type statsResponse struct {
	Status         *string `json:"status"`
	TotalMinutes   int     `json:"total_minutes"`
	CompletionDate *string `json:"completion_date"`
}

func toStatsResponse(st domain.TaskTimeStats) statsResponse {
	resp := statsResponse{TotalMinutes: st.TotalMinutes}
	if st.Status != nil {
		s := string(*st.Status)
		resp.Status = &s
	}
	if st.CompletionDate != nil {
		d := st.CompletionDate.Format("2006-01-02")
		resp.CompletionDate = &d
	}
	return resp
}

type statusResponse struct {
	Status string `json:"status"`
	Known  bool   `json:"known"`
}
