package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// FormatSession renders one time log row as a labeled block.
func FormatSession(s *domain.Session, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Log:   "), s.ID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Task:  "), s.AssignedTaskID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("User:  "), s.UserID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Status:"), LogStatusPill(s.LogStatus))
	fmt.Fprintf(&b, "%s  %s (%s)\n", Dim("Start: "), s.StartTime.In(now.Location()).Format("15:04:05"), HumanTimestamp(s.StartTime, now))
	if s.EndTime != nil {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Time:  "), FormatMinutes(s.Minutes()))
	} else {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Time:  "), FormatElapsed(domain.WholeSeconds(s.StartTime, now)))
	}
	return b.String()
}

// FormatSessionList renders a task's time log, newest first.
func FormatSessionList(rows []*domain.Session, loc *time.Location) string {
	if len(rows) == 0 {
		return Dim("No time logged yet.") + "\n"
	}
	out := make([][]string, 0, len(rows))
	for _, s := range rows {
		end := Dim("--")
		if s.EndTime != nil {
			end = s.EndTime.In(loc).Format("2006-01-02 15:04")
		}
		action := Dim("--")
		if s.Action != nil {
			action = string(*s.Action)
		}
		out = append(out, []string{
			TruncID(s.ID),
			s.UserID,
			s.StartTime.In(loc).Format("2006-01-02 15:04"),
			end,
			FormatMinutes(s.Minutes()),
			LogStatusPill(s.LogStatus),
			action,
		})
	}
	return RenderTable([]string{"ID", "USER", "START", "END", "TIME", "STATUS", "ACTION"}, out)
}

// FormatStats renders a task's aggregated time.
func FormatStats(assignedTaskID string, st domain.TaskTimeStats) string {
	var b strings.Builder
	status := Dim("no sessions")
	if tag, ok := st.Tag(); ok {
		status = StatusIndicator(tag)
	}
	fmt.Fprintf(&b, "%s  %s\n", Dim("Status:    "), status)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Total:     "), Bold(FormatMinutes(st.TotalMinutes)))
	if st.CompletionDate != nil {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Completed: "), st.CompletionDate.Format("2006-01-02"))
	}
	return RenderBox("Task "+assignedTaskID, strings.TrimRight(b.String(), "\n"))
}

// TaskRow pairs an assignment with its resolved status for listing.
type TaskRow struct {
	Assignment *domain.Assignment
	Status     domain.StatusTag
}

// FormatTaskList renders assignments with their resolved status.
func FormatTaskList(rows []TaskRow) string {
	if len(rows) == 0 {
		return Dim("No assigned tasks.") + "\n"
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		a := r.Assignment
		executor := Dim("--")
		if a.ExecutorID != nil {
			executor = *a.ExecutorID
		}
		due := Dim("--")
		if a.PlannedDate != nil {
			due = a.PlannedDate.Format("2006-01-02")
		}
		out = append(out, []string{
			TruncID(a.ID),
			TruncID(a.TaskID),
			a.ClientID,
			executor,
			due,
			StatusIndicator(r.Status),
		})
	}
	return RenderTable([]string{"ID", "TASK", "CLIENT", "EXECUTOR", "DUE", "STATUS"}, out)
}
