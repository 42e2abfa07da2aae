package service

import (
	"context"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
)

type aggregator struct {
	sessions repository.SessionRepo
	opts     options
}

func NewAggregator(sessions repository.SessionRepo, opts ...Option) Aggregator {
	return &aggregator{sessions: sessions, opts: applyOptions(opts)}
}

func (a *aggregator) ComputeTaskTimeStats(ctx context.Context, assignedTaskID string) domain.TaskTimeStats {
	rows, err := a.sessions.ListByAssignedTask(ctx, assignedTaskID)
	if err != nil {
		a.opts.logger.WarnContext(ctx, "task time stats unavailable",
			"assigned_task_id", assignedTaskID,
			"error", err,
		)
		return domain.TaskTimeStats{}
	}
	return domain.FoldSessions(rows, a.opts.clock(), a.opts.loc)
}
