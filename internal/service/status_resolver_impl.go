package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
)

type statusResolver struct {
	assignments repository.AssignmentRepo
	sessions    repository.SessionRepo
	stats       Aggregator
	opts        options
}

func NewStatusResolver(assignments repository.AssignmentRepo, sessions repository.SessionRepo, stats Aggregator, opts ...Option) StatusResolver {
	return &statusResolver{
		assignments: assignments,
		sessions:    sessions,
		stats:       stats,
		opts:        applyOptions(opts),
	}
}

func (r *statusResolver) today() time.Time {
	return r.opts.clock().In(r.opts.loc)
}

func (r *statusResolver) ResolveStatus(a *domain.Assignment, activeAssignedTaskID string, stats *domain.TaskTimeStats) domain.StatusTag {
	return domain.ResolveStatus(a, activeAssignedTaskID, stats, r.today())
}

func (r *statusResolver) ResolveStatusAsync(ctx context.Context, a *domain.Assignment, activeAssignedTaskID string) domain.StatusTag {
	var stats *domain.TaskTimeStats
	if domain.NeedsStats(a, activeAssignedTaskID) {
		computed := r.stats.ComputeTaskTimeStats(ctx, a.ID)
		stats = &computed
	}
	return r.ResolveStatus(a, activeAssignedTaskID, stats)
}

func (r *statusResolver) StatusOf(ctx context.Context, assignedTaskID, userID string) (domain.StatusTag, error) {
	a, err := r.assignments.GetByID(ctx, assignedTaskID)
	if err != nil {
		return "", mapLookupErr(err, "assigned task", assignedTaskID)
	}

	var activeID string
	if userID != "" {
		open, err := r.sessions.LatestOpenByUser(ctx, userID)
		if err != nil {
			r.opts.logger.WarnContext(ctx, "active session unavailable",
				"user_id", userID,
				"error", err,
			)
		} else if open != nil {
			activeID = open.AssignedTaskID
		}
	}
	return r.ResolveStatusAsync(ctx, a, activeID), nil
}
