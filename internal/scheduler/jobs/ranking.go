package jobs

import (
	"context"

	"github.com/wonny/stockaura/pkg/logger"
)

// RankingRefresher recomputes and caches the opportunity ranking
type RankingRefresher interface {
	RefreshRankings(ctx context.Context, limit int) (int, error)
}

// RankingRefreshJob keeps the cached ranking warm
type RankingRefreshJob struct {
	svc      RankingRefresher
	schedule string
	limit    int
	logger   *logger.Logger
}

// NewRankingRefreshJob creates a new ranking refresh job
func NewRankingRefreshJob(svc RankingRefresher, schedule string, limit int, log *logger.Logger) *RankingRefreshJob {
	return &RankingRefreshJob{
		svc:      svc,
		schedule: schedule,
		limit:    limit,
		logger:   log,
	}
}

// Name returns the job name
func (j *RankingRefreshJob) Name() string {
	return "ranking_refresh"
}

// Schedule returns the configured cron schedule
func (j *RankingRefreshJob) Schedule() string {
	return j.schedule
}

// Run recomputes the ranking
func (j *RankingRefreshJob) Run(ctx context.Context) error {
	n, err := j.svc.RefreshRankings(ctx, j.limit)
	if err != nil {
		return err
	}

	j.logger.WithField("ranked", n).Info("Ranking refreshed")
	return nil
}
