package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/pkg/logger"
)

// SnapshotLister lists stored snapshots
type SnapshotLister interface {
	List(ctx context.Context) ([]contracts.SignalSnapshot, error)
}

// SignalAuditJob reports stored snapshots whose final signal is not in the catalog
type SignalAuditJob struct {
	store  SnapshotLister
	known  func(contracts.SignalID) bool
	logger *logger.Logger
}

// NewSignalAuditJob creates a new signal audit job
func NewSignalAuditJob(store SnapshotLister, known func(contracts.SignalID) bool, log *logger.Logger) *SignalAuditJob {
	return &SignalAuditJob{store: store, known: known, logger: log}
}

// Name returns the job name
func (j *SignalAuditJob) Name() string {
	return "signal_audit"
}

// Schedule returns the cron schedule (hourly, on the hour)
func (j *SignalAuditJob) Schedule() string {
	return "0 0 * * * *"
}

// Run logs every unknown signal found in storage
func (j *SignalAuditJob) Run(ctx context.Context) error {
	snaps, err := j.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	unknown := 0
	for _, s := range snaps {
		if j.known(s.FinalSignal) {
			continue
		}
		unknown++
		j.logger.ForEvaluation(s.Ticker, string(s.FinalSignal)).Warn("stored snapshot has unknown final signal")
	}

	j.logger.WithFields(map[string]interface{}{
		"snapshots": len(snaps),
		"unknown":   unknown,
	}).Info("Signal audit completed")
	return nil
}
