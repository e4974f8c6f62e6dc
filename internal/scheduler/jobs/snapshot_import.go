package jobs

import (
	"context"

	"github.com/wonny/stockaura/internal/importer"
)

// SnapshotImporter pulls the upstream snapshot feed
type SnapshotImporter interface {
	Import(ctx context.Context) (importer.Result, error)
}

// SnapshotImportJob keeps stored snapshots in step with the upstream service
type SnapshotImportJob struct {
	importer SnapshotImporter
	schedule string
}

// NewSnapshotImportJob creates a new snapshot import job
func NewSnapshotImportJob(imp SnapshotImporter, schedule string) *SnapshotImportJob {
	return &SnapshotImportJob{importer: imp, schedule: schedule}
}

// Name returns the job name
func (j *SnapshotImportJob) Name() string {
	return "snapshot_import"
}

// Schedule returns the configured cron schedule
func (j *SnapshotImportJob) Schedule() string {
	return j.schedule
}

// Run imports once; the importer logs the counts
func (j *SnapshotImportJob) Run(ctx context.Context) error {
	_, err := j.importer.Import(ctx)
	return err
}
