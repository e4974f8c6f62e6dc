// Package importer pulls signal snapshots from the upstream analysis service.
package importer

import (
	"context"
	"fmt"

	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/internal/store"
	"github.com/wonny/stockaura/pkg/logger"
)

// Fetcher decodes a JSON resource (pkg/httputil.Client)
type Fetcher interface {
	GetJSON(ctx context.Context, url string, v interface{}) error
}

// SnapshotSink stores snapshots (service.Service)
type SnapshotSink interface {
	PutSnapshot(ctx context.Context, snap *contracts.SignalSnapshot) error
}

// Result summarises one import run
type Result struct {
	Fetched int `json:"fetched"`
	Stored  int `json:"stored"`
	Skipped int `json:"skipped"` // no ticker
}

// Importer copies the upstream snapshot feed into the store
// ⭐ SSOT: 업스트림 스냅샷 수집은 여기서만
type Importer struct {
	fetcher Fetcher
	sink    SnapshotSink
	url     string
	log     *logger.Logger
}

// New creates an importer reading url
func New(fetcher Fetcher, sink SnapshotSink, url string, log *logger.Logger) *Importer {
	return &Importer{fetcher: fetcher, sink: sink, url: url, log: log}
}

// Import fetches the feed once and stores every snapshot that has a ticker.
// A store failure aborts the run; snapshots stored before it stay stored.
func (i *Importer) Import(ctx context.Context) (Result, error) {
	var snaps []contracts.SignalSnapshot
	if err := i.fetcher.GetJSON(ctx, i.url, &snaps); err != nil {
		return Result{}, fmt.Errorf("fetch snapshots: %w", err)
	}

	res := Result{Fetched: len(snaps)}
	for idx := range snaps {
		snap := &snaps[idx]
		if store.NormalizeTicker(snap.Ticker) == "" {
			res.Skipped++
			i.log.WithField("index", idx).Warn("upstream snapshot without ticker skipped")
			continue
		}
		if err := i.sink.PutSnapshot(ctx, snap); err != nil {
			return res, fmt.Errorf("store %s: %w", snap.Ticker, err)
		}
		res.Stored++
	}

	i.log.WithFields(map[string]interface{}{
		"fetched": res.Fetched,
		"stored":  res.Stored,
		"skipped": res.Skipped,
	}).Info("Snapshot import completed")
	return res, nil
}
