// Package service wires the pure verdict engine to storage, caching, metrics and logging.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/internal/metrics"
	"github.com/wonny/stockaura/internal/store"
	"github.com/wonny/stockaura/internal/verdict"
	"github.com/wonny/stockaura/pkg/config"
	"github.com/wonny/stockaura/pkg/logger"
	"github.com/wonny/stockaura/pkg/redis"
)

// Service evaluates snapshots and serves rankings
// ⭐ SSOT: 엔진 호출 + 부수효과(로그/메트릭/캐시)는 여기서만
type Service struct {
	engine  *verdict.Engine
	ranker  *verdict.Ranker
	store   store.Store
	cache   *redis.Cache
	metrics *metrics.Recorder
	log     *logger.Logger
	events  *broadcaster

	defaults   contracts.EvaluationParams
	verdictTTL time.Duration
	rankingTTL time.Duration
	now        func() time.Time
}

// Deps are the collaborators of a Service; Cache and Metrics may be nil
type Deps struct {
	Engine  *verdict.Engine
	Store   store.Store
	Cache   *redis.Cache
	Metrics *metrics.Recorder
	Logger  *logger.Logger
}

// New creates a service
func New(cfg config.EngineConfig, deps Deps) *Service {
	if deps.Engine == nil {
		deps.Engine = verdict.NewEngine(nil)
	}
	if deps.Store == nil {
		deps.Store = store.NewMemoryStore()
	}
	if deps.Cache == nil {
		deps.Cache = redis.NewCache(redis.Disabled(), "stockaura")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}

	rec := deps.Metrics
	return &Service{
		events:  newBroadcaster(func() { rec.RecordStreamDrop() }),
		engine:  deps.Engine,
		ranker:  verdict.NewRanker(deps.Engine),
		store:   deps.Store,
		cache:   deps.Cache,
		metrics: deps.Metrics,
		log:     deps.Logger,
		defaults: contracts.EvaluationParams{
			TransactionCost: cfg.DefaultTransactionCost,
			AccountSize:     cfg.DefaultAccountSize,
		},
		verdictTTL: cfg.VerdictCacheTTL,
		rankingTTL: redis.TTLShort,
		now:        time.Now,
	}
}

// RuleSetID returns the active rule-set identifier
func (s *Service) RuleSetID() string {
	return s.engine.RuleSet().Meta.ID
}

// Params fills missing caller parameters from the configured defaults
func (s *Service) Params(txCost, accountSize *float64) contracts.EvaluationParams {
	p := s.defaults
	if txCost != nil {
		p.TransactionCost = *txCost
	}
	if accountSize != nil {
		p.AccountSize = *accountSize
	}
	return p
}

// Evaluate runs the engine on one snapshot. It never fails; unknown
// signals are logged as a data-quality concern and returned with the UNKNOWN tier.
func (s *Service) Evaluate(snap *contracts.SignalSnapshot, p contracts.EvaluationParams) *contracts.VerdictViewModel {
	start := s.now()
	vm := s.engine.Evaluate(snap, p)
	s.metrics.RecordEvaluation(string(vm.Signal.Tier), vm.RuleSet, s.now().Sub(start).Seconds())

	if vm.Signal.Tier == contracts.TierUnknown {
		s.metrics.RecordUnknownSignal(string(vm.Signal.ID))
		s.log.ForEvaluation(vm.Ticker, string(vm.Signal.ID)).
			Warn("unknown final signal; returning UNKNOWN verdict")
	}
	if vm.Signal.Tier == contracts.TierSpeculative && vm.Tests == nil {
		s.log.ForEvaluation(vm.Ticker, string(vm.Signal.ID)).
			WithField("rule_set", vm.RuleSet).
			Warn("speculative signal outside rule set")
	}
	return vm
}

// EvaluateTicker evaluates the stored snapshot of ticker, using the verdict cache
func (s *Service) EvaluateTicker(ctx context.Context, ticker string, p contracts.EvaluationParams) (*contracts.VerdictViewModel, error) {
	ticker = store.NormalizeTicker(ticker)
	key := redis.VerdictKey(s.RuleSetID(), ticker, p.TransactionCost, p.AccountSize)

	var cached contracts.VerdictViewModel
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("verdict cache read failed")
	}
	s.metrics.RecordCache("verdict", found)
	if found {
		// Setup is not serialized; restore it from the catalog
		cached.Signal = s.engine.Catalog().Lookup(cached.Signal.ID)
		return &cached, nil
	}

	snap, err := s.store.Get(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", ticker, err)
	}

	vm := s.Evaluate(snap, p)
	if err := s.cache.Set(ctx, key, vm, s.verdictTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("verdict cache write failed")
	}
	return vm, nil
}

// PutSnapshot stores a snapshot and drops cached results derived from it
func (s *Service) PutSnapshot(ctx context.Context, snap *contracts.SignalSnapshot) error {
	if err := s.store.Put(ctx, snap); err != nil {
		return err
	}

	ticker := store.NormalizeTicker(snap.Ticker)
	if _, err := s.cache.DeletePrefix(ctx, redis.VerdictTickerPrefix(s.RuleSetID(), ticker)); err != nil {
		s.log.WithError(err).WithField("ticker", ticker).Warn("verdict cache invalidation failed")
	}
	if _, err := s.cache.DeletePrefix(ctx, "ranking:"+s.RuleSetID()+":"); err != nil {
		s.log.WithError(err).Warn("ranking cache invalidation failed")
	}

	s.log.WithFields(map[string]interface{}{
		"ticker":       ticker,
		"final_signal": string(snap.FinalSignal),
	}).Debug("snapshot stored")

	if s.events.count() > 0 {
		stored := *snap
		stored.Ticker = ticker
		s.events.publish(VerdictEvent{Type: EventVerdict, Ticker: ticker, Verdict: s.Evaluate(&stored, s.defaults)})
	}
	return nil
}

// Snapshot returns the stored snapshot of ticker
func (s *Service) Snapshot(ctx context.Context, ticker string) (*contracts.SignalSnapshot, error) {
	return s.store.Get(ctx, ticker)
}

// DeleteSnapshot removes a stored snapshot
func (s *Service) DeleteSnapshot(ctx context.Context, ticker string) error {
	if err := s.store.Delete(ctx, ticker); err != nil {
		return err
	}
	ticker = store.NormalizeTicker(ticker)
	if _, err := s.cache.DeletePrefix(ctx, redis.VerdictTickerPrefix(s.RuleSetID(), ticker)); err != nil {
		s.log.WithError(err).WithField("ticker", ticker).Warn("verdict cache invalidation failed")
	}
	if _, err := s.cache.DeletePrefix(ctx, "ranking:"+s.RuleSetID()+":"); err != nil {
		s.log.WithError(err).Warn("ranking cache invalidation failed")
	}
	s.events.publish(VerdictEvent{Type: EventDeleted, Ticker: ticker})
	return nil
}

// Signals returns the catalog, optionally filtered by tier ("" for all)
func (s *Service) Signals(tier contracts.VerdictTier) []contracts.CatalogEntry {
	if tier == "" {
		return s.engine.Catalog().Entries()
	}
	return s.engine.Catalog().ByTier(tier)
}

// Rank orders an explicit list of snapshots
func (s *Service) Rank(snaps []contracts.SignalSnapshot, p contracts.EvaluationParams, limit int) []contracts.RankedSnapshot {
	return s.ranker.Rank(snaps, p, limit)
}

// Rankings ranks every stored snapshot under the default params.
// Cached for a short TTL; the scheduler refreshes it.
func (s *Service) Rankings(ctx context.Context, limit int) ([]contracts.RankedSnapshot, error) {
	key := redis.RankingKey(s.RuleSetID(), limit)

	var rows []contracts.RankedSnapshot
	computed := false
	err := s.cache.GetOrSet(ctx, key, &rows, s.rankingTTL, func() (any, error) {
		computed = true
		return s.computeRankings(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCache("ranking", !computed)
	return rows, nil
}

// RefreshRankings recomputes the ranking and overwrites the cache entry
func (s *Service) RefreshRankings(ctx context.Context, limit int) (int, error) {
	rows, err := s.computeRankings(ctx, limit)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, redis.RankingKey(s.RuleSetID(), limit), rows, s.rankingTTL); err != nil {
		s.log.WithError(err).Warn("ranking cache write failed")
	}
	return len(rows), nil
}

func (s *Service) computeRankings(ctx context.Context, limit int) ([]contracts.RankedSnapshot, error) {
	snaps, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	rows := s.ranker.Rank(snaps, s.defaults, limit)
	s.metrics.SetRankedSnapshots(len(rows))
	return rows, nil
}
