package commands

import (
	"context"
	"fmt"
	neturl "net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wonny/stockaura/internal/importer"
	"github.com/wonny/stockaura/internal/metrics"
	"github.com/wonny/stockaura/internal/ruleset"
	"github.com/wonny/stockaura/internal/service"
	"github.com/wonny/stockaura/internal/store"
	"github.com/wonny/stockaura/internal/verdict"
	"github.com/wonny/stockaura/pkg/config"
	"github.com/wonny/stockaura/pkg/database"
	"github.com/wonny/stockaura/pkg/httputil"
	"github.com/wonny/stockaura/pkg/logger"
	"github.com/wonny/stockaura/pkg/redis"
)

// app holds the long-running process dependencies shared by api and scheduler
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	rules    *ruleset.RuleSet
	db       *database.DB // nil: in-memory store
	redis    *redis.Client
	store    store.Store
	metrics  *metrics.Recorder
	registry *prometheus.Registry
	svc      *service.Service
}

// newApp loads config and connects storage; callers must Close it
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	rules, err := resolveRuleSet(cfg.Engine.RuleSetPath)
	if err != nil {
		return nil, fmt.Errorf("load rule set: %w", err)
	}
	for _, w := range ruleset.Warn(rules) {
		log.WithFields(map[string]interface{}{
			"rule_set": rules.Meta.ID,
			"code":     w.Code,
		}).Warn(w.Message)
	}

	a := &app{cfg: cfg, log: log, rules: rules}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(a.registry)

	if cfg.Database.Enabled() {
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		a.db = db
		a.store = store.NewPostgresStore(db.Pool)
		log.Info("Connected to database")
	} else {
		a.store = store.NewMemoryStore()
		log.Warn("DATABASE_URL not set; snapshots are kept in memory")
	}

	rc, err := redis.New(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rc
	if rc.Enabled() {
		log.Info("Connected to redis")
	}

	a.svc = service.New(cfg.Engine, service.Deps{
		Engine:  verdict.NewEngine(rules),
		Store:   a.store,
		Cache:   redis.NewCache(rc, "stockaura"),
		Metrics: a.metrics,
		Logger:  log,
	})

	log.WithFields(map[string]interface{}{
		"rule_set": rules.Meta.ID,
		"version":  rules.Meta.Version,
	}).Info("Verdict engine ready")

	return a, nil
}

// newImporter builds the upstream importer for url (empty: UPSTREAM_URL)
func (a *app) newImporter(url string) (*importer.Importer, error) {
	if url == "" {
		url = a.cfg.Upstream.URL
	}
	if url == "" {
		return nil, fmt.Errorf("no upstream URL: set UPSTREAM_URL or pass --url")
	}

	client := httputil.New(a.cfg.Upstream, a.log)
	if a.redis.Enabled() {
		host := url
		if u, err := neturl.Parse(url); err == nil && u.Host != "" {
			host = u.Host
		}
		client.WithRateLimiter(redis.NewRateLimiter(a.redis, "stockaura"), redis.UpstreamRateLimit(host, a.cfg.Upstream.RateLimit))
	}
	return importer.New(client, a.svc, url, a.log), nil
}

// health reports dependency status for /health
func (a *app) health(ctx context.Context) map[string]string {
	out := map[string]string{"database": "disabled", "redis": "disabled"}
	if a.db != nil {
		out["database"] = "ok"
		if err := a.db.Ping(ctx); err != nil {
			out["database"] = err.Error()
		}
	}
	if a.redis != nil && a.redis.Enabled() {
		out["redis"] = "ok"
		if err := a.redis.Ping(ctx); err != nil {
			out["redis"] = err.Error()
		}
	}
	return out
}

// Close releases connections
func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
