package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockaura/internal/api"
	"github.com/wonny/stockaura/internal/api/handlers"
	"github.com/wonny/stockaura/internal/scheduler"
	"github.com/wonny/stockaura/internal/scheduler/jobs"
	"github.com/wonny/stockaura/internal/verdict"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET    /health                    - Health check
  GET    /metrics                   - Prometheus metrics
  POST   /api/analyze               - Evaluate an inline snapshot
  GET    /api/analyze/{ticker}      - Evaluate the stored snapshot
  PUT    /api/snapshots/{ticker}    - Store the latest snapshot
  GET    /api/snapshots/{ticker}    - Read the stored snapshot
  DELETE /api/snapshots/{ticker}    - Remove the stored snapshot
  GET    /api/signals               - Signal catalog (?tier=)
  GET    /api/rankings              - Rank stored snapshots (?limit=)
  POST   /api/rankings              - Rank an inline batch
  GET    /api/stream                - WebSocket verdict stream (?tickers=)

Example:
  go run ./cmd/stockaura api
  go run ./cmd/stockaura api --port 9000 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort          string
	apiWithScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
	apiCmd.Flags().BoolVar(&apiWithScheduler, "with-scheduler", false, "run the ranking refresh job in-process")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), "=== stockaura API Server ===")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	var limiter api.Limiter
	if a.redis.Enabled() {
		limiter = api.NewRedisLimiter(a.redis, a.cfg.API.RateLimit, a.cfg.API.RateWindow)
	} else {
		limiter = api.NewLocalLimiter(a.cfg.API.RateLimit, a.cfg.API.RateWindow)
	}

	router := api.NewRouter(api.RouterDeps{
		Verdict:     handlers.NewVerdictHandler(a.svc, a.log, a.cfg.Scheduler.RankingLimit),
		Stream:      handlers.NewStreamHandler(a.svc, a.log, a.metrics),
		Logger:      a.log,
		Metrics:     a.metrics,
		Limiter:     limiter,
		Health:      func(r *http.Request) map[string]string { return a.health(r.Context()) },
		HideMetrics: !a.cfg.MetricsEnabled,
	})
	server := api.New(a.cfg, a.log, router)

	var sched *scheduler.Scheduler
	if apiWithScheduler {
		sched = scheduler.New(a.log, a.metrics)
		if err := registerJobs(sched, a); err != nil {
			return err
		}
		sched.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	a.log.Info("API server started successfully")
	PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Server running on http://localhost:%s (rule set %s)", a.cfg.Port, a.rules.Meta.ID))
	fmt.Fprintln(cmd.OutOrStdout(), "\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	a.log.Info("Shutting down server...")
	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}

// registerJobs adds every background job to s
func registerJobs(s *scheduler.Scheduler, a *app) error {
	all := []scheduler.Job{
		jobs.NewRankingRefreshJob(a.svc, a.cfg.Scheduler.RankingSchedule, a.cfg.Scheduler.RankingLimit, a.log),
		jobs.NewSignalAuditJob(a.store, verdict.DefaultCatalog().Known, a.log),
	}
	if a.cfg.Upstream.Enabled() {
		imp, err := a.newImporter("")
		if err != nil {
			return err
		}
		all = append(all, jobs.NewSnapshotImportJob(imp, a.cfg.Upstream.ImportSchedule))
	}
	for _, j := range all {
		if err := s.AddJob(j); err != nil {
			return err
		}
	}
	return nil
}
