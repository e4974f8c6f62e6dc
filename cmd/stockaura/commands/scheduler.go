package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/stockaura/internal/scheduler"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/stockaura scheduler start
  go run ./cmd/stockaura scheduler run ranking_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- ranking_refresh: RANKING_SCHEDULE (기본 15분마다, 랭킹 캐시 갱신)
- signal_audit: 매시 정각 (카탈로그에 없는 시그널 보고)
- snapshot_import: IMPORT_SCHEDULE (UPSTREAM_URL 설정 시에만, 기본 5분마다)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd, schedulerListCmd, schedulerRunCmd)
}

func newScheduler(cmd *cobra.Command) (*scheduler.Scheduler, *app, error) {
	a, err := newApp(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	s := scheduler.New(a.log, a.metrics)
	if err := registerJobs(s, a); err != nil {
		a.Close()
		return nil, nil, err
	}
	return s, a, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	s, a, err := newScheduler(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	s.Start()
	PrintSuccess(cmd.OutOrStdout(), "Scheduler running. Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	s.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	s, a, err := newScheduler(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	stats := s.GetJobStats()
	widths := []int{20, 20}
	PrintTableHeader(out, []string{"JOB", "SCHEDULE"}, widths)
	for _, name := range s.GetAllJobs() {
		PrintTableRow(out, []string{name, stats[name].Schedule}, widths)
	}
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	s, a, err := newScheduler(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := s.RunNow(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !result.Success {
		PrintError(out, fmt.Sprintf("%s failed after %s: %s", result.JobName, result.Duration, result.Error))
		return fmt.Errorf("job %s failed", result.JobName)
	}
	PrintSuccess(out, fmt.Sprintf("%s completed in %s", result.JobName, result.Duration))
	return nil
}
