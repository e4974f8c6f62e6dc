package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/internal/verdict"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "스냅샷 랭킹",
	Long: `스냅샷들을 종합 점수로 정렬합니다.

--file 을 주면 JSON 배열을 읽어 엔진만 실행하고,
생략하면 저장소(DB 또는 메모리)에 저장된 스냅샷을 랭킹합니다.

Example:
  go run ./cmd/stockaura rank --file snapshots.json --limit 10
  go run ./cmd/stockaura rank --json`,
	RunE: runRank,
}

var (
	rankFile  string
	rankLimit int
	rankJSON  bool
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVarP(&rankFile, "file", "f", "", "JSON array of snapshots (- for stdin)")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 20, "maximum rows")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print rows as JSON")
}

func runRank(cmd *cobra.Command, args []string) error {
	if rankLimit < 1 {
		return fmt.Errorf("--limit must be positive, got %d", rankLimit)
	}

	var (
		rows []contracts.RankedSnapshot
		err  error
	)
	if rankFile != "" {
		rows, err = rankFromFile(cmd)
	} else {
		rows, err = rankFromStore(cmd)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rankJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	widths := []int{4, 10, 8, 24, 12, 6}
	PrintTableHeader(out, []string{"#", "TICKER", "SCORE", "SIGNAL", "TIER", "EDGE"}, widths)
	for _, r := range rows {
		PrintTableRow(out, []string{
			fmt.Sprintf("%d", r.Rank),
			r.Ticker,
			fmt.Sprintf("%.2f", r.Score),
			string(r.FinalSignal),
			string(r.Tier),
			fmt.Sprintf("%.1fx", r.EdgeToFrictionRatio),
		}, widths)
	}
	if len(rows) == 0 {
		PrintInfo(out, "No snapshots to rank")
	}
	return nil
}

func rankFromFile(cmd *cobra.Command) ([]contracts.RankedSnapshot, error) {
	rules, err := resolveRuleSet("")
	if err != nil {
		return nil, err
	}

	var snaps []contracts.SignalSnapshot
	if err := readJSON(cmd.InOrStdin(), rankFile, &snaps); err != nil {
		return nil, err
	}

	params := contracts.EvaluationParams{TransactionCost: 0.001, AccountSize: 10000}
	return verdict.NewRanker(verdict.NewEngine(rules)).Rank(snaps, params, rankLimit), nil
}

func rankFromStore(cmd *cobra.Command) ([]contracts.RankedSnapshot, error) {
	a, err := newApp(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer a.Close()

	return a.svc.Rankings(cmd.Context(), rankLimit)
}
