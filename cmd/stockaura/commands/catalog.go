package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/internal/verdict"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "시그널 카탈로그 출력",
	Long: `알려진 모든 시그널과 등급, 리스크, 매매 가능 여부를 출력합니다.

Example:
  go run ./cmd/stockaura catalog
  go run ./cmd/stockaura catalog --tier SPECULATIVE`,
	RunE: runCatalog,
}

var catalogTier string

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVar(&catalogTier, "tier", "", "filter by tier (TRADEABLE, SPECULATIVE, WAIT, DO_NOT_TRADE)")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat := verdict.DefaultCatalog()
	classifier := verdict.DefaultClassifier()

	entries := cat.Entries()
	if catalogTier != "" {
		tier := contracts.VerdictTier(catalogTier)
		if !tier.Valid() || tier == contracts.TierUnknown {
			return fmt.Errorf("unknown tier %q", catalogTier)
		}
		entries = cat.ByTier(tier)
	}

	out := cmd.OutOrStdout()
	widths := []int{26, 12, 10, 8, 9}
	PrintTableHeader(out, []string{"SIGNAL", "TIER", "RISK", "CONF", "TRADEABLE"}, widths)
	for _, e := range entries {
		t := classifier.Classify(e.ID)
		PrintTableRow(out, []string{
			string(e.ID), string(e.Tier), string(e.RiskLevel), string(e.Confidence), fmt.Sprintf("%t", t.Tradeable),
		}, widths)
	}
	fmt.Fprintf(out, "\n%d signals\n", len(entries))
	return nil
}
