package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "업스트림 스냅샷 수집",
	Long: `업스트림 분석 서비스에서 스냅샷 배열(JSON)을 가져와 저장합니다.
저장된 종목의 판정/랭킹 캐시는 자동으로 무효화됩니다.

Example:
  go run ./cmd/stockaura import
  go run ./cmd/stockaura import --url http://analysis:8000/snapshots`,
	RunE: runImport,
}

var importURL string

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importURL, "url", "", "snapshot feed URL (default: UPSTREAM_URL)")
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	imp, err := a.newImporter(importURL)
	if err != nil {
		return err
	}

	res, err := imp.Import(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	PrintSuccess(out, fmt.Sprintf("Imported %d of %d snapshots", res.Stored, res.Fetched))
	if res.Skipped > 0 {
		PrintWarning(out, fmt.Sprintf("%d snapshots had no ticker and were skipped", res.Skipped))
	}
	return nil
}
