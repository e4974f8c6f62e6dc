package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/internal/verdict"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "스냅샷 하나를 판정",
	Long: `시그널 스냅샷(JSON) 하나를 읽어 판정 결과를 출력합니다.
DB나 Redis 없이 엔진만 실행합니다.

Example:
  go run ./cmd/stockaura evaluate --file snapshot.json
  cat snapshot.json | go run ./cmd/stockaura evaluate --file - --json
  go run ./cmd/stockaura evaluate --file snapshot.json --cost 0.002 --account 50000`,
	RunE: runEvaluate,
}

var (
	evalFile    string
	evalCost    float64
	evalAccount float64
	evalJSON    bool
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evalFile, "file", "f", "-", "snapshot JSON file (- for stdin)")
	evaluateCmd.Flags().Float64Var(&evalCost, "cost", 0.001, "transaction cost per trade (fraction)")
	evaluateCmd.Flags().Float64Var(&evalAccount, "account", 10000, "account size")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "print the verdict as JSON")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	rules, err := resolveRuleSet("")
	if err != nil {
		return err
	}

	var snap contracts.SignalSnapshot
	if err := readJSON(cmd.InOrStdin(), evalFile, &snap); err != nil {
		return err
	}

	params := contracts.EvaluationParams{TransactionCost: evalCost, AccountSize: evalAccount}
	if err := checkParams(params); err != nil {
		return err
	}

	vm := verdict.NewEngine(rules).Evaluate(&snap, params)

	out := cmd.OutOrStdout()
	if evalJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(vm)
	}
	PrintVerdict(out, vm)
	return nil
}

func checkParams(p contracts.EvaluationParams) error {
	if p.TransactionCost < 0 || p.TransactionCost >= 0.1 {
		return fmt.Errorf("--cost must be in [0, 0.1), got %g", p.TransactionCost)
	}
	if p.AccountSize <= 0 {
		return fmt.Errorf("--account must be positive, got %g", p.AccountSize)
	}
	return nil
}

// readJSON decodes path (or stdin when path is "-") into v
func readJSON(stdin io.Reader, path string, v interface{}) error {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
