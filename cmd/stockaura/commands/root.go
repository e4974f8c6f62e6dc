package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/stockaura/internal/ruleset"
)

var (
	// Global flags
	ruleSetFlag string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockaura",
	Short: "stockaura - 시그널 스냅샷 판정 엔진",
	Long: `stockaura Unified CLI

Turns upstream signal snapshots into trade verdicts:
tier, tradeability, friction, position plan and quality.

Usage:
  go run ./cmd/stockaura [command]

Examples:
  go run ./cmd/stockaura api
  go run ./cmd/stockaura evaluate --file snapshot.json
  go run ./cmd/stockaura catalog --tier WAIT
  go run ./cmd/stockaura ruleset validate config/ruleset/extended_v2.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&ruleSetFlag, "ruleset", "", "rule set id (extended_v2, base_v1) or YAML path (default: RULESET_PATH or extended_v2)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// resolveRuleSet picks the rule set from --ruleset, then fallbackPath, then the built-in default
func resolveRuleSet(fallbackPath string) (*ruleset.RuleSet, error) {
	arg := ruleSetFlag
	if arg == "" {
		arg = fallbackPath
	}
	if rs, ok := ruleset.ByID(arg); ok {
		return rs, nil
	}
	return ruleset.Resolve(arg)
}
