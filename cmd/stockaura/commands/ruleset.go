package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonny/stockaura/internal/ruleset"
)

// rulesetCmd represents the ruleset command
var rulesetCmd = &cobra.Command{
	Use:   "ruleset",
	Short: "판정 규칙 세트 관리",
	Long: `판정 임계값 세트(YAML)를 확인하고 검증합니다.

Subcommands:
  show      - 규칙 세트 출력 (YAML)
  validate  - YAML 파일 검증 + 경고 출력
  hash      - 규칙 세트 해시 (SHA256)

Example:
  go run ./cmd/stockaura ruleset show --ruleset base_v1
  go run ./cmd/stockaura ruleset validate config/ruleset/extended_v2.yaml`,
}

var (
	rulesetShowCmd = &cobra.Command{
		Use:   "show",
		Short: "규칙 세트 출력",
		RunE:  runRuleSetShow,
	}

	rulesetValidateCmd = &cobra.Command{
		Use:   "validate [path]",
		Short: "YAML 규칙 세트 검증",
		Args:  cobra.ExactArgs(1),
		RunE:  runRuleSetValidate,
	}

	rulesetHashCmd = &cobra.Command{
		Use:   "hash",
		Short: "규칙 세트 해시",
		RunE:  runRuleSetHash,
	}
)

func init() {
	rootCmd.AddCommand(rulesetCmd)
	rulesetCmd.AddCommand(rulesetShowCmd, rulesetValidateCmd, rulesetHashCmd)
}

func runRuleSetShow(cmd *cobra.Command, args []string) error {
	rs, err := resolveRuleSet("")
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(rs)
}

func runRuleSetValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	rs, _, err := ruleset.Load(args[0])
	if err != nil {
		PrintError(out, err.Error())
		return fmt.Errorf("invalid rule set %s", args[0])
	}

	PrintSuccess(out, fmt.Sprintf("%s v%d is valid", rs.Meta.ID, rs.Meta.Version))
	for _, w := range ruleset.Warn(rs) {
		PrintWarning(out, fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}
	return nil
}

func runRuleSetHash(cmd *cobra.Command, args []string) error {
	rs, err := resolveRuleSet("")
	if err != nil {
		return err
	}

	h, err := ruleset.Hash(rs)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", h, rs.Meta.ID)
	return nil
}
