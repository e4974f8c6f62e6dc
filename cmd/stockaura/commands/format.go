package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/stockaura/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	separator       = "───────────────────────────────────────────────────────────"
	doubleSeparator = "═══════════════════════════════════════════════════════════"
)

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, separator)
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, doubleSeparator)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, message string) {
	fmt.Fprintf(w, "ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(w io.Writer, values []string, widths []int) {
	for i, val := range values {
		fmt.Fprintf(w, "%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Fprint(w, "  ")
		}
	}
	fmt.Fprintln(w)
}

// PrintList prints a bulleted list
func PrintList(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "   • %s\n", item)
	}
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

func tierIcon(t contracts.VerdictTier) string {
	switch t {
	case contracts.TierTradeable:
		return "✅"
	case contracts.TierSpeculative:
		return "🟡"
	case contracts.TierWait:
		return "⏸️ "
	case contracts.TierDoNotTrade:
		return "⛔"
	default:
		return "❔"
	}
}

func optFloat(v *float64, format string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *v)
}

// PrintVerdict renders a verdict as the human-readable report
func PrintVerdict(w io.Writer, vm *contracts.VerdictViewModel) {
	const kw = 14

	fmt.Fprintln(w)
	PrintDoubleSeparator(w)
	title := vm.Signal.ActionText
	if vm.Ticker != "" {
		title = vm.Ticker + "  " + title
	}
	fmt.Fprintf(w, "  %s %s\n", tierIcon(vm.Signal.Tier), title)
	PrintSeparator(w)
	PrintKeyValue(w, "Signal", string(vm.Signal.ID), kw)
	PrintKeyValue(w, "Tier", string(vm.Signal.Tier), kw)
	PrintKeyValue(w, "Risk", string(vm.Signal.RiskLevel), kw)
	PrintKeyValue(w, "Confidence", string(vm.Signal.Confidence), kw)
	PrintKeyValue(w, "Tradeable", fmt.Sprintf("%t (%s)", vm.Tradeability.Tradeable, vm.Tradeability.Confidence), kw)
	PrintKeyValue(w, "Rule set", vm.RuleSet, kw)
	fmt.Fprintf(w, "\n   %s\n", vm.Signal.Narrative)

	if len(vm.FailureReasons) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "   Failed checks:")
		items := make([]string, 0, len(vm.FailureReasons))
		for _, c := range vm.FailureReasons {
			items = append(items, fmt.Sprintf("%s: %s (threshold %s)", c.Metric, c.Observed, c.Threshold))
		}
		PrintList(w, items)
	}

	if vm.Tests != nil {
		fmt.Fprintln(w)
		PrintKeyValue(w, "Passed", strings.Join(vm.Tests.Passed, ", "), kw)
		PrintKeyValue(w, "Failed", strings.Join(vm.Tests.Failed, ", "), kw)
	}
	for _, a := range vm.Advisories {
		PrintWarning(w, a)
	}

	fmt.Fprintln(w)
	PrintSeparator(w)
	f := vm.Friction
	PrintKeyValue(w, "Friction", fmt.Sprintf("%.3f%% round trip", f.TotalFrictionPct), kw)
	PrintKeyValue(w, "Edge", fmt.Sprintf("%.2f%% (%.1fx friction)", f.EdgePct, f.EdgeToFrictionRatio), kw)
	if !f.EdgeCoversCosts {
		PrintWarning(w, "Edge does not cover trading costs")
	}

	p := vm.Position
	if p.Executable {
		PrintKeyValue(w, "Position", fmt.Sprintf("%d @ %.2f = %.2f", p.Shares, p.EntryPrice, p.PositionValue), kw)
		PrintKeyValue(w, "Stop", optFloat(p.StopLossPrice, "%.2f"), kw)
		PrintKeyValue(w, "Risk", optFloat(p.RiskAmount, "%.2f"), kw)
	} else {
		PrintKeyValue(w, "Position", p.Note, kw)
	}

	if vm.Quality != nil {
		PrintKeyValue(w, "Quality", fmt.Sprintf("%.1f/10 (%s)", vm.Quality.Score, vm.Quality.Label), kw)
	}
	PrintKeyValue(w, "Liquidity", string(vm.Liquidity.Score), kw)
	if vm.Liquidity.Warning != "" {
		PrintWarning(w, vm.Liquidity.Warning)
	}

	n := vm.Narratives
	if n.Momentum != "" || n.Regime != "" || n.PricePosition != "" {
		fmt.Fprintln(w)
		for _, line := range []string{n.Momentum, n.Regime, n.PricePosition} {
			if line != "" {
				fmt.Fprintf(w, "   %s\n", line)
			}
		}
	}
	PrintDoubleSeparator(w)
}
