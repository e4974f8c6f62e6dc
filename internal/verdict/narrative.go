package verdict

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/internal/ruleset"
)

// 서술 문구 임계값
const (
	stabilityWeak     = 0.6
	stabilityDegraded = 0.8
	oosDriftMax       = 0.1
)

// Narrate builds the human-readable context lines for a snapshot
func Narrate(s *contracts.SignalSnapshot, rules *ruleset.RuleSet) contracts.Narratives {
	return contracts.Narratives{
		Momentum:      momentumNarrative(s, rules.Momentum.AbsCorrMin),
		Regime:        regimeNarrative(s, rules.Hurst),
		PricePosition: pricePositionNarrative(s),
	}
}

func momentumNarrative(s *contracts.SignalSnapshot, minCorr float64) string {
	if s.MomentumCorr == nil {
		return ""
	}
	corr := *s.MomentumCorr

	var b strings.Builder
	switch {
	case corr > minCorr:
		fmt.Fprintf(&b, "Momentum detected: recent moves tend to continue (corr %.3f).", corr)
	case corr < -minCorr:
		fmt.Fprintf(&b, "Mean reversion detected: recent moves tend to reverse (corr %.3f).", corr)
	default:
		fmt.Fprintf(&b, "No clear momentum pattern (corr %.3f).", corr)
	}

	if s.MomentumCorrOOS != nil {
		oos := *s.MomentumCorrOOS
		switch {
		case corr*oos < 0:
			fmt.Fprintf(&b, " Warning: direction reversed out-of-sample (%.3f).", oos)
		case math.Abs(corr-oos) > oosDriftMax:
			fmt.Fprintf(&b, " Correlation unstable out-of-sample (%.3f).", oos)
		default:
			b.WriteString(" Stable out-of-sample.")
		}
	}
	return b.String()
}

func regimeNarrative(s *contracts.SignalSnapshot, h ruleset.Hurst) string {
	var parts []string

	if s.RegimeStability != nil {
		pct := *s.RegimeStability * 100
		switch {
		case *s.RegimeStability < stabilityWeak:
			parts = append(parts, fmt.Sprintf("Pattern NOT stable out-of-sample (%.0f%%)", pct))
		case *s.RegimeStability < stabilityDegraded:
			parts = append(parts, fmt.Sprintf("Some pattern degradation out-of-sample (%.0f%%)", pct))
		default:
			parts = append(parts, fmt.Sprintf("Pattern stable out-of-sample (%.0f%%)", pct))
		}
	}

	if s.Hurst != nil {
		switch {
		case *s.Hurst > h.TrendingAbove:
			parts = append(parts, fmt.Sprintf("trending regime (H=%.2f)", *s.Hurst))
		case *s.Hurst < h.MeanRevertingBelow:
			parts = append(parts, fmt.Sprintf("mean-reverting regime (H=%.2f)", *s.Hurst))
		default:
			parts = append(parts, fmt.Sprintf("random-walk regime (H=%.2f)", *s.Hurst))
		}
	}

	return strings.Join(parts, "; ")
}

func pricePositionNarrative(s *contracts.SignalSnapshot) string {
	if s.ZEMA == nil {
		return ""
	}
	z := *s.ZEMA

	switch s.TrendDirection {
	case contracts.TrendUp:
		switch {
		case z > 1.0:
			return fmt.Sprintf("Extended above EMA (z=%.2f): overbought, wait for a pullback", z)
		case z > -0.5:
			return fmt.Sprintf("Near EMA (z=%.2f): in the entry zone", z)
		default:
			return fmt.Sprintf("Below EMA (z=%.2f): dip within the uptrend", z)
		}
	case contracts.TrendDown:
		switch {
		case z < -1.0:
			return fmt.Sprintf("Extended below EMA (z=%.2f): oversold, wait for a bounce", z)
		case z < 0.5:
			return fmt.Sprintf("Near EMA (z=%.2f): in the short entry zone", z)
		default:
			return fmt.Sprintf("Above EMA (z=%.2f): bounce within the downtrend", z)
		}
	default:
		if math.Abs(z) > 1.0 {
			return fmt.Sprintf("Stretched from EMA (z=%.2f) without a clear trend", z)
		}
		return fmt.Sprintf("Price near its EMA (z=%.2f)", z)
	}
}
