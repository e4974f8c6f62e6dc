package ruleset

import (
	"fmt"
	"regexp"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validate checks all required constraints
func Validate(rs *RuleSet) error {
	// === Meta ===
	if !idPattern.MatchString(rs.Meta.ID) {
		return ValidationError{"meta.id", "must match [a-z][a-z0-9_]*"}
	}
	if rs.Meta.Version < 1 {
		return ValidationError{"meta.version", "must be >= 1"}
	}

	// === Predictability ===
	p := rs.Predictability
	if p.Scale < 1 {
		return ValidationError{"predictability.scale", "must be >= 1"}
	}
	if p.MinScore < 0 || p.MinScore > p.Scale {
		return ValidationError{"predictability.min_score", fmt.Sprintf("must be in [0, %d]", p.Scale)}
	}
	if p.HighConvictionMin < p.MinScore || p.HighConvictionMin > p.Scale {
		return ValidationError{"predictability.high_conviction_min", "must satisfy min_score <= high_conviction_min <= scale"}
	}

	// === Ranges ===
	if err := validateUnit(rs.Regime.StabilityMin, "regime.stability_min"); err != nil {
		return err
	}
	if err := validateUnit(rs.Momentum.AbsCorrMin, "momentum.abs_corr_min"); err != nil {
		return err
	}
	if rs.MeanReversion.MagnitudeMin < 0 || rs.MeanReversion.MagnitudeMin > 0.1 {
		return ValidationError{"mean_reversion.magnitude_min", "must be in [0, 0.1]"}
	}

	h := rs.Hurst
	if err := validateUnit(h.TrendingAbove, "hurst.trending_above"); err != nil {
		return err
	}
	if err := validateUnit(h.MeanRevertingBelow, "hurst.mean_reverting_below"); err != nil {
		return err
	}
	if h.MeanRevertingBelow > h.TrendingAbove {
		return ValidationError{"hurst", "mean_reverting_below must be <= trending_above"}
	}

	if rs.Friction.DefaultSlippagePct < 0 || rs.Friction.DefaultSlippagePct > 5 {
		return ValidationError{"friction.default_slippage_pct", "must be in [0, 5]"}
	}

	// === Speculative tier needs room below high conviction ===
	if rs.Speculative.Enabled && p.HighConvictionMin == p.MinScore {
		return ValidationError{"speculative", "enabled but high_conviction_min == min_score leaves no speculative band"}
	}

	// === Ranking ===
	seen := make(map[string]bool, len(rs.Ranking.SignalBonuses))
	for i, b := range rs.Ranking.SignalBonuses {
		if b.Signal == "" {
			return ValidationError{fmt.Sprintf("ranking.signal_bonuses[%d].signal", i), "required"}
		}
		if seen[b.Signal] {
			return ValidationError{fmt.Sprintf("ranking.signal_bonuses[%d]", i), fmt.Sprintf("duplicate signal %s", b.Signal)}
		}
		seen[b.Signal] = true
	}
	if rs.Ranking.EdgeBonusCap < 0 {
		return ValidationError{"ranking.edge_bonus_cap", "must be >= 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(rs *RuleSet) []Warning {
	var warnings []Warning

	if !rs.VolumePrice.Enabled {
		warnings = append(warnings, Warning{
			Code:    "VP_CHECK_DISABLED",
			Message: "volume-price confirmation is not checked; rejections will not mention it",
		})
	}

	if rs.Momentum.AbsCorrMin < 0.05 {
		warnings = append(warnings, Warning{
			Code:    "LOOSE_MOMENTUM",
			Message: fmt.Sprintf("momentum cutoff %.2f is below 0.05; noise may pass as signal", rs.Momentum.AbsCorrMin),
		})
	}

	if rs.Regime.StabilityMin < 0.5 {
		warnings = append(warnings, Warning{
			Code:    "LOOSE_STABILITY",
			Message: "regime stability below 0.5 accepts patterns that halve out-of-sample",
		})
	}

	return warnings
}

func validateUnit(v float64, field string) error {
	if v < 0 || v > 1 {
		return ValidationError{field, "must be in range [0, 1]"}
	}
	return nil
}
