package verdict

import (
	"fmt"
	"math"

	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/internal/ruleset"
)

// Check names reported in the speculative test breakdown
const (
	TestMomentum        = "Momentum"
	TestTrend           = "Trend significance"
	TestMeanReversion   = "Mean reversion"
	TestRegimeStability = "Regime stability"
	TestVolumePrice     = "Volume confirmation"
)

// Analyzer measures snapshot metrics against the rule-set thresholds.
// Metrics that are absent (nil) are skipped in every path.
type Analyzer struct {
	rules *ruleset.RuleSet
}

// NewAnalyzer creates an analyzer bound to one rule set
func NewAnalyzer(rules *ruleset.RuleSet) *Analyzer {
	return &Analyzer{rules: rules}
}

// Checks evaluates the rejection checks in order: predictability, regime
// stability, edge vs friction, momentum, volume-price. Passed checks are included.
func (a *Analyzer) Checks(s *contracts.SignalSnapshot, friction contracts.FrictionResult) []contracts.ValidationCheck {
	r := a.rules
	var checks []contracts.ValidationCheck

	if s.PredictabilityScore != nil {
		score := *s.PredictabilityScore
		checks = append(checks, contracts.ValidationCheck{
			Metric:    "Predictability",
			Observed:  fmt.Sprintf("%d/%d", score, r.Predictability.Scale),
			Threshold: fmt.Sprintf(">= %d/%d", r.Predictability.MinScore, r.Predictability.Scale),
			Message:   fmt.Sprintf("Only %d of %d statistical tests detected a pattern", score, r.Predictability.Scale),
			Passed:    score >= r.Predictability.MinScore,
		})
	}

	if s.RegimeStability != nil {
		stab := *s.RegimeStability
		msg := fmt.Sprintf("Pattern weakened out-of-sample (%.1f%% of in-sample strength)", stab*100)
		if stab == 0 {
			msg = "Regime stability 0%: momentum reversed out-of-sample"
		}
		checks = append(checks, contracts.ValidationCheck{
			Metric:    "Regime stability",
			Observed:  fmt.Sprintf("%.1f%%", stab*100),
			Threshold: fmt.Sprintf(">= %.0f%%", r.Regime.StabilityMin*100),
			Message:   msg,
			Passed:    stab >= r.Regime.StabilityMin,
		})
	}

	if s.ExpectedEdgePct != nil {
		checks = append(checks, contracts.ValidationCheck{
			Metric:    "Edge vs friction",
			Observed:  fmt.Sprintf("%.1fx", friction.EdgeToFrictionRatio),
			Threshold: fmt.Sprintf("> %.0fx", MinEdgeToFriction),
			Message: fmt.Sprintf("Expected edge %.2f%% covers only %.1fx the %.2f%% round-trip friction",
				friction.EdgePct, friction.EdgeToFrictionRatio, friction.TotalFrictionPct),
			Passed: friction.EdgeCoversCosts,
		})
	}

	if s.MomentumCorr != nil {
		corr := *s.MomentumCorr
		checks = append(checks, contracts.ValidationCheck{
			Metric:    "Momentum",
			Observed:  fmt.Sprintf("%.3f", corr),
			Threshold: fmt.Sprintf("|corr| > %.2f", r.Momentum.AbsCorrMin),
			Message:   "Momentum correlation too weak to persist",
			Passed:    math.Abs(corr) > r.Momentum.AbsCorrMin,
		})
	}

	if r.VolumePrice.Enabled && s.VPConfirming != nil {
		observed := "n/a"
		if s.VPRatio != nil {
			observed = fmt.Sprintf("%.2fx", *s.VPRatio)
		}
		checks = append(checks, contracts.ValidationCheck{
			Metric:    "Volume-price",
			Observed:  observed,
			Threshold: "volume confirms price",
			Message:   "Volume does not confirm the price move",
			Passed:    *s.VPConfirming,
		})
	}

	return checks
}

// Failures returns only the failed checks, in check order
func (a *Analyzer) Failures(s *contracts.SignalSnapshot, friction contracts.FrictionResult) []contracts.ValidationCheck {
	var failed []contracts.ValidationCheck
	for _, c := range a.Checks(s, friction) {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// ClassifyTests splits the individual statistical tests into passed and failed
func (a *Analyzer) ClassifyTests(s *contracts.SignalSnapshot) contracts.TestBreakdown {
	r := a.rules
	out := contracts.TestBreakdown{Passed: []string{}, Failed: []string{}}

	record := func(name string, ok bool) {
		if ok {
			out.Passed = append(out.Passed, name)
		} else {
			out.Failed = append(out.Failed, name)
		}
	}

	if s.MomentumCorr != nil {
		record(TestMomentum, math.Abs(*s.MomentumCorr) > r.Momentum.AbsCorrMin)
	}

	switch {
	case s.HurstSignificant != nil:
		record(TestTrend, *s.HurstSignificant)
	case s.Hurst != nil:
		h := *s.Hurst
		record(TestTrend, h > r.Hurst.TrendingAbove || h < r.Hurst.MeanRevertingBelow)
	}

	if s.MeanRevUp != nil && s.MeanRevDown != nil {
		m := r.MeanReversion.MagnitudeMin
		record(TestMeanReversion, math.Abs(*s.MeanRevUp) > m && math.Abs(*s.MeanRevDown) > m)
	}

	if s.RegimeStability != nil {
		record(TestRegimeStability, *s.RegimeStability >= r.Regime.StabilityMin)
	}

	if r.VolumePrice.Enabled && s.VPConfirming != nil {
		record(TestVolumePrice, *s.VPConfirming)
	}

	return out
}
