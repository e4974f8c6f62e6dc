package ruleset

const (
	ExtendedID = "extended_v2"
	BaseID     = "base_v1"
)

// Extended returns the canonical rule set: 5-test predictability scale,
// volume-price confirmation and the SPECULATIVE tier.
func Extended() *RuleSet {
	return &RuleSet{
		Meta: Meta{
			ID:          ExtendedID,
			Version:     2,
			Description: "5-test scale with volume-price confirmation and speculative tier",
		},
		Predictability: Predictability{MinScore: 2, Scale: 5, HighConvictionMin: 3},
		Regime:         Regime{StabilityMin: 0.5},
		Momentum:       Momentum{AbsCorrMin: 0.08},
		MeanReversion:  MeanReversion{MagnitudeMin: 0.003},
		Hurst:          Hurst{TrendingAbove: 0.55, MeanRevertingBelow: 0.45},
		VolumePrice:    Toggle{Enabled: true},
		Speculative:    Toggle{Enabled: true},
		Friction:       Friction{DefaultSlippagePct: 0.05},
		Ranking:        defaultRanking(),
	}
}

// Base returns the older 4-test generation kept for comparison runs
func Base() *RuleSet {
	return &RuleSet{
		Meta: Meta{
			ID:          BaseID,
			Version:     1,
			Description: "4-test scale without volume-price confirmation",
		},
		Predictability: Predictability{MinScore: 3, Scale: 4, HighConvictionMin: 3},
		Regime:         Regime{StabilityMin: 0.7},
		Momentum:       Momentum{AbsCorrMin: 0.1},
		MeanReversion:  MeanReversion{MagnitudeMin: 0.005},
		Hurst:          Hurst{TrendingAbove: 0.55, MeanRevertingBelow: 0.45},
		VolumePrice:    Toggle{Enabled: false},
		Speculative:    Toggle{Enabled: false},
		Friction:       Friction{DefaultSlippagePct: 0.05},
		Ranking:        defaultRanking(),
	}
}

// ByID returns a built-in rule set
func ByID(id string) (*RuleSet, bool) {
	switch id {
	case ExtendedID, "":
		return Extended(), true
	case BaseID:
		return Base(), true
	}
	return nil, false
}

func defaultRanking() Ranking {
	return Ranking{
		PredictabilityWeight:  10,
		StabilityWeight:       20,
		EdgeBonusSlope:        4,
		EdgeBonusCap:          20,
		LiquidityBonus:        10,
		HighVolatilityPct:     50,
		HighVolatilityPenalty: 5,
		SignalBonuses: []SignalBonus{
			{Signal: "BUY_UPTREND", Bonus: 20},
			{Signal: "BUY_PULLBACK", Bonus: 20},
			{Signal: "SHORT_DOWNTREND", Bonus: 18},
			{Signal: "BUY_MOMENTUM", Bonus: 15},
			{Signal: "SHORT_MOMENTUM", Bonus: 15},
			{Signal: "SHORT_BOUNCES_ONLY", Bonus: 12},
			{Signal: "SPEC_BUY_UPTREND", Bonus: 10},
			{Signal: "SPEC_BUY_PULLBACK", Bonus: 10},
			{Signal: "SPEC_SHORT_DOWNTREND", Bonus: 9},
			{Signal: "SPEC_BUY_MOMENTUM", Bonus: 7},
			{Signal: "SPEC_SHORT_MOMENTUM", Bonus: 7},
			{Signal: "SPEC_SHORT_BOUNCES_ONLY", Bonus: 6},
			{Signal: "WAIT_PULLBACK", Bonus: 8},
			{Signal: "WAIT_SHORT_BOUNCE", Bonus: 8},
			{Signal: "WAIT_OR_SHORT_BOUNCE", Bonus: 5},
			{Signal: "WAIT_FOR_REVERSAL", Bonus: 5},
			{Signal: "WAIT_FOR_TREND", Bonus: 3},
			{Signal: "NO_CLEAR_SIGNAL", Bonus: 0},
			{Signal: "DO_NOT_TRADE", Bonus: -50},
		},
	}
}
