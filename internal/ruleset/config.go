package ruleset

// RuleSet is one versioned generation of verdict thresholds
// ⭐ SSOT: 판정 임계값은 여기서만 정의
type RuleSet struct {
	Meta           Meta           `yaml:"meta" json:"meta"`
	Predictability Predictability `yaml:"predictability" json:"predictability"`
	Regime         Regime         `yaml:"regime" json:"regime"`
	Momentum       Momentum       `yaml:"momentum" json:"momentum"`
	MeanReversion  MeanReversion  `yaml:"mean_reversion" json:"mean_reversion"`
	Hurst          Hurst          `yaml:"hurst" json:"hurst"`
	VolumePrice    Toggle         `yaml:"volume_price" json:"volume_price"`
	Speculative    Toggle         `yaml:"speculative" json:"speculative"`
	Friction       Friction       `yaml:"friction" json:"friction"`
	Ranking        Ranking        `yaml:"ranking" json:"ranking"`
}

// Meta identifies the rule set
type Meta struct {
	ID          string `yaml:"id" json:"id"`
	Version     int    `yaml:"version" json:"version"`
	Description string `yaml:"description" json:"description"`
}

// Predictability is the count of statistical tests passed upstream
type Predictability struct {
	MinScore          int `yaml:"min_score" json:"min_score"`                     // below: rejection
	Scale             int `yaml:"scale" json:"scale"`                             // number of tests
	HighConvictionMin int `yaml:"high_conviction_min" json:"high_conviction_min"` // below: tradeable verdicts carry an advisory
}

type Regime struct {
	StabilityMin float64 `yaml:"stability_min" json:"stability_min"`
}

type Momentum struct {
	AbsCorrMin float64 `yaml:"abs_corr_min" json:"abs_corr_min"` // |corr| must exceed
}

type MeanReversion struct {
	MagnitudeMin float64 `yaml:"magnitude_min" json:"magnitude_min"` // both sides, fraction (0.003 = 0.3%)
}

type Hurst struct {
	TrendingAbove      float64 `yaml:"trending_above" json:"trending_above"`
	MeanRevertingBelow float64 `yaml:"mean_reverting_below" json:"mean_reverting_below"`
}

type Toggle struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

type Friction struct {
	DefaultSlippagePct float64 `yaml:"default_slippage_pct" json:"default_slippage_pct"` // percent
}

// Ranking weights the composite opportunity score
type Ranking struct {
	PredictabilityWeight  float64       `yaml:"predictability_weight" json:"predictability_weight"`
	StabilityWeight       float64       `yaml:"stability_weight" json:"stability_weight"`
	EdgeBonusSlope        float64       `yaml:"edge_bonus_slope" json:"edge_bonus_slope"`
	EdgeBonusCap          float64       `yaml:"edge_bonus_cap" json:"edge_bonus_cap"`
	LiquidityBonus        float64       `yaml:"liquidity_bonus" json:"liquidity_bonus"`
	HighVolatilityPct     float64       `yaml:"high_volatility_pct" json:"high_volatility_pct"`
	HighVolatilityPenalty float64       `yaml:"high_volatility_penalty" json:"high_volatility_penalty"`
	SignalBonuses         []SignalBonus `yaml:"signal_bonuses" json:"signal_bonuses"`
}

// SignalBonus is a per-signal ranking adjustment (list, not map, for hash stability)
type SignalBonus struct {
	Signal string  `yaml:"signal" json:"signal"`
	Bonus  float64 `yaml:"bonus" json:"bonus"`
}

// BonusFor returns the ranking bonus for a signal (0 when not listed)
func (r Ranking) BonusFor(signal string) float64 {
	for _, b := range r.SignalBonuses {
		if b.Signal == signal {
			return b.Bonus
		}
	}
	return 0
}
