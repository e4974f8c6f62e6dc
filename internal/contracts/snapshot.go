package contracts

// SignalSnapshot is the per-instrument indicator bundle delivered by the upstream analysis service
// ⭐ SSOT: upstream → engine 입력 데이터
// Every metric is nullable; an absent JSON key decodes identically to an explicit null.
type SignalSnapshot struct {
	Ticker string `json:"ticker,omitempty"`

	// Statistical tests
	PredictabilityScore *int     `json:"predictability_score"` // 0~5 (extended), 0~4 (base)
	RegimeStability     *float64 `json:"regime_stability"`     // 0~1, out-of-sample persistence
	MomentumCorr        *float64 `json:"momentum_corr"`
	MomentumCorrOOS     *float64 `json:"momentum_corr_oos"`
	Hurst               *float64 `json:"hurst"`
	HurstOOS            *float64 `json:"hurst_oos"`
	HurstSignificant    *bool    `json:"hurst_significant"`
	MeanRevUp           *float64 `json:"mean_rev_up"`   // next-window return after a large up move
	MeanRevDown         *float64 `json:"mean_rev_down"` // next-window return after a large down move
	ZEMA                *float64 `json:"z_ema"`
	VPConfirming        *bool    `json:"vp_confirming"` // nil: unknown
	VPRatio             *float64 `json:"vp_ratio"`
	TrendDirection      Trend    `json:"trend_direction"`
	Volatility          *float64 `json:"volatility"` // annualized %
	Sharpe              *float64 `json:"sharpe"`

	// Position sizing (already computed upstream)
	SuggestedShares    *int     `json:"suggested_shares"`
	StopLossPrice      *float64 `json:"stop_loss_price"`
	PositionRiskAmount *float64 `json:"position_risk_amount"`
	RiskPerTrade       *float64 `json:"risk_per_trade"` // fraction of account
	Current            *float64 `json:"current"`

	// Liquidity & friction
	AvgDailyVolume       *float64 `json:"avg_daily_volume"`
	PositionSizeVsVolume *float64 `json:"position_size_vs_volume"` // fraction of daily volume
	AmihudIlliquidity    *float64 `json:"amihud_illiquidity"`
	EstimatedSlippagePct *float64 `json:"estimated_slippage_pct"` // percent, 0.05 = 0.05%
	ExpectedEdgePct      *float64 `json:"expected_edge_pct"`      // annualized percent
	LiquidityWarning     *string  `json:"liquidity_warning"`
	LiquidityFailed      *bool    `json:"liquidity_failed"`

	// Verdict & quality
	FinalSignal       SignalID           `json:"final_signal"`
	TradeQuality      *float64           `json:"trade_quality"`
	QualityComponents *QualityComponents `json:"quality_components"`
	QualityLabel      *string            `json:"quality_label"`
}

// Trend is the 1-year trend direction
type Trend string

const (
	TrendUp      Trend = "UP"
	TrendDown    Trend = "DOWN"
	TrendNeutral Trend = "NEUTRAL"
)

// QualityComponents are the five setup-quality sub-scores, each 0~2
type QualityComponents struct {
	TrendAlignment     float64 `json:"trend_alignment"`
	EntryTiming        float64 `json:"entry_timing"`
	SharpeQuality      float64 `json:"sharpe_quality"`
	VolatilityFit      float64 `json:"volatility_fit"`
	VolumeConfirmation float64 `json:"volume_confirmation"`
}

// Sum returns the unrounded component total
func (q QualityComponents) Sum() float64 {
	return q.TrendAlignment + q.EntryTiming + q.SharpeQuality + q.VolatilityFit + q.VolumeConfirmation
}

// EvaluationParams are the caller-supplied settings that accompany every evaluation
type EvaluationParams struct {
	TransactionCost float64 `json:"transaction_cost"` // fraction per trade (0.001 = 0.1%)
	AccountSize     float64 `json:"account_size"`
}

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v
func Int(v int) *int { return &v }

// Bool returns a pointer to v
func Bool(v bool) *bool { return &v }

// String returns a pointer to v
func String(v string) *string { return &v }

// Clone returns a deep copy; no pointer field is shared with s
func (s *SignalSnapshot) Clone() *SignalSnapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.PredictabilityScore = clonePtr(s.PredictabilityScore)
	c.RegimeStability = clonePtr(s.RegimeStability)
	c.MomentumCorr = clonePtr(s.MomentumCorr)
	c.MomentumCorrOOS = clonePtr(s.MomentumCorrOOS)
	c.Hurst = clonePtr(s.Hurst)
	c.HurstOOS = clonePtr(s.HurstOOS)
	c.HurstSignificant = clonePtr(s.HurstSignificant)
	c.MeanRevUp = clonePtr(s.MeanRevUp)
	c.MeanRevDown = clonePtr(s.MeanRevDown)
	c.ZEMA = clonePtr(s.ZEMA)
	c.VPConfirming = clonePtr(s.VPConfirming)
	c.VPRatio = clonePtr(s.VPRatio)
	c.Volatility = clonePtr(s.Volatility)
	c.Sharpe = clonePtr(s.Sharpe)
	c.SuggestedShares = clonePtr(s.SuggestedShares)
	c.StopLossPrice = clonePtr(s.StopLossPrice)
	c.PositionRiskAmount = clonePtr(s.PositionRiskAmount)
	c.RiskPerTrade = clonePtr(s.RiskPerTrade)
	c.Current = clonePtr(s.Current)
	c.AvgDailyVolume = clonePtr(s.AvgDailyVolume)
	c.PositionSizeVsVolume = clonePtr(s.PositionSizeVsVolume)
	c.AmihudIlliquidity = clonePtr(s.AmihudIlliquidity)
	c.EstimatedSlippagePct = clonePtr(s.EstimatedSlippagePct)
	c.ExpectedEdgePct = clonePtr(s.ExpectedEdgePct)
	c.LiquidityWarning = clonePtr(s.LiquidityWarning)
	c.LiquidityFailed = clonePtr(s.LiquidityFailed)
	c.TradeQuality = clonePtr(s.TradeQuality)
	c.QualityComponents = clonePtr(s.QualityComponents)
	c.QualityLabel = clonePtr(s.QualityLabel)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
