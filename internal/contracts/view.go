package contracts

// ValidationCheck is one metric measured against its pass/fail threshold
type ValidationCheck struct {
	Metric    string `json:"metric"`
	Observed  string `json:"observed"`
	Threshold string `json:"threshold"`
	Message   string `json:"message"`
	Passed    bool   `json:"passed"`
}

// TestBreakdown groups check names by outcome (speculative tier only)
type TestBreakdown struct {
	Passed []string `json:"passed"`
	Failed []string `json:"failed"`
}

// FrictionResult is the round-trip cost and the edge measured against it
type FrictionResult struct {
	SlippagePct         float64 `json:"slippage_pct"`
	TotalFrictionPct    float64 `json:"total_friction_pct"`
	EdgePct             float64 `json:"edge_pct"`
	EdgeToFrictionRatio float64 `json:"edge_to_friction_ratio"`
	EdgeCoversCosts     bool    `json:"edge_covers_costs"`
}

// TradeConfidence is the classifier's confidence in its tradeable flag
type TradeConfidence string

const (
	TradeConfidenceHigh   TradeConfidence = "high"
	TradeConfidenceMedium TradeConfidence = "medium"
	TradeConfidenceLow    TradeConfidence = "low"
)

// Tradeability is the classifier verdict for a signal identifier
type Tradeability struct {
	Tradeable  bool            `json:"tradeable"`
	Reason     string          `json:"reason"`
	Confidence TradeConfidence `json:"confidence"`
}

// PositionPlan is the sizing summary for an evaluation
type PositionPlan struct {
	Executable       bool     `json:"executable"`
	Shares           int      `json:"shares"`
	EntryPrice       float64  `json:"entry_price"`
	PositionValue    float64  `json:"position_value"`
	StopLossPrice    *float64 `json:"stop_loss_price"`
	RiskPctOfEntry   *float64 `json:"risk_pct_of_entry"`
	RiskAmount       *float64 `json:"risk_amount"`
	RiskPctOfAccount *float64 `json:"risk_pct_of_account"`
	Note             string   `json:"note,omitempty"`
}

// QualityLabel grades a quality score
type QualityLabel string

const (
	QualityExcellent QualityLabel = "Excellent"
	QualityGood      QualityLabel = "Good"
	QualityFair      QualityLabel = "Fair"
	QualityPoor      QualityLabel = "Poor"
)

// QualityBreakdown is the composite setup-quality score
type QualityBreakdown struct {
	Score      float64           `json:"score"` // 0~10, one decimal
	Label      QualityLabel      `json:"label"`
	Components QualityComponents `json:"components"`
}

// LiquidityScore grades how easily the suggested position trades
type LiquidityScore string

const (
	LiquidityHigh    LiquidityScore = "HIGH"
	LiquidityMedium  LiquidityScore = "MEDIUM"
	LiquidityLow     LiquidityScore = "LOW"
	LiquidityUnknown LiquidityScore = "UNKNOWN"
)

// LiquidityAssessment summarises tradability at the suggested size
type LiquidityAssessment struct {
	Score   LiquidityScore `json:"score"`
	Warning string         `json:"warning,omitempty"`
	Failed  bool           `json:"failed"`
}

// Narratives are the human-readable context lines for the display layer
type Narratives struct {
	Momentum      string `json:"momentum,omitempty"`
	Regime        string `json:"regime,omitempty"`
	PricePosition string `json:"price_position,omitempty"`
}

// VerdictViewModel is the single immutable result of one evaluation
// ⭐ SSOT: engine → API/CLI 출력 데이터
type VerdictViewModel struct {
	Ticker       string           `json:"ticker,omitempty"`
	RuleSet      string           `json:"rule_set"`
	Params       EvaluationParams `json:"params"`
	Signal       CatalogEntry     `json:"signal"`
	Tradeability Tradeability     `json:"tradeability"`

	// DO_NOT_TRADE only
	FailureReasons []ValidationCheck `json:"failure_reasons,omitempty"`
	// SPECULATIVE only
	Tests *TestBreakdown `json:"tests,omitempty"`
	// Rule-set caveats (out-of-scope signal, below high conviction)
	Advisories []string `json:"advisories,omitempty"`

	Friction   FrictionResult      `json:"friction"`
	Position   PositionPlan        `json:"position"`
	Quality    *QualityBreakdown   `json:"quality,omitempty"`
	Liquidity  LiquidityAssessment `json:"liquidity"`
	Narratives Narratives          `json:"narratives"`
}

// RankedSnapshot is one row of the opportunity ranking
type RankedSnapshot struct {
	Rank                int         `json:"rank"`
	Ticker              string      `json:"ticker"`
	Score               float64     `json:"score"`
	FinalSignal         SignalID    `json:"final_signal"`
	Tier                VerdictTier `json:"tier"`
	PredictabilityScore int         `json:"predictability_score"`
	EdgeToFrictionRatio float64     `json:"edge_to_friction_ratio"`
	TrendDirection      Trend       `json:"trend_direction,omitempty"`
}
