package verdict

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/internal/ruleset"
)

var defaultParams = contracts.EvaluationParams{TransactionCost: 0.001, AccountSize: 10000}

func scenarioA() *contracts.SignalSnapshot {
	return &contracts.SignalSnapshot{
		Ticker:               "AAPL",
		PredictabilityScore:  contracts.Int(4),
		RegimeStability:      contracts.Float(0.8),
		MomentumCorr:         contracts.Float(0.3),
		FinalSignal:          SignalBuyUptrend,
		ExpectedEdgePct:      contracts.Float(5),
		EstimatedSlippagePct: contracts.Float(0.05),
		SuggestedShares:      contracts.Int(10),
		Current:              contracts.Float(200),
		StopLossPrice:        contracts.Float(190),
		RiskPerTrade:         contracts.Float(0.01),
	}
}

func TestEvaluate_ScenarioA_Tradeable(t *testing.T) {
	vm := NewEngine(ruleset.Extended()).Evaluate(scenarioA(), defaultParams)

	assert.Equal(t, contracts.TierTradeable, vm.Signal.Tier)
	assert.True(t, vm.Tradeability.Tradeable)
	assert.True(t, vm.Friction.EdgeCoversCosts)
	assert.InDelta(t, 0.3, vm.Friction.TotalFrictionPct, 1e-9)
	assert.InDelta(t, 16.67, vm.Friction.EdgeToFrictionRatio, 0.01)
	assert.Empty(t, vm.FailureReasons)
	assert.Nil(t, vm.Tests)

	require.True(t, vm.Position.Executable)
	assert.InDelta(t, 2000, vm.Position.PositionValue, 1e-9)
	require.NotNil(t, vm.Position.RiskPctOfEntry)
	assert.InDelta(t, 0.05, *vm.Position.RiskPctOfEntry, 1e-9)
	require.NotNil(t, vm.Position.RiskPctOfAccount)
	assert.InDelta(t, 0.01, *vm.Position.RiskPctOfAccount, 1e-9)
}

func TestEvaluate_ScenarioB_Rejected(t *testing.T) {
	s := &contracts.SignalSnapshot{
		PredictabilityScore: contracts.Int(1),
		RegimeStability:     contracts.Float(0.3),
		MomentumCorr:        contracts.Float(0.02),
		FinalSignal:         SignalDoNotTrade,
	}
	vm := NewEngine(ruleset.Extended()).Evaluate(s, defaultParams)

	assert.Equal(t, contracts.TierDoNotTrade, vm.Signal.Tier)
	assert.False(t, vm.Tradeability.Tradeable)

	var metrics []string
	for _, f := range vm.FailureReasons {
		metrics = append(metrics, f.Metric)
		assert.False(t, f.Passed)
		assert.NotEmpty(t, f.Message)
	}
	assert.Equal(t, []string{"Predictability", "Regime stability", "Momentum"}, metrics)
	assert.Equal(t, "1/5", vm.FailureReasons[0].Observed)
	assert.Equal(t, "30.0%", vm.FailureReasons[1].Observed)
}

func TestEvaluate_ScenarioC_NoShares(t *testing.T) {
	s := scenarioA()
	s.SuggestedShares = nil
	vm := NewEngine(ruleset.Extended()).Evaluate(s, defaultParams)

	assert.Equal(t, contracts.TierTradeable, vm.Signal.Tier)
	assert.False(t, vm.Position.Executable)
	assert.NotEmpty(t, vm.Position.Note)
}

func TestEvaluate_ScenarioD_Speculative(t *testing.T) {
	s := &contracts.SignalSnapshot{
		FinalSignal:         "SPEC_BUY_UPTREND",
		PredictabilityScore: contracts.Int(2),
		MomentumCorr:        contracts.Float(0.12),
		HurstSignificant:    contracts.Bool(true),
		MeanRevUp:           contracts.Float(0.001),
		MeanRevDown:         contracts.Float(-0.004),
		RegimeStability:     contracts.Float(0.4),
		VPConfirming:        contracts.Bool(false),
	}
	vm := NewEngine(ruleset.Extended()).Evaluate(s, defaultParams)

	assert.Equal(t, contracts.TierSpeculative, vm.Signal.Tier)
	assert.Equal(t, contracts.ConfidenceLow, vm.Signal.Confidence)
	assert.Greater(t, vm.Signal.RiskLevel.Rank(), DefaultCatalog().Lookup(SignalBuyUptrend).RiskLevel.Rank())
	assert.Empty(t, vm.FailureReasons)

	require.NotNil(t, vm.Tests)
	assert.Equal(t, []string{TestMomentum, TestTrend}, vm.Tests.Passed)
	assert.Equal(t, []string{TestMeanReversion, TestRegimeStability, TestVolumePrice}, vm.Tests.Failed)
}

func TestEvaluate_UnknownSignal(t *testing.T) {
	vm := NewEngine(nil).Evaluate(&contracts.SignalSnapshot{FinalSignal: "MOON_SHOT"}, defaultParams)

	assert.Equal(t, contracts.TierUnknown, vm.Signal.Tier)
	assert.Equal(t, "MOON_SHOT", vm.Signal.ActionText)
	assert.Equal(t, "Unknown signal", vm.Signal.Narrative)
	assert.False(t, vm.Tradeability.Tradeable)
	assert.Equal(t, contracts.TradeConfidenceHigh, vm.Tradeability.Confidence)
	assert.Contains(t, vm.Tradeability.Reason, "MOON_SHOT")
}

func TestEvaluate_EmptySnapshot(t *testing.T) {
	engine := NewEngine(ruleset.Extended())

	assert.NotPanics(t, func() {
		vm := engine.Evaluate(nil, contracts.EvaluationParams{})
		assert.Equal(t, contracts.TierUnknown, vm.Signal.Tier)
		assert.Nil(t, vm.Quality)
		assert.Equal(t, contracts.LiquidityUnknown, vm.Liquidity.Score)
	})

	vm := engine.Evaluate(&contracts.SignalSnapshot{FinalSignal: SignalNoClearSignal}, defaultParams)
	assert.Empty(t, vm.FailureReasons, "null metrics are skipped, not failed")
}

func TestEvaluate_Idempotent(t *testing.T) {
	engine := NewEngine(ruleset.Extended())
	s := scenarioA()
	s.QualityComponents = &contracts.QualityComponents{TrendAlignment: 2, EntryTiming: 1.5, SharpeQuality: 1, VolatilityFit: 1, VolumeConfirmation: 0.5}

	first, err := json.Marshal(engine.Evaluate(s, defaultParams))
	require.NoError(t, err)
	second, err := json.Marshal(engine.Evaluate(s, defaultParams))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestEvaluate_IndependentParams(t *testing.T) {
	engine := NewEngine(ruleset.Extended())
	s := scenarioA()

	cheap := engine.Evaluate(s, contracts.EvaluationParams{TransactionCost: 0, AccountSize: 10000})
	costly := engine.Evaluate(s, contracts.EvaluationParams{TransactionCost: 0.01, AccountSize: 10000})
	again := engine.Evaluate(s, contracts.EvaluationParams{TransactionCost: 0, AccountSize: 10000})

	assert.Greater(t, cheap.Friction.EdgeToFrictionRatio, costly.Friction.EdgeToFrictionRatio)
	assert.Equal(t, cheap, again)
}

func TestEvaluate_RejectionReportsEdge(t *testing.T) {
	s := &contracts.SignalSnapshot{
		FinalSignal:     SignalDoNotTrade,
		ExpectedEdgePct: contracts.Float(0.6),
		RegimeStability: contracts.Float(0),
		VPConfirming:    contracts.Bool(false),
		VPRatio:         contracts.Float(0.85),
	}
	vm := NewEngine(ruleset.Extended()).Evaluate(s, defaultParams)

	require.Len(t, vm.FailureReasons, 3)
	assert.Contains(t, vm.FailureReasons[0].Message, "momentum reversed out-of-sample")
	assert.Equal(t, "Edge vs friction", vm.FailureReasons[1].Metric)
	assert.Equal(t, "2.0x", vm.FailureReasons[1].Observed)
	assert.Equal(t, "0.85x", vm.FailureReasons[2].Observed)
}

func TestEvaluate_BaseRuleSetSkipsVolumeCheck(t *testing.T) {
	s := &contracts.SignalSnapshot{FinalSignal: SignalDoNotTrade, VPConfirming: contracts.Bool(false)}

	assert.Len(t, NewEngine(ruleset.Extended()).Evaluate(s, defaultParams).FailureReasons, 1)
	assert.Empty(t, NewEngine(ruleset.Base()).Evaluate(s, defaultParams).FailureReasons)
}

func TestEvaluate_BaseRuleSetHasNoSpeculativeTier(t *testing.T) {
	s := &contracts.SignalSnapshot{
		FinalSignal:         "SPEC_BUY_UPTREND",
		PredictabilityScore: contracts.Int(2),
		MomentumCorr:        contracts.Float(0.12),
	}

	vm := NewEngine(ruleset.Base()).Evaluate(s, defaultParams)
	assert.Equal(t, contracts.TierSpeculative, vm.Signal.Tier)
	assert.Nil(t, vm.Tests)
	require.Len(t, vm.Advisories, 1)
	assert.Contains(t, vm.Advisories[0], "SPEC_BUY_UPTREND is outside rule set base_v1")

	vm = NewEngine(ruleset.Extended()).Evaluate(s, defaultParams)
	assert.NotNil(t, vm.Tests)
	assert.Empty(t, vm.Advisories)
}

func TestEvaluate_HighConvictionAdvisory(t *testing.T) {
	s := scenarioA()
	s.PredictabilityScore = contracts.Int(3)

	tests := []struct {
		name     string
		min      int
		advisory bool
	}{
		{"at threshold", 3, false},
		{"below threshold", 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := ruleset.Extended()
			rules.Predictability.HighConvictionMin = tt.min

			vm := NewEngine(rules).Evaluate(s, defaultParams)
			assert.Equal(t, contracts.TierTradeable, vm.Signal.Tier)
			if tt.advisory {
				require.Len(t, vm.Advisories, 1)
				assert.Equal(t, "Predictability 3/5 is below high conviction (5/5)", vm.Advisories[0])
			} else {
				assert.Empty(t, vm.Advisories)
			}
		})
	}
}

func TestFriction_Formula(t *testing.T) {
	tests := []struct {
		name string
		slip *float64
		tx   float64
		edge float64
		want float64
	}{
		{"scenario A", contracts.Float(0.05), 0.001, 5, 0.3},
		{"zero cost", contracts.Float(0.05), 0, 5, 0.1},
		{"default slippage", nil, 0.002, 1, 0.5},
		{"zero friction", contracts.Float(0), 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ComputeFriction(tt.slip, tt.tx, tt.edge)
			assert.InDelta(t, tt.want, f.TotalFrictionPct, 1e-9)
			assert.False(t, math.IsNaN(f.EdgeToFrictionRatio))
			assert.False(t, math.IsInf(f.EdgeToFrictionRatio, 0))
			if f.TotalFrictionPct == 0 {
				assert.Equal(t, 0.0, f.EdgeToFrictionRatio)
				assert.False(t, f.EdgeCoversCosts)
			}
		})
	}
}

func TestFriction_NonFinite(t *testing.T) {
	f := ComputeFriction(contracts.Float(math.NaN()), math.Inf(1), math.NaN())
	assert.Equal(t, 0.0, f.TotalFrictionPct)
	assert.Equal(t, 0.0, f.EdgeToFrictionRatio)
}

func TestFriction_MonotonicInEdge(t *testing.T) {
	slip := contracts.Float(0.1)
	prev := ComputeFriction(slip, 0.001, -5)
	for edge := -5.0; edge <= 20; edge += 0.25 {
		cur := ComputeFriction(slip, 0.001, edge)
		assert.GreaterOrEqual(t, cur.EdgeToFrictionRatio, prev.EdgeToFrictionRatio)
		if prev.EdgeCoversCosts {
			assert.True(t, cur.EdgeCoversCosts, "edge %.2f flipped covers_costs", edge)
		}
		prev = cur
	}
}

func TestCatalogAndClassifierAgree(t *testing.T) {
	catalogIDs := sortedIDs(DefaultCatalog().IDs())
	assert.Equal(t, catalogIDs, DefaultClassifier().IDs())
	assert.Len(t, catalogIDs, 19)
}

func TestCatalog_Tiers(t *testing.T) {
	c := DefaultCatalog()
	assert.Len(t, c.ByTier(contracts.TierTradeable), 6)
	assert.Len(t, c.ByTier(contracts.TierSpeculative), 6)
	assert.Len(t, c.ByTier(contracts.TierWait), 5)
	assert.Len(t, c.ByTier(contracts.TierDoNotTrade), 2)

	for _, e := range c.Entries() {
		assert.True(t, e.Tier.Valid(), e.ID)
		assert.Equal(t, e.Setup.Tier(), e.Tier, e.ID)
		assert.NotEmpty(t, e.ActionText, e.ID)
		assert.NotEmpty(t, e.Narrative, e.ID)
	}
}

func TestCatalog_SpeculativeMirrors(t *testing.T) {
	c := DefaultCatalog()
	for _, e := range c.ByTier(contracts.TierSpeculative) {
		spec, ok := e.Setup.(contracts.SpeculativeSetup)
		require.True(t, ok, e.ID)

		base := c.Lookup(spec.Counterpart)
		require.Equal(t, contracts.TierTradeable, base.Tier)
		assert.Equal(t, SpeculativeOf(base.ID), e.ID)
		assert.Equal(t, base.RiskLevel.Elevated(), e.RiskLevel)
		assert.Equal(t, contracts.ConfidenceLow, e.Confidence)
		assert.Equal(t, base.Direction(), e.Direction())
	}
}

func TestClassifier_Table(t *testing.T) {
	tests := []struct {
		id        contracts.SignalID
		tradeable bool
		conf      contracts.TradeConfidence
	}{
		{SignalBuyUptrend, true, contracts.TradeConfidenceHigh},
		{SignalShortBouncesOnly, true, contracts.TradeConfidenceMedium},
		{SignalWaitPullback, true, contracts.TradeConfidenceHigh},
		{SignalWaitForTrend, true, contracts.TradeConfidenceMedium},
		{SignalWaitForReversal, true, contracts.TradeConfidenceLow},
		{SignalNoClearSignal, false, contracts.TradeConfidenceHigh},
		{"SPEC_SHORT_MOMENTUM", true, contracts.TradeConfidenceLow},
		{"", false, contracts.TradeConfidenceHigh},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			got := DefaultClassifier().Classify(tt.id)
			assert.Equal(t, tt.tradeable, got.Tradeable)
			assert.Equal(t, tt.conf, got.Confidence)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestScoreQuality(t *testing.T) {
	assert.Nil(t, ScoreQuality(nil))

	tests := []struct {
		sum   float64
		label contracts.QualityLabel
	}{
		{10, contracts.QualityExcellent},
		{7, contracts.QualityExcellent},
		{6.96, contracts.QualityExcellent}, // rounds to 7.0
		{5, contracts.QualityGood},
		{3.2, contracts.QualityFair},
		{2.9, contracts.QualityPoor},
	}
	for _, tt := range tests {
		q := ScoreQuality(&contracts.QualityComponents{TrendAlignment: tt.sum})
		require.NotNil(t, q)
		assert.Equal(t, tt.label, q.Label, "sum %.2f", tt.sum)
	}
}

func TestPlanPosition(t *testing.T) {
	t.Run("zero price", func(t *testing.T) {
		p := PlanPosition(&contracts.SignalSnapshot{SuggestedShares: contracts.Int(5), Current: contracts.Float(0)}, 10000)
		assert.False(t, p.Executable)
	})

	t.Run("zero shares", func(t *testing.T) {
		p := PlanPosition(&contracts.SignalSnapshot{SuggestedShares: contracts.Int(0), Current: contracts.Float(10)}, 10000)
		assert.False(t, p.Executable)
		assert.Equal(t, noSharesNote, p.Note)
	})

	t.Run("small account", func(t *testing.T) {
		p := PlanPosition(&contracts.SignalSnapshot{FinalSignal: SignalBuyUptrend, Current: contracts.Float(100)}, 500)
		assert.False(t, p.Executable)
		assert.Contains(t, p.Note, "account is too small")
		assert.Contains(t, p.Note, "risk tolerance")
	})

	t.Run("risk from account size", func(t *testing.T) {
		p := PlanPosition(&contracts.SignalSnapshot{
			SuggestedShares: contracts.Int(100),
			Current:         contracts.Float(50),
			StopLossPrice:   contracts.Float(48),
		}, 10000)
		require.True(t, p.Executable)
		require.NotNil(t, p.RiskAmount)
		assert.InDelta(t, 200, *p.RiskAmount, 1e-9)
		require.NotNil(t, p.RiskPctOfAccount)
		assert.InDelta(t, 0.02, *p.RiskPctOfAccount, 1e-9)
	})

	t.Run("no stop", func(t *testing.T) {
		p := PlanPosition(&contracts.SignalSnapshot{SuggestedShares: contracts.Int(1), Current: contracts.Float(10)}, 10000)
		assert.True(t, p.Executable)
		assert.Nil(t, p.RiskPctOfEntry)
		assert.Nil(t, p.RiskPctOfAccount)
	})
}

func TestAssessLiquidity(t *testing.T) {
	tests := []struct {
		name    string
		amihud  *float64
		size    *float64
		score   contracts.LiquidityScore
		warning bool
	}{
		{"high", contracts.Float(0.0001), contracts.Float(0.001), contracts.LiquidityHigh, false},
		{"medium", contracts.Float(0.005), contracts.Float(0.01), contracts.LiquidityMedium, false},
		{"low large order", contracts.Float(0.0001), contracts.Float(0.06), contracts.LiquidityLow, true},
		{"low illiquid", contracts.Float(0.05), contracts.Float(0.001), contracts.LiquidityLow, true},
		{"unknown", nil, contracts.Float(0.001), contracts.LiquidityUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessLiquidity(&contracts.SignalSnapshot{AmihudIlliquidity: tt.amihud, PositionSizeVsVolume: tt.size})
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.warning, got.Warning != "")
		})
	}

	both := AssessLiquidity(&contracts.SignalSnapshot{
		AmihudIlliquidity:    contracts.Float(0.05),
		PositionSizeVsVolume: contracts.Float(0.08),
	})
	assert.Equal(t, contracts.LiquidityLow, both.Score)
	assert.Equal(t,
		"Position is 8.0% of daily volume: expect significant market impact | High price impact per traded dollar (illiquid)",
		both.Warning)

	upstream := AssessLiquidity(&contracts.SignalSnapshot{
		PositionSizeVsVolume: contracts.Float(0.5),
		LiquidityWarning:     contracts.String("upstream says no"),
		LiquidityFailed:      contracts.Bool(true),
	})
	assert.Equal(t, "upstream says no", upstream.Warning)
	assert.True(t, upstream.Failed)
}

func TestNarrate(t *testing.T) {
	s := &contracts.SignalSnapshot{
		MomentumCorr:    contracts.Float(0.3),
		MomentumCorrOOS: contracts.Float(-0.05),
		RegimeStability: contracts.Float(0.9),
		Hurst:           contracts.Float(0.62),
		ZEMA:            contracts.Float(1.4),
		TrendDirection:  contracts.TrendUp,
	}
	n := Narrate(s, ruleset.Extended())

	assert.Contains(t, n.Momentum, "continue")
	assert.Contains(t, n.Momentum, "reversed out-of-sample")
	assert.Contains(t, n.Regime, "Pattern stable")
	assert.Contains(t, n.Regime, "trending regime")
	assert.Contains(t, n.PricePosition, "overbought")

	empty := Narrate(&contracts.SignalSnapshot{}, ruleset.Extended())
	assert.Equal(t, contracts.Narratives{}, empty)
}

func TestRanker_Rank(t *testing.T) {
	ranker := NewRanker(NewEngine(ruleset.Extended()))

	snaps := []contracts.SignalSnapshot{
		{Ticker: "BBB", FinalSignal: SignalDoNotTrade, PredictabilityScore: contracts.Int(1)},
		{Ticker: "AAA", FinalSignal: SignalBuyUptrend, PredictabilityScore: contracts.Int(4), RegimeStability: contracts.Float(0.8),
			ExpectedEdgePct: contracts.Float(5), EstimatedSlippagePct: contracts.Float(0.05)},
		{Ticker: "CCC", FinalSignal: SignalWaitPullback, PredictabilityScore: contracts.Int(3), Volatility: contracts.Float(70)},
		{Ticker: "DDD", FinalSignal: SignalWaitPullback, PredictabilityScore: contracts.Int(3), Volatility: contracts.Float(70)},
	}

	rows := ranker.Rank(snaps, defaultParams, 0)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"AAA", "CCC", "DDD", "BBB"}, []string{rows[0].Ticker, rows[1].Ticker, rows[2].Ticker, rows[3].Ticker})
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, contracts.TierTradeable, rows[0].Tier)

	// 4×10 + 0.8×20 + min(20, (16.67-3)×4) + 20 + 10
	assert.InDelta(t, 106.0, rows[0].Score, 0.01)
	// 3×10 + 8 + 10 − 5
	assert.InDelta(t, 43.0, rows[1].Score, 0.01)

	top := ranker.Rank(snaps, defaultParams, 2)
	assert.Len(t, top, 2)
}
