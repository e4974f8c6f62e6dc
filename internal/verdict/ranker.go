package verdict

import (
	"math"
	"sort"

	"github.com/wonny/stockaura/internal/contracts"
)

// Ranker orders snapshots by composite opportunity score
type Ranker struct {
	engine *Engine
}

// NewRanker creates a ranker sharing the engine's rule set
func NewRanker(engine *Engine) *Ranker {
	return &Ranker{engine: engine}
}

// Score returns the composite score of one snapshot:
//
//	pred×w + stability×w + edge bonus + signal bonus + liquidity bonus − volatility penalty
func (r *Ranker) Score(s *contracts.SignalSnapshot, p contracts.EvaluationParams) (float64, contracts.FrictionResult) {
	cfg := r.engine.rules.Ranking
	friction := r.engine.Friction(s, p)

	score := 0.0
	if s.PredictabilityScore != nil {
		score += float64(*s.PredictabilityScore) * cfg.PredictabilityWeight
	}
	if s.RegimeStability != nil && !math.IsNaN(*s.RegimeStability) {
		score += *s.RegimeStability * cfg.StabilityWeight
	}
	if s.ExpectedEdgePct != nil && friction.EdgeToFrictionRatio > MinEdgeToFriction {
		score += math.Min(cfg.EdgeBonusCap, (friction.EdgeToFrictionRatio-MinEdgeToFriction)*cfg.EdgeBonusSlope)
	}
	score += cfg.BonusFor(string(s.FinalSignal))
	if s.LiquidityFailed == nil || !*s.LiquidityFailed {
		score += cfg.LiquidityBonus
	}
	if s.Volatility != nil && *s.Volatility > cfg.HighVolatilityPct {
		score -= cfg.HighVolatilityPenalty
	}

	return math.Round(score*100) / 100, friction
}

// Rank scores every snapshot and returns the top limit rows (limit <= 0: all).
// Ties break on ticker so the order is stable.
func (r *Ranker) Rank(snaps []contracts.SignalSnapshot, p contracts.EvaluationParams, limit int) []contracts.RankedSnapshot {
	rows := make([]contracts.RankedSnapshot, 0, len(snaps))
	for i := range snaps {
		s := &snaps[i]
		score, friction := r.Score(s, p)

		pred := 0
		if s.PredictabilityScore != nil {
			pred = *s.PredictabilityScore
		}
		rows = append(rows, contracts.RankedSnapshot{
			Ticker:              s.Ticker,
			Score:               score,
			FinalSignal:         s.FinalSignal,
			Tier:                r.engine.catalog.Lookup(s.FinalSignal).Tier,
			PredictabilityScore: pred,
			EdgeToFrictionRatio: friction.EdgeToFrictionRatio,
			TrendDirection:      s.TrendDirection,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Ticker < rows[j].Ticker
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
