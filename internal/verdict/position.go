package verdict

import (
	"math"

	"github.com/wonny/stockaura/internal/contracts"
)

const noSharesNote = "Position cannot be sized: the account is too small for this price at the current risk tolerance"

// PlanPosition summarises the upstream sizing for display.
// accountSize is only used when the snapshot has no risk_per_trade.
func PlanPosition(s *contracts.SignalSnapshot, accountSize float64) contracts.PositionPlan {
	if s.SuggestedShares == nil || *s.SuggestedShares <= 0 {
		return contracts.PositionPlan{Note: noSharesNote}
	}
	if s.Current == nil || *s.Current <= 0 || math.IsNaN(*s.Current) {
		return contracts.PositionPlan{Shares: *s.SuggestedShares, Note: "Current price unavailable"}
	}

	shares := *s.SuggestedShares
	price := *s.Current
	plan := contracts.PositionPlan{
		Executable:    true,
		Shares:        shares,
		EntryPrice:    price,
		PositionValue: float64(shares) * price,
		StopLossPrice: s.StopLossPrice,
	}

	if s.StopLossPrice != nil {
		perShare := math.Abs(price - *s.StopLossPrice)
		plan.RiskPctOfEntry = contracts.Float(perShare / price)
		plan.RiskAmount = contracts.Float(float64(shares) * perShare)
	}
	if s.PositionRiskAmount != nil {
		plan.RiskAmount = contracts.Float(*s.PositionRiskAmount)
	}

	switch {
	case s.RiskPerTrade != nil:
		plan.RiskPctOfAccount = contracts.Float(*s.RiskPerTrade)
	case plan.RiskAmount != nil && accountSize > 0:
		plan.RiskPctOfAccount = contracts.Float(*plan.RiskAmount / accountSize)
	}

	return plan
}
