package verdict

import (
	"math"

	"github.com/wonny/stockaura/internal/contracts"
)

const (
	// DefaultSlippagePct is used when the snapshot carries no slippage estimate (percent)
	DefaultSlippagePct = 0.05
	// MinEdgeToFriction is the edge multiple required to cover round-trip costs
	MinEdgeToFriction = 3.0
)

// FrictionCalculator computes round-trip trading friction
type FrictionCalculator struct {
	DefaultSlippagePct float64
}

// NewFrictionCalculator creates a calculator with the given fallback slippage (percent)
func NewFrictionCalculator(defaultSlippagePct float64) FrictionCalculator {
	return FrictionCalculator{DefaultSlippagePct: finiteOr(defaultSlippagePct, DefaultSlippagePct)}
}

// Compute returns friction for one round trip.
// slippagePct and edgePct are percents; txCost is a per-side fraction (0.001 = 0.1%).
//
//	total = (slippage/100 + txCost) × 2 × 100
func (f FrictionCalculator) Compute(slippagePct *float64, txCost, edgePct float64) contracts.FrictionResult {
	slip := f.DefaultSlippagePct
	if slippagePct != nil {
		slip = finiteOr(*slippagePct, 0)
	}
	txCost = finiteOr(txCost, 0)
	edgePct = finiteOr(edgePct, 0)

	total := (slip/100 + txCost) * 2 * 100

	ratio := 0.0
	if total > 0 {
		ratio = edgePct / total
	}

	return contracts.FrictionResult{
		SlippagePct:         slip,
		TotalFrictionPct:    total,
		EdgePct:             edgePct,
		EdgeToFrictionRatio: ratio,
		EdgeCoversCosts:     ratio > MinEdgeToFriction,
	}
}

// ComputeFriction uses the package default slippage
func ComputeFriction(slippagePct *float64, txCost, edgePct float64) contracts.FrictionResult {
	return NewFrictionCalculator(DefaultSlippagePct).Compute(slippagePct, txCost, edgePct)
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
