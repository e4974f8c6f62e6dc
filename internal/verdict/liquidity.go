package verdict

import (
	"fmt"
	"strings"

	"github.com/wonny/stockaura/internal/contracts"
)

// Liquidity grading thresholds
const (
	amihudHigh   = 0.001
	amihudMedium = 0.01
	sizeHigh     = 0.005 // fraction of daily volume
	sizeMedium   = 0.02
	sizeSevere   = 0.05
)

// AssessLiquidity grades the suggested position against daily volume and price impact.
// An upstream liquidity_warning takes precedence over the derived one.
func AssessLiquidity(s *contracts.SignalSnapshot) contracts.LiquidityAssessment {
	out := contracts.LiquidityAssessment{Score: contracts.LiquidityUnknown}
	if s.LiquidityFailed != nil {
		out.Failed = *s.LiquidityFailed
	}

	amihud, size := s.AmihudIlliquidity, s.PositionSizeVsVolume
	if amihud != nil && size != nil {
		switch {
		case *amihud < amihudHigh && *size < sizeHigh:
			out.Score = contracts.LiquidityHigh
		case *amihud < amihudMedium && *size < sizeMedium:
			out.Score = contracts.LiquidityMedium
		default:
			out.Score = contracts.LiquidityLow
		}
	}

	if s.LiquidityWarning != nil && *s.LiquidityWarning != "" {
		out.Warning = *s.LiquidityWarning
		return out
	}

	var warnings []string
	switch {
	case size != nil && *size > sizeSevere:
		warnings = append(warnings, fmt.Sprintf("Position is %.1f%% of daily volume: expect significant market impact", *size*100))
	case size != nil && *size > sizeMedium:
		warnings = append(warnings, fmt.Sprintf("Position is %.1f%% of daily volume: consider splitting the order", *size*100))
	}
	if amihud != nil && *amihud > amihudMedium {
		warnings = append(warnings, "High price impact per traded dollar (illiquid)")
	}
	out.Warning = strings.Join(warnings, " | ")
	return out
}
