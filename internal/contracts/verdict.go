package contracts

import "fmt"

// SignalID is the upstream final-signal identifier (e.g. BUY_UPTREND)
type SignalID string

// VerdictTier is the closed set of verdict tiers
type VerdictTier string

const (
	TierTradeable   VerdictTier = "TRADEABLE"
	TierSpeculative VerdictTier = "SPECULATIVE"
	TierWait        VerdictTier = "WAIT"
	TierDoNotTrade  VerdictTier = "DO_NOT_TRADE"
	TierUnknown     VerdictTier = "UNKNOWN"
)

// AllTiers lists every tier in display order
var AllTiers = []VerdictTier{TierTradeable, TierSpeculative, TierWait, TierDoNotTrade, TierUnknown}

// Valid reports whether t is one of the enumerated tiers
func (t VerdictTier) Valid() bool {
	switch t {
	case TierTradeable, TierSpeculative, TierWait, TierDoNotTrade, TierUnknown:
		return true
	}
	return false
}

// MustValid panics on a tier outside the enumeration.
// A bad tier can only come from a catalog authoring defect, never from input data.
func (t VerdictTier) MustValid() VerdictTier {
	if !t.Valid() {
		panic(fmt.Sprintf("contracts: invalid verdict tier %q", string(t)))
	}
	return t
}

// RiskLevel is an ordered risk grade
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskVeryHigh RiskLevel = "VERY_HIGH"
	RiskUnknown  RiskLevel = "UNKNOWN"
)

var riskOrder = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskVeryHigh}

// Rank returns the position of r in the risk order (-1 for UNKNOWN)
func (r RiskLevel) Rank() int {
	for i, level := range riskOrder {
		if level == r {
			return i
		}
	}
	return -1
}

// Elevated returns the next higher risk grade, saturating at VERY_HIGH
func (r RiskLevel) Elevated() RiskLevel {
	rank := r.Rank()
	if rank < 0 {
		return RiskUnknown
	}
	if rank+1 >= len(riskOrder) {
		return riskOrder[len(riskOrder)-1]
	}
	return riskOrder[rank+1]
}

// ConfidenceLevel is the catalog's stated confidence in a verdict
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "HIGH"
	ConfidenceMedium  ConfidenceLevel = "MEDIUM"
	ConfidenceLow     ConfidenceLevel = "LOW"
	ConfidenceUnknown ConfidenceLevel = "UNKNOWN"
)

// Direction of a directional setup
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
	DirectionNone  Direction = "NONE"
)

// Pattern is the sub-pattern of a directional setup
type Pattern string

const (
	PatternTrendContinuation Pattern = "TREND_CONTINUATION"
	PatternPullbackEntry     Pattern = "PULLBACK_ENTRY"
	PatternMomentumOnly      Pattern = "MOMENTUM_ONLY"
	PatternBounceOnly        Pattern = "BOUNCE_ONLY"
)

// WaitCondition is what a WAIT verdict is waiting for
type WaitCondition string

const (
	WaitPriceExtended    WaitCondition = "PRICE_EXTENDED"    // hard: price stretched against a valid trend
	WaitTrendUnconfirmed WaitCondition = "TREND_UNCONFIRMED" // strong momentum, no direction
	WaitReversalPending  WaitCondition = "REVERSAL_PENDING"  // momentum turning against the trend
)

// RejectionCause explains a DO_NOT_TRADE verdict
type RejectionCause string

const (
	RejectNoPattern RejectionCause = "NO_PATTERN"
	RejectExplicit  RejectionCause = "EXPLICIT"
)

// Setup is a closed tagged union over verdict tiers.
// Only the variants below implement it; each carries the fields its tier requires.
type Setup interface {
	Tier() VerdictTier
	isSetup()
}

// TradeableSetup is a high-conviction directional setup
type TradeableSetup struct {
	Direction Direction
	Pattern   Pattern
}

// SpeculativeSetup mirrors a TradeableSetup at reduced conviction
type SpeculativeSetup struct {
	Direction   Direction
	Pattern     Pattern
	Counterpart SignalID
}

// WaitSetup is a valid pattern whose entry timing is pending
type WaitSetup struct {
	Condition WaitCondition
	Bias      Direction
}

// RejectionSetup is a do-not-trade verdict
type RejectionSetup struct {
	Cause RejectionCause
}

// UnknownSetup is the fallback for identifiers outside the catalog
type UnknownSetup struct {
	Raw SignalID
}

func (TradeableSetup) Tier() VerdictTier   { return TierTradeable }
func (SpeculativeSetup) Tier() VerdictTier { return TierSpeculative }
func (WaitSetup) Tier() VerdictTier        { return TierWait }
func (RejectionSetup) Tier() VerdictTier   { return TierDoNotTrade }
func (UnknownSetup) Tier() VerdictTier     { return TierUnknown }

func (TradeableSetup) isSetup()   {}
func (SpeculativeSetup) isSetup() {}
func (WaitSetup) isSetup()        {}
func (RejectionSetup) isSetup()   {}
func (UnknownSetup) isSetup()     {}

// CatalogEntry is the immutable descriptive metadata for one signal identifier
type CatalogEntry struct {
	ID         SignalID        `json:"signal"`
	Tier       VerdictTier     `json:"tier"`
	ActionText string          `json:"action"`
	RiskLevel  RiskLevel       `json:"risk_level"`
	Confidence ConfidenceLevel `json:"confidence"`
	Narrative  string          `json:"narrative"`
	Setup      Setup           `json:"-"`
}

// Direction returns the trade direction of directional and wait setups
func (e CatalogEntry) Direction() Direction {
	switch s := e.Setup.(type) {
	case TradeableSetup:
		return s.Direction
	case SpeculativeSetup:
		return s.Direction
	case WaitSetup:
		return s.Bias
	case RejectionSetup, UnknownSetup:
		return DirectionNone
	default:
		panic(fmt.Sprintf("contracts: unhandled setup %T for %s", e.Setup, e.ID))
	}
}
