package verdict

import (
	"sort"

	"github.com/wonny/stockaura/internal/contracts"
)

// Signal identifiers produced by the upstream analysis service
const (
	SignalBuyUptrend       contracts.SignalID = "BUY_UPTREND"
	SignalBuyPullback      contracts.SignalID = "BUY_PULLBACK"
	SignalBuyMomentum      contracts.SignalID = "BUY_MOMENTUM"
	SignalShortDowntrend   contracts.SignalID = "SHORT_DOWNTREND"
	SignalShortBouncesOnly contracts.SignalID = "SHORT_BOUNCES_ONLY"
	SignalShortMomentum    contracts.SignalID = "SHORT_MOMENTUM"

	SignalWaitPullback      contracts.SignalID = "WAIT_PULLBACK"
	SignalWaitShortBounce   contracts.SignalID = "WAIT_SHORT_BOUNCE"
	SignalWaitForTrend      contracts.SignalID = "WAIT_FOR_TREND"
	SignalWaitOrShortBounce contracts.SignalID = "WAIT_OR_SHORT_BOUNCE"
	SignalWaitForReversal   contracts.SignalID = "WAIT_FOR_REVERSAL"

	SignalNoClearSignal contracts.SignalID = "NO_CLEAR_SIGNAL"
	SignalDoNotTrade    contracts.SignalID = "DO_NOT_TRADE"
)

// SpeculativePrefix marks the reduced-conviction mirror of a directional signal
const SpeculativePrefix = "SPEC_"

// SpeculativeOf returns the speculative identifier mirroring a directional one
func SpeculativeOf(id contracts.SignalID) contracts.SignalID {
	return contracts.SignalID(SpeculativePrefix + string(id))
}

// Catalog is the static signal → metadata table
// ⭐ SSOT: 시그널 설명 메타데이터는 여기서만
// Built once at package init and never mutated; safe for concurrent readers.
type Catalog struct {
	entries map[contracts.SignalID]contracts.CatalogEntry
	order   []contracts.SignalID
}

var defaultCatalog = buildCatalog()

// DefaultCatalog returns the process-wide catalog
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// Lookup returns the entry for id, or the UNKNOWN fallback. It never fails.
func (c *Catalog) Lookup(id contracts.SignalID) contracts.CatalogEntry {
	if entry, ok := c.entries[id]; ok {
		return entry
	}
	return contracts.CatalogEntry{
		ID:         id,
		Tier:       contracts.TierUnknown,
		ActionText: string(id),
		RiskLevel:  contracts.RiskUnknown,
		Confidence: contracts.ConfidenceUnknown,
		Narrative:  "Unknown signal",
		Setup:      contracts.UnknownSetup{Raw: id},
	}
}

// Known reports whether id has a catalog entry
func (c *Catalog) Known(id contracts.SignalID) bool {
	_, ok := c.entries[id]
	return ok
}

// IDs returns all catalog identifiers in display order
func (c *Catalog) IDs() []contracts.SignalID {
	out := make([]contracts.SignalID, len(c.order))
	copy(out, c.order)
	return out
}

// Entries returns all entries in display order
func (c *Catalog) Entries() []contracts.CatalogEntry {
	out := make([]contracts.CatalogEntry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

// ByTier returns the entries of one tier
func (c *Catalog) ByTier(tier contracts.VerdictTier) []contracts.CatalogEntry {
	var out []contracts.CatalogEntry
	for _, id := range c.order {
		if c.entries[id].Tier == tier {
			out = append(out, c.entries[id])
		}
	}
	return out
}

type directional struct {
	id         contracts.SignalID
	direction  contracts.Direction
	pattern    contracts.Pattern
	action     string
	risk       contracts.RiskLevel
	confidence contracts.ConfidenceLevel
	narrative  string
}

var directionalSignals = []directional{
	{SignalBuyUptrend, contracts.DirectionLong, contracts.PatternTrendContinuation,
		"BUY - Follow the uptrend", contracts.RiskMedium, contracts.ConfidenceHigh,
		"Persistent momentum in a trending uptrend with price in the entry zone near its EMA."},
	{SignalBuyPullback, contracts.DirectionLong, contracts.PatternPullbackEntry,
		"BUY - Pullback entry", contracts.RiskMedium, contracts.ConfidenceHigh,
		"Uptrend with persistent momentum; price has dipped below its EMA, offering a better entry."},
	{SignalBuyMomentum, contracts.DirectionLong, contracts.PatternMomentumOnly,
		"BUY - Momentum only", contracts.RiskMedium, contracts.ConfidenceMedium,
		"Positive momentum in an uptrend without a trending Hurst regime; size conservatively."},
	{SignalShortDowntrend, contracts.DirectionShort, contracts.PatternTrendContinuation,
		"SHORT - Follow the downtrend", contracts.RiskHigh, contracts.ConfidenceHigh,
		"Persistent momentum in a trending downtrend with price in the short entry zone."},
	{SignalShortBouncesOnly, contracts.DirectionShort, contracts.PatternBounceOnly,
		"SHORT - Sell the bounce", contracts.RiskHigh, contracts.ConfidenceMedium,
		"Downtrend with price bouncing above its EMA; short only into strength."},
	{SignalShortMomentum, contracts.DirectionShort, contracts.PatternMomentumOnly,
		"SHORT - Momentum only", contracts.RiskHigh, contracts.ConfidenceMedium,
		"Downside momentum persists without a trending Hurst regime; use tight stops."},
}

type waiting struct {
	id         contracts.SignalID
	condition  contracts.WaitCondition
	bias       contracts.Direction
	action     string
	risk       contracts.RiskLevel
	confidence contracts.ConfidenceLevel
	narrative  string
}

var waitSignals = []waiting{
	{SignalWaitPullback, contracts.WaitPriceExtended, contracts.DirectionLong,
		"WAIT - Overbought, wait for pullback", contracts.RiskMedium, contracts.ConfidenceHigh,
		"Valid uptrend, but price is stretched above its EMA. Wait for a pullback before buying."},
	{SignalWaitShortBounce, contracts.WaitPriceExtended, contracts.DirectionShort,
		"WAIT - Oversold, wait for bounce to short", contracts.RiskMedium, contracts.ConfidenceHigh,
		"Valid downtrend, but price is stretched below its EMA. Wait for a bounce before shorting."},
	{SignalWaitForTrend, contracts.WaitTrendUnconfirmed, contracts.DirectionNone,
		"WAIT - Trend not confirmed", contracts.RiskMedium, contracts.ConfidenceMedium,
		"Strong momentum but no clear 1-year direction. Wait for the trend to confirm."},
	{SignalWaitOrShortBounce, contracts.WaitReversalPending, contracts.DirectionShort,
		"WAIT - Momentum turning in uptrend", contracts.RiskHigh, contracts.ConfidenceLow,
		"Momentum is reversing inside an uptrend. Stand aside or short bounces with tight risk."},
	{SignalWaitForReversal, contracts.WaitReversalPending, contracts.DirectionLong,
		"WAIT - Possible reversal in downtrend", contracts.RiskHigh, contracts.ConfidenceLow,
		"Momentum is reversing inside a downtrend. Wait for a confirmed reversal."},
}

func buildCatalog() *Catalog {
	c := &Catalog{entries: make(map[contracts.SignalID]contracts.CatalogEntry)}

	add := func(e contracts.CatalogEntry) {
		e.Tier = e.Setup.Tier().MustValid()
		if _, dup := c.entries[e.ID]; dup {
			panic("verdict: duplicate catalog entry " + string(e.ID))
		}
		c.entries[e.ID] = e
		c.order = append(c.order, e.ID)
	}

	for _, d := range directionalSignals {
		add(contracts.CatalogEntry{
			ID:         d.id,
			ActionText: d.action,
			RiskLevel:  d.risk,
			Confidence: d.confidence,
			Narrative:  d.narrative,
			Setup:      contracts.TradeableSetup{Direction: d.direction, Pattern: d.pattern},
		})
	}

	// SPECULATIVE mirrors every directional signal: one risk grade higher, LOW confidence
	for _, d := range directionalSignals {
		add(contracts.CatalogEntry{
			ID:         SpeculativeOf(d.id),
			ActionText: "SPECULATIVE " + d.action,
			RiskLevel:  d.risk.Elevated(),
			Confidence: contracts.ConfidenceLow,
			Narrative:  "Reduced conviction: only some validation tests passed. " + d.narrative,
			Setup: contracts.SpeculativeSetup{
				Direction:   d.direction,
				Pattern:     d.pattern,
				Counterpart: d.id,
			},
		})
	}

	for _, w := range waitSignals {
		add(contracts.CatalogEntry{
			ID:         w.id,
			ActionText: w.action,
			RiskLevel:  w.risk,
			Confidence: w.confidence,
			Narrative:  w.narrative,
			Setup:      contracts.WaitSetup{Condition: w.condition, Bias: w.bias},
		})
	}

	add(contracts.CatalogEntry{
		ID:         SignalNoClearSignal,
		ActionText: "NO TRADE - No clear signal",
		RiskLevel:  contracts.RiskHigh,
		Confidence: contracts.ConfidenceHigh,
		Narrative:  "No detectable momentum or mean-reversion pattern. Buy-and-hold is likely better.",
		Setup:      contracts.RejectionSetup{Cause: contracts.RejectNoPattern},
	})
	add(contracts.CatalogEntry{
		ID:         SignalDoNotTrade,
		ActionText: "DO NOT TRADE",
		RiskLevel:  contracts.RiskVeryHigh,
		Confidence: contracts.ConfidenceHigh,
		Narrative:  "The pattern failed one or more validation checks. Do not trade this instrument.",
		Setup:      contracts.RejectionSetup{Cause: contracts.RejectExplicit},
	})

	return c
}

// sortedIDs returns ids in lexical order (used for set comparisons)
func sortedIDs(ids []contracts.SignalID) []contracts.SignalID {
	out := make([]contracts.SignalID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
