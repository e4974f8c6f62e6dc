package verdict

import (
	"fmt"

	"github.com/wonny/stockaura/internal/contracts"
)

// Classifier answers "can this signal be traded right now"
// ⭐ SSOT: 거래 가능 여부는 이 테이블이 결정 (catalog tier와 별개)
//
// The table is explicit on purpose: every catalog identifier has its own row,
// and unknown identifiers are never tradeable.
type Classifier struct {
	table map[contracts.SignalID]contracts.Tradeability
}

var defaultClassifier = &Classifier{table: tradeabilityTable()}

// DefaultClassifier returns the process-wide classifier
func DefaultClassifier() *Classifier {
	return defaultClassifier
}

// Classify returns the tradeability verdict for id
func (c *Classifier) Classify(id contracts.SignalID) contracts.Tradeability {
	if t, ok := c.table[id]; ok {
		return t
	}
	return contracts.Tradeability{
		Tradeable:  false,
		Reason:     fmt.Sprintf("Unknown signal %q: not tradeable", string(id)),
		Confidence: contracts.TradeConfidenceHigh,
	}
}

// IDs returns every identifier the classifier knows
func (c *Classifier) IDs() []contracts.SignalID {
	ids := make([]contracts.SignalID, 0, len(c.table))
	for id := range c.table {
		ids = append(ids, id)
	}
	return sortedIDs(ids)
}

func row(tradeable bool, conf contracts.TradeConfidence, reason string) contracts.Tradeability {
	return contracts.Tradeability{Tradeable: tradeable, Reason: reason, Confidence: conf}
}

func tradeabilityTable() map[contracts.SignalID]contracts.Tradeability {
	const (
		high   = contracts.TradeConfidenceHigh
		medium = contracts.TradeConfidenceMedium
		low    = contracts.TradeConfidenceLow
	)

	return map[contracts.SignalID]contracts.Tradeability{
		SignalBuyUptrend:       row(true, high, "Trend and momentum agree; entry zone"),
		SignalBuyPullback:      row(true, high, "Uptrend pullback; favourable entry"),
		SignalShortDowntrend:   row(true, high, "Trend and momentum agree on the downside"),
		SignalBuyMomentum:      row(true, medium, "Momentum without a trending regime"),
		SignalShortMomentum:    row(true, medium, "Downside momentum without a trending regime"),
		SignalShortBouncesOnly: row(true, medium, "Short into bounces only"),

		SignalWaitPullback:      row(true, high, "Valid setup; enter after the pullback"),
		SignalWaitShortBounce:   row(true, high, "Valid setup; short after the bounce"),
		SignalWaitForTrend:      row(true, medium, "Momentum present; trend confirmation pending"),
		SignalWaitOrShortBounce: row(true, low, "Momentum turning; only bounce shorts qualify"),
		SignalWaitForReversal:   row(true, low, "Reversal not yet confirmed"),

		SignalNoClearSignal: row(false, high, "No detectable pattern"),
		SignalDoNotTrade:    row(false, high, "Failed validation"),

		"SPEC_BUY_UPTREND":        row(true, low, "Speculative: partial validation only"),
		"SPEC_BUY_PULLBACK":       row(true, low, "Speculative: partial validation only"),
		"SPEC_BUY_MOMENTUM":       row(true, low, "Speculative: partial validation only"),
		"SPEC_SHORT_DOWNTREND":    row(true, low, "Speculative: partial validation only"),
		"SPEC_SHORT_BOUNCES_ONLY": row(true, low, "Speculative: partial validation only"),
		"SPEC_SHORT_MOMENTUM":     row(true, low, "Speculative: partial validation only"),
	}
}
