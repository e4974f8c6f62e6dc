package verdict

import (
	"math"

	"github.com/wonny/stockaura/internal/contracts"
)

// ScoreQuality sums the five 0~2 components into a 0~10 score, rounded to one decimal.
// Returns nil when the snapshot has no components.
func ScoreQuality(c *contracts.QualityComponents) *contracts.QualityBreakdown {
	if c == nil {
		return nil
	}

	score := math.Round(c.Sum()*10) / 10
	return &contracts.QualityBreakdown{
		Score:      score,
		Label:      QualityLabelFor(score),
		Components: *c,
	}
}

// QualityLabelFor grades a quality score
func QualityLabelFor(score float64) contracts.QualityLabel {
	switch {
	case score >= 7:
		return contracts.QualityExcellent
	case score >= 5:
		return contracts.QualityGood
	case score >= 3:
		return contracts.QualityFair
	default:
		return contracts.QualityPoor
	}
}
