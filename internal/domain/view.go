package domain

import (
	"math"
	"strconv"
)

// MaxSubcategories is the number of top-prediction subcategories shown; the
// rest are dropped without an overflow indicator.
const MaxSubcategories = 8

// Tier is the visual classification of a confidence score.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// ClassifyTier maps a confidence to its tier: above 0.6 is high, above 0.3 is
// medium, anything else is low.
func ClassifyTier(confidence float64) Tier {
	switch {
	case confidence > 0.6:
		return TierHigh
	case confidence > 0.3:
		return TierMedium
	default:
		return TierLow
	}
}

// FormatPercent renders a 0–1 confidence as a percentage with one decimal, e.g. 0.72 -> "72.0".
// A value exactly halfway between two tenths rounds up, so 12.25 -> "12.3".
func FormatPercent(confidence float64) string {
	p := confidence * 100
	if isTenthTie(p) {
		p = (math.Floor(p*10) + 1) / 10
	}
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// isTenthTie reports whether p lies exactly on a hundredths-place 5, which for
// a float64 means 4p is an odd integer.
func isTenthTie(p float64) bool {
	q := p * 4
	return !math.IsInf(q, 0) && q == math.Trunc(q) && math.Mod(q, 2) != 0
}

// RiskItem is one card of the breakdown grid.
type RiskItem struct {
	Category   string
	Confidence float64
	Percent    string
	Tier       Tier
}

// ResultView is everything the result panel displays for one response.
type ResultView struct {
	TopCategory       string
	Subcategories     []string
	ConfidencePercent string
	Breakdown         []RiskItem
}

// BuildResultView derives the displayed result from a response. The breakdown
// keeps the response order. The caller must ensure TopPrediction is set.
func BuildResultView(resp PredictionResponse) ResultView {
	top := resp.TopPrediction

	subs := top.Subcategories
	if len(subs) > MaxSubcategories {
		subs = subs[:MaxSubcategories]
	}

	breakdown := make([]RiskItem, len(resp.AllPredictions))
	for i, p := range resp.AllPredictions {
		breakdown[i] = RiskItem{
			Category:   p.Category,
			Confidence: p.Confidence,
			Percent:    FormatPercent(p.Confidence),
			Tier:       ClassifyTier(p.Confidence),
		}
	}

	return ResultView{
		TopCategory:       top.Category,
		Subcategories:     append([]string(nil), subs...),
		ConfidencePercent: FormatPercent(top.Confidence),
		Breakdown:         breakdown,
	}
}
