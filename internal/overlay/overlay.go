// Package overlay converts model scores into win probabilities and fair
// odds, and classifies market value (overlay/underlay) against actual odds.
package overlay

import (
	"fmt"

	"github.com/tacctile/handicap-app-sub003/internal/models"
)

// Probability clamps and the underlay penalty waiver threshold. Scores at or
// above the threshold skip underlay penalties entirely: a good horse gets
// bet down to short odds, and penalizing it for that would be circular.
const (
	MinWinProbability        = 0.02
	MaxWinProbability        = 0.80
	UnderlayPenaltyThreshold = 160
	MaxAdjustedScore         = 250
)

// Value classifications.
const (
	ValueMassiveOverlay = "massive_overlay"
	ValueStrongOverlay  = "strong_overlay"
	ValueOverlay        = "overlay"
	ValueFair           = "fair"
	ValueUnderlay       = "underlay"
	ValueUnknown        = "unknown"
)

// probAnchor is one point of the score-to-probability curve.
type probAnchor struct {
	score float64
	prob  float64
}

// probCurve is the monotonic score-to-probability mapping, interpolated
// linearly between anchors. Deliberately non-linear: mid-range score gains
// buy more win probability than the same gains at the extremes.
var probCurve = []probAnchor{
	{score: 0, prob: 0.02},
	{score: 100, prob: 0.08},
	{score: 140, prob: 0.18},
	{score: 170, prob: 0.32},
	{score: 200, prob: 0.45},
	{score: 230, prob: 0.60},
	{score: 250, prob: 0.80},
}

// ScoreToWinProbability maps a total score to an implied win probability,
// clamped to [2%, 80%].
func ScoreToWinProbability(score float64) float64 {
	if score <= probCurve[0].score {
		return MinWinProbability
	}
	last := probCurve[len(probCurve)-1]
	if score >= last.score {
		return MaxWinProbability
	}
	for i := 1; i < len(probCurve); i++ {
		lo, hi := probCurve[i-1], probCurve[i]
		if score <= hi.score {
			frac := (score - lo.score) / (hi.score - lo.score)
			p := lo.prob + frac*(hi.prob-lo.prob)
			return clampProb(p)
		}
	}
	return MaxWinProbability
}

func clampProb(p float64) float64 {
	if p < MinWinProbability {
		return MinWinProbability
	}
	if p > MaxWinProbability {
		return MaxWinProbability
	}
	return p
}

// ProbabilityToDecimalOdds converts a win probability to fair decimal odds.
func ProbabilityToDecimalOdds(p float64) float64 {
	if p <= 0 {
		return 0
	}
	return 1 / p
}

// CalculateOverlayPercent returns how far above (positive) or below
// (negative) fair value the actual odds sit, in percent.
func CalculateOverlayPercent(fairOdds, actualOdds float64) float64 {
	if fairOdds <= 0 {
		return 0
	}
	return (actualOdds/fairOdds - 1) * 100
}

// ClassifyValue maps an overlay percentage to its value classification.
func ClassifyValue(overlayPercent float64) string {
	switch {
	case overlayPercent >= 150:
		return ValueMassiveOverlay
	case overlayPercent >= 50:
		return ValueStrongOverlay
	case overlayPercent >= 15:
		return ValueOverlay
	case overlayPercent >= -14:
		return ValueFair
	default:
		return ValueUnderlay
	}
}

// TierAdjustment is the result of applying score-tier overlay logic.
type TierAdjustment struct {
	Adjustment    float64
	AdjustedScore float64
	PenaltyWaived bool
	Reasoning     string
}

// CalculateTierAdjustment applies overlay bonuses and underlay penalties to
// a score. Bonuses apply regardless of score; underlay penalties apply only
// below the waiver threshold. The adjustment is bounded to the overlay cap
// and the adjusted score to [0, 250].
func CalculateTierAdjustment(score, overlayPercent float64) TierAdjustment {
	var (
		adj    float64
		waived bool
		reason string
	)
	switch {
	case overlayPercent >= 150:
		adj, reason = 30, "Massive overlay bonus"
	case overlayPercent >= 80:
		adj, reason = 20, "Major overlay bonus"
	case overlayPercent >= 40:
		adj, reason = 10, "Overlay bonus"
	case overlayPercent >= 15:
		adj, reason = 5, "Mild overlay bonus"
	case overlayPercent <= -30:
		if score >= UnderlayPenaltyThreshold {
			waived, reason = true, "Heavy underlay, penalty waived (strong score)"
		} else {
			adj, reason = -25, "Heavy underlay penalty"
		}
	case overlayPercent <= -15:
		if score >= UnderlayPenaltyThreshold {
			waived, reason = true, "Underlay, penalty waived (strong score)"
		} else {
			adj, reason = -15, "Underlay penalty"
		}
	default:
		reason = "Fair market price"
	}

	if adj > models.MaxOverlay {
		adj = models.MaxOverlay
	}
	if adj < -models.MaxOverlay {
		adj = -models.MaxOverlay
	}

	adjusted := score + adj
	if adjusted < 0 {
		adjusted = 0
	}
	if adjusted > MaxAdjustedScore {
		adjusted = MaxAdjustedScore
	}
	return TierAdjustment{
		Adjustment:    adj,
		AdjustedScore: adjusted,
		PenaltyWaived: waived,
		Reasoning:     reason,
	}
}

// AnalyzeValue produces the complete market-value verdict for one horse's
// score against its market odds. A nil market price yields a zero
// adjustment and an unknown classification.
func AnalyzeValue(score float64, marketOdds *float64) models.OverlayResult {
	prob := ScoreToWinProbability(score)
	fair := ProbabilityToDecimalOdds(prob)

	result := models.OverlayResult{
		WinProbability: prob,
		FairOdds:       fair,
		MarketOdds:     marketOdds,
	}

	if marketOdds == nil {
		result.Classification = ValueUnknown
		result.Reasoning = "No market odds for value analysis"
		return result
	}

	pct := CalculateOverlayPercent(fair, *marketOdds)
	result.OverlayPercent = &pct
	result.Classification = ClassifyValue(pct)

	tier := CalculateTierAdjustment(score, pct)
	result.Adjustment = tier.Adjustment
	result.AdjustedScore = tier.AdjustedScore

	if score >= 140 && score < 170 && pct >= 150 {
		result.DiamondInRough = true
		result.Reasoning = fmt.Sprintf("%s; diamond in the rough", tier.Reasoning)
	} else {
		result.Reasoning = tier.Reasoning
	}
	return result
}
