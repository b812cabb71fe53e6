// Package diagnostics explains scored fields after the fact: weak and
// strong categories per horse, model-versus-market disagreement, and
// field-level weight-distribution anomalies.
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/internal/overlay"
	"github.com/tacctile/handicap-app-sub003/internal/scoring"
)

// Disagreement levels between market-implied and model-implied win
// probability.
const (
	DisagreementLow     = "low"
	DisagreementMedium  = "medium"
	DisagreementHigh    = "high"
	DisagreementExtreme = "extreme"
)

// Weight-distribution verdicts.
const (
	WeightUnder   = "under"
	WeightAligned = "aligned"
	WeightOver    = "over"
)

// Category thresholds: below half of max is weak, above three quarters is
// strong.
const (
	weakFraction   = 0.50
	strongFraction = 0.75
)

// CategoryReading is one category's share of its cap for a horse.
type CategoryReading struct {
	Category     string  `json:"category"`
	Value        float64 `json:"value"`
	Max          float64 `json:"max"`
	PercentOfMax float64 `json:"percent_of_max"`
}

// HorseDiagnostics explains one horse's score profile.
type HorseDiagnostics struct {
	ProgramNumber     string            `json:"program_number"`
	MarketProbability *float64          `json:"market_probability,omitempty"`
	ModelProbability  float64           `json:"model_probability"`
	Disagreement      string            `json:"disagreement"`
	WeakCategories    []CategoryReading `json:"weak_categories"`
	StrongCategories  []CategoryReading `json:"strong_categories"`
}

// WeightReading is the field-level weight-distribution verdict for one
// category.
type WeightReading struct {
	Category       string  `json:"category"`
	FieldShare     float64 `json:"field_share"`
	StandardLow    float64 `json:"standard_low"`
	StandardHigh   float64 `json:"standard_high"`
	Verdict        string  `json:"verdict"`
	Recommendation string  `json:"recommendation"`
}

// FieldDiagnostics aggregates field-level anomalies.
type FieldDiagnostics struct {
	Horses          []HorseDiagnostics `json:"horses"`
	WeightReadings  []WeightReading    `json:"weight_readings"`
	FavoritesInTop3 int                `json:"favorites_in_top3"`
	WeakFavorites   []string           `json:"weak_favorites"`
}

// standardRange is the industry-reference share of the base score a
// category usually contributes.
type standardRange struct {
	low, high float64
}

var standardRanges = map[string]standardRange{
	"speed_class": {0.28, 0.40},
	"form":        {0.15, 0.28},
	"pace":        {0.10, 0.22},
	"connections": {0.05, 0.12},
	"equipment":   {0.02, 0.08},
	"pattern":     {0.00, 0.05},
	"odds":        {0.02, 0.07},
}

// categoryOrder keeps diagnostics output deterministic.
var categoryOrder = []string{
	"speed_class", "form", "pace", "connections", "equipment", "pattern", "odds",
}

// marketImpliedProbability converts fractional odds into the win
// probability the market is charging: 1/(odds+1).
func marketImpliedProbability(odds *float64) *float64 {
	if odds == nil || *odds < 0 {
		return nil
	}
	p := 1 / (*odds + 1)
	return &p
}

// AnalyzeHorse explains one scored horse: which categories drag it down,
// which carry it, and how far the model sits from the market.
func AnalyzeHorse(scored *models.ScoredHorse) HorseDiagnostics {
	diag := HorseDiagnostics{
		ProgramNumber:    scored.Horse.ProgramNumber,
		ModelProbability: overlay.ScoreToWinProbability(scored.Score.Total),
	}
	diag.MarketProbability = marketImpliedProbability(scored.Score.Breakdown.Odds.DecimalOdds)

	cats := scored.Score.Breakdown.Categories()
	for _, name := range categoryOrder {
		cat := cats[name]
		reading := CategoryReading{
			Category:     name,
			Value:        cat.Total,
			Max:          cat.Max,
			PercentOfMax: cat.PercentOfMax(),
		}
		if reading.PercentOfMax < weakFraction {
			diag.WeakCategories = append(diag.WeakCategories, reading)
		} else if reading.PercentOfMax > strongFraction {
			diag.StrongCategories = append(diag.StrongCategories, reading)
		}
	}

	diag.Disagreement = disagreementLevel(diag.MarketProbability, diag.ModelProbability)
	return diag
}

func disagreementLevel(market *float64, model float64) string {
	if market == nil {
		return DisagreementLow
	}
	gap := model - *market
	if gap < 0 {
		gap = -gap
	}
	switch {
	case gap < 0.05:
		return DisagreementLow
	case gap < 0.12:
		return DisagreementMedium
	case gap < 0.25:
		return DisagreementHigh
	default:
		return DisagreementExtreme
	}
}

// AnalyzeField runs per-horse diagnostics, compares the field's category
// weight distribution against the industry-standard reference ranges, and
// flags market favorites the model scores weakly.
func AnalyzeField(result *scoring.RaceResult) FieldDiagnostics {
	field := FieldDiagnostics{}

	var (
		baseSum     float64
		categorySum = make(map[string]float64)
	)
	for i := range result.Horses {
		scored := &result.Horses[i]
		if scored.Score.Rank == 0 {
			continue
		}
		field.Horses = append(field.Horses, AnalyzeHorse(scored))
		baseSum += scored.Score.BaseScore
		for name, cat := range scored.Score.Breakdown.Categories() {
			categorySum[name] += cat.Total
		}
	}

	for _, name := range categoryOrder {
		ref := standardRanges[name]
		share := 0.0
		if baseSum > 0 {
			share = categorySum[name] / baseSum
		}
		reading := WeightReading{
			Category:     name,
			FieldShare:   share,
			StandardLow:  ref.low,
			StandardHigh: ref.high,
		}
		switch {
		case share < ref.low:
			reading.Verdict = WeightUnder
			reading.Recommendation = fmt.Sprintf("%s contributes %.0f%% of this field's score, below the usual range; the field may lack the data to separate on it", name, share*100)
		case share > ref.high:
			reading.Verdict = WeightOver
			reading.Recommendation = fmt.Sprintf("%s contributes %.0f%% of this field's score, above the usual range; verify the signal is not carrying the whole ranking", name, share*100)
		default:
			reading.Verdict = WeightAligned
			reading.Recommendation = fmt.Sprintf("%s share is within the usual range", name)
		}
		field.WeightReadings = append(field.WeightReadings, reading)
	}

	field.FavoritesInTop3 = favoritesInTop3(result)
	field.WeakFavorites = weakFavorites(result)
	return field
}

// favoritesInTop3 counts how many of the three shortest-priced active
// horses also land in the model's top 3.
func favoritesInTop3(result *scoring.RaceResult) int {
	type priced struct {
		index int
		odds  float64
	}
	var byMarket []priced
	for i := range result.Horses {
		scored := &result.Horses[i]
		if scored.Score.Rank == 0 || scored.Score.Breakdown.Odds.DecimalOdds == nil {
			continue
		}
		byMarket = append(byMarket, priced{index: i, odds: *scored.Score.Breakdown.Odds.DecimalOdds})
	}
	sort.SliceStable(byMarket, func(a, b int) bool { return byMarket[a].odds < byMarket[b].odds })
	if len(byMarket) > 3 {
		byMarket = byMarket[:3]
	}
	count := 0
	for _, p := range byMarket {
		if r := result.Horses[p.index].Score.Rank; r >= 1 && r <= 3 {
			count++
		}
	}
	return count
}

// weakFavorites flags favorites whose bonus categories (form, equipment,
// pattern) all read weak despite the short price.
func weakFavorites(result *scoring.RaceResult) []string {
	var weak []string
	for i := range result.Horses {
		scored := &result.Horses[i]
		odds := scored.Score.Breakdown.Odds.DecimalOdds
		if scored.Score.Rank == 0 || odds == nil || *odds > 3.0 {
			continue
		}
		b := scored.Score.Breakdown
		if b.Form.PercentOfMax() < weakFraction &&
			b.Equipment.PercentOfMax() < weakFraction &&
			b.Pattern.PercentOfMax() < weakFraction {
			weak = append(weak, scored.Horse.ProgramNumber)
		}
	}
	return weak
}
