package models

import "sort"

// Score ceilings and category caps. Base score is the capped sum of the
// category totals; the overlay adjustment is the only signed component.
const (
	MaxBaseScore = 323
	MaxOverlay   = 40
	MaxScore     = 363

	MaxSpeedClassScore  = 80
	MaxSpeedScore       = 48
	MaxClassScore       = 32
	MaxFormScore        = 50
	MaxPaceScore        = 45
	MinPaceScore        = 5
	MaxConnectionsScore = 24
	MaxTrainerScore     = 10
	MaxJockeyScore      = 12
	MaxPartnershipScore = 2
	MaxEquipmentScore   = 20
	MaxPatternScore     = 8
	MaxOddsScore        = 12

	NeutralSpeedScore = 24
	NeutralOddsScore  = 6
)

// ScoreLimits groups the score ceilings for consumers that want them as a
// single export.
type Limits struct {
	MaxBase    float64 `json:"max_base"`
	MaxOverlay float64 `json:"max_overlay"`
	MaxTotal   float64 `json:"max_total"`
}

// ScoreLimits is the canonical set of score ceilings.
var ScoreLimits = Limits{
	MaxBase:    MaxBaseScore,
	MaxOverlay: MaxOverlay,
	MaxTotal:   MaxScore,
}

// Threshold pairs a lower score bound with the tier it grants. Thresholds
// are resolved highest bound first.
type Threshold struct {
	Min   float64 `json:"min"`
	Tier  string  `json:"tier"`
	Color string  `json:"color"`
}

// ScoreThresholds maps total score to display tier, highest first.
var ScoreThresholds = []Threshold{
	{Min: 260, Tier: "elite", Color: "#16a34a"},
	{Min: 220, Tier: "strong", Color: "#65a30d"},
	{Min: 180, Tier: "contender", Color: "#ca8a04"},
	{Min: 140, Tier: "playable", Color: "#ea580c"},
	{Min: 100, Tier: "marginal", Color: "#dc2626"},
	{Min: 0, Tier: "weak", Color: "#6b7280"},
}

// GetScoreTier returns the display tier for a total score.
func GetScoreTier(total float64) string {
	for _, t := range ScoreThresholds {
		if total >= t.Min {
			return t.Tier
		}
	}
	return "weak"
}

// GetScoreColor returns the display color for a total score.
func GetScoreColor(total float64) string {
	for _, t := range ScoreThresholds {
		if total >= t.Min {
			return t.Color
		}
	}
	return "#6b7280"
}

// CategoryScore is the common shape of every category sub-result: the points
// awarded, the category cap, and the reasoning text shown to the user. The
// reasoning strings are part of the display contract and are asserted on by
// downstream snapshot tests.
type CategoryScore struct {
	Total     float64  `json:"total"`
	Max       float64  `json:"max"`
	Reasons   []string `json:"reasons"`
	Reasoning string   `json:"reasoning"`
}

// PercentOfMax returns the category total as a fraction of its cap.
func (c *CategoryScore) PercentOfMax() float64 {
	if c.Max <= 0 {
		return 0
	}
	return c.Total / c.Max
}

// SpeedClassScore is the speed and class category result.
type SpeedClassScore struct {
	CategoryScore
	SpeedPoints   float64 `json:"speed_points"`
	ClassPoints   float64 `json:"class_points"`
	BestFigure    *int    `json:"best_figure,omitempty"`
	ParFigure     int     `json:"par_figure"`
	ClassMovement string  `json:"class_movement"`
	ShipperPoints float64 `json:"shipper_points"`
	TripExcuse    bool    `json:"trip_excuse"`
}

// FormScore is the form category result.
type FormScore struct {
	CategoryScore
	RecentFormPoints  float64 `json:"recent_form_points"`
	ConsistencyPoints float64 `json:"consistency_points"`
	LayoffPoints      float64 `json:"layoff_points"`
	WinnerBonusPoints float64 `json:"winner_bonus_points"`
	WonLastOut        bool    `json:"won_last_out"`
	DaysSinceLastRace int     `json:"days_since_last_race"`
}

// ConnectionsScore is the trainer/jockey category result.
type ConnectionsScore struct {
	CategoryScore
	TrainerPoints       float64 `json:"trainer_points"`
	JockeyPoints        float64 `json:"jockey_points"`
	PartnershipPoints   float64 `json:"partnership_points"`
	TrainerFromFallback bool    `json:"trainer_from_fallback"`
	JockeyFromFallback  bool    `json:"jockey_from_fallback"`
}

// EquipmentScore is the equipment/medication change category result.
type EquipmentScore struct {
	CategoryScore
	Changes []string `json:"changes"`
}

// PatternScore is the trainer-pattern category result.
type PatternScore struct {
	CategoryScore
	MatchedPatterns []string `json:"matched_patterns"`
}

// OddsScore is the market-odds category result.
type OddsScore struct {
	CategoryScore
	DecimalOdds *float64 `json:"decimal_odds,omitempty"`
	Source      string   `json:"source"`
}

// PaceScore is the pace category result.
type PaceScore struct {
	CategoryScore
	Style          string  `json:"style"`
	Scenario       string  `json:"scenario"`
	TacticalBand   string  `json:"tactical_band"`
	TacticalPoints float64 `json:"tactical_points"`
	BiasPoints     float64 `json:"bias_points"`
	FigurePoints   float64 `json:"figure_points"`
}

// OverlayResult is the signed market-value adjustment for a horse.
type OverlayResult struct {
	Adjustment     float64  `json:"adjustment"`
	AdjustedScore  float64  `json:"adjusted_score"`
	WinProbability float64  `json:"win_probability"`
	FairOdds       float64  `json:"fair_odds"`
	MarketOdds     *float64 `json:"market_odds,omitempty"`
	OverlayPercent *float64 `json:"overlay_percent,omitempty"`
	Classification string   `json:"classification"`
	DiamondInRough bool     `json:"diamond_in_rough"`
	Reasoning      string   `json:"reasoning"`
}

// ScoreBreakdown carries every category sub-result for one horse.
type ScoreBreakdown struct {
	SpeedClass  SpeedClassScore  `json:"speed_class"`
	Form        FormScore        `json:"form"`
	Connections ConnectionsScore `json:"connections"`
	Equipment   EquipmentScore   `json:"equipment"`
	Pattern     PatternScore     `json:"pattern"`
	Odds        OddsScore        `json:"odds"`
	Pace        PaceScore        `json:"pace"`
	Overlay     OverlayResult    `json:"overlay"`
}

// Categories returns the base categories keyed by name, for diagnostics and
// display layers that iterate rather than address fields.
func (b *ScoreBreakdown) Categories() map[string]CategoryScore {
	return map[string]CategoryScore{
		"speed_class": b.SpeedClass.CategoryScore,
		"form":        b.Form.CategoryScore,
		"connections": b.Connections.CategoryScore,
		"equipment":   b.Equipment.CategoryScore,
		"pattern":     b.Pattern.CategoryScore,
		"odds":        b.Odds.CategoryScore,
		"pace":        b.Pace.CategoryScore,
	}
}

// HorseScore is the complete per-horse scoring result.
type HorseScore struct {
	BaseScore    float64            `json:"base_score"`
	OverlayScore float64            `json:"overlay_score"`
	Total        float64            `json:"total"`
	Rank         int                `json:"rank"`
	Breakdown    ScoreBreakdown     `json:"breakdown"`
	Completeness CompletenessReport `json:"completeness"`
}

// ScoredHorse pairs an input entry with its score. Index is the position of
// the entry in the input slice; output ordering preserves input ordering.
type ScoredHorse struct {
	Index int         `json:"index"`
	Horse *HorseEntry `json:"horse"`
	Score HorseScore  `json:"score"`
}

// GetTopHorses returns the top n active (non-scratched) horses ordered by
// rank. Scratched horses carry rank 0 and are never returned.
func GetTopHorses(scored []ScoredHorse, n int) []ScoredHorse {
	if n <= 0 {
		n = 3
	}
	active := make([]ScoredHorse, 0, len(scored))
	for _, s := range scored {
		if s.Score.Rank > 0 {
			active = append(active, s)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Score.Rank < active[j].Score.Rank
	})
	if n > len(active) {
		n = len(active)
	}
	return active[:n]
}
