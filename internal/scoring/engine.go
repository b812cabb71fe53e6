package scoring

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/internal/overlay"
)

// OddsAccessor supplies per-horse live odds given the entry index and its
// morning line. An empty return means no live price is available.
type OddsAccessor func(index int, morningLine string) string

// ScratchPredicate reports whether the entry at index is scratched.
type ScratchPredicate func(index int) bool

// RaceInput is everything the orchestrator needs to score one field.
// LiveOdds and Scratched are optional; a nil Scratched falls back to each
// entry's scratch flag.
type RaceInput struct {
	Header         models.RaceHeader
	Horses         []models.HorseEntry
	LiveOdds       OddsAccessor
	Scratched      ScratchPredicate
	TrackCondition string
}

// RaceResult is the scored field. Horses preserves the input (post
// position) ordering; ranks are a dense permutation of 1..activeCount over
// the non-scratched entries.
type RaceResult struct {
	Horses        []models.ScoredHorse `json:"horses"`
	Confidence    float64              `json:"confidence"`
	PaceScenario  string               `json:"pace_scenario"`
	PressureIndex float64              `json:"pressure_index"`
	ActiveCount   int                  `json:"active_count"`
}

// Engine is the race-level orchestrator. It is stateless between calls:
// both field-scoped aggregates are rebuilt per invocation and identical
// inputs always produce identical results.
type Engine struct {
	logger *logrus.Logger
}

// NewEngine creates a new scoring engine.
func NewEngine(logger *logrus.Logger) *Engine {
	return &Engine{logger: logger}
}

// ScoreRace scores one field. Field-scoped aggregates (the connections
// database and the pace snapshot) are built once, before any per-horse
// scoring, and treated as immutable thereafter, so every horse observes an
// identical field view.
func (e *Engine) ScoreRace(input RaceInput) RaceResult {
	header := input.Header
	if input.TrackCondition != "" {
		header.TrackCondition = input.TrackCondition
	}

	scratched := input.Scratched
	if scratched == nil {
		scratched = func(i int) bool { return input.Horses[i].Scratched }
	}

	connDB := BuildConnectionsDatabase(input.Horses)
	paceField := AnalyzePaceScenario(input.Horses, scratched)

	result := RaceResult{
		Horses:        make([]models.ScoredHorse, len(input.Horses)),
		PaceScenario:  paceField.Scenario,
		PressureIndex: paceField.PressureIndex,
		ActiveCount:   paceField.ActiveCount,
	}

	activeIdx := make([]int, 0, len(input.Horses))
	for i := range input.Horses {
		horse := &input.Horses[i]
		scored := models.ScoredHorse{Index: i, Horse: horse}
		if scratched(i) {
			// Scratched horses short-circuit to an all-zero score.
			result.Horses[i] = scored
			continue
		}
		scored.Score = e.scoreHorse(i, horse, &header, connDB, paceField, input.LiveOdds)
		result.Horses[i] = scored
		activeIdx = append(activeIdx, i)
	}

	assignRanks(result.Horses, activeIdx)
	result.Confidence = calculateRaceConfidence(result.Horses)

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"track":         header.TrackCode,
			"race":          header.RaceNumber,
			"field_size":    len(input.Horses),
			"active":        result.ActiveCount,
			"pace_scenario": result.PaceScenario,
			"confidence":    result.Confidence,
		}).Debug("Race scored")
	}

	return result
}

func (e *Engine) scoreHorse(
	index int,
	horse *models.HorseEntry,
	header *models.RaceHeader,
	connDB *ConnectionsDatabase,
	paceField *FieldPaceAnalysis,
	liveOdds OddsAccessor,
) models.HorseScore {
	style := paceField.Profiles[index].Style

	var live string
	if liveOdds != nil {
		live = liveOdds(index, horse.MorningLineOdds)
	}

	breakdown := models.ScoreBreakdown{
		SpeedClass:  CalculateSpeedClassScore(horse, header),
		Form:        CalculateFormScore(horse, header),
		Connections: CalculateConnectionsScore(horse, connDB),
		Equipment:   CalculateEquipmentScore(horse, style),
		Pattern:     CalculateTrainerPatternScore(horse, header, style),
		Odds:        ScoreOdds(live, horse.MorningLineOdds),
		Pace:        CalculatePaceScore(index, header, paceField),
	}

	base := breakdown.SpeedClass.Total + breakdown.Form.Total +
		breakdown.Connections.Total + breakdown.Equipment.Total +
		breakdown.Pattern.Total + breakdown.Odds.Total + breakdown.Pace.Total
	base = clamp(base, 0, models.MaxBaseScore)

	breakdown.Overlay = overlay.AnalyzeValue(base, breakdown.Odds.DecimalOdds)
	overlayScore := clamp(breakdown.Overlay.Adjustment, -models.MaxOverlay, models.MaxOverlay)

	return models.HorseScore{
		BaseScore:    base,
		OverlayScore: overlayScore,
		Total:        clamp(base+overlayScore, 0, models.MaxScore),
		Breakdown:    breakdown,
		Completeness: AssessCompleteness(horse),
	}
}

// assignRanks gives active horses dense ranks 1..activeCount by descending
// total, ties broken by input order. Scratched horses keep rank 0.
func assignRanks(horses []models.ScoredHorse, activeIdx []int) {
	order := make([]int, len(activeIdx))
	copy(order, activeIdx)
	sort.SliceStable(order, func(a, b int) bool {
		return horses[order[a]].Score.Total > horses[order[b]].Score.Total
	})
	for rank, i := range order {
		horses[i].Score.Rank = rank + 1
	}
}

// calculateRaceConfidence grades how separated the field is: a clear top
// horse and a wide score spread mean a more trustworthy ranking. An empty
// or all-scratched field has zero confidence.
func calculateRaceConfidence(horses []models.ScoredHorse) float64 {
	var totals []float64
	for i := range horses {
		if horses[i].Score.Rank > 0 {
			totals = append(totals, horses[i].Score.Total)
		}
	}
	if len(totals) == 0 {
		return 0
	}
	if len(totals) == 1 {
		return 50
	}

	sorted := make([]float64, len(totals))
	copy(sorted, totals)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	separation := sorted[0] - sorted[1]

	var mean float64
	for _, t := range totals {
		mean += t
	}
	mean /= float64(len(totals))
	var variance float64
	for _, t := range totals {
		variance += (t - mean) * (t - mean)
	}
	stddev := math.Sqrt(variance / float64(len(totals)))

	return clamp(separation*2+stddev, 0, 100)
}
