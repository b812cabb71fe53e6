package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/internal/track"
)

// goodPatternFloor is the win rate below which a matched pattern scores
// nothing regardless of sample size.
const goodPatternFloor = 0.18

// patternCategory is one situational trainer angle: the condition that must
// hold for today's entry, the minimum sample the trainer's category stat
// needs, the rate that earns the category maximum, and the maximum itself.
type patternCategory struct {
	key       string
	minStarts int
	eliteRate float64
	maxPoints float64
	applies   func(horse *models.HorseEntry, header *models.RaceHeader, style RunningStyle) bool
}

// patternCatalog is the fixed catalog of situational trainer categories.
var patternCatalog = []patternCategory{
	{
		key: "first_start", minStarts: 20, eliteRate: 0.25, maxPoints: 3,
		applies: func(h *models.HorseEntry, _ *models.RaceHeader, _ RunningStyle) bool {
			return h.IsFirstTimeStarter()
		},
	},
	{
		key: "first_lasix", minStarts: 5, eliteRate: 0.28, maxPoints: 3,
		applies: func(h *models.HorseEntry, _ *models.RaceHeader, _ RunningStyle) bool {
			last := h.LastRace()
			if last == nil {
				return false
			}
			return strings.Contains(strings.ToUpper(h.Medication), "L") && !parsePriorEquipment(last).Lasix
		},
	},
	{
		key: "first_blinkers", minStarts: 5, eliteRate: 0.28, maxPoints: 2,
		applies: func(h *models.HorseEntry, _ *models.RaceHeader, _ RunningStyle) bool {
			last := h.LastRace()
			if last == nil {
				return false
			}
			return h.Equipment.Blinkers && !parsePriorEquipment(last).Blinkers
		},
	},
	{
		key: "blinkers_off", minStarts: 5, eliteRate: 0.25, maxPoints: 1,
		applies: func(h *models.HorseEntry, _ *models.RaceHeader, _ RunningStyle) bool {
			last := h.LastRace()
			if last == nil {
				return false
			}
			return !h.Equipment.Blinkers && parsePriorEquipment(last).Blinkers
		},
	},
	{
		key: "second_off_layoff", minStarts: 10, eliteRate: 0.25, maxPoints: 3,
		applies: func(h *models.HorseEntry, _ *models.RaceHeader, _ RunningStyle) bool {
			last := h.LastRace()
			return last != nil && last.DaysSinceRace != nil && *last.DaysSinceRace >= 45
		},
	},
	{
		key: "layoff_45_90", minStarts: 10, eliteRate: 0.25, maxPoints: 2,
		applies: func(h *models.HorseEntry, header *models.RaceHeader, _ RunningStyle) bool {
			days := h.DaysSinceLastRace(asOfDate(header))
			return days >= 45 && days < 90
		},
	},
	{
		key: "layoff_90_plus", minStarts: 10, eliteRate: 0.25, maxPoints: 2,
		applies: func(h *models.HorseEntry, header *models.RaceHeader, _ RunningStyle) bool {
			return h.DaysSinceLastRace(asOfDate(header)) >= 90
		},
	},
	{
		key: "sprint_to_route", minStarts: 10, eliteRate: 0.25, maxPoints: 2,
		applies: func(h *models.HorseEntry, header *models.RaceHeader, _ RunningStyle) bool {
			last := h.LastRace()
			return last != nil && header != nil && last.DistanceFurlongs < 8 && header.IsRoute()
		},
	},
	{
		key: "route_to_sprint", minStarts: 10, eliteRate: 0.25, maxPoints: 2,
		applies: func(h *models.HorseEntry, header *models.RaceHeader, _ RunningStyle) bool {
			last := h.LastRace()
			return last != nil && header != nil && last.DistanceFurlongs >= 8 && header.IsSprint()
		},
	},
	{
		key: "surface_switch", minStarts: 10, eliteRate: 0.25, maxPoints: 2,
		applies: func(h *models.HorseEntry, header *models.RaceHeader, _ RunningStyle) bool {
			last := h.LastRace()
			return last != nil && header != nil && last.Surface != "" &&
				header.Surface != "" && !strings.EqualFold(last.Surface, header.Surface)
		},
	},
	{
		key: "first_after_claim", minStarts: 5, eliteRate: 0.30, maxPoints: 3,
		applies: func(h *models.HorseEntry, _ *models.RaceHeader, _ RunningStyle) bool {
			last := h.LastRace()
			return last != nil && last.ClaimingPrice != nil
		},
	},
	{
		key: "class_drop", minStarts: 10, eliteRate: 0.25, maxPoints: 2,
		applies: func(h *models.HorseEntry, header *models.RaceHeader, _ RunningStyle) bool {
			last := h.LastRace()
			if last == nil || header == nil {
				return false
			}
			var todayPrice *float64 = header.ClaimingPrice
			return track.CompareClass(header.Classification, last.Classification, todayPrice, last.ClaimingPrice) == track.ClassDrop
		},
	},
}

func normalizePatternKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// CalculateTrainerPatternScore stacks points from every matched situational
// trainer category. A category only scores when its condition holds today
// AND the trainer's category statistic clears the sample-size gate; the
// stacked total is capped at 8.
func CalculateTrainerPatternScore(horse *models.HorseEntry, header *models.RaceHeader, style RunningStyle) models.PatternScore {
	score := models.PatternScore{}
	score.Max = models.MaxPatternScore

	stats := make(map[string]models.TrainerCategoryStat, len(horse.TrainerCategoryStats))
	for _, s := range horse.TrainerCategoryStats {
		stats[normalizePatternKey(s.Category)] = s
	}

	var total float64
	for _, cat := range patternCatalog {
		if !cat.applies(horse, header, style) {
			continue
		}
		stat, ok := stats[cat.key]
		if !ok || stat.Starts < cat.minStarts {
			continue
		}
		var points float64
		switch {
		case stat.WinRate >= cat.eliteRate:
			points = cat.maxPoints
		case stat.WinRate >= goodPatternFloor:
			points = math.Round(cat.maxPoints / 2)
		default:
			continue
		}
		total += points
		score.MatchedPatterns = append(score.MatchedPatterns, cat.key)
		score.Reasons = append(score.Reasons,
			fmt.Sprintf("Trainer %s: %.0f%% (%d starts) +%.0f", cat.key, stat.WinRate*100, stat.Starts, points))
	}

	if len(score.MatchedPatterns) == 0 {
		score.Reasons = []string{"No qualifying trainer patterns"}
	}
	score.Total = clamp(total, 0, models.MaxPatternScore)
	score.Reasoning = joinReasons(score.Reasons)
	return score
}
