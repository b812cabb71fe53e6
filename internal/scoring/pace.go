package scoring

import (
	"fmt"

	"github.com/tacctile/handicap-app-sub003/internal/models"
)

// RunningStyle classifies how a horse positions itself early in a race.
type RunningStyle string

// Running styles: early speed, presser, stalker, closer, unknown.
const (
	StyleEarly   RunningStyle = "E"
	StylePresser RunningStyle = "P"
	StyleStalker RunningStyle = "S"
	StyleCloser  RunningStyle = "C"
	StyleUnknown RunningStyle = "U"
)

// Pace scenarios, ordered by rising pressure.
const (
	ScenarioSoft      = "soft"
	ScenarioModerate  = "moderate"
	ScenarioContested = "contested"
	ScenarioSpeedDuel = "speed_duel"
)

// Tactical advantage bands.
const (
	BandExcellent = "excellent"
	BandGood      = "good"
	BandNeutral   = "neutral"
	BandPoor      = "poor"
	BandTerrible  = "terrible"
)

// Style derivation thresholds.
const (
	styleMinLines     = 2
	confirmedSpeedEP1 = 88.0
	confirmedCloserLP = 88.0
	closingKickMargin = 5.0
	moderateLatePace  = 80.0
)

// recentLinesForStyle caps how far back the running-line scan goes.
const recentLinesForStyle = 5

// HorsePaceProfile is one horse's pace summary inside a field snapshot.
type HorsePaceProfile struct {
	Style     RunningStyle
	AvgEarly  *float64
	AvgLate   *float64
	PaceLines int
}

// FieldPaceAnalysis is the field-scoped pace snapshot built once per race
// and shared read-only by every per-horse scoring call. It is never mutated
// after construction, so all horses observe an identical view regardless of
// scoring order.
type FieldPaceAnalysis struct {
	Profiles       []HorsePaceProfile
	StyleCounts    map[RunningStyle]int
	Scenario       string
	PressureIndex  float64
	DataConfidence float64
	ActiveCount    int
}

// ParseRunningStyle derives a horse's running style. Call positions across
// recent past performances drive the primary classification; when at least
// two lines carry pace figures, the figure averages override it (confirmed
// speed, closing kick, confirmed closer). Too little data of either kind
// yields StyleUnknown.
func ParseRunningStyle(horse *models.HorseEntry) RunningStyle {
	profile := buildPaceProfile(horse)
	return profile.Style
}

func buildPaceProfile(horse *models.HorseEntry) HorsePaceProfile {
	var (
		callSum   float64
		callLines int
		epSum     float64
		lpSum     float64
		paceLines int
	)
	for _, pp := range horse.RecentRaces(recentLinesForStyle) {
		if pp.RunningLine.FirstCall != nil {
			callSum += float64(*pp.RunningLine.FirstCall)
			callLines++
		}
		if pp.HasPaceFigures() {
			epSum += float64(*pp.EarlyPace)
			lpSum += float64(*pp.LatePace)
			paceLines++
		}
	}

	profile := HorsePaceProfile{Style: StyleUnknown, PaceLines: paceLines}

	if callLines >= styleMinLines {
		avg := callSum / float64(callLines)
		switch {
		case avg <= 2.0:
			profile.Style = StyleEarly
		case avg <= 4.0:
			profile.Style = StylePresser
		case avg <= 6.0:
			profile.Style = StyleStalker
		default:
			profile.Style = StyleCloser
		}
	}

	if paceLines >= styleMinLines {
		avgEP := epSum / float64(paceLines)
		avgLP := lpSum / float64(paceLines)
		profile.AvgEarly = &avgEP
		profile.AvgLate = &avgLP
		switch {
		case avgEP >= confirmedSpeedEP1 && avgEP >= avgLP:
			profile.Style = StyleEarly
		case avgLP-avgEP >= closingKickMargin:
			profile.Style = StyleCloser
		case avgLP >= confirmedCloserLP && profile.Style == StyleUnknown:
			profile.Style = StyleCloser
		}
	}

	return profile
}

// AnalyzePaceScenario builds the field pace snapshot. Scratched horses are
// excluded from counts but keep a profile slot so per-horse lookups stay
// index-aligned with the input field.
func AnalyzePaceScenario(horses []models.HorseEntry, scratched func(int) bool) *FieldPaceAnalysis {
	analysis := &FieldPaceAnalysis{
		Profiles:    make([]HorsePaceProfile, len(horses)),
		StyleCounts: make(map[RunningStyle]int),
	}

	var (
		styledCount int
		epProfiles  int
		topEP       float64
		secondEP    float64
	)
	for i := range horses {
		profile := buildPaceProfile(&horses[i])
		analysis.Profiles[i] = profile
		if scratched != nil && scratched(i) {
			continue
		}
		analysis.ActiveCount++
		analysis.StyleCounts[profile.Style]++
		if profile.Style != StyleUnknown {
			styledCount++
		}
		if profile.AvgEarly != nil {
			epProfiles++
			if *profile.AvgEarly > topEP {
				secondEP = topEP
				topEP = *profile.AvgEarly
			} else if *profile.AvgEarly > secondEP {
				secondEP = *profile.AvgEarly
			}
		}
	}

	if analysis.ActiveCount == 0 {
		analysis.Scenario = ScenarioSoft
		return analysis
	}

	active := float64(analysis.ActiveCount)
	analysis.DataConfidence = 100 * (0.6*float64(styledCount)/active + 0.4*float64(epProfiles)/active)

	ppi := 22.0*float64(analysis.StyleCounts[StyleEarly]) +
		8.0*float64(analysis.StyleCounts[StylePresser]) +
		2.0*float64(analysis.StyleCounts[StyleStalker])

	// Field EP1 pressure only counts when enough horses carry pace figures
	// to trust it.
	if epProfiles >= 2 && analysis.DataConfidence >= 50 {
		if topEP >= confirmedSpeedEP1 && topEP-secondEP <= 3 {
			ppi += 18
		} else if topEP >= confirmedSpeedEP1 {
			ppi += 6
		}
	}

	analysis.PressureIndex = clamp(ppi, 0, 100)

	switch {
	case analysis.PressureIndex >= 75 || analysis.StyleCounts[StyleEarly] >= 3:
		analysis.Scenario = ScenarioSpeedDuel
	case analysis.PressureIndex >= 55:
		analysis.Scenario = ScenarioContested
	case analysis.PressureIndex >= 30:
		analysis.Scenario = ScenarioModerate
	default:
		analysis.Scenario = ScenarioSoft
	}

	return analysis
}

// tacticalEntry maps a style and scenario to its advantage band and points.
type tacticalEntry struct {
	band   string
	points float64
}

var tacticalPoints = map[RunningStyle]map[string]tacticalEntry{
	StyleEarly: {
		ScenarioSoft:      {BandExcellent, 30},
		ScenarioModerate:  {BandGood, 23},
		ScenarioContested: {BandPoor, 10},
		ScenarioSpeedDuel: {BandTerrible, 5},
	},
	StylePresser: {
		ScenarioSoft:      {BandNeutral, 17},
		ScenarioModerate:  {BandGood, 23},
		ScenarioContested: {BandGood, 23},
		ScenarioSpeedDuel: {BandGood, 23},
	},
	StyleStalker: {
		ScenarioSoft:      {BandPoor, 10},
		ScenarioModerate:  {BandNeutral, 17},
		ScenarioContested: {BandGood, 23},
		ScenarioSpeedDuel: {BandExcellent, 30},
	},
	StyleCloser: {
		ScenarioSoft:      {BandTerrible, 5},
		ScenarioModerate:  {BandPoor, 10},
		ScenarioContested: {BandGood, 23},
		ScenarioSpeedDuel: {BandExcellent, 30},
	},
	StyleUnknown: {
		ScenarioSoft:      {BandNeutral, 17},
		ScenarioModerate:  {BandNeutral, 17},
		ScenarioContested: {BandNeutral, 17},
		ScenarioSpeedDuel: {BandNeutral, 17},
	},
}

// CalculateTacticalAdvantage returns the advantage band and points for a
// style in a pace scenario. A lone early-speed horse in a soft scenario is
// upgraded to excellent regardless of the base table.
func CalculateTacticalAdvantage(style RunningStyle, analysis *FieldPaceAnalysis) (string, float64) {
	entry := tacticalPoints[style][analysis.Scenario]
	if entry.band == "" {
		entry = tacticalEntry{BandNeutral, 17}
	}
	if style == StyleEarly && analysis.Scenario == ScenarioSoft && analysis.StyleCounts[StyleEarly] == 1 {
		return BandExcellent, 30
	}
	return entry.band, entry.points
}

// CalculatePaceScore scores one horse's pace outlook against the field
// snapshot: tactical advantage, track-bias adjustment, and a pace-figure
// adjustment, clamped to the documented [5, 45] range.
func CalculatePaceScore(index int, header *models.RaceHeader, analysis *FieldPaceAnalysis) models.PaceScore {
	profile := analysis.Profiles[index]

	band, tactical := CalculateTacticalAdvantage(profile.Style, analysis)
	bias := biasAdjustment(profile.Style, header)
	figure := figureAdjustment(profile, analysis.Scenario)

	score := models.PaceScore{
		Style:          string(profile.Style),
		Scenario:       analysis.Scenario,
		TacticalBand:   band,
		TacticalPoints: tactical,
		BiasPoints:     bias,
		FigurePoints:   figure,
	}
	score.Max = models.MaxPaceScore
	score.Total = clamp(tactical+bias+figure, models.MinPaceScore, models.MaxPaceScore)

	score.Reasons = append(score.Reasons,
		fmt.Sprintf("%s runner in %s pace (%s setup)", styleName(profile.Style), analysis.Scenario, band))
	if bias != 0 {
		score.Reasons = append(score.Reasons, fmt.Sprintf("Track bias adjustment %+.0f", bias))
	}
	if figure > 0 {
		score.Reasons = append(score.Reasons, "Pace figures confirm the setup")
	} else if figure < 0 {
		score.Reasons = append(score.Reasons, "Pace figures soften the setup")
	}
	score.Reasoning = joinReasons(score.Reasons)
	return score
}

func biasAdjustment(style RunningStyle, header *models.RaceHeader) float64 {
	if header == nil {
		return 0
	}
	var adj float64
	if header.IsOffTrack() {
		switch style {
		case StyleEarly:
			adj += 4
		case StylePresser:
			adj += 2
		case StyleCloser:
			adj -= 2
		}
	}
	if header.IsSprint() {
		switch style {
		case StyleEarly:
			adj += 2
		case StylePresser:
			adj++
		}
	} else {
		switch style {
		case StyleStalker:
			adj++
		case StyleCloser:
			adj += 2
		}
	}
	return clamp(adj, -6, 6)
}

func figureAdjustment(profile HorsePaceProfile, scenario string) float64 {
	if profile.AvgEarly == nil || profile.AvgLate == nil {
		return 0
	}
	switch {
	case profile.Style == StyleEarly && *profile.AvgEarly >= confirmedSpeedEP1 && scenario == ScenarioSoft:
		return 8
	case profile.Style == StyleCloser && *profile.AvgLate >= confirmedCloserLP &&
		(scenario == ScenarioContested || scenario == ScenarioSpeedDuel):
		return 8
	case profile.Style == StyleCloser && *profile.AvgLate < moderateLatePace && scenario == ScenarioSoft:
		return -6
	}
	return 0
}

func styleName(style RunningStyle) string {
	switch style {
	case StyleEarly:
		return "Early speed"
	case StylePresser:
		return "Presser"
	case StyleStalker:
		return "Stalker"
	case StyleCloser:
		return "Closer"
	default:
		return "Unclassified"
	}
}
