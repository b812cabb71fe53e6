package scoring

import (
	"fmt"
	"strings"

	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/internal/track"
)

// speedFigureLookback is how many recent races supply speed figures.
const speedFigureLookback = 3

// speedBands award points by the margin of the best adjusted figure over the
// class par, highest margin first. Figures well below par fall through to
// the floor value.
var speedBands = []band{
	{min: 10, value: 48},
	{min: 5, value: 43},
	{min: 0, value: 38},
	{min: -5, value: 33},
	{min: -10, value: 28},
}

const speedFloor = 8

// Class sub-score awards.
const (
	classProvenWinner   = 32
	classDropWithExcuse = 29
	classCompetitive    = 24
	classUnknown        = 16
)

// tripExcuseMarkers are trip-comment substrings that document a legitimate
// excuse for a poor finish.
var tripExcuseMarkers = []string{
	"bumped", "blocked", "steadied", "checked", "wide trip", "4 wide", "5 wide",
	"stumbled", "broke slowly", "trouble", "squeezed", "shut off", "clipped heels",
}

// HasTripExcuse reports whether a trip comment documents a troubled trip.
func HasTripExcuse(comment string) bool {
	c := strings.ToLower(comment)
	for _, marker := range tripExcuseMarkers {
		if strings.Contains(c, marker) {
			return true
		}
	}
	return false
}

// variantAdjustment converts a past race's track variant into a figure
// adjustment: large positive variants (slow surfaces) boost the figure,
// large negative ones (glib surfaces) shave it.
func variantAdjustment(variant *int) int {
	if variant == nil {
		return 0
	}
	v := *variant
	switch {
	case v >= 5:
		return 2
	case v >= 3:
		return 1
	case v <= -5:
		return -2
	case v <= -3:
		return -1
	}
	return 0
}

// BestAdjustedFigure returns the best primary figure from the last three
// races after variant and track-tier normalization. The boolean reports
// whether any figure was found.
func BestAdjustedFigure(horse *models.HorseEntry) (int, bool) {
	best := 0
	found := false
	for _, pp := range horse.RecentRaces(speedFigureLookback) {
		fig, ok := pp.PrimaryFigure()
		if !ok {
			continue
		}
		adjusted := fig + variantAdjustment(pp.TrackVariant) + track.FigureAdjustment(pp.Track)
		if !found || adjusted > best {
			best = adjusted
			found = true
		}
	}
	return best, found
}

// CalculateSpeedClassScore scores a horse's speed figures against the class
// par and its class credentials against today's level, including shipper
// normalization. The combined total is capped at 80.
func CalculateSpeedClassScore(horse *models.HorseEntry, header *models.RaceHeader) models.SpeedClassScore {
	par := track.DefaultPar
	classification := ""
	if header != nil {
		par = track.ParFor(header.Classification)
		classification = header.Classification
	}

	score := models.SpeedClassScore{ParFigure: par, ClassMovement: string(track.ClassSame)}
	score.Max = models.MaxSpeedClassScore

	// Speed component.
	if best, ok := BestAdjustedFigure(horse); ok {
		score.BestFigure = &best
		score.SpeedPoints = lookupBand(speedBands, float64(best-par), speedFloor)
		switch {
		case best-par >= 10:
			score.Reasons = append(score.Reasons, fmt.Sprintf("Best figure %d towers over par %d", best, par))
		case best-par >= 0:
			score.Reasons = append(score.Reasons, fmt.Sprintf("Best figure %d meets par %d", best, par))
		default:
			score.Reasons = append(score.Reasons, fmt.Sprintf("Best figure %d below par %d", best, par))
		}
	} else {
		score.SpeedPoints = models.NeutralSpeedScore
		score.Reasons = append(score.Reasons, "No recent speed figures, neutral speed score")
	}

	// Class component.
	classPoints, classReasons, movement, excuse := classComponent(horse, header, classification)
	score.ClassPoints = classPoints
	score.ClassMovement = string(movement)
	score.TripExcuse = excuse
	score.Reasons = append(score.Reasons, classReasons...)

	// Shipper normalization against the class component.
	if header != nil {
		if last := horse.LastRace(); last != nil {
			if adj := track.ShipperAdjustment(header.TrackCode, last.Track); adj != 0 {
				score.ShipperPoints = adj
				score.ClassPoints = clamp(score.ClassPoints+adj, 0, models.MaxClassScore)
				if adj > 0 {
					score.Reasons = append(score.Reasons, fmt.Sprintf("Ships down in track tier (%+.0f)", adj))
				} else {
					score.Reasons = append(score.Reasons, fmt.Sprintf("Ships up in track tier (%+.0f)", adj))
				}
			}
		}
	}

	score.Total = clamp(score.SpeedPoints+score.ClassPoints, 0, models.MaxSpeedClassScore)
	score.Reasoning = joinReasons(score.Reasons)
	return score
}

func classComponent(horse *models.HorseEntry, header *models.RaceHeader, classification string) (float64, []string, track.ClassMovement, bool) {
	if horse.IsFirstTimeStarter() {
		return classUnknown, []string{"First-time starter, class ability unknown"}, track.ClassSame, false
	}

	last := horse.LastRace()
	var todayPrice *float64
	if header != nil {
		todayPrice = header.ClaimingPrice
	}
	movement := track.CompareClass(classification, last.Classification, todayPrice, last.ClaimingPrice)

	todayRank, todayOK := track.ClassRank(classification)

	// Look for form at today's level or higher.
	var placedAtLevel bool
	for i := range horse.PastPerformances {
		pp := &horse.PastPerformances[i]
		ppRank, ppOK := track.ClassRank(pp.Classification)
		if !todayOK || !ppOK || ppRank < todayRank {
			continue
		}
		if pp.Won() {
			return classProvenWinner, []string{"Proven winner at this level"}, movement, false
		}
		if pp.InTheMoney() {
			placedAtLevel = true
		}
	}
	if placedAtLevel {
		return classCompetitive, []string{"Competitive at this level"}, movement, false
	}

	if movement == track.ClassDrop && HasTripExcuse(last.TripComment) {
		return classDropWithExcuse, []string{"Class drop with troubled-trip excuse last out"}, movement, true
	}

	if !todayOK {
		return classUnknown, []string{"Unknown classification, neutral class score"}, movement, false
	}

	// Scale by hierarchy distance from the last race's level.
	lastRank, lastOK := track.ClassRank(last.Classification)
	if !lastOK {
		return classUnknown, []string{"Unknown prior classification, neutral class score"}, movement, false
	}
	delta := lastRank - todayRank
	points := clamp(classUnknown+3*float64(delta), 8, 26)
	switch movement {
	case track.ClassDrop:
		return points, []string{fmt.Sprintf("Class drop of %d level(s)", delta)}, movement, false
	case track.ClassRise:
		return points, []string{fmt.Sprintf("Class rise of %d level(s)", -delta)}, movement, false
	default:
		return points, []string{"Same class level, unproven at it"}, movement, false
	}
}
