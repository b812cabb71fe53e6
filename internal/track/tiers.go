// Package track provides track-tier and class-par normalization tables used
// by the speed and class scorers.
package track

import "strings"

// Tier classifies a racetrack's relative speed and quality level. Figures
// earned at stronger circuits translate up; figures earned at minor ovals
// translate down.
type Tier int

// Track tiers, strongest first.
const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
	Tier4 Tier = 4
)

// tierOf maps track codes to tiers. Unlisted tracks default to Tier3, the
// baseline with no figure adjustment.
var tierOf = map[string]Tier{
	// Tier 1: major circuits
	"SA":  Tier1,
	"DMR": Tier1,
	"BEL": Tier1,
	"SAR": Tier1,
	"AQU": Tier1,
	"GP":  Tier1,
	"KEE": Tier1,
	"CD":  Tier1,
	"OP":  Tier1,

	// Tier 2: strong regional circuits
	"WO":  Tier2,
	"MTH": Tier2,
	"PIM": Tier2,
	"LRL": Tier2,
	"FG":  Tier2,
	"TAM": Tier2,
	"HOU": Tier2,
	"GG":  Tier2,
	"PRX": Tier2,

	// Tier 4: minor ovals
	"CT":  Tier4,
	"PEN": Tier4,
	"MNR": Tier4,
	"FON": Tier4,
	"WRD": Tier4,
	"TUP": Tier4,
}

// tierFigureAdjustments maps a tier to the figure adjustment applied when a
// figure was earned there. Tier3 is the baseline.
var tierFigureAdjustments = map[Tier]int{
	Tier1: 5,
	Tier2: 2,
	Tier3: 0,
	Tier4: -3,
}

// TierFor returns the tier for a track code. Unknown codes are Tier3.
func TierFor(code string) Tier {
	if t, ok := tierOf[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return t
	}
	return Tier3
}

// FigureAdjustment returns the figure adjustment for a figure earned at the
// given track.
func FigureAdjustment(code string) int {
	return tierFigureAdjustments[TierFor(code)]
}

// ShipperAdjustment returns the class-score adjustment for shipping from the
// most recent track to today's track. Moving up in tier costs points; moving
// down earns them; same tier means no shipping adjustment.
func ShipperAdjustment(currentTrack, lastTrack string) float64 {
	cur := TierFor(currentTrack)
	last := TierFor(lastTrack)
	diff := int(last) - int(cur) // positive: shipping up in class of track
	switch {
	case diff >= 2:
		return -5
	case diff == 1:
		return -3
	case diff == -1:
		return 2
	case diff <= -2:
		return 3
	default:
		return 0
	}
}
