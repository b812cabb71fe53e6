package scoring

import (
	"strings"

	"github.com/tacctile/handicap-app-sub003/internal/models"
)

// equipmentBase is the score with no equipment or medication changes.
const equipmentBase = 8

// priorEquipment is the equipment state decoded from a past performance's
// raw equipment and medication strings.
type priorEquipment struct {
	Blinkers   bool
	Lasix      bool
	TongueTie  bool
	NasalStrip bool
	FrontWraps bool
}

// parsePriorEquipment decodes the raw card notation: "b" blinkers, "t"
// tongue tie, "n" nasal strip, "f" front wraps in the equipment string and
// "L" Lasix in the medication string.
func parsePriorEquipment(pp *models.PastPerformance) priorEquipment {
	equip := strings.ToLower(pp.Equipment)
	med := strings.ToUpper(pp.Medication)
	return priorEquipment{
		Blinkers:   strings.Contains(equip, "b"),
		TongueTie:  strings.Contains(equip, "t"),
		NasalStrip: strings.Contains(equip, "n"),
		FrontWraps: strings.Contains(equip, "f"),
		Lasix:      strings.Contains(med, "L"),
	}
}

// CalculateEquipmentScore scores equipment and medication change signals by
// diffing today's declarations against the most recent past performance.
// First-time additions are positive signals; removals are typically
// negative, though Lasix-off costs closing types less. The total is clamped
// to [0, 20].
func CalculateEquipmentScore(horse *models.HorseEntry, style RunningStyle) models.EquipmentScore {
	score := models.EquipmentScore{}
	score.Max = models.MaxEquipmentScore

	last := horse.LastRace()
	if last == nil {
		score.Total = equipmentBase
		score.Reasons = []string{"No prior start to compare equipment against"}
		score.Reasoning = joinReasons(score.Reasons)
		return score
	}

	prior := parsePriorEquipment(last)
	today := horse.Equipment
	total := float64(equipmentBase)

	addChange := func(points float64, label string) {
		total += points
		score.Changes = append(score.Changes, label)
		score.Reasons = append(score.Reasons, label)
	}

	if today.Blinkers && !prior.Blinkers {
		addChange(5, "First-time blinkers")
	}
	if !today.Blinkers && prior.Blinkers {
		addChange(-3, "Blinkers off")
	}

	todayLasix := strings.Contains(strings.ToUpper(horse.Medication), "L")
	if todayLasix && !prior.Lasix {
		addChange(6, "First-time Lasix")
	}
	if !todayLasix && prior.Lasix {
		// Taking a closer off Lasix reads as confidence, not concern.
		if style == StyleCloser || style == StyleStalker {
			addChange(-1, "Lasix off (closing type)")
		} else {
			addChange(-4, "Lasix off")
		}
	}

	if today.TongueTie && !prior.TongueTie {
		addChange(2, "Tongue tie added")
	}
	if today.NasalStrip && !prior.NasalStrip {
		addChange(1, "Nasal strip added")
	}
	if today.FrontWraps && !prior.FrontWraps {
		addChange(-1, "Front wraps added")
	}

	if len(score.Changes) == 0 {
		score.Reasons = []string{"No equipment changes"}
	}
	score.Total = clamp(total, 0, models.MaxEquipmentScore)
	score.Reasoning = joinReasons(score.Reasons)
	return score
}
