package scoring

import "github.com/tacctile/handicap-app-sub003/internal/models"

// Completeness tiers and weights.
const (
	tierCritical = "critical"
	tierHigh     = "high"
	tierMedium   = "medium"
	tierLow      = "low"
)

var tierWeights = map[string]float64{
	tierCritical: 0.50,
	tierHigh:     0.30,
	tierMedium:   0.15,
	tierLow:      0.05,
}

// completenessCheck is one presence check with its tier and the human label
// reported when a critical check fails.
type completenessCheck struct {
	tier    string
	label   string
	present func(h *models.HorseEntry) bool
}

// completenessChecks is the fixed catalog of ten presence checks. Zero is
// valid data for earnings, record lines, and figures; only a structurally
// absent field counts as missing.
var completenessChecks = []completenessCheck{
	{tierCritical, "Speed figures in last 3 races", func(h *models.HorseEntry) bool {
		for _, pp := range h.RecentRaces(3) {
			if _, ok := pp.PrimaryFigure(); ok {
				return true
			}
		}
		return false
	}},
	{tierCritical, "At least 3 past performances", func(h *models.HorseEntry) bool {
		return len(h.PastPerformances) >= 3
	}},
	{tierCritical, "Trainer statistics", func(h *models.HorseEntry) bool {
		if h.HasTrainerMeetStats() {
			return true
		}
		_, ok := parseCareerStats(h.TrainerCareerStats)
		return ok
	}},
	{tierHigh, "Jockey statistics", func(h *models.HorseEntry) bool {
		if h.HasJockeyMeetStats() {
			return true
		}
		_, ok := parseCareerStats(h.JockeyCareerStats)
		return ok
	}},
	{tierHigh, "Known running style", func(h *models.HorseEntry) bool {
		return ParseRunningStyle(h) != StyleUnknown
	}},
	{tierHigh, "Pace figures", func(h *models.HorseEntry) bool {
		for _, pp := range h.PastPerformances {
			if pp.HasPaceFigures() {
				return true
			}
		}
		return false
	}},
	{tierMedium, "Track/distance/surface records", func(h *models.HorseEntry) bool {
		return h.TrackRecord != nil || h.DistanceRecord != nil ||
			h.SurfaceRecord != nil || h.WetRecord != nil
	}},
	{tierMedium, "Equipment data", func(h *models.HorseEntry) bool {
		if h.Medication != "" {
			return true
		}
		if last := h.LastRace(); last != nil && last.Equipment != "" {
			return true
		}
		e := h.Equipment
		return e.Blinkers || e.Lasix || e.TongueTie || e.NasalStrip || e.FrontWraps
	}},
	{tierLow, "Breeding", func(h *models.HorseEntry) bool {
		return h.Breeding != ""
	}},
	{tierLow, "Lifetime earnings", func(h *models.HorseEntry) bool {
		return h.LifetimeEarnings != nil
	}},
}

// completenessGradeBands map overall score to a letter grade.
var completenessGradeBands = []labeledBand{
	{min: 90, label: models.GradeA},
	{min: 75, label: models.GradeB},
	{min: 60, label: models.GradeC},
	{min: 40, label: models.GradeD},
}

// AssessCompleteness scores the presence and quality of a horse's input
// fields across the four weighted tiers. It never errors: every missing
// field simply counts as absent.
func AssessCompleteness(horse *models.HorseEntry) models.CompletenessReport {
	type tally struct{ present, checked int }
	tallies := map[string]*tally{
		tierCritical: {}, tierHigh: {}, tierMedium: {}, tierLow: {},
	}

	var missingCritical []string
	for _, check := range completenessChecks {
		t := tallies[check.tier]
		t.checked++
		if check.present(horse) {
			t.present++
		} else if check.tier == tierCritical {
			missingCritical = append(missingCritical, check.label)
		}
	}

	report := models.CompletenessReport{MissingCritical: missingCritical}
	var overall float64
	for _, tier := range []string{tierCritical, tierHigh, tierMedium, tierLow} {
		t := tallies[tier]
		pct := 0.0
		if t.checked > 0 {
			pct = 100 * float64(t.present) / float64(t.checked)
		}
		overall += pct * tierWeights[tier]
		report.Tiers = append(report.Tiers, models.TierCompleteness{
			Tier:    tier,
			Weight:  tierWeights[tier],
			Percent: pct,
			Present: t.present,
			Checked: t.checked,
		})
	}

	report.OverallScore = overall
	_, grade := lookupLabeledBand(completenessGradeBands, overall, 0, models.GradeF)
	report.OverallGrade = grade

	critical := report.Tiers[0]
	report.IsLowConfidence = critical.Percent < 50

	return report
}
