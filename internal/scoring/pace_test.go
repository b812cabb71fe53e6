package scoring

import (
	"testing"

	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/test/helpers"
)

// styledHorse builds an entry whose recent running lines average to the
// given first-call position, with no pace figures.
func styledHorse(name string, firstCalls ...int) models.HorseEntry {
	return helpers.NewHorse(name, func(h *models.HorseEntry) {
		h.PastPerformances = nil
		for i, fc := range firstCalls {
			call := fc
			h.PastPerformances = append(h.PastPerformances,
				helpers.NewPastPerformance(30*(i+1), func(pp *models.PastPerformance) {
					pp.RunningLine.FirstCall = &call
					pp.EarlyPace = nil
					pp.LatePace = nil
				}))
		}
	})
}

func TestParseRunningStyleFromCalls(t *testing.T) {
	tests := []struct {
		name       string
		firstCalls []int
		want       RunningStyle
	}{
		{"on the lead", []int{1, 2, 1}, StyleEarly},
		{"pressing", []int{3, 4, 3}, StylePresser},
		{"stalking", []int{5, 6, 5}, StyleStalker},
		{"closing", []int{8, 9, 7}, StyleCloser},
		{"one line is not enough", []int{1}, StyleUnknown},
		{"no lines", nil, StyleUnknown},
	}
	for _, tt := range tests {
		horse := styledHorse("Style Test", tt.firstCalls...)
		if got := ParseRunningStyle(&horse); got != tt.want {
			t.Errorf("%s: style = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParseRunningStylePaceFigureOverride(t *testing.T) {
	// Mid-pack call positions, but dominant early pace figures: the figures
	// confirm early speed.
	horse := helpers.NewHorse("Confirmed Speed", func(h *models.HorseEntry) {
		h.PastPerformances = []models.PastPerformance{
			helpers.NewPastPerformance(30, func(pp *models.PastPerformance) {
				pp.RunningLine.FirstCall = helpers.IntPtr(4)
				pp.EarlyPace = helpers.IntPtr(92)
				pp.LatePace = helpers.IntPtr(80)
			}),
			helpers.NewPastPerformance(60, func(pp *models.PastPerformance) {
				pp.RunningLine.FirstCall = helpers.IntPtr(3)
				pp.EarlyPace = helpers.IntPtr(90)
				pp.LatePace = helpers.IntPtr(82)
			}),
		}
	})
	if got := ParseRunningStyle(&horse); got != StyleEarly {
		t.Errorf("style = %q, want E when pace figures confirm speed", got)
	}

	// Late pace well clear of early pace reads as a closer.
	closer := helpers.NewHorse("Closing Kick", func(h *models.HorseEntry) {
		h.PastPerformances = []models.PastPerformance{
			helpers.NewPastPerformance(30, func(pp *models.PastPerformance) {
				pp.RunningLine.FirstCall = helpers.IntPtr(3)
				pp.EarlyPace = helpers.IntPtr(75)
				pp.LatePace = helpers.IntPtr(88)
			}),
			helpers.NewPastPerformance(60, func(pp *models.PastPerformance) {
				pp.RunningLine.FirstCall = helpers.IntPtr(4)
				pp.EarlyPace = helpers.IntPtr(74)
				pp.LatePace = helpers.IntPtr(86)
			}),
		}
	})
	if got := ParseRunningStyle(&closer); got != StyleCloser {
		t.Errorf("style = %q, want C on a closing kick", got)
	}
}

func TestAnalyzePaceScenario(t *testing.T) {
	tests := []struct {
		name   string
		horses []models.HorseEntry
		want   string
	}{
		{
			"lone speed is soft",
			[]models.HorseEntry{
				styledHorse("Speed", 1, 1),
				styledHorse("Deep Closer A", 8, 9),
				styledHorse("Deep Closer B", 9, 8),
			},
			ScenarioSoft,
		},
		{
			"speed with pressers is contested",
			[]models.HorseEntry{
				styledHorse("Speed A", 1, 1),
				styledHorse("Speed B", 2, 1),
				styledHorse("Presser A", 3, 4),
				styledHorse("Presser B", 4, 3),
				styledHorse("Stalker", 5, 6),
			},
			ScenarioContested,
		},
		{
			"three speed horses is a duel",
			[]models.HorseEntry{
				styledHorse("Speed A", 1, 1),
				styledHorse("Speed B", 1, 2),
				styledHorse("Speed C", 2, 1),
				styledHorse("Closer", 9, 8),
			},
			ScenarioSpeedDuel,
		},
	}
	for _, tt := range tests {
		analysis := AnalyzePaceScenario(tt.horses, nil)
		if analysis.Scenario != tt.want {
			t.Errorf("%s: scenario = %q (ppi %.0f), want %q",
				tt.name, analysis.Scenario, analysis.PressureIndex, tt.want)
		}
	}
}

func TestAnalyzePaceScenarioExcludesScratches(t *testing.T) {
	horses := []models.HorseEntry{
		styledHorse("Speed A", 1, 1),
		styledHorse("Speed B", 1, 2),
		styledHorse("Speed C", 2, 1),
		styledHorse("Closer", 9, 8),
	}
	// Scratch two of the three speed horses: the duel collapses.
	analysis := AnalyzePaceScenario(horses, func(i int) bool { return i == 1 || i == 2 })
	if analysis.ActiveCount != 2 {
		t.Fatalf("active count = %d, want 2", analysis.ActiveCount)
	}
	if analysis.StyleCounts[StyleEarly] != 1 {
		t.Errorf("early count = %d, want 1", analysis.StyleCounts[StyleEarly])
	}
	if analysis.Scenario != ScenarioSoft {
		t.Errorf("scenario = %q, want soft after scratches", analysis.Scenario)
	}
	// Profiles stay index-aligned with the input, scratches included.
	if len(analysis.Profiles) != 4 {
		t.Errorf("profiles length = %d, want 4", len(analysis.Profiles))
	}
}

func TestLoneSpeedUpgrade(t *testing.T) {
	horses := []models.HorseEntry{
		styledHorse("Lone Speed", 1, 1),
		styledHorse("Closer A", 8, 9),
		styledHorse("Closer B", 9, 8),
	}
	analysis := AnalyzePaceScenario(horses, nil)
	if analysis.Scenario != ScenarioSoft {
		t.Fatalf("scenario = %q, want soft", analysis.Scenario)
	}

	band, points := CalculateTacticalAdvantage(StyleEarly, analysis)
	if band != BandExcellent || points != 30 {
		t.Errorf("lone speed in soft pace = %q/%v, want excellent/30", band, points)
	}

	band, points = CalculateTacticalAdvantage(StyleCloser, analysis)
	if band != BandTerrible || points != 5 {
		t.Errorf("closer in soft pace = %q/%v, want terrible/5", band, points)
	}
}

func TestCalculatePaceScoreClamped(t *testing.T) {
	header := helpers.NewRaceHeader()
	horses := []models.HorseEntry{
		styledHorse("Lone Speed", 1, 1),
		styledHorse("Closer A", 8, 9),
		styledHorse("Closer B", 9, 8),
	}
	analysis := AnalyzePaceScenario(horses, nil)

	for i := range horses {
		score := CalculatePaceScore(i, &header, analysis)
		if score.Total < models.MinPaceScore || score.Total > models.MaxPaceScore {
			t.Errorf("horse %d: total %v outside [%d, %d]",
				i, score.Total, models.MinPaceScore, models.MaxPaceScore)
		}
	}

	// The closer in a soft sprint bottoms out at the floor.
	score := CalculatePaceScore(1, &header, analysis)
	if score.Total != models.MinPaceScore {
		t.Errorf("soft-pace closer total = %v, want the %d floor", score.Total, models.MinPaceScore)
	}
}

func TestBiasAdjustment(t *testing.T) {
	sprint := helpers.NewRaceHeader()
	route := helpers.NewRaceHeader(func(h *models.RaceHeader) { h.DistanceFurlongs = 9.0 })
	offTrack := helpers.NewRaceHeader(func(h *models.RaceHeader) { h.TrackCondition = "sloppy" })

	tests := []struct {
		name   string
		style  RunningStyle
		header *models.RaceHeader
		want   float64
	}{
		{"early speed in a sprint", StyleEarly, &sprint, 2},
		{"early speed on an off track", StyleEarly, &offTrack, 6},
		{"closer in a route", StyleCloser, &route, 2},
		{"closer on an off sprint", StyleCloser, &offTrack, -2},
		{"stalker in a route", StyleStalker, &route, 1},
		{"presser in a sprint", StylePresser, &sprint, 1},
	}
	for _, tt := range tests {
		if got := biasAdjustment(tt.style, tt.header); got != tt.want {
			t.Errorf("%s: bias = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFigureAdjustment(t *testing.T) {
	ep := 90.0
	lp := 78.0
	speed := HorsePaceProfile{Style: StyleEarly, AvgEarly: &ep, AvgLate: &lp}
	if got := figureAdjustment(speed, ScenarioSoft); got != 8 {
		t.Errorf("confirmed speed in soft pace = %v, want 8", got)
	}
	if got := figureAdjustment(speed, ScenarioSpeedDuel); got != 0 {
		t.Errorf("confirmed speed in a duel = %v, want 0", got)
	}

	strongLP := 90.0
	weakEP := 72.0
	closer := HorsePaceProfile{Style: StyleCloser, AvgEarly: &weakEP, AvgLate: &strongLP}
	if got := figureAdjustment(closer, ScenarioSpeedDuel); got != 8 {
		t.Errorf("confirmed closer in a duel = %v, want 8", got)
	}

	softLP := 76.0
	fading := HorsePaceProfile{Style: StyleCloser, AvgEarly: &weakEP, AvgLate: &softLP}
	if got := figureAdjustment(fading, ScenarioSoft); got != -6 {
		t.Errorf("weak closer in soft pace = %v, want -6", got)
	}

	noFigs := HorsePaceProfile{Style: StyleEarly}
	if got := figureAdjustment(noFigs, ScenarioSoft); got != 0 {
		t.Errorf("no figures = %v, want 0", got)
	}
}
