package scoring

import (
	"testing"

	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/test/helpers"
)

func allowanceHeader() models.RaceHeader {
	// Neutral-tier track so figure math stays untouched by tier adjustments.
	return helpers.NewRaceHeader(func(h *models.RaceHeader) {
		h.TrackCode = "EVD"
		h.Classification = "allowance"
	})
}

// neutralTrackHorse pins every past line to a Tier-3 track with no variant,
// so the adjusted figure equals the raw figure.
func neutralTrackHorse(figs ...int) models.HorseEntry {
	return helpers.NewHorse("Figure Test", func(h *models.HorseEntry) {
		h.PastPerformances = nil
		for i, fig := range figs {
			f := fig
			h.PastPerformances = append(h.PastPerformances,
				helpers.NewPastPerformance(30*(i+1), func(pp *models.PastPerformance) {
					pp.Track = "EVD"
					pp.BeyerFigure = &f
					pp.TrackVariant = nil
				}))
		}
	})
}

func TestBestAdjustedFigure(t *testing.T) {
	horse := neutralTrackHorse(88, 92, 85)
	best, ok := BestAdjustedFigure(&horse)
	if !ok {
		t.Fatal("expected a figure")
	}
	if best != 92 {
		t.Errorf("best figure = %d, want 92", best)
	}

	// Tier-1 track earns +5 on the figure.
	horse.PastPerformances[0].Track = "SA"
	best, _ = BestAdjustedFigure(&horse)
	if best != 93 {
		t.Errorf("tier-adjusted best = %d, want 93", best)
	}

	// Only the last three races count.
	horse = neutralTrackHorse(70, 70, 70, 110)
	best, _ = BestAdjustedFigure(&horse)
	if best != 70 {
		t.Errorf("lookback best = %d, want 70", best)
	}

	fts := helpers.NewHorse("Unraced", func(h *models.HorseEntry) { h.PastPerformances = nil })
	if _, ok := BestAdjustedFigure(&fts); ok {
		t.Error("expected no figure for first-time starter")
	}
}

func TestVariantAdjustment(t *testing.T) {
	tests := []struct {
		variant *int
		want    int
	}{
		{helpers.IntPtr(6), 2},
		{helpers.IntPtr(3), 1},
		{helpers.IntPtr(0), 0},
		{helpers.IntPtr(-3), -1},
		{helpers.IntPtr(-6), -2},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := variantAdjustment(tt.variant); got != tt.want {
			t.Errorf("variantAdjustment(%v) = %d, want %d", tt.variant, got, tt.want)
		}
	}
}

func TestSpeedPointsAgainstPar(t *testing.T) {
	header := allowanceHeader()

	tests := []struct {
		fig  int
		want float64
	}{
		{95, 48}, // 13 over the 82 par
		{88, 43},
		{82, 38},
		{79, 33},
		{73, 28},
		{65, 8}, // well below par falls to the floor
	}
	for _, tt := range tests {
		horse := neutralTrackHorse(tt.fig)
		score := CalculateSpeedClassScore(&horse, &header)
		if score.SpeedPoints != tt.want {
			t.Errorf("figure %d vs par 82: speed points = %v, want %v",
				tt.fig, score.SpeedPoints, tt.want)
		}
	}
}

func TestSpeedNeutralWhenNoFigures(t *testing.T) {
	header := allowanceHeader()
	horse := neutralTrackHorse(80)
	horse.PastPerformances[0].BeyerFigure = nil

	score := CalculateSpeedClassScore(&horse, &header)
	if score.SpeedPoints != models.NeutralSpeedScore {
		t.Errorf("speed points = %v, want neutral %d", score.SpeedPoints, models.NeutralSpeedScore)
	}
	if score.BestFigure != nil {
		t.Error("expected no best figure")
	}
}

func TestClassProvenWinner(t *testing.T) {
	header := allowanceHeader()
	horse := neutralTrackHorse(95, 90)
	horse.PastPerformances[1].FinishPosition = 1

	score := CalculateSpeedClassScore(&horse, &header)
	if score.ClassPoints != 32 {
		t.Errorf("class points = %v, want 32 for a proven winner", score.ClassPoints)
	}
	if score.Total != 80 {
		t.Errorf("total = %v, want the 80 cap", score.Total)
	}
}

func TestClassCompetitiveAtLevel(t *testing.T) {
	header := allowanceHeader()
	horse := neutralTrackHorse(85, 85)
	// Second place at the level, never a win.
	horse.PastPerformances[0].FinishPosition = 2
	horse.PastPerformances[1].FinishPosition = 5

	score := CalculateSpeedClassScore(&horse, &header)
	if score.ClassPoints != 24 {
		t.Errorf("class points = %v, want 24 for in-the-money form at the level", score.ClassPoints)
	}
}

func TestClassDropWithTripExcuse(t *testing.T) {
	header := allowanceHeader()
	horse := neutralTrackHorse(85)
	horse.PastPerformances[0].Classification = "optional_claiming"
	horse.PastPerformances[0].FinishPosition = 7
	horse.PastPerformances[0].TripComment = "Bumped at the start, checked on the turn"

	score := CalculateSpeedClassScore(&horse, &header)
	if score.ClassPoints != 29 {
		t.Errorf("class points = %v, want 29 for a drop with an excuse", score.ClassPoints)
	}
	if !score.TripExcuse {
		t.Error("expected trip excuse flag")
	}
	if score.ClassMovement != "drop" {
		t.Errorf("class movement = %q, want drop", score.ClassMovement)
	}
}

func TestClassFirstTimeStarter(t *testing.T) {
	header := allowanceHeader()
	horse := helpers.NewHorse("Debut", func(h *models.HorseEntry) { h.PastPerformances = nil })

	score := CalculateSpeedClassScore(&horse, &header)
	if score.ClassPoints != 16 {
		t.Errorf("class points = %v, want the 16 unknown baseline", score.ClassPoints)
	}
	if score.SpeedPoints != models.NeutralSpeedScore {
		t.Errorf("speed points = %v, want neutral", score.SpeedPoints)
	}
}

func TestShipperAdjustmentAppliedToClass(t *testing.T) {
	header := helpers.NewRaceHeader(func(h *models.RaceHeader) {
		h.TrackCode = "SA"
		h.Classification = "allowance"
	})
	// Last raced at a minor oval, finished off the board: the scaled class
	// baseline takes the full ship-up penalty.
	horse := neutralTrackHorse(85)
	horse.PastPerformances[0].Track = "CT"
	horse.PastPerformances[0].FinishPosition = 6

	score := CalculateSpeedClassScore(&horse, &header)
	if score.ShipperPoints != -5 {
		t.Errorf("shipper points = %v, want -5 shipping up from a minor oval", score.ShipperPoints)
	}
	// Same-class baseline 16, minus the shipper penalty.
	if score.ClassPoints != 11 {
		t.Errorf("class points = %v, want 11", score.ClassPoints)
	}
}

func TestHasTripExcuse(t *testing.T) {
	if !HasTripExcuse("Steadied into the first turn") {
		t.Error("expected excuse for steadied trip")
	}
	if !HasTripExcuse("BROKE SLOWLY, 5 wide") {
		t.Error("expected excuse detection to be case insensitive")
	}
	if HasTripExcuse("No factor") {
		t.Error("did not expect an excuse")
	}
	if HasTripExcuse("") {
		t.Error("did not expect an excuse for empty comment")
	}
}
