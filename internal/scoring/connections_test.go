package scoring

import (
	"testing"

	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/test/helpers"
)

func TestConnectionsFromMeetStats(t *testing.T) {
	horse := helpers.NewHorse("Meet Stats")
	db := BuildConnectionsDatabase([]models.HorseEntry{horse})

	// Defaults: trainer 8/40 (20%), jockey 12/60 (20%), combo 3/12 (25%).
	score := CalculateConnectionsScore(&horse, db)
	if score.TrainerPoints != 8 {
		t.Errorf("trainer points = %v, want 8", score.TrainerPoints)
	}
	if score.JockeyPoints != 10 {
		t.Errorf("jockey points = %v, want 10", score.JockeyPoints)
	}
	if score.PartnershipPoints != 1 {
		t.Errorf("partnership points = %v, want 1", score.PartnershipPoints)
	}
	if score.Total != 19 {
		t.Errorf("total = %v, want 19", score.Total)
	}
	if score.TrainerFromFallback || score.JockeyFromFallback {
		t.Error("meet stats must not set fallback flags")
	}
}

func TestConnectionsEliteCeiling(t *testing.T) {
	horse := helpers.NewHorse("Elite Barn", func(h *models.HorseEntry) {
		h.TrainerMeetStarts = helpers.IntPtr(30)
		h.TrainerMeetWins = helpers.IntPtr(9)
		h.JockeyMeetStarts = helpers.IntPtr(40)
		h.JockeyMeetWins = helpers.IntPtr(12)
		h.ComboStarts = helpers.IntPtr(10)
		h.ComboWins = helpers.IntPtr(3)
	})
	db := BuildConnectionsDatabase([]models.HorseEntry{horse})

	score := CalculateConnectionsScore(&horse, db)
	if score.TrainerPoints != models.MaxTrainerScore {
		t.Errorf("trainer points = %v, want %d", score.TrainerPoints, models.MaxTrainerScore)
	}
	if score.JockeyPoints != models.MaxJockeyScore {
		t.Errorf("jockey points = %v, want %d", score.JockeyPoints, models.MaxJockeyScore)
	}
	if score.PartnershipPoints != models.MaxPartnershipScore {
		t.Errorf("partnership points = %v, want %d", score.PartnershipPoints, models.MaxPartnershipScore)
	}
	if score.Total != models.MaxConnectionsScore {
		t.Errorf("total = %v, want the %d cap", score.Total, models.MaxConnectionsScore)
	}
}

func TestConnectionsCareerStringFallback(t *testing.T) {
	horse := helpers.NewHorse("Career Stats", func(h *models.HorseEntry) {
		h.TrainerMeetStarts = nil
		h.TrainerMeetWins = nil
		h.TrainerCareerStats = "245 48 39 31"
	})
	db := BuildConnectionsDatabase(nil)

	score := CalculateConnectionsScore(&horse, db)
	// 48/245 is just under 20%.
	if score.TrainerPoints != 6 {
		t.Errorf("trainer points = %v, want 6 from career stats", score.TrainerPoints)
	}
	if score.TrainerFromFallback {
		t.Error("career stats are authoritative, not fallback")
	}
}

func TestConnectionsZeroMeetStartsFallsThrough(t *testing.T) {
	// Pointer-to-zero meet starts is valid data but carries no signal, so the
	// career string takes over.
	horse := helpers.NewHorse("Shipper", func(h *models.HorseEntry) {
		h.TrainerMeetStarts = helpers.IntPtr(0)
		h.TrainerMeetWins = helpers.IntPtr(0)
		h.TrainerCareerStats = "100 25 20 15"
	})
	db := BuildConnectionsDatabase(nil)

	score := CalculateConnectionsScore(&horse, db)
	if score.TrainerPoints != models.MaxTrainerScore {
		t.Errorf("trainer points = %v, want %d from the 25%% career line",
			score.TrainerPoints, models.MaxTrainerScore)
	}
}

func TestConnectionsFieldDerivedFallbackIsCapped(t *testing.T) {
	// A shipper with no meet or career stats: the only signal is the field's
	// own past-performance record for the same connections.
	shipper := helpers.NewHorse("Hot Shipper", func(h *models.HorseEntry) {
		h.Trainer = "W Mott"
		h.Jockey = "J Castellano"
		h.TrainerMeetStarts = nil
		h.TrainerMeetWins = nil
		h.JockeyMeetStarts = nil
		h.JockeyMeetWins = nil
		var pps []models.PastPerformance
		for i := 0; i < 10; i++ {
			finish := 4
			if i < 4 {
				finish = 1
			}
			f := finish
			pps = append(pps, helpers.NewPastPerformance(20*(i+1), func(pp *models.PastPerformance) {
				pp.FinishPosition = f
			}))
		}
		h.PastPerformances = pps
	})
	db := BuildConnectionsDatabase([]models.HorseEntry{shipper})

	score := CalculateConnectionsScore(&shipper, db)
	// A 40% field-derived rate would band at 8, but the fallback cap holds
	// it to 7 so inferred stats never outrank authoritative ones.
	if score.TrainerPoints != fallbackTrainerCap {
		t.Errorf("trainer points = %v, want the %d fallback cap", score.TrainerPoints, fallbackTrainerCap)
	}
	if !score.TrainerFromFallback {
		t.Error("expected trainer fallback flag")
	}
	if score.JockeyPoints != fallbackJockeyCap {
		t.Errorf("jockey points = %v, want the %d fallback cap", score.JockeyPoints, fallbackJockeyCap)
	}
	if !score.JockeyFromFallback {
		t.Error("expected jockey fallback flag")
	}
}

func TestConnectionsNoStatisticsAnywhere(t *testing.T) {
	horse := helpers.NewHorse("Unknown Barn", func(h *models.HorseEntry) {
		h.Trainer = "A Nobody"
		h.Jockey = "B Nobody"
		h.TrainerMeetStarts = nil
		h.TrainerMeetWins = nil
		h.JockeyMeetStarts = nil
		h.JockeyMeetWins = nil
		h.ComboStarts = nil
		h.ComboWins = nil
		h.PastPerformances = nil
	})
	db := BuildConnectionsDatabase([]models.HorseEntry{horse})

	score := CalculateConnectionsScore(&horse, db)
	if score.TrainerPoints != insufficientSample {
		t.Errorf("trainer points = %v, want the %d baseline", score.TrainerPoints, insufficientSample)
	}
	if score.JockeyPoints != insufficientSample {
		t.Errorf("jockey points = %v, want the %d baseline", score.JockeyPoints, insufficientSample)
	}
	if score.PartnershipPoints != 0 {
		t.Errorf("partnership points = %v, want 0 for a first pairing", score.PartnershipPoints)
	}
}

func TestBuildConnectionsDatabaseAggregatesByName(t *testing.T) {
	// Two entries share a trainer under different capitalization; their
	// records pool under the normalized name.
	a := helpers.NewHorse("Entry A", func(h *models.HorseEntry) {
		h.Trainer = "c brown"
		h.PastPerformances = []models.PastPerformance{
			helpers.NewPastPerformance(30, func(pp *models.PastPerformance) { pp.FinishPosition = 1 }),
			helpers.NewPastPerformance(60),
		}
	})
	b := helpers.NewHorse("Entry B", func(h *models.HorseEntry) {
		h.Trainer = "C Brown"
		h.PastPerformances = []models.PastPerformance{
			helpers.NewPastPerformance(30, func(pp *models.PastPerformance) { pp.FinishPosition = 1 }),
		}
	})
	db := BuildConnectionsDatabase([]models.HorseEntry{a, b})

	stats, ok := db.TrainerStats("C BROWN")
	if !ok {
		t.Fatal("expected pooled trainer stats")
	}
	if stats.Starts != 3 || stats.Wins != 2 {
		t.Errorf("pooled stats = %d/%d, want 2 wins from 3 starts", stats.Wins, stats.Starts)
	}
}

func TestParseCareerStats(t *testing.T) {
	tests := []struct {
		input  string
		starts int
		wins   int
		ok     bool
	}{
		{"245 48 39 31", 245, 48, true},
		{"40 8", 40, 8, true},
		{"", 0, 0, false},
		{"245", 0, 0, false},
		{"ten two", 0, 0, false},
		{"10 20", 0, 0, false}, // more wins than starts
	}
	for _, tt := range tests {
		stats, ok := parseCareerStats(tt.input)
		if ok != tt.ok {
			t.Errorf("parseCareerStats(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && (stats.Starts != tt.starts || stats.Wins != tt.wins) {
			t.Errorf("parseCareerStats(%q) = %d/%d, want %d/%d",
				tt.input, stats.Wins, stats.Starts, tt.wins, tt.starts)
		}
	}
}

func TestPartnershipPoints(t *testing.T) {
	tests := []struct {
		name   string
		starts *int
		wins   *int
		want   float64
	}{
		{"no combo data", nil, nil, 0},
		{"under five starts", helpers.IntPtr(4), helpers.IntPtr(4), 0},
		{"elite combo", helpers.IntPtr(10), helpers.IntPtr(3), 2},
		{"strong combo small sample", helpers.IntPtr(6), helpers.IntPtr(2), 1},
		{"good combo", helpers.IntPtr(10), helpers.IntPtr(2), 0},
	}
	for _, tt := range tests {
		horse := helpers.NewHorse("Combo", func(h *models.HorseEntry) {
			h.ComboStarts = tt.starts
			h.ComboWins = tt.wins
		})
		got, _ := partnershipPoints(&horse)
		if got != tt.want {
			t.Errorf("%s: partnership = %v, want %v", tt.name, got, tt.want)
		}
	}
}
