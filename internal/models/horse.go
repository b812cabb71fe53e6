package models

import (
	"strings"
	"time"
)

// RecordLine represents a starts/wins/places/shows record at a particular
// track, distance, or surface. A zero-start line is valid data (a first-time
// starter at the track), which is why entries carry *RecordLine rather than
// relying on zero values.
type RecordLine struct {
	Starts int `json:"starts"`
	Wins   int `json:"wins"`
	Places int `json:"places"`
	Shows  int `json:"shows"`
}

// WinRate returns the win percentage for the record line, or 0 when the line
// has no starts.
func (r *RecordLine) WinRate() float64 {
	if r == nil || r.Starts == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Starts)
}

// Workout represents a single recorded workout line from the race card.
type Workout struct {
	Date     string  `json:"date"`
	Track    string  `json:"track"`
	Distance float64 `json:"distance"`
	Time     string  `json:"time"`
	Rank     string  `json:"rank"`
	Bullet   bool    `json:"bullet"`
}

// EquipmentFlags represents today's equipment and medication declarations for
// an entry. Change detection diffs these against the most recent past
// performance's raw equipment string.
type EquipmentFlags struct {
	Blinkers   bool `json:"blinkers"`
	Lasix      bool `json:"lasix"`
	TongueTie  bool `json:"tongue_tie"`
	NasalStrip bool `json:"nasal_strip"`
	FrontWraps bool `json:"front_wraps"`
}

// HorseEntry represents a single entry on a race card as produced by the
// upstream card parser. All historical aggregates are optional: a nil pointer
// means the card did not carry the field, while a pointer to zero is valid
// data (e.g. a shipper with zero meet starts).
type HorseEntry struct {
	ProgramNumber string `json:"program_number"`
	PostPosition  int    `json:"post_position"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Sex           string `json:"sex"`
	Breeding      string `json:"breeding"`
	Weight        int    `json:"weight"`

	Trainer            string `json:"trainer"`
	Jockey             string `json:"jockey"`
	TrainerMeetStarts  *int   `json:"trainer_meet_starts,omitempty"`
	TrainerMeetWins    *int   `json:"trainer_meet_wins,omitempty"`
	TrainerCareerStats string `json:"trainer_career_stats,omitempty"`
	JockeyMeetStarts   *int   `json:"jockey_meet_starts,omitempty"`
	JockeyMeetWins     *int   `json:"jockey_meet_wins,omitempty"`
	JockeyCareerStats  string `json:"jockey_career_stats,omitempty"`
	ComboStarts        *int   `json:"combo_starts,omitempty"`
	ComboWins          *int   `json:"combo_wins,omitempty"`

	TrainerCategoryStats []TrainerCategoryStat `json:"trainer_category_stats,omitempty"`

	Equipment  EquipmentFlags `json:"equipment"`
	Medication string         `json:"medication,omitempty"`

	LifetimeStarts   *int     `json:"lifetime_starts,omitempty"`
	LifetimeWins     *int     `json:"lifetime_wins,omitempty"`
	LifetimeEarnings *float64 `json:"lifetime_earnings,omitempty"`

	TrackRecord    *RecordLine `json:"track_record,omitempty"`
	DistanceRecord *RecordLine `json:"distance_record,omitempty"`
	SurfaceRecord  *RecordLine `json:"surface_record,omitempty"`
	WetRecord      *RecordLine `json:"wet_record,omitempty"`

	MorningLineOdds string `json:"morning_line_odds,omitempty"`

	// PastPerformances is always ordered most-recent-first. Every piece of
	// recency math in the engine depends on this ordering.
	PastPerformances []PastPerformance `json:"past_performances,omitempty"`
	Workouts         []Workout         `json:"workouts,omitempty"`

	Scratched bool `json:"scratched"`
}

// TrainerCategoryStat represents one situational trainer statistic from the
// card (e.g. "1st Lasix 24 .21").
type TrainerCategoryStat struct {
	Category string  `json:"category"`
	Starts   int     `json:"starts"`
	WinRate  float64 `json:"win_rate"`
}

// IsFirstTimeStarter reports whether the entry has no past performances.
func (h *HorseEntry) IsFirstTimeStarter() bool {
	return len(h.PastPerformances) == 0
}

// LastRace returns the most recent past performance, or nil for a first-time
// starter.
func (h *HorseEntry) LastRace() *PastPerformance {
	if len(h.PastPerformances) == 0 {
		return nil
	}
	return &h.PastPerformances[0]
}

// RecentRaces returns up to n of the most recent past performances.
func (h *HorseEntry) RecentRaces(n int) []PastPerformance {
	if n > len(h.PastPerformances) {
		n = len(h.PastPerformances)
	}
	return h.PastPerformances[:n]
}

// DaysSinceLastRace returns the layoff length in days as of the given race
// date, or -1 when unknown (first-time starter or missing date data).
func (h *HorseEntry) DaysSinceLastRace(asOf time.Time) int {
	last := h.LastRace()
	if last == nil || last.Date.IsZero() || asOf.IsZero() {
		return -1
	}
	return int(asOf.Sub(last.Date).Hours() / 24)
}

// DaysSinceLastWin returns the days since the horse's most recent win as of
// the given race date, or -1 when the horse has no dated win on record.
func (h *HorseEntry) DaysSinceLastWin(asOf time.Time) int {
	if asOf.IsZero() {
		return -1
	}
	for i := range h.PastPerformances {
		pp := &h.PastPerformances[i]
		if pp.Won() && !pp.Date.IsZero() {
			return int(asOf.Sub(pp.Date).Hours() / 24)
		}
	}
	return -1
}

// HasTrainerMeetStats reports whether authoritative meet statistics are
// present for the trainer. Zero meet starts still counts as present data.
func (h *HorseEntry) HasTrainerMeetStats() bool {
	return h.TrainerMeetStarts != nil && h.TrainerMeetWins != nil
}

// HasJockeyMeetStats reports whether authoritative meet statistics are
// present for the jockey.
func (h *HorseEntry) HasJockeyMeetStats() bool {
	return h.JockeyMeetStarts != nil && h.JockeyMeetWins != nil
}

// NormalizedTrainer returns the trainer name normalized for case-insensitive
// lookups in the per-race connections database.
func (h *HorseEntry) NormalizedTrainer() string {
	return strings.ToUpper(strings.TrimSpace(h.Trainer))
}

// NormalizedJockey returns the jockey name normalized for case-insensitive
// lookups in the per-race connections database.
func (h *HorseEntry) NormalizedJockey() string {
	return strings.ToUpper(strings.TrimSpace(h.Jockey))
}
