package models

import "time"

// RunningLine represents an entry's position at each call of a past race.
// Positions are optional because many historical lines omit intermediate
// calls.
type RunningLine struct {
	FirstCall   *int `json:"first_call,omitempty"`
	SecondCall  *int `json:"second_call,omitempty"`
	StretchCall *int `json:"stretch_call,omitempty"`
	Finish      *int `json:"finish,omitempty"`
}

// PastPerformance represents a single historical race line for an entry.
// Instances are produced by the upstream card parser and are immutable as far
// as the engine is concerned.
type PastPerformance struct {
	Date             time.Time `json:"date"`
	Track            string    `json:"track"`
	DistanceFurlongs float64   `json:"distance_furlongs"`
	Surface          string    `json:"surface"`
	TrackCondition   string    `json:"track_condition,omitempty"`

	Classification string   `json:"classification"`
	ClaimingPrice  *float64 `json:"claiming_price,omitempty"`
	Purse          *float64 `json:"purse,omitempty"`
	FieldSize      int      `json:"field_size"`

	PostPosition   int      `json:"post_position"`
	FinishPosition int      `json:"finish_position"`
	LengthsBehind  *float64 `json:"lengths_behind,omitempty"`

	// BeyerFigure of 0 is a valid (very slow) figure; nil means the line
	// carried no figure at all.
	BeyerFigure      *int `json:"beyer_figure,omitempty"`
	TimeformUSFigure *int `json:"timeform_us_figure,omitempty"`
	TrackVariant     *int `json:"track_variant,omitempty"`

	EarlyPace *int `json:"early_pace,omitempty"`
	LatePace  *int `json:"late_pace,omitempty"`

	RunningLine RunningLine `json:"running_line"`

	Equipment  string `json:"equipment,omitempty"`
	Medication string `json:"medication,omitempty"`

	TripComment   string `json:"trip_comment,omitempty"`
	DaysSinceRace *int   `json:"days_since_race,omitempty"`

	Odds     *float64 `json:"odds,omitempty"`
	Favorite bool     `json:"favorite,omitempty"`
}

// Won reports whether the entry won this race.
func (p *PastPerformance) Won() bool {
	return p.FinishPosition == 1
}

// InTheMoney reports whether the entry finished first, second, or third.
func (p *PastPerformance) InTheMoney() bool {
	return p.FinishPosition >= 1 && p.FinishPosition <= 3
}

// PrimaryFigure returns the Beyer figure when present, falling back to the
// TimeformUS figure. The boolean reports whether any figure was present.
func (p *PastPerformance) PrimaryFigure() (int, bool) {
	if p.BeyerFigure != nil {
		return *p.BeyerFigure, true
	}
	if p.TimeformUSFigure != nil {
		return *p.TimeformUSFigure, true
	}
	return 0, false
}

// HasPaceFigures reports whether both early and late pace figures are
// present for this line.
func (p *PastPerformance) HasPaceFigures() bool {
	return p.EarlyPace != nil && p.LatePace != nil
}

// GetLengthsBehind returns the beaten lengths, or 0 when the horse won or
// the card omitted the margin.
func (p *PastPerformance) GetLengthsBehind() float64 {
	if p.LengthsBehind == nil {
		return 0
	}
	return *p.LengthsBehind
}
