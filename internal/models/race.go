package models

import "time"

// RaceHeader represents the conditions of the race being scored. It supplies
// the class-par and track-tier lookups used by the speed and class scorers.
type RaceHeader struct {
	TrackCode        string    `json:"track_code"`
	RaceNumber       int       `json:"race_number"`
	Date             time.Time `json:"date"`
	Surface          string    `json:"surface"`
	DistanceFurlongs float64   `json:"distance_furlongs"`
	Classification   string    `json:"classification"`
	ClaimingPrice    *float64  `json:"claiming_price,omitempty"`
	Purse            *float64  `json:"purse,omitempty"`
	TrackCondition   string    `json:"track_condition,omitempty"`
	FieldSize        int       `json:"field_size"`
}

// IsSprint reports whether the race is a sprint (under a mile).
func (r *RaceHeader) IsSprint() bool {
	return r.DistanceFurlongs < 8.0
}

// IsRoute reports whether the race is a route (a mile or longer).
func (r *RaceHeader) IsRoute() bool {
	return r.DistanceFurlongs >= 8.0
}

// IsOffTrack reports whether the track condition is a wet or off surface.
func (r *RaceHeader) IsOffTrack() bool {
	switch r.TrackCondition {
	case "muddy", "sloppy", "heavy", "yielding", "soft":
		return true
	}
	return false
}

// RaceCard bundles the header with its entries, the shape the scoring
// service and HTTP layer accept from the card parser.
type RaceCard struct {
	Header RaceHeader   `json:"header"`
	Horses []HorseEntry `json:"horses"`
}
