// Package helpers provides fixture builders shared by the test suites.
// Builders return fully-populated defaults; tests override only the fields
// the scenario cares about.
package helpers

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tacctile/handicap-app-sub003/internal/models"
)

// RaceDay is the fixed as-of date used across fixtures so layoff and decay
// math stays deterministic.
var RaceDay = time.Date(2024, time.May, 11, 0, 0, 0, 0, time.UTC)

// NewTestLogger returns a logger that discards output.
func NewTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }

// NewRaceHeader returns a header for a 6f dirt allowance at Santa Anita on
// RaceDay. Overrides mutate it in place.
func NewRaceHeader(overrides ...func(*models.RaceHeader)) models.RaceHeader {
	header := models.RaceHeader{
		TrackCode:        "SA",
		RaceNumber:       5,
		Date:             RaceDay,
		Surface:          "dirt",
		DistanceFurlongs: 6.0,
		Classification:   "allowance",
		TrackCondition:   "fast",
		FieldSize:        8,
	}
	for _, o := range overrides {
		o(&header)
	}
	return header
}

// NewPastPerformance returns a competitive recent line: a second-place
// finish at the header's track and class with a usable figure and pace
// numbers, daysAgo days before RaceDay.
func NewPastPerformance(daysAgo int, overrides ...func(*models.PastPerformance)) models.PastPerformance {
	pp := models.PastPerformance{
		Date:             RaceDay.AddDate(0, 0, -daysAgo),
		Track:            "SA",
		DistanceFurlongs: 6.0,
		Surface:          "dirt",
		TrackCondition:   "fast",
		Classification:   "allowance",
		FieldSize:        8,
		PostPosition:     4,
		FinishPosition:   2,
		LengthsBehind:    Float64Ptr(1.5),
		BeyerFigure:      IntPtr(82),
		TrackVariant:     IntPtr(0),
		EarlyPace:        IntPtr(84),
		LatePace:         IntPtr(83),
		RunningLine:      models.RunningLine{FirstCall: IntPtr(3), SecondCall: IntPtr(3), StretchCall: IntPtr(2), Finish: IntPtr(2)},
	}
	for _, o := range overrides {
		o(&pp)
	}
	return pp
}

// NewHorse returns an entry with complete connections data and three recent
// competitive lines. Program number and post default to "1"/1; multi-horse
// fixtures should override both.
func NewHorse(name string, overrides ...func(*models.HorseEntry)) models.HorseEntry {
	horse := models.HorseEntry{
		ProgramNumber:     "1",
		PostPosition:      1,
		Name:              name,
		Age:               4,
		Sex:               "g",
		Weight:            122,
		Trainer:           "R Baffert",
		Jockey:            "F Prat",
		TrainerMeetStarts: IntPtr(40),
		TrainerMeetWins:   IntPtr(8),
		JockeyMeetStarts:  IntPtr(60),
		JockeyMeetWins:    IntPtr(12),
		ComboStarts:       IntPtr(12),
		ComboWins:         IntPtr(3),
		MorningLineOdds:   "4-1",
		PastPerformances: []models.PastPerformance{
			NewPastPerformance(30),
			NewPastPerformance(60, func(pp *models.PastPerformance) {
				pp.FinishPosition = 3
				pp.BeyerFigure = IntPtr(80)
				pp.RunningLine.Finish = IntPtr(3)
			}),
			NewPastPerformance(90, func(pp *models.PastPerformance) {
				pp.FinishPosition = 4
				pp.BeyerFigure = IntPtr(78)
				pp.LengthsBehind = Float64Ptr(4.0)
				pp.RunningLine.Finish = IntPtr(4)
			}),
		},
	}
	for _, o := range overrides {
		o(&horse)
	}
	return horse
}

// NewCard returns a card with n default horses, distinct program numbers
// and posts, under a default header.
func NewCard(n int, overrides ...func(*models.RaceCard)) models.RaceCard {
	card := models.RaceCard{
		Header: NewRaceHeader(func(h *models.RaceHeader) { h.FieldSize = n }),
	}
	names := []string{
		"Bold Venture", "Silver Charm", "Gate Dancer", "Lucky Pulpit",
		"Seattle Slew", "Winning Colors", "Sunday Silence", "Real Quiet",
		"Genuine Risk", "Spend A Buck", "Ferdinand", "Alysheba",
	}
	for i := 0; i < n; i++ {
		idx := i
		name := names[i%len(names)]
		card.Horses = append(card.Horses, NewHorse(name, func(h *models.HorseEntry) {
			h.ProgramNumber = programNumber(idx + 1)
			h.PostPosition = idx + 1
		}))
	}
	for _, o := range overrides {
		o(&card)
	}
	return card
}

func programNumber(n int) string {
	digits := "0123456789"
	if n < 10 {
		return string(digits[n])
	}
	return string(digits[n/10]) + string(digits[n%10])
}
