package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tacctile/handicap-app-sub003/internal/models"
)

// Performance-derived (shipper fallback) caps sit below the meet-stat maxima
// so inferred statistics can never outrank authoritative ones.
const (
	fallbackTrainerCap = 7
	fallbackJockeyCap  = 8
	minSampleStarts    = 3
	insufficientSample = 1
)

// winRateStats is a starts/wins pair from any of the three stat sources.
type winRateStats struct {
	Starts int
	Wins   int
}

// Rate returns the win rate, or 0 with no starts.
func (s winRateStats) Rate() float64 {
	if s.Starts == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Starts)
}

// ConnectionsDatabase maps normalized trainer and jockey names to win-rate
// statistics derived from the field's own past performances. It is built
// fresh for every orchestrator invocation, shared read-only across the
// field, and never persisted.
type ConnectionsDatabase struct {
	trainers map[string]winRateStats
	jockeys  map[string]winRateStats
}

// BuildConnectionsDatabase aggregates the field's past-performance records
// by each entry's current trainer and jockey. It is the fallback stat source
// for shippers without meet or career statistics.
func BuildConnectionsDatabase(horses []models.HorseEntry) *ConnectionsDatabase {
	db := &ConnectionsDatabase{
		trainers: make(map[string]winRateStats),
		jockeys:  make(map[string]winRateStats),
	}
	for i := range horses {
		h := &horses[i]
		starts := len(h.PastPerformances)
		if starts == 0 {
			continue
		}
		wins := 0
		for j := range h.PastPerformances {
			if h.PastPerformances[j].Won() {
				wins++
			}
		}
		if name := h.NormalizedTrainer(); name != "" {
			s := db.trainers[name]
			s.Starts += starts
			s.Wins += wins
			db.trainers[name] = s
		}
		if name := h.NormalizedJockey(); name != "" {
			s := db.jockeys[name]
			s.Starts += starts
			s.Wins += wins
			db.jockeys[name] = s
		}
	}
	return db
}

// TrainerStats returns the performance-derived statistics for a trainer.
func (db *ConnectionsDatabase) TrainerStats(name string) (winRateStats, bool) {
	s, ok := db.trainers[strings.ToUpper(strings.TrimSpace(name))]
	return s, ok
}

// JockeyStats returns the performance-derived statistics for a jockey.
func (db *ConnectionsDatabase) JockeyStats(name string) (winRateStats, bool) {
	s, ok := db.jockeys[strings.ToUpper(strings.TrimSpace(name))]
	return s, ok
}

// parseCareerStats parses a card career-stat string of the form
// "starts wins places shows" (e.g. "245 48 39 31").
func parseCareerStats(s string) (winRateStats, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) < 2 {
		return winRateStats{}, false
	}
	starts, err1 := strconv.Atoi(fields[0])
	wins, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || starts < 0 || wins < 0 || wins > starts {
		return winRateStats{}, false
	}
	return winRateStats{Starts: starts, Wins: wins}, true
}

// trainerRateBands award trainer points by win rate once the sample is big
// enough; the top tier additionally requires 20 starts.
var trainerRateBands = []band{
	{min: 0.25, value: 8},
	{min: 0.20, value: 8},
	{min: 0.15, value: 6},
	{min: 0.12, value: 4},
	{min: 0.10, value: 3},
}

var jockeyRateBands = []band{
	{min: 0.25, value: 10},
	{min: 0.20, value: 10},
	{min: 0.15, value: 8},
	{min: 0.12, value: 6},
	{min: 0.10, value: 4},
}

func trainerPoints(stats winRateStats) float64 {
	if stats.Starts < minSampleStarts {
		return insufficientSample
	}
	rate := stats.Rate()
	if rate >= 0.25 && stats.Starts >= 20 {
		return models.MaxTrainerScore
	}
	return lookupBand(trainerRateBands, rate, insufficientSample)
}

func jockeyPoints(stats winRateStats) float64 {
	if stats.Starts < minSampleStarts {
		return insufficientSample
	}
	rate := stats.Rate()
	if rate >= 0.25 && stats.Starts >= 20 {
		return models.MaxJockeyScore
	}
	return lookupBand(jockeyRateBands, rate, 2)
}

// CalculateConnectionsScore scores trainer, jockey, and their partnership.
// Authoritative meet statistics win over career strings, which win over the
// field-derived fallback; fallback scores are capped below the meet maxima.
func CalculateConnectionsScore(horse *models.HorseEntry, db *ConnectionsDatabase) models.ConnectionsScore {
	score := models.ConnectionsScore{}
	score.Max = models.MaxConnectionsScore

	score.TrainerPoints, score.TrainerFromFallback = scoreTrainer(horse, db, &score)
	score.JockeyPoints, score.JockeyFromFallback = scoreJockey(horse, db, &score)

	partnership, reason := partnershipPoints(horse)
	score.PartnershipPoints = partnership
	score.Reasons = append(score.Reasons, reason)

	score.Total = clamp(score.TrainerPoints+score.JockeyPoints+partnership, 0, models.MaxConnectionsScore)
	score.Reasoning = joinReasons(score.Reasons)
	return score
}

func scoreTrainer(horse *models.HorseEntry, db *ConnectionsDatabase, score *models.ConnectionsScore) (float64, bool) {
	if horse.HasTrainerMeetStats() && *horse.TrainerMeetStarts > 0 {
		stats := winRateStats{Starts: *horse.TrainerMeetStarts, Wins: *horse.TrainerMeetWins}
		pts := trainerPoints(stats)
		score.Reasons = append(score.Reasons,
			fmt.Sprintf("Trainer %.0f%% at meet (%d starts)", stats.Rate()*100, stats.Starts))
		return pts, false
	}
	if stats, ok := parseCareerStats(horse.TrainerCareerStats); ok {
		pts := trainerPoints(stats)
		score.Reasons = append(score.Reasons,
			fmt.Sprintf("Trainer %.0f%% career (%d starts)", stats.Rate()*100, stats.Starts))
		return pts, false
	}
	if stats, ok := db.TrainerStats(horse.Trainer); ok {
		pts := clamp(trainerPoints(stats), 0, fallbackTrainerCap)
		score.Reasons = append(score.Reasons, "Trainer stats inferred from field record (shipper)")
		return pts, true
	}
	score.Reasons = append(score.Reasons, "No trainer statistics")
	return insufficientSample, false
}

func scoreJockey(horse *models.HorseEntry, db *ConnectionsDatabase, score *models.ConnectionsScore) (float64, bool) {
	if horse.HasJockeyMeetStats() && *horse.JockeyMeetStarts > 0 {
		stats := winRateStats{Starts: *horse.JockeyMeetStarts, Wins: *horse.JockeyMeetWins}
		pts := jockeyPoints(stats)
		score.Reasons = append(score.Reasons,
			fmt.Sprintf("Jockey %.0f%% at meet (%d starts)", stats.Rate()*100, stats.Starts))
		return pts, false
	}
	if stats, ok := parseCareerStats(horse.JockeyCareerStats); ok {
		pts := jockeyPoints(stats)
		score.Reasons = append(score.Reasons,
			fmt.Sprintf("Jockey %.0f%% career (%d starts)", stats.Rate()*100, stats.Starts))
		return pts, false
	}
	if stats, ok := db.JockeyStats(horse.Jockey); ok {
		pts := clamp(jockeyPoints(stats), 0, fallbackJockeyCap)
		score.Reasons = append(score.Reasons, "Jockey stats inferred from field record (shipper)")
		return pts, true
	}
	score.Reasons = append(score.Reasons, "No jockey statistics")
	return insufficientSample, false
}

// partnershipPoints scores the trainer-jockey pairing. Anything under five
// joint starts is a first pairing for scoring purposes.
func partnershipPoints(horse *models.HorseEntry) (float64, string) {
	if horse.ComboStarts == nil || *horse.ComboStarts < 5 {
		return 0, "First time trainer/jockey combo"
	}
	starts := *horse.ComboStarts
	wins := 0
	if horse.ComboWins != nil {
		wins = *horse.ComboWins
	}
	rate := float64(wins) / float64(starts)
	switch {
	case rate >= 0.30 && starts >= 8:
		return models.MaxPartnershipScore, fmt.Sprintf("Elite combo: %.0f%% together", rate*100)
	case rate >= 0.25:
		return 1, fmt.Sprintf("Strong combo: %.0f%% together", rate*100)
	case rate >= 0.20:
		return 0, fmt.Sprintf("Good combo: %.0f%% together", rate*100)
	case rate >= 0.15:
		return 0, fmt.Sprintf("Regular combo: %.0f%% together", rate*100)
	}
	return 0, fmt.Sprintf("Low-percentage combo: %.0f%% together", rate*100)
}
