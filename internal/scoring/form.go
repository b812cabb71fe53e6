package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/internal/track"
)

// Form component caps.
const (
	recentFormMax     = 15
	consistencyMax    = 4
	recentWinnerFloor = 5
)

// recentFormWeights spreads the recent-form sub-score across the three most
// recent races.
var recentFormWeights = []float64{0.5, 0.3, 0.2}

// decayBand maps days since the last win to the won-last-out bonus and the
// multiplier applied to flat win-pattern bonuses.
type decayBand struct {
	maxDays int
	bonus   float64
	mult    float64
}

var decayBands = []decayBand{
	{maxDays: 21, bonus: 18, mult: 1.0},
	{maxDays: 35, bonus: 14, mult: 0.85},
	{maxDays: 50, bonus: 10, mult: 0.65},
	{maxDays: 75, bonus: 6, mult: 0.40},
	{maxDays: 90, bonus: 3, mult: 0.25},
}

// CalculateWLODecay returns the won-last-out bonus for a win the given
// number of days ago. Negative input is treated as a same-day win.
func CalculateWLODecay(daysSinceLastWin int) float64 {
	if daysSinceLastWin < 0 {
		daysSinceLastWin = 0
	}
	for _, b := range decayBands {
		if daysSinceLastWin <= b.maxDays {
			return b.bonus
		}
	}
	return 1
}

// GetRecencyMultiplier returns the decay multiplier for flat win-pattern
// bonuses, over the same day boundaries as the WLO decay.
func GetRecencyMultiplier(daysSinceLastWin int) float64 {
	if daysSinceLastWin < 0 {
		daysSinceLastWin = 0
	}
	for _, b := range decayBands {
		if daysSinceLastWin <= b.maxDays {
			return b.mult
		}
	}
	return 0.10
}

// CalculateFormScore scores a horse's current form: recency-weighted recent
// finishes, consistency, layoff, and decayed winner bonuses. Recent winners
// are floored at 5 and the total is hard-capped at 50.
func CalculateFormScore(horse *models.HorseEntry, header *models.RaceHeader) models.FormScore {
	score := models.FormScore{DaysSinceLastRace: -1}
	score.Max = models.MaxFormScore

	recent, recentReasons := recentFormComponent(horse, header)
	score.RecentFormPoints = recent
	score.Reasons = append(score.Reasons, recentReasons...)

	consistency, consistencyReason := consistencyComponent(horse)
	score.ConsistencyPoints = consistency
	if consistencyReason != "" {
		score.Reasons = append(score.Reasons, consistencyReason)
	}

	asOf := asOfDate(header)
	days := horse.DaysSinceLastRace(asOf)
	score.DaysSinceLastRace = days
	layoff, layoffReason := layoffComponent(horse, days)
	score.LayoffPoints = layoff
	score.Reasons = append(score.Reasons, layoffReason)

	bonus, bonusReasons, wonLastOut := winnerBonusComponent(horse, asOf)
	score.WinnerBonusPoints = bonus
	score.WonLastOut = wonLastOut
	score.Reasons = append(score.Reasons, bonusReasons...)

	total := recent + consistency + layoff + bonus
	if recentWinner(horse) && total < recentWinnerFloor {
		total = recentWinnerFloor
		score.Reasons = append(score.Reasons, "Recent winner floor applied")
	}
	score.Total = clamp(total, 0, models.MaxFormScore)
	score.Reasoning = joinReasons(score.Reasons)
	return score
}

func asOfDate(header *models.RaceHeader) time.Time {
	if header == nil {
		return time.Time{}
	}
	return header.Date
}

// recentWinner reports whether the horse won any of its last three races.
func recentWinner(horse *models.HorseEntry) bool {
	for _, pp := range horse.RecentRaces(3) {
		if pp.Won() {
			return true
		}
	}
	return false
}

// recentFormComponent weights the finish quality of the three most recent
// races 50/30/20. Fewer than three races re-normalize over the weights used.
func recentFormComponent(horse *models.HorseEntry, header *models.RaceHeader) (float64, []string) {
	races := horse.RecentRaces(3)
	if len(races) == 0 {
		return 7, []string{"No form lines, neutral recent form"}
	}

	todayRank := -1
	if header != nil {
		if r, ok := track.ClassRank(header.Classification); ok {
			todayRank = r
		}
	}

	var weighted, usedWeights float64
	for i, pp := range races {
		weighted += recentFormWeights[i] * finishQuality(&pp, todayRank)
		usedWeights += recentFormWeights[i]
	}
	value := weighted / usedWeights

	reason := fmt.Sprintf("Recent form %.1f of %d", value, recentFormMax)
	if races[0].Won() {
		reason = "Won last out"
	}
	return clamp(value, 0, recentFormMax), []string{reason}
}

// finishQuality scores one past race's finish on the recent-form scale.
// Dropping in class (the past race ran at a higher level than today) boosts
// non-winning results; wins always score the maximum.
func finishQuality(pp *models.PastPerformance, todayRank int) float64 {
	if pp.Won() {
		return recentFormMax
	}

	classDrop := false
	if todayRank > 0 {
		if ppRank, ok := track.ClassRank(pp.Classification); ok && ppRank > todayRank {
			classDrop = true
		}
	}

	lengths := pp.GetLengthsBehind()
	switch {
	case pp.FinishPosition <= 3:
		if classDrop {
			if lengths <= 1 {
				return 14
			}
			return 13
		}
		if lengths <= 1 {
			return 13
		}
		return 12
	case pp.FinishPosition <= 6:
		if classDrop {
			switch {
			case lengths <= 3:
				return 11
			case lengths <= 6:
				return 10
			default:
				return 9
			}
		}
		if lengths <= 3 {
			return 8
		}
		return 6
	default:
		if classDrop {
			switch {
			case lengths <= 6:
				return 9
			case lengths <= 10:
				return 8
			default:
				return 7
			}
		}
		if lengths <= 8 {
			return 5
		}
		return 3
	}
}

// consistencyComponent awards up to 4 points for an in-the-money streak or a
// high recent in-the-money rate.
func consistencyComponent(horse *models.HorseEntry) (float64, string) {
	recent := horse.RecentRaces(5)
	if len(recent) == 0 {
		return 0, ""
	}

	streak := 0
	for _, pp := range recent {
		if !pp.InTheMoney() {
			break
		}
		streak++
	}

	itm := 0
	for _, pp := range recent {
		if pp.InTheMoney() {
			itm++
		}
	}
	rate := float64(itm) / float64(len(recent))

	switch {
	case rate >= 0.5:
		return consistencyMax, fmt.Sprintf("In the money %d of last %d", itm, len(recent))
	case streak >= 3:
		return consistencyMax, fmt.Sprintf("Hot streak: %d straight in the money", streak)
	case streak == 2:
		return 3, "Two straight in the money"
	case rate >= 0.4:
		return 2, fmt.Sprintf("In the money %d of last %d", itm, len(recent))
	case rate >= 0.25:
		return 1, fmt.Sprintf("In the money %d of last %d", itm, len(recent))
	}
	return 0, ""
}

// layoffPenaltyBands map days away to the penalty, longest layoff first.
var layoffPenaltyBands = []band{
	{min: 180, value: -10},
	{min: 120, value: -7},
	{min: 90, value: -5},
	{min: 60, value: -3},
	{min: 36, value: -1},
}

// layoffComponent is penalty-based: 7-35 days is optimal and free, longer
// layoffs escalate to -10, and quick turnbacks or debuts cost a token -2.
// A documented history of winning off a similar layoff halves the penalty.
func layoffComponent(horse *models.HorseEntry, days int) (float64, string) {
	if horse.IsFirstTimeStarter() {
		return -2, "First-time starter"
	}
	if days < 0 {
		return 0, "Unknown layoff"
	}
	if days < 7 {
		return -2, fmt.Sprintf("Quick turnback (%d days)", days)
	}
	if days <= 35 {
		return 0, fmt.Sprintf("Optimal layoff (%d days)", days)
	}

	penalty := lookupBand(layoffPenaltyBands, float64(days), 0)
	if wonOffSimilarLayoff(horse, days) {
		penalty = math.Ceil(penalty / 2)
		return penalty, fmt.Sprintf("Layoff of %d days, proven fresh", days)
	}
	return penalty, fmt.Sprintf("Layoff of %d days", days)
}

// wonOffSimilarLayoff reports whether the horse has ever won a race it
// entered off a layoff in the same decay band as today's.
func wonOffSimilarLayoff(horse *models.HorseEntry, days int) bool {
	today := layoffBand(days)
	for i := range horse.PastPerformances {
		pp := &horse.PastPerformances[i]
		if pp.Won() && pp.DaysSinceRace != nil && layoffBand(*pp.DaysSinceRace) == today {
			return true
		}
	}
	return false
}

func layoffBand(days int) int {
	switch {
	case days >= 180:
		return 5
	case days >= 120:
		return 4
	case days >= 90:
		return 3
	case days >= 60:
		return 2
	case days >= 36:
		return 1
	default:
		return 0
	}
}

// winnerBonusComponent stacks the decayed won-last-out bonus, the decayed
// flat win-pattern bonuses, and the win-recency bonus.
func winnerBonusComponent(horse *models.HorseEntry, asOf time.Time) (float64, []string, bool) {
	var (
		total   float64
		reasons []string
	)

	last := horse.LastRace()
	wonLastOut := last != nil && last.Won()
	daysSinceWin := horse.DaysSinceLastWin(asOf)

	if wonLastOut {
		bonus := CalculateWLODecay(daysSinceWin)
		total += bonus
		reasons = append(reasons, fmt.Sprintf("Won last out (+%.0f)", bonus))
	}

	mult := GetRecencyMultiplier(daysSinceWin)
	if winsIn(horse, 3) >= 2 {
		bonus := math.Round(8 * mult)
		total += bonus
		if bonus > 0 {
			reasons = append(reasons, fmt.Sprintf("Won 2 of last 3 (+%.0f)", bonus))
		}
	}
	if winsIn(horse, 5) >= 3 {
		bonus := math.Round(4 * mult)
		total += bonus
		if bonus > 0 {
			reasons = append(reasons, fmt.Sprintf("Won 3 of last 5 (+%.0f)", bonus))
		}
	}

	switch {
	case daysSinceWin >= 0 && daysSinceWin <= 30:
		total += 4
		reasons = append(reasons, "Won within 30 days (+4)")
	case daysSinceWin > 30 && daysSinceWin <= 60:
		total += 3
		reasons = append(reasons, "Won within 60 days (+3)")
	}

	return total, reasons, wonLastOut
}

func winsIn(horse *models.HorseEntry, n int) int {
	wins := 0
	for _, pp := range horse.RecentRaces(n) {
		if pp.Won() {
			wins++
		}
	}
	return wins
}
