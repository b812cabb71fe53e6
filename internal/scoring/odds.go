package scoring

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tacctile/handicap-app-sub003/internal/models"
)

// ParseOdds parses an odds string from the card or the tote into decimal
// odds. Accepted forms: fractional "5-1" or "7/2", "EVEN"/"EVN" for even
// money, and bare decimal strings. Parsing is case and whitespace
// insensitive. Unparseable or non-positive input returns nil; callers treat
// nil as "no market data" and fall back to the neutral odds score.
func ParseOdds(s string) *float64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	if s == "EVEN" || s == "EVN" {
		v := 1.0
		return &v
	}

	for _, sep := range []string{"-", "/"} {
		if !strings.Contains(s, sep) {
			continue
		}
		parts := strings.SplitN(s, sep, 2)
		num, err1 := decimal.NewFromString(strings.TrimSpace(parts[0]))
		den, err2 := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil || den.IsZero() {
			return nil
		}
		v, _ := num.Div(den).Round(4).Float64()
		if v <= 0 {
			return nil
		}
		return &v
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	v, _ := d.Float64()
	if v <= 0 {
		return nil
	}
	return &v
}

// FormatOdds renders decimal odds back into the conventional fractional
// form, e.g. 5.0 -> "5-1" and 3.5 -> "7-2". Values with no conventional
// fractional form are rendered as a plain decimal string.
func FormatOdds(odds float64) string {
	if odds <= 0 {
		return ""
	}
	d := decimal.NewFromFloat(odds)
	if d.Equal(decimal.NewFromInt(1)) {
		return "EVEN"
	}
	for _, den := range []int64{1, 2, 4, 5, 10, 20} {
		num := d.Mul(decimal.NewFromInt(den))
		if num.IsInteger() {
			return fmt.Sprintf("%s-%d", num.String(), den)
		}
	}
	return d.Round(2).String()
}

// oddsTier pairs an upper decimal-odds bound with points and the label used
// in reasoning text. Bands resolve lowest bound first.
type oddsTier struct {
	max    float64
	points float64
	label  string
}

var oddsTiers = []oddsTier{
	{max: 2.0, points: 12, label: "Heavy favorite"},
	{max: 3.0, points: 10, label: "Clear favorite"},
	{max: 4.0, points: 9, label: "Co-favorite range"},
	{max: 6.0, points: 7, label: "Mid-price contender"},
	{max: 10.0, points: 6, label: "Mild longshot"},
	{max: 20.0, points: 4, label: "Longshot"},
}

// OddsPoints converts decimal odds to the discretized favorite-tier score.
// Nil odds score the documented neutral 6.
func OddsPoints(odds *float64) float64 {
	if odds == nil {
		return models.NeutralOddsScore
	}
	for _, t := range oddsTiers {
		if *odds <= t.max {
			return t.points
		}
	}
	return 2
}

// ScoreOdds scores market odds for one horse. Live odds override the morning
// line when parseable; otherwise the morning line is used; with neither, the
// neutral score applies. The source of the discretized value is recorded for
// diagnostics.
func ScoreOdds(liveOdds, morningLine string) models.OddsScore {
	var (
		parsed *float64
		source string
	)
	if parsed = ParseOdds(liveOdds); parsed != nil {
		source = "live"
	} else if parsed = ParseOdds(morningLine); parsed != nil {
		source = "morning_line"
	} else {
		source = "none"
	}

	score := models.OddsScore{DecimalOdds: parsed, Source: source}
	score.Max = models.MaxOddsScore

	if parsed == nil {
		score.Total = models.NeutralOddsScore
		score.Reasons = []string{"No parseable odds, neutral score"}
		score.Reasoning = joinReasons(score.Reasons)
		return score
	}

	score.Total = OddsPoints(parsed)
	label := "Extreme longshot"
	for _, t := range oddsTiers {
		if *parsed <= t.max {
			label = t.label
			break
		}
	}
	score.Reasons = []string{fmt.Sprintf("%s at %s", label, FormatOdds(*parsed))}
	score.Reasoning = joinReasons(score.Reasons)
	return score
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}
