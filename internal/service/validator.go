// Package service wraps the pure scoring engine with validation, caching,
// metrics, and logging for the CLI and HTTP surfaces.
package service

import (
	"fmt"

	"github.com/tacctile/handicap-app-sub003/internal/models"
)

// ValidationResult reports whether a parsed race card is usable for
// scoring. Errors make the card unusable; warnings lower the completeness
// score but scoring proceeds.
type ValidationResult struct {
	Usable       bool     `json:"usable"`
	Completeness float64  `json:"completeness"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
}

// CardValidator validates race cards before the scoring engine sees them.
type CardValidator struct {
	minUsability float64
}

// NewCardValidator creates a card validator. Cards whose completeness score
// falls below minUsability are rejected.
func NewCardValidator(minUsability float64) *CardValidator {
	return &CardValidator{minUsability: minUsability}
}

// ValidateCard checks a race card for structural problems. The scoring
// engine itself never rejects data; this is the single gate in front of it.
func (v *CardValidator) ValidateCard(card *models.RaceCard) ValidationResult {
	result := ValidationResult{}

	if card.Header.TrackCode == "" {
		result.Errors = append(result.Errors, "track code is required")
	}
	if card.Header.DistanceFurlongs <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("distance must be positive, got %.1f", card.Header.DistanceFurlongs))
	}
	if len(card.Horses) == 0 {
		result.Errors = append(result.Errors, "race card has no entries")
	}
	if len(card.Horses) > 24 {
		result.Errors = append(result.Errors, fmt.Sprintf("field size %d exceeds the 24-horse maximum", len(card.Horses)))
	}
	if card.Header.Classification == "" {
		result.Warnings = append(result.Warnings, "classification missing, default par will be used")
	}
	if card.Header.Surface == "" {
		result.Warnings = append(result.Warnings, "surface missing")
	}

	active := 0
	for i := range card.Horses {
		h := &card.Horses[i]
		if h.Name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d has no name", i))
		}
		if h.ProgramNumber == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d has no program number", i))
		}
		if !h.Scratched {
			active++
		}
		if len(h.PastPerformances) == 0 && h.MorningLineOdds == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d has neither past performances nor a morning line", i))
		}
	}
	if len(card.Horses) > 0 && active == 0 {
		result.Warnings = append(result.Warnings, "every entry is scratched")
	}

	result.Completeness = completenessScore(len(result.Errors), len(result.Warnings))
	result.Usable = len(result.Errors) == 0 && result.Completeness >= v.minUsability
	return result
}

// completenessScore maps error and warning counts to a 0-100 usability
// score: errors cost 25 points each, warnings 5.
func completenessScore(errs, warns int) float64 {
	score := 100.0 - 25.0*float64(errs) - 5.0*float64(warns)
	if score < 0 {
		return 0
	}
	return score
}
