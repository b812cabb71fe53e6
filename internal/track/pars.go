package track

import "strings"

// DefaultPar is the benchmark figure used when the race classification is
// not recognized.
const DefaultPar = 75

// classLevel pairs a classification with its hierarchy rank and par figure.
// Rank orders the class ladder from bottom (maiden claiming) to top (grade 1
// stakes); par is the benchmark speed figure expected at the level.
type classLevel struct {
	rank int
	par  int
}

var classLevels = map[string]classLevel{
	"maiden_claiming":       {rank: 1, par: 65},
	"maiden":                {rank: 2, par: 70},
	"maiden_special_weight": {rank: 2, par: 70},
	"claiming":              {rank: 3, par: 75},
	"starter_allowance":     {rank: 4, par: 78},
	"allowance":             {rank: 5, par: 82},
	"optional_claiming":     {rank: 6, par: 85},
	"handicap":              {rank: 7, par: 90},
	"stakes":                {rank: 8, par: 95},
	"stakes_graded_3":       {rank: 9, par: 98},
	"stakes_graded_2":       {rank: 10, par: 101},
	"stakes_graded_1":       {rank: 11, par: 105},
}

func normalizeClass(classification string) string {
	s := strings.ToLower(strings.TrimSpace(classification))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// ParFor returns the par figure for a race classification, or DefaultPar for
// an unrecognized one.
func ParFor(classification string) int {
	if lvl, ok := classLevels[normalizeClass(classification)]; ok {
		return lvl.par
	}
	return DefaultPar
}

// ClassRank returns the hierarchy rank of a classification and whether the
// classification was recognized. Higher rank means a higher class level.
func ClassRank(classification string) (int, bool) {
	lvl, ok := classLevels[normalizeClass(classification)]
	return lvl.rank, ok
}

// ClassMovement describes the direction of a class change from a past race
// into today's race.
type ClassMovement string

// Class movement directions.
const (
	ClassDrop ClassMovement = "drop"
	ClassRise ClassMovement = "rise"
	ClassSame ClassMovement = "same"
)

// CompareClass returns the movement from a previous classification into
// today's. Claiming prices break ties within the claiming ranks: a lower
// price today is a drop. Unrecognized classifications compare as same.
func CompareClass(today, previous string, todayPrice, previousPrice *float64) ClassMovement {
	tr, tok := ClassRank(today)
	pr, pok := ClassRank(previous)
	if !tok || !pok {
		return ClassSame
	}
	switch {
	case tr < pr:
		return ClassDrop
	case tr > pr:
		return ClassRise
	}
	if todayPrice != nil && previousPrice != nil {
		if *todayPrice < *previousPrice {
			return ClassDrop
		}
		if *todayPrice > *previousPrice {
			return ClassRise
		}
	}
	return ClassSame
}
