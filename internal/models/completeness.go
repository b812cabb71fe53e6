package models

// Completeness grades.
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeF = "F"
)

// TierCompleteness is the percentage of checks satisfied within one
// importance tier.
type TierCompleteness struct {
	Tier    string  `json:"tier"`
	Weight  float64 `json:"weight"`
	Percent float64 `json:"percent"`
	Present int     `json:"present"`
	Checked int     `json:"checked"`
}

// CompletenessReport summarizes how much of a horse's input data was present
// for scoring. A low-confidence flag is raised when critical-tier coverage
// falls below half.
type CompletenessReport struct {
	OverallScore    float64            `json:"overall_score"`
	OverallGrade    string             `json:"overall_grade"`
	IsLowConfidence bool               `json:"is_low_confidence"`
	Tiers           []TierCompleteness `json:"tiers"`
	MissingCritical []string           `json:"missing_critical"`
}
