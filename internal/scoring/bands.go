// Package scoring implements the category scorers and the race orchestrator.
// Every scorer is a pure function of its inputs: identical inputs produce
// identical scores, reasons included.
package scoring

// band pairs a lower bound with the value awarded at or above it.
type band struct {
	min   float64
	value float64
}

// lookupBand resolves v against an ordered band table (highest lower bound
// first) and returns the matched value, or fallback when v is below every
// band. Every tiered threshold table in the engine resolves through this one
// helper so the tables stay declarative.
func lookupBand(bands []band, v float64, fallback float64) float64 {
	for _, b := range bands {
		if v >= b.min {
			return b.value
		}
	}
	return fallback
}

// labeledBand pairs a lower bound with a value and the label used in
// reasoning text.
type labeledBand struct {
	min   float64
	value float64
	label string
}

// lookupLabeledBand resolves v against an ordered labeled band table and
// returns the matched value and label, or the fallbacks when v is below
// every band.
func lookupLabeledBand(bands []labeledBand, v float64, fallback float64, fallbackLabel string) (float64, string) {
	for _, b := range bands {
		if v >= b.min {
			return b.value, b.label
		}
	}
	return fallback, fallbackLabel
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
