package scoring

import (
	"testing"
)

func TestParseOdds(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"5-1", 5.0, true},
		{"7-2", 3.5, true},
		{"7/2", 3.5, true},
		{"EVEN", 1.0, true},
		{"evn", 1.0, true},
		{" 9-5 ", 1.8, true},
		{"2.5", 2.5, true},
		{"30-1", 30.0, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"5-0", 0, false},
		{"-3", 0, false},
		{"0", 0, false},
	}
	for _, tt := range tests {
		got := ParseOdds(tt.input)
		if !tt.ok {
			if got != nil {
				t.Errorf("ParseOdds(%q) = %v, want nil", tt.input, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseOdds(%q) = nil, want %v", tt.input, tt.want)
			continue
		}
		if *got != tt.want {
			t.Errorf("ParseOdds(%q) = %v, want %v", tt.input, *got, tt.want)
		}
	}
}

func TestFormatOdds(t *testing.T) {
	tests := []struct {
		odds float64
		want string
	}{
		{5.0, "5-1"},
		{3.5, "7-2"},
		{1.8, "9-5"},
		{1.0, "EVEN"},
		{0.5, "1-2"},
		{30.0, "30-1"},
	}
	for _, tt := range tests {
		if got := FormatOdds(tt.odds); got != tt.want {
			t.Errorf("FormatOdds(%v) = %q, want %q", tt.odds, got, tt.want)
		}
	}
}

func TestFormatOddsRoundTrip(t *testing.T) {
	for _, s := range []string{"5-1", "7-2", "9-5", "12-1", "EVEN"} {
		parsed := ParseOdds(s)
		if parsed == nil {
			t.Fatalf("ParseOdds(%q) returned nil", s)
		}
		if got := FormatOdds(*parsed); got != s {
			t.Errorf("round trip %q -> %v -> %q", s, *parsed, got)
		}
	}
}

func TestOddsPoints(t *testing.T) {
	tests := []struct {
		odds *float64
		want float64
	}{
		{ptrF(1.0), 12},
		{ptrF(2.0), 12},
		{ptrF(2.5), 10},
		{ptrF(3.5), 9},
		{ptrF(5.0), 7},
		{ptrF(8.0), 6},
		{ptrF(15.0), 4},
		{ptrF(30.0), 2},
		{nil, 6},
	}
	for _, tt := range tests {
		if got := OddsPoints(tt.odds); got != tt.want {
			t.Errorf("OddsPoints(%v) = %v, want %v", tt.odds, got, tt.want)
		}
	}
}

func TestScoreOddsSourcePrecedence(t *testing.T) {
	score := ScoreOdds("5-2", "8-1")
	if score.Source != "live" {
		t.Fatalf("expected live source, got %q", score.Source)
	}
	if score.Total != 10 {
		t.Errorf("expected 10 points for 5-2, got %v", score.Total)
	}

	score = ScoreOdds("garbage", "8-1")
	if score.Source != "morning_line" {
		t.Fatalf("expected morning_line fallback, got %q", score.Source)
	}
	if score.Total != 6 {
		t.Errorf("expected 6 points for 8-1, got %v", score.Total)
	}

	score = ScoreOdds("", "")
	if score.Source != "none" {
		t.Fatalf("expected none source, got %q", score.Source)
	}
	if score.Total != 6 {
		t.Errorf("expected neutral 6, got %v", score.Total)
	}
	if score.DecimalOdds != nil {
		t.Errorf("expected nil decimal odds")
	}
}

func ptrF(v float64) *float64 { return &v }
