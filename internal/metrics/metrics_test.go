package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	if first == nil {
		t.Fatal("InitRegistry returned nil")
	}
	if first != second {
		t.Error("InitRegistry must always return the same registry")
	}
	if GetRegistry() != first {
		t.Error("GetRegistry must return the initialized registry")
	}
}

func TestHandlerServesRecordedMetrics(t *testing.T) {
	InitRegistry()
	RecordRaceScored(8, 7, 62.5, 0.012)
	RecordHorseScore(181, 92.5, "overlay")
	RecordCardRejected()
	RecordCacheHit()
	RecordCacheMiss()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{
		"handicap_races_scored_total",
		"handicap_horses_scored_total",
		"handicap_scratched_horses_total",
		"handicap_cards_rejected_total",
		"handicap_result_cache_hits_total",
		"handicap_result_cache_misses_total",
		"handicap_value_classifications_total",
		"handicap_last_race_confidence",
		"handicap_last_field_size",
		"handicap_scoring_duration_seconds",
		"handicap_total_score",
		"handicap_data_completeness_score",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("exposition missing %s", name)
		}
	}
}
