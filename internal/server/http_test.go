package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tacctile/handicap-app-sub003/internal/config"
	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/internal/service"
	"github.com/tacctile/handicap-app-sub003/test/helpers"
)

func newTestServer(t *testing.T, overrides ...func(*config.ServerConfig, *config.MetricsConfig)) *Server {
	t.Helper()
	serverCfg := config.ServerConfig{Address: ":0", ReadTimeoutSeconds: 5}
	metricsCfg := config.MetricsConfig{}
	for _, o := range overrides {
		o(&serverCfg, &metricsCfg)
	}
	svc := service.NewScoringService(
		config.ScoringConfig{TopN: 3, MinUsabilityScore: 40, DiagnosticsEnabled: true},
		config.CacheConfig{},
		helpers.NewTestLogger(),
	)
	return New(serverCfg, metricsCfg, svc, helpers.NewTestLogger())
}

func (s *Server) do(t *testing.T, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)
	return rec
}

func TestScoreRaceEndpoint(t *testing.T) {
	srv := newTestServer(t)
	body, err := json.Marshal(service.ScoreRequest{Card: helpers.NewCard(6)})
	if err != nil {
		t.Fatalf("marshalling request: %v", err)
	}

	rec := srv.do(t, http.MethodPost, "/api/v1/races/score", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var analysis service.RaceAnalysis
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !analysis.Validation.Usable {
		t.Errorf("card rejected: %v", analysis.Validation.Errors)
	}
	if analysis.Result == nil || len(analysis.Result.Horses) != 6 {
		t.Error("response missing the scored field")
	}
	if len(analysis.TopHorses) != 3 {
		t.Errorf("top horses = %d, want 3", len(analysis.TopHorses))
	}
}

func TestScoreRaceEndpointBadBody(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodPost, "/api/v1/races/score", []byte("not json"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("error body missing: %s", rec.Body.String())
	}
}

func TestScoreRaceEndpointUnusableCard(t *testing.T) {
	srv := newTestServer(t)
	card := helpers.NewCard(4, func(c *models.RaceCard) { c.Header.TrackCode = "" })
	body, _ := json.Marshal(service.ScoreRequest{Card: card})

	rec := srv.do(t, http.MethodPost, "/api/v1/races/score", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var analysis service.RaceAnalysis
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if analysis.Validation.Usable || len(analysis.Validation.Errors) == 0 {
		t.Error("422 body should carry the validation errors")
	}
}

func TestScoreRaceEndpointMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	if rec := srv.do(t, http.MethodGet, "/api/v1/races/score", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestParseOddsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/v1/odds/parse?value=7-2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["decimal"] != 3.5 {
		t.Errorf("decimal = %v, want 3.5", resp["decimal"])
	}
	if resp["fractional"] != "7-2" {
		t.Errorf("fractional = %v, want 7-2", resp["fractional"])
	}
	if resp["points"] != 9.0 {
		t.Errorf("points = %v, want 9", resp["points"])
	}
}

func TestParseOddsEndpointUnparseable(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/v1/odds/parse?value=N/A", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if _, ok := resp["decimal"]; ok {
		t.Error("unparseable odds should carry no decimal value")
	}
	if resp["points"] != float64(models.NeutralOddsScore) {
		t.Errorf("points = %v, want neutral %d", resp["points"], models.NeutralOddsScore)
	}
}

func TestThresholdsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/v1/thresholds", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if _, ok := resp["thresholds"]; !ok {
		t.Error("response missing thresholds")
	}
	if _, ok := resp["limits"]; !ok {
		t.Error("response missing limits")
	}
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, func(s *config.ServerConfig, _ *config.MetricsConfig) {
		s.RateLimitPerSecond = 1
		s.RateLimitBurst = 1
	})

	if rec := srv.do(t, http.MethodGet, "/api/v1/thresholds", nil); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/api/v1/thresholds", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("burst exceeded, status = %d, want 429", rec.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	enabled := newTestServer(t, func(_ *config.ServerConfig, m *config.MetricsConfig) {
		m.Enabled = true
	})
	if rec := enabled.do(t, http.MethodGet, "/metrics", nil); rec.Code != http.StatusOK {
		t.Errorf("metrics enabled, status = %d, want 200", rec.Code)
	}

	disabled := newTestServer(t)
	if rec := disabled.do(t, http.MethodGet, "/metrics", nil); rec.Code != http.StatusNotFound {
		t.Errorf("metrics disabled, status = %d, want 404", rec.Code)
	}
}
