package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/tacctile/handicap-app-sub003/internal/config"
	"github.com/tacctile/handicap-app-sub003/internal/diagnostics"
	"github.com/tacctile/handicap-app-sub003/internal/logger"
	"github.com/tacctile/handicap-app-sub003/internal/metrics"
	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/internal/scoring"
)

// RaceAnalysis is the service-level result: the scored field plus the
// artifacts the presentation layer consumes.
type RaceAnalysis struct {
	AnalysisID  string                        `json:"analysis_id"`
	Validation  ValidationResult              `json:"validation"`
	Result      *scoring.RaceResult           `json:"result,omitempty"`
	TopHorses   []models.ScoredHorse          `json:"top_horses,omitempty"`
	Diagnostics *diagnostics.FieldDiagnostics `json:"diagnostics,omitempty"`
	ScoredAt    time.Time                     `json:"scored_at"`
	FromCache   bool                          `json:"from_cache"`
}

// ScoringService runs the pure engine behind validation, memoization, and
// observability. The engine is referentially transparent, which is what
// makes the result cache sound: identical requests produce identical
// analyses.
type ScoringService struct {
	engine      *scoring.Engine
	validator   *CardValidator
	cfg         config.ScoringConfig
	resultCache *cache.Cache
	log         *logrus.Logger
	raceLog     *logger.RaceLogger
}

// NewScoringService creates a scoring service. A nil cache config disables
// memoization.
func NewScoringService(cfg config.ScoringConfig, cacheCfg config.CacheConfig, log *logrus.Logger) *ScoringService {
	svc := &ScoringService{
		engine:    scoring.NewEngine(log),
		validator: NewCardValidator(cfg.MinUsabilityScore),
		cfg:       cfg,
		log:       log,
		raceLog:   logger.NewRaceLogger(log),
	}
	if cacheCfg.Enabled {
		ttl := time.Duration(cacheCfg.TTLSeconds) * time.Second
		svc.resultCache = cache.New(ttl, 2*ttl)
	}
	return svc
}

// ScoreRequest is one scoring invocation: the card plus optional live odds
// keyed by entry index and optional scratch overrides.
type ScoreRequest struct {
	Card      models.RaceCard `json:"card"`
	LiveOdds  map[int]string  `json:"live_odds,omitempty"`
	Scratches map[int]bool    `json:"scratches,omitempty"`
}

// ScoreCard validates and scores one race card. Unusable cards return the
// validation result with no scores and no error: rejection is data, not
// failure.
func (s *ScoringService) ScoreCard(req ScoreRequest) *RaceAnalysis {
	analysis := &RaceAnalysis{
		AnalysisID: uuid.New().String(),
		ScoredAt:   time.Now().UTC(),
	}

	analysis.Validation = s.validator.ValidateCard(&req.Card)
	if !analysis.Validation.Usable {
		metrics.RecordCardRejected()
		s.raceLog.LogCardRejected(req.Card.Header.TrackCode, req.Card.Header.RaceNumber,
			analysis.Validation.Completeness, analysis.Validation.Errors)
		return analysis
	}

	if cached, ok := s.cachedResult(&req); ok {
		metrics.RecordCacheHit()
		analysis.Result = cached
		analysis.FromCache = true
	} else {
		metrics.RecordCacheMiss()
		start := time.Now()
		result := s.engine.ScoreRace(s.buildInput(&req))
		s.storeResult(&req, &result)
		analysis.Result = &result
		s.observe(analysis, &req, time.Since(start))
	}

	analysis.TopHorses = models.GetTopHorses(analysis.Result.Horses, s.cfg.TopN)
	if s.cfg.DiagnosticsEnabled {
		diag := diagnostics.AnalyzeField(analysis.Result)
		analysis.Diagnostics = &diag
	}
	return analysis
}

func (s *ScoringService) buildInput(req *ScoreRequest) scoring.RaceInput {
	input := scoring.RaceInput{
		Header: req.Card.Header,
		Horses: req.Card.Horses,
	}
	if len(req.LiveOdds) > 0 {
		live := req.LiveOdds
		input.LiveOdds = func(index int, _ string) string { return live[index] }
	}
	if len(req.Scratches) > 0 {
		horses := req.Card.Horses
		scratches := req.Scratches
		input.Scratched = func(index int) bool {
			return horses[index].Scratched || scratches[index]
		}
	}
	return input
}

func (s *ScoringService) observe(analysis *RaceAnalysis, req *ScoreRequest, elapsed time.Duration) {
	result := analysis.Result
	metrics.RecordRaceScored(len(result.Horses), result.ActiveCount, result.Confidence, elapsed.Seconds())
	for i := range result.Horses {
		h := &result.Horses[i]
		if h.Score.Rank == 0 {
			continue
		}
		metrics.RecordHorseScore(h.Score.Total, h.Score.Completeness.OverallScore,
			h.Score.Breakdown.Overlay.Classification)
		if h.Score.Completeness.IsLowConfidence {
			s.raceLog.LogLowConfidenceHorse(analysis.AnalysisID, h.Horse.ProgramNumber,
				h.Score.Completeness.OverallScore, h.Score.Completeness.MissingCritical)
		}
	}
	s.raceLog.LogRaceScored(analysis.AnalysisID, req.Card.Header.TrackCode,
		req.Card.Header.RaceNumber, len(result.Horses), result.ActiveCount,
		result.Confidence, float64(elapsed.Milliseconds()))
}

// requestDigest keys the result cache on the full request content.
func requestDigest(req *ScoreRequest) (string, bool) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), true
}

func (s *ScoringService) cachedResult(req *ScoreRequest) (*scoring.RaceResult, bool) {
	if s.resultCache == nil {
		return nil, false
	}
	key, ok := requestDigest(req)
	if !ok {
		return nil, false
	}
	if v, found := s.resultCache.Get(key); found {
		if result, ok := v.(*scoring.RaceResult); ok {
			return result, true
		}
	}
	return nil, false
}

func (s *ScoringService) storeResult(req *ScoreRequest, result *scoring.RaceResult) {
	if s.resultCache == nil {
		return
	}
	if key, ok := requestDigest(req); ok {
		s.resultCache.SetDefault(key, result)
	}
}
