// Package server exposes the scoring service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/tacctile/handicap-app-sub003/internal/config"
	"github.com/tacctile/handicap-app-sub003/internal/metrics"
	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/internal/scoring"
	"github.com/tacctile/handicap-app-sub003/internal/service"
)

// Server is the scoring HTTP API server.
type Server struct {
	cfg     config.ServerConfig
	svc     *service.ScoringService
	logger  *logrus.Logger
	limiter *rate.Limiter
	http    *http.Server
}

// New creates a new API server around a scoring service.
func New(cfg config.ServerConfig, metricsCfg config.MetricsConfig, svc *service.ScoringService, logger *logrus.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		svc:    svc,
		logger: logger,
	}
	if cfg.RateLimitPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)
	}

	r := mux.NewRouter()
	r.Use(s.logging)
	r.Use(s.rateLimit)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/races/score", s.handleScoreRace).Methods(http.MethodPost)
	api.HandleFunc("/odds/parse", s.handleParseOdds).Methods(http.MethodGet)
	api.HandleFunc("/thresholds", s.handleThresholds).Methods(http.MethodGet)

	if metricsCfg.Enabled {
		r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}

	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("address", s.cfg.Address).Info("API server starting")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
			"remote":   r.RemoteAddr,
		}).Debug("Request handled")
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleScoreRace scores a posted race card.
func (s *Server) handleScoreRace(w http.ResponseWriter, r *http.Request) {
	var req service.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	analysis := s.svc.ScoreCard(req)
	status := http.StatusOK
	if !analysis.Validation.Usable {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, analysis)
}

// handleParseOdds parses an odds string and echoes the decimal value, the
// conventional fractional rendering, and the discretized points.
func (s *Server) handleParseOdds(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	parsed := scoring.ParseOdds(value)
	resp := map[string]interface{}{
		"input":  value,
		"points": scoring.OddsPoints(parsed),
	}
	if parsed != nil {
		resp["decimal"] = *parsed
		resp["fractional"] = scoring.FormatOdds(*parsed)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleThresholds exposes the score tier table and limits for clients.
func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"thresholds": models.ScoreThresholds,
		"limits":     models.ScoreLimits,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
