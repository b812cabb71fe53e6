// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new configured logger instance
func NewLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// JSON in production, readable text everywhere else.
	if os.Getenv("ENVIRONMENT") == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return logger
}

// RaceLogger provides dedicated logging for race scoring operations.
type RaceLogger struct {
	*logrus.Entry
}

// NewRaceLogger creates a new race scoring logger.
func NewRaceLogger(baseLogger *logrus.Logger) *RaceLogger {
	return &RaceLogger{
		Entry: baseLogger.WithField("component", "scoring"),
	}
}

// LogRaceScored logs a completed race scoring pass.
func (rl *RaceLogger) LogRaceScored(analysisID, trackCode string, raceNumber, fieldSize, active int, confidence, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"analysis_id":         analysisID,
		"track":               trackCode,
		"race":                raceNumber,
		"field_size":          fieldSize,
		"active_horses":       active,
		"race_confidence":     confidence,
		"scoring_duration_ms": durationMs,
	}).Info("Race scoring completed")
}

// LogLowConfidenceHorse logs a horse flagged for incomplete critical data.
func (rl *RaceLogger) LogLowConfidenceHorse(analysisID, programNumber string, overallScore float64, missingCritical []string) {
	rl.WithFields(logrus.Fields{
		"analysis_id":      analysisID,
		"program_number":   programNumber,
		"completeness":     overallScore,
		"missing_critical": missingCritical,
	}).Warn("Horse scored with incomplete critical data")
}

// LogCardRejected logs a race card that failed usability validation.
func (rl *RaceLogger) LogCardRejected(trackCode string, raceNumber int, usability float64, errors []string) {
	rl.WithFields(logrus.Fields{
		"track":     trackCode,
		"race":      raceNumber,
		"usability": usability,
		"errors":    errors,
	}).Warn("Race card rejected before scoring")
}
