// Package main provides the entry point for the scoring API server.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/tacctile/handicap-app-sub003/internal/config"
	"github.com/tacctile/handicap-app-sub003/internal/health"
	"github.com/tacctile/handicap-app-sub003/internal/logger"
	"github.com/tacctile/handicap-app-sub003/internal/metrics"
	"github.com/tacctile/handicap-app-sub003/internal/server"
	"github.com/tacctile/handicap-app-sub003/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configFile := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = config.Default()
		} else {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Handicap scoring server starting")

	metrics.InitRegistry()

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		appLog.WithField("signal", sig).Info("Shutdown signal received")
		cancel()
	}()

	// Health server runs on its own port so orchestration probes stay
	// isolated from API traffic.
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Server.HealthPort,
		Logger:      appLog,
	})
	go func() {
		if err := healthServer.Start(ctx); err != nil {
			appLog.WithError(err).Error("Health server stopped")
		}
	}()

	svc := service.NewScoringService(cfg.Scoring, cfg.Cache, appLog)
	api := server.New(cfg.Server, cfg.Metrics, svc, appLog)

	healthServer.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"address":     cfg.Server.Address,
		"health_port": cfg.Server.HealthPort,
		"cache":       cfg.Cache.Enabled,
		"diagnostics": cfg.Scoring.DiagnosticsEnabled,
	}).Info("Server is ready")

	if err := api.ListenAndServe(ctx); err != nil {
		appLog.WithError(err).Fatal("API server failed")
	}

	appLog.Info("Handicap scoring server shut down successfully")
}
