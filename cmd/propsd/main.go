// Package main provides the entry point for the props analysis daemon.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-vision/internal/aggregator"
	"github.com/yourusername/court-vision/internal/config"
	"github.com/yourusername/court-vision/internal/datasource"
	"github.com/yourusername/court-vision/internal/health"
	"github.com/yourusername/court-vision/internal/logger"
	"github.com/yourusername/court-vision/internal/matchup"
	"github.com/yourusername/court-vision/internal/metrics"
	"github.com/yourusername/court-vision/internal/projection"
	"github.com/yourusername/court-vision/internal/scheduler"
	"github.com/yourusername/court-vision/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv("COURT_VISION_CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Load configuration
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Court Vision props daemon starting")

	metrics.InitRegistry()

	// Initialize data providers
	sourceLog := log.New(os.Stdout, "datasource: ", log.LstdFlags)
	factory := datasource.NewFactory(cfg, sourceLog)

	stats, err := factory.NewStatsProvider()
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create stats provider")
	}
	odds, err := factory.NewOddsProvider()
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create odds provider")
	}

	// Assemble the analysis pipeline
	agg := aggregator.New(stats, cfg.Pipeline.CurrentSeason, cfg.StatsAPI.SeasonFetchDelay(), sourceLog)
	engine := projection.NewEngine(projection.Config{
		Trials: cfg.Simulation.Trials,
		Seed:   cfg.Simulation.Seed,
	})
	rater := projection.NewRater()
	matchups := matchup.NewBuilder(stats, sourceLog)
	window := aggregator.Window{
		NumGames:   cfg.Pipeline.RecentGames,
		NumSeasons: cfg.Pipeline.Seasons,
	}

	batch := service.NewBatchService(stats, agg, engine, rater, matchups, window, cfg.OddsAPI.Bookmakers, appLog)
	pipeline := service.NewPipeline(odds, batch, cfg.Pipeline.PropsPath, cfg.Pipeline.OutputPath, appLog)

	// Schedule the daily run
	schedLog := log.New(os.Stdout, "scheduler: ", log.LstdFlags)
	sched := scheduler.NewScheduler(pipeline, cfg.Daemon.GracefulTimeout(), schedLog)
	if err := sched.SchedulePipeline(cfg.Daemon.Schedule); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule pipeline")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Health endpoints for container orchestration
	healthServer := health.NewServer(health.Config{
		ServiceName: "propsd",
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Daemon.HealthPort),
		Logger:      appLog,
		Provider:    providerPinger(odds),
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Prometheus metrics endpoint
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = startMetricsServer(cfg, appLog)
	}

	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	appLog.WithFields(logrus.Fields{
		"schedule": cfg.Daemon.Schedule,
		"next_run": sched.GetNextRun().Format(time.RFC3339),
	}).Info("Props daemon started successfully")

	// Readiness: a reachable odds provider, or the first completed run
	go markReady(ctx, healthServer, odds, appLog)

	if cfg.Daemon.RunOnStart {
		go func() {
			appLog.Info("Running pipeline on startup")
			if err := pipeline.Execute(ctx); err != nil {
				appLog.WithError(err).Error("Startup pipeline run failed")
				return
			}
			healthServer.SetReady(true)
		}()
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	// Graceful shutdown
	appLog.Info("Initiating graceful shutdown...")
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Error during metrics server shutdown")
		}
		shutdownCancel()
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during health server shutdown")
	}

	appLog.Info("Court Vision props daemon shut down successfully")
}

// providerPinger exposes the odds provider's optional health check to
// the readiness endpoint
func providerPinger(odds datasource.OddsProvider) health.Pinger {
	if pinger, ok := odds.(health.Pinger); ok {
		return pinger
	}
	return nil
}

// markReady flips readiness once the odds provider answers a ping
func markReady(ctx context.Context, server *health.Server, odds datasource.OddsProvider, appLog *logrus.Logger) {
	pinger, ok := odds.(health.Pinger)
	if !ok {
		server.SetReady(true)
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := pinger.Ping(pingCtx); err != nil {
		appLog.WithError(err).Warn("Odds provider unreachable at startup; readiness deferred to first completed run")
		return
	}
	server.SetReady(true)
}

// startMetricsServer serves the Prometheus registry in the background
func startMetricsServer(cfg *config.Config, appLog *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		appLog.WithFields(logrus.Fields{
			"port": cfg.Metrics.Port,
			"path": cfg.Metrics.Path,
		}).Info("Metrics server starting")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server error")
		}
	}()

	return server
}
