// Package main provides the entry point for the batch analysis CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-vision/internal/aggregator"
	"github.com/yourusername/court-vision/internal/config"
	"github.com/yourusername/court-vision/internal/datasource"
	"github.com/yourusername/court-vision/internal/logger"
	"github.com/yourusername/court-vision/internal/matchup"
	"github.com/yourusername/court-vision/internal/metrics"
	"github.com/yourusername/court-vision/internal/projection"
	"github.com/yourusername/court-vision/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		propsPath  = flag.String("props", "", "Override props document path")
		outputPath = flag.String("output", "", "Override CSV output path")
		trials     = flag.Int("trials", 0, "Override Monte Carlo trial count")
		seed       = flag.Int64("seed", 0, "Fix the simulation seed (0 = time-based)")
		bookmaker  = flag.String("bookmaker", "", "Override the bookmaker allow-list with a single key")
		print      = flag.Bool("print", false, "Print the console report after the run")
	)
	flag.Parse()

	ctx := context.Background()

	cfg := loadConfigWithSecrets(*configPath)
	applyOverrides(cfg, *propsPath, *outputPath, *trials, *seed, *bookmaker)

	appLog := logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	batch := buildBatchService(cfg, appLog)

	appLog.WithFields(logrus.Fields{
		"props":  cfg.Pipeline.PropsPath,
		"output": cfg.Pipeline.OutputPath,
		"trials": cfg.Simulation.Trials,
	}).Info("Starting batch analysis")

	doc, err := datasource.LoadDocument(cfg.Pipeline.PropsPath)
	if err != nil {
		appLog.Fatalf("Failed to load props document: %v", err)
	}
	if problems := service.NewDocumentValidator(appLog).ValidateDocument(doc); problems > 0 {
		appLog.Warnf("Document has %d problems; affected entries will be skipped", problems)
	}

	rows, err := batch.Run(ctx, doc)
	if err != nil {
		appLog.Fatalf("Batch run failed: %v", err)
	}

	if err := service.WriteCSVReport(rows, cfg.Pipeline.OutputPath); err != nil {
		appLog.Fatalf("Failed to write report: %v", err)
	}
	appLog.WithFields(logrus.Fields{
		"rows":   len(rows),
		"output": cfg.Pipeline.OutputPath,
	}).Info("Batch analysis complete")

	if *print {
		fmt.Print(service.ConsoleReport(rows))
	}
}

func loadConfigWithSecrets(path string) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
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
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func applyOverrides(cfg *config.Config, propsPath, outputPath string, trials int, seed int64, bookmaker string) {
	if propsPath != "" {
		cfg.Pipeline.PropsPath = propsPath
	}
	if outputPath != "" {
		cfg.Pipeline.OutputPath = outputPath
	}
	if trials > 0 {
		cfg.Simulation.Trials = trials
	}
	if seed != 0 {
		cfg.Simulation.Seed = seed
	}
	if bookmaker != "" {
		cfg.OddsAPI.Bookmakers = []string{bookmaker}
	}
}

func buildBatchService(cfg *config.Config, appLog *logrus.Logger) *service.BatchService {
	sourceLog := log.New(os.Stdout, "datasource: ", log.LstdFlags)

	factory := datasource.NewFactory(cfg, sourceLog)
	stats, err := factory.NewStatsProvider()
	if err != nil {
		appLog.Fatalf("Failed to create stats provider: %v", err)
	}

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

	return service.NewBatchService(stats, agg, engine, rater, matchups, window, cfg.OddsAPI.Bookmakers, appLog)
}
