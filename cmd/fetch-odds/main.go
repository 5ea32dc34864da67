package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/court-vision/internal/config"
	"github.com/yourusername/court-vision/internal/datasource"
	applogger "github.com/yourusername/court-vision/internal/logger"
	"github.com/yourusername/court-vision/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	outputPath string
	keepAll    bool
	logger     *logrus.Logger
	cfg        *config.Config
	odds       datasource.OddsProvider
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Props document path (defaults to pipeline.props_path)")
	fetchCmd.Flags().BoolVar(&keepAll, "keep-all-bookmakers", false, "Skip the bookmaker allow-list filter")
}

var rootCmd = &cobra.Command{
	Use:   "fetch-odds",
	Short: "Fetch tonight's NBA player prop odds",
	Long:  `Retrieves tonight's NBA events and their player prop markets from The Odds API and stores them as a JSON document keyed by event ID.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch tonight's props into a JSON document",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return fetchProps(ctx)
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List tonight's events",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return listEvents(ctx)
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter [document]",
	Short: "Reduce a saved document to the configured bookmakers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := propsPath()
		if len(args) == 1 {
			path = args[0]
		}
		return filterDocument(path)
	},
}

func main() {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
	rootCmd.AddCommand(fetchCmd, eventsCmd, filterCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies() error {
	logger = applogger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	factory := datasource.NewFactory(cfg, log.New(os.Stdout, "odds-api: ", log.LstdFlags))
	var err error
	odds, err = factory.NewOddsProvider()
	if err != nil {
		return fmt.Errorf("failed to create odds provider: %w", err)
	}

	return nil
}

func propsPath() string {
	if outputPath != "" {
		return outputPath
	}
	return cfg.Pipeline.PropsPath
}

func fetchProps(ctx context.Context) error {
	logger.WithFields(logrus.Fields{
		"sport":   cfg.OddsAPI.Sport,
		"markets": cfg.OddsAPI.MarketsParam(),
	}).Info("Fetching tonight's props")

	doc, err := odds.FetchDocument(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch props: %w", err)
	}

	if !keepAll {
		removed := doc.FilterBookmakers(cfg.OddsAPI.Bookmakers)
		logger.WithFields(logrus.Fields{
			"allowed": cfg.OddsAPI.Bookmakers,
			"removed": removed,
		}).Info("Filtered bookmakers")
	}

	path := propsPath()
	if err := doc.Save(path); err != nil {
		return fmt.Errorf("failed to save props document: %w", err)
	}

	fmt.Printf("Saved %d events to %s\n", doc.Len(), path)
	return nil
}

func listEvents(ctx context.Context) error {
	stubs, err := odds.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	fmt.Printf("Tonight's events (%d):\n", len(stubs))
	for _, stub := range stubs {
		fmt.Printf("  %s  %-25s @ %-25s %s\n", stub.ID, stub.AwayTeam, stub.HomeTeam, stub.CommenceTime)
	}
	return nil
}

func filterDocument(path string) error {
	doc, err := datasource.LoadDocument(path)
	if err != nil {
		return fmt.Errorf("failed to load props document: %w", err)
	}

	removed := doc.FilterBookmakers(cfg.OddsAPI.Bookmakers)
	if err := doc.Save(path); err != nil {
		return fmt.Errorf("failed to save props document: %w", err)
	}

	fmt.Printf("Removed %d bookmakers from %s, kept %v\n", removed, path, cfg.OddsAPI.Bookmakers)
	return nil
}
