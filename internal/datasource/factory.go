package datasource

import (
	"fmt"
	"log"

	"github.com/yourusername/court-vision/internal/config"
	"github.com/yourusername/court-vision/internal/models"
)

// Factory creates provider implementations based on configuration
type Factory struct {
	logger *log.Logger
	config *config.Config
}

// NewFactory creates a new provider factory
func NewFactory(cfg *config.Config, logger *log.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewStatsProvider creates the NBA statistics provider
func (f *Factory) NewStatsProvider() (StatsProvider, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	httpCfg := DefaultHTTPClientConfig()
	if timeout := f.config.StatsAPI.RequestTimeout(); timeout > 0 {
		httpCfg.Timeout = timeout
	}
	httpClient := NewRateLimitedHTTPClient(httpCfg, f.logger)

	client := NewNBAStatsClient(NBAStatsConfig{
		BaseURL:   f.config.StatsAPI.BaseURL,
		UserAgent: f.config.StatsAPI.UserAgent,
		Season:    models.SeasonString(f.config.Pipeline.CurrentSeason),
		CacheTTL:  f.config.StatsAPI.CacheTTL(),
		Enabled:   f.config.StatsAPI.Enabled,
	}, httpClient, f.logger)

	if f.logger != nil {
		f.logger.Printf("Created data source: %s", client.Name())
	}
	return client, nil
}

// NewOddsProvider creates the betting odds provider
func (f *Factory) NewOddsProvider() (OddsProvider, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if f.config.OddsAPI.Enabled && f.config.OddsAPI.APIKey == "" {
		return nil, fmt.Errorf("odds API key is required")
	}

	httpCfg := DefaultHTTPClientConfig()
	if timeout := f.config.OddsAPI.RequestTimeout(); timeout > 0 {
		httpCfg.Timeout = timeout
	}
	httpClient := NewRateLimitedHTTPClient(httpCfg, f.logger)

	client := NewTheOddsAPIClient(OddsClientConfig{
		BaseURL: f.config.OddsAPI.BaseURL,
		APIKey:  f.config.OddsAPI.APIKey,
		Sport:   f.config.OddsAPI.Sport,
		Regions: f.config.OddsAPI.Regions,
		Markets: f.config.OddsAPI.Markets,
		Enabled: f.config.OddsAPI.Enabled,
	}, httpClient, f.logger)

	if f.logger != nil {
		f.logger.Printf("Created data source: %s", client.Name())
	}
	return client, nil
}
