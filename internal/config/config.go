// Package config provides configuration management for the Court Vision application.
package config

import (
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	StatsAPI   StatsAPIConfig   `mapstructure:"stats_api" validate:"required"`
	OddsAPI    OddsAPIConfig    `mapstructure:"odds_api" validate:"required"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Daemon     DaemonConfig     `mapstructure:"daemon"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// StatsAPIConfig represents the NBA statistics provider configuration
type StatsAPIConfig struct {
	BaseURL            string `mapstructure:"base_url" validate:"required,url"`
	APIKey             string `mapstructure:"api_key"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	SeasonFetchDelayMS int    `mapstructure:"season_fetch_delay_ms" validate:"gte=0"`
	CacheTTLSeconds    int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	UserAgent          string `mapstructure:"user_agent"`
	Enabled            bool   `mapstructure:"enabled"`
}

// OddsAPIConfig represents The Odds API configuration
type OddsAPIConfig struct {
	BaseURL        string   `mapstructure:"base_url" validate:"required,url"`
	APIKey         string   `mapstructure:"api_key"`
	Sport          string   `mapstructure:"sport" validate:"required"`
	Regions        string   `mapstructure:"regions" validate:"required"`
	Markets        []string `mapstructure:"markets" validate:"required,min=1,markets"`
	Bookmakers     []string `mapstructure:"bookmakers" validate:"required,min=1"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	Enabled        bool     `mapstructure:"enabled"`
}

// PipelineConfig represents the batch analysis pipeline configuration
type PipelineConfig struct {
	RecentGames   int    `mapstructure:"recent_games" validate:"required,gt=0"`
	Seasons       int    `mapstructure:"seasons" validate:"required,gt=0"`
	CurrentSeason int    `mapstructure:"current_season" validate:"required,gte=1947"`
	PropsPath     string `mapstructure:"props_path" validate:"required"`
	OutputPath    string `mapstructure:"output_path" validate:"required"`
}

// SimulationConfig represents Monte Carlo simulation configuration
type SimulationConfig struct {
	Trials int   `mapstructure:"trials" validate:"required,gt=0"`
	Seed   int64 `mapstructure:"seed"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// DaemonConfig represents the scheduled pipeline daemon configuration
type DaemonConfig struct {
	Schedule               string `mapstructure:"schedule"`
	HealthPort             int    `mapstructure:"health_port" validate:"omitempty,min=1,max=65535"`
	GracefulTimeoutSeconds int    `mapstructure:"graceful_timeout_seconds" validate:"omitempty,gt=0"`
	RunOnStart             bool   `mapstructure:"run_on_start"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// RequestTimeout returns the stats provider per-request timeout
func (c *StatsAPIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SeasonFetchDelay returns the pause enforced between per-season fetches
func (c *StatsAPIConfig) SeasonFetchDelay() time.Duration {
	return time.Duration(c.SeasonFetchDelayMS) * time.Millisecond
}

// CacheTTL returns the provider response cache lifetime
func (c *StatsAPIConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RequestTimeout returns the odds provider per-request timeout
func (c *OddsAPIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MarketsParam returns the markets list formatted for a query parameter
func (c *OddsAPIConfig) MarketsParam() string {
	return strings.Join(c.Markets, ",")
}

// GracefulTimeout returns the daemon shutdown grace period
func (c *DaemonConfig) GracefulTimeout() time.Duration {
	return time.Duration(c.GracefulTimeoutSeconds) * time.Second
}
