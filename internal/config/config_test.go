// Package config provides configuration management for the Court Vision application.
package config

import (
	"os"
	"testing"
	"time"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	expansionConfigMissingPath   = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	expectedNonNilConfig         = "expected non-nil config"
	courtVisionName              = "court-vision"
	developmentEnv               = "development"
	invalidEnv                   = "invalid"
	testAppName                  = "test-app"
	testOddsAPIKeyVar            = "TEST_ODDS_API_KEY"
	testMissingVar               = "TEST_MISSING_VAR"
	expandedSecretValue          = "expanded_secret_value"
	marketsValidationError       = "markets"
	marketsValidationErrorCaps   = "Markets"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != courtVisionName {
		t.Errorf("expected app name '%s', got '%s'", courtVisionName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.StatsAPI.BaseURL != "https://stats.nba.com/stats" {
		t.Errorf("expected stats base URL, got '%s'", cfg.StatsAPI.BaseURL)
	}

	if cfg.Pipeline.RecentGames != 10 {
		t.Errorf("expected 10 recent games, got %d", cfg.Pipeline.RecentGames)
	}

	if len(cfg.OddsAPI.Bookmakers) != 1 || cfg.OddsAPI.Bookmakers[0] != "draftkings" {
		t.Errorf("expected draftkings bookmaker, got %v", cfg.OddsAPI.Bookmakers)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	// Set an environment variable
	os.Setenv("COURT_VISION_APP_NAME", testAppName)
	defer os.Unsetenv("COURT_VISION_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestLoadWithDefaultsNoFile tests that defaults serve when no file exists
func TestLoadWithDefaultsNoFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != courtVisionName {
		t.Errorf("expected default app name '%s', got '%s'", courtVisionName, cfg.App.Name)
	}

	if cfg.Pipeline.RecentGames != 10 || cfg.Pipeline.Seasons != 4 {
		t.Errorf("expected default pipeline window, got %d games over %d seasons",
			cfg.Pipeline.RecentGames, cfg.Pipeline.Seasons)
	}

	if cfg.Simulation.Trials != 10000 {
		t.Errorf("expected default 10000 trials, got %d", cfg.Simulation.Trials)
	}

	if cfg.Metrics.Port != 9090 {
		t.Errorf("expected default metrics port 9090, got %d", cfg.Metrics.Port)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = invalidEnv
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidLogLevel tests validation of invalid log level
func TestValidateInvalidLogLevel(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.LogLevel = "verbose"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid log level")
	}
}

// TestValidateInvalidMarkets tests validation of invalid market names
func TestValidateInvalidMarkets(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	// Set invalid markets
	cfg.OddsAPI.Markets = []string{"player_threes", "player_steals"}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid markets")
	}

	if !containsSubstring(err.Error(), marketsValidationError) && !containsSubstring(err.Error(), marketsValidationErrorCaps) {
		t.Errorf("expected markets validation error, got: %v", err)
	}
}

// TestValidateEmptyMarkets tests validation of empty markets array
func TestValidateEmptyMarkets(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	// Set empty markets
	cfg.OddsAPI.Markets = []string{}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for empty markets")
	}
}

// TestValidateValidMarkets tests validation of valid market combinations
func TestValidateValidMarkets(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	// Test with single valid market
	cfg.OddsAPI.Markets = []string{"player_points"}
	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no error for single valid market, got %v", err)
	}

	// Test with multiple valid markets
	cfg.OddsAPI.Markets = []string{"player_points", "player_rebounds", "player_assists"}
	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no error for multiple valid markets, got %v", err)
	}
}

// TestValidateSeasonsWindow tests the season lookback cross-field check
func TestValidateSeasonsWindow(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Pipeline.Seasons = 100
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for seasons window")
	}
}

// TestValidateNegativeSeed tests rejection of negative simulation seeds
func TestValidateNegativeSeed(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Simulation.Seed = -1
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for negative seed")
	}
}

// TestValidateProductionRequirements tests production cross-field checks
func TestValidateProductionRequirements(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = "production"
	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected production config with key and schedule to pass, got %v", err)
	}

	cfg.OddsAPI.APIKey = ""
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for production without API key")
	}
}

// TestValidateEnvironmentPlaceholderKey tests placeholder credential detection
func TestValidateEnvironmentPlaceholderKey(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = "production"
	cfg.OddsAPI.APIKey = "YOUR_API_KEY_HERE"
	if err := ValidateEnvironment(cfg); err == nil {
		t.Fatal("expected error for placeholder API key in production")
	}

	cfg.App.Environment = developmentEnv
	if err := ValidateEnvironment(cfg); err != nil {
		t.Fatalf("expected placeholder key to pass outside production, got %v", err)
	}
}

// TestIsDevelopment tests environment check function
func TestIsDevelopment(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: developmentEnv},
	}

	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}

	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
	}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestIsStaging tests staging environment check
func TestIsStaging(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "staging"},
	}

	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestDurationHelpers tests the second and millisecond field conversions
func TestDurationHelpers(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	if cfg.StatsAPI.RequestTimeout() != 30*time.Second {
		t.Errorf("expected 30s request timeout, got %v", cfg.StatsAPI.RequestTimeout())
	}

	if cfg.StatsAPI.SeasonFetchDelay() != 800*time.Millisecond {
		t.Errorf("expected 800ms season fetch delay, got %v", cfg.StatsAPI.SeasonFetchDelay())
	}

	if cfg.StatsAPI.CacheTTL() != 15*time.Minute {
		t.Errorf("expected 15m cache TTL, got %v", cfg.StatsAPI.CacheTTL())
	}

	if cfg.Daemon.GracefulTimeout() != 30*time.Second {
		t.Errorf("expected 30s graceful timeout, got %v", cfg.Daemon.GracefulTimeout())
	}
}

// TestMarketsParam tests the markets query parameter formatting
func TestMarketsParam(t *testing.T) {
	cfg := &Config{
		OddsAPI: OddsAPIConfig{
			Markets: []string{"player_points", "player_rebounds", "player_assists"},
		},
	}

	want := "player_points,player_rebounds,player_assists"
	if cfg.OddsAPI.MarketsParam() != want {
		t.Errorf("expected markets param '%s', got '%s'", want, cfg.OddsAPI.MarketsParam())
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	// Set environment variable
	os.Setenv(testOddsAPIKeyVar, expandedSecretValue)
	defer os.Unsetenv(testOddsAPIKeyVar)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.OddsAPI.APIKey != expandedSecretValue {
		t.Errorf("expected API key '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.OddsAPI.APIKey)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	// Ensure environment variable is not set
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	// os.ExpandEnv replaces unset ${VAR} references with an empty string
	if cfg.OddsAPI.APIKey != "" {
		t.Errorf("expected empty API key for missing env var, got %q", cfg.OddsAPI.APIKey)
	}
}

// Helper function
func containsSubstring(str, substr string) bool {
	for i := 0; i <= len(str)-len(substr); i++ {
		if str[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
