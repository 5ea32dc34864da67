package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/court-vision/internal/models"
)

// StatsProvider defines the interface for fetching NBA statistics from
// an external provider. Every call is a plain fetch; retry, rate
// limiting and caching live below this interface.
type StatsProvider interface {
	// ResolvePlayer finds a player by case-insensitive exact full-name match
	ResolvePlayer(ctx context.Context, fullName string) (*CatalogPlayer, error)

	// ResolveTeam finds a team by case-insensitive exact full-name match
	ResolveTeam(ctx context.Context, fullName string) (*CatalogTeam, error)

	// Teams lists the league team catalog
	Teams(ctx context.Context) ([]CatalogTeam, error)

	// GameLog retrieves a player's per-game lines for one season,
	// season formatted like "2023-24"
	GameLog(ctx context.Context, playerID, season string) ([]models.GameLine, error)

	// TeamRoster retrieves a team's current roster
	TeamRoster(ctx context.Context, teamID string) ([]RosterMember, error)

	// PlayerProfile retrieves bio and roster status for one player
	PlayerProfile(ctx context.Context, playerID string) (*PlayerProfile, error)

	// TeamAdvanced retrieves team advanced box score rows
	TeamAdvanced(ctx context.Context, teamID string) ([]AdvancedRow, error)

	// TeamFourFactors retrieves team four-factors rows
	TeamFourFactors(ctx context.Context, teamID string) ([]FourFactorsRow, error)

	// TeamDefensive retrieves team defensive box score rows
	TeamDefensive(ctx context.Context, teamID string) ([]DefensiveRow, error)

	// PlayerDefensive retrieves defensive box score rows for one player
	PlayerDefensive(ctx context.Context, playerID string) ([]DefensiveRow, error)

	// TeamMatchups retrieves positional matchup rows for a team
	TeamMatchups(ctx context.Context, teamID string) ([]MatchupRow, error)

	// PlayerTraditional retrieves traditional box score rows for one player
	PlayerTraditional(ctx context.Context, playerID string) ([]TraditionalRow, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// OddsProvider defines the interface for fetching betting lines from an
// external odds feed.
type OddsProvider interface {
	// ListEvents retrieves the identifiers of today's events
	ListEvents(ctx context.Context) ([]EventStub, error)

	// EventProps retrieves the player prop markets for one event
	EventProps(ctx context.Context, eventID string) (*Event, error)

	// FetchDocument retrieves the full props document for today's
	// events, skipping events whose odds fetch fails
	FetchDocument(ctx context.Context) (*PropsDocument, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// CatalogPlayer represents one entry in the provider's player catalog
type CatalogPlayer struct {
	ID       string `json:"id"`        // Provider's unique player ID
	FullName string `json:"full_name"` // Display name used for resolution
	TeamID   string `json:"team_id"`   // Current team, may be empty for free agents
	Active   bool   `json:"active"`    // Whether the player is on a roster
}

// CatalogTeam represents one entry in the league team catalog
type CatalogTeam struct {
	ID           string `json:"id"`           // Provider's unique team ID
	FullName     string `json:"full_name"`    // e.g. "Boston Celtics"
	Abbreviation string `json:"abbreviation"` // e.g. "BOS", used in matchup strings
}

// RosterMember represents one player on a team roster
type RosterMember struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"player"`
	Position string `json:"position"` // May be compound, e.g. "G-F"
}

// PlayerProfile represents bio and availability info for one player
type PlayerProfile struct {
	PlayerID     string `json:"player_id"`
	Name         string `json:"name"`
	Position     string `json:"position"`      // May be compound, e.g. "F-C"
	RosterStatus string `json:"roster_status"` // "Active" or an unavailability status
	TeamID       string `json:"team_id"`
}

// AdvancedRow represents one advanced box score row for a team
type AdvancedRow struct {
	DefensiveRating float64 `json:"defensiveRating"`
	Pace            float64 `json:"pace"`
}

// FourFactorsRow represents one four-factors box score row for a team
type FourFactorsRow struct {
	OppEFGPct      float64 `json:"oppEffectiveFieldGoalPercentage"`
	OppTurnoverPct float64 `json:"oppTeamTurnoverPercentage"`
}

// DefensiveRow represents one defensive box score row
type DefensiveRow struct {
	MatchupFGPct float64 `json:"matchupFieldGoalPercentage"`
	Blocks       float64 `json:"blocks"`
	Steals       float64 `json:"steals"`
}

// MatchupRow represents one positional matchup box score row
type MatchupRow struct {
	PositionOffense string  `json:"positionOff"` // Offensive position label
	PositionDefense string  `json:"positionDef"` // Defensive position label
	PlayerPoints    float64 `json:"playerPoints"`
	MatchupAssists  float64 `json:"matchupAssists"`
	ReboundsTotal   float64 `json:"reboundsTotal"`
	MatchupFGPct    float64 `json:"matchupFieldGoalsPercentage"`
}

// TraditionalRow represents one traditional box score row for a player
type TraditionalRow struct {
	Minutes float64 `json:"minutes"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes the underlying error for errors.Is checks
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

const dataSourceDisabledMsg = "data source disabled"

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
