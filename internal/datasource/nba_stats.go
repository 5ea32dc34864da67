package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/court-vision/internal/metrics"
	"github.com/yourusername/court-vision/internal/models"
)

const defaultStatsBaseURL = "https://stats.nba.com/stats"

// The stats endpoint rejects requests without a browser user agent.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// NBAStatsConfig holds settings for the stats client
type NBAStatsConfig struct {
	BaseURL   string
	UserAgent string
	Season    string // catalog and roster season, e.g. "2024-25"
	CacheTTL  time.Duration
	CacheSize int
	Enabled   bool
}

// NBAStatsClient implements StatsProvider for the stats.nba.com API
type NBAStatsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	userAgent  string
	season     string
	enabled    bool
	cache      *ResponseCache
	logger     *log.Logger
}

// statsResponse is the envelope every stats endpoint returns
type statsResponse struct {
	Resource   string           `json:"resource"`
	Parameters json.RawMessage  `json:"parameters"`
	ResultSets []statsResultSet `json:"resultSets"`
}

// statsResultSet is one named table of rows within a stats response
type statsResultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

// resultTable pairs a result set's rows with a header index so cells
// can be read by column name
type resultTable struct {
	index map[string]int
	rows  [][]interface{}
}

func newResultTable(rs *statsResultSet) *resultTable {
	index := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		index[h] = i
	}
	return &resultTable{index: index, rows: rs.RowSet}
}

// cell returns the raw value for a column, or nil when the column is
// missing or the row is short
func (t *resultTable) cell(row []interface{}, column string) interface{} {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

// str reads a cell as a string
func (t *resultTable) str(row []interface{}, column string) string {
	switch v := t.cell(row, column).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// float reads a cell as a float64, tolerating numeric strings
func (t *resultTable) float(row []interface{}, column string) float64 {
	switch v := t.cell(row, column).(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// id reads a cell as an identifier string. Numeric IDs arrive as JSON
// numbers and must not pick up a decimal point.
func (t *resultTable) id(row []interface{}, column string) string {
	switch v := t.cell(row, column).(type) {
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case string:
		return v
	default:
		return ""
	}
}

// NewNBAStatsClient creates a new stats.nba.com API client
func NewNBAStatsClient(cfg NBAStatsConfig, httpClient *RateLimitedHTTPClient, logger *log.Logger) *NBAStatsClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultStatsBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 512
	}

	return &NBAStatsClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		season:     cfg.Season,
		enabled:    cfg.Enabled,
		cache:      NewResponseCache(cfg.CacheTTL, cfg.CacheSize),
		logger:     logger,
	}
}

// fetchResultSet retrieves one endpoint's response, serving repeats
// from the response cache, and returns the named result set. An empty
// setName selects the first result set.
func (c *NBAStatsClient) fetchResultSet(ctx context.Context, operation, endpoint string, params url.Values, setName string) (*resultTable, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	key := cacheKey(endpoint, params.Encode())
	if cached, found := c.cache.Get(key); found {
		if resp, ok := cached.(*statsResponse); ok {
			return c.pickResultSet(resp, endpoint, setName)
		}
	}

	requestURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}

	// The stats endpoint requires browser-like headers
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req)
	metrics.ObserveProviderLatency(c.Name(), operation, time.Since(start).Seconds())
	if err != nil {
		metrics.RecordProviderRequest(c.Name(), operation, "error")
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, fmt.Sprintf("failed to fetch %s", endpoint), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		metrics.RecordProviderRequest(c.Name(), operation, "error")
		return nil, NewDataSourceError(c.Name(), ErrCodeAuthenticationFailed, "request rejected by stats endpoint", nil)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		metrics.RecordProviderRequest(c.Name(), operation, "error")
		return nil, NewDataSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}

	if resp.StatusCode == http.StatusNotFound {
		metrics.RecordProviderRequest(c.Name(), operation, "error")
		return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, fmt.Sprintf("%s not found", endpoint), nil)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderRequest(c.Name(), operation, "error")
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var parsed statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.RecordProviderRequest(c.Name(), operation, "error")
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	metrics.RecordProviderRequest(c.Name(), operation, "success")
	c.cache.Set(key, &parsed)

	return c.pickResultSet(&parsed, endpoint, setName)
}

// pickResultSet selects a result set by name from a parsed response
func (c *NBAStatsClient) pickResultSet(resp *statsResponse, endpoint, setName string) (*resultTable, error) {
	if len(resp.ResultSets) == 0 {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, fmt.Sprintf("%s returned no result sets", endpoint), nil)
	}
	if setName == "" {
		return newResultTable(&resp.ResultSets[0]), nil
	}
	for i := range resp.ResultSets {
		if resp.ResultSets[i].Name == setName {
			return newResultTable(&resp.ResultSets[i]), nil
		}
	}
	return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, fmt.Sprintf("%s missing result set %s", endpoint, setName), nil)
}

// ResolvePlayer finds a player by case-insensitive exact full-name match
// against the league player catalog
func (c *NBAStatsClient) ResolvePlayer(ctx context.Context, fullName string) (*CatalogPlayer, error) {
	table, err := c.fetchResultSet(ctx, "resolve_player", "commonallplayers", url.Values{
		"LeagueID":            {"00"},
		"Season":              {c.season},
		"IsOnlyCurrentSeason": {"0"},
	}, "CommonAllPlayers")
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(fullName))
	for _, row := range table.rows {
		if strings.ToLower(table.str(row, "DISPLAY_FIRST_LAST")) != want {
			continue
		}
		return &CatalogPlayer{
			ID:       table.id(row, "PERSON_ID"),
			FullName: table.str(row, "DISPLAY_FIRST_LAST"),
			TeamID:   table.id(row, "TEAM_ID"),
			Active:   table.float(row, "ROSTERSTATUS") == 1,
		}, nil
	}

	return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, fmt.Sprintf("player %q not in catalog", fullName), models.ErrPlayerNotFound)
}

// ResolveTeam finds a team by case-insensitive exact full-name match
// against the static league catalog
func (c *NBAStatsClient) ResolveTeam(ctx context.Context, fullName string) (*CatalogTeam, error) {
	want := strings.ToLower(strings.TrimSpace(fullName))
	for i := range nbaTeams {
		if strings.ToLower(nbaTeams[i].FullName) == want {
			team := nbaTeams[i]
			return &team, nil
		}
	}
	return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, fmt.Sprintf("team %q not in catalog", fullName), models.ErrTeamNotFound)
}

// Teams lists the league team catalog
func (c *NBAStatsClient) Teams(ctx context.Context) ([]CatalogTeam, error) {
	teams := make([]CatalogTeam, len(nbaTeams))
	copy(teams, nbaTeams)
	return teams, nil
}

// GameLog retrieves a player's regular season per-game lines, most
// recent first as the endpoint returns them
func (c *NBAStatsClient) GameLog(ctx context.Context, playerID, season string) ([]models.GameLine, error) {
	table, err := c.fetchResultSet(ctx, "game_log", "playergamelog", url.Values{
		"PlayerID":   {playerID},
		"Season":     {season},
		"SeasonType": {"Regular Season"},
	}, "PlayerGameLog")
	if err != nil {
		return nil, err
	}

	lines := make([]models.GameLine, 0, len(table.rows))
	for _, row := range table.rows {
		gameDate, err := parseGameDate(table.str(row, "GAME_DATE"))
		if err != nil {
			c.logger.Printf("Unparseable game date %q for player %s: %v", table.str(row, "GAME_DATE"), playerID, err)
		}
		lines = append(lines, models.GameLine{
			GameID:                 table.id(row, "Game_ID"),
			GameDate:               gameDate,
			Matchup:                table.str(row, "MATCHUP"),
			Minutes:                table.float(row, "MIN"),
			Points:                 table.float(row, "PTS"),
			Rebounds:               table.float(row, "REB"),
			Assists:                table.float(row, "AST"),
			Steals:                 table.float(row, "STL"),
			Blocks:                 table.float(row, "BLK"),
			Turnovers:              table.float(row, "TOV"),
			FieldGoalsMade:         table.float(row, "FGM"),
			FieldGoalsAttempted:    table.float(row, "FGA"),
			ThreePointersMade:      table.float(row, "FG3M"),
			ThreePointersAttempted: table.float(row, "FG3A"),
			FreeThrowsMade:         table.float(row, "FTM"),
			FreeThrowsAttempted:    table.float(row, "FTA"),
		})
	}

	return lines, nil
}

// TeamRoster retrieves a team's roster for the configured season
func (c *NBAStatsClient) TeamRoster(ctx context.Context, teamID string) ([]RosterMember, error) {
	table, err := c.fetchResultSet(ctx, "team_roster", "commonteamroster", url.Values{
		"TeamID": {teamID},
		"Season": {c.season},
	}, "CommonTeamRoster")
	if err != nil {
		return nil, err
	}

	members := make([]RosterMember, 0, len(table.rows))
	for _, row := range table.rows {
		members = append(members, RosterMember{
			PlayerID: table.id(row, "PLAYER_ID"),
			Name:     table.str(row, "PLAYER"),
			Position: table.str(row, "POSITION"),
		})
	}

	return members, nil
}

// PlayerProfile retrieves bio and roster status for one player
func (c *NBAStatsClient) PlayerProfile(ctx context.Context, playerID string) (*PlayerProfile, error) {
	table, err := c.fetchResultSet(ctx, "player_profile", "commonplayerinfo", url.Values{
		"PlayerID": {playerID},
	}, "CommonPlayerInfo")
	if err != nil {
		return nil, err
	}

	if len(table.rows) == 0 {
		return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, fmt.Sprintf("no profile for player %s", playerID), models.ErrPlayerNotFound)
	}

	row := table.rows[0]
	return &PlayerProfile{
		PlayerID:     table.id(row, "PERSON_ID"),
		Name:         table.str(row, "DISPLAY_FIRST_LAST"),
		Position:     table.str(row, "POSITION"),
		RosterStatus: table.str(row, "ROSTERSTATUS"),
		TeamID:       table.id(row, "TEAM_ID"),
	}, nil
}

// TeamAdvanced retrieves a team's advanced box score rows over its
// recent games
func (c *NBAStatsClient) TeamAdvanced(ctx context.Context, teamID string) ([]AdvancedRow, error) {
	table, err := c.fetchResultSet(ctx, "team_advanced", "boxscoreadvancedv3", url.Values{
		"TeamID": {teamID},
	}, "BoxScoreAdvanced")
	if err != nil {
		return nil, err
	}

	rows := make([]AdvancedRow, 0, len(table.rows))
	for _, row := range table.rows {
		rows = append(rows, AdvancedRow{
			DefensiveRating: table.float(row, "defensiveRating"),
			Pace:            table.float(row, "pace"),
		})
	}
	return rows, nil
}

// TeamFourFactors retrieves a team's four-factors box score rows over
// its recent games
func (c *NBAStatsClient) TeamFourFactors(ctx context.Context, teamID string) ([]FourFactorsRow, error) {
	table, err := c.fetchResultSet(ctx, "team_four_factors", "boxscorefourfactorsv3", url.Values{
		"TeamID": {teamID},
	}, "BoxScoreFourFactors")
	if err != nil {
		return nil, err
	}

	rows := make([]FourFactorsRow, 0, len(table.rows))
	for _, row := range table.rows {
		rows = append(rows, FourFactorsRow{
			OppEFGPct:      table.float(row, "oppEffectiveFieldGoalPercentage"),
			OppTurnoverPct: table.float(row, "oppTeamTurnoverPercentage"),
		})
	}
	return rows, nil
}

// TeamDefensive retrieves a team's defensive box score rows
func (c *NBAStatsClient) TeamDefensive(ctx context.Context, teamID string) ([]DefensiveRow, error) {
	return c.defensiveRows(ctx, "team_defensive", url.Values{"TeamID": {teamID}})
}

// PlayerDefensive retrieves defensive box score rows for one player
func (c *NBAStatsClient) PlayerDefensive(ctx context.Context, playerID string) ([]DefensiveRow, error) {
	return c.defensiveRows(ctx, "player_defensive", url.Values{"PlayerID": {playerID}})
}

func (c *NBAStatsClient) defensiveRows(ctx context.Context, operation string, params url.Values) ([]DefensiveRow, error) {
	table, err := c.fetchResultSet(ctx, operation, "boxscoredefensivev2", params, "BoxScoreDefensive")
	if err != nil {
		return nil, err
	}

	rows := make([]DefensiveRow, 0, len(table.rows))
	for _, row := range table.rows {
		rows = append(rows, DefensiveRow{
			MatchupFGPct: table.float(row, "matchupFieldGoalPercentage"),
			Blocks:       table.float(row, "blocks"),
			Steals:       table.float(row, "steals"),
		})
	}
	return rows, nil
}

// TeamMatchups retrieves positional matchup rows for a team
func (c *NBAStatsClient) TeamMatchups(ctx context.Context, teamID string) ([]MatchupRow, error) {
	table, err := c.fetchResultSet(ctx, "team_matchups", "boxscorematchupsv3", url.Values{
		"TeamID": {teamID},
	}, "BoxScoreMatchups")
	if err != nil {
		return nil, err
	}

	rows := make([]MatchupRow, 0, len(table.rows))
	for _, row := range table.rows {
		rows = append(rows, MatchupRow{
			PositionOffense: table.str(row, "positionOff"),
			PositionDefense: table.str(row, "positionDef"),
			PlayerPoints:    table.float(row, "playerPoints"),
			MatchupAssists:  table.float(row, "matchupAssists"),
			ReboundsTotal:   table.float(row, "reboundsTotal"),
			MatchupFGPct:    table.float(row, "matchupFieldGoalsPercentage"),
		})
	}
	return rows, nil
}

// PlayerTraditional retrieves traditional box score rows for one
// player, oldest first so callers can take the most recent tail
func (c *NBAStatsClient) PlayerTraditional(ctx context.Context, playerID string) ([]TraditionalRow, error) {
	table, err := c.fetchResultSet(ctx, "player_traditional", "boxscoretraditionalv3", url.Values{
		"PlayerID": {playerID},
	}, "BoxScoreTraditional")
	if err != nil {
		return nil, err
	}

	rows := make([]TraditionalRow, 0, len(table.rows))
	for _, row := range table.rows {
		rows = append(rows, TraditionalRow{
			Minutes: table.float(row, "minutes"),
		})
	}
	return rows, nil
}

// Name returns the data source name
func (c *NBAStatsClient) Name() string {
	return "nba_stats"
}

// IsEnabled returns whether this data source is enabled
func (c *NBAStatsClient) IsEnabled() bool {
	return c.enabled
}

// CacheStats exposes response cache hit statistics
func (c *NBAStatsClient) CacheStats() (hits, misses uint64, ratio float64) {
	return c.cache.Stats()
}

// parseGameDate parses the date formats the gamelog endpoint emits.
// Dates arrive upper-cased like "APR 09, 2024".
func parseGameDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty game date")
	}
	normalized := s
	if len(normalized) >= 3 {
		normalized = strings.ToUpper(normalized[:1]) + strings.ToLower(normalized[1:])
	}
	for _, layout := range []string{"Jan 02, 2006", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized game date format: %s", s)
}

// nbaTeams is the league catalog. Team identity is static data, so it
// ships with the client instead of costing a fetch.
var nbaTeams = []CatalogTeam{
	{ID: "1610612737", FullName: "Atlanta Hawks", Abbreviation: "ATL"},
	{ID: "1610612738", FullName: "Boston Celtics", Abbreviation: "BOS"},
	{ID: "1610612751", FullName: "Brooklyn Nets", Abbreviation: "BKN"},
	{ID: "1610612766", FullName: "Charlotte Hornets", Abbreviation: "CHA"},
	{ID: "1610612741", FullName: "Chicago Bulls", Abbreviation: "CHI"},
	{ID: "1610612739", FullName: "Cleveland Cavaliers", Abbreviation: "CLE"},
	{ID: "1610612742", FullName: "Dallas Mavericks", Abbreviation: "DAL"},
	{ID: "1610612743", FullName: "Denver Nuggets", Abbreviation: "DEN"},
	{ID: "1610612765", FullName: "Detroit Pistons", Abbreviation: "DET"},
	{ID: "1610612744", FullName: "Golden State Warriors", Abbreviation: "GSW"},
	{ID: "1610612745", FullName: "Houston Rockets", Abbreviation: "HOU"},
	{ID: "1610612754", FullName: "Indiana Pacers", Abbreviation: "IND"},
	{ID: "1610612746", FullName: "Los Angeles Clippers", Abbreviation: "LAC"},
	{ID: "1610612747", FullName: "Los Angeles Lakers", Abbreviation: "LAL"},
	{ID: "1610612763", FullName: "Memphis Grizzlies", Abbreviation: "MEM"},
	{ID: "1610612748", FullName: "Miami Heat", Abbreviation: "MIA"},
	{ID: "1610612749", FullName: "Milwaukee Bucks", Abbreviation: "MIL"},
	{ID: "1610612750", FullName: "Minnesota Timberwolves", Abbreviation: "MIN"},
	{ID: "1610612740", FullName: "New Orleans Pelicans", Abbreviation: "NOP"},
	{ID: "1610612752", FullName: "New York Knicks", Abbreviation: "NYK"},
	{ID: "1610612760", FullName: "Oklahoma City Thunder", Abbreviation: "OKC"},
	{ID: "1610612753", FullName: "Orlando Magic", Abbreviation: "ORL"},
	{ID: "1610612755", FullName: "Philadelphia 76ers", Abbreviation: "PHI"},
	{ID: "1610612756", FullName: "Phoenix Suns", Abbreviation: "PHX"},
	{ID: "1610612757", FullName: "Portland Trail Blazers", Abbreviation: "POR"},
	{ID: "1610612758", FullName: "Sacramento Kings", Abbreviation: "SAC"},
	{ID: "1610612759", FullName: "San Antonio Spurs", Abbreviation: "SAS"},
	{ID: "1610612761", FullName: "Toronto Raptors", Abbreviation: "TOR"},
	{ID: "1610612762", FullName: "Utah Jazz", Abbreviation: "UTA"},
	{ID: "1610612764", FullName: "Washington Wizards", Abbreviation: "WAS"},
}
