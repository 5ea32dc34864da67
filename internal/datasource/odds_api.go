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

	"github.com/shopspring/decimal"

	"github.com/yourusername/court-vision/internal/metrics"
)

const defaultOddsBaseURL = "https://api.the-odds-api.com/v4"

// OddsClientConfig holds settings for the odds client
type OddsClientConfig struct {
	BaseURL string
	APIKey  string
	Sport   string
	Regions string
	Markets []string
	Enabled bool
}

// TheOddsAPIClient implements OddsProvider for the-odds-api.com
type TheOddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	sport      string
	regions    string
	markets    string
	enabled    bool
	logger     *log.Logger
}

// EventStub identifies one upcoming event from the events listing
type EventStub struct {
	ID           string `json:"id"`
	SportKey     string `json:"sport_key"`
	CommenceTime string `json:"commence_time"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
}

// Event is one event's odds payload
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker is one book's markets within an event
type Bookmaker struct {
	Key        string       `json:"key"`
	Title      string       `json:"title"`
	LastUpdate string       `json:"last_update"`
	Markets    []PropMarket `json:"markets"`
}

// PropMarket is one market's priced outcomes
type PropMarket struct {
	Key        string        `json:"key"`
	LastUpdate string        `json:"last_update"`
	Outcomes   []PropOutcome `json:"outcomes"`
}

// PropOutcome is one priced side of a player prop
type PropOutcome struct {
	Name        string          `json:"name"`        // "Over" or "Under"
	Description string          `json:"description"` // player name
	Price       decimal.Decimal `json:"price"`
	Point       float64         `json:"point"` // the line
}

// NewTheOddsAPIClient creates a new odds API client
func NewTheOddsAPIClient(cfg OddsClientConfig, httpClient *RateLimitedHTTPClient, logger *log.Logger) *TheOddsAPIClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOddsBaseURL
	}
	if cfg.Sport == "" {
		cfg.Sport = "basketball_nba"
	}
	if cfg.Regions == "" {
		cfg.Regions = "us"
	}
	if len(cfg.Markets) == 0 {
		cfg.Markets = []string{"player_points", "player_rebounds", "player_assists"}
	}

	return &TheOddsAPIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		sport:      cfg.Sport,
		regions:    cfg.Regions,
		markets:    strings.Join(cfg.Markets, ","),
		enabled:    cfg.Enabled,
		logger:     logger,
	}
}

// ListEvents retrieves the identifiers of today's events
func (c *TheOddsAPIClient) ListEvents(ctx context.Context) ([]EventStub, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	// The market here is arbitrary, the call only lists events
	params := url.Values{
		"apiKey":     {c.apiKey},
		"regions":    {c.regions},
		"markets":    {"h2h"},
		"dateFormat": {"iso"},
		"oddsFormat": {"decimal"},
	}
	requestURL := fmt.Sprintf("%s/sports/%s/events?%s", c.baseURL, c.sport, params.Encode())

	resp, err := c.get(ctx, "list_events", requestURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var stubs []EventStub
	if err := json.NewDecoder(resp.Body).Decode(&stubs); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse events list", err)
	}

	return stubs, nil
}

// EventProps retrieves the player prop markets for one event
func (c *TheOddsAPIClient) EventProps(ctx context.Context, eventID string) (*Event, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	params := url.Values{
		"apiKey":     {c.apiKey},
		"regions":    {c.regions},
		"markets":    {c.markets},
		"oddsFormat": {"decimal"},
	}
	requestURL := fmt.Sprintf("%s/sports/%s/events/%s/odds?%s", c.baseURL, c.sport, eventID, params.Encode())

	resp, err := c.get(ctx, "event_props", requestURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var event Event
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, fmt.Sprintf("failed to parse props for event %s", eventID), err)
	}
	if event.ID == "" {
		event.ID = eventID
	}

	return &event, nil
}

// FetchDocument retrieves today's full props document. Per-event
// failures are logged and skipped so one bad event does not lose the
// slate.
func (c *TheOddsAPIClient) FetchDocument(ctx context.Context) (*PropsDocument, error) {
	stubs, err := c.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	doc := NewPropsDocument()
	for _, stub := range stubs {
		event, err := c.EventProps(ctx, stub.ID)
		if err != nil {
			c.logger.Printf("Failed to fetch props for event %s: %v", stub.ID, err)
			continue
		}
		doc.Add(stub.ID, event)
	}

	c.logger.Printf("Fetched props for %d of %d events", doc.Len(), len(stubs))
	return doc, nil
}

// Ping verifies connectivity and key validity against the sports
// listing, which does not count against the request quota
func (c *TheOddsAPIClient) Ping(ctx context.Context) error {
	if !c.enabled {
		return NewDataSourceError(c.Name(), ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	params := url.Values{"apiKey": {c.apiKey}}
	requestURL := fmt.Sprintf("%s/sports?%s", c.baseURL, params.Encode())

	resp, err := c.get(ctx, "ping", requestURL)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Name returns the data source name
func (c *TheOddsAPIClient) Name() string {
	return "the_odds_api"
}

// IsEnabled returns whether this data source is enabled
func (c *TheOddsAPIClient) IsEnabled() bool {
	return c.enabled
}

// get executes a GET and maps error statuses to data source errors
func (c *TheOddsAPIClient) get(ctx context.Context, operation, requestURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req)
	metrics.ObserveProviderLatency(c.Name(), operation, time.Since(start).Seconds())
	if err != nil {
		metrics.RecordProviderRequest(c.Name(), operation, "error")
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "request failed", err)
	}

	if remaining, err := strconv.ParseFloat(resp.Header.Get("x-requests-remaining"), 64); err == nil {
		metrics.UpdateOddsQuota(remaining)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		metrics.RecordProviderRequest(c.Name(), operation, "success")
		return resp, nil
	case http.StatusUnauthorized:
		resp.Body.Close()
		metrics.RecordProviderRequest(c.Name(), operation, "error")
		return nil, NewDataSourceError(c.Name(), ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		resp.Body.Close()
		metrics.RecordProviderRequest(c.Name(), operation, "error")
		return nil, NewDataSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case http.StatusNotFound:
		resp.Body.Close()
		metrics.RecordProviderRequest(c.Name(), operation, "error")
		return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, "event not found", nil)
	default:
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.RecordProviderRequest(c.Name(), operation, "error")
		return nil, NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}
}
