package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOddsClient(t *testing.T, handler http.Handler) *TheOddsAPIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewTheOddsAPIClient(OddsClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Enabled: true,
	}, newTestHTTPClient(), nil)
}

func TestListEventsParsesStubs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sports/basketball_nba/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "us", r.URL.Query().Get("regions"))
		assert.Equal(t, "h2h", r.URL.Query().Get("markets"))
		w.Write([]byte(`[
			{"id": "evt-1", "home_team": "Denver Nuggets", "away_team": "Boston Celtics", "commence_time": "2024-04-09T23:00:00Z"},
			{"id": "evt-2", "home_team": "Miami Heat", "away_team": "New York Knicks", "commence_time": "2024-04-10T00:30:00Z"}
		]`))
	})

	client := newTestOddsClient(t, mux)

	stubs, err := client.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, stubs, 2)
	assert.Equal(t, "evt-1", stubs[0].ID)
	assert.Equal(t, "Boston Celtics", stubs[0].AwayTeam)
}

func TestEventPropsParsesMarkets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sports/basketball_nba/events/evt-1/odds", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "player_points,player_rebounds,player_assists", r.URL.Query().Get("markets"))
		assert.Equal(t, "decimal", r.URL.Query().Get("oddsFormat"))
		w.Write([]byte(`{
			"id": "evt-1",
			"home_team": "Denver Nuggets",
			"away_team": "Boston Celtics",
			"bookmakers": [{
				"key": "draftkings",
				"markets": [{
					"key": "player_points",
					"outcomes": [
						{"name": "Over", "description": "Jayson Tatum", "price": 1.87, "point": 27.5},
						{"name": "Under", "description": "Jayson Tatum", "price": 1.95, "point": 27.5}
					]
				}]
			}]
		}`))
	})

	client := newTestOddsClient(t, mux)

	event, err := client.EventProps(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, event.Bookmakers, 1)

	market := event.Bookmakers[0].Markets[0]
	assert.Equal(t, "player_points", market.Key)
	require.Len(t, market.Outcomes, 2)
	assert.Equal(t, "Jayson Tatum", market.Outcomes[0].Description)
	assert.True(t, market.Outcomes[0].Price.Equal(decimal.NewFromFloat(1.87)))
}

func TestFetchDocumentSkipsFailedEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sports/basketball_nba/events", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "evt-1"}, {"id": "evt-2"}, {"id": "evt-3"}]`))
	})
	mux.HandleFunc("/sports/basketball_nba/events/evt-1/odds", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "evt-1", "bookmakers": []}`))
	})
	mux.HandleFunc("/sports/basketball_nba/events/evt-2/odds", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/sports/basketball_nba/events/evt-3/odds", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "evt-3", "bookmakers": []}`))
	})

	client := newTestOddsClient(t, mux)

	doc, err := client.FetchDocument(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"evt-1", "evt-3"}, doc.EventIDs)
}

func TestOddsClientAuthFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sports/basketball_nba/events", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client := newTestOddsClient(t, mux)

	_, err := client.ListEvents(context.Background())
	require.Error(t, err)

	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeAuthenticationFailed, dsErr.Code)
	assert.Equal(t, "the_odds_api", dsErr.Source)
}

func TestOddsClientDisabled(t *testing.T) {
	client := NewTheOddsAPIClient(OddsClientConfig{Enabled: false}, newTestHTTPClient(), nil)

	_, err := client.ListEvents(context.Background())
	require.Error(t, err)
	assert.False(t, client.IsEnabled())
}
