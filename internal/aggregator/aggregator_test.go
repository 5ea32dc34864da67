package aggregator

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/court-vision/internal/datasource"
	"github.com/yourusername/court-vision/internal/models"
)

// fakeStats serves canned catalog and game log data and records which
// seasons were requested.
type fakeStats struct {
	players map[string]*datasource.CatalogPlayer
	teams   map[string]*datasource.CatalogTeam
	logs    map[string][]models.GameLine // keyed playerID|season
	logErrs map[string]error             // keyed season
	fetched []string
}

func (f *fakeStats) ResolvePlayer(_ context.Context, fullName string) (*datasource.CatalogPlayer, error) {
	if p, ok := f.players[strings.ToLower(fullName)]; ok {
		return p, nil
	}
	return nil, datasource.NewDataSourceError("fake", datasource.ErrCodeNotFound,
		"player not in catalog", models.ErrPlayerNotFound)
}

func (f *fakeStats) ResolveTeam(_ context.Context, fullName string) (*datasource.CatalogTeam, error) {
	if t, ok := f.teams[strings.ToLower(fullName)]; ok {
		return t, nil
	}
	return nil, datasource.NewDataSourceError("fake", datasource.ErrCodeNotFound,
		"team not in catalog", models.ErrTeamNotFound)
}

func (f *fakeStats) Teams(context.Context) ([]datasource.CatalogTeam, error) { return nil, nil }

func (f *fakeStats) GameLog(_ context.Context, playerID, season string) ([]models.GameLine, error) {
	f.fetched = append(f.fetched, season)
	if err, ok := f.logErrs[season]; ok {
		return nil, err
	}
	return f.logs[playerID+"|"+season], nil
}

func (f *fakeStats) TeamRoster(context.Context, string) ([]datasource.RosterMember, error) {
	return nil, nil
}

func (f *fakeStats) PlayerProfile(context.Context, string) (*datasource.PlayerProfile, error) {
	return nil, nil
}

func (f *fakeStats) TeamAdvanced(context.Context, string) ([]datasource.AdvancedRow, error) {
	return nil, nil
}

func (f *fakeStats) TeamFourFactors(context.Context, string) ([]datasource.FourFactorsRow, error) {
	return nil, nil
}

func (f *fakeStats) TeamDefensive(context.Context, string) ([]datasource.DefensiveRow, error) {
	return nil, nil
}

func (f *fakeStats) PlayerDefensive(context.Context, string) ([]datasource.DefensiveRow, error) {
	return nil, nil
}

func (f *fakeStats) TeamMatchups(context.Context, string) ([]datasource.MatchupRow, error) {
	return nil, nil
}

func (f *fakeStats) PlayerTraditional(context.Context, string) ([]datasource.TraditionalRow, error) {
	return nil, nil
}

func (f *fakeStats) Name() string    { return "fake" }
func (f *fakeStats) IsEnabled() bool { return true }

func newFakeStats() *fakeStats {
	return &fakeStats{
		players: map[string]*datasource.CatalogPlayer{
			"nikola jokic": {ID: "203999", FullName: "Nikola Jokic", Active: true},
		},
		teams: map[string]*datasource.CatalogTeam{
			"boston celtics": {ID: "1610612738", FullName: "Boston Celtics", Abbreviation: "BOS"},
		},
		logs:    map[string][]models.GameLine{},
		logErrs: map[string]error{},
	}
}

func newTestAggregator(provider datasource.StatsProvider) *Aggregator {
	logger := log.New(os.Stderr, "aggregator-test: ", log.LstdFlags)
	return New(provider, 2025, 0, logger)
}

func lineOn(year int, month time.Month, day int, matchup string, points float64) models.GameLine {
	return models.GameLine{
		GameID:   time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format("20060102"),
		GameDate: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Matchup:  matchup,
		Minutes:  34.0,
		Points:   points,
		Rebounds: 10.0,
		Assists:  8.0,
	}
}

func TestSummarizeTakesNewestGamesAcrossSeasons(t *testing.T) {
	fake := newFakeStats()

	var current []models.GameLine
	for day := 1; day <= 8; day++ {
		current = append(current, lineOn(2025, time.March, day, "DEN vs. BOS", 20.0))
	}
	current = append(current, lineOn(2025, time.March, 20, "DEN vs. LAL", 50.0))
	fake.logs["203999|2024-25"] = current

	var prior []models.GameLine
	for day := 1; day <= 5; day++ {
		prior = append(prior, lineOn(2024, time.January, day, "DEN @ BOS", 30.0))
	}
	fake.logs["203999|2023-24"] = prior

	agg := newTestAggregator(fake)
	summary, lines, err := agg.Summarize(context.Background(), "Nikola Jokic", DefaultWindow(), "Boston Celtics")
	require.NoError(t, err)

	// Thirteen qualifying games; the window keeps the ten newest: all
	// eight current-season games plus the two most recent prior ones.
	assert.Equal(t, 10, summary.GamesPlayed)
	assert.InDelta(t, 22.0, summary.Points, 1e-9)
	assert.Equal(t, "Nikola Jokic", summary.PlayerName)
	assert.Equal(t, "Boston Celtics", summary.Opponent)

	require.Len(t, lines, 10)
	for i := 1; i < len(lines); i++ {
		assert.False(t, lines[i].GameDate.After(lines[i-1].GameDate), "lines must be newest first")
	}

	assert.Equal(t, []string{"2024-25", "2023-24", "2022-23", "2021-22"}, fake.fetched)
}

func TestSummarizeFiltersByMatchup(t *testing.T) {
	fake := newFakeStats()
	fake.logs["203999|2024-25"] = []models.GameLine{
		lineOn(2025, time.February, 1, "DEN vs. BOS", 28.0),
		lineOn(2025, time.February, 3, "DEN @ LAL", 40.0),
		lineOn(2025, time.February, 5, "DEN @ BOS", 32.0),
	}

	agg := newTestAggregator(fake)
	summary, _, err := agg.Summarize(context.Background(), "Nikola Jokic", DefaultWindow(), "Boston Celtics")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.GamesPlayed)
	assert.InDelta(t, 30.0, summary.Points, 1e-9)
}

func TestSummarizeRoundsMeans(t *testing.T) {
	fake := newFakeStats()
	fake.logs["203999|2024-25"] = []models.GameLine{
		lineOn(2025, time.February, 1, "DEN vs. BOS", 11.0),
		lineOn(2025, time.February, 3, "DEN vs. BOS", 12.0),
		lineOn(2025, time.February, 5, "DEN vs. BOS", 14.0),
	}

	agg := newTestAggregator(fake)
	summary, _, err := agg.Summarize(context.Background(), "Nikola Jokic", DefaultWindow(), "Boston Celtics")
	require.NoError(t, err)

	// 37/3 rounds to one decimal.
	assert.Equal(t, 12.3, summary.Points)
	assert.Equal(t, 34.0, summary.Minutes)
	assert.Equal(t, 10.0, summary.Rebounds)
}

func TestSummarizeUnknownPlayer(t *testing.T) {
	agg := newTestAggregator(newFakeStats())

	_, _, err := agg.Summarize(context.Background(), "No Such Player", DefaultWindow(), "Boston Celtics")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrPlayerNotFound)
	assert.True(t, models.IsNotFound(err))
}

func TestSummarizeUnknownOpponent(t *testing.T) {
	agg := newTestAggregator(newFakeStats())

	_, _, err := agg.Summarize(context.Background(), "Nikola Jokic", DefaultWindow(), "Seattle SuperSonics")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTeamNotFound)
}

func TestSummarizeSkipsFailedSeasons(t *testing.T) {
	fake := newFakeStats()
	fake.logErrs["2024-25"] = datasource.NewDataSourceError("fake", datasource.ErrCodeServerError,
		"upstream 500", datasource.ErrServerError)
	fake.logs["203999|2023-24"] = []models.GameLine{
		lineOn(2024, time.January, 10, "DEN vs. BOS", 26.0),
	}

	agg := newTestAggregator(fake)
	summary, _, err := agg.Summarize(context.Background(), "Nikola Jokic", DefaultWindow(), "Boston Celtics")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.GamesPlayed)
	assert.Equal(t, 26.0, summary.Points)
	assert.Len(t, fake.fetched, 4)
}

func TestSummarizeNoQualifyingGames(t *testing.T) {
	fake := newFakeStats()
	fake.logs["203999|2024-25"] = []models.GameLine{
		lineOn(2025, time.February, 3, "DEN @ LAL", 40.0),
	}

	agg := newTestAggregator(fake)
	_, _, err := agg.Summarize(context.Background(), "Nikola Jokic", DefaultWindow(), "Boston Celtics")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoQualifyingGames)
	assert.True(t, models.IsNotFound(err))
}

func TestSummarizeAllSeasonsFailingIsNotFound(t *testing.T) {
	fake := newFakeStats()
	for _, season := range []string{"2024-25", "2023-24", "2022-23", "2021-22"} {
		fake.logErrs[season] = datasource.ErrServerError
	}

	agg := newTestAggregator(fake)
	_, _, err := agg.Summarize(context.Background(), "Nikola Jokic", DefaultWindow(), "Boston Celtics")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoQualifyingGames)
}

func TestSummarizeCancelledContext(t *testing.T) {
	fake := newFakeStats()
	agg := newTestAggregator(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := agg.Summarize(ctx, "Nikola Jokic", DefaultWindow(), "Boston Celtics")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, models.IsNotFound(err))
}

func TestCurrentSeasonForm(t *testing.T) {
	fake := newFakeStats()
	fake.logs["203999|2024-25"] = []models.GameLine{
		lineOn(2025, time.February, 1, "DEN vs. BOS", 10.0),
		lineOn(2025, time.February, 3, "DEN @ LAL", 11.0),
		lineOn(2025, time.February, 5, "DEN vs. PHX", 11.0),
	}

	agg := newTestAggregator(fake)
	form, err := agg.CurrentSeasonForm(context.Background(), "Nikola Jokic")
	require.NoError(t, err)

	// Form means stay unrounded and ignore the opponent entirely.
	assert.InDelta(t, 32.0/3.0, form.Points, 1e-9)
	assert.InDelta(t, 10.0, form.Rebounds, 1e-9)
	assert.InDelta(t, 8.0, form.Assists, 1e-9)
	assert.Equal(t, []string{"2024-25"}, fake.fetched)
}

func TestCurrentSeasonFormNoGames(t *testing.T) {
	agg := newTestAggregator(newFakeStats())

	_, err := agg.CurrentSeasonForm(context.Background(), "Nikola Jokic")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoQualifyingGames)
}
