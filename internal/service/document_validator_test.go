package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/court-vision/internal/datasource"
)

func newTestDocumentValidator() *DocumentValidator {
	return NewDocumentValidator(quietLogger())
}

func TestValidateEvent(t *testing.T) {
	validator := newTestDocumentValidator()

	tests := []struct {
		name        string
		event       *datasource.Event
		expectValid bool
		shouldHave  string // problem substring to check
	}{
		{
			name: "Valid event",
			event: &datasource.Event{
				ID:       "evt-1",
				HomeTeam: "Denver Nuggets",
				AwayTeam: "Boston Celtics",
				Bookmakers: []datasource.Bookmaker{
					{
						Key: "draftkings",
						Markets: []datasource.PropMarket{
							{Key: "player_points", Outcomes: overUnderOutcomes("Nikola Jokic", 26.5)},
						},
					},
				},
			},
			expectValid: true,
		},
		{
			name: "Missing home team",
			event: &datasource.Event{
				ID:       "evt-1",
				AwayTeam: "Boston Celtics",
				Bookmakers: []datasource.Bookmaker{
					{Key: "draftkings"},
				},
			},
			expectValid: false,
			shouldHave:  "home_team is required",
		},
		{
			name: "Missing away team",
			event: &datasource.Event{
				ID:       "evt-1",
				HomeTeam: "Denver Nuggets",
				Bookmakers: []datasource.Bookmaker{
					{Key: "draftkings"},
				},
			},
			expectValid: false,
			shouldHave:  "away_team is required",
		},
		{
			name: "No bookmakers",
			event: &datasource.Event{
				ID:       "evt-1",
				HomeTeam: "Denver Nuggets",
				AwayTeam: "Boston Celtics",
			},
			expectValid: false,
			shouldHave:  "no bookmakers",
		},
		{
			name: "Bookmaker with empty key",
			event: &datasource.Event{
				ID:         "evt-1",
				HomeTeam:   "Denver Nuggets",
				AwayTeam:   "Boston Celtics",
				Bookmakers: []datasource.Bookmaker{{}},
			},
			expectValid: false,
			shouldHave:  "empty key",
		},
		{
			name: "Unsupported market",
			event: &datasource.Event{
				ID:       "evt-1",
				HomeTeam: "Denver Nuggets",
				AwayTeam: "Boston Celtics",
				Bookmakers: []datasource.Bookmaker{
					{
						Key: "draftkings",
						Markets: []datasource.PropMarket{
							{Key: "player_blocks", Outcomes: overUnderOutcomes("Nikola Jokic", 1.5)},
						},
					},
				},
			},
			expectValid: false,
			shouldHave:  `unsupported market "player_blocks"`,
		},
		{
			name: "Outcome with no player name",
			event: &datasource.Event{
				ID:       "evt-1",
				HomeTeam: "Denver Nuggets",
				AwayTeam: "Boston Celtics",
				Bookmakers: []datasource.Bookmaker{
					{
						Key: "draftkings",
						Markets: []datasource.PropMarket{
							{Key: "player_points", Outcomes: overUnderOutcomes("", 26.5)},
						},
					},
				},
			},
			expectValid: false,
			shouldHave:  "no player name",
		},
		{
			name: "Non-positive line",
			event: &datasource.Event{
				ID:       "evt-1",
				HomeTeam: "Denver Nuggets",
				AwayTeam: "Boston Celtics",
				Bookmakers: []datasource.Bookmaker{
					{
						Key: "draftkings",
						Markets: []datasource.PropMarket{
							{Key: "player_points", Outcomes: overUnderOutcomes("Nikola Jokic", 0)},
						},
					},
				},
			},
			expectValid: false,
			shouldHave:  "line for",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := validator.ValidateEvent(tt.event)

			if tt.expectValid {
				require.Empty(t, problems, "expected no problems for valid event")
				return
			}

			require.NotEmpty(t, problems, "expected problems")
			if tt.shouldHave != "" {
				joined := strings.Join(problems, "\n")
				assert.Contains(t, joined, tt.shouldHave)
			}
		})
	}
}

func TestValidateDocumentCountsProblems(t *testing.T) {
	validator := newTestDocumentValidator()

	doc := propsFixture()
	require.Zero(t, validator.ValidateDocument(doc), "fixture document should be clean")

	doc.Skipped = 2
	doc.Add("evt-3", &datasource.Event{
		ID:       "evt-3",
		HomeTeam: "Denver Nuggets",
		Bookmakers: []datasource.Bookmaker{
			{
				Key: "draftkings",
				Markets: []datasource.PropMarket{
					{Key: "player_steals", Outcomes: overUnderOutcomes("Jamal Murray", 1.5)},
				},
			},
		},
	})

	// 2 decode drops + missing away team + unsupported market
	assert.Equal(t, 4, validator.ValidateDocument(doc))
}
