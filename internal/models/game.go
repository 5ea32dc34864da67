package models

import (
	"strings"
	"time"
)

// GameLine represents one game's counting stats for one player.
// Lines are immutable once fetched from the stats provider.
type GameLine struct {
	GameID                 string    `json:"game_id"`
	GameDate               time.Time `json:"game_date" validate:"required"`
	Matchup                string    `json:"matchup"`
	Minutes                float64   `json:"minutes" validate:"gte=0"`
	Points                 float64   `json:"points" validate:"gte=0"`
	Rebounds               float64   `json:"rebounds" validate:"gte=0"`
	Assists                float64   `json:"assists" validate:"gte=0"`
	Steals                 float64   `json:"steals" validate:"gte=0"`
	Blocks                 float64   `json:"blocks" validate:"gte=0"`
	Turnovers              float64   `json:"turnovers" validate:"gte=0"`
	FieldGoalsMade         float64   `json:"field_goals_made" validate:"gte=0"`
	FieldGoalsAttempted    float64   `json:"field_goals_attempted" validate:"gte=0"`
	ThreePointersMade      float64   `json:"three_pointers_made" validate:"gte=0"`
	ThreePointersAttempted float64   `json:"three_pointers_attempted" validate:"gte=0"`
	FreeThrowsMade         float64   `json:"free_throws_made" validate:"gte=0"`
	FreeThrowsAttempted    float64   `json:"free_throws_attempted" validate:"gte=0"`
}

// Against reports whether the game was played against the given team
// abbreviation. Matchup strings look like "LAL vs. BOS" or "LAL @ BOS".
func (g *GameLine) Against(abbreviation string) bool {
	if abbreviation == "" {
		return false
	}
	return strings.Contains(g.Matchup, abbreviation)
}

// StatFor returns the counting stat behind a prop market
func (g *GameLine) StatFor(market MarketType) float64 {
	switch market {
	case MarketPoints:
		return g.Points
	case MarketRebounds:
		return g.Rebounds
	case MarketAssists:
		return g.Assists
	default:
		return 0
	}
}
