package models

// StatSummary represents a player's per-game averages over a bounded
// recent window, optionally restricted to games against one opponent.
// All stat fields are arithmetic means rounded to one decimal place.
type StatSummary struct {
	PlayerName             string  `json:"player_name" validate:"required"`
	Opponent               string  `json:"opponent"`
	GamesPlayed            int     `json:"games_played" validate:"required,gte=1"`
	Minutes                float64 `json:"minutes"`
	Points                 float64 `json:"points"`
	Rebounds               float64 `json:"rebounds"`
	Assists                float64 `json:"assists"`
	Steals                 float64 `json:"steals"`
	Blocks                 float64 `json:"blocks"`
	Turnovers              float64 `json:"turnovers"`
	FieldGoalsMade         float64 `json:"field_goals_made"`
	FieldGoalsAttempted    float64 `json:"field_goals_attempted"`
	ThreePointersMade      float64 `json:"three_pointers_made"`
	ThreePointersAttempted float64 `json:"three_pointers_attempted"`
	FreeThrowsMade         float64 `json:"free_throws_made"`
	FreeThrowsAttempted    float64 `json:"free_throws_attempted"`
}

// IsUsable reports whether the summary rests on at least one game
func (s *StatSummary) IsUsable() bool {
	return s.GamesPlayed >= 1
}

// AverageFor returns the mean behind a prop market
func (s *StatSummary) AverageFor(market MarketType) float64 {
	switch market {
	case MarketPoints:
		return s.Points
	case MarketRebounds:
		return s.Rebounds
	case MarketAssists:
		return s.Assists
	default:
		return 0
	}
}

// SeasonForm represents a player's current-season means with no
// opponent restriction
type SeasonForm struct {
	PlayerName string  `json:"player_name" validate:"required"`
	Points     float64 `json:"points"`
	Rebounds   float64 `json:"rebounds"`
	Assists    float64 `json:"assists"`
}

// AverageFor returns the current-season mean behind a prop market
func (f *SeasonForm) AverageFor(market MarketType) float64 {
	switch market {
	case MarketPoints:
		return f.Points
	case MarketRebounds:
		return f.Rebounds
	case MarketAssists:
		return f.Assists
	default:
		return 0
	}
}
