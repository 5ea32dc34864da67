package models

import "fmt"

// PropTarget represents a single bookmaker line for one (player, market) pair
type PropTarget struct {
	PlayerName string     `json:"player_name" validate:"required"`
	Opponent   string     `json:"opponent"`
	Market     MarketType `json:"market_type" validate:"required"`
	Line       float64    `json:"line" validate:"gte=0"`
	Bookmaker  string     `json:"bookmaker"`
}

// Key returns the deduplication key for a batch run. The first target
// seen for a key wins; later lines for the same player and market are
// skipped.
func (t *PropTarget) Key() string {
	return fmt.Sprintf("%s_%s", t.PlayerName, t.Market)
}
