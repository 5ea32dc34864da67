// Package models defines the domain entities for player prop analysis.
package models

// MarketType represents the statistical category a betting line targets
type MarketType string

const (
	// MarketPoints targets a player's points total
	MarketPoints MarketType = "player_points"
	// MarketRebounds targets a player's total rebounds
	MarketRebounds MarketType = "player_rebounds"
	// MarketAssists targets a player's assists total
	MarketAssists MarketType = "player_assists"
)

// AllMarkets lists every supported prop market in feed order
func AllMarkets() []MarketType {
	return []MarketType{MarketPoints, MarketRebounds, MarketAssists}
}

// ParseMarket converts a feed market key into a MarketType
func ParseMarket(key string) (MarketType, error) {
	switch MarketType(key) {
	case MarketPoints, MarketRebounds, MarketAssists:
		return MarketType(key), nil
	default:
		return "", ErrUnknownMarket
	}
}

// Stat returns the plain stat name behind the market
func (m MarketType) Stat() string {
	switch m {
	case MarketPoints:
		return "points"
	case MarketRebounds:
		return "rebounds"
	case MarketAssists:
		return "assists"
	default:
		return ""
	}
}

// IsValid reports whether the market is one of the supported prop types
func (m MarketType) IsValid() bool {
	switch m {
	case MarketPoints, MarketRebounds, MarketAssists:
		return true
	default:
		return false
	}
}
