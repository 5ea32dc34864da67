package models

import "errors"

// Custom errors
var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrNoQualifyingGames = errors.New("no qualifying games found")
	ErrUnknownMarket     = errors.New("unknown market type")
	ErrUnusableSummary   = errors.New("summary has no games")
)

// IsNotFound reports whether the error belongs to the not-found class:
// an unresolvable player or team, or a window with zero qualifying
// games. The batch pipeline drops the affected row and moves on.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrNoQualifyingGames)
}
