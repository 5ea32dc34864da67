// Package aggregator builds bounded-window stat summaries from provider
// game logs, walking recent seasons most recent first.
package aggregator

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/yourusername/court-vision/internal/datasource"
	"github.com/yourusername/court-vision/internal/models"
)

const (
	// DefaultNumGames is the size of the recent-window a summary rests on
	DefaultNumGames = 10
	// DefaultNumSeasons bounds how far back the season walk reaches
	DefaultNumSeasons = 4
)

// Window bounds how much history a summary may draw on
type Window struct {
	NumGames   int
	NumSeasons int
}

// DefaultWindow returns the standard ten-game, four-season window
func DefaultWindow() Window {
	return Window{NumGames: DefaultNumGames, NumSeasons: DefaultNumSeasons}
}

// Aggregator summarizes player performance against a given opponent
type Aggregator struct {
	provider      datasource.StatsProvider
	limiter       *rate.Limiter
	currentSeason int
	logger        *log.Logger
}

// New creates an aggregator. currentSeason is the end year of the season
// in progress (2025 for 2024-25). fetchDelay paces consecutive game log
// fetches; zero disables pacing.
func New(provider datasource.StatsProvider, currentSeason int, fetchDelay time.Duration, logger *log.Logger) *Aggregator {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if fetchDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(fetchDelay), 1)
	}

	return &Aggregator{
		provider:      provider,
		limiter:       limiter,
		currentSeason: currentSeason,
		logger:        logger,
	}
}

// Summarize computes a player's per-game means over their most recent
// games against one opponent, searching backwards season by season. The
// returned lines are the games behind the summary, newest first.
// An unresolvable player or a window with zero qualifying games yields a
// not-found class error; an unresolvable opponent is a plain error.
func (a *Aggregator) Summarize(ctx context.Context, playerName string, window Window, opponent string) (*models.StatSummary, []models.GameLine, error) {
	if window.NumGames <= 0 {
		window.NumGames = DefaultNumGames
	}
	if window.NumSeasons <= 0 {
		window.NumSeasons = DefaultNumSeasons
	}

	player, err := a.provider.ResolvePlayer(ctx, playerName)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving player %q: %w", playerName, err)
	}

	team, err := a.provider.ResolveTeam(ctx, opponent)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving opponent %q: %w", opponent, err)
	}

	lines, err := a.collectAgainst(ctx, player.ID, team.Abbreviation, window.NumSeasons)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("%w: %s against %s", models.ErrNoQualifyingGames, playerName, team.Abbreviation)
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].GameDate.After(lines[j].GameDate)
	})
	if len(lines) > window.NumGames {
		lines = lines[:window.NumGames]
	}

	return buildSummary(playerName, opponent, lines), lines, nil
}

// collectAgainst walks the season range newest first and keeps games
// whose matchup string names the opponent. A failed season fetch is
// logged and skipped; only context cancellation aborts the walk.
func (a *Aggregator) collectAgainst(ctx context.Context, playerID, abbreviation string, numSeasons int) ([]models.GameLine, error) {
	var collected []models.GameLine

	for i := 0; i < numSeasons; i++ {
		season := models.SeasonString(a.currentSeason - i)

		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("season walk interrupted: %w", err)
		}

		lines, err := a.provider.GameLog(ctx, playerID, season)
		if err != nil {
			a.logger.Printf("Failed to fetch %s game log for player %s: %v", season, playerID, err)
			continue
		}

		for _, line := range lines {
			if line.Against(abbreviation) {
				collected = append(collected, line)
			}
		}
	}

	return collected, nil
}

// CurrentSeasonForm computes a player's current-season scoring means
// with no opponent restriction
func (a *Aggregator) CurrentSeasonForm(ctx context.Context, playerName string) (*models.SeasonForm, error) {
	player, err := a.provider.ResolvePlayer(ctx, playerName)
	if err != nil {
		return nil, fmt.Errorf("resolving player %q: %w", playerName, err)
	}

	season := models.SeasonString(a.currentSeason)

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("season walk interrupted: %w", err)
	}

	lines, err := a.provider.GameLog(ctx, player.ID, season)
	if err != nil {
		return nil, fmt.Errorf("fetching %s game log: %w", season, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %s has no games in %s", models.ErrNoQualifyingGames, playerName, season)
	}

	n := float64(len(lines))
	form := &models.SeasonForm{PlayerName: playerName}
	for i := range lines {
		form.Points += lines[i].Points
		form.Rebounds += lines[i].Rebounds
		form.Assists += lines[i].Assists
	}
	form.Points /= n
	form.Rebounds /= n
	form.Assists /= n

	return form, nil
}

// buildSummary computes per-stat means rounded to one decimal
func buildSummary(playerName, opponent string, lines []models.GameLine) *models.StatSummary {
	n := float64(len(lines))
	mean := func(pick func(*models.GameLine) float64) float64 {
		var total float64
		for i := range lines {
			total += pick(&lines[i])
		}
		return round1(total / n)
	}

	return &models.StatSummary{
		PlayerName:             playerName,
		Opponent:               opponent,
		GamesPlayed:            len(lines),
		Minutes:                mean(func(g *models.GameLine) float64 { return g.Minutes }),
		Points:                 mean(func(g *models.GameLine) float64 { return g.Points }),
		Rebounds:               mean(func(g *models.GameLine) float64 { return g.Rebounds }),
		Assists:                mean(func(g *models.GameLine) float64 { return g.Assists }),
		Steals:                 mean(func(g *models.GameLine) float64 { return g.Steals }),
		Blocks:                 mean(func(g *models.GameLine) float64 { return g.Blocks }),
		Turnovers:              mean(func(g *models.GameLine) float64 { return g.Turnovers }),
		FieldGoalsMade:         mean(func(g *models.GameLine) float64 { return g.FieldGoalsMade }),
		FieldGoalsAttempted:    mean(func(g *models.GameLine) float64 { return g.FieldGoalsAttempted }),
		ThreePointersMade:      mean(func(g *models.GameLine) float64 { return g.ThreePointersMade }),
		ThreePointersAttempted: mean(func(g *models.GameLine) float64 { return g.ThreePointersAttempted }),
		FreeThrowsMade:         mean(func(g *models.GameLine) float64 { return g.FreeThrowsMade }),
		FreeThrowsAttempted:    mean(func(g *models.GameLine) float64 { return g.FreeThrowsAttempted }),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
