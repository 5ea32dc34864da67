// Package matchup assembles the situational context for a player
// against one opponent: team defense, positional splits, projected
// minutes, injuries and the likely primary defender.
package matchup

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/yourusername/court-vision/internal/datasource"
	"github.com/yourusername/court-vision/internal/models"
)

// Builder fetches and combines matchup signals. Every sub-block is
// fetched independently; a failed fetch logs a warning and leaves the
// corresponding field nil instead of aborting the build.
type Builder struct {
	provider datasource.StatsProvider
	logger   *log.Logger
}

// NewBuilder creates a matchup context builder
func NewBuilder(provider datasource.StatsProvider, logger *log.Logger) *Builder {
	return &Builder{
		provider: provider,
		logger:   logger,
	}
}

// Build assembles the matchup context for a player facing the given
// opponent. The result is never nil; check IsEmpty when every signal
// is required.
func (b *Builder) Build(ctx context.Context, playerName, opponentTeamID string) *models.MatchupContext {
	mc := &models.MatchupContext{}

	playerID, position := b.identify(ctx, playerName)

	mc.Defense = b.teamDefense(ctx, opponentTeamID)
	mc.Injuries = b.injuryReport(ctx, opponentTeamID)

	if playerID != "" {
		mc.Minutes = b.projectedMinutes(ctx, playerID, opponentTeamID)
	}

	if position != "" {
		mc.PositionSplits = b.positionMatchup(ctx, opponentTeamID, position)
		mc.PositionDefense = b.positionDefense(ctx, opponentTeamID, position)
		mc.PrimaryDefender = b.primaryDefender(ctx, opponentTeamID, position)
	}

	return mc
}

// identify resolves the player and their primary position. Either value
// may come back empty; dependent blocks are simply skipped.
func (b *Builder) identify(ctx context.Context, playerName string) (playerID, position string) {
	player, err := b.provider.ResolvePlayer(ctx, playerName)
	if err != nil {
		b.logger.Printf("Failed to resolve player %q for matchup context: %v", playerName, err)
		return "", ""
	}

	profile, err := b.provider.PlayerProfile(ctx, player.ID)
	if err != nil {
		b.logger.Printf("Failed to fetch profile for player %s: %v", player.ID, err)
		return player.ID, ""
	}

	return player.ID, PrimaryPosition(profile.Position)
}

// PrimaryPosition reduces a compound position label like "G-F" to its
// leading component
func PrimaryPosition(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	return strings.SplitN(label, "-", 2)[0]
}

// teamDefense combines the opponent's advanced, four-factors and
// defensive box score rows into one team-level profile
func (b *Builder) teamDefense(ctx context.Context, teamID string) *models.TeamDefense {
	advanced, err := b.provider.TeamAdvanced(ctx, teamID)
	if err != nil {
		b.logger.Printf("Failed to fetch advanced rows for team %s: %v", teamID, err)
		return nil
	}

	factors, err := b.provider.TeamFourFactors(ctx, teamID)
	if err != nil {
		b.logger.Printf("Failed to fetch four-factors rows for team %s: %v", teamID, err)
		return nil
	}

	defensive, err := b.provider.TeamDefensive(ctx, teamID)
	if err != nil {
		b.logger.Printf("Failed to fetch defensive rows for team %s: %v", teamID, err)
		return nil
	}

	if len(advanced) == 0 || len(factors) == 0 || len(defensive) == 0 {
		return nil
	}

	profile := &models.TeamDefense{}
	for _, row := range advanced {
		profile.DefensiveRating += row.DefensiveRating
		profile.Pace += row.Pace
	}
	profile.DefensiveRating /= float64(len(advanced))
	profile.Pace /= float64(len(advanced))

	for _, row := range factors {
		profile.OppEFGPct += row.OppEFGPct
		profile.OppTurnoverPct += row.OppTurnoverPct
	}
	profile.OppEFGPct /= float64(len(factors))
	profile.OppTurnoverPct /= float64(len(factors))

	for _, row := range defensive {
		profile.ContestedShotPct += row.MatchupFGPct
	}
	profile.ContestedShotPct /= float64(len(defensive))

	return profile
}

// positionMatchup aggregates what the opponent's defenders at the
// player's position give up, means unrounded
func (b *Builder) positionMatchup(ctx context.Context, teamID, position string) *models.PositionMatchup {
	rows, err := b.provider.TeamMatchups(ctx, teamID)
	if err != nil {
		b.logger.Printf("Failed to fetch matchup rows for team %s: %v", teamID, err)
		return nil
	}

	var kept []datasource.MatchupRow
	for _, row := range rows {
		if row.PositionDefense == position {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	split := &models.PositionMatchup{Position: position}
	for _, row := range kept {
		split.OppAvgAllowed += row.PlayerPoints
		split.OppFGPct += row.MatchupFGPct
		split.OppAssists += row.MatchupAssists
		split.OppRebounds += row.ReboundsTotal
	}
	n := float64(len(kept))
	split.OppAvgAllowed /= n
	split.OppFGPct /= n
	split.OppAssists /= n
	split.OppRebounds /= n

	return split
}

// positionDefense aggregates what the opponent allows to offensive
// players at the position, means rounded to one decimal
func (b *Builder) positionDefense(ctx context.Context, teamID, position string) *models.PositionDefense {
	rows, err := b.provider.TeamMatchups(ctx, teamID)
	if err != nil {
		b.logger.Printf("Failed to fetch matchup rows for team %s: %v", teamID, err)
		return nil
	}

	var kept []datasource.MatchupRow
	for _, row := range rows {
		if row.PositionOffense == position {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	defense := &models.PositionDefense{}
	for _, row := range kept {
		defense.PointsAllowed += row.PlayerPoints
		defense.AssistsAllowed += row.MatchupAssists
		defense.ReboundsAllowed += row.ReboundsTotal
		defense.FGPctAllowed += row.MatchupFGPct
	}
	n := float64(len(kept))
	defense.PointsAllowed = round1(defense.PointsAllowed / n)
	defense.AssistsAllowed = round1(defense.AssistsAllowed / n)
	defense.ReboundsAllowed = round1(defense.ReboundsAllowed / n)
	defense.FGPctAllowed = round1(defense.FGPctAllowed / n)

	return defense
}

// projectedMinutes scales the player's recent minutes by the opponent's
// pace. Traditional rows arrive oldest first, so the window is the tail.
func (b *Builder) projectedMinutes(ctx context.Context, playerID, opponentTeamID string) *models.MinutesProjection {
	rows, err := b.provider.PlayerTraditional(ctx, playerID)
	if err != nil {
		b.logger.Printf("Failed to fetch traditional rows for player %s: %v", playerID, err)
		return nil
	}

	advanced, err := b.provider.TeamAdvanced(ctx, opponentTeamID)
	if err != nil {
		b.logger.Printf("Failed to fetch advanced rows for team %s: %v", opponentTeamID, err)
		return nil
	}

	if len(rows) == 0 || len(advanced) == 0 {
		return nil
	}

	var pace float64
	for _, row := range advanced {
		pace += row.Pace
	}
	pace /= float64(len(advanced))

	start := len(rows) - 5
	if start < 0 {
		start = 0
	}
	window := rows[start:]

	projection := &models.MinutesProjection{
		LastFiveGames: make([]float64, 0, len(window)),
	}
	for _, row := range window {
		projection.AvgMinutes += row.Minutes
		projection.LastFiveGames = append(projection.LastFiveGames, row.Minutes)
	}
	projection.AvgMinutes /= float64(len(window))
	projection.ProjectedMinutes = projection.AvgMinutes * pace / 100

	return projection
}

// injuryReport lists roster members whose status is anything but
// Active. Key defenders are injured pure forwards and centers.
func (b *Builder) injuryReport(ctx context.Context, teamID string) *models.InjuryReport {
	roster, err := b.provider.TeamRoster(ctx, teamID)
	if err != nil {
		b.logger.Printf("Failed to fetch roster for team %s: %v", teamID, err)
		return nil
	}

	report := &models.InjuryReport{}
	for _, member := range roster {
		profile, err := b.provider.PlayerProfile(ctx, member.PlayerID)
		if err != nil {
			b.logger.Printf("Failed to fetch profile for roster member %s: %v", member.PlayerID, err)
			continue
		}
		if profile.RosterStatus == "Active" {
			continue
		}

		injured := models.InjuredPlayer{
			PlayerID: member.PlayerID,
			Name:     member.Name,
			Position: member.Position,
		}
		report.InjuredPlayers = append(report.InjuredPlayers, injured)
		if member.Position == "F" || member.Position == "C" {
			report.KeyDefenders = append(report.KeyDefenders, injured)
		}
	}
	report.InjuredCount = len(report.InjuredPlayers)

	return report
}

// primaryDefender combines the defensive box score rows of the roster
// members who guard the player's position, means rounded to one decimal
func (b *Builder) primaryDefender(ctx context.Context, teamID, position string) *models.DefenderProfile {
	roster, err := b.provider.TeamRoster(ctx, teamID)
	if err != nil {
		b.logger.Printf("Failed to fetch roster for team %s: %v", teamID, err)
		return nil
	}

	var combined []datasource.DefensiveRow
	for _, member := range roster {
		if !strings.Contains(member.Position, position) {
			continue
		}
		rows, err := b.provider.PlayerDefensive(ctx, member.PlayerID)
		if err != nil {
			b.logger.Printf("Failed to fetch defensive rows for player %s: %v", member.PlayerID, err)
			continue
		}
		combined = append(combined, rows...)
	}
	if len(combined) == 0 {
		return nil
	}

	profile := &models.DefenderProfile{HealthFactor: 1.0}
	for _, row := range combined {
		profile.MatchupFGPct += row.MatchupFGPct
		profile.Blocks += row.Blocks
		profile.Steals += row.Steals
	}
	n := float64(len(combined))
	profile.MatchupFGPct = round1(profile.MatchupFGPct / n)
	profile.Blocks = round1(profile.Blocks / n)
	profile.Steals = round1(profile.Steals / n)

	return profile
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
