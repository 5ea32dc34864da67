package models

// TeamDefense represents an opponent's team-level defensive profile
type TeamDefense struct {
	DefensiveRating  float64 `json:"defensive_rating"`
	OppEFGPct        float64 `json:"opp_efg_pct"`
	OppTurnoverPct   float64 `json:"opp_turnover_pct"`
	Pace             float64 `json:"pace"`
	ContestedShotPct float64 `json:"contested_shots_pct"`
}

// PositionMatchup represents what an opponent concedes to a defensive
// position label
type PositionMatchup struct {
	Position      string  `json:"-"`
	OppAvgAllowed float64 `json:"opp_avg_allowed"`
	OppFGPct      float64 `json:"opp_fg_pct"`
	OppAssists    float64 `json:"opp_ast"`
	OppRebounds   float64 `json:"opp_reb"`
}

// PositionDefense represents what an opponent allows to players at a
// given offensive position, means rounded to one decimal
type PositionDefense struct {
	PointsAllowed   float64 `json:"points_allowed_to_position"`
	AssistsAllowed  float64 `json:"assists_allowed_to_position"`
	ReboundsAllowed float64 `json:"rebounds_allowed_to_position"`
	FGPctAllowed    float64 `json:"fg_pct_allowed_to_position"`
}

// MinutesProjection represents pace-adjusted expected minutes
type MinutesProjection struct {
	AvgMinutes       float64   `json:"avg_minutes"`
	ProjectedMinutes float64   `json:"projected_minutes"`
	LastFiveGames    []float64 `json:"last_5_games"`
}

// InjuredPlayer represents one roster member listed as unavailable
type InjuredPlayer struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"player_name"`
	Position string `json:"position"`
}

// InjuryReport represents the opponent's current availability picture.
// Key defenders are injured forwards and centers.
type InjuryReport struct {
	InjuredCount   int             `json:"injured_count"`
	InjuredPlayers []InjuredPlayer `json:"injured_players"`
	KeyDefenders   []InjuredPlayer `json:"key_defenders"`
}

// HasKeyDefendersOut reports whether any forward or center is unavailable
func (r *InjuryReport) HasKeyDefendersOut() bool {
	return len(r.KeyDefenders) > 0
}

// DefenderProfile represents the combined defensive stats of the
// opponent players who guard a position
type DefenderProfile struct {
	MatchupFGPct float64 `json:"primary_defender_rating"`
	Blocks       float64 `json:"defender_blocks"`
	Steals       float64 `json:"defender_steals"`
	HealthFactor float64 `json:"defender_status"`
}

// MatchupContext bundles the situational signals for a player against
// an opponent. Every field is optional; a nil member means that
// sub-fetch failed and the signal is simply absent.
type MatchupContext struct {
	Defense         *TeamDefense       `json:"defensive_stats,omitempty"`
	PositionSplits  *PositionMatchup   `json:"position_matchup_stats,omitempty"`
	PositionDefense *PositionDefense   `json:"position_defense,omitempty"`
	Minutes         *MinutesProjection `json:"minutes_projection,omitempty"`
	Injuries        *InjuryReport      `json:"injury_report,omitempty"`
	PrimaryDefender *DefenderProfile   `json:"primary_defender,omitempty"`
}

// IsEmpty reports whether every sub-fetch failed
func (m *MatchupContext) IsEmpty() bool {
	return m.Defense == nil && m.PositionSplits == nil && m.PositionDefense == nil &&
		m.Minutes == nil && m.Injuries == nil && m.PrimaryDefender == nil
}
