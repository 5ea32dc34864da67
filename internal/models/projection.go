package models

// Projection represents the outcome of one Monte Carlo run against a
// target line. Over and under probabilities are percentages and always
// sum to exactly 100 for valid input. The impact fields are fixed
// placeholders reserved for matchup-derived multipliers.
type Projection struct {
	OverProbability       float64 `json:"over_probability"`
	UnderProbability      float64 `json:"under_probability"`
	ConfidenceScore       float64 `json:"confidence_score"`
	SimulatedAvg          float64 `json:"simulated_avg"`
	SimulatedMedian       float64 `json:"simulated_median"`
	PositionDefenseImpact float64 `json:"position_defense_impact"`
	TeamDefenseImpact     float64 `json:"team_defense_impact"`
	DefenderImpact        float64 `json:"defender_impact"`
	PaceImpact            float64 `json:"pace_impact"`
	InjuryImpact          float64 `json:"injury_impact"`
}

// IsDegenerate reports whether the projection came from unusable input
// (zero or non-finite base average). Degenerate projections carry zeros
// everywhere.
func (p *Projection) IsDegenerate() bool {
	return p.OverProbability == 0 && p.UnderProbability == 0
}

// Lean returns the side the simulation favors
func (p *Projection) Lean() string {
	if p.OverProbability > p.UnderProbability {
		return "over"
	}
	return "under"
}
