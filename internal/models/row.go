package models

// PropRow represents one emitted result for a unique (player, market)
// pair: the stat summary joined with the target line and the simulation
// outcome. Rows are created once per batch run and never updated.
type PropRow struct {
	StatSummary
	Target           float64    `json:"target"`
	MarketType       MarketType `json:"market_type"`
	OverProbability  float64    `json:"over_probability"`
	UnderProbability float64    `json:"under_probability"`
	ConfidenceScore  float64    `json:"confidence_score"`
	SimulatedAvg     float64    `json:"simulated_avg"`
	SimulatedMedian  float64    `json:"simulated_median"`
}

// NewPropRow merges a summary, its target and a projection into a row.
// The projection's impact placeholders intentionally do not flow into
// the output shape.
func NewPropRow(summary StatSummary, target PropTarget, projection Projection) PropRow {
	return PropRow{
		StatSummary:      summary,
		Target:           target.Line,
		MarketType:       target.Market,
		OverProbability:  projection.OverProbability,
		UnderProbability: projection.UnderProbability,
		ConfidenceScore:  projection.ConfidenceScore,
		SimulatedAvg:     projection.SimulatedAvg,
		SimulatedMedian:  projection.SimulatedMedian,
	}
}
