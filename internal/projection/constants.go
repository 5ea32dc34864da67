// Package projection turns stat summaries into over/under probabilities
// for prop lines, by Monte Carlo simulation or closed-form normal model.
package projection

const (
	// VariationCoefficient estimates a player's game-to-game standard
	// deviation as a share of their average when no empirical deviation
	// is available.
	VariationCoefficient = 0.2

	// ReferenceMinutes is the nightly workload simulations are
	// normalized against.
	ReferenceMinutes = 36.0
)
