package projection

import "math"

// OverUnder returns over/under chances for a target line as percentages
// rounded to one decimal place, using a normal model around the
// average. A nil stdDev falls back to VariationCoefficient times the
// average. The pair always sums to exactly 100: the under side is
// computed and the over side derived from it after rounding.
func OverUnder(average, target float64, stdDev *float64) (over, under float64) {
	sd := average * VariationCoefficient
	if stdDev != nil {
		sd = *stdDev
	}

	if sd == 0 {
		if target > average {
			return 0, 100
		}
		return 100, 0
	}

	z := (target - average) / sd
	under = round1(normalCDF(z) * 100)
	over = round1(100 - under)
	return over, under
}

// CombinedOverUnder blends the opponent-specific history with the
// current season form and returns over/under probabilities in [0, 1].
// The historical deviation is taken as representative of the blend.
func CombinedOverUnder(historicalMean, historicalStdDev, seasonMean, target float64) (over, under float64) {
	combinedMean := (historicalMean + seasonMean) / 2

	if historicalStdDev == 0 {
		if target > combinedMean {
			return 0, 1
		}
		return 1, 0
	}

	z := (target - combinedMean) / historicalStdDev
	under = normalCDF(z)
	over = 1 - under
	return over, under
}

// normalCDF is the standard normal cumulative distribution function
func normalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
