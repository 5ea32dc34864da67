package projection

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/court-vision/internal/models"
)

// Config configures the Monte Carlo engine
type Config struct {
	Trials int
	Seed   int64
}

// Engine runs Monte Carlo projections of player props. An engine with a
// fixed seed reproduces its draws exactly; a zero seed draws a fresh
// one per engine.
type Engine struct {
	trials int
	rng    *rand.Rand
}

// NewEngine creates a Monte Carlo engine
func NewEngine(cfg Config) *Engine {
	if cfg.Trials <= 0 {
		cfg.Trials = 10000
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Engine{
		trials: cfg.Trials,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Simulate projects a player's chance of clearing the target line for
// one market. Draws are normal around the summary's market average with
// a deviation of VariationCoefficient times that average, then scaled
// by the player's minutes share of ReferenceMinutes. A zero or
// non-finite base average yields an all-zero projection.
func (e *Engine) Simulate(summary *models.StatSummary, target float64, market models.MarketType) (*models.Projection, error) {
	if !market.IsValid() {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownMarket, market)
	}

	baseAvg := summary.AverageFor(market)
	if baseAvg <= 0 || math.IsInf(baseAvg, 0) || math.IsNaN(baseAvg) {
		return &models.Projection{}, nil
	}

	stdDev := baseAvg * VariationCoefficient
	minutesFactor := summary.Minutes / ReferenceMinutes

	outcomes := make([]float64, e.trials)
	overCount := 0
	for i := range outcomes {
		outcome := (e.rng.NormFloat64()*stdDev + baseAvg) * minutesFactor
		outcomes[i] = outcome
		if outcome > target {
			overCount++
		}
	}

	overProb := float64(overCount) / float64(e.trials) * 100
	underProb := float64(e.trials-overCount) / float64(e.trials) * 100

	mean, std := meanStd(outcomes)
	variance := std * std
	confidence := 100 * (1 - variance/(baseAvg*baseAvg))

	return &models.Projection{
		OverProbability:       overProb,
		UnderProbability:      underProb,
		ConfidenceScore:       confidence,
		SimulatedAvg:          mean,
		SimulatedMedian:       median(outcomes),
		PositionDefenseImpact: 100.0,
		TeamDefenseImpact:     100.0,
		DefenderImpact:        100.0,
		PaceImpact:            100.0,
		InjuryImpact:          100.0,
	}, nil
}

// Trials returns the number of draws per simulation
func (e *Engine) Trials() int {
	return e.trials
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
