package projection

import (
	"math"
	"time"

	"github.com/yourusername/court-vision/internal/models"
)

// Confidence rating weights. Sample size and consistency dominate;
// recency and defender health refine.
const (
	sampleSizeWeight  = 0.3
	consistencyWeight = 0.3
	recencyWeight     = 0.2
	defenderWeight    = 0.2

	// fullSampleGames is the window size at which the sample factor
	// saturates.
	fullSampleGames = 10.0
)

// RecencyScorer weighs how fresh the sampled games are, 0..1
type RecencyScorer interface {
	Score(gameDates []time.Time) float64
}

// DefenderHealthScorer weighs the availability of the key defenders
// expected to contest the player, 0..1
type DefenderHealthScorer interface {
	Score(keyDefenders []models.InjuredPlayer) float64
}

// NeutralRecency treats every sample as fully fresh
type NeutralRecency struct{}

// Score returns the neutral weight
func (NeutralRecency) Score([]time.Time) float64 { return 1.0 }

// NeutralDefenderHealth treats the defensive matchup as fully healthy
type NeutralDefenderHealth struct{}

// Score returns the neutral weight
func (NeutralDefenderHealth) Score([]models.InjuredPlayer) float64 { return 1.0 }

// ConfidenceInput carries the sample shape behind a projection
type ConfidenceInput struct {
	Games        int
	Mean         float64
	StdDev       float64
	GameDates    []time.Time
	KeyDefenders []models.InjuredPlayer
}

// Rater combines sample quality factors into a 0..1 confidence rating
type Rater struct {
	Recency        RecencyScorer
	DefenderHealth DefenderHealthScorer
}

// NewRater creates a rater with the neutral scorers
func NewRater() *Rater {
	return &Rater{
		Recency:        NeutralRecency{},
		DefenderHealth: NeutralDefenderHealth{},
	}
}

// Rate scores how much weight a projection deserves. Consistency may go
// negative for wildly swinging samples; only the final rating is
// clamped to [0, 1].
func (r *Rater) Rate(in ConfidenceInput) float64 {
	sampleFactor := math.Min(float64(in.Games)/fullSampleGames, 1)

	consistencyFactor := 0.0
	if in.Mean != 0 {
		consistencyFactor = 1 - in.StdDev/in.Mean
	}

	recencyFactor := r.Recency.Score(in.GameDates)
	defenderFactor := r.DefenderHealth.Score(in.KeyDefenders)

	confidence := sampleFactor*sampleSizeWeight +
		consistencyFactor*consistencyWeight +
		recencyFactor*recencyWeight +
		defenderFactor*defenderWeight

	return math.Min(math.Max(confidence, 0), 1)
}

// MarketMeanStd returns the mean and population standard deviation of
// one market's stat across a game window
func MarketMeanStd(lines []models.GameLine, market models.MarketType) (mean, std float64) {
	values := make([]float64, len(lines))
	for i := range lines {
		values[i] = lines[i].StatFor(market)
	}
	return meanStd(values)
}

// RateForMarket builds the rating input from a sampled game window and
// an opponent injury report, which may be nil.
func (r *Rater) RateForMarket(lines []models.GameLine, market models.MarketType, report *models.InjuryReport) float64 {
	dates := make([]time.Time, len(lines))
	for i := range lines {
		dates[i] = lines[i].GameDate
	}
	mean, std := MarketMeanStd(lines, market)

	var defenders []models.InjuredPlayer
	if report != nil {
		defenders = report.KeyDefenders
	}

	return r.Rate(ConfidenceInput{
		Games:        len(lines),
		Mean:         mean,
		StdDev:       std,
		GameDates:    dates,
		KeyDefenders: defenders,
	})
}
