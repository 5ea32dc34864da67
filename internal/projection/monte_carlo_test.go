package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/yourusername/court-vision/internal/models"
)

func fullWindowSummary(points float64) *models.StatSummary {
	return &models.StatSummary{
		PlayerName:  "Test Player",
		Opponent:    "Boston Celtics",
		GamesPlayed: 10,
		Minutes:     36.0,
		Points:      points,
		Rebounds:    8.0,
		Assists:     6.5,
	}
}

func TestSimulateProbabilitiesSumToHundred(t *testing.T) {
	engine := NewEngine(Config{Trials: 10000, Seed: 42})

	proj, err := engine.Simulate(fullWindowSummary(25.0), 24.5, models.MarketPoints)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	sum := proj.OverProbability + proj.UnderProbability
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("probabilities sum to %v, want 100", sum)
	}
	if proj.OverProbability <= 0 || proj.OverProbability >= 100 {
		t.Fatalf("over probability %v out of open range", proj.OverProbability)
	}
}

func TestSimulateTracksNormalModel(t *testing.T) {
	engine := NewEngine(Config{Trials: 10000, Seed: 7})

	// Line half a point under the average, full minutes. The normal
	// model puts the over chance near 54%.
	proj, err := engine.Simulate(fullWindowSummary(25.0), 24.5, models.MarketPoints)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if proj.OverProbability < 50 || proj.OverProbability > 58 {
		t.Fatalf("over probability %v outside expected band", proj.OverProbability)
	}
	if math.Abs(proj.SimulatedAvg-25.0) > 0.3 {
		t.Fatalf("simulated average %v too far from base", proj.SimulatedAvg)
	}
	if math.Abs(proj.SimulatedMedian-25.0) > 0.3 {
		t.Fatalf("simulated median %v too far from base", proj.SimulatedMedian)
	}

	// Population variance of the draws is near (0.2 * base)^2, so the
	// confidence score lands near 96.
	if math.Abs(proj.ConfidenceScore-96.0) > 1.0 {
		t.Fatalf("confidence score %v outside expected band", proj.ConfidenceScore)
	}
}

func TestSimulateScalesByMinutes(t *testing.T) {
	engine := NewEngine(Config{Trials: 10000, Seed: 11})

	summary := fullWindowSummary(25.0)
	summary.Minutes = 18.0 // half the reference workload

	proj, err := engine.Simulate(summary, 20.0, models.MarketPoints)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if math.Abs(proj.SimulatedAvg-12.5) > 0.2 {
		t.Fatalf("simulated average %v, want near 12.5", proj.SimulatedAvg)
	}
	if proj.OverProbability > 5 {
		t.Fatalf("over probability %v, want near zero for a line far above the scaled average", proj.OverProbability)
	}
}

func TestSimulateDeterministicWithSeed(t *testing.T) {
	first, err := NewEngine(Config{Trials: 5000, Seed: 99}).Simulate(fullWindowSummary(25.0), 26.5, models.MarketPoints)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	second, err := NewEngine(Config{Trials: 5000, Seed: 99}).Simulate(fullWindowSummary(25.0), 26.5, models.MarketPoints)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if *first != *second {
		t.Fatalf("same seed produced different projections: %+v vs %+v", first, second)
	}
}

func TestSimulateMonotoneInTarget(t *testing.T) {
	low, err := NewEngine(Config{Trials: 10000, Seed: 5}).Simulate(fullWindowSummary(25.0), 22.5, models.MarketPoints)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	high, err := NewEngine(Config{Trials: 10000, Seed: 5}).Simulate(fullWindowSummary(25.0), 28.5, models.MarketPoints)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if high.OverProbability > low.OverProbability {
		t.Fatalf("raising the line raised the over chance: %v -> %v", low.OverProbability, high.OverProbability)
	}
}

func TestSimulateDegenerateBase(t *testing.T) {
	engine := NewEngine(Config{Trials: 1000, Seed: 1})

	summary := fullWindowSummary(0)
	proj, err := engine.Simulate(summary, 10.5, models.MarketPoints)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if !proj.IsDegenerate() {
		t.Fatalf("expected degenerate projection, got %+v", proj)
	}
	zero := models.Projection{}
	if *proj != zero {
		t.Fatalf("degenerate projection must be all zeros, got %+v", proj)
	}
}

func TestSimulateValidPathCarriesPlaceholderImpacts(t *testing.T) {
	engine := NewEngine(Config{Trials: 1000, Seed: 1})

	proj, err := engine.Simulate(fullWindowSummary(25.0), 24.5, models.MarketPoints)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	for name, impact := range map[string]float64{
		"position defense": proj.PositionDefenseImpact,
		"team defense":     proj.TeamDefenseImpact,
		"defender":         proj.DefenderImpact,
		"pace":             proj.PaceImpact,
		"injury":           proj.InjuryImpact,
	} {
		if impact != 100.0 {
			t.Fatalf("%s impact = %v, want 100", name, impact)
		}
	}
}

func TestSimulateRejectsUnknownMarket(t *testing.T) {
	engine := NewEngine(Config{Trials: 1000, Seed: 1})

	_, err := engine.Simulate(fullWindowSummary(25.0), 24.5, models.MarketType("player_threes"))
	if !errors.Is(err, models.ErrUnknownMarket) {
		t.Fatalf("expected unknown market error, got %v", err)
	}
}

func TestSimulateUsesMarketAverage(t *testing.T) {
	engine := NewEngine(Config{Trials: 10000, Seed: 3})

	summary := fullWindowSummary(25.0)
	proj, err := engine.Simulate(summary, 7.5, models.MarketRebounds)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if math.Abs(proj.SimulatedAvg-8.0) > 0.2 {
		t.Fatalf("simulated average %v, want near the rebound average", proj.SimulatedAvg)
	}
}

func TestMedian(t *testing.T) {
	if got := median([]float64{3, 1, 2}); got != 2 {
		t.Fatalf("odd median = %v, want 2", got)
	}
	if got := median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Fatalf("even median = %v, want 2.5", got)
	}
	if got := median(nil); got != 0 {
		t.Fatalf("empty median = %v, want 0", got)
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 {
		t.Fatalf("mean = %v, want 5", mean)
	}
	if std != 2 {
		t.Fatalf("std = %v, want 2", std)
	}

	mean, std = meanStd(nil)
	if mean != 0 || std != 0 {
		t.Fatalf("empty meanStd = %v, %v", mean, std)
	}
}
