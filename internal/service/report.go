package service

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/court-vision/internal/models"
)

// csvColumns is the exact emitted column order. Downstream sheets key
// on these headers, so the order is part of the output contract.
var csvColumns = []string{
	"player_name",
	"opponent",
	"games_played",
	"minutes",
	"points",
	"rebounds",
	"assists",
	"steals",
	"blocks",
	"turnovers",
	"field_goals_made",
	"field_goals_attempted",
	"three_pointers_made",
	"three_pointers_attempted",
	"free_throws_made",
	"free_throws_attempted",
	"target",
	"market_type",
	"over_probability",
	"under_probability",
	"confidence_score",
	"simulated_avg",
	"simulated_median",
}

// WriteCSVReport writes analyzed rows in run order. Simulation columns
// are rounded to two decimals at emission; summary columns keep their
// upstream one-decimal rounding.
func WriteCSVReport(rows []models.PropRow, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range rows {
		if err := writer.Write(rowRecord(&rows[i])); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func rowRecord(row *models.PropRow) []string {
	return []string{
		row.PlayerName,
		row.Opponent,
		strconv.Itoa(row.GamesPlayed),
		formatFloat(row.Minutes),
		formatFloat(row.Points),
		formatFloat(row.Rebounds),
		formatFloat(row.Assists),
		formatFloat(row.Steals),
		formatFloat(row.Blocks),
		formatFloat(row.Turnovers),
		formatFloat(row.FieldGoalsMade),
		formatFloat(row.FieldGoalsAttempted),
		formatFloat(row.ThreePointersMade),
		formatFloat(row.ThreePointersAttempted),
		formatFloat(row.FreeThrowsMade),
		formatFloat(row.FreeThrowsAttempted),
		formatFloat(row.Target),
		string(row.MarketType),
		formatFloat(round2(row.OverProbability)),
		formatFloat(round2(row.UnderProbability)),
		formatFloat(round2(row.ConfidenceScore)),
		formatFloat(round2(row.SimulatedAvg)),
		formatFloat(round2(row.SimulatedMedian)),
	}
}

// ConsoleReport formats a run's rows for terminal output
func ConsoleReport(rows []models.PropRow) string {
	var builder strings.Builder
	builder.WriteString("Player Prop Analysis\n")
	builder.WriteString("====================\n")
	builder.WriteString(fmt.Sprintf("Rows: %d\n\n", len(rows)))

	for i := range rows {
		row := &rows[i]
		lean := "under"
		if row.OverProbability > row.UnderProbability {
			lean = "over"
		}
		builder.WriteString(fmt.Sprintf(
			"%-28s %-10s line %5.1f  over %5.1f%%  under %5.1f%%  conf %7.2f  lean %s\n",
			row.PlayerName,
			row.MarketType.Stat(),
			row.Target,
			round2(row.OverProbability),
			round2(row.UnderProbability),
			round2(row.ConfidenceScore),
			lean,
		))
	}

	return builder.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
