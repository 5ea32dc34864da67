// Package service orchestrates the analysis pipeline: extracting prop
// targets from an odds document, summarizing and simulating each one,
// and reporting the results.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-vision/internal/aggregator"
	"github.com/yourusername/court-vision/internal/datasource"
	"github.com/yourusername/court-vision/internal/logger"
	"github.com/yourusername/court-vision/internal/matchup"
	"github.com/yourusername/court-vision/internal/metrics"
	"github.com/yourusername/court-vision/internal/models"
	"github.com/yourusername/court-vision/internal/projection"
)

// BatchService analyzes every unique (player, market) target in a
// props document: summarize the player against the event opponent,
// simulate the line and merge the outcome into a result row.
type BatchService struct {
	stats      datasource.StatsProvider
	aggregator *aggregator.Aggregator
	engine     *projection.Engine
	rater      *projection.Rater
	matchups   *matchup.Builder
	window     aggregator.Window
	bookmakers []string
	audit      *logger.AuditLogger
	logger     *logrus.Logger
	metrics    *RunMetrics
}

// NewBatchService creates a batch analysis service. bookmakers is the
// allow-list of bookmaker keys whose lines are considered.
func NewBatchService(
	stats datasource.StatsProvider,
	agg *aggregator.Aggregator,
	engine *projection.Engine,
	rater *projection.Rater,
	matchups *matchup.Builder,
	window aggregator.Window,
	bookmakers []string,
	baseLogger *logrus.Logger,
) *BatchService {
	if len(bookmakers) == 0 {
		bookmakers = []string{"draftkings"}
	}

	return &BatchService{
		stats:      stats,
		aggregator: agg,
		engine:     engine,
		rater:      rater,
		matchups:   matchups,
		window:     window,
		bookmakers: bookmakers,
		audit:      logger.NewAuditLogger(baseLogger),
		logger:     baseLogger,
		metrics:    NewRunMetrics(),
	}
}

// Run analyzes a props document and returns the result rows in
// document order. Targets whose player or game window cannot be found
// are dropped silently; any other per-target failure is logged and
// skipped. One bad target never aborts the run.
func (s *BatchService) Run(ctx context.Context, doc *datasource.PropsDocument) ([]models.PropRow, error) {
	return s.run(ctx, doc, "")
}

// RunFile loads a props document from disk, runs the batch and writes
// the CSV report
func (s *BatchService) RunFile(ctx context.Context, propsPath, outputPath string) error {
	doc, err := datasource.LoadDocument(propsPath)
	if err != nil {
		return fmt.Errorf("loading props document: %w", err)
	}

	rows, err := s.run(ctx, doc, propsPath)
	if err != nil {
		return err
	}

	if err := WriteCSVReport(rows, outputPath); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	s.logger.Infof("Wrote %d rows to %s", len(rows), outputPath)
	return nil
}

func (s *BatchService) run(ctx context.Context, doc *datasource.PropsDocument, origin string) ([]models.PropRow, error) {
	runID := uuid.New()
	start := time.Now()
	s.metrics.Reset()

	s.audit.LogRunStart(runID, origin, doc.Len(), s.bookmakers)

	targets := s.extractTargets(doc)
	s.metrics.SetScope(doc.Len(), len(targets))
	s.logger.Infof("Batch run %s: %d events, %d unique targets", runID, doc.Len(), len(targets))

	rows := make([]models.PropRow, 0, len(targets))
	skipped := 0
	for i := range targets {
		target := &targets[i]

		if err := ctx.Err(); err != nil {
			metrics.RecordRunCancelled()
			return rows, fmt.Errorf("batch run interrupted: %w", err)
		}

		row, rating, err := s.analyzeTarget(ctx, target)
		if err != nil {
			skipped++
			if models.IsNotFound(err) {
				s.audit.LogRowSkipped(runID, target.PlayerName, string(target.Market), "not_found")
				s.metrics.RecordNotFound()
				metrics.RecordRowSkipped("not_found")
			} else {
				s.logger.WithError(err).Warnf("Failed to analyze %s %s", target.PlayerName, target.Market)
				s.audit.LogRowSkipped(runID, target.PlayerName, string(target.Market), "error")
				s.metrics.RecordError()
				metrics.RecordRowSkipped("error")
			}
			continue
		}

		rows = append(rows, *row)
		s.metrics.RecordRow()
		metrics.RecordRowEmitted()
		s.audit.LogRowEmitted(runID, row.PlayerName, string(row.MarketType), row.Target,
			row.OverProbability, row.UnderProbability, row.ConfidenceScore, rating)
	}

	duration := time.Since(start)
	s.metrics.SetDuration(duration)
	metrics.RecordRunCompleted(len(rows), duration.Seconds(), float64(time.Now().Unix()))

	s.audit.LogRunComplete(runID, len(rows), skipped, duration)
	s.logger.Infof("Batch run %s complete: %s", runID, s.metrics)

	return rows, nil
}

// extractTargets walks the document in event order and collects one
// target per (player, market) key. The first line seen for a key wins;
// later lines for the same pair are duplicates across bookmakers or
// the over/under sides of the same market.
func (s *BatchService) extractTargets(doc *datasource.PropsDocument) []models.PropTarget {
	allowed := make(map[string]bool, len(s.bookmakers))
	for _, key := range s.bookmakers {
		allowed[key] = true
	}

	seen := make(map[string]bool)
	var targets []models.PropTarget

	for _, eventID := range doc.EventIDs {
		event, ok := doc.Get(eventID)
		if !ok {
			continue
		}
		// Players on both sides are analyzed against the away team.
		opponent := event.AwayTeam

		for _, bookmaker := range event.Bookmakers {
			if !allowed[bookmaker.Key] {
				continue
			}
			for _, market := range bookmaker.Markets {
				marketType, err := models.ParseMarket(market.Key)
				if err != nil {
					s.logger.Debugf("Skipping unsupported market %q in event %s", market.Key, eventID)
					continue
				}
				for _, outcome := range market.Outcomes {
					if outcome.Description == "" {
						continue
					}
					target := models.PropTarget{
						PlayerName: outcome.Description,
						Opponent:   opponent,
						Market:     marketType,
						Line:       outcome.Point,
						Bookmaker:  bookmaker.Key,
					}
					if seen[target.Key()] {
						continue
					}
					seen[target.Key()] = true
					targets = append(targets, target)
				}
			}
		}
	}

	return targets
}

// analyzeTarget runs the full analysis for one target and returns the
// result row plus its 0..1 sample-quality rating
func (s *BatchService) analyzeTarget(ctx context.Context, target *models.PropTarget) (*models.PropRow, float64, error) {
	summary, lines, err := s.aggregator.Summarize(ctx, target.PlayerName, s.window, target.Opponent)
	if err != nil {
		return nil, 0, err
	}

	proj, err := s.engine.Simulate(summary, target.Line, target.Market)
	if err != nil {
		return nil, 0, err
	}

	mc := s.buildContext(ctx, target)
	var report *models.InjuryReport
	if mc != nil {
		report = mc.Injuries
	}
	rating := s.rater.RateForMarket(lines, target.Market, report)

	s.logBlendedProbability(ctx, target, lines)

	row := models.NewPropRow(*summary, *target, *proj)
	return &row, rating, nil
}

// buildContext assembles the matchup context for a target. Context is
// advisory: any failure degrades to nil rather than failing the row.
func (s *BatchService) buildContext(ctx context.Context, target *models.PropTarget) *models.MatchupContext {
	if s.matchups == nil {
		return nil
	}

	team, err := s.stats.ResolveTeam(ctx, target.Opponent)
	if err != nil {
		s.logger.WithError(err).Debugf("No matchup context for %s", target.PlayerName)
		return nil
	}

	mc := s.matchups.Build(ctx, target.PlayerName, team.ID)
	if mc.IsEmpty() {
		return nil
	}

	fields := logrus.Fields{
		"player":   target.PlayerName,
		"opponent": target.Opponent,
	}
	if mc.Minutes != nil {
		fields["projected_minutes"] = mc.Minutes.ProjectedMinutes
	}
	if mc.Injuries != nil {
		fields["opponent_injuries"] = mc.Injuries.InjuredCount
		fields["key_defenders_out"] = len(mc.Injuries.KeyDefenders)
	}
	s.logger.WithFields(fields).Debug("Matchup context assembled")

	return mc
}

// logBlendedProbability compares the opponent-specific history blended
// with current season form against the line. The blend feeds the audit
// trail only; the emitted row keeps the simulation numbers.
func (s *BatchService) logBlendedProbability(ctx context.Context, target *models.PropTarget, lines []models.GameLine) {
	form, err := s.aggregator.CurrentSeasonForm(ctx, target.PlayerName)
	if err != nil {
		s.logger.WithError(err).Debugf("No current season form for %s", target.PlayerName)
		return
	}

	histMean, histStd := projection.MarketMeanStd(lines, target.Market)
	over, under := projection.CombinedOverUnder(histMean, histStd, form.AverageFor(target.Market), target.Line)

	s.logger.WithFields(logrus.Fields{
		"player":        target.PlayerName,
		"market":        string(target.Market),
		"line":          target.Line,
		"blended_over":  over,
		"blended_under": under,
	}).Debug("Blended season probability")
}

// Metrics returns the most recent run's counters
func (s *BatchService) Metrics() *RunMetrics {
	return s.metrics
}
