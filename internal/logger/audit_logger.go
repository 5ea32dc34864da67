// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for batch analysis runs.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRunStart logs the beginning of a batch analysis run.
func (al *AuditLogger) LogRunStart(runID uuid.UUID, propsPath string, events int, bookmakers []string) {
	al.WithFields(logrus.Fields{
		"run_id":     runID.String(),
		"props_path": propsPath,
		"events":     events,
		"bookmakers": bookmakers,
	}).Info("Batch run started")
}

// LogRowEmitted logs one emitted result row. confidence is the
// simulation confidence score, rating the 0..1 sample-quality rating.
func (al *AuditLogger) LogRowEmitted(runID uuid.UUID, player, market string, line, overPct, underPct, confidence, rating float64) {
	al.WithFields(logrus.Fields{
		"run_id":     runID.String(),
		"player":     player,
		"market":     market,
		"line":       line,
		"over_pct":   overPct,
		"under_pct":  underPct,
		"confidence": confidence,
		"rating":     rating,
	}).Info("Row emitted")
}

// LogRowSkipped logs a (player, market) tuple dropped from the run.
func (al *AuditLogger) LogRowSkipped(runID uuid.UUID, player, market, reason string) {
	al.WithFields(logrus.Fields{
		"run_id": runID.String(),
		"player": player,
		"market": market,
		"reason": reason,
	}).Warn("Row skipped")
}

// LogProviderFailure logs a failed call to an external data provider.
func (al *AuditLogger) LogProviderFailure(source, operation string, err error) {
	al.WithFields(logrus.Fields{
		"source":    source,
		"operation": operation,
		"error":     err.Error(),
	}).Warn("Provider call failed")
}

// LogRunComplete logs the end of a batch run with its outcome counts.
func (al *AuditLogger) LogRunComplete(runID uuid.UUID, rows, skipped int, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"run_id":      runID.String(),
		"rows":        rows,
		"skipped":     skipped,
		"duration_ms": duration.Milliseconds(),
	}).Info("Batch run complete")
}
